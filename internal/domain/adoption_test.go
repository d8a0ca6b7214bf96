package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusOf(t *testing.T) {
	yes, no := true, false
	assert.Equal(t, StatusPending, StatusOf(nil))
	assert.Equal(t, StatusApproved, StatusOf(&yes))
	assert.Equal(t, StatusDenied, StatusOf(&no))
}

func TestParseStatus(t *testing.T) {
	s, err := ParseStatus("rejected")
	assert.NoError(t, err)
	assert.Equal(t, StatusDenied, s)

	s, err = ParseStatus("")
	assert.NoError(t, err)
	assert.Equal(t, StatusAll, s)

	_, err = ParseStatus("maybe")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestUserFullName(t *testing.T) {
	assert.Equal(t, "Alice Smith", User{FirstName: "Alice", LastName: "Smith"}.FullName())
	assert.Equal(t, "alice", User{Email: "alice@x.com"}.FullName())
}

package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRequestKey(t *testing.T) {
	k, err := ParseRequestKey("u-1_d-2")
	require.NoError(t, err)
	assert.Equal(t, RequestKey{UserID: "u-1", DogID: "d-2"}, k)
	assert.Equal(t, "u-1_d-2", k.String())
}

func TestParseRequestKeyRejectsAmbiguousIDs(t *testing.T) {
	for _, in := range []string{"", "u1", "_d1", "u1_", "a_b_c"} {
		_, err := ParseRequestKey(in)
		assert.ErrorIs(t, err, ErrValidation, in)
	}
}

func TestValidID(t *testing.T) {
	assert.True(t, ValidID("0b5c0f8e-2c1a-4c53-9d3a-5f7c1c2a9e11"))
	assert.False(t, ValidID("has_underscore"))
	assert.False(t, ValidID(""))
}

package response

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvelope(t *testing.T) {
	b, err := json.Marshal(OK(nil))
	require.NoError(t, err)
	assert.JSONEq(t, `{"code":0,"msg":"OK","data":{}}`, string(b))

	e := Error(CodeConflict, "")
	assert.Equal(t, "Conflict", e.Msg)
	assert.Equal(t, "dog is taken", Error(CodeConflict, "dog is taken").Msg)
}

func TestHTTPStatus(t *testing.T) {
	assert.Equal(t, 200, HTTPStatus(CodeOK))
	assert.Equal(t, 409, HTTPStatus(CodeConflict))
	assert.Equal(t, 500, HTTPStatus(799))
}

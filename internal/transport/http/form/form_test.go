package form

import (
	"bytes"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"doggy-rescue/internal/domain"
)

func ctxFor(req *http.Request) *gin.Context {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = req
	return c
}

func TestCheckboxSemantics(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("isVaccinated=false&hasKids=&dogName=Rex"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	v, err := Parse(ctxFor(req), 1<<20)
	require.NoError(t, err)

	// presence means true, whatever the value
	assert.True(t, v.Checked("isVaccinated"))
	assert.True(t, v.Checked("hasKids"))
	assert.False(t, v.Checked("isSterilized"))

	assert.Equal(t, "Rex", v.String("dogName"))
	assert.Nil(t, v.Optional("dogAge"))
	require.NotNil(t, v.Optional("hasKids"))
}

func TestJSONBody(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"dogName":"Rex","dogAge":3.5,"isVaccinated":true,"isSterilized":false,"latitude":null}`))
	req.Header.Set("Content-Type", "application/json")
	v, err := Parse(ctxFor(req), 1<<20)
	require.NoError(t, err)
	assert.Equal(t, "3.5", v.String("dogAge"))
	assert.True(t, v.Checked("isVaccinated"))
	assert.False(t, v.Checked("isSterilized"))
	assert.Nil(t, v.Optional("latitude"))

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{`))
	req.Header.Set("Content-Type", "application/json")
	_, err = Parse(ctxFor(req), 1<<20)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestMultipartFile(t *testing.T) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("dogName", "Rex"))
	fw, err := mw.CreateFormFile("dogPhoto", "rex.png")
	require.NoError(t, err)
	_, _ = fw.Write([]byte("fake-png"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	v, err := Parse(ctxFor(req), 1<<20)
	require.NoError(t, err)
	assert.Equal(t, "Rex", v.String("dogName"))

	img, closeFn, err := v.File("dogPhoto")
	require.NoError(t, err)
	defer closeFn()
	require.NotNil(t, img)
	b, err := io.ReadAll(img.Body)
	require.NoError(t, err)
	assert.Equal(t, "fake-png", string(b))

	none, closeNone, err := v.File("userPhoto")
	require.NoError(t, err)
	closeNone()
	assert.Nil(t, none)
}

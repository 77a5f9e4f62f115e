package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kingnahee2-droid/CareWell/internal/error/code"
)

func newContext() (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	return c, w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestOK_AddsOkFlag(t *testing.T) {
	c, w := newContext()
	OK(c, gin.H{"id": 3})

	assert.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, true, body["ok"])
	assert.Equal(t, float64(3), body["id"])
}

func TestError_MapsBusinessCode(t *testing.T) {
	c, w := newContext()
	Error(c, code.New(code.ErrOTPExpired))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "otp_expired", decode(t, w)["error"])
}

func TestError_PlainErrorIsDBError(t *testing.T) {
	c, w := newContext()
	Error(c, errors.New("boom"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "db_error", decode(t, w)["error"])
}

func TestUnauthorized_Aborts(t *testing.T) {
	c, w := newContext()
	Unauthorized(c)

	assert.True(t, c.IsAborted())
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"error":"unauthorized"}`, w.Body.String())
}

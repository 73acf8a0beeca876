package response

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSON_Success(t *testing.T) {
	w := httptest.NewRecorder()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	JSON(w, http.StatusOK, OK(map[string]string{"status": "ok"}), logger)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json; charset=utf-8", w.Header().Get("Content-Type"))

	var result map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))

	assert.Equal(t, float64(Version), result["v"])
	assert.Equal(t, true, result["success"])
	assert.Equal(t, map[string]any{"status": "ok"}, result["data"])
	assert.NotContains(t, result, "error")
}

func TestNotFound(t *testing.T) {
	w := httptest.NewRecorder()

	NotFound(w, "route not found", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)

	var result Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))

	assert.False(t, result.Success)
	assert.Nil(t, result.Data)
	require.NotNil(t, result.Error)
	assert.Equal(t, "NOT_FOUND", result.Error.Code)
	assert.Equal(t, "route not found", result.Error.Message)
}

func TestOK_EmptySliceIsKept(t *testing.T) {
	data, err := json.Marshal(OK([]string{}))
	require.NoError(t, err)

	assert.JSONEq(t, `{"v":1,"success":true,"data":[]}`, string(data))
}

func TestFail_Details(t *testing.T) {
	data, err := json.Marshal(Fail("VALIDATION", "validation failed", map[string]string{"name": "required"}))
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"v": 1,
		"success": false,
		"error": {"code": "VALIDATION", "message": "validation failed", "details": {"name": "required"}}
	}`, string(data))
}

func TestMethodNotAllowed(t *testing.T) {
	w := httptest.NewRecorder()

	MethodNotAllowed(w, "method not allowed", nil)

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	assert.Contains(t, w.Body.String(), `"METHOD_NOT_ALLOWED"`)
}

//go:build unit

package middleware_test

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"medrecords-gateway/internal/handler/httperr"
	"medrecords-gateway/internal/handler/middleware"
	"medrecords-gateway/internal/pkg/errs"
	httptestutil "medrecords-gateway/tests/common/httptest"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturedBody struct {
	raw      []byte
	hasRaw   bool
	parsed   any
	parseErr error
	rebound  []byte
}

func newRawBodyRouter(maxBytes int64, got *capturedBody) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/hook", middleware.RawBodyCapture(maxBytes), func(c *gin.Context) {
		got.raw, got.hasRaw = middleware.GetRawBody(c)
		got.parsed, got.parseErr = middleware.GetParsedBody(c)
		got.rebound, _ = c.GetRawData()
		c.Status(http.StatusNoContent)
	})
	return r
}

func postBody(r *gin.Engine, contentType string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/hook", bytes.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRawBodyCapture(t *testing.T) {
	t.Run("JSON: バイト列をそのまま保持しパースも行う", func(t *testing.T) {
		var got capturedBody
		r := newRawBodyRouter(1<<20, &got)
		body := []byte("{\"type\" : \"document.signed\",\n \"n\": 1}\n")

		w := postBody(r, "application/json; charset=utf-8", body)

		require.Equal(t, http.StatusNoContent, w.Code)
		require.True(t, got.hasRaw)
		assert.Equal(t, body, got.raw)
		assert.Equal(t, body, got.rebound, "body must stay readable downstream")
		require.NoError(t, got.parseErr)
		assert.Equal(t, map[string]any{"type": "document.signed", "n": float64(1)}, got.parsed)
	})

	t.Run("壊れたJSONはパースエラーを記録して続行", func(t *testing.T) {
		var got capturedBody
		r := newRawBodyRouter(1<<20, &got)

		w := postBody(r, "application/json", []byte(`{"type":`))

		require.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, []byte(`{"type":`), got.raw)
		assert.True(t, errs.Is(got.parseErr, middleware.ErrBodyNotJSON))
		assert.Nil(t, got.parsed)
	})

	t.Run("text/plainは文字列として公開", func(t *testing.T) {
		var got capturedBody
		r := newRawBodyRouter(1<<20, &got)

		w := postBody(r, "text/plain", []byte("hello"))

		require.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, []byte("hello"), got.raw)
		assert.Equal(t, "hello", got.parsed)
	})

	t.Run("対象外のContent-Typeはバッファしない", func(t *testing.T) {
		var got capturedBody
		r := newRawBodyRouter(1<<20, &got)

		w := postBody(r, "application/octet-stream", []byte{0x01, 0x02})

		require.Equal(t, http.StatusNoContent, w.Code)
		assert.False(t, got.hasRaw)
	})

	t.Run("+json接尾辞とContent-Type省略はJSONとして扱う", func(t *testing.T) {
		body := []byte(`{"type":"document.signed"}`)
		for _, ct := range []string{"application/cloudevents+json", "application/vnd.clinic.event+json; charset=utf-8", ""} {
			var got capturedBody
			r := newRawBodyRouter(1<<20, &got)

			w := postBody(r, ct, body)

			require.Equal(t, http.StatusNoContent, w.Code, "content type %q", ct)
			assert.Equal(t, body, got.raw, "content type %q", ct)
			require.NoError(t, got.parseErr, "content type %q", ct)
			assert.Equal(t, map[string]any{"type": "document.signed"}, got.parsed, "content type %q", ct)
		}
	})

	t.Run("解釈できないContent-Typeや+json以外の接尾辞はバッファしない", func(t *testing.T) {
		for _, ct := range []string{"application/soap+xml", "text/json+x", "application/json; charset=\"utf"} {
			var got capturedBody
			r := newRawBodyRouter(1<<20, &got)

			w := postBody(r, ct, []byte(`{}`))

			require.Equal(t, http.StatusNoContent, w.Code, "content type %q", ct)
			assert.False(t, got.hasRaw, "content type %q", ct)
		}
	})

	t.Run("上限超過は413", func(t *testing.T) {
		var got capturedBody
		r := newRawBodyRouter(16, &got)

		w := postBody(r, "application/json", []byte(`{"padding":"`+strings.Repeat("x", 64)+`"}`))

		httptestutil.AssertErrorResponse(t, w, http.StatusRequestEntityTooLarge, httperr.CodeRequestEntityTooLarge)
		assert.False(t, got.hasRaw)
	})
}

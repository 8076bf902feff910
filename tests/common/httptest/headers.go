//go:build unit || e2e

package httptest

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

// AssertHeaders checks response headers; an empty expected value means the header must be absent.
func AssertHeaders(t *testing.T, w *httptest.ResponseRecorder, expected map[string]string) {
	t.Helper()
	for name, want := range expected {
		if want == "" {
			assert.NotContains(t, w.Header(), http.CanonicalHeaderKey(name), "header %s should be absent", name)
			continue
		}
		assert.Equal(t, want, w.Header().Get(name), "header %s mismatch", name)
	}
}

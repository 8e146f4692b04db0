package mycontext

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContextFromHTTPRequest(t *testing.T) {
	t.Setenv("GOOGLE_CLOUD_PROJECT", "myproject")

	t.Run("With trace header", func(t *testing.T) {
		r, err := http.NewRequest(http.MethodGet, "/facebook/done", nil)
		assert.NoError(t, err)
		r.Header.Set("X-Cloud-Trace-Context", "105445aa7843bc8bf206b12000100000/1;o=1")

		c := ContextFromHTTPRequest(r)
		assert.Equal(t, "projects/myproject/traces/105445aa7843bc8bf206b12000100000", c.Value(CtxTraceContext{}))
	})

	t.Run("Without trace header", func(t *testing.T) {
		r, err := http.NewRequest(http.MethodGet, "/facebook/done", nil)
		assert.NoError(t, err)

		c := ContextFromHTTPRequest(r)
		assert.Equal(t, "", c.Value(CtxTraceContext{}))
	})
}

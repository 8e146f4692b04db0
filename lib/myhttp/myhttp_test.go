package myhttp

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/MarcGrol/fbloginbackend/lib/myerrors"
	"github.com/MarcGrol/fbloginbackend/lib/mylog"
)

func TestHostnameWithScheme(t *testing.T) {
	t.Run("Plain http", func(t *testing.T) {
		r, err := http.NewRequest(http.MethodGet, "/facebook/login", nil)
		assert.NoError(t, err)
		r.Host = "localhost:8888"
		assert.Equal(t, "http://localhost:8888", HostnameWithScheme(r))
	})

	t.Run("Behind proxy", func(t *testing.T) {
		r, err := http.NewRequest(http.MethodGet, "/facebook/login", nil)
		assert.NoError(t, err)
		r.Host = "10.0.0.1:8080"
		r.Header.Set("X-Forwarded-Proto", "https")
		r.Header.Set("X-Forwarded-Host", "www.company.com")
		assert.Equal(t, "https://www.company.com", HostnameWithScheme(r))
	})
}

func TestResponseWriter(t *testing.T) {
	writer := NewWriter(mylog.New("test"))

	t.Run("Error", func(t *testing.T) {
		response := httptest.NewRecorder()
		writer.WriteError(context.TODO(), response, 3, myerrors.NewNotFoundError(fmt.Errorf("not there")))

		assert.Equal(t, 404, response.Code)
		assert.Equal(t, "application/json", response.Header().Get("Content-Type"))
		assert.JSONEq(t, `{"ErrorCode":3,"Message":"status: 404, err: not there"}`, response.Body.String())
	})

	t.Run("Success", func(t *testing.T) {
		response := httptest.NewRecorder()
		writer.Write(context.TODO(), response, 200, SuccessResponse{Message: "ok"})

		assert.Equal(t, 200, response.Code)
		assert.JSONEq(t, `{"Message":"ok"}`, response.Body.String())
	})
}

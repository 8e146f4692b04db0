package myhttpclient

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/MarcGrol/fbloginbackend/lib/mylog"
)

func TestSend(t *testing.T) {
	mux := http.NewServeMux()
	ts := httptest.NewServer(mux)
	defer ts.Close()

	mux.HandleFunc("/me", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		assert.Equal(t, "id,email", r.URL.Query().Get("fields"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"123"}`))
	})
	mux.HandleFunc("/oauth/access_token", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))
		body, err := io.ReadAll(r.Body)
		assert.NoError(t, err)
		assert.Equal(t, "code=abc", string(body))
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"message":"invalid code"}}`))
	})

	sender := New(nil, mylog.New("test"))

	t.Run("Get", func(t *testing.T) {
		status, body, err := sender.Send(context.TODO(), http.MethodGet, ts.URL+"/me?fields=id,email", nil)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusOK, status)
		assert.JSONEq(t, `{"id":"123"}`, string(body))
	})

	t.Run("Post with error status", func(t *testing.T) {
		status, body, err := sender.Send(context.TODO(), http.MethodPost, ts.URL+"/oauth/access_token", []byte("code=abc"))
		assert.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Contains(t, string(body), "invalid code")
	})

	t.Run("Unreachable", func(t *testing.T) {
		_, _, err := sender.Send(context.TODO(), http.MethodGet, "http://127.0.0.1:1/me", nil)
		assert.Error(t, err)
	})
}

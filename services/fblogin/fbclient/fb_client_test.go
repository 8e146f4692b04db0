package fbclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/MarcGrol/fbloginbackend/lib/codeverifier"
)

const (
	exampleProof = "8d9e4c1609ab55d1e4b0d4170983800553cf9a2fbc20692ed39c8c7b2689df26" // hmac-sha256("abc123", "456")
)

func newTestClient(ts *httptest.Server) *facebookClient {
	return New(Config{
		AppID:          "123",
		AppSecret:      "456",
		DialogHostname: ts.URL,
		GraphHostname:  ts.URL,
	}, ts.Client())
}

func TestFacebookClient(t *testing.T) {
	t.Run("Compose auth url", func(t *testing.T) {
		client := New(Config{AppID: "123", AppSecret: "456"}, nil)

		authURL, verifier, err := client.ComposeAuthURL(context.TODO(), ComposeAuthURLRequest{
			CompletionURL: "http://localhost:8888/facebook/done",
			Scope:         DefaultScopes,
			State:         "abcdef",
		})
		assert.NoError(t, err)
		assert.NotEmpty(t, verifier)

		u, err := url.Parse(authURL)
		assert.NoError(t, err)
		assert.Equal(t, "https://www.facebook.com/v11.0/dialog/oauth", u.Scheme+"://"+u.Host+u.Path)

		_, expectedChallenge := codeverifier.NewVerifierFrom(verifier).CreateChallenge()
		q := u.Query()
		assert.Equal(t, "123", q.Get("client_id"))
		assert.Equal(t, "http://localhost:8888/facebook/done", q.Get("redirect_uri"))
		assert.Equal(t, "code", q.Get("response_type"))
		assert.Equal(t, "public_profile email", q.Get("scope"))
		assert.Equal(t, "abcdef", q.Get("state"))
		assert.Equal(t, "S256", q.Get("code_challenge_method"))
		assert.Equal(t, expectedChallenge, q.Get("code_challenge"))
		assert.Empty(t, q.Get("client_secret"))
	})

	t.Run("Get access token", func(t *testing.T) {
		mux := http.NewServeMux()
		ts := httptest.NewServer(mux)
		defer ts.Close()

		mux.HandleFunc("/v11.0/oauth/access_token", func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			err := r.ParseForm()
			assert.NoError(t, err)

			assert.Equal(t, "authorization_code", r.Form.Get("grant_type"))
			assert.Equal(t, "123", r.Form.Get("client_id"))
			assert.Equal(t, "456", r.Form.Get("client_secret"))
			assert.Equal(t, "789", r.Form.Get("code"))
			assert.Equal(t, "http://localhost:8888/facebook/done", r.Form.Get("redirect_uri"))
			assert.Equal(t, "exampleVerifier", r.Form.Get("code_verifier"))

			w.Header().Set("Content-Type", "application/json")
			err = json.NewEncoder(w).Encode(GetTokenResponse{
				TokenType:   "bearer",
				ExpiresIn:   5183944,
				AccessToken: "abc123",
			})
			assert.NoError(t, err)
		})

		resp, err := newTestClient(ts).GetAccessToken(context.TODO(), GetTokenRequest{
			RedirectURI:  "http://localhost:8888/facebook/done",
			Code:         "789",
			CodeVerifier: "exampleVerifier",
		})
		assert.NoError(t, err)
		assert.Equal(t, "abc123", resp.AccessToken)
		assert.Equal(t, "bearer", resp.TokenType)
		assert.Equal(t, 5183944, resp.ExpiresIn)
	})

	t.Run("Get access token with invalid code", func(t *testing.T) {
		mux := http.NewServeMux()
		ts := httptest.NewServer(mux)
		defer ts.Close()

		mux.HandleFunc("/v11.0/oauth/access_token", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"error":{"message":"Invalid verification code format.","type":"OAuthException","code":100}}`))
		})

		_, err := newTestClient(ts).GetAccessToken(context.TODO(), GetTokenRequest{
			RedirectURI: "http://localhost:8888/facebook/done",
			Code:        "wrong",
		})
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "Invalid verification code format.")
	})

	t.Run("Get profile", func(t *testing.T) {
		mux := http.NewServeMux()
		ts := httptest.NewServer(mux)
		defer ts.Close()

		mux.HandleFunc("/v11.0/me", func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodGet, r.Method)
			assert.Equal(t, "id,first_name,last_name,email,name", r.URL.Query().Get("fields"))
			assert.Equal(t, "abc123", r.URL.Query().Get("access_token"))
			assert.Equal(t, exampleProof, r.URL.Query().Get("appsecret_proof"))

			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"id":"10001","first_name":"Marc","last_name":"Grol","email":"marc@example.com","name":"Marc Grol"}`))
		})

		profile, err := newTestClient(ts).GetProfile(context.TODO(), "abc123")
		assert.NoError(t, err)
		assert.Equal(t, Profile{
			ID:        "10001",
			FirstName: "Marc",
			LastName:  "Grol",
			Email:     "marc@example.com",
			Name:      "Marc Grol",
		}, profile)
	})

	t.Run("Get profile with expired token", func(t *testing.T) {
		mux := http.NewServeMux()
		ts := httptest.NewServer(mux)
		defer ts.Close()

		mux.HandleFunc("/v11.0/me", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"error":{"message":"Session has expired","type":"OAuthException","code":190}}`))
		})

		_, err := newTestClient(ts).GetProfile(context.TODO(), "abc123")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "Session has expired")
		assert.Contains(t, err.Error(), "code:190")
	})

	t.Run("Extend access token", func(t *testing.T) {
		mux := http.NewServeMux()
		ts := httptest.NewServer(mux)
		defer ts.Close()

		mux.HandleFunc("/v11.0/oauth/access_token", func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodGet, r.Method)
			assert.Equal(t, "fb_exchange_token", r.URL.Query().Get("grant_type"))
			assert.Equal(t, "123", r.URL.Query().Get("client_id"))
			assert.Equal(t, "456", r.URL.Query().Get("client_secret"))
			assert.Equal(t, "abc123", r.URL.Query().Get("fb_exchange_token"))

			w.Write([]byte(`{"access_token":"long456","token_type":"bearer","expires_in":5183944}`))
		})

		resp, err := newTestClient(ts).ExtendAccessToken(context.TODO(), "abc123")
		assert.NoError(t, err)
		assert.Equal(t, GetTokenResponse{TokenType: "bearer", ExpiresIn: 5183944, AccessToken: "long456"}, resp)
	})

	t.Run("Revoke access", func(t *testing.T) {
		mux := http.NewServeMux()
		ts := httptest.NewServer(mux)
		defer ts.Close()

		mux.HandleFunc("/v11.0/10001/permissions", func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodDelete, r.Method)
			assert.Equal(t, "abc123", r.URL.Query().Get("access_token"))
			assert.Equal(t, exampleProof, r.URL.Query().Get("appsecret_proof"))

			w.Write([]byte(`{"success":true}`))
		})

		err := newTestClient(ts).RevokeAccess(context.TODO(), "10001", "abc123")
		assert.NoError(t, err)
	})

	t.Run("Revoke access not confirmed", func(t *testing.T) {
		mux := http.NewServeMux()
		ts := httptest.NewServer(mux)
		defer ts.Close()

		mux.HandleFunc("/v11.0/10001/permissions", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"success":false}`))
		})

		err := newTestClient(ts).RevokeAccess(context.TODO(), "10001", "abc123")
		assert.Error(t, err)
	})
}

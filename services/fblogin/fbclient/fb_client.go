package fbclient

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/tidwall/gjson"
	"golang.org/x/oauth2"

	"github.com/MarcGrol/fbloginbackend/lib/codeverifier"
	"github.com/MarcGrol/fbloginbackend/lib/myhttpclient"
	"github.com/MarcGrol/fbloginbackend/lib/mylog"
)

const (
	DefaultAPIVersion     = "v11.0"
	DefaultDialogHostname = "https://www.facebook.com"
	DefaultGraphHostname  = "https://graph.facebook.com"
	DefaultScopes         = "public_profile email"
	ProfileFields         = "id,first_name,last_name,email,name"
)

type Config struct {
	AppID          string
	AppSecret      string
	APIVersion     string
	DialogHostname string
	GraphHostname  string
}

type ComposeAuthURLRequest struct {
	CompletionURL string
	Scope         string
	State         string
}

type GetTokenRequest struct {
	RedirectURI  string
	Code         string
	CodeVerifier string
}

type GetTokenResponse struct {
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
	AccessToken string `json:"access_token"`
}

type Profile struct {
	ID        string `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Name      string `json:"name"`
}

//go:generate mockgen -source=fb_client.go -package fbclient -destination fb_client_mock.go FacebookClient
type FacebookClient interface {
	ComposeAuthURL(c context.Context, req ComposeAuthURLRequest) (string, string, error)
	GetAccessToken(c context.Context, req GetTokenRequest) (GetTokenResponse, error)
	GetProfile(c context.Context, accessToken string) (Profile, error)
	ExtendAccessToken(c context.Context, accessToken string) (GetTokenResponse, error)
	RevokeAccess(c context.Context, facebookID string, accessToken string) error
}

type facebookClient struct {
	config     Config
	httpClient *http.Client
	sender     myhttpclient.HTTPSender
}

// New returns a client for the dialog and the graph api. A nil httpClient uses a default one.
func New(config Config, httpClient *http.Client) *facebookClient {
	if config.APIVersion == "" {
		config.APIVersion = DefaultAPIVersion
	}
	if config.DialogHostname == "" {
		config.DialogHostname = DefaultDialogHostname
	}
	if config.GraphHostname == "" {
		config.GraphHostname = DefaultGraphHostname
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &facebookClient{
		config:     config,
		httpClient: httpClient,
		sender:     myhttpclient.New(httpClient, mylog.New("fbclient")),
	}
}

func (fc *facebookClient) oauthConfig(redirectURL string, scope string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     fc.config.AppID,
		ClientSecret: fc.config.AppSecret,
		RedirectURL:  redirectURL,
		Scopes:       strings.Fields(scope),
		Endpoint: oauth2.Endpoint{
			AuthURL:   fmt.Sprintf("%s/%s/dialog/oauth", fc.config.DialogHostname, fc.config.APIVersion),
			TokenURL:  fc.graphURL("oauth/access_token"),
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}
}

func (fc *facebookClient) graphURL(path string) string {
	return fmt.Sprintf("%s/%s/%s", fc.config.GraphHostname, fc.config.APIVersion, path)
}

func (fc *facebookClient) ComposeAuthURL(c context.Context, req ComposeAuthURLRequest) (string, string, error) {
	verifier, err := codeverifier.NewVerifier()
	if err != nil {
		return "", "", fmt.Errorf("error creating code verifier: %s", err)
	}
	method, challenge := verifier.CreateChallenge()

	/* Example:
	https://www.facebook.com/v11.0/dialog/oauth
		?client_id=123
		&code_challenge=E9Melhoa2OwvFrEMTJguCHaoeK1t8URWbuGJSstw-cM
		&code_challenge_method=S256
		&redirect_uri=https%3A%2F%2Fwww.example.com%2Ffacebook%2Fdone
		&response_type=code
		&scope=public_profile+email
		&state=892f0b86-daca-4272-89e7-1a0d49a3ad71
	*/
	authURL := fc.oauthConfig(req.CompletionURL, req.Scope).AuthCodeURL(req.State,
		oauth2.SetAuthURLParam("code_challenge", challenge),
		oauth2.SetAuthURLParam("code_challenge_method", method))

	return authURL, verifier.GetValue(), nil
}

func (fc *facebookClient) GetAccessToken(c context.Context, req GetTokenRequest) (GetTokenResponse, error) {
	c = context.WithValue(c, oauth2.HTTPClient, fc.httpClient)

	opts := []oauth2.AuthCodeOption{}
	if req.CodeVerifier != "" {
		opts = append(opts, oauth2.VerifierOption(req.CodeVerifier))
	}

	token, err := fc.oauthConfig(req.RedirectURI, "").Exchange(c, req.Code, opts...)
	if err != nil {
		retrieveErr := &oauth2.RetrieveError{}
		if errors.As(err, &retrieveErr) && retrieveErr.Response != nil {
			return GetTokenResponse{}, fmt.Errorf("error getting token: %s", graphError(retrieveErr.Response.StatusCode, retrieveErr.Body))
		}
		return GetTokenResponse{}, fmt.Errorf("error getting token: %s", err)
	}

	return GetTokenResponse{
		TokenType:   token.TokenType,
		ExpiresIn:   int(token.ExpiresIn),
		AccessToken: token.AccessToken,
	}, nil
}

func (fc *facebookClient) GetProfile(c context.Context, accessToken string) (Profile, error) {
	profileURL := fc.graphURL("me") + "?" + url.Values{
		"fields":          {ProfileFields},
		"access_token":    {accessToken},
		"appsecret_proof": {fc.appSecretProof(accessToken)},
	}.Encode()

	httpRespCode, respBody, err := fc.sender.Send(c, http.MethodGet, profileURL, nil)
	if err != nil {
		return Profile{}, fmt.Errorf("error getting profile: %s", err)
	}
	if httpRespCode != http.StatusOK {
		return Profile{}, fmt.Errorf("error getting profile: %s", graphError(httpRespCode, respBody))
	}

	profile := Profile{}
	err = json.Unmarshal(respBody, &profile)
	if err != nil {
		return Profile{}, fmt.Errorf("error parsing profile: %s", err)
	}
	if profile.ID == "" {
		return Profile{}, fmt.Errorf("error parsing profile: missing id")
	}

	return profile, nil
}

func (fc *facebookClient) ExtendAccessToken(c context.Context, accessToken string) (GetTokenResponse, error) {
	extendURL := fc.graphURL("oauth/access_token") + "?" + url.Values{
		"grant_type":        {"fb_exchange_token"},
		"client_id":         {fc.config.AppID},
		"client_secret":     {fc.config.AppSecret},
		"fb_exchange_token": {accessToken},
	}.Encode()

	httpRespCode, respBody, err := fc.sender.Send(c, http.MethodGet, extendURL, nil)
	if err != nil {
		return GetTokenResponse{}, fmt.Errorf("error extending token: %s", err)
	}
	if httpRespCode != http.StatusOK {
		return GetTokenResponse{}, fmt.Errorf("error extending token: %s", graphError(httpRespCode, respBody))
	}

	resp := GetTokenResponse{}
	err = json.Unmarshal(respBody, &resp)
	if err != nil {
		return GetTokenResponse{}, fmt.Errorf("error parsing response: %s", err)
	}

	return resp, nil
}

func (fc *facebookClient) RevokeAccess(c context.Context, facebookID string, accessToken string) error {
	revokeURL := fc.graphURL(url.PathEscape(facebookID)+"/permissions") + "?" + url.Values{
		"access_token":    {accessToken},
		"appsecret_proof": {fc.appSecretProof(accessToken)},
	}.Encode()

	httpRespCode, respBody, err := fc.sender.Send(c, http.MethodDelete, revokeURL, nil)
	if err != nil {
		return fmt.Errorf("error revoking access: %s", err)
	}
	if httpRespCode != http.StatusOK {
		return fmt.Errorf("error revoking access: %s", graphError(httpRespCode, respBody))
	}
	if !gjson.GetBytes(respBody, "success").Bool() {
		return fmt.Errorf("error revoking access: not confirmed")
	}

	return nil
}

// appSecretProof signs the access token with the app secret as graph api requires for server calls.
func (fc *facebookClient) appSecretProof(accessToken string) string {
	mac := hmac.New(sha256.New, []byte(fc.config.AppSecret))
	mac.Write([]byte(accessToken))
	return hex.EncodeToString(mac.Sum(nil))
}

func graphError(httpStatus int, body []byte) error {
	message := gjson.GetBytes(body, "error.message")
	if !message.Exists() {
		return fmt.Errorf("http-status %d", httpStatus)
	}
	return fmt.Errorf("http-status %d: %s (type:%s, code:%d)", httpStatus, message.String(),
		gjson.GetBytes(body, "error.type").String(), gjson.GetBytes(body, "error.code").Int())
}

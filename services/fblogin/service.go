package fblogin

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/MarcGrol/fbloginbackend/lib/myerrors"
	"github.com/MarcGrol/fbloginbackend/lib/mylog"
	"github.com/MarcGrol/fbloginbackend/lib/mymetrics"
	"github.com/MarcGrol/fbloginbackend/lib/mypublisher"
	"github.com/MarcGrol/fbloginbackend/lib/mypubsub"
	"github.com/MarcGrol/fbloginbackend/lib/mystore"
	"github.com/MarcGrol/fbloginbackend/lib/mytime"
	"github.com/MarcGrol/fbloginbackend/lib/myuuid"
	"github.com/MarcGrol/fbloginbackend/lib/myvault"
	"github.com/MarcGrol/fbloginbackend/services/fblogin/fbclient"
	"github.com/MarcGrol/fbloginbackend/services/fblogin/fbevents"
	"github.com/MarcGrol/fbloginbackend/services/fblogin/fbvault"
	"github.com/MarcGrol/fbloginbackend/services/fblogin/userstore"
)

type service struct {
	config       Config
	sessionStore mystore.Store[LoginSession]
	vault        myvault.VaultReadWriter[fbvault.Token]
	users        userstore.UserStore
	nower        mytime.Nower
	uuider       myuuid.UUIDer
	logger       mylog.Logger
	fbClient     fbclient.FacebookClient
	publisher    mypublisher.Publisher
	subscriber   mypubsub.PubSub
}

func newService(config Config, sessionStore mystore.Store[LoginSession], vault myvault.VaultReadWriter[fbvault.Token], users userstore.UserStore,
	nower mytime.Nower, uuider myuuid.UUIDer, fbClient fbclient.FacebookClient, pub mypublisher.Publisher, sub mypubsub.PubSub) *service {
	if config.DefaultScopes == "" {
		config.DefaultScopes = fbclient.DefaultScopes
	}
	if config.LoginSessionTTL == 0 {
		config.LoginSessionTTL = 10 * time.Minute
	}
	return &service{
		config:       config,
		sessionStore: sessionStore,
		vault:        vault,
		users:        users,
		nower:        nower,
		uuider:       uuider,
		logger:       mylog.New("fblogin"),
		fbClient:     fbClient,
		publisher:    pub,
		subscriber:   sub,
	}
}

func (s *service) CreateTopics(c context.Context) error {
	err := s.publisher.CreateTopic(c, fbevents.TopicName)
	if err != nil {
		return fmt.Errorf("error creating topic %s: %s", fbevents.TopicName, err)
	}

	return nil
}

func (s *service) start(c context.Context, originalReturnURL string, requestedScopes string, currentHostname string) (string, error) {
	now := s.nower.Now()
	sessionUID := s.uuider.Create()

	s.logger.Log(c, sessionUID, mylog.SeverityInfo, "Start facebook login %s", sessionUID)

	if requestedScopes == "" {
		requestedScopes = s.config.DefaultScopes
	}

	returnURL, err := resolveReturnURL(originalReturnURL, s.config.SiteURL)
	if err != nil {
		return "", myerrors.NewInvalidInputError(err)
	}

	authURL, verifier, err := s.fbClient.ComposeAuthURL(c, fbclient.ComposeAuthURLRequest{
		CompletionURL: createCompletionURL(currentHostname), // Be called back here when the user has decided
		Scope:         requestedScopes,
		State:         sessionUID,
	})
	if err != nil {
		return "", myerrors.NewInternalError(fmt.Errorf("error composing auth url: %s", err))
	}

	err = s.sessionStore.RunInTransaction(c, func(c context.Context) error {
		err := s.sessionStore.Put(c, sessionUID, LoginSession{
			UID:          sessionUID,
			Scopes:       requestedScopes,
			ReturnURL:    returnURL,
			Verifier:     verifier,
			CreatedAt:    now,
			LastModified: &now,
		})
		if err != nil {
			return myerrors.NewInternalError(fmt.Errorf("error storing session: %s", err))
		}

		err = s.publisher.Publish(c, fbevents.TopicName, fbevents.LoginStarted{
			SessionUID: sessionUID,
			Scopes:     requestedScopes,
			ReturnURL:  returnURL,
		})
		if err != nil {
			return myerrors.NewInternalError(fmt.Errorf("error publishing event: %s", err))
		}

		return nil
	})
	if err != nil {
		return "", err
	}

	mymetrics.LoginsStarted.Inc()

	s.logger.Log(c, sessionUID, mylog.SeverityInfo, "Redirecting to facebook for login %s", sessionUID)

	return authURL, nil
}

func (s *service) done(c context.Context, sessionUID string, code string, currentHostname string) (string, error) {
	now := s.nower.Now()

	s.logger.Log(c, sessionUID, mylog.SeverityInfo, "Continue with facebook login %s", sessionUID)

	session, err := s.getSession(c, sessionUID, now)
	if err != nil {
		return "", err
	}

	// An authorization code can be exchanged once: keep the calls to facebook out of the retryable transaction.
	tokenResp, err := s.fbClient.GetAccessToken(c, fbclient.GetTokenRequest{
		RedirectURI:  createCompletionURL(currentHostname),
		Code:         code,
		CodeVerifier: session.Verifier,
	})
	if err != nil {
		return "", myerrors.NewBadGatewayError(fmt.Errorf("error getting token: %s", err))
	}

	profile, err := s.fbClient.GetProfile(c, tokenResp.AccessToken)
	if err != nil {
		return "", myerrors.NewBadGatewayError(fmt.Errorf("error getting profile: %s", err))
	}
	if profile.Email == "" {
		return "", myerrors.NewInvalidInputError(fmt.Errorf("facebook profile %s has no email", profile.ID))
	}

	redirectURL := ""
	outcome := Outcome("")
	err = s.sessionStore.RunInTransaction(c, func(c context.Context) error {
		session, err := s.getSession(c, sessionUID, now)
		if err != nil {
			return err
		}

		err = s.vault.Put(c, fbvault.TokenUID(profile.ID), fbvault.Token{
			FacebookID:   profile.ID,
			SessionUID:   session.UID,
			Scopes:       session.Scopes,
			CreatedAt:    now,
			LastModified: &now,
			AccessToken:  tokenResp.AccessToken,
			ExpiresAt:    calculateExpiresAt(now, tokenResp.ExpiresIn),
		})
		if err != nil {
			return myerrors.NewInternalError(fmt.Errorf("error storing token in vault: %s", err))
		}

		outcome, err = s.reconcile(c, profile)
		if err != nil {
			return err
		}

		session.TokenData = &fbclient.GetTokenResponse{
			TokenType: tokenResp.TokenType,
			ExpiresIn: tokenResp.ExpiresIn,
		}
		session.FacebookID = profile.ID
		session.Outcome = outcome
		session.LastModified = &now
		session.Done = true
		err = s.sessionStore.Put(c, sessionUID, session)
		if err != nil {
			return myerrors.NewInternalError(fmt.Errorf("error storing session: %s", err))
		}

		err = s.publisher.Publish(c, fbevents.TopicName, fbevents.LoginCompleted{
			SessionUID: sessionUID,
			FacebookID: profile.ID,
			Email:      userstore.NormalizeEmail(profile.Email),
			Outcome:    string(outcome),
		})
		if err != nil {
			return myerrors.NewInternalError(fmt.Errorf("error publishing event: %s", err))
		}

		redirectURL, err = composeOutcomeURL(session.ReturnURL, outcome, profile.Email)
		if err != nil {
			return myerrors.NewInternalError(err)
		}

		return nil
	})
	if err != nil {
		return "", err
	}

	mymetrics.LoginOutcomes.WithLabelValues(string(outcome)).Inc()

	s.logger.Log(c, sessionUID, mylog.SeverityInfo, "Completed facebook login %s: %s", sessionUID, outcome)

	return redirectURL, nil
}

// getSession returns the login session that belongs to state, rejecting unknown, used and expired ones.
func (s *service) getSession(c context.Context, sessionUID string, now time.Time) (LoginSession, error) {
	session, exist, err := s.sessionStore.Get(c, sessionUID)
	if err != nil {
		return session, myerrors.NewInternalError(fmt.Errorf("error fetching session: %s", err))
	}
	if !exist {
		return session, myerrors.NewInvalidInputError(fmt.Errorf("state %s not known", sessionUID))
	}
	if session.Done {
		return session, myerrors.NewInvalidInputError(fmt.Errorf("state %s already used", sessionUID))
	}
	if now.Sub(session.CreatedAt) > s.config.LoginSessionTTL {
		return session, myerrors.NewInvalidInputError(fmt.Errorf("state %s expired", sessionUID))
	}
	return session, nil
}

// reconcile matches the profile with the local users: first by facebook id, then by email.
func (s *service) reconcile(c context.Context, profile fbclient.Profile) (Outcome, error) {
	login := userstore.FacebookLogin{
		FacebookID: profile.ID,
		Email:      profile.Email,
		FirstName:  profile.FirstName,
		LastName:   profile.LastName,
		MetaKey:    fbvault.MetaKey,
	}

	known, found, err := s.users.FindFacebookLoginByFacebookID(c, profile.ID)
	if err != nil {
		return "", myerrors.NewInternalError(fmt.Errorf("error fetching facebook login %s: %s", profile.ID, err))
	}
	if found && known.UserID != nil {
		if known.Email != userstore.NormalizeEmail(profile.Email) {
			// email changed at facebook: keep the link, refresh the profile
			err = s.users.InsertFacebookLogin(c, login)
			if err != nil {
				return "", myerrors.NewInternalError(fmt.Errorf("error storing facebook login: %s", err))
			}
		}
		return OutcomeExistingUser, nil
	}

	_, userExists, err := s.users.FindUserByEmail(c, profile.Email)
	if err != nil {
		return "", myerrors.NewInternalError(fmt.Errorf("error fetching user: %s", err))
	}

	if !userExists {
		err = s.users.InsertFacebookLogin(c, login)
		if err != nil {
			return "", myerrors.NewInternalError(fmt.Errorf("error storing facebook login: %s", err))
		}
		return OutcomeNewUser, nil
	}

	_, loginExists, err := s.users.FindFacebookLoginByEmail(c, profile.Email)
	if err != nil {
		return "", myerrors.NewInternalError(fmt.Errorf("error fetching facebook login: %s", err))
	}
	if loginExists {
		return OutcomeExistingUser, nil
	}

	err = s.users.InsertFacebookLogin(c, login)
	if err != nil {
		return "", myerrors.NewInternalError(fmt.Errorf("error storing facebook login: %s", err))
	}

	_, err = s.link(c, profile.Email)
	if err != nil {
		return "", err
	}

	return OutcomeLinkedUser, nil
}

func (s *service) linkUser(c context.Context, email string) error {
	s.logger.Log(c, email, mylog.SeverityInfo, "Link user %s to facebook login", email)

	if strings.TrimSpace(email) == "" {
		return myerrors.NewInvalidInputError(fmt.Errorf("missing email"))
	}

	linked, err := s.link(c, email)
	if err != nil {
		return err
	}
	if !linked {
		return myerrors.NewNotFoundError(fmt.Errorf("no user and facebook login with email %s", email))
	}

	return nil
}

func (s *service) link(c context.Context, email string) (bool, error) {
	linked, err := s.users.LinkUserByEmail(c, email)
	if err != nil {
		return false, myerrors.NewInternalError(fmt.Errorf("error linking user: %s", err))
	}
	if !linked {
		return false, nil
	}

	err = s.publisher.Publish(c, fbevents.TopicName, fbevents.UserLinked{
		Email: userstore.NormalizeEmail(email),
	})
	if err != nil {
		return false, myerrors.NewInternalError(fmt.Errorf("error publishing event: %s", err))
	}

	return true, nil
}

func (s *service) extendToken(c context.Context, facebookID string) (fbvault.Token, error) {
	now := s.nower.Now()

	s.logger.Log(c, facebookID, mylog.SeverityInfo, "Start extending token of %s", facebookID)

	newToken := fbvault.Token{}
	err := s.sessionStore.RunInTransaction(c, func(c context.Context) error {
		tokenUID := fbvault.TokenUID(facebookID)
		currentToken, exists, err := s.vault.Get(c, tokenUID)
		if err != nil {
			return myerrors.NewInternalError(fmt.Errorf("error fetching token %s: %s", tokenUID, err))
		}

		if !exists || currentToken.AccessToken == "" {
			s.logger.Log(c, facebookID, mylog.SeverityInfo, "Cannot extend token: no token for %s", facebookID)
			// Do not consider this a failure
			return nil
		}

		tokenResp, err := s.fbClient.ExtendAccessToken(c, currentToken.AccessToken)
		if err != nil {
			return myerrors.NewBadGatewayError(fmt.Errorf("error extending token: %s", err))
		}

		newToken = currentToken
		newToken.AccessToken = tokenResp.AccessToken
		newToken.ExpiresAt = calculateExpiresAt(now, tokenResp.ExpiresIn)
		newToken.LastModified = &now
		err = s.vault.Put(c, tokenUID, newToken)
		if err != nil {
			return myerrors.NewInternalError(fmt.Errorf("error storing token: %s", err))
		}

		err = s.publisher.Publish(c, fbevents.TopicName, fbevents.TokenExtended{
			FacebookID: facebookID,
			ExpiresAt:  newToken.ExpiresAt,
		})
		if err != nil {
			return myerrors.NewInternalError(fmt.Errorf("error publishing event: %s", err))
		}

		return nil
	})
	if err != nil {
		mymetrics.TokenOperations.WithLabelValues("extend", "failure").Inc()
		return newToken, err
	}
	mymetrics.TokenOperations.WithLabelValues("extend", "success").Inc()

	s.logger.Log(c, facebookID, mylog.SeverityInfo, "Completed extending token of %s", facebookID)

	return newToken, nil
}

func (s *service) revokeToken(c context.Context, facebookID string) error {
	now := s.nower.Now()

	s.logger.Log(c, facebookID, mylog.SeverityInfo, "Start revoking token of %s", facebookID)

	err := s.sessionStore.RunInTransaction(c, func(c context.Context) error {
		tokenUID := fbvault.TokenUID(facebookID)
		currentToken, exists, err := s.vault.Get(c, tokenUID)
		if err != nil {
			return myerrors.NewInternalError(fmt.Errorf("error fetching token %s: %s", tokenUID, err))
		}

		if !exists || currentToken.AccessToken == "" {
			s.logger.Log(c, facebookID, mylog.SeverityInfo, "Cannot revoke token: no token for %s", facebookID)
			// Do not consider this a failure
			return nil
		}

		err = s.fbClient.RevokeAccess(c, facebookID, currentToken.AccessToken)
		if err != nil {
			return myerrors.NewBadGatewayError(fmt.Errorf("error revoking token: %s", err))
		}

		err = s.vault.Put(c, tokenUID, fbvault.Token{
			FacebookID:   facebookID,
			CreatedAt:    currentToken.CreatedAt,
			LastModified: &now,
		})
		if err != nil {
			return myerrors.NewInternalError(fmt.Errorf("error storing token: %s", err))
		}

		err = s.publisher.Publish(c, fbevents.TopicName, fbevents.TokenRevoked{
			FacebookID: facebookID,
		})
		if err != nil {
			return myerrors.NewInternalError(fmt.Errorf("error publishing event: %s", err))
		}

		return nil
	})
	if err != nil {
		mymetrics.TokenOperations.WithLabelValues("revoke", "failure").Inc()
		return err
	}
	mymetrics.TokenOperations.WithLabelValues("revoke", "success").Inc()

	s.logger.Log(c, facebookID, mylog.SeverityInfo, "Completed revoking token of %s", facebookID)

	return nil
}

func (s *service) getStatus(c context.Context) ([]LoginStatus, error) {
	now := s.nower.Now()

	s.logger.Log(c, "", mylog.SeverityInfo, "Get facebook login status")

	logins, err := s.users.ListFacebookLogins(c)
	if err != nil {
		return nil, myerrors.NewInternalError(fmt.Errorf("error listing facebook logins: %s", err))
	}

	statuses := []LoginStatus{}
	for _, login := range logins {
		token, exists, err := s.vault.Get(c, fbvault.TokenUID(login.FacebookID))
		if err != nil {
			return nil, myerrors.NewInternalError(fmt.Errorf("error fetching token of %s: %s", login.FacebookID, err))
		}

		statuses = append(statuses, LoginStatus{
			FacebookID:   login.FacebookID,
			UserID:       login.UserID,
			Email:        login.Email,
			Name:         strings.TrimSpace(login.FirstName + " " + login.LastName),
			CreatedAt:    login.CreatedAt,
			LastModified: login.LastModified,
			ValidUntil:   token.ExpiresAt,
			TokenValid:   exists && token.IsValid(now),
		})
	}

	return statuses, nil
}

func createCompletionURL(hostname string) string {
	return fmt.Sprintf("%s/facebook/done", hostname)
}

func calculateExpiresAt(lastModified time.Time, expiresIn int) *time.Time {
	if expiresIn == 0 {
		return nil
	}
	t := lastModified.Add(time.Second * time.Duration(expiresIn))
	return &t
}

// resolveReturnURL only accepts urls on the site itself so the login cannot be abused as an open redirect.
func resolveReturnURL(returnURL string, siteURL string) (string, error) {
	if returnURL == "" {
		return siteURL, nil
	}

	site, err := url.Parse(siteURL)
	if err != nil {
		return "", fmt.Errorf("invalid site url %s: %s", siteURL, err)
	}

	u, err := url.Parse(returnURL)
	if err != nil {
		return "", fmt.Errorf("invalid returnURL %s: %s", returnURL, err)
	}
	if u.Opaque != "" || (u.Scheme != "" && u.Scheme != site.Scheme) {
		return "", fmt.Errorf("returnURL %s not on site %s", returnURL, site.Host)
	}

	resolved := site.ResolveReference(u)
	if resolved.Scheme != site.Scheme || resolved.Host != site.Host {
		return "", fmt.Errorf("returnURL %s not on site %s", returnURL, site.Host)
	}

	return resolved.String(), nil
}

func composeOutcomeURL(returnURL string, outcome Outcome, email string) (string, error) {
	u, err := url.Parse(returnURL)
	if err != nil {
		return "", fmt.Errorf("error parsing return url %s: %s", returnURL, err)
	}

	q := u.Query()
	if outcome == OutcomeNewUser {
		q.Set("email", email)
	}
	q.Set("type", outcome.loginType())
	q.Set("from", "Facebook")
	q.Set("result", string(outcome))
	u.RawQuery = q.Encode()

	return u.String(), nil
}

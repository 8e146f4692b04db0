package fblogin

import (
	"time"

	"github.com/MarcGrol/fbloginbackend/services/fblogin/fbclient"
)

type Config struct {
	SiteURL         string
	BaseURL         string
	DefaultScopes   string
	LoginSessionTTL time.Duration
}

type LoginSession struct {
	UID          string
	Scopes       string
	ReturnURL    string
	Verifier     string
	CreatedAt    time.Time
	LastModified *time.Time
	TokenData    *fbclient.GetTokenResponse `datastore:",noindex"`
	FacebookID   string
	Outcome      Outcome
	Done         bool
}

// Outcome is the result of reconciling a facebook profile with the local users.
type Outcome string

const (
	OutcomeNewUser      Outcome = "new-user-no-facebook-info-stored"
	OutcomeLinkedUser   Outcome = "current-user-but-no-facebook-info-stored"
	OutcomeExistingUser Outcome = "current-user-with-facebook-info-stored"
)

func (o Outcome) loginType() string {
	if o == OutcomeNewUser {
		return "registration"
	}
	return "login"
}

type LoginStatus struct {
	FacebookID   string
	UserID       *int64
	Email        string
	Name         string
	CreatedAt    time.Time
	LastModified time.Time
	ValidUntil   *time.Time
	TokenValid   bool
}

type LinkRequest struct {
	Email string `form:"email"`
}

type StartRequest struct {
	ReturnURL string `form:"returnURL"`
	Scopes    string `form:"scopes"`
}

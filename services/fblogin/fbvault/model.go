package fbvault

import "time"

const (
	// MetaKey names the access token wherever it is stored next to a facebook login.
	MetaKey = "facebook_access_token"
)

type Token struct {
	FacebookID   string
	SessionUID   string
	Scopes       string
	CreatedAt    time.Time
	LastModified *time.Time
	AccessToken  string
	ExpiresAt    *time.Time
}

func TokenUID(facebookID string) string {
	return MetaKey + "_" + facebookID
}

// IsValid tells if the token can still be used at the given moment.
func (t Token) IsValid(now time.Time) bool {
	if t.AccessToken == "" {
		return false
	}
	return t.ExpiresAt == nil || t.ExpiresAt.After(now)
}

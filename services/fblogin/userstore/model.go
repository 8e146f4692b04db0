package userstore

import (
	"strings"
	"time"
)

type User struct {
	ID          int64
	Email       string
	FirstName   string
	LastName    string
	DisplayName string
	CreatedAt   time.Time
}

type FacebookLogin struct {
	FacebookID   string
	UserID       *int64
	Email        string
	FirstName    string
	LastName     string
	MetaKey      string
	CreatedAt    time.Time
	LastModified time.Time
}

// NormalizeEmail makes emails comparable regardless of case and surrounding whitespace.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func toMillis(t time.Time) int64 {
	return t.UTC().UnixMilli()
}

func fromMillis(millis int64) time.Time {
	return time.UnixMilli(millis).UTC()
}

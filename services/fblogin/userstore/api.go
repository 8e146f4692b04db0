package userstore

import "context"

//go:generate mockgen -source=api.go -package userstore -destination userstore_mock.go UserStore
type UserStore interface {
	FindUserByEmail(c context.Context, email string) (User, bool, error)
	CreateUser(c context.Context, user User) (User, error)
	FindFacebookLoginByEmail(c context.Context, email string) (FacebookLogin, bool, error)
	FindFacebookLoginByFacebookID(c context.Context, facebookID string) (FacebookLogin, bool, error)
	InsertFacebookLogin(c context.Context, login FacebookLogin) error
	LinkUserByEmail(c context.Context, email string) (bool, error)
	ListFacebookLogins(c context.Context) ([]FacebookLogin, error)
}

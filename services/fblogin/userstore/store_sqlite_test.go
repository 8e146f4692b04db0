package userstore

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MarcGrol/fbloginbackend/lib/mytime"
)

func setup(t *testing.T, ctrl *gomock.Controller) (context.Context, *sqliteStore) {
	c := context.TODO()

	nower := mytime.NewMockNower(ctrl)
	nower.EXPECT().Now().Return(mytime.ExampleTime).AnyTimes()

	store, cleanup, err := Open(c, filepath.Join(t.TempDir(), "users.db"), nower)
	require.NoError(t, err)
	t.Cleanup(cleanup)

	return c, store
}

func TestUserStore(t *testing.T) {
	t.Run("Create and find user", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		c, store := setup(t, ctrl)

		created, err := store.CreateUser(c, User{Email: " Marc@Example.com ", FirstName: "Marc", LastName: "Grol", DisplayName: "Marc Grol"})
		require.NoError(t, err)
		assert.NotZero(t, created.ID)
		assert.Equal(t, "marc@example.com", created.Email)

		found, exists, err := store.FindUserByEmail(c, "MARC@example.com")
		require.NoError(t, err)
		assert.True(t, exists)
		assert.Equal(t, created, found)
		assert.Equal(t, mytime.ExampleTime, found.CreatedAt)

		_, exists, err = store.FindUserByEmail(c, "eva@example.com")
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("Email is unique", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		c, store := setup(t, ctrl)

		_, err := store.CreateUser(c, User{Email: "marc@example.com"})
		require.NoError(t, err)
		_, err = store.CreateUser(c, User{Email: "MARC@example.com"})
		assert.Error(t, err)
	})

	t.Run("Insert facebook login is an upsert", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		c, store := setup(t, ctrl)

		err := store.InsertFacebookLogin(c, FacebookLogin{FacebookID: "10001", Email: "Marc@example.com", FirstName: "Marc"})
		require.NoError(t, err)
		err = store.InsertFacebookLogin(c, FacebookLogin{FacebookID: "10001", Email: "marc@example.com", FirstName: "Marc", LastName: "Grol"})
		require.NoError(t, err)

		login, exists, err := store.FindFacebookLoginByFacebookID(c, "10001")
		require.NoError(t, err)
		assert.True(t, exists)
		assert.Equal(t, FacebookLogin{
			FacebookID:   "10001",
			Email:        "marc@example.com",
			FirstName:    "Marc",
			LastName:     "Grol",
			MetaKey:      "facebook_access_token",
			CreatedAt:    mytime.ExampleTime,
			LastModified: mytime.ExampleTime,
		}, login)

		logins, err := store.ListFacebookLogins(c)
		require.NoError(t, err)
		assert.Len(t, logins, 1)
	})

	t.Run("Find facebook login by email", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		c, store := setup(t, ctrl)

		_, exists, err := store.FindFacebookLoginByEmail(c, "marc@example.com")
		require.NoError(t, err)
		assert.False(t, exists)

		err = store.InsertFacebookLogin(c, FacebookLogin{FacebookID: "10001", Email: "marc@example.com"})
		require.NoError(t, err)

		login, exists, err := store.FindFacebookLoginByEmail(c, " MARC@example.com")
		require.NoError(t, err)
		assert.True(t, exists)
		assert.Equal(t, "10001", login.FacebookID)
		assert.Nil(t, login.UserID)
	})

	t.Run("Link user by email", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		c, store := setup(t, ctrl)

		err := store.InsertFacebookLogin(c, FacebookLogin{FacebookID: "10001", Email: "marc@example.com"})
		require.NoError(t, err)

		// no user yet
		linked, err := store.LinkUserByEmail(c, "marc@example.com")
		require.NoError(t, err)
		assert.False(t, linked)

		user, err := store.CreateUser(c, User{Email: "marc@example.com"})
		require.NoError(t, err)

		linked, err = store.LinkUserByEmail(c, "Marc@Example.com")
		require.NoError(t, err)
		assert.True(t, linked)

		login, _, err := store.FindFacebookLoginByFacebookID(c, "10001")
		require.NoError(t, err)
		require.NotNil(t, login.UserID)
		assert.Equal(t, user.ID, *login.UserID)

		// refreshing the profile keeps the link
		err = store.InsertFacebookLogin(c, FacebookLogin{FacebookID: "10001", Email: "marc@example.com", FirstName: "Marc"})
		require.NoError(t, err)
		login, _, err = store.FindFacebookLoginByFacebookID(c, "10001")
		require.NoError(t, err)
		require.NotNil(t, login.UserID)
		assert.Equal(t, user.ID, *login.UserID)
	})

	t.Run("List is ordered by creation", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		c, store := setup(t, ctrl)

		err := store.InsertFacebookLogin(c, FacebookLogin{FacebookID: "2", Email: "eva@example.com", CreatedAt: mytime.ExampleTime.Add(time.Minute)})
		require.NoError(t, err)
		err = store.InsertFacebookLogin(c, FacebookLogin{FacebookID: "1", Email: "marc@example.com"})
		require.NoError(t, err)

		logins, err := store.ListFacebookLogins(c)
		require.NoError(t, err)
		require.Len(t, logins, 2)
		assert.Equal(t, "1", logins[0].FacebookID)
		assert.Equal(t, "2", logins[1].FacebookID)
	})
}

func TestMigrate(t *testing.T) {
	c := context.TODO()
	path := filepath.Join(t.TempDir(), "users.db")

	applied, err := MigratePath(c, path)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2}, applied)

	applied, err = MigratePath(c, path)
	require.NoError(t, err)
	assert.Empty(t, applied)
}

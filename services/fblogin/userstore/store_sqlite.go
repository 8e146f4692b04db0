package userstore

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/pressly/goose/v3"
	"github.com/pressly/goose/v3/database"
	_ "modernc.org/sqlite"

	"github.com/MarcGrol/fbloginbackend/lib/mytime"
	"github.com/MarcGrol/fbloginbackend/services/fblogin/fbvault"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

type sqliteStore struct {
	db    *sql.DB
	nower mytime.Nower
}

// Open opens the sqlite database at path and applies pending migrations.
func Open(c context.Context, path string, nower mytime.Nower) (*sqliteStore, func(), error) {
	db, err := openDB(path)
	if err != nil {
		return nil, func() {}, err
	}

	_, err = Migrate(c, db)
	if err != nil {
		db.Close()
		return nil, func() {}, err
	}

	return &sqliteStore{
			db:    db,
			nower: nower,
		}, func() {
			db.Close()
		}, nil
}

func (s *sqliteStore) Ping(c context.Context) error {
	return s.db.PingContext(c)
}

func openDB(path string) (*sql.DB, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("database path is required")
	}

	db, err := sql.Open("sqlite", filepath.Clean(path)+"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("error opening sqlite db %s: %w", path, err)
	}
	// sqlite allows a single writer
	db.SetMaxOpenConns(1)

	err = db.Ping()
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("error pinging sqlite db %s: %w", path, err)
	}

	return db, nil
}

// Migrate applies all pending migrations and returns the versions that were applied.
func Migrate(c context.Context, db *sql.DB) ([]int64, error) {
	migrationFS, err := fs.Sub(embedMigrations, "migrations")
	if err != nil {
		return nil, fmt.Errorf("error creating migrations filesystem: %w", err)
	}

	provider, err := goose.NewProvider(database.DialectSQLite3, db, migrationFS)
	if err != nil {
		return nil, fmt.Errorf("error creating goose provider: %w", err)
	}

	results, err := provider.Up(c)
	if err != nil {
		return nil, fmt.Errorf("error applying migrations: %w", err)
	}

	applied := []int64{}
	for _, r := range results {
		applied = append(applied, r.Source.Version)
	}
	return applied, nil
}

// MigratePath opens the database at path only to migrate it.
func MigratePath(c context.Context, path string) ([]int64, error) {
	db, err := openDB(path)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	return Migrate(c, db)
}

func (s *sqliteStore) FindUserByEmail(c context.Context, email string) (User, bool, error) {
	row := s.db.QueryRowContext(c,
		`SELECT id, email, first_name, last_name, display_name, created_at FROM users WHERE email = ?`,
		NormalizeEmail(email))

	user := User{}
	createdAt := int64(0)
	err := row.Scan(&user.ID, &user.Email, &user.FirstName, &user.LastName, &user.DisplayName, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, false, nil
	}
	if err != nil {
		return User{}, false, fmt.Errorf("error fetching user %s: %w", email, err)
	}
	user.CreatedAt = fromMillis(createdAt)

	return user, true, nil
}

func (s *sqliteStore) CreateUser(c context.Context, user User) (User, error) {
	user.Email = NormalizeEmail(user.Email)
	if user.Email == "" {
		return User{}, fmt.Errorf("email is required")
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = s.nower.Now()
	}

	result, err := s.db.ExecContext(c,
		`INSERT INTO users (email, first_name, last_name, display_name, created_at) VALUES (?, ?, ?, ?, ?)`,
		user.Email, user.FirstName, user.LastName, user.DisplayName, toMillis(user.CreatedAt))
	if err != nil {
		return User{}, fmt.Errorf("error creating user %s: %w", user.Email, err)
	}

	user.ID, err = result.LastInsertId()
	if err != nil {
		return User{}, fmt.Errorf("error fetching id of user %s: %w", user.Email, err)
	}

	return user, nil
}

const selectFacebookLogin = `SELECT facebook_id, user_id, email, first_name, last_name, meta_key, created_at, last_modified FROM facebook_logins`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanFacebookLogin(row rowScanner) (FacebookLogin, error) {
	login := FacebookLogin{}
	userID := sql.NullInt64{}
	createdAt := int64(0)
	lastModified := int64(0)

	err := row.Scan(&login.FacebookID, &userID, &login.Email, &login.FirstName, &login.LastName, &login.MetaKey, &createdAt, &lastModified)
	if err != nil {
		return FacebookLogin{}, err
	}
	if userID.Valid {
		login.UserID = &userID.Int64
	}
	login.CreatedAt = fromMillis(createdAt)
	login.LastModified = fromMillis(lastModified)

	return login, nil
}

func (s *sqliteStore) FindFacebookLoginByEmail(c context.Context, email string) (FacebookLogin, bool, error) {
	login, err := scanFacebookLogin(s.db.QueryRowContext(c,
		selectFacebookLogin+` WHERE email = ? ORDER BY created_at LIMIT 1`, NormalizeEmail(email)))
	if errors.Is(err, sql.ErrNoRows) {
		return FacebookLogin{}, false, nil
	}
	if err != nil {
		return FacebookLogin{}, false, fmt.Errorf("error fetching facebook login with email %s: %w", email, err)
	}
	return login, true, nil
}

func (s *sqliteStore) FindFacebookLoginByFacebookID(c context.Context, facebookID string) (FacebookLogin, bool, error) {
	login, err := scanFacebookLogin(s.db.QueryRowContext(c,
		selectFacebookLogin+` WHERE facebook_id = ?`, facebookID))
	if errors.Is(err, sql.ErrNoRows) {
		return FacebookLogin{}, false, nil
	}
	if err != nil {
		return FacebookLogin{}, false, fmt.Errorf("error fetching facebook login %s: %w", facebookID, err)
	}
	return login, true, nil
}

// InsertFacebookLogin creates or refreshes the login. An existing link to a user is kept.
func (s *sqliteStore) InsertFacebookLogin(c context.Context, login FacebookLogin) error {
	if login.FacebookID == "" {
		return fmt.Errorf("facebook id is required")
	}
	now := s.nower.Now()
	if login.CreatedAt.IsZero() {
		login.CreatedAt = now
	}
	if login.MetaKey == "" {
		login.MetaKey = fbvault.MetaKey
	}

	_, err := s.db.ExecContext(c,
		`INSERT INTO facebook_logins (facebook_id, email, first_name, last_name, meta_key, created_at, last_modified)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (facebook_id) DO UPDATE SET
		   email = excluded.email,
		   first_name = excluded.first_name,
		   last_name = excluded.last_name,
		   meta_key = excluded.meta_key,
		   last_modified = excluded.last_modified`,
		login.FacebookID, NormalizeEmail(login.Email), login.FirstName, login.LastName, login.MetaKey,
		toMillis(login.CreatedAt), toMillis(now))
	if err != nil {
		return fmt.Errorf("error storing facebook login %s: %w", login.FacebookID, err)
	}

	return nil
}

// LinkUserByEmail attaches the id of the user with this email to the facebook logins with the same email.
func (s *sqliteStore) LinkUserByEmail(c context.Context, email string) (bool, error) {
	email = NormalizeEmail(email)

	result, err := s.db.ExecContext(c,
		`UPDATE facebook_logins
		 SET user_id = (SELECT id FROM users WHERE users.email = facebook_logins.email),
		     last_modified = ?
		 WHERE email = ? AND EXISTS (SELECT 1 FROM users WHERE users.email = facebook_logins.email)`,
		toMillis(s.nower.Now()), email)
	if err != nil {
		return false, fmt.Errorf("error linking user %s: %w", email, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("error linking user %s: %w", email, err)
	}

	return affected > 0, nil
}

func (s *sqliteStore) ListFacebookLogins(c context.Context) ([]FacebookLogin, error) {
	rows, err := s.db.QueryContext(c, selectFacebookLogin+` ORDER BY created_at, facebook_id`)
	if err != nil {
		return nil, fmt.Errorf("error listing facebook logins: %w", err)
	}
	defer rows.Close()

	logins := []FacebookLogin{}
	for rows.Next() {
		login, err := scanFacebookLogin(rows)
		if err != nil {
			return nil, fmt.Errorf("error reading facebook login: %w", err)
		}
		logins = append(logins, login)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error listing facebook logins: %w", err)
	}

	return logins, nil
}

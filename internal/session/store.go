package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/yogamuz/inventory-pos/internal/domain"
)

// Persister loads and saves the durable part of the session. Only the user
// profile, the authenticated flag and the backend cookies survive restarts;
// transient flags never reach storage.
type Persister interface {
	Load(ctx context.Context) (*domain.User, bool, []*http.Cookie, error)
	Save(ctx context.Context, user *domain.User, authenticated bool, cookies []*http.Cookie) error
	Clear(ctx context.Context) error
}

// Store is the sqlite-backed Persister.
type Store struct {
	db   *sql.DB
	path string
}

var _ Persister = (*Store)(nil)

// NewStore opens (and migrates) the session database under dataDir.
func NewStore(dataDir string) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0o700); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	dbPath := filepath.Join(dataDir, "invpos.db")
	db, err := sql.Open("sqlite3", dbPath+"?_journal=WAL&_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	s := &Store{db: db, path: dbPath}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS session (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		user_json TEXT,
		is_authenticated INTEGER NOT NULL DEFAULT 0,
		cookies_json TEXT,
		updated_at DATETIME NOT NULL
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Load reads the persisted session. A missing row is a clean first start,
// not an error.
func (s *Store) Load(ctx context.Context) (*domain.User, bool, []*http.Cookie, error) {
	var userJSON, cookiesJSON sql.NullString
	var authenticated bool

	err := s.db.QueryRowContext(ctx, `
		SELECT user_json, is_authenticated, cookies_json FROM session WHERE id = 1
	`).Scan(&userJSON, &authenticated, &cookiesJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil, nil
	}
	if err != nil {
		return nil, false, nil, err
	}

	var user *domain.User
	if userJSON.Valid && userJSON.String != "" {
		user = &domain.User{}
		if err := json.Unmarshal([]byte(userJSON.String), user); err != nil {
			// Corrupt row: treat as signed out rather than failing startup.
			return nil, false, nil, nil
		}
	}

	var cookies []*http.Cookie
	if cookiesJSON.Valid && cookiesJSON.String != "" {
		var saved []savedCookie
		if err := json.Unmarshal([]byte(cookiesJSON.String), &saved); err == nil {
			for _, sc := range saved {
				cookies = append(cookies, &http.Cookie{Name: sc.Name, Value: sc.Value, Path: "/"})
			}
		}
	}

	return user, authenticated, cookies, nil
}

// Save upserts the single session row.
func (s *Store) Save(ctx context.Context, user *domain.User, authenticated bool, cookies []*http.Cookie) error {
	var userJSON []byte
	if user != nil {
		var err error
		userJSON, err = json.Marshal(user)
		if err != nil {
			return fmt.Errorf("encode user: %w", err)
		}
	}

	saved := make([]savedCookie, 0, len(cookies))
	for _, ck := range cookies {
		saved = append(saved, savedCookie{Name: ck.Name, Value: ck.Value})
	}
	cookiesJSON, err := json.Marshal(saved)
	if err != nil {
		return fmt.Errorf("encode cookies: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO session (id, user_json, is_authenticated, cookies_json, updated_at)
		VALUES (1, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			user_json = excluded.user_json,
			is_authenticated = excluded.is_authenticated,
			cookies_json = excluded.cookies_json,
			updated_at = excluded.updated_at
	`, nullable(userJSON), authenticated, string(cookiesJSON), time.Now().UTC())
	return err
}

// Clear wipes the persisted session.
func (s *Store) Clear(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM session WHERE id = 1`)
	return err
}

type savedCookie struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

func nullable(b []byte) any {
	if len(b) == 0 {
		return nil
	}
	return string(b)
}

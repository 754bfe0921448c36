package session

import (
	"database/sql"
	"encoding/json"
	"log"
	"os"
	"strings"
	"sync"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// pgBackend persists whole-session JSON snapshots. Best effort: a write
// failure is logged and the in-memory copy stays authoritative.
type pgBackend struct {
	db *sql.DB

	schemaOnce sync.Once
	schemaErr  error
}

func newPGBackendFromEnv() (*pgBackend, error) {
	dsn := strings.TrimSpace(os.Getenv("SESSION_STORE_PG_DSN"))
	if dsn == "" {
		return nil, nil
	}
	return newPGBackend(dsn)
}

func newPGBackend(dsn string) (*pgBackend, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &pgBackend{db: db}, nil
}

func (b *pgBackend) ensureSchema() error {
	b.schemaOnce.Do(func() {
		_, b.schemaErr = b.db.Exec(`
			CREATE TABLE IF NOT EXISTS sessions (
				id         TEXT PRIMARY KEY,
				snapshot   JSONB NOT NULL,
				updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
			)`)
	})
	return b.schemaErr
}

func (b *pgBackend) load(id string) (*Session, bool) {
	if b == nil || b.db == nil {
		return nil, false
	}
	if err := b.ensureSchema(); err != nil {
		return nil, false
	}
	var raw []byte
	err := b.db.QueryRow(`SELECT snapshot FROM sessions WHERE id = $1`, id).Scan(&raw)
	if err != nil {
		return nil, false
	}
	var sess Session
	if err := json.Unmarshal(raw, &sess); err != nil {
		log.Printf("session: corrupt snapshot for %s: %v", id, err)
		return nil, false
	}
	if sess.DataContext == nil {
		sess.DataContext = make(map[string]any)
	}
	sess.ID = id
	return &sess, true
}

func (b *pgBackend) save(sess *Session) {
	if b == nil || b.db == nil || sess == nil {
		return
	}
	if err := b.ensureSchema(); err != nil {
		return
	}
	raw, err := json.Marshal(sess)
	if err != nil {
		return
	}
	_, err = b.db.Exec(`
		INSERT INTO sessions (id, snapshot, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (id) DO UPDATE SET snapshot = EXCLUDED.snapshot, updated_at = now()`,
		sess.ID, raw)
	if err != nil {
		log.Printf("session: persist %s failed: %v", sess.ID, err)
	}
}

func (b *pgBackend) close() error {
	if b == nil || b.db == nil {
		return nil
	}
	return b.db.Close()
}

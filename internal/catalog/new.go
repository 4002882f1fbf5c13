package catalog

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/nguyentantai21042004/digest-flow/internal/logger"
	_ "modernc.org/sqlite"
)

const schema = `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		url TEXT NOT NULL,
		title TEXT NOT NULL DEFAULT '',
		folder TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL,
		degraded TEXT NOT NULL DEFAULT '',
		startedAt REAL NOT NULL,
		finishedAt REAL
	);
	CREATE INDEX IF NOT EXISTS runs_started ON runs(startedAt);
`

type implCatalog struct {
	db     *sql.DB
	logger logger.Logger
	now    func() time.Time
}

// Open opens (creating if needed) the catalog database at path.
func Open(path string, log logger.Logger) (Catalog, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create catalog dir: %w", err)
	}

	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping catalog: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create catalog schema: %w", err)
	}

	return &implCatalog{db: db, logger: log, now: time.Now}, nil
}

// Nop returns a Catalog that records nothing
func Nop() Catalog { return nopCatalog{} }

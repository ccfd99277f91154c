package db

import (
	"crypto/sha256"
	"embed"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	embedded "github.com/soluna/dayrate/migrations"
)

// MigrationStatus reports the state of a single schema migration.
type MigrationStatus struct {
	ID       string
	Checksum string
	Applied  bool
}

// MigrateUp applies all pending schema migrations for the connected driver.
// Applied migrations are tracked with a SHA256 checksum; a stored migration
// file that changed after being applied fails the run rather than silently
// diverging the schema.
func MigrateUp(conn *sqlx.DB) error {
	migrations, err := loadMigrations(conn.DriverName())
	if err != nil {
		return err
	}

	if err := createMigrationsTable(conn); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	applied, err := appliedMigrations(conn)
	if err != nil {
		return err
	}

	for _, m := range migrations {
		if checksum, ok := applied[m.ID]; ok {
			if checksum != m.Checksum {
				return fmt.Errorf("migration %s changed after being applied (checksum mismatch)", m.ID)
			}
			continue
		}

		// Execution and recording share a transaction so a failed
		// migration never leaves a half-applied record behind
		tx, err := conn.Beginx()
		if err != nil {
			return fmt.Errorf("failed to begin transaction for migration %s: %w", m.ID, err)
		}
		if _, err := tx.Exec(m.SQL); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to apply migration %s: %w", m.ID, err)
		}
		record := `INSERT INTO schema_migrations (migration_id, checksum, applied_at) VALUES (?, ?, ?)`
		if _, err := tx.Exec(conn.Rebind(record), m.ID, m.Checksum, time.Now().UTC().Format(time.RFC3339)); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to record migration %s: %w", m.ID, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit migration %s: %w", m.ID, err)
		}
	}

	return nil
}

// MigrateStatus returns the applied/pending state of every known migration.
func MigrateStatus(conn *sqlx.DB) ([]MigrationStatus, error) {
	migrations, err := loadMigrations(conn.DriverName())
	if err != nil {
		return nil, err
	}
	if err := createMigrationsTable(conn); err != nil {
		return nil, fmt.Errorf("failed to create migrations table: %w", err)
	}
	applied, err := appliedMigrations(conn)
	if err != nil {
		return nil, err
	}

	statuses := make([]MigrationStatus, 0, len(migrations))
	for _, m := range migrations {
		_, ok := applied[m.ID]
		statuses = append(statuses, MigrationStatus{ID: m.ID, Checksum: m.Checksum, Applied: ok})
	}
	return statuses, nil
}

type migration struct {
	ID       string
	Checksum string
	SQL      string
}

// loadMigrations reads the embedded migrations for a driver, ordered by
// filename. Numeric filename prefixes define application order.
func loadMigrations(driver string) ([]migration, error) {
	var migrationsFS embed.FS
	var dir string
	switch driver {
	case "sqlite3":
		migrationsFS = embedded.SqliteMigrations
		dir = "sqlite"
	case "postgres":
		migrationsFS = embedded.PostgresMigrations
		dir = "postgres"
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", driver)
	}

	var migrations []migration
	err := fs.WalkDir(migrationsFS, dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".sql") {
			return nil
		}
		content, err := migrationsFS.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}
		hash := sha256.Sum256(content)
		migrations = append(migrations, migration{
			ID:       filepath.Base(path),
			Checksum: fmt.Sprintf("%x", hash),
			SQL:      string(content),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse migrations: %w", err)
	}

	sort.Slice(migrations, func(i, j int) bool { return migrations[i].ID < migrations[j].ID })
	return migrations, nil
}

func createMigrationsTable(conn *sqlx.DB) error {
	_, err := conn.Exec(`CREATE TABLE IF NOT EXISTS schema_migrations (
		migration_id TEXT PRIMARY KEY,
		checksum     TEXT NOT NULL,
		applied_at   TEXT NOT NULL
	)`)
	return err
}

func appliedMigrations(conn *sqlx.DB) (map[string]string, error) {
	rows, err := conn.Queryx(`SELECT migration_id, checksum FROM schema_migrations`)
	if err != nil {
		return nil, fmt.Errorf("failed to query applied migrations: %w", err)
	}
	defer rows.Close()

	applied := make(map[string]string)
	for rows.Next() {
		var id, checksum string
		if err := rows.Scan(&id, &checksum); err != nil {
			return nil, err
		}
		applied[id] = checksum
	}
	return applied, rows.Err()
}

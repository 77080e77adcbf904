package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/cognicore/kwmap/pkg/kwmap/store"
	"github.com/cognicore/kwmap/pkg/kwmap/taxonomy"
)

// sqliteStore implements the Store interface using SQLite
type sqliteStore struct {
	db *sql.DB
}

// OpenSQLite opens a SQLite database with WAL mode enabled and creates the
// snapshot schema if needed.
func OpenSQLite(ctx context.Context, path string) (store.Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// Enable WAL mode for better concurrency
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, err
	}

	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, err
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return &sqliteStore{db: db}, nil
}

const schema = `
CREATE TABLE IF NOT EXISTS records (
	seq INTEGER PRIMARY KEY AUTOINCREMENT,
	id TEXT UNIQUE NOT NULL,
	name TEXT NOT NULL,
	type TEXT NOT NULL,
	search_volume REAL NOT NULL DEFAULT 0,
	keyword_difficulty REAL NOT NULL DEFAULT 0,
	cpc REAL NOT NULL DEFAULT 0,
	total_keywords INTEGER NOT NULL DEFAULT 0,
	total_clusters INTEGER NOT NULL DEFAULT 0,
	full_hierarchy_path TEXT NOT NULL,
	metadata TEXT
);

CREATE INDEX IF NOT EXISTS idx_records_type ON records(type, seq);

CREATE TABLE IF NOT EXISTS cluster_keywords (
	record_id TEXT NOT NULL,
	position INTEGER NOT NULL,
	keyword TEXT NOT NULL,
	PRIMARY KEY(record_id, position),
	FOREIGN KEY(record_id) REFERENCES records(id) ON DELETE CASCADE
);
`

// Close closes the database connection
func (s *sqliteStore) Close() error {
	return s.db.Close()
}

// WriteSnapshot replaces the stored records in a single transaction. Types
// are written in hierarchy order so Records preserves each list's order.
func (s *sqliteStore) WriteSnapshot(ctx context.Context, index taxonomy.FlatIndex) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM cluster_keywords`); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM records`); err != nil {
		return err
	}

	recStmt, err := tx.PrepareContext(ctx, `
INSERT INTO records (id, name, type, search_volume, keyword_difficulty, cpc,
	total_keywords, total_clusters, full_hierarchy_path, metadata)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer recStmt.Close()

	kwStmt, err := tx.PrepareContext(ctx, `INSERT INTO cluster_keywords (record_id, position, keyword) VALUES (?, ?, ?)`)
	if err != nil {
		return err
	}
	defer kwStmt.Close()

	for _, t := range taxonomy.AllTypes {
		for _, rec := range index[t] {
			meta, err := encodeMetadata(rec.Metadata)
			if err != nil {
				return fmt.Errorf("record %s: %w", rec.ID, err)
			}
			if _, err := recStmt.ExecContext(ctx,
				rec.ID,
				rec.Name,
				rec.Type.String(),
				rec.SearchVolume,
				rec.KeywordDifficulty,
				rec.CPC,
				rec.TotalKeywords,
				rec.TotalClusters,
				rec.FullHierarchyPath,
				meta,
			); err != nil {
				return fmt.Errorf("insert record %s: %w", rec.ID, err)
			}
			for i, kw := range rec.Keywords {
				if _, err := kwStmt.ExecContext(ctx, rec.ID, i, kw); err != nil {
					return fmt.Errorf("insert keyword for %s: %w", rec.ID, err)
				}
			}
		}
	}

	return tx.Commit()
}

func (s *sqliteStore) Records(ctx context.Context, t taxonomy.Type) ([]taxonomy.FlatRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT id, name, type, search_volume, keyword_difficulty, cpc,
	total_keywords, total_clusters, full_hierarchy_path, metadata
FROM records
WHERE type = ?
ORDER BY seq`, t.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []taxonomy.FlatRecord{}
	for rows.Next() {
		var (
			rec  taxonomy.FlatRecord
			typ  string
			meta sql.NullString
		)
		if err := rows.Scan(
			&rec.ID,
			&rec.Name,
			&typ,
			&rec.SearchVolume,
			&rec.KeywordDifficulty,
			&rec.CPC,
			&rec.TotalKeywords,
			&rec.TotalClusters,
			&rec.FullHierarchyPath,
			&meta,
		); err != nil {
			return nil, err
		}
		if rec.Type, err = taxonomy.ParseType(typ); err != nil {
			return nil, err
		}
		if meta.Valid && meta.String != "" {
			rec.Metadata = &taxonomy.Metadata{}
			if err := json.Unmarshal([]byte(meta.String), rec.Metadata); err != nil {
				return nil, fmt.Errorf("decode metadata for %s: %w", rec.ID, err)
			}
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if t != taxonomy.Cluster {
		return out, nil
	}
	for i := range out {
		kws, err := s.clusterKeywords(ctx, out[i].ID)
		if err != nil {
			return nil, err
		}
		out[i].Keywords = kws
	}
	return out, nil
}

func (s *sqliteStore) clusterKeywords(ctx context.Context, id string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT keyword FROM cluster_keywords WHERE record_id=? ORDER BY position`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var kws []string
	for rows.Next() {
		var kw string
		if err := rows.Scan(&kw); err != nil {
			return nil, err
		}
		kws = append(kws, kw)
	}
	return kws, rows.Err()
}

func (s *sqliteStore) Count(ctx context.Context) (map[taxonomy.Type]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT type, COUNT(*) FROM records GROUP BY type`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[taxonomy.Type]int)
	for rows.Next() {
		var (
			typ string
			n   int
		)
		if err := rows.Scan(&typ, &n); err != nil {
			return nil, err
		}
		t, err := taxonomy.ParseType(typ)
		if err != nil {
			return nil, err
		}
		out[t] = n
	}
	return out, rows.Err()
}

func encodeMetadata(m *taxonomy.Metadata) (sql.NullString, error) {
	if m == nil {
		return sql.NullString{}, nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return sql.NullString{}, err
	}
	return sql.NullString{String: string(b), Valid: true}, nil
}

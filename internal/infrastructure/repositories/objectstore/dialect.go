package objectstore

import (
	"strconv"
	"strings"

	"github.com/rios0rios0/opencatalogi/internal/domain/entities"
)

// dialect holds the statements that differ between SQL backends.
type dialect struct {
	driver      string
	schema      []string
	upsert      string
	placeholder func(n int) string
}

const objectColumns = "id, kind, natural_key, source, source_id, payload, updated_at"

//nolint:gochecknoglobals // read-only lookup
var dialects = map[string]dialect{
	entities.StoreSQLite: {
		driver: "sqlite",
		schema: []string{
			`CREATE TABLE IF NOT EXISTS objects (
    id TEXT NOT NULL,
    kind TEXT NOT NULL,
    natural_key TEXT NOT NULL DEFAULT '',
    source TEXT NOT NULL DEFAULT '',
    source_id TEXT NOT NULL DEFAULT '',
    payload TEXT NOT NULL DEFAULT '{}',
    updated_at TEXT NOT NULL,
    PRIMARY KEY (kind, id)
)`,
			`CREATE INDEX IF NOT EXISTS idx_objects_key ON objects(kind, natural_key)`,
			`CREATE INDEX IF NOT EXISTS idx_objects_source ON objects(kind, source, source_id)`,
		},
		upsert: `INSERT INTO objects (` + objectColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (kind, id) DO UPDATE SET
    natural_key = excluded.natural_key, source = excluded.source, source_id = excluded.source_id,
    payload = excluded.payload, updated_at = excluded.updated_at`,
		placeholder: func(int) string { return "?" },
	},
	entities.StoreMySQL: {
		driver: "mysql",
		schema: []string{
			`CREATE TABLE IF NOT EXISTS objects (
    id VARCHAR(64) NOT NULL,
    kind VARCHAR(32) NOT NULL,
    natural_key VARCHAR(512) NOT NULL DEFAULT '',
    source VARCHAR(32) NOT NULL DEFAULT '',
    source_id VARCHAR(512) NOT NULL DEFAULT '',
    payload LONGTEXT NOT NULL,
    updated_at VARCHAR(40) NOT NULL,
    PRIMARY KEY (kind, id),
    INDEX idx_objects_key (kind, natural_key),
    INDEX idx_objects_source (kind, source, source_id)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
		},
		upsert: `INSERT INTO objects (` + objectColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
    natural_key = VALUES(natural_key), source = VALUES(source), source_id = VALUES(source_id),
    payload = VALUES(payload), updated_at = VALUES(updated_at)`,
		placeholder: func(int) string { return "?" },
	},
	entities.StorePostgres: {
		driver: "pgx",
		schema: []string{
			`CREATE TABLE IF NOT EXISTS objects (
    id TEXT NOT NULL,
    kind TEXT NOT NULL,
    natural_key TEXT NOT NULL DEFAULT '',
    source TEXT NOT NULL DEFAULT '',
    source_id TEXT NOT NULL DEFAULT '',
    payload TEXT NOT NULL DEFAULT '{}',
    updated_at TEXT NOT NULL,
    PRIMARY KEY (kind, id)
)`,
			`CREATE INDEX IF NOT EXISTS idx_objects_key ON objects(kind, natural_key)`,
			`CREATE INDEX IF NOT EXISTS idx_objects_source ON objects(kind, source, source_id)`,
		},
		upsert: `INSERT INTO objects (` + objectColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (kind, id) DO UPDATE SET
    natural_key = EXCLUDED.natural_key, source = EXCLUDED.source, source_id = EXCLUDED.source_id,
    payload = EXCLUDED.payload, updated_at = EXCLUDED.updated_at`,
		placeholder: func(n int) string { return "$" + strconv.Itoa(n) },
	},
}

// rebind rewrites ? placeholders into the dialect's form.
func (d dialect) rebind(query string) string {
	if d.placeholder(1) == "?" {
		return query
	}

	var builder strings.Builder
	n := 0
	for _, char := range query {
		if char == '?' {
			n++
			builder.WriteString(d.placeholder(n))
			continue
		}
		builder.WriteRune(char)
	}
	return builder.String()
}

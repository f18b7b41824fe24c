package objectstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	logger "github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"

	"github.com/rios0rios0/opencatalogi/internal/domain/entities"
	"github.com/rios0rios0/opencatalogi/internal/domain/repositories"
)

const (
	pingTimeout = 5 * time.Second
	// timeLayout is fixed-width so stored timestamps sort as text.
	timeLayout = "2006-01-02T15:04:05.000000000Z"
)

// SQLObjectRepository stores records in a single objects table. Saves are
// buffered and written in one transaction on Flush; lookups see buffered saves.
type SQLObjectRepository struct {
	db      *sql.DB
	dialect dialect

	mu           sync.Mutex
	pending      map[entities.Kind]map[string]entities.Record
	pendingOrder []pendingRef
}

type pendingRef struct {
	kind entities.Kind
	id   string
}

// NewSQLObjectRepository opens the database selected by settings and creates the schema.
func NewSQLObjectRepository(settings entities.StoreSettings) (repositories.ObjectRepository, error) {
	d, ok := dialects[settings.Driver]
	if !ok {
		return nil, fmt.Errorf("unsupported store driver %q", settings.Driver)
	}

	dsn := strings.TrimSpace(settings.DSN)
	if d.driver == "sqlite" && !strings.Contains(dsn, "?") {
		dsn += "?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)"
	}

	db, err := sql.Open(d.driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", settings.Driver, err)
	}
	if d.driver == "sqlite" {
		db.SetMaxOpenConns(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err = db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping %s: %w", settings.Driver, err)
	}

	repo := newSQLObjectRepository(db, d)
	if err = repo.initSchema(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	logger.Infof("Opened %s object store", settings.Driver)
	return repo, nil
}

func newSQLObjectRepository(db *sql.DB, d dialect) *SQLObjectRepository {
	return &SQLObjectRepository{
		db:      db,
		dialect: d,
		pending: make(map[entities.Kind]map[string]entities.Record),
	}
}

func (r *SQLObjectRepository) initSchema(ctx context.Context) error {
	for _, stmt := range r.dialect.schema {
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// Close releases the database handle. Buffered saves are not flushed.
func (r *SQLObjectRepository) Close() error {
	return r.db.Close()
}

func (r *SQLObjectRepository) Get(ctx context.Context, kind entities.Kind, id string) (entities.Record, error) {
	if record, ok := r.pendingRecord(kind, id); ok {
		return record, nil
	}

	records, err := r.query(ctx, `WHERE kind = ? AND id = ?`, string(kind), id)
	if err != nil {
		return entities.Record{}, err
	}
	if len(records) == 0 {
		return entities.Record{}, fmt.Errorf("%w: %s %q", entities.ErrObjectNotFound, kind, id)
	}
	return records[0], nil
}

func (r *SQLObjectRepository) FindByKey(
	ctx context.Context,
	kind entities.Kind,
	key string,
) (entities.Record, error) {
	return r.find(ctx, kind,
		func(record entities.Record) bool { return record.Key == key },
		`WHERE kind = ? AND natural_key = ?`, string(kind), key,
	)
}

func (r *SQLObjectRepository) FindBySource(
	ctx context.Context,
	kind entities.Kind,
	source, sourceID string,
) (entities.Record, error) {
	return r.find(ctx, kind,
		func(record entities.Record) bool { return record.Source == source && record.SourceID == sourceID },
		`WHERE kind = ? AND source = ? AND source_id = ?`, string(kind), source, sourceID,
	)
}

func (r *SQLObjectRepository) List(ctx context.Context, kind entities.Kind) ([]entities.Record, error) {
	stored, err := r.query(ctx, `WHERE kind = ?`, string(kind))
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	records := make([]entities.Record, 0, len(stored))
	seen := make(map[string]bool, len(stored))
	for _, record := range stored {
		if buffered, ok := r.pending[kind][record.ID]; ok {
			record = buffered
		}
		seen[record.ID] = true
		records = append(records, record)
	}
	for _, ref := range r.pendingOrder {
		if ref.kind == kind && !seen[ref.id] {
			seen[ref.id] = true
			records = append(records, r.pending[kind][ref.id])
		}
	}
	return records, nil
}

func (r *SQLObjectRepository) Save(_ context.Context, record entities.Record) error {
	if record.ID == "" {
		return fmt.Errorf("cannot save %s without id", record.Kind)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.pending[record.Kind] == nil {
		r.pending[record.Kind] = make(map[string]entities.Record)
	}
	if _, exists := r.pending[record.Kind][record.ID]; !exists {
		r.pendingOrder = append(r.pendingOrder, pendingRef{kind: record.Kind, id: record.ID})
	}
	r.pending[record.Kind][record.ID] = record
	return nil
}

// Flush writes every buffered save in one transaction. The buffer is kept when the transaction fails.
func (r *SQLObjectRepository) Flush(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.pendingOrder) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, r.dialect.rebind(r.dialect.upsert))
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("prepare upsert: %w", err)
	}
	defer stmt.Close()

	for _, ref := range r.pendingOrder {
		record := r.pending[ref.kind][ref.id]
		if _, err = stmt.ExecContext(ctx,
			record.ID, string(record.Kind), record.Key, record.Source, record.SourceID,
			string(record.Payload), record.UpdatedAt.UTC().Format(timeLayout),
		); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("upsert %s %q: %w", record.Kind, record.ID, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	logger.Debugf("Flushed %d objects", len(r.pendingOrder))
	r.pending = make(map[entities.Kind]map[string]entities.Record)
	r.pendingOrder = nil
	return nil
}

func (r *SQLObjectRepository) pendingRecord(kind entities.Kind, id string) (entities.Record, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	record, ok := r.pending[kind][id]
	return record, ok
}

// find returns the first buffered match, otherwise the oldest stored match that
// has no buffered version.
func (r *SQLObjectRepository) find(
	ctx context.Context,
	kind entities.Kind,
	match func(entities.Record) bool,
	where string,
	args ...any,
) (entities.Record, error) {
	r.mu.Lock()
	for _, ref := range r.pendingOrder {
		if ref.kind != kind {
			continue
		}
		if record := r.pending[kind][ref.id]; match(record) {
			r.mu.Unlock()
			return record, nil
		}
	}
	r.mu.Unlock()

	stored, err := r.query(ctx, where, args...)
	if err != nil {
		return entities.Record{}, err
	}
	for _, record := range stored {
		if _, buffered := r.pendingRecord(kind, record.ID); buffered {
			continue
		}
		return record, nil
	}
	return entities.Record{}, fmt.Errorf("%w: %s matching %v", entities.ErrObjectNotFound, kind, args[1:])
}

func (r *SQLObjectRepository) query(ctx context.Context, where string, args ...any) ([]entities.Record, error) {
	query := r.dialect.rebind(`SELECT ` + objectColumns + ` FROM objects ` + where + ` ORDER BY updated_at, id`)
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query objects: %w", err)
	}
	defer rows.Close()

	var records []entities.Record
	for rows.Next() {
		var (
			record    entities.Record
			kind      string
			payload   string
			updatedAt string
		)
		if err = rows.Scan(
			&record.ID, &kind, &record.Key, &record.Source, &record.SourceID, &payload, &updatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan object: %w", err)
		}
		record.Kind = entities.Kind(kind)
		record.Payload = []byte(payload)
		updated, parseErr := time.Parse(timeLayout, updatedAt)
		if parseErr != nil {
			logger.Warnf("Object %s %q has an unreadable updated_at %q", kind, record.ID, updatedAt)
		}
		record.UpdatedAt = updated
		records = append(records, record)
	}
	if err = rows.Err(); err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("iterate objects: %w", err)
	}
	return records, nil
}

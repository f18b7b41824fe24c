package objectstore

import (
	"context"
	"fmt"
	"sync"

	"github.com/rios0rios0/opencatalogi/internal/domain/entities"
	"github.com/rios0rios0/opencatalogi/internal/domain/repositories"
)

// MemoryObjectRepository keeps records in process memory. Saves are visible at once.
type MemoryObjectRepository struct {
	mu      sync.RWMutex
	records map[entities.Kind]map[string]entities.Record
	order   map[entities.Kind][]string
}

// NewMemoryObjectRepository creates an empty in-memory store.
func NewMemoryObjectRepository() repositories.ObjectRepository {
	return &MemoryObjectRepository{
		records: make(map[entities.Kind]map[string]entities.Record),
		order:   make(map[entities.Kind][]string),
	}
}

func (r *MemoryObjectRepository) Get(_ context.Context, kind entities.Kind, id string) (entities.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	record, ok := r.records[kind][id]
	if !ok {
		return entities.Record{}, fmt.Errorf("%w: %s %q", entities.ErrObjectNotFound, kind, id)
	}
	return record, nil
}

func (r *MemoryObjectRepository) FindByKey(
	_ context.Context,
	kind entities.Kind,
	key string,
) (entities.Record, error) {
	return r.find(kind, func(record entities.Record) bool { return record.Key == key },
		fmt.Sprintf("key %q", key))
}

func (r *MemoryObjectRepository) FindBySource(
	_ context.Context,
	kind entities.Kind,
	source, sourceID string,
) (entities.Record, error) {
	return r.find(kind, func(record entities.Record) bool {
		return record.Source == source && record.SourceID == sourceID
	}, fmt.Sprintf("source %s:%s", source, sourceID))
}

func (r *MemoryObjectRepository) List(_ context.Context, kind entities.Kind) ([]entities.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	records := make([]entities.Record, 0, len(r.order[kind]))
	for _, id := range r.order[kind] {
		records = append(records, r.records[kind][id])
	}
	return records, nil
}

func (r *MemoryObjectRepository) Save(_ context.Context, record entities.Record) error {
	if record.ID == "" {
		return fmt.Errorf("cannot save %s without id", record.Kind)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.records[record.Kind] == nil {
		r.records[record.Kind] = make(map[string]entities.Record)
	}
	if _, exists := r.records[record.Kind][record.ID]; !exists {
		r.order[record.Kind] = append(r.order[record.Kind], record.ID)
	}
	r.records[record.Kind][record.ID] = record
	return nil
}

func (r *MemoryObjectRepository) Flush(context.Context) error { return nil }

// find returns the oldest record of kind accepted by match.
func (r *MemoryObjectRepository) find(
	kind entities.Kind,
	match func(entities.Record) bool,
	what string,
) (entities.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, id := range r.order[kind] {
		if record := r.records[kind][id]; match(record) {
			return record, nil
		}
	}
	return entities.Record{}, fmt.Errorf("%w: %s with %s", entities.ErrObjectNotFound, kind, what)
}

package commands

import (
	"context"
	"errors"

	"github.com/google/uuid"
	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/opencatalogi/internal/domain/entities"
	"github.com/rios0rios0/opencatalogi/internal/domain/repositories"
)

// objectPtr constrains PT to a pointer to T implementing entities.Object.
type objectPtr[T any] interface {
	*T
	entities.Object
}

func load[T any, PT objectPtr[T]](record entities.Record) (PT, error) {
	obj := PT(new(T))
	if err := record.Decode(obj); err != nil {
		return nil, err
	}
	return obj, nil
}

// findOrCreate decodes the record returned by find, or builds a new object with
// factory when find reports entities.ErrObjectNotFound.
func findOrCreate[T any, PT objectPtr[T]](
	find func() (entities.Record, error),
	factory func() PT,
) (PT, error) {
	record, err := find()
	switch {
	case err == nil:
		return load[T, PT](record)
	case errors.Is(err, entities.ErrObjectNotFound):
		obj := factory()
		obj.SetObjectID(uuid.NewString())
		return obj, nil
	default:
		return nil, err
	}
}

// findOrCreateByKey looks an object up by its natural key within its kind.
func findOrCreateByKey[T any, PT objectPtr[T]](
	ctx context.Context,
	store repositories.ObjectRepository,
	key string,
	factory func() PT,
) (PT, error) {
	kind := PT(new(T)).ObjectKind()
	return findOrCreate[T, PT](func() (entities.Record, error) {
		return store.FindByKey(ctx, kind, key)
	}, factory)
}

// findOrCreateBySource looks an object up by its upstream identity.
func findOrCreateBySource[T any, PT objectPtr[T]](
	ctx context.Context,
	store repositories.ObjectRepository,
	source, sourceID string,
	factory func() PT,
) (PT, error) {
	kind := PT(new(T)).ObjectKind()
	return findOrCreate[T, PT](func() (entities.Record, error) {
		return store.FindBySource(ctx, kind, source, sourceID)
	}, factory)
}

func save(ctx context.Context, store repositories.ObjectRepository, obj entities.Object) error {
	record, err := entities.NewRecord(obj)
	if err != nil {
		return err
	}
	return store.Save(ctx, record)
}

// batch flushes the store every size items.
type batch struct {
	store repositories.ObjectRepository
	size  int
	count int
}

func newBatch(store repositories.ObjectRepository, size int) *batch {
	if size <= 0 {
		size = 1
	}
	return &batch{store: store, size: size}
}

func (b *batch) tick(ctx context.Context) {
	b.count++
	if b.count%b.size != 0 {
		return
	}
	if err := b.store.Flush(ctx); err != nil {
		logger.Errorf("Failed to flush batch after %d items: %v", b.count, err)
	}
}

func (b *batch) done(ctx context.Context) error {
	return b.store.Flush(ctx)
}

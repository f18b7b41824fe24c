package entities

import (
	"encoding/json"
	"fmt"
	"time"
)

// Kind names the schema a persisted object belongs to.
type Kind string

const (
	KindRepository   Kind = "repository"
	KindComponent    Kind = "component"
	KindOrganisation Kind = "organisation"
	KindContact      Kind = "contact"
	KindApplication  Kind = "application"
)

// Object is implemented by every entity the object repository persists.
type Object interface {
	ObjectKind() Kind
	ObjectID() string
	SetObjectID(id string)
	// NaturalKey is the value used for find-or-create lookups within the kind.
	NaturalKey() string
}

// Synchronizable objects are bound to an upstream identity (source, sourceID).
type Synchronizable interface {
	Object
	SyncSource() (source, sourceID string)
}

// Record is the storage form of an Object.
type Record struct {
	ID        string
	Kind      Kind
	Key       string
	Source    string
	SourceID  string
	Payload   []byte
	UpdatedAt time.Time
}

// NewRecord serializes obj into a Record.
func NewRecord(obj Object) (Record, error) {
	payload, err := json.Marshal(obj)
	if err != nil {
		return Record{}, fmt.Errorf("failed to encode %s %q: %w", obj.ObjectKind(), obj.ObjectID(), err)
	}

	record := Record{
		ID:        obj.ObjectID(),
		Kind:      obj.ObjectKind(),
		Key:       obj.NaturalKey(),
		Payload:   payload,
		UpdatedAt: time.Now().UTC(),
	}
	if synced, ok := obj.(Synchronizable); ok {
		record.Source, record.SourceID = synced.SyncSource()
	}
	return record, nil
}

// Decode fills obj from the record payload.
func (r Record) Decode(obj Object) error {
	if err := json.Unmarshal(r.Payload, obj); err != nil {
		return fmt.Errorf("failed to decode %s %q: %w", r.Kind, r.ID, err)
	}
	obj.SetObjectID(r.ID)
	return nil
}

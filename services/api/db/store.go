package db

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/02loveslollipop/Shizuku-irrigation/services/api/plant"
)

// Record is a stored reading together with the evaluation computed for it.
type Record struct {
	ID         uuid.UUID `json:"id"`
	ReceivedAt time.Time `json:"fecha"`
	plant.Reading
	Evaluation plant.Evaluation `json:"evaluacion"`
}

// Store is the append-only sensor log.
type Store interface {
	// Append stores rec after every previously appended record.
	Append(ctx context.Context, rec Record) error
	// Latest returns the most recently appended record, or nil when the log
	// is empty.
	Latest(ctx context.Context) (*Record, error)
	// All returns every record in append order.
	All(ctx context.Context) ([]Record, error)
	Ping(ctx context.Context) error
	Close()
}

// NewRecord stamps a fresh identifier on an evaluated reading.
func NewRecord(r plant.Reading, ev plant.Evaluation, at time.Time) Record {
	return Record{ID: uuid.New(), ReceivedAt: at.UTC(), Reading: r, Evaluation: ev}
}

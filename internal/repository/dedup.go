package repository

import (
	"context"

	"github.com/user/listing-service/internal/entity"
)

// DedupStrategy decides whether a candidate record already exists. The
// matching criterion is policy: a positive verdict makes the pipeline drop
// the item without a store write, reported as an outcome, not an error.
type DedupStrategy interface {
	IsDuplicate(ctx context.Context, candidate *entity.Record) (bool, error)
	// MarkStored tells the strategy the candidate reached the store. Any
	// fast-path state must be primed here, never during the check itself:
	// a record that failed to store must stay storable on the next run.
	MarkStored(ctx context.Context, candidate *entity.Record)
}

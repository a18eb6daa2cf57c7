package db

import "errors"

// AthenaDatabase is the whole entity store, area by area.
type AthenaDatabase interface {
	News() NewsInterface
	Cois() CoiInterface
	Research() ResearchInterface
	Catalog() CatalogInterface
	Requests() RequestInterface
	Collections() CollectionInterface
	Feedback() FeedbackInterface
	Home() HomeInterface
	Sync() SyncInterface
	Ratings() RatingInterface
	Schema() SchemaInterface
	Close() error
}

var (
	// requested record is not found.
	ErrMissing = errors.New("missing record")

	// records are found more than expected.
	ErrTooMuch = errors.New("too much records")

	// a record with the same business id is already stored.
	ErrConflict = errors.New("conflicting record")
)

package db

import (
	"context"
	"time"

	"github.com/athena-research/athena/pkg/utils/cmp"
)

// One reference inside a collection. Collections hold heterogeneous items,
// so each reference carries the item's kind beside its row id.
type CollectionItem struct {
	ItemId   string `json:"itemId"`
	ItemKind string `json:"itemKind"`
}

// Collection is a named, user-owned group of item references.
type Collection struct {
	Id        string
	Name      string
	Owner     string
	Items     []CollectionItem
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (c Collection) Equal(o Collection) bool {
	return c.Id == o.Id &&
		c.Name == o.Name &&
		c.Owner == o.Owner &&
		cmp.SliceEq(c.Items, o.Items) &&
		c.CreatedAt.Equal(o.CreatedAt) &&
		c.UpdatedAt.Equal(o.UpdatedAt)
}

type CollectionInterface interface {
	// Register persists a new collection for the owner.
	Register(ctx context.Context, name string, owner string, items []CollectionItem) (Collection, error)

	// FindByOwner returns all collections of the owner.
	FindByOwner(ctx context.Context, owner string) ([]Collection, error)

	// AddItems appends references to an existing collection.
	//
	// References already present are not duplicated.
	// Returns ErrMissing when no collection exists for the id.
	AddItems(ctx context.Context, id string, items []CollectionItem) error
}

package mocks

import (
	"context"
	"errors"

	kdb "github.com/athena-research/athena/pkg/db"
)

// Database bundles one mock per store area.
type Database struct {
	news        *NewsInterface
	cois        *CoiInterface
	research    *ResearchInterface
	catalog     *CatalogInterface
	requests    *RequestInterface
	collections *CollectionInterface
	feedback    *FeedbackInterface
	home        *HomeInterface
	sync        *SyncInterface
	ratings     *RatingInterface
	schema      *SchemaInterface
}

func NewDatabase() *Database {
	return &Database{
		news:        NewNewsInterface(),
		cois:        NewCoiInterface(),
		research:    NewResearchInterface(),
		catalog:     NewCatalogInterface(),
		requests:    NewRequestInterface(),
		collections: NewCollectionInterface(),
		feedback:    NewFeedbackInterface(),
		home:        NewHomeInterface(),
		sync:        NewSyncInterface(),
		ratings:     NewRatingInterface(),
		schema:      NewSchemaInterface(),
	}
}

var _ kdb.AthenaDatabase = &Database{}

func (d *Database) News() kdb.NewsInterface               { return d.news }
func (d *Database) Cois() kdb.CoiInterface                { return d.cois }
func (d *Database) Research() kdb.ResearchInterface       { return d.research }
func (d *Database) Catalog() kdb.CatalogInterface         { return d.catalog }
func (d *Database) Requests() kdb.RequestInterface        { return d.requests }
func (d *Database) Collections() kdb.CollectionInterface  { return d.collections }
func (d *Database) Feedback() kdb.FeedbackInterface       { return d.feedback }
func (d *Database) Home() kdb.HomeInterface               { return d.home }
func (d *Database) Sync() kdb.SyncInterface               { return d.sync }
func (d *Database) Ratings() kdb.RatingInterface          { return d.ratings }
func (d *Database) Schema() kdb.SchemaInterface           { return d.schema }
func (d *Database) Close() error                          { return nil }

type SchemaInterface struct {
	Impl struct {
		Version func(ctx context.Context) (int, error)
		Upgrade func(ctx context.Context) error
		Context func(ctx context.Context) (context.Context, context.CancelFunc)
	}

	Calls struct {
		Version CallLog[struct{}]
		Upgrade CallLog[struct{}]
		Context CallLog[struct{}]
	}
}

func NewSchemaInterface() *SchemaInterface {
	return &SchemaInterface{}
}

var _ kdb.SchemaInterface = &SchemaInterface{}

func (m *SchemaInterface) Version(ctx context.Context) (int, error) {
	m.Calls.Version = append(m.Calls.Version, struct{}{})
	if m.Impl.Version != nil {
		return m.Impl.Version(ctx)
	}
	panic(errors.New("it should not be called"))
}

func (m *SchemaInterface) Upgrade(ctx context.Context) error {
	m.Calls.Upgrade = append(m.Calls.Upgrade, struct{}{})
	if m.Impl.Upgrade != nil {
		return m.Impl.Upgrade(ctx)
	}
	panic(errors.New("it should not be called"))
}

func (m *SchemaInterface) Context(ctx context.Context) (context.Context, context.CancelFunc) {
	m.Calls.Context = append(m.Calls.Context, struct{}{})
	if m.Impl.Context != nil {
		return m.Impl.Context(ctx)
	}
	return ctx, func() {}
}

package postgres

import (
	"context"

	"github.com/jackc/pgx/v4/pgxpool"

	kdb "github.com/athena-research/athena/pkg/db"
	kpgcatalog "github.com/athena-research/athena/pkg/db/postgres/catalog"
	kpgcoi "github.com/athena-research/athena/pkg/db/postgres/coi"
	kpgcollections "github.com/athena-research/athena/pkg/db/postgres/collections"
	kpgfeedback "github.com/athena-research/athena/pkg/db/postgres/feedback"
	kpghome "github.com/athena-research/athena/pkg/db/postgres/home"
	kpgnews "github.com/athena-research/athena/pkg/db/postgres/news"
	kpool "github.com/athena-research/athena/pkg/db/postgres/pool"
	kpgratings "github.com/athena-research/athena/pkg/db/postgres/ratings"
	kpgrequests "github.com/athena-research/athena/pkg/db/postgres/requests"
	kpgresearch "github.com/athena-research/athena/pkg/db/postgres/research"
	kpgschema "github.com/athena-research/athena/pkg/db/postgres/schema"
	kpgsync "github.com/athena-research/athena/pkg/db/postgres/sync"
	xe "github.com/athena-research/athena/pkg/errors"
)

type athenaDBPostgres struct {
	pool        *pgxpool.Pool
	news        kdb.NewsInterface
	cois        kdb.CoiInterface
	research    kdb.ResearchInterface
	catalog     kdb.CatalogInterface
	requests    kdb.RequestInterface
	collections kdb.CollectionInterface
	feedback    kdb.FeedbackInterface
	home        kdb.HomeInterface
	sync        kdb.SyncInterface
	ratings     kdb.RatingInterface
	schema      kdb.SchemaInterface
}

type Config struct {
	SchemaRepository string
}

type Option func(*Config) *Config

func WithSchemaRepository(repository string) Option {
	return func(c *Config) *Config {
		c.SchemaRepository = repository
		return c
	}
}

func New(
	ctx context.Context,
	url string,
	options ...Option,
) (kdb.AthenaDatabase, error) {
	pool, err := pgxpool.Connect(ctx, url)
	if err != nil {
		return nil, xe.Wrap(err)
	}

	c := Config{}
	for _, option := range options {
		c = *option(&c)
	}

	p := kpool.Wrap(pool)
	var schema kdb.SchemaInterface = kpgschema.Null()
	if c.SchemaRepository != "" {
		schema = kpgschema.New(p, c.SchemaRepository)
	}

	return &athenaDBPostgres{
		pool:        pool,
		news:        kpgnews.New(p),
		cois:        kpgcoi.New(p),
		research:    kpgresearch.New(p),
		catalog:     kpgcatalog.New(p),
		requests:    kpgrequests.New(p),
		collections: kpgcollections.New(p),
		feedback:    kpgfeedback.New(p),
		home:        kpghome.New(p),
		sync:        kpgsync.New(p),
		ratings:     kpgratings.New(p),
		schema:      schema,
	}, nil
}

func (a *athenaDBPostgres) News() kdb.NewsInterface {
	return a.news
}

func (a *athenaDBPostgres) Cois() kdb.CoiInterface {
	return a.cois
}

func (a *athenaDBPostgres) Research() kdb.ResearchInterface {
	return a.research
}

func (a *athenaDBPostgres) Catalog() kdb.CatalogInterface {
	return a.catalog
}

func (a *athenaDBPostgres) Requests() kdb.RequestInterface {
	return a.requests
}

func (a *athenaDBPostgres) Collections() kdb.CollectionInterface {
	return a.collections
}

func (a *athenaDBPostgres) Feedback() kdb.FeedbackInterface {
	return a.feedback
}

func (a *athenaDBPostgres) Home() kdb.HomeInterface {
	return a.home
}

func (a *athenaDBPostgres) Sync() kdb.SyncInterface {
	return a.sync
}

func (a *athenaDBPostgres) Ratings() kdb.RatingInterface {
	return a.ratings
}

func (a *athenaDBPostgres) Schema() kdb.SchemaInterface {
	return a.schema
}

func (a *athenaDBPostgres) Close() error {
	a.pool.Close()
	return nil
}

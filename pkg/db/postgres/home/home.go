package home

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v4"

	kdb "github.com/athena-research/athena/pkg/db"
	kpool "github.com/athena-research/athena/pkg/db/postgres/pool"
	xe "github.com/athena-research/athena/pkg/errors"
)

// a struct for DB operations related to the tenant home configuration.
//
// The configuration is a singleton row.
type homePG struct { // implements kdb.HomeInterface
	pool kpool.Pool
}

func New(pool kpool.Pool) *homePG {
	return &homePG{pool: pool}
}

var _ kdb.HomeInterface = &homePG{}

func (m *homePG) Get(ctx context.Context) (kdb.HomeConfiguration, kdb.HomeStatusBar, error) {
	conn, err := m.pool.Acquire(ctx)
	if err != nil {
		return kdb.HomeConfiguration{}, kdb.HomeStatusBar{}, err
	}
	defer conn.Release()

	conf := kdb.HomeConfiguration{}
	bar := kdb.HomeStatusBar{}
	err = conn.QueryRow(
		ctx,
		`
		SELECT "title", "description", "link", "updated_by", "updated_at",
		       "bar_message", "bar_link_text", "bar_is_active"
		FROM "home_configuration"
		`,
	).Scan(
		&conf.Title, &conf.Description, &conf.Link, &conf.UpdatedBy, &conf.UpdatedAt,
		&bar.Message, &bar.LinkText, &bar.IsActive,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return kdb.HomeConfiguration{}, kdb.HomeStatusBar{}, nil
	}
	if err != nil {
		return kdb.HomeConfiguration{}, kdb.HomeStatusBar{}, xe.Wrap(err)
	}
	return conf, bar, nil
}

func (m *homePG) Set(ctx context.Context, conf kdb.HomeConfiguration, bar kdb.HomeStatusBar) error {
	conn, err := m.pool.Acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()

	if _, err := conn.Exec(
		ctx,
		`
		INSERT INTO "home_configuration" (
			"single_row", "title", "description", "link", "updated_by", "updated_at",
			"bar_message", "bar_link_text", "bar_is_active"
		)
		VALUES (TRUE, $1, $2, $3, $4, now(), $5, $6, $7)
		ON CONFLICT ("single_row") DO UPDATE SET
			"title" = EXCLUDED."title",
			"description" = EXCLUDED."description",
			"link" = EXCLUDED."link",
			"updated_by" = EXCLUDED."updated_by",
			"updated_at" = now(),
			"bar_message" = EXCLUDED."bar_message",
			"bar_link_text" = EXCLUDED."bar_link_text",
			"bar_is_active" = EXCLUDED."bar_is_active"
		`,
		conf.Title, conf.Description, conf.Link, conf.UpdatedBy,
		bar.Message, bar.LinkText, bar.IsActive,
	); err != nil {
		return xe.Wrap(err)
	}
	return nil
}

package collections

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"

	kdb "github.com/athena-research/athena/pkg/db"
	kpgerr "github.com/athena-research/athena/pkg/db/postgres/errors"
	kpool "github.com/athena-research/athena/pkg/db/postgres/pool"
	xe "github.com/athena-research/athena/pkg/errors"
)

// a struct for DB operations related to user collections
type collectionPG struct { // implements kdb.CollectionInterface
	pool kpool.Pool
}

func New(pool kpool.Pool) *collectionPG {
	return &collectionPG{pool: pool}
}

var _ kdb.CollectionInterface = &collectionPG{}

func (m *collectionPG) Register(
	ctx context.Context, name string, owner string, items []kdb.CollectionItem,
) (kdb.Collection, error) {
	tx, err := m.pool.Begin(ctx)
	if err != nil {
		return kdb.Collection{}, err
	}
	defer tx.Rollback(ctx)

	if items == nil {
		items = []kdb.CollectionItem{}
	}
	buf, err := json.Marshal(items)
	if err != nil {
		return kdb.Collection{}, xe.Wrap(err)
	}

	c := kdb.Collection{
		Id:    uuid.NewString(),
		Name:  name,
		Owner: owner,
		Items: items,
	}
	if err := tx.QueryRow(
		ctx,
		`
		INSERT INTO "collection" ("id", "name", "owner", "items")
		VALUES ($1, $2, $3, $4)
		RETURNING "created_at", "updated_at"
		`,
		c.Id, name, owner, buf,
	).Scan(&c.CreatedAt, &c.UpdatedAt); err != nil {
		return kdb.Collection{}, xe.Wrap(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return kdb.Collection{}, err
	}
	return c, nil
}

func (m *collectionPG) FindByOwner(ctx context.Context, owner string) ([]kdb.Collection, error) {
	conn, err := m.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Release()

	rows, err := conn.Query(
		ctx,
		`
		SELECT "id", "name", "owner", "items", "created_at", "updated_at"
		FROM "collection" WHERE "owner" = $1
		ORDER BY "created_at" DESC, "id"
		`,
		owner,
	)
	if err != nil {
		return nil, xe.Wrap(err)
	}
	defer rows.Close()

	found := []kdb.Collection{}
	for rows.Next() {
		c := kdb.Collection{}
		var itemsRaw []byte
		if err := rows.Scan(
			&c.Id, &c.Name, &c.Owner, &itemsRaw, &c.CreatedAt, &c.UpdatedAt,
		); err != nil {
			return nil, xe.Wrap(err)
		}
		if err := json.Unmarshal(itemsRaw, &c.Items); err != nil {
			return nil, xe.Wrap(err)
		}
		found = append(found, c)
	}
	return found, rows.Err()
}

func (m *collectionPG) AddItems(ctx context.Context, id string, items []kdb.CollectionItem) error {
	tx, err := m.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var itemsRaw []byte
	if err := tx.QueryRow(
		ctx,
		`SELECT "items" FROM "collection" WHERE "id" = $1 FOR UPDATE`,
		id,
	).Scan(&itemsRaw); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return kpgerr.Missing{
				Table: "collection", Identity: fmt.Sprintf("id = %s", id),
			}
		}
		return xe.Wrap(err)
	}

	known := []kdb.CollectionItem{}
	if err := json.Unmarshal(itemsRaw, &known); err != nil {
		return xe.Wrap(err)
	}

	index := map[kdb.CollectionItem]struct{}{}
	for _, item := range known {
		index[item] = struct{}{}
	}
	added := false
	for _, item := range items {
		if _, ok := index[item]; ok {
			continue
		}
		index[item] = struct{}{}
		known = append(known, item)
		added = true
	}
	if !added {
		return tx.Commit(ctx)
	}

	buf, err := json.Marshal(known)
	if err != nil {
		return xe.Wrap(err)
	}
	if _, err := tx.Exec(
		ctx,
		`UPDATE "collection" SET "items" = $1, "updated_at" = now() WHERE "id" = $2`,
		buf, id,
	); err != nil {
		return xe.Wrap(err)
	}
	return tx.Commit(ctx)
}

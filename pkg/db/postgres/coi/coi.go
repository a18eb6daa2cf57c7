package coi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v4"

	kdb "github.com/athena-research/athena/pkg/db"
	kpgerr "github.com/athena-research/athena/pkg/db/postgres/errors"
	kpool "github.com/athena-research/athena/pkg/db/postgres/pool"
	xe "github.com/athena-research/athena/pkg/errors"
	"github.com/athena-research/athena/pkg/utils/idcodec"
)

// a struct for DB operations related to communities of interest
type coiPG struct { // implements kdb.CoiInterface
	pool kpool.Pool
}

func New(pool kpool.Pool) *coiPG {
	return &coiPG{pool: pool}
}

var _ kdb.CoiInterface = &coiPG{}

const columns = `
	"id", "coi_id", "name", "description", "status", "type",
	"members", "number_of_members", "champion_ids", "contact_id",
	"team_id", "group_link", "image_link", "search_query", "include_in_search",
	"keywords", "keywords_text",
	"sum_of_ratings", "number_of_ratings", "average_rating",
	"is_deleted", "created_by", "admin_comment", "created_at", "updated_at"
`

func (m *coiPG) Register(ctx context.Context, spec kdb.CoiSpec) (kdb.Coi, error) {
	tx, err := m.pool.Begin(ctx)
	if err != nil {
		return kdb.Coi{}, err
	}
	defer tx.Rollback(ctx)

	id := uuid.NewString()
	c := kdb.Coi{
		Id:              id,
		CoiId:           spec.CoiId,
		Name:            spec.Name,
		Description:     spec.Description,
		Status:          kdb.Pending,
		Type:            spec.Type,
		SearchQuery:     spec.SearchQuery,
		IncludeInSearch: spec.IncludeInSearch,
		Keywords:        spec.Keywords,
		KeywordsText:    spec.KeywordsText,
		AverageRating:   "0",
		CreatedBy:       spec.CreatedBy,
	}
	if err := tx.QueryRow(
		ctx,
		`
		INSERT INTO "coi" (
			"id", "coi_id", "name", "description", "status", "type",
			"search_query", "include_in_search", "keywords", "keywords_text",
			"created_by"
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING "created_at", "updated_at"
		`,
		id, spec.CoiId, spec.Name, spec.Description, kdb.Pending, spec.Type,
		spec.SearchQuery, spec.IncludeInSearch,
		idcodec.Encode(spec.Keywords), spec.KeywordsText,
		spec.CreatedBy,
	).Scan(&c.CreatedAt, &c.UpdatedAt); err != nil {
		if pgerr := new(pgconn.PgError); errors.As(err, &pgerr) &&
			pgerr.Code == pgerrcode.UniqueViolation {
			return kdb.Coi{}, xe.WrapWithNote(
				fmt.Sprintf("community id %d is already catalogued", spec.CoiId),
				kdb.ErrConflict,
			)
		}
		return kdb.Coi{}, xe.Wrap(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return kdb.Coi{}, err
	}
	return c, nil
}

func (m *coiPG) Find(ctx context.Context, query kdb.CoiFindQuery) ([]string, error) {
	conn, err := m.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Release()

	stmt := sq.Select(`"id"`).
		From(`"coi"`).
		Where(sq.Eq{`"is_deleted"`: false}).
		OrderBy(`"name"`, `"id"`).
		PlaceholderFormat(sq.Dollar)

	if 0 < len(query.Status) {
		statuses := make([]string, len(query.Status))
		for nth, s := range query.Status {
			statuses[nth] = s.String()
		}
		stmt = stmt.Where(sq.Eq{`"status"`: statuses})
	}
	if query.Type != "" {
		stmt = stmt.Where(sq.Eq{`"type"`: string(query.Type)})
	}
	if query.Search != "" {
		pattern := "%" + query.Search + "%"
		stmt = stmt.Where(sq.Or{
			sq.ILike{`"name"`: pattern},
			sq.ILike{`"description"`: pattern},
		})
	}
	if 0 < query.Skip {
		stmt = stmt.Offset(uint64(query.Skip))
	}
	if 0 < query.Top {
		stmt = stmt.Limit(uint64(query.Top))
	}

	sql, args, err := stmt.ToSql()
	if err != nil {
		return nil, xe.Wrap(err)
	}

	rows, err := conn.Query(ctx, sql, args...)
	if err != nil {
		return nil, xe.Wrap(err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, xe.Wrap(err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (m *coiPG) Get(ctx context.Context, ids []string) (map[string]kdb.Coi, error) {
	conn, err := m.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Release()

	return getByColumn(ctx, conn, `"id" = ANY($1)`, ids, func(c kdb.Coi) string { return c.Id })
}

func (m *coiPG) AddMember(ctx context.Context, id string, member kdb.CoiMember) error {
	tx, err := m.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var membersRaw []byte
	if err := tx.QueryRow(
		ctx,
		`SELECT "members" FROM "coi" WHERE "id" = $1 AND NOT "is_deleted" FOR UPDATE`,
		id,
	).Scan(&membersRaw); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return kpgerr.Missing{
				Table: "coi", Identity: fmt.Sprintf("id = %s", id),
			}
		}
		return xe.Wrap(err)
	}

	members := []kdb.CoiMember{}
	if err := json.Unmarshal(membersRaw, &members); err != nil {
		return xe.Wrap(err)
	}
	for _, known := range members {
		if known.PrincipalName == member.PrincipalName {
			return tx.Commit(ctx)
		}
	}
	members = append(members, member)

	buf, err := json.Marshal(members)
	if err != nil {
		return xe.Wrap(err)
	}
	if _, err := tx.Exec(
		ctx,
		`
		UPDATE "coi"
		SET "members" = $1, "number_of_members" = $2, "updated_at" = now()
		WHERE "id" = $3
		`,
		buf, len(members), id,
	); err != nil {
		return xe.Wrap(err)
	}
	return tx.Commit(ctx)
}

func (m *coiPG) AddRating(ctx context.Context, id string, stars int) error {
	conn, err := m.pool.Acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()

	tag, err := conn.Exec(
		ctx,
		`
		UPDATE "coi"
		SET "sum_of_ratings" = "sum_of_ratings" + $1,
		    "number_of_ratings" = "number_of_ratings" + 1,
		    "updated_at" = now()
		WHERE "id" = $2 AND NOT "is_deleted"
		`,
		stars, id,
	)
	if err != nil {
		return xe.Wrap(err)
	}
	if tag.RowsAffected() == 0 {
		return kpgerr.Missing{
			Table: "coi", Identity: fmt.Sprintf("id = %s", id),
		}
	}
	return nil
}

func (m *coiPG) SetTeam(ctx context.Context, id string, teamId string, groupLink string) error {
	conn, err := m.pool.Acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()

	tag, err := conn.Exec(
		ctx,
		`
		UPDATE "coi"
		SET "team_id" = $1, "group_link" = $2, "updated_at" = now()
		WHERE "id" = $3 AND NOT "is_deleted"
		`,
		teamId, groupLink, id,
	)
	if err != nil {
		return xe.Wrap(err)
	}
	if tag.RowsAffected() == 0 {
		return kpgerr.Missing{
			Table: "coi", Identity: fmt.Sprintf("id = %s", id),
		}
	}
	return nil
}

func (m *coiPG) ExistingByCoiId(ctx context.Context, coiIds []int) (map[int]kdb.Coi, error) {
	conn, err := m.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Release()

	return getByColumn(ctx, conn, `"coi_id" = ANY($1)`, coiIds, func(c kdb.Coi) int { return c.CoiId })
}

func (m *coiPG) Upsert(ctx context.Context, cois []kdb.Coi) error {
	if len(cois) == 0 {
		return nil
	}

	tx, err := m.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for _, c := range cois {
		members, err := json.Marshal(orEmpty(c.Members))
		if err != nil {
			return xe.Wrap(err)
		}
		if _, err := tx.Exec(
			ctx,
			`
			INSERT INTO "coi" (
				"id", "coi_id", "name", "description", "status", "type",
				"members", "number_of_members", "champion_ids", "contact_id",
				"team_id", "group_link", "image_link", "search_query",
				"include_in_search", "keywords", "keywords_text",
				"created_by", "admin_comment"
			)
			VALUES (
				$1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
				$11, $12, $13, $14, $15, $16, $17, $18, $19
			)
			ON CONFLICT ("id") DO UPDATE SET
				"coi_id" = EXCLUDED."coi_id",
				"name" = EXCLUDED."name",
				"description" = EXCLUDED."description",
				"status" = EXCLUDED."status",
				"type" = EXCLUDED."type",
				"members" = EXCLUDED."members",
				"number_of_members" = EXCLUDED."number_of_members",
				"champion_ids" = EXCLUDED."champion_ids",
				"contact_id" = EXCLUDED."contact_id",
				"team_id" = EXCLUDED."team_id",
				"group_link" = EXCLUDED."group_link",
				"image_link" = EXCLUDED."image_link",
				"search_query" = EXCLUDED."search_query",
				"include_in_search" = EXCLUDED."include_in_search",
				"keywords" = EXCLUDED."keywords",
				"keywords_text" = EXCLUDED."keywords_text",
				"admin_comment" = EXCLUDED."admin_comment",
				"updated_at" = now()
			`,
			c.Id, c.CoiId, c.Name, c.Description, c.Status, c.Type,
			members, c.NumberOfMembers, idcodec.Encode(c.ChampionIds), c.ContactId,
			c.TeamId, c.GroupLink, c.ImageLink, c.SearchQuery,
			c.IncludeInSearch, idcodec.Encode(c.Keywords), c.KeywordsText,
			c.CreatedBy, c.AdminComment,
		); err != nil {
			return xe.Wrap(err)
		}
	}
	return tx.Commit(ctx)
}

func getByColumn[K comparable](
	ctx context.Context, conn kpool.Conn,
	where string, keys interface{}, keyOf func(kdb.Coi) K,
) (map[K]kdb.Coi, error) {
	rows, err := conn.Query(
		ctx,
		`SELECT `+columns+` FROM "coi" WHERE `+where,
		keys,
	)
	if err != nil {
		return nil, xe.Wrap(err)
	}
	defer rows.Close()

	result := map[K]kdb.Coi{}
	for rows.Next() {
		c, err := scanCoi(rows)
		if err != nil {
			return nil, err
		}
		result[keyOf(c)] = c
	}
	return result, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanCoi(r rowScanner) (kdb.Coi, error) {
	c := kdb.Coi{}
	var status, coiType string
	var membersRaw []byte
	var championIds, keywords *string
	if err := r.Scan(
		&c.Id, &c.CoiId, &c.Name, &c.Description, &status, &coiType,
		&membersRaw, &c.NumberOfMembers, &championIds, &c.ContactId,
		&c.TeamId, &c.GroupLink, &c.ImageLink, &c.SearchQuery, &c.IncludeInSearch,
		&keywords, &c.KeywordsText,
		&c.SumOfRatings, &c.NumberOfRatings, &c.AverageRating,
		&c.IsDeleted, &c.CreatedBy, &c.AdminComment, &c.CreatedAt, &c.UpdatedAt,
	); err != nil {
		return kdb.Coi{}, xe.Wrap(err)
	}

	{
		s, err := kdb.AsRequestStatus(status)
		if err != nil {
			return kdb.Coi{}, xe.Wrap(err)
		}
		c.Status = s
	}
	{
		t, err := kdb.AsCoiType(coiType)
		if err != nil {
			return kdb.Coi{}, xe.Wrap(err)
		}
		c.Type = t
	}
	if err := json.Unmarshal(membersRaw, &c.Members); err != nil {
		return kdb.Coi{}, xe.Wrap(err)
	}
	if len(c.Members) == 0 {
		c.Members = nil
	}
	{
		ids, err := idcodec.Decode(championIds)
		if err != nil {
			return kdb.Coi{}, xe.Wrap(err)
		}
		c.ChampionIds = ids
	}
	{
		ids, err := idcodec.Decode(keywords)
		if err != nil {
			return kdb.Coi{}, xe.Wrap(err)
		}
		c.Keywords = ids
	}
	return c, nil
}

func orEmpty(members []kdb.CoiMember) []kdb.CoiMember {
	if members == nil {
		return []kdb.CoiMember{}
	}
	return members
}

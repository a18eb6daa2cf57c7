package news

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgerrcode"

	kdb "github.com/athena-research/athena/pkg/db"
	kpgerr "github.com/athena-research/athena/pkg/db/postgres/errors"
	kpool "github.com/athena-research/athena/pkg/db/postgres/pool"
	xe "github.com/athena-research/athena/pkg/errors"
	"github.com/athena-research/athena/pkg/utils/idcodec"
)

type pgStatus kdb.RequestStatus

func (s pgStatus) String() string {
	return string(s)
}

func (s *pgStatus) Scan(src interface{}) error {
	expr, ok := src.(string)
	if !ok {
		return fmt.Errorf("RequestStatus: unexpected type: %T", src)
	}
	parsed, err := kdb.AsRequestStatus(expr)
	if err != nil {
		return err
	}
	*s = pgStatus(parsed)
	return nil
}

// a struct for DB operations related to news articles
type newsPG struct { // implements kdb.NewsInterface
	pool kpool.Pool
}

func New(pool kpool.Pool) *newsPG {
	return &newsPG{pool: pool}
}

var _ kdb.NewsInterface = &newsPG{}

const columns = `
	"id", "news_id", "title", "abstract", "body", "external_link", "image_url",
	"status", "is_important", "is_deleted", "keywords", "keywords_text",
	"sum_of_ratings", "number_of_ratings", "average_rating",
	"security_level", "node_type_id", "news_source_id", "submitter_id",
	"created_by", "admin_comment", "created_at", "updated_at"
`

func (m *newsPG) Register(ctx context.Context, spec kdb.NewsSpec) (kdb.News, error) {
	tx, err := m.pool.Begin(ctx)
	if err != nil {
		return kdb.News{}, err
	}
	defer tx.Rollback(ctx)

	id := uuid.NewString()
	var createdAt, updatedAt time.Time
	if err := tx.QueryRow(
		ctx,
		`
		INSERT INTO "news" (
			"id", "news_id", "title", "abstract", "body", "external_link",
			"image_url", "status", "is_important", "keywords", "keywords_text",
			"security_level", "node_type_id", "news_source_id", "submitter_id",
			"created_by"
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING "created_at", "updated_at"
		`,
		id, spec.NewsId, spec.Title, spec.Abstract, spec.Body, spec.ExternalLink,
		spec.ImageURL, kdb.Pending, spec.IsImportant,
		idcodec.Encode(spec.Keywords), spec.KeywordsText,
		spec.SecurityLevel, spec.NodeTypeId, spec.NewsSourceId, spec.SubmitterId,
		spec.CreatedBy,
	).Scan(&createdAt, &updatedAt); err != nil {
		if pgerr := new(pgconn.PgError); errors.As(err, &pgerr) &&
			pgerr.Code == pgerrcode.UniqueViolation {
			return kdb.News{}, xe.WrapWithNote(
				fmt.Sprintf("news id %d is already catalogued", spec.NewsId),
				kdb.ErrConflict,
			)
		}
		return kdb.News{}, xe.Wrap(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return kdb.News{}, err
	}

	return kdb.News{
		Id:            id,
		NewsId:        spec.NewsId,
		Title:         spec.Title,
		Abstract:      spec.Abstract,
		Body:          spec.Body,
		ExternalLink:  spec.ExternalLink,
		ImageURL:      spec.ImageURL,
		Status:        kdb.Pending,
		IsImportant:   spec.IsImportant,
		Keywords:      spec.Keywords,
		KeywordsText:  spec.KeywordsText,
		AverageRating: "0",
		SecurityLevel: spec.SecurityLevel,
		NodeTypeId:    spec.NodeTypeId,
		NewsSourceId:  spec.NewsSourceId,
		SubmitterId:   spec.SubmitterId,
		CreatedBy:     spec.CreatedBy,
		CreatedAt:     createdAt,
		UpdatedAt:     updatedAt,
	}, nil
}

func (m *newsPG) Find(ctx context.Context, query kdb.NewsFindQuery) ([]string, error) {
	conn, err := m.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Release()

	stmt := sq.Select(`"id"`).
		From(`"news"`).
		Where(sq.Eq{`"is_deleted"`: false}).
		OrderBy(`"created_at" DESC`, `"id"`).
		PlaceholderFormat(sq.Dollar)

	if 0 < len(query.Status) {
		statuses := make([]string, len(query.Status))
		for nth, s := range query.Status {
			statuses[nth] = s.String()
		}
		stmt = stmt.Where(sq.Eq{`"status"`: statuses})
	}
	if query.Important != nil {
		stmt = stmt.Where(sq.Eq{`"is_important"`: *query.Important})
	}
	if 0 < len(query.KeywordId) {
		stmt = stmt.Where(
			`string_to_array(coalesce("keywords", ''), ' ')::int[] && ?::int[]`,
			intArrayLiteral(query.KeywordId),
		)
	}
	if query.Search != "" {
		pattern := "%" + query.Search + "%"
		stmt = stmt.Where(sq.Or{
			sq.ILike{`"title"`: pattern},
			sq.ILike{`"abstract"`: pattern},
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

func (m *newsPG) Get(ctx context.Context, ids []string) (map[string]kdb.News, error) {
	conn, err := m.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Release()

	rows, err := conn.Query(
		ctx,
		`SELECT `+columns+` FROM "news" WHERE "id" = ANY($1)`,
		ids,
	)
	if err != nil {
		return nil, xe.Wrap(err)
	}
	defer rows.Close()

	result := map[string]kdb.News{}
	for rows.Next() {
		n, err := scanNews(rows)
		if err != nil {
			return nil, err
		}
		result[n.Id] = n
	}
	return result, rows.Err()
}

func (m *newsPG) AddRating(ctx context.Context, id string, stars int) error {
	conn, err := m.pool.Acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()

	tag, err := conn.Exec(
		ctx,
		`
		UPDATE "news"
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
			Table: "news", Identity: fmt.Sprintf("id = %s", id),
		}
	}
	return nil
}

func (m *newsPG) SoftDelete(ctx context.Context, id string) error {
	conn, err := m.pool.Acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()

	tag, err := conn.Exec(
		ctx,
		`
		UPDATE "news"
		SET "is_deleted" = TRUE, "updated_at" = now()
		WHERE "id" = $1 AND NOT "is_deleted"
		`,
		id,
	)
	if err != nil {
		return xe.Wrap(err)
	}
	if tag.RowsAffected() == 0 {
		return kpgerr.Missing{
			Table: "news", Identity: fmt.Sprintf("id = %s", id),
		}
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanNews(r rowScanner) (kdb.News, error) {
	n := kdb.News{}
	var keywords *string
	var status pgStatus
	if err := r.Scan(
		&n.Id, &n.NewsId, &n.Title, &n.Abstract, &n.Body, &n.ExternalLink,
		&n.ImageURL, &status, &n.IsImportant, &n.IsDeleted,
		&keywords, &n.KeywordsText,
		&n.SumOfRatings, &n.NumberOfRatings, &n.AverageRating,
		&n.SecurityLevel, &n.NodeTypeId, &n.NewsSourceId, &n.SubmitterId,
		&n.CreatedBy, &n.AdminComment, &n.CreatedAt, &n.UpdatedAt,
	); err != nil {
		return kdb.News{}, xe.Wrap(err)
	}
	n.Status = kdb.RequestStatus(status)
	ks, err := idcodec.Decode(keywords)
	if err != nil {
		return kdb.News{}, xe.Wrap(err)
	}
	n.Keywords = ks
	return n, nil
}

// intArrayLiteral renders ids as a postgres array literal, like "{7,9}".
func intArrayLiteral(ids []int) string {
	parts := make([]string, len(ids))
	for nth, id := range ids {
		parts[nth] = fmt.Sprintf("%d", id)
	}
	return "{" + strings.Join(parts, ",") + "}"
}

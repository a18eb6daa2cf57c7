package research

import (
	"context"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"

	kdb "github.com/athena-research/athena/pkg/db"
	kpgerr "github.com/athena-research/athena/pkg/db/postgres/errors"
	kpool "github.com/athena-research/athena/pkg/db/postgres/pool"
	xe "github.com/athena-research/athena/pkg/errors"
	"github.com/athena-research/athena/pkg/utils/idcodec"
)

// a struct for DB operations related to research artifacts
type researchPG struct { // implements kdb.ResearchInterface
	pool kpool.Pool
}

func New(pool kpool.Pool) *researchPG {
	return &researchPG{pool: pool}
}

var _ kdb.ResearchInterface = &researchPG{}

const columns = `
	"id", "kind", "artifact_id", "title", "abstract", "description",
	"status", "status_description",
	"authors", "author_ids", "advisors", "advisor_ids",
	"second_readers", "second_reader_ids",
	"sponsors", "sponsor_ids", "partners", "partner_ids",
	"start_date", "completion_date", "last_update",
	"priority", "importance", "security_level", "node_type_id", "source_id",
	"keywords", "keywords_text",
	"sum_of_ratings", "number_of_ratings", "average_rating",
	"created_at", "updated_at"
`

func (m *researchPG) Find(ctx context.Context, query kdb.ResearchFindQuery) ([]string, error) {
	conn, err := m.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Release()

	stmt := sq.Select(`"id"`).
		From(`"research_artifact"`).
		OrderBy(`"updated_at" DESC`, `"id"`).
		PlaceholderFormat(sq.Dollar)

	if 0 < len(query.Kind) {
		kinds := make([]string, len(query.Kind))
		for nth, k := range query.Kind {
			kinds[nth] = string(k)
		}
		stmt = stmt.Where(sq.Eq{`"kind"`: kinds})
	}
	if 0 < len(query.Status) {
		statuses := make([]string, len(query.Status))
		for nth, s := range query.Status {
			statuses[nth] = string(s)
		}
		stmt = stmt.Where(sq.Eq{`"status"`: statuses})
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

func (m *researchPG) Get(ctx context.Context, ids []string) (map[string]kdb.ResearchArtifact, error) {
	conn, err := m.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Release()

	rows, err := conn.Query(
		ctx,
		`SELECT `+columns+` FROM "research_artifact" WHERE "id" = ANY($1)`,
		ids,
	)
	if err != nil {
		return nil, xe.Wrap(err)
	}
	defer rows.Close()

	result := map[string]kdb.ResearchArtifact{}
	for rows.Next() {
		a, err := scanArtifact(rows)
		if err != nil {
			return nil, err
		}
		result[a.Id] = a
	}
	return result, rows.Err()
}

func (m *researchPG) AddRating(ctx context.Context, id string, stars int) error {
	conn, err := m.pool.Acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()

	tag, err := conn.Exec(
		ctx,
		`
		UPDATE "research_artifact"
		SET "sum_of_ratings" = "sum_of_ratings" + $1,
		    "number_of_ratings" = "number_of_ratings" + 1,
		    "updated_at" = now()
		WHERE "id" = $2
		`,
		stars, id,
	)
	if err != nil {
		return xe.Wrap(err)
	}
	if tag.RowsAffected() == 0 {
		return kpgerr.Missing{
			Table: "research_artifact", Identity: fmt.Sprintf("id = %s", id),
		}
	}
	return nil
}

func (m *researchPG) ExistingByArtifactId(
	ctx context.Context, kind kdb.ResearchKind, artifactIds []int,
) (map[int]kdb.ResearchArtifact, error) {
	conn, err := m.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Release()

	rows, err := conn.Query(
		ctx,
		`SELECT `+columns+` FROM "research_artifact" WHERE "kind" = $1 AND "artifact_id" = ANY($2)`,
		string(kind), artifactIds,
	)
	if err != nil {
		return nil, xe.Wrap(err)
	}
	defer rows.Close()

	result := map[int]kdb.ResearchArtifact{}
	for rows.Next() {
		a, err := scanArtifact(rows)
		if err != nil {
			return nil, err
		}
		result[a.ArtifactId] = a
	}
	return result, rows.Err()
}

func (m *researchPG) Upsert(ctx context.Context, artifacts []kdb.ResearchArtifact) error {
	if len(artifacts) == 0 {
		return nil
	}

	tx, err := m.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for _, a := range artifacts {
		if _, err := tx.Exec(
			ctx,
			`
			INSERT INTO "research_artifact" (
				"id", "kind", "artifact_id", "title", "abstract", "description",
				"status", "status_description",
				"authors", "author_ids", "advisors", "advisor_ids",
				"second_readers", "second_reader_ids",
				"sponsors", "sponsor_ids", "partners", "partner_ids",
				"start_date", "completion_date", "last_update",
				"priority", "importance", "security_level", "node_type_id", "source_id",
				"keywords", "keywords_text"
			)
			VALUES (
				$1, $2, $3, $4, $5, $6, $7, $8,
				$9, $10, $11, $12, $13, $14, $15, $16, $17, $18,
				$19, $20, $21, $22, $23, $24, $25, $26, $27, $28
			)
			ON CONFLICT ("id") DO UPDATE SET
				"kind" = EXCLUDED."kind",
				"artifact_id" = EXCLUDED."artifact_id",
				"title" = EXCLUDED."title",
				"abstract" = EXCLUDED."abstract",
				"description" = EXCLUDED."description",
				"status" = EXCLUDED."status",
				"status_description" = EXCLUDED."status_description",
				"authors" = EXCLUDED."authors",
				"author_ids" = EXCLUDED."author_ids",
				"advisors" = EXCLUDED."advisors",
				"advisor_ids" = EXCLUDED."advisor_ids",
				"second_readers" = EXCLUDED."second_readers",
				"second_reader_ids" = EXCLUDED."second_reader_ids",
				"sponsors" = EXCLUDED."sponsors",
				"sponsor_ids" = EXCLUDED."sponsor_ids",
				"partners" = EXCLUDED."partners",
				"partner_ids" = EXCLUDED."partner_ids",
				"start_date" = EXCLUDED."start_date",
				"completion_date" = EXCLUDED."completion_date",
				"last_update" = EXCLUDED."last_update",
				"priority" = EXCLUDED."priority",
				"importance" = EXCLUDED."importance",
				"security_level" = EXCLUDED."security_level",
				"node_type_id" = EXCLUDED."node_type_id",
				"source_id" = EXCLUDED."source_id",
				"keywords" = EXCLUDED."keywords",
				"keywords_text" = EXCLUDED."keywords_text",
				"updated_at" = now()
			`,
			a.Id, string(a.Kind), a.ArtifactId, a.Title, a.Abstract, a.Description,
			string(a.Status), a.StatusDescription,
			a.Authors.Names, idcodec.Encode(a.Authors.Ids),
			a.Advisors.Names, idcodec.Encode(a.Advisors.Ids),
			a.SecondReaders.Names, idcodec.Encode(a.SecondReaders.Ids),
			a.Sponsors.Names, idcodec.Encode(a.Sponsors.Ids),
			a.Partners.Names, idcodec.Encode(a.Partners.Ids),
			a.StartDate, a.CompletionDate, a.LastUpdate,
			a.Priority, a.Importance, a.SecurityLevel, a.NodeTypeId, a.SourceId,
			idcodec.Encode(a.Keywords), a.KeywordsText,
		); err != nil {
			return xe.Wrap(err)
		}
	}
	return tx.Commit(ctx)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanArtifact(r rowScanner) (kdb.ResearchArtifact, error) {
	a := kdb.ResearchArtifact{}
	var kind, status string
	var authorIds, advisorIds, secondReaderIds, sponsorIds, partnerIds, keywords *string
	if err := r.Scan(
		&a.Id, &kind, &a.ArtifactId, &a.Title, &a.Abstract, &a.Description,
		&status, &a.StatusDescription,
		&a.Authors.Names, &authorIds, &a.Advisors.Names, &advisorIds,
		&a.SecondReaders.Names, &secondReaderIds,
		&a.Sponsors.Names, &sponsorIds, &a.Partners.Names, &partnerIds,
		&a.StartDate, &a.CompletionDate, &a.LastUpdate,
		&a.Priority, &a.Importance, &a.SecurityLevel, &a.NodeTypeId, &a.SourceId,
		&keywords, &a.KeywordsText,
		&a.SumOfRatings, &a.NumberOfRatings, &a.AverageRating,
		&a.CreatedAt, &a.UpdatedAt,
	); err != nil {
		return kdb.ResearchArtifact{}, xe.Wrap(err)
	}

	{
		k, err := kdb.AsResearchKind(kind)
		if err != nil {
			return kdb.ResearchArtifact{}, xe.Wrap(err)
		}
		a.Kind = k
	}
	{
		s, err := kdb.AsResearchStatus(status)
		if err != nil {
			return kdb.ResearchArtifact{}, xe.Wrap(err)
		}
		a.Status = s
	}

	for _, pair := range []struct {
		raw  *string
		dest *[]int
	}{
		{authorIds, &a.Authors.Ids},
		{advisorIds, &a.Advisors.Ids},
		{secondReaderIds, &a.SecondReaders.Ids},
		{sponsorIds, &a.Sponsors.Ids},
		{partnerIds, &a.Partners.Ids},
		{keywords, &a.Keywords},
	} {
		ids, err := idcodec.Decode(pair.raw)
		if err != nil {
			return kdb.ResearchArtifact{}, xe.Wrap(err)
		}
		*pair.dest = ids
	}
	return a, nil
}

func intArrayLiteral(ids []int) string {
	parts := make([]string, len(ids))
	for nth, id := range ids {
		parts[nth] = fmt.Sprintf("%d", id)
	}
	return "{" + strings.Join(parts, ",") + "}"
}

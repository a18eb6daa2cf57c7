package requests

import (
	"context"
	"errors"
	"sort"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v4"

	kdb "github.com/athena-research/athena/pkg/db"
	kpool "github.com/athena-research/athena/pkg/db/postgres/pool"
	xe "github.com/athena-research/athena/pkg/errors"
)

// a struct for DB operations related to the admin approval queue
type requestPG struct { // implements kdb.RequestInterface
	pool kpool.Pool
}

func New(pool kpool.Pool) *requestPG {
	return &requestPG{pool: pool}
}

var _ kdb.RequestInterface = &requestPG{}

// where approvable rows live, per kind.
type kindTable struct {
	table string
	title string
}

var kindTables = map[kdb.RequestKind]kindTable{
	kdb.KindNews: {table: "news", title: "title"},
	kdb.KindCoi:  {table: "coi", title: "name"},
}

func (m *requestPG) Find(ctx context.Context, query kdb.RequestFindQuery) ([]kdb.RequestSummary, error) {
	conn, err := m.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Release()

	kinds := query.Kind
	if len(kinds) == 0 {
		kinds = []kdb.RequestKind{kdb.KindNews, kdb.KindCoi}
	}

	found := []kdb.RequestSummary{}
	for _, kind := range kinds {
		kt, ok := kindTables[kind]
		if !ok {
			return nil, xe.New("unknown request kind")
		}

		stmt := sq.Select(
			`"id"`, `"`+kt.title+`"`, `"status"`, `"created_by"`, `"created_at"`,
		).
			From(`"`+kt.table+`"`).
			Where(sq.Eq{`"is_deleted"`: false}).
			PlaceholderFormat(sq.Dollar)

		if 0 < len(query.Status) {
			statuses := make([]string, len(query.Status))
			for nth, s := range query.Status {
				statuses[nth] = s.String()
			}
			stmt = stmt.Where(sq.Eq{`"status"`: statuses})
		}
		if query.Search != "" {
			stmt = stmt.Where(sq.ILike{`"` + kt.title + `"`: "%" + query.Search + "%"})
		}

		sql, args, err := stmt.ToSql()
		if err != nil {
			return nil, xe.Wrap(err)
		}

		rows, err := conn.Query(ctx, sql, args...)
		if err != nil {
			return nil, xe.Wrap(err)
		}
		for rows.Next() {
			s := kdb.RequestSummary{Kind: kind}
			var status string
			if err := rows.Scan(
				&s.Id, &s.Title, &status, &s.CreatedBy, &s.CreatedAt,
			); err != nil {
				rows.Close()
				return nil, xe.Wrap(err)
			}
			parsed, err := kdb.AsRequestStatus(status)
			if err != nil {
				rows.Close()
				return nil, xe.Wrap(err)
			}
			s.Status = parsed
			found = append(found, s)
		}
		rerr := rows.Err()
		rows.Close()
		if rerr != nil {
			return nil, xe.Wrap(rerr)
		}
	}

	sortSummaries(found, query.Sort, query.Desc)

	if query.Skip > 0 {
		if query.Skip >= len(found) {
			return []kdb.RequestSummary{}, nil
		}
		found = found[query.Skip:]
	}
	if 0 < query.Top && query.Top < len(found) {
		found = found[:query.Top]
	}
	return found, nil
}

// sortSummaries orders the merged news + coi rows. The browse is served from
// two tables, so ordering happens here rather than in SQL.
func sortSummaries(summaries []kdb.RequestSummary, key kdb.RequestSortKey, desc bool) {
	less := func(a, b kdb.RequestSummary) bool {
		switch key {
		case kdb.SortByKind:
			return a.Kind < b.Kind
		case kdb.SortByCreatedBy:
			return strings.ToLower(a.CreatedBy) < strings.ToLower(b.CreatedBy)
		case kdb.SortByCreatedAt:
			return a.CreatedAt.Before(b.CreatedAt)
		case kdb.SortByStatus:
			return a.Status < b.Status
		default:
			return strings.ToLower(a.Title) < strings.ToLower(b.Title)
		}
	}
	sort.SliceStable(summaries, func(i, j int) bool {
		if desc {
			return less(summaries[j], summaries[i])
		}
		return less(summaries[i], summaries[j])
	})
}

func (m *requestPG) Approve(
	ctx context.Context, kind kdb.RequestKind, ids []string, opt kdb.ApproveOption,
) ([]kdb.Decision, error) {
	return m.decide(ctx, kind, ids, func(tx kpool.Tx, kt kindTable, id string) error {
		if kt.table == "news" && opt.IsImportant != nil {
			_, err := tx.Exec(
				ctx,
				`
				UPDATE "news"
				SET "status" = $1, "is_important" = $2, "updated_at" = now()
				WHERE "id" = $3
				`,
				kdb.Approved, *opt.IsImportant, id,
			)
			return err
		}
		_, err := tx.Exec(
			ctx,
			`UPDATE "`+kt.table+`" SET "status" = $1, "updated_at" = now() WHERE "id" = $2`,
			kdb.Approved, id,
		)
		return err
	})
}

func (m *requestPG) Reject(
	ctx context.Context, kind kdb.RequestKind, ids []string, comment string,
) ([]kdb.Decision, error) {
	return m.decide(ctx, kind, ids, func(tx kpool.Tx, kt kindTable, id string) error {
		_, err := tx.Exec(
			ctx,
			`
			UPDATE "`+kt.table+`"
			SET "status" = $1, "admin_comment" = $2, "updated_at" = now()
			WHERE "id" = $3
			`,
			kdb.Rejected, comment, id,
		)
		return err
	})
}

// decide locks each row in turn, skips rows another actor got to first, and
// applies transition to the rest. All transitions of one call share a
// transaction; AlreadyDecided and missing ids do not roll the others back.
func (m *requestPG) decide(
	ctx context.Context, kind kdb.RequestKind, ids []string,
	transition func(tx kpool.Tx, kt kindTable, id string) error,
) ([]kdb.Decision, error) {
	kt, ok := kindTables[kind]
	if !ok {
		return nil, errors.New("unknown request kind")
	}

	tx, err := m.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	decisions := make([]kdb.Decision, 0, len(ids))
	for _, id := range ids {
		var status string
		err := tx.QueryRow(
			ctx,
			`SELECT "status" FROM "`+kt.table+`" WHERE "id" = $1 AND NOT "is_deleted" FOR UPDATE`,
			id,
		).Scan(&status)
		if errors.Is(err, pgx.ErrNoRows) {
			decisions = append(decisions, kdb.Decision{Id: id, Outcome: kdb.DecisionMissing})
			continue
		}
		if err != nil {
			return nil, xe.Wrap(err)
		}

		current, err := kdb.AsRequestStatus(status)
		if err != nil {
			return nil, xe.Wrap(err)
		}
		if current.Decided() {
			decisions = append(decisions, kdb.Decision{Id: id, Outcome: kdb.AlreadyDecided})
			continue
		}

		if err := transition(tx, kt, id); err != nil {
			return nil, xe.Wrap(err)
		}
		decisions = append(decisions, kdb.Decision{Id: id, Outcome: kdb.Transitioned})
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return decisions, nil
}

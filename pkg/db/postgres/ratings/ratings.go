package ratings

import (
	"context"

	kdb "github.com/athena-research/athena/pkg/db"
	kpool "github.com/athena-research/athena/pkg/db/postgres/pool"
	xe "github.com/athena-research/athena/pkg/errors"
)

// a struct refreshing AverageRating display strings from the vote counters.
//
// Votes only bump the counters; the displayed average trails them until the
// next sweep. One sweep refreshes every rated table.
type ratingPG struct { // implements kdb.RatingInterface
	pool kpool.Pool
}

func New(pool kpool.Pool) *ratingPG {
	return &ratingPG{pool: pool}
}

var _ kdb.RatingInterface = &ratingPG{}

var ratedTables = []string{
	"news", "coi", "research_artifact", "directory_entry",
}

func (m *ratingPG) Recompute(ctx context.Context) (int, error) {
	conn, err := m.pool.Acquire(ctx)
	if err != nil {
		return 0, err
	}
	defer conn.Release()

	total := 0
	for _, table := range ratedTables {
		tag, err := conn.Exec(
			ctx,
			`
			UPDATE "`+table+`"
			SET "average_rating" = trim_scale(
				round("sum_of_ratings"::numeric / "number_of_ratings", 1)
			)::text
			WHERE "number_of_ratings" > 0
			  AND "average_rating" IS DISTINCT FROM trim_scale(
				round("sum_of_ratings"::numeric / "number_of_ratings", 1)
			  )::text
			`,
		)
		if err != nil {
			return total, xe.Wrap(err)
		}
		total += int(tag.RowsAffected())
	}
	return total, nil
}

package feedback

import (
	"context"

	"github.com/google/uuid"

	kdb "github.com/athena-research/athena/pkg/db"
	kpool "github.com/athena-research/athena/pkg/db/postgres/pool"
	xe "github.com/athena-research/athena/pkg/errors"
)

// a struct for DB operations related to user feedback
type feedbackPG struct { // implements kdb.FeedbackInterface
	pool kpool.Pool
}

func New(pool kpool.Pool) *feedbackPG {
	return &feedbackPG{pool: pool}
}

var _ kdb.FeedbackInterface = &feedbackPG{}

func (m *feedbackPG) Register(ctx context.Context, feedback kdb.Feedback) (kdb.Feedback, error) {
	conn, err := m.pool.Acquire(ctx)
	if err != nil {
		return kdb.Feedback{}, err
	}
	defer conn.Release()

	feedback.Id = uuid.NewString()
	if err := conn.QueryRow(
		ctx,
		`
		INSERT INTO "feedback" ("id", "rating", "text", "category", "type", "submitted_by")
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING "created_at"
		`,
		feedback.Id, feedback.Rating, feedback.Text,
		string(feedback.Category), string(feedback.Type), feedback.SubmittedBy,
	).Scan(&feedback.CreatedAt); err != nil {
		return kdb.Feedback{}, xe.Wrap(err)
	}
	return feedback, nil
}

func (m *feedbackPG) Find(ctx context.Context) ([]kdb.Feedback, error) {
	conn, err := m.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Release()

	rows, err := conn.Query(
		ctx,
		`
		SELECT "id", "rating", "text", "category", "type", "submitted_by", "created_at"
		FROM "feedback" ORDER BY "created_at" DESC, "id"
		`,
	)
	if err != nil {
		return nil, xe.Wrap(err)
	}
	defer rows.Close()

	found := []kdb.Feedback{}
	for rows.Next() {
		f := kdb.Feedback{}
		var category, typ string
		if err := rows.Scan(
			&f.Id, &f.Rating, &f.Text, &category, &typ, &f.SubmittedBy, &f.CreatedAt,
		); err != nil {
			return nil, xe.Wrap(err)
		}
		{
			c, err := kdb.AsFeedbackCategory(category)
			if err != nil {
				return nil, xe.Wrap(err)
			}
			f.Category = c
		}
		{
			t, err := kdb.AsFeedbackType(typ)
			if err != nil {
				return nil, xe.Wrap(err)
			}
			f.Type = t
		}
		found = append(found, f)
	}
	return found, rows.Err()
}

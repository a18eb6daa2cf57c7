package db

import (
	"context"
	"fmt"
	"time"
)

type FeedbackCategory string

const (
	FeedbackOnApp     FeedbackCategory = "app"
	FeedbackOnContent FeedbackCategory = "content"
)

func AsFeedbackCategory(c string) (FeedbackCategory, error) {
	switch c {
	case string(FeedbackOnApp):
		return FeedbackOnApp, nil
	case string(FeedbackOnContent):
		return FeedbackOnContent, nil
	default:
		return "", fmt.Errorf("'%s' is not FeedbackCategory", c)
	}
}

type FeedbackType string

const (
	Bug        FeedbackType = "bug"
	Suggestion FeedbackType = "suggestion"
	Other      FeedbackType = "other"
)

func AsFeedbackType(t string) (FeedbackType, error) {
	switch t {
	case string(Bug):
		return Bug, nil
	case string(Suggestion):
		return Suggestion, nil
	case string(Other):
		return Other, nil
	default:
		return "", fmt.Errorf("'%s' is not FeedbackType", t)
	}
}

// Feedback rating scale: 0 (unhelpful) .. 2 (helpful).
const MaxFeedbackRating = 2

type Feedback struct {
	Id          string
	Rating      int
	Text        string
	Category    FeedbackCategory
	Type        FeedbackType
	SubmittedBy string
	CreatedAt   time.Time
}

func (f Feedback) Equal(o Feedback) bool {
	return f.Id == o.Id &&
		f.Rating == o.Rating &&
		f.Text == o.Text &&
		f.Category == o.Category &&
		f.Type == o.Type &&
		f.SubmittedBy == o.SubmittedBy &&
		f.CreatedAt.Equal(o.CreatedAt)
}

type FeedbackInterface interface {
	// Register persists one feedback record.
	Register(ctx context.Context, feedback Feedback) (Feedback, error)

	// Find returns all feedback, newest first.
	Find(ctx context.Context) ([]Feedback, error)
}

package db

import (
	"context"
	"time"
)

// Tenant-wide home banner content.
type HomeConfiguration struct {
	Title       string
	Description string
	Link        string
	UpdatedBy   string
	UpdatedAt   time.Time
}

func (h HomeConfiguration) Equal(o HomeConfiguration) bool {
	return h.Title == o.Title &&
		h.Description == o.Description &&
		h.Link == o.Link &&
		h.UpdatedBy == o.UpdatedBy &&
		h.UpdatedAt.Equal(o.UpdatedAt)
}

// Tenant-wide status bar beneath the banner.
type HomeStatusBar struct {
	Message  string
	LinkText string
	IsActive bool
}

func (h HomeStatusBar) Equal(o HomeStatusBar) bool {
	return h == o
}

type HomeInterface interface {
	// Get returns the current banner and status bar.
	//
	// A tenant that never saved one gets zero values, not ErrMissing.
	Get(ctx context.Context) (HomeConfiguration, HomeStatusBar, error)

	// Set replaces the banner and status bar.
	Set(ctx context.Context, conf HomeConfiguration, bar HomeStatusBar) error
}

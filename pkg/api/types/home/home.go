package home

import (
	kdb "github.com/athena-research/athena/pkg/db"
	"github.com/athena-research/athena/pkg/utils/rfctime"
)

type Configuration struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Link        string          `json:"link"`
	UpdatedBy   string          `json:"updatedBy,omitempty"`
	UpdatedAt   rfctime.RFC3339 `json:"updatedAt"`
}

func (c Configuration) Equal(o Configuration) bool {
	return c.Title == o.Title &&
		c.Description == o.Description &&
		c.Link == o.Link &&
		c.UpdatedBy == o.UpdatedBy &&
		c.UpdatedAt.Equal(&o.UpdatedAt)
}

type StatusBar struct {
	Message  string `json:"message"`
	LinkText string `json:"linkText"`
	IsActive bool   `json:"isActive"`
}

// View is the whole home surface, banner plus status bar.
type View struct {
	Configuration Configuration `json:"configuration"`
	StatusBar     StatusBar     `json:"statusBar"`
}

func (v View) Equal(o View) bool {
	return v.Configuration.Equal(o.Configuration) && v.StatusBar == o.StatusBar
}

func ComposeView(conf kdb.HomeConfiguration, bar kdb.HomeStatusBar) View {
	return View{
		Configuration: Configuration{
			Title:       conf.Title,
			Description: conf.Description,
			Link:        conf.Link,
			UpdatedBy:   conf.UpdatedBy,
			UpdatedAt:   rfctime.New(conf.UpdatedAt),
		},
		StatusBar: StatusBar{
			Message:  bar.Message,
			LinkText: bar.LinkText,
			IsActive: bar.IsActive,
		},
	}
}

// UpdateRequest is the admin body replacing the home surface.
type UpdateRequest struct {
	Configuration struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		Link        string `json:"link"`
	} `json:"configuration"`
	StatusBar StatusBar `json:"statusBar"`
}

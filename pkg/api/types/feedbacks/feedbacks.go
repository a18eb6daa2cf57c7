package feedbacks

import (
	kdb "github.com/athena-research/athena/pkg/db"
	"github.com/athena-research/athena/pkg/utils/rfctime"
)

// Spec is the submission body of a feedback record.
type Spec struct {
	Rating   int    `json:"rating"`
	Text     string `json:"text"`
	Category string `json:"category"`
	Type     string `json:"type"`
}

type Detail struct {
	Id          string          `json:"id"`
	Rating      int             `json:"rating"`
	Text        string          `json:"text"`
	Category    string          `json:"category"`
	Type        string          `json:"type"`
	SubmittedBy string          `json:"submittedBy"`
	CreatedAt   rfctime.RFC3339 `json:"createdAt"`
}

func (d Detail) Equal(o Detail) bool {
	return d.Id == o.Id &&
		d.Rating == o.Rating &&
		d.Text == o.Text &&
		d.Category == o.Category &&
		d.Type == o.Type &&
		d.SubmittedBy == o.SubmittedBy &&
		d.CreatedAt.Equal(&o.CreatedAt)
}

func ComposeDetail(f kdb.Feedback) Detail {
	return Detail{
		Id:          f.Id,
		Rating:      f.Rating,
		Text:        f.Text,
		Category:    string(f.Category),
		Type:        string(f.Type),
		SubmittedBy: f.SubmittedBy,
		CreatedAt:   rfctime.New(f.CreatedAt),
	}
}

package news

import (
	kdb "github.com/athena-research/athena/pkg/db"
	"github.com/athena-research/athena/pkg/utils/cmp"
	"github.com/athena-research/athena/pkg/utils/rfctime"
)

// Spec is the submission body of a news article.
type Spec struct {
	NewsId       int    `json:"newsId"`
	Title        string `json:"title"`
	Abstract     string `json:"abstract"`
	Body         string `json:"body"`
	ExternalLink string `json:"externalLink"`
	ImageURL     string `json:"imageUrl"`
	IsImportant  bool   `json:"isImportant"`
	Keywords     []int  `json:"keywords"`
	KeywordsText string `json:"keywordsText"`

	SecurityLevel int `json:"securityLevel"`
	NodeTypeId    int `json:"nodeTypeId"`
	NewsSourceId  int `json:"newsSourceId"`
	SubmitterId   int `json:"submitterId"`
}

type Detail struct {
	Id           string `json:"id"`
	NewsId       int    `json:"newsId"`
	Title        string `json:"title"`
	Abstract     string `json:"abstract"`
	Body         string `json:"body"`
	ExternalLink string `json:"externalLink"`
	ImageURL     string `json:"imageUrl"`

	Status      string `json:"status"`
	IsImportant bool   `json:"isImportant"`

	Keywords     []int  `json:"keywords"`
	KeywordsText string `json:"keywordsText"`

	NumberOfRatings int    `json:"numberOfRatings"`
	AverageRating   string `json:"averageRating"`

	CreatedBy    string          `json:"createdBy"`
	AdminComment string          `json:"adminComment,omitempty"`
	CreatedAt    rfctime.RFC3339 `json:"createdAt"`
	UpdatedAt    rfctime.RFC3339 `json:"updatedAt"`
}

func (d Detail) Equal(o Detail) bool {
	return d.Id == o.Id &&
		d.NewsId == o.NewsId &&
		d.Title == o.Title &&
		d.Abstract == o.Abstract &&
		d.Body == o.Body &&
		d.ExternalLink == o.ExternalLink &&
		d.ImageURL == o.ImageURL &&
		d.Status == o.Status &&
		d.IsImportant == o.IsImportant &&
		cmp.SliceEq(d.Keywords, o.Keywords) &&
		d.KeywordsText == o.KeywordsText &&
		d.NumberOfRatings == o.NumberOfRatings &&
		d.AverageRating == o.AverageRating &&
		d.CreatedBy == o.CreatedBy &&
		d.AdminComment == o.AdminComment &&
		d.CreatedAt.Equal(&o.CreatedAt) &&
		d.UpdatedAt.Equal(&o.UpdatedAt)
}

func ComposeDetail(n kdb.News) Detail {
	return Detail{
		Id:           n.Id,
		NewsId:       n.NewsId,
		Title:        n.Title,
		Abstract:     n.Abstract,
		Body:         n.Body,
		ExternalLink: n.ExternalLink,
		ImageURL:     n.ImageURL,

		Status:      n.Status.String(),
		IsImportant: n.IsImportant,

		Keywords:     n.Keywords,
		KeywordsText: n.KeywordsText,

		NumberOfRatings: n.NumberOfRatings,
		AverageRating:   n.AverageRating,

		CreatedBy:    n.CreatedBy,
		AdminComment: n.AdminComment,
		CreatedAt:    rfctime.New(n.CreatedAt),
		UpdatedAt:    rfctime.New(n.UpdatedAt),
	}
}

// Rating is the vote body.
type Rating struct {
	Stars int `json:"stars"`
}

package research

import (
	"time"

	kdb "github.com/athena-research/athena/pkg/db"
	"github.com/athena-research/athena/pkg/utils/cmp"
	"github.com/athena-research/athena/pkg/utils/rfctime"
)

type Participants struct {
	Names string `json:"names"`
	Ids   []int  `json:"ids"`
}

func (p Participants) Equal(o Participants) bool {
	return p.Names == o.Names && cmp.SliceEq(p.Ids, o.Ids)
}

type Detail struct {
	Id         string `json:"id"`
	Kind       string `json:"kind"`
	ArtifactId int    `json:"artifactId"`

	Title             string `json:"title"`
	Abstract          string `json:"abstract"`
	Description       string `json:"description"`
	Status            string `json:"status"`
	StatusDescription string `json:"statusDescription"`

	Authors       Participants `json:"authors"`
	Advisors      Participants `json:"advisors"`
	SecondReaders Participants `json:"secondReaders"`
	Sponsors      Participants `json:"sponsors"`
	Partners      Participants `json:"partners"`

	StartDate      *rfctime.RFC3339 `json:"startDate,omitempty"`
	CompletionDate *rfctime.RFC3339 `json:"completionDate,omitempty"`
	LastUpdate     *rfctime.RFC3339 `json:"lastUpdate,omitempty"`

	Priority      int `json:"priority"`
	Importance    int `json:"importance"`
	SecurityLevel int `json:"securityLevel"`

	Keywords     []int  `json:"keywords"`
	KeywordsText string `json:"keywordsText"`

	NumberOfRatings int    `json:"numberOfRatings"`
	AverageRating   string `json:"averageRating"`

	CreatedAt rfctime.RFC3339 `json:"createdAt"`
	UpdatedAt rfctime.RFC3339 `json:"updatedAt"`
}

func (d Detail) Equal(o Detail) bool {
	return d.Id == o.Id &&
		d.Kind == o.Kind &&
		d.ArtifactId == o.ArtifactId &&
		d.Title == o.Title &&
		d.Abstract == o.Abstract &&
		d.Description == o.Description &&
		d.Status == o.Status &&
		d.StatusDescription == o.StatusDescription &&
		d.Authors.Equal(o.Authors) &&
		d.Advisors.Equal(o.Advisors) &&
		d.SecondReaders.Equal(o.SecondReaders) &&
		d.Sponsors.Equal(o.Sponsors) &&
		d.Partners.Equal(o.Partners) &&
		d.StartDate.Equal(o.StartDate) &&
		d.CompletionDate.Equal(o.CompletionDate) &&
		d.LastUpdate.Equal(o.LastUpdate) &&
		d.Priority == o.Priority &&
		d.Importance == o.Importance &&
		d.SecurityLevel == o.SecurityLevel &&
		cmp.SliceEq(d.Keywords, o.Keywords) &&
		d.KeywordsText == o.KeywordsText &&
		d.NumberOfRatings == o.NumberOfRatings &&
		d.AverageRating == o.AverageRating &&
		d.CreatedAt.Equal(&o.CreatedAt) &&
		d.UpdatedAt.Equal(&o.UpdatedAt)
}

func ComposeDetail(r kdb.ResearchArtifact) Detail {
	asParticipants := func(p kdb.Participants) Participants {
		return Participants{Names: p.Names, Ids: p.Ids}
	}
	return Detail{
		Id:         r.Id,
		Kind:       string(r.Kind),
		ArtifactId: r.ArtifactId,

		Title:             r.Title,
		Abstract:          r.Abstract,
		Description:       r.Description,
		Status:            string(r.Status),
		StatusDescription: r.StatusDescription,

		Authors:       asParticipants(r.Authors),
		Advisors:      asParticipants(r.Advisors),
		SecondReaders: asParticipants(r.SecondReaders),
		Sponsors:      asParticipants(r.Sponsors),
		Partners:      asParticipants(r.Partners),

		StartDate:      optional(r.StartDate),
		CompletionDate: optional(r.CompletionDate),
		LastUpdate:     optional(r.LastUpdate),

		Priority:      r.Priority,
		Importance:    r.Importance,
		SecurityLevel: r.SecurityLevel,

		Keywords:     r.Keywords,
		KeywordsText: r.KeywordsText,

		NumberOfRatings: r.NumberOfRatings,
		AverageRating:   r.AverageRating,

		CreatedAt: rfctime.New(r.CreatedAt),
		UpdatedAt: rfctime.New(r.UpdatedAt),
	}
}

func optional(t *time.Time) *rfctime.RFC3339 {
	if t == nil {
		return nil
	}
	rt := rfctime.New(*t)
	return &rt
}

// Rating is the vote body.
type Rating struct {
	Stars int `json:"stars"`
}

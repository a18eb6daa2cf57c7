package cois

import (
	kdb "github.com/athena-research/athena/pkg/db"
	"github.com/athena-research/athena/pkg/utils/cmp"
	"github.com/athena-research/athena/pkg/utils/rfctime"
)

// Spec is the submission body of a community of interest.
type Spec struct {
	CoiId       int    `json:"coiId"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Type        string `json:"type"`

	SearchQuery     string `json:"searchQuery"`
	IncludeInSearch bool   `json:"includeInSearch"`

	Keywords     []int  `json:"keywords"`
	KeywordsText string `json:"keywordsText"`
}

type Member struct {
	UserId        int    `json:"userId"`
	PrincipalName string `json:"principalName"`
	JoinedAt      string `json:"joinedAt,omitempty"`
}

type Detail struct {
	Id          string `json:"id"`
	CoiId       int    `json:"coiId"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Status      string `json:"status"`
	Type        string `json:"type"`

	Members         []Member `json:"members"`
	NumberOfMembers int      `json:"numberOfMembers"`
	ChampionIds     []int    `json:"championIds"`
	ContactId       int      `json:"contactId"`

	TeamId          string `json:"teamId,omitempty"`
	GroupLink       string `json:"groupLink,omitempty"`
	ImageLink       string `json:"imageLink,omitempty"`
	SearchQuery     string `json:"searchQuery"`
	IncludeInSearch bool   `json:"includeInSearch"`

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
		d.CoiId == o.CoiId &&
		d.Name == o.Name &&
		d.Description == o.Description &&
		d.Status == o.Status &&
		d.Type == o.Type &&
		cmp.SliceEq(d.Members, o.Members) &&
		d.NumberOfMembers == o.NumberOfMembers &&
		cmp.SliceEq(d.ChampionIds, o.ChampionIds) &&
		d.ContactId == o.ContactId &&
		d.TeamId == o.TeamId &&
		d.GroupLink == o.GroupLink &&
		d.ImageLink == o.ImageLink &&
		d.SearchQuery == o.SearchQuery &&
		d.IncludeInSearch == o.IncludeInSearch &&
		cmp.SliceEq(d.Keywords, o.Keywords) &&
		d.KeywordsText == o.KeywordsText &&
		d.NumberOfRatings == o.NumberOfRatings &&
		d.AverageRating == o.AverageRating &&
		d.CreatedBy == o.CreatedBy &&
		d.AdminComment == o.AdminComment &&
		d.CreatedAt.Equal(&o.CreatedAt) &&
		d.UpdatedAt.Equal(&o.UpdatedAt)
}

func ComposeDetail(c kdb.Coi) Detail {
	members := []Member{}
	for _, m := range c.Members {
		members = append(members, Member{
			UserId:        m.UserId,
			PrincipalName: m.PrincipalName,
			JoinedAt:      m.JoinedAt,
		})
	}
	return Detail{
		Id:          c.Id,
		CoiId:       c.CoiId,
		Name:        c.Name,
		Description: c.Description,
		Status:      c.Status.String(),
		Type:        string(c.Type),

		Members:         members,
		NumberOfMembers: c.NumberOfMembers,
		ChampionIds:     c.ChampionIds,
		ContactId:       c.ContactId,

		TeamId:          c.TeamId,
		GroupLink:       c.GroupLink,
		ImageLink:       c.ImageLink,
		SearchQuery:     c.SearchQuery,
		IncludeInSearch: c.IncludeInSearch,

		Keywords:     c.Keywords,
		KeywordsText: c.KeywordsText,

		NumberOfRatings: c.NumberOfRatings,
		AverageRating:   c.AverageRating,

		CreatedBy:    c.CreatedBy,
		AdminComment: c.AdminComment,
		CreatedAt:    rfctime.New(c.CreatedAt),
		UpdatedAt:    rfctime.New(c.UpdatedAt),
	}
}

// JoinRequest is the body of a membership join call.
type JoinRequest struct {
	UserId        int    `json:"userId"`
	PrincipalName string `json:"principalName"`
}

// Rating is the vote body.
type Rating struct {
	Stars int `json:"stars"`
}

package db

import (
	"context"
	"fmt"
	"time"

	"github.com/athena-research/athena/pkg/utils/cmp"
)

// Visibility of a community of interest.
type CoiType string

const (
	CoiPublic  CoiType = "public"
	CoiPrivate CoiType = "private"
)

func AsCoiType(t string) (CoiType, error) {
	switch t {
	case string(CoiPublic):
		return CoiPublic, nil
	case string(CoiPrivate):
		return CoiPrivate, nil
	default:
		return "", fmt.Errorf("'%s' is not CoiType", t)
	}
}

// One member of a community, as serialized into the member list column.
type CoiMember struct {
	UserId        int    `json:"userId"`
	PrincipalName string `json:"principalName"`
	JoinedAt      string `json:"joinedAt,omitempty"`
}

// Coi is a Teams-group-backed research community.
type Coi struct {
	Id    string
	CoiId int

	Name        string
	Description string
	Status      RequestStatus
	Type        CoiType

	Members         []CoiMember
	NumberOfMembers int
	ChampionIds     []int
	ContactId       int

	// Teams integration fields, populated by provisioning after approval.
	TeamId          string
	GroupLink       string
	ImageLink       string
	SearchQuery     string
	IncludeInSearch bool

	Keywords     []int
	KeywordsText string

	SumOfRatings    int
	NumberOfRatings int
	AverageRating   string

	IsDeleted bool

	CreatedBy    string
	AdminComment string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (c Coi) Equal(o Coi) bool {
	return c.Id == o.Id &&
		c.CoiId == o.CoiId &&
		c.Name == o.Name &&
		c.Description == o.Description &&
		c.Status == o.Status &&
		c.Type == o.Type &&
		cmp.SliceEq(c.Members, o.Members) &&
		c.NumberOfMembers == o.NumberOfMembers &&
		cmp.SliceEq(c.ChampionIds, o.ChampionIds) &&
		c.ContactId == o.ContactId &&
		c.TeamId == o.TeamId &&
		c.GroupLink == o.GroupLink &&
		c.ImageLink == o.ImageLink &&
		c.SearchQuery == o.SearchQuery &&
		c.IncludeInSearch == o.IncludeInSearch &&
		cmp.SliceEq(c.Keywords, o.Keywords) &&
		c.KeywordsText == o.KeywordsText &&
		c.SumOfRatings == o.SumOfRatings &&
		c.NumberOfRatings == o.NumberOfRatings &&
		c.AverageRating == o.AverageRating &&
		c.IsDeleted == o.IsDeleted &&
		c.CreatedBy == o.CreatedBy &&
		c.AdminComment == o.AdminComment &&
		c.CreatedAt.Equal(o.CreatedAt) &&
		c.UpdatedAt.Equal(o.UpdatedAt)
}

// CoiSpec is what a submitter provides.
type CoiSpec struct {
	CoiId       int
	Name        string
	Description string
	Type        CoiType

	SearchQuery     string
	IncludeInSearch bool

	Keywords     []int
	KeywordsText string

	CreatedBy string
}

// parameter to query communities. Soft-deleted rows never match.
type CoiFindQuery struct {
	// If it is nil or empty, it means "match any".
	Status []RequestStatus

	// match if type equals this. Empty means "match any".
	Type CoiType

	// match if name or description contains this substring (case-insensitive).
	Search string

	Skip int
	Top  int
}

func (cfq CoiFindQuery) Equal(other CoiFindQuery) bool {
	return cmp.SliceContentEq(cfq.Status, other.Status) &&
		cfq.Type == other.Type &&
		cfq.Search == other.Search &&
		cfq.Skip == other.Skip &&
		cfq.Top == other.Top
}

type CoiInterface interface {
	// Register persists a new submission with Status = Pending.
	Register(ctx context.Context, spec CoiSpec) (Coi, error)

	// Find returns ids of communities matching the query, soft-deleted excluded.
	Find(ctx context.Context, query CoiFindQuery) ([]string, error)

	// Get retrieves communities by row id.
	Get(ctx context.Context, ids []string) (map[string]Coi, error)

	// AddMember appends a member and bumps NumberOfMembers.
	//
	// Adding an already-present principal is a no-op.
	// Returns ErrMissing when no row exists for the id.
	AddMember(ctx context.Context, id string, member CoiMember) error

	// AddRating appends one vote to the rating counters.
	AddRating(ctx context.Context, id string, stars int) error

	// SetTeam records the provisioned Teams linkage after approval.
	SetTeam(ctx context.Context, id string, teamId string, groupLink string) error

	// ExistingByCoiId maps business ids to stored rows, for ingestion.
	ExistingByCoiId(ctx context.Context, coiIds []int) (map[int]Coi, error)

	// Upsert writes ingested rows keyed by row id.
	Upsert(ctx context.Context, cois []Coi) error
}

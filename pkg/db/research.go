package db

import (
	"context"
	"fmt"
	"time"

	"github.com/athena-research/athena/pkg/utils/cmp"
)

// Family of a research artifact.
type ResearchKind string

const (
	Project  ResearchKind = "project"
	Proposal ResearchKind = "proposal"
	Request  ResearchKind = "request"
	Paper    ResearchKind = "paper"
)

func AsResearchKind(kind string) (ResearchKind, error) {
	switch kind {
	case string(Project):
		return Project, nil
	case string(Proposal):
		return Proposal, nil
	case string(Request):
		return Request, nil
	case string(Paper):
		return Paper, nil
	default:
		return "", fmt.Errorf("'%s' is not ResearchKind", kind)
	}
}

// Progress of a research artifact.
type ResearchStatus string

const (
	Proposed   ResearchStatus = "proposed"
	InProgress ResearchStatus = "inProgress"
	Completed  ResearchStatus = "completed"
)

func AsResearchStatus(status string) (ResearchStatus, error) {
	switch status {
	case string(Proposed):
		return Proposed, nil
	case string(InProgress):
		return InProgress, nil
	case string(Completed):
		return Completed, nil
	default:
		return "", fmt.Errorf("'%s' is not ResearchStatus", status)
	}
}

// A participant role: display names beside the id list they denormalize.
type Participants struct {
	Names string
	Ids   []int
}

func (p Participants) Equal(o Participants) bool {
	return p.Names == o.Names && cmp.SliceEq(p.Ids, o.Ids)
}

// ResearchArtifact is one project, proposal, request or paper.
//
// All four families share this flat shape; Kind tells them apart.
type ResearchArtifact struct {
	Id         string
	Kind       ResearchKind
	ArtifactId int

	Title             string
	Abstract          string
	Description       string
	Status            ResearchStatus
	StatusDescription string

	Authors       Participants
	Advisors      Participants
	SecondReaders Participants
	Sponsors      Participants
	Partners      Participants

	StartDate      *time.Time
	CompletionDate *time.Time
	LastUpdate     *time.Time

	Priority      int
	Importance    int
	SecurityLevel int
	NodeTypeId    int
	SourceId      int

	Keywords     []int
	KeywordsText string

	SumOfRatings    int
	NumberOfRatings int
	AverageRating   string

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (r ResearchArtifact) Equal(o ResearchArtifact) bool {
	timeEq := func(a, b *time.Time) bool {
		if a == nil || b == nil {
			return a == nil && b == nil
		}
		return a.Equal(*b)
	}
	return r.Id == o.Id &&
		r.Kind == o.Kind &&
		r.ArtifactId == o.ArtifactId &&
		r.Title == o.Title &&
		r.Abstract == o.Abstract &&
		r.Description == o.Description &&
		r.Status == o.Status &&
		r.StatusDescription == o.StatusDescription &&
		r.Authors.Equal(o.Authors) &&
		r.Advisors.Equal(o.Advisors) &&
		r.SecondReaders.Equal(o.SecondReaders) &&
		r.Sponsors.Equal(o.Sponsors) &&
		r.Partners.Equal(o.Partners) &&
		timeEq(r.StartDate, o.StartDate) &&
		timeEq(r.CompletionDate, o.CompletionDate) &&
		timeEq(r.LastUpdate, o.LastUpdate) &&
		r.Priority == o.Priority &&
		r.Importance == o.Importance &&
		r.SecurityLevel == o.SecurityLevel &&
		r.NodeTypeId == o.NodeTypeId &&
		r.SourceId == o.SourceId &&
		cmp.SliceEq(r.Keywords, o.Keywords) &&
		r.KeywordsText == o.KeywordsText &&
		r.SumOfRatings == o.SumOfRatings &&
		r.NumberOfRatings == o.NumberOfRatings &&
		r.AverageRating == o.AverageRating
}

// parameter to query research artifacts.
type ResearchFindQuery struct {
	// If it is nil or empty, it means "match any".
	Kind []ResearchKind

	// If it is nil or empty, it means "match any".
	Status []ResearchStatus

	// match if the artifact has one of these keyword ids.
	KeywordId []int

	// match if title or abstract contains this substring (case-insensitive).
	Search string

	Skip int
	Top  int
}

func (rfq ResearchFindQuery) Equal(other ResearchFindQuery) bool {
	return cmp.SliceContentEq(rfq.Kind, other.Kind) &&
		cmp.SliceContentEq(rfq.Status, other.Status) &&
		cmp.SliceContentEq(rfq.KeywordId, other.KeywordId) &&
		rfq.Search == other.Search &&
		rfq.Skip == other.Skip &&
		rfq.Top == other.Top
}

type ResearchInterface interface {
	// Find returns ids of artifacts matching the query.
	Find(ctx context.Context, query ResearchFindQuery) ([]string, error)

	// Get retrieves artifacts by row id.
	Get(ctx context.Context, ids []string) (map[string]ResearchArtifact, error)

	// AddRating appends one vote to the rating counters.
	AddRating(ctx context.Context, id string, stars int) error

	// ExistingByArtifactId maps business ids of one family to stored rows,
	// for ingestion.
	ExistingByArtifactId(ctx context.Context, kind ResearchKind, artifactIds []int) (map[int]ResearchArtifact, error)

	// Upsert writes ingested rows keyed by row id.
	Upsert(ctx context.Context, artifacts []ResearchArtifact) error
}

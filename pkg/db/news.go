package db

import (
	"context"
	"time"

	"github.com/athena-research/athena/pkg/utils/cmp"
)

// News is a catalogued news article.
//
// Id is the generated row key; NewsId is the externally meaningful business id.
type News struct {
	Id     string
	NewsId int

	Title        string
	Abstract     string
	Body         string
	ExternalLink string
	ImageURL     string

	Status      RequestStatus
	IsImportant bool
	IsDeleted   bool

	// Keywords keeps the associated keyword ids in order.
	// KeywordsText is the denormalized display copy.
	Keywords     []int
	KeywordsText string

	SumOfRatings    int
	NumberOfRatings int

	// Display string derived from the counters. Recomputed by the rating
	// sweep, not kept atomically in step with the counters.
	AverageRating string

	SecurityLevel int
	NodeTypeId    int
	NewsSourceId  int
	SubmitterId   int

	CreatedBy    string
	AdminComment string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (n News) Equal(o News) bool {
	return n.Id == o.Id &&
		n.NewsId == o.NewsId &&
		n.Title == o.Title &&
		n.Abstract == o.Abstract &&
		n.Body == o.Body &&
		n.ExternalLink == o.ExternalLink &&
		n.ImageURL == o.ImageURL &&
		n.Status == o.Status &&
		n.IsImportant == o.IsImportant &&
		n.IsDeleted == o.IsDeleted &&
		cmp.SliceEq(n.Keywords, o.Keywords) &&
		n.KeywordsText == o.KeywordsText &&
		n.SumOfRatings == o.SumOfRatings &&
		n.NumberOfRatings == o.NumberOfRatings &&
		n.AverageRating == o.AverageRating &&
		n.SecurityLevel == o.SecurityLevel &&
		n.NodeTypeId == o.NodeTypeId &&
		n.NewsSourceId == o.NewsSourceId &&
		n.SubmitterId == o.SubmitterId &&
		n.CreatedBy == o.CreatedBy &&
		n.AdminComment == o.AdminComment &&
		n.CreatedAt.Equal(o.CreatedAt) &&
		n.UpdatedAt.Equal(o.UpdatedAt)
}

// NewsSpec is what a submitter provides. Everything else is defaulted.
type NewsSpec struct {
	NewsId       int
	Title        string
	Abstract     string
	Body         string
	ExternalLink string
	ImageURL     string
	IsImportant  bool
	Keywords     []int
	KeywordsText string

	SecurityLevel int
	NodeTypeId    int
	NewsSourceId  int
	SubmitterId   int

	CreatedBy string
}

// parameter to query news.
//
// Soft-deleted rows never match.
type NewsFindQuery struct {
	// match if the article has one of these keyword ids.
	//
	// If it is nil or empty, it means "match any".
	KeywordId []int

	// match if the article's status is one of these statuses.
	//
	// If it is nil or empty, it means "match any".
	Status []RequestStatus

	// match if the article's importance flag equals this. nil means "match any".
	Important *bool

	// match if title or abstract contains this substring (case-insensitive).
	Search string

	Skip int
	Top  int
}

func (nfq NewsFindQuery) Equal(other NewsFindQuery) bool {
	importantEq := (nfq.Important == nil && other.Important == nil) ||
		(nfq.Important != nil && other.Important != nil && *nfq.Important == *other.Important)
	return cmp.SliceContentEq(nfq.KeywordId, other.KeywordId) &&
		cmp.SliceContentEq(nfq.Status, other.Status) &&
		importantEq &&
		nfq.Search == other.Search &&
		nfq.Skip == other.Skip &&
		nfq.Top == other.Top
}

type NewsInterface interface {
	// Register persists a new submission with Status = Pending.
	//
	// Returns the stored record, row key freshly generated.
	Register(ctx context.Context, spec NewsSpec) (News, error)

	// Find returns ids of articles matching the query, soft-deleted excluded.
	Find(ctx context.Context, query NewsFindQuery) ([]string, error)

	// Get retrieves articles by row id.
	//
	// Returns mapping id -> News. Ids with no row are simply absent.
	Get(ctx context.Context, ids []string) (map[string]News, error)

	// AddRating appends one vote to the rating counters.
	//
	// Returns ErrMissing when no row exists for the id.
	AddRating(ctx context.Context, id string, stars int) error

	// SoftDelete marks the article deleted. The row stays in storage.
	//
	// Returns ErrMissing when no row exists for the id.
	SoftDelete(ctx context.Context, id string) error
}

package db

import (
	"context"
	"fmt"
	"time"

	"github.com/athena-research/athena/pkg/utils/cmp"
)

// Family of a directory-style lookup entity.
type DirectoryFamily string

const (
	Sponsors      DirectoryFamily = "sponsors"
	Partners      DirectoryFamily = "partners"
	Events        DirectoryFamily = "events"
	Tools         DirectoryFamily = "tools"
	InfoResources DirectoryFamily = "info-resources"
)

func AsDirectoryFamily(family string) (DirectoryFamily, error) {
	switch family {
	case string(Sponsors):
		return Sponsors, nil
	case string(Partners):
		return Partners, nil
	case string(Events):
		return Events, nil
	case string(Tools):
		return Tools, nil
	case string(InfoResources):
		return InfoResources, nil
	default:
		return "", fmt.Errorf("'%s' is not DirectoryFamily", family)
	}
}

// DirectoryEntry is one sponsor, partner, event, tool or info resource.
//
// The families share one flat shape; fields which a family has no use for
// stay zero.
type DirectoryEntry struct {
	Id      string
	Family  DirectoryFamily
	EntryId int

	Title        string
	Description  string
	Organization string

	ContactEmail string
	ContactPhone string
	WebSite      string

	// Events only.
	StartDate *time.Time
	EndDate   *time.Time
	Location  string

	// Tools and info resources only.
	Link     string
	Provider string

	Keywords     []int
	KeywordsText string

	SecurityLevel int
	NodeTypeId    int

	SumOfRatings    int
	NumberOfRatings int
	AverageRating   string

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (d DirectoryEntry) Equal(o DirectoryEntry) bool {
	timeEq := func(a, b *time.Time) bool {
		if a == nil || b == nil {
			return a == nil && b == nil
		}
		return a.Equal(*b)
	}
	return d.Id == o.Id &&
		d.Family == o.Family &&
		d.EntryId == o.EntryId &&
		d.Title == o.Title &&
		d.Description == o.Description &&
		d.Organization == o.Organization &&
		d.ContactEmail == o.ContactEmail &&
		d.ContactPhone == o.ContactPhone &&
		d.WebSite == o.WebSite &&
		timeEq(d.StartDate, o.StartDate) &&
		timeEq(d.EndDate, o.EndDate) &&
		d.Location == o.Location &&
		d.Link == o.Link &&
		d.Provider == o.Provider &&
		cmp.SliceEq(d.Keywords, o.Keywords) &&
		d.KeywordsText == o.KeywordsText &&
		d.SecurityLevel == o.SecurityLevel &&
		d.NodeTypeId == o.NodeTypeId &&
		d.SumOfRatings == o.SumOfRatings &&
		d.NumberOfRatings == o.NumberOfRatings &&
		d.AverageRating == o.AverageRating
}

// Keyword is one taxonomy term. Hierarchy is implied via ParentNode only.
type Keyword struct {
	Id         string
	KeywordId  int
	Title      string
	Synonyms   string
	ParentNode int
}

func (k Keyword) Equal(o Keyword) bool {
	return k == o
}

// How often a user wants to be notified.
type NotificationFrequency string

const (
	Daily   NotificationFrequency = "daily"
	Weekly  NotificationFrequency = "weekly"
	Monthly NotificationFrequency = "monthly"
)

func AsNotificationFrequency(f string) (NotificationFrequency, error) {
	switch f {
	case string(Daily):
		return Daily, nil
	case string(Weekly):
		return Weekly, nil
	case string(Monthly):
		return Monthly, nil
	default:
		return "", fmt.Errorf("'%s' is not NotificationFrequency", f)
	}
}

type UserType string

const (
	Internal UserType = "internal"
	External UserType = "external"
)

func AsUserType(t string) (UserType, error) {
	switch t {
	case string(Internal):
		return Internal, nil
	case string(External):
		return External, nil
	default:
		return "", fmt.Errorf("'%s' is not UserType", t)
	}
}

// A community the user has joined, serialized into the user row.
type CoiRef struct {
	CoiId int    `json:"coiId"`
	Name  string `json:"name"`
}

// User is a catalogued person.
type User struct {
	Id     string
	UserId int

	FirstName  string
	MiddleName string
	LastName   string

	Email          string
	OtherContact   string
	SecondaryEmail string

	Organization          string
	Specialty             string
	UnderGraduateDegree   string
	GraduateDegreeProgram string

	DepartmentIds      []int
	GraduateProgramIds []int

	// areas of interest
	Keywords     []int
	KeywordsText string

	CommunityOfInterests  []CoiRef
	NotificationFrequency NotificationFrequency
	UserType              UserType

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (u User) Equal(o User) bool {
	return u.Id == o.Id &&
		u.UserId == o.UserId &&
		u.FirstName == o.FirstName &&
		u.MiddleName == o.MiddleName &&
		u.LastName == o.LastName &&
		u.Email == o.Email &&
		u.OtherContact == o.OtherContact &&
		u.SecondaryEmail == o.SecondaryEmail &&
		u.Organization == o.Organization &&
		u.Specialty == o.Specialty &&
		u.UnderGraduateDegree == o.UnderGraduateDegree &&
		u.GraduateDegreeProgram == o.GraduateDegreeProgram &&
		cmp.SliceEq(u.DepartmentIds, o.DepartmentIds) &&
		cmp.SliceEq(u.GraduateProgramIds, o.GraduateProgramIds) &&
		cmp.SliceEq(u.Keywords, o.Keywords) &&
		u.KeywordsText == o.KeywordsText &&
		cmp.SliceEq(u.CommunityOfInterests, o.CommunityOfInterests) &&
		u.NotificationFrequency == o.NotificationFrequency &&
		u.UserType == o.UserType
}

// parameter to query a directory family.
type DirectoryFindQuery struct {
	Family DirectoryFamily

	// match if the entry has one of these keyword ids.
	//
	// If it is nil or empty, it means "match any".
	KeywordId []int

	// match if title or description contains this substring (case-insensitive).
	Search string

	// one of: title, entryId, updatedAt. Empty means title.
	OrderBy string
	Desc    bool

	Skip int
	Top  int
}

func (dfq DirectoryFindQuery) Equal(other DirectoryFindQuery) bool {
	return dfq.Family == other.Family &&
		cmp.SliceContentEq(dfq.KeywordId, other.KeywordId) &&
		dfq.Search == other.Search &&
		dfq.OrderBy == other.OrderBy &&
		dfq.Desc == other.Desc &&
		dfq.Skip == other.Skip &&
		dfq.Top == other.Top
}

type CatalogInterface interface {
	// FindEntries returns directory entries matching the query, in order.
	FindEntries(ctx context.Context, query DirectoryFindQuery) ([]DirectoryEntry, error)

	// GetEntries retrieves entries of one family by row id.
	GetEntries(ctx context.Context, family DirectoryFamily, ids []string) (map[string]DirectoryEntry, error)

	// ExistingByEntryId maps business ids of one family to stored rows,
	// for ingestion.
	ExistingByEntryId(ctx context.Context, family DirectoryFamily, entryIds []int) (map[int]DirectoryEntry, error)

	// UpsertEntries writes ingested rows keyed by row id.
	UpsertEntries(ctx context.Context, entries []DirectoryEntry) error

	// Keywords returns all taxonomy terms.
	Keywords(ctx context.Context) ([]Keyword, error)

	// UpsertKeywords writes taxonomy terms keyed by business id.
	UpsertKeywords(ctx context.Context, keywords []Keyword) error

	// GetUser retrieves one user by row id. Returns ErrMissing when absent.
	GetUser(ctx context.Context, id string) (User, error)

	// FindUsers returns users whose name or email contains search.
	FindUsers(ctx context.Context, search string, skip int, top int) ([]User, error)

	// ExistingByUserId maps business ids to stored users, for ingestion.
	ExistingByUserId(ctx context.Context, userIds []int) (map[int]User, error)

	// UpsertUsers writes ingested rows keyed by row id.
	UpsertUsers(ctx context.Context, users []User) error
}

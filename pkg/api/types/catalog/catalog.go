package catalog

import (
	"time"

	kdb "github.com/athena-research/athena/pkg/db"
	"github.com/athena-research/athena/pkg/utils/cmp"
	"github.com/athena-research/athena/pkg/utils/rfctime"
)

// EntryDetail is one directory entry as served to clients.
type EntryDetail struct {
	Id      string `json:"id"`
	Family  string `json:"family"`
	EntryId int    `json:"entryId"`

	Title        string `json:"title"`
	Description  string `json:"description"`
	Organization string `json:"organization,omitempty"`

	ContactEmail string `json:"contactEmail,omitempty"`
	ContactPhone string `json:"contactPhone,omitempty"`
	WebSite      string `json:"webSite,omitempty"`

	StartDate *rfctime.RFC3339 `json:"startDate,omitempty"`
	EndDate   *rfctime.RFC3339 `json:"endDate,omitempty"`
	Location  string           `json:"location,omitempty"`

	Link     string `json:"link,omitempty"`
	Provider string `json:"provider,omitempty"`

	Keywords     []int  `json:"keywords"`
	KeywordsText string `json:"keywordsText"`

	NumberOfRatings int    `json:"numberOfRatings"`
	AverageRating   string `json:"averageRating"`

	UpdatedAt rfctime.RFC3339 `json:"updatedAt"`
}

func (d EntryDetail) Equal(o EntryDetail) bool {
	return d.Id == o.Id &&
		d.Family == o.Family &&
		d.EntryId == o.EntryId &&
		d.Title == o.Title &&
		d.Description == o.Description &&
		d.Organization == o.Organization &&
		d.ContactEmail == o.ContactEmail &&
		d.ContactPhone == o.ContactPhone &&
		d.WebSite == o.WebSite &&
		d.StartDate.Equal(o.StartDate) &&
		d.EndDate.Equal(o.EndDate) &&
		d.Location == o.Location &&
		d.Link == o.Link &&
		d.Provider == o.Provider &&
		cmp.SliceEq(d.Keywords, o.Keywords) &&
		d.KeywordsText == o.KeywordsText &&
		d.NumberOfRatings == o.NumberOfRatings &&
		d.AverageRating == o.AverageRating &&
		d.UpdatedAt.Equal(&o.UpdatedAt)
}

func ComposeEntryDetail(e kdb.DirectoryEntry) EntryDetail {
	return EntryDetail{
		Id:      e.Id,
		Family:  string(e.Family),
		EntryId: e.EntryId,

		Title:        e.Title,
		Description:  e.Description,
		Organization: e.Organization,

		ContactEmail: e.ContactEmail,
		ContactPhone: e.ContactPhone,
		WebSite:      e.WebSite,

		StartDate: optional(e.StartDate),
		EndDate:   optional(e.EndDate),
		Location:  e.Location,

		Link:     e.Link,
		Provider: e.Provider,

		Keywords:     e.Keywords,
		KeywordsText: e.KeywordsText,

		NumberOfRatings: e.NumberOfRatings,
		AverageRating:   e.AverageRating,

		UpdatedAt: rfctime.New(e.UpdatedAt),
	}
}

func optional(t *time.Time) *rfctime.RFC3339 {
	if t == nil {
		return nil
	}
	rt := rfctime.New(*t)
	return &rt
}

// KeywordDetail is one taxonomy term.
type KeywordDetail struct {
	Id         string `json:"id"`
	KeywordId  int    `json:"keywordId"`
	Title      string `json:"title"`
	Synonyms   string `json:"synonyms,omitempty"`
	ParentNode int    `json:"parentNode"`
}

func (d KeywordDetail) Equal(o KeywordDetail) bool {
	return d == o
}

func ComposeKeywordDetail(k kdb.Keyword) KeywordDetail {
	return KeywordDetail{
		Id:         k.Id,
		KeywordId:  k.KeywordId,
		Title:      k.Title,
		Synonyms:   k.Synonyms,
		ParentNode: k.ParentNode,
	}
}

type CoiRef struct {
	CoiId int    `json:"coiId"`
	Name  string `json:"name"`
}

// UserDetail is one catalogued person.
type UserDetail struct {
	Id     string `json:"id"`
	UserId int    `json:"userId"`

	FirstName  string `json:"firstName"`
	MiddleName string `json:"middleName,omitempty"`
	LastName   string `json:"lastName"`

	Email          string `json:"email"`
	OtherContact   string `json:"otherContact,omitempty"`
	SecondaryEmail string `json:"secondaryEmail,omitempty"`

	Organization          string `json:"organization,omitempty"`
	Specialty             string `json:"specialty,omitempty"`
	UnderGraduateDegree   string `json:"underGraduateDegree,omitempty"`
	GraduateDegreeProgram string `json:"graduateDegreeProgram,omitempty"`

	DepartmentIds      []int `json:"departmentIds"`
	GraduateProgramIds []int `json:"graduateProgramIds"`

	Keywords     []int  `json:"keywords"`
	KeywordsText string `json:"keywordsText"`

	CommunityOfInterests  []CoiRef `json:"communityOfInterests"`
	NotificationFrequency string   `json:"notificationFrequency"`
	UserType              string   `json:"userType"`
}

func (d UserDetail) Equal(o UserDetail) bool {
	return d.Id == o.Id &&
		d.UserId == o.UserId &&
		d.FirstName == o.FirstName &&
		d.MiddleName == o.MiddleName &&
		d.LastName == o.LastName &&
		d.Email == o.Email &&
		d.OtherContact == o.OtherContact &&
		d.SecondaryEmail == o.SecondaryEmail &&
		d.Organization == o.Organization &&
		d.Specialty == o.Specialty &&
		d.UnderGraduateDegree == o.UnderGraduateDegree &&
		d.GraduateDegreeProgram == o.GraduateDegreeProgram &&
		cmp.SliceEq(d.DepartmentIds, o.DepartmentIds) &&
		cmp.SliceEq(d.GraduateProgramIds, o.GraduateProgramIds) &&
		cmp.SliceEq(d.Keywords, o.Keywords) &&
		d.KeywordsText == o.KeywordsText &&
		cmp.SliceEq(d.CommunityOfInterests, o.CommunityOfInterests) &&
		d.NotificationFrequency == o.NotificationFrequency &&
		d.UserType == o.UserType
}

func ComposeUserDetail(u kdb.User) UserDetail {
	cois := []CoiRef{}
	for _, c := range u.CommunityOfInterests {
		cois = append(cois, CoiRef{CoiId: c.CoiId, Name: c.Name})
	}
	return UserDetail{
		Id:     u.Id,
		UserId: u.UserId,

		FirstName:  u.FirstName,
		MiddleName: u.MiddleName,
		LastName:   u.LastName,

		Email:          u.Email,
		OtherContact:   u.OtherContact,
		SecondaryEmail: u.SecondaryEmail,

		Organization:          u.Organization,
		Specialty:             u.Specialty,
		UnderGraduateDegree:   u.UnderGraduateDegree,
		GraduateDegreeProgram: u.GraduateDegreeProgram,

		DepartmentIds:      u.DepartmentIds,
		GraduateProgramIds: u.GraduateProgramIds,

		Keywords:     u.Keywords,
		KeywordsText: u.KeywordsText,

		CommunityOfInterests:  cois,
		NotificationFrequency: string(u.NotificationFrequency),
		UserType:              string(u.UserType),
	}
}

package ingest

import (
	kdb "github.com/athena-research/athena/pkg/db"
	"github.com/athena-research/athena/pkg/utils/cmp"
	"github.com/athena-research/athena/pkg/utils/rfctime"
)

// Wire shapes of the bulk ingestion payloads, one JSON object per business
// entity. Integer-array fields are plain JSON arrays; null arrays stay nil.
//
// Enum-like fields arrive as the upstream system's small integers and are
// translated by pkg/ingest.

type UserJson struct {
	UserId     int    `json:"userId"`
	FirstName  string `json:"firstName"`
	MiddleName string `json:"middleName"`
	LastName   string `json:"lastName"`

	Email string `json:"email"`

	// numeric contact id as text. Non-numeric values are an ingestion error.
	OtherContact   string `json:"otherContact"`
	SecondaryEmail string `json:"secondaryEmail"`

	Organization          string `json:"organization"`
	Specialty             string `json:"specialty"`
	UnderGraduateDegree   string `json:"underGraduateDegree"`
	GraduateDegreeProgram string `json:"graduateDegreeProgram"`

	DepartmentId      []int `json:"departmentId"`
	GraduateProgramId []int `json:"graduateProgramId"`

	Keywords     []int  `json:"keywords"`
	KeywordsText string `json:"keywordsText"`

	// 0 = daily, 1 = weekly, 2 = monthly.
	NotificationFrequency int `json:"notificationFrequency"`
}

func (u UserJson) Equal(o UserJson) bool {
	return u.UserId == o.UserId &&
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
		cmp.SliceEq(u.DepartmentId, o.DepartmentId) &&
		cmp.SliceEq(u.GraduateProgramId, o.GraduateProgramId) &&
		cmp.SliceEq(u.Keywords, o.Keywords) &&
		u.KeywordsText == o.KeywordsText &&
		u.NotificationFrequency == o.NotificationFrequency
}

type CoiJson struct {
	CoiId       int    `json:"coiId"`
	Name        string `json:"name"`
	Description string `json:"description"`

	// 0 = public, 1 = private.
	Type int `json:"type"`

	ChampionIds []int `json:"championIds"`
	ContactId   int   `json:"contactId"`

	TeamId          string `json:"teamId"`
	GroupLink       string `json:"groupLink"`
	ImageLink       string `json:"imageLink"`
	SearchQuery     string `json:"searchQuery"`
	IncludeInSearch bool   `json:"includeInSearch"`

	Keywords     []int  `json:"keywords"`
	KeywordsText string `json:"keywordsText"`
}

// shared body of the research artifact payloads. The three wire shapes
// differ in their business-id field only.
type ResearchBodyJson struct {
	Title       string `json:"title"`
	Abstract    string `json:"abstract"`
	Description string `json:"description"`

	// 0 = proposed, 1 = inProgress, 2 = completed.
	Status            int    `json:"status"`
	StatusDescription string `json:"statusDescription"`

	Authors         string `json:"authors"`
	AuthorIds       []int  `json:"authorIds"`
	Advisors        string `json:"advisors"`
	AdvisorIds      []int  `json:"advisorIds"`
	SecondReaders   string `json:"secondReaders"`
	SecondReaderIds []int  `json:"secondReaderIds"`
	Sponsors        string `json:"sponsors"`
	SponsorIds      []int  `json:"sponsorIds"`
	Partners        string `json:"partners"`
	PartnerIds      []int  `json:"partnerIds"`

	StartDate      *rfctime.RFC3339 `json:"startDate"`
	CompletionDate *rfctime.RFC3339 `json:"completionDate"`
	LastUpdate     *rfctime.RFC3339 `json:"lastUpdate"`

	Priority      int `json:"priority"`
	Importance    int `json:"importance"`
	SecurityLevel int `json:"securityLevel"`
	NodeTypeId    int `json:"nodeTypeId"`
	SourceId      int `json:"sourceId"`

	Keywords     []int  `json:"keywords"`
	KeywordsText string `json:"keywordsText"`
}

type ResearchProjectJson struct {
	ResearchProjectId int `json:"researchProjectId"`
	ResearchBodyJson
}

type ResearchProposalJson struct {
	ResearchProposalId int `json:"researchProposalId"`
	ResearchBodyJson
}

type ResearchRequestJson struct {
	ResearchRequestId int `json:"researchRequestId"`
	ResearchBodyJson
}

// shared body of the directory-style payloads.
type DirectoryBodyJson struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	Organization string `json:"organization"`

	ContactEmail string `json:"contactEmail"`
	ContactPhone string `json:"contactPhone"`
	WebSite      string `json:"webSite"`

	StartDate *rfctime.RFC3339 `json:"startDate"`
	EndDate   *rfctime.RFC3339 `json:"endDate"`
	Location  string           `json:"location"`

	Link     string `json:"link"`
	Provider string `json:"provider"`

	Keywords     []int  `json:"keywords"`
	KeywordsText string `json:"keywordsText"`

	SecurityLevel int `json:"securityLevel"`
	NodeTypeId    int `json:"nodeTypeId"`
}

type SponsorJson struct {
	SponsorId int `json:"sponsorId"`
	DirectoryBodyJson
}

type PartnerJson struct {
	PartnerId int `json:"partnerId"`
	DirectoryBodyJson
}

type EventJson struct {
	EventId int `json:"eventId"`
	DirectoryBodyJson
}

type AthenaToolJson struct {
	AthenaToolId int `json:"athenaToolId"`
	DirectoryBodyJson
}

type InfoResourceJson struct {
	InfoResourceId int `json:"infoResourceId"`
	DirectoryBodyJson
}

type KeywordJson struct {
	KeywordId  int    `json:"keywordId"`
	Title      string `json:"title"`
	Synonyms   string `json:"synonyms"`
	ParentNode int    `json:"parentNode"`
}

// Result summarizes one ingestion run. Skipped counts elements which could
// not be mapped; Errors explains them, one message per skipped element.
type Result struct {
	Family  string   `json:"family"`
	Added   int      `json:"added"`
	Updated int      `json:"updated"`
	Skipped int      `json:"skipped"`
	Errors  []string `json:"errors,omitempty"`
}

func (r Result) Equal(o Result) bool {
	return r.Family == o.Family &&
		r.Added == o.Added &&
		r.Updated == o.Updated &&
		r.Skipped == o.Skipped &&
		cmp.SliceEq(r.Errors, o.Errors)
}

// SyncStatus is the bookkeeping record of a named ingestion job.
type SyncStatus struct {
	JobName       string          `json:"jobName"`
	LastRunAt     rfctime.RFC3339 `json:"lastRunAt"`
	Succeeded     bool            `json:"succeeded"`
	FailureReason string          `json:"failureReason,omitempty"`
}

func (s SyncStatus) Equal(o SyncStatus) bool {
	return s.JobName == o.JobName &&
		s.LastRunAt.Equal(&o.LastRunAt) &&
		s.Succeeded == o.Succeeded &&
		s.FailureReason == o.FailureReason
}

func ComposeSyncStatus(r kdb.SyncRecord) SyncStatus {
	return SyncStatus{
		JobName:       r.JobName,
		LastRunAt:     rfctime.New(r.LastRunAt),
		Succeeded:     r.Succeeded,
		FailureReason: r.FailureReason,
	}
}

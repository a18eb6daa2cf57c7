package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/athena-research/athena/pkg/utils/cmp"
)

// Status of an approvable submission (news article or community of interest).
type RequestStatus string

const (
	// The submission is waiting for an admin decision.
	Pending RequestStatus = "pending"

	// An admin has accepted the submission. Terminal.
	Approved RequestStatus = "approved"

	// An admin has turned the submission down. Terminal.
	Rejected RequestStatus = "rejected"
)

func (rs RequestStatus) String() string {
	return string(rs)
}

func AsRequestStatus(status string) (RequestStatus, error) {
	switch status {
	case string(Pending):
		return Pending, nil
	case string(Approved):
		return Approved, nil
	case string(Rejected):
		return Rejected, nil
	default:
		return "", fmt.Errorf("'%s' is not RequestStatus", status)
	}
}

// Decided reports whether the status is terminal.
func (rs RequestStatus) Decided() bool {
	switch rs {
	case Approved, Rejected:
		return true
	default:
		return false
	}
}

// Kind of record a request row refers to.
type RequestKind string

const (
	KindNews RequestKind = "news"
	KindCoi  RequestKind = "coi"
)

func (rk RequestKind) String() string {
	return string(rk)
}

func AsRequestKind(kind string) (RequestKind, error) {
	switch kind {
	case string(KindNews):
		return KindNews, nil
	case string(KindCoi):
		return KindCoi, nil
	default:
		return "", fmt.Errorf("'%s' is not RequestKind", kind)
	}
}

// Per-id result of a bulk approve/reject call.
type DecisionOutcome string

const (
	// The row was Pending and has transitioned.
	Transitioned DecisionOutcome = "transitioned"

	// The row had already been approved or rejected by another actor.
	AlreadyDecided DecisionOutcome = "alreadyDecided"

	// No row exists for the id.
	DecisionMissing DecisionOutcome = "missing"
)

type Decision struct {
	Id      string
	Outcome DecisionOutcome
}

// Columns the admin request browser can order by.
type RequestSortKey string

const (
	SortByTitle     RequestSortKey = "title"
	SortByKind      RequestSortKey = "kind"
	SortByCreatedBy RequestSortKey = "createdBy"
	SortByCreatedAt RequestSortKey = "createdAt"
	SortByStatus    RequestSortKey = "status"
)

func AsRequestSortKey(key string) (RequestSortKey, error) {
	switch key {
	case string(SortByTitle):
		return SortByTitle, nil
	case string(SortByKind):
		return SortByKind, nil
	case string(SortByCreatedBy):
		return SortByCreatedBy, nil
	case string(SortByCreatedAt):
		return SortByCreatedAt, nil
	case string(SortByStatus):
		return SortByStatus, nil
	default:
		return "", fmt.Errorf("'%s' is not RequestSortKey", key)
	}
}

// One row of the admin request browser.
type RequestSummary struct {
	Id        string
	Kind      RequestKind
	Title     string
	Status    RequestStatus
	CreatedBy string
	CreatedAt time.Time
}

func (rs RequestSummary) Equal(o RequestSummary) bool {
	return rs.Id == o.Id &&
		rs.Kind == o.Kind &&
		rs.Title == o.Title &&
		rs.Status == o.Status &&
		rs.CreatedBy == o.CreatedBy &&
		rs.CreatedAt.Equal(o.CreatedAt)
}

// parameter to query the request browser.
//
// When all dimension matches a row, this query matches the row.
type RequestFindQuery struct {
	// match if the row is one of these kinds.
	//
	// If it is nil or empty, it means "match any".
	Kind []RequestKind

	// match if the row's status is one of these statuses.
	//
	// If it is nil or empty, it means "match any".
	Status []RequestStatus

	// match if the row's title/name contains this substring (case-insensitive).
	Search string

	Sort RequestSortKey
	Desc bool

	Skip int
	Top  int
}

func (rfq RequestFindQuery) Equal(other RequestFindQuery) bool {
	return cmp.SliceContentEq(rfq.Kind, other.Kind) &&
		cmp.SliceContentEq(rfq.Status, other.Status) &&
		rfq.Search == other.Search &&
		rfq.Sort == other.Sort &&
		rfq.Desc == other.Desc &&
		rfq.Skip == other.Skip &&
		rfq.Top == other.Top
}

// Options carried with an approval.
type ApproveOption struct {
	// For news: the final importance decision made by the admin.
	// nil keeps the submitter's flag.
	IsImportant *bool
}

var (
	ErrInvalidRequestStateChanging = errors.New("cannot change request state")

	// the record has already been approved or rejected.
	ErrAlreadyDecided = fmt.Errorf("%w: already approved or rejected", ErrInvalidRequestStateChanging)
)

type RequestInterface interface {
	// Find rows of the admin request browser matching the query.
	Find(ctx context.Context, query RequestFindQuery) ([]RequestSummary, error)

	// Approve transitions each id from Pending to Approved.
	//
	// Every id gets its own Decision: a row decided by another actor does not
	// block the remaining pending ids from transitioning, but shows up as
	// AlreadyDecided. The check-and-set per row is atomic, so two admins
	// racing over the same id see exactly one Transitioned.
	Approve(ctx context.Context, kind RequestKind, ids []string, opt ApproveOption) ([]Decision, error)

	// Reject transitions each id from Pending to Rejected, persisting the
	// admin's comment on every transitioned row.
	//
	// Decision semantics are the same as Approve.
	Reject(ctx context.Context, kind RequestKind, ids []string, comment string) ([]Decision, error)
}

// DecisionsSucceeded reports the aggregate all-or-nothing outcome the admin
// client expects: true only when every id transitioned.
func DecisionsSucceeded(decisions []Decision) bool {
	for _, d := range decisions {
		if d.Outcome != Transitioned {
			return false
		}
	}
	return len(decisions) > 0
}

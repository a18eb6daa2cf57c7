package requests

import (
	kdb "github.com/athena-research/athena/pkg/db"
	"github.com/athena-research/athena/pkg/utils/cmp"
	"github.com/athena-research/athena/pkg/utils/rfctime"
)

// Summary is one row of the admin request browser.
type Summary struct {
	Id        string          `json:"id"`
	Kind      string          `json:"kind"`
	Title     string          `json:"title"`
	Status    string          `json:"status"`
	CreatedBy string          `json:"createdBy"`
	CreatedAt rfctime.RFC3339 `json:"createdAt"`
}

func (s Summary) Equal(o Summary) bool {
	return s.Id == o.Id &&
		s.Kind == o.Kind &&
		s.Title == o.Title &&
		s.Status == o.Status &&
		s.CreatedBy == o.CreatedBy &&
		s.CreatedAt.Equal(&o.CreatedAt)
}

func ComposeSummary(s kdb.RequestSummary) Summary {
	return Summary{
		Id:        s.Id,
		Kind:      s.Kind.String(),
		Title:     s.Title,
		Status:    s.Status.String(),
		CreatedBy: s.CreatedBy,
		CreatedAt: rfctime.New(s.CreatedAt),
	}
}

// ApproveRequest is the body of a bulk approval.
type ApproveRequest struct {
	Kind string   `json:"kind"`
	Ids  []string `json:"ids"`

	// Final importance decision for news. nil keeps the submitter's flag.
	IsImportant *bool `json:"isImportant,omitempty"`
}

// RejectRequest is the body of a bulk rejection. Comment is mandatory.
type RejectRequest struct {
	Kind    string   `json:"kind"`
	Ids     []string `json:"ids"`
	Comment string   `json:"comment"`
}

// Decision is the per-id outcome in a bulk result.
type Decision struct {
	Id      string `json:"id"`
	Outcome string `json:"outcome"`
}

// Result of a bulk approve/reject. Succeeded is true only when every id
// transitioned.
type Result struct {
	Succeeded bool       `json:"succeeded"`
	Decisions []Decision `json:"decisions"`
}

func (r Result) Equal(o Result) bool {
	return r.Succeeded == o.Succeeded &&
		cmp.SliceEq(r.Decisions, o.Decisions)
}

func ComposeResult(decisions []kdb.Decision) Result {
	ds := []Decision{}
	for _, d := range decisions {
		ds = append(ds, Decision{Id: d.Id, Outcome: string(d.Outcome)})
	}
	return Result{
		Succeeded: kdb.DecisionsSucceeded(decisions),
		Decisions: ds,
	}
}

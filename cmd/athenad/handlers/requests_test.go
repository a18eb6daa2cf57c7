package handlers_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/athena-research/athena/cmd/athenad/handlers"
	httptestutil "github.com/athena-research/athena/internal/testutils/http"
	apireq "github.com/athena-research/athena/pkg/api/types/requests"
	kdb "github.com/athena-research/athena/pkg/db"
	dbmock "github.com/athena-research/athena/pkg/db/mocks"
	"github.com/athena-research/athena/pkg/utils/cmp"
)

type mockProvisioner struct {
	Impl  func(ctx context.Context, coi kdb.Coi) (string, string, error)
	Calls []kdb.Coi
}

func (m *mockProvisioner) Provision(ctx context.Context, coi kdb.Coi) (string, string, error) {
	m.Calls = append(m.Calls, coi)
	if m.Impl != nil {
		return m.Impl(ctx, coi)
	}
	panic(errors.New("it should not be called"))
}

func nullLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func TestFindRequestsHandler(t *testing.T) {

	t.Run("When query parameters come, it should pass them to the database as a query", func(t *testing.T) {
		mckReq := dbmock.NewRequestInterface()
		mckReq.Impl.Find = func(ctx context.Context, query kdb.RequestFindQuery) ([]kdb.RequestSummary, error) {
			return []kdb.RequestSummary{}, nil
		}

		e := echo.New()
		c, _ := httptestutil.Get(
			e, "/api/requests?kind=news&status=pending&status=approved&q=quantum&sort=title&desc=true&skip=5&top=20",
		)

		testee := handlers.FindRequestsHandler(mckReq)
		if err := testee(c); err != nil {
			t.Fatalf("testee returns error unexpectedly: %s", err)
		}

		expected := kdb.RequestFindQuery{
			Kind:   []kdb.RequestKind{kdb.KindNews},
			Status: []kdb.RequestStatus{kdb.Pending, kdb.Approved},
			Search: "quantum",
			Sort:   kdb.SortByTitle,
			Desc:   true,
			Skip:   5,
			Top:    20,
		}
		if mckReq.Calls.Find.Times() != 1 {
			t.Fatalf("Find should be called once, but %d times", mckReq.Calls.Find.Times())
		}
		if !mckReq.Calls.Find[0].Equal(expected) {
			t.Errorf("Find called with unexpected query:\n= actual   : %+v\n= expected : %+v", mckReq.Calls.Find[0], expected)
		}
	})

	t.Run("When rows are found, it should respond them as summaries", func(t *testing.T) {
		summaries := []kdb.RequestSummary{
			{
				Id: "row-news-1", Kind: kdb.KindNews, Title: "article",
				Status: kdb.Pending, CreatedBy: "alice@athena.example",
				CreatedAt: time.Date(2023, 4, 1, 9, 0, 0, 0, time.UTC),
			},
			{
				Id: "row-coi-1", Kind: kdb.KindCoi, Title: "community",
				Status: kdb.Approved, CreatedBy: "bob@athena.example",
				CreatedAt: time.Date(2023, 4, 2, 9, 0, 0, 0, time.UTC),
			},
		}
		mckReq := dbmock.NewRequestInterface()
		mckReq.Impl.Find = func(ctx context.Context, query kdb.RequestFindQuery) ([]kdb.RequestSummary, error) {
			return summaries, nil
		}

		e := echo.New()
		c, resp := httptestutil.Get(e, "/api/requests")

		testee := handlers.FindRequestsHandler(mckReq)
		if err := testee(c); err != nil {
			t.Fatalf("testee returns error unexpectedly: %s", err)
		}

		actual := []apireq.Summary{}
		if err := json.Unmarshal(resp.Body.Bytes(), &actual); err != nil {
			t.Fatalf("response is not JSON: %s", err)
		}
		expected := []apireq.Summary{
			apireq.ComposeSummary(summaries[0]), apireq.ComposeSummary(summaries[1]),
		}
		if !cmp.SliceEqWith(actual, expected, apireq.Summary.Equal) {
			t.Errorf("response mismatch:\n= actual   : %+v\n= expected : %+v", actual, expected)
		}
	})

	t.Run("When an unknown sort key comes, it should respond 400", func(t *testing.T) {
		mckReq := dbmock.NewRequestInterface()

		e := echo.New()
		c, _ := httptestutil.Get(e, "/api/requests?sort=priority")

		testee := handlers.FindRequestsHandler(mckReq)
		err := testee(c)
		if err == nil {
			t.Fatal("testee should return error")
		}
		var echoErr *echo.HTTPError
		if !errors.As(err, &echoErr) {
			t.Fatalf("error is not echo.HTTPError: %+v", err)
		}
		if echoErr.Code != http.StatusBadRequest {
			t.Errorf("status code should be 400, but %d", echoErr.Code)
		}
	})
}

func TestApproveRequestsHandler(t *testing.T) {

	t.Run("When news ids are approved, it should respond per-id outcomes and the aggregate", func(t *testing.T) {
		mckReq := dbmock.NewRequestInterface()
		mckReq.Impl.Approve = func(ctx context.Context, kind kdb.RequestKind, ids []string, opt kdb.ApproveOption) ([]kdb.Decision, error) {
			return []kdb.Decision{
				{Id: "row-1", Outcome: kdb.Transitioned},
				{Id: "row-2", Outcome: kdb.AlreadyDecided},
				{Id: "row-3", Outcome: kdb.Transitioned},
			}, nil
		}
		mckCoi := dbmock.NewCoiInterface()
		prov := &mockProvisioner{}

		e := echo.New()
		c, resp := httptestutil.Put(
			e, "/api/requests/approve",
			strings.NewReader(`{"kind": "news", "ids": ["row-1", "row-2", "row-3"], "isImportant": true}`),
			httptestutil.ContentType("application/json"),
			httptestutil.WithHeader(handlers.PrincipalHeader, "admin@athena.example"),
		)

		testee := handlers.ApproveRequestsHandler(mckReq, mckCoi, prov, nullLogger())
		if err := testee(c); err != nil {
			t.Fatalf("testee returns error unexpectedly: %s", err)
		}

		if mckReq.Calls.Approve.Times() != 1 {
			t.Fatalf("Approve should be called once, but %d times", mckReq.Calls.Approve.Times())
		}
		call := mckReq.Calls.Approve[0]
		if call.Kind != kdb.KindNews ||
			!cmp.SliceEq(call.Ids, []string{"row-1", "row-2", "row-3"}) ||
			call.Opt.IsImportant == nil || !*call.Opt.IsImportant {
			t.Errorf("Approve called with unexpected args: %+v", call)
		}
		if len(prov.Calls) != 0 {
			t.Errorf("provisioner should not be called for news")
		}

		actual := apireq.Result{}
		if err := json.Unmarshal(resp.Body.Bytes(), &actual); err != nil {
			t.Fatalf("response is not JSON: %s", err)
		}
		expected := apireq.Result{
			Succeeded: false,
			Decisions: []apireq.Decision{
				{Id: "row-1", Outcome: "transitioned"},
				{Id: "row-2", Outcome: "alreadyDecided"},
				{Id: "row-3", Outcome: "transitioned"},
			},
		}
		if !actual.Equal(expected) {
			t.Errorf("response mismatch:\n= actual   : %+v\n= expected : %+v", actual, expected)
		}
	})

	t.Run("When communities are approved, it should provision teams for transitioned ids only", func(t *testing.T) {
		mckReq := dbmock.NewRequestInterface()
		mckReq.Impl.Approve = func(ctx context.Context, kind kdb.RequestKind, ids []string, opt kdb.ApproveOption) ([]kdb.Decision, error) {
			return []kdb.Decision{
				{Id: "row-coi-1", Outcome: kdb.Transitioned},
				{Id: "row-coi-2", Outcome: kdb.AlreadyDecided},
			}, nil
		}
		mckCoi := dbmock.NewCoiInterface()
		mckCoi.Impl.Get = func(ctx context.Context, ids []string) (map[string]kdb.Coi, error) {
			return map[string]kdb.Coi{
				"row-coi-1": {Id: "row-coi-1", CoiId: 8, Name: "robotics", Status: kdb.Approved},
			}, nil
		}
		mckCoi.Impl.SetTeam = func(ctx context.Context, id string, teamId string, groupLink string) error {
			return nil
		}
		prov := &mockProvisioner{
			Impl: func(ctx context.Context, coi kdb.Coi) (string, string, error) {
				return "team-8", "https://teams.example/team-8", nil
			},
		}

		e := echo.New()
		c, _ := httptestutil.Put(
			e, "/api/requests/approve",
			strings.NewReader(`{"kind": "coi", "ids": ["row-coi-1", "row-coi-2"]}`),
			httptestutil.ContentType("application/json"),
			httptestutil.WithHeader(handlers.PrincipalHeader, "admin@athena.example"),
		)

		testee := handlers.ApproveRequestsHandler(mckReq, mckCoi, prov, nullLogger())
		if err := testee(c); err != nil {
			t.Fatalf("testee returns error unexpectedly: %s", err)
		}

		if len(prov.Calls) != 1 || prov.Calls[0].Id != "row-coi-1" {
			t.Fatalf("provisioner should be called once with the transitioned community, but: %+v", prov.Calls)
		}
		if mckCoi.Calls.SetTeam.Times() != 1 {
			t.Fatalf("SetTeam should be called once, but %d times", mckCoi.Calls.SetTeam.Times())
		}
		setTeam := mckCoi.Calls.SetTeam[0]
		if setTeam.Id != "row-coi-1" || setTeam.TeamId != "team-8" || setTeam.GroupLink != "https://teams.example/team-8" {
			t.Errorf("SetTeam called with unexpected args: %+v", setTeam)
		}
	})

	t.Run("When provisioning fails, it should still respond the decisions", func(t *testing.T) {
		mckReq := dbmock.NewRequestInterface()
		mckReq.Impl.Approve = func(ctx context.Context, kind kdb.RequestKind, ids []string, opt kdb.ApproveOption) ([]kdb.Decision, error) {
			return []kdb.Decision{{Id: "row-coi-1", Outcome: kdb.Transitioned}}, nil
		}
		mckCoi := dbmock.NewCoiInterface()
		mckCoi.Impl.Get = func(ctx context.Context, ids []string) (map[string]kdb.Coi, error) {
			return map[string]kdb.Coi{"row-coi-1": {Id: "row-coi-1", Name: "robotics"}}, nil
		}
		prov := &mockProvisioner{
			Impl: func(ctx context.Context, coi kdb.Coi) (string, string, error) {
				return "", "", errors.New("graph api is down")
			},
		}

		e := echo.New()
		c, resp := httptestutil.Put(
			e, "/api/requests/approve",
			strings.NewReader(`{"kind": "coi", "ids": ["row-coi-1"]}`),
			httptestutil.ContentType("application/json"),
			httptestutil.WithHeader(handlers.PrincipalHeader, "admin@athena.example"),
		)

		testee := handlers.ApproveRequestsHandler(mckReq, mckCoi, prov, nullLogger())
		if err := testee(c); err != nil {
			t.Fatalf("testee returns error unexpectedly: %s", err)
		}

		if mckCoi.Calls.SetTeam.Times() != 0 {
			t.Errorf("SetTeam should not be called when provisioning fails")
		}
		actual := apireq.Result{}
		if err := json.Unmarshal(resp.Body.Bytes(), &actual); err != nil {
			t.Fatalf("response is not JSON: %s", err)
		}
		if !actual.Succeeded {
			t.Errorf("the approval itself should be reported as succeeded")
		}
	})

	t.Run("When the kind is unknown, it should respond 400", func(t *testing.T) {
		mckReq := dbmock.NewRequestInterface()
		mckCoi := dbmock.NewCoiInterface()

		e := echo.New()
		c, _ := httptestutil.Put(
			e, "/api/requests/approve",
			strings.NewReader(`{"kind": "plan", "ids": ["row-1"]}`),
			httptestutil.ContentType("application/json"),
			httptestutil.WithHeader(handlers.PrincipalHeader, "admin@athena.example"),
		)

		testee := handlers.ApproveRequestsHandler(mckReq, mckCoi, &mockProvisioner{}, nullLogger())
		err := testee(c)
		if err == nil {
			t.Fatal("testee should return error")
		}
		var echoErr *echo.HTTPError
		if !errors.As(err, &echoErr) {
			t.Fatalf("error is not echo.HTTPError: %+v", err)
		}
		if echoErr.Code != http.StatusBadRequest {
			t.Errorf("status code should be 400, but %d", echoErr.Code)
		}
		if mckReq.Calls.Approve.Times() != 0 {
			t.Errorf("Approve should not be called")
		}
	})
}

func TestRejectRequestsHandler(t *testing.T) {

	t.Run("When ids are rejected with a comment, it should pass the comment through", func(t *testing.T) {
		mckReq := dbmock.NewRequestInterface()
		mckReq.Impl.Reject = func(ctx context.Context, kind kdb.RequestKind, ids []string, comment string) ([]kdb.Decision, error) {
			return []kdb.Decision{{Id: "row-1", Outcome: kdb.Transitioned}}, nil
		}

		e := echo.New()
		c, resp := httptestutil.Put(
			e, "/api/requests/reject",
			strings.NewReader(`{"kind": "news", "ids": ["row-1"], "comment": "duplicate of an existing article"}`),
			httptestutil.ContentType("application/json"),
			httptestutil.WithHeader(handlers.PrincipalHeader, "admin@athena.example"),
		)

		testee := handlers.RejectRequestsHandler(mckReq)
		if err := testee(c); err != nil {
			t.Fatalf("testee returns error unexpectedly: %s", err)
		}

		if mckReq.Calls.Reject.Times() != 1 {
			t.Fatalf("Reject should be called once, but %d times", mckReq.Calls.Reject.Times())
		}
		call := mckReq.Calls.Reject[0]
		if call.Kind != kdb.KindNews ||
			!cmp.SliceEq(call.Ids, []string{"row-1"}) ||
			call.Comment != "duplicate of an existing article" {
			t.Errorf("Reject called with unexpected args: %+v", call)
		}

		actual := apireq.Result{}
		if err := json.Unmarshal(resp.Body.Bytes(), &actual); err != nil {
			t.Fatalf("response is not JSON: %s", err)
		}
		if !actual.Succeeded {
			t.Errorf("the rejection should be reported as succeeded")
		}
	})

	t.Run("When the comment is blank, it should respond 400 without rejecting", func(t *testing.T) {
		for name, comment := range map[string]string{
			"(empty)":      `""`,
			"(whitespace)": `"   "`,
		} {
			t.Run(name, func(t *testing.T) {
				mckReq := dbmock.NewRequestInterface()

				e := echo.New()
				c, _ := httptestutil.Put(
					e, "/api/requests/reject",
					strings.NewReader(`{"kind": "news", "ids": ["row-1"], "comment": `+comment+`}`),
					httptestutil.ContentType("application/json"),
					httptestutil.WithHeader(handlers.PrincipalHeader, "admin@athena.example"),
				)

				testee := handlers.RejectRequestsHandler(mckReq)
				err := testee(c)
				if err == nil {
					t.Fatal("testee should return error")
				}
				var echoErr *echo.HTTPError
				if !errors.As(err, &echoErr) {
					t.Fatalf("error is not echo.HTTPError: %+v", err)
				}
				if echoErr.Code != http.StatusBadRequest {
					t.Errorf("status code should be 400, but %d", echoErr.Code)
				}
				if mckReq.Calls.Reject.Times() != 0 {
					t.Errorf("Reject should not be called")
				}
			})
		}
	})
}

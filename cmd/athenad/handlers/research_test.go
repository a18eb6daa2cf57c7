package handlers_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/athena-research/athena/cmd/athenad/handlers"
	httptestutil "github.com/athena-research/athena/internal/testutils/http"
	apiresearch "github.com/athena-research/athena/pkg/api/types/research"
	kdb "github.com/athena-research/athena/pkg/db"
	dbmock "github.com/athena-research/athena/pkg/db/mocks"
)

func TestFindResearchHandler(t *testing.T) {

	t.Run("When query parameters come, it should pass them to the database as a query", func(t *testing.T) {
		mckResearch := dbmock.NewResearchInterface()
		mckResearch.Impl.Find = func(ctx context.Context, query kdb.ResearchFindQuery) ([]string, error) {
			return []string{}, nil
		}

		e := echo.New()
		c, _ := httptestutil.Get(
			e, "/api/research?kind=project&kind=proposal&status=inProgress&keyword=7&q=autonomy&skip=3&top=12",
		)

		testee := handlers.FindResearchHandler(mckResearch)
		if err := testee(c); err != nil {
			t.Fatalf("testee returns error unexpectedly: %s", err)
		}

		expected := kdb.ResearchFindQuery{
			Kind:      []kdb.ResearchKind{kdb.Project, kdb.Proposal},
			Status:    []kdb.ResearchStatus{kdb.InProgress},
			KeywordId: []int{7},
			Search:    "autonomy",
			Skip:      3,
			Top:       12,
		}
		if mckResearch.Calls.Find.Times() != 1 {
			t.Fatalf("Find should be called once, but %d times", mckResearch.Calls.Find.Times())
		}
		if !mckResearch.Calls.Find[0].Equal(expected) {
			t.Errorf("Find called with unexpected query:\n= actual   : %+v\n= expected : %+v", mckResearch.Calls.Find[0], expected)
		}
	})

	t.Run("When an unknown kind comes, it should respond 400", func(t *testing.T) {
		mckResearch := dbmock.NewResearchInterface()

		e := echo.New()
		c, _ := httptestutil.Get(e, "/api/research?kind=patent")

		testee := handlers.FindResearchHandler(mckResearch)
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

func TestGetResearchHandler(t *testing.T) {

	t.Run("When the artifact exists, it should respond it", func(t *testing.T) {
		start := time.Date(2022, 9, 1, 0, 0, 0, 0, time.UTC)
		artifact := kdb.ResearchArtifact{
			Id: "row-res-1", Kind: kdb.Project, ArtifactId: 42,
			Title: "autonomous swarm", Status: kdb.InProgress,
			Authors:       kdb.Participants{Names: "Alice Austen", Ids: []int{12}},
			StartDate:     &start,
			Keywords:      []int{7, 9},
			AverageRating: "4.2",
		}
		mckResearch := dbmock.NewResearchInterface()
		mckResearch.Impl.Get = func(ctx context.Context, ids []string) (map[string]kdb.ResearchArtifact, error) {
			return map[string]kdb.ResearchArtifact{"row-res-1": artifact}, nil
		}

		e := echo.New()
		c, resp := httptestutil.Get(e, "/api/research/row-res-1")
		c.SetParamNames("id")
		c.SetParamValues("row-res-1")

		testee := handlers.GetResearchHandler(mckResearch, "id")
		if err := testee(c); err != nil {
			t.Fatalf("testee returns error unexpectedly: %s", err)
		}

		actual := apiresearch.Detail{}
		if err := json.Unmarshal(resp.Body.Bytes(), &actual); err != nil {
			t.Fatalf("response is not JSON: %s", err)
		}
		if !actual.Equal(apiresearch.ComposeDetail(artifact)) {
			t.Errorf("response mismatch:\n= actual   : %+v\n= expected : %+v", actual, apiresearch.ComposeDetail(artifact))
		}
	})

	t.Run("When no artifact exists for the id, it should respond 404", func(t *testing.T) {
		mckResearch := dbmock.NewResearchInterface()
		mckResearch.Impl.Get = func(ctx context.Context, ids []string) (map[string]kdb.ResearchArtifact, error) {
			return map[string]kdb.ResearchArtifact{}, nil
		}

		e := echo.New()
		c, _ := httptestutil.Get(e, "/api/research/no-such-row")
		c.SetParamNames("id")
		c.SetParamValues("no-such-row")

		testee := handlers.GetResearchHandler(mckResearch, "id")
		err := testee(c)
		if err == nil {
			t.Fatal("testee should return error")
		}
		var echoErr *echo.HTTPError
		if !errors.As(err, &echoErr) {
			t.Fatalf("error is not echo.HTTPError: %+v", err)
		}
		if echoErr.Code != http.StatusNotFound {
			t.Errorf("status code should be 404, but %d", echoErr.Code)
		}
	})
}

func TestRateResearchHandler(t *testing.T) {

	t.Run("When a vote is valid, it should add it and respond 204", func(t *testing.T) {
		mckResearch := dbmock.NewResearchInterface()
		mckResearch.Impl.AddRating = func(ctx context.Context, id string, stars int) error {
			return nil
		}

		e := echo.New()
		c, resp := httptestutil.Put(
			e, "/api/research/row-res-1/ratings",
			strings.NewReader(`{"stars": 5}`),
			httptestutil.ContentType("application/json"),
		)
		c.SetParamNames("id")
		c.SetParamValues("row-res-1")

		testee := handlers.RateResearchHandler(mckResearch, "id")
		if err := testee(c); err != nil {
			t.Fatalf("testee returns error unexpectedly: %s", err)
		}

		if resp.Result().StatusCode != http.StatusNoContent {
			t.Errorf("status code should be 204, but %d", resp.Result().StatusCode)
		}
		if mckResearch.Calls.AddRating.Times() != 1 {
			t.Fatalf("AddRating should be called once, but %d times", mckResearch.Calls.AddRating.Times())
		}
		if mckResearch.Calls.AddRating[0].Id != "row-res-1" || mckResearch.Calls.AddRating[0].Stars != 5 {
			t.Errorf("AddRating called with unexpected args: %+v", mckResearch.Calls.AddRating[0])
		}
	})
}

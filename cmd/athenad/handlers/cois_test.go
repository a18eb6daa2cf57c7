package handlers_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/athena-research/athena/cmd/athenad/handlers"
	httptestutil "github.com/athena-research/athena/internal/testutils/http"
	apicois "github.com/athena-research/athena/pkg/api/types/cois"
	kdb "github.com/athena-research/athena/pkg/db"
	dbmock "github.com/athena-research/athena/pkg/db/mocks"
)

func TestRegisterCoiHandler(t *testing.T) {

	t.Run("When a submission is valid, it should register it as pending", func(t *testing.T) {
		registered := kdb.Coi{
			Id: "row-coi-1", CoiId: 8,
			Name: "robotics", Description: "robots of all sizes",
			Status: kdb.Pending, Type: kdb.CoiPublic,
			AverageRating: "0",
			CreatedBy:     "alice@athena.example",
		}

		mckCoi := dbmock.NewCoiInterface()
		mckCoi.Impl.Register = func(ctx context.Context, spec kdb.CoiSpec) (kdb.Coi, error) {
			return registered, nil
		}

		e := echo.New()
		c, resp := httptestutil.Post(
			e, "/api/cois",
			strings.NewReader(`{"coiId": 8, "name": "robotics", "description": "robots of all sizes", "type": "public"}`),
			httptestutil.ContentType("application/json"),
			httptestutil.WithHeader(handlers.PrincipalHeader, "alice@athena.example"),
		)

		testee := handlers.RegisterCoiHandler(mckCoi)
		if err := testee(c); err != nil {
			t.Fatalf("testee returns error unexpectedly: %s", err)
		}

		if mckCoi.Calls.Register.Times() != 1 {
			t.Fatalf("Register should be called once, but %d times", mckCoi.Calls.Register.Times())
		}
		spec := mckCoi.Calls.Register[0]
		if spec.CoiId != 8 || spec.Name != "robotics" || spec.Type != kdb.CoiPublic ||
			spec.CreatedBy != "alice@athena.example" {
			t.Errorf("Register called with unexpected spec: %+v", spec)
		}

		actual := apicois.Detail{}
		if err := json.Unmarshal(resp.Body.Bytes(), &actual); err != nil {
			t.Fatalf("response is not JSON: %s", err)
		}
		if !actual.Equal(apicois.ComposeDetail(registered)) {
			t.Errorf("response mismatch:\n= actual   : %+v\n= expected : %+v", actual, apicois.ComposeDetail(registered))
		}
	})

	t.Run("When the type is unknown, it should respond 400", func(t *testing.T) {
		mckCoi := dbmock.NewCoiInterface()

		e := echo.New()
		c, _ := httptestutil.Post(
			e, "/api/cois",
			strings.NewReader(`{"coiId": 8, "name": "robotics", "type": "secret"}`),
			httptestutil.ContentType("application/json"),
			httptestutil.WithHeader(handlers.PrincipalHeader, "alice@athena.example"),
		)

		testee := handlers.RegisterCoiHandler(mckCoi)
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
		if mckCoi.Calls.Register.Times() != 0 {
			t.Errorf("Register should not be called")
		}
	})
}

func TestJoinCoiHandler(t *testing.T) {

	t.Run("When a member joins, it should add them to the community", func(t *testing.T) {
		mckCoi := dbmock.NewCoiInterface()
		mckCoi.Impl.AddMember = func(ctx context.Context, id string, member kdb.CoiMember) error {
			return nil
		}

		e := echo.New()
		c, resp := httptestutil.Post(
			e, "/api/cois/row-coi-1/members",
			strings.NewReader(`{"userId": 12, "principalName": "bob@athena.example"}`),
			httptestutil.ContentType("application/json"),
			httptestutil.WithHeader(handlers.PrincipalHeader, "bob@athena.example"),
		)
		c.SetParamNames("coiId")
		c.SetParamValues("row-coi-1")

		testee := handlers.JoinCoiHandler(mckCoi, "coiId")
		if err := testee(c); err != nil {
			t.Fatalf("testee returns error unexpectedly: %s", err)
		}

		if resp.Result().StatusCode != http.StatusNoContent {
			t.Errorf("status code should be 204, but %d", resp.Result().StatusCode)
		}
		if mckCoi.Calls.AddMember.Times() != 1 {
			t.Fatalf("AddMember should be called once, but %d times", mckCoi.Calls.AddMember.Times())
		}
		call := mckCoi.Calls.AddMember[0]
		if call.Id != "row-coi-1" || call.Member.UserId != 12 || call.Member.PrincipalName != "bob@athena.example" {
			t.Errorf("AddMember called with unexpected args: %+v", call)
		}
	})

	t.Run("When the body has no principal name, it should fall back to the header principal", func(t *testing.T) {
		mckCoi := dbmock.NewCoiInterface()
		mckCoi.Impl.AddMember = func(ctx context.Context, id string, member kdb.CoiMember) error {
			return nil
		}

		e := echo.New()
		c, _ := httptestutil.Post(
			e, "/api/cois/row-coi-1/members",
			strings.NewReader(`{"userId": 12}`),
			httptestutil.ContentType("application/json"),
			httptestutil.WithHeader(handlers.PrincipalHeader, "bob@athena.example"),
		)
		c.SetParamNames("coiId")
		c.SetParamValues("row-coi-1")

		testee := handlers.JoinCoiHandler(mckCoi, "coiId")
		if err := testee(c); err != nil {
			t.Fatalf("testee returns error unexpectedly: %s", err)
		}

		if mckCoi.Calls.AddMember[0].Member.PrincipalName != "bob@athena.example" {
			t.Errorf("AddMember should use the header principal: %+v", mckCoi.Calls.AddMember[0])
		}
	})

	t.Run("When no community exists for the id, it should respond 404", func(t *testing.T) {
		mckCoi := dbmock.NewCoiInterface()
		mckCoi.Impl.AddMember = func(ctx context.Context, id string, member kdb.CoiMember) error {
			return kdb.ErrMissing
		}

		e := echo.New()
		c, _ := httptestutil.Post(
			e, "/api/cois/no-such-row/members",
			strings.NewReader(`{"userId": 12, "principalName": "bob@athena.example"}`),
			httptestutil.ContentType("application/json"),
			httptestutil.WithHeader(handlers.PrincipalHeader, "bob@athena.example"),
		)
		c.SetParamNames("coiId")
		c.SetParamValues("no-such-row")

		testee := handlers.JoinCoiHandler(mckCoi, "coiId")
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

func TestFindCoiHandler(t *testing.T) {

	t.Run("When query parameters come, it should pass them to the database as a query", func(t *testing.T) {
		mckCoi := dbmock.NewCoiInterface()
		mckCoi.Impl.Find = func(ctx context.Context, query kdb.CoiFindQuery) ([]string, error) {
			return []string{}, nil
		}

		e := echo.New()
		c, _ := httptestutil.Get(e, "/api/cois?status=approved&type=private&q=robot&skip=2&top=10")

		testee := handlers.FindCoiHandler(mckCoi)
		if err := testee(c); err != nil {
			t.Fatalf("testee returns error unexpectedly: %s", err)
		}

		expected := kdb.CoiFindQuery{
			Status: []kdb.RequestStatus{kdb.Approved},
			Type:   kdb.CoiPrivate,
			Search: "robot",
			Skip:   2,
			Top:    10,
		}
		if mckCoi.Calls.Find.Times() != 1 {
			t.Fatalf("Find should be called once, but %d times", mckCoi.Calls.Find.Times())
		}
		if !mckCoi.Calls.Find[0].Equal(expected) {
			t.Errorf("Find called with unexpected query:\n= actual   : %+v\n= expected : %+v", mckCoi.Calls.Find[0], expected)
		}
	})
}

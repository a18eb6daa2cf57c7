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
	apifeedback "github.com/athena-research/athena/pkg/api/types/feedbacks"
	kdb "github.com/athena-research/athena/pkg/db"
	dbmock "github.com/athena-research/athena/pkg/db/mocks"
)

func TestRegisterFeedbackHandler(t *testing.T) {

	t.Run("When feedback is valid, it should register it for the principal", func(t *testing.T) {
		registered := kdb.Feedback{
			Id: "row-fb-1", Rating: 2, Text: "the search is great",
			Category: kdb.FeedbackOnApp, Type: kdb.Suggestion,
			SubmittedBy: "alice@athena.example",
		}
		mckFeedback := dbmock.NewFeedbackInterface()
		mckFeedback.Impl.Register = func(ctx context.Context, feedback kdb.Feedback) (kdb.Feedback, error) {
			return registered, nil
		}

		e := echo.New()
		c, resp := httptestutil.Post(
			e, "/api/feedback",
			strings.NewReader(`{"rating": 2, "text": "the search is great", "category": "app", "type": "suggestion"}`),
			httptestutil.ContentType("application/json"),
			httptestutil.WithHeader(handlers.PrincipalHeader, "alice@athena.example"),
		)

		testee := handlers.RegisterFeedbackHandler(mckFeedback)
		if err := testee(c); err != nil {
			t.Fatalf("testee returns error unexpectedly: %s", err)
		}

		if mckFeedback.Calls.Register.Times() != 1 {
			t.Fatalf("Register should be called once, but %d times", mckFeedback.Calls.Register.Times())
		}
		call := mckFeedback.Calls.Register[0]
		if call.Rating != 2 || call.Category != kdb.FeedbackOnApp ||
			call.Type != kdb.Suggestion || call.SubmittedBy != "alice@athena.example" {
			t.Errorf("Register called with unexpected feedback: %+v", call)
		}

		actual := apifeedback.Detail{}
		if err := json.Unmarshal(resp.Body.Bytes(), &actual); err != nil {
			t.Fatalf("response is not JSON: %s", err)
		}
		if !actual.Equal(apifeedback.ComposeDetail(registered)) {
			t.Errorf("response mismatch:\n= actual   : %+v\n= expected : %+v", actual, apifeedback.ComposeDetail(registered))
		}
	})

	t.Run("When the rating is out of 0..2, it should respond 400", func(t *testing.T) {
		mckFeedback := dbmock.NewFeedbackInterface()

		e := echo.New()
		c, _ := httptestutil.Post(
			e, "/api/feedback",
			strings.NewReader(`{"rating": 5, "text": "too many stars", "category": "app", "type": "other"}`),
			httptestutil.ContentType("application/json"),
			httptestutil.WithHeader(handlers.PrincipalHeader, "alice@athena.example"),
		)

		testee := handlers.RegisterFeedbackHandler(mckFeedback)
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
		if mckFeedback.Calls.Register.Times() != 0 {
			t.Errorf("Register should not be called")
		}
	})

	t.Run("When the category is unknown, it should respond 400", func(t *testing.T) {
		mckFeedback := dbmock.NewFeedbackInterface()

		e := echo.New()
		c, _ := httptestutil.Post(
			e, "/api/feedback",
			strings.NewReader(`{"rating": 1, "text": "hm", "category": "ops", "type": "bug"}`),
			httptestutil.ContentType("application/json"),
			httptestutil.WithHeader(handlers.PrincipalHeader, "alice@athena.example"),
		)

		testee := handlers.RegisterFeedbackHandler(mckFeedback)
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

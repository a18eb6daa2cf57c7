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
	apiingest "github.com/athena-research/athena/pkg/api/types/ingest"
	kdb "github.com/athena-research/athena/pkg/db"
	dbmock "github.com/athena-research/athena/pkg/db/mocks"
	"github.com/athena-research/athena/pkg/utils/cmp"
)

func TestIngestHandler(t *testing.T) {

	t.Run("When users are ingested, it should add unknown ids and update known ones", func(t *testing.T) {
		existing := kdb.User{
			Id: "row-user-1", UserId: 1,
			FirstName: "Alice", LastName: "Austen",
			Email:    "alice@athena.example",
			UserType: kdb.Internal,
		}

		mckCatalog := dbmock.NewCatalogInterface()
		mckCatalog.Impl.ExistingByUserId = func(ctx context.Context, userIds []int) (map[int]kdb.User, error) {
			return map[int]kdb.User{1: existing}, nil
		}
		mckCatalog.Impl.UpsertUsers = func(ctx context.Context, users []kdb.User) error {
			return nil
		}
		mckSync := dbmock.NewSyncInterface()
		mckSync.Impl.Record = func(ctx context.Context, record kdb.SyncRecord) error {
			return nil
		}

		e := echo.New()
		c, resp := httptestutil.Post(
			e, "/api/ingest/users",
			strings.NewReader(`[
				{"userId": 1, "firstName": "Alice", "lastName": "Austen", "email": "alice@athena.example", "notificationFrequency": 1},
				{"userId": 5, "firstName": "Eve", "lastName": "Evans", "email": "eve@athena.example", "notificationFrequency": 0},
				null,
				{"userId": 6, "firstName": "Mallory", "lastName": "Moss", "email": "mallory@athena.example", "otherContact": "call me", "notificationFrequency": 0}
			]`),
			httptestutil.ContentType("application/json"),
			httptestutil.WithHeader(handlers.PrincipalHeader, "sync@athena.example"),
		)
		c.SetParamNames("family")
		c.SetParamValues("users")

		testee := handlers.IngestHandler(
			mckCatalog, dbmock.NewCoiInterface(), dbmock.NewResearchInterface(), mckSync, "family",
		)
		if err := testee(c); err != nil {
			t.Fatalf("testee returns error unexpectedly: %s", err)
		}

		if mckCatalog.Calls.ExistingByUserId.Times() != 1 {
			t.Fatalf("ExistingByUserId should be called once, but %d times", mckCatalog.Calls.ExistingByUserId.Times())
		}
		if !cmp.SliceEq(mckCatalog.Calls.ExistingByUserId[0], []int{1, 5, 6}) {
			t.Errorf("ExistingByUserId called with unexpected ids: %+v", mckCatalog.Calls.ExistingByUserId[0])
		}

		if mckCatalog.Calls.UpsertUsers.Times() != 1 {
			t.Fatalf("UpsertUsers should be called once, but %d times", mckCatalog.Calls.UpsertUsers.Times())
		}
		upserted := mckCatalog.Calls.UpsertUsers[0]
		if len(upserted) != 2 {
			t.Fatalf("2 users should be upserted, but %d: %+v", len(upserted), upserted)
		}
		if upserted[0].Id != "row-user-1" || upserted[0].UserType != kdb.Internal {
			t.Errorf("the update should preserve the row key and user type: %+v", upserted[0])
		}
		if upserted[1].Id == "" || upserted[1].Id == "row-user-1" {
			t.Errorf("the add should generate a fresh row key: %+v", upserted[1])
		}
		if upserted[1].UserType != kdb.External {
			t.Errorf("ingested unknown users should default to external: %+v", upserted[1])
		}

		if mckSync.Calls.Record.Times() != 1 {
			t.Fatalf("Record should be called once, but %d times", mckSync.Calls.Record.Times())
		}
		record := mckSync.Calls.Record[0]
		if record.JobName != "UsersSync" || !record.Succeeded || record.FailureReason != "" {
			t.Errorf("unexpected sync record: %+v", record)
		}

		actual := apiingest.Result{}
		if err := json.Unmarshal(resp.Body.Bytes(), &actual); err != nil {
			t.Fatalf("response is not JSON: %s", err)
		}
		if actual.Family != "users" || actual.Added != 1 || actual.Updated != 1 || actual.Skipped != 2 {
			t.Errorf("unexpected counts: %+v", actual)
		}
		if len(actual.Errors) != 2 {
			t.Errorf("each skipped item should carry a message: %+v", actual.Errors)
		}
	})

	t.Run("When keywords are ingested, it should match existing terms by business id", func(t *testing.T) {
		mckCatalog := dbmock.NewCatalogInterface()
		mckCatalog.Impl.Keywords = func(ctx context.Context) ([]kdb.Keyword, error) {
			return []kdb.Keyword{
				{Id: "row-kw-7", KeywordId: 7, Title: "quantum"},
			}, nil
		}
		mckCatalog.Impl.UpsertKeywords = func(ctx context.Context, keywords []kdb.Keyword) error {
			return nil
		}
		mckSync := dbmock.NewSyncInterface()
		mckSync.Impl.Record = func(ctx context.Context, record kdb.SyncRecord) error {
			return nil
		}

		e := echo.New()
		c, resp := httptestutil.Post(
			e, "/api/ingest/keywords",
			strings.NewReader(`[
				{"keywordId": 7, "title": "quantum computing", "parentNode": 0},
				{"keywordId": 9, "title": "sensing", "parentNode": 7}
			]`),
			httptestutil.ContentType("application/json"),
			httptestutil.WithHeader(handlers.PrincipalHeader, "sync@athena.example"),
		)
		c.SetParamNames("family")
		c.SetParamValues("keywords")

		testee := handlers.IngestHandler(
			mckCatalog, dbmock.NewCoiInterface(), dbmock.NewResearchInterface(), mckSync, "family",
		)
		if err := testee(c); err != nil {
			t.Fatalf("testee returns error unexpectedly: %s", err)
		}

		if mckCatalog.Calls.UpsertKeywords.Times() != 1 {
			t.Fatalf("UpsertKeywords should be called once, but %d times", mckCatalog.Calls.UpsertKeywords.Times())
		}
		upserted := mckCatalog.Calls.UpsertKeywords[0]
		if len(upserted) != 2 {
			t.Fatalf("2 keywords should be upserted, but %d", len(upserted))
		}
		if upserted[0].Id != "row-kw-7" || upserted[0].Title != "quantum computing" {
			t.Errorf("the known term should keep its row key and take the new title: %+v", upserted[0])
		}

		actual := apiingest.Result{}
		if err := json.Unmarshal(resp.Body.Bytes(), &actual); err != nil {
			t.Fatalf("response is not JSON: %s", err)
		}
		if actual.Added != 1 || actual.Updated != 1 || actual.Skipped != 0 {
			t.Errorf("unexpected counts: %+v", actual)
		}
	})

	t.Run("When the family is unknown, it should respond 404 without recording a run", func(t *testing.T) {
		mckSync := dbmock.NewSyncInterface()

		e := echo.New()
		c, _ := httptestutil.Post(
			e, "/api/ingest/plans",
			strings.NewReader(`[]`),
			httptestutil.ContentType("application/json"),
			httptestutil.WithHeader(handlers.PrincipalHeader, "sync@athena.example"),
		)
		c.SetParamNames("family")
		c.SetParamValues("plans")

		testee := handlers.IngestHandler(
			dbmock.NewCatalogInterface(), dbmock.NewCoiInterface(), dbmock.NewResearchInterface(), mckSync, "family",
		)
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
		if mckSync.Calls.Record.Times() != 0 {
			t.Errorf("Record should not be called")
		}
	})

	t.Run("When the body is not a JSON array, it should record a failed run and respond 400", func(t *testing.T) {
		mckSync := dbmock.NewSyncInterface()
		mckSync.Impl.Record = func(ctx context.Context, record kdb.SyncRecord) error {
			return nil
		}

		e := echo.New()
		c, _ := httptestutil.Post(
			e, "/api/ingest/users",
			strings.NewReader(`{"userId": 1}`),
			httptestutil.ContentType("application/json"),
			httptestutil.WithHeader(handlers.PrincipalHeader, "sync@athena.example"),
		)
		c.SetParamNames("family")
		c.SetParamValues("users")

		testee := handlers.IngestHandler(
			dbmock.NewCatalogInterface(), dbmock.NewCoiInterface(), dbmock.NewResearchInterface(), mckSync, "family",
		)
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

		if mckSync.Calls.Record.Times() != 1 {
			t.Fatalf("Record should be called once, but %d times", mckSync.Calls.Record.Times())
		}
		record := mckSync.Calls.Record[0]
		if record.Succeeded || record.FailureReason == "" {
			t.Errorf("the failed run should be recorded with its reason: %+v", record)
		}
	})
}

func TestGetSyncRecordHandler(t *testing.T) {

	t.Run("When the job has run, it should respond its record", func(t *testing.T) {
		record := kdb.SyncRecord{
			JobName:   "UsersSync",
			LastRunAt: time.Date(2023, 4, 1, 3, 0, 0, 0, time.UTC),
			Succeeded: true,
		}
		mckSync := dbmock.NewSyncInterface()
		mckSync.Impl.Get = func(ctx context.Context, jobName string) (kdb.SyncRecord, error) {
			return record, nil
		}

		e := echo.New()
		c, resp := httptestutil.Get(e, "/api/sync/UsersSync")
		c.SetParamNames("job")
		c.SetParamValues("UsersSync")

		testee := handlers.GetSyncRecordHandler(mckSync, "job")
		if err := testee(c); err != nil {
			t.Fatalf("testee returns error unexpectedly: %s", err)
		}

		actual := apiingest.SyncStatus{}
		if err := json.Unmarshal(resp.Body.Bytes(), &actual); err != nil {
			t.Fatalf("response is not JSON: %s", err)
		}
		if !actual.Equal(apiingest.ComposeSyncStatus(record)) {
			t.Errorf("response mismatch:\n= actual   : %+v\n= expected : %+v", actual, apiingest.ComposeSyncStatus(record))
		}
	})

	t.Run("When the job never ran, it should respond 404", func(t *testing.T) {
		mckSync := dbmock.NewSyncInterface()
		mckSync.Impl.Get = func(ctx context.Context, jobName string) (kdb.SyncRecord, error) {
			return kdb.SyncRecord{}, kdb.ErrMissing
		}

		e := echo.New()
		c, _ := httptestutil.Get(e, "/api/sync/NeverSync")
		c.SetParamNames("job")
		c.SetParamValues("NeverSync")

		testee := handlers.GetSyncRecordHandler(mckSync, "job")
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

package provision_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	kdb "github.com/athena-research/athena/pkg/db"
	"github.com/athena-research/athena/pkg/provision"
)

func TestClient_Provision(t *testing.T) {

	t.Run("it posts the coi and returns the created team", func(t *testing.T) {
		var gotPayload map[string]interface{}
		var gotContentType string
		svr := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotContentType = r.Header.Get("Content-Type")
			if err := json.NewDecoder(r.Body).Decode(&gotPayload); err != nil {
				t.Errorf("request body is not json: %v", err)
			}
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"teamId": "team-42", "groupLink": "https://teams.example/team-42"}`))
		}))
		defer svr.Close()

		testee := provision.New(svr.URL, svr.Client())
		teamId, groupLink, err := testee.Provision(context.Background(), kdb.Coi{
			CoiId:       42,
			Name:        "quantum sensing",
			Description: "working group for quantum sensing research",
		})

		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if teamId != "team-42" {
			t.Errorf("teamId: got %s, expected %s", teamId, "team-42")
		}
		if groupLink != "https://teams.example/team-42" {
			t.Errorf("groupLink: got %s, expected %s", groupLink, "https://teams.example/team-42")
		}
		if gotContentType != "application/json" {
			t.Errorf("content type: got %s, expected application/json", gotContentType)
		}
		if gotPayload["coiId"] != float64(42) || gotPayload["name"] != "quantum sensing" {
			t.Errorf("unexpected request payload: %+v", gotPayload)
		}
	})

	t.Run("it fails when the endpoint responds with an error status", func(t *testing.T) {
		svr := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "quota exceeded", http.StatusConflict)
		}))
		defer svr.Close()

		testee := provision.New(svr.URL, svr.Client())
		_, _, err := testee.Provision(context.Background(), kdb.Coi{CoiId: 7, Name: "x"})

		if err == nil {
			t.Fatal("error is expected, but not")
		}
	})

	t.Run("it fails when the endpoint returns no teamId", func(t *testing.T) {
		svr := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"groupLink": "https://teams.example/anonymous"}`))
		}))
		defer svr.Close()

		testee := provision.New(svr.URL, svr.Client())
		_, _, err := testee.Provision(context.Background(), kdb.Coi{CoiId: 7, Name: "x"})

		if err == nil {
			t.Fatal("error is expected, but not")
		}
	})
}

func TestNull(t *testing.T) {
	t.Run("it always fails with ErrNotConfigured", func(t *testing.T) {
		testee := provision.Null()
		_, _, err := testee.Provision(context.Background(), kdb.Coi{CoiId: 1})
		if !errors.Is(err, provision.ErrNotConfigured) {
			t.Errorf("got %v, expected ErrNotConfigured", err)
		}
	})
}

package provision

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	kdb "github.com/athena-research/athena/pkg/db"
)

// ErrNotConfigured is returned by the null provisioner. Approvals still
// commit; the missing team is picked up once an endpoint is configured.
var ErrNotConfigured = errors.New("team provisioning is not configured")

type request struct {
	CoiId       int    `json:"coiId"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type response struct {
	TeamId    string `json:"teamId"`
	GroupLink string `json:"groupLink"`
}

// Client asks an external provisioning endpoint to create the Teams
// resources backing an approved community of interest.
type Client struct {
	endpoint   string
	httpclient *http.Client
}

func New(endpoint string, httpclient *http.Client) *Client {
	if httpclient == nil {
		httpclient = http.DefaultClient
	}
	return &Client{endpoint: endpoint, httpclient: httpclient}
}

func (c *Client) Provision(ctx context.Context, coi kdb.Coi) (string, string, error) {
	b, err := json.Marshal(request{
		CoiId:       coi.CoiId,
		Name:        coi.Name,
		Description: coi.Description,
	})
	if err != nil {
		return "", "", err
	}

	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost, c.endpoint, bytes.NewBuffer(b),
	)
	if err != nil {
		return "", "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpclient.Do(req)
	if err != nil {
		return "", "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || 300 <= resp.StatusCode {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", "", fmt.Errorf(
			"provisioner rejected coi %d (status code = %d): %s",
			coi.CoiId, resp.StatusCode, string(msg),
		)
	}

	var payload response
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", "", err
	}
	if payload.TeamId == "" {
		return "", "", fmt.Errorf("provisioner returned no teamId for coi %d", coi.CoiId)
	}

	return payload.TeamId, payload.GroupLink, nil
}

type nullProvisioner struct{}

// Null returns a provisioner which always fails with ErrNotConfigured.
func Null() nullProvisioner {
	return nullProvisioner{}
}

func (nullProvisioner) Provision(context.Context, kdb.Coi) (string, string, error) {
	return "", "", ErrNotConfigured
}

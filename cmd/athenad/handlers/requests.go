package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	apierr "github.com/athena-research/athena/pkg/api/types/errors"
	apireq "github.com/athena-research/athena/pkg/api/types/requests"
	kdb "github.com/athena-research/athena/pkg/db"
)

// Provisioner creates the Teams-side team and group of a freshly approved
// community and reports the linkage to be recorded.
type Provisioner interface {
	Provision(ctx context.Context, coi kdb.Coi) (teamId string, groupLink string, err error)
}

func FindRequestsHandler(dbRequest kdb.RequestInterface) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		paramMap := c.QueryParams()

		kinds := make([]kdb.RequestKind, 0, len(paramMap["kind"]))
		for _, k := range paramMap["kind"] {
			kind, err := kdb.AsRequestKind(k)
			if err != nil {
				return apierr.BadRequest(err.Error(), err)
			}
			kinds = append(kinds, kind)
		}
		statuses, err := queryParamToStatuses(paramMap["status"])
		if err != nil {
			return apierr.BadRequest(err.Error(), err)
		}
		sort := kdb.SortByCreatedAt
		if s := c.QueryParam("sort"); s != "" {
			sort, err = kdb.AsRequestSortKey(s)
			if err != nil {
				return apierr.BadRequest(err.Error(), err)
			}
		}
		desc := false
		if d := c.QueryParam("desc"); d != "" {
			desc, err = strconv.ParseBool(d)
			if err != nil {
				return apierr.BadRequest(`query parameter "desc" should be a boolean`, err)
			}
		}
		skip, top, err := paging(c)
		if err != nil {
			return apierr.BadRequest(err.Error(), err)
		}

		summaries, err := dbRequest.Find(ctx, kdb.RequestFindQuery{
			Kind:   kinds,
			Status: statuses,
			Search: c.QueryParam("q"),
			Sort:   sort,
			Desc:   desc,
			Skip:   skip,
			Top:    top,
		})
		if err != nil {
			return apierr.InternalServerError(err)
		}

		found := make([]apireq.Summary, 0, len(summaries))
		for _, s := range summaries {
			found = append(found, apireq.ComposeSummary(s))
		}

		return c.JSON(http.StatusOK, found)
	}
}

func ApproveRequestsHandler(
	dbRequest kdb.RequestInterface,
	dbCoi kdb.CoiInterface,
	provisioner Provisioner,
	logger *log.Logger,
) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		if _, err := principalOf(c); err != nil {
			return err
		}

		req := apireq.ApproveRequest{}
		decoder := json.NewDecoder(c.Request().Body)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&req); err != nil {
			return apierr.NewErrorMessage(
				http.StatusBadRequest,
				"format error",
				apierr.WithAdvice(err.Error()),
				apierr.WithError(err),
			)
		}
		kind, err := kdb.AsRequestKind(req.Kind)
		if err != nil {
			return apierr.BadRequest(err.Error(), err)
		}
		if len(req.Ids) == 0 {
			return apierr.BadRequest("ids are required", nil)
		}

		decisions, err := dbRequest.Approve(
			ctx, kind, req.Ids, kdb.ApproveOption{IsImportant: req.IsImportant},
		)
		if err != nil {
			return apierr.InternalServerError(err)
		}

		if kind == kdb.KindCoi {
			provisionApproved(ctx, dbCoi, provisioner, logger, decisions)
		}

		return c.JSON(http.StatusOK, apireq.ComposeResult(decisions))
	}
}

// provisionApproved creates the Teams linkage of each transitioned community.
//
// The approval is already committed; a provisioning failure is logged and
// left for a later retry, never rolled back.
func provisionApproved(
	ctx context.Context,
	dbCoi kdb.CoiInterface,
	provisioner Provisioner,
	logger *log.Logger,
	decisions []kdb.Decision,
) {
	transitioned := []string{}
	for _, d := range decisions {
		if d.Outcome == kdb.Transitioned {
			transitioned = append(transitioned, d.Id)
		}
	}
	if len(transitioned) == 0 {
		return
	}

	cois, err := dbCoi.Get(ctx, transitioned)
	if err != nil {
		logger.Printf("failed to load approved communities for provisioning: %s", err)
		return
	}

	for _, id := range transitioned {
		coi, ok := cois[id]
		if !ok {
			continue
		}
		teamId, groupLink, err := provisioner.Provision(ctx, coi)
		if err != nil {
			logger.Printf("failed to provision team for community %s: %s", id, err)
			continue
		}
		if err := dbCoi.SetTeam(ctx, id, teamId, groupLink); err != nil {
			logger.Printf("failed to record team linkage of community %s: %s", id, err)
		}
	}
}

func RejectRequestsHandler(dbRequest kdb.RequestInterface) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		if _, err := principalOf(c); err != nil {
			return err
		}

		req := apireq.RejectRequest{}
		decoder := json.NewDecoder(c.Request().Body)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&req); err != nil {
			return apierr.NewErrorMessage(
				http.StatusBadRequest,
				"format error",
				apierr.WithAdvice(err.Error()),
				apierr.WithError(err),
			)
		}
		kind, err := kdb.AsRequestKind(req.Kind)
		if err != nil {
			return apierr.BadRequest(err.Error(), err)
		}
		if len(req.Ids) == 0 {
			return apierr.BadRequest("ids are required", nil)
		}
		if strings.TrimSpace(req.Comment) == "" {
			return apierr.BadRequest("comment is required to reject", nil)
		}

		decisions, err := dbRequest.Reject(ctx, kind, req.Ids, req.Comment)
		if err != nil {
			return apierr.InternalServerError(err)
		}

		return c.JSON(http.StatusOK, apireq.ComposeResult(decisions))
	}
}

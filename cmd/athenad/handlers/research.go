package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	apierr "github.com/athena-research/athena/pkg/api/types/errors"
	apiresearch "github.com/athena-research/athena/pkg/api/types/research"
	kdb "github.com/athena-research/athena/pkg/db"
)

func FindResearchHandler(dbResearch kdb.ResearchInterface) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		paramMap := c.QueryParams()

		kinds := make([]kdb.ResearchKind, 0, len(paramMap["kind"]))
		for _, k := range paramMap["kind"] {
			kind, err := kdb.AsResearchKind(k)
			if err != nil {
				return apierr.BadRequest(err.Error(), err)
			}
			kinds = append(kinds, kind)
		}
		statuses := make([]kdb.ResearchStatus, 0, len(paramMap["status"]))
		for _, s := range paramMap["status"] {
			status, err := kdb.AsResearchStatus(s)
			if err != nil {
				return apierr.BadRequest(err.Error(), err)
			}
			statuses = append(statuses, status)
		}
		keywordIds, err := queryParamToInts("keyword", paramMap["keyword"])
		if err != nil {
			return apierr.BadRequest(err.Error(), err)
		}
		skip, top, err := paging(c)
		if err != nil {
			return apierr.BadRequest(err.Error(), err)
		}

		ids, err := dbResearch.Find(ctx, kdb.ResearchFindQuery{
			Kind:      kinds,
			Status:    statuses,
			KeywordId: keywordIds,
			Search:    c.QueryParam("q"),
			Skip:      skip,
			Top:       top,
		})
		if err != nil {
			return apierr.InternalServerError(err)
		}
		if len(ids) == 0 {
			return c.JSON(http.StatusOK, []apiresearch.Detail{})
		}

		artifacts, err := dbResearch.Get(ctx, ids)
		if err != nil {
			return apierr.InternalServerError(err)
		}

		found := make([]apiresearch.Detail, 0, len(artifacts))
		for _, id := range ids {
			if a, ok := artifacts[id]; ok {
				found = append(found, apiresearch.ComposeDetail(a))
			}
		}

		return c.JSON(http.StatusOK, found)
	}
}

func GetResearchHandler(dbResearch kdb.ResearchInterface, paramKey string) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		id := c.Param(paramKey)

		artifacts, err := dbResearch.Get(ctx, []string{id})
		if err != nil {
			return apierr.InternalServerError(err)
		}
		a, ok := artifacts[id]
		if !ok {
			return apierr.NotFound()
		}

		return c.JSON(http.StatusOK, apiresearch.ComposeDetail(a))
	}
}

func RateResearchHandler(dbResearch kdb.ResearchInterface, paramKey string) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		id := c.Param(paramKey)

		rating := apiresearch.Rating{}
		decoder := json.NewDecoder(c.Request().Body)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&rating); err != nil {
			return apierr.NewErrorMessage(
				http.StatusBadRequest,
				"format error",
				apierr.WithAdvice(err.Error()),
				apierr.WithError(err),
			)
		}
		if !validStars(rating.Stars) {
			return apierr.BadRequest("stars should be in 0..5", nil)
		}

		if err := dbResearch.AddRating(ctx, id, rating.Stars); err != nil {
			if errors.Is(err, kdb.ErrMissing) {
				return apierr.NotFound()
			}
			return apierr.InternalServerError(err)
		}

		return c.NoContent(http.StatusNoContent)
	}
}

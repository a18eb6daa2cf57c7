package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	apicois "github.com/athena-research/athena/pkg/api/types/cois"
	apierr "github.com/athena-research/athena/pkg/api/types/errors"
	kdb "github.com/athena-research/athena/pkg/db"
)

func RegisterCoiHandler(dbCoi kdb.CoiInterface) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		createdBy, err := principalOf(c)
		if err != nil {
			return err
		}

		spec := apicois.Spec{}
		decoder := json.NewDecoder(c.Request().Body)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&spec); err != nil {
			return apierr.NewErrorMessage(
				http.StatusBadRequest,
				"format error",
				apierr.WithAdvice(err.Error()),
				apierr.WithError(err),
			)
		}
		if spec.Name == "" {
			return apierr.BadRequest("name is required", nil)
		}
		coiType, err := kdb.AsCoiType(spec.Type)
		if err != nil {
			return apierr.BadRequest(`type should be "public" or "private"`, err)
		}

		registered, err := dbCoi.Register(ctx, kdb.CoiSpec{
			CoiId:       spec.CoiId,
			Name:        spec.Name,
			Description: spec.Description,
			Type:        coiType,

			SearchQuery:     spec.SearchQuery,
			IncludeInSearch: spec.IncludeInSearch,

			Keywords:     spec.Keywords,
			KeywordsText: spec.KeywordsText,

			CreatedBy: createdBy,
		})
		if err != nil {
			if errors.Is(err, kdb.ErrConflict) {
				return apierr.Conflict("community is already catalogued", apierr.WithError(err))
			}
			return apierr.InternalServerError(err)
		}

		return c.JSON(http.StatusOK, apicois.ComposeDetail(registered))
	}
}

func FindCoiHandler(dbCoi kdb.CoiInterface) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		statuses, err := queryParamToStatuses(c.QueryParams()["status"])
		if err != nil {
			return apierr.BadRequest(err.Error(), err)
		}
		var coiType kdb.CoiType
		if t := c.QueryParam("type"); t != "" {
			coiType, err = kdb.AsCoiType(t)
			if err != nil {
				return apierr.BadRequest(`query parameter "type" should be "public" or "private"`, err)
			}
		}
		skip, top, err := paging(c)
		if err != nil {
			return apierr.BadRequest(err.Error(), err)
		}

		ids, err := dbCoi.Find(ctx, kdb.CoiFindQuery{
			Status: statuses,
			Type:   coiType,
			Search: c.QueryParam("q"),
			Skip:   skip,
			Top:    top,
		})
		if err != nil {
			return apierr.InternalServerError(err)
		}
		if len(ids) == 0 {
			return c.JSON(http.StatusOK, []apicois.Detail{})
		}

		cois, err := dbCoi.Get(ctx, ids)
		if err != nil {
			return apierr.InternalServerError(err)
		}

		found := make([]apicois.Detail, 0, len(cois))
		for _, id := range ids {
			if coi, ok := cois[id]; ok {
				found = append(found, apicois.ComposeDetail(coi))
			}
		}

		return c.JSON(http.StatusOK, found)
	}
}

func GetCoiHandler(dbCoi kdb.CoiInterface, paramKey string) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		coiId := c.Param(paramKey)

		cois, err := dbCoi.Get(ctx, []string{coiId})
		if err != nil {
			return apierr.InternalServerError(err)
		}
		coi, ok := cois[coiId]
		if !ok {
			return apierr.NotFound()
		}

		return c.JSON(http.StatusOK, apicois.ComposeDetail(coi))
	}
}

func JoinCoiHandler(dbCoi kdb.CoiInterface, paramKey string) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		coiId := c.Param(paramKey)

		principal, err := principalOf(c)
		if err != nil {
			return err
		}

		join := apicois.JoinRequest{}
		decoder := json.NewDecoder(c.Request().Body)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&join); err != nil {
			return apierr.NewErrorMessage(
				http.StatusBadRequest,
				"format error",
				apierr.WithAdvice(err.Error()),
				apierr.WithError(err),
			)
		}
		if join.PrincipalName == "" {
			join.PrincipalName = principal
		}

		err = dbCoi.AddMember(ctx, coiId, kdb.CoiMember{
			UserId:        join.UserId,
			PrincipalName: join.PrincipalName,
		})
		if err != nil {
			if errors.Is(err, kdb.ErrMissing) {
				return apierr.NotFound()
			}
			return apierr.InternalServerError(err)
		}

		return c.NoContent(http.StatusNoContent)
	}
}

func RateCoiHandler(dbCoi kdb.CoiInterface, paramKey string) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		coiId := c.Param(paramKey)

		rating := apicois.Rating{}
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

		if err := dbCoi.AddRating(ctx, coiId, rating.Stars); err != nil {
			if errors.Is(err, kdb.ErrMissing) {
				return apierr.NotFound()
			}
			return apierr.InternalServerError(err)
		}

		return c.NoContent(http.StatusNoContent)
	}
}

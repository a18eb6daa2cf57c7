package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	apierr "github.com/athena-research/athena/pkg/api/types/errors"
	apinews "github.com/athena-research/athena/pkg/api/types/news"
	kdb "github.com/athena-research/athena/pkg/db"
)

func RegisterNewsHandler(dbNews kdb.NewsInterface) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		createdBy, err := principalOf(c)
		if err != nil {
			return err
		}

		spec := apinews.Spec{}
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
		if spec.Title == "" {
			return apierr.BadRequest("title is required", nil)
		}

		registered, err := dbNews.Register(ctx, kdb.NewsSpec{
			NewsId:       spec.NewsId,
			Title:        spec.Title,
			Abstract:     spec.Abstract,
			Body:         spec.Body,
			ExternalLink: spec.ExternalLink,
			ImageURL:     spec.ImageURL,
			IsImportant:  spec.IsImportant,
			Keywords:     spec.Keywords,
			KeywordsText: spec.KeywordsText,

			SecurityLevel: spec.SecurityLevel,
			NodeTypeId:    spec.NodeTypeId,
			NewsSourceId:  spec.NewsSourceId,
			SubmitterId:   spec.SubmitterId,

			CreatedBy: createdBy,
		})
		if err != nil {
			if errors.Is(err, kdb.ErrConflict) {
				return apierr.Conflict("news is already catalogued", apierr.WithError(err))
			}
			return apierr.InternalServerError(err)
		}

		return c.JSON(http.StatusOK, apinews.ComposeDetail(registered))
	}
}

func FindNewsHandler(dbNews kdb.NewsInterface) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		paramMap := c.QueryParams()

		keywordIds, err := queryParamToInts("keyword", paramMap["keyword"])
		if err != nil {
			return apierr.BadRequest(err.Error(), err)
		}
		statuses, err := queryParamToStatuses(paramMap["status"])
		if err != nil {
			return apierr.BadRequest(err.Error(), err)
		}
		var important *bool
		if p := c.QueryParam("important"); p != "" {
			b, err := strconv.ParseBool(p)
			if err != nil {
				return apierr.BadRequest(`query parameter "important" should be a boolean`, err)
			}
			important = &b
		}
		skip, top, err := paging(c)
		if err != nil {
			return apierr.BadRequest(err.Error(), err)
		}

		ids, err := dbNews.Find(ctx, kdb.NewsFindQuery{
			KeywordId: keywordIds,
			Status:    statuses,
			Important: important,
			Search:    c.QueryParam("q"),
			Skip:      skip,
			Top:       top,
		})
		if err != nil {
			return apierr.InternalServerError(err)
		}
		if len(ids) == 0 {
			return c.JSON(http.StatusOK, []apinews.Detail{})
		}

		news, err := dbNews.Get(ctx, ids)
		if err != nil {
			return apierr.InternalServerError(err)
		}

		found := make([]apinews.Detail, 0, len(news))
		for _, id := range ids {
			if n, ok := news[id]; ok {
				found = append(found, apinews.ComposeDetail(n))
			}
		}

		return c.JSON(http.StatusOK, found)
	}
}

func GetNewsHandler(dbNews kdb.NewsInterface, paramKey string) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		newsId := c.Param(paramKey)

		news, err := dbNews.Get(ctx, []string{newsId})
		if err != nil {
			return apierr.InternalServerError(err)
		}
		n, ok := news[newsId]
		if !ok {
			return apierr.NotFound()
		}

		return c.JSON(http.StatusOK, apinews.ComposeDetail(n))
	}
}

func RateNewsHandler(dbNews kdb.NewsInterface, paramKey string) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		newsId := c.Param(paramKey)

		rating := apinews.Rating{}
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

		if err := dbNews.AddRating(ctx, newsId, rating.Stars); err != nil {
			if errors.Is(err, kdb.ErrMissing) {
				return apierr.NotFound()
			}
			return apierr.InternalServerError(err)
		}

		return c.NoContent(http.StatusNoContent)
	}
}

func DeleteNewsHandler(dbNews kdb.NewsInterface, paramKey string) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		newsId := c.Param(paramKey)

		if _, err := principalOf(c); err != nil {
			return err
		}

		if err := dbNews.SoftDelete(ctx, newsId); err != nil {
			if errors.Is(err, kdb.ErrMissing) {
				return apierr.NotFound()
			}
			return apierr.InternalServerError(err)
		}

		return c.NoContent(http.StatusNoContent)
	}
}

package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	apicatalog "github.com/athena-research/athena/pkg/api/types/catalog"
	apierr "github.com/athena-research/athena/pkg/api/types/errors"
	kdb "github.com/athena-research/athena/pkg/db"
)

func FindCatalogEntriesHandler(dbCatalog kdb.CatalogInterface, paramKey string) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		family, err := kdb.AsDirectoryFamily(c.Param(paramKey))
		if err != nil {
			return apierr.NotFound()
		}
		keywordIds, err := queryParamToInts("keyword", c.QueryParams()["keyword"])
		if err != nil {
			return apierr.BadRequest(err.Error(), err)
		}
		orderBy := c.QueryParam("orderBy")
		switch orderBy {
		case "", "title", "entryId", "updatedAt":
			// ok
		default:
			return apierr.BadRequest(`query parameter "orderBy" should be one of: title, entryId, updatedAt`, nil)
		}
		desc := c.QueryParam("desc") == "true"
		skip, top, err := paging(c)
		if err != nil {
			return apierr.BadRequest(err.Error(), err)
		}

		entries, err := dbCatalog.FindEntries(ctx, kdb.DirectoryFindQuery{
			Family:    family,
			KeywordId: keywordIds,
			Search:    c.QueryParam("q"),
			OrderBy:   orderBy,
			Desc:      desc,
			Skip:      skip,
			Top:       top,
		})
		if err != nil {
			return apierr.InternalServerError(err)
		}

		found := make([]apicatalog.EntryDetail, 0, len(entries))
		for _, e := range entries {
			found = append(found, apicatalog.ComposeEntryDetail(e))
		}

		return c.JSON(http.StatusOK, found)
	}
}

func GetKeywordsHandler(dbCatalog kdb.CatalogInterface) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		keywords, err := dbCatalog.Keywords(ctx)
		if err != nil {
			return apierr.InternalServerError(err)
		}

		found := make([]apicatalog.KeywordDetail, 0, len(keywords))
		for _, k := range keywords {
			found = append(found, apicatalog.ComposeKeywordDetail(k))
		}

		return c.JSON(http.StatusOK, found)
	}
}

func GetUserHandler(dbCatalog kdb.CatalogInterface, paramKey string) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		userId := c.Param(paramKey)

		user, err := dbCatalog.GetUser(ctx, userId)
		if err != nil {
			if errors.Is(err, kdb.ErrMissing) {
				return apierr.NotFound()
			}
			return apierr.InternalServerError(err)
		}

		return c.JSON(http.StatusOK, apicatalog.ComposeUserDetail(user))
	}
}

func FindUsersHandler(dbCatalog kdb.CatalogInterface) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		skip, top, err := paging(c)
		if err != nil {
			return apierr.BadRequest(err.Error(), err)
		}

		users, err := dbCatalog.FindUsers(ctx, c.QueryParam("q"), skip, top)
		if err != nil {
			return apierr.InternalServerError(err)
		}

		found := make([]apicatalog.UserDetail, 0, len(users))
		for _, u := range users {
			found = append(found, apicatalog.ComposeUserDetail(u))
		}

		return c.JSON(http.StatusOK, found)
	}
}

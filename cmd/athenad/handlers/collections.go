package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	apicollections "github.com/athena-research/athena/pkg/api/types/collections"
	apierr "github.com/athena-research/athena/pkg/api/types/errors"
	kdb "github.com/athena-research/athena/pkg/db"
)

func RegisterCollectionHandler(dbCollection kdb.CollectionInterface) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		owner, err := principalOf(c)
		if err != nil {
			return err
		}

		spec := apicollections.Spec{}
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

		registered, err := dbCollection.Register(
			ctx, spec.Name, owner, itemsOf(spec.Items),
		)
		if err != nil {
			return apierr.InternalServerError(err)
		}

		return c.JSON(http.StatusOK, apicollections.ComposeDetail(registered))
	}
}

func FindCollectionsHandler(dbCollection kdb.CollectionInterface) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		owner, err := principalOf(c)
		if err != nil {
			return err
		}

		collections, err := dbCollection.FindByOwner(ctx, owner)
		if err != nil {
			return apierr.InternalServerError(err)
		}

		found := make([]apicollections.Detail, 0, len(collections))
		for _, col := range collections {
			found = append(found, apicollections.ComposeDetail(col))
		}

		return c.JSON(http.StatusOK, found)
	}
}

func AddCollectionItemsHandler(dbCollection kdb.CollectionInterface, paramKey string) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		collectionId := c.Param(paramKey)

		if _, err := principalOf(c); err != nil {
			return err
		}

		req := apicollections.AddItemsRequest{}
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
		if len(req.Items) == 0 {
			return apierr.BadRequest("items are required", nil)
		}

		if err := dbCollection.AddItems(ctx, collectionId, itemsOf(req.Items)); err != nil {
			if errors.Is(err, kdb.ErrMissing) {
				return apierr.NotFound()
			}
			return apierr.InternalServerError(err)
		}

		return c.NoContent(http.StatusNoContent)
	}
}

func itemsOf(items []apicollections.Item) []kdb.CollectionItem {
	converted := make([]kdb.CollectionItem, len(items))
	for nth, i := range items {
		converted[nth] = kdb.CollectionItem{ItemId: i.ItemId, ItemKind: i.ItemKind}
	}
	return converted
}

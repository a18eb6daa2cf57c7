package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/labstack/echo/v4"

	apierr "github.com/athena-research/athena/pkg/api/types/errors"
	apihome "github.com/athena-research/athena/pkg/api/types/home"
	kdb "github.com/athena-research/athena/pkg/db"
)

func GetHomeHandler(dbHome kdb.HomeInterface) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		conf, bar, err := dbHome.Get(ctx)
		if err != nil {
			return apierr.InternalServerError(err)
		}

		return c.JSON(http.StatusOK, apihome.ComposeView(conf, bar))
	}
}

func PutHomeHandler(dbHome kdb.HomeInterface) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		updatedBy, err := principalOf(c)
		if err != nil {
			return err
		}

		req := apihome.UpdateRequest{}
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

		err = dbHome.Set(
			ctx,
			kdb.HomeConfiguration{
				Title:       req.Configuration.Title,
				Description: req.Configuration.Description,
				Link:        req.Configuration.Link,
				UpdatedBy:   updatedBy,
			},
			kdb.HomeStatusBar{
				Message:  req.StatusBar.Message,
				LinkText: req.StatusBar.LinkText,
				IsActive: req.StatusBar.IsActive,
			},
		)
		if err != nil {
			return apierr.InternalServerError(err)
		}

		conf, bar, err := dbHome.Get(ctx)
		if err != nil {
			return apierr.InternalServerError(err)
		}

		return c.JSON(http.StatusOK, apihome.ComposeView(conf, bar))
	}
}

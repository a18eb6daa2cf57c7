package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/labstack/echo/v4"

	apierr "github.com/athena-research/athena/pkg/api/types/errors"
	apifeedback "github.com/athena-research/athena/pkg/api/types/feedbacks"
	kdb "github.com/athena-research/athena/pkg/db"
)

func RegisterFeedbackHandler(dbFeedback kdb.FeedbackInterface) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		submittedBy, err := principalOf(c)
		if err != nil {
			return err
		}

		spec := apifeedback.Spec{}
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
		category, err := kdb.AsFeedbackCategory(spec.Category)
		if err != nil {
			return apierr.BadRequest(err.Error(), err)
		}
		feedbackType, err := kdb.AsFeedbackType(spec.Type)
		if err != nil {
			return apierr.BadRequest(err.Error(), err)
		}
		if spec.Rating < 0 || kdb.MaxFeedbackRating < spec.Rating {
			return apierr.BadRequest("rating should be in 0..2", nil)
		}

		registered, err := dbFeedback.Register(ctx, kdb.Feedback{
			Rating:      spec.Rating,
			Text:        spec.Text,
			Category:    category,
			Type:        feedbackType,
			SubmittedBy: submittedBy,
		})
		if err != nil {
			return apierr.InternalServerError(err)
		}

		return c.JSON(http.StatusOK, apifeedback.ComposeDetail(registered))
	}
}

func FindFeedbackHandler(dbFeedback kdb.FeedbackInterface) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		feedbacks, err := dbFeedback.Find(ctx)
		if err != nil {
			return apierr.InternalServerError(err)
		}

		found := make([]apifeedback.Detail, 0, len(feedbacks))
		for _, f := range feedbacks {
			found = append(found, apifeedback.ComposeDetail(f))
		}

		return c.JSON(http.StatusOK, found)
	}
}

package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	apierr "github.com/athena-research/athena/pkg/api/types/errors"
	kdb "github.com/athena-research/athena/pkg/db"
)

// PrincipalHeader carries the caller identity, set by the gateway in front of
// this daemon. No authentication happens here.
const PrincipalHeader = "X-Athena-User"

func principalOf(c echo.Context) (string, error) {
	p := strings.TrimSpace(c.Request().Header.Get(PrincipalHeader))
	if p == "" {
		return "", apierr.NewErrorMessage(
			http.StatusUnauthorized,
			"principal is required",
			apierr.WithAdvice(fmt.Sprintf(`set request header "%s"`, PrincipalHeader)),
		)
	}
	return p, nil
}

// paging reads "skip" and "top" query parameters. Missing means zero,
// and zero "top" means unlimited.
func paging(c echo.Context) (skip int, top int, err error) {
	if s := c.QueryParam("skip"); s != "" {
		skip, err = strconv.Atoi(s)
		if err != nil || skip < 0 {
			return 0, 0, fmt.Errorf(`query parameter "skip" should be a non-negative integer: %s`, s)
		}
	}
	if t := c.QueryParam("top"); t != "" {
		top, err = strconv.Atoi(t)
		if err != nil || top < 0 {
			return 0, 0, fmt.Errorf(`query parameter "top" should be a non-negative integer: %s`, t)
		}
	}
	return skip, top, nil
}

func queryParamToInts(name string, values []string) ([]int, error) {
	ints := make([]int, len(values))
	for nth, v := range values {
		i, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf(`query parameter "%s" should be an integer: %s`, name, v)
		}
		ints[nth] = i
	}
	return ints, nil
}

func queryParamToStatuses(values []string) ([]kdb.RequestStatus, error) {
	statuses := make([]kdb.RequestStatus, len(values))
	for nth, v := range values {
		s, err := kdb.AsRequestStatus(v)
		if err != nil {
			return nil, err
		}
		statuses[nth] = s
	}
	return statuses, nil
}

// stars of a rating vote are bounded to 0..5.
func validStars(stars int) bool {
	return 0 <= stars && stars <= 5
}

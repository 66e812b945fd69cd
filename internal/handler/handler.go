package handler

import (
	"net/http"
	"strconv"
	"time"

	"bookstore-backend/internal/middleware"

	"github.com/labstack/echo/v4"
)

func uintParam(c echo.Context, name string) (uint, error) {
	value, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name)
	}
	return uint(value), nil
}

func currentUserID(c echo.Context) (uint, error) {
	userID, ok := c.Get(middleware.ContextUserID).(uint)
	if !ok {
		return 0, echo.NewHTTPError(http.StatusUnauthorized, "not authenticated")
	}
	return userID, nil
}

// dateQuery parses an optional YYYY-MM-DD query parameter. Missing
// parameters yield nil.
func dateQuery(c echo.Context, name string) (*time.Time, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return nil, nil
	}

	day, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name+" date, expected YYYY-MM-DD")
	}
	return &day, nil
}

// Package handler exposes the REST surface over Echo and maps service
// failures onto HTTP statuses.
package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/francescomascellino/library-api/service"
)

// ErrorResponse is the error payload shape.
type ErrorResponse struct {
	Message string `json:"message"`
}

// Validator adapts go-playground/validator to Echo's Validator interface.
type Validator struct {
	validate *validator.Validate
}

func NewValidator() *Validator {
	return &Validator{validate: validator.New()}
}

func (v *Validator) Validate(i interface{}) error {
	if err := v.validate.Struct(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}

// httpError translates a service error into the corresponding HTTP status:
// not-found conditions to 404, invariant conflicts to 409, authorization
// failures to 401. Anything unrecognized is a 500.
func httpError(err error) error {
	switch {
	case errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrBookNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrBookAlreadyBorrowed),
		errors.Is(err, service.ErrBookOnLoan),
		errors.Is(err, service.ErrBookNotBorrowed),
		errors.Is(err, service.ErrLoanMismatch),
		errors.Is(err, service.ErrBookOnLoanDelete),
		errors.Is(err, service.ErrDuplicateISBN),
		errors.Is(err, service.ErrDuplicateUsername):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrUnauthorized),
		errors.Is(err, service.ErrInvalidCredentials):
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}

// pageParams reads the page and pageSize query parameters with the listing
// defaults.
func pageParams(c echo.Context) (int64, int64) {
	page := int64(1)
	pageSize := int64(10)
	if v := c.QueryParam("page"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			page = n
		}
	}
	if v := c.QueryParam("pageSize"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			pageSize = n
		}
	}
	return page, pageSize
}

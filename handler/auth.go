package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/francescomascellino/library-api/entity"
	"github.com/francescomascellino/library-api/service"
)

// AuthHandler serves the login endpoint.
type AuthHandler struct {
	auth *service.AuthService
}

func NewAuthHandler(auth *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// Login godoc
// @Summary User login
// @Description Validates username and password and returns a signed bearer token
// @Tags auth
// @Accept json
// @Produce json
// @Param login_request body entity.LoginRequest true "Login request"
// @Success 200 {object} entity.TokenResponse "Signed access token"
// @Failure 400 {object} ErrorResponse "Bad request"
// @Failure 401 {object} ErrorResponse "Invalid credentials"
// @Router /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	req := new(entity.LoginRequest)
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(req); err != nil {
		return err
	}

	token, err := h.auth.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, entity.TokenResponse{AccessToken: token})
}

package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/francescomascellino/library-api/entity"
	"github.com/francescomascellino/library-api/service"
)

// UserHandler serves the account endpoints and the borrow/return pair.
type UserHandler struct {
	users *service.UserService
	loans *service.LoanService
}

func NewUserHandler(users *service.UserService, loans *service.LoanService) *UserHandler {
	return &UserHandler{users: users, loans: loans}
}

// Register godoc
// @Summary User registration
// @Description Creates an account; the password is hashed before storage
// @Tags users
// @Accept json
// @Produce json
// @Param create_user_request body entity.CreateUserRequest true "Create user request"
// @Success 201 {object} entity.UserDetail "Created user"
// @Failure 400 {object} ErrorResponse "Bad request"
// @Failure 409 {object} ErrorResponse "Username already exists"
// @Router /user [post]
func (h *UserHandler) Register(c echo.Context) error {
	req := new(entity.CreateUserRequest)
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(req); err != nil {
		return err
	}

	user, err := h.users.Create(c.Request().Context(), *req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, user)
}

// List godoc
// @Summary List users
// @Description Lists every account with loan lists populated; passwords are never included
// @Tags users
// @Produce json
// @Param Authorization header string true "Bearer <JWT Token>"
// @Success 200 {array} entity.UserDetail
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Router /user [get]
func (h *UserHandler) List(c echo.Context) error {
	users, err := h.users.FindAll(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, users)
}

// Get godoc
// @Summary Get one user
// @Tags users
// @Produce json
// @Param id path string true "User ID" format(string)
// @Param Authorization header string true "Bearer <JWT Token>"
// @Success 200 {object} entity.UserDetail
// @Failure 404 {object} ErrorResponse "User not found"
// @Router /user/{id} [get]
func (h *UserHandler) Get(c echo.Context) error {
	user, err := h.users.FindOne(c.Request().Context(), c.Param("id"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, user)
}

// Update godoc
// @Summary Update a user
// @Description Partial update; changing the role requires an admin requester
// @Tags users
// @Accept json
// @Produce json
// @Param id path string true "User ID"
// @Param update_user_request body entity.UpdateUserRequest true "Update user request"
// @Param Authorization header string true "Bearer <JWT Token>"
// @Success 200 {object} entity.UserDetail
// @Failure 401 {object} ErrorResponse "Only admins can change user roles"
// @Failure 404 {object} ErrorResponse "User not found"
// @Router /user/{id} [patch]
func (h *UserHandler) Update(c echo.Context) error {
	req := new(entity.UpdateUserRequest)
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(req); err != nil {
		return err
	}

	user, err := h.users.Update(c.Request().Context(), requesterID(c), c.Param("id"), *req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, user)
}

// Delete godoc
// @Summary Delete a user
// @Tags users
// @Param id path string true "User ID"
// @Param Authorization header string true "Bearer <JWT Token>"
// @Success 204 "Deleted"
// @Router /user/{id} [delete]
func (h *UserHandler) Delete(c echo.Context) error {
	if err := h.users.Remove(c.Request().Context(), c.Param("id")); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// AdminSearch godoc
// @Summary Find a user by username
// @Description Admin-only lookup; non-admin requesters are rejected before any search
// @Tags users
// @Produce json
// @Param username path string true "Username"
// @Param Authorization header string true "Bearer <JWT Token>"
// @Success 200 {object} entity.UserDetail
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "User not found"
// @Router /user/admin/search/{username} [get]
func (h *UserHandler) AdminSearch(c echo.Context) error {
	user, err := h.users.AdminFindByUsername(c.Request().Context(), requesterID(c), c.Param("username"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, user)
}

// Borrow godoc
// @Summary Borrow a book
// @Description Loans the book to the user when the book is on the shelf and not deleted
// @Tags loans
// @Produce json
// @Param userId path string true "User ID"
// @Param bookId path string true "Book ID"
// @Success 200 {object} entity.UserDetail "Updated user with loan list"
// @Failure 404 {object} ErrorResponse "User or book not found"
// @Failure 409 {object} ErrorResponse "Book already borrowed or on loan"
// @Router /user/{userId}/borrow/{bookId} [post]
func (h *UserHandler) Borrow(c echo.Context) error {
	user, err := h.loans.Borrow(c.Request().Context(), c.Param("userId"), c.Param("bookId"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, user)
}

// Return godoc
// @Summary Return a borrowed book
// @Description Clears the loan edge when the user actually holds the book
// @Tags loans
// @Produce json
// @Param userId path string true "User ID"
// @Param bookId path string true "Book ID"
// @Success 200 {object} entity.UserDetail "Updated user with loan list"
// @Failure 404 {object} ErrorResponse "User or book not found"
// @Failure 409 {object} ErrorResponse "Book not borrowed by this user"
// @Router /user/{userId}/return/{bookId} [post]
func (h *UserHandler) Return(c echo.Context) error {
	user, err := h.loans.Return(c.Request().Context(), c.Param("userId"), c.Param("bookId"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, user)
}

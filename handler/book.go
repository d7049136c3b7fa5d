package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/francescomascellino/library-api/entity"
	"github.com/francescomascellino/library-api/service"
)

// BookHandler serves the catalogue endpoints.
type BookHandler struct {
	books *service.BookService
}

func NewBookHandler(books *service.BookService) *BookHandler {
	return &BookHandler{books: books}
}

// Create godoc
// @Summary Add a new book
// @Description Adds a book; the ISBN must be unique across deleted and active books
// @Tags books
// @Accept json
// @Produce json
// @Param create_book_request body entity.CreateBookRequest true "Create book request"
// @Param Authorization header string true "Bearer <JWT Token>"
// @Success 201 {object} entity.Book
// @Failure 400 {object} ErrorResponse "Bad request"
// @Failure 409 {object} ErrorResponse "ISBN already exists"
// @Router /book [post]
func (h *BookHandler) Create(c echo.Context) error {
	req := new(entity.CreateBookRequest)
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(req); err != nil {
		return err
	}

	book, err := h.books.Create(c.Request().Context(), *req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, book)
}

// CreateMultiple godoc
// @Summary Add a batch of books
// @Description Creates each book; duplicate ISBNs are skipped and reported
// @Tags books
// @Accept json
// @Produce json
// @Param create_multiple_books_request body entity.CreateMultipleBooksRequest true "Batch create request"
// @Param Authorization header string true "Bearer <JWT Token>"
// @Success 201 {object} map[string]interface{} "Created books and per-item errors"
// @Router /book/multiple [post]
func (h *BookHandler) CreateMultiple(c echo.Context) error {
	req := new(entity.CreateMultipleBooksRequest)
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(req); err != nil {
		return err
	}

	created, bulkErrs, err := h.books.CreateMultiple(c.Request().Context(), *req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, map[string]interface{}{
		"createdBooks": created,
		"errors":       bulkErrs,
	})
}

// List godoc
// @Summary List books
// @Description One page of non-deleted books with borrowers populated
// @Tags books
// @Produce json
// @Param page query int false "Page number (1-based)"
// @Param pageSize query int false "Page size"
// @Param Authorization header string true "Bearer <JWT Token>"
// @Success 200 {object} service.BookDetailPage
// @Router /book [get]
func (h *BookHandler) List(c echo.Context) error {
	page, pageSize := pageParams(c)
	books, err := h.books.FindAll(c.Request().Context(), page, pageSize)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, books)
}

// Loaned godoc
// @Summary List loaned books
// @Tags books
// @Produce json
// @Param Authorization header string true "Bearer <JWT Token>"
// @Success 200 {array} entity.BookDetail
// @Router /book/loaned [get]
func (h *BookHandler) Loaned(c echo.Context) error {
	books, err := h.books.Loaned(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, books)
}

// Available godoc
// @Summary List available books
// @Tags books
// @Produce json
// @Param Authorization header string true "Bearer <JWT Token>"
// @Success 200 {array} entity.Book
// @Router /book/available [get]
func (h *BookHandler) Available(c echo.Context) error {
	books, err := h.books.Available(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, books)
}

// ListDeleted godoc
// @Summary List soft-deleted books
// @Tags books
// @Produce json
// @Param page query int false "Page number (1-based)"
// @Param pageSize query int false "Page size"
// @Param Authorization header string true "Bearer <JWT Token>"
// @Success 200 {object} service.BookDetailPage
// @Router /book/delete [get]
func (h *BookHandler) ListDeleted(c echo.Context) error {
	page, pageSize := pageParams(c)
	books, err := h.books.FindDeleted(c.Request().Context(), page, pageSize)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, books)
}

// GetDeleted godoc
// @Summary Get one soft-deleted book
// @Tags books
// @Produce json
// @Param id path string true "Book ID"
// @Param Authorization header string true "Bearer <JWT Token>"
// @Success 200 {object} entity.BookDetail
// @Failure 404 {object} ErrorResponse "Book not found"
// @Router /book/delete/{id} [get]
func (h *BookHandler) GetDeleted(c echo.Context) error {
	book, err := h.books.FindOneDeleted(c.Request().Context(), c.Param("id"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, book)
}

// Get godoc
// @Summary Get one book
// @Tags books
// @Produce json
// @Param id path string true "Book ID"
// @Param Authorization header string true "Bearer <JWT Token>"
// @Success 200 {object} entity.BookDetail
// @Failure 404 {object} ErrorResponse "Book not found"
// @Router /book/{id} [get]
func (h *BookHandler) Get(c echo.Context) error {
	book, err := h.books.FindOne(c.Request().Context(), c.Param("id"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, book)
}

// Update godoc
// @Summary Update a book
// @Tags books
// @Accept json
// @Produce json
// @Param id path string true "Book ID"
// @Param update_book_request body entity.UpdateBookRequest true "Update book request"
// @Param Authorization header string true "Bearer <JWT Token>"
// @Success 200 {object} entity.Book
// @Failure 404 {object} ErrorResponse "Book not found"
// @Router /book/{id} [patch]
func (h *BookHandler) Update(c echo.Context) error {
	req := new(entity.UpdateBookRequest)
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(req); err != nil {
		return err
	}

	book, err := h.books.Update(c.Request().Context(), c.Param("id"), *req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, book)
}

// UpdateMultiple godoc
// @Summary Update a batch of books
// @Description Applies each update; unknown books are skipped and reported
// @Tags books
// @Accept json
// @Produce json
// @Param update_multiple_books_request body entity.UpdateMultipleBooksRequest true "Batch update request"
// @Param Authorization header string true "Bearer <JWT Token>"
// @Success 200 {object} map[string]interface{} "Updated books and per-item errors"
// @Router /book/multiple [patch]
func (h *BookHandler) UpdateMultiple(c echo.Context) error {
	req := new(entity.UpdateMultipleBooksRequest)
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(req); err != nil {
		return err
	}

	updated, bulkErrs, err := h.books.UpdateMultiple(c.Request().Context(), *req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"updatedBooks": updated,
		"errors":       bulkErrs,
	})
}

// SoftDelete godoc
// @Summary Soft-delete a book
// @Description Flags the book as deleted; a loaned book must be returned first
// @Tags books
// @Produce json
// @Param id path string true "Book ID"
// @Param Authorization header string true "Bearer <JWT Token>"
// @Success 200 {object} entity.Book
// @Failure 404 {object} ErrorResponse "Book not found"
// @Failure 409 {object} ErrorResponse "Book is currently on loan"
// @Router /book/{id} [delete]
func (h *BookHandler) SoftDelete(c echo.Context) error {
	book, err := h.books.SoftDelete(c.Request().Context(), c.Param("id"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, book)
}

// SoftDeleteMultiple godoc
// @Summary Soft-delete a batch of books
// @Tags books
// @Accept json
// @Produce json
// @Param delete_multiple_books_request body entity.DeleteMultipleBooksRequest true "Batch delete request"
// @Param Authorization header string true "Bearer <JWT Token>"
// @Success 200 {object} map[string]interface{} "Deleted books and per-item errors"
// @Router /book/multiple [delete]
func (h *BookHandler) SoftDeleteMultiple(c echo.Context) error {
	req := new(entity.DeleteMultipleBooksRequest)
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(req); err != nil {
		return err
	}

	deleted, bulkErrs, err := h.books.SoftDeleteMultiple(c.Request().Context(), *req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"deletedBooks": deleted,
		"errors":       bulkErrs,
	})
}

// HardDelete godoc
// @Summary Physically remove a book
// @Description Deletes the document; a loaned book cannot be removed
// @Tags books
// @Produce json
// @Param id path string true "Book ID"
// @Param Authorization header string true "Bearer <JWT Token>"
// @Success 200 {object} entity.Book "Removed book"
// @Failure 404 {object} ErrorResponse "Book not found"
// @Failure 409 {object} ErrorResponse "Book is currently on loan"
// @Router /book/delete/{id} [delete]
func (h *BookHandler) HardDelete(c echo.Context) error {
	book, err := h.books.Remove(c.Request().Context(), c.Param("id"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, book)
}

// Restore godoc
// @Summary Restore a soft-deleted book
// @Tags books
// @Produce json
// @Param id path string true "Book ID"
// @Param Authorization header string true "Bearer <JWT Token>"
// @Success 200 {object} entity.Book
// @Failure 404 {object} ErrorResponse "Book not found"
// @Router /book/restore/{id} [patch]
func (h *BookHandler) Restore(c echo.Context) error {
	book, err := h.books.Restore(c.Request().Context(), c.Param("id"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, book)
}

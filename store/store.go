// Package store defines the persistence contracts for books and users and
// their MongoDB implementations. Finders return (nil, nil) when no document
// matches, so callers distinguish "absent" from a storage failure.
package store

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/francescomascellino/library-api/entity"
)

// PageInfo is the pagination envelope attached to paged listings.
type PageInfo struct {
	TotalDocs   int64 `json:"totalDocs"`
	Page        int64 `json:"page"`
	PageSize    int64 `json:"pageSize"`
	TotalPages  int64 `json:"totalPages"`
	HasPrevPage bool  `json:"hasPrevPage"`
	HasNextPage bool  `json:"hasNextPage"`
}

// NewPageInfo computes the envelope for a page of the given size over
// total matching documents. Page numbers are 1-based.
func NewPageInfo(total, page, pageSize int64) PageInfo {
	totalPages := total / pageSize
	if total%pageSize != 0 {
		totalPages++
	}
	return PageInfo{
		TotalDocs:   total,
		Page:        page,
		PageSize:    pageSize,
		TotalPages:  totalPages,
		HasPrevPage: page > 1,
		HasNextPage: page < totalPages,
	}
}

// BookPage is one page of raw book documents.
type BookPage struct {
	Docs []entity.Book `json:"docs"`
	PageInfo
}

// BookStore is the persistence surface for book documents.
type BookStore interface {
	// FindByID returns the book regardless of its deleted flag.
	FindByID(ctx context.Context, id primitive.ObjectID) (*entity.Book, error)
	// FindByISBN scans every book, soft-deleted ones included: a deleted
	// book keeps its ISBN reserved.
	FindByISBN(ctx context.Context, isbn string) (*entity.Book, error)
	// FindActive returns one page of non-deleted books.
	FindActive(ctx context.Context, page, pageSize int64) (*BookPage, error)
	// FindDeleted returns one page of soft-deleted books.
	FindDeleted(ctx context.Context, page, pageSize int64) (*BookPage, error)
	// FindLoaned returns every book whose loan pointer is set.
	FindLoaned(ctx context.Context) ([]entity.Book, error)
	// FindAvailable returns every non-deleted book not out on loan.
	FindAvailable(ctx context.Context) ([]entity.Book, error)
	Insert(ctx context.Context, book *entity.Book) (*entity.Book, error)
	// Save persists the full document under its ID.
	Save(ctx context.Context, book *entity.Book) error
	// Delete physically removes the document.
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// UserStore is the persistence surface for user documents.
type UserStore interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*entity.User, error)
	FindByUsername(ctx context.Context, username string) (*entity.User, error)
	FindAll(ctx context.Context) ([]entity.User, error)
	Insert(ctx context.Context, user *entity.User) (*entity.User, error)
	// Save persists the full document under its ID.
	Save(ctx context.Context, user *entity.User) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

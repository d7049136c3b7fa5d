package service

import (
	"context"
	"log"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/francescomascellino/library-api/entity"
	"github.com/francescomascellino/library-api/store"
)

// BookService handles catalogue CRUD: creation guarded by ISBN uniqueness,
// listings with the borrower populated, soft delete and restore, and
// physical removal of already soft-deleted records.
type BookService struct {
	books store.BookStore
	users store.UserStore
}

func NewBookService(books store.BookStore, users store.UserStore) *BookService {
	return &BookService{books: books, users: users}
}

// BookDetailPage is one page of populated book documents.
type BookDetailPage struct {
	Docs []entity.BookDetail `json:"docs"`
	store.PageInfo
}

// isbnTaken scans all books, soft-deleted ones included. A deleted book
// keeps its ISBN reserved; observed behavior, kept on purpose.
func (s *BookService) isbnTaken(ctx context.Context, isbn string) (bool, error) {
	existing, err := s.books.FindByISBN(ctx, isbn)
	if err != nil {
		return false, err
	}
	return existing != nil, nil
}

// Create adds a book to the catalogue. A duplicate ISBN is a conflict.
func (s *BookService) Create(ctx context.Context, req entity.CreateBookRequest) (*entity.Book, error) {
	taken, err := s.isbnTaken(ctx, req.ISBN)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrDuplicateISBN
	}

	book := &entity.Book{
		Title:  req.Title,
		Author: req.Author,
		ISBN:   req.ISBN,
	}
	return s.books.Insert(ctx, book)
}

// CreateMultiple adds a batch of books. Items with a duplicate ISBN are
// skipped and reported; the rest are created.
func (s *BookService) CreateMultiple(ctx context.Context, req entity.CreateMultipleBooksRequest) ([]entity.Book, []entity.BulkError, error) {
	created := make([]entity.Book, 0, len(req.Books))
	bulkErrs := make([]entity.BulkError, 0)

	for _, item := range req.Books {
		taken, err := s.isbnTaken(ctx, item.ISBN)
		if err != nil {
			return nil, nil, err
		}
		if taken {
			log.Printf("book with ISBN %s already exists, skipping", item.ISBN)
			bulkErrs = append(bulkErrs, entity.BulkError{
				ISBN:    item.ISBN,
				Message: "book with this ISBN already exists",
			})
			continue
		}

		book, err := s.books.Insert(ctx, &entity.Book{
			Title:  item.Title,
			Author: item.Author,
			ISBN:   item.ISBN,
		})
		if err != nil {
			return nil, nil, err
		}
		created = append(created, *book)
	}

	return created, bulkErrs, nil
}

// FindAll returns one page of non-deleted books with borrowers populated.
func (s *BookService) FindAll(ctx context.Context, page, pageSize int64) (*BookDetailPage, error) {
	raw, err := s.books.FindActive(ctx, page, pageSize)
	if err != nil {
		return nil, err
	}
	docs, err := populateBooks(ctx, s.users, raw.Docs)
	if err != nil {
		return nil, err
	}
	return &BookDetailPage{Docs: docs, PageInfo: raw.PageInfo}, nil
}

// FindDeleted returns one page of soft-deleted books.
func (s *BookService) FindDeleted(ctx context.Context, page, pageSize int64) (*BookDetailPage, error) {
	raw, err := s.books.FindDeleted(ctx, page, pageSize)
	if err != nil {
		return nil, err
	}
	docs, err := populateBooks(ctx, s.users, raw.Docs)
	if err != nil {
		return nil, err
	}
	return &BookDetailPage{Docs: docs, PageInfo: raw.PageInfo}, nil
}

// FindOne returns a non-deleted book with its borrower populated.
func (s *BookService) FindOne(ctx context.Context, id string) (*entity.BookDetail, error) {
	book, err := s.findExisting(ctx, id)
	if err != nil {
		return nil, err
	}
	if book.IsDeleted {
		return nil, ErrBookNotFound
	}
	return populateBook(ctx, s.users, book)
}

// FindOneDeleted returns a book only if it is soft-deleted.
func (s *BookService) FindOneDeleted(ctx context.Context, id string) (*entity.BookDetail, error) {
	book, err := s.findExisting(ctx, id)
	if err != nil {
		return nil, err
	}
	if !book.IsDeleted {
		return nil, ErrBookNotFound
	}
	return populateBook(ctx, s.users, book)
}

// Loaned returns every book currently out on loan, borrowers populated.
func (s *BookService) Loaned(ctx context.Context) ([]entity.BookDetail, error) {
	books, err := s.books.FindLoaned(ctx)
	if err != nil {
		return nil, err
	}
	return populateBooks(ctx, s.users, books)
}

// Available returns every non-deleted book sitting on the shelf.
func (s *BookService) Available(ctx context.Context) ([]entity.Book, error) {
	return s.books.FindAvailable(ctx)
}

// Update applies a partial field update to a book.
func (s *BookService) Update(ctx context.Context, id string, req entity.UpdateBookRequest) (*entity.Book, error) {
	book, err := s.findExisting(ctx, id)
	if err != nil {
		return nil, err
	}

	applyBookUpdate(book, req.Title, req.Author, req.ISBN)

	if err := s.books.Save(ctx, book); err != nil {
		return nil, err
	}
	return book, nil
}

// UpdateMultiple applies per-book partial updates. Unknown books are
// reported and skipped.
func (s *BookService) UpdateMultiple(ctx context.Context, req entity.UpdateMultipleBooksRequest) ([]entity.Book, []entity.BulkError, error) {
	updated := make([]entity.Book, 0, len(req.Updates))
	bulkErrs := make([]entity.BulkError, 0)

	for _, item := range req.Updates {
		book, err := s.findExisting(ctx, item.ID)
		if err != nil {
			if err == ErrBookNotFound {
				bulkErrs = append(bulkErrs, entity.BulkError{ID: item.ID, Message: "book not found"})
				continue
			}
			return nil, nil, err
		}

		applyBookUpdate(book, item.Title, item.Author, item.ISBN)

		if err := s.books.Save(ctx, book); err != nil {
			return nil, nil, err
		}
		updated = append(updated, *book)
	}

	return updated, bulkErrs, nil
}

// SoftDelete flags a book as deleted. A loaned book must be returned first.
func (s *BookService) SoftDelete(ctx context.Context, id string) (*entity.Book, error) {
	book, err := s.findExisting(ctx, id)
	if err != nil {
		return nil, err
	}
	if book.LoanedTo != nil {
		return nil, ErrBookOnLoanDelete
	}

	book.IsDeleted = true
	if err := s.books.Save(ctx, book); err != nil {
		return nil, err
	}
	return book, nil
}

// SoftDeleteMultiple flags a batch of books as deleted, collecting per-book
// failures instead of stopping.
func (s *BookService) SoftDeleteMultiple(ctx context.Context, req entity.DeleteMultipleBooksRequest) ([]entity.Book, []entity.BulkError, error) {
	deleted := make([]entity.Book, 0, len(req.BookIDs))
	bulkErrs := make([]entity.BulkError, 0)

	for _, id := range req.BookIDs {
		book, err := s.SoftDelete(ctx, id)
		if err != nil {
			switch err {
			case ErrBookNotFound:
				bulkErrs = append(bulkErrs, entity.BulkError{ID: id, Message: "book not found"})
			case ErrBookOnLoanDelete:
				bulkErrs = append(bulkErrs, entity.BulkError{ID: id, Message: "book is currently on loan"})
			default:
				return nil, nil, err
			}
			continue
		}
		deleted = append(deleted, *book)
	}

	return deleted, bulkErrs, nil
}

// Remove physically deletes a book. A loaned book cannot be removed.
func (s *BookService) Remove(ctx context.Context, id string) (*entity.Book, error) {
	book, err := s.findExisting(ctx, id)
	if err != nil {
		return nil, err
	}
	if book.LoanedTo != nil {
		return nil, ErrBookOnLoanDelete
	}

	if err := s.books.Delete(ctx, book.ID); err != nil {
		return nil, err
	}
	return book, nil
}

// Restore clears the deleted flag.
func (s *BookService) Restore(ctx context.Context, id string) (*entity.Book, error) {
	book, err := s.findExisting(ctx, id)
	if err != nil {
		return nil, err
	}

	book.IsDeleted = false
	if err := s.books.Save(ctx, book); err != nil {
		return nil, err
	}
	return book, nil
}

// findExisting converts the hex ID and loads the book regardless of its
// deleted flag. Bad hex and missing documents both come back as not found.
func (s *BookService) findExisting(ctx context.Context, id string) (*entity.Book, error) {
	bid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrBookNotFound
	}
	book, err := s.books.FindByID(ctx, bid)
	if err != nil {
		return nil, err
	}
	if book == nil {
		return nil, ErrBookNotFound
	}
	return book, nil
}

func applyBookUpdate(book *entity.Book, title, author, isbn *string) {
	if title != nil {
		book.Title = *title
	}
	if author != nil {
		book.Author = *author
	}
	if isbn != nil {
		book.ISBN = *isbn
	}
}

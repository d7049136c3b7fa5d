package service

import (
	"context"
	"log"

	"github.com/francescomascellino/library-api/entity"
	"github.com/francescomascellino/library-api/store"
)

// populateUser builds the caller-facing user representation: password
// dropped, loan list resolved to the books' minimal fields. A dangling book
// reference is logged and skipped rather than failing the whole response.
func populateUser(ctx context.Context, books store.BookStore, user *entity.User) (*entity.UserDetail, error) {
	detail := &entity.UserDetail{
		ID:          user.ID,
		Name:        user.Name,
		Surname:     user.Surname,
		Username:    user.Username,
		Role:        user.Role,
		BooksOnLoan: make([]entity.LoanedBook, 0, len(user.BooksOnLoan)),
	}

	for _, bookID := range user.BooksOnLoan {
		book, err := books.FindByID(ctx, bookID)
		if err != nil {
			return nil, err
		}
		if book == nil {
			log.Printf("user %s references missing book %s", user.ID.Hex(), bookID.Hex())
			continue
		}
		detail.BooksOnLoan = append(detail.BooksOnLoan, entity.LoanedBook{
			ID:    book.ID,
			Title: book.Title,
			ISBN:  book.ISBN,
		})
	}

	return detail, nil
}

// populateBook resolves the borrower reference on a book, when set.
func populateBook(ctx context.Context, users store.UserStore, book *entity.Book) (*entity.BookDetail, error) {
	detail := &entity.BookDetail{
		ID:        book.ID,
		Title:     book.Title,
		Author:    book.Author,
		ISBN:      book.ISBN,
		IsDeleted: book.IsDeleted,
	}

	if book.LoanedTo != nil {
		user, err := users.FindByID(ctx, *book.LoanedTo)
		if err != nil {
			return nil, err
		}
		if user != nil {
			detail.LoanedTo = &entity.Borrower{ID: user.ID, Name: user.Name}
		} else {
			log.Printf("book %s loaned to missing user %s", book.ID.Hex(), book.LoanedTo.Hex())
		}
	}

	return detail, nil
}

// populateBooks maps a slice of raw books to their detailed form.
func populateBooks(ctx context.Context, users store.UserStore, books []entity.Book) ([]entity.BookDetail, error) {
	details := make([]entity.BookDetail, 0, len(books))
	for i := range books {
		detail, err := populateBook(ctx, users, &books[i])
		if err != nil {
			return nil, err
		}
		details = append(details, *detail)
	}
	return details, nil
}

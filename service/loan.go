// Package service holds the application logic between the HTTP handlers and
// the stores: loan management, catalogue and account CRUD, and credential
// validation.
package service

import (
	"context"
	"log"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/francescomascellino/library-api/entity"
	"github.com/francescomascellino/library-api/store"
)

// LoanService owns the loan edge between books and users. The edge is stored
// on both sides (Book.loaned_to and User.books_on_loan) and every mutation
// here touches both, book first, then user. There is no cross-document
// transaction: a crash between the two writes leaves the edge desynchronized
// until the reconciliation sweep reports it.
type LoanService struct {
	books store.BookStore
	users store.UserStore
}

func NewLoanService(books store.BookStore, users store.UserStore) *LoanService {
	return &LoanService{books: books, users: users}
}

// Borrow loans the book to the user. Preconditions are checked in a fixed
// order and the first failure wins: user exists, book exists, book is not
// soft-deleted, the user does not already hold the book, the book is not
// out on loan to anyone. Returns the updated user with the loan list
// populated.
func (s *LoanService) Borrow(ctx context.Context, userID, bookID string) (*entity.UserDetail, error) {
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, ErrUserNotFound
	}
	bid, err := primitive.ObjectIDFromHex(bookID)
	if err != nil {
		return nil, ErrBookNotFound
	}

	user, err := s.users.FindByID(ctx, uid)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	book, err := s.books.FindByID(ctx, bid)
	if err != nil {
		return nil, err
	}
	if book == nil || book.IsDeleted {
		return nil, ErrBookNotFound
	}

	if user.HasOnLoan(bid) {
		return nil, ErrBookAlreadyBorrowed
	}
	if book.LoanedTo != nil {
		return nil, ErrBookOnLoan
	}

	book.LoanedTo = &user.ID
	user.BooksOnLoan = append(user.BooksOnLoan, bid)

	// Book first, then user. On a failure in between the book shows loaned
	// while the user's list does not; nothing rolls back.
	if err := s.books.Save(ctx, book); err != nil {
		return nil, err
	}
	if err := s.users.Save(ctx, user); err != nil {
		log.Printf("loan edge desynchronized: book %s saved, user %s not: %v", bid.Hex(), uid.Hex(), err)
		return nil, err
	}

	return populateUser(ctx, s.books, user)
}

// Return gives the book back. The user must hold the book in their loan
// list and the book's loan pointer must name this same user; the second
// check defends against a corrupted edge.
func (s *LoanService) Return(ctx context.Context, userID, bookID string) (*entity.UserDetail, error) {
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, ErrUserNotFound
	}
	bid, err := primitive.ObjectIDFromHex(bookID)
	if err != nil {
		return nil, ErrBookNotFound
	}

	user, err := s.users.FindByID(ctx, uid)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	book, err := s.books.FindByID(ctx, bid)
	if err != nil {
		return nil, err
	}
	if book == nil {
		return nil, ErrBookNotFound
	}

	if !user.HasOnLoan(bid) {
		return nil, ErrBookNotBorrowed
	}
	if book.LoanedTo == nil || *book.LoanedTo != uid {
		return nil, ErrLoanMismatch
	}

	user.DropLoan(bid)
	book.LoanedTo = nil

	if err := s.books.Save(ctx, book); err != nil {
		return nil, err
	}
	if err := s.users.Save(ctx, user); err != nil {
		log.Printf("loan edge desynchronized: book %s saved, user %s not: %v", bid.Hex(), uid.Hex(), err)
		return nil, err
	}

	return populateUser(ctx, s.books, user)
}

package service

import "errors"

// Error taxonomy. Every precondition failure maps to exactly one sentinel;
// handlers translate them to HTTP statuses (NotFound → 404, Conflict → 409,
// Unauthorized → 401) and never retry.
var (
	// ErrUserNotFound means the referenced user does not exist, or the
	// supplied ID was not a valid 24-hex object ID.
	ErrUserNotFound = errors.New("user not found")
	// ErrBookNotFound means the referenced book does not exist, is
	// soft-deleted where an active book is required, or the supplied ID was
	// not a valid 24-hex object ID.
	ErrBookNotFound = errors.New("book not found")
	// ErrBookAlreadyBorrowed means this user's loan list already contains
	// the book.
	ErrBookAlreadyBorrowed = errors.New("user already borrowed this book")
	// ErrBookOnLoan means the book is currently loaned out and cannot be
	// borrowed again.
	ErrBookOnLoan = errors.New("book is already on loan")
	// ErrBookNotBorrowed means the user tried to return a book that is not
	// in their loan list.
	ErrBookNotBorrowed = errors.New("user did not borrow this book")
	// ErrLoanMismatch means the book's loan pointer names someone other
	// than the returning user. It guards against a corrupted loan edge.
	ErrLoanMismatch = errors.New("book is not loaned to this user")
	// ErrBookOnLoanDelete means a loaned book cannot be deleted, soft or
	// otherwise, until it is returned.
	ErrBookOnLoanDelete = errors.New("book is currently on loan")
	// ErrDuplicateISBN means a book with the same ISBN already exists,
	// soft-deleted books included.
	ErrDuplicateISBN = errors.New("book with this ISBN already exists")
	// ErrDuplicateUsername means the username is already taken.
	ErrDuplicateUsername = errors.New("username already exists")
	// ErrUnauthorized means a role-gated operation was attempted by an
	// identity without admin privilege.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrInvalidCredentials means the username/password pair did not match
	// any account.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

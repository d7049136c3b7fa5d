package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/francescomascellino/library-api/entity"
	"github.com/francescomascellino/library-api/store"
)

func newLoanFixture() (*LoanService, *store.MemoryBookStore, *store.MemoryUserStore, entity.User, entity.Book) {
	books := store.NewMemoryBookStore()
	users := store.NewMemoryUserStore()

	alice := users.Put(entity.User{
		Name:     "Alice",
		Surname:  "Smith",
		Username: "alice",
		Role:     entity.RoleUser,
	})
	dune := books.Put(entity.Book{
		Title:  "Dune",
		Author: "Frank Herbert",
		ISBN:   "9780441172719",
	})

	return NewLoanService(books, users), books, users, alice, dune
}

func TestBorrowSuccess(t *testing.T) {
	svc, books, users, alice, dune := newLoanFixture()
	ctx := context.Background()

	detail, err := svc.Borrow(ctx, alice.ID.Hex(), dune.ID.Hex())
	require.NoError(t, err)

	storedBook, _ := books.FindByID(ctx, dune.ID)
	require.NotNil(t, storedBook.LoanedTo)
	assert.Equal(t, alice.ID, *storedBook.LoanedTo)

	storedUser, _ := users.FindByID(ctx, alice.ID)
	assert.Equal(t, []primitive.ObjectID{dune.ID}, storedUser.BooksOnLoan)

	// The response projects the loaned book's minimal fields.
	require.Len(t, detail.BooksOnLoan, 1)
	assert.Equal(t, "Dune", detail.BooksOnLoan[0].Title)
	assert.Equal(t, "9780441172719", detail.BooksOnLoan[0].ISBN)
}

func TestBorrowTwiceSameUserConflicts(t *testing.T) {
	svc, _, _, alice, dune := newLoanFixture()
	ctx := context.Background()

	_, err := svc.Borrow(ctx, alice.ID.Hex(), dune.ID.Hex())
	require.NoError(t, err)

	_, err = svc.Borrow(ctx, alice.ID.Hex(), dune.ID.Hex())
	assert.ErrorIs(t, err, ErrBookAlreadyBorrowed)
}

func TestBorrowLoanedBookConflicts(t *testing.T) {
	svc, _, users, alice, dune := newLoanFixture()
	ctx := context.Background()

	bob := users.Put(entity.User{Name: "Bob", Username: "bob", Role: entity.RoleUser})

	_, err := svc.Borrow(ctx, alice.ID.Hex(), dune.ID.Hex())
	require.NoError(t, err)

	_, err = svc.Borrow(ctx, bob.ID.Hex(), dune.ID.Hex())
	assert.ErrorIs(t, err, ErrBookOnLoan)
}

func TestBorrowPreconditionOrder(t *testing.T) {
	svc, books, _, alice, dune := newLoanFixture()
	ctx := context.Background()

	t.Run("unknown user wins over unknown book", func(t *testing.T) {
		_, err := svc.Borrow(ctx, primitive.NewObjectID().Hex(), primitive.NewObjectID().Hex())
		assert.ErrorIs(t, err, ErrUserNotFound)
	})

	t.Run("unknown book", func(t *testing.T) {
		_, err := svc.Borrow(ctx, alice.ID.Hex(), primitive.NewObjectID().Hex())
		assert.ErrorIs(t, err, ErrBookNotFound)
	})

	t.Run("malformed user id", func(t *testing.T) {
		_, err := svc.Borrow(ctx, "not-a-hex-id", dune.ID.Hex())
		assert.ErrorIs(t, err, ErrUserNotFound)
	})

	t.Run("malformed book id", func(t *testing.T) {
		_, err := svc.Borrow(ctx, alice.ID.Hex(), "not-a-hex-id")
		assert.ErrorIs(t, err, ErrBookNotFound)
	})

	t.Run("soft-deleted book is not found", func(t *testing.T) {
		ghost := books.Put(entity.Book{Title: "Ghost", Author: "Nobody", ISBN: "111", IsDeleted: true})
		_, err := svc.Borrow(ctx, alice.ID.Hex(), ghost.ID.Hex())
		assert.ErrorIs(t, err, ErrBookNotFound)
	})

	t.Run("already-borrowed beats on-loan for the same user", func(t *testing.T) {
		_, err := svc.Borrow(ctx, alice.ID.Hex(), dune.ID.Hex())
		require.NoError(t, err)
		// The holder retrying gets the already-borrowed conflict, not the
		// generic on-loan one.
		_, err = svc.Borrow(ctx, alice.ID.Hex(), dune.ID.Hex())
		assert.ErrorIs(t, err, ErrBookAlreadyBorrowed)
	})
}

func TestReturnSuccess(t *testing.T) {
	svc, books, users, alice, dune := newLoanFixture()
	ctx := context.Background()

	_, err := svc.Borrow(ctx, alice.ID.Hex(), dune.ID.Hex())
	require.NoError(t, err)

	detail, err := svc.Return(ctx, alice.ID.Hex(), dune.ID.Hex())
	require.NoError(t, err)
	assert.Empty(t, detail.BooksOnLoan)

	storedBook, _ := books.FindByID(ctx, dune.ID)
	assert.Nil(t, storedBook.LoanedTo)

	storedUser, _ := users.FindByID(ctx, alice.ID)
	assert.Empty(t, storedUser.BooksOnLoan)
}

func TestBorrowReturnRoundTrip(t *testing.T) {
	svc, books, users, alice, dune := newLoanFixture()
	ctx := context.Background()

	other := books.Put(entity.Book{Title: "Foundation", Author: "Isaac Asimov", ISBN: "222"})
	_, err := svc.Borrow(ctx, alice.ID.Hex(), other.ID.Hex())
	require.NoError(t, err)

	before, _ := users.FindByID(ctx, alice.ID)

	_, err = svc.Borrow(ctx, alice.ID.Hex(), dune.ID.Hex())
	require.NoError(t, err)
	_, err = svc.Return(ctx, alice.ID.Hex(), dune.ID.Hex())
	require.NoError(t, err)

	after, _ := users.FindByID(ctx, alice.ID)
	assert.ElementsMatch(t, before.BooksOnLoan, after.BooksOnLoan)

	storedBook, _ := books.FindByID(ctx, dune.ID)
	assert.Nil(t, storedBook.LoanedTo)
}

func TestReturnNotBorrowedConflicts(t *testing.T) {
	svc, _, _, alice, dune := newLoanFixture()
	ctx := context.Background()

	_, err := svc.Return(ctx, alice.ID.Hex(), dune.ID.Hex())
	assert.ErrorIs(t, err, ErrBookNotBorrowed)
}

func TestReturnCorruptedEdgeConflicts(t *testing.T) {
	svc, books, users, alice, dune := newLoanFixture()
	ctx := context.Background()

	// Corrupt the edge by hand: alice lists the book, but the book points
	// at bob. The cross-check must refuse the return.
	bob := users.Put(entity.User{Name: "Bob", Username: "bob", Role: entity.RoleUser})

	dune.LoanedTo = &bob.ID
	books.Put(dune)

	alice.BooksOnLoan = append(alice.BooksOnLoan, dune.ID)
	users.Put(alice)

	_, err := svc.Return(ctx, alice.ID.Hex(), dune.ID.Hex())
	assert.ErrorIs(t, err, ErrLoanMismatch)
}

func TestReturnUnknownRefsNotFound(t *testing.T) {
	svc, _, _, alice, _ := newLoanFixture()
	ctx := context.Background()

	_, err := svc.Return(ctx, primitive.NewObjectID().Hex(), primitive.NewObjectID().Hex())
	assert.ErrorIs(t, err, ErrUserNotFound)

	_, err = svc.Return(ctx, alice.ID.Hex(), primitive.NewObjectID().Hex())
	assert.ErrorIs(t, err, ErrBookNotFound)
}

package store

import (
	"context"
	"sort"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/francescomascellino/library-api/entity"
)

// In-memory implementations of the store interfaces, used by tests and
// local experimentation. They honor the (nil, nil) miss contract of the
// Mongo stores and copy documents on the way in and out so callers cannot
// alias storage state.

// MemoryBookStore implements BookStore over a map.
type MemoryBookStore struct {
	mu    sync.RWMutex
	books map[primitive.ObjectID]entity.Book
}

func NewMemoryBookStore() *MemoryBookStore {
	return &MemoryBookStore{books: make(map[primitive.ObjectID]entity.Book)}
}

// Put stores the book directly, assigning an ID when missing. It bypasses
// the ISBN guard; tests use it to seed arbitrary states.
func (f *MemoryBookStore) Put(book entity.Book) entity.Book {
	f.mu.Lock()
	defer f.mu.Unlock()
	if book.ID.IsZero() {
		book.ID = primitive.NewObjectID()
	}
	f.books[book.ID] = book
	return book
}

func (f *MemoryBookStore) FindByID(_ context.Context, id primitive.ObjectID) (*entity.Book, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	book, ok := f.books[id]
	if !ok {
		return nil, nil
	}
	return &book, nil
}

func (f *MemoryBookStore) FindByISBN(_ context.Context, isbn string) (*entity.Book, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	for _, book := range f.books {
		if book.ISBN == isbn {
			b := book
			return &b, nil
		}
	}
	return nil, nil
}

func (f *MemoryBookStore) FindActive(_ context.Context, page, pageSize int64) (*BookPage, error) {
	return f.page(func(b entity.Book) bool { return !b.IsDeleted }, page, pageSize)
}

func (f *MemoryBookStore) FindDeleted(_ context.Context, page, pageSize int64) (*BookPage, error) {
	return f.page(func(b entity.Book) bool { return b.IsDeleted }, page, pageSize)
}

func (f *MemoryBookStore) page(keep func(entity.Book) bool, page, pageSize int64) (*BookPage, error) {
	all := f.sorted(keep)
	total := int64(len(all))

	start := (page - 1) * pageSize
	if start > total {
		start = total
	}
	end := start + pageSize
	if end > total {
		end = total
	}

	return &BookPage{
		Docs:     all[start:end],
		PageInfo: NewPageInfo(total, page, pageSize),
	}, nil
}

func (f *MemoryBookStore) FindLoaned(_ context.Context) ([]entity.Book, error) {
	return f.sorted(func(b entity.Book) bool { return b.LoanedTo != nil }), nil
}

func (f *MemoryBookStore) FindAvailable(_ context.Context) ([]entity.Book, error) {
	return f.sorted(func(b entity.Book) bool { return !b.IsDeleted && b.LoanedTo == nil }), nil
}

func (f *MemoryBookStore) sorted(keep func(entity.Book) bool) []entity.Book {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]entity.Book, 0, len(f.books))
	for _, book := range f.books {
		if keep(book) {
			out = append(out, book)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID.Hex() < out[j].ID.Hex() })
	return out
}

func (f *MemoryBookStore) Insert(_ context.Context, book *entity.Book) (*entity.Book, error) {
	stored := f.Put(*book)
	*book = stored
	return book, nil
}

func (f *MemoryBookStore) Save(_ context.Context, book *entity.Book) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.books[book.ID] = *book
	return nil
}

func (f *MemoryBookStore) Delete(_ context.Context, id primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.books, id)
	return nil
}

// MemoryUserStore implements UserStore over a map.
type MemoryUserStore struct {
	mu    sync.RWMutex
	users map[primitive.ObjectID]entity.User
}

func NewMemoryUserStore() *MemoryUserStore {
	return &MemoryUserStore{users: make(map[primitive.ObjectID]entity.User)}
}

// Put stores the user directly, assigning an ID when missing.
func (f *MemoryUserStore) Put(user entity.User) entity.User {
	f.mu.Lock()
	defer f.mu.Unlock()
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	if user.BooksOnLoan == nil {
		user.BooksOnLoan = []primitive.ObjectID{}
	}
	f.users[user.ID] = user
	return user
}

func (f *MemoryUserStore) FindByID(_ context.Context, id primitive.ObjectID) (*entity.User, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	user, ok := f.users[id]
	if !ok {
		return nil, nil
	}
	u := user
	u.BooksOnLoan = append([]primitive.ObjectID{}, user.BooksOnLoan...)
	return &u, nil
}

func (f *MemoryUserStore) FindByUsername(_ context.Context, username string) (*entity.User, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	for _, user := range f.users {
		if user.Username == username {
			u := user
			u.BooksOnLoan = append([]primitive.ObjectID{}, user.BooksOnLoan...)
			return &u, nil
		}
	}
	return nil, nil
}

func (f *MemoryUserStore) FindAll(_ context.Context) ([]entity.User, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]entity.User, 0, len(f.users))
	for _, user := range f.users {
		u := user
		u.BooksOnLoan = append([]primitive.ObjectID{}, user.BooksOnLoan...)
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID.Hex() < out[j].ID.Hex() })
	return out, nil
}

func (f *MemoryUserStore) Insert(_ context.Context, user *entity.User) (*entity.User, error) {
	stored := f.Put(*user)
	*user = stored
	return user, nil
}

func (f *MemoryUserStore) Save(_ context.Context, user *entity.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u := *user
	u.BooksOnLoan = append([]primitive.ObjectID{}, user.BooksOnLoan...)
	f.users[user.ID] = u
	return nil
}

func (f *MemoryUserStore) Delete(_ context.Context, id primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.users, id)
	return nil
}

package entity

import "go.mongodb.org/mongo-driver/bson/primitive"

// Role distinguishes elevated (admin) privilege from standard privilege.
// It is a closed set: anything that is not RoleAdmin is treated as a
// standard user by the authorization gates.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// IsAdmin reports whether the role clears the admin-only gates.
func (r Role) IsAdmin() bool {
	return r == RoleAdmin
}

// Valid reports whether the role is one of the known tiers.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// Book is a catalogue record. LoanedTo is nil while the book sits on the
// shelf; it points at exactly one user while the book is out on loan.
// Soft-deleted books keep their document (and their ISBN) but are excluded
// from normal listings and cannot be loaned.
type Book struct {
	ID        primitive.ObjectID  `json:"book_id" bson:"_id,omitempty"`
	Title     string              `json:"title" bson:"title"`
	Author    string              `json:"author" bson:"author"`
	ISBN      string              `json:"ISBN" bson:"isbn"`
	LoanedTo  *primitive.ObjectID `json:"loaned_to,omitempty" bson:"loaned_to,omitempty"`
	IsDeleted bool                `json:"is_deleted" bson:"is_deleted"`
}

// User is an account record. BooksOnLoan mirrors Book.LoanedTo: a book ID
// appears here if and only if that book's LoanedTo points back at this user.
// Password holds the bcrypt hash, never plaintext, and never serializes.
type User struct {
	ID          primitive.ObjectID   `json:"user_id" bson:"_id,omitempty"`
	Name        string               `json:"name" bson:"name"`
	Surname     string               `json:"surname" bson:"surname"`
	Username    string               `json:"username" bson:"username"`
	Password    string               `json:"-" bson:"password"`
	Role        Role                 `json:"role" bson:"role"`
	BooksOnLoan []primitive.ObjectID `json:"books_on_loan" bson:"books_on_loan"`
}

// HasOnLoan reports whether the user's loan list contains the book.
func (u *User) HasOnLoan(bookID primitive.ObjectID) bool {
	for _, id := range u.BooksOnLoan {
		if id == bookID {
			return true
		}
	}
	return false
}

// DropLoan removes the book from the user's loan list. It is a no-op when
// the book is not listed.
func (u *User) DropLoan(bookID primitive.ObjectID) {
	kept := u.BooksOnLoan[:0]
	for _, id := range u.BooksOnLoan {
		if id != bookID {
			kept = append(kept, id)
		}
	}
	u.BooksOnLoan = kept
}

// LoanedBook is the minimal projection of a book embedded in user responses.
type LoanedBook struct {
	ID    primitive.ObjectID `json:"book_id"`
	Title string             `json:"title"`
	ISBN  string             `json:"ISBN"`
}

// UserDetail is the user representation returned to callers: password
// excluded, loan list populated with the books' minimal fields.
type UserDetail struct {
	ID          primitive.ObjectID `json:"user_id"`
	Name        string             `json:"name"`
	Surname     string             `json:"surname"`
	Username    string             `json:"username"`
	Role        Role               `json:"role"`
	BooksOnLoan []LoanedBook       `json:"books_on_loan"`
}

// Borrower is the minimal projection of a user embedded in book responses.
type Borrower struct {
	ID   primitive.ObjectID `json:"user_id"`
	Name string             `json:"name"`
}

// BookDetail is the book representation returned to callers, with the
// borrower populated when the book is out on loan.
type BookDetail struct {
	ID        primitive.ObjectID `json:"book_id"`
	Title     string             `json:"title"`
	Author    string             `json:"author"`
	ISBN      string             `json:"ISBN"`
	LoanedTo  *Borrower          `json:"loaned_to,omitempty"`
	IsDeleted bool               `json:"is_deleted"`
}

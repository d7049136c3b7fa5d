package service

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"github.com/francescomascellino/library-api/entity"
	"github.com/francescomascellino/library-api/store"
)

// UserService handles account CRUD. Passwords are bcrypt-hashed before they
// ever reach the store; role changes and the username search are gated on
// the requester's stored role, not on anything the token claims.
type UserService struct {
	users store.UserStore
	books store.BookStore
}

func NewUserService(users store.UserStore, books store.BookStore) *UserService {
	return &UserService{users: users, books: books}
}

// Create registers an account. The role defaults to user when the payload
// leaves it empty.
func (s *UserService) Create(ctx context.Context, req entity.CreateUserRequest) (*entity.UserDetail, error) {
	existing, err := s.users.FindByUsername(ctx, req.Username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrDuplicateUsername
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	role := req.Role
	if role == "" {
		role = entity.RoleUser
	}

	user := &entity.User{
		Name:        req.Name,
		Surname:     req.Surname,
		Username:    req.Username,
		Password:    string(hash),
		Role:        role,
		BooksOnLoan: []primitive.ObjectID{},
	}

	if _, err := s.users.Insert(ctx, user); err != nil {
		return nil, err
	}
	return populateUser(ctx, s.books, user)
}

// FindAll lists every account, passwords excluded, loans populated.
func (s *UserService) FindAll(ctx context.Context) ([]entity.UserDetail, error) {
	users, err := s.users.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	details := make([]entity.UserDetail, 0, len(users))
	for i := range users {
		detail, err := populateUser(ctx, s.books, &users[i])
		if err != nil {
			return nil, err
		}
		details = append(details, *detail)
	}
	return details, nil
}

// FindOne returns a single account by ID.
func (s *UserService) FindOne(ctx context.Context, id string) (*entity.UserDetail, error) {
	user, err := s.findExisting(ctx, id)
	if err != nil {
		return nil, err
	}
	return populateUser(ctx, s.books, user)
}

// FindByUsername is the raw lookup consumed by the auth gateway. It returns
// the stored document, password hash included, and (nil, nil) on a miss.
func (s *UserService) FindByUsername(ctx context.Context, username string) (*entity.User, error) {
	return s.users.FindByUsername(ctx, username)
}

// AdminFindByUsername is the admin-only username search. The gate fires
// before any lookup of the target happens.
func (s *UserService) AdminFindByUsername(ctx context.Context, requesterID, username string) (*entity.UserDetail, error) {
	requester, err := s.requester(ctx, requesterID)
	if err != nil {
		return nil, err
	}
	if !requester.Role.IsAdmin() {
		return nil, ErrUnauthorized
	}

	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return populateUser(ctx, s.books, user)
}

// Update applies a partial update to the target account. A payload that
// tries to set a role different from the requester's own stored role is
// rejected unless the requester is an admin. A password in the payload is
// re-hashed before persisting.
func (s *UserService) Update(ctx context.Context, requesterID, targetID string, req entity.UpdateUserRequest) (*entity.UserDetail, error) {
	requester, err := s.requester(ctx, requesterID)
	if err != nil {
		return nil, err
	}

	if req.Role != nil && !requester.Role.IsAdmin() && *req.Role != requester.Role {
		return nil, ErrUnauthorized
	}

	target, err := s.findExisting(ctx, targetID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		target.Name = *req.Name
	}
	if req.Surname != nil {
		target.Surname = *req.Surname
	}
	if req.Role != nil {
		target.Role = *req.Role
	}
	if req.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		target.Password = string(hash)
	}

	if err := s.users.Save(ctx, target); err != nil {
		return nil, err
	}
	return populateUser(ctx, s.books, target)
}

// Remove hard-deletes an account. Removing an unknown ID is not an error.
func (s *UserService) Remove(ctx context.Context, id string) error {
	uid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrUserNotFound
	}
	return s.users.Delete(ctx, uid)
}

// requester resolves the authenticated identity behind a request. A token
// whose subject no longer exists cannot pass any gate.
func (s *UserService) requester(ctx context.Context, requesterID string) (*entity.User, error) {
	rid, err := primitive.ObjectIDFromHex(requesterID)
	if err != nil {
		return nil, ErrUnauthorized
	}
	requester, err := s.users.FindByID(ctx, rid)
	if err != nil {
		return nil, err
	}
	if requester == nil {
		return nil, ErrUnauthorized
	}
	return requester, nil
}

func (s *UserService) findExisting(ctx context.Context, id string) (*entity.User, error) {
	uid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrUserNotFound
	}
	user, err := s.users.FindByID(ctx, uid)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

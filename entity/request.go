package entity

// Request payloads. Field constraints mirror the schema rules: required
// string fields between 3 and 50 characters unless noted.

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type CreateUserRequest struct {
	Name     string `json:"name" validate:"required,min=3,max=50"`
	Surname  string `json:"surname" validate:"required,min=3,max=50"`
	Username string `json:"username" validate:"required,min=3,max=50"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	Role     Role   `json:"role" validate:"omitempty,oneof=user admin"`
}

// UpdateUserRequest is a partial update: nil fields are left untouched.
// A non-nil Role is subject to the admin gate.
type UpdateUserRequest struct {
	Name     *string `json:"name" validate:"omitempty,min=3,max=50"`
	Surname  *string `json:"surname" validate:"omitempty,min=3,max=50"`
	Password *string `json:"password" validate:"omitempty,min=8,max=72"`
	Role     *Role   `json:"role" validate:"omitempty,oneof=user admin"`
}

type CreateBookRequest struct {
	Title  string `json:"title" validate:"required,min=3,max=50"`
	Author string `json:"author" validate:"required,min=3,max=50"`
	ISBN   string `json:"ISBN" validate:"required,min=3,max=50"`
}

type CreateMultipleBooksRequest struct {
	Books []CreateBookRequest `json:"books" validate:"required,min=1,dive"`
}

type UpdateBookRequest struct {
	Title  *string `json:"title" validate:"omitempty,min=3,max=50"`
	Author *string `json:"author" validate:"omitempty,min=3,max=50"`
	ISBN   *string `json:"ISBN" validate:"omitempty,min=3,max=50"`
}

// UpdateBookItem carries the target ID alongside the fields to change,
// one element per book in a bulk update.
type UpdateBookItem struct {
	ID     string  `json:"id" validate:"required"`
	Title  *string `json:"title" validate:"omitempty,min=3,max=50"`
	Author *string `json:"author" validate:"omitempty,min=3,max=50"`
	ISBN   *string `json:"ISBN" validate:"omitempty,min=3,max=50"`
}

type UpdateMultipleBooksRequest struct {
	Updates []UpdateBookItem `json:"updates" validate:"required,min=1,dive"`
}

type DeleteMultipleBooksRequest struct {
	BookIDs []string `json:"book_ids" validate:"required,min=1"`
}

// TokenResponse is the login success payload.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
}

// BulkError reports a single failed item inside a bulk operation that
// otherwise carries on.
type BulkError struct {
	ID      string `json:"id,omitempty"`
	ISBN    string `json:"ISBN,omitempty"`
	Message string `json:"message"`
}

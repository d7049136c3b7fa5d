package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/francescomascellino/library-api/entity"
	"github.com/francescomascellino/library-api/service"
	"github.com/francescomascellino/library-api/store"
)

type testApp struct {
	e     *echo.Echo
	auth  *service.AuthService
	books *store.MemoryBookStore
	users *store.MemoryUserStore
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	books := store.NewMemoryBookStore()
	users := store.NewMemoryUserStore()

	authService := service.NewAuthService(users, "test-secret", time.Hour)
	loanService := service.NewLoanService(books, users)
	bookService := service.NewBookService(books, users)
	userService := service.NewUserService(users, books)

	e := echo.New()
	e.Validator = NewValidator()
	RegisterRoutes(
		e,
		authService,
		NewAuthHandler(authService),
		NewUserHandler(userService, loanService),
		NewBookHandler(bookService),
	)

	return &testApp{e: e, auth: authService, books: books, users: users}
}

func (app *testApp) seedUser(t *testing.T, username, password string, role entity.Role) entity.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return app.users.Put(entity.User{
		Name:     username,
		Surname:  "Test",
		Username: username,
		Password: string(hash),
		Role:     role,
	})
}

func (app *testApp) request(method, target, token string, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	app.e.ServeHTTP(rec, req)
	return rec
}

func TestLoginEndpoint(t *testing.T) {
	app := newTestApp(t)
	app.seedUser(t, "alice", "correct horse", entity.RoleUser)

	rec := app.request(http.MethodPost, "/auth/login", "", `{"username":"alice","password":"correct horse"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "access_token")

	rec = app.request(http.MethodPost, "/auth/login", "", `{"username":"alice","password":"wrong"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestBorrowEndpoint(t *testing.T) {
	app := newTestApp(t)
	alice := app.seedUser(t, "alice", "pw-is-fine", entity.RoleUser)
	dune := app.books.Put(entity.Book{Title: "Dune", Author: "Frank Herbert", ISBN: "123"})

	rec := app.request(http.MethodPost, "/user/"+alice.ID.Hex()+"/borrow/"+dune.ID.Hex(), "", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	var detail entity.UserDetail
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &detail))
	require.Len(t, detail.BooksOnLoan, 1)
	assert.Equal(t, "Dune", detail.BooksOnLoan[0].Title)

	// Second borrow of the same book conflicts.
	rec = app.request(http.MethodPost, "/user/"+alice.ID.Hex()+"/borrow/"+dune.ID.Hex(), "", "")
	assert.Equal(t, http.StatusConflict, rec.Code)

	// Another user cannot take a loaned book.
	bob := app.seedUser(t, "bob", "pw-is-fine", entity.RoleUser)
	rec = app.request(http.MethodPost, "/user/"+bob.ID.Hex()+"/borrow/"+dune.ID.Hex(), "", "")
	assert.Equal(t, http.StatusConflict, rec.Code)

	// Unknown book is a 404, malformed ID likewise.
	rec = app.request(http.MethodPost, "/user/"+alice.ID.Hex()+"/borrow/ffffffffffffffffffffffff", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = app.request(http.MethodPost, "/user/"+alice.ID.Hex()+"/borrow/garbage", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestReturnEndpoint(t *testing.T) {
	app := newTestApp(t)
	alice := app.seedUser(t, "alice", "pw-is-fine", entity.RoleUser)
	dune := app.books.Put(entity.Book{Title: "Dune", Author: "Frank Herbert", ISBN: "123"})

	// Returning a book that was never borrowed conflicts.
	rec := app.request(http.MethodPost, "/user/"+alice.ID.Hex()+"/return/"+dune.ID.Hex(), "", "")
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = app.request(http.MethodPost, "/user/"+alice.ID.Hex()+"/borrow/"+dune.ID.Hex(), "", "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = app.request(http.MethodPost, "/user/"+alice.ID.Hex()+"/return/"+dune.ID.Hex(), "", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	var detail entity.UserDetail
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &detail))
	assert.Empty(t, detail.BooksOnLoan)

	stored, _ := app.books.FindByID(context.Background(), dune.ID)
	assert.Nil(t, stored.LoanedTo)
}

func TestBearerGuard(t *testing.T) {
	app := newTestApp(t)
	app.seedUser(t, "alice", "correct horse", entity.RoleUser)

	rec := app.request(http.MethodGet, "/user", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = app.request(http.MethodGet, "/user", "not-a-real-token", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	token, err := app.auth.Login(context.Background(), "alice", "correct horse")
	require.NoError(t, err)

	rec = app.request(http.MethodGet, "/user", token, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	// Password hashes never leak into responses.
	assert.NotContains(t, rec.Body.String(), "password")
}

func TestAdminSearchEndpoint(t *testing.T) {
	app := newTestApp(t)
	app.seedUser(t, "alice", "correct horse", entity.RoleUser)
	app.seedUser(t, "root", "correct horse", entity.RoleAdmin)

	userToken, err := app.auth.Login(context.Background(), "alice", "correct horse")
	require.NoError(t, err)
	adminToken, err := app.auth.Login(context.Background(), "root", "correct horse")
	require.NoError(t, err)

	rec := app.request(http.MethodGet, "/user/admin/search/root", userToken, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = app.request(http.MethodGet, "/user/admin/search/alice", adminToken, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"alice"`)
}

func TestUpdateUserRoleGateOverHTTP(t *testing.T) {
	app := newTestApp(t)
	bob := app.seedUser(t, "bob", "correct horse", entity.RoleUser)
	app.seedUser(t, "root", "correct horse", entity.RoleAdmin)

	bobToken, err := app.auth.Login(context.Background(), "bob", "correct horse")
	require.NoError(t, err)
	adminToken, err := app.auth.Login(context.Background(), "root", "correct horse")
	require.NoError(t, err)

	rec := app.request(http.MethodPatch, "/user/"+bob.ID.Hex(), bobToken, `{"role":"admin"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = app.request(http.MethodPatch, "/user/"+bob.ID.Hex(), adminToken, `{"role":"admin"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"admin"`)
}

func TestRegisterEndpoint(t *testing.T) {
	app := newTestApp(t)

	rec := app.request(http.MethodPost, "/user", "", `{"name":"Alice","surname":"Smith","username":"alice","password":"correct horse"}`)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.NotContains(t, rec.Body.String(), "correct horse")

	// Duplicate username conflicts.
	rec = app.request(http.MethodPost, "/user", "", `{"name":"Clone","surname":"Smith","username":"alice","password":"correct horse"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	// Validation failures are 400s.
	rec = app.request(http.MethodPost, "/user", "", `{"name":"Al","surname":"Smith","username":"alice2","password":"short"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateBookEndpoint(t *testing.T) {
	app := newTestApp(t)
	app.seedUser(t, "alice", "correct horse", entity.RoleUser)

	token, err := app.auth.Login(context.Background(), "alice", "correct horse")
	require.NoError(t, err)

	rec := app.request(http.MethodPost, "/book", token, `{"title":"Dune","author":"Frank Herbert","ISBN":"9780441172719"}`)
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec = app.request(http.MethodPost, "/book", token, `{"title":"Dune Again","author":"Someone","ISBN":"9780441172719"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = app.request(http.MethodPost, "/book", "", `{"title":"Dune","author":"Frank Herbert","ISBN":"999"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestBookListingEndpoints(t *testing.T) {
	app := newTestApp(t)
	alice := app.seedUser(t, "alice", "correct horse", entity.RoleUser)
	app.books.Put(entity.Book{Title: "Out", Author: "A", ISBN: "1", LoanedTo: &alice.ID})
	app.books.Put(entity.Book{Title: "Shelved", Author: "B", ISBN: "2"})
	app.books.Put(entity.Book{Title: "Gone", Author: "C", ISBN: "3", IsDeleted: true})

	token, err := app.auth.Login(context.Background(), "alice", "correct horse")
	require.NoError(t, err)

	rec := app.request(http.MethodGet, "/book?page=1&pageSize=10", token, "")
	assert.Equal(t, http.StatusOK, rec.Code)

	var page struct {
		Docs      []entity.BookDetail `json:"docs"`
		TotalDocs int64               `json:"totalDocs"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	assert.Equal(t, int64(2), page.TotalDocs)

	rec = app.request(http.MethodGet, "/book/loaned", token, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"Out"`)

	rec = app.request(http.MethodGet, "/book/available", token, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"Shelved"`)

	rec = app.request(http.MethodGet, "/book/delete", token, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"Gone"`)
}

package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/francescomascellino/library-api/service"
)

// RegisterRoutes wires every endpoint onto the Echo instance. Registration,
// login, and the borrow/return pair are open; everything else sits behind
// the bearer guard.
func RegisterRoutes(e *echo.Echo, auth *service.AuthService, ah *AuthHandler, uh *UserHandler, bh *BookHandler) {
	guard := JWTAuth(auth)

	e.POST("/auth/login", ah.Login)

	user := e.Group("/user")
	user.POST("", uh.Register)
	user.POST("/:userId/borrow/:bookId", uh.Borrow)
	user.POST("/:userId/return/:bookId", uh.Return)
	user.GET("", uh.List, guard)
	user.GET("/admin/search/:username", uh.AdminSearch, guard)
	user.GET("/:id", uh.Get, guard)
	user.PATCH("/:id", uh.Update, guard)
	user.DELETE("/:id", uh.Delete, guard)

	book := e.Group("/book", guard)
	book.POST("", bh.Create)
	book.POST("/multiple", bh.CreateMultiple)
	book.GET("", bh.List)
	book.GET("/loaned", bh.Loaned)
	book.GET("/available", bh.Available)
	book.GET("/delete", bh.ListDeleted)
	book.GET("/delete/:id", bh.GetDeleted)
	book.GET("/:id", bh.Get)
	book.PATCH("/multiple", bh.UpdateMultiple)
	book.PATCH("/restore/:id", bh.Restore)
	book.PATCH("/:id", bh.Update)
	book.DELETE("/multiple", bh.SoftDeleteMultiple)
	book.DELETE("/delete/:id", bh.HardDelete)
	book.DELETE("/:id", bh.SoftDelete)
}

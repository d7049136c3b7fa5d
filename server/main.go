package main

import (
	"context"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/francescomascellino/library-api/config"
	"github.com/francescomascellino/library-api/handler"
	"github.com/francescomascellino/library-api/service"
	"github.com/francescomascellino/library-api/store"
	"github.com/francescomascellino/library-api/utils"
)

func main() {
	ctx := context.Background()
	cfg := config.Load()

	db, err := config.ConnectDatabase(ctx, cfg)
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}
	if err := config.EnsureIndexes(ctx, db); err != nil {
		log.Fatalf("failed to create indexes: %v", err)
	}

	books := store.NewMongoBookStore(db.Collection("books"))
	users := store.NewMongoUserStore(db.Collection("users"))

	authService := service.NewAuthService(users, cfg.SecretKey, cfg.TokenTTL)
	loanService := service.NewLoanService(books, users)
	bookService := service.NewBookService(books, users)
	userService := service.NewUserService(users, books)

	sweeper := utils.StartReconciliationJob(books, users)
	defer sweeper.Stop()

	e := echo.New()
	e.Validator = handler.NewValidator()
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{cfg.CORSOrigin},
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
		AllowHeaders:     []string{echo.HeaderContentType, echo.HeaderAuthorization},
		AllowCredentials: true,
	}))

	handler.RegisterRoutes(
		e,
		authService,
		handler.NewAuthHandler(authService),
		handler.NewUserHandler(userService, loanService),
		handler.NewBookHandler(bookService),
	)

	log.Printf("Server is running on port %s . . .", cfg.Port)
	e.Logger.Fatal(e.Start(":" + cfg.Port))
}

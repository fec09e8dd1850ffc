// Package main textbook resale API.
//
// @title           Campus Textbook Resale API
// @version         1.0
// @description     Marketplace for used textbooks (listings, search, sessions).
// @BasePath        /
// @schemes         http
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/ancax2/textbook-resale-project/app/echoServer"
	authctrl "github.com/ancax2/textbook-resale-project/app/echoServer/controller/auth"
	listingctrl "github.com/ancax2/textbook-resale-project/app/echoServer/controller/listing"
	"github.com/ancax2/textbook-resale-project/app/echoServer/validation"
	"github.com/ancax2/textbook-resale-project/config"
	listingrepo "github.com/ancax2/textbook-resale-project/repository/listing"
	userrepo "github.com/ancax2/textbook-resale-project/repository/user"
	authsvc "github.com/ancax2/textbook-resale-project/service/auth"
	listingsvc "github.com/ancax2/textbook-resale-project/service/listing"
	"github.com/ancax2/textbook-resale-project/util/database"
	"github.com/ancax2/textbook-resale-project/util/storage"

	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"
)

func main() {

	cfg := config.Load()
	ctx := context.Background()

	// logger
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	// DB: *sql.DB
	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Error("db connect failed", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Error("db migrate failed", "err", err)
		os.Exit(1)
	}

	// image storage
	store, err := storage.New(cfg.UploadDir)
	if err != nil {
		log.Error("upload dir init failed", "err", err, "dir", cfg.UploadDir)
		os.Exit(1)
	}

	// repos
	ur := userrepo.New(db)
	lr := listingrepo.New(db)

	// services
	as := authsvc.New(ur, cfg.JWTSecret)
	ls := listingsvc.New(lr, store)

	// controllers
	val := validation.New()
	v := val.Instance()
	authC := &authctrl.Controller{Svc: as, V: v, Log: log, CookieSecure: cfg.Env == "prod"}
	listingC := &listingctrl.Controller{Svc: ls, V: v, Log: log}

	// echo
	e := echo.New()
	echoServer.RegisterMiddlewares(e, cfg.CORSOrigin)
	e.Validator = val
	e.Static("/uploads", cfg.UploadDir)

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]any{
			"status":  "ok",
			"message": "Service is healthy and connected",
		})
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	echoServer.Register(e, echoServer.C{
		Auth:    authC,
		Listing: listingC,

		JWTSecret: cfg.JWTSecret,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.Port
	}

	slog.Info("starting server", "port", port, "env", cfg.Env)

	e.Logger.Fatal(e.Start(":" + port))
}

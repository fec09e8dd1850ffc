package echoServer

import (
	"net/http"

	"github.com/ancax2/textbook-resale-project/app/echoServer/controller/auth"
	"github.com/ancax2/textbook-resale-project/app/echoServer/controller/listing"

	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
)

type C struct {
	Auth    *auth.Controller
	Listing *listing.Controller

	JWTSecret string
}

func Register(e *echo.Echo, c C) {
	// Public
	pub := e.Group("/api")
	pub.POST("/login", c.Auth.Login)
	pub.POST("/logout", c.Auth.Logout)
	pub.GET("/programs", c.Listing.Programs)
	pub.GET("/listings", c.Listing.List)
	pub.GET("/listings/:id", c.Listing.Detail)

	// Session-scoped. The token travels in the session cookie set at
	// login; a bearer header works too for non-browser clients.
	authed := e.Group("/api")
	authed.Use(echojwt.WithConfig(echojwt.Config{
		SigningKey:    []byte(c.JWTSecret),
		NewClaimsFunc: func(c echo.Context) jwt.Claims { return jwt.MapClaims{} },
		TokenLookup:   "cookie:" + auth.SessionCookie + ",header:Authorization:Bearer ",
		ErrorHandler: func(ctx echo.Context, err error) error {
			if ctx.Path() == "/api/user" {
				return ctx.JSON(http.StatusUnauthorized, echo.Map{"message": "Not logged in"})
			}
			return ctx.JSON(http.StatusUnauthorized, echo.Map{"error": "Must be logged in"})
		},
	}))
	authed.GET("/user", c.Auth.CurrentUser)
	authed.POST("/listings", c.Listing.Create)
}

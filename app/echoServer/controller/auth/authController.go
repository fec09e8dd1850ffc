// app/echoServer/controller/auth/authController.go
package auth

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/ancax2/textbook-resale-project/app/echoServer/jwtx"
	"github.com/ancax2/textbook-resale-project/model"
	authsvc "github.com/ancax2/textbook-resale-project/service/auth"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// SessionCookie is the HttpOnly cookie carrying the signed session token.
const SessionCookie = "session"

const sessionTTL = 24 * time.Hour

type Controller struct {
	Svc authsvc.Service
	V   *validator.Validate
	Log *slog.Logger

	// CookieSecure marks the session cookie Secure for TLS deployments.
	CookieSecure bool
}

// Login
// @Summary      Login
// @Description  Login with email + password; sets the session cookie
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        payload  body  model.LoginReq  true  "Login payload"
// @Success      200  {object}  map[string]any
// @Failure      400  {object}  map[string]any
// @Failure      401  {object}  map[string]any
// @Router       /api/login [post]
func (ct *Controller) Login(c echo.Context) error {
	var req model.LoginReq
	if err := c.Bind(&req); err != nil {
		ct.Log.Warn("bind failed", "path", c.Path(), "err", err)
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "invalid body"})
	}
	if err := ct.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "email and password are required"})
	}

	u, token, err := ct.Svc.Login(c.Request().Context(), req)
	if err != nil {
		if authsvc.Code(err) == authsvc.ErrInvalidCreds {
			return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "message": "Invalid email or password"})
		}
		rid := c.Response().Header().Get(echo.HeaderXRequestID)
		ct.Log.Error("login failed", "err", err, "req_id", rid)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Database error"})
	}

	c.SetCookie(ct.sessionCookie(token, sessionTTL))
	return c.JSON(http.StatusOK, echo.Map{"success": true, "user": u})
}

// CurrentUser
// @Summary      Current user
// @Description  Returns the user bound to the active session
// @Tags         auth
// @Produce      json
// @Success      200  {object}  map[string]any
// @Failure      401  {object}  map[string]any
// @Router       /api/user [get]
func (ct *Controller) CurrentUser(c echo.Context) error {
	uid, err := jwtx.UserIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Not logged in"})
	}
	u, err := ct.Svc.UserByID(c.Request().Context(), uid)
	if err != nil {
		if authsvc.Code(err) == authsvc.ErrUserNotFound {
			return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Not logged in"})
		}
		rid := c.Response().Header().Get(echo.HeaderXRequestID)
		ct.Log.Error("current user failed", "err", err, "req_id", rid)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"user": u})
}

// Logout
// @Summary      Logout
// @Description  Clears the session cookie
// @Tags         auth
// @Produce      json
// @Success      200  {object}  map[string]any
// @Router       /api/logout [post]
func (ct *Controller) Logout(c echo.Context) error {
	c.SetCookie(ct.sessionCookie("", -time.Hour))
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

func (ct *Controller) sessionCookie(token string, ttl time.Duration) *http.Cookie {
	return &http.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(ttl),
		HttpOnly: true,
		Secure:   ct.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	}
}

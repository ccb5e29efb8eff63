package middleware

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const (
	// SessionCookie names the cookie carrying the shopper's cart session
	SessionCookie = "cart_session"

	sessionKey = "cart_session_id"
)

// CartSession assigns every request a cart session ID, issuing a new
// cookie when none is present or the value is not a valid UUID
func CartSession() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := ""
			if cookie, err := c.Cookie(SessionCookie); err == nil {
				if _, err := uuid.Parse(cookie.Value); err == nil {
					id = cookie.Value
				}
			}
			if id == "" {
				id = uuid.NewString()
				c.SetCookie(&http.Cookie{
					Name:     SessionCookie,
					Value:    id,
					Path:     "/",
					HttpOnly: true,
					SameSite: http.SameSiteLaxMode,
					MaxAge:   60 * 60 * 24 * 30,
				})
			}
			c.Set(sessionKey, id)
			return next(c)
		}
	}
}

// GetSessionID returns the request's cart session ID
func GetSessionID(c echo.Context) string {
	id, _ := c.Get(sessionKey).(string)
	return id
}

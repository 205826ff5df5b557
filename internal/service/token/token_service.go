// Package token issues, rotates and verifies the access/refresh token pair
// that backs a session. Exactly one role travels in the token, so a caller is
// anonymous, a user or an admin - never two at once.
package token

import (
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

const (
	AccessTTL  = 15 * time.Minute
	RefreshTTL = 7 * 24 * time.Hour
)

type TokenService struct {
	DB            *gorm.DB
	JWTSecret     []byte
	RefreshSecret []byte
}

// Rotate exchanges a valid refresh token for a fresh access/refresh pair.
// The old refresh token is revoked, the new one persisted.
func (t *TokenService) Rotate(rawToken string) (string, string, string, error) {
	claims, err := t.ValidateRefresh(rawToken)
	if err != nil {
		return "", "", "", err
	}

	userID := uint(claims["sub"].(float64))
	role, _ := claims["role"].(string)

	newAccess, err := SignAccessToken(userID, role, t.JWTSecret)
	if err != nil {
		return "", "", "", err
	}

	newRefresh, err := SignRefreshToken(userID, role, t.RefreshSecret)
	if err != nil {
		return "", "", "", err
	}

	if err := t.RevokeRefresh(rawToken); err != nil {
		return "", "", "", err
	}
	if err := SaveRefreshToken(t.DB, newRefresh, userID, role); err != nil {
		return "", "", "", err
	}

	return newAccess, newRefresh, role, nil
}

// RequireUser authenticates the request. A live access token passes through;
// an expired one is transparently rotated off the refresh token. Anything
// else is a 401, which tells clients to drop their persisted identity.
func (t *TokenService) RequireUser(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		raw := ExtractToken(c)
		if raw != "" {
			token, err := jwt.Parse(raw, func(j *jwt.Token) (interface{}, error) {
				return t.JWTSecret, nil
			})
			if err == nil && token.Valid {
				setIdentity(c, token.Claims.(jwt.MapClaims))
				return next(c)
			}
			if !errors.Is(err, jwt.ErrTokenExpired) {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid access token")
			}
		}

		rfCookie, err := c.Cookie("refreshToken")
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
		}
		newAccess, newRefresh, _, err := t.Rotate(rfCookie.Value)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "cannot rotate token: "+err.Error())
		}

		c.SetCookie(CreateCookie("accessToken", newAccess, "/", time.Now().Add(AccessTTL)))
		c.SetCookie(CreateCookie("refreshToken", newRefresh, "/", time.Now().Add(RefreshTTL)))

		token, _ := jwt.Parse(newAccess, func(j *jwt.Token) (interface{}, error) { return t.JWTSecret, nil })
		setIdentity(c, token.Claims.(jwt.MapClaims))
		return next(c)
	}
}

func (t *TokenService) RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return t.RequireUser(func(c echo.Context) error {
		if Role(c) != "admin" {
			return echo.NewHTTPError(http.StatusForbidden, "admin access required")
		}
		return next(c)
	})
}

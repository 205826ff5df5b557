package token

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/canteenhq/canteen/internal/models"
)

func newTestService(t *testing.T) *TokenService {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.RefreshToken{}))

	return &TokenService{
		DB:            db,
		JWTSecret:     []byte("jwt-secret"),
		RefreshSecret: []byte("refresh-secret"),
	}
}

// A persisted access token authenticates on its own: no password round-trip
// is needed to restore a session.
func TestRequireUserWithBearerToken(t *testing.T) {
	svc := newTestService(t)
	e := echo.New()

	access, err := SignAccessToken(42, "user", svc.JWTSecret)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+access)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	handler := svc.RequireUser(func(c echo.Context) error {
		called = true
		id, err := UserID(c)
		require.NoError(t, err)
		require.Equal(t, uint(42), id)
		require.Equal(t, "user", Role(c))
		return c.NoContent(http.StatusOK)
	})
	require.NoError(t, handler(c))
	require.True(t, called)
}

func TestRequireUserWithoutTokenFails(t *testing.T) {
	svc := newTestService(t)
	e := echo.New()

	req := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := svc.RequireUser(func(c echo.Context) error { return nil })(c)
	var he *echo.HTTPError
	require.ErrorAs(t, err, &he)
	require.Equal(t, http.StatusUnauthorized, he.Code)
}

func TestRequireAdminRejectsUserRole(t *testing.T) {
	svc := newTestService(t)
	e := echo.New()

	access, err := SignAccessToken(42, "user", svc.JWTSecret)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/orders", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+access)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err = svc.RequireAdmin(func(c echo.Context) error { return nil })(c)
	var he *echo.HTTPError
	require.ErrorAs(t, err, &he)
	require.Equal(t, http.StatusForbidden, he.Code)
}

func TestRotateIssuesNewPairAndRevokesOld(t *testing.T) {
	svc := newTestService(t)

	refresh, err := SignRefreshToken(7, "user", svc.RefreshSecret)
	require.NoError(t, err)
	require.NoError(t, SaveRefreshToken(svc.DB, refresh, 7, "user"))

	newAccess, newRefresh, role, err := svc.Rotate(refresh)
	require.NoError(t, err)
	require.NotEmpty(t, newAccess)
	require.NotEmpty(t, newRefresh)
	require.NotEqual(t, refresh, newRefresh)
	require.Equal(t, "user", role)

	var old models.RefreshToken
	require.NoError(t, svc.DB.Where("token = ?", refresh).First(&old).Error)
	require.True(t, old.Revoked)

	// the revoked token cannot be used again
	_, _, _, err = svc.Rotate(refresh)
	require.Error(t, err)
}

func TestValidateRefreshRejectsAccessToken(t *testing.T) {
	svc := newTestService(t)

	access, err := SignAccessToken(7, "user", svc.RefreshSecret)
	require.NoError(t, err)

	_, err = svc.ValidateRefresh(access)
	require.Error(t, err)
}

func TestExpiredAccessTokenIsRotatedOffRefreshCookie(t *testing.T) {
	svc := newTestService(t)
	e := echo.New()

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  float64(7),
		"role": "user",
		"exp":  time.Now().Add(-time.Minute).Unix(),
	})
	expiredAccess, err := expired.SignedString(svc.JWTSecret)
	require.NoError(t, err)

	refresh, err := SignRefreshToken(7, "user", svc.RefreshSecret)
	require.NoError(t, err)
	require.NoError(t, SaveRefreshToken(svc.DB, refresh, 7, "user"))

	req := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+expiredAccess)
	req.AddCookie(&http.Cookie{Name: "refreshToken", Value: refresh})
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	err = svc.RequireUser(func(c echo.Context) error {
		called = true
		id, err := UserID(c)
		require.NoError(t, err)
		require.Equal(t, uint(7), id)
		return c.NoContent(http.StatusOK)
	})(c)
	require.NoError(t, err)
	require.True(t, called)

	// fresh cookies were issued
	cookies := rec.Result().Cookies()
	names := map[string]bool{}
	for _, ck := range cookies {
		names[ck.Name] = true
	}
	require.True(t, names["accessToken"])
	require.True(t, names["refreshToken"])
}

package handlers

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/canteenhq/canteen/internal/hash"
	"github.com/canteenhq/canteen/internal/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect to in-memory db: %v", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.RefreshToken{},
		&models.MenuItem{},
		&models.CartLine{},
		&models.Order{},
		&models.OrderItem{},
	); err != nil {
		t.Fatalf("failed to migrate tables: %v", err)
	}

	return db
}

// newJSONContext builds an echo context carrying an optional JSON body and
// the identity that RequireUser would have set.
func newJSONContext(t *testing.T, e *echo.Echo, method, path string, body any, userID uint, role string) (*httptest.ResponseRecorder, echo.Context) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if userID != 0 {
		c.Set("userID", userID)
		c.Set("role", role)
	}
	return rec, c
}

func seedUser(t *testing.T, db *gorm.DB, email, password, role string) models.User {
	t.Helper()

	passwordHash, err := hash.HashPassword(password)
	require.NoError(t, err)

	user := models.User{
		Name:         "Test User",
		Email:        email,
		Phone:        "+1234567890",
		PasswordHash: passwordHash,
		Role:         role,
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func seedMenuItem(t *testing.T, db *gorm.DB, name string, price float64, available bool) models.MenuItem {
	t.Helper()

	item := models.MenuItem{
		ID:          uuid.NewString(),
		Name:        name,
		Description: "test item",
		Price:       price,
		Category:    models.CategoryLunch,
		Available:   available,
	}
	require.NoError(t, db.Create(&item).Error)
	return item
}

func httpErrorCode(t *testing.T, err error) int {
	t.Helper()

	var he *echo.HTTPError
	require.ErrorAs(t, err, &he, "expected HTTPError")
	return he.Code
}

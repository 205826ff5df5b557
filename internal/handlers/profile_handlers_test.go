package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/canteenhq/canteen/internal/models"
)

func TestGetProfile(t *testing.T) {
	db := newTestDB(t)
	e := echo.New()
	h := &ProfileHandler{DB: db}
	user := seedUser(t, db, "user@canteen.com", "password", "user")

	rec, c := newJSONContext(t, e, http.MethodGet, "/api/user/profile", nil, user.ID, "user")
	require.NoError(t, h.GetProfile(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var got models.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Equal(t, user.Email, got.Email)
}

func TestUpdateProfile(t *testing.T) {
	db := newTestDB(t)
	e := echo.New()
	h := &ProfileHandler{DB: db}
	user := seedUser(t, db, "user@canteen.com", "password", "user")

	rec, c := newJSONContext(t, e, http.MethodPut, "/api/user/profile", map[string]string{
		"name":  "Jane Doe",
		"phone": "+1987654321",
	}, user.ID, "user")
	require.NoError(t, h.UpdateProfile(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var stored models.User
	require.NoError(t, db.First(&stored, user.ID).Error)
	require.Equal(t, "Jane Doe", stored.Name)
	require.Equal(t, "+1987654321", stored.Phone)
	// email is not editable through the profile
	require.Equal(t, user.Email, stored.Email)
}

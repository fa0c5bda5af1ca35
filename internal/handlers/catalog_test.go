package handlers_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/instamart/backend/internal/models"
)

func TestListItems(t *testing.T) {
	env := newTestEnv(t)
	env.createItem("milk", 2.5, 10)
	env.createItem("bread", 1.2, 4)

	rec := env.do(http.MethodGet, "/api/items", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var items []models.Item
	env.decode(rec, &items)
	require.Len(t, items, 2)
	require.Equal(t, "milk", items[0].Name)
	require.Equal(t, "bread", items[1].Name)
}

func TestItemMutationRequiresAdmin(t *testing.T) {
	env := newTestEnv(t)
	item := env.createItem("milk", 2.5, 10)
	userCk := env.loginAs("user", models.RoleUser)

	valid := map[string]interface{}{"name": "eggs", "price": 3.0, "quantity": 12}

	// No session at all: 401.
	require.Equal(t, http.StatusUnauthorized, env.do(http.MethodPost, "/api/items", valid).Code)

	// Logged in but not admin: always 403, even with a valid payload.
	require.Equal(t, http.StatusForbidden, env.do(http.MethodPost, "/api/items", valid, userCk).Code)
	require.Equal(t, http.StatusForbidden,
		env.do(http.MethodPut, fmt.Sprintf("/api/items/%d", item.ID), valid, userCk).Code)
	require.Equal(t, http.StatusForbidden,
		env.do(http.MethodDelete, fmt.Sprintf("/api/items/%d", item.ID), nil, userCk).Code)
}

func TestCreateItem(t *testing.T) {
	env := newTestEnv(t)
	adminCk := env.loginAs("admin", models.RoleAdmin)

	rec := env.do(http.MethodPost, "/api/items", map[string]interface{}{
		"name": "eggs", "price": 3.0, "quantity": 12,
	}, adminCk)
	require.Equal(t, http.StatusCreated, rec.Code)

	var item models.Item
	env.decode(rec, &item)
	require.Equal(t, "eggs", item.Name)
	require.Equal(t, 3.0, item.Price)
	require.EqualValues(t, 12, item.Quantity)

	// Price and quantity default to zero.
	rec = env.do(http.MethodPost, "/api/items", map[string]interface{}{"name": "tofu"}, adminCk)
	require.Equal(t, http.StatusCreated, rec.Code)
	env.decode(rec, &item)
	require.Zero(t, item.Price)
	require.Zero(t, item.Quantity)
}

func TestCreateItemValidation(t *testing.T) {
	env := newTestEnv(t)
	adminCk := env.loginAs("admin", models.RoleAdmin)

	rec := env.do(http.MethodPost, "/api/items", map[string]interface{}{"price": 1.0}, adminCk)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(http.MethodPost, "/api/items", map[string]interface{}{"name": "x", "price": -1.0}, adminCk)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateItemPartial(t *testing.T) {
	env := newTestEnv(t)
	adminCk := env.loginAs("admin", models.RoleAdmin)
	item := env.createItem("milk", 2.5, 10)

	rec := env.do(http.MethodPut, fmt.Sprintf("/api/items/%d", item.ID),
		map[string]interface{}{"price": 3.0}, adminCk)
	require.Equal(t, http.StatusOK, rec.Code)

	var updated models.Item
	require.NoError(t, env.DB.First(&updated, item.ID).Error)
	require.Equal(t, 3.0, updated.Price)
	require.Equal(t, "milk", updated.Name)
	require.EqualValues(t, 10, updated.Quantity)
}

func TestUpdateItemNotFound(t *testing.T) {
	env := newTestEnv(t)
	adminCk := env.loginAs("admin", models.RoleAdmin)

	rec := env.do(http.MethodPut, "/api/items/9999", map[string]interface{}{"price": 3.0}, adminCk)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteItem(t *testing.T) {
	env := newTestEnv(t)
	adminCk := env.loginAs("admin", models.RoleAdmin)
	item := env.createItem("milk", 2.5, 10)

	path := fmt.Sprintf("/api/items/%d", item.ID)
	require.Equal(t, http.StatusOK, env.do(http.MethodDelete, path, nil, adminCk).Code)
	require.Equal(t, http.StatusNotFound, env.do(http.MethodDelete, path, nil, adminCk).Code)
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)
	require.Equal(t, http.StatusOK, env.do(http.MethodGet, "/api/health", nil).Code)
}

package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/instamart/backend/internal/config"
	"github.com/instamart/backend/internal/handlers"
	"github.com/instamart/backend/internal/hash"
	authmw "github.com/instamart/backend/internal/middleware/auth"
	"github.com/instamart/backend/internal/models"
	"github.com/instamart/backend/internal/service/session"
	httpserver "github.com/instamart/backend/internal/transport/http"
)

var envSeq atomic.Int64

type testEnv struct {
	T        *testing.T
	E        *echo.Echo
	DB       *gorm.DB
	Sessions *session.Service
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dsn := fmt.Sprintf("file:handlers_test_%d?mode=memory&cache=shared", envSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, config.Migrate(db))

	sessions := &session.Service{DB: db, Secret: []byte("test-secret")}

	e := echo.New()
	httpserver.Register(e, &httpserver.Deps{
		DB:              db,
		AuthHandler:     &handlers.AuthHandler{DB: db, Sessions: sessions},
		CatalogHandler:  &handlers.CatalogHandler{DB: db},
		CartHandler:     &handlers.CartHandler{DB: db},
		CheckoutHandler: &handlers.CheckoutHandler{DB: db},
		HealthHandler:   &handlers.HealthHandler{DB: db},
		PageHandler:     &handlers.PageHandler{Sessions: sessions},
		Auth:            &authmw.Middleware{Sessions: sessions},
	})

	return &testEnv{T: t, E: e, DB: db, Sessions: sessions}
}

func (env *testEnv) do(method, path string, body interface{}, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	env.T.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(env.T, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	rec := httptest.NewRecorder()
	env.E.ServeHTTP(rec, req)
	return rec
}

func (env *testEnv) decode(rec *httptest.ResponseRecorder, out interface{}) {
	env.T.Helper()
	require.NoError(env.T, json.Unmarshal(rec.Body.Bytes(), out))
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == session.CookieName && ck.Value != "" {
			return ck
		}
	}
	t.Fatal("no session cookie in response")
	return nil
}

// loginAs seeds a user with the given role directly and logs in through the
// API, returning the session cookie.
func (env *testEnv) loginAs(username string, role models.Role) *http.Cookie {
	env.T.Helper()

	pwHash, err := hash.HashPassword("password")
	require.NoError(env.T, err)
	user := models.User{Username: username, PasswordHash: pwHash, Role: role}
	require.NoError(env.T, env.DB.Create(&user).Error)

	rec := env.do(http.MethodPost, "/api/login", map[string]string{
		"username": username,
		"password": "password",
	})
	require.Equal(env.T, http.StatusOK, rec.Code)
	return sessionCookie(env.T, rec)
}

func (env *testEnv) createItem(name string, price float64, quantity uint) models.Item {
	env.T.Helper()
	item := models.Item{Name: name, Price: price, Quantity: quantity}
	require.NoError(env.T, env.DB.Create(&item).Error)
	return item
}

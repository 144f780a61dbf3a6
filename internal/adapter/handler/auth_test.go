package handler

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"identity-hub/internal/domain"
	"identity-hub/internal/usecase"
	"identity-hub/middleware"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func testAccount() *domain.Account {
	return &domain.Account{
		ID:       7,
		UUID:     "uuid-alice",
		Email:    "alice@example.com",
		Name:     "Alice",
		Password: "hashed:hunter2",
	}
}

func testPrincipal() *domain.Principal {
	return &domain.Principal{UUID: "uuid-alice", Authorities: []string{"ROLE_USER"}}
}

type authFixture struct {
	e        *echo.Echo
	sessions *memorySessionStore
	accounts *memoryAccountStore
	codec    *stubCodec
}

func newAuthFixture(accounts ...*domain.Account) *authFixture {
	f := &authFixture{
		e:        echo.New(),
		sessions: newMemorySessionStore(),
		accounts: newMemoryAccountStore(accounts...),
		codec:    &stubCodec{principal: testPrincipal()},
	}
	logger := slog.Default()

	h := NewAuthHandler(
		usecase.NewLogin(f.accounts, plainVerifier{}, f.codec, f.sessions, logger),
		usecase.NewLogout(f.sessions, logger),
		usecase.NewRefresh(f.accounts, f.codec, f.sessions, logger),
	)
	f.e.POST("/members/login", h.HandleLogin)
	f.e.POST("/auth/refresh", h.HandleRefresh)
	f.e.POST("/auth/logout", h.HandleLogout, middleware.BearerAuth(f.codec))
	return f
}

func (f *authFixture) do(method, path, body, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if authorization != "" {
		req.Header.Set(echo.HeaderAuthorization, authorization)
	}
	rec := httptest.NewRecorder()
	f.e.ServeHTTP(rec, req)
	return rec
}

func TestHandleLogin_IssuesPair(t *testing.T) {
	f := newAuthFixture(testAccount())

	rec := f.do(http.MethodPost, "/members/login", `{"email":"alice@example.com","password":"hunter2"}`, "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Header().Get("Authorization"), "Bearer access-uuid-alice"))
	assert.NotEmpty(t, rec.Header().Get("JWT-Expire"))
	assert.Contains(t, rec.Body.String(), "refreshToken")
	assert.NotEmpty(t, f.sessions.entries["uuid-alice"])
}

func TestHandleLogin_BadPassword(t *testing.T) {
	f := newAuthFixture(testAccount())

	rec := f.do(http.MethodPost, "/members/login", `{"email":"alice@example.com","password":"wrong"}`, "")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "authentication required")
	assert.Empty(t, f.sessions.entries)
}

func TestHandleLogin_ValidationFailure(t *testing.T) {
	f := newAuthFixture(testAccount())

	rec := f.do(http.MethodPost, "/members/login", `{"password":"hunter2"}`, "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleRefresh_RotatesPair(t *testing.T) {
	f := newAuthFixture(testAccount())
	f.sessions.entries["uuid-alice"] = "stored-refresh"
	f.codec.principal.Token = "stored-refresh"

	rec := f.do(http.MethodPost, "/auth/refresh", "", "Bearer stored-refresh")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Header().Get("Authorization"), "Bearer access-uuid-alice"))
	assert.NotEqual(t, "stored-refresh", f.sessions.entries["uuid-alice"], "stored refresh token must rotate")
}

func TestHandleRefresh_ReplayedTokenRejected(t *testing.T) {
	f := newAuthFixture(testAccount())
	f.sessions.entries["uuid-alice"] = "current-refresh"

	rec := f.do(http.MethodPost, "/auth/refresh", "", "Bearer rotated-away-refresh")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHandleRefresh_MissingHeader(t *testing.T) {
	f := newAuthFixture(testAccount())

	rec := f.do(http.MethodPost, "/auth/refresh", "", "")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHandleLogout_InvalidatesSession(t *testing.T) {
	f := newAuthFixture(testAccount())
	f.sessions.entries["uuid-alice"] = "live-refresh"

	rec := f.do(http.MethodPost, "/auth/logout", "", "Bearer some-access-token")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, f.sessions.entries, "logout must drop the session entry")
}

func TestHandleLogout_Unauthenticated(t *testing.T) {
	f := newAuthFixture(testAccount())
	f.sessions.entries["uuid-alice"] = "live-refresh"

	rec := f.do(http.MethodPost, "/auth/logout", "", "")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.NotEmpty(t, f.sessions.entries, "rejected logout must not touch the session")
}

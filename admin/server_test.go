package admin

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"reiatsu/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockStore struct {
	mock.Mock
}

func (m *mockStore) Counts(ctx context.Context) (*repository.DashboardCounts, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.DashboardCounts), args.Error(1)
}

func (m *mockStore) Browse(ctx context.Context, table string, page, size int) (*repository.TablePage, error) {
	args := m.Called(ctx, table, page, size)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.TablePage), args.Error(1)
}

func (m *mockStore) ReadOnlyQuery(ctx context.Context, sql string, maxRows int, timeout time.Duration) (*repository.TablePage, error) {
	args := m.Called(ctx, sql, maxRows, timeout)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.TablePage), args.Error(1)
}

type mockActions struct {
	mock.Mock
}

func (m *mockActions) SetPoints(ctx context.Context, guildID, discordID, points int64) error {
	return m.Called(ctx, guildID, discordID, points).Error(0)
}

func (m *mockActions) ForceSpawn(ctx context.Context, guildID int64) error {
	return m.Called(ctx, guildID).Error(0)
}

func (m *mockActions) ReloadCatalog() error {
	return m.Called().Error(0)
}

const testOrigin = "http://admin.test"

func newTestServer(t *testing.T) (*Server, *mockStore, *mockActions) {
	t.Helper()
	store := &mockStore{}
	actions := &mockActions{}
	server, err := NewServer(Config{
		Addr:       "127.0.0.1:0",
		Password:   "hunter2",
		JWTSecret:  "test-secret",
		SessionTTL: time.Hour,
	}, store, actions, NewLogBuffer(10))
	require.NoError(t, err)
	return server, store, actions
}

func request(method, target string, form url.Values, cookie *http.Cookie) *http.Request {
	var body *strings.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	} else {
		body = strings.NewReader("")
	}
	req := httptest.NewRequest(method, testOrigin+target, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if method == http.MethodPost {
		req.Header.Set("Origin", testOrigin)
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}
	return req
}

func login(t *testing.T, server *Server) *http.Cookie {
	t.Helper()
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, request(http.MethodPost, "/login", url.Values{"password": {"hunter2"}}, nil))
	require.Equal(t, http.StatusSeeOther, rec.Code)

	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == sessionCookieName {
			return cookie
		}
	}
	t.Fatal("no session cookie")
	return nil
}

func TestNewServer_RequiresPassword(t *testing.T) {
	_, err := NewServer(Config{SessionTTL: time.Hour}, &mockStore{}, &mockActions{}, NewLogBuffer(1))
	assert.Error(t, err)
}

func TestHealth(t *testing.T) {
	server, _, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, request(http.MethodGet, "/health", nil, nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
}

func TestProtectedRoutesRedirectToLogin(t *testing.T) {
	server, _, _ := newTestServer(t)

	for _, target := range []string{"/", "/logs", "/tables/reiatsu_players"} {
		rec := httptest.NewRecorder()
		server.Handler().ServeHTTP(rec, request(http.MethodGet, target, nil, nil))
		assert.Equal(t, http.StatusFound, rec.Code, target)
		assert.Equal(t, "/login", rec.Header().Get("Location"), target)
	}
}

func TestLogin(t *testing.T) {
	server, store, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, request(http.MethodPost, "/login", url.Values{"password": {"wrong"}}, nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Wrong password.")

	cookie := login(t, server)
	assert.True(t, cookie.HttpOnly)

	store.On("Counts", mock.Anything).Return(&repository.DashboardCounts{Guilds: 2, Players: 17}, nil)

	rec = httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, request(http.MethodGet, "/", nil, cookie))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "<td>17</td>")
	store.AssertExpectations(t)
}

func TestTableBrowsing(t *testing.T) {
	server, store, _ := newTestServer(t)
	cookie := login(t, server)

	store.On("Browse", mock.Anything, "secrets", 0, pageSize).Return(nil, repository.ErrTableNotAllowed)
	store.On("Browse", mock.Anything, "reiatsu_players", 2, pageSize).Return(&repository.TablePage{
		Table:    "reiatsu_players",
		Columns:  []string{"discord_id", "points"},
		Rows:     [][]string{{"42", "<b>7</b>"}},
		Page:     2,
		PageSize: pageSize,
		Total:    500,
	}, nil)

	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, request(http.MethodGet, "/tables/secrets", nil, cookie))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, request(http.MethodGet, "/tables/reiatsu_players?page=2", nil, cookie))
	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "&lt;b&gt;7&lt;/b&gt;")
	assert.Contains(t, body, "page=3")
	assert.Contains(t, body, "page=1")
}

func TestSetPoints(t *testing.T) {
	server, _, actions := newTestServer(t)
	cookie := login(t, server)

	actions.On("SetPoints", mock.Anything, int64(1), int64(2), int64(300)).Return(nil)

	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, request(http.MethodPost, "/players/1/2/points", url.Values{"points": {"300"}}, cookie))
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Header().Get("Location"), "/?flash="))

	rec = httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, request(http.MethodPost, "/players/1/2/points", url.Values{"points": {"-5"}}, cookie))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	actions.AssertExpectations(t)
}

func TestCrossOriginPostRejected(t *testing.T) {
	server, _, actions := newTestServer(t)
	cookie := login(t, server)

	req := request(http.MethodPost, "/catalog/reload", url.Values{}, cookie)
	req.Header.Set("Origin", "http://evil.test")

	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	actions.AssertNotCalled(t, "ReloadCatalog")
}

func TestForceSpawnAndReload(t *testing.T) {
	server, _, actions := newTestServer(t)
	cookie := login(t, server)

	actions.On("ForceSpawn", mock.Anything, int64(99)).Return(nil)
	actions.On("ReloadCatalog").Return(nil)

	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, request(http.MethodPost, "/spawns/99/force", url.Values{}, cookie))
	assert.Equal(t, http.StatusSeeOther, rec.Code)

	rec = httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, request(http.MethodPost, "/catalog/reload", url.Values{}, cookie))
	assert.Equal(t, http.StatusSeeOther, rec.Code)

	actions.AssertExpectations(t)
}

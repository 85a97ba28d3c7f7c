package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"mpdfm/config"
	"mpdfm/core/auth"
	"mpdfm/core/library"
	"mpdfm/model"
	"mpdfm/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeUserRepo is an in-memory UserRepository.
type fakeUserRepo struct {
	nextID int64
	users  map[string]*model.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{nextID: 1, users: make(map[string]*model.User)}
}

func (r *fakeUserRepo) CreateUser(user *model.User) (int64, error) {
	if _, exists := r.users[user.Username]; exists {
		return 0, repository.ErrDuplicateUser
	}
	stored := *user
	stored.ID = r.nextID
	r.nextID++
	r.users[stored.Username] = &stored
	return stored.ID, nil
}

func (r *fakeUserRepo) GetUserByID(id int64) (*model.User, error) {
	for _, u := range r.users {
		if u.ID == id {
			clone := *u
			return &clone, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) GetUserByUsername(username string) (*model.User, error) {
	u, ok := r.users[username]
	if !ok {
		return nil, nil
	}
	clone := *u
	return &clone, nil
}

// fakePlaylistRepo is an in-memory PlaylistRepository.
type fakePlaylistRepo struct {
	nextID    int64
	playlists map[int64]map[string]*model.UserPlaylist
	order     map[int64][]string
}

func newFakePlaylistRepo() *fakePlaylistRepo {
	return &fakePlaylistRepo{
		nextID:    1,
		playlists: make(map[int64]map[string]*model.UserPlaylist),
		order:     make(map[int64][]string),
	}
}

func (r *fakePlaylistRepo) ListNames(userID int64) ([]string, error) {
	names := make([]string, 0)
	names = append(names, r.order[userID]...)
	return names, nil
}

func (r *fakePlaylistRepo) GetByName(userID int64, name string) (*model.UserPlaylist, error) {
	p, ok := r.playlists[userID][name]
	if !ok {
		return nil, nil
	}
	clone := *p
	return &clone, nil
}

func (r *fakePlaylistRepo) Save(userID int64, name string, songs []string) (*model.UserPlaylist, error) {
	if r.playlists[userID] == nil {
		r.playlists[userID] = make(map[string]*model.UserPlaylist)
	}
	p, ok := r.playlists[userID][name]
	if !ok {
		p = &model.UserPlaylist{ID: r.nextID, UserID: userID, PlaylistName: name}
		r.nextID++
		r.playlists[userID][name] = p
		r.order[userID] = append(r.order[userID], name)
	}
	if err := p.SetSongs(songs); err != nil {
		return nil, err
	}
	clone := *p
	return &clone, nil
}

func (r *fakePlaylistRepo) Delete(userID int64, name string) error {
	if _, ok := r.playlists[userID][name]; !ok {
		return repository.ErrPlaylistNotFound
	}
	delete(r.playlists[userID], name)
	for i, n := range r.order[userID] {
		if n == name {
			r.order[userID] = append(r.order[userID][:i], r.order[userID][i+1:]...)
			break
		}
	}
	return nil
}

type testEnv struct {
	router    *mux.Router
	userRepo  *fakeUserRepo
	playlists *fakePlaylistRepo
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	auth.InitTokens("test-secret", time.Minute)

	cfg := &config.Config{RegistrationCode: "Happy"}
	userRepo := newFakeUserRepo()
	playlists := newFakePlaylistRepo()
	lib := library.NewService(t.TempDir(), time.Minute)

	handler := NewAPIHandler(userRepo, playlists, nil, lib, cfg)
	return &testEnv{
		router:    handler.Routes(),
		userRepo:  userRepo,
		playlists: playlists,
	}
}

func (e *testEnv) do(t *testing.T, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) register(t *testing.T, username, password, code string) *httptest.ResponseRecorder {
	t.Helper()
	body, _ := json.Marshal(RegisterRequest{Username: username, Password: password, Code: code})
	req := httptest.NewRequest(http.MethodPost, "/register", bytes.NewReader(body))
	return e.do(t, req)
}

func (e *testEnv) login(t *testing.T, username, password string) *httptest.ResponseRecorder {
	t.Helper()
	form := url.Values{"username": {username}, "password": {password}}
	req := httptest.NewRequest(http.MethodPost, "/token", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return e.do(t, req)
}

// token registers the user (if needed) and returns a valid bearer token.
func (e *testEnv) token(t *testing.T, username, password string) string {
	t.Helper()
	if _, exists := e.userRepo.users[username]; !exists {
		rec := e.register(t, username, password, "Happy")
		require.Equal(t, http.StatusOK, rec.Code)
	}
	rec := e.login(t, username, password)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp TokenResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "bearer", resp.TokenType)
	return resp.AccessToken
}

func TestRegister(t *testing.T) {
	env := newTestEnv(t)

	rec := env.register(t, "alice", "pw1", "Happy")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "alice", resp["username"])
	assert.NotContains(t, rec.Body.String(), "password")
}

func TestRegisterDuplicateUsername(t *testing.T) {
	env := newTestEnv(t)

	rec := env.register(t, "alice", "pw1", "Happy")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.register(t, "alice", "pw2", "Happy")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRegisterInvalidCode(t *testing.T) {
	env := newTestEnv(t)

	rec := env.register(t, "alice", "pw1", "Sad")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRegisterMissingFields(t *testing.T) {
	env := newTestEnv(t)

	rec := env.register(t, "", "", "Happy")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLogin(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "alice", "pw1", "Happy")

	rec := env.login(t, "alice", "pw1")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp TokenResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, "bearer", resp.TokenType)
}

func TestLoginWrongPassword(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "alice", "pw1", "Happy")

	rec := env.login(t, "alice", "wrong")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLoginUnknownUser(t *testing.T) {
	env := newTestEnv(t)

	rec := env.login(t, "nobody", "pw")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMe(t *testing.T) {
	env := newTestEnv(t)
	token := env.token(t, "alice", "pw1")

	req := httptest.NewRequest(http.MethodGet, "/users/me/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := env.do(t, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var user model.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &user))
	assert.Equal(t, "alice", user.Username)
	assert.NotContains(t, rec.Body.String(), "pw1")
}

func TestAuthGateRejectsBadTokens(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "alice", "pw1", "Happy")

	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, auth.Claims{
		UserID:   1,
		Username: "alice",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "alice",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
	}{
		{"no header", ""},
		{"not bearer", "Basic abc"},
		{"malformed token", "Bearer not-a-jwt"},
		{"expired token", "Bearer " + expired},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/pc_get_playlist_List", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := env.do(t, req)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}

func TestAuthGateRejectsDeletedUser(t *testing.T) {
	env := newTestEnv(t)
	token := env.token(t, "alice", "pw1")

	// The token is still live, but the subject no longer resolves.
	delete(env.userRepo.users, "alice")

	req := httptest.NewRequest(http.MethodGet, "/pc_get_playlist_List", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := env.do(t, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

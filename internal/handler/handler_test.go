package handler

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/GoArmGo/JokesApp/internal/auth"
	"github.com/GoArmGo/JokesApp/internal/core/ports"
	"github.com/GoArmGo/JokesApp/internal/domain"
	"github.com/GoArmGo/JokesApp/internal/session"
	"github.com/GoArmGo/JokesApp/internal/usecase"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- in-memory хранилища ---

type memUserStorage struct {
	mu    sync.Mutex
	users map[string]*domain.User
}

func newMemUserStorage() *memUserStorage {
	return &memUserStorage{users: make(map[string]*domain.User)}
}

func (m *memUserStorage) GetUserByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, nil
}

func (m *memUserStorage) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.users[username], nil
}

func (m *memUserStorage) CreateUser(ctx context.Context, username, passwordHash string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.users[username]; exists {
		return nil, ports.ErrUsernameTaken
	}
	u := &domain.User{ID: uuid.New(), Username: username, PasswordHash: passwordHash, CreatedAt: time.Now(), UpdatedAt: time.Now()}
	m.users[username] = u
	return u, nil
}

type memJokeStorage struct {
	mu    sync.Mutex
	jokes map[uuid.UUID]*domain.Joke
}

func newMemJokeStorage() *memJokeStorage {
	return &memJokeStorage{jokes: make(map[uuid.UUID]*domain.Joke)}
}

func (m *memJokeStorage) GetJokeByID(ctx context.Context, id uuid.UUID) (*domain.Joke, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.jokes[id], nil
}

func (m *memJokeStorage) ListJokes(ctx context.Context, limit int) ([]domain.Joke, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	all := make([]domain.Joke, 0, len(m.jokes))
	for _, j := range m.jokes {
		all = append(all, *j)
	}
	sort.Slice(all, func(i, k int) bool { return all[i].CreatedAt.After(all[k].CreatedAt) })
	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

func (m *memJokeStorage) CountJokes(ctx context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.jokes)), nil
}

func (m *memJokeStorage) GetJokeByOffset(ctx context.Context, offset int64) (*domain.Joke, error) {
	all, err := m.ListJokes(ctx, int(offset)+1)
	if err != nil || int64(len(all)) <= offset {
		return nil, err
	}
	return &all[offset], nil
}

func (m *memJokeStorage) CreateJoke(ctx context.Context, joke *domain.Joke) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *joke
	m.jokes[joke.ID] = &copied
	return nil
}

func (m *memJokeStorage) DeleteJoke(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.jokes, id)
	return nil
}

// --- сборка тестового роутера (зеркало боевого) ---

type testEnv struct {
	router *chi.Mux
	users  *memUserStorage
	jokes  *memJokeStorage
}

func newTestEnv() *testEnv {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	users := newMemUserStorage()
	jokes := newMemJokeStorage()

	sessions := session.NewManager(session.NewCodec("test-secret"), false)
	gate := auth.NewGate(sessions, users, logger)

	jokeHandler := NewJokeHandler(usecase.NewJokeUseCase(jokes, logger), gate, logger)
	authHandler := NewAuthHandler(usecase.NewAuthUseCase(users, logger), sessions, logger)

	r := chi.NewRouter()
	r.Get("/jokes", jokeHandler.GetJokesOverview)
	r.Get("/jokes/random", jokeHandler.GetRandomJoke)
	r.Get("/jokes/new", jokeHandler.GetNewJokeForm)
	r.Post("/jokes", jokeHandler.CreateJoke)
	r.Get("/jokes/{jokeID}", jokeHandler.GetJoke)
	r.Post("/jokes/{jokeID}", jokeHandler.DeleteJoke)
	r.Post("/login", authHandler.Login)
	r.Post("/logout", authHandler.Logout)
	r.Get("/logout", authHandler.LogoutPage)

	return &testEnv{router: r, users: users, jokes: jokes}
}

func (e *testEnv) postForm(path string, form url.Values, cookie *http.Cookie) *httptest.ResponseRecorder {
	r := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if cookie != nil {
		r.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, r)
	return w
}

func (e *testEnv) get(path string, cookie *http.Cookie) *httptest.ResponseRecorder {
	r := httptest.NewRequest(http.MethodGet, path, nil)
	if cookie != nil {
		r.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, r)
	return w
}

func sessionCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name == session.CookieName && c.Value != "" {
			return c
		}
	}
	t.Fatal("no session cookie in response")
	return nil
}

func loginForm(loginType, username, password string) url.Values {
	return url.Values{
		"loginType": {loginType},
		"username":  {username},
		"password":  {password},
	}
}

// --- tests ---

func TestRegisterValidation(t *testing.T) {
	env := newTestEnv()

	w := env.postForm("/login", loginForm("register", "al", "short"), nil)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var data loginActionData
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &data))
	require.NotNil(t, data.FieldErrors)
	assert.Equal(t, "Usernames must be at least 3 characters long", data.FieldErrors.Username)
	assert.Equal(t, "Passwords must be at least 6 characters long", data.FieldErrors.Password)
}

func TestLoginUnknownLoginType(t *testing.T) {
	env := newTestEnv()

	w := env.postForm("/login", loginForm("oauth", "alice", "secret1"), nil)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var data loginActionData
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &data))
	assert.Equal(t, "Login type invalid", data.FormError)
}

func TestLoginWrongCredentials(t *testing.T) {
	env := newTestEnv()

	w := env.postForm("/login", loginForm("register", "alice", "secret1"), nil)
	require.Equal(t, http.StatusFound, w.Code)

	// неизвестное имя и неверный пароль дают один и тот же ответ
	for _, form := range []url.Values{
		loginForm("login", "alice", "wrong-password"),
		loginForm("login", "nobody", "secret1"),
	} {
		w := env.postForm("/login", form, nil)
		require.Equal(t, http.StatusBadRequest, w.Code)

		var data loginActionData
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &data))
		assert.Equal(t, "Username/Password combination is incorrect", data.FormError)
	}
}

func TestRegisterDuplicate(t *testing.T) {
	env := newTestEnv()

	w := env.postForm("/login", loginForm("register", "alice", "secret1"), nil)
	require.Equal(t, http.StatusFound, w.Code)

	w = env.postForm("/login", loginForm("register", "alice", "another1"), nil)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var data loginActionData
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &data))
	assert.Equal(t, "User with username alice already exists", data.FormError)
}

func TestRedirectToAllowList(t *testing.T) {
	env := newTestEnv()

	form := loginForm("register", "alice", "secret1")
	form.Set("redirectTo", "https://evil.example.com")

	w := env.postForm("/login", form, nil)
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/jokes", w.Header().Get("Location"))
}

func TestJokesOverviewAnonymous(t *testing.T) {
	env := newTestEnv()

	w := env.get("/jokes", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		User          *sessionUser   `json:"user"`
		JokeListItems []jokeListItem `json:"jokeListItems"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Nil(t, body.User)
	assert.Empty(t, body.JokeListItems)
}

func TestRandomJokeEmpty(t *testing.T) {
	env := newTestEnv()

	w := env.get("/jokes/random", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestNewJokeFormRequiresAuth(t *testing.T) {
	env := newTestEnv()

	w := env.get("/jokes/new", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCreateJokeAnonymousRedirects(t *testing.T) {
	env := newTestEnv()

	w := env.postForm("/jokes", url.Values{
		"name":    {"Frisbee"},
		"content": {"I was wondering why the frisbee was getting bigger, then it hit me."},
	}, nil)

	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login?redirectTo=%2Fjokes", w.Header().Get("Location"))
}

func TestCreateJokeValidation(t *testing.T) {
	env := newTestEnv()

	w := env.postForm("/login", loginForm("register", "alice", "secret1"), nil)
	cookie := sessionCookie(t, w)

	w = env.postForm("/jokes", url.Values{
		"name":    {"ab"},
		"content": {"too short"},
	}, cookie)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var data jokeActionData
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &data))
	require.NotNil(t, data.FieldErrors)
	assert.Equal(t, "That joke's name is too short", data.FieldErrors.Name)
	assert.Equal(t, "That joke is too short", data.FieldErrors.Content)
}

func TestDeleteJokeBadMethodOverride(t *testing.T) {
	env := newTestEnv()

	// значение _method проверяется раньше любой авторизации
	w := env.postForm("/jokes/"+uuid.NewString(), url.Values{"_method": {"remove"}}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// Полный сценарий: регистрация → вход → создание → попытки удаления.
func TestJokeLifecycleEndToEnd(t *testing.T) {
	env := newTestEnv()

	// регистрация alice
	w := env.postForm("/login", loginForm("register", "alice", "secret1"), nil)
	require.Equal(t, http.StatusFound, w.Code)

	// вход с теми же кредами выставляет сессионную куку
	w = env.postForm("/login", loginForm("login", "alice", "secret1"), nil)
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/jokes", w.Header().Get("Location"))
	alice := sessionCookie(t, w)

	// alice создаёт шутку
	w = env.postForm("/jokes", url.Values{
		"name":    {"R1 joke"},
		"content": {"I was wondering why the frisbee was getting bigger, then it hit me."},
	}, alice)
	require.Equal(t, http.StatusFound, w.Code)

	location := w.Header().Get("Location")
	require.True(t, strings.HasPrefix(location, "/jokes/"))
	jokeID := strings.TrimPrefix(location, "/jokes/")

	// аноним пытается удалить — redirect на логин, шутка на месте
	w = env.postForm(location, url.Values{"_method": {"delete"}}, nil)
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login?redirectTo="+url.QueryEscape(location), w.Header().Get("Location"))

	w = env.get(location, nil)
	require.Equal(t, http.StatusOK, w.Code)

	// второй пользователь пытается удалить — 401, шутка на месте
	w = env.postForm("/login", loginForm("register", "bob", "secret2"), nil)
	require.Equal(t, http.StatusFound, w.Code)
	bob := sessionCookie(t, w)

	w = env.postForm(location, url.Values{"_method": {"delete"}}, bob)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.get(location, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var detail struct {
		Joke    domain.Joke `json:"joke"`
		IsOwner bool        `json:"isOwner"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &detail))
	assert.Equal(t, jokeID, detail.Joke.ID.String())
	assert.False(t, detail.IsOwner)

	// владелец удаляет — шутка исчезает, счётчик уменьшается
	countBefore, err := env.jokes.CountJokes(context.Background())
	require.NoError(t, err)

	w = env.postForm(location, url.Values{"_method": {"delete"}}, alice)
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/jokes", w.Header().Get("Location"))

	countAfter, err := env.jokes.CountJokes(context.Background())
	require.NoError(t, err)
	assert.Equal(t, countBefore-1, countAfter)

	w = env.get(location, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// удалить несуществующую — 404
	w = env.postForm(location, url.Values{"_method": {"delete"}}, alice)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteUnknownJokeNotFound(t *testing.T) {
	env := newTestEnv()

	w := env.postForm("/login", loginForm("register", "alice", "secret1"), nil)
	cookie := sessionCookie(t, w)

	w = env.postForm("/jokes/"+uuid.NewString(), url.Values{"_method": {"delete"}}, cookie)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestLogoutClearsSession(t *testing.T) {
	env := newTestEnv()

	w := env.postForm("/login", loginForm("register", "alice", "secret1"), nil)
	cookie := sessionCookie(t, w)

	w = env.postForm("/logout", nil, cookie)
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))

	var cleared *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == session.CookieName {
			cleared = c
		}
	}
	require.NotNil(t, cleared)
	assert.Empty(t, cleared.Value)
	assert.Less(t, cleared.MaxAge, 0)
}

func TestJokesOverviewWithDanglingSession(t *testing.T) {
	env := newTestEnv()

	// собираем куку для пользователя, которого нет в хранилище
	sessions := session.NewManager(session.NewCodec("test-secret"), false)
	rec := httptest.NewRecorder()
	sessions.Write(rec, session.Payload{UserID: uuid.NewString()})
	cookie := rec.Result().Cookies()[0]

	w := env.get("/jokes", cookie)
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
}

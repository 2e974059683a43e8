package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/GoArmGo/JokesApp/internal/core/ports"
	"github.com/GoArmGo/JokesApp/internal/session"
	"github.com/GoArmGo/JokesApp/internal/usecase"
)

// defaultRedirect — безопасный пункт назначения после входа
const defaultRedirect = "/jokes"

// allowedRedirects — допустимые значения redirectTo.
// Всё, чего нет в списке, заменяется на defaultRedirect: значение приходит
// из формы и без allow-list превращается в open redirect.
var allowedRedirects = []string{"/jokes", "/", "https://remix.run"}

// AuthHandler — обработчик HTTP-запросов входа, регистрации и выхода.
type AuthHandler struct {
	authUseCase usecase.AuthUseCase
	sessions    *session.Manager
	logger      *slog.Logger
}

// NewAuthHandler создаёт новый экземпляр AuthHandler.
func NewAuthHandler(uc usecase.AuthUseCase, sessions *session.Manager, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		authUseCase: uc,
		sessions:    sessions,
		logger:      logger,
	}
}

// loginActionData — структура ошибок формы входа/регистрации
type loginActionData struct {
	FieldErrors *loginFieldErrors `json:"fieldErrors,omitempty"`
	Fields      *loginFields      `json:"fields,omitempty"`
	FormError   string            `json:"formError,omitempty"`
}

type loginFieldErrors struct {
	Username string `json:"username,omitempty"`
	Password string `json:"password,omitempty"`
}

type loginFields struct {
	LoginType string `json:"loginType"`
	Username  string `json:"username"`
	Password  string `json:"password"`
}

func validateUsername(username string) string {
	if len(username) < 3 {
		return "Usernames must be at least 3 characters long"
	}
	return ""
}

func validatePassword(password string) string {
	if len(password) < 6 {
		return "Passwords must be at least 6 characters long"
	}
	return ""
}

func validateRedirect(url string) string {
	for _, allowed := range allowedRedirects {
		if url == allowed {
			return url
		}
	}
	return defaultRedirect
}

// Login — обрабатывает форму входа/регистрации.
// Поле loginType выбирает режим: "login" или "register", всё остальное — 400.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		respondWithJSON(w, http.StatusBadRequest, loginActionData{FormError: "Form not submitted correctly."}, h.logger)
		return
	}

	loginType := r.PostFormValue("loginType")
	username := r.PostFormValue("username")
	password := r.PostFormValue("password")
	redirectTo := validateRedirect(r.PostFormValue("redirectTo"))

	fields := loginFields{LoginType: loginType, Username: username, Password: password}
	fieldErrors := loginFieldErrors{
		Username: validateUsername(username),
		Password: validatePassword(password),
	}
	if fieldErrors.Username != "" || fieldErrors.Password != "" {
		respondWithJSON(w, http.StatusBadRequest, loginActionData{
			FieldErrors: &fieldErrors,
			Fields:      &fields,
		}, h.logger)
		return
	}

	switch loginType {
	case "login":
		user, err := h.authUseCase.Login(r.Context(), username, password)
		if err != nil {
			h.logger.Error("login failed", "error", err)
			respondWithError(w, http.StatusInternalServerError, "Something went wrong trying to log in.", h.logger)
			return
		}
		if user == nil {
			respondWithJSON(w, http.StatusBadRequest, loginActionData{
				FormError: "Username/Password combination is incorrect",
				Fields:    &fields,
			}, h.logger)
			return
		}

		h.createUserSession(w, r, user.ID.String(), redirectTo)

	case "register":
		user, err := h.authUseCase.Register(r.Context(), username, password)
		if err != nil {
			if errors.Is(err, ports.ErrUsernameTaken) {
				respondWithJSON(w, http.StatusBadRequest, loginActionData{
					FormError: "User with username " + username + " already exists",
					Fields:    &fields,
				}, h.logger)
				return
			}
			h.logger.Error("registration failed", "error", err)
			respondWithJSON(w, http.StatusBadRequest, loginActionData{
				FormError: "Something went wrong trying to create a new user.",
				Fields:    &fields,
			}, h.logger)
			return
		}

		h.createUserSession(w, r, user.ID.String(), redirectTo)

	default:
		respondWithJSON(w, http.StatusBadRequest, loginActionData{
			FormError: "Login type invalid",
			Fields:    &fields,
		}, h.logger)
	}
}

// createUserSession выставляет свежую сессионную куку и делает redirect
func (h *AuthHandler) createUserSession(w http.ResponseWriter, r *http.Request, userID, redirectTo string) {
	h.sessions.Write(w, session.Payload{UserID: userID})
	http.Redirect(w, r, redirectTo, http.StatusFound)
}

// Logout — сбрасывает сессию и уводит на корень сервиса.
// Существующая сессия намеренно не читается и не проверяется:
// выход всегда безусловный.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.sessions.Clear(w)
	http.Redirect(w, r, "/", http.StatusFound)
}

// LogoutPage — GET на /logout просто возвращает на корень
func (h *AuthHandler) LogoutPage(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/", http.StatusFound)
}

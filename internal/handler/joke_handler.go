package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/GoArmGo/JokesApp/internal/auth"
	"github.com/GoArmGo/JokesApp/internal/domain"
	"github.com/GoArmGo/JokesApp/internal/usecase"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// recentJokesLimit — сколько шуток показывается в списке последних
const recentJokesLimit = 5

// JokeHandler — обработчик HTTP-запросов для работы с шутками.
type JokeHandler struct {
	jokeUseCase usecase.JokeUseCase
	gate        *auth.Gate
	logger      *slog.Logger
}

// NewJokeHandler создаёт новый экземпляр JokeHandler.
func NewJokeHandler(uc usecase.JokeUseCase, gate *auth.Gate, logger *slog.Logger) *JokeHandler {
	return &JokeHandler{
		jokeUseCase: uc,
		gate:        gate,
		logger:      logger,
	}
}

// sessionUser — представление пользователя в ответах (без хеша пароля)
type sessionUser struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
}

// jokeListItem — краткое представление шутки в списке
type jokeListItem struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// jokeActionData — структура ошибок формы создания шутки
type jokeActionData struct {
	FieldErrors *jokeFieldErrors `json:"fieldErrors,omitempty"`
	Fields      *jokeFields      `json:"fields,omitempty"`
	FormError   string           `json:"formError,omitempty"`
}

type jokeFieldErrors struct {
	Name    string `json:"name,omitempty"`
	Content string `json:"content,omitempty"`
}

type jokeFields struct {
	Name    string `json:"name"`
	Content string `json:"content"`
}

func validateJokeName(name string) string {
	if len(name) < 3 {
		return "That joke's name is too short"
	}
	return ""
}

func validateJokeContent(content string) string {
	if len(content) < 10 {
		return "That joke is too short"
	}
	return ""
}

// GetJokesOverview — отдаёт текущего пользователя (если есть) и последние шутки.
func (h *JokeHandler) GetJokesOverview(w http.ResponseWriter, r *http.Request) {
	user, ok := h.gate.User(w, r)
	if !ok {
		// сессия ссылалась на несуществующего пользователя, redirect уже записан
		return
	}

	jokes, err := h.jokeUseCase.RecentJokes(r.Context(), recentJokesLimit)
	if err != nil {
		h.logger.Error("failed to list recent jokes", "error", err)
		respondWithError(w, http.StatusInternalServerError, "Failed to load jokes", h.logger)
		return
	}

	items := make([]jokeListItem, 0, len(jokes))
	for _, j := range jokes {
		items = append(items, jokeListItem{ID: j.ID, Name: j.Name})
	}

	var su *sessionUser
	if user != nil {
		su = &sessionUser{ID: user.ID, Username: user.Username}
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"user":          su,
		"jokeListItems": items,
	}, h.logger)
}

// GetRandomJoke — отдаёт случайную шутку.
func (h *JokeHandler) GetRandomJoke(w http.ResponseWriter, r *http.Request) {
	joke, err := h.jokeUseCase.RandomJoke(r.Context())
	if err != nil {
		if errors.Is(err, usecase.ErrJokeNotFound) {
			respondWithError(w, http.StatusNotFound, "No random joke found", h.logger)
			return
		}
		h.logger.Error("failed to get random joke", "error", err)
		respondWithError(w, http.StatusInternalServerError, "Failed to load a random joke", h.logger)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]*domain.Joke{"randomJoke": joke}, h.logger)
}

// GetNewJokeForm — проверка доступа к форме создания шутки.
// Анонимному вызывающему — 401, как в форме, так и в API.
func (h *JokeHandler) GetNewJokeForm(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.gate.UserID(r); !ok {
		respondWithError(w, http.StatusUnauthorized, "Unauthorized", h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{}, h.logger)
}

// CreateJoke — создаёт шутку от имени аутентифицированного пользователя.
func (h *JokeHandler) CreateJoke(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.gate.RequireUserID(w, r)
	if !ok {
		return
	}

	if err := r.ParseForm(); err != nil {
		respondWithJSON(w, http.StatusBadRequest, jokeActionData{FormError: "Form not submitted correctly."}, h.logger)
		return
	}

	name := r.PostFormValue("name")
	content := r.PostFormValue("content")

	fieldErrors := jokeFieldErrors{
		Name:    validateJokeName(name),
		Content: validateJokeContent(content),
	}
	if fieldErrors.Name != "" || fieldErrors.Content != "" {
		respondWithJSON(w, http.StatusBadRequest, jokeActionData{
			FieldErrors: &fieldErrors,
			Fields:      &jokeFields{Name: name, Content: content},
		}, h.logger)
		return
	}

	joke, err := h.jokeUseCase.CreateJoke(r.Context(), userID, name, content)
	if err != nil {
		h.logger.Error("failed to create joke", "user_id", userID, "error", err)
		respondWithError(w, http.StatusInternalServerError, "Failed to create the joke", h.logger)
		return
	}

	http.Redirect(w, r, "/jokes/"+joke.ID.String(), http.StatusFound)
}

// GetJoke — отдаёт шутку по ID вместе с признаком владения.
func (h *JokeHandler) GetJoke(w http.ResponseWriter, r *http.Request) {
	jokeID, err := uuid.Parse(chi.URLParam(r, "jokeID"))
	if err != nil {
		respondWithError(w, http.StatusNotFound, "What a joke! Not found.", h.logger)
		return
	}

	joke, err := h.jokeUseCase.GetJoke(r.Context(), jokeID)
	if err != nil {
		if errors.Is(err, usecase.ErrJokeNotFound) {
			respondWithError(w, http.StatusNotFound, "What a joke! Not found.", h.logger)
			return
		}
		h.logger.Error("failed to get joke", "joke_id", jokeID, "error", err)
		respondWithError(w, http.StatusInternalServerError, "Failed to load the joke", h.logger)
		return
	}

	callerID, _ := h.gate.UserID(r)

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"joke":    joke,
		"isOwner": callerID == joke.UserID,
	}, h.logger)
}

// DeleteJoke — удаляет шутку её владельцем.
// Протокол: форма с полем _method, значение обязано быть ровно "delete";
// всё остальное — 400 ещё до каких-либо проверок авторизации.
func (h *JokeHandler) DeleteJoke(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		respondWithError(w, http.StatusBadRequest, "Form not submitted correctly.", h.logger)
		return
	}

	if method := r.PostFormValue("_method"); method != "delete" {
		respondWithError(w, http.StatusBadRequest, "The _method "+method+" is not supported", h.logger)
		return
	}

	userID, ok := h.gate.RequireUserID(w, r)
	if !ok {
		return
	}

	jokeID, err := uuid.Parse(chi.URLParam(r, "jokeID"))
	if err != nil {
		respondWithError(w, http.StatusNotFound, "Can't delete what does not exist", h.logger)
		return
	}

	if err := h.jokeUseCase.DeleteJoke(r.Context(), userID, jokeID); err != nil {
		switch {
		case errors.Is(err, usecase.ErrJokeNotFound):
			respondWithError(w, http.StatusNotFound, "Can't delete what does not exist", h.logger)
		case errors.Is(err, usecase.ErrNotJokeOwner):
			respondWithError(w, http.StatusUnauthorized, "Pssh, nice try. That's not your joke", h.logger)
		default:
			h.logger.Error("failed to delete joke", "joke_id", jokeID, "error", err)
			respondWithError(w, http.StatusInternalServerError, "Failed to delete the joke", h.logger)
		}
		return
	}

	http.Redirect(w, r, "/jokes", http.StatusFound)
}

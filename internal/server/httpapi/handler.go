package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/julienschmidt/httprouter"

	"github.com/textping/accountd/internal/common"
	"github.com/textping/accountd/internal/server/models"
)

// accountView is the client-facing shape of an account. The password digest
// and the stored token are never part of it.
type accountView struct {
	ID          int64     `json:"id"`
	Email       string    `json:"email"`
	CreatedOn   time.Time `json:"created_on"`
	PhoneNumber string    `json:"phone_number,omitempty"`
	TextTime    string    `json:"text_time,omitempty"`
	ActiveSub   bool      `json:"active_sub"`
}

func newAccountView(acc *models.Account) *accountView {
	return &accountView{
		ID:          acc.ID,
		Email:       acc.Email,
		CreatedOn:   acc.CreatedAt,
		PhoneNumber: acc.PhoneNumber,
		TextTime:    acc.TextTime,
		ActiveSub:   acc.ActiveSub,
	}
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type updateEmailRequest struct {
	Email string `json:"email"`
}

type subscribeRequest struct {
	Time   string `json:"time"`
	Number string `json:"number"`
}

func (s *Server) home() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		encodeJSON(w, http.StatusOK, map[string]any{"message": "hello world"})
	})
}

func (s *Server) register() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req credentialsRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			encodeMessage(w, http.StatusBadRequest, "invalid request body")
			return
		}

		account, token, err := s.accounts.Register(r.Context(), req.Email, req.Password)
		if err != nil {
			switch {
			case errors.Is(err, common.ErrorValidation):
				encodeMessage(w, http.StatusBadRequest, "email or password not filled out")
			case errors.Is(err, common.ErrorInvalidEmail):
				encodeMessage(w, http.StatusBadRequest, "invalid email")
			case errors.Is(err, common.ErrorAlreadyExists):
				encodeMessage(w, http.StatusConflict, "email already registered")
			default:
				s.logger.Error(r.Context(), "register failed", "error", err)
				encodeMessage(w, http.StatusInternalServerError, "internal error")
			}
			return
		}

		encodeJSON(w, http.StatusCreated, map[string]any{
			"message": "new user registered!",
			"result":  newAccountView(account),
			"token":   token,
		})
	})
}

func (s *Server) login() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req credentialsRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			encodeMessage(w, http.StatusForbidden, "invalid request body")
			return
		}

		account, token, err := s.accounts.Login(r.Context(), req.Email, req.Password)
		if err != nil {
			switch {
			case errors.Is(err, common.ErrorValidation):
				encodeMessage(w, http.StatusForbidden, "email or password not filled out")
			case errors.Is(err, common.ErrorInvalidEmail):
				encodeMessage(w, http.StatusForbidden, "invalid email")
			case errors.Is(err, common.ErrorUnauthorized):
				encodeMessage(w, http.StatusForbidden, "email or password is invalid")
			default:
				s.logger.Error(r.Context(), "login failed", "error", err)
				encodeMessage(w, http.StatusInternalServerError, "internal error")
			}
			return
		}

		encodeJSON(w, http.StatusOK, map[string]any{
			"message": "user logged in",
			"user":    newAccountView(account),
			"token":   token,
		})
	})
}

func (s *Server) profile() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := r.Header.Get(common.TokenHeaderName)

		account, err := s.accounts.ProfileByToken(r.Context(), token)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				encodeJSON(w, http.StatusOK, map[string]any{"user": nil})
				return
			}
			s.logger.Error(r.Context(), "profile lookup failed", "error", err)
			encodeMessage(w, http.StatusInternalServerError, "internal error")
			return
		}

		encodeJSON(w, http.StatusOK, map[string]any{"user": newAccountView(account)})
	})
}

func (s *Server) updateUser() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(r)
		if !ok {
			encodeMessage(w, http.StatusNotFound, "user not found")
			return
		}

		var req updateEmailRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			encodeMessage(w, http.StatusForbidden, "invalid request body")
			return
		}

		if err := s.accounts.UpdateEmail(r.Context(), id, req.Email); err != nil {
			switch {
			case errors.Is(err, common.ErrorInvalidEmail):
				encodeMessage(w, http.StatusForbidden, "invalid email")
			case errors.Is(err, common.ErrorNotFound):
				encodeMessage(w, http.StatusNotFound, "user not found")
			case errors.Is(err, common.ErrorAlreadyExists):
				encodeMessage(w, http.StatusConflict, "email already registered")
			default:
				s.logger.Error(r.Context(), "update failed", "error", err, "id", id)
				encodeMessage(w, http.StatusInternalServerError, "internal error")
			}
			return
		}

		encodeJSON(w, http.StatusOK, map[string]any{"message": "user successfully updated"})
	})
}

func (s *Server) deleteUser() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(r)
		if !ok {
			encodeMessage(w, http.StatusNotFound, "user not found")
			return
		}

		account, err := s.accounts.Delete(r.Context(), id)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				encodeMessage(w, http.StatusNotFound, "user not found")
				return
			}
			s.logger.Error(r.Context(), "delete failed", "error", err, "id", id)
			encodeMessage(w, http.StatusInternalServerError, "internal error")
			return
		}

		encodeJSON(w, http.StatusOK, map[string]any{
			"message": "deleted",
			"user":    newAccountView(account),
		})
	})
}

func (s *Server) subscribe() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req subscribeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			encodeMessage(w, http.StatusBadRequest, "invalid request body")
			return
		}

		token := r.Header.Get(common.TokenHeaderName)

		if err := s.accounts.Subscribe(r.Context(), token, req.Time, req.Number); err != nil {
			switch {
			case errors.Is(err, common.ErrorValidation):
				encodeMessage(w, http.StatusBadRequest, "phone number and time to receive text are required")
			case errors.Is(err, common.ErrorUnauthorized):
				encodeMessage(w, http.StatusForbidden, "invalid token")
			default:
				s.logger.Error(r.Context(), "subscribe failed", "error", err)
				encodeMessage(w, http.StatusInternalServerError, "internal error")
			}
			return
		}

		encodeJSON(w, http.StatusOK, map[string]any{"message": "subscription successfully set"})
	})
}

// pathID pulls the numeric :id segment out of the request path.
func pathID(r *http.Request) (int64, bool) {
	params := httprouter.ParamsFromContext(r.Context())
	id, err := strconv.ParseInt(params.ByName("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func encodeJSON(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}

func encodeMessage(w http.ResponseWriter, code int, msg string) {
	encodeJSON(w, code, map[string]any{"message": msg})
}

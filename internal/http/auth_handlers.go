package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	httpmiddleware "github.com/cadastrounificado/api/internal/http/middleware"
	"github.com/cadastrounificado/api/internal/service"
)

// Info descreve a API na raiz pública.
func (h *Handler) Info(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]any{
		"name":    "API Cadastro Unificado",
		"version": "v1",
		"endpoints": map[string]string{
			"auth":     "/api/v1/auth",
			"cadastro": "/api/v1/cadastro",
			"health":   "/api/v1/health",
		},
	})
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Ready valida conexões com Postgres e Redis.
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.pool.Ping(ctx); err != nil {
		WriteError(w, http.StatusServiceUnavailable, "banco de dados indisponível")
		return
	}
	if err := h.redis.Ping(ctx).Err(); err != nil {
		WriteError(w, http.StatusServiceUnavailable, "redis indisponível")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]bool{"ready": true})
}

// Login autentica por username e senha e emite par de tokens.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}

	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteError(w, http.StatusBadRequest, "JSON inválido")
		return
	}

	if strings.TrimSpace(payload.Username) == "" || payload.Password == "" {
		WriteError(w, http.StatusBadRequest, "username e password são obrigatórios")
		return
	}

	result, err := h.authService.Login(r.Context(), payload.Username, payload.Password)
	if err != nil {
		h.handleAuthError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"token":   result.AccessToken,
		"refresh": result.RefreshToken,
		"user":    result.Profile,
	})
}

// Refresh rotaciona o refresh token e emite novo token de acesso.
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Refresh string `json:"refresh"`
	}

	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteError(w, http.StatusBadRequest, "JSON inválido")
		return
	}

	result, err := h.authService.Refresh(r.Context(), payload.Refresh)
	if err != nil {
		h.handleAuthError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"token":   result.AccessToken,
		"refresh": result.RefreshToken,
	})
}

// Logout revoga o refresh token informado. Sempre responde sucesso.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Refresh string `json:"refresh"`
	}
	_ = json.NewDecoder(r.Body).Decode(&payload)

	_ = h.authService.Logout(r.Context(), payload.Refresh)

	WriteJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "logout efetuado",
	})
}

// Register cria conta de usuário comum.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Username        string `json:"username"`
		Email           string `json:"email"`
		Password        string `json:"password"`
		PasswordConfirm string `json:"password_confirm"`
		FirstName       string `json:"first_name"`
		LastName        string `json:"last_name"`
	}

	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteError(w, http.StatusBadRequest, "JSON inválido")
		return
	}

	profile, err := h.authService.Register(r.Context(), service.RegisterParams{
		Username:        payload.Username,
		Email:           payload.Email,
		Password:        payload.Password,
		PasswordConfirm: payload.PasswordConfirm,
		FirstName:       payload.FirstName,
		LastName:        payload.LastName,
	})
	if err != nil {
		h.handleAuthError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, profile)
}

// Profile retorna os dados do usuário autenticado.
func (h *Handler) Profile(w http.ResponseWriter, r *http.Request) {
	subject, err := h.subjectUUID(r)
	if err != nil {
		WriteError(w, http.StatusUnauthorized, "identificação inválida")
		return
	}

	profile, err := h.authService.GetProfile(r.Context(), subject)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "não foi possível carregar perfil")
		return
	}

	WriteJSON(w, http.StatusOK, profile)
}

// ChangePassword troca a senha do usuário autenticado.
func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	subject, err := h.subjectUUID(r)
	if err != nil {
		WriteError(w, http.StatusUnauthorized, "identificação inválida")
		return
	}

	var payload struct {
		CurrentPassword string `json:"current_password"`
		NewPassword     string `json:"new_password"`
	}

	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteError(w, http.StatusBadRequest, "JSON inválido")
		return
	}

	if err := h.authService.ChangePassword(r.Context(), subject, payload.CurrentPassword, payload.NewPassword); err != nil {
		h.handleAuthError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "senha alterada",
	})
}

func (h *Handler) subjectUUID(r *http.Request) (uuid.UUID, error) {
	return uuid.Parse(httpmiddleware.GetSubject(r.Context()))
}

func (h *Handler) handleAuthError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		WriteError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, service.ErrRefreshInvalid):
		WriteError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, service.ErrAccountDisabled):
		WriteError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, service.ErrWrongPassword):
		WriteError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrUsernameTaken):
		WriteError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrValidation):
		WriteError(w, http.StatusBadRequest, err.Error())
	default:
		WriteError(w, http.StatusInternalServerError, "erro interno")
	}
}

package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/cadastrounificado/api/internal/auth"
	"github.com/cadastrounificado/api/internal/cadastro"
	"github.com/cadastrounificado/api/internal/config"
	"github.com/cadastrounificado/api/internal/repo"
	"github.com/cadastrounificado/api/internal/service"
)

type memAuthRepo struct {
	usuarios map[uuid.UUID]repo.Usuario
	tokens   map[string]repo.TokenRefresh
}

func newMemAuthRepo() *memAuthRepo {
	return &memAuthRepo{
		usuarios: map[uuid.UUID]repo.Usuario{},
		tokens:   map[string]repo.TokenRefresh{},
	}
}

func (m *memAuthRepo) GetUsuarioByUsername(ctx context.Context, username string) (repo.Usuario, error) {
	for _, u := range m.usuarios {
		if u.Username == username {
			return u, nil
		}
	}
	return repo.Usuario{}, repo.ErrNotFound
}

func (m *memAuthRepo) GetUsuarioByID(ctx context.Context, id uuid.UUID) (repo.Usuario, error) {
	u, ok := m.usuarios[id]
	if !ok {
		return repo.Usuario{}, repo.ErrNotFound
	}
	return u, nil
}

func (m *memAuthRepo) InsertUsuario(ctx context.Context, arg repo.InsertUsuarioParams) (repo.Usuario, error) {
	for _, u := range m.usuarios {
		if u.Username == arg.Username {
			return repo.Usuario{}, repo.ErrConflict
		}
	}
	u := repo.Usuario{
		ID:        arg.ID,
		Username:  arg.Username,
		Email:     arg.Email,
		SenhaHash: arg.SenhaHash,
		Staff:     arg.Staff,
		Ativo:     arg.Ativo,
		CriadoEm:  time.Now().UTC(),
	}
	m.usuarios[u.ID] = u
	return u, nil
}

func (m *memAuthRepo) UpdateSenhaHash(ctx context.Context, id uuid.UUID, senhaHash string) error {
	u, ok := m.usuarios[id]
	if !ok {
		return repo.ErrNotFound
	}
	u.SenhaHash = senhaHash
	m.usuarios[id] = u
	return nil
}

func (m *memAuthRepo) InsertRefreshToken(ctx context.Context, arg repo.InsertRefreshTokenParams) (repo.TokenRefresh, error) {
	t := repo.TokenRefresh{
		ID:        arg.ID,
		Subject:   arg.Subject,
		TokenHash: arg.TokenHash,
		Expiracao: arg.Expiracao,
		CriadoEm:  arg.CriadoEm,
	}
	m.tokens[arg.TokenHash] = t
	return t, nil
}

func (m *memAuthRepo) GetRefreshTokenByHash(ctx context.Context, tokenHash string) (repo.TokenRefresh, error) {
	t, ok := m.tokens[tokenHash]
	if !ok {
		return repo.TokenRefresh{}, repo.ErrNotFound
	}
	return t, nil
}

func (m *memAuthRepo) RevokeRefreshToken(ctx context.Context, tokenHash string) error {
	t, ok := m.tokens[tokenHash]
	if !ok {
		return repo.ErrNotFound
	}
	t.Revogado = true
	m.tokens[tokenHash] = t
	return nil
}

// noopStore satisfaz cadastro.Store; as rotas do cadastro não são alvo aqui.
type noopStore struct {
	cadastro.Store
}

func newTestAPI(t *testing.T) (http.Handler, *memAuthRepo) {
	t.Helper()

	mr := miniredis.RunT(t)
	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	cfg := &config.Config{
		JWTAccessTTL:    time.Hour,
		JWTRefreshTTL:   7 * 24 * time.Hour,
		JWTSecret:       "segredo-de-teste-com-32-caracteres!",
		RateLimitPublic: config.RateLimitConfig{RequestsPerSecond: 100, Burst: 100},
		RateLimitAuth:   config.RateLimitConfig{RequestsPerSecond: 100, Burst: 100},
	}

	repository := newMemAuthRepo()
	jwtMgr := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTAccessTTL)
	authService := service.NewAuthService(repository, redisClient, jwtMgr, cfg.JWTRefreshTTL)

	return NewRouter(cfg, nil, redisClient, authService, noopStore{}), repository
}

func seedAPIUser(t *testing.T, m *memAuthRepo, username, password string) repo.Usuario {
	t.Helper()

	hash, err := auth.Hash(password)
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	u := repo.Usuario{
		ID:        uuid.New(),
		Username:  username,
		Email:     username + "@example.org",
		SenhaHash: hash,
		Ativo:     true,
		CriadoEm:  time.Now().UTC(),
	}
	m.usuarios[u.ID] = u
	return u
}

func postJSON(t *testing.T, router http.Handler, target string, payload any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if payload != nil {
		if err := json.NewEncoder(&buf).Encode(payload); err != nil {
			t.Fatalf("encode: %v", err)
		}
	}
	req := httptest.NewRequest(http.MethodPost, target, &buf)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func getJSON(t *testing.T, router http.Handler, target string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, target, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	router, _ := newTestAPI(t)

	rec := getJSON(t, router, "/api/v1/health/", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, esperado 200", rec.Code)
	}
}

func TestInfo(t *testing.T) {
	router, _ := newTestAPI(t)

	rec := getJSON(t, router, "/api/v1/", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, esperado 200", rec.Code)
	}

	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["version"] != "v1" {
		t.Errorf("version = %v", body["version"])
	}
}

func TestLoginEndpoint(t *testing.T) {
	router, repository := newTestAPI(t)
	seedAPIUser(t, repository, "maria", "senha-valida")

	rec := postJSON(t, router, "/api/v1/auth/login/", map[string]string{
		"username": "maria",
		"password": "senha-valida",
	}, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, esperado 200: %s", rec.Code, rec.Body)
	}

	var body struct {
		Success bool                `json:"success"`
		Token   string              `json:"token"`
		Refresh string              `json:"refresh"`
		User    service.UserProfile `json:"user"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !body.Success || body.Token == "" || body.Refresh == "" {
		t.Errorf("resposta incompleta: %+v", body)
	}
	if body.User.Username != "maria" {
		t.Errorf("user.username = %q", body.User.Username)
	}
}

func TestLoginWrongCredentials(t *testing.T) {
	router, repository := newTestAPI(t)
	seedAPIUser(t, repository, "maria", "senha-valida")

	rec := postJSON(t, router, "/api/v1/auth/login/", map[string]string{
		"username": "maria",
		"password": "senha-errada",
	}, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, esperado 401", rec.Code)
	}

	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["success"] != false {
		t.Errorf("success = %v, esperado false", body["success"])
	}
}

func TestLoginMissingFields(t *testing.T) {
	router, _ := newTestAPI(t)

	rec := postJSON(t, router, "/api/v1/auth/login/", map[string]string{"username": "maria"}, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, esperado 400", rec.Code)
	}
}

func TestProfileRequiresToken(t *testing.T) {
	router, _ := newTestAPI(t)

	rec := getJSON(t, router, "/api/v1/auth/profile/", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, esperado 401", rec.Code)
	}
}

func TestProfile(t *testing.T) {
	router, repository := newTestAPI(t)
	seedAPIUser(t, repository, "maria", "senha-valida")

	login := postJSON(t, router, "/api/v1/auth/login/", map[string]string{
		"username": "maria",
		"password": "senha-valida",
	}, nil)

	var loginBody struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(login.Body.Bytes(), &loginBody); err != nil {
		t.Fatalf("decode login: %v", err)
	}

	rec := getJSON(t, router, "/api/v1/auth/profile/", map[string]string{
		"Authorization": "Bearer " + loginBody.Token,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, esperado 200: %s", rec.Code, rec.Body)
	}

	var profile service.UserProfile
	if err := json.Unmarshal(rec.Body.Bytes(), &profile); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if profile.Username != "maria" {
		t.Errorf("username = %q", profile.Username)
	}
}

func TestRefreshRotationOverHTTP(t *testing.T) {
	router, repository := newTestAPI(t)
	seedAPIUser(t, repository, "maria", "senha-valida")

	login := postJSON(t, router, "/api/v1/auth/login/", map[string]string{
		"username": "maria",
		"password": "senha-valida",
	}, nil)

	var loginBody struct {
		Refresh string `json:"refresh"`
	}
	if err := json.Unmarshal(login.Body.Bytes(), &loginBody); err != nil {
		t.Fatalf("decode login: %v", err)
	}

	first := postJSON(t, router, "/api/v1/auth/refresh/", map[string]string{"refresh": loginBody.Refresh}, nil)
	if first.Code != http.StatusOK {
		t.Fatalf("primeiro refresh = %d, esperado 200: %s", first.Code, first.Body)
	}

	// o refresh antigo entrou na lista de bloqueio
	second := postJSON(t, router, "/api/v1/auth/refresh/", map[string]string{"refresh": loginBody.Refresh}, nil)
	if second.Code != http.StatusUnauthorized {
		t.Fatalf("segundo refresh = %d, esperado 401", second.Code)
	}
}

func TestLogoutAlwaysSucceeds(t *testing.T) {
	router, _ := newTestAPI(t)

	rec := postJSON(t, router, "/api/v1/auth/logout/", map[string]string{"refresh": "nunca-existiu"}, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, esperado 200", rec.Code)
	}

	rec = postJSON(t, router, "/api/v1/auth/logout/", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("logout sem corpo = %d, esperado 200", rec.Code)
	}
}

func TestRegisterEndpoint(t *testing.T) {
	router, _ := newTestAPI(t)

	rec := postJSON(t, router, "/api/v1/auth/register/", map[string]string{
		"username":         "joao",
		"email":            "joao@example.org",
		"password":         "senha-nova-123",
		"password_confirm": "senha-nova-123",
	}, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, esperado 201: %s", rec.Code, rec.Body)
	}

	// username duplicado
	rec = postJSON(t, router, "/api/v1/auth/register/", map[string]string{
		"username":         "joao",
		"email":            "joao@example.org",
		"password":         "senha-nova-123",
		"password_confirm": "senha-nova-123",
	}, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("duplicado = %d, esperado 400", rec.Code)
	}
}

func TestChangePasswordWrongCurrent(t *testing.T) {
	router, repository := newTestAPI(t)
	user := seedAPIUser(t, repository, "maria", "senha-valida")
	hashAntes := repository.usuarios[user.ID].SenhaHash

	login := postJSON(t, router, "/api/v1/auth/login/", map[string]string{
		"username": "maria",
		"password": "senha-valida",
	}, nil)

	var loginBody struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(login.Body.Bytes(), &loginBody); err != nil {
		t.Fatalf("decode login: %v", err)
	}

	rec := postJSON(t, router, "/api/v1/auth/change-password/", map[string]string{
		"current_password": "senha-errada",
		"new_password":     "nova-senha-forte",
	}, map[string]string{"Authorization": "Bearer " + loginBody.Token})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, esperado 400", rec.Code)
	}
	if repository.usuarios[user.ID].SenhaHash != hashAntes {
		t.Error("hash não pode mudar com senha atual incorreta")
	}
}

func TestCadastroRequiresToken(t *testing.T) {
	router, _ := newTestAPI(t)

	rec := getJSON(t, router, "/api/v1/cadastro/responsaveis/", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, esperado 401", rec.Code)
	}
}

func TestUnknownRoute(t *testing.T) {
	router, _ := newTestAPI(t)

	rec := getJSON(t, router, "/api/v1/nao-existe/", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, esperado 404", rec.Code)
	}

	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["success"] != false {
		t.Errorf("success = %v, esperado false", body["success"])
	}
}

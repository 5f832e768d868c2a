package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/cadastrounificado/api/internal/auth"
	"github.com/cadastrounificado/api/internal/repo"
	"github.com/cadastrounificado/api/internal/util"
)

var (
	// ErrInvalidCredentials indica falha na autenticação.
	ErrInvalidCredentials = errors.New("credenciais inválidas")
	// ErrAccountDisabled indica conta desativada.
	ErrAccountDisabled = errors.New("conta desativada")
	// ErrRefreshInvalid indica refresh token inválido, expirado ou revogado.
	ErrRefreshInvalid = errors.New("refresh token inválido")
	// ErrWrongPassword indica senha atual incorreta na troca de senha.
	ErrWrongPassword = errors.New("senha atual incorreta")
	// ErrUsernameTaken indica username já cadastrado.
	ErrUsernameTaken = errors.New("username já cadastrado")
	// ErrValidation indica entrada rejeitada pelas validações.
	ErrValidation = errors.New("dados inválidos")
)

type authRepository interface {
	GetUsuarioByUsername(ctx context.Context, username string) (repo.Usuario, error)
	GetUsuarioByID(ctx context.Context, id uuid.UUID) (repo.Usuario, error)
	InsertUsuario(ctx context.Context, arg repo.InsertUsuarioParams) (repo.Usuario, error)
	UpdateSenhaHash(ctx context.Context, id uuid.UUID, senhaHash string) error
	InsertRefreshToken(ctx context.Context, arg repo.InsertRefreshTokenParams) (repo.TokenRefresh, error)
	GetRefreshTokenByHash(ctx context.Context, tokenHash string) (repo.TokenRefresh, error)
	RevokeRefreshToken(ctx context.Context, tokenHash string) error
}

type redisCommander interface {
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Get(ctx context.Context, key string) *redis.StringCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// AuthService concentra regras de autenticação e sessões.
type AuthService struct {
	repo       authRepository
	redis      redisCommander
	jwt        *auth.JWTManager
	refreshTTL time.Duration
}

// NewAuthService cria novo serviço.
func NewAuthService(r authRepository, redisClient redisCommander, jwtMgr *auth.JWTManager, refreshTTL time.Duration) *AuthService {
	return &AuthService{repo: r, redis: redisClient, jwt: jwtMgr, refreshTTL: refreshTTL}
}

// JWT expõe gerenciador de JWT (útil em middlewares).
func (s *AuthService) JWT() *auth.JWTManager {
	return s.jwt
}

// UserProfile descreve os campos públicos de um usuário.
type UserProfile struct {
	ID         string `json:"id"`
	Username   string `json:"username"`
	Email      string `json:"email"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Staff      bool   `json:"is_staff"`
	Ativo      bool   `json:"is_active"`
	DateJoined string `json:"date_joined"`
}

// LoginResult representa retorno padrão de autenticações.
type LoginResult struct {
	AccessToken   string
	RefreshToken  string
	Subject       uuid.UUID
	Profile       UserProfile
	RefreshExpiry time.Time
}

func profileFromUsuario(u repo.Usuario) UserProfile {
	return UserProfile{
		ID:         u.ID.String(),
		Username:   u.Username,
		Email:      u.Email,
		FirstName:  u.FirstName,
		LastName:   u.LastName,
		Staff:      u.Staff,
		Ativo:      u.Ativo,
		DateJoined: u.CriadoEm.UTC().Format(time.RFC3339),
	}
}

// Login valida credenciais e emite par de tokens.
//
// A mensagem de erro é sempre genérica: usuário desconhecido, senha errada e
// conta desativada retornam o mesmo ErrInvalidCredentials para o chamador não
// distinguir qual campo falhou.
func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	user, err := s.repo.GetUsuarioByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			log.Warn().Msg("login: usuário não encontrado")
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	ok, err := auth.Verify(password, user.SenhaHash)
	if err != nil {
		log.Warn().Err(err).Msg("login: verificação de senha falhou")
		return nil, ErrInvalidCredentials
	}
	if !ok {
		log.Warn().Msg("login: senha inválida")
		return nil, ErrInvalidCredentials
	}

	if !user.Ativo {
		log.Warn().Msg("login: conta desativada")
		return nil, ErrInvalidCredentials
	}

	return s.issueTokens(ctx, user)
}

func (s *AuthService) issueTokens(ctx context.Context, user repo.Usuario) (*LoginResult, error) {
	token, _, err := s.jwt.GenerateAccessToken(user.ID.String(), user.Username, user.Staff)
	if err != nil {
		return nil, err
	}

	rawRefresh, refreshHash, err := auth.GenerateRefreshToken()
	if err != nil {
		return nil, err
	}

	expires := time.Now().UTC().Add(s.refreshTTL)
	if err := s.persistRefresh(ctx, user.ID, refreshHash, expires); err != nil {
		return nil, err
	}

	return &LoginResult{
		AccessToken:   token,
		RefreshToken:  rawRefresh,
		Subject:       user.ID,
		Profile:       profileFromUsuario(user),
		RefreshExpiry: expires,
	}, nil
}

// Refresh rotaciona o refresh token: o antigo entra na lista de bloqueio e um
// novo par é emitido. Token revogado, expirado ou desconhecido nunca renova.
func (s *AuthService) Refresh(ctx context.Context, rawToken string) (*LoginResult, error) {
	if rawToken == "" {
		return nil, ErrRefreshInvalid
	}

	hash := auth.HashRefreshToken(rawToken)
	record, err := s.repo.GetRefreshTokenByHash(ctx, hash)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrRefreshInvalid
		}
		return nil, err
	}

	if record.Revogado || time.Now().UTC().After(record.Expiracao) {
		return nil, ErrRefreshInvalid
	}

	redisKey := auth.RefreshRedisKey(hash)
	status, err := s.redis.Get(ctx, redisKey).Result()
	if err == redis.Nil {
		return nil, ErrRefreshInvalid
	}
	if err != nil {
		return nil, err
	}
	if status != "active" {
		return nil, ErrRefreshInvalid
	}

	user, err := s.repo.GetUsuarioByID(ctx, record.Subject)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrRefreshInvalid
		}
		return nil, err
	}
	if !user.Ativo {
		return nil, ErrAccountDisabled
	}

	result, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, err
	}

	// Revoga o token anterior (DB + Redis)
	if err := s.repo.RevokeRefreshToken(ctx, hash); err != nil && !errors.Is(err, repo.ErrNotFound) {
		return nil, err
	}
	if err := s.redis.Del(ctx, redisKey).Err(); err != nil && err != redis.Nil {
		return nil, err
	}

	return result, nil
}

// Logout revoga o refresh token informado. Falhas são engolidas: logout é
// sempre bem-sucedido do ponto de vista do cliente.
func (s *AuthService) Logout(ctx context.Context, rawToken string) error {
	if rawToken == "" {
		return nil
	}
	hash := auth.HashRefreshToken(rawToken)
	if err := s.repo.RevokeRefreshToken(ctx, hash); err != nil && !errors.Is(err, repo.ErrNotFound) {
		return err
	}
	redisKey := auth.RefreshRedisKey(hash)
	if err := s.redis.Del(ctx, redisKey).Err(); err != nil && err != redis.Nil {
		return err
	}
	return nil
}

// GetProfile retorna os campos públicos do usuário autenticado.
func (s *AuthService) GetProfile(ctx context.Context, subject uuid.UUID) (UserProfile, error) {
	user, err := s.repo.GetUsuarioByID(ctx, subject)
	if err != nil {
		return UserProfile{}, err
	}
	return profileFromUsuario(user), nil
}

// ChangePassword troca a senha após conferir a atual. Sessões existentes
// permanecem válidas até a expiração natural dos tokens.
func (s *AuthService) ChangePassword(ctx context.Context, subject uuid.UUID, currentPassword, newPassword string) error {
	if err := util.ValidatePassword(newPassword); err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}

	user, err := s.repo.GetUsuarioByID(ctx, subject)
	if err != nil {
		return err
	}

	ok, err := auth.Verify(currentPassword, user.SenhaHash)
	if err != nil || !ok {
		return ErrWrongPassword
	}

	newHash, err := auth.Hash(newPassword)
	if err != nil {
		return err
	}

	return s.repo.UpdateSenhaHash(ctx, user.ID, newHash)
}

// RegisterParams agrupa a entrada de registro de usuário.
type RegisterParams struct {
	Username        string
	Email           string
	Password        string
	PasswordConfirm string
	FirstName       string
	LastName        string
}

// Register cria conta ativa e sem privilégios de staff.
func (s *AuthService) Register(ctx context.Context, arg RegisterParams) (UserProfile, error) {
	if err := util.RequireString(arg.Username, "username"); err != nil {
		return UserProfile{}, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if err := util.ValidateEmail(arg.Email); err != nil {
		return UserProfile{}, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if err := util.ValidatePassword(arg.Password); err != nil {
		return UserProfile{}, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if arg.Password != arg.PasswordConfirm {
		return UserProfile{}, fmt.Errorf("%w: senhas não conferem", ErrValidation)
	}

	hash, err := auth.Hash(arg.Password)
	if err != nil {
		return UserProfile{}, err
	}

	user, err := s.repo.InsertUsuario(ctx, repo.InsertUsuarioParams{
		ID:        uuid.New(),
		Username:  strings.TrimSpace(arg.Username),
		Email:     strings.TrimSpace(arg.Email),
		FirstName: strings.TrimSpace(arg.FirstName),
		LastName:  strings.TrimSpace(arg.LastName),
		SenhaHash: hash,
		Staff:     false,
		Ativo:     true,
	})
	if err != nil {
		if errors.Is(err, repo.ErrConflict) {
			return UserProfile{}, ErrUsernameTaken
		}
		return UserProfile{}, err
	}

	return profileFromUsuario(user), nil
}

func (s *AuthService) persistRefresh(ctx context.Context, subject uuid.UUID, hash string, expires time.Time) error {
	_, err := s.repo.InsertRefreshToken(ctx, repo.InsertRefreshTokenParams{
		ID:        uuid.New(),
		Subject:   subject,
		TokenHash: hash,
		Expiracao: expires,
		CriadoEm:  time.Now().UTC(),
	})
	if err != nil {
		return err
	}

	return s.redis.Set(ctx, auth.RefreshRedisKey(hash), "active", time.Until(expires)).Err()
}

package repo

import (
	"time"

	"github.com/google/uuid"
)

// Usuario representa uma conta de acesso à API.
type Usuario struct {
	ID        uuid.UUID
	Username  string
	Email     string
	FirstName string
	LastName  string
	SenhaHash string
	Staff     bool
	Ativo     bool
	CriadoEm  time.Time
}

// TokenRefresh modela tabela de refresh tokens.
type TokenRefresh struct {
	ID        uuid.UUID
	Subject   uuid.UUID
	TokenHash string
	Expiracao time.Time
	CriadoEm  time.Time
	Revogado  bool
}

// InsertUsuarioParams agrupa campos de criação de usuário.
type InsertUsuarioParams struct {
	ID        uuid.UUID
	Username  string
	Email     string
	FirstName string
	LastName  string
	SenhaHash string
	Staff     bool
	Ativo     bool
}

// InsertRefreshTokenParams agrupa campos de criação de refresh token.
type InsertRefreshTokenParams struct {
	ID        uuid.UUID
	Subject   uuid.UUID
	TokenHash string
	Expiracao time.Time
	CriadoEm  time.Time
}

package repo

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

const dbTimeout = 3 * time.Second

// Queries fornece acesso às tabelas de identidade e sessão.
type Queries struct {
	db *pgxpool.Pool
}

// New cria o repositório sobre o pool.
func New(db *pgxpool.Pool) *Queries {
	return &Queries{db: db}
}

const usuarioColumns = `id, username, email, first_name, last_name, senha_hash, is_staff, is_active, date_joined`

// GetUsuarioByUsername busca usuário pelo username (case-insensitive).
func (q *Queries) GetUsuarioByUsername(ctx context.Context, username string) (Usuario, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	var u Usuario
	err := q.db.QueryRow(ctx, `
		SELECT `+usuarioColumns+`
		FROM usuarios
		WHERE lower(username) = lower($1)
	`, strings.TrimSpace(username)).Scan(
		&u.ID, &u.Username, &u.Email, &u.FirstName, &u.LastName,
		&u.SenhaHash, &u.Staff, &u.Ativo, &u.CriadoEm,
	)
	if err != nil {
		return Usuario{}, TranslateError(err)
	}
	return u, nil
}

// GetUsuarioByID busca usuário pelo identificador.
func (q *Queries) GetUsuarioByID(ctx context.Context, id uuid.UUID) (Usuario, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	var u Usuario
	err := q.db.QueryRow(ctx, `
		SELECT `+usuarioColumns+`
		FROM usuarios
		WHERE id = $1
	`, id).Scan(
		&u.ID, &u.Username, &u.Email, &u.FirstName, &u.LastName,
		&u.SenhaHash, &u.Staff, &u.Ativo, &u.CriadoEm,
	)
	if err != nil {
		return Usuario{}, TranslateError(err)
	}
	return u, nil
}

// InsertUsuario cria novo usuário e devolve o registro completo.
func (q *Queries) InsertUsuario(ctx context.Context, arg InsertUsuarioParams) (Usuario, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	var u Usuario
	err := q.db.QueryRow(ctx, `
		INSERT INTO usuarios (id, username, email, first_name, last_name, senha_hash, is_staff, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+usuarioColumns+`
	`, arg.ID, arg.Username, arg.Email, arg.FirstName, arg.LastName, arg.SenhaHash, arg.Staff, arg.Ativo).Scan(
		&u.ID, &u.Username, &u.Email, &u.FirstName, &u.LastName,
		&u.SenhaHash, &u.Staff, &u.Ativo, &u.CriadoEm,
	)
	if err != nil {
		return Usuario{}, TranslateError(err)
	}
	return u, nil
}

// UpdateSenhaHash substitui o hash de senha do usuário.
func (q *Queries) UpdateSenhaHash(ctx context.Context, id uuid.UUID, senhaHash string) error {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	cmd, err := q.db.Exec(ctx, `
		UPDATE usuarios SET senha_hash = $2 WHERE id = $1
	`, id, senhaHash)
	if err != nil {
		return TranslateError(err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

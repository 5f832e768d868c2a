package repo

import (
	"context"
)

// InsertRefreshToken persiste novo refresh token (hash, nunca o valor bruto).
func (q *Queries) InsertRefreshToken(ctx context.Context, arg InsertRefreshTokenParams) (TokenRefresh, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	var t TokenRefresh
	err := q.db.QueryRow(ctx, `
		INSERT INTO tokens_refresh (id, subject, token_hash, expiracao, criado_em)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, subject, token_hash, expiracao, criado_em, revogado
	`, arg.ID, arg.Subject, arg.TokenHash, arg.Expiracao, arg.CriadoEm).Scan(
		&t.ID, &t.Subject, &t.TokenHash, &t.Expiracao, &t.CriadoEm, &t.Revogado,
	)
	if err != nil {
		return TokenRefresh{}, TranslateError(err)
	}
	return t, nil
}

// GetRefreshTokenByHash busca refresh token pelo hash.
func (q *Queries) GetRefreshTokenByHash(ctx context.Context, tokenHash string) (TokenRefresh, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	var t TokenRefresh
	err := q.db.QueryRow(ctx, `
		SELECT id, subject, token_hash, expiracao, criado_em, revogado
		FROM tokens_refresh
		WHERE token_hash = $1
	`, tokenHash).Scan(
		&t.ID, &t.Subject, &t.TokenHash, &t.Expiracao, &t.CriadoEm, &t.Revogado,
	)
	if err != nil {
		return TokenRefresh{}, TranslateError(err)
	}
	return t, nil
}

// RevokeRefreshToken marca o token como revogado (lista de bloqueio).
func (q *Queries) RevokeRefreshToken(ctx context.Context, tokenHash string) error {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	cmd, err := q.db.Exec(ctx, `
		UPDATE tokens_refresh SET revogado = TRUE WHERE token_hash = $1
	`, tokenHash)
	if err != nil {
		return TranslateError(err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteExpiredRefreshTokens remove tokens cuja expiração já passou.
func (q *Queries) DeleteExpiredRefreshTokens(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	cmd, err := q.db.Exec(ctx, `
		DELETE FROM tokens_refresh WHERE expiracao < now()
	`)
	if err != nil {
		return 0, TranslateError(err)
	}
	return cmd.RowsAffected(), nil
}

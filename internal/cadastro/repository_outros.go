package cadastro

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/cadastrounificado/api/internal/repo"
)

var alojamentosSpec = collectionSpec{
	table:        "alojamentos",
	columns:      []string{"id", "nome", "endereco", "capacidade"},
	searchFields: []string{"nome"},
	filterFields: []string{"nome"},
	defaultOrder: "nome",
}

var cepsAtingidosSpec = collectionSpec{
	table:        "ceps_atingidos",
	columns:      []string{"cep", "logradouro", "bairro", "municipio", "uf"},
	searchFields: []string{"cep", "logradouro", "bairro", "municipio"},
	filterFields: []string{"uf", "municipio"},
	defaultOrder: "cep",
}

var desaparecidosSpec = collectionSpec{
	table:          "desaparecidos",
	columns:        []string{"id", "nome_desaparecido", "cpf", "tel_contato", "vinculo", "data_desaparecimento"},
	searchFields:   []string{"nome_desaparecido", "cpf", "tel_contato"},
	filterFields:   []string{"vinculo"},
	orderingFields: []string{"data_desaparecimento"},
	defaultOrder:   "-data_desaparecimento",
}

func scanAlojamento(rows pgx.Rows) (Alojamento, error) {
	var a Alojamento
	err := rows.Scan(&a.ID, &a.Nome, &a.Endereco, &a.Capacidade)
	return a, err
}

func scanCepAtingido(rows pgx.Rows) (CepAtingido, error) {
	var c CepAtingido
	err := rows.Scan(&c.CEP, &c.Logradouro, &c.Bairro, &c.Municipio, &c.UF)
	return c, err
}

func scanDesaparecido(rows pgx.Rows) (Desaparecido, error) {
	var d Desaparecido
	err := rows.Scan(&d.ID, &d.NomeDesaparecido, &d.CPF, &d.TelContato, &d.Vinculo, &d.DataDesaparecimento)
	return d, err
}

// --- Alojamentos (somente leitura) ---

func (r *Repository) ListAlojamentos(ctx context.Context, p ListParams) ([]Alojamento, int64, error) {
	return listRows(ctx, r.db, alojamentosSpec, p, scanAlojamento)
}

func (r *Repository) GetAlojamento(ctx context.Context, id int64) (Alojamento, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	var a Alojamento
	err := r.db.QueryRow(ctx, `
		SELECT id, nome, endereco, capacidade
		FROM alojamentos WHERE id = $1
	`, id).Scan(&a.ID, &a.Nome, &a.Endereco, &a.Capacidade)
	if err != nil {
		return Alojamento{}, repo.TranslateError(err)
	}
	return a, nil
}

// --- CEPs atingidos ---

func (r *Repository) ListCepsAtingidos(ctx context.Context, p ListParams) ([]CepAtingido, int64, error) {
	return listRows(ctx, r.db, cepsAtingidosSpec, p, scanCepAtingido)
}

func (r *Repository) GetCepAtingido(ctx context.Context, cep string) (CepAtingido, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	var c CepAtingido
	err := r.db.QueryRow(ctx, `
		SELECT cep, logradouro, bairro, municipio, uf
		FROM ceps_atingidos WHERE cep = $1
	`, cep).Scan(&c.CEP, &c.Logradouro, &c.Bairro, &c.Municipio, &c.UF)
	if err != nil {
		return CepAtingido{}, repo.TranslateError(err)
	}
	return c, nil
}

func (r *Repository) CreateCepAtingido(ctx context.Context, arg CepAtingido) (CepAtingido, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	var c CepAtingido
	err := r.db.QueryRow(ctx, `
		INSERT INTO ceps_atingidos (cep, logradouro, bairro, municipio, uf)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING cep, logradouro, bairro, municipio, uf
	`, arg.CEP, arg.Logradouro, arg.Bairro, arg.Municipio, arg.UF).
		Scan(&c.CEP, &c.Logradouro, &c.Bairro, &c.Municipio, &c.UF)
	if err != nil {
		return CepAtingido{}, repo.TranslateError(err)
	}
	return c, nil
}

func (r *Repository) UpdateCepAtingido(ctx context.Context, cep string, arg CepAtingido) (CepAtingido, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	var c CepAtingido
	err := r.db.QueryRow(ctx, `
		UPDATE ceps_atingidos
		SET logradouro = $2, bairro = $3, municipio = $4, uf = $5
		WHERE cep = $1
		RETURNING cep, logradouro, bairro, municipio, uf
	`, cep, arg.Logradouro, arg.Bairro, arg.Municipio, arg.UF).
		Scan(&c.CEP, &c.Logradouro, &c.Bairro, &c.Municipio, &c.UF)
	if err != nil {
		return CepAtingido{}, repo.TranslateError(err)
	}
	return c, nil
}

func (r *Repository) PatchCepAtingido(ctx context.Context, cep string, fields map[string]any) (CepAtingido, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	sqlStr, args, err := psql.Update("ceps_atingidos").
		SetMap(fields).
		Where("cep = ?", cep).
		Suffix("RETURNING cep, logradouro, bairro, municipio, uf").
		ToSql()
	if err != nil {
		return CepAtingido{}, err
	}

	var c CepAtingido
	err = r.db.QueryRow(ctx, sqlStr, args...).
		Scan(&c.CEP, &c.Logradouro, &c.Bairro, &c.Municipio, &c.UF)
	if err != nil {
		return CepAtingido{}, repo.TranslateError(err)
	}
	return c, nil
}

func (r *Repository) DeleteCepAtingido(ctx context.Context, cep string) error {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	cmd, err := r.db.Exec(ctx, `DELETE FROM ceps_atingidos WHERE cep = $1`, cep)
	if err != nil {
		return repo.TranslateError(err)
	}
	if cmd.RowsAffected() == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// --- Desaparecidos ---

func (r *Repository) ListDesaparecidos(ctx context.Context, p ListParams) ([]Desaparecido, int64, error) {
	return listRows(ctx, r.db, desaparecidosSpec, p, scanDesaparecido)
}

// RecentCutoff devolve a data limite dos relatos recentes: hoje menos a
// janela, inclusivo no limite.
func RecentCutoff(now time.Time, window time.Duration) Date {
	return NewDate(now.UTC().Add(-window))
}

// ListDesaparecidosRecentes lista relatos com data de desaparecimento a
// partir do corte informado, mais novos primeiro.
func (r *Repository) ListDesaparecidosRecentes(ctx context.Context, cutoff Date) ([]Desaparecido, error) {
	return queryAll(ctx, r, `
		SELECT id, nome_desaparecido, cpf, tel_contato, vinculo, data_desaparecimento
		FROM desaparecidos
		WHERE data_desaparecimento >= $1
		ORDER BY data_desaparecimento DESC, id DESC
	`, []any{cutoff}, scanDesaparecido)
}

func (r *Repository) GetDesaparecido(ctx context.Context, id int64) (Desaparecido, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	var d Desaparecido
	err := r.db.QueryRow(ctx, `
		SELECT id, nome_desaparecido, cpf, tel_contato, vinculo, data_desaparecimento
		FROM desaparecidos WHERE id = $1
	`, id).Scan(&d.ID, &d.NomeDesaparecido, &d.CPF, &d.TelContato, &d.Vinculo, &d.DataDesaparecimento)
	if err != nil {
		return Desaparecido{}, repo.TranslateError(err)
	}
	return d, nil
}

func (r *Repository) CreateDesaparecido(ctx context.Context, arg Desaparecido) (Desaparecido, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	var d Desaparecido
	err := r.db.QueryRow(ctx, `
		INSERT INTO desaparecidos (nome_desaparecido, cpf, tel_contato, vinculo, data_desaparecimento)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, nome_desaparecido, cpf, tel_contato, vinculo, data_desaparecimento
	`, arg.NomeDesaparecido, arg.CPF, arg.TelContato, arg.Vinculo, arg.DataDesaparecimento).
		Scan(&d.ID, &d.NomeDesaparecido, &d.CPF, &d.TelContato, &d.Vinculo, &d.DataDesaparecimento)
	if err != nil {
		return Desaparecido{}, repo.TranslateError(err)
	}
	return d, nil
}

func (r *Repository) UpdateDesaparecido(ctx context.Context, id int64, arg Desaparecido) (Desaparecido, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	var d Desaparecido
	err := r.db.QueryRow(ctx, `
		UPDATE desaparecidos
		SET nome_desaparecido = $2, cpf = $3, tel_contato = $4, vinculo = $5, data_desaparecimento = $6
		WHERE id = $1
		RETURNING id, nome_desaparecido, cpf, tel_contato, vinculo, data_desaparecimento
	`, id, arg.NomeDesaparecido, arg.CPF, arg.TelContato, arg.Vinculo, arg.DataDesaparecimento).
		Scan(&d.ID, &d.NomeDesaparecido, &d.CPF, &d.TelContato, &d.Vinculo, &d.DataDesaparecimento)
	if err != nil {
		return Desaparecido{}, repo.TranslateError(err)
	}
	return d, nil
}

func (r *Repository) PatchDesaparecido(ctx context.Context, id int64, fields map[string]any) (Desaparecido, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	sqlStr, args, err := psql.Update("desaparecidos").
		SetMap(fields).
		Where("id = ?", id).
		Suffix("RETURNING id, nome_desaparecido, cpf, tel_contato, vinculo, data_desaparecimento").
		ToSql()
	if err != nil {
		return Desaparecido{}, err
	}

	var d Desaparecido
	err = r.db.QueryRow(ctx, sqlStr, args...).
		Scan(&d.ID, &d.NomeDesaparecido, &d.CPF, &d.TelContato, &d.Vinculo, &d.DataDesaparecimento)
	if err != nil {
		return Desaparecido{}, repo.TranslateError(err)
	}
	return d, nil
}

func (r *Repository) DeleteDesaparecido(ctx context.Context, id int64) error {
	return r.deleteByID(ctx, "desaparecidos", id)
}

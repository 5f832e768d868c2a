package cadastro

import (
	"context"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cadastrounificado/api/internal/repo"
)

const dbTimeout = 3 * time.Second

// Repository fornece acesso às coleções do cadastro unificado.
type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

var responsaveisSpec = collectionSpec{
	table:          "responsaveis",
	columns:        []string{"cpf", "nome", "nome_mae", "cep", "bairro", "status", "timestamp"},
	searchFields:   []string{"cpf", "nome", "nome_mae", "cep", "bairro"},
	filterFields:   []string{"status", "bairro", "cep"},
	orderingFields: []string{"nome", "timestamp"},
	defaultOrder:   "-timestamp",
}

var membrosSpec = collectionSpec{
	table:          "membros",
	columns:        []string{"cpf", "nome", "cpf_responsavel", "data_nascimento", "genero", "status", "timestamp"},
	searchFields:   []string{"cpf", "nome"},
	filterFields:   []string{"status", "cpf_responsavel"},
	orderingFields: []string{"nome", "timestamp"},
	defaultOrder:   "-timestamp",
}

// listRows executa a consulta paginada e a contagem total da coleção.
func listRows[T any](ctx context.Context, db *pgxpool.Pool, spec collectionSpec, p ListParams, scan func(pgx.Rows) (T, error)) ([]T, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	countSQL, countArgs, err := spec.buildCount(p)
	if err != nil {
		return nil, 0, err
	}
	var total int64
	if err := db.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, repo.TranslateError(err)
	}

	listSQL, listArgs, err := spec.buildList(p)
	if err != nil {
		return nil, 0, err
	}
	rows, err := db.Query(ctx, listSQL, listArgs...)
	if err != nil {
		return nil, 0, repo.TranslateError(err)
	}
	defer rows.Close()

	items := make([]T, 0, PageSize)
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func scanResponsavel(rows pgx.Rows) (Responsavel, error) {
	var r Responsavel
	err := rows.Scan(&r.CPF, &r.Nome, &r.NomeMae, &r.CEP, &r.Bairro, &r.Status, &r.Timestamp)
	return r, err
}

func scanMembro(rows pgx.Rows) (Membro, error) {
	var m Membro
	err := rows.Scan(&m.CPF, &m.Nome, &m.CPFResponsavel, &m.DataNascimento, &m.Genero, &m.Status, &m.Timestamp)
	return m, err
}

// ListResponsaveis devolve página de responsáveis e o total filtrado.
func (r *Repository) ListResponsaveis(ctx context.Context, p ListParams) ([]Responsavel, int64, error) {
	return listRows(ctx, r.db, responsaveisSpec, p, scanResponsavel)
}

// GetResponsavel busca responsável pelo CPF.
func (r *Repository) GetResponsavel(ctx context.Context, cpf string) (Responsavel, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	var res Responsavel
	err := r.db.QueryRow(ctx, `
		SELECT cpf, nome, nome_mae, cep, bairro, status, timestamp
		FROM responsaveis
		WHERE cpf = $1
	`, cpf).Scan(&res.CPF, &res.Nome, &res.NomeMae, &res.CEP, &res.Bairro, &res.Status, &res.Timestamp)
	if err != nil {
		return Responsavel{}, repo.TranslateError(err)
	}
	return res, nil
}

// CreateResponsavel insere novo responsável.
func (r *Repository) CreateResponsavel(ctx context.Context, arg Responsavel) (Responsavel, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	var res Responsavel
	err := r.db.QueryRow(ctx, `
		INSERT INTO responsaveis (cpf, nome, nome_mae, cep, bairro, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING cpf, nome, nome_mae, cep, bairro, status, timestamp
	`, arg.CPF, arg.Nome, arg.NomeMae, arg.CEP, arg.Bairro, arg.Status).
		Scan(&res.CPF, &res.Nome, &res.NomeMae, &res.CEP, &res.Bairro, &res.Status, &res.Timestamp)
	if err != nil {
		return Responsavel{}, repo.TranslateError(err)
	}
	return res, nil
}

// UpdateResponsavel substitui todos os campos mutáveis do responsável.
func (r *Repository) UpdateResponsavel(ctx context.Context, cpf string, arg Responsavel) (Responsavel, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	var res Responsavel
	err := r.db.QueryRow(ctx, `
		UPDATE responsaveis
		SET nome = $2, nome_mae = $3, cep = $4, bairro = $5, status = $6
		WHERE cpf = $1
		RETURNING cpf, nome, nome_mae, cep, bairro, status, timestamp
	`, cpf, arg.Nome, arg.NomeMae, arg.CEP, arg.Bairro, arg.Status).
		Scan(&res.CPF, &res.Nome, &res.NomeMae, &res.CEP, &res.Bairro, &res.Status, &res.Timestamp)
	if err != nil {
		return Responsavel{}, repo.TranslateError(err)
	}
	return res, nil
}

// PatchResponsavel atualiza apenas as colunas informadas.
func (r *Repository) PatchResponsavel(ctx context.Context, cpf string, fields map[string]any) (Responsavel, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	sqlStr, args, err := psql.Update("responsaveis").
		SetMap(fields).
		Where("cpf = ?", cpf).
		Suffix("RETURNING cpf, nome, nome_mae, cep, bairro, status, timestamp").
		ToSql()
	if err != nil {
		return Responsavel{}, err
	}

	var res Responsavel
	err = r.db.QueryRow(ctx, sqlStr, args...).
		Scan(&res.CPF, &res.Nome, &res.NomeMae, &res.CEP, &res.Bairro, &res.Status, &res.Timestamp)
	if err != nil {
		return Responsavel{}, repo.TranslateError(err)
	}
	return res, nil
}

// DeleteResponsavel remove o responsável pelo CPF.
func (r *Repository) DeleteResponsavel(ctx context.Context, cpf string) error {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	cmd, err := r.db.Exec(ctx, `DELETE FROM responsaveis WHERE cpf = $1`, cpf)
	if err != nil {
		return repo.TranslateError(err)
	}
	if cmd.RowsAffected() == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// GetResponsavelComMembros devolve responsável com a lista completa de membros.
func (r *Repository) GetResponsavelComMembros(ctx context.Context, cpf string) (ResponsavelComMembros, error) {
	res, err := r.GetResponsavel(ctx, cpf)
	if err != nil {
		return ResponsavelComMembros{}, err
	}

	membros, err := r.ListMembrosByResponsavel(ctx, cpf)
	if err != nil {
		return ResponsavelComMembros{}, err
	}

	return ResponsavelComMembros{Responsavel: res, Membros: membros}, nil
}

// GetResponsavelComDemandas devolve responsável com todas as demandas
// vinculadas ao seu CPF, em todas as cinco categorias.
func (r *Repository) GetResponsavelComDemandas(ctx context.Context, cpf string) (ResponsavelComDemandas, error) {
	res, err := r.GetResponsavel(ctx, cpf)
	if err != nil {
		return ResponsavelComDemandas{}, err
	}

	out := ResponsavelComDemandas{Responsavel: res}

	if out.DemandasAmbiente, err = r.ListDemandasAmbienteByCPF(ctx, cpf); err != nil {
		return ResponsavelComDemandas{}, err
	}
	if out.DemandasEducacao, err = r.ListDemandasEducacaoByCPF(ctx, cpf); err != nil {
		return ResponsavelComDemandas{}, err
	}
	if out.DemandasHabitacao, err = r.ListDemandasHabitacaoByCPF(ctx, cpf); err != nil {
		return ResponsavelComDemandas{}, err
	}
	if out.DemandasInternas, err = r.ListDemandasInternasByCPF(ctx, cpf); err != nil {
		return ResponsavelComDemandas{}, err
	}
	if out.DemandasSaude, err = r.ListDemandasSaudeByCPF(ctx, cpf); err != nil {
		return ResponsavelComDemandas{}, err
	}

	return out, nil
}

// ListMembros devolve página de membros e o total filtrado.
func (r *Repository) ListMembros(ctx context.Context, p ListParams) ([]Membro, int64, error) {
	return listRows(ctx, r.db, membrosSpec, p, scanMembro)
}

// ListMembrosByResponsavel lista todos os membros de um responsável.
func (r *Repository) ListMembrosByResponsavel(ctx context.Context, cpfResponsavel string) ([]Membro, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	rows, err := r.db.Query(ctx, `
		SELECT cpf, nome, cpf_responsavel, data_nascimento, genero, status, timestamp
		FROM membros
		WHERE cpf_responsavel = $1
		ORDER BY nome
	`, cpfResponsavel)
	if err != nil {
		return nil, repo.TranslateError(err)
	}
	defer rows.Close()

	membros := []Membro{}
	for rows.Next() {
		m, err := scanMembro(rows)
		if err != nil {
			return nil, err
		}
		membros = append(membros, m)
	}
	return membros, rows.Err()
}

// GetMembro busca membro pelo CPF.
func (r *Repository) GetMembro(ctx context.Context, cpf string) (Membro, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	var m Membro
	err := r.db.QueryRow(ctx, `
		SELECT cpf, nome, cpf_responsavel, data_nascimento, genero, status, timestamp
		FROM membros
		WHERE cpf = $1
	`, cpf).Scan(&m.CPF, &m.Nome, &m.CPFResponsavel, &m.DataNascimento, &m.Genero, &m.Status, &m.Timestamp)
	if err != nil {
		return Membro{}, repo.TranslateError(err)
	}
	return m, nil
}

// CreateMembro insere novo membro.
func (r *Repository) CreateMembro(ctx context.Context, arg Membro) (Membro, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	var m Membro
	err := r.db.QueryRow(ctx, `
		INSERT INTO membros (cpf, nome, cpf_responsavel, data_nascimento, genero, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING cpf, nome, cpf_responsavel, data_nascimento, genero, status, timestamp
	`, arg.CPF, arg.Nome, arg.CPFResponsavel, arg.DataNascimento, arg.Genero, arg.Status).
		Scan(&m.CPF, &m.Nome, &m.CPFResponsavel, &m.DataNascimento, &m.Genero, &m.Status, &m.Timestamp)
	if err != nil {
		return Membro{}, repo.TranslateError(err)
	}
	return m, nil
}

// UpdateMembro substitui todos os campos mutáveis do membro.
func (r *Repository) UpdateMembro(ctx context.Context, cpf string, arg Membro) (Membro, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	var m Membro
	err := r.db.QueryRow(ctx, `
		UPDATE membros
		SET nome = $2, cpf_responsavel = $3, data_nascimento = $4, genero = $5, status = $6
		WHERE cpf = $1
		RETURNING cpf, nome, cpf_responsavel, data_nascimento, genero, status, timestamp
	`, cpf, arg.Nome, arg.CPFResponsavel, arg.DataNascimento, arg.Genero, arg.Status).
		Scan(&m.CPF, &m.Nome, &m.CPFResponsavel, &m.DataNascimento, &m.Genero, &m.Status, &m.Timestamp)
	if err != nil {
		return Membro{}, repo.TranslateError(err)
	}
	return m, nil
}

// PatchMembro atualiza apenas as colunas informadas.
func (r *Repository) PatchMembro(ctx context.Context, cpf string, fields map[string]any) (Membro, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	sqlStr, args, err := psql.Update("membros").
		SetMap(fields).
		Where("cpf = ?", cpf).
		Suffix("RETURNING cpf, nome, cpf_responsavel, data_nascimento, genero, status, timestamp").
		ToSql()
	if err != nil {
		return Membro{}, err
	}

	var m Membro
	err = r.db.QueryRow(ctx, sqlStr, args...).
		Scan(&m.CPF, &m.Nome, &m.CPFResponsavel, &m.DataNascimento, &m.Genero, &m.Status, &m.Timestamp)
	if err != nil {
		return Membro{}, repo.TranslateError(err)
	}
	return m, nil
}

// DeleteMembro remove o membro pelo CPF.
func (r *Repository) DeleteMembro(ctx context.Context, cpf string) error {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	cmd, err := r.db.Exec(ctx, `DELETE FROM membros WHERE cpf = $1`, cpf)
	if err != nil {
		return repo.TranslateError(err)
	}
	if cmd.RowsAffected() == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// normalizeKey limpa chaves naturais (CPF, CEP) vindas da URL.
func normalizeKey(key string) string {
	return strings.TrimSpace(key)
}

package cadastro

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/cadastrounificado/api/internal/repo"
)

var demandasAmbienteSpec = collectionSpec{
	table:        "demandas_ambiente",
	columns:      []string{"id", "cpf", "especie", "vacinado", "castrado", "porte"},
	searchFields: []string{"cpf"},
	filterFields: []string{"especie", "vacinado", "castrado", "porte"},
	defaultOrder: "-id",
}

var demandasEducacaoSpec = collectionSpec{
	table:        "demandas_educacao",
	columns:      []string{"id", "cpf", "nome", "cpf_responsavel", "genero", "turno", "alojamento", "unidade_ensino"},
	searchFields: []string{"cpf", "nome", "cpf_responsavel"},
	filterFields: []string{"genero", "turno", "alojamento", "unidade_ensino"},
	defaultOrder: "-id",
}

var demandasHabitacaoSpec = collectionSpec{
	table:        "demandas_habitacao",
	columns:      []string{"id", "cpf", "material", "relacao_imovel", "uso_imovel", "area_verde", "ocupacao"},
	searchFields: []string{"cpf"},
	filterFields: []string{"material", "relacao_imovel", "uso_imovel", "area_verde", "ocupacao"},
	defaultOrder: "-id",
}

var demandasInternasSpec = collectionSpec{
	table:          "demandas_internas",
	columns:        []string{"id", "cpf", "demanda", "status", "data"},
	searchFields:   []string{"cpf", "demanda"},
	filterFields:   []string{"status"},
	orderingFields: []string{"data"},
	defaultOrder:   "-data",
}

var demandasSaudeSpec = collectionSpec{
	table:        "demandas_saude",
	columns:      []string{"id", "cpf", "genero", "saude_cid", "gest_puer_nutriz", "mob_reduzida", "cuida_outrem", "pcd_ou_mental"},
	searchFields: []string{"cpf", "saude_cid"},
	filterFields: []string{"genero", "gest_puer_nutriz", "mob_reduzida", "cuida_outrem", "pcd_ou_mental"},
	defaultOrder: "-id",
}

func scanDemandaAmbiente(rows pgx.Rows) (DemandaAmbiente, error) {
	var d DemandaAmbiente
	err := rows.Scan(&d.ID, &d.CPF, &d.Especie, &d.Vacinado, &d.Castrado, &d.Porte)
	return d, err
}

func scanDemandaEducacao(rows pgx.Rows) (DemandaEducacao, error) {
	var d DemandaEducacao
	err := rows.Scan(&d.ID, &d.CPF, &d.Nome, &d.CPFResponsavel, &d.Genero, &d.Turno, &d.Alojamento, &d.UnidadeEnsino)
	return d, err
}

func scanDemandaHabitacao(rows pgx.Rows) (DemandaHabitacao, error) {
	var d DemandaHabitacao
	err := rows.Scan(&d.ID, &d.CPF, &d.Material, &d.RelacaoImovel, &d.UsoImovel, &d.AreaVerde, &d.Ocupacao)
	return d, err
}

func scanDemandaInterna(rows pgx.Rows) (DemandaInterna, error) {
	var d DemandaInterna
	err := rows.Scan(&d.ID, &d.CPF, &d.Demanda, &d.Status, &d.Data)
	return d, err
}

func scanDemandaSaude(rows pgx.Rows) (DemandaSaude, error) {
	var d DemandaSaude
	err := rows.Scan(&d.ID, &d.CPF, &d.Genero, &d.SaudeCID, &d.GestPuerNutriz, &d.MobReduzida, &d.CuidaOutrem, &d.PcdOuMental)
	return d, err
}

// queryAll executa consulta sem paginação (ações customizadas).
func queryAll[T any](ctx context.Context, r *Repository, sqlStr string, args []any, scan func(pgx.Rows) (T, error)) ([]T, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	rows, err := r.db.Query(ctx, sqlStr, args...)
	if err != nil {
		return nil, repo.TranslateError(err)
	}
	defer rows.Close()

	items := []T{}
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// --- Demandas de ambiente ---

func (r *Repository) ListDemandasAmbiente(ctx context.Context, p ListParams) ([]DemandaAmbiente, int64, error) {
	return listRows(ctx, r.db, demandasAmbienteSpec, p, scanDemandaAmbiente)
}

func (r *Repository) ListDemandasAmbienteByCPF(ctx context.Context, cpf string) ([]DemandaAmbiente, error) {
	return queryAll(ctx, r, `
		SELECT id, cpf, especie, vacinado, castrado, porte
		FROM demandas_ambiente WHERE cpf = $1 ORDER BY id
	`, []any{cpf}, scanDemandaAmbiente)
}

func (r *Repository) GetDemandaAmbiente(ctx context.Context, id int64) (DemandaAmbiente, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	var d DemandaAmbiente
	err := r.db.QueryRow(ctx, `
		SELECT id, cpf, especie, vacinado, castrado, porte
		FROM demandas_ambiente WHERE id = $1
	`, id).Scan(&d.ID, &d.CPF, &d.Especie, &d.Vacinado, &d.Castrado, &d.Porte)
	if err != nil {
		return DemandaAmbiente{}, repo.TranslateError(err)
	}
	return d, nil
}

func (r *Repository) CreateDemandaAmbiente(ctx context.Context, arg DemandaAmbiente) (DemandaAmbiente, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	var d DemandaAmbiente
	err := r.db.QueryRow(ctx, `
		INSERT INTO demandas_ambiente (cpf, especie, vacinado, castrado, porte)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, cpf, especie, vacinado, castrado, porte
	`, arg.CPF, arg.Especie, arg.Vacinado, arg.Castrado, arg.Porte).
		Scan(&d.ID, &d.CPF, &d.Especie, &d.Vacinado, &d.Castrado, &d.Porte)
	if err != nil {
		return DemandaAmbiente{}, repo.TranslateError(err)
	}
	return d, nil
}

func (r *Repository) UpdateDemandaAmbiente(ctx context.Context, id int64, arg DemandaAmbiente) (DemandaAmbiente, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	var d DemandaAmbiente
	err := r.db.QueryRow(ctx, `
		UPDATE demandas_ambiente
		SET cpf = $2, especie = $3, vacinado = $4, castrado = $5, porte = $6
		WHERE id = $1
		RETURNING id, cpf, especie, vacinado, castrado, porte
	`, id, arg.CPF, arg.Especie, arg.Vacinado, arg.Castrado, arg.Porte).
		Scan(&d.ID, &d.CPF, &d.Especie, &d.Vacinado, &d.Castrado, &d.Porte)
	if err != nil {
		return DemandaAmbiente{}, repo.TranslateError(err)
	}
	return d, nil
}

func (r *Repository) PatchDemandaAmbiente(ctx context.Context, id int64, fields map[string]any) (DemandaAmbiente, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	sqlStr, args, err := psql.Update("demandas_ambiente").
		SetMap(fields).
		Where("id = ?", id).
		Suffix("RETURNING id, cpf, especie, vacinado, castrado, porte").
		ToSql()
	if err != nil {
		return DemandaAmbiente{}, err
	}

	var d DemandaAmbiente
	err = r.db.QueryRow(ctx, sqlStr, args...).
		Scan(&d.ID, &d.CPF, &d.Especie, &d.Vacinado, &d.Castrado, &d.Porte)
	if err != nil {
		return DemandaAmbiente{}, repo.TranslateError(err)
	}
	return d, nil
}

func (r *Repository) DeleteDemandaAmbiente(ctx context.Context, id int64) error {
	return r.deleteByID(ctx, "demandas_ambiente", id)
}

// --- Demandas de educação ---

func (r *Repository) ListDemandasEducacao(ctx context.Context, p ListParams) ([]DemandaEducacao, int64, error) {
	return listRows(ctx, r.db, demandasEducacaoSpec, p, scanDemandaEducacao)
}

func (r *Repository) ListDemandasEducacaoByCPF(ctx context.Context, cpf string) ([]DemandaEducacao, error) {
	return queryAll(ctx, r, `
		SELECT id, cpf, nome, cpf_responsavel, genero, turno, alojamento, unidade_ensino
		FROM demandas_educacao WHERE cpf = $1 OR cpf_responsavel = $1 ORDER BY id
	`, []any{cpf}, scanDemandaEducacao)
}

func (r *Repository) GetDemandaEducacao(ctx context.Context, id int64) (DemandaEducacao, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	var d DemandaEducacao
	err := r.db.QueryRow(ctx, `
		SELECT id, cpf, nome, cpf_responsavel, genero, turno, alojamento, unidade_ensino
		FROM demandas_educacao WHERE id = $1
	`, id).Scan(&d.ID, &d.CPF, &d.Nome, &d.CPFResponsavel, &d.Genero, &d.Turno, &d.Alojamento, &d.UnidadeEnsino)
	if err != nil {
		return DemandaEducacao{}, repo.TranslateError(err)
	}
	return d, nil
}

func (r *Repository) CreateDemandaEducacao(ctx context.Context, arg DemandaEducacao) (DemandaEducacao, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	var d DemandaEducacao
	err := r.db.QueryRow(ctx, `
		INSERT INTO demandas_educacao (cpf, nome, cpf_responsavel, genero, turno, alojamento, unidade_ensino)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, cpf, nome, cpf_responsavel, genero, turno, alojamento, unidade_ensino
	`, arg.CPF, arg.Nome, arg.CPFResponsavel, arg.Genero, arg.Turno, arg.Alojamento, arg.UnidadeEnsino).
		Scan(&d.ID, &d.CPF, &d.Nome, &d.CPFResponsavel, &d.Genero, &d.Turno, &d.Alojamento, &d.UnidadeEnsino)
	if err != nil {
		return DemandaEducacao{}, repo.TranslateError(err)
	}
	return d, nil
}

func (r *Repository) UpdateDemandaEducacao(ctx context.Context, id int64, arg DemandaEducacao) (DemandaEducacao, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	var d DemandaEducacao
	err := r.db.QueryRow(ctx, `
		UPDATE demandas_educacao
		SET cpf = $2, nome = $3, cpf_responsavel = $4, genero = $5, turno = $6, alojamento = $7, unidade_ensino = $8
		WHERE id = $1
		RETURNING id, cpf, nome, cpf_responsavel, genero, turno, alojamento, unidade_ensino
	`, id, arg.CPF, arg.Nome, arg.CPFResponsavel, arg.Genero, arg.Turno, arg.Alojamento, arg.UnidadeEnsino).
		Scan(&d.ID, &d.CPF, &d.Nome, &d.CPFResponsavel, &d.Genero, &d.Turno, &d.Alojamento, &d.UnidadeEnsino)
	if err != nil {
		return DemandaEducacao{}, repo.TranslateError(err)
	}
	return d, nil
}

func (r *Repository) PatchDemandaEducacao(ctx context.Context, id int64, fields map[string]any) (DemandaEducacao, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	sqlStr, args, err := psql.Update("demandas_educacao").
		SetMap(fields).
		Where("id = ?", id).
		Suffix("RETURNING id, cpf, nome, cpf_responsavel, genero, turno, alojamento, unidade_ensino").
		ToSql()
	if err != nil {
		return DemandaEducacao{}, err
	}

	var d DemandaEducacao
	err = r.db.QueryRow(ctx, sqlStr, args...).
		Scan(&d.ID, &d.CPF, &d.Nome, &d.CPFResponsavel, &d.Genero, &d.Turno, &d.Alojamento, &d.UnidadeEnsino)
	if err != nil {
		return DemandaEducacao{}, repo.TranslateError(err)
	}
	return d, nil
}

func (r *Repository) DeleteDemandaEducacao(ctx context.Context, id int64) error {
	return r.deleteByID(ctx, "demandas_educacao", id)
}

// --- Demandas de habitação ---

func (r *Repository) ListDemandasHabitacao(ctx context.Context, p ListParams) ([]DemandaHabitacao, int64, error) {
	return listRows(ctx, r.db, demandasHabitacaoSpec, p, scanDemandaHabitacao)
}

func (r *Repository) ListDemandasHabitacaoByCPF(ctx context.Context, cpf string) ([]DemandaHabitacao, error) {
	return queryAll(ctx, r, `
		SELECT id, cpf, material, relacao_imovel, uso_imovel, area_verde, ocupacao
		FROM demandas_habitacao WHERE cpf = $1 ORDER BY id
	`, []any{cpf}, scanDemandaHabitacao)
}

func (r *Repository) GetDemandaHabitacao(ctx context.Context, id int64) (DemandaHabitacao, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	var d DemandaHabitacao
	err := r.db.QueryRow(ctx, `
		SELECT id, cpf, material, relacao_imovel, uso_imovel, area_verde, ocupacao
		FROM demandas_habitacao WHERE id = $1
	`, id).Scan(&d.ID, &d.CPF, &d.Material, &d.RelacaoImovel, &d.UsoImovel, &d.AreaVerde, &d.Ocupacao)
	if err != nil {
		return DemandaHabitacao{}, repo.TranslateError(err)
	}
	return d, nil
}

func (r *Repository) CreateDemandaHabitacao(ctx context.Context, arg DemandaHabitacao) (DemandaHabitacao, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	var d DemandaHabitacao
	err := r.db.QueryRow(ctx, `
		INSERT INTO demandas_habitacao (cpf, material, relacao_imovel, uso_imovel, area_verde, ocupacao)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, cpf, material, relacao_imovel, uso_imovel, area_verde, ocupacao
	`, arg.CPF, arg.Material, arg.RelacaoImovel, arg.UsoImovel, arg.AreaVerde, arg.Ocupacao).
		Scan(&d.ID, &d.CPF, &d.Material, &d.RelacaoImovel, &d.UsoImovel, &d.AreaVerde, &d.Ocupacao)
	if err != nil {
		return DemandaHabitacao{}, repo.TranslateError(err)
	}
	return d, nil
}

func (r *Repository) UpdateDemandaHabitacao(ctx context.Context, id int64, arg DemandaHabitacao) (DemandaHabitacao, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	var d DemandaHabitacao
	err := r.db.QueryRow(ctx, `
		UPDATE demandas_habitacao
		SET cpf = $2, material = $3, relacao_imovel = $4, uso_imovel = $5, area_verde = $6, ocupacao = $7
		WHERE id = $1
		RETURNING id, cpf, material, relacao_imovel, uso_imovel, area_verde, ocupacao
	`, id, arg.CPF, arg.Material, arg.RelacaoImovel, arg.UsoImovel, arg.AreaVerde, arg.Ocupacao).
		Scan(&d.ID, &d.CPF, &d.Material, &d.RelacaoImovel, &d.UsoImovel, &d.AreaVerde, &d.Ocupacao)
	if err != nil {
		return DemandaHabitacao{}, repo.TranslateError(err)
	}
	return d, nil
}

func (r *Repository) PatchDemandaHabitacao(ctx context.Context, id int64, fields map[string]any) (DemandaHabitacao, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	sqlStr, args, err := psql.Update("demandas_habitacao").
		SetMap(fields).
		Where("id = ?", id).
		Suffix("RETURNING id, cpf, material, relacao_imovel, uso_imovel, area_verde, ocupacao").
		ToSql()
	if err != nil {
		return DemandaHabitacao{}, err
	}

	var d DemandaHabitacao
	err = r.db.QueryRow(ctx, sqlStr, args...).
		Scan(&d.ID, &d.CPF, &d.Material, &d.RelacaoImovel, &d.UsoImovel, &d.AreaVerde, &d.Ocupacao)
	if err != nil {
		return DemandaHabitacao{}, repo.TranslateError(err)
	}
	return d, nil
}

func (r *Repository) DeleteDemandaHabitacao(ctx context.Context, id int64) error {
	return r.deleteByID(ctx, "demandas_habitacao", id)
}

// --- Demandas internas ---

func (r *Repository) ListDemandasInternas(ctx context.Context, p ListParams) ([]DemandaInterna, int64, error) {
	return listRows(ctx, r.db, demandasInternasSpec, p, scanDemandaInterna)
}

func (r *Repository) ListDemandasInternasByCPF(ctx context.Context, cpf string) ([]DemandaInterna, error) {
	return queryAll(ctx, r, `
		SELECT id, cpf, demanda, status, data
		FROM demandas_internas WHERE cpf = $1 ORDER BY data DESC
	`, []any{cpf}, scanDemandaInterna)
}

// ListDemandasInternasByStatus lista demandas internas com o status exato.
func (r *Repository) ListDemandasInternasByStatus(ctx context.Context, status string) ([]DemandaInterna, error) {
	return queryAll(ctx, r, `
		SELECT id, cpf, demanda, status, data
		FROM demandas_internas WHERE status = $1 ORDER BY data DESC
	`, []any{status}, scanDemandaInterna)
}

func (r *Repository) GetDemandaInterna(ctx context.Context, id int64) (DemandaInterna, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	var d DemandaInterna
	err := r.db.QueryRow(ctx, `
		SELECT id, cpf, demanda, status, data
		FROM demandas_internas WHERE id = $1
	`, id).Scan(&d.ID, &d.CPF, &d.Demanda, &d.Status, &d.Data)
	if err != nil {
		return DemandaInterna{}, repo.TranslateError(err)
	}
	return d, nil
}

func (r *Repository) CreateDemandaInterna(ctx context.Context, arg DemandaInterna) (DemandaInterna, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	var d DemandaInterna
	err := r.db.QueryRow(ctx, `
		INSERT INTO demandas_internas (cpf, demanda, status, data)
		VALUES ($1, $2, $3, $4)
		RETURNING id, cpf, demanda, status, data
	`, arg.CPF, arg.Demanda, arg.Status, arg.Data).
		Scan(&d.ID, &d.CPF, &d.Demanda, &d.Status, &d.Data)
	if err != nil {
		return DemandaInterna{}, repo.TranslateError(err)
	}
	return d, nil
}

func (r *Repository) UpdateDemandaInterna(ctx context.Context, id int64, arg DemandaInterna) (DemandaInterna, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	var d DemandaInterna
	err := r.db.QueryRow(ctx, `
		UPDATE demandas_internas
		SET cpf = $2, demanda = $3, status = $4, data = $5
		WHERE id = $1
		RETURNING id, cpf, demanda, status, data
	`, id, arg.CPF, arg.Demanda, arg.Status, arg.Data).
		Scan(&d.ID, &d.CPF, &d.Demanda, &d.Status, &d.Data)
	if err != nil {
		return DemandaInterna{}, repo.TranslateError(err)
	}
	return d, nil
}

func (r *Repository) PatchDemandaInterna(ctx context.Context, id int64, fields map[string]any) (DemandaInterna, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	sqlStr, args, err := psql.Update("demandas_internas").
		SetMap(fields).
		Where("id = ?", id).
		Suffix("RETURNING id, cpf, demanda, status, data").
		ToSql()
	if err != nil {
		return DemandaInterna{}, err
	}

	var d DemandaInterna
	err = r.db.QueryRow(ctx, sqlStr, args...).
		Scan(&d.ID, &d.CPF, &d.Demanda, &d.Status, &d.Data)
	if err != nil {
		return DemandaInterna{}, repo.TranslateError(err)
	}
	return d, nil
}

func (r *Repository) DeleteDemandaInterna(ctx context.Context, id int64) error {
	return r.deleteByID(ctx, "demandas_internas", id)
}

// --- Demandas de saúde ---

func (r *Repository) ListDemandasSaude(ctx context.Context, p ListParams) ([]DemandaSaude, int64, error) {
	return listRows(ctx, r.db, demandasSaudeSpec, p, scanDemandaSaude)
}

func (r *Repository) ListDemandasSaudeByCPF(ctx context.Context, cpf string) ([]DemandaSaude, error) {
	return queryAll(ctx, r, `
		SELECT id, cpf, genero, saude_cid, gest_puer_nutriz, mob_reduzida, cuida_outrem, pcd_ou_mental
		FROM demandas_saude WHERE cpf = $1 ORDER BY id
	`, []any{cpf}, scanDemandaSaude)
}

// ListGruposPrioritarios lista demandas de saúde com ao menos um marcador de
// prioridade (gestante/puérpera/nutriz, mobilidade reduzida, PcD ou saúde
// mental) igual a "S".
func (r *Repository) ListGruposPrioritarios(ctx context.Context) ([]DemandaSaude, error) {
	return queryAll(ctx, r, `
		SELECT id, cpf, genero, saude_cid, gest_puer_nutriz, mob_reduzida, cuida_outrem, pcd_ou_mental
		FROM demandas_saude
		WHERE gest_puer_nutriz = 'S' OR mob_reduzida = 'S' OR pcd_ou_mental = 'S'
		ORDER BY id
	`, nil, scanDemandaSaude)
}

func (r *Repository) GetDemandaSaude(ctx context.Context, id int64) (DemandaSaude, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	var d DemandaSaude
	err := r.db.QueryRow(ctx, `
		SELECT id, cpf, genero, saude_cid, gest_puer_nutriz, mob_reduzida, cuida_outrem, pcd_ou_mental
		FROM demandas_saude WHERE id = $1
	`, id).Scan(&d.ID, &d.CPF, &d.Genero, &d.SaudeCID, &d.GestPuerNutriz, &d.MobReduzida, &d.CuidaOutrem, &d.PcdOuMental)
	if err != nil {
		return DemandaSaude{}, repo.TranslateError(err)
	}
	return d, nil
}

func (r *Repository) CreateDemandaSaude(ctx context.Context, arg DemandaSaude) (DemandaSaude, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	var d DemandaSaude
	err := r.db.QueryRow(ctx, `
		INSERT INTO demandas_saude (cpf, genero, saude_cid, gest_puer_nutriz, mob_reduzida, cuida_outrem, pcd_ou_mental)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, cpf, genero, saude_cid, gest_puer_nutriz, mob_reduzida, cuida_outrem, pcd_ou_mental
	`, arg.CPF, arg.Genero, arg.SaudeCID, arg.GestPuerNutriz, arg.MobReduzida, arg.CuidaOutrem, arg.PcdOuMental).
		Scan(&d.ID, &d.CPF, &d.Genero, &d.SaudeCID, &d.GestPuerNutriz, &d.MobReduzida, &d.CuidaOutrem, &d.PcdOuMental)
	if err != nil {
		return DemandaSaude{}, repo.TranslateError(err)
	}
	return d, nil
}

func (r *Repository) UpdateDemandaSaude(ctx context.Context, id int64, arg DemandaSaude) (DemandaSaude, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	var d DemandaSaude
	err := r.db.QueryRow(ctx, `
		UPDATE demandas_saude
		SET cpf = $2, genero = $3, saude_cid = $4, gest_puer_nutriz = $5, mob_reduzida = $6, cuida_outrem = $7, pcd_ou_mental = $8
		WHERE id = $1
		RETURNING id, cpf, genero, saude_cid, gest_puer_nutriz, mob_reduzida, cuida_outrem, pcd_ou_mental
	`, id, arg.CPF, arg.Genero, arg.SaudeCID, arg.GestPuerNutriz, arg.MobReduzida, arg.CuidaOutrem, arg.PcdOuMental).
		Scan(&d.ID, &d.CPF, &d.Genero, &d.SaudeCID, &d.GestPuerNutriz, &d.MobReduzida, &d.CuidaOutrem, &d.PcdOuMental)
	if err != nil {
		return DemandaSaude{}, repo.TranslateError(err)
	}
	return d, nil
}

func (r *Repository) PatchDemandaSaude(ctx context.Context, id int64, fields map[string]any) (DemandaSaude, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	sqlStr, args, err := psql.Update("demandas_saude").
		SetMap(fields).
		Where("id = ?", id).
		Suffix("RETURNING id, cpf, genero, saude_cid, gest_puer_nutriz, mob_reduzida, cuida_outrem, pcd_ou_mental").
		ToSql()
	if err != nil {
		return DemandaSaude{}, err
	}

	var d DemandaSaude
	err = r.db.QueryRow(ctx, sqlStr, args...).
		Scan(&d.ID, &d.CPF, &d.Genero, &d.SaudeCID, &d.GestPuerNutriz, &d.MobReduzida, &d.CuidaOutrem, &d.PcdOuMental)
	if err != nil {
		return DemandaSaude{}, repo.TranslateError(err)
	}
	return d, nil
}

func (r *Repository) DeleteDemandaSaude(ctx context.Context, id int64) error {
	return r.deleteByID(ctx, "demandas_saude", id)
}

func (r *Repository) deleteByID(ctx context.Context, table string, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	cmd, err := r.db.Exec(ctx, `DELETE FROM `+table+` WHERE id = $1`, id)
	if err != nil {
		return repo.TranslateError(err)
	}
	if cmd.RowsAffected() == 0 {
		return repo.ErrNotFound
	}
	return nil
}

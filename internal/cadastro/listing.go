package cadastro

import (
	"sort"
	"strings"

	sq "github.com/Masterminds/squirrel"
)

// PageSize é o tamanho fixo de página das listagens.
const PageSize = 20

// ListParams carrega os parâmetros de listagem vindos da query string.
// Filters já deve conter apenas colunas declaradas pela coleção.
type ListParams struct {
	Page     int
	Search   string
	Ordering string
	Filters  map[string]string
}

// collectionSpec declara como uma coleção lista: colunas devolvidas, campos
// de busca textual, filtros de igualdade e ordenações permitidas.
type collectionSpec struct {
	table          string
	columns        []string
	searchFields   []string
	filterFields   []string
	orderingFields []string
	defaultOrder   string
}

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// FilterAllowed informa se a coluna é filtro declarado da coleção.
func (c collectionSpec) FilterAllowed(field string) bool {
	for _, f := range c.filterFields {
		if f == field {
			return true
		}
	}
	return false
}

// orderClause converte o parâmetro ordering ("campo" / "-campo") em SQL.
// Ordenação fora da lista declarada cai na ordenação padrão.
func (c collectionSpec) orderClause(ordering string) string {
	ordering = strings.TrimSpace(ordering)
	if ordering == "" {
		ordering = c.defaultOrder
	}

	desc := strings.HasPrefix(ordering, "-")
	field := strings.TrimPrefix(ordering, "-")

	allowed := false
	for _, f := range c.orderingFields {
		if f == field {
			allowed = true
			break
		}
	}
	if !allowed {
		desc = strings.HasPrefix(c.defaultOrder, "-")
		field = strings.TrimPrefix(c.defaultOrder, "-")
	}

	if desc {
		return field + " DESC"
	}
	return field + " ASC"
}

func (c collectionSpec) whereConds(p ListParams) []sq.Sqlizer {
	var conds []sq.Sqlizer

	keys := make([]string, 0, len(p.Filters))
	for k := range p.Filters {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		conds = append(conds, sq.Eq{k: p.Filters[k]})
	}

	if search := strings.TrimSpace(p.Search); search != "" {
		or := make(sq.Or, 0, len(c.searchFields))
		pattern := "%" + search + "%"
		for _, f := range c.searchFields {
			or = append(or, sq.ILike{f: pattern})
		}
		if len(or) > 0 {
			conds = append(conds, or)
		}
	}

	return conds
}

// buildList monta a consulta paginada da coleção.
func (c collectionSpec) buildList(p ListParams) (string, []any, error) {
	page := p.Page
	if page < 1 {
		page = 1
	}

	q := psql.Select(c.columns...).From(c.table)
	for _, cond := range c.whereConds(p) {
		q = q.Where(cond)
	}
	q = q.OrderBy(c.orderClause(p.Ordering)).
		Limit(uint64(PageSize)).
		Offset(uint64((page - 1) * PageSize))

	return q.ToSql()
}

// buildCount monta a consulta de total da coleção com os mesmos filtros.
func (c collectionSpec) buildCount(p ListParams) (string, []any, error) {
	q := psql.Select("COUNT(*)").From(c.table)
	for _, cond := range c.whereConds(p) {
		q = q.Where(cond)
	}
	return q.ToSql()
}

package cadastro

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/cadastrounificado/api/internal/repo"
)

// Store é o contrato de persistência consumido pelos handlers.
type Store interface {
	ListResponsaveis(ctx context.Context, p ListParams) ([]Responsavel, int64, error)
	GetResponsavel(ctx context.Context, cpf string) (Responsavel, error)
	CreateResponsavel(ctx context.Context, arg Responsavel) (Responsavel, error)
	UpdateResponsavel(ctx context.Context, cpf string, arg Responsavel) (Responsavel, error)
	PatchResponsavel(ctx context.Context, cpf string, fields map[string]any) (Responsavel, error)
	DeleteResponsavel(ctx context.Context, cpf string) error
	GetResponsavelComMembros(ctx context.Context, cpf string) (ResponsavelComMembros, error)
	GetResponsavelComDemandas(ctx context.Context, cpf string) (ResponsavelComDemandas, error)

	ListMembros(ctx context.Context, p ListParams) ([]Membro, int64, error)
	ListMembrosByResponsavel(ctx context.Context, cpfResponsavel string) ([]Membro, error)
	GetMembro(ctx context.Context, cpf string) (Membro, error)
	CreateMembro(ctx context.Context, arg Membro) (Membro, error)
	UpdateMembro(ctx context.Context, cpf string, arg Membro) (Membro, error)
	PatchMembro(ctx context.Context, cpf string, fields map[string]any) (Membro, error)
	DeleteMembro(ctx context.Context, cpf string) error

	ListAlojamentos(ctx context.Context, p ListParams) ([]Alojamento, int64, error)
	GetAlojamento(ctx context.Context, id int64) (Alojamento, error)

	ListCepsAtingidos(ctx context.Context, p ListParams) ([]CepAtingido, int64, error)
	GetCepAtingido(ctx context.Context, cep string) (CepAtingido, error)
	CreateCepAtingido(ctx context.Context, arg CepAtingido) (CepAtingido, error)
	UpdateCepAtingido(ctx context.Context, cep string, arg CepAtingido) (CepAtingido, error)
	PatchCepAtingido(ctx context.Context, cep string, fields map[string]any) (CepAtingido, error)
	DeleteCepAtingido(ctx context.Context, cep string) error

	ListDemandasAmbiente(ctx context.Context, p ListParams) ([]DemandaAmbiente, int64, error)
	GetDemandaAmbiente(ctx context.Context, id int64) (DemandaAmbiente, error)
	CreateDemandaAmbiente(ctx context.Context, arg DemandaAmbiente) (DemandaAmbiente, error)
	UpdateDemandaAmbiente(ctx context.Context, id int64, arg DemandaAmbiente) (DemandaAmbiente, error)
	PatchDemandaAmbiente(ctx context.Context, id int64, fields map[string]any) (DemandaAmbiente, error)
	DeleteDemandaAmbiente(ctx context.Context, id int64) error

	ListDemandasEducacao(ctx context.Context, p ListParams) ([]DemandaEducacao, int64, error)
	GetDemandaEducacao(ctx context.Context, id int64) (DemandaEducacao, error)
	CreateDemandaEducacao(ctx context.Context, arg DemandaEducacao) (DemandaEducacao, error)
	UpdateDemandaEducacao(ctx context.Context, id int64, arg DemandaEducacao) (DemandaEducacao, error)
	PatchDemandaEducacao(ctx context.Context, id int64, fields map[string]any) (DemandaEducacao, error)
	DeleteDemandaEducacao(ctx context.Context, id int64) error

	ListDemandasHabitacao(ctx context.Context, p ListParams) ([]DemandaHabitacao, int64, error)
	GetDemandaHabitacao(ctx context.Context, id int64) (DemandaHabitacao, error)
	CreateDemandaHabitacao(ctx context.Context, arg DemandaHabitacao) (DemandaHabitacao, error)
	UpdateDemandaHabitacao(ctx context.Context, id int64, arg DemandaHabitacao) (DemandaHabitacao, error)
	PatchDemandaHabitacao(ctx context.Context, id int64, fields map[string]any) (DemandaHabitacao, error)
	DeleteDemandaHabitacao(ctx context.Context, id int64) error

	ListDemandasInternas(ctx context.Context, p ListParams) ([]DemandaInterna, int64, error)
	ListDemandasInternasByStatus(ctx context.Context, status string) ([]DemandaInterna, error)
	GetDemandaInterna(ctx context.Context, id int64) (DemandaInterna, error)
	CreateDemandaInterna(ctx context.Context, arg DemandaInterna) (DemandaInterna, error)
	UpdateDemandaInterna(ctx context.Context, id int64, arg DemandaInterna) (DemandaInterna, error)
	PatchDemandaInterna(ctx context.Context, id int64, fields map[string]any) (DemandaInterna, error)
	DeleteDemandaInterna(ctx context.Context, id int64) error

	ListDemandasSaude(ctx context.Context, p ListParams) ([]DemandaSaude, int64, error)
	ListGruposPrioritarios(ctx context.Context) ([]DemandaSaude, error)
	GetDemandaSaude(ctx context.Context, id int64) (DemandaSaude, error)
	CreateDemandaSaude(ctx context.Context, arg DemandaSaude) (DemandaSaude, error)
	UpdateDemandaSaude(ctx context.Context, id int64, arg DemandaSaude) (DemandaSaude, error)
	PatchDemandaSaude(ctx context.Context, id int64, fields map[string]any) (DemandaSaude, error)
	DeleteDemandaSaude(ctx context.Context, id int64) error

	ListDesaparecidos(ctx context.Context, p ListParams) ([]Desaparecido, int64, error)
	ListDesaparecidosRecentes(ctx context.Context, cutoff Date) ([]Desaparecido, error)
	GetDesaparecido(ctx context.Context, id int64) (Desaparecido, error)
	CreateDesaparecido(ctx context.Context, arg Desaparecido) (Desaparecido, error)
	UpdateDesaparecido(ctx context.Context, id int64, arg Desaparecido) (Desaparecido, error)
	PatchDesaparecido(ctx context.Context, id int64, fields map[string]any) (Desaparecido, error)
	DeleteDesaparecido(ctx context.Context, id int64) error
}

// Handler orquestra as rotas do cadastro unificado.
type Handler struct {
	store Store
}

func NewHandler(store Store) *Handler {
	return &Handler{store: store}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"success": false, "message": message})
}

// writeStoreError traduz erros da camada de persistência para HTTP.
func writeStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repo.ErrNotFound):
		writeError(w, http.StatusNotFound, "registro não encontrado")
	case errors.Is(err, repo.ErrConflict):
		writeError(w, http.StatusBadRequest, "registro já existe")
	case errors.Is(err, repo.ErrInvalidReference):
		writeError(w, http.StatusBadRequest, "referência inválida")
	default:
		writeError(w, http.StatusInternalServerError, "erro interno")
	}
}

func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

// pagina é o envelope de listagem: total, links de navegação e resultados.
type pagina struct {
	Count    int64   `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  any     `json:"results"`
}

// parseListParams extrai page/search/ordering e os filtros declarados pela
// coleção. Parâmetros de filtro não declarados são ignorados.
func parseListParams(r *http.Request, spec collectionSpec) (ListParams, error) {
	q := r.URL.Query()

	page := 1
	if raw := q.Get("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return ListParams{}, errors.New("página inválida")
		}
		page = n
	}

	filters := map[string]string{}
	for _, f := range spec.filterFields {
		if v := q.Get(f); v != "" {
			filters[f] = v
		}
	}

	return ListParams{
		Page:     page,
		Search:   q.Get("search"),
		Ordering: q.Get("ordering"),
		Filters:  filters,
	}, nil
}

func pageURL(r *http.Request, page int) *string {
	u := *r.URL
	q := u.Query()
	q.Set("page", strconv.Itoa(page))
	u.RawQuery = q.Encode()
	s := u.String()
	return &s
}

// writePage escreve o envelope paginado. Página além da última responde 404.
func writePage[T any](w http.ResponseWriter, r *http.Request, p ListParams, items []T, count int64) {
	last := int(count+PageSize-1) / PageSize
	if last < 1 {
		last = 1
	}
	if p.Page > last {
		writeError(w, http.StatusNotFound, "página inválida")
		return
	}

	var next, prev *string
	if p.Page < last {
		next = pageURL(r, p.Page+1)
	}
	if p.Page > 1 {
		prev = pageURL(r, p.Page-1)
	}

	if items == nil {
		items = []T{}
	}
	writeJSON(w, http.StatusOK, pagina{Count: count, Next: next, Previous: prev, Results: items})
}

// list concentra o fluxo comum das listagens paginadas.
func list[T any](w http.ResponseWriter, r *http.Request, spec collectionSpec,
	fn func(context.Context, ListParams) ([]T, int64, error)) {

	p, err := parseListParams(r, spec)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}

	items, count, err := fn(r.Context(), p)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writePage(w, r, p, items, count)
}

func pathID(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		return 0, errors.New("id inválido")
	}
	return id, nil
}

// requiredQuery devolve o parâmetro obrigatório ou erro 400 já escrito.
func requiredQuery(w http.ResponseWriter, q url.Values, name string) (string, bool) {
	v := q.Get(name)
	if v == "" {
		writeError(w, http.StatusBadRequest, "parâmetro obrigatório: "+name)
		return "", false
	}
	return v, true
}

package cadastro

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/cadastrounificado/api/internal/repo"
)

// stubStore embute a interface: testes sobrescrevem só o que exercitam.
type stubStore struct {
	Store

	responsavel  Responsavel
	membros      []Membro
	saude        []DemandaSaude
	internas     []DemandaInterna
	recentes     []Desaparecido
	listCount    int64
	listParams   ListParams
	statusFiltro string
	cutoff       Date
	err          error
}

func (s *stubStore) GetResponsavel(ctx context.Context, cpf string) (Responsavel, error) {
	if s.err != nil {
		return Responsavel{}, s.err
	}
	return s.responsavel, nil
}

func (s *stubStore) CreateResponsavel(ctx context.Context, arg Responsavel) (Responsavel, error) {
	if s.err != nil {
		return Responsavel{}, s.err
	}
	arg.Timestamp = time.Now()
	return arg, nil
}

func (s *stubStore) ListResponsaveis(ctx context.Context, p ListParams) ([]Responsavel, int64, error) {
	s.listParams = p
	return []Responsavel{s.responsavel}, s.listCount, nil
}

func (s *stubStore) ListMembrosByResponsavel(ctx context.Context, cpf string) ([]Membro, error) {
	return s.membros, nil
}

func (s *stubStore) ListGruposPrioritarios(ctx context.Context) ([]DemandaSaude, error) {
	return s.saude, nil
}

func (s *stubStore) ListDemandasInternasByStatus(ctx context.Context, status string) ([]DemandaInterna, error) {
	s.statusFiltro = status
	return s.internas, nil
}

func (s *stubStore) ListDesaparecidosRecentes(ctx context.Context, cutoff Date) ([]Desaparecido, error) {
	s.cutoff = cutoff
	return s.recentes, nil
}

func newTestRouter(store Store) http.Handler {
	r := chi.NewRouter()
	NewHandler(store).RegisterRoutes(r)
	return r
}

func doRequest(t *testing.T, router http.Handler, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}

	req := httptest.NewRequest(method, target, &buf)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestBuscarPorCPF(t *testing.T) {
	store := &stubStore{responsavel: Responsavel{CPF: "12345678901", Nome: "Maria"}}
	router := newTestRouter(store)

	rec := doRequest(t, router, http.MethodGet, "/responsaveis/buscar_por_cpf?cpf=12345678901", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, esperado 200: %s", rec.Code, rec.Body)
	}

	var got Responsavel
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Nome != "Maria" {
		t.Errorf("nome = %q", got.Nome)
	}
}

func TestBuscarPorCPFMissingParam(t *testing.T) {
	router := newTestRouter(&stubStore{})

	rec := doRequest(t, router, http.MethodGet, "/responsaveis/buscar_por_cpf", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, esperado 400", rec.Code)
	}

	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["success"] != false {
		t.Errorf("success = %v, esperado false", body["success"])
	}
}

func TestBuscarPorCPFUnknown(t *testing.T) {
	router := newTestRouter(&stubStore{err: repo.ErrNotFound})

	rec := doRequest(t, router, http.MethodGet, "/responsaveis/buscar_por_cpf?cpf=12345678901", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, esperado 404", rec.Code)
	}
}

func TestBuscarPorCPFMalformed(t *testing.T) {
	router := newTestRouter(&stubStore{})

	rec := doRequest(t, router, http.MethodGet, "/responsaveis/buscar_por_cpf?cpf=123", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, esperado 400", rec.Code)
	}
}

func TestPorResponsavelMissingParam(t *testing.T) {
	router := newTestRouter(&stubStore{})

	rec := doRequest(t, router, http.MethodGet, "/membros/por_responsavel", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, esperado 400", rec.Code)
	}
}

func TestPorResponsavel(t *testing.T) {
	store := &stubStore{membros: []Membro{{CPF: "11122233344", Nome: "João"}}}
	router := newTestRouter(store)

	rec := doRequest(t, router, http.MethodGet, "/membros/por_responsavel?cpf_responsavel=12345678901", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, esperado 200", rec.Code)
	}

	var got []Membro
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) != 1 || got[0].Nome != "João" {
		t.Errorf("membros = %v", got)
	}
}

func TestPorStatusMissingParam(t *testing.T) {
	router := newTestRouter(&stubStore{})

	rec := doRequest(t, router, http.MethodGet, "/demandas-internas/por_status", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, esperado 400", rec.Code)
	}
}

func TestPorStatus(t *testing.T) {
	store := &stubStore{internas: []DemandaInterna{{ID: 1, Status: "pendente"}}}
	router := newTestRouter(store)

	rec := doRequest(t, router, http.MethodGet, "/demandas-internas/por_status?status=pendente", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, esperado 200", rec.Code)
	}
	if store.statusFiltro != "pendente" {
		t.Errorf("status repassado = %q", store.statusFiltro)
	}
}

func TestGruposPrioritarios(t *testing.T) {
	store := &stubStore{saude: []DemandaSaude{{ID: 7, GestPuerNutriz: "S"}}}
	router := newTestRouter(store)

	rec := doRequest(t, router, http.MethodGet, "/demandas-saude/grupos_prioritarios", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, esperado 200", rec.Code)
	}

	var got []DemandaSaude
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) != 1 || got[0].ID != 7 {
		t.Errorf("demandas = %v", got)
	}
}

func TestDesaparecidosRecentesCutoff(t *testing.T) {
	store := &stubStore{}
	router := newTestRouter(store)

	rec := doRequest(t, router, http.MethodGet, "/desaparecidos/recentes", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, esperado 200", rec.Code)
	}

	min := NewDate(time.Now().UTC().Add(-recentWindow - 24*time.Hour))
	max := NewDate(time.Now().UTC())
	if store.cutoff.Time.Before(min.Time) || store.cutoff.Time.After(max.Time) {
		t.Errorf("cutoff = %s fora da janela de 30 dias", store.cutoff.Time)
	}
}

func TestListPaginationEnvelope(t *testing.T) {
	store := &stubStore{listCount: 45, responsavel: Responsavel{CPF: "12345678901"}}
	router := newTestRouter(store)

	rec := doRequest(t, router, http.MethodGet, "/responsaveis?page=2&status=ativo", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, esperado 200: %s", rec.Code, rec.Body)
	}

	var body struct {
		Count    int64         `json:"count"`
		Next     *string       `json:"next"`
		Previous *string       `json:"previous"`
		Results  []Responsavel `json:"results"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}

	if body.Count != 45 {
		t.Errorf("count = %d", body.Count)
	}
	if body.Next == nil || body.Previous == nil {
		t.Fatal("página 2 de 3 deveria ter next e previous")
	}
	if store.listParams.Page != 2 {
		t.Errorf("page repassada = %d", store.listParams.Page)
	}
	if store.listParams.Filters["status"] != "ativo" {
		t.Errorf("filtro status não repassado: %v", store.listParams.Filters)
	}
}

func TestListPageBeyondLast(t *testing.T) {
	store := &stubStore{listCount: 45}
	router := newTestRouter(store)

	rec := doRequest(t, router, http.MethodGet, "/responsaveis?page=4", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, esperado 404", rec.Code)
	}
}

func TestListIgnoresUndeclaredFilter(t *testing.T) {
	store := &stubStore{listCount: 1}
	router := newTestRouter(store)

	rec := doRequest(t, router, http.MethodGet, "/responsaveis?genero=F", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, esperado 200", rec.Code)
	}
	if _, ok := store.listParams.Filters["genero"]; ok {
		t.Error("filtro não declarado não pode ser repassado")
	}
}

func TestAlojamentosReadOnly(t *testing.T) {
	router := newTestRouter(&stubStore{})

	for _, method := range []string{http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete} {
		target := "/alojamentos"
		if method != http.MethodPost {
			target = "/alojamentos/1"
		}
		rec := doRequest(t, router, method, target, map[string]any{"nome": "Abrigo"})
		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("%s %s: status = %d, esperado 405", method, target, rec.Code)
		}
	}
}

func TestCreateResponsavelInvalidCPF(t *testing.T) {
	router := newTestRouter(&stubStore{})

	rec := doRequest(t, router, http.MethodPost, "/responsaveis", Responsavel{
		CPF: "123", Nome: "Maria", CEP: "01001000",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, esperado 400", rec.Code)
	}
}

func TestCreateResponsavel(t *testing.T) {
	router := newTestRouter(&stubStore{})

	rec := doRequest(t, router, http.MethodPost, "/responsaveis", Responsavel{
		CPF: "12345678901", Nome: "Maria", CEP: "01001000",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, esperado 201: %s", rec.Code, rec.Body)
	}
}

func TestCreateResponsavelDuplicate(t *testing.T) {
	router := newTestRouter(&stubStore{err: repo.ErrConflict})

	rec := doRequest(t, router, http.MethodPost, "/responsaveis", Responsavel{
		CPF: "12345678901", Nome: "Maria", CEP: "01001000",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, esperado 400", rec.Code)
	}
}

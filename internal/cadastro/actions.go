package cadastro

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/cadastrounificado/api/internal/util"
)

// recentWindow é a janela dos relatos de desaparecimento recentes.
const recentWindow = 30 * 24 * time.Hour

func (h *Handler) handleBuscarPorCPF(w http.ResponseWriter, r *http.Request) {
	cpf, ok := requiredQuery(w, r.URL.Query(), "cpf")
	if !ok {
		return
	}
	if err := util.ValidateCPF(cpf); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	res, err := h.store.GetResponsavel(r.Context(), normalizeKey(cpf))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *Handler) handleComMembros(w http.ResponseWriter, r *http.Request) {
	cpf := normalizeKey(chi.URLParam(r, "cpf"))
	if err := util.ValidateCPF(cpf); err != nil {
		writeError(w, http.StatusNotFound, "registro não encontrado")
		return
	}

	res, err := h.store.GetResponsavelComMembros(r.Context(), cpf)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *Handler) handleComDemandas(w http.ResponseWriter, r *http.Request) {
	cpf := normalizeKey(chi.URLParam(r, "cpf"))
	if err := util.ValidateCPF(cpf); err != nil {
		writeError(w, http.StatusNotFound, "registro não encontrado")
		return
	}

	res, err := h.store.GetResponsavelComDemandas(r.Context(), cpf)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *Handler) handlePorResponsavel(w http.ResponseWriter, r *http.Request) {
	cpf, ok := requiredQuery(w, r.URL.Query(), "cpf_responsavel")
	if !ok {
		return
	}

	membros, err := h.store.ListMembrosByResponsavel(r.Context(), normalizeKey(cpf))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, membros)
}

func (h *Handler) handlePorStatus(w http.ResponseWriter, r *http.Request) {
	status, ok := requiredQuery(w, r.URL.Query(), "status")
	if !ok {
		return
	}

	demandas, err := h.store.ListDemandasInternasByStatus(r.Context(), status)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, demandas)
}

func (h *Handler) handleGruposPrioritarios(w http.ResponseWriter, r *http.Request) {
	demandas, err := h.store.ListGruposPrioritarios(r.Context())
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, demandas)
}

func (h *Handler) handleDesaparecidosRecentes(w http.ResponseWriter, r *http.Request) {
	cutoff := RecentCutoff(time.Now(), recentWindow)
	relatos, err := h.store.ListDesaparecidosRecentes(r.Context(), cutoff)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, relatos)
}

package cadastro

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/cadastrounificado/api/internal/util"
)

// Mount adiciona as rotas do cadastro no router.
func Mount(r chi.Router, h *Handler) {
	h.RegisterRoutes(r)
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	if mux, ok := r.(*chi.Mux); ok {
		mux.NotFound(func(w http.ResponseWriter, r *http.Request) {
			writeError(w, http.StatusNotFound, "rota não encontrada")
		})
		mux.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
			writeError(w, http.StatusMethodNotAllowed, "método não permitido")
		})
	}

	r.Route("/responsaveis", func(r chi.Router) {
		r.Get("/buscar_por_cpf", h.handleBuscarPorCPF)
		r.Get("/{cpf}/com_membros", h.handleComMembros)
		r.Get("/{cpf}/com_demandas", h.handleComDemandas)
		h.responsaveis().mount(r)
	})

	r.Route("/membros", func(r chi.Router) {
		r.Get("/por_responsavel", h.handlePorResponsavel)
		h.membros().mount(r)
	})

	r.Route("/alojamentos", func(r chi.Router) {
		h.alojamentos().mount(r)
	})

	r.Route("/ceps-atingidos", func(r chi.Router) {
		h.cepsAtingidos().mount(r)
	})

	r.Route("/demandas-ambiente", func(r chi.Router) {
		h.demandasAmbiente().mount(r)
	})

	r.Route("/demandas-educacao", func(r chi.Router) {
		h.demandasEducacao().mount(r)
	})

	r.Route("/demandas-habitacao", func(r chi.Router) {
		h.demandasHabitacao().mount(r)
	})

	r.Route("/demandas-internas", func(r chi.Router) {
		r.Get("/por_status", h.handlePorStatus)
		h.demandasInternas().mount(r)
	})

	r.Route("/demandas-saude", func(r chi.Router) {
		r.Get("/grupos_prioritarios", h.handleGruposPrioritarios)
		h.demandasSaude().mount(r)
	})

	r.Route("/desaparecidos", func(r chi.Router) {
		r.Get("/recentes", h.handleDesaparecidosRecentes)
		h.desaparecidos().mount(r)
	})
}

func (h *Handler) responsaveis() keyResource[Responsavel] {
	return keyResource[Responsavel]{
		spec:     responsaveisSpec,
		param:    "cpf",
		keyCheck: util.ValidateCPF,
		validate: func(in Responsavel) error {
			if err := util.ValidateCPF(in.CPF); err != nil {
				return err
			}
			if err := util.RequireString(in.Nome, "nome"); err != nil {
				return err
			}
			return util.ValidateCEP(in.CEP)
		},
		list:   h.store.ListResponsaveis,
		get:    h.store.GetResponsavel,
		create: h.store.CreateResponsavel,
		update: h.store.UpdateResponsavel,
		patch:  h.store.PatchResponsavel,
		delete: h.store.DeleteResponsavel,
	}
}

func (h *Handler) membros() keyResource[Membro] {
	return keyResource[Membro]{
		spec:     membrosSpec,
		param:    "cpf",
		keyCheck: util.ValidateCPF,
		validate: func(in Membro) error {
			if err := util.ValidateCPF(in.CPF); err != nil {
				return err
			}
			if err := util.RequireString(in.Nome, "nome"); err != nil {
				return err
			}
			return util.ValidateCPF(in.CPFResponsavel)
		},
		list:   h.store.ListMembros,
		get:    h.store.GetMembro,
		create: h.store.CreateMembro,
		update: h.store.UpdateMembro,
		patch:  h.store.PatchMembro,
		delete: h.store.DeleteMembro,
	}
}

// alojamentos é somente leitura: sem create, o mount registra apenas GETs.
func (h *Handler) alojamentos() idResource[Alojamento] {
	return idResource[Alojamento]{
		spec: alojamentosSpec,
		list: h.store.ListAlojamentos,
		get:  h.store.GetAlojamento,
	}
}

func (h *Handler) cepsAtingidos() keyResource[CepAtingido] {
	return keyResource[CepAtingido]{
		spec:     cepsAtingidosSpec,
		param:    "cep",
		keyCheck: util.ValidateCEP,
		validate: func(in CepAtingido) error {
			if err := util.ValidateCEP(in.CEP); err != nil {
				return err
			}
			return util.RequireString(in.Logradouro, "logradouro")
		},
		list:   h.store.ListCepsAtingidos,
		get:    h.store.GetCepAtingido,
		create: h.store.CreateCepAtingido,
		update: h.store.UpdateCepAtingido,
		patch:  h.store.PatchCepAtingido,
		delete: h.store.DeleteCepAtingido,
	}
}

func (h *Handler) demandasAmbiente() idResource[DemandaAmbiente] {
	return idResource[DemandaAmbiente]{
		spec: demandasAmbienteSpec,
		validate: func(in DemandaAmbiente) error {
			if err := util.ValidateCPF(in.CPF); err != nil {
				return err
			}
			return util.RequireString(in.Especie, "especie")
		},
		list:   h.store.ListDemandasAmbiente,
		get:    h.store.GetDemandaAmbiente,
		create: h.store.CreateDemandaAmbiente,
		update: h.store.UpdateDemandaAmbiente,
		patch:  h.store.PatchDemandaAmbiente,
		delete: h.store.DeleteDemandaAmbiente,
	}
}

func (h *Handler) demandasEducacao() idResource[DemandaEducacao] {
	return idResource[DemandaEducacao]{
		spec: demandasEducacaoSpec,
		validate: func(in DemandaEducacao) error {
			if err := util.ValidateCPF(in.CPF); err != nil {
				return err
			}
			return util.RequireString(in.Nome, "nome")
		},
		list:   h.store.ListDemandasEducacao,
		get:    h.store.GetDemandaEducacao,
		create: h.store.CreateDemandaEducacao,
		update: h.store.UpdateDemandaEducacao,
		patch:  h.store.PatchDemandaEducacao,
		delete: h.store.DeleteDemandaEducacao,
	}
}

func (h *Handler) demandasHabitacao() idResource[DemandaHabitacao] {
	return idResource[DemandaHabitacao]{
		spec: demandasHabitacaoSpec,
		validate: func(in DemandaHabitacao) error {
			return util.ValidateCPF(in.CPF)
		},
		list:   h.store.ListDemandasHabitacao,
		get:    h.store.GetDemandaHabitacao,
		create: h.store.CreateDemandaHabitacao,
		update: h.store.UpdateDemandaHabitacao,
		patch:  h.store.PatchDemandaHabitacao,
		delete: h.store.DeleteDemandaHabitacao,
	}
}

func (h *Handler) demandasInternas() idResource[DemandaInterna] {
	return idResource[DemandaInterna]{
		spec: demandasInternasSpec,
		validate: func(in DemandaInterna) error {
			if err := util.ValidateCPF(in.CPF); err != nil {
				return err
			}
			return util.RequireString(in.Demanda, "demanda")
		},
		list:   h.store.ListDemandasInternas,
		get:    h.store.GetDemandaInterna,
		create: h.store.CreateDemandaInterna,
		update: h.store.UpdateDemandaInterna,
		patch:  h.store.PatchDemandaInterna,
		delete: h.store.DeleteDemandaInterna,
	}
}

func (h *Handler) demandasSaude() idResource[DemandaSaude] {
	return idResource[DemandaSaude]{
		spec: demandasSaudeSpec,
		validate: func(in DemandaSaude) error {
			return util.ValidateCPF(in.CPF)
		},
		list:   h.store.ListDemandasSaude,
		get:    h.store.GetDemandaSaude,
		create: h.store.CreateDemandaSaude,
		update: h.store.UpdateDemandaSaude,
		patch:  h.store.PatchDemandaSaude,
		delete: h.store.DeleteDemandaSaude,
	}
}

func (h *Handler) desaparecidos() idResource[Desaparecido] {
	return idResource[Desaparecido]{
		spec: desaparecidosSpec,
		validate: func(in Desaparecido) error {
			if err := util.RequireString(in.NomeDesaparecido, "nome_desaparecido"); err != nil {
				return err
			}
			if in.DataDesaparecimento.IsZero() {
				return errors.New("data_desaparecimento é obrigatória")
			}
			return nil
		},
		list:   h.store.ListDesaparecidos,
		get:    h.store.GetDesaparecido,
		create: h.store.CreateDesaparecido,
		update: h.store.UpdateDesaparecido,
		patch:  h.store.PatchDesaparecido,
		delete: h.store.DeleteDesaparecido,
	}
}

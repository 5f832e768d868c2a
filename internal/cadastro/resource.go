package cadastro

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// idResource agrupa as operações CRUD de coleções chaveadas por id serial.
type idResource[T any] struct {
	spec     collectionSpec
	validate func(T) error

	list   func(context.Context, ListParams) ([]T, int64, error)
	get    func(context.Context, int64) (T, error)
	create func(context.Context, T) (T, error)
	update func(context.Context, int64, T) (T, error)
	patch  func(context.Context, int64, map[string]any) (T, error)
	delete func(context.Context, int64) error
}

// patchFields filtra o corpo do PATCH para as colunas mutáveis da coleção.
func patchFields(spec collectionSpec, key string, body map[string]any) map[string]any {
	out := map[string]any{}
	for _, col := range spec.columns {
		if col == key {
			continue
		}
		if v, ok := body[col]; ok {
			out[col] = v
		}
	}
	return out
}

func (res idResource[T]) mount(r chi.Router) {
	r.Get("/", res.handleList)
	r.Get("/{id}", res.handleGet)
	if res.create != nil {
		r.Post("/", res.handleCreate)
		r.Put("/{id}", res.handleUpdate)
		r.Patch("/{id}", res.handlePatch)
		r.Delete("/{id}", res.handleDelete)
	}
}

func (res idResource[T]) handleList(w http.ResponseWriter, r *http.Request) {
	list(w, r, res.spec, res.list)
}

func (res idResource[T]) handleGet(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusNotFound, "registro não encontrado")
		return
	}
	item, err := res.get(r.Context(), id)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (res idResource[T]) handleCreate(w http.ResponseWriter, r *http.Request) {
	var in T
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "corpo inválido")
		return
	}
	if res.validate != nil {
		if err := res.validate(in); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}
	item, err := res.create(r.Context(), in)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

func (res idResource[T]) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusNotFound, "registro não encontrado")
		return
	}
	var in T
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "corpo inválido")
		return
	}
	if res.validate != nil {
		if err := res.validate(in); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}
	item, err := res.update(r.Context(), id, in)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (res idResource[T]) handlePatch(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusNotFound, "registro não encontrado")
		return
	}
	var body map[string]any
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "corpo inválido")
		return
	}
	fields := patchFields(res.spec, "id", body)
	if len(fields) == 0 {
		writeError(w, http.StatusBadRequest, "nenhum campo para atualizar")
		return
	}
	item, err := res.patch(r.Context(), id, fields)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (res idResource[T]) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusNotFound, "registro não encontrado")
		return
	}
	if err := res.delete(r.Context(), id); err != nil {
		writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// keyResource agrupa as operações CRUD de coleções com chave natural na URL
// (CPF ou CEP).
type keyResource[T any] struct {
	spec     collectionSpec
	param    string
	keyCheck func(string) error
	validate func(T) error

	list   func(context.Context, ListParams) ([]T, int64, error)
	get    func(context.Context, string) (T, error)
	create func(context.Context, T) (T, error)
	update func(context.Context, string, T) (T, error)
	patch  func(context.Context, string, map[string]any) (T, error)
	delete func(context.Context, string) error
}

func (res keyResource[T]) mount(r chi.Router) {
	key := "/{" + res.param + "}"
	r.Get("/", res.handleList)
	r.Post("/", res.handleCreate)
	r.Get(key, res.handleGet)
	r.Put(key, res.handleUpdate)
	r.Patch(key, res.handlePatch)
	r.Delete(key, res.handleDelete)
}

func (res keyResource[T]) pathKey(w http.ResponseWriter, r *http.Request) (string, bool) {
	key := normalizeKey(chi.URLParam(r, res.param))
	if err := res.keyCheck(key); err != nil {
		writeError(w, http.StatusNotFound, "registro não encontrado")
		return "", false
	}
	return key, true
}

func (res keyResource[T]) handleList(w http.ResponseWriter, r *http.Request) {
	list(w, r, res.spec, res.list)
}

func (res keyResource[T]) handleGet(w http.ResponseWriter, r *http.Request) {
	key, ok := res.pathKey(w, r)
	if !ok {
		return
	}
	item, err := res.get(r.Context(), key)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (res keyResource[T]) handleCreate(w http.ResponseWriter, r *http.Request) {
	var in T
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "corpo inválido")
		return
	}
	if err := res.validate(in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	item, err := res.create(r.Context(), in)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

func (res keyResource[T]) handleUpdate(w http.ResponseWriter, r *http.Request) {
	key, ok := res.pathKey(w, r)
	if !ok {
		return
	}
	var in T
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "corpo inválido")
		return
	}
	item, err := res.update(r.Context(), key, in)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (res keyResource[T]) handlePatch(w http.ResponseWriter, r *http.Request) {
	key, ok := res.pathKey(w, r)
	if !ok {
		return
	}
	var body map[string]any
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "corpo inválido")
		return
	}
	fields := patchFields(res.spec, res.param, body)
	if len(fields) == 0 {
		writeError(w, http.StatusBadRequest, "nenhum campo para atualizar")
		return
	}
	item, err := res.patch(r.Context(), key, fields)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (res keyResource[T]) handleDelete(w http.ResponseWriter, r *http.Request) {
	key, ok := res.pathKey(w, r)
	if !ok {
		return
	}
	if err := res.delete(r.Context(), key); err != nil {
		writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

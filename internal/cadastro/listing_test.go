package cadastro

import (
	"testing"
	"time"
)

var testSpec = collectionSpec{
	table:          "itens",
	columns:        []string{"id", "cpf", "nome", "status"},
	searchFields:   []string{"cpf", "nome"},
	filterFields:   []string{"status", "bairro"},
	orderingFields: []string{"nome"},
	defaultOrder:   "-id",
}

func TestBuildListDefault(t *testing.T) {
	sqlStr, args, err := testSpec.buildList(ListParams{Page: 1})
	if err != nil {
		t.Fatalf("buildList: %v", err)
	}

	want := "SELECT id, cpf, nome, status FROM itens ORDER BY id DESC LIMIT 20 OFFSET 0"
	if sqlStr != want {
		t.Errorf("sql = %q\nesperado %q", sqlStr, want)
	}
	if len(args) != 0 {
		t.Errorf("args = %v, esperado vazio", args)
	}
}

func TestBuildListSecondPage(t *testing.T) {
	sqlStr, _, err := testSpec.buildList(ListParams{Page: 3})
	if err != nil {
		t.Fatalf("buildList: %v", err)
	}

	want := "SELECT id, cpf, nome, status FROM itens ORDER BY id DESC LIMIT 20 OFFSET 40"
	if sqlStr != want {
		t.Errorf("sql = %q\nesperado %q", sqlStr, want)
	}
}

func TestBuildListClampsPage(t *testing.T) {
	sqlStr, _, err := testSpec.buildList(ListParams{Page: 0})
	if err != nil {
		t.Fatalf("buildList: %v", err)
	}

	want := "SELECT id, cpf, nome, status FROM itens ORDER BY id DESC LIMIT 20 OFFSET 0"
	if sqlStr != want {
		t.Errorf("sql = %q\nesperado %q", sqlStr, want)
	}
}

func TestBuildListWithFiltersAndSearch(t *testing.T) {
	p := ListParams{
		Page:   1,
		Search: "maria",
		Filters: map[string]string{
			"status": "ativo",
			"bairro": "centro",
		},
	}

	sqlStr, args, err := testSpec.buildList(p)
	if err != nil {
		t.Fatalf("buildList: %v", err)
	}

	// filtros em ordem alfabética, busca por último
	want := "SELECT id, cpf, nome, status FROM itens WHERE bairro = $1 AND status = $2 AND (cpf ILIKE $3 OR nome ILIKE $4) ORDER BY id DESC LIMIT 20 OFFSET 0"
	if sqlStr != want {
		t.Errorf("sql = %q\nesperado %q", sqlStr, want)
	}

	wantArgs := []any{"centro", "ativo", "%maria%", "%maria%"}
	if len(args) != len(wantArgs) {
		t.Fatalf("args = %v, esperado %v", args, wantArgs)
	}
	for i := range wantArgs {
		if args[i] != wantArgs[i] {
			t.Errorf("args[%d] = %v, esperado %v", i, args[i], wantArgs[i])
		}
	}
}

func TestOrderClause(t *testing.T) {
	cases := []struct {
		ordering string
		want     string
	}{
		{"", "id DESC"},
		{"nome", "nome ASC"},
		{"-nome", "nome DESC"},
		{"senha_hash", "id DESC"}, // fora da lista declarada cai no padrão
		{"-desconhecido", "id DESC"},
	}

	for _, tc := range cases {
		if got := testSpec.orderClause(tc.ordering); got != tc.want {
			t.Errorf("orderClause(%q) = %q, esperado %q", tc.ordering, got, tc.want)
		}
	}
}

func TestBuildCount(t *testing.T) {
	p := ListParams{Filters: map[string]string{"status": "ativo"}}

	sqlStr, args, err := testSpec.buildCount(p)
	if err != nil {
		t.Fatalf("buildCount: %v", err)
	}

	want := "SELECT COUNT(*) FROM itens WHERE status = $1"
	if sqlStr != want {
		t.Errorf("sql = %q\nesperado %q", sqlStr, want)
	}
	if len(args) != 1 || args[0] != "ativo" {
		t.Errorf("args = %v", args)
	}
}

func TestFilterAllowed(t *testing.T) {
	if !testSpec.FilterAllowed("status") {
		t.Error("status deveria ser filtro permitido")
	}
	if testSpec.FilterAllowed("senha_hash") {
		t.Error("coluna não declarada não pode ser filtro")
	}
}

func TestPatchFieldsWhitelist(t *testing.T) {
	body := map[string]any{
		"nome":       "Maria",
		"status":     "ativo",
		"id":         99,
		"senha_hash": "x",
	}

	fields := patchFields(testSpec, "id", body)

	if len(fields) != 2 {
		t.Fatalf("fields = %v, esperado apenas nome e status", fields)
	}
	if fields["nome"] != "Maria" || fields["status"] != "ativo" {
		t.Errorf("fields = %v", fields)
	}
}

func TestRecentCutoffBoundary(t *testing.T) {
	now := time.Date(2026, 5, 15, 13, 45, 0, 0, time.UTC)

	cutoff := RecentCutoff(now, recentWindow)

	want := time.Date(2026, 4, 15, 0, 0, 0, 0, time.UTC)
	if !cutoff.Time.Equal(want) {
		t.Errorf("cutoff = %s, esperado %s", cutoff.Time, want)
	}
}

func TestDateJSONRoundTrip(t *testing.T) {
	d := NewDate(time.Date(2026, 2, 28, 10, 0, 0, 0, time.UTC))

	b, err := d.MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON: %v", err)
	}
	if string(b) != `"2026-02-28"` {
		t.Errorf("json = %s", b)
	}

	var parsed Date
	if err := parsed.UnmarshalJSON(b); err != nil {
		t.Fatalf("UnmarshalJSON: %v", err)
	}
	if !parsed.Time.Equal(d.Time) {
		t.Errorf("parsed = %s, esperado %s", parsed.Time, d.Time)
	}

	var zero Date
	b, err = zero.MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON zero: %v", err)
	}
	if string(b) != "null" {
		t.Errorf("data zero deve serializar como null, veio %s", b)
	}

	if err := parsed.UnmarshalJSON([]byte(`"28/02/2026"`)); err == nil {
		t.Error("formato fora de YYYY-MM-DD deveria falhar")
	}
}

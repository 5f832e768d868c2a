package cadastro

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Date representa data sem componente de hora, serializada como YYYY-MM-DD.
type Date struct {
	time.Time
}

const dateLayout = "2006-01-02"

// NewDate cria Date truncando o horário.
func NewDate(t time.Time) Date {
	return Date{time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)}
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + d.Format(dateLayout) + `"`), nil
}

func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		d.Time = time.Time{}
		return nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return fmt.Errorf("data inválida %q (esperado YYYY-MM-DD)", s)
	}
	d.Time = t
	return nil
}

// Scan implementa sql.Scanner para colunas DATE.
func (d *Date) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		d.Time = time.Time{}
		return nil
	case time.Time:
		d.Time = v
		return nil
	case string:
		t, err := time.Parse(dateLayout, v)
		if err != nil {
			return err
		}
		d.Time = t
		return nil
	default:
		return errors.New("tipo incompatível para Date")
	}
}

// Value implementa driver.Valuer.
func (d Date) Value() (driver.Value, error) {
	if d.IsZero() {
		return nil, nil
	}
	return d.Time, nil
}

// Alojamento representa abrigo disponível para desalojados (somente leitura).
type Alojamento struct {
	ID         int64  `json:"id"`
	Nome       string `json:"nome"`
	Endereco   string `json:"endereco"`
	Capacidade int    `json:"capacidade"`
}

// CepAtingido representa logradouro em área atingida, chaveado pelo CEP.
type CepAtingido struct {
	CEP        string `json:"cep"`
	Logradouro string `json:"logradouro"`
	Bairro     string `json:"bairro"`
	Municipio  string `json:"municipio"`
	UF         string `json:"uf"`
}

// Responsavel representa o responsável familiar, chaveado pelo CPF.
type Responsavel struct {
	CPF       string    `json:"cpf"`
	Nome      string    `json:"nome"`
	NomeMae   string    `json:"nome_mae"`
	CEP       string    `json:"cep"`
	Bairro    string    `json:"bairro"`
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

// Membro representa integrante da família vinculado a um responsável.
type Membro struct {
	CPF            string    `json:"cpf"`
	Nome           string    `json:"nome"`
	CPFResponsavel string    `json:"cpf_responsavel"`
	DataNascimento Date      `json:"data_nascimento"`
	Genero         string    `json:"genero"`
	Status         string    `json:"status"`
	Timestamp      time.Time `json:"timestamp"`
}

// Flags de 1 caractere valem "S" ou "N".

// DemandaAmbiente registra animais da família que precisam de suporte.
type DemandaAmbiente struct {
	ID       int64  `json:"id"`
	CPF      string `json:"cpf"`
	Especie  string `json:"especie"`
	Vacinado string `json:"vacinado"`
	Castrado string `json:"castrado"`
	Porte    string `json:"porte"`
}

// DemandaEducacao registra necessidade de vaga escolar.
type DemandaEducacao struct {
	ID             int64  `json:"id"`
	CPF            string `json:"cpf"`
	Nome           string `json:"nome"`
	CPFResponsavel string `json:"cpf_responsavel"`
	Genero         string `json:"genero"`
	Turno          string `json:"turno"`
	Alojamento     string `json:"alojamento"`
	UnidadeEnsino  string `json:"unidade_ensino"`
}

// DemandaHabitacao registra situação do imóvel atingido.
type DemandaHabitacao struct {
	ID            int64  `json:"id"`
	CPF           string `json:"cpf"`
	Material      string `json:"material"`
	RelacaoImovel string `json:"relacao_imovel"`
	UsoImovel     string `json:"uso_imovel"`
	AreaVerde     string `json:"area_verde"`
	Ocupacao      string `json:"ocupacao"`
}

// DemandaInterna registra encaminhamentos internos da operação.
type DemandaInterna struct {
	ID      int64  `json:"id"`
	CPF     string `json:"cpf"`
	Demanda string `json:"demanda"`
	Status  string `json:"status"`
	Data    Date   `json:"data"`
}

// DemandaSaude registra condição de saúde e marcadores de prioridade.
type DemandaSaude struct {
	ID             int64  `json:"id"`
	CPF            string `json:"cpf"`
	Genero         string `json:"genero"`
	SaudeCID       string `json:"saude_cid"`
	GestPuerNutriz string `json:"gest_puer_nutriz"`
	MobReduzida    string `json:"mob_reduzida"`
	CuidaOutrem    string `json:"cuida_outrem"`
	PcdOuMental    string `json:"pcd_ou_mental"`
}

// Desaparecido registra relato de pessoa desaparecida.
type Desaparecido struct {
	ID                  int64  `json:"id"`
	NomeDesaparecido    string `json:"nome_desaparecido"`
	CPF                 string `json:"cpf"`
	TelContato          string `json:"tel_contato"`
	Vinculo             string `json:"vinculo"`
	DataDesaparecimento Date   `json:"data_desaparecimento"`
}

// ResponsavelComMembros agrega responsável e membros da família.
type ResponsavelComMembros struct {
	Responsavel
	Membros []Membro `json:"membros"`
}

// ResponsavelComDemandas agrega responsável e todas as demandas vinculadas.
type ResponsavelComDemandas struct {
	Responsavel
	DemandasAmbiente  []DemandaAmbiente  `json:"demandas_ambiente"`
	DemandasEducacao  []DemandaEducacao  `json:"demandas_educacao"`
	DemandasHabitacao []DemandaHabitacao `json:"demandas_habitacao"`
	DemandasInternas  []DemandaInterna   `json:"demandas_internas"`
	DemandasSaude     []DemandaSaude     `json:"demandas_saude"`
}

package util

import "testing"

func TestValidateEmail(t *testing.T) {
	cases := []struct {
		email string
		ok    bool
	}{
		{"maria@example.org", true},
		{"  maria@example.org  ", true},
		{"", false},
		{"sem-arroba", false},
	}

	for _, tc := range cases {
		err := ValidateEmail(tc.email)
		if tc.ok && err != nil {
			t.Errorf("ValidateEmail(%q) = %v, esperado nil", tc.email, err)
		}
		if !tc.ok && err == nil {
			t.Errorf("ValidateEmail(%q) = nil, esperado erro", tc.email)
		}
	}
}

func TestValidatePassword(t *testing.T) {
	if err := ValidatePassword("1234567"); err == nil {
		t.Error("senha com 7 caracteres deveria falhar")
	}
	if err := ValidatePassword("12345678"); err != nil {
		t.Errorf("senha com 8 caracteres deveria passar: %v", err)
	}
}

func TestValidateCPF(t *testing.T) {
	cases := []struct {
		cpf string
		ok  bool
	}{
		{"12345678901", true},
		{"1234567890", false},
		{"123456789012", false},
		{"1234567890a", false},
		{"", false},
	}

	for _, tc := range cases {
		err := ValidateCPF(tc.cpf)
		if tc.ok && err != nil {
			t.Errorf("ValidateCPF(%q) = %v, esperado nil", tc.cpf, err)
		}
		if !tc.ok && err == nil {
			t.Errorf("ValidateCPF(%q) = nil, esperado erro", tc.cpf)
		}
	}
}

func TestValidateCEP(t *testing.T) {
	if err := ValidateCEP("01001000"); err != nil {
		t.Errorf("CEP válido rejeitado: %v", err)
	}
	if err := ValidateCEP("0100100"); err == nil {
		t.Error("CEP curto deveria falhar")
	}
	if err := ValidateCEP("01001-00"); err == nil {
		t.Error("CEP com hífen deveria falhar")
	}
}

func TestRequireString(t *testing.T) {
	if err := RequireString("  ", "nome"); err == nil {
		t.Error("string em branco deveria falhar")
	}
	if err := RequireString("ok", "nome"); err != nil {
		t.Errorf("string preenchida deveria passar: %v", err)
	}
}

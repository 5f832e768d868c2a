package util

import (
	"errors"
	"net/mail"
	"strconv"
	"strings"
)

// ValidateEmail retorna erro para e-mails inválidos.
func ValidateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return errors.New("email obrigatório")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return errors.New("email inválido")
	}
	return nil
}

// ValidatePassword verifica requisitos mínimos de senha.
func ValidatePassword(password string) error {
	if len(password) < 8 {
		return errors.New("senha deve ter pelo menos 8 caracteres")
	}
	return nil
}

// RequireString garante string não vazia.
func RequireString(value, field string) error {
	if strings.TrimSpace(value) == "" {
		return errors.New(field + " obrigatório")
	}
	return nil
}

// ValidateCPF aceita CPF com exatamente 11 dígitos numéricos.
func ValidateCPF(cpf string) error {
	return validateDigits(cpf, 11, "cpf")
}

// ValidateCEP aceita CEP com exatamente 8 dígitos numéricos.
func ValidateCEP(cep string) error {
	return validateDigits(cep, 8, "cep")
}

func validateDigits(value string, size int, field string) error {
	value = strings.TrimSpace(value)
	if value == "" {
		return errors.New(field + " obrigatório")
	}
	if len(value) != size {
		return errors.New(field + " deve ter " + strconv.Itoa(size) + " dígitos")
	}
	for _, r := range value {
		if r < '0' || r > '9' {
			return errors.New(field + " deve conter apenas dígitos")
		}
	}
	return nil
}

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/cadastrounificado/api/internal/auth"
	"github.com/cadastrounificado/api/internal/config"
	"github.com/cadastrounificado/api/internal/db"
	"github.com/cadastrounificado/api/internal/repo"
	"github.com/cadastrounificado/api/internal/util"
)

// Cria usuário direto no banco, para provisionar o primeiro acesso.
func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	username := flag.String("username", "", "username do novo usuário")
	email := flag.String("email", "", "email do novo usuário")
	password := flag.String("password", "", "senha (mínimo 8 caracteres)")
	firstName := flag.String("first-name", "", "primeiro nome")
	lastName := flag.String("last-name", "", "sobrenome")
	staff := flag.Bool("staff", false, "concede acesso de staff")
	flag.Parse()

	if err := run(*username, *email, *password, *firstName, *lastName, *staff); err != nil {
		log.Fatal().Err(err).Msg("criação de usuário falhou")
	}
}

func run(username, email, password, firstName, lastName string, staff bool) error {
	if err := util.RequireString(username, "username"); err != nil {
		return err
	}
	if err := util.ValidateEmail(email); err != nil {
		return err
	}
	if err := util.ValidatePassword(password); err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	ctx := context.Background()

	pool, err := db.NewPool(ctx, cfg.DBDSN)
	if err != nil {
		return fmt.Errorf("db: %w", err)
	}
	defer pool.Close()

	hash, err := auth.Hash(password)
	if err != nil {
		return fmt.Errorf("hash: %w", err)
	}

	user, err := repo.New(pool).InsertUsuario(ctx, repo.InsertUsuarioParams{
		ID:        uuid.New(),
		Username:  username,
		Email:     email,
		FirstName: firstName,
		LastName:  lastName,
		SenhaHash: hash,
		Staff:     staff,
		Ativo:     true,
	})
	if err != nil {
		return err
	}

	fmt.Printf("usuário criado: %s (%s)\n", user.Username, user.ID)
	return nil
}

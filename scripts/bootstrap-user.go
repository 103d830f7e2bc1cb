package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/IndraW01/API-Contact-Management/internal/apperror"
	"github.com/IndraW01/API-Contact-Management/internal/auth"
	"github.com/IndraW01/API-Contact-Management/internal/model"
	"github.com/IndraW01/API-Contact-Management/internal/repository"
	"github.com/IndraW01/API-Contact-Management/internal/service"
	"github.com/IndraW01/API-Contact-Management/internal/validation"
)

type output struct {
	Username string `json:"username"`
	Name     string `json:"name"`
	Created  bool   `json:"created"`
	Token    string `json:"token"`
}

// Creates a user if needed and logs it in, printing a session token for
// manual requests against a local server.
func main() {
	var (
		databaseURL = flag.String("database-url", os.Getenv("DATABASE_URL"), "PostgreSQL connection string")
		username    = flag.String("username", "test", "Username to create or log in")
		password    = flag.String("password", "rahasia", "Password for the user")
		name        = flag.String("name", "test", "Display name used when the user is created")
		format      = flag.String("format", "plain", "Output format: plain or json")
	)
	flag.Parse()

	if *databaseURL == "" {
		fmt.Fprintln(os.Stderr, "DATABASE_URL is required")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	repo, err := repository.New(ctx, *databaseURL)
	if err != nil {
		fmt.Fprintln(os.Stderr, "connect database:", err)
		os.Exit(1)
	}
	defer repo.Close()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	users := service.NewUserService(repo, nil, auth.NewHasher(auth.DefaultParams), validation.New(), nil, logger)

	out := output{Username: *username, Name: *name, Created: true}
	_, err = users.Register(ctx, model.RegisterUserRequest{Username: *username, Password: *password, Name: *name})
	if err != nil {
		var appErr *apperror.Error
		if !errors.As(err, &appErr) || appErr.Kind != apperror.KindAlreadyExists {
			fmt.Fprintln(os.Stderr, "register:", err)
			os.Exit(1)
		}
		out.Created = false
	}

	token, err := users.Login(ctx, model.LoginUserRequest{Username: *username, Password: *password})
	if err != nil {
		fmt.Fprintln(os.Stderr, "login:", err)
		os.Exit(1)
	}
	out.Token = token.Token

	switch strings.ToLower(*format) {
	case "plain":
		fmt.Println(out.Token)
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(out)
	default:
		fmt.Fprintln(os.Stderr, "invalid format; use plain or json")
		os.Exit(1)
	}
}

// Command migrate applies or rolls back the embedded database schema.
//
//	migrate [-database-url URL] up|down|status
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/IndraW01/API-Contact-Management/internal/migrations"
	"github.com/IndraW01/API-Contact-Management/internal/repository"
)

func main() {
	databaseURL := flag.String("database-url", os.Getenv("DATABASE_URL"), "PostgreSQL connection string")
	timeout := flag.Duration("timeout", time.Minute, "Overall time limit")
	flag.Usage = func() {
		fmt.Fprintln(flag.CommandLine.Output(), "usage: migrate [flags] up|down|status")
		flag.PrintDefaults()
	}
	flag.Parse()

	if *databaseURL == "" {
		fmt.Fprintln(os.Stderr, "DATABASE_URL is required")
		os.Exit(1)
	}
	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	run, err := command(flag.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		flag.Usage()
		os.Exit(2)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	repo, err := repository.New(ctx, *databaseURL)
	if err != nil {
		fmt.Fprintln(os.Stderr, "connect database:", err)
		os.Exit(1)
	}
	defer repo.Close()

	if err := run(ctx, repo); err != nil {
		fmt.Fprintln(os.Stderr, err)
		repo.Close()
		os.Exit(1)
	}
}

type migrateFunc func(ctx context.Context, repo *repository.Repository) error

func command(name string) (migrateFunc, error) {
	switch name {
	case "up":
		return func(ctx context.Context, repo *repository.Repository) error {
			return migrations.Up(ctx, repo.DB())
		}, nil
	case "down":
		return func(ctx context.Context, repo *repository.Repository) error {
			return migrations.Down(ctx, repo.DB())
		}, nil
	case "status":
		return func(ctx context.Context, repo *repository.Repository) error {
			return migrations.Status(ctx, repo.DB())
		}, nil
	default:
		return nil, fmt.Errorf("unknown command %q", name)
	}
}

package main

import (
	"context"

	"bloodaid/internal/db"
	"bloodaid/internal/seed"
	"bloodaid/internal/store"

	"github.com/k0kubun/pp/v3"
	"github.com/urfave/cli/v2"
)

var seedCommand = &cli.Command{
	Name:   "seed",
	Usage:  "Insert demo accounts and donation requests",
	Action: runSeed,
}

func runSeed(cCtx *cli.Context) error {
	ctx := context.Background()

	config, err := loadConfig()
	if err != nil {
		return err
	}

	pool, err := db.Connect(ctx, config)
	if err != nil {
		return err
	}
	defer pool.Close()

	accountRepo := store.NewAccountRepository(pool)
	requestRepo := store.NewRequestRepository(pool)

	accounts, err := seed.SeedFakeAccounts(ctx, accountRepo)
	if err != nil {
		return err
	}

	requests, err := seed.SeedFakeRequests(ctx, requestRepo)
	if err != nil {
		return err
	}

	pp.Println(map[string]int{
		"accounts": accounts,
		"requests": requests,
	})

	return nil
}

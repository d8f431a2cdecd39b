// Command seed fills the client store with generated demo data so the API
// has something to serve during local development.
package main

import (
	"context"
	"flag"
	"fmt"

	"bank-clients-api/config"
	"bank-clients-api/db"
	"bank-clients-api/logger"
	"bank-clients-api/model"
	"bank-clients-api/repository"

	"github.com/brianvoe/gofakeit/v7"
)

var accountTypes = []model.AccountType{
	model.AccountTypeChecking,
	model.AccountTypeSavings,
	model.AccountTypeOther,
}

func main() {
	count := flag.Int("count", 10, "number of demo clients to create")
	flag.Parse()

	config.LoadConfig(".")
	logger.Init()

	database, err := db.Connect()
	if err != nil {
		logger.Log.Fatalf("Error connecting to the database: %v", err)
	}
	defer database.Close()

	if err := db.RunMigrations("file://db/migrations", db.URL()); err != nil {
		logger.Log.Fatalf("Error running database migrations: %v", err)
	}

	repo := repository.NewClientRepository(database)
	ctx := context.Background()

	for i := 0; i < *count; i++ {
		accounts := make([]model.Account, 0, 3)
		for j := 0; j < gofakeit.Number(1, 3); j++ {
			accounts = append(accounts, model.Account{
				Name:    fmt.Sprintf("%s Fund", gofakeit.Word()),
				Type:    accountTypes[gofakeit.Number(0, len(accountTypes)-1)],
				Balance: float64(gofakeit.Number(0, 10000)),
			})
		}

		client := &model.Client{
			FirstName: gofakeit.FirstName(),
			LastName:  gofakeit.LastName(),
			Accounts:  accounts,
		}
		if _, err := repo.Create(ctx, client); err != nil {
			logger.Log.WithError(err).Fatal("Failed to seed client")
		}
		logger.Log.WithField("client_id", client.ID).Info("Seeded demo client")
	}

	logger.Log.Infof("Seeded %d demo clients", *count)
}

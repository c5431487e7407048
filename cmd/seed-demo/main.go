// seed-demo creates a demo user (demo@balancepmi.it) with a profile,
// notification preferences and one day of sample ledger and inventory rows.
//
// Usage (from backend directory):
//   DB_USER=... DB_PASSWORD=... DB_HOST=... DB_PORT=... DB_NAME=... go run ./cmd/seed-demo
package main

import (
	"context"
	"fmt"
	"os"

	"bitbucket.org/balancepmi/balance_backend/config"
	"bitbucket.org/balancepmi/balance_backend/models"
	"bitbucket.org/balancepmi/balance_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	demoEmail    = "demo@balancepmi.it"
	demoPassword = "demo1234"
	demoName     = "Demo PMI"
)

func main() {
	ctx := context.Background()
	config.ConnectDatabaseWithRetry()
	db := config.GetDB()
	if db == nil {
		fmt.Fprintln(os.Stderr, "database not initialized (config.GetDB returned nil). Set DB_* env vars.")
		os.Exit(1)
	}
	models.MigrateTable()

	var existing models.User
	err := db.WithContext(ctx).Model(&models.User{}).Where("email = ?", demoEmail).First(&existing).Error
	if err != nil && err != gorm.ErrRecordNotFound {
		fmt.Fprintf(os.Stderr, "failed to lookup user: %v\n", err)
		os.Exit(1)
	}
	if err == nil {
		fmt.Printf("demo user already exists (%s); nothing to do\n", existing.UserId)
		return
	}

	result, err := models.Register(ctx, &models.RegisterInput{
		Email:    demoEmail,
		Password: demoPassword,
		Name:     demoName,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create demo user: %v\n", err)
		os.Exit(1)
	}
	userID := result.User.UserId

	if _, err := models.CompleteOnboarding(ctx, userID, &models.OnboardingInput{
		TipoAttivita: "Ristorante",
		Settore:      "Ristorazione",
		Obiettivi:    []string{"Controllo costi", "Aumento margini"},
	}); err != nil {
		fmt.Fprintf(os.Stderr, "failed to create demo profile: %v\n", err)
		os.Exit(1)
	}
	if _, err := models.GetOrCreateNotificationPreferences(ctx, userID); err != nil {
		fmt.Fprintf(os.Stderr, "failed to create demo preferences: %v\n", err)
		os.Exit(1)
	}

	oggi := utils.Today()
	entrate := []*models.NewEntrata{
		{Descrizione: "Incasso pranzo", Importo: decimal.NewFromFloat(420.00), Data: oggi},
		{Descrizione: "Incasso cena", Importo: decimal.NewFromFloat(680.50), Data: oggi},
	}
	for _, e := range entrate {
		if _, err := models.CreateEntrata(ctx, userID, e); err != nil {
			fmt.Fprintf(os.Stderr, "failed to seed entrata: %v\n", err)
			os.Exit(1)
		}
	}

	costiFissi := []*models.NewCostoFisso{
		{Descrizione: "Affitto locale", ImportoMensile: decimal.NewFromFloat(1800)},
		{Descrizione: "Utenze", ImportoMensile: decimal.NewFromFloat(450)},
	}
	for _, cf := range costiFissi {
		if _, err := models.CreateCostoFisso(ctx, userID, cf); err != nil {
			fmt.Fprintf(os.Stderr, "failed to seed costo fisso: %v\n", err)
			os.Exit(1)
		}
	}

	costiVariabili := []*models.NewCostoVariabile{
		{Descrizione: "Spesa mercato", Importo: decimal.NewFromFloat(185.30), Data: oggi},
	}
	for _, cv := range costiVariabili {
		if _, err := models.CreateCostoVariabile(ctx, userID, cv); err != nil {
			fmt.Fprintf(os.Stderr, "failed to seed costo variabile: %v\n", err)
			os.Exit(1)
		}
	}

	fornitore := "Molino Rossi"
	materiali := []*models.NewMateriale{
		{
			Nome:                    "Farina 00",
			QuantitaDisponibile:     decimal.NewFromInt(25),
			UnitaMisura:             "kg",
			ConsumoMedioGiornaliero: decimal.NewFromInt(5),
			GiorniConsegna:          3,
			CostoUnitario:           decimal.NewFromFloat(1.20),
			Fornitore:               &fornitore,
		},
		{
			Nome:                    "Olio extravergine",
			QuantitaDisponibile:     decimal.NewFromInt(40),
			UnitaMisura:             "l",
			ConsumoMedioGiornaliero: decimal.NewFromInt(2),
			GiorniConsegna:          5,
			CostoUnitario:           decimal.NewFromFloat(7.80),
		},
	}
	for _, m := range materiali {
		if _, err := models.CreateMateriale(ctx, userID, m); err != nil {
			fmt.Fprintf(os.Stderr, "failed to seed materiale: %v\n", err)
			os.Exit(1)
		}
	}

	fmt.Printf("demo user seeded (%s)\nemail: %s\npassword: %s\n", userID, demoEmail, demoPassword)
}

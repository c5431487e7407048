package models

import (
	"log"

	"bitbucket.org/balancepmi/balance_backend/config"
)

func MigrateTable() {
	db := config.GetDB()

	err := db.AutoMigrate(
		&User{}, &UserSession{}, &UserProfile{}, &NotificationPreferences{},
		&Entrata{}, &CostoFisso{}, &CostoVariabile{},
		&Materiale{},
		&Notifica{},
		&InsightAI{},
	)
	if err != nil {
		log.Fatal(err)
	}
}

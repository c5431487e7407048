package models

import (
	"context"
	"errors"
	"time"

	"bitbucket.org/balancepmi/balance_backend/config"
	"bitbucket.org/balancepmi/balance_backend/utils"
	"github.com/shopspring/decimal"
)

// Entrata is one income record. Immutable once created.
type Entrata struct {
	EntrataId   string          `gorm:"primaryKey;size:64" json:"entrata_id"`
	UserId      string          `gorm:"size:64;not null;index:idx_entrate_user_data,priority:1" json:"user_id"`
	Descrizione string          `gorm:"size:255;not null" json:"descrizione"`
	Importo     decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"importo"`
	Data        string          `gorm:"size:10;not null;index:idx_entrate_user_data,priority:2" json:"data"`
	Tipo        string          `gorm:"size:20;not null;default:registrata" json:"tipo"`
	CreatedAt   time.Time       `gorm:"autoCreateTime" json:"created_at"`
}

type NewEntrata struct {
	Descrizione string          `json:"descrizione" binding:"required"`
	Importo     decimal.Decimal `json:"importo"`
	Data        string          `json:"data" binding:"required"`
	Tipo        string          `json:"tipo"`
}

// GetEntrate lists the owner's income records, optionally filtered to one day.
func GetEntrate(ctx context.Context, userID string, data string) ([]*Entrata, error) {
	db := config.GetDB()
	var results []*Entrata

	dbCtx := db.WithContext(ctx).Where("user_id = ?", userID)
	if data != "" {
		dbCtx = dbCtx.Where("data = ?", data)
	}
	if err := dbCtx.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func CreateEntrata(ctx context.Context, userID string, input *NewEntrata) (*Entrata, error) {
	db := config.GetDB()

	if !utils.IsValidDate(input.Data) {
		return nil, errors.New("data non valida")
	}
	tipo := input.Tipo
	if tipo == "" {
		tipo = "registrata"
	}

	entrata := Entrata{
		EntrataId:   utils.NewID("ent"),
		UserId:      userID,
		Descrizione: input.Descrizione,
		Importo:     input.Importo,
		Data:        input.Data,
		Tipo:        tipo,
	}
	if err := db.WithContext(ctx).Create(&entrata).Error; err != nil {
		return nil, err
	}
	return &entrata, nil
}

func DeleteEntrata(ctx context.Context, userID string, entrataID string) error {
	db := config.GetDB()
	result := db.WithContext(ctx).Where("entrata_id = ? AND user_id = ?", entrataID, userID).Delete(&Entrata{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return utils.ErrorRecordNotFound
	}
	return nil
}

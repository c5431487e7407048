package models

import (
	"context"
	"errors"
	"time"

	"bitbucket.org/balancepmi/balance_backend/config"
	"bitbucket.org/balancepmi/balance_backend/utils"
	"github.com/shopspring/decimal"
)

// CostoVariabile is a date-scoped cost record. Immutable once created.
type CostoVariabile struct {
	CostoId     string          `gorm:"primaryKey;size:64" json:"costo_id"`
	UserId      string          `gorm:"size:64;not null;index:idx_costi_var_user_data,priority:1" json:"user_id"`
	Descrizione string          `gorm:"size:255;not null" json:"descrizione"`
	Importo     decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"importo"`
	Data        string          `gorm:"size:10;not null;index:idx_costi_var_user_data,priority:2" json:"data"`
	CreatedAt   time.Time       `gorm:"autoCreateTime" json:"created_at"`
}

type NewCostoVariabile struct {
	Descrizione string          `json:"descrizione" binding:"required"`
	Importo     decimal.Decimal `json:"importo"`
	Data        string          `json:"data" binding:"required"`
}

func GetCostiVariabili(ctx context.Context, userID string, data string) ([]*CostoVariabile, error) {
	db := config.GetDB()
	var results []*CostoVariabile

	dbCtx := db.WithContext(ctx).Where("user_id = ?", userID)
	if data != "" {
		dbCtx = dbCtx.Where("data = ?", data)
	}
	if err := dbCtx.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func CreateCostoVariabile(ctx context.Context, userID string, input *NewCostoVariabile) (*CostoVariabile, error) {
	db := config.GetDB()

	if !utils.IsValidDate(input.Data) {
		return nil, errors.New("data non valida")
	}

	costo := CostoVariabile{
		CostoId:     utils.NewID("cv"),
		UserId:      userID,
		Descrizione: input.Descrizione,
		Importo:     input.Importo,
		Data:        input.Data,
	}
	if err := db.WithContext(ctx).Create(&costo).Error; err != nil {
		return nil, err
	}
	return &costo, nil
}

func DeleteCostoVariabile(ctx context.Context, userID string, costoID string) error {
	db := config.GetDB()
	result := db.WithContext(ctx).Where("costo_id = ? AND user_id = ?", costoID, userID).Delete(&CostoVariabile{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return utils.ErrorRecordNotFound
	}
	return nil
}

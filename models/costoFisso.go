package models

import (
	"context"
	"time"

	"bitbucket.org/balancepmi/balance_backend/config"
	"bitbucket.org/balancepmi/balance_backend/utils"
	"github.com/shopspring/decimal"
)

var giorniMese = decimal.NewFromInt(30)

// CostoFisso is a monthly fixed cost amortized evenly across 30 days.
// QuotaGiornaliera is derived once at creation and stored; there is no
// update path for ImportoMensile, so it is never recomputed.
type CostoFisso struct {
	CostoId         string          `gorm:"primaryKey;size:64" json:"costo_id"`
	UserId          string          `gorm:"size:64;not null;index" json:"user_id"`
	Descrizione     string          `gorm:"size:255;not null" json:"descrizione"`
	ImportoMensile  decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"importo_mensile"`
	QuotaGiornaliera decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"quota_giornaliera"`
	CreatedAt       time.Time       `gorm:"autoCreateTime" json:"created_at"`
}

type NewCostoFisso struct {
	Descrizione    string          `json:"descrizione" binding:"required"`
	ImportoMensile decimal.Decimal `json:"importo_mensile"`
}

// QuotaGiornaliera amortizes a monthly amount over 30 days, rounded to cents.
func QuotaGiornaliera(importoMensile decimal.Decimal) decimal.Decimal {
	return importoMensile.Div(giorniMese).Round(2)
}

func GetCostiFissi(ctx context.Context, userID string) ([]*CostoFisso, error) {
	db := config.GetDB()
	var results []*CostoFisso
	if err := db.WithContext(ctx).Where("user_id = ?", userID).Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func CreateCostoFisso(ctx context.Context, userID string, input *NewCostoFisso) (*CostoFisso, error) {
	db := config.GetDB()

	costo := CostoFisso{
		CostoId:          utils.NewID("cf"),
		UserId:           userID,
		Descrizione:      input.Descrizione,
		ImportoMensile:   input.ImportoMensile,
		QuotaGiornaliera: QuotaGiornaliera(input.ImportoMensile),
	}
	if err := db.WithContext(ctx).Create(&costo).Error; err != nil {
		return nil, err
	}
	return &costo, nil
}

func DeleteCostoFisso(ctx context.Context, userID string, costoID string) error {
	db := config.GetDB()
	result := db.WithContext(ctx).Where("costo_id = ? AND user_id = ?", costoID, userID).Delete(&CostoFisso{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return utils.ErrorRecordNotFound
	}
	return nil
}

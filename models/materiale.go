package models

import (
	"context"
	"time"

	"bitbucket.org/balancepmi/balance_backend/config"
	"bitbucket.org/balancepmi/balance_backend/utils"
	"github.com/shopspring/decimal"
)

var due = decimal.NewFromInt(2)

// Materiale is an inventory item. Quantity, consumption rate and lead time
// are updated independently; the reorder status is derived on every read and
// never stored, so edits take effect on the next query.
type Materiale struct {
	MaterialeId             string          `gorm:"primaryKey;size:64" json:"materiale_id"`
	UserId                  string          `gorm:"size:64;not null;index" json:"user_id"`
	Nome                    string          `gorm:"size:255;not null" json:"nome"`
	QuantitaDisponibile     decimal.Decimal `gorm:"type:decimal(20,4);not null;default:0" json:"quantita_disponibile"`
	UnitaMisura             string          `gorm:"size:20;not null" json:"unita_misura"`
	ConsumoMedioGiornaliero decimal.Decimal `gorm:"type:decimal(20,4);not null;default:0" json:"consumo_medio_giornaliero"`
	GiorniConsegna          int             `gorm:"not null;default:0" json:"giorni_consegna"`
	CostoUnitario           decimal.Decimal `gorm:"type:decimal(20,4);not null;default:0" json:"costo_unitario"`
	Fornitore               *string         `gorm:"size:255" json:"fornitore"`
	FornitoreEmail          *string         `gorm:"size:100" json:"fornitore_email"`
	FornitoreTelefono       *string         `gorm:"size:30" json:"fornitore_telefono"`
	FornitoreSito           *string         `gorm:"size:255" json:"fornitore_sito"`
	CreatedAt               time.Time       `gorm:"autoCreateTime" json:"created_at"`
}

// MaterialeConStato is a Materiale annotated with its derived reorder status.
type MaterialeConStato struct {
	Materiale
	Stato         StatoMateriale   `json:"stato"`
	GiorniRimasti *decimal.Decimal `json:"giorni_rimasti"`
}

type NewMateriale struct {
	Nome                    string          `json:"nome" binding:"required"`
	QuantitaDisponibile     decimal.Decimal `json:"quantita_disponibile"`
	UnitaMisura             string          `json:"unita_misura" binding:"required"`
	ConsumoMedioGiornaliero decimal.Decimal `json:"consumo_medio_giornaliero"`
	GiorniConsegna          int             `json:"giorni_consegna"`
	CostoUnitario           decimal.Decimal `json:"costo_unitario"`
	Fornitore               *string         `json:"fornitore"`
	FornitoreEmail          *string         `json:"fornitore_email"`
	FornitoreTelefono       *string         `json:"fornitore_telefono"`
	FornitoreSito           *string         `json:"fornitore_sito"`
}

type MaterialeUpdate struct {
	QuantitaDisponibile     *decimal.Decimal `json:"quantita_disponibile"`
	ConsumoMedioGiornaliero *decimal.Decimal `json:"consumo_medio_giornaliero"`
	GiorniConsegna          *int             `json:"giorni_consegna"`
	CostoUnitario           *decimal.Decimal `json:"costo_unitario"`
	Fornitore               *string          `json:"fornitore"`
	FornitoreEmail          *string          `json:"fornitore_email"`
	FornitoreTelefono       *string          `json:"fornitore_telefono"`
	FornitoreSito           *string          `json:"fornitore_sito"`
}

// Valuta computes the reorder status from the item's current fields.
//
// With no meaningful consumption rate the item never runs out: status is ok
// and days remaining undefined. Otherwise days remaining is compared to the
// reorder lead time: at or below it a reorder cannot arrive in time
// (ordina_ora); within twice of it the item needs watching (attenzione).
func (m *Materiale) Valuta() (StatoMateriale, *decimal.Decimal) {
	if m.ConsumoMedioGiornaliero.LessThanOrEqual(decimal.Zero) {
		return StatoMaterialeOk, nil
	}

	giorniRimasti := m.QuantitaDisponibile.Div(m.ConsumoMedioGiornaliero)
	consegna := decimal.NewFromInt(int64(m.GiorniConsegna))

	var stato StatoMateriale
	switch {
	case giorniRimasti.LessThanOrEqual(consegna):
		stato = StatoMaterialeOrdinaOra
	case giorniRimasti.LessThanOrEqual(consegna.Mul(due)):
		stato = StatoMaterialeAttenzione
	default:
		stato = StatoMaterialeOk
	}

	rounded := giorniRimasti.Round(1)
	return stato, &rounded
}

// GetMateriali lists the owner's items, each annotated with its status.
func GetMateriali(ctx context.Context, userID string) ([]*MaterialeConStato, error) {
	db := config.GetDB()
	var materiali []*Materiale
	if err := db.WithContext(ctx).Where("user_id = ?", userID).Find(&materiali).Error; err != nil {
		return nil, err
	}

	results := make([]*MaterialeConStato, 0, len(materiali))
	for _, m := range materiali {
		stato, giorniRimasti := m.Valuta()
		results = append(results, &MaterialeConStato{
			Materiale:     *m,
			Stato:         stato,
			GiorniRimasti: giorniRimasti,
		})
	}
	return results, nil
}

func CreateMateriale(ctx context.Context, userID string, input *NewMateriale) (*Materiale, error) {
	db := config.GetDB()

	materiale := Materiale{
		MaterialeId:             utils.NewID("mat"),
		UserId:                  userID,
		Nome:                    input.Nome,
		QuantitaDisponibile:     input.QuantitaDisponibile,
		UnitaMisura:             input.UnitaMisura,
		ConsumoMedioGiornaliero: input.ConsumoMedioGiornaliero,
		GiorniConsegna:          input.GiorniConsegna,
		CostoUnitario:           input.CostoUnitario,
		Fornitore:               input.Fornitore,
		FornitoreEmail:          input.FornitoreEmail,
		FornitoreTelefono:       input.FornitoreTelefono,
		FornitoreSito:           input.FornitoreSito,
	}
	if err := db.WithContext(ctx).Create(&materiale).Error; err != nil {
		return nil, err
	}
	return &materiale, nil
}

func UpdateMateriale(ctx context.Context, userID string, materialeID string, input *MaterialeUpdate) error {
	updates := map[string]interface{}{}
	if input.QuantitaDisponibile != nil {
		updates["quantita_disponibile"] = *input.QuantitaDisponibile
	}
	if input.ConsumoMedioGiornaliero != nil {
		updates["consumo_medio_giornaliero"] = *input.ConsumoMedioGiornaliero
	}
	if input.GiorniConsegna != nil {
		updates["giorni_consegna"] = *input.GiorniConsegna
	}
	if input.CostoUnitario != nil {
		updates["costo_unitario"] = *input.CostoUnitario
	}
	if input.Fornitore != nil {
		updates["fornitore"] = *input.Fornitore
	}
	if input.FornitoreEmail != nil {
		updates["fornitore_email"] = *input.FornitoreEmail
	}
	if input.FornitoreTelefono != nil {
		updates["fornitore_telefono"] = *input.FornitoreTelefono
	}
	if input.FornitoreSito != nil {
		updates["fornitore_sito"] = *input.FornitoreSito
	}
	if len(updates) == 0 {
		return utils.ErrorNothingToUpdate
	}

	db := config.GetDB()
	var count int64
	if err := db.WithContext(ctx).Model(&Materiale{}).
		Where("materiale_id = ? AND user_id = ?", materialeID, userID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return utils.ErrorRecordNotFound
	}

	return db.WithContext(ctx).Model(&Materiale{}).
		Where("materiale_id = ? AND user_id = ?", materialeID, userID).
		Updates(updates).Error
}

func DeleteMateriale(ctx context.Context, userID string, materialeID string) error {
	db := config.GetDB()
	result := db.WithContext(ctx).Where("materiale_id = ? AND user_id = ?", materialeID, userID).Delete(&Materiale{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return utils.ErrorRecordNotFound
	}
	return nil
}

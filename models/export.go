package models

import (
	"bytes"
	"context"
	"fmt"

	"bitbucket.org/balancepmi/balance_backend/config"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// ExportMese builds an xlsx workbook with the month's income, variable costs
// and the current fixed cost plan. mese is "YYYY-MM".
func ExportMese(ctx context.Context, userID string, mese string) (*bytes.Buffer, error) {
	db := config.GetDB()

	var entrate []*Entrata
	if err := db.WithContext(ctx).
		Where("user_id = ? AND data LIKE ?", userID, mese+"%").
		Order("data ASC, created_at ASC").
		Find(&entrate).Error; err != nil {
		return nil, err
	}
	var costiVar []*CostoVariabile
	if err := db.WithContext(ctx).
		Where("user_id = ? AND data LIKE ?", userID, mese+"%").
		Order("data ASC, created_at ASC").
		Find(&costiVar).Error; err != nil {
		return nil, err
	}
	costiFissi, err := GetCostiFissi(ctx, userID)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := writeEntrateSheet(f, entrate); err != nil {
		return nil, err
	}
	if err := writeCostiVariabiliSheet(f, costiVar); err != nil {
		return nil, err
	}
	if err := writeCostiFissiSheet(f, costiFissi); err != nil {
		return nil, err
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf, nil
}

func writeEntrateSheet(f *excelize.File, entrate []*Entrata) error {
	const sheet = "Entrate"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, "A1", &[]interface{}{"Data", "Descrizione", "Importo", "Tipo"}); err != nil {
		return err
	}
	totale := decimal.Zero
	for i, e := range entrate {
		cell := fmt.Sprintf("A%d", i+2)
		importo, _ := e.Importo.Float64()
		if err := f.SetSheetRow(sheet, cell, &[]interface{}{e.Data, e.Descrizione, importo, e.Tipo}); err != nil {
			return err
		}
		totale = totale.Add(e.Importo)
	}
	return writeTotale(f, sheet, len(entrate)+3, totale)
}

func writeCostiVariabiliSheet(f *excelize.File, costi []*CostoVariabile) error {
	const sheet = "Costi Variabili"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, "A1", &[]interface{}{"Data", "Descrizione", "Importo"}); err != nil {
		return err
	}
	totale := decimal.Zero
	for i, c := range costi {
		cell := fmt.Sprintf("A%d", i+2)
		importo, _ := c.Importo.Float64()
		if err := f.SetSheetRow(sheet, cell, &[]interface{}{c.Data, c.Descrizione, importo}); err != nil {
			return err
		}
		totale = totale.Add(c.Importo)
	}
	return writeTotale(f, sheet, len(costi)+3, totale)
}

func writeCostiFissiSheet(f *excelize.File, costi []*CostoFisso) error {
	const sheet = "Costi Fissi"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, "A1", &[]interface{}{"Descrizione", "Importo Mensile", "Quota Giornaliera"}); err != nil {
		return err
	}
	totale := decimal.Zero
	for i, c := range costi {
		cell := fmt.Sprintf("A%d", i+2)
		mensile, _ := c.ImportoMensile.Float64()
		quota, _ := c.QuotaGiornaliera.Float64()
		if err := f.SetSheetRow(sheet, cell, &[]interface{}{c.Descrizione, mensile, quota}); err != nil {
			return err
		}
		totale = totale.Add(c.ImportoMensile)
	}
	return writeTotale(f, sheet, len(costi)+3, totale)
}

func writeTotale(f *excelize.File, sheet string, row int, totale decimal.Decimal) error {
	val, _ := totale.Float64()
	return f.SetSheetRow(sheet, fmt.Sprintf("A%d", row), &[]interface{}{"Totale", val})
}

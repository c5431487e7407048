package models

import (
	"context"

	"bitbucket.org/balancepmi/balance_backend/config"
	"github.com/shopspring/decimal"
)

// sogliaCritico: a day with profit below -100 is critical.
var sogliaCritico = decimal.NewFromInt(-100)

// Dashboard is the daily profit/loss snapshot.
//
// Derived data: recomputed from the current rows on every request and never
// persisted or cached, so it is always consistent with the latest writes at
// the cost of a full scan per request. Monetary fields are rounded to cents
// at this boundary only; the status is classified on the unrounded profit.
type Dashboard struct {
	Data           string          `json:"data"`
	Utile          decimal.Decimal `json:"utile"`
	Entrate        decimal.Decimal `json:"entrate"`
	Costi          decimal.Decimal `json:"costi"`
	CostiVariabili decimal.Decimal `json:"costi_variabili"`
	QuotaFissi     decimal.Decimal `json:"quota_fissi"`
	Stato          StatoGiornata   `json:"stato"`
}

// ClassificaUtile maps a day's profit to its status.
// Tie-break order matters: zero profit is attenzione, not positivo.
func ClassificaUtile(utile decimal.Decimal) StatoGiornata {
	switch {
	case utile.GreaterThan(decimal.Zero):
		return StatoGiornataPositivo
	case utile.GreaterThanOrEqual(sogliaCritico):
		return StatoGiornataAttenzione
	default:
		return StatoGiornataCritico
	}
}

// ComputeDashboard builds the snapshot for one day from ledger rows.
// Income and variable costs must already be filtered to the target day;
// fixed costs are not date-scoped and every row contributes its daily share.
func ComputeDashboard(data string, entrate []*Entrata, costiVariabili []*CostoVariabile, costiFissi []*CostoFisso) *Dashboard {
	totaleEntrate := decimal.Zero
	for _, e := range entrate {
		totaleEntrate = totaleEntrate.Add(e.Importo)
	}

	totaleCostiVar := decimal.Zero
	for _, c := range costiVariabili {
		totaleCostiVar = totaleCostiVar.Add(c.Importo)
	}

	totaleQuotaFissi := decimal.Zero
	for _, c := range costiFissi {
		totaleQuotaFissi = totaleQuotaFissi.Add(c.QuotaGiornaliera)
	}

	totaleCosti := totaleCostiVar.Add(totaleQuotaFissi)
	utile := totaleEntrate.Sub(totaleCosti)

	return &Dashboard{
		Data:           data,
		Utile:          utile.Round(2),
		Entrate:        totaleEntrate.Round(2),
		Costi:          totaleCosti.Round(2),
		CostiVariabili: totaleCostiVar.Round(2),
		QuotaFissi:     totaleQuotaFissi.Round(2),
		Stato:          ClassificaUtile(utile),
	}
}

// GetDashboard computes the owner's snapshot for the given day.
func GetDashboard(ctx context.Context, userID string, data string) (*Dashboard, error) {
	db := config.GetDB()

	var entrate []*Entrata
	if err := db.WithContext(ctx).Where("user_id = ? AND data = ?", userID, data).Find(&entrate).Error; err != nil {
		return nil, err
	}

	var costiVariabili []*CostoVariabile
	if err := db.WithContext(ctx).Where("user_id = ? AND data = ?", userID, data).Find(&costiVariabili).Error; err != nil {
		return nil, err
	}

	var costiFissi []*CostoFisso
	if err := db.WithContext(ctx).Where("user_id = ?", userID).Find(&costiFissi).Error; err != nil {
		return nil, err
	}

	return ComputeDashboard(data, entrate, costiVariabili, costiFissi), nil
}

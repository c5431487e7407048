package models_test

import (
	"testing"

	"bitbucket.org/balancepmi/balance_backend/models"
	"github.com/shopspring/decimal"
)

func TestClassificaUtile(t *testing.T) {
	cases := []struct {
		name  string
		utile string
		want  models.StatoGiornata
	}{
		{"positive profit", "309.50", models.StatoGiornataPositivo},
		{"smallest positive", "0.01", models.StatoGiornataPositivo},
		{"zero is attenzione, not positivo", "0", models.StatoGiornataAttenzione},
		{"small loss", "-50", models.StatoGiornataAttenzione},
		{"exactly -100 is still attenzione", "-100", models.StatoGiornataAttenzione},
		{"just past the threshold", "-100.01", models.StatoGiornataCritico},
		{"deep loss", "-1500", models.StatoGiornataCritico},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			utile, err := decimal.NewFromString(tc.utile)
			if err != nil {
				t.Fatalf("parse %q: %v", tc.utile, err)
			}
			if got := models.ClassificaUtile(utile); got != tc.want {
				t.Errorf("ClassificaUtile(%s) = %q, want %q", tc.utile, got, tc.want)
			}
		})
	}
}

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("parse decimal %q: %v", s, err)
	}
	return d
}

func TestComputeDashboardPositiveDay(t *testing.T) {
	const giorno = "2025-03-10"

	entrate := []*models.Entrata{
		{Importo: dec(t, "300"), Data: giorno},
		{Importo: dec(t, "200"), Data: giorno},
	}
	costiVariabili := []*models.CostoVariabile{
		{Importo: dec(t, "150.50"), Data: giorno},
	}
	costiFissi := []*models.CostoFisso{
		{ImportoMensile: dec(t, "1200"), QuotaGiornaliera: models.QuotaGiornaliera(dec(t, "1200"))},
	}

	d := models.ComputeDashboard(giorno, entrate, costiVariabili, costiFissi)

	if d.Data != giorno {
		t.Errorf("Data = %q, want %q", d.Data, giorno)
	}
	if !d.Entrate.Equal(dec(t, "500")) {
		t.Errorf("Entrate = %s, want 500", d.Entrate)
	}
	if !d.QuotaFissi.Equal(dec(t, "40")) {
		t.Errorf("QuotaFissi = %s, want 40", d.QuotaFissi)
	}
	if !d.Costi.Equal(dec(t, "190.50")) {
		t.Errorf("Costi = %s, want 190.50", d.Costi)
	}
	if !d.Utile.Equal(dec(t, "309.50")) {
		t.Errorf("Utile = %s, want 309.50", d.Utile)
	}
	if d.Stato != models.StatoGiornataPositivo {
		t.Errorf("Stato = %q, want positivo", d.Stato)
	}
}

func TestComputeDashboardCriticalDay(t *testing.T) {
	const giorno = "2025-03-11"

	entrate := []*models.Entrata{
		{Importo: dec(t, "50"), Data: giorno},
	}
	costiVariabili := []*models.CostoVariabile{
		{Importo: dec(t, "130"), Data: giorno},
	}
	costiFissi := []*models.CostoFisso{
		{ImportoMensile: dec(t, "1200"), QuotaGiornaliera: models.QuotaGiornaliera(dec(t, "1200"))},
	}

	d := models.ComputeDashboard(giorno, entrate, costiVariabili, costiFissi)

	if !d.Utile.Equal(dec(t, "-120")) {
		t.Errorf("Utile = %s, want -120", d.Utile)
	}
	if d.Stato != models.StatoGiornataCritico {
		t.Errorf("Stato = %q, want critico", d.Stato)
	}
}

func TestComputeDashboardEmptyDay(t *testing.T) {
	d := models.ComputeDashboard("2025-03-12", nil, nil, nil)

	if !d.Utile.IsZero() {
		t.Errorf("Utile = %s, want 0", d.Utile)
	}
	if d.Stato != models.StatoGiornataAttenzione {
		t.Errorf("Stato = %q, want attenzione (zero profit)", d.Stato)
	}
}

// Recomputing from the same rows must yield the same snapshot.
func TestComputeDashboardIsDeterministic(t *testing.T) {
	const giorno = "2025-03-13"
	entrate := []*models.Entrata{{Importo: dec(t, "99.99"), Data: giorno}}
	costiFissi := []*models.CostoFisso{
		{ImportoMensile: dec(t, "100"), QuotaGiornaliera: models.QuotaGiornaliera(dec(t, "100"))},
	}

	prima := models.ComputeDashboard(giorno, entrate, nil, costiFissi)
	dopo := models.ComputeDashboard(giorno, entrate, nil, costiFissi)

	if !prima.Utile.Equal(dopo.Utile) || prima.Stato != dopo.Stato {
		t.Errorf("snapshots differ: %s/%s vs %s/%s", prima.Utile, prima.Stato, dopo.Utile, dopo.Stato)
	}
}

// Rounding happens only at the output boundary; classification uses the
// unrounded profit. A raw profit of -100.004 rounds to -100.00 in the
// response but is still past the critical threshold.
func TestComputeDashboardClassifiesUnroundedProfit(t *testing.T) {
	const giorno = "2025-03-14"
	costiVariabili := []*models.CostoVariabile{{Importo: dec(t, "100.004"), Data: giorno}}

	d := models.ComputeDashboard(giorno, nil, costiVariabili, nil)

	if !d.Utile.Equal(dec(t, "-100.00")) {
		t.Errorf("Utile = %s, want -100.00 (rounded)", d.Utile)
	}
	if d.Stato != models.StatoGiornataCritico {
		t.Errorf("Stato = %q, want critico (classified before rounding)", d.Stato)
	}
}

package models

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestFallbackInsight(t *testing.T) {
	positivo := &Dashboard{
		Utile: decimal.NewFromFloat(309.50),
		Stato: StatoGiornataPositivo,
	}
	if got, want := fallbackInsight(positivo), "Il tuo utile oggi è di €309.5. Ottimo lavoro!"; got != want {
		t.Errorf("fallbackInsight(positivo) = %q, want %q", got, want)
	}

	critico := &Dashboard{
		Utile: decimal.NewFromInt(-120),
		Stato: StatoGiornataCritico,
	}
	if got, want := fallbackInsight(critico), "Il tuo utile oggi è di €-120. Considera di rivedere i costi."; got != want {
		t.Errorf("fallbackInsight(critico) = %q, want %q", got, want)
	}

	pari := &Dashboard{
		Utile: decimal.Zero,
		Stato: StatoGiornataAttenzione,
	}
	if got, want := fallbackInsight(pari), "Il tuo utile oggi è di €0. Considera di rivedere i costi."; got != want {
		t.Errorf("fallbackInsight(attenzione) = %q, want %q", got, want)
	}
}

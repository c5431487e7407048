package models_test

import (
	"testing"

	"bitbucket.org/balancepmi/balance_backend/models"
)

func TestMaterialeValuta(t *testing.T) {
	cases := []struct {
		name          string
		quantita      string
		consumo       string
		giorniConsegna int
		wantStato     models.StatoMateriale
		wantGiorni    string // "" means nil expected
	}{
		{
			name:     "zero consumption never runs out",
			quantita: "100", consumo: "0", giorniConsegna: 5,
			wantStato: models.StatoMaterialeOk, wantGiorni: "",
		},
		{
			name:     "negative consumption treated as no consumption",
			quantita: "100", consumo: "-1", giorniConsegna: 5,
			wantStato: models.StatoMaterialeOk, wantGiorni: "",
		},
		{
			name:     "plenty of stock",
			quantita: "100", consumo: "5", giorniConsegna: 7,
			wantStato: models.StatoMaterialeOk, wantGiorni: "20",
		},
		{
			name:     "days remaining equal to lead time",
			quantita: "15", consumo: "5", giorniConsegna: 3,
			wantStato: models.StatoMaterialeOrdinaOra, wantGiorni: "3",
		},
		{
			name:     "below lead time",
			quantita: "10", consumo: "5", giorniConsegna: 3,
			wantStato: models.StatoMaterialeOrdinaOra, wantGiorni: "2",
		},
		{
			name:     "exactly twice the lead time",
			quantita: "30", consumo: "5", giorniConsegna: 3,
			wantStato: models.StatoMaterialeAttenzione, wantGiorni: "6",
		},
		{
			name:     "just above the attenzione band",
			quantita: "30.05", consumo: "5", giorniConsegna: 3,
			wantStato: models.StatoMaterialeOk, wantGiorni: "6",
		},
		{
			name:     "zero lead time orders immediately at empty stock",
			quantita: "0", consumo: "2", giorniConsegna: 0,
			wantStato: models.StatoMaterialeOrdinaOra, wantGiorni: "0",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m := &models.Materiale{
				QuantitaDisponibile:     dec(t, tc.quantita),
				ConsumoMedioGiornaliero: dec(t, tc.consumo),
				GiorniConsegna:          tc.giorniConsegna,
			}
			stato, giorni := m.Valuta()
			if stato != tc.wantStato {
				t.Errorf("stato = %q, want %q", stato, tc.wantStato)
			}
			if tc.wantGiorni == "" {
				if giorni != nil {
					t.Errorf("giorni_rimasti = %s, want nil", giorni)
				}
				return
			}
			if giorni == nil {
				t.Fatalf("giorni_rimasti = nil, want %s", tc.wantGiorni)
			}
			if !giorni.Equal(dec(t, tc.wantGiorni)) {
				t.Errorf("giorni_rimasti = %s, want %s", giorni, tc.wantGiorni)
			}
		})
	}
}

// Days remaining is rounded to one decimal for presentation.
func TestMaterialeValutaRoundsDaysToOneDecimal(t *testing.T) {
	m := &models.Materiale{
		QuantitaDisponibile:     dec(t, "10"),
		ConsumoMedioGiornaliero: dec(t, "3"),
		GiorniConsegna:          1,
	}
	stato, giorni := m.Valuta()
	if stato != models.StatoMaterialeOk {
		t.Errorf("stato = %q, want ok", stato)
	}
	if giorni == nil || !giorni.Equal(dec(t, "3.3")) {
		t.Errorf("giorni_rimasti = %v, want 3.3", giorni)
	}
}

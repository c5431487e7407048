package models_test

import (
	"testing"

	"bitbucket.org/balancepmi/balance_backend/models"
)

func TestQuotaGiornaliera(t *testing.T) {
	cases := []struct {
		mensile string
		want    string
	}{
		{"1200", "40"},
		{"100", "3.33"},
		{"30", "1"},
		{"0", "0"},
		{"1", "0.03"},
		{"999.99", "33.33"},
	}

	for _, tc := range cases {
		got := models.QuotaGiornaliera(dec(t, tc.mensile))
		if !got.Equal(dec(t, tc.want)) {
			t.Errorf("QuotaGiornaliera(%s) = %s, want %s", tc.mensile, got, tc.want)
		}
	}
}

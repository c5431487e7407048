package models

import (
	"context"
	"fmt"
	"strings"
	"time"

	"bitbucket.org/balancepmi/balance_backend/config"
	"bitbucket.org/balancepmi/balance_backend/insight"
	"bitbucket.org/balancepmi/balance_backend/utils"
	"github.com/sirupsen/logrus"
)

// InsightAI is one generated insight, persisted per (owner, date) so a day
// is only ever generated once.
type InsightAI struct {
	InsightId string      `gorm:"primaryKey;size:64" json:"insight_id"`
	UserId    string      `gorm:"size:64;not null;index:idx_insights_user_data,priority:1" json:"user_id"`
	Data      string      `gorm:"size:10;not null;index:idx_insights_user_data,priority:2" json:"data"`
	Tipo      TipoInsight `gorm:"size:20;not null" json:"tipo"`
	Contenuto string      `gorm:"type:text;not null" json:"contenuto"`
	CreatedAt time.Time   `gorm:"autoCreateTime" json:"created_at"`
}

const insightSystemFree = "Sei un consulente aziendale che fornisce suggerimenti prudenti e pratici."
const insightSystemPro = "Sei un consulente aziendale esperto."

// GetInsights returns the stored insights for the date, generating them
// first if none exist yet. Generation is tier-dependent: one generic insight
// for free users, three fixed-angle insights for pro users.
func GetInsights(ctx context.Context, userID string, data string, gen insight.Generator) ([]*InsightAI, error) {
	db := config.GetDB()

	var existing []*InsightAI
	if err := db.WithContext(ctx).Where("user_id = ? AND data = ?", userID, data).Find(&existing).Error; err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		return existing, nil
	}

	user, err := GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	contesto, dashboard, err := buildInsightContext(ctx, userID, data)
	if err != nil {
		return nil, err
	}

	var insights []*InsightAI
	if user.SubscriptionTier == SubscriptionTierPro {
		insights = generateProInsights(ctx, gen, userID, data, contesto)
	} else {
		insights = []*InsightAI{generateFreeInsight(ctx, gen, userID, data, contesto, dashboard)}
	}

	if len(insights) > 0 {
		if err := db.WithContext(ctx).Create(&insights).Error; err != nil {
			return nil, err
		}
	}
	return insights, nil
}

// buildInsightContext assembles the Italian prompt context from the day's
// financial picture.
func buildInsightContext(ctx context.Context, userID string, data string) (string, *Dashboard, error) {
	profile, err := GetProfile(ctx, userID)
	if err != nil && err != utils.ErrorRecordNotFound {
		return "", nil, err
	}

	dashboard, err := GetDashboard(ctx, userID, data)
	if err != nil {
		return "", nil, err
	}
	entrate, err := GetEntrate(ctx, userID, data)
	if err != nil {
		return "", nil, err
	}
	costiVar, err := GetCostiVariabili(ctx, userID, data)
	if err != nil {
		return "", nil, err
	}
	costiFissi, err := GetCostiFissi(ctx, userID)
	if err != nil {
		return "", nil, err
	}
	materiali, err := GetMateriali(ctx, userID)
	if err != nil {
		return "", nil, err
	}
	critici := 0
	for _, m := range materiali {
		if m.Stato == StatoMaterialeOrdinaOra {
			critici++
		}
	}

	tipoAttivita, settore := "N/A", "N/A"
	if profile != nil {
		tipoAttivita, settore = profile.TipoAttivita, profile.Settore
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Data: %s\n", data)
	fmt.Fprintf(&b, "Tipo attività: %s\n", tipoAttivita)
	fmt.Fprintf(&b, "Settore: %s\n\n", settore)
	fmt.Fprintf(&b, "Dashboard:\n")
	fmt.Fprintf(&b, "- Utile: €%s\n", dashboard.Utile.String())
	fmt.Fprintf(&b, "- Entrate: €%s\n", dashboard.Entrate.String())
	fmt.Fprintf(&b, "- Costi totali: €%s\n", dashboard.Costi.String())
	fmt.Fprintf(&b, "- Stato: %s\n\n", dashboard.Stato)
	fmt.Fprintf(&b, "Entrate (%d): %s\n", len(entrate), riepilogoEntrate(entrate))
	fmt.Fprintf(&b, "Costi variabili (%d): %s\n", len(costiVar), riepilogoCostiVariabili(costiVar))
	fmt.Fprintf(&b, "Costi fissi mensili: %d voci\n", len(costiFissi))
	fmt.Fprintf(&b, "Materiali critici: %d\n", critici)

	return b.String(), dashboard, nil
}

// first three rows, "descrizione (€importo)" each
func riepilogoEntrate(entrate []*Entrata) string {
	parts := make([]string, 0, 3)
	for i, e := range entrate {
		if i == 3 {
			break
		}
		parts = append(parts, fmt.Sprintf("%s (€%s)", e.Descrizione, e.Importo.String()))
	}
	return strings.Join(parts, ", ")
}

func riepilogoCostiVariabili(costi []*CostoVariabile) string {
	parts := make([]string, 0, 3)
	for i, c := range costi {
		if i == 3 {
			break
		}
		parts = append(parts, fmt.Sprintf("%s (€%s)", c.Descrizione, c.Importo.String()))
	}
	return strings.Join(parts, ", ")
}

func generateFreeInsight(ctx context.Context, gen insight.Generator, userID string, data string, contesto string, dashboard *Dashboard) *InsightAI {
	prompt := fmt.Sprintf(`Sei un consulente aziendale per PMI italiane. Basandoti sui dati forniti, genera UN SOLO insight breve (max 2 frasi) per l'utente.

%s

L'insight deve essere:
- Pratico e operativo
- In italiano semplice
- Prudente (usa "potrebbe", "sembra", "considera")
- Senza certezze assolute

Non parlare di tasse, IVA o contabilità fiscale.
`, contesto)

	contenuto, err := gen.Generate(ctx, insightSystemFree, prompt)
	if err != nil {
		// deterministic fallback derived from the day's profit
		contenuto = fallbackInsight(dashboard)
	}

	return &InsightAI{
		InsightId: utils.NewID("ins"),
		UserId:    userID,
		Data:      data,
		Tipo:      TipoInsightGenerale,
		Contenuto: contenuto,
	}
}

func generateProInsights(ctx context.Context, gen insight.Generator, userID string, data string, contesto string) []*InsightAI {
	angles := []struct {
		tipo        TipoInsight
		instruction string
	}{
		{TipoInsightPositivo, "Identifica UN punto positivo o un successo nei dati di oggi (max 2 frasi)."},
		{TipoInsightRischio, "Identifica UN potenziale rischio o area di attenzione (max 2 frasi)."},
		{TipoInsightAzione, "Suggerisci UN'azione concreta che l'utente potrebbe fare domani (max 2 frasi)."},
	}

	insights := make([]*InsightAI, 0, len(angles))
	for _, a := range angles {
		prompt := fmt.Sprintf("%s\n\n%s\n\nRisposta in italiano, tono pratico e prudente. Non parlare di tasse o contabilità fiscale.\n", a.instruction, contesto)

		contenuto, err := gen.Generate(ctx, insightSystemPro, prompt)
		if err != nil {
			// individual angle failures are skipped, not surfaced
			config.GetLogger().WithFields(logrus.Fields{
				"module": "models",
				"tipo":   string(a.tipo),
			}).Debug("insight generation failed: " + err.Error())
			continue
		}

		insights = append(insights, &InsightAI{
			InsightId: utils.NewID("ins"),
			UserId:    userID,
			Data:      data,
			Tipo:      a.tipo,
			Contenuto: contenuto,
		})
	}
	return insights
}

func fallbackInsight(dashboard *Dashboard) string {
	coda := "Considera di rivedere i costi."
	if dashboard.Stato == StatoGiornataPositivo {
		coda = "Ottimo lavoro!"
	}
	return fmt.Sprintf("Il tuo utile oggi è di €%s. %s", dashboard.Utile.String(), coda)
}

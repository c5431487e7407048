package models

// StatoGiornata classifies a day's profit.
type StatoGiornata string

const (
	StatoGiornataPositivo   StatoGiornata = "positivo"
	StatoGiornataAttenzione StatoGiornata = "attenzione"
	StatoGiornataCritico    StatoGiornata = "critico"
)

// StatoMateriale classifies reorder urgency of an inventory item.
type StatoMateriale string

const (
	StatoMaterialeOk         StatoMateriale = "ok"
	StatoMaterialeAttenzione StatoMateriale = "attenzione"
	StatoMaterialeOrdinaOra  StatoMateriale = "ordina_ora"
)

type TipoNotifica string

const (
	TipoNotificaMagazzino        TipoNotifica = "magazzino"
	TipoNotificaStato            TipoNotifica = "stato"
	TipoNotificaGiornataPositiva TipoNotifica = "giornata_positiva"
)

type SubscriptionTier string

const (
	SubscriptionTierFree SubscriptionTier = "free"
	SubscriptionTierPro  SubscriptionTier = "pro"
)

type TipoInsight string

const (
	TipoInsightGenerale TipoInsight = "generale"
	TipoInsightPositivo TipoInsight = "positivo"
	TipoInsightRischio  TipoInsight = "rischio"
	TipoInsightAzione   TipoInsight = "azione"
)

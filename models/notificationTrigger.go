package models

import (
	"context"
	"fmt"

	"bitbucket.org/balancepmi/balance_backend/config"
	"bitbucket.org/balancepmi/balance_backend/push"
	"bitbucket.org/balancepmi/balance_backend/utils"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("balance-backend")

// CheckAndSendNotifications re-evaluates the owner's inventory and daily
// status after a mutating ledger/inventory operation and emits one
// notification per qualifying condition.
//
// Best-effort by design: errors are logged, never returned to the mutating
// request. There is deliberately no deduplication across invocations — an
// unchanged critical condition produces a new notification on every check.
func CheckAndSendNotifications(ctx context.Context, userID string, dispatcher push.Dispatcher) {
	ctx, span := tracer.Start(ctx, "notifications.check")
	defer span.End()

	logger := config.GetLogger()

	prefs, err := getNotificationPreferences(ctx, userID)
	if err != nil {
		config.LogError(logger, "models", "CheckAndSendNotifications", "load preferences", userID, err)
		return
	}
	if prefs == nil || prefs.NotifichePushEnabled == nil || !*prefs.NotifichePushEnabled {
		return
	}

	if prefs.NotificheMagazzino != nil && *prefs.NotificheMagazzino {
		materiali, err := GetMateriali(ctx, userID)
		if err != nil {
			config.LogError(logger, "models", "CheckAndSendNotifications", "evaluate materiali", userID, err)
		} else {
			for _, m := range materiali {
				if m.Stato != StatoMaterialeOrdinaOra {
					continue
				}
				if err := emitNotifica(ctx, dispatcher, userID, TipoNotificaMagazzino,
					"🔴 Magazzino Critico",
					fmt.Sprintf("%s: ordina ora per evitare fermi operativi", m.Nome),
				); err != nil {
					config.LogError(logger, "models", "CheckAndSendNotifications", "emit magazzino", m.MaterialeId, err)
				}
			}
		}
	}

	if prefs.NotificheStato != nil && *prefs.NotificheStato {
		oggi := utils.Today()
		dashboard, err := GetDashboard(ctx, userID, oggi)
		if err != nil {
			config.LogError(logger, "models", "CheckAndSendNotifications", "compute dashboard", userID, err)
		} else if dashboard.Stato == StatoGiornataCritico {
			if err := emitNotifica(ctx, dispatcher, userID, TipoNotificaStato,
				"⚠️ Stato Critico",
				fmt.Sprintf("Oggi: €%s. Rivedi costi e entrate", dashboard.Utile.StringFixed(2)),
			); err != nil {
				config.LogError(logger, "models", "CheckAndSendNotifications", "emit stato", userID, err)
			}
		}
	}

	// notifiche_giornata_positiva: the preference is exposed and persisted
	// but no condition ever fires it. Behavior preserved as-is.
}

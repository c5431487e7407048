package main

import (
	"fmt"
	"net/http"

	"bitbucket.org/balancepmi/balance_backend/models"
	"bitbucket.org/balancepmi/balance_backend/utils"
	"github.com/gin-gonic/gin"
)

// requireUser reads the session owner from the request context. A missing
// owner ends the request with 401.
func requireUser(c *gin.Context) (string, bool) {
	userID, ok := utils.GetUserIdFromContext(c.Request.Context())
	if !ok || userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Non autorizzato"})
		return "", false
	}
	return userID, true
}

// mapModelError translates model errors into HTTP responses. notFoundMsg is
// the Italian message for the 404 case.
func mapModelError(c *gin.Context, err error, notFoundMsg string) {
	switch err {
	case utils.ErrorRecordNotFound:
		c.JSON(http.StatusNotFound, gin.H{"error": notFoundMsg})
	case utils.ErrorUnauthorized:
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Email o password non corretti"})
	case utils.ErrorNothingToUpdate:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Nessun campo da aggiornare"})
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	}
}

func setSessionCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteNoneMode)
	c.SetCookie("session_token", token, int(models.SessionLifespan().Seconds()), "/", "", true, true)
}

func clearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteNoneMode)
	c.SetCookie("session_token", "", -1, "/", "", true, true)
}

// best-effort notification scan after a mutating ledger/inventory operation
func triggerNotifications(c *gin.Context, userID string) {
	models.CheckAndSendNotifications(c.Request.Context(), userID, pushDispatcher)
}

func authRegisterHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.RegisterInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		result, err := models.Register(c.Request.Context(), &input)
		if err != nil {
			mapModelError(c, err, "Utente non trovato")
			return
		}
		setSessionCookie(c, result.Token)
		c.JSON(http.StatusOK, result)
	}
}

func authLoginHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.LoginInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		result, err := models.Login(c.Request.Context(), &input)
		if err != nil {
			mapModelError(c, err, "Utente non trovato")
			return
		}
		setSessionCookie(c, result.Token)
		c.JSON(http.StatusOK, result)
	}
}

type oauthSessionRequest struct {
	SessionId string `json:"session_id" binding:"required"`
}

func authSessionHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req oauthSessionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "session_id richiesto"})
			return
		}
		result, err := models.ProcessOAuthSession(c.Request.Context(), req.SessionId)
		if err != nil {
			if err == utils.ErrorUnauthorized {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Sessione non valida"})
				return
			}
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		setSessionCookie(c, result.Token)
		c.JSON(http.StatusOK, result)
	}
}

func authMeHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := requireUser(c)
		if !ok {
			return
		}
		user, err := models.GetUser(c.Request.Context(), userID)
		if err != nil {
			mapModelError(c, err, "Utente non trovato")
			return
		}
		hasProfile, err := models.HasProfile(c.Request.Context(), userID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"user": user, "has_profile": hasProfile})
	}
}

func authLogoutHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := requireUser(c); !ok {
			return
		}
		if err := models.Logout(c.Request.Context()); err != nil && err != utils.ErrorRecordNotFound {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		clearSessionCookie(c)
		c.JSON(http.StatusOK, gin.H{"message": "Logout effettuato"})
	}
}

func onboardingHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := requireUser(c)
		if !ok {
			return
		}
		var input models.OnboardingInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		profile, err := models.CompleteOnboarding(c.Request.Context(), userID, &input)
		if err != nil {
			mapModelError(c, err, "Profilo non trovato")
			return
		}
		c.JSON(http.StatusOK, profile)
	}
}

func profileHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := requireUser(c)
		if !ok {
			return
		}
		user, err := models.GetUser(c.Request.Context(), userID)
		if err != nil {
			mapModelError(c, err, "Utente non trovato")
			return
		}
		profile, err := models.GetProfile(c.Request.Context(), userID)
		if err != nil && err != utils.ErrorRecordNotFound {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		prefs, err := models.GetOrCreateNotificationPreferences(c.Request.Context(), userID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"user":                     user,
			"profile":                  profile,
			"notification_preferences": prefs,
		})
	}
}

func notificationPreferencesHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := requireUser(c)
		if !ok {
			return
		}
		var input models.NotificationPreferencesUpdate
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if err := models.UpdateNotificationPreferences(c.Request.Context(), userID, &input); err != nil {
			mapModelError(c, err, "Preferenze non trovate")
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Preferenze aggiornate"})
	}
}

type fcmTokenRequest struct {
	FcmToken string `json:"fcm_token" binding:"required"`
}

func fcmTokenHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := requireUser(c)
		if !ok {
			return
		}
		var req fcmTokenRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "fcm_token richiesto"})
			return
		}
		if err := models.SetFcmToken(c.Request.Context(), userID, req.FcmToken); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Token registrato"})
	}
}

func dashboardHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := requireUser(c)
		if !ok {
			return
		}
		data := c.Query("data")
		if data == "" {
			data = utils.Today()
		}
		if !utils.IsValidDate(data) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "data non valida"})
			return
		}
		dashboard, err := models.GetDashboard(c.Request.Context(), userID, data)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, dashboard)
	}
}

func listEntrateHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := requireUser(c)
		if !ok {
			return
		}
		entrate, err := models.GetEntrate(c.Request.Context(), userID, c.Query("data"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, entrate)
	}
}

func createEntrataHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := requireUser(c)
		if !ok {
			return
		}
		var input models.NewEntrata
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		entrata, err := models.CreateEntrata(c.Request.Context(), userID, &input)
		if err != nil {
			mapModelError(c, err, "Entrata non trovata")
			return
		}
		triggerNotifications(c, userID)
		c.JSON(http.StatusOK, entrata)
	}
}

func deleteEntrataHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := requireUser(c)
		if !ok {
			return
		}
		if err := models.DeleteEntrata(c.Request.Context(), userID, c.Param("id")); err != nil {
			mapModelError(c, err, "Entrata non trovata")
			return
		}
		triggerNotifications(c, userID)
		c.JSON(http.StatusOK, gin.H{"message": "Entrata eliminata"})
	}
}

func listCostiFissiHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := requireUser(c)
		if !ok {
			return
		}
		costi, err := models.GetCostiFissi(c.Request.Context(), userID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, costi)
	}
}

func createCostoFissoHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := requireUser(c)
		if !ok {
			return
		}
		var input models.NewCostoFisso
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		costo, err := models.CreateCostoFisso(c.Request.Context(), userID, &input)
		if err != nil {
			mapModelError(c, err, "Costo non trovato")
			return
		}
		triggerNotifications(c, userID)
		c.JSON(http.StatusOK, costo)
	}
}

func deleteCostoFissoHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := requireUser(c)
		if !ok {
			return
		}
		if err := models.DeleteCostoFisso(c.Request.Context(), userID, c.Param("id")); err != nil {
			mapModelError(c, err, "Costo non trovato")
			return
		}
		triggerNotifications(c, userID)
		c.JSON(http.StatusOK, gin.H{"message": "Costo eliminato"})
	}
}

func listCostiVariabiliHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := requireUser(c)
		if !ok {
			return
		}
		costi, err := models.GetCostiVariabili(c.Request.Context(), userID, c.Query("data"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, costi)
	}
}

func createCostoVariabileHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := requireUser(c)
		if !ok {
			return
		}
		var input models.NewCostoVariabile
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		costo, err := models.CreateCostoVariabile(c.Request.Context(), userID, &input)
		if err != nil {
			mapModelError(c, err, "Costo non trovato")
			return
		}
		triggerNotifications(c, userID)
		c.JSON(http.StatusOK, costo)
	}
}

func deleteCostoVariabileHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := requireUser(c)
		if !ok {
			return
		}
		if err := models.DeleteCostoVariabile(c.Request.Context(), userID, c.Param("id")); err != nil {
			mapModelError(c, err, "Costo non trovato")
			return
		}
		triggerNotifications(c, userID)
		c.JSON(http.StatusOK, gin.H{"message": "Costo eliminato"})
	}
}

func listMaterialiHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := requireUser(c)
		if !ok {
			return
		}
		materiali, err := models.GetMateriali(c.Request.Context(), userID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, materiali)
	}
}

func createMaterialeHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := requireUser(c)
		if !ok {
			return
		}
		var input models.NewMateriale
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		materiale, err := models.CreateMateriale(c.Request.Context(), userID, &input)
		if err != nil {
			mapModelError(c, err, "Materiale non trovato")
			return
		}
		triggerNotifications(c, userID)
		c.JSON(http.StatusOK, materiale)
	}
}

func updateMaterialeHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := requireUser(c)
		if !ok {
			return
		}
		var input models.MaterialeUpdate
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if err := models.UpdateMateriale(c.Request.Context(), userID, c.Param("id"), &input); err != nil {
			mapModelError(c, err, "Materiale non trovato")
			return
		}
		triggerNotifications(c, userID)
		c.JSON(http.StatusOK, gin.H{"message": "Materiale aggiornato"})
	}
}

func deleteMaterialeHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := requireUser(c)
		if !ok {
			return
		}
		if err := models.DeleteMateriale(c.Request.Context(), userID, c.Param("id")); err != nil {
			mapModelError(c, err, "Materiale non trovato")
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Materiale eliminato"})
	}
}

func listNotificheHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := requireUser(c)
		if !ok {
			return
		}
		notifiche, err := models.GetNotifiche(c.Request.Context(), userID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, notifiche)
	}
}

func markNotificaLettaHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := requireUser(c)
		if !ok {
			return
		}
		if err := models.MarkNotificaLetta(c.Request.Context(), userID, c.Param("id")); err != nil {
			mapModelError(c, err, "Notifica non trovata")
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Notifica segnata come letta"})
	}
}

func insightsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := requireUser(c)
		if !ok {
			return
		}
		data := c.Query("data")
		if data == "" {
			data = utils.Today()
		}
		if !utils.IsValidDate(data) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "data non valida"})
			return
		}
		insights, err := models.GetInsights(c.Request.Context(), userID, data, insightGenerator)
		if err != nil {
			mapModelError(c, err, "Utente non trovato")
			return
		}
		c.JSON(http.StatusOK, insights)
	}
}

func subscriptionUpgradeHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := requireUser(c)
		if !ok {
			return
		}
		if err := models.UpgradeSubscription(c.Request.Context(), userID); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Abbonamento aggiornato a Pro"})
	}
}

func exportHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := requireUser(c)
		if !ok {
			return
		}
		mese := c.Query("mese")
		if !utils.IsValidMonth(mese) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "mese non valido"})
			return
		}
		buf, err := models.ExportMese(c.Request.Context(), userID, mese)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		filename := fmt.Sprintf("balance_%s.xlsx", mese)
		c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
		c.Data(http.StatusOK,
			"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
			buf.Bytes())
	}
}

package models

import (
	"context"
	"time"

	"bitbucket.org/balancepmi/balance_backend/config"
	"bitbucket.org/balancepmi/balance_backend/push"
	"bitbucket.org/balancepmi/balance_backend/utils"
)

// Notifica is an in-app notification record. Append-only; only Letta is
// ever mutated.
type Notifica struct {
	NotificaId string       `gorm:"primaryKey;size:64" json:"notifica_id"`
	UserId     string       `gorm:"size:64;not null;index" json:"user_id"`
	Tipo       TipoNotifica `gorm:"size:30;not null" json:"tipo"`
	Titolo     string       `gorm:"size:255;not null" json:"titolo"`
	Messaggio  string       `gorm:"size:512;not null" json:"messaggio"`
	Letta      bool         `gorm:"not null;default:false" json:"letta"`
	CreatedAt  time.Time    `gorm:"autoCreateTime" json:"created_at"`
}

// GetNotifiche lists the owner's notifications, newest first.
func GetNotifiche(ctx context.Context, userID string) ([]*Notifica, error) {
	db := config.GetDB()
	var results []*Notifica
	err := db.WithContext(ctx).Where("user_id = ?", userID).
		Order("created_at DESC").Limit(100).Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

func MarkNotificaLetta(ctx context.Context, userID string, notificaID string) error {
	db := config.GetDB()

	var count int64
	if err := db.WithContext(ctx).Model(&Notifica{}).
		Where("notifica_id = ? AND user_id = ?", notificaID, userID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return utils.ErrorRecordNotFound
	}

	return db.WithContext(ctx).Model(&Notifica{}).
		Where("notifica_id = ? AND user_id = ?", notificaID, userID).
		Update("letta", true).Error
}

// emitNotifica writes the in-app record, then attempts push delivery.
// The in-app row is the source of truth: a push failure is logged and
// dropped, never rolled back.
func emitNotifica(ctx context.Context, dispatcher push.Dispatcher, userID string, tipo TipoNotifica, titolo string, messaggio string) error {
	db := config.GetDB()

	notifica := Notifica{
		NotificaId: utils.NewID("notif"),
		UserId:     userID,
		Tipo:       tipo,
		Titolo:     titolo,
		Messaggio:  messaggio,
	}
	if err := db.WithContext(ctx).Create(&notifica).Error; err != nil {
		return err
	}

	if dispatcher == nil {
		return nil
	}
	token, err := getUserFcmToken(ctx, userID)
	if err != nil {
		config.LogError(config.GetLogger(), "models", "emitNotifica", "fcm token lookup", userID, err)
		return nil
	}
	if err := dispatcher.Send(ctx, push.Message{
		UserId: userID,
		Token:  token,
		Tipo:   string(tipo),
		Titolo: titolo,
		Testo:  messaggio,
	}); err != nil {
		config.LogError(config.GetLogger(), "models", "emitNotifica", "push delivery", userID, err)
	}
	return nil
}

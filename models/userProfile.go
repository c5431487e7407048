package models

import (
	"context"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"bitbucket.org/balancepmi/balance_backend/config"
	"bitbucket.org/balancepmi/balance_backend/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ObiettiviList is a JSON-encoded string list column.
type ObiettiviList []string

func (o ObiettiviList) Value() (driver.Value, error) {
	return json.Marshal(o)
}

func (o *ObiettiviList) Scan(value interface{}) error {
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, o)
	case string:
		return json.Unmarshal([]byte(v), o)
	case nil:
		*o = nil
		return nil
	default:
		return fmt.Errorf("cannot scan %T into ObiettiviList", value)
	}
}

type UserProfile struct {
	UserId       string        `gorm:"primaryKey;size:64" json:"user_id"`
	TipoAttivita string        `gorm:"size:100;not null" json:"tipo_attivita"`
	Settore      string        `gorm:"size:100;not null" json:"settore"`
	Obiettivi    ObiettiviList `gorm:"type:text" json:"obiettivi"`
	CreatedAt    time.Time     `gorm:"autoCreateTime" json:"created_at"`
}

type OnboardingInput struct {
	TipoAttivita string   `json:"tipo_attivita" binding:"required"`
	Settore      string   `json:"settore" binding:"required"`
	Obiettivi    []string `json:"obiettivi" binding:"required"`
}

// NotificationPreferences gates the notification trigger, one row per owner.
// Flags are pointers so partial updates can tell "absent" from "false".
type NotificationPreferences struct {
	UserId                    string    `gorm:"primaryKey;size:64" json:"user_id"`
	NotifichePushEnabled      *bool     `gorm:"not null;default:true" json:"notifiche_push_enabled"`
	NotificheMagazzino        *bool     `gorm:"not null;default:true" json:"notifiche_magazzino"`
	NotificheStato            *bool     `gorm:"not null;default:true" json:"notifiche_stato"`
	NotificheGiornataPositiva *bool     `gorm:"not null;default:true" json:"notifiche_giornata_positiva"`
	CreatedAt                 time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt                 time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type NotificationPreferencesUpdate struct {
	NotifichePushEnabled      *bool `json:"notifiche_push_enabled"`
	NotificheMagazzino        *bool `json:"notifiche_magazzino"`
	NotificheStato            *bool `json:"notifiche_stato"`
	NotificheGiornataPositiva *bool `json:"notifiche_giornata_positiva"`
}

func CompleteOnboarding(ctx context.Context, userID string, input *OnboardingInput) (*UserProfile, error) {
	db := config.GetDB()

	var count int64
	if err := db.WithContext(ctx).Model(&UserProfile{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, errors.New("Profilo già esistente")
	}

	profile := UserProfile{
		UserId:       userID,
		TipoAttivita: input.TipoAttivita,
		Settore:      input.Settore,
		Obiettivi:    input.Obiettivi,
	}
	if err := db.WithContext(ctx).Create(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

func GetProfile(ctx context.Context, userID string) (*UserProfile, error) {
	db := config.GetDB()
	profile := UserProfile{}
	err := db.WithContext(ctx).Model(&UserProfile{}).Where("user_id = ?", userID).Take(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrorRecordNotFound
	}
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func HasProfile(ctx context.Context, userID string) (bool, error) {
	db := config.GetDB()
	var count int64
	if err := db.WithContext(ctx).Model(&UserProfile{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// GetOrCreateNotificationPreferences returns the owner's preferences,
// creating the default row (all flags on) on first read.
func GetOrCreateNotificationPreferences(ctx context.Context, userID string) (*NotificationPreferences, error) {
	prefs, err := getNotificationPreferences(ctx, userID)
	if err != nil {
		return nil, err
	}
	if prefs != nil {
		return prefs, nil
	}

	db := config.GetDB()
	on := true
	prefs = &NotificationPreferences{
		UserId:                    userID,
		NotifichePushEnabled:      &on,
		NotificheMagazzino:        &on,
		NotificheStato:            &on,
		NotificheGiornataPositiva: &on,
	}
	// another request may have created the row meanwhile
	if err := db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(prefs).Error; err != nil {
		return nil, err
	}
	return prefs, nil
}

// getNotificationPreferences returns nil (no error) when no row exists:
// the notification trigger treats absence as "do not notify".
func getNotificationPreferences(ctx context.Context, userID string) (*NotificationPreferences, error) {
	db := config.GetDB()
	prefs := NotificationPreferences{}
	err := db.WithContext(ctx).Model(&NotificationPreferences{}).Where("user_id = ?", userID).Take(&prefs).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &prefs, nil
}

func UpdateNotificationPreferences(ctx context.Context, userID string, input *NotificationPreferencesUpdate) error {
	updates := map[string]interface{}{}
	if input.NotifichePushEnabled != nil {
		updates["notifiche_push_enabled"] = *input.NotifichePushEnabled
	}
	if input.NotificheMagazzino != nil {
		updates["notifiche_magazzino"] = *input.NotificheMagazzino
	}
	if input.NotificheStato != nil {
		updates["notifiche_stato"] = *input.NotificheStato
	}
	if input.NotificheGiornataPositiva != nil {
		updates["notifiche_giornata_positiva"] = *input.NotificheGiornataPositiva
	}
	if len(updates) == 0 {
		return utils.ErrorNothingToUpdate
	}

	// upsert: preferences may not exist yet for this owner
	if _, err := GetOrCreateNotificationPreferences(ctx, userID); err != nil {
		return err
	}
	db := config.GetDB()
	return db.WithContext(ctx).Model(&NotificationPreferences{}).Where("user_id = ?", userID).
		Updates(updates).Error
}

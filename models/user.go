package models

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"bitbucket.org/balancepmi/balance_backend/config"
	"bitbucket.org/balancepmi/balance_backend/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type User struct {
	UserId           string           `gorm:"primaryKey;size:64" json:"user_id"`
	Email            string           `gorm:"size:100;uniqueIndex;not null" json:"email"`
	Name             string           `gorm:"size:100;not null" json:"name"`
	Picture          *string          `gorm:"size:512" json:"picture"`
	PasswordHash     string           `gorm:"size:255" json:"-"`
	AuthMethod       string           `gorm:"size:20;not null;default:email" json:"-"`
	SubscriptionTier SubscriptionTier `gorm:"size:10;not null;default:free" json:"subscription_tier"`
	FcmToken         string           `gorm:"size:512" json:"-"`
	CreatedAt        time.Time        `gorm:"autoCreateTime" json:"created_at"`
}

// UserSession is a server-side session record. Validity is simply
// now < expires_at: no sliding expiration, no revocation beyond logout.
type UserSession struct {
	ID           int       `gorm:"primary_key" json:"id"`
	UserId       string    `gorm:"index;size:64;not null" json:"user_id"`
	SessionToken string    `gorm:"uniqueIndex;size:128;not null" json:"session_token"`
	ExpiresAt    time.Time `gorm:"not null" json:"expires_at"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
}

type RegisterInput struct {
	Email    string `json:"email" binding:"required,email" validate:"required,email"`
	Password string `json:"password" binding:"required" validate:"required"`
	Name     string `json:"name" binding:"required" validate:"required"`
}

type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// AuthResult is the response of every auth operation that opens a session.
type AuthResult struct {
	User       *User  `json:"user"`
	HasProfile bool   `json:"has_profile"`
	Token      string `json:"-"`
}

// session lifespan; SESSION_HOUR_LIFESPAN overrides (default 7 days)
func SessionLifespan() time.Duration {
	if v := strings.TrimSpace(os.Getenv("SESSION_HOUR_LIFESPAN")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return time.Duration(n) * time.Hour
		}
	}
	return 7 * 24 * time.Hour
}

func Register(ctx context.Context, input *RegisterInput) (*AuthResult, error) {
	db := config.GetDB()

	if err := utils.ValidateStruct(input); err != nil {
		return nil, errors.New("dati di registrazione non validi")
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))
	var count int64
	if err := db.WithContext(ctx).Model(&User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, errors.New("Utente già registrato con questa email")
	}

	hashed, err := utils.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := User{
		UserId:           utils.NewID("user"),
		Email:            email,
		Name:             input.Name,
		PasswordHash:     hashed,
		AuthMethod:       "email",
		SubscriptionTier: SubscriptionTierFree,
	}
	if err := db.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, err
	}

	token, err := createSession(ctx, user.UserId)
	if err != nil {
		return nil, err
	}

	return &AuthResult{User: &user, HasProfile: false, Token: token}, nil
}

func Login(ctx context.Context, input *LoginInput) (*AuthResult, error) {
	db := config.GetDB()

	email := strings.ToLower(strings.TrimSpace(input.Email))
	user := User{}
	err := db.WithContext(ctx).Model(&User{}).Where("email = ?", email).Take(&user).Error
	if err != nil || user.AuthMethod != "email" {
		return nil, utils.ErrorUnauthorized
	}

	// check login credentials
	if err := utils.ComparePassword(user.PasswordHash, input.Password); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, utils.ErrorUnauthorized
		}
		return nil, err
	}

	token, err := createSession(ctx, user.UserId)
	if err != nil {
		return nil, err
	}

	hasProfile, err := HasProfile(ctx, user.UserId)
	if err != nil {
		return nil, err
	}

	return &AuthResult{User: &user, HasProfile: hasProfile, Token: token}, nil
}

// oauthSessionData is the upstream auth service's session payload.
type oauthSessionData struct {
	Email        string  `json:"email"`
	Name         string  `json:"name"`
	Picture      *string `json:"picture"`
	SessionToken string  `json:"session_token"`
}

func oauthSessionDataURL() string {
	if v := strings.TrimSpace(os.Getenv("OAUTH_SESSION_DATA_URL")); v != "" {
		return v
	}
	return "https://demobackend.emergentagent.com/auth/v1/env/oauth/session-data"
}

// ProcessOAuthSession resolves a third-party auth handoff: the frontend got a
// session_id from the external provider, the backend exchanges it for the
// user's identity and a session token it then stores like any other session.
func ProcessOAuthSession(ctx context.Context, sessionID string) (*AuthResult, error) {
	db := config.GetDB()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, oauthSessionDataURL(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-Session-ID", sessionID)

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("errore autenticazione: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, utils.ErrorUnauthorized
	}

	var data oauthSessionData
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("errore autenticazione: %w", err)
	}
	if data.Email == "" || data.SessionToken == "" {
		return nil, utils.ErrorUnauthorized
	}

	email := strings.ToLower(strings.TrimSpace(data.Email))
	user := User{}
	err = db.WithContext(ctx).Model(&User{}).Where("email = ?", email).Take(&user).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		user = User{
			UserId:           utils.NewID("user"),
			Email:            email,
			Name:             data.Name,
			Picture:          data.Picture,
			AuthMethod:       "oauth",
			SubscriptionTier: SubscriptionTierFree,
		}
		if err := db.WithContext(ctx).Create(&user).Error; err != nil {
			return nil, err
		}
	case err != nil:
		return nil, err
	default:
		// refresh identity fields from the provider
		updates := map[string]interface{}{"name": data.Name, "picture": data.Picture}
		if err := db.WithContext(ctx).Model(&User{}).Where("user_id = ?", user.UserId).Updates(updates).Error; err != nil {
			return nil, err
		}
		user.Name = data.Name
		user.Picture = data.Picture
	}

	if err := storeSession(ctx, user.UserId, data.SessionToken); err != nil {
		return nil, err
	}

	hasProfile, err := HasProfile(ctx, user.UserId)
	if err != nil {
		return nil, err
	}

	return &AuthResult{User: &user, HasProfile: hasProfile, Token: data.SessionToken}, nil
}

func createSession(ctx context.Context, userID string) (string, error) {
	token := utils.NewSessionToken()
	if err := storeSession(ctx, userID, token); err != nil {
		return "", err
	}
	return token, nil
}

// storeSession writes the session row (source of truth) and caches the
// token lookup in redis for the session's lifetime.
func storeSession(ctx context.Context, userID string, token string) error {
	db := config.GetDB()
	lifespan := SessionLifespan()

	session := UserSession{
		UserId:       userID,
		SessionToken: token,
		ExpiresAt:    time.Now().Add(lifespan),
	}
	if err := db.WithContext(ctx).Create(&session).Error; err != nil {
		return err
	}
	if err := config.SetRedisValue("Token:"+token, userID, lifespan); err != nil {
		return err
	}
	return nil
}

// ResolveSession maps a session token to its owner's user id.
// Returns ErrorRecordNotFound for unknown or expired tokens.
func ResolveSession(ctx context.Context, token string) (string, error) {
	userID, exists, err := config.GetRedisValue("Token:" + token)
	if err == nil && exists {
		return userID, nil
	}

	db := config.GetDB()
	session := UserSession{}
	if err := db.WithContext(ctx).Model(&UserSession{}).Where("session_token = ?", token).Take(&session).Error; err != nil {
		return "", utils.ErrorRecordNotFound
	}
	remaining := time.Until(session.ExpiresAt)
	if remaining <= 0 {
		return "", utils.ErrorRecordNotFound
	}

	if err := config.SetRedisValue("Token:"+token, session.UserId, remaining); err != nil {
		return "", err
	}
	return session.UserId, nil
}

// Logout destroys the current session.
func Logout(ctx context.Context) error {
	token, ok := utils.GetTokenFromContext(ctx)
	if !ok || token == "" {
		return utils.ErrorUnauthorized
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Where("session_token = ?", token).Delete(&UserSession{}).Error; err != nil {
		return err
	}
	return config.RemoveRedisKey("Token:" + token)
}

func GetUser(ctx context.Context, userID string) (*User, error) {
	db := config.GetDB()
	user := User{}
	if err := db.WithContext(ctx).Model(&User{}).Where("user_id = ?", userID).Take(&user).Error; err != nil {
		return nil, utils.ErrorRecordNotFound
	}
	return &user, nil
}

// UpgradeSubscription flips the user to the pro tier.
// Payment processing is intentionally out of scope.
func UpgradeSubscription(ctx context.Context, userID string) error {
	db := config.GetDB()
	return db.WithContext(ctx).Model(&User{}).Where("user_id = ?", userID).
		Update("subscription_tier", SubscriptionTierPro).Error
}

// SetFcmToken stores the owner's push delivery token. An empty token
// unregisters the device (in-app notifications only).
func SetFcmToken(ctx context.Context, userID string, token string) error {
	db := config.GetDB()
	return db.WithContext(ctx).Model(&User{}).Where("user_id = ?", userID).
		Update("fcm_token", token).Error
}

func getUserFcmToken(ctx context.Context, userID string) (string, error) {
	db := config.GetDB()
	var token string
	err := db.WithContext(ctx).Model(&User{}).Where("user_id = ?", userID).
		Select("fcm_token").Scan(&token).Error
	if err != nil {
		return "", err
	}
	return token, nil
}

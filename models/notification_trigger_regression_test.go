package models_test

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"bitbucket.org/balancepmi/balance_backend/config"
	"bitbucket.org/balancepmi/balance_backend/models"
	"bitbucket.org/balancepmi/balance_backend/push"
	"bitbucket.org/balancepmi/balance_backend/utils"
	"github.com/shopspring/decimal"
)

// recordingDispatcher captures push messages instead of delivering them.
type recordingDispatcher struct {
	mu       sync.Mutex
	messages []push.Message
}

func (r *recordingDispatcher) Send(ctx context.Context, msg push.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, msg)
	return nil
}

func (r *recordingDispatcher) byTipo(tipo string) []push.Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []push.Message
	for _, m := range r.messages {
		if m.Tipo == tipo {
			out = append(out, m)
		}
	}
	return out
}

func setupIntegrationEnv(t *testing.T) {
	t.Helper()
	if strings.TrimSpace(os.Getenv("INTEGRATION_TESTS")) == "" {
		t.Skip("set INTEGRATION_TESTS=1 to run integration tests (requires docker)")
	}

	redisName, redisPort := startRedisContainer(t)
	t.Cleanup(func() { _ = dockerRmForce(redisName) })

	mysqlName, mysqlPort := startMySQLContainer(t)
	t.Cleanup(func() { _ = dockerRmForce(mysqlName) })

	// Wire env for config.Connect* helpers.
	t.Setenv("REDIS_ADDRESS", fmt.Sprintf("127.0.0.1:%s", redisPort))
	t.Setenv("DB_USER", "root")
	t.Setenv("DB_PASSWORD", "testpw")
	t.Setenv("DB_HOST", "127.0.0.1")
	t.Setenv("DB_PORT", mysqlPort)
	t.Setenv("DB_NAME", "balance_test")

	config.ConnectDatabaseWithRetry()
	config.ConnectRedisWithRetry()
	models.MigrateTable()
}

func registerTestUser(t *testing.T, ctx context.Context, email string) *models.AuthResult {
	t.Helper()
	result, err := models.Register(ctx, &models.RegisterInput{
		Email:    email,
		Password: "password123",
		Name:     "Test PMI",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	return result
}

func TestNotificationTriggerRepeatsWithoutDeduplication(t *testing.T) {
	setupIntegrationEnv(t)
	ctx := context.Background()

	result := registerTestUser(t, ctx, "trigger@test.local")
	userID := result.User.UserId

	if _, err := models.GetOrCreateNotificationPreferences(ctx, userID); err != nil {
		t.Fatalf("GetOrCreateNotificationPreferences: %v", err)
	}

	// 10 units at 5/day with a 3-day lead time: ordina_ora.
	if _, err := models.CreateMateriale(ctx, userID, &models.NewMateriale{
		Nome:                    "Farina 00",
		QuantitaDisponibile:     decimal.NewFromInt(10),
		UnitaMisura:             "kg",
		ConsumoMedioGiornaliero: decimal.NewFromInt(5),
		GiorniConsegna:          3,
	}); err != nil {
		t.Fatalf("CreateMateriale: %v", err)
	}

	// A 200 cost today with no income puts the day well past critical.
	if _, err := models.CreateCostoVariabile(ctx, userID, &models.NewCostoVariabile{
		Descrizione: "Spesa straordinaria",
		Importo:     decimal.NewFromInt(200),
		Data:        utils.Today(),
	}); err != nil {
		t.Fatalf("CreateCostoVariabile: %v", err)
	}

	dispatcher := &recordingDispatcher{}
	models.CheckAndSendNotifications(ctx, userID, dispatcher)
	models.CheckAndSendNotifications(ctx, userID, dispatcher)

	notifiche, err := models.GetNotifiche(ctx, userID)
	if err != nil {
		t.Fatalf("GetNotifiche: %v", err)
	}

	var magazzino, stato int
	for _, n := range notifiche {
		switch n.Tipo {
		case models.TipoNotificaMagazzino:
			magazzino++
			if n.Titolo != "🔴 Magazzino Critico" {
				t.Errorf("magazzino titolo = %q", n.Titolo)
			}
			if n.Messaggio != "Farina 00: ordina ora per evitare fermi operativi" {
				t.Errorf("magazzino messaggio = %q", n.Messaggio)
			}
		case models.TipoNotificaStato:
			stato++
			if n.Titolo != "⚠️ Stato Critico" {
				t.Errorf("stato titolo = %q", n.Titolo)
			}
			if n.Messaggio != "Oggi: €-200.00. Rivedi costi e entrate" {
				t.Errorf("stato messaggio = %q", n.Messaggio)
			}
		}
	}

	// The same unchanged conditions produce a fresh row on every run.
	if magazzino != 2 {
		t.Errorf("magazzino notifiche = %d, want 2 (one per run)", magazzino)
	}
	if stato != 2 {
		t.Errorf("stato notifiche = %d, want 2 (one per run)", stato)
	}
	if got := len(dispatcher.byTipo(string(models.TipoNotificaMagazzino))); got != 2 {
		t.Errorf("push magazzino = %d, want 2", got)
	}

	// Disabling push silences the trigger entirely.
	off := false
	if err := models.UpdateNotificationPreferences(ctx, userID, &models.NotificationPreferencesUpdate{
		NotifichePushEnabled: &off,
	}); err != nil {
		t.Fatalf("UpdateNotificationPreferences: %v", err)
	}
	models.CheckAndSendNotifications(ctx, userID, dispatcher)

	dopo, err := models.GetNotifiche(ctx, userID)
	if err != nil {
		t.Fatalf("GetNotifiche after disable: %v", err)
	}
	if len(dopo) != len(notifiche) {
		t.Errorf("notifiche grew from %d to %d after preferences were disabled", len(notifiche), len(dopo))
	}
}

func TestSessionLifecycleAndOwnerScoping(t *testing.T) {
	setupIntegrationEnv(t)
	ctx := context.Background()

	primo := registerTestUser(t, ctx, "primo@test.local")

	// Duplicate email is rejected.
	if _, err := models.Register(ctx, &models.RegisterInput{
		Email:    "primo@test.local",
		Password: "anotherpw",
		Name:     "Doppione",
	}); err == nil {
		t.Fatal("duplicate Register succeeded, want error")
	}

	// Wrong password.
	if _, err := models.Login(ctx, &models.LoginInput{
		Email:    "primo@test.local",
		Password: "wrong",
	}); err != utils.ErrorUnauthorized {
		t.Fatalf("Login with wrong password: err = %v, want ErrorUnauthorized", err)
	}

	// The registration token resolves to the owner.
	resolved, err := models.ResolveSession(ctx, primo.Token)
	if err != nil {
		t.Fatalf("ResolveSession: %v", err)
	}
	if resolved != primo.User.UserId {
		t.Errorf("ResolveSession = %q, want %q", resolved, primo.User.UserId)
	}

	// Logout invalidates the token.
	logoutCtx := utils.SetTokenInContext(ctx, primo.Token)
	logoutCtx = utils.SetUserIdInContext(logoutCtx, primo.User.UserId)
	if err := models.Logout(logoutCtx); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if _, err := models.ResolveSession(ctx, primo.Token); err != utils.ErrorRecordNotFound {
		t.Fatalf("ResolveSession after logout: err = %v, want ErrorRecordNotFound", err)
	}

	// Owner scoping: rows of one user are invisible to another.
	secondo := registerTestUser(t, ctx, "secondo@test.local")

	entrata, err := models.CreateEntrata(ctx, primo.User.UserId, &models.NewEntrata{
		Descrizione: "Incasso giornata",
		Importo:     decimal.NewFromFloat(150.50),
		Data:        "2025-03-10",
	})
	if err != nil {
		t.Fatalf("CreateEntrata: %v", err)
	}

	altrui, err := models.GetEntrate(ctx, secondo.User.UserId, "")
	if err != nil {
		t.Fatalf("GetEntrate: %v", err)
	}
	if len(altrui) != 0 {
		t.Errorf("second user sees %d entrate of the first", len(altrui))
	}

	// Cross-owner delete is a not-found, and the row survives.
	if err := models.DeleteEntrata(ctx, secondo.User.UserId, entrata.EntrataId); err != utils.ErrorRecordNotFound {
		t.Fatalf("cross-owner DeleteEntrata: err = %v, want ErrorRecordNotFound", err)
	}
	proprie, err := models.GetEntrate(ctx, primo.User.UserId, "2025-03-10")
	if err != nil {
		t.Fatalf("GetEntrate by date: %v", err)
	}
	if len(proprie) != 1 {
		t.Errorf("owner entrate = %d, want 1", len(proprie))
	}
}

func startRedisContainer(t *testing.T) (containerName, hostPort string) {
	t.Helper()
	name := fmt.Sprintf("balance-test-redis-%d", time.Now().UnixNano())
	out, err := dockerRun(
		"run", "-d", "--name", name,
		"-p", "127.0.0.1:0:6379",
		"redis:7-alpine",
	)
	if err != nil {
		t.Fatalf("start redis container: %v\n%s", err, out)
	}
	port, err := dockerHostPort(name, "6379/tcp")
	if err != nil {
		t.Fatalf("redis docker port: %v", err)
	}
	// wait until ready
	deadline := time.Now().Add(60 * time.Second)
	for time.Now().Before(deadline) {
		_, err := dockerRun("exec", name, "redis-cli", "ping")
		if err == nil {
			return name, port
		}
		time.Sleep(250 * time.Millisecond)
	}
	t.Fatalf("redis did not become ready")
	return "", ""
}

func startMySQLContainer(t *testing.T) (containerName, hostPort string) {
	t.Helper()
	name := fmt.Sprintf("balance-test-mysql-%d", time.Now().UnixNano())
	out, err := dockerRun(
		"run", "-d", "--name", name,
		"-e", "MYSQL_ROOT_PASSWORD=testpw",
		"-e", "MYSQL_DATABASE=balance_test",
		"-p", "127.0.0.1:0:3306",
		"mysql:8.0",
		"--default-authentication-plugin=mysql_native_password",
	)
	if err != nil {
		t.Fatalf("start mysql container: %v\n%s", err, out)
	}
	port, err := dockerHostPort(name, "3306/tcp")
	if err != nil {
		t.Fatalf("mysql docker port: %v", err)
	}
	// wait until ready
	deadline := time.Now().Add(120 * time.Second)
	for time.Now().Before(deadline) {
		_, err := dockerRun("exec", name, "mysqladmin", "ping", "-h", "127.0.0.1", "-ptestpw", "--silent")
		if err == nil {
			return name, port
		}
		time.Sleep(500 * time.Millisecond)
	}
	t.Fatalf("mysql did not become ready")
	return "", ""
}

func dockerHostPort(container, portProto string) (string, error) {
	out, err := dockerRun("port", container, portProto)
	if err != nil {
		return "", fmt.Errorf("docker port: %w: %s", err, out)
	}
	// Example: "127.0.0.1:49154\n"
	re := regexp.MustCompile(`:(\d+)`)
	m := re.FindStringSubmatch(out)
	if len(m) != 2 {
		return "", fmt.Errorf("unexpected docker port output: %q", out)
	}
	return m[1], nil
}

func dockerRmForce(container string) error {
	if strings.TrimSpace(container) == "" {
		return nil
	}
	_, err := dockerRun("rm", "-f", container)
	return err
}

func dockerRun(args ...string) (string, error) {
	cmd := exec.Command("docker", args...)
	b, err := cmd.CombinedOutput()
	return string(b), err
}

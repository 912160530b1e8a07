package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"vms/api/internal/config"
	localstore "vms/api/internal/store/local"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	st, err := localstore.New(t.TempDir())
	if err != nil {
		t.Fatalf("local store: %v", err)
	}

	cfg := &config.AppConfig{
		Environment: "test",
		Security: config.SecurityConfig{
			JWTAccessSecret: "test-secret",
			JWTAccessTTL:    time.Minute,
			RefreshTTL:      time.Hour,
			MaxSessions:     5,
		},
	}

	handlerSet := NewHandlerSet(zerolog.Nop(), st, nil, nil, cfg)

	engine := gin.New()
	handlerSet.Register(engine.Group("/api"))
	return engine
}

func doJSON(t *testing.T, engine *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var payload map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return payload
}

func signup(t *testing.T, engine *gin.Engine, email, role string) string {
	t.Helper()
	rec := doJSON(t, engine, http.MethodPost, "/api/v1/signup", "", map[string]any{
		"email":    email,
		"password": "secret123",
		"name":     "Test User",
		"role":     role,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("signup = %d: %s", rec.Code, rec.Body.String())
	}
	token, _ := decode(t, rec)["access_token"].(string)
	if token == "" {
		t.Fatal("signup returned no access token")
	}
	return token
}

func TestHealthReportsDemoMode(t *testing.T) {
	engine := newTestRouter(t)

	rec := doJSON(t, engine, http.MethodGet, "/api/v1/health", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("health = %d", rec.Code)
	}
	payload := decode(t, rec)
	if payload["mode"] != "demo" {
		t.Errorf("mode = %v, want demo", payload["mode"])
	}
}

func TestVisitorFlow(t *testing.T) {
	engine := newTestRouter(t)
	token := signup(t, engine, "reception@example.com", "receptionist")

	// Check in.
	rec := doJSON(t, engine, http.MethodPost, "/api/v1/visitors/checkin", token, map[string]any{
		"full_name":       "Ada Lovelace",
		"email":           "ada@example.com",
		"phone":           "555-0100",
		"purpose":         "Meeting",
		"id_proof_type":   "passport",
		"id_proof_number": "P123456",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("checkin = %d: %s", rec.Code, rec.Body.String())
	}
	visitor := decode(t, rec)["visitor"].(map[string]any)
	visitorID := visitor["id"].(string)

	badge, _ := visitor["badge_number"].(string)
	if !regexp.MustCompile(`^VMS-[A-Z0-9]{6}$`).MatchString(badge) {
		t.Errorf("badge = %q", badge)
	}
	if visitor["status"] != "checked_in" {
		t.Errorf("status = %v, want checked_in", visitor["status"])
	}
	if visitor["visit_duration"] != "N/A" {
		t.Errorf("open visit duration = %v, want N/A", visitor["visit_duration"])
	}

	// List.
	rec = doJSON(t, engine, http.MethodGet, "/api/v1/visitors", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list = %d", rec.Code)
	}
	visitors := decode(t, rec)["visitors"].([]any)
	if len(visitors) != 1 {
		t.Fatalf("visitors = %d, want 1", len(visitors))
	}

	// Check out.
	rec = doJSON(t, engine, http.MethodPost, "/api/v1/visitors/"+visitorID+"/checkout", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("checkout = %d: %s", rec.Code, rec.Body.String())
	}
	checkedOut := decode(t, rec)["visitor"].(map[string]any)
	if checkedOut["status"] != "checked_out" {
		t.Errorf("status = %v, want checked_out", checkedOut["status"])
	}
	firstCheckOut := checkedOut["check_out_time"].(string)

	// Repeat check-out keeps the original timestamp.
	rec = doJSON(t, engine, http.MethodPost, "/api/v1/visitors/"+visitorID+"/checkout", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("repeat checkout = %d", rec.Code)
	}
	repeat := decode(t, rec)["visitor"].(map[string]any)
	if repeat["check_out_time"].(string) != firstCheckOut {
		t.Errorf("repeat checkout moved check_out_time: %v vs %v", repeat["check_out_time"], firstCheckOut)
	}

	// Missing visitor.
	rec = doJSON(t, engine, http.MethodPost, "/api/v1/visitors/nope/checkout", token, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("missing visitor checkout = %d, want 404", rec.Code)
	}
}

func TestAppointmentFlow(t *testing.T) {
	engine := newTestRouter(t)
	token := signup(t, engine, "host@example.com", "host")

	rec := doJSON(t, engine, http.MethodPost, "/api/v1/appointments", token, map[string]any{
		"visitor_name":   "Grace Hopper",
		"host_name":      "Alan Kay",
		"scheduled_time": time.Now().Add(time.Hour).Format(time.RFC3339),
		"purpose":        "Demo",
		"status":         "completed", // ignored: creation always starts pending
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create = %d: %s", rec.Code, rec.Body.String())
	}
	appointment := decode(t, rec)["appointment"].(map[string]any)
	id := appointment["id"].(string)

	if appointment["status"] != "pending" {
		t.Errorf("status = %v, want pending", appointment["status"])
	}
	if appointment["duration_minutes"] != float64(60) {
		t.Errorf("duration = %v, want 60", appointment["duration_minutes"])
	}

	// "confirmed" is accepted as an alias for approved.
	rec = doJSON(t, engine, http.MethodPut, "/api/v1/appointments/"+id, token, map[string]any{"status": "confirmed"})
	if rec.Code != http.StatusOK {
		t.Fatalf("approve = %d: %s", rec.Code, rec.Body.String())
	}
	if got := decode(t, rec)["appointment"].(map[string]any)["status"]; got != "approved" {
		t.Errorf("status = %v, want approved", got)
	}

	// approved -> rejected is not a legal move.
	rec = doJSON(t, engine, http.MethodPut, "/api/v1/appointments/"+id, token, map[string]any{"status": "rejected"})
	if rec.Code != http.StatusConflict {
		t.Errorf("illegal transition = %d, want 409", rec.Code)
	}

	rec = doJSON(t, engine, http.MethodPost, "/api/v1/appointments/"+id+"/cancel", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("cancel = %d: %s", rec.Code, rec.Body.String())
	}

	// Cancelled is terminal.
	rec = doJSON(t, engine, http.MethodPost, "/api/v1/appointments/"+id+"/cancel", token, nil)
	if rec.Code != http.StatusConflict {
		t.Errorf("cancel after cancel = %d, want 409", rec.Code)
	}

	rec = doJSON(t, engine, http.MethodPut, "/api/v1/appointments/"+id, token, map[string]any{"status": "bogus"})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("unknown status = %d, want 400", rec.Code)
	}
}

func TestStats(t *testing.T) {
	engine := newTestRouter(t)
	token := signup(t, engine, "reception@example.com", "receptionist")

	for i := 0; i < 3; i++ {
		rec := doJSON(t, engine, http.MethodPost, "/api/v1/visitors/checkin", token, map[string]any{
			"full_name":       fmt.Sprintf("Visitor %d", i),
			"email":           fmt.Sprintf("v%d@example.com", i),
			"phone":           "555-0100",
			"purpose":         "Meeting",
			"id_proof_type":   "passport",
			"id_proof_number": "P123456",
		})
		if rec.Code != http.StatusCreated {
			t.Fatalf("checkin = %d", rec.Code)
		}
	}

	rec := doJSON(t, engine, http.MethodGet, "/api/v1/stats", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("stats = %d", rec.Code)
	}
	stats := decode(t, rec)["stats"].(map[string]any)
	if stats["currently_checked_in"] != float64(3) {
		t.Errorf("currently_checked_in = %v, want 3", stats["currently_checked_in"])
	}
	if stats["total_all_time"] != float64(3) {
		t.Errorf("total_all_time = %v, want 3", stats["total_all_time"])
	}
}

func TestAuthRequired(t *testing.T) {
	engine := newTestRouter(t)

	for _, path := range []string{"/api/v1/visitors", "/api/v1/stats", "/api/v1/appointments"} {
		rec := doJSON(t, engine, http.MethodGet, path, "", nil)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("GET %s without token = %d, want 401", path, rec.Code)
		}
	}

	rec := doJSON(t, engine, http.MethodGet, "/api/v1/visitors", "garbage-token", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("garbage token = %d, want 401", rec.Code)
	}
}

func TestAdminRoutesRequireAdminRole(t *testing.T) {
	engine := newTestRouter(t)
	hostToken := signup(t, engine, "host@example.com", "host")
	adminToken := signup(t, engine, "admin@example.com", "admin")

	newUser := map[string]any{
		"email":    "new@example.com",
		"password": "secret123",
		"name":     "New User",
		"role":     "security",
	}

	rec := doJSON(t, engine, http.MethodPost, "/api/v1/users", hostToken, newUser)
	if rec.Code != http.StatusForbidden {
		t.Errorf("host create user = %d, want 403", rec.Code)
	}

	rec = doJSON(t, engine, http.MethodPost, "/api/v1/users", adminToken, newUser)
	if rec.Code != http.StatusCreated {
		t.Errorf("admin create user = %d: %s", rec.Code, rec.Body.String())
	}

	// Without object storage the backup endpoints degrade, not 500.
	rec = doJSON(t, engine, http.MethodPost, "/api/v1/admin/backups", adminToken, nil)
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("backup without storage = %d, want 503", rec.Code)
	}
}

func TestLoginAndRefresh(t *testing.T) {
	engine := newTestRouter(t)
	signup(t, engine, "user@example.com", "host")

	rec := doJSON(t, engine, http.MethodPost, "/api/v1/login", "", map[string]any{
		"email":    "user@example.com",
		"password": "secret123",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("login = %d: %s", rec.Code, rec.Body.String())
	}
	payload := decode(t, rec)
	refreshToken := payload["refresh_token"].(string)
	userID := payload["user"].(map[string]any)["id"].(string)

	rec = doJSON(t, engine, http.MethodPost, "/api/v1/login", "", map[string]any{
		"email":    "user@example.com",
		"password": "wrong",
	})
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("wrong password = %d, want 401", rec.Code)
	}

	rec = doJSON(t, engine, http.MethodPost, "/api/v1/refresh", "", map[string]any{
		"user_id":       userID,
		"refresh_token": refreshToken,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("refresh = %d: %s", rec.Code, rec.Body.String())
	}
	rotated := decode(t, rec)["refresh_token"].(string)
	if rotated == refreshToken {
		t.Error("refresh token was not rotated")
	}

	// The old token is dead after rotation.
	rec = doJSON(t, engine, http.MethodPost, "/api/v1/refresh", "", map[string]any{
		"user_id":       userID,
		"refresh_token": refreshToken,
	})
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("reused refresh token = %d, want 401", rec.Code)
	}
}

func TestLogoutInvalidatesSession(t *testing.T) {
	engine := newTestRouter(t)
	token := signup(t, engine, "user@example.com", "host")

	rec := doJSON(t, engine, http.MethodPost, "/api/v1/logout", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("logout = %d", rec.Code)
	}

	rec = doJSON(t, engine, http.MethodGet, "/api/v1/visitors", token, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("request after logout = %d, want 401", rec.Code)
	}
}

func TestVisitorReportEndpoint(t *testing.T) {
	engine := newTestRouter(t)
	token := signup(t, engine, "reception@example.com", "receptionist")

	rec := doJSON(t, engine, http.MethodPost, "/api/v1/visitors/checkin", token, map[string]any{
		"full_name":       "Ada Lovelace",
		"email":           "ada@example.com",
		"phone":           "555-0100",
		"purpose":         "Meeting",
		"id_proof_type":   "passport",
		"id_proof_number": "P123456",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("checkin = %d", rec.Code)
	}

	today := time.Now().Format("2006-01-02")
	rec = doJSON(t, engine, http.MethodGet, "/api/v1/reports/visitors?start="+today+"&end="+today, token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("report = %d: %s", rec.Code, rec.Body.String())
	}
	payload := decode(t, rec)
	if len(payload["visitors"].([]any)) != 1 {
		t.Errorf("report visitors = %v", payload["visitors"])
	}
	stats := payload["stats"].(map[string]any)
	if stats["total_visitors"] != float64(1) {
		t.Errorf("total_visitors = %v, want 1", stats["total_visitors"])
	}

	rec = doJSON(t, engine, http.MethodGet, "/api/v1/reports/visitors?start=bad&end="+today, token, nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad start date = %d, want 400", rec.Code)
	}

	rec = doJSON(t, engine, http.MethodGet, "/api/v1/reports/visitors?start="+today+"&end=2020-01-01", token, nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("end before start = %d, want 400", rec.Code)
	}
}

func TestCompanySettings(t *testing.T) {
	engine := newTestRouter(t)
	hostToken := signup(t, engine, "host@example.com", "host")
	adminToken := signup(t, engine, "admin@example.com", "admin")

	// Empty until the first save.
	rec := doJSON(t, engine, http.MethodGet, "/api/v1/company/settings", hostToken, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get company = %d", rec.Code)
	}
	if decode(t, rec)["company"] != nil {
		t.Error("company should be null before first save")
	}

	update := map[string]any{"name": "Acme Corp", "email": "info@acme.test"}

	rec = doJSON(t, engine, http.MethodPost, "/api/v1/company/settings", hostToken, update)
	if rec.Code != http.StatusForbidden {
		t.Errorf("host save company = %d, want 403", rec.Code)
	}

	rec = doJSON(t, engine, http.MethodPost, "/api/v1/company/settings", adminToken, update)
	if rec.Code != http.StatusOK {
		t.Fatalf("admin save company = %d: %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, engine, http.MethodGet, "/api/v1/company/info", hostToken, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("company info = %d", rec.Code)
	}
	company := decode(t, rec)["company"].(map[string]any)
	if company["name"] != "Acme Corp" {
		t.Errorf("company name = %v, want Acme Corp", company["name"])
	}
}

func TestAuditTrail(t *testing.T) {
	engine := newTestRouter(t)
	adminToken := signup(t, engine, "admin@example.com", "admin")

	rec := doJSON(t, engine, http.MethodPost, "/api/v1/visitors/checkin", adminToken, map[string]any{
		"full_name":       "Ada Lovelace",
		"email":           "ada@example.com",
		"phone":           "555-0100",
		"purpose":         "Meeting",
		"id_proof_type":   "passport",
		"id_proof_number": "P123456",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("checkin = %d", rec.Code)
	}

	rec = doJSON(t, engine, http.MethodGet, "/api/v1/admin/audit", adminToken, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("audit = %d: %s", rec.Code, rec.Body.String())
	}
	entries := decode(t, rec)["entries"].([]any)
	if len(entries) == 0 {
		t.Fatal("no audit entries recorded")
	}
	first := entries[0].(map[string]any)
	if first["action"] != "visitor_checkin" {
		t.Errorf("latest action = %v, want visitor_checkin", first["action"])
	}
}

func TestSignupDuplicateEmail(t *testing.T) {
	engine := newTestRouter(t)
	signup(t, engine, "dup@example.com", "host")

	rec := doJSON(t, engine, http.MethodPost, "/api/v1/signup", "", map[string]any{
		"email":    "dup@example.com",
		"password": "secret123",
		"name":     "Someone Else",
	})
	if rec.Code != http.StatusConflict {
		t.Errorf("duplicate signup = %d, want 409", rec.Code)
	}
}

package routes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"acmemedical/cache"
	"acmemedical/config"
	"acmemedical/database"
	"acmemedical/models"
	"acmemedical/utils"

	"github.com/alicebob/miniredis/v2"
	"github.com/glebarez/sqlite"
	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestServer(t *testing.T) (http.Handler, *gorm.DB, *config.AppConfig) {
	t.Helper()
	t.Setenv("SYMMETRIC_KEY", "0123456789abcdef0123456789abcdef")

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("underlying db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	cfg := &config.AppConfig{
		UserPrefix:          "phys",
		DefaultUserPassword: "changeme8*",
		AdminUsername:       "admin",
		AdminPassword:       "admin-secret",
		PasswordHash:        utils.DefaultHashConfig(),
	}

	if err := database.RunMigrations(db); err != nil {
		t.Fatalf("run migrations: %v", err)
	}
	if err := database.SeedInitialData(db, cfg); err != nil {
		t.Fatalf("seed initial data: %v", err)
	}

	mr := miniredis.RunT(t)
	database.RedisClient = redis.NewClient(&redis.Options{Addr: mr.Addr()})
	c, err := cache.NewCache()
	if err != nil {
		t.Fatalf("new cache: %v", err)
	}

	return SetupRoutes(c, cfg, db), db, cfg
}

func doJSON(t *testing.T, handler http.Handler, method, path string, body interface{}, user, password string) *httptest.ResponseRecorder {
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
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if user != "" {
		req.SetBasicAuth(user, password)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestRootProbeIsPublic(t *testing.T) {
	handler, _, _ := newTestServer(t)
	rec := doJSON(t, handler, http.MethodGet, "/", nil, "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestSchoolReadsArePublicButWritesAreNot(t *testing.T) {
	handler, _, _ := newTestServer(t)

	if rec := doJSON(t, handler, http.MethodGet, "/medicalschools", nil, "", ""); rec.Code != http.StatusOK {
		t.Errorf("public school list: status = %d, want 200", rec.Code)
	}

	rec := doJSON(t, handler, http.MethodPost, "/medicalschools",
		map[string]interface{}{"name": "School A", "schoolType": "public"}, "", "")
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("anonymous school create: status = %d, want 401", rec.Code)
	}
}

func TestUnauthenticatedRequestsRejected(t *testing.T) {
	handler, _, _ := newTestServer(t)

	rec := doJSON(t, handler, http.MethodGet, "/physicians", nil, "", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}

	rec = doJSON(t, handler, http.MethodGet, "/physicians", nil, "admin", "bad-password")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("bad password: status = %d, want 401", rec.Code)
	}
}

func TestPhysicianLifecycleWithRoleMatrix(t *testing.T) {
	handler, _, cfg := newTestServer(t)

	// Admin creates a physician; a USER account comes with it.
	rec := doJSON(t, handler, http.MethodPost, "/physicians",
		map[string]string{"firstName": "Jane", "lastName": "Doe"}, cfg.AdminUsername, cfg.AdminPassword)
	if rec.Code != http.StatusCreated {
		t.Fatalf("admin create physician: status = %d, body %s", rec.Code, rec.Body.String())
	}
	var created models.Physician
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode created physician: %v", err)
	}

	userName := "phys_Jane.Doe"

	// The provisioned account may read its own physician record.
	rec = doJSON(t, handler, http.MethodGet, fmt.Sprintf("/physicians/%d", created.ID), nil, userName, cfg.DefaultUserPassword)
	if rec.Code != http.StatusOK {
		t.Errorf("user reads own record: status = %d, body %s", rec.Code, rec.Body.String())
	}

	// Writes stay admin-only.
	rec = doJSON(t, handler, http.MethodPost, "/physicians",
		map[string]string{"firstName": "Eve", "lastName": "Intruder"}, userName, cfg.DefaultUserPassword)
	if rec.Code != http.StatusForbidden {
		t.Errorf("user creates physician: status = %d, want 403", rec.Code)
	}

	// The physician list stays admin-only.
	rec = doJSON(t, handler, http.MethodGet, "/physicians", nil, userName, cfg.DefaultUserPassword)
	if rec.Code != http.StatusForbidden {
		t.Errorf("user lists physicians: status = %d, want 403", rec.Code)
	}
	rec = doJSON(t, handler, http.MethodGet, "/physicians", nil, cfg.AdminUsername, cfg.AdminPassword)
	if rec.Code != http.StatusOK {
		t.Errorf("admin lists physicians: status = %d, want 200", rec.Code)
	}

	// Another physician's record is off limits for the USER role.
	rec = doJSON(t, handler, http.MethodGet, fmt.Sprintf("/physicians/%d", created.ID+100), nil, userName, cfg.DefaultUserPassword)
	if rec.Code != http.StatusForbidden {
		t.Errorf("user reads foreign record: status = %d, want 403", rec.Code)
	}

	// Admin deletes the physician; the login stops working with it.
	rec = doJSON(t, handler, http.MethodDelete, fmt.Sprintf("/physicians/%d", created.ID), nil, cfg.AdminUsername, cfg.AdminPassword)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("admin delete physician: status = %d", rec.Code)
	}
	rec = doJSON(t, handler, http.MethodGet, fmt.Sprintf("/physicians/%d", created.ID), nil, userName, cfg.DefaultUserPassword)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("deleted account still authenticates: status = %d", rec.Code)
	}
}

func TestCertificateOwnership(t *testing.T) {
	handler, _, cfg := newTestServer(t)

	var owners []models.Physician
	for _, name := range [][2]string{{"Jane", "Doe"}, {"John", "Roe"}} {
		rec := doJSON(t, handler, http.MethodPost, "/physicians",
			map[string]string{"firstName": name[0], "lastName": name[1]}, cfg.AdminUsername, cfg.AdminPassword)
		if rec.Code != http.StatusCreated {
			t.Fatalf("create physician %s: status = %d, body %s", name[1], rec.Code, rec.Body.String())
		}
		var physician models.Physician
		if err := json.Unmarshal(rec.Body.Bytes(), &physician); err != nil {
			t.Fatalf("decode physician: %v", err)
		}
		owners = append(owners, physician)
	}

	var certs []models.MedicalCertificate
	for _, owner := range owners {
		rec := doJSON(t, handler, http.MethodPost, "/medicalcertificates",
			map[string]interface{}{"ownerId": owner.ID, "signed": 1}, cfg.AdminUsername, cfg.AdminPassword)
		if rec.Code != http.StatusCreated {
			t.Fatalf("create certificate for %d: status = %d, body %s", owner.ID, rec.Code, rec.Body.String())
		}
		var cert models.MedicalCertificate
		if err := json.Unmarshal(rec.Body.Bytes(), &cert); err != nil {
			t.Fatalf("decode certificate: %v", err)
		}
		certs = append(certs, cert)
	}

	janeUser := "phys_Jane.Doe"

	rec := doJSON(t, handler, http.MethodGet, fmt.Sprintf("/medicalcertificates/%d", certs[0].ID), nil, janeUser, cfg.DefaultUserPassword)
	if rec.Code != http.StatusOK {
		t.Errorf("owner reads own certificate: status = %d, body %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, handler, http.MethodGet, fmt.Sprintf("/medicalcertificates/%d", certs[1].ID), nil, janeUser, cfg.DefaultUserPassword)
	if rec.Code != http.StatusForbidden {
		t.Errorf("owner reads foreign certificate: status = %d, want 403", rec.Code)
	}

	rec = doJSON(t, handler, http.MethodGet, fmt.Sprintf("/medicalcertificates/%d", certs[1].ID), nil, cfg.AdminUsername, cfg.AdminPassword)
	if rec.Code != http.StatusOK {
		t.Errorf("admin reads any certificate: status = %d", rec.Code)
	}
}

func TestDuplicateSchoolNameConflicts(t *testing.T) {
	handler, _, cfg := newTestServer(t)

	body := map[string]interface{}{"name": "School A", "schoolType": "public"}
	if rec := doJSON(t, handler, http.MethodPost, "/medicalschools", body, cfg.AdminUsername, cfg.AdminPassword); rec.Code != http.StatusCreated {
		t.Fatalf("create school: status = %d, body %s", rec.Code, rec.Body.String())
	}
	rec := doJSON(t, handler, http.MethodPost, "/medicalschools", body, cfg.AdminUsername, cfg.AdminPassword)
	if rec.Code != http.StatusConflict {
		t.Fatalf("duplicate school: status = %d, want 409", rec.Code)
	}

	var errBody struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &errBody); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	if errBody.Code != http.StatusConflict || errBody.Message == "" {
		t.Errorf("error body = %+v", errBody)
	}
}

func TestNonJSONBodyRejected(t *testing.T) {
	handler, _, cfg := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/medicalschools", strings.NewReader("name=School A"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(cfg.AdminUsername, cfg.AdminPassword)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnsupportedMediaType {
		t.Fatalf("status = %d, want 415", rec.Code)
	}
}

func TestValidationFailuresAreBadRequests(t *testing.T) {
	handler, _, cfg := newTestServer(t)

	rec := doJSON(t, handler, http.MethodPost, "/physicians",
		map[string]string{"firstName": "Jane"}, cfg.AdminUsername, cfg.AdminPassword)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("missing last name: status = %d, want 400", rec.Code)
	}

	rec = doJSON(t, handler, http.MethodPost, "/medicalschools",
		map[string]interface{}{"name": "School A", "schoolType": "charter"}, cfg.AdminUsername, cfg.AdminPassword)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad school type: status = %d, want 400", rec.Code)
	}
}

func TestLoginIssuesUsableBearerTokens(t *testing.T) {
	handler, _, cfg := newTestServer(t)

	rec := doJSON(t, handler, http.MethodPost, "/auth/login",
		map[string]string{"username": cfg.AdminUsername, "password": cfg.AdminPassword}, "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("login: status = %d, body %s", rec.Code, rec.Body.String())
	}

	var tokens struct {
		AccessToken  string `json:"accessToken"`
		RefreshToken string `json:"refreshToken"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &tokens); err != nil {
		t.Fatalf("decode tokens: %v", err)
	}
	if tokens.AccessToken == "" || tokens.RefreshToken == "" {
		t.Fatal("expected both tokens in the login response")
	}

	req := httptest.NewRequest(http.MethodGet, "/patients", nil)
	req.Header.Set("Authorization", "Bearer "+tokens.AccessToken)
	bearer := httptest.NewRecorder()
	handler.ServeHTTP(bearer, req)
	if bearer.Code != http.StatusOK {
		t.Fatalf("bearer request: status = %d, body %s", bearer.Code, bearer.Body.String())
	}

	refresh := doJSON(t, handler, http.MethodPost, "/auth/refresh-token",
		map[string]string{"refreshToken": tokens.RefreshToken}, "", "")
	if refresh.Code != http.StatusOK {
		t.Fatalf("refresh: status = %d, body %s", refresh.Code, refresh.Body.String())
	}

	badLogin := doJSON(t, handler, http.MethodPost, "/auth/login",
		map[string]string{"username": cfg.AdminUsername, "password": "nope"}, "", "")
	if badLogin.Code != http.StatusUnauthorized {
		t.Fatalf("bad login: status = %d, want 401", badLogin.Code)
	}
}

func TestRefreshTokenRejectedAfterPhysicianDelete(t *testing.T) {
	handler, _, cfg := newTestServer(t)

	rec := doJSON(t, handler, http.MethodPost, "/physicians",
		map[string]string{"firstName": "Jane", "lastName": "Doe"}, cfg.AdminUsername, cfg.AdminPassword)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create physician: status = %d, body %s", rec.Code, rec.Body.String())
	}
	var created models.Physician
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode physician: %v", err)
	}

	rec = doJSON(t, handler, http.MethodPost, "/auth/login",
		map[string]string{"username": "phys_Jane.Doe", "password": cfg.DefaultUserPassword}, "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("login: status = %d, body %s", rec.Code, rec.Body.String())
	}
	var tokens struct {
		RefreshToken string `json:"refreshToken"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &tokens); err != nil {
		t.Fatalf("decode tokens: %v", err)
	}

	// First refresh succeeds and warms the account cache.
	refresh := doJSON(t, handler, http.MethodPost, "/auth/refresh-token",
		map[string]string{"refreshToken": tokens.RefreshToken}, "", "")
	if refresh.Code != http.StatusOK {
		t.Fatalf("refresh before delete: status = %d, body %s", refresh.Code, refresh.Body.String())
	}

	rec = doJSON(t, handler, http.MethodDelete, fmt.Sprintf("/physicians/%d", created.ID), nil, cfg.AdminUsername, cfg.AdminPassword)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete physician: status = %d, body %s", rec.Code, rec.Body.String())
	}

	// The still-valid refresh token must stop minting access tokens once
	// the account row is gone.
	refresh = doJSON(t, handler, http.MethodPost, "/auth/refresh-token",
		map[string]string{"refreshToken": tokens.RefreshToken}, "", "")
	if refresh.Code != http.StatusUnauthorized {
		t.Fatalf("refresh after delete: status = %d, want 401; body %s", refresh.Code, refresh.Body.String())
	}
}

func TestPatientPartialUpdateOverHTTP(t *testing.T) {
	handler, _, cfg := newTestServer(t)

	rec := doJSON(t, handler, http.MethodPost, "/patients", map[string]interface{}{
		"firstName": "Pat", "lastName": "Ient", "yearOfBirth": 1980,
		"address": "1 Main St", "height": 180, "weight": 82, "smoker": 1,
	}, cfg.AdminUsername, cfg.AdminPassword)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create patient: status = %d, body %s", rec.Code, rec.Body.String())
	}
	var created models.Patient
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode patient: %v", err)
	}

	rec = doJSON(t, handler, http.MethodPut, fmt.Sprintf("/patients/%d", created.ID),
		map[string]interface{}{"weight": 78}, cfg.AdminUsername, cfg.AdminPassword)
	if rec.Code != http.StatusOK {
		t.Fatalf("update patient: status = %d, body %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, handler, http.MethodGet, fmt.Sprintf("/patients/%d", created.ID), nil, cfg.AdminUsername, cfg.AdminPassword)
	if rec.Code != http.StatusOK {
		t.Fatalf("get patient: status = %d", rec.Code)
	}
	var fetched models.Patient
	if err := json.Unmarshal(rec.Body.Bytes(), &fetched); err != nil {
		t.Fatalf("decode patient: %v", err)
	}
	if fetched.Weight != 78 || fetched.Address != "1 Main St" {
		t.Errorf("fetched = %+v, want weight 78 with address untouched", fetched)
	}
}

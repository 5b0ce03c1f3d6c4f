package handler

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"aqualert/internal/dispatch"
	"aqualert/internal/organization"
	reportservice "aqualert/internal/report/service"
	"aqualert/internal/subscription/models"
	"aqualert/internal/subscription/store"
)

func newReportRouter(t *testing.T) http.Handler {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))

	table, err := organization.LoadCredentials("")
	if err != nil {
		t.Fatalf("failed to load dev credentials: %v", err)
	}

	registry := store.NewInMemory()
	for _, c := range []models.Citizen{
		{Name: "Ana", Email: "ana@x.com", Municipality: "Tona"},
		{Name: "Luis", Email: "luis@x.com", Municipality: "Tona"},
		{Name: "Marta", Email: "marta@x.com", Municipality: "Vetas"},
	} {
		if err := registry.Upsert(t.Context(), c); err != nil {
			t.Fatalf("failed to seed registry: %v", err)
		}
	}

	processor := reportservice.New(
		registry,
		organization.NewAuthenticator(table),
		dispatch.New(dispatch.NewLogSender(logger), dispatch.WithLogger(logger)),
		reportservice.WithLogger(logger),
	)

	h := New(processor, logger)
	r := chi.NewRouter()
	h.Register(r)
	return r
}

func submit(t *testing.T, router http.Handler, payload map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest(http.MethodPost, "/reports", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func validPayload() map[string]string {
	return map[string]string{
		"organization_id":       "Danna1",
		"reporter_name":         "Reporter",
		"reporter_email":        "reporter@danna1.gov.co",
		"secret_code":           "1Danna",
		"incident_type":         "turbidity spike",
		"severity_level":        "high",
		"description":           "sediment plume after heavy rain",
		"affected_municipality": "Tona",
	}
}

func TestReportDispatched(t *testing.T) {
	router := newReportRouter(t)

	rec := submit(t, router, validPayload())
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for authorized report, got %d", rec.Code)
	}

	var resp struct {
		Authorized     bool   `json:"authorized"`
		RecipientCount int    `json:"recipient_count"`
		FailureCount   int    `json:"failure_count"`
		Message        string `json:"message"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !resp.Authorized {
		t.Fatalf("expected authorized outcome")
	}
	if resp.RecipientCount != 2 {
		t.Fatalf("expected 2 recipients in Tona, got %d", resp.RecipientCount)
	}
	if !strings.Contains(resp.Message, "2 registered citizens") {
		t.Fatalf("expected recipient count in message, got %q", resp.Message)
	}
}

func TestReportUnauthorizedIsGeneric(t *testing.T) {
	router := newReportRouter(t)

	wrongCode := validPayload()
	wrongCode["secret_code"] = "wrong"
	badDomain := validPayload()
	badDomain["reporter_email"] = "reporter@impostor.example.com"

	for name, payload := range map[string]map[string]string{
		"wrong code": wrongCode,
		"bad domain": badDomain,
	} {
		t.Run(name, func(t *testing.T) {
			rec := submit(t, router, payload)
			if rec.Code != http.StatusForbidden {
				t.Fatalf("expected 403, got %d", rec.Code)
			}
			body := rec.Body.String()
			// The response must not reveal which check failed.
			if strings.Contains(body, "code") || strings.Contains(body, "domain") {
				t.Fatalf("unauthorized response leaks failing check: %s", body)
			}
		})
	}
}

func TestReportValidation(t *testing.T) {
	router := newReportRouter(t)

	payload := validPayload()
	payload["affected_municipality"] = ""
	rec := submit(t, router, payload)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing municipality, got %d", rec.Code)
	}

	req := httptest.NewRequest(http.MethodPost, "/reports", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	malformed := httptest.NewRecorder()
	router.ServeHTTP(malformed, req)
	if malformed.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed body, got %d", malformed.Code)
	}
}

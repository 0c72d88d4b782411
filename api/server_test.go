package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common"

	"voter-registration/models"
	"voter-registration/registry"
	"voter-registration/service"
)

var (
	adminAddr = common.HexToAddress("0x00000000000000000000000000000000000000aa")
	voterAddr = common.HexToAddress("0x0000000000000000000000000000000000000001")
)

type testEnv struct {
	ledger *registry.MemoryLedger
	svc    *service.RegistrationService
	server *httptest.Server
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func setupServer(t *testing.T, account common.Address, started bool) *testEnv {
	t.Helper()

	ledger := registry.NewMemoryLedger(adminAddr)
	if started {
		if err := ledger.StartElection(adminAddr); err != nil {
			t.Fatal(err)
		}
	}

	logger := discardLogger()
	svc := service.NewRegistrationService(&registry.Connector{Ledger: ledger, Account: account}, service.Options{Logger: logger})
	if err := svc.Bootstrap(context.Background()); err != nil {
		t.Fatalf("bootstrap: %v", err)
	}

	worker := service.NewSyncWorker(svc.Sync, logger)
	worker.Start()
	t.Cleanup(worker.Stop)

	server := httptest.NewServer(NewServer(svc, worker, logger).Handler())
	t.Cleanup(server.Close)

	return &testEnv{ledger: ledger, svc: svc, server: server}
}

func postJSON(t *testing.T, url string, body interface{}) *http.Response {
	t.Helper()
	data, _ := json.Marshal(body)
	resp, err := http.Post(url, "application/json", bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	return resp
}

func validForm() models.RegistrationForm {
	return models.RegistrationForm{Name: "Ava", Phone: "9841234567", DocumentNumber: "1234567890123456"}
}

func TestRegisterAddsThenUpdates(t *testing.T) {
	env := setupServer(t, voterAddr, true)

	resp := postJSON(t, env.server.URL+"/api/register", validForm())
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}

	var result service.SubmitResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatal(err)
	}
	if !result.Added || result.Notification.Message != "Voter Detail Added" {
		t.Errorf("unexpected result %+v", result)
	}
	if resp.Header.Get(requestIDHeader) == "" {
		t.Error("expected a request id header")
	}

	form := validForm()
	form.Name = "Ava Updated"
	resp2 := postJSON(t, env.server.URL+"/api/register", form)
	defer resp2.Body.Close()
	if resp2.StatusCode != http.StatusConflict {
		// the caller's own document still counts as registered
		t.Fatalf("expected 409 for reused document, got %d", resp2.StatusCode)
	}

	form.DocumentNumber = "6543210987654321"
	resp3 := postJSON(t, env.server.URL+"/api/register", form)
	defer resp3.Body.Close()
	if resp3.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 on update, got %d", resp3.StatusCode)
	}
	var updated service.SubmitResult
	json.NewDecoder(resp3.Body).Decode(&updated)
	if updated.Added || updated.Notification.Message != "Voter Detail Updated" {
		t.Errorf("unexpected update result %+v", updated)
	}

	if count, _ := env.ledger.TotalVoters(context.Background()); count != 1 {
		t.Errorf("expected 1 voter on the ledger, got %d", count)
	}
}

func TestRegisterErrors(t *testing.T) {
	tests := []struct {
		name    string
		started bool
		body    interface{}
		want    int
	}{
		{"short phone", true, models.RegistrationForm{Name: "A", Phone: "123", DocumentNumber: "1234567890123456"}, http.StatusBadRequest},
		{"not started", false, validForm(), http.StatusConflict},
		{"unknown field", true, map[string]string{"aadhar": "1"}, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := setupServer(t, voterAddr, tt.started)
			resp := postJSON(t, env.server.URL+"/api/register", tt.body)
			defer resp.Body.Close()
			if resp.StatusCode != tt.want {
				t.Errorf("expected %d, got %d", tt.want, resp.StatusCode)
			}
		})
	}
}

func TestRegisterInvalidFormReturnsFieldHints(t *testing.T) {
	env := setupServer(t, voterAddr, true)

	resp := postJSON(t, env.server.URL+"/api/register", models.RegistrationForm{Name: "A", Phone: "123", DocumentNumber: "12"})
	defer resp.Body.Close()

	var body ErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body.Fields[service.FieldPhone] == "" || body.Fields[service.FieldDocumentNumber] == "" {
		t.Errorf("expected both field hints, got %+v", body.Fields)
	}
}

func TestDuplicateDocumentPostsNotification(t *testing.T) {
	env := setupServer(t, voterAddr, true)
	other := common.HexToAddress("0x02")
	if _, err := env.ledger.RegisterAsVoter(context.Background(), other, validForm(), 0); err != nil {
		t.Fatal(err)
	}

	resp := postJSON(t, env.server.URL+"/api/register", validForm())
	resp.Body.Close()
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409, got %d", resp.StatusCode)
	}

	notesResp, err := http.Get(env.server.URL + "/api/notifications")
	if err != nil {
		t.Fatal(err)
	}
	defer notesResp.Body.Close()

	var notes []models.Notification
	json.NewDecoder(notesResp.Body).Decode(&notes)
	if len(notes) != 1 || notes[0].Message != "Aadhar card number is already registered." || notes[0].Title != "Alert" {
		t.Fatalf("unexpected notifications %+v", notes)
	}

	record, _ := env.ledger.VoterDetails(context.Background(), voterAddr)
	if record.IsRegistered {
		t.Error("duplicate submission must not reach the ledger")
	}
}

func TestHTMLFormRedirects(t *testing.T) {
	env := setupServer(t, voterAddr, true)

	client := &http.Client{CheckRedirect: func(*http.Request, []*http.Request) error { return http.ErrUseLastResponse }}
	values := url.Values{"name": {"Ava"}, "phone": {"9841234567"}, "document_number": {"1234567890123456"}}
	resp, err := client.PostForm(env.server.URL+"/register", values)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", resp.StatusCode)
	}
	if !env.svc.State().CurrentVoter.IsRegistered {
		t.Error("expected the voter to be registered")
	}
}

func TestPageRosterVisibility(t *testing.T) {
	tests := []struct {
		name       string
		account    common.Address
		wantRoster bool
	}{
		{"admin", adminAddr, true},
		{"voter", voterAddr, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := setupServer(t, tt.account, true)

			resp, err := http.Get(env.server.URL + "/")
			if err != nil {
				t.Fatal(err)
			}
			defer resp.Body.Close()
			body, _ := io.ReadAll(resp.Body)

			if got := strings.Contains(string(body), "List of voters"); got != tt.wantRoster {
				t.Errorf("roster shown = %v, want %v", got, tt.wantRoster)
			}
			if !strings.Contains(string(body), "Total Verified voters: 0") {
				t.Error("expected the voter count line")
			}
		})
	}
}

func TestReloadPicksUpLedgerChanges(t *testing.T) {
	env := setupServer(t, adminAddr, true)
	voters := map[string]string{
		"0x0000000000000000000000000000000000000002": "1111222233334444",
		"0x0000000000000000000000000000000000000003": "5555666677778888",
	}
	for addr, doc := range voters {
		form := validForm()
		form.DocumentNumber = doc
		if _, err := env.ledger.RegisterAsVoter(context.Background(), common.HexToAddress(addr), form, 0); err != nil {
			t.Fatal(err)
		}
	}

	for i := 0; i < 2; i++ {
		resp := postJSON(t, env.server.URL+"/api/reload", nil)
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("expected 200, got %d", resp.StatusCode)
		}
	}

	state := env.svc.State()
	if state.VoterCount != 2 || len(state.Voters) != 2 {
		t.Errorf("expected 2 voters after two reloads, got count=%d roster=%d", state.VoterCount, len(state.Voters))
	}
}

func TestUpdateFormReportsHints(t *testing.T) {
	env := setupServer(t, voterAddr, true)

	data, _ := json.Marshal(models.RegistrationForm{Phone: "98"})
	req, _ := http.NewRequest(http.MethodPut, env.server.URL+"/api/form", bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var body formResponse
	json.NewDecoder(resp.Body).Decode(&body)
	if body.CanSubmit {
		t.Error("short form must not be submittable")
	}
	if body.Fields[service.FieldPhone] == "" {
		t.Error("expected a phone hint")
	}
	if env.svc.State().Form.Phone != "98" {
		t.Error("form values should be stored")
	}
}

func TestHealthAndMetrics(t *testing.T) {
	env := setupServer(t, voterAddr, true)

	resp, err := http.Get(env.server.URL + "/health")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected healthy, got %d", resp.StatusCode)
	}

	resp, err = http.Get(env.server.URL + "/api/metrics")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var metrics service.MetricsResponse
	json.NewDecoder(resp.Body).Decode(&metrics)
	if metrics.Sync.Count < 1 {
		t.Errorf("expected the bootstrap pass to be counted, got %+v", metrics.Sync)
	}
}

func TestHealthBeforeBootstrap(t *testing.T) {
	svc := service.NewRegistrationService(&registry.Connector{}, service.Options{Logger: discardLogger()})
	worker := service.NewSyncWorker(svc.Sync, discardLogger())
	server := httptest.NewServer(NewServer(svc, worker, discardLogger()).Handler())
	defer server.Close()

	resp, err := http.Get(server.URL + "/health")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("expected 503, got %d", resp.StatusCode)
	}

	page, err := http.Get(server.URL + "/")
	if err != nil {
		t.Fatal(err)
	}
	defer page.Body.Close()
	body, _ := io.ReadAll(page.Body)
	if !strings.Contains(string(body), "Loading Web3, accounts, and contract...") {
		t.Error("expected loading placeholder before bootstrap")
	}
}

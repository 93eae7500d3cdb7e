package main

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/vaani-ai/vaani/internal/config"
	"github.com/vaani-ai/vaani/internal/observe"
	"github.com/vaani-ai/vaani/pkg/provider/llm"
	llmmock "github.com/vaani-ai/vaani/pkg/provider/llm/mock"
	sttmock "github.com/vaani-ai/vaani/pkg/provider/stt/mock"
	"github.com/vaani-ai/vaani/pkg/types"
)

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{ListenAddr: ":0", LogLevel: config.LogInfo},
		Domains: []config.DomainConfig{
			{
				Name:         "hr_admin",
				SystemPrompt: "आप एक HR सहायक हैं।",
				Glossary:     []string{"UAN", "PF"},
			},
		},
	}
}

func newTestServer(t *testing.T) (*server, *slog.LevelVar) {
	t.Helper()

	mp := sdkmetric.NewMeterProvider()
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })
	m, err := observe.NewMetrics(mp)
	if err != nil {
		t.Fatalf("NewMetrics: %v", err)
	}

	ps := &providers{
		STT: &sttmock.Provider{
			TranscribeResult: types.Transcript{Text: "नमस्ते", Model: "saarika:v2.5"},
		},
		LLM: &llmmock.Provider{
			CompleteResponse: &llm.CompletionResponse{Content: "ठीक है।\nESCALATE: false"},
		},
	}

	logLevel := new(slog.LevelVar)
	logLevel.Set(slogLevel(config.LogInfo))
	return newServer(testConfig(), ps, m, logLevel), logLevel
}

// turnRequest builds a multipart POST to /v1/turn with an audio file and a
// domain field.
func turnRequest(t *testing.T, domain string) *http.Request {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if err := mw.WriteField("domain", domain); err != nil {
		t.Fatal(err)
	}
	fw, err := mw.CreateFormFile("audio", "HD_Q_1.ogg")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := fw.Write([]byte("fake-ogg-bytes")); err != nil {
		t.Fatal(err)
	}
	if err := mw.Close(); err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodPost, "/v1/turn", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestHandleTurn(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := httptest.NewRecorder()

	srv.handler().ServeHTTP(rec, turnRequest(t, "hr_admin"))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	var resp turnResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Transcript != "नमस्ते" {
		t.Errorf("transcript = %q", resp.Transcript)
	}
	if resp.Reply != "ठीक है।" {
		t.Errorf("reply = %q, want the escalation marker stripped", resp.Reply)
	}
	if resp.Escalate {
		t.Error("escalate = true, want false")
	}
	if _, ok := resp.Timings["asr"]; !ok {
		t.Error("missing asr timing")
	}
}

func TestHandleTurn_UnknownDomain(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := httptest.NewRecorder()

	srv.handler().ServeHTTP(rec, turnRequest(t, "no_such_domain"))

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestHandleTurn_MethodNotAllowed(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := httptest.NewRecorder()

	srv.handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/turn", nil))

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", rec.Code)
	}
}

func TestApplyConfig_HotReload(t *testing.T) {
	srv, logLevel := newTestServer(t)

	old := testConfig()
	updated := testConfig()
	updated.Server.LogLevel = config.LogDebug
	updated.Domains[0].SystemPrompt = "आप एक सख्त HR सहायक हैं।"
	updated.Domains[0].Glossary = append(updated.Domains[0].Glossary, "ESIC")
	updated.Domains = append(updated.Domains, config.DomainConfig{
		Name:         "grievance",
		SystemPrompt: "शिकायतें दर्ज करें।",
	})

	srv.applyConfig(old, updated)

	if logLevel.Level() != slog.LevelDebug {
		t.Errorf("log level = %v, want debug", logLevel.Level())
	}
	d, ok := srv.domain("hr_admin")
	if !ok {
		t.Fatal("hr_admin missing after reload")
	}
	if d.SystemPrompt != "आप एक सख्त HR सहायक हैं।" {
		t.Errorf("system prompt not updated: %q", d.SystemPrompt)
	}
	if len(d.Glossary) != 3 {
		t.Errorf("glossary = %v, want the added term", d.Glossary)
	}
	if _, ok := srv.domain("grievance"); !ok {
		t.Error("added domain not picked up")
	}
}

func TestApplyConfig_RemovesDomain(t *testing.T) {
	srv, _ := newTestServer(t)

	old := testConfig()
	updated := testConfig()
	updated.Domains = nil

	srv.applyConfig(old, updated)

	if _, ok := srv.domain("hr_admin"); ok {
		t.Error("removed domain still served")
	}

	rec := httptest.NewRecorder()
	srv.handler().ServeHTTP(rec, turnRequest(t, "hr_admin"))
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404 after domain removal", rec.Code)
	}
}

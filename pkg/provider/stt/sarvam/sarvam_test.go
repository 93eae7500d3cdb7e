package sarvam_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/vaani-ai/vaani/pkg/provider/stt/sarvam"
)

func TestNew_RequiresAPIKey(t *testing.T) {
	t.Parallel()

	if _, err := sarvam.New(""); err == nil {
		t.Fatal("New(\"\") should return an error")
	}
}

func TestProvider_ModelID(t *testing.T) {
	t.Parallel()

	p, err := sarvam.New("key")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if got := p.ModelID(); got != "saarika:v2.5" {
		t.Errorf("ModelID() = %q, want %q", got, "saarika:v2.5")
	}

	p, err = sarvam.New("key", sarvam.WithModel("saarika:v3"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if got := p.ModelID(); got != "saarika:v3" {
		t.Errorf("ModelID() = %q, want %q", got, "saarika:v3")
	}
}

func TestProvider_Transcribe(t *testing.T) {
	t.Parallel()

	var (
		gotKey      string
		gotModel    string
		gotFilename string
		gotAudio    []byte
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("api-subscription-key")
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("ParseMultipartForm: %v", err)
			http.Error(w, "bad form", http.StatusBadRequest)
			return
		}
		gotModel = r.FormValue("model")
		file, header, err := r.FormFile("file")
		if err != nil {
			t.Errorf("FormFile: %v", err)
			http.Error(w, "no file", http.StatusBadRequest)
			return
		}
		defer file.Close()
		gotFilename = header.Filename
		gotAudio, _ = io.ReadAll(file)

		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"transcript": "  मेरा पीएफ कब आएगा ", "language_code": "hi-IN"}`)
	}))
	defer srv.Close()

	p, err := sarvam.New("secret-key", sarvam.WithBaseURL(srv.URL))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	tr, err := p.Transcribe(context.Background(), strings.NewReader("fake-ogg-bytes"), "HD_Q_2.ogg")
	if err != nil {
		t.Fatalf("Transcribe: %v", err)
	}

	if gotKey != "secret-key" {
		t.Errorf("api-subscription-key = %q, want %q", gotKey, "secret-key")
	}
	if gotModel != "saarika:v2.5" {
		t.Errorf("model form field = %q, want %q", gotModel, "saarika:v2.5")
	}
	if gotFilename != "HD_Q_2.ogg" {
		t.Errorf("uploaded filename = %q, want %q", gotFilename, "HD_Q_2.ogg")
	}
	if string(gotAudio) != "fake-ogg-bytes" {
		t.Errorf("uploaded audio = %q, want %q", gotAudio, "fake-ogg-bytes")
	}

	if tr.Text != "मेरा पीएफ कब आएगा" {
		t.Errorf("Text = %q, want trimmed transcript", tr.Text)
	}
	if tr.Language != "hi-IN" {
		t.Errorf("Language = %q, want hi-IN", tr.Language)
	}
	if tr.Model != "saarika:v2.5" {
		t.Errorf("Model = %q, want saarika:v2.5", tr.Model)
	}
}

func TestProvider_Transcribe_AlternateTextKeys(t *testing.T) {
	t.Parallel()

	// The API has shipped the transcript under different keys across
	// versions. All of them must be accepted.
	for _, tc := range []struct {
		name string
		body string
	}{
		{"text", `{"text": "नमस्ते"}`},
		{"transcript", `{"transcript": "नमस्ते"}`},
		{"transcription", `{"transcription": "नमस्ते"}`},
		{"output", `{"output": "नमस्ते"}`},
	} {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				io.WriteString(w, tc.body)
			}))
			defer srv.Close()

			p, err := sarvam.New("key", sarvam.WithBaseURL(srv.URL))
			if err != nil {
				t.Fatalf("New: %v", err)
			}
			tr, err := p.Transcribe(context.Background(), strings.NewReader("audio"), "a.wav")
			if err != nil {
				t.Fatalf("Transcribe: %v", err)
			}
			if tr.Text != "नमस्ते" {
				t.Errorf("Text = %q, want %q", tr.Text, "नमस्ते")
			}
		})
	}
}

func TestProvider_Transcribe_APIError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": "invalid subscription key"}`, http.StatusForbidden)
	}))
	defer srv.Close()

	p, err := sarvam.New("bad-key", sarvam.WithBaseURL(srv.URL))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	_, err = p.Transcribe(context.Background(), strings.NewReader("audio"), "a.wav")
	if err == nil {
		t.Fatal("Transcribe should fail on HTTP 403")
	}
	if !strings.Contains(err.Error(), "403") {
		t.Errorf("error %q should mention the status code", err)
	}
}

func TestProvider_Transcribe_ContextCancelled(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	p, err := sarvam.New("key", sarvam.WithBaseURL(srv.URL))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := p.Transcribe(ctx, strings.NewReader("audio"), "a.wav"); err == nil {
		t.Fatal("Transcribe should fail when the context is cancelled")
	}
}

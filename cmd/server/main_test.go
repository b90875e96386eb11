package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/samhotchkiss/biztask/internal/assistant"
	"github.com/samhotchkiss/biztask/internal/config"
	"github.com/samhotchkiss/biztask/internal/models"
)

type fakeModel struct {
	reply string
	got   assistant.Request
}

func (f *fakeModel) Reply(_ context.Context, req assistant.Request) (string, error) {
	f.got = req
	return f.reply, nil
}

func testConfig() config.Config {
	return config.Config{
		Port:        "0",
		Environment: "test",
		LogLevel:    zapcore.InfoLevel,
		Assistant: config.AssistantConfig{
			Model:   "gemini-2.5-flash",
			Timeout: time.Second,
		},
		DefaultTheme:       models.ThemeLight,
		CORSAllowedOrigins: []string{"*"},
	}
}

func TestNewLoggerLevels(t *testing.T) {
	cfg := testConfig()
	cfg.LogLevel = zapcore.WarnLevel

	l, err := newLogger(cfg, false)
	if err != nil {
		t.Fatalf("newLogger: %v", err)
	}
	if l.Core().Enabled(zapcore.InfoLevel) {
		t.Fatalf("expected info to be disabled at warn level")
	}
	if !l.Core().Enabled(zapcore.WarnLevel) {
		t.Fatalf("expected warn to be enabled")
	}

	l, err = newLogger(cfg, true)
	if err != nil {
		t.Fatalf("newLogger verbose: %v", err)
	}
	if !l.Core().Enabled(zapcore.DebugLevel) {
		t.Fatalf("expected verbose logger to enable debug")
	}

	cfg.Environment = "production"
	if _, err := newLogger(cfg, false); err != nil {
		t.Fatalf("newLogger production: %v", err)
	}
}

func runRoot(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("execute %v: %v", args, err)
	}
	return out.String()
}

func TestAskPrintsReply(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "test-key")
	t.Setenv("ASSISTANT_MODEL", "")
	model := &fakeModel{reply: "Chào bạn, tôi là BizBot."}
	prev := newModel
	newModel = func() assistant.Model { return model }
	t.Cleanup(func() { newModel = prev })

	out := runRoot(t, "ask", "xin", "chào")

	if strings.TrimSpace(out) != model.reply {
		t.Fatalf("expected reply %q, got %q", model.reply, out)
	}
	if model.got.Utterance != "xin chào" {
		t.Fatalf("expected joined utterance, got %q", model.got.Utterance)
	}
	if model.got.APIKey != "test-key" {
		t.Fatalf("expected key to reach the model, got %q", model.got.APIKey)
	}
}

func TestAskWithoutCredential(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("API_KEY", "")
	prev := newModel
	newModel = func() assistant.Model { return &fakeModel{reply: "unused"} }
	t.Cleanup(func() { newModel = prev })

	out := runRoot(t, "ask", "hello")

	if strings.TrimSpace(out) != assistant.ReplyUnconfigured {
		t.Fatalf("expected setup notice, got %q", out)
	}
}

func TestAskRequiresUtterance(t *testing.T) {
	rootCmd.SetArgs([]string{"ask"})
	rootCmd.SetOut(&bytes.Buffer{})
	rootCmd.SetErr(&bytes.Buffer{})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})
	if err := rootCmd.Execute(); err == nil {
		t.Fatalf("expected error without an utterance")
	}
}

func TestNewAppServesHealthAndMetrics(t *testing.T) {
	a, err := newApp(testConfig(), zap.NewNop(), &fakeModel{reply: "ok"})
	if err != nil {
		t.Fatalf("newApp: %v", err)
	}

	rec := httptest.NewRecorder()
	a.server.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected health 200, got %d", rec.Code)
	}
	var health map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&health); err != nil {
		t.Fatalf("decode health: %v", err)
	}
	if health["status"] != "ok" {
		t.Fatalf("expected status ok, got %v", health["status"])
	}

	rec = httptest.NewRecorder()
	a.server.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected metrics 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "go_goroutines") {
		t.Fatalf("expected runtime collectors in metrics output")
	}
}

func TestNewAppUsesPrivateRegistry(t *testing.T) {
	for i := 0; i < 2; i++ {
		if _, err := newApp(testConfig(), zap.NewNop(), &fakeModel{}); err != nil {
			t.Fatalf("newApp #%d: %v", i, err)
		}
	}
}

func TestAppRunStopsOnCancel(t *testing.T) {
	cfg := testConfig()
	cfg.Port = "0"
	a, err := newApp(cfg, zap.NewNop(), &fakeModel{})
	if err != nil {
		t.Fatalf("newApp: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("run returned error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("run did not stop after cancel")
	}
}

func TestShutdownTimeoutCoversAssistantCalls(t *testing.T) {
	cfg := testConfig()

	cfg.Assistant.Timeout = 30 * time.Second
	if got := shutdownTimeoutFor(cfg); got <= cfg.Assistant.Timeout {
		t.Fatalf("expected shutdown timeout above %v, got %v", cfg.Assistant.Timeout, got)
	}

	cfg.Assistant.Timeout = time.Second
	if got := shutdownTimeoutFor(cfg); got != minShutdownTimeout {
		t.Fatalf("expected floor %v, got %v", minShutdownTimeout, got)
	}
}

func freeAddr(t *testing.T) string {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	addr := l.Addr().String()
	_ = l.Close()
	return addr
}

func TestAppRunClosesStuckRequestsAfterTimeout(t *testing.T) {
	a, err := newApp(testConfig(), zap.NewNop(), &fakeModel{})
	if err != nil {
		t.Fatalf("newApp: %v", err)
	}
	addr := freeAddr(t)
	a.server.Addr = addr
	a.shutdownTimeout = 100 * time.Millisecond

	entered := make(chan struct{})
	release := make(chan struct{})
	t.Cleanup(func() { close(release) })
	a.server.Handler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(entered)
		<-release
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- a.run(ctx) }()

	go func() {
		for i := 0; i < 200; i++ {
			if resp, err := http.Get("http://" + addr + "/slow"); err == nil {
				resp.Body.Close()
			}
			select {
			case <-entered:
				return
			default:
			}
			time.Sleep(10 * time.Millisecond)
		}
	}()

	select {
	case <-entered:
	case <-time.After(5 * time.Second):
		t.Fatalf("request never reached the server")
	}
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("expected a clean stop, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("run did not stop after the shutdown timeout")
	}
}

package extensions

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"

	hooked "github.com/hooked-fn/hooked-go"
)

func TestLoggingExtension_LogsFailedOperations(t *testing.T) {
	var buf bytes.Buffer
	ext := NewLoggingExtension(slog.NewTextHandler(&buf, nil))
	rt := hooked.NewRuntime(hooked.WithExtension(ext))

	boom := errors.New("boom")
	err := rt.Invoke("unit-a", func(ctx *hooked.HookCtx) error {
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected unit error to surface, got %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "operation failed") {
		t.Errorf("expected a failure log line, got %q", out)
	}
	if !strings.Contains(out, "unit-a") {
		t.Errorf("expected the identity in the log line, got %q", out)
	}
}

func TestLoggingExtension_HandlesCleanupErrors(t *testing.T) {
	var buf bytes.Buffer
	ext := NewLoggingExtension(slog.NewTextHandler(&buf, nil))
	rt := hooked.NewRuntime(hooked.WithExtension(ext))
	id := hooked.Identity("unit-a")

	err := rt.Invoke(id, func(ctx *hooked.HookCtx) error {
		return hooked.UseEffect(ctx, func() (hooked.CleanupFunc, error) {
			return func() error {
				return errors.New("cleanup boom")
			}, nil
		}, []any{})
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	rt.Invalidate(id)

	out := buf.String()
	if !strings.Contains(out, "cleanup failed") {
		t.Errorf("expected a cleanup failure log line, got %q", out)
	}
}

func TestSilentHandler_DiscardsEverything(t *testing.T) {
	ext := NewLoggingExtension(NewSilentHandler())
	rt := hooked.NewRuntime(hooked.WithExtension(ext))

	if err := rt.Invoke("unit-a", func(ctx *hooked.HookCtx) error { return nil }); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}

func TestHumanHandler_FormatsAttrs(t *testing.T) {
	var buf bytes.Buffer
	handler := NewHumanHandler(&buf, slog.LevelInfo)
	logger := slog.New(handler)

	logger.Info("something happened", "identity", "unit-a")

	out := buf.String()
	if !strings.Contains(out, "[INFO] something happened") {
		t.Errorf("expected formatted message, got %q", out)
	}
	if !strings.Contains(out, "identity: unit-a") {
		t.Errorf("expected formatted attrs, got %q", out)
	}
}

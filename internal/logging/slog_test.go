package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func newTestLogger(t *testing.T) (*SlogLogger, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	h := slog.NewTextHandler(&buf, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	})
	return NewSlogLogger(slog.New(h)), &buf
}

func TestSlogLogger_Levels(t *testing.T) {
	log, buf := newTestLogger(t)
	ctx := context.Background()

	log.Debug(ctx, "dbg", "a", 1)
	log.Info(ctx, "inf", "b", 2)
	log.Warn(ctx, "wrn", "c", 3)
	log.Error(ctx, "err", "d", 4)

	out := buf.String()
	for _, want := range []string{
		"level=DEBUG", "msg=dbg", "a=1",
		"level=INFO", "msg=inf", "b=2",
		"level=WARN", "msg=wrn", "c=3",
		"level=ERROR", "msg=err", "d=4",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestSlogLogger_With_AddsAttributes(t *testing.T) {
	log, buf := newTestLogger(t)

	log.With("component", "pipeline").Info(context.Background(), "hello", "k", "v")

	out := buf.String()
	for _, s := range []string{"msg=hello", "component=pipeline", "k=v"} {
		if !strings.Contains(out, s) {
			t.Fatalf("expected %q in output, got:\n%s", s, out)
		}
	}
}

func TestDiscard_DoesNotPanic(t *testing.T) {
	l := Discard()
	l.Info(context.TODO(), "nothing")
	l.With("a", 1).Error(context.TODO(), "still nothing")
}

func TestSlogLogger_RedactsCredentials(t *testing.T) {
	log, buf := newTestLogger(t)

	log.With("Authorization", "Bearer T").Info(context.Background(), "login",
		"user", "admin", "password", "secret1", "token", "abc")

	out := buf.String()
	for _, leaked := range []string{"secret1", "abc", "Bearer T"} {
		if strings.Contains(out, leaked) {
			t.Fatalf("%q leaked into output:\n%s", leaked, out)
		}
	}
	if !strings.Contains(out, "user=admin") || !strings.Contains(out, "password="+Redacted) {
		t.Fatalf("unexpected output:\n%s", out)
	}
}

func TestRedact_LeavesInputUntouched(t *testing.T) {
	args := []any{"token", "abc", "status", 401, "dangling"}
	got := redact(args)

	if args[1] != "abc" {
		t.Fatal("input slice was modified")
	}
	if got[1] != Redacted || got[3] != 401 || got[4] != "dangling" {
		t.Fatalf("unexpected result %v", got)
	}

	clean := []any{"status", 200}
	if &redact(clean)[0] != &clean[0] {
		t.Fatal("clean args should be returned as is")
	}
}

package main

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/hammamikhairi/voicedeck/internal/domain"
	"github.com/hammamikhairi/voicedeck/internal/logger"
)

type stubNotifier struct {
	texts []string
	sev   []domain.Severity
	err   error
}

func (n *stubNotifier) Status(_ context.Context, text string, severity domain.Severity) error {
	n.texts = append(n.texts, text)
	n.sev = append(n.sev, severity)
	return n.err
}

func TestRecognitionErrorHandlerWarns(t *testing.T) {
	n := &stubNotifier{}
	var buf bytes.Buffer
	handle := recognitionErrorHandler(context.Background(), n, logger.New(logger.LevelNormal, &buf))

	handle(errors.New("whisper exited"))

	if len(n.texts) != 1 || n.texts[0] != "Recognition error: whisper exited" {
		t.Errorf("status lines = %v", n.texts)
	}
	if n.sev[0] != domain.SeverityWarning {
		t.Errorf("severity = %v, want %v", n.sev[0], domain.SeverityWarning)
	}
	if buf.Len() != 0 {
		t.Errorf("unexpected log output %q", buf.String())
	}
}

func TestRecognitionErrorHandlerLogsNotifyFailure(t *testing.T) {
	n := &stubNotifier{err: errors.New("ui closed")}
	var buf bytes.Buffer
	handle := recognitionErrorHandler(context.Background(), n, logger.New(logger.LevelNormal, &buf))

	handle(errors.New("whisper exited"))

	if out := buf.String(); !strings.Contains(out, "ui closed") {
		t.Errorf("notify failure not logged: %q", out)
	}
}

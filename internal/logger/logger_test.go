package logger

import (
	"bytes"
	"strings"
	"testing"
)

func TestLevelsFilterOutput(t *testing.T) {
	tests := []struct {
		level     Level
		wantDebug bool
		wantInfo  bool
	}{
		{LevelOff, false, false},
		{LevelNormal, false, true},
		{LevelVerbose, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.level.String(), func(t *testing.T) {
			var buf bytes.Buffer
			log := New(tt.level, &buf)

			log.Debug("debug %d", 1)
			log.Info("info %d", 2)

			out := buf.String()
			if got := strings.Contains(out, "debug 1"); got != tt.wantDebug {
				t.Errorf("debug visible = %v, want %v (out=%q)", got, tt.wantDebug, out)
			}
			if got := strings.Contains(out, "info 2"); got != tt.wantInfo {
				t.Errorf("info visible = %v, want %v (out=%q)", got, tt.wantInfo, out)
			}
			if log.GetLevel() != tt.level {
				t.Errorf("GetLevel() = %v, want %v", log.GetLevel(), tt.level)
			}
		})
	}
}

func TestSetLevelAtRuntime(t *testing.T) {
	var buf bytes.Buffer
	log := New(LevelOff, &buf)

	log.Error("hidden")
	log.SetLevel(LevelNormal)
	log.Error("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("expected no output while off, got %q", out)
	}
	if !strings.Contains(out, "shown") {
		t.Errorf("expected output after SetLevel, got %q", out)
	}
}

func TestWithFieldTagsLines(t *testing.T) {
	var buf bytes.Buffer
	log := New(LevelNormal, &buf).WithField("component", "media")

	log.Warn("load failed")

	out := buf.String()
	if !strings.Contains(out, "media") || !strings.Contains(out, "load failed") {
		t.Errorf("expected field and message in %q", out)
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    Level
		wantErr bool
	}{
		{"off", LevelOff, false},
		{"normal", LevelNormal, false},
		{"", LevelNormal, false},
		{"verbose", LevelVerbose, false},
		{"debug", LevelVerbose, false},
		{"loud", LevelNormal, true},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseLevel(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

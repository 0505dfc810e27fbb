package display

import (
	"strings"
	"testing"
	"time"

	"github.com/hammamikhairi/voicedeck/internal/domain"
)

func texts(segs []segment) []string {
	out := make([]string, len(segs))
	for i, s := range segs {
		out[i] = s.text
	}
	return out
}

func TestBarSegments(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		st   Status
		want []string
	}{
		{
			name: "idle",
			st:   Status{},
			want: []string{"idle"},
		},
		{
			name: "music muted",
			st: Status{
				HasAudio: true,
				Session:  domain.SessionSnapshot{Kind: domain.SessionMusic, State: domain.SessionPlaying, Volume: 0.5},
				Muted:    true,
			},
			want: []string{"music: playing 50%", "muted"},
		},
		{
			name: "playlist and reminders",
			st: Status{
				HasAudio:        true,
				Session:         domain.SessionSnapshot{Kind: domain.SessionPlaylist, State: domain.SessionLoading, Volume: 0.7},
				PlaylistLen:     3,
				PlaylistIndex:   1,
				PlaylistPlaying: true,
				HasNext:         true,
				Next:            domain.Reminder{Message: "stretch", TriggerAt: now.Add(4*time.Minute + 9*time.Second)},
				Triggered:       2,
			},
			want: []string{"playlist: loading 70%", "playlist: 2/3", "stretch: 4m 09s left", "2 ready"},
		},
		{
			name: "playlist stopped",
			st:   Status{PlaylistLen: 2},
			want: []string{"idle", "playlist: 2 songs"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := texts(barSegments(tt.st, now))
			if strings.Join(got, "|") != strings.Join(tt.want, "|") {
				t.Errorf("segments = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTitleStr(t *testing.T) {
	got := titleStr(Status{Triggered: 1}, time.Now())
	if got != "VoiceDeck - idle | 1 ready" {
		t.Errorf("titleStr = %q", got)
	}
}

func TestRenderBannerIncludesTagline(t *testing.T) {
	out := renderBanner(120, "say a command")
	if !strings.Contains(out, "say a command") {
		t.Errorf("banner missing tagline:\n%s", out)
	}
	if lines := strings.Count(out, "\n"); lines < 3 {
		t.Errorf("banner has %d lines, want at least 3", lines)
	}
}

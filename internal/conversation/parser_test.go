package conversation

import (
	"testing"

	"github.com/hammamikhairi/voicedeck/internal/domain"
	"github.com/hammamikhairi/voicedeck/internal/logger"
)

func TestRuleParser(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	parser := NewRuleParser(log)

	tests := []struct {
		input    string
		wantType domain.IntentType
	}{
		// Music
		{"play music", domain.IntentPlayMusic},
		{"Play some music please.", domain.IntentPlayMusic},
		{"play the song", domain.IntentPlayMusic},
		{"stop music", domain.IntentStopMusic},
		{"stop the song", domain.IntentStopMusic},
		{"pause music", domain.IntentStopMusic},

		// Background and clown
		{"change background", domain.IntentChangeBackground},
		{"change the background", domain.IntentChangeBackground},
		{"bring the clown", domain.IntentBringClownEffect},
		{"bring in the clown!", domain.IntentBringClownEffect},
		{"stop the clown", domain.IntentStopClownEffect},
		{"stop clown", domain.IntentStopClownEffect},

		// Volume
		{"volume up", domain.IntentVolumeUp},
		{"turn it up", domain.IntentVolumeUp},
		{"louder", domain.IntentVolumeUp},
		{"volume down", domain.IntentVolumeDown},
		{"turn down", domain.IntentVolumeDown},
		{"a bit quieter", domain.IntentVolumeDown},
		{"lower", domain.IntentVolumeDown},
		{"mute", domain.IntentMute},
		{"unmute", domain.IntentUnmute},
		{"please unmute everything", domain.IntentUnmute},

		// Video
		{"play video", domain.IntentPlayVideo},
		{"show the video", domain.IntentPlayVideo},
		{"stop video", domain.IntentStopVideo},
		{"close the video", domain.IntentStopVideo},
		{"restart video", domain.IntentRestartVideo},
		{"start the video over", domain.IntentRestartVideo},

		// Camera
		{"open camera", domain.IntentOpenCamera},
		{"show the camera", domain.IntentOpenCamera},
		{"start camera", domain.IntentOpenCamera},
		{"close camera", domain.IntentCloseCamera},
		{"stop the camera", domain.IntentCloseCamera},
		{"turn off camera", domain.IntentCloseCamera},
		{"take a photo", domain.IntentTakePhoto},
		{"take picture", domain.IntentTakePhoto},
		{"capture", domain.IntentTakePhoto},

		// Reminders
		{"set reminder to call mom in 5 minutes", domain.IntentSetReminder},
		{"remind me to stretch", domain.IntentSetReminder},
		{"stop reminder", domain.IntentStopReminder},
		{"cancel all reminders", domain.IntentStopReminder},
		{"clear my reminders", domain.IntentStopReminder},

		// Playlist
		{"create playlist", domain.IntentCreatePlaylist},
		{"create a playlist", domain.IntentCreatePlaylist},
		{"add this song to playlist", domain.IntentAddToPlaylist},
		{"add to the playlist", domain.IntentAddToPlaylist},
		{"play playlist", domain.IntentPlayPlaylist},
		{"play my playlist", domain.IntentPlayPlaylist},

		// Unrecognized
		{"flambé the cat", domain.IntentUnrecognized},
		{"what time is it", domain.IntentUnrecognized},
		{"", domain.IntentUnrecognized},
		{"   ", domain.IntentUnrecognized},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			intent := parser.Parse(tt.input)
			if intent.Type != tt.wantType {
				t.Errorf("input=%q: got type %s, want %s", tt.input, intent.Type, tt.wantType)
			}
		})
	}
}

// Utterances that match more than one rule resolve to the earliest rule.
func TestRuleParserPrecedence(t *testing.T) {
	parser := NewRuleParser(logger.New(logger.LevelOff, nil))

	tests := []struct {
		input    string
		wantType domain.IntentType
	}{
		{"remind me to play music in 5 minutes", domain.IntentSetReminder},
		{"set reminder to stop the camera in 1 hour", domain.IntentSetReminder},
		{"stop reminder and stop music", domain.IntentStopReminder},
		{"play playlist music", domain.IntentPlayPlaylist},
		{"add the music to playlist", domain.IntentAddToPlaylist},
		{"stop the clown music", domain.IntentStopClownEffect},
		{"bring the clown and play music", domain.IntentBringClownEffect},
		{"unmute and mute", domain.IntentUnmute},
		{"mute the music", domain.IntentMute},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := parser.Parse(tt.input).Type; got != tt.wantType {
				t.Errorf("input=%q: got %s, want %s", tt.input, got, tt.wantType)
			}
		})
	}
}

// "stop clown" anywhere in the utterance always stops the clown, even
// inside a reminder phrase or as the prefix of a longer word.
func TestStopClownAlwaysWins(t *testing.T) {
	parser := NewRuleParser(logger.New(logger.LevelOff, nil))

	for _, input := range []string{
		"stop clown",
		"  STOP CLOWN  ",
		"stop clowns",
		"please stop clowning around",
		"stop the clown",
		"remind me to stop clown in 5 minutes",
		"set reminder to stop clown in five minutes",
		"stop reminders and stop clown",
	} {
		t.Run(input, func(t *testing.T) {
			if got := parser.Parse(input).Type; got != domain.IntentStopClownEffect {
				t.Errorf("input=%q: got %s, want %s", input, got, domain.IntentStopClownEffect)
			}
		})
	}
}

func TestRuleOrderIsStable(t *testing.T) {
	parser := NewRuleParser(logger.New(logger.LevelOff, nil))
	rules := parser.Rules()

	want := []domain.IntentType{
		domain.IntentStopClownEffect,
		domain.IntentStopReminder,
		domain.IntentSetReminder,
		domain.IntentCreatePlaylist,
		domain.IntentAddToPlaylist,
		domain.IntentPlayPlaylist,
		domain.IntentBringClownEffect,
		domain.IntentPlayMusic,
		domain.IntentStopMusic,
		domain.IntentChangeBackground,
		domain.IntentVolumeUp,
		domain.IntentVolumeDown,
		domain.IntentUnmute,
		domain.IntentMute,
		domain.IntentPlayVideo,
		domain.IntentStopVideo,
		domain.IntentRestartVideo,
		domain.IntentOpenCamera,
		domain.IntentCloseCamera,
		domain.IntentTakePhoto,
	}
	if len(rules) != len(want) {
		t.Fatalf("got %d rules, want %d", len(rules), len(want))
	}
	for i, r := range rules {
		if r.Intent != want[i] {
			t.Errorf("rule %d (%s) = %s, want %s", i, r.Name, r.Intent, want[i])
		}
	}

	// Every recognized intent is reachable from exactly one rule.
	seen := make(map[domain.IntentType]bool)
	for _, r := range rules {
		if seen[r.Intent] {
			t.Errorf("intent %s has more than one rule", r.Intent)
		}
		seen[r.Intent] = true
	}
	for _, it := range domain.AllIntents() {
		if !seen[it] {
			t.Errorf("intent %s has no rule", it)
		}
	}
}

func TestParseCarriesReminderPayload(t *testing.T) {
	parser := NewRuleParser(logger.New(logger.LevelOff, nil))

	intent := parser.Parse("  Remind me to Drink Water in 10 minutes. ")
	if intent.Type != domain.IntentSetReminder {
		t.Fatalf("got %s", intent.Type)
	}
	if intent.Payload != "remind me to drink water in 10 minutes" {
		t.Errorf("payload = %q", intent.Payload)
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"  PLAY   Music. ", "play music"},
		{"Café música!", "cafe musica"},
		{"stop\tthe\nclown?", "stop the clown"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := Normalize(tt.in); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

// Package conversation turns utterances into intents and renders
// status messages for the user.
package conversation

import (
	"regexp"

	"github.com/hammamikhairi/voicedeck/internal/domain"
	"github.com/hammamikhairi/voicedeck/internal/logger"
)

// Compile-time interface check.
var _ domain.IntentParser = (*RuleParser)(nil)

// Rule maps a phrase pattern to an intent.
type Rule struct {
	Name   string
	regex  *regexp.Regexp
	Intent domain.IntentType
}

// Match reports whether the normalized utterance triggers the rule.
func (r Rule) Match(utterance string) bool {
	return r.regex.MatchString(utterance)
}

// RuleParser classifies utterances with an ordered rule list. The first
// matching rule wins, so specific phrases sit above broad ones:
// "stop clown" before everything, then reminders (their message may
// contain other commands), playlist before music, unmute before mute.
type RuleParser struct {
	log   *logger.Logger
	rules []Rule
}

func rule(name, pattern string, intent domain.IntentType) Rule {
	return Rule{Name: name, regex: regexp.MustCompile(pattern), Intent: intent}
}

// defaultRules is the canonical precedence order.
func defaultRules() []Rule {
	return []Rule{
		rule("stop clown", `\bstop\s+(the\s+)?clown`, domain.IntentStopClownEffect),
		rule("stop reminder", `\b(stop|cancel|clear)\s+(all\s+)?(the\s+|my\s+)?reminders?\b`, domain.IntentStopReminder),
		rule("set reminder", `\b(set\s+(a\s+)?reminder|remind\s+me)\b`, domain.IntentSetReminder),
		rule("create playlist", `\bcreate\s+(a\s+|the\s+)?playlist\b`, domain.IntentCreatePlaylist),
		rule("add to playlist", `\badd\b.*\bto\s+(the\s+|my\s+)?playlist\b`, domain.IntentAddToPlaylist),
		rule("play playlist", `\bplay\s+(the\s+|my\s+)?playlist\b`, domain.IntentPlayPlaylist),
		rule("bring clown", `\bbring\s+(in\s+)?(the\s+)?clown\b`, domain.IntentBringClownEffect),
		rule("play music", `\bplay\s+(some\s+|the\s+)?(music|song)\b`, domain.IntentPlayMusic),
		rule("stop music", `\b(stop|pause)\s+(the\s+)?(music|song)\b`, domain.IntentStopMusic),
		rule("change background", `\bchange\s+(the\s+)?background\b`, domain.IntentChangeBackground),
		rule("volume up", `\b(volume\s+up|turn\s+(it\s+)?up|louder)\b`, domain.IntentVolumeUp),
		rule("volume down", `\b(volume\s+down|turn\s+(it\s+)?down|quieter|lower)\b`, domain.IntentVolumeDown),
		rule("unmute", `\bunmute\b`, domain.IntentUnmute),
		rule("mute", `\bmute\b`, domain.IntentMute),
		rule("play video", `\b(play|show)\s+(the\s+)?video\b`, domain.IntentPlayVideo),
		rule("stop video", `\b(stop|close)\s+(the\s+)?video\b`, domain.IntentStopVideo),
		rule("restart video", `\b(restart\s+(the\s+)?video|start\s+(the\s+)?video\s+over)\b`, domain.IntentRestartVideo),
		rule("open camera", `\b(open|show|start)\s+(the\s+)?camera\b`, domain.IntentOpenCamera),
		rule("close camera", `\b((close|stop)\s+(the\s+)?camera|turn\s+off\s+(the\s+)?camera)\b`, domain.IntentCloseCamera),
		rule("take photo", `\b(take\s+(a\s+)?(photo|picture)|capture)\b`, domain.IntentTakePhoto),
	}
}

// NewRuleParser creates a parser with the default rule order.
func NewRuleParser(log *logger.Logger) *RuleParser {
	return &RuleParser{log: log, rules: defaultRules()}
}

// Rules returns a copy of the rules in evaluation order.
func (p *RuleParser) Rules() []Rule {
	out := make([]Rule, len(p.rules))
	copy(out, p.rules)
	return out
}

// Parse classifies an utterance. It normalizes its input, so raw
// transcriptions and typed text can be passed directly.
func (p *RuleParser) Parse(utterance string) domain.Intent {
	text := Normalize(utterance)
	intent := domain.Intent{Type: domain.IntentUnrecognized, Utterance: text}
	if text == "" {
		return intent
	}

	for _, r := range p.rules {
		if r.Match(text) {
			intent.Type = r.Intent
			if r.Intent == domain.IntentSetReminder {
				intent.Payload = text
			}
			p.log.Debug("parser: %q matched rule %q", text, r.Name)
			return intent
		}
	}

	p.log.Debug("parser: no rule matched %q", text)
	return intent
}

package domain

// IntentType classifies what the user wants to do.
type IntentType int

const (
	IntentUnrecognized IntentType = iota
	IntentPlayMusic
	IntentStopMusic
	IntentChangeBackground
	IntentBringClownEffect
	IntentStopClownEffect
	IntentVolumeUp
	IntentVolumeDown
	IntentMute
	IntentUnmute
	IntentPlayVideo
	IntentStopVideo
	IntentRestartVideo
	IntentOpenCamera
	IntentCloseCamera
	IntentTakePhoto
	IntentSetReminder  // payload carries the raw utterance for message/delay extraction
	IntentStopReminder // cancels every reminder, active or triggered
	IntentCreatePlaylist
	IntentAddToPlaylist
	IntentPlayPlaylist
)

// String returns a human-readable intent type.
func (i IntentType) String() string {
	switch i {
	case IntentPlayMusic:
		return "play_music"
	case IntentStopMusic:
		return "stop_music"
	case IntentChangeBackground:
		return "change_background"
	case IntentBringClownEffect:
		return "bring_clown_effect"
	case IntentStopClownEffect:
		return "stop_clown_effect"
	case IntentVolumeUp:
		return "volume_up"
	case IntentVolumeDown:
		return "volume_down"
	case IntentMute:
		return "mute"
	case IntentUnmute:
		return "unmute"
	case IntentPlayVideo:
		return "play_video"
	case IntentStopVideo:
		return "stop_video"
	case IntentRestartVideo:
		return "restart_video"
	case IntentOpenCamera:
		return "open_camera"
	case IntentCloseCamera:
		return "close_camera"
	case IntentTakePhoto:
		return "take_photo"
	case IntentSetReminder:
		return "set_reminder"
	case IntentStopReminder:
		return "stop_reminder"
	case IntentCreatePlaylist:
		return "create_playlist"
	case IntentAddToPlaylist:
		return "add_to_playlist"
	case IntentPlayPlaylist:
		return "play_playlist"
	default:
		return "unrecognized"
	}
}

// Intent represents a classified utterance.
type Intent struct {
	Type      IntentType
	Utterance string // normalized input the intent was derived from
	Payload   string // optional context, e.g. the reminder phrase
}

// intentNames maps snake_case names to IntentType values.
var intentNames = map[string]IntentType{
	"play_music":         IntentPlayMusic,
	"stop_music":         IntentStopMusic,
	"change_background":  IntentChangeBackground,
	"bring_clown_effect": IntentBringClownEffect,
	"stop_clown_effect":  IntentStopClownEffect,
	"volume_up":          IntentVolumeUp,
	"volume_down":        IntentVolumeDown,
	"mute":               IntentMute,
	"unmute":             IntentUnmute,
	"play_video":         IntentPlayVideo,
	"stop_video":         IntentStopVideo,
	"restart_video":      IntentRestartVideo,
	"open_camera":        IntentOpenCamera,
	"close_camera":       IntentCloseCamera,
	"take_photo":         IntentTakePhoto,
	"set_reminder":       IntentSetReminder,
	"stop_reminder":      IntentStopReminder,
	"create_playlist":    IntentCreatePlaylist,
	"add_to_playlist":    IntentAddToPlaylist,
	"play_playlist":      IntentPlayPlaylist,
	"unrecognized":       IntentUnrecognized,
}

// IntentFromString converts a snake_case intent name to an IntentType.
// Returns IntentUnrecognized for unknown names.
func IntentFromString(name string) IntentType {
	if t, ok := intentNames[name]; ok {
		return t
	}
	return IntentUnrecognized
}

// AllIntents lists every intent except IntentUnrecognized, in declaration order.
func AllIntents() []IntentType {
	out := make([]IntentType, 0, int(IntentPlayPlaylist))
	for i := IntentPlayMusic; i <= IntentPlayPlaylist; i++ {
		out = append(out, i)
	}
	return out
}

// lines.go centralises every status string the interpreter shows.
// Edit this file to change wording. Keep lines short and direct.
package engine

import (
	"fmt"

	"github.com/hammamikhairi/voicedeck/internal/domain"
)

// ── Music / clown ────────────────────────────────────────────────

func lineLoading(kind domain.SessionKind) string {
	if kind == domain.SessionClownEffect {
		return "Loading clown music..."
	}
	return "Loading music..."
}

func linePlaying(kind domain.SessionKind) string {
	if kind == domain.SessionClownEffect {
		return `Clown music playing! Say "Stop clown" to stop.`
	}
	return `Music playing! Say "Stop music" to stop.`
}

func lineAlreadyPlaying(kind domain.SessionKind) string {
	if kind == domain.SessionClownEffect {
		return "Clown is already here!"
	}
	return "Music is already playing!"
}

func lineFinished(kind domain.SessionKind) string {
	if kind == domain.SessionClownEffect {
		return "Clown music finished!"
	}
	return `Music finished. Say "Play music" to play again.`
}

func lineLoadFailed(kind domain.SessionKind) string {
	if kind == domain.SessionClownEffect {
		return "Error loading clown music. Please try again."
	}
	return "Error playing music. Please try again."
}

func lineMusicStopped() string {
	return `Music stopped. Say "Play music" to play again.`
}

func lineClownStopped() string {
	return "Clown music stopped!"
}

// ── Volume / mute ────────────────────────────────────────────────

func lineVolume(v float64) string {
	return fmt.Sprintf("Volume: %.0f%%", v*100)
}

func lineNothingToAdjust() string {
	return "No music is playing to adjust volume."
}

func lineMuted(withMusic bool) string {
	if withMusic {
		return "Music and reminders muted!"
	}
	return "Reminders muted!"
}

func lineUnmuted(withMusic bool) string {
	if withMusic {
		return "Music and reminders unmuted!"
	}
	return "Reminders unmuted!"
}

// ── Overlays ─────────────────────────────────────────────────────

func lineBackground(name string) string {
	return fmt.Sprintf("Background changed to %s!", name)
}

func lineBackgroundFailed() string {
	return "Error changing background."
}

func lineVideoPlaying() string {
	return `Video playing! Say "Stop video" to close.`
}

func lineVideoClosed() string {
	return "Video closed."
}

func lineVideoRestarted() string {
	return "Video restarted from the beginning!"
}

func lineNoVideo() string {
	return "No video is playing to restart."
}

func lineCameraOpen() string {
	return `Camera is open! Say "Close camera" to close.`
}

func lineCameraDenied() string {
	return "Camera access denied. Please check permissions."
}

func lineCameraClosed() string {
	return "Camera closed."
}

func lineOpenCameraFirst() string {
	return `Open camera first! Say "Open camera"`
}

func linePhotoSaved(id string) string {
	return fmt.Sprintf("Photo saved! (%s)", id)
}

func linePhotoFailed() string {
	return "Error taking photo. Please try again."
}

func lineVideoFailed() string {
	return "Error playing video."
}

// ── Reminders ────────────────────────────────────────────────────

func lineReminderSet(message, delay string) string {
	return fmt.Sprintf("Reminder set: %q in %s", message, delay)
}

func lineRemindersStopped(c domain.ReminderCounts) string {
	if c.Total == 0 {
		return "No reminders to stop"
	}
	return fmt.Sprintf("Stopped %d reminder(s) (%d active, %d triggered)", c.Total, c.Active, c.Triggered)
}

// ── Playlist ─────────────────────────────────────────────────────

func linePlaylistCreated() string {
	return "Playlist created!"
}

func lineAddedToPlaylist(n int) string {
	return fmt.Sprintf("Added to playlist! (%d songs)", n)
}

func lineAlreadyInPlaylist() string {
	return "Song already in playlist!"
}

func linePlaylistEmpty() string {
	return "Playlist is empty! Add songs first."
}

// ── Fallback ─────────────────────────────────────────────────────

func lineHelp() string {
	return `Try: "Set reminder to...", "Play music", "Open camera"`
}

package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/hammamikhairi/voicedeck/internal/conversation"
	"github.com/hammamikhairi/voicedeck/internal/domain"
)

// meta runs a REPL command that is not a voice intent. Reports whether
// the app should quit.
func (a *cliApp) meta(input string) (quit bool, err error) {
	switch cmd := strings.ToLower(strings.Fields(input)[0]); cmd {
	case ":quit", ":q", ":exit":
		a.ui.PrintHint("Bye.")
		return true, nil
	case ":help":
		a.printHelp()
	case ":reminders":
		a.showReminders()
	case ":playlist":
		a.showPlaylist()
	case ":status":
		a.showStatus()
	default:
		return false, fmt.Errorf("%w: unknown command %q", domain.ErrNotFound, cmd)
	}
	return false, nil
}

func (a *cliApp) printHelp() {
	a.ui.PrintLine("Voice commands:")
	for _, line := range []string{
		"play music / stop music / bring the clown / stop clown",
		"volume up / volume down / mute / unmute",
		"set reminder to <task> in <n> <seconds|minutes|hours> / stop reminders",
		"create playlist / add to playlist / play playlist",
		"open camera / take photo / close camera",
		"play video / restart video / stop video / change background",
	} {
		a.ui.PrintHint("  " + line)
	}
	a.ui.PrintLine("Meta commands: :reminders  :playlist  :status  :quit")
}

// showReminders lists reminders, then dismisses the ones that already
// fired.
func (a *cliApp) showReminders() {
	active, triggered := a.scheduler.List()
	if len(active) == 0 && len(triggered) == 0 {
		a.ui.PrintHint(`No reminders set. Say "Set reminder to..." to create one.`)
		return
	}

	now := time.Now()
	if len(triggered) > 0 {
		a.ui.PrintLine("Ready:")
		for _, r := range triggered {
			a.ui.PrintHint(fmt.Sprintf("  • %s (triggered at %s)", r.Message, r.TriggerAt.Format("15:04:05")))
		}
	}
	if len(active) > 0 {
		a.ui.PrintLine("Active:")
		for _, r := range active {
			a.ui.PrintHint(fmt.Sprintf("  • %s (%s, at %s)", r.Message,
				conversation.FormatRemaining(r.Remaining(now)), r.TriggerAt.Format("15:04:05")))
		}
	}
	if n := a.scheduler.DismissTriggered(); n > 0 {
		a.log.Debug("dismissed %d triggered reminders", n)
	}
}

func (a *cliApp) showPlaylist() {
	tracks := a.playlist.Tracks()
	if len(tracks) == 0 {
		a.ui.PrintHint(`Playlist is empty. Say "Add to playlist" while a song plays.`)
		return
	}
	index, playing := a.playlist.State()
	a.ui.PrintLine(fmt.Sprintf("Playlist (%d songs):", len(tracks)))
	for i, t := range tracks {
		marker := " "
		if playing && i == index {
			marker = "▶"
		}
		a.ui.PrintHint(fmt.Sprintf("  %s %d. %s", marker, i+1, t))
	}
}

func (a *cliApp) showStatus() {
	snap, ok := a.registry.Active()
	if !ok {
		a.ui.PrintHint("Nothing playing.")
	} else {
		a.ui.PrintLine(fmt.Sprintf("%s %s: %s (volume %.0f%%)", snap.Kind, snap.State, snap.Source, snap.Volume*100))
	}
	c := a.scheduler.Counts()
	a.ui.PrintHint(fmt.Sprintf("Reminders: %d active, %d ready. Muted: %v.", c.Active, c.Triggered, a.registry.Muted()))
}

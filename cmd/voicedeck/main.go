// VoiceDeck is a voice-controlled media deck for the terminal.
//
// Usage:
//
//	voicedeck [-verbose] [-quiet] [-voice] [-no-audio] [-music url] ...
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	stdlog "log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/hammamikhairi/voicedeck/internal/config"
	"github.com/hammamikhairi/voicedeck/internal/conversation"
	"github.com/hammamikhairi/voicedeck/internal/display"
	"github.com/hammamikhairi/voicedeck/internal/domain"
	"github.com/hammamikhairi/voicedeck/internal/engine"
	"github.com/hammamikhairi/voicedeck/internal/logger"
	"github.com/hammamikhairi/voicedeck/internal/media"
	"github.com/hammamikhairi/voicedeck/internal/overlay"
	"github.com/hammamikhairi/voicedeck/internal/playlist"
	"github.com/hammamikhairi/voicedeck/internal/reminder"
	"github.com/hammamikhairi/voicedeck/internal/speech"
)

func main() {
	cfg, err := config.Load(".env", os.Args[1:])
	if errors.Is(err, flag.ErrHelp) {
		os.Exit(0)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(2)
	}

	level, err := logger.ParseLevel(cfg.Log.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(2)
	}

	// Direct logs to a rotating file by default so the REPL stays clean.
	var logOut io.Writer = os.Stderr
	if cfg.Log.File != "stderr" {
		w, err := logger.RotatingFile(cfg.Log.File)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: could not open log file %s: %v (falling back to stderr)\n", cfg.Log.File, err)
		} else {
			logOut = w
			defer w.Close()
		}
	}

	// Redirect Go's default log package (used by third-party libs like
	// the whisper transcriber) to the same output so it doesn't spam
	// the terminal.
	stdlog.SetOutput(logOut)
	stdlog.SetFlags(stdlog.Ltime)

	log := logger.New(level, logOut)

	// Cancelled on Ctrl-C / SIGTERM or when the UI quits.
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Audio output. Without a device everything still works, silently.
	var (
		loader domain.MediaLoader
		tones  domain.ToneNotifier = domain.NoopTones{}
	)
	if cfg.Audio.Enabled {
		out, err := speech.NewOutput(cfg.Audio.SampleRate, log)
		if err != nil {
			log.Error("audio output unavailable, running silent: %v", err)
		} else {
			loader = speech.NewMediaPlayer(out, log.WithField("component", "player"))
			tones = speech.NewToneSynth(out, log)
		}
	}
	if loader == nil {
		loader = speech.NewSilentLoader(0, log)
	}

	registry := media.New(loader, log.WithField("component", "media"),
		media.WithDefaultVolume(cfg.Media.DefaultVolume),
		media.WithLoadTimeout(cfg.Media.LoadTimeout),
	)

	var (
		scheduler *reminder.Scheduler
		songs     *playlist.Engine
	)
	ui := display.NewUI(func() display.Status {
		return collectStatus(registry, scheduler, songs)
	})
	notifier := conversation.NewCLINotifier(log, ui.Printf)

	alert := speech.NewAlertSound(loader, tones, registry, cfg.Media.AlertSource, cfg.Media.AlertVolume, log)
	scheduler = reminder.New(alert, notifier, log.WithField("component", "reminder"))
	songs = playlist.New(registry, notifier, log.WithField("component", "playlist"))

	camera := overlay.NewCamera(log)
	eng := engine.New(
		conversation.NewRuleParser(log),
		registry,
		scheduler,
		songs,
		engine.Collaborators{
			Camera:     camera,
			Video:      overlay.NewVideo(cfg.Media.VideoSource, log),
			Background: overlay.NewBackground(nil, log),
			Clown:      overlay.NewClown(log),
		},
		notifier,
		tones,
		log.WithField("component", "engine"),
		engine.WithMusicSource(cfg.Media.MusicSource),
		engine.WithClownSource(cfg.Media.ClownSource),
		engine.WithVolumeStep(cfg.Media.VolumeStep),
	)

	scheduler.Start(ctx)
	defer scheduler.Stop()

	app := &cliApp{
		engine:    eng,
		registry:  registry,
		scheduler: scheduler,
		playlist:  songs,
		notifier:  notifier,
		log:       log,
		ui:        ui,
	}

	fmt.Println(display.RenderBanner("Voice-controlled music, reminders and effects"))

	if cfg.Speech.Voice {
		app.ear = startEar(ctx, cfg, notifier, log)
	}
	if app.ear != nil {
		fmt.Println(display.BannerStyle.Render("  Voice mode ON: speak a command, or type one."))
	} else {
		fmt.Println(display.BannerStyle.Render(`  Type a command like "play music", or ":help".`))
	}
	fmt.Println(display.BannerStyle.Render("  Type ':quit' to exit."))
	fmt.Println()

	// Run app logic in a background goroutine.
	go func() {
		ui.WaitReady()
		app.run(ctx)
		ui.Quit()
	}()

	// Bubble Tea owns the terminal and blocks until quit.
	if err := ui.Run(); err != nil {
		log.Error("display: %v", err)
	}
	cancel()
	registry.StopAll()
}

// startEar probes the microphone and starts continuous transcription.
// Returns nil when voice input cannot be used.
func startEar(ctx context.Context, cfg *config.Config, notifier domain.Notifier, log *logger.Logger) *speech.Ear {
	if _, err := os.Stat(cfg.Speech.WhisperModel); err != nil {
		fmt.Fprintf(os.Stderr, "warning: whisper model not found at %s, voice input disabled\n", cfg.Speech.WhisperModel)
		return nil
	}

	mic := speech.NewMicrophone(log)
	if err := mic.Acquire(); err != nil {
		log.Error("voice input: %v", err)
		if errors.Is(err, domain.ErrPermission) {
			fmt.Fprintln(os.Stderr, "warning: microphone access denied, voice input disabled")
		}
		return nil
	}
	mic.Release()

	if err := os.MkdirAll(cfg.Speech.TempDir, 0o755); err != nil {
		log.Error("voice input: creating %s: %v", cfg.Speech.TempDir, err)
		return nil
	}

	ear := speech.NewEar(cfg.Speech.WhisperBin, cfg.Speech.WhisperModel, log.WithField("component", "ear"),
		speech.WithRecordDuration(cfg.RecordDuration()),
		speech.WithTempDir(cfg.Speech.TempDir),
		speech.WithRestartEvery(cfg.Speech.RestartEvery),
		speech.WithErrorHandler(recognitionErrorHandler(ctx, notifier, log)),
	)
	if err := ear.CheckBinary(); err != nil {
		log.Error("voice input: %v", err)
		fmt.Fprintf(os.Stderr, "warning: %v, voice input disabled\n", err)
		return nil
	}

	go ear.Run(ctx)
	log.Info("voice input enabled (bin=%s, model=%s, chunk=%s)", cfg.Speech.WhisperBin, cfg.Speech.WhisperModel, cfg.RecordDuration())
	return ear
}

// recognitionErrorHandler surfaces transcriber failures as a warning
// status line.
func recognitionErrorHandler(ctx context.Context, notifier domain.Notifier, log *logger.Logger) func(error) {
	return func(err error) {
		if nerr := notifier.Status(ctx, fmt.Sprintf("Recognition error: %v", err), domain.SeverityWarning); nerr != nil {
			log.Error("voice input: notifying: %v", nerr)
		}
	}
}

func collectStatus(registry *media.Registry, scheduler *reminder.Scheduler, songs *playlist.Engine) display.Status {
	var st display.Status
	st.Session, st.HasAudio = registry.Active()
	st.Muted = registry.Muted()
	if scheduler != nil {
		st.Next, st.HasNext = scheduler.Next()
		st.Triggered = scheduler.Counts().Triggered
	}
	if songs != nil {
		st.PlaylistLen = songs.Len()
		st.PlaylistIndex, st.PlaylistPlaying = songs.State()
	}
	return st
}

type cliApp struct {
	engine    *engine.Engine
	registry  *media.Registry
	scheduler *reminder.Scheduler
	playlist  *playlist.Engine
	notifier  domain.Notifier
	ear       *speech.Ear // nil when voice input is disabled
	log       *logger.Logger
	ui        *display.UI
}

func (a *cliApp) run(ctx context.Context) {
	// Voice channel (nil-safe: receiving on a nil channel blocks forever,
	// so select will only use the keyboard case).
	var voiceCh <-chan string
	if a.ear != nil {
		voiceCh = a.ear.C()
	}
	uiCh := a.ui.InputChan()

	for {
		var input string
		var ok bool

		select {
		case <-ctx.Done():
			return
		case input, ok = <-uiCh:
			if !ok {
				return
			}
		case input, ok = <-voiceCh:
			if !ok {
				voiceCh = nil
				continue
			}
			// Print what was heard so the user sees it in the REPL.
			a.ui.PrintVoice(input)
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}

		if strings.HasPrefix(input, ":") {
			quit, err := a.meta(input)
			if err != nil {
				a.ui.PrintHint(err.Error() + ` (try ":help")`)
			}
			if quit {
				return
			}
			continue
		}

		a.engine.Handle(ctx, input)
	}
}

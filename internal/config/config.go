// Package config loads runtime settings from defaults, a .env file,
// VOICEDECK_* environment variables and command-line flags, in that
// order of precedence, and validates the result.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Default media sources.
const (
	DefaultMusicURL = "https://raw.githubusercontent.com/mdn/webaudio-examples/main/audio-analyser/viper.mp3"
	DefaultClownURL = "https://raw.githubusercontent.com/effacestudios/Royalty-Free-Music-Pack/master/THE%20CLOWN.mp3"
	DefaultVideoURL = "https://mdn.github.io/learning-area/html/multimedia-and-embedding/video-and-audio-content/rabbit320.mp4"
)

// Config is the full application configuration.
type Config struct {
	Log    LogConfig
	Audio  AudioConfig
	Media  MediaConfig
	Speech SpeechConfig

	postParse func()
}

// LogConfig controls logger verbosity and destination.
type LogConfig struct {
	Level string `validate:"oneof=off normal verbose"`
	File  string `validate:"required"` // "stderr" logs to the console
}

// AudioConfig controls the output device.
type AudioConfig struct {
	Enabled    bool
	SampleRate int `validate:"min=8000,max=192000"`
}

// MediaConfig holds sources and volume behaviour.
type MediaConfig struct {
	MusicSource   string        `validate:"required,source"`
	ClownSource   string        `validate:"required,source"`
	AlertSource   string        `validate:"omitempty,source"`
	VideoSource   string        `validate:"required,source"`
	DefaultVolume float64       `validate:"gte=0,lte=1"`
	VolumeStep    float64       `validate:"gt=0,lte=1"`
	AlertVolume   float64       `validate:"gte=0,lte=1"`
	LoadTimeout   time.Duration `validate:"gt=0"`
}

// SpeechConfig controls voice input.
type SpeechConfig struct {
	Voice        bool
	WhisperBin   string        `validate:"required_if=Voice true"`
	WhisperModel string        `validate:"required_if=Voice true"`
	RecordSecs   int           `validate:"min=1,max=30"`
	TempDir      string        `validate:"required"`
	RestartEvery time.Duration `validate:"gt=0"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Log: LogConfig{
			Level: "normal",
			File:  ".voicedeck/logs/voicedeck.log",
		},
		Audio: AudioConfig{
			Enabled:    true,
			SampleRate: 44100,
		},
		Media: MediaConfig{
			MusicSource:   DefaultMusicURL,
			ClownSource:   DefaultClownURL,
			VideoSource:   DefaultVideoURL,
			DefaultVolume: 0.5,
			VolumeStep:    0.1,
			AlertVolume:   0.7,
			LoadTimeout:   20 * time.Second,
		},
		Speech: SpeechConfig{
			WhisperBin:   "whisper-cli",
			WhisperModel: "bin/ggml-small.bin",
			RecordSecs:   3,
			TempDir:      ".voicedeck/stt",
			RestartEvery: 2 * time.Second,
		},
	}
}

// Load builds a Config for the given command-line arguments (without
// the program name). envFile may be empty to skip the .env step; a
// missing file is not an error.
func Load(envFile string, args []string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("reading %s: %w", envFile, err)
		}
	}

	cfg := Default()
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	flags := flag.NewFlagSet("voicedeck", flag.ContinueOnError)
	cfg.bindFlags(flags)
	if err := flags.Parse(args); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) bindFlags(fs *flag.FlagSet) {
	verbose := fs.Bool("verbose", false, "enable verbose/debug logging")
	quiet := fs.Bool("quiet", false, "disable all logging")
	fs.StringVar(&c.Log.File, "log-file", c.Log.File, "file to write logs to (use \"stderr\" to log to console)")
	noAudio := fs.Bool("no-audio", !c.Audio.Enabled, "disable audio output (tones and media become silent)")
	fs.IntVar(&c.Audio.SampleRate, "sample-rate", c.Audio.SampleRate, "audio output sample rate")
	fs.StringVar(&c.Media.MusicSource, "music", c.Media.MusicSource, "default music URL or file")
	fs.StringVar(&c.Media.ClownSource, "clown", c.Media.ClownSource, "clown effect URL or file")
	fs.StringVar(&c.Media.VideoSource, "video", c.Media.VideoSource, "video overlay URL or file")
	fs.StringVar(&c.Media.AlertSource, "alert", c.Media.AlertSource, "reminder alert sound URL or file (empty plays beeps)")
	fs.Float64Var(&c.Media.DefaultVolume, "volume", c.Media.DefaultVolume, "initial session volume (0-1)")
	fs.Float64Var(&c.Media.VolumeStep, "volume-step", c.Media.VolumeStep, "volume change per command")
	fs.BoolVar(&c.Speech.Voice, "voice", c.Speech.Voice, "enable voice input via local Whisper STT")
	fs.StringVar(&c.Speech.WhisperBin, "whisper-bin", c.Speech.WhisperBin, "path to the whisper-cpp CLI binary")
	fs.StringVar(&c.Speech.WhisperModel, "whisper-model", c.Speech.WhisperModel, "path to the Whisper GGML model file")
	fs.IntVar(&c.Speech.RecordSecs, "record-secs", c.Speech.RecordSecs, "seconds per voice recording chunk")

	// Level flags are resolved after parsing.
	fs.Func("log-level", "off, normal or verbose", func(s string) error {
		c.Log.Level = s
		return nil
	})
	c.postParse = func() {
		if *verbose {
			c.Log.Level = "verbose"
		}
		if *quiet {
			c.Log.Level = "off"
		}
		c.Audio.Enabled = !*noAudio
	}
}

// Validate checks every field against its constraints.
func (c *Config) Validate() error {
	if c.postParse != nil {
		c.postParse()
		c.postParse = nil
	}
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// RecordDuration returns the voice chunk length.
func (c *Config) RecordDuration() time.Duration {
	return time.Duration(c.Speech.RecordSecs) * time.Second
}

// ── Environment ──────────────────────────────────────────────────

const envPrefix = "VOICEDECK_"

func (c *Config) applyEnv() error {
	str := func(key string, dst *string) {
		if v, ok := os.LookupEnv(envPrefix + key); ok {
			*dst = v
		}
	}
	var errs []error
	num := func(key string, dst *float64) {
		if v, ok := os.LookupEnv(envPrefix + key); ok {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s%s: %w", envPrefix, key, err))
				return
			}
			*dst = f
		}
	}
	integer := func(key string, dst *int) {
		if v, ok := os.LookupEnv(envPrefix + key); ok {
			n, err := strconv.Atoi(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s%s: %w", envPrefix, key, err))
				return
			}
			*dst = n
		}
	}
	boolean := func(key string, dst *bool) {
		if v, ok := os.LookupEnv(envPrefix + key); ok {
			b, err := strconv.ParseBool(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s%s: %w", envPrefix, key, err))
				return
			}
			*dst = b
		}
	}

	str("LOG_LEVEL", &c.Log.Level)
	str("LOG_FILE", &c.Log.File)
	boolean("AUDIO", &c.Audio.Enabled)
	integer("SAMPLE_RATE", &c.Audio.SampleRate)
	str("MUSIC_URL", &c.Media.MusicSource)
	str("CLOWN_URL", &c.Media.ClownSource)
	str("ALERT_URL", &c.Media.AlertSource)
	str("VIDEO_URL", &c.Media.VideoSource)
	num("VOLUME", &c.Media.DefaultVolume)
	num("VOLUME_STEP", &c.Media.VolumeStep)
	num("ALERT_VOLUME", &c.Media.AlertVolume)
	boolean("VOICE", &c.Speech.Voice)
	str("WHISPER_BIN", &c.Speech.WhisperBin)
	str("WHISPER_MODEL", &c.Speech.WhisperModel)
	integer("RECORD_SECS", &c.Speech.RecordSecs)

	return errors.Join(errs...)
}

// ── Validation ───────────────────────────────────────────────────

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("source", func(fl validator.FieldLevel) bool {
		return isSource(fl.Field().String())
	})
	return v
}

// isSource accepts http(s) URLs and non-empty local paths.
func isSource(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	if strings.Contains(s, "://") {
		u, err := url.Parse(s)
		return err == nil && (u.Scheme == "http" || u.Scheme == "https" || u.Scheme == "file") && (u.Host != "" || u.Scheme == "file")
	}
	return true
}

package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	configName = "config"
	configType = "toml"
	configDir  = ".talkie"
	envPrefix  = "TALKIE"
)

// opusSampleRates are the rates libopus encodes and decodes at.
var opusSampleRates = []int{8000, 12000, 16000, 24000, 48000}

type Config struct {
	Log       LogConfig       `mapstructure:"log"`
	Audio     AudioConfig     `mapstructure:"audio"`
	Messages  MessagesConfig  `mapstructure:"messages"`
	Prefs     PrefsConfig     `mapstructure:"prefs"`
	Bus       BusConfig       `mapstructure:"bus"`
	Announcer AnnouncerConfig `mapstructure:"announcer"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	File   string `mapstructure:"file"`
}

type AudioConfig struct {
	CaptureSampleRate  int    `mapstructure:"capture_sample_rate"`
	PlaybackSampleRate int    `mapstructure:"playback_sample_rate"`
	Channels           int    `mapstructure:"channels"`
	FrameSize          int    `mapstructure:"frame_size"`
	Codec              string `mapstructure:"codec"`
}

type MessagesConfig struct {
	Retention     time.Duration `mapstructure:"retention"`
	SweepInterval time.Duration `mapstructure:"sweep_interval"`
}

type PrefsConfig struct {
	Path string `mapstructure:"path"`
}

type BusConfig struct {
	QueueSize int `mapstructure:"queue_size"`
}

type AnnouncerConfig struct {
	Command         string `mapstructure:"command"`
	VoiceMale       string `mapstructure:"voice_male"`
	VoiceFemale     string `mapstructure:"voice_female"`
	ReportTemplate  string `mapstructure:"report_template"`
	ConnectTemplate string `mapstructure:"connect_template"`
}

type MetricsConfig struct {
	Addr string `mapstructure:"addr"`
}

// Dir is the directory holding config.toml and the preference file.
func Dir(homeDir string) string {
	return filepath.Join(homeDir, configDir)
}

func setDefaults(v *viper.Viper, homeDir string) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.file", "")

	v.SetDefault("audio.capture_sample_rate", 16000)
	v.SetDefault("audio.playback_sample_rate", 16000)
	v.SetDefault("audio.channels", 1)
	v.SetDefault("audio.frame_size", 4096)
	v.SetDefault("audio.codec", "pcm")

	v.SetDefault("messages.retention", 15*time.Second)
	v.SetDefault("messages.sweep_interval", time.Second)

	v.SetDefault("prefs.path", filepath.Join(Dir(homeDir), "preferences.toml"))
	v.SetDefault("bus.queue_size", 256)

	v.SetDefault("announcer.command", "espeak-ng")
	v.SetDefault("announcer.voice_male", "en+m3")
	v.SetDefault("announcer.voice_female", "en+f3")
	v.SetDefault("announcer.report_template", "%s reports: %s")
	v.SetDefault("announcer.connect_template", "Operator %s connected.")

	v.SetDefault("metrics.addr", "")
}

// Load reads ~/.talkie/config.toml when present and applies TALKIE_*
// environment overrides, e.g. TALKIE_AUDIO_CODEC=opus.
func Load(v *viper.Viper, homeDir string) (*Config, error) {
	if v == nil {
		v = viper.New()
	}

	setDefaults(v, homeDir)

	v.SetConfigName(configName)
	v.SetConfigType(configType)
	v.AddConfigPath(Dir(homeDir))
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var configNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configNotFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c Config) Validate() error {
	var errs []error

	positive := []struct {
		key   string
		value int
	}{
		{"audio.capture_sample_rate", c.Audio.CaptureSampleRate},
		{"audio.playback_sample_rate", c.Audio.PlaybackSampleRate},
		{"audio.frame_size", c.Audio.FrameSize},
		{"bus.queue_size", c.Bus.QueueSize},
	}
	for _, field := range positive {
		if field.value <= 0 {
			errs = append(errs, fmt.Errorf("%s must be positive, got %d", field.key, field.value))
		}
	}

	if c.Messages.Retention <= 0 {
		errs = append(errs, fmt.Errorf("messages.retention must be positive, got %s", c.Messages.Retention))
	}
	if c.Messages.SweepInterval <= 0 {
		errs = append(errs, fmt.Errorf("messages.sweep_interval must be positive, got %s", c.Messages.SweepInterval))
	}

	// every capture device delivers mono frames
	if c.Audio.Channels != 1 {
		errs = append(errs, fmt.Errorf("audio.channels must be 1, got %d", c.Audio.Channels))
	}

	switch c.Audio.Codec {
	case "pcm":
	case "opus":
		for _, field := range []struct {
			key   string
			value int
		}{
			{"audio.capture_sample_rate", c.Audio.CaptureSampleRate},
			{"audio.playback_sample_rate", c.Audio.PlaybackSampleRate},
		} {
			if !slices.Contains(opusSampleRates, field.value) {
				errs = append(errs, fmt.Errorf("%s must be one of %v with the opus codec, got %d", field.key, opusSampleRates, field.value))
			}
		}
	default:
		errs = append(errs, fmt.Errorf("audio.codec must be pcm or opus, got %q", c.Audio.Codec))
	}
	switch c.Log.Format {
	case "console", "json":
	default:
		errs = append(errs, fmt.Errorf("log.format must be console or json, got %q", c.Log.Format))
	}
	if c.Prefs.Path == "" {
		errs = append(errs, errors.New("prefs.path is empty"))
	}

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("validate config: %w", err)
	}

	return nil
}

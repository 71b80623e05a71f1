package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Prefix is prepended to every variable name, e.g. GRAPHICA_PORT.
const Prefix = "GRAPHICA"

type Config struct {
	Port           int           `envconfig:"PORT" default:"8080"`
	AssetDir       string        `envconfig:"ASSET_DIR" default:"./data/assets"`
	FfmpegPath     string        `envconfig:"FFMPEG_PATH" default:"ffmpeg"`
	AllowedOrigins string        `envconfig:"ALLOWED_ORIGINS" default:"http://localhost:5173,http://localhost:3000"`
	TickRate       int           `envconfig:"TICK_RATE" default:"30"`
	SnapshotWidth  int           `envconfig:"SNAPSHOT_WIDTH" default:"800"`
	SnapshotHeight int           `envconfig:"SNAPSHOT_HEIGHT" default:"600"`
	VideoSeconds   float64       `envconfig:"VIDEO_SECONDS" default:"4"`
	FontPath       string        `envconfig:"FONT_PATH"`
	LogLevel       string        `envconfig:"LOG_LEVEL" default:"info"`
	IdleTimeout    time.Duration `envconfig:"IDLE_TIMEOUT" default:"10m"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(Prefix, &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects values no host can run with.
func (c *Config) Validate() error {
	switch {
	case c.TickRate <= 0 || c.TickRate > 240:
		return fmt.Errorf("tick rate %d out of range 1..240", c.TickRate)
	case c.SnapshotWidth <= 0 || c.SnapshotHeight <= 0:
		return fmt.Errorf("invalid snapshot size %dx%d", c.SnapshotWidth, c.SnapshotHeight)
	case c.VideoSeconds <= 0:
		return fmt.Errorf("invalid video length %v", c.VideoSeconds)
	}
	return nil
}

// Origins splits AllowedOrigins into host patterns.
func (c *Config) Origins() []string {
	var out []string
	for _, o := range strings.Split(c.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

// OriginHosts strips the scheme from each origin, the form websocket origin
// patterns are matched against.
func (c *Config) OriginHosts() []string {
	origins := c.Origins()
	for i, o := range origins {
		if _, host, ok := strings.Cut(o, "://"); ok {
			origins[i] = host
		}
	}
	return origins
}

// TickInterval is the frame period for server-side loops.
func (c *Config) TickInterval() time.Duration {
	return time.Second / time.Duration(c.TickRate)
}

// Level parses LogLevel, falling back to info.
func (c *Config) Level() slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return l
}

package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Script   ScriptConfig   `yaml:"script"`
	Assets   AssetsConfig   `yaml:"assets"`
	Studio   StudioConfig   `yaml:"studio"`
	Upload   UploadConfig   `yaml:"upload"`
	Research ResearchConfig `yaml:"research"`
	Server   ServerConfig   `yaml:"server"`
	Paths    PathsConfig    `yaml:"paths"`
}

type ScriptConfig struct {
	Models         []string `yaml:"models"`
	FallbackModel  string   `yaml:"fallback_model"`
	WordsPerMinute int      `yaml:"words_per_minute"`
}

type AssetsConfig struct {
	Voice            string `yaml:"voice"`
	MaxResults       int    `yaml:"max_results"`
	SearchTimeoutSec int    `yaml:"search_timeout_sec"`
}

type StudioConfig struct {
	FrameWidth      int      `yaml:"frame_width"`
	FrameHeight     int      `yaml:"frame_height"`
	FPS             int      `yaml:"fps"`
	Preset          string   `yaml:"preset"`
	FontSize        int      `yaml:"font_size"`
	MaxCharsPerLine int      `yaml:"max_chars_per_line"`
	StrokeWidth     int      `yaml:"stroke_width"`
	Fonts           []string `yaml:"fonts"`
}

type UploadConfig struct {
	Visibility  string   `yaml:"visibility"`
	CategoryID  string   `yaml:"category_id"`
	Tags        []string `yaml:"tags"`
	MadeForKids bool     `yaml:"made_for_kids"`
}

type ResearchConfig struct {
	Subreddits []string `yaml:"subreddits"`
	MaxPosts   int      `yaml:"max_posts"`
	TimePeriod string   `yaml:"time_period"`
}

type ServerConfig struct {
	Port string `yaml:"port"`
}

type PathsConfig struct {
	Output      string `yaml:"output"`
	Logs        string `yaml:"logs"`
	Credentials string `yaml:"credentials"`
	Token       string `yaml:"token"`
}

// Load reads config.yaml and returns a Config struct
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return &cfg, nil
}

// applyDefaults fills zero values so a sparse config.yaml still works
func (c *Config) applyDefaults() {
	if len(c.Script.Models) == 0 {
		c.Script.Models = []string{"gemini-2.5-flash", "gemini-1.5-flash"}
	}
	if c.Script.FallbackModel == "" {
		c.Script.FallbackModel = "gemini-pro"
	}
	if c.Script.WordsPerMinute == 0 {
		c.Script.WordsPerMinute = 140
	}
	if c.Assets.Voice == "" {
		c.Assets.Voice = "en-US-GuyNeural"
	}
	if c.Assets.MaxResults == 0 {
		c.Assets.MaxResults = 15
	}
	if c.Assets.SearchTimeoutSec == 0 {
		c.Assets.SearchTimeoutSec = 15
	}
	if c.Studio.FrameWidth == 0 {
		c.Studio.FrameWidth = 1080
	}
	if c.Studio.FrameHeight == 0 {
		c.Studio.FrameHeight = 1920
	}
	if c.Studio.FPS == 0 {
		c.Studio.FPS = 24
	}
	if c.Studio.Preset == "" {
		c.Studio.Preset = "ultrafast"
	}
	if c.Studio.FontSize == 0 {
		c.Studio.FontSize = 45
	}
	if c.Studio.MaxCharsPerLine == 0 {
		c.Studio.MaxCharsPerLine = 35
	}
	if c.Studio.StrokeWidth == 0 {
		c.Studio.StrokeWidth = 3
	}
	if c.Upload.Visibility == "" {
		c.Upload.Visibility = "private"
	}
	if c.Upload.CategoryID == "" {
		c.Upload.CategoryID = "28"
	}
	if len(c.Upload.Tags) == 0 {
		c.Upload.Tags = []string{"Shorts", "AI", "Tech"}
	}
	if c.Server.Port == "" {
		c.Server.Port = "8080"
	}
	if c.Paths.Output == "" {
		c.Paths.Output = "output"
	}
	if c.Paths.Logs == "" {
		c.Paths.Logs = "logs"
	}
	if c.Paths.Credentials == "" {
		c.Paths.Credentials = "client_secret.json"
	}
	if c.Paths.Token == "" {
		c.Paths.Token = "token.json"
	}
}

package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/atomicstack/chat-prefix/internal/app"
	"github.com/atomicstack/chat-prefix/internal/selection"
	"github.com/atomicstack/chat-prefix/internal/transform"
	"github.com/atomicstack/chat-prefix/internal/ui/overlay"
	"gopkg.in/yaml.v3"
)

// Config captures runtime configuration for the application.
type Config struct {
	App     app.Config
	Logging Logging
	File    string
	Flags   map[string]string
	Args    []string
}

type Logging struct {
	FilePath string
	Trace    bool
}

const (
	appDir        = "chat-prefix"
	defaultDBFile = "chat-prefix.db"

	envConfig       = "CHAT_PREFIX_CONFIG"
	envDB           = "CHAT_PREFIX_DB"
	envChannels     = "CHAT_PREFIX_CHANNELS"
	envRulesChannel = "CHAT_PREFIX_RULES_CHANNEL"
	envMenuGap      = "CHAT_PREFIX_MENU_GAP"
	envMenuMinWidth = "CHAT_PREFIX_MENU_MIN_WIDTH"
	envWidth        = "CHAT_PREFIX_WIDTH"
	envHeight       = "CHAT_PREFIX_HEIGHT"
	envShowFooter   = "CHAT_PREFIX_FOOTER"
	envDebug        = "CHAT_PREFIX_DEBUG"
	envLogFile      = "CHAT_PREFIX_LOG_FILE"
)

// fileConfig is the YAML file layout. Pointer fields distinguish an unset
// value from an explicit zero.
type fileConfig struct {
	DB           string        `yaml:"db"`
	Channels     []fileChannel `yaml:"channels"`
	RulesChannel string        `yaml:"rules-channel"`
	MenuGap      *int          `yaml:"menu-gap"`
	MenuMinWidth *int          `yaml:"menu-min-width"`
	Width        *int          `yaml:"width"`
	Height       *int          `yaml:"height"`
	Footer       *bool         `yaml:"footer"`
	Debug        *bool         `yaml:"debug"`
	LogFile      string        `yaml:"log-file"`
}

type fileChannel struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
}

// LoadArgs parses configuration from CLI arguments and environment. Values come
// from flags, then environment variables, then the YAML file, then defaults.
func LoadArgs(args []string, environ []string) (Config, error) {
	env := parseEnv(environ)

	path, explicit := configPath(args, env)
	file, err := readFile(path, explicit)
	if err != nil {
		return Config{}, err
	}

	fs := flag.NewFlagSet("chat-prefix", flag.ContinueOnError)
	fs.SetOutput(new(strings.Builder))

	fs.String("config", path, "path to the YAML config file")
	db := fs.String("db", envOrDefault(env, envDB, orString(file.DB, filepath.Join(configDir(env), defaultDBFile))), "path to the SQLite settings database")
	channels := fs.String("channels", envOrDefault(env, envChannels, formatChannels(file.Channels)), "comma separated channels as id or id=name")
	rules := fs.String("rules-channel", envOrDefault(env, envRulesChannel, orString(file.RulesChannel, transform.DefaultRulesChannel)), "channel id that is never prefixed")
	gap := fs.Int("menu-gap", envOrInt(env, envMenuGap, orInt(file.MenuGap, overlay.DefaultGap)), "rows between the prefix menu and its anchor (0 uses the default)")
	minWidth := fs.Int("menu-min-width", envOrInt(env, envMenuMinWidth, orInt(file.MenuMinWidth, overlay.DefaultMinWidth)), "minimum prefix menu width in cells")
	width := fs.Int("width", envOrInt(env, envWidth, orInt(file.Width, 0)), "desired viewport width in cells (0 uses terminal width)")
	height := fs.Int("height", envOrInt(env, envHeight, orInt(file.Height, 0)), "desired viewport height in rows (0 uses terminal height)")
	footer := fs.Bool("footer", envOrBool(env, envShowFooter, orBool(file.Footer, false)), "enable footer hint row (disabled by default)")
	debug := fs.Bool("debug", envOrBool(env, envDebug, orBool(file.Debug, false)), "enable verbose JSON trace logging")
	logFile := fs.String("log-file", envOrDefault(env, envLogFile, file.LogFile), "path to the log file")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if *width < 0 {
		return Config{}, fmt.Errorf("width must be >= 0 (got %d)", *width)
	}
	if *height < 0 {
		return Config{}, fmt.Errorf("height must be >= 0 (got %d)", *height)
	}
	parsedChannels, err := ParseChannels(*channels)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		App: app.Config{
			DBPath:       *db,
			Channels:     parsedChannels,
			RulesChannel: *rules,
			MenuGap:      *gap,
			MenuMinWidth: *minWidth,
			Width:        *width,
			Height:       *height,
			ShowFooter:   *footer,
			Debug:        *debug,
		},
		Logging: Logging{
			FilePath: *logFile,
			Trace:    *debug,
		},
		File: path,
		Flags: map[string]string{
			"db":           *db,
			"channels":     *channels,
			"rulesChannel": *rules,
			"menuGap":      strconv.Itoa(*gap),
			"menuMinWidth": strconv.Itoa(*minWidth),
			"width":        strconv.Itoa(*width),
			"height":       strconv.Itoa(*height),
			"footer":       strconv.FormatBool(*footer),
			"debug":        strconv.FormatBool(*debug),
			"logFile":      *logFile,
		},
		Args: append([]string(nil), args...),
	}

	return cfg, nil
}

// ParseChannels reads a comma separated list of "id" or "id=name" items.
func ParseChannels(value string) ([]selection.Channel, error) {
	var channels []selection.Channel
	seen := map[string]bool{}
	for _, item := range strings.Split(value, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		id, name, _ := strings.Cut(item, "=")
		id = strings.TrimSpace(id)
		name = strings.TrimSpace(name)
		if id == "" {
			return nil, fmt.Errorf("channel %q has no id", item)
		}
		if id == selection.Global {
			return nil, fmt.Errorf("channel id %q is reserved", id)
		}
		if seen[id] {
			return nil, fmt.Errorf("duplicate channel id %q", id)
		}
		seen[id] = true
		channels = append(channels, selection.Channel{ID: id, Name: name})
	}
	return channels, nil
}

func formatChannels(channels []fileChannel) string {
	items := make([]string, 0, len(channels))
	for _, ch := range channels {
		if ch.Name == "" {
			items = append(items, ch.ID)
			continue
		}
		items = append(items, ch.ID+"="+ch.Name)
	}
	return strings.Join(items, ",")
}

// configPath finds the config file before flags are parsed, since the file
// supplies the flag defaults. It reports whether the path was given
// explicitly.
func configPath(args []string, env map[string]string) (string, bool) {
	for i, arg := range args {
		if arg == "--" {
			break
		}
		name := strings.TrimLeft(arg, "-")
		if len(arg)-len(name) == 0 || len(arg)-len(name) > 2 {
			continue
		}
		if value, ok := strings.CutPrefix(name, "config="); ok {
			return value, true
		}
		if name == "config" && i+1 < len(args) {
			return args[i+1], true
		}
	}
	if v := strings.TrimSpace(env[envConfig]); v != "" {
		return v, true
	}
	return filepath.Join(configDir(env), "config.yaml"), false
}

// readFile loads the YAML config. A missing default file is not an error.
func readFile(path string, explicit bool) (fileConfig, error) {
	var file fileConfig
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !explicit {
			return file, nil
		}
		return file, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &file); err != nil {
		return file, fmt.Errorf("parse config %s: %w", path, err)
	}
	return file, nil
}

func configDir(env map[string]string) string {
	if dir := strings.TrimSpace(env["XDG_CONFIG_HOME"]); dir != "" {
		return filepath.Join(dir, appDir)
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, appDir)
}

func parseEnv(environ []string) map[string]string {
	values := make(map[string]string, len(environ))
	for _, entry := range environ {
		if entry == "" {
			continue
		}
		parts := strings.SplitN(entry, "=", 2)
		if len(parts) != 2 {
			continue
		}
		values[parts[0]] = parts[1]
	}
	return values
}

func envOrDefault(env map[string]string, key, fallback string) string {
	if v, ok := env[key]; ok {
		return v
	}
	return fallback
}

func envOrInt(env map[string]string, key string, fallback int) int {
	v, ok := env[key]
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return parsed
}

func envOrBool(env map[string]string, key string, fallback bool) bool {
	v, ok := env[key]
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return parsed
}

func orString(v, fallback string) string {
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return v
}

func orInt(v *int, fallback int) int {
	if v == nil {
		return fallback
	}
	return *v
}

func orBool(v *bool, fallback bool) bool {
	if v == nil {
		return fallback
	}
	return *v
}

// Validate ensures required minimum configuration is present.
func Validate(cfg Config) error {
	if strings.TrimSpace(cfg.App.DBPath) == "" {
		return errors.New("db path is required")
	}
	if cfg.App.MenuGap < 0 {
		return fmt.Errorf("menu-gap must be >= 0 (got %d)", cfg.App.MenuGap)
	}
	if cfg.App.MenuMinWidth <= 0 {
		return fmt.Errorf("menu-min-width must be > 0 (got %d)", cfg.App.MenuMinWidth)
	}
	return nil
}

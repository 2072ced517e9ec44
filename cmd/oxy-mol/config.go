package main

import (
	"errors"
	"flag"
	"fmt"
	"strconv"
)

// Config holds the command configuration.
type Config struct {
	Scene    string
	LogLevel string
	Watch    bool
	Window   bool
	WSAddr   string
	Workers  int
	Profile  bool
	Width    int
	Height   int
}

// configResolver defines how to resolve a single configuration value.
type configResolver struct {
	flagName    string
	envVarName  string
	defaultVal  string
	description string
	setter      func(*Config, string) error
}

func boolSetter(dst func(*Config) *bool) func(*Config, string) error {
	return func(c *Config, v string) error {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return err
		}
		*dst(c) = b
		return nil
	}
}

func intSetter(dst func(*Config) *int) func(*Config, string) error {
	return func(c *Config, v string) error {
		n, err := strconv.Atoi(v)
		if err != nil {
			return err
		}
		if n < 0 {
			return fmt.Errorf("must not be negative")
		}
		*dst(c) = n
		return nil
	}
}

// resolvers lists every option. To add one, add a resolver here.
var resolvers = []configResolver{
	{
		flagName:    "scene",
		envVarName:  "OXYMOL_SCENE",
		description: "path to a scene file (.json, .yaml, .yml or .toml)",
		setter:      func(c *Config, v string) error { c.Scene = v; return nil },
	},
	{
		flagName:    "log-level",
		envVarName:  "OXYMOL_LOG_LEVEL",
		defaultVal:  "info",
		description: "log level: debug, info, warn, error",
		setter:      func(c *Config, v string) error { c.LogLevel = v; return nil },
	},
	{
		flagName:    "watch",
		envVarName:  "OXYMOL_WATCH",
		defaultVal:  "false",
		description: "re-run the scene whenever the scene file changes",
		setter:      boolSetter(func(c *Config) *bool { return &c.Watch }),
	},
	{
		flagName:    "window",
		envVarName:  "OXYMOL_WINDOW",
		defaultVal:  "true",
		description: "open the interactive preview window; false runs headless",
		setter:      boolSetter(func(c *Config) *bool { return &c.Window }),
	},
	{
		flagName:    "ws-addr",
		envVarName:  "OXYMOL_WS_ADDR",
		description: "listen address for the websocket event stream (e.g. :8090); empty disables it",
		setter:      func(c *Config, v string) error { c.WSAddr = v; return nil },
	},
	{
		flagName:    "workers",
		envVarName:  "OXYMOL_WORKERS",
		defaultVal:  "0",
		description: "style diff workers for large models; 0 uses the default",
		setter:      intSetter(func(c *Config) *int { return &c.Workers }),
	},
	{
		flagName:    "profile",
		envVarName:  "OXYMOL_PROFILE",
		defaultVal:  "false",
		description: "log pass statistics once a second",
		setter:      boolSetter(func(c *Config) *bool { return &c.Profile }),
	},
	{
		flagName:    "width",
		envVarName:  "OXYMOL_WIDTH",
		defaultVal:  "1280",
		description: "preview window width in pixels",
		setter:      intSetter(func(c *Config) *int { return &c.Width }),
	},
	{
		flagName:    "height",
		envVarName:  "OXYMOL_HEIGHT",
		defaultVal:  "720",
		description: "preview window height in pixels",
		setter:      intSetter(func(c *Config) *int { return &c.Height }),
	},
}

// loadConfig resolves every option from, in order, its flag, its environment variable and its default.
//
// Parameters:
//   - fs: the flag set to register on, usually flag.CommandLine
//   - args: the command line arguments without the program name
//   - getenv: environment lookup, usually os.Getenv
//
// Returns:
//   - Config: the resolved configuration
//   - error: error if flag parsing fails or a value is invalid
func loadConfig(fs *flag.FlagSet, args []string, getenv func(string) string) (Config, error) {
	cfg := Config{}

	flagVars := make(map[string]*string, len(resolvers))
	for _, r := range resolvers {
		flagVars[r.flagName] = fs.String(r.flagName, "", r.description)
	}
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	var errs []error
	for _, r := range resolvers {
		var value string
		if v := *flagVars[r.flagName]; v != "" {
			value = v
		} else if v := getenv(r.envVarName); v != "" {
			value = v
		} else {
			value = r.defaultVal
		}
		if value == "" {
			continue
		}
		if err := r.setter(&cfg, value); err != nil {
			errs = append(errs, fmt.Errorf("invalid %s %q: %w", r.flagName, value, err))
		}
	}
	if len(errs) > 0 {
		return Config{}, errors.Join(errs...)
	}
	return cfg, nil
}

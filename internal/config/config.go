// Package config loads padchord settings from flags, the environment and an
// optional config file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("config: invalid")

const envPrefix = "PADCHORD"

type Config struct {
	Tick     time.Duration  `mapstructure:"tick"`
	Zone     ZoneConfig     `mapstructure:"zone"`
	Source   string         `mapstructure:"source"`
	Evdev    EvdevConfig    `mapstructure:"evdev"`
	Backend  string         `mapstructure:"backend"`
	X11      X11Config      `mapstructure:"x11"`
	Uinput   UinputConfig   `mapstructure:"uinput"`
	Dispatch DispatchConfig `mapstructure:"dispatch"`
	Pointer  PointerConfig  `mapstructure:"pointer"`
	Haptic   HapticConfig   `mapstructure:"haptic"`
	Monitor  MonitorConfig  `mapstructure:"monitor"`
	Tray     TrayConfig     `mapstructure:"tray"`
	Log      LogConfig      `mapstructure:"log"`
}

type ZoneConfig struct {
	DeadBand     float64 `mapstructure:"deadband"`
	GuardDegrees float64 `mapstructure:"guard_degrees"`
}

type EvdevConfig struct {
	Device     string  `mapstructure:"device"`
	AxisMax    float64 `mapstructure:"axis_max"`
	TriggerMax float64 `mapstructure:"trigger_max"`
}

type X11Config struct {
	Display string `mapstructure:"display"`
}

type UinputConfig struct {
	Path string `mapstructure:"path"`
}

type DispatchConfig struct {
	Capacity int `mapstructure:"capacity"`
}

type PointerConfig struct {
	Enabled  bool    `mapstructure:"enabled"`
	Speed    float64 `mapstructure:"speed"`
	DeadZone float64 `mapstructure:"deadzone"`
}

type HapticConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Capacity int           `mapstructure:"capacity"`
	Duration time.Duration `mapstructure:"duration"`
}

type MonitorConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Addr    string `mapstructure:"addr"`
}

type TrayConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

var defaults = map[string]any{
	"tick":               time.Millisecond,
	"zone.deadband":      0.6,
	"zone.guard_degrees": 5.0,
	"source":             "sdl",
	"evdev.device":       "",
	"evdev.axis_max":     32767.0,
	"evdev.trigger_max":  255.0,
	"backend":            "x11",
	"x11.display":        "",
	"uinput.path":        "/dev/uinput",
	"dispatch.capacity":  4,
	"pointer.enabled":    true,
	"pointer.speed":      1.5,
	"pointer.deadzone":   0.2,
	"haptic.enabled":     true,
	"haptic.capacity":    2,
	"haptic.duration":    time.Millisecond,
	"monitor.enabled":    false,
	"monitor.addr":       "127.0.0.1:8080",
	"tray.enabled":       false,
	"log.level":          "info",
}

// flagKeys binds command line flags to config keys.
var flagKeys = map[string]string{
	"tick":       "tick",
	"source":     "source",
	"device":     "evdev.device",
	"backend":    "backend",
	"display":    "x11.display",
	"uinput":     "uinput.path",
	"no-pointer": "pointer.enabled",
	"no-haptic":  "haptic.enabled",
	"monitor":    "monitor.enabled",
	"addr":       "monitor.addr",
	"tray":       "tray.enabled",
	"log-level":  "log.level",
}

// Flags returns the command line flag set Load parses.
func Flags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("padchord", pflag.ContinueOnError)
	fs.StringP("config", "c", "", "config file (default: padchord.{yaml,toml,json} in the config dirs)")
	fs.Duration("tick", time.Millisecond, "minimum sampling period")
	fs.StringP("source", "s", "sdl", "controller source: sdl or evdev")
	fs.String("device", "", "evdev device node, e.g. /dev/input/event5")
	fs.StringP("backend", "b", "x11", "injection backend: x11 or uinput")
	fs.String("display", "", "X display (default $DISPLAY)")
	fs.String("uinput", "/dev/uinput", "uinput device node")
	fs.Bool("no-pointer", false, "do not move the pointer with the right stick")
	fs.Bool("no-haptic", false, "disable rumble feedback")
	fs.BoolP("monitor", "m", false, "serve the live monitor")
	fs.String("addr", "127.0.0.1:8080", "monitor listen address")
	fs.Bool("tray", false, "show a system tray icon")
	fs.StringP("log-level", "l", "info", "log level: debug, info, warn, error")
	return fs
}

// Load parses args and merges them over the environment, the config file and
// the defaults. The result is validated.
func Load(args []string) (*Config, error) {
	fs := Flags()
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	v := viper.New()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := bindFlags(v, fs); err != nil {
		return nil, err
	}

	file, _ := fs.GetString("config")
	if err := readFile(v, file); err != nil {
		return nil, err
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func bindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	for name, key := range flagKeys {
		f := fs.Lookup(name)
		if strings.HasPrefix(name, "no-") {
			// Negated switches only override when given.
			if f.Changed {
				on, _ := fs.GetBool(name)
				v.Set(key, !on)
			}
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("config: bind --%s: %w", name, err)
		}
	}
	return nil
}

func readFile(v *viper.Viper, file string) error {
	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("config: read %s: %w", file, err)
		}
		return nil
	}

	v.SetConfigName("padchord")
	for _, dir := range searchDirs() {
		v.AddConfigPath(dir)
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

func searchDirs() []string {
	var dirs []string
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		dirs = append(dirs, filepath.Join(xdg, "padchord"))
	}
	if home, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, filepath.Join(home, ".config", "padchord"))
	}
	return append(dirs, ".")
}

// Validate rejects settings the program cannot run with.
func (c *Config) Validate() error {
	switch {
	case c.Tick < time.Millisecond:
		return fmt.Errorf("%w: tick %s is below 1ms", ErrInvalid, c.Tick)
	case c.Zone.DeadBand <= 0 || c.Zone.DeadBand >= 1:
		return fmt.Errorf("%w: zone.deadband %v outside (0,1)", ErrInvalid, c.Zone.DeadBand)
	case c.Zone.GuardDegrees < 0 || c.Zone.GuardDegrees >= 45:
		return fmt.Errorf("%w: zone.guard_degrees %v outside [0,45)", ErrInvalid, c.Zone.GuardDegrees)
	case c.Source != "sdl" && c.Source != "evdev":
		return fmt.Errorf("%w: unknown source %q", ErrInvalid, c.Source)
	case c.Source == "evdev" && c.Evdev.Device == "":
		return fmt.Errorf("%w: evdev source needs evdev.device", ErrInvalid)
	case c.Source == "evdev" && (c.Evdev.AxisMax <= 0 || c.Evdev.TriggerMax <= 0):
		return fmt.Errorf("%w: evdev axis ranges must be positive", ErrInvalid)
	case c.Backend != "x11" && c.Backend != "uinput":
		return fmt.Errorf("%w: unknown backend %q", ErrInvalid, c.Backend)
	case c.Dispatch.Capacity <= 0:
		return fmt.Errorf("%w: dispatch.capacity must be positive", ErrInvalid)
	case c.Haptic.Capacity <= 0:
		return fmt.Errorf("%w: haptic.capacity must be positive", ErrInvalid)
	case c.Haptic.Duration < 0:
		return fmt.Errorf("%w: haptic.duration is negative", ErrInvalid)
	case c.Pointer.Speed < 0:
		return fmt.Errorf("%w: pointer.speed is negative", ErrInvalid)
	case c.Pointer.DeadZone < 0 || c.Pointer.DeadZone >= 1:
		return fmt.Errorf("%w: pointer.deadzone %v outside [0,1)", ErrInvalid, c.Pointer.DeadZone)
	case c.Monitor.Enabled && c.Monitor.Addr == "":
		return fmt.Errorf("%w: monitor.addr is empty", ErrInvalid)
	}
	return nil
}

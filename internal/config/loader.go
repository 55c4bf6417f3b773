// Package config loads sharelink settings.
//
// Precedence, lowest to highest: defaults, config file, environment,
// runtime overrides (CLI flags).
package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"

	"github.com/3leaps/sharelink/pkg/report"
)

// AppName names the config directory and the environment prefix.
const AppName = "sharelink"

// EnvPrefix prefixes sharelink's own environment variables.
const EnvPrefix = "SHARELINK_"

// Config is the resolved configuration.
type Config struct {
	Storage StorageConfig `mapstructure:"storage" yaml:"storage"`
	Share   ShareConfig   `mapstructure:"share" yaml:"share"`
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`
}

// StorageConfig describes the object store connection.
type StorageConfig struct {
	APIURL         string `mapstructure:"api_url" yaml:"api_url"`
	ConsoleURL     string `mapstructure:"console_url" yaml:"console_url"`
	AccessKey      string `mapstructure:"access_key" yaml:"access_key"`
	SecretKey      string `mapstructure:"secret_key" yaml:"secret_key"`
	Bucket         string `mapstructure:"bucket" yaml:"bucket"`
	Region         string `mapstructure:"region" yaml:"region"`
	Profile        string `mapstructure:"profile" yaml:"profile"`
	Insecure       bool   `mapstructure:"insecure" yaml:"insecure"`
	ForcePathStyle bool   `mapstructure:"force_path_style" yaml:"force_path_style"`
	PartSize       int64  `mapstructure:"part_size" yaml:"part_size"`
}

// ShareConfig holds per-upload defaults.
type ShareConfig struct {
	ExpiryDays int           `mapstructure:"expiry_days" yaml:"expiry_days"`
	Format     report.Mode   `mapstructure:"format" yaml:"format"`
	Timeout    time.Duration `mapstructure:"timeout" yaml:"timeout"`
}

// LoggingConfig controls the CLI logger.
type LoggingConfig struct {
	Level string `mapstructure:"level" yaml:"level"`
}

// envSpec maps one environment variable to a config path.
type envSpec struct {
	Name     string
	Path     []string
	Required bool
}

// Load resolves configuration from defaults, the first user config file
// found, the environment and overrides.
func Load(ctx context.Context, overrides ...map[string]any) (*Config, error) {
	return LoadFile(ctx, "", overrides...)
}

// LoadFile is Load with an explicit config file. An empty path searches
// the user config directory; a missing file there is not an error.
func LoadFile(ctx context.Context, path string, overrides ...map[string]any) (*Config, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	v := viper.New()
	setDefaults(v)

	if err := readConfigFile(v, path); err != nil {
		return nil, err
	}

	for _, spec := range getEnvSpecs() {
		if err := v.BindEnv(strings.Join(spec.Path, "."), spec.Name); err != nil {
			return nil, fmt.Errorf("bind %s: %w", spec.Name, err)
		}
	}

	for _, override := range overrides {
		for key, value := range flatten("", override) {
			v.Set(key, value)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, viper.DecodeHook(decodeHook())); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.normalize()
	if !cfg.Share.Format.Valid() {
		return nil, fmt.Errorf("share.format: %w", &report.UnsupportedModeError{Mode: string(cfg.Share.Format)})
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("storage.api_url", "")
	v.SetDefault("storage.console_url", "")
	v.SetDefault("storage.access_key", "")
	v.SetDefault("storage.secret_key", "")
	v.SetDefault("storage.bucket", "")
	v.SetDefault("storage.region", "")
	v.SetDefault("storage.profile", "")
	v.SetDefault("storage.insecure", false)
	v.SetDefault("storage.force_path_style", true)
	v.SetDefault("storage.part_size", 0)

	v.SetDefault("share.expiry_days", 7)
	v.SetDefault("share.format", string(report.ModeText))
	v.SetDefault("share.timeout", "0s")

	v.SetDefault("logging.level", "info")
}

func readConfigFile(v *viper.Viper, path string) error {
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("read config %s: %w", path, err)
		}
		return nil
	}

	for _, candidate := range getUserConfigPaths() {
		if _, err := os.Stat(candidate); err != nil {
			continue
		}
		v.SetConfigFile(candidate)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("read config %s: %w", candidate, err)
		}
		return nil
	}
	return nil
}

// getUserConfigPaths lists config files searched when none is given.
func getUserConfigPaths() []string {
	dir, err := os.UserConfigDir()
	if err != nil || dir == "" {
		return nil
	}
	base := filepath.Join(dir, AppName)
	return []string{
		filepath.Join(base, "config.yaml"),
		filepath.Join(base, "config.yml"),
		filepath.Join(base, "config.toml"),
		filepath.Join(base, "config.json"),
	}
}

// getEnvSpecs returns the environment bindings. MINIO_* names are shared
// with the MinIO client tooling.
func getEnvSpecs() []envSpec {
	return []envSpec{
		{Name: "MINIO_API_URL", Path: []string{"storage", "api_url"}, Required: true},
		{Name: "MINIO_CONSOLE_URL", Path: []string{"storage", "console_url"}},
		{Name: "MINIO_ACCESS_KEY", Path: []string{"storage", "access_key"}, Required: true},
		{Name: "MINIO_SECRET_KEY", Path: []string{"storage", "secret_key"}, Required: true},
		{Name: "MINIO_BUCKET", Path: []string{"storage", "bucket"}, Required: true},
		{Name: "MINIO_REGION", Path: []string{"storage", "region"}},
		{Name: "AWS_PROFILE", Path: []string{"storage", "profile"}},
		{Name: EnvPrefix + "INSECURE", Path: []string{"storage", "insecure"}},
		{Name: EnvPrefix + "PART_SIZE", Path: []string{"storage", "part_size"}},
		{Name: EnvPrefix + "EXPIRY_DAYS", Path: []string{"share", "expiry_days"}},
		{Name: EnvPrefix + "FORMAT", Path: []string{"share", "format"}},
		{Name: EnvPrefix + "TIMEOUT", Path: []string{"share", "timeout"}},
		{Name: EnvPrefix + "LOG_LEVEL", Path: []string{"logging", "level"}},
	}
}

// flatten turns nested override maps into dotted viper keys.
func flatten(prefix string, m map[string]any) map[string]any {
	out := make(map[string]any)
	for k, v := range m {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		if nested, ok := v.(map[string]any); ok {
			for nk, nv := range flatten(key, nested) {
				out[nk] = nv
			}
			continue
		}
		out[key] = v
	}
	return out
}

func decodeHook() mapstructure.DecodeHookFunc {
	return mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		stringToModeHook(),
	)
}

// stringToModeHook accepts format aliases such as "md" or "JSON". Unknown
// names pass through unchanged and are rejected by LoadFile after decoding.
func stringToModeHook() mapstructure.DecodeHookFuncType {
	modeType := reflect.TypeOf(report.Mode(""))
	return func(from reflect.Type, to reflect.Type, data any) (any, error) {
		if from.Kind() != reflect.String || to != modeType {
			return data, nil
		}
		mode, err := report.ParseMode(reflect.ValueOf(data).String())
		if err != nil {
			return data, nil
		}
		return mode, nil
	}
}

func (c *Config) normalize() {
	s := &c.Storage
	s.APIURL = strings.TrimSpace(s.APIURL)
	s.ConsoleURL = strings.TrimRight(strings.TrimSpace(s.ConsoleURL), "/")
	s.AccessKey = strings.TrimSpace(s.AccessKey)
	s.Bucket = strings.TrimSpace(s.Bucket)
	s.Region = strings.TrimSpace(s.Region)
	s.Profile = strings.TrimSpace(s.Profile)
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
}

// Redacted returns a copy with credentials masked, safe to print.
func (c Config) Redacted() Config {
	c.Storage.AccessKey = maskSecret(c.Storage.AccessKey, 4)
	c.Storage.SecretKey = maskSecret(c.Storage.SecretKey, 0)
	return c
}

// maskSecret hides all but the last keep characters of s.
func maskSecret(s string, keep int) string {
	if s == "" {
		return ""
	}
	if keep <= 0 || len(s) <= keep {
		return "****"
	}
	return "****" + s[len(s)-keep:]
}

// ErrMissingConfig is matched by *MissingEnvError via errors.Is.
var ErrMissingConfig = errors.New("missing required configuration")

// MissingEnvError lists every required variable that is unset.
type MissingEnvError struct {
	Vars []string
}

func (e *MissingEnvError) Error() string {
	return "missing required environment variables: " + strings.Join(e.Vars, ", ")
}

// Is reports whether target is ErrMissingConfig.
func (e *MissingEnvError) Is(target error) bool {
	return target == ErrMissingConfig
}

// Validate reports all missing required storage settings at once.
func (s StorageConfig) Validate() error {
	values := map[string]string{
		"api_url":    s.APIURL,
		"access_key": s.AccessKey,
		"secret_key": s.SecretKey,
		"bucket":     s.Bucket,
	}

	var missing []string
	for _, spec := range getEnvSpecs() {
		if !spec.Required || spec.Path[0] != "storage" {
			continue
		}
		if strings.TrimSpace(values[spec.Path[1]]) == "" {
			missing = append(missing, spec.Name)
		}
	}
	if len(missing) > 0 {
		return &MissingEnvError{Vars: missing}
	}
	return nil
}

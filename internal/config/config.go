package config

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/vango-dev/uploadbox/internal/errors"
	"github.com/vango-dev/uploadbox/pkg/uploadbox"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "uploadbox.json"

	// DefaultAddr is the default preview server address.
	DefaultAddr = "localhost:8090"

	// DefaultTimeout is the default timeout for host API calls.
	DefaultTimeout = "30s"

	// DefaultSaveDir is where downloads are saved by default.
	DefaultSaveDir = "downloads"

	// DefaultLogLevel is the default log level.
	DefaultLogLevel = "info"

	// DefaultNamespace is the default metrics namespace.
	DefaultNamespace = "uploadbox"
)

// Config represents the complete uploadbox.json configuration.
type Config struct {
	// Server configures the preview server and the host API it talks to.
	Server ServerConfig `json:"server"`

	// Box is the upload box configuration.
	Box uploadbox.Config `json:"box"`

	// Download configures where downloaded files go.
	Download SaveConfig `json:"save"`

	// Log configures logging.
	Log LogConfig `json:"log"`

	// Metrics configures the Prometheus collectors.
	Metrics MetricsConfig `json:"metrics"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// ServerConfig contains preview server and host API settings.
type ServerConfig struct {
	// Addr is the address the preview server listens on.
	Addr string `json:"addr,omitempty"`

	// APIBaseURL is the host API that endpoint paths resolve against.
	APIBaseURL string `json:"apiBaseURL,omitempty"`

	// Timeout bounds each host API call (e.g., "30s").
	Timeout string `json:"timeout,omitempty"`

	// ViewerURL is the page the file viewer iframe loads. Empty uses the
	// preview server's own /view route.
	ViewerURL string `json:"viewerURL,omitempty"`
}

// SaveConfig contains download target settings.
type SaveConfig struct {
	// Dir is the local download directory.
	Dir string `json:"dir,omitempty"`

	// S3 stores downloads in a bucket instead of Dir when Bucket is set.
	S3 S3Config `json:"s3,omitempty"`
}

// S3Config contains S3 download target settings.
type S3Config struct {
	Bucket string `json:"bucket,omitempty"`
	Prefix string `json:"prefix,omitempty"`
	Region string `json:"region,omitempty"`

	// Endpoint selects an S3-compatible server (MinIO, Ceph) instead of
	// AWS, e.g. "http://localhost:9000".
	Endpoint string `json:"endpoint,omitempty"`

	// AccessKey and SecretKey authenticate against Endpoint. They are
	// only read from the environment.
	AccessKey string `json:"-"`
	SecretKey string `json:"-"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `json:"level,omitempty"`

	// Format is "text" or "json".
	Format string `json:"format,omitempty"`
}

// MetricsConfig contains Prometheus settings.
type MetricsConfig struct {
	Enabled   bool   `json:"enabled"`
	Namespace string `json:"namespace,omitempty"`
}

// New creates a new Config with default values.
func New() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:    DefaultAddr,
			Timeout: DefaultTimeout,
		},
		Box: uploadbox.DefaultConfig(),
		Download: SaveConfig{
			Dir: DefaultSaveDir,
		},
		Log: LogConfig{
			Level:  DefaultLogLevel,
			Format: "text",
		},
		Metrics: MetricsConfig{
			Enabled:   true,
			Namespace: DefaultNamespace,
		},
	}
}

// Load reads uploadbox.json from dir. A missing file is not an error:
// the defaults are returned.
func Load(dir string) (*Config, error) {
	path := filepath.Join(dir, ConfigFileName)
	if !Exists(dir) {
		cfg := New()
		cfg.configPath = path
		return cfg, nil
	}
	return LoadFile(path)
}

// LoadFile reads configuration from the specified file path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("C001").
				WithDetail("No " + filepath.Base(path) + " found in " + filepath.Dir(path))
		}
		return nil, errors.New("C002").Wrap(err)
	}

	cfg := New()
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		return nil, decodeError(path, data, err)
	}

	cfg.configPath = path
	cfg.applyDefaults()

	return cfg, nil
}

// decodeError points a JSON error at the offending line when the
// decoder reports an offset.
func decodeError(path string, data []byte, err error) error {
	e := errors.New("C002").Wrap(err)

	var offset int64 = -1
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	switch {
	case stderrors.As(err, &syntaxErr):
		offset = syntaxErr.Offset
		e.WithSuggestion("Check " + filepath.Base(path) + " for missing or trailing commas and unquoted keys")
	case stderrors.As(err, &typeErr):
		offset = typeErr.Offset
		e.WithSuggestion("Field " + typeErr.Field + " must be a " + typeErr.Type.String())
	case strings.HasPrefix(err.Error(), "json: unknown field"):
		e.WithSuggestion("Remove the field or check its spelling")
	case stderrors.Is(err, io.EOF):
		e.WithDetail("The config file is empty.").
			WithSuggestion("Write {} for an all-defaults config")
	}

	if offset >= 0 {
		line, col := position(data, offset)
		e.WithLocation(path, line, col)
	}
	return e
}

// position converts a byte offset into a 1-based line and column.
func position(data []byte, offset int64) (line, col int) {
	if offset > int64(len(data)) {
		offset = int64(len(data))
	}
	line, col = 1, 1
	for _, b := range data[:offset] {
		if b == '\n' {
			line++
			col = 1
			continue
		}
		col++
	}
	return line, col
}

// Save writes the configuration to the file it was loaded from.
func (c *Config) Save() error {
	if c.configPath == "" {
		return errors.Newf(errors.CategoryConfig, "no config path set")
	}
	return c.SaveTo(c.configPath)
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.New("C002").Wrap(err)
	}

	// Add newline at end of file
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New("S001").Wrap(err)
	}

	c.configPath = path
	return nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// Dir returns the directory containing the config file.
func (c *Config) Dir() string {
	if c.configPath == "" {
		return ""
	}
	return filepath.Dir(c.configPath)
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = DefaultAddr
	}
	if c.Server.Timeout == "" {
		c.Server.Timeout = DefaultTimeout
	}
	c.Server.APIBaseURL = strings.TrimRight(c.Server.APIBaseURL, "/")

	if c.Download.Dir == "" {
		c.Download.Dir = DefaultSaveDir
	}

	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}

	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = DefaultNamespace
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if err := c.Box.Validate(); err != nil {
		return errors.New("C003").
			WithDetail(strings.TrimPrefix(err.Error(), "uploadbox: ")).
			Wrap(err)
	}
	if _, err := time.ParseDuration(c.Server.Timeout); err != nil {
		return errors.New("C003").
			WithDetail("server.timeout must be a duration such as \"30s\"").
			Wrap(err)
	}
	if _, err := parseLevel(c.Log.Level); err != nil {
		return errors.New("C003").
			WithDetail("log.level must be one of debug, info, warn, error").
			Wrap(err)
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		return errors.New("C003").
			WithDetail("log.format must be \"text\" or \"json\", got \"" + c.Log.Format + "\"")
	}
	if c.Download.S3.Endpoint != "" && c.Download.S3.Bucket == "" {
		return errors.New("C003").
			WithDetail("save.s3.endpoint is set but save.s3.bucket is empty")
	}
	if c.Download.S3.Prefix != "" && c.Download.S3.Bucket == "" {
		return errors.New("C003").
			WithDetail("save.s3.prefix is set but save.s3.bucket is empty")
	}
	return nil
}

// Timeout returns the host API timeout.
func (c *Config) Timeout() time.Duration {
	d, err := time.ParseDuration(c.Server.Timeout)
	if err != nil {
		d, _ = time.ParseDuration(DefaultTimeout)
	}
	return d
}

// SaveTarget returns where downloads go: "s3://bucket/prefix" when a
// bucket is configured, otherwise the save directory relative to the
// config file.
func (c *Config) SaveTarget() string {
	if c.Download.S3.Bucket != "" {
		return "s3://" + c.Download.S3.Bucket + "/" + strings.TrimLeft(c.Download.S3.Prefix, "/")
	}
	if filepath.IsAbs(c.Download.Dir) || c.Dir() == "" {
		return c.Download.Dir
	}
	return filepath.Join(c.Dir(), c.Download.Dir)
}

// LogLevel returns the configured slog level.
func (c *Config) LogLevel() slog.Level {
	level, err := parseLevel(c.Log.Level)
	if err != nil {
		return slog.LevelInfo
	}
	return level
}

// Logger builds a logger writing to w in the configured format.
func (c *Config) Logger(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.LogLevel()}
	if c.Log.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	err := level.UnmarshalText([]byte(s))
	return level, err
}

// Exists checks if a config file exists in the given directory.
func Exists(dir string) bool {
	path := filepath.Join(dir, ConfigFileName)
	_, err := os.Stat(path)
	return err == nil
}

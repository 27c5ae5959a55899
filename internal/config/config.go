package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	// Mode constants
	ModeStdio  = "stdio"
	ModeServer = "server"
	ModeCLI    = "cli"
	ModeWatch  = "watch"

	// Default values
	DefaultPort            = 8080
	DefaultHost            = "127.0.0.1"
	DefaultLogLevel        = "info"
	DefaultMaxFileSize     = 50 * 1024 * 1024 // 50MB
	DefaultOutputFormat    = "txt"
	DefaultCleanupInterval = 30 * time.Second
	DefaultYtDlp           = "yt-dlp"
	DefaultWhisper         = "whisper-cli"
	DefaultWhisperLanguage = "en"
	DefaultWhisperThreads  = 4

	// Directory permissions
	DefaultDirPerm = 0o750

	// EnvPrefix prefixes every environment variable
	EnvPrefix = "DUALMIND"
)

// ErrVersionRequested is returned by Load when --version is present
var ErrVersionRequested = errors.New("version requested")

// Config holds all configuration for DualMind
type Config struct {
	// Server configuration
	Mode    string
	Host    string
	Port    int
	Metrics bool
	BaseURL string

	// Document configuration
	Directory    string
	MaxFileSize  int64
	Input        string
	OutputDir    string
	OutputFormat string
	HistoryDB    string

	// Temporary files
	TempDir         string
	CleanupInterval time.Duration

	// Transcription tools
	YtDlpPath       string
	WhisperPath     string
	WhisperModel    string
	WhisperLanguage string
	WhisperThreads  int

	// Application configuration
	Version    string
	ServerName string
	LogLevel   string
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	currentDir, err := os.Getwd()
	if err != nil {
		currentDir = "."
	}

	return &Config{
		Mode:            ModeStdio, // Default to stdio mode for MCP compatibility
		Host:            DefaultHost,
		Port:            DefaultPort,
		Directory:       currentDir,
		MaxFileSize:     DefaultMaxFileSize,
		OutputFormat:    DefaultOutputFormat,
		TempDir:         os.TempDir(),
		CleanupInterval: DefaultCleanupInterval,
		YtDlpPath:       DefaultYtDlp,
		WhisperPath:     DefaultWhisper,
		WhisperLanguage: DefaultWhisperLanguage,
		WhisperThreads:  DefaultWhisperThreads,
		Version:         "1.0.0",
		ServerName:      "dualmind",
		LogLevel:        DefaultLogLevel,
	}
}

// LoadFromFlags parses the process arguments and returns a configuration
func LoadFromFlags() (*Config, error) {
	return Load(os.Args[1:])
}

// Load builds a configuration from defaults, an optional config file,
// a .env file, DUALMIND_* environment variables and args, in increasing
// order of precedence
func Load(args []string) (*Config, error) {
	if hasVersionFlag(args) {
		return nil, ErrVersionRequested
	}

	cfg := DefaultConfig()
	flags := defineFlags(cfg)
	if err := flags.Parse(args); err != nil {
		return nil, err
	}

	envFile, _ := flags.GetString("env-file")
	if err := loadEnvFile(envFile); err != nil {
		return nil, err
	}

	v := newViper(cfg)
	if err := v.BindPFlags(flags); err != nil {
		return nil, fmt.Errorf("bind flags: %w", err)
	}

	if file := v.GetString("config"); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file %s: %w", file, err)
		}
	}

	populateConfig(cfg, v)
	cfg.expandPaths()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// loadEnvFile loads KEY=VALUE pairs without overriding the real environment
func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load env file %s: %w", path, err)
	}
	return nil
}

func newViper(cfg *Config) *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("mode", cfg.Mode)
	v.SetDefault("host", cfg.Host)
	v.SetDefault("port", cfg.Port)
	v.SetDefault("dir", cfg.Directory)
	v.SetDefault("log-level", cfg.LogLevel)
	v.SetDefault("max-file-size", cfg.MaxFileSize)
	v.SetDefault("temp-dir", cfg.TempDir)
	v.SetDefault("output-format", cfg.OutputFormat)
	v.SetDefault("cleanup-interval", cfg.CleanupInterval)
	v.SetDefault("yt-dlp", cfg.YtDlpPath)
	v.SetDefault("whisper", cfg.WhisperPath)
	v.SetDefault("whisper-language", cfg.WhisperLanguage)
	v.SetDefault("whisper-threads", cfg.WhisperThreads)
	return v
}

// defineFlags sets up all command line flags
func defineFlags(cfg *Config) *pflag.FlagSet {
	flags := pflag.NewFlagSet("dualmind", pflag.ContinueOnError)

	flags.String("mode", cfg.Mode, "Run mode: 'stdio' (MCP over stdio), 'server' (MCP over SSE), 'cli' (one input), 'watch' (inbox directory)")
	flags.String("host", cfg.Host, "Server host address (server mode only)")
	flags.Int("port", cfg.Port, "Server port (server mode only)")
	flags.String("base-url", "", "Public base URL advertised to SSE clients (server mode only, defaults to http://host:port)")
	flags.Bool("metrics", false, "Expose Prometheus metrics on /metrics (server mode only)")
	flags.String("dir", cfg.Directory, "Directory containing documents")
	flags.String("log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")
	flags.Int64("max-file-size", cfg.MaxFileSize, "Maximum PDF file size in bytes")
	flags.String("input", "", "CLI mode input: a PDF path, a .txt path or a YouTube URL")
	flags.String("output-dir", "", "Directory for exported reports")
	flags.String("output-format", cfg.OutputFormat, "Export format: txt or docx")
	flags.String("history-db", "", "SQLite file for report history (empty disables history)")
	flags.String("temp-dir", cfg.TempDir, "Directory for temporary audio files")
	flags.Duration("cleanup-interval", cfg.CleanupInterval, "Interval between temporary file sweeps")
	flags.String("yt-dlp", cfg.YtDlpPath, "yt-dlp executable")
	flags.String("whisper", cfg.WhisperPath, "whisper.cpp executable")
	flags.String("whisper-model", "", "whisper.cpp model file")
	flags.String("whisper-language", cfg.WhisperLanguage, "Transcription language")
	flags.Int("whisper-threads", cfg.WhisperThreads, "Transcription threads")
	flags.String("config", "", "Configuration file (yaml, toml or json)")
	flags.String("env-file", ".env", "Environment file loaded before reading DUALMIND_* variables")
	flags.Bool("version", false, "Print version information and exit")

	flags.Usage = func() { printUsage(flags) }
	return flags
}

// printUsage writes the custom usage message
func printUsage(flags *pflag.FlagSet) {
	fmt.Fprintf(os.Stderr, "Usage of dualmind:\n")
	fmt.Fprintf(os.Stderr, "\nDualMind - summarize PDFs, text files and YouTube videos\n\n")
	fmt.Fprintf(os.Stderr, "Options:\n")
	flags.PrintDefaults()
	fmt.Fprintf(os.Stderr, "\nExamples:\n")
	fmt.Fprintf(os.Stderr, "  dualmind                                          # MCP stdio mode, current directory\n")
	fmt.Fprintf(os.Stderr, "  dualmind --mode=server --port=8081 --metrics      # MCP over SSE with metrics\n")
	fmt.Fprintf(os.Stderr, "  dualmind --mode=cli --input=report.pdf            # summarize one file\n")
	fmt.Fprintf(os.Stderr, "  dualmind --mode=watch --dir=inbox --output-format=docx\n")
	fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
	fmt.Fprintf(os.Stderr, "  Every option is also read from %s_<OPTION>, e.g. %s_LOG_LEVEL\n", EnvPrefix, EnvPrefix)
}

func hasVersionFlag(args []string) bool {
	for _, arg := range args {
		if arg == "-version" || arg == "--version" || arg == "-v" {
			return true
		}
	}
	return false
}

// populateConfig fills the config struct with values from viper
func populateConfig(cfg *Config, v *viper.Viper) {
	cfg.Mode = v.GetString("mode")
	cfg.Host = v.GetString("host")
	cfg.Port = v.GetInt("port")
	cfg.Metrics = v.GetBool("metrics")
	cfg.BaseURL = strings.TrimRight(v.GetString("base-url"), "/")
	cfg.Directory = v.GetString("dir")
	cfg.LogLevel = v.GetString("log-level")
	cfg.MaxFileSize = v.GetInt64("max-file-size")
	cfg.Input = v.GetString("input")
	cfg.OutputDir = v.GetString("output-dir")
	cfg.OutputFormat = strings.ToLower(v.GetString("output-format"))
	cfg.HistoryDB = v.GetString("history-db")
	cfg.TempDir = v.GetString("temp-dir")
	cfg.CleanupInterval = v.GetDuration("cleanup-interval")
	cfg.YtDlpPath = v.GetString("yt-dlp")
	cfg.WhisperPath = v.GetString("whisper")
	cfg.WhisperModel = v.GetString("whisper-model")
	cfg.WhisperLanguage = v.GetString("whisper-language")
	cfg.WhisperThreads = v.GetInt("whisper-threads")
}

func (c *Config) expandPaths() {
	for _, p := range []*string{&c.Directory, &c.OutputDir, &c.TempDir, &c.HistoryDB} {
		if *p == "" {
			continue
		}
		if abs, err := filepath.Abs(*p); err == nil {
			*p = abs
		}
	}
}

// Validate checks if the configuration is valid and creates missing directories
func (c *Config) Validate() error {
	switch c.Mode {
	case ModeStdio, ModeServer, ModeCLI, ModeWatch:
	default:
		return errors.New("mode must be one of 'stdio', 'server', 'cli' or 'watch'")
	}

	if c.Mode == ModeServer && (c.Port < 1 || c.Port > 65535) {
		return errors.New("port must be between 1 and 65535")
	}

	if c.Directory == "" {
		return errors.New("document directory cannot be empty")
	}

	if c.MaxFileSize <= 0 {
		return errors.New("maximum file size must be positive")
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s (must be one of: debug, info, warn, error)", c.LogLevel)
	}

	if c.OutputFormat != "txt" && c.OutputFormat != "docx" {
		return fmt.Errorf("invalid output format: %s (must be txt or docx)", c.OutputFormat)
	}

	if c.CleanupInterval <= 0 {
		return errors.New("cleanup interval must be positive")
	}

	if c.WhisperThreads <= 0 {
		return errors.New("whisper threads must be positive")
	}

	if c.Mode == ModeCLI && strings.TrimSpace(c.Input) == "" {
		return errors.New("cli mode requires --input")
	}

	if c.Mode == ModeWatch && c.OutputDir == "" {
		c.OutputDir = filepath.Join(c.Directory, "summaries")
	}

	for _, dir := range []string{c.Directory, c.TempDir, c.OutputDir} {
		if err := ensureDir(dir); err != nil {
			return err
		}
	}

	return nil
}

func ensureDir(dir string) error {
	if dir == "" {
		return nil
	}
	info, err := os.Stat(dir)
	switch {
	case os.IsNotExist(err):
		if err := os.MkdirAll(dir, DefaultDirPerm); err != nil {
			return fmt.Errorf("cannot create directory %s: %w", dir, err)
		}
		return nil
	case err != nil:
		return fmt.Errorf("cannot access directory %s: %w", dir, err)
	case !info.IsDir():
		return fmt.Errorf("not a directory: %s", dir)
	}
	return nil
}

// Address returns the server address as host:port
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// PublicURL returns the base URL SSE clients use to reach the server.
// A wildcard listen host is advertised as localhost.
func (c *Config) PublicURL() string {
	if c.BaseURL != "" {
		return c.BaseURL
	}
	host := c.Host
	switch host {
	case "", "0.0.0.0", "::", "[::]":
		host = "localhost"
	}
	return fmt.Sprintf("http://%s:%d", host, c.Port)
}

// IsDebug returns true if debug logging is enabled
func (c *Config) IsDebug() bool {
	return c.LogLevel == "debug"
}

// String returns a string representation of the configuration
func (c *Config) String() string {
	return fmt.Sprintf("Config{Mode: %s, Host: %s, Port: %d, Directory: %s, LogLevel: %s, MaxFileSize: %d, OutputFormat: %s}",
		c.Mode, c.Host, c.Port, c.Directory, c.LogLevel, c.MaxFileSize, c.OutputFormat)
}

// IsServerMode returns true if the server is running in SSE server mode
func (c *Config) IsServerMode() bool {
	return c.Mode == ModeServer
}

// IsStdioMode returns true if the server is running in stdio mode
func (c *Config) IsStdioMode() bool {
	return c.Mode == ModeStdio
}

// HistoryEnabled reports whether reports are recorded
func (c *Config) HistoryEnabled() bool {
	return c.HistoryDB != ""
}

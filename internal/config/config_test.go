package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	currentDir, err := os.Getwd()
	require.NoError(t, err)

	assert.Equal(t, ModeStdio, cfg.Mode)
	assert.Equal(t, "127.0.0.1", cfg.Host)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "1.0.0", cfg.Version)
	assert.Equal(t, "dualmind", cfg.ServerName)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, int64(50*1024*1024), cfg.MaxFileSize)
	assert.Equal(t, currentDir, cfg.Directory)
	assert.Equal(t, "whisper-cli", cfg.WhisperPath)
	assert.Equal(t, "yt-dlp", cfg.YtDlpPath)
}

func validConfig(t *testing.T) *Config {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Directory = t.TempDir()
	cfg.TempDir = cfg.Directory
	return cfg
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(cfg *Config)
		wantErr string
	}{
		{name: "stdio mode", modify: func(*Config) {}},
		{name: "server mode", modify: func(cfg *Config) { cfg.Mode = ModeServer }},
		{name: "watch mode", modify: func(cfg *Config) { cfg.Mode = ModeWatch }},
		{name: "cli mode with input", modify: func(cfg *Config) {
			cfg.Mode = ModeCLI
			cfg.Input = "doc.pdf"
		}},
		{name: "invalid mode", modify: func(cfg *Config) { cfg.Mode = "invalid" }, wantErr: "mode must be one of"},
		{name: "port zero in server mode", modify: func(cfg *Config) {
			cfg.Mode = ModeServer
			cfg.Port = 0
		}, wantErr: "port must be between"},
		{name: "port ignored in stdio mode", modify: func(cfg *Config) { cfg.Port = 0 }},
		{name: "empty directory", modify: func(cfg *Config) { cfg.Directory = "" }, wantErr: "cannot be empty"},
		{name: "non-positive max file size", modify: func(cfg *Config) { cfg.MaxFileSize = 0 }, wantErr: "maximum file size"},
		{name: "non-positive cleanup interval", modify: func(cfg *Config) { cfg.CleanupInterval = 0 }, wantErr: "cleanup interval"},
		{name: "non-positive whisper threads", modify: func(cfg *Config) { cfg.WhisperThreads = 0 }, wantErr: "whisper threads"},
		{name: "blank cli input", modify: func(cfg *Config) {
			cfg.Mode = ModeCLI
			cfg.Input = "   "
		}, wantErr: "cli mode requires --input"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig(t)
			tt.modify(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestConfigValidate_CreatesDirectories(t *testing.T) {
	cfg := validConfig(t)
	cfg.Directory = filepath.Join(cfg.Directory, "nested", "docs")
	cfg.OutputDir = filepath.Join(cfg.TempDir, "out")

	require.NoError(t, cfg.Validate())
	assert.DirExists(t, cfg.Directory)
	assert.DirExists(t, cfg.OutputDir)
}

func TestConfigValidate_DirectoryIsFile(t *testing.T) {
	cfg := validConfig(t)
	file := filepath.Join(cfg.Directory, "file.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o600))
	cfg.Directory = file

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a directory")
}

func TestConfigValidate_LogLevels(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error"} {
		t.Run("valid_"+level, func(t *testing.T) {
			cfg := validConfig(t)
			cfg.LogLevel = level
			assert.NoError(t, cfg.Validate())
		})
	}

	for _, level := range []string{"trace", "fatal", "INFO", ""} {
		t.Run("invalid_"+level, func(t *testing.T) {
			cfg := validConfig(t)
			cfg.LogLevel = level
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestConfigAddress(t *testing.T) {
	cfg := &Config{Host: "localhost", Port: 3000}
	assert.Equal(t, "localhost:3000", cfg.Address())
}

func TestConfigPublicURL(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want string
	}{
		{name: "loopback host", cfg: Config{Host: "127.0.0.1", Port: 8080}, want: "http://127.0.0.1:8080"},
		{name: "ipv4 wildcard", cfg: Config{Host: "0.0.0.0", Port: 8080}, want: "http://localhost:8080"},
		{name: "ipv6 wildcard", cfg: Config{Host: "::", Port: 9000}, want: "http://localhost:9000"},
		{name: "empty host", cfg: Config{Port: 80}, want: "http://localhost:80"},
		{name: "explicit base url", cfg: Config{Host: "0.0.0.0", Port: 8080, BaseURL: "https://mcp.example.com"}, want: "https://mcp.example.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.cfg.PublicURL())
		})
	}
}

func TestConfigString(t *testing.T) {
	cfg := &Config{Mode: ModeWatch, Host: "h", Port: 1, Directory: "/docs", LogLevel: "info", MaxFileSize: 10, OutputFormat: "docx"}
	s := cfg.String()
	assert.Contains(t, s, "Mode: watch")
	assert.Contains(t, s, "Directory: /docs")
	assert.Contains(t, s, "OutputFormat: docx")
}

func TestConfigModes(t *testing.T) {
	tests := []struct {
		mode       string
		wantServer bool
		wantStdio  bool
	}{
		{mode: ModeServer, wantServer: true},
		{mode: ModeStdio, wantStdio: true},
		{mode: ModeCLI},
		{mode: ModeWatch},
	}

	for _, tt := range tests {
		t.Run(tt.mode, func(t *testing.T) {
			cfg := &Config{Mode: tt.mode}
			assert.Equal(t, tt.wantServer, cfg.IsServerMode())
			assert.Equal(t, tt.wantStdio, cfg.IsStdioMode())
		})
	}
}

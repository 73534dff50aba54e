package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Version     string            `yaml:"version,omitempty"`
	SourceDir   string            `yaml:"source_dir,omitempty"`
	TemplateDir string            `yaml:"template_dir,omitempty"`
	Output      OutputConfig      `yaml:"output,omitempty"`
	Docs        DocsConfig        `yaml:"docs,omitempty"`
	Variables   map[string]string `yaml:"variables,omitempty"`
	Daemon      *DaemonConfig     `yaml:"daemon,omitempty"`
	History     *HistoryConfig    `yaml:"history,omitempty"`
	Logging     LoggingConfig     `yaml:"logging,omitempty"`
}

// OutputConfig represents output configuration
type OutputConfig struct {
	Directory     string `yaml:"directory"`
	BaseDirectory string `yaml:"base_directory,omitempty"`
	Clean         bool   `yaml:"clean"` // Remove the <output>.prev backup after a successful build
}

// DocsConfig configures the optional documentation target.
type DocsConfig struct {
	Renderer     string   `yaml:"renderer,omitempty"`      // external binary name
	RendererPath string   `yaml:"renderer_path,omitempty"` // absolute override; PATH lookup otherwise
	Theme        string   `yaml:"theme,omitempty"`
	ThemeDir     string   `yaml:"theme_dir,omitempty"` // local dir or git URL
	StrictVars   *bool    `yaml:"strict_vars,omitempty"`
	ExtraArgs    []string `yaml:"extra_args,omitempty"`
}

// StrictVariables reports whether unresolved template variables are fatal (default true).
func (d *DocsConfig) StrictVariables() bool {
	if d.StrictVars == nil {
		return true
	}
	return *d.StrictVars
}

// DaemonConfig configures watch/schedule mode.
type DaemonConfig struct {
	Watch    bool     `yaml:"watch"`
	Debounce Duration `yaml:"debounce,omitempty"`
	Schedule Duration `yaml:"schedule,omitempty"` // zero disables periodic rebuilds
	NATSURL  string   `yaml:"nats_url,omitempty"` // optional event publishing
	Subject  string   `yaml:"subject,omitempty"`
}

// HistoryConfig configures the sqlite build history store.
type HistoryConfig struct {
	Path string `yaml:"path,omitempty"` // empty disables persistence
}

// LoggingConfig selects level and format for slog output.
type LoggingConfig struct {
	Level  LogLevel  `yaml:"level,omitempty"`
	Format LogFormat `yaml:"format,omitempty"`
}

// Load loads configuration from the specified file
func Load(configPath string) (*Config, error) {
	// Load .env / .env.local if present; missing files are fine.
	_ = godotenv.Load(".env.local", ".env")

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("configuration file not found: %s", configPath)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Expand environment variables in the YAML content
	expandedData := os.ExpandEnv(string(data))

	var config Config
	if err := yaml.Unmarshal([]byte(expandedData), &config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	ApplyDefaults(&config)

	if _, err := Normalize(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// Init creates a new configuration file with example content
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("configuration file already exists: %s (use --force to overwrite)", configPath)
	}

	strict := true
	exampleConfig := Config{
		Version:     "1.0",
		SourceDir:   "./docs",
		TemplateDir: "./docs/templates",
		Output: OutputConfig{
			Directory: "./build/docs",
			Clean:     true,
		},
		Docs: DocsConfig{
			Renderer:   "sphinx-build",
			Theme:      "alabaster",
			StrictVars: &strict,
		},
		Variables: map[string]string{
			"PROJECT_NAME": "docstage",
		},
		Daemon: &DaemonConfig{
			Watch:    true,
			Debounce: DefaultDebounce,
			Subject:  "docstage.builds",
		},
	}

	data, err := yaml.Marshal(&exampleConfig)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Job describes one long-running program to launch in the background.
type Job struct {
	Name    string   `yaml:"name"`
	Dir     string   `yaml:"dir"`
	Command []string `yaml:"command"`
	EnvFile string   `yaml:"env_file"`
	LogFile string   `yaml:"log_file"`
}

type Config struct {
	Jobs []Job `yaml:"jobs"`
}

func ExpandHome(path string) (string, error) {
	if !strings.HasPrefix(path, "~") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, path[1:]), nil
}

func DefaultConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".config", "enumctl"), nil
}

// ListConfigs returns the YAML config file names in the default config
// directory, sorted.
func ListConfigs() ([]string, error) {
	configDir, err := DefaultConfigDir()
	if err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(configDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read config directory %q: %w", configDir, err)
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch filepath.Ext(e.Name()) {
		case ".yml", ".yaml":
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)
	return files, nil
}

func Load(name string) (*Config, error) {
	configDir, err := DefaultConfigDir()
	if err != nil {
		return nil, err
	}
	return LoadFromDir(configDir, name)
}

func LoadFromDir(configDir, name string) (*Config, error) {
	path := filepath.Join(configDir, name)
	if filepath.Ext(path) == "" {
		path += ".yml"
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %q: %w", path, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config %q: %w", name, err)
	}

	for i := range cfg.Jobs {
		if err := cfg.Jobs[i].resolvePaths(); err != nil {
			return nil, fmt.Errorf("job %q: %w", cfg.Jobs[i].Name, err)
		}
	}

	return &cfg, nil
}

// resolvePaths expands ~ in the job directory, resolves env_file and
// log_file relative to it, and fills in the default log path.
func (j *Job) resolvePaths() error {
	expanded, err := ExpandHome(j.Dir)
	if err != nil {
		return err
	}
	j.Dir = expanded

	if j.EnvFile != "" {
		if j.EnvFile, err = ExpandHome(j.EnvFile); err != nil {
			return err
		}
		if !filepath.IsAbs(j.EnvFile) {
			j.EnvFile = filepath.Join(j.Dir, j.EnvFile)
		}
	}

	if j.LogFile == "" {
		j.LogFile = filepath.Join(j.Dir, j.Name+".log")
		return nil
	}
	if j.LogFile, err = ExpandHome(j.LogFile); err != nil {
		return err
	}
	if !filepath.IsAbs(j.LogFile) {
		j.LogFile = filepath.Join(j.Dir, j.LogFile)
	}
	return nil
}

func (c *Config) validate() error {
	if len(c.Jobs) == 0 {
		return fmt.Errorf("at least one job must be defined")
	}

	seen := map[string]bool{}
	for i, j := range c.Jobs {
		if j.Name == "" {
			return fmt.Errorf("job[%d]: name is required", i)
		}
		if seen[j.Name] {
			return fmt.Errorf("job %q: duplicate name", j.Name)
		}
		seen[j.Name] = true
		if j.Dir == "" {
			return fmt.Errorf("job %q: dir is required", j.Name)
		}
		if len(j.Command) == 0 {
			return fmt.Errorf("job %q: command is required", j.Name)
		}
	}

	return nil
}

// FindJob returns the job with the given name.
func (c *Config) FindJob(name string) (Job, error) {
	for _, j := range c.Jobs {
		if j.Name == name {
			return j, nil
		}
	}
	return Job{}, fmt.Errorf("no job named %q in config", name)
}

// CommandLine renders the job's argv for display.
func (j Job) CommandLine() string {
	return strings.Join(j.Command, " ")
}

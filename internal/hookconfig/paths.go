package hookconfig

import (
	"os"
	"path/filepath"
	"runtime"
)

// Paths is the standard XDG-based layout, scoped to agentcore's own config
// directory name.
type Paths struct {
	Config string // ~/.config/agentcore
}

// GetPaths returns the standard paths for agentcore hook configuration.
func GetPaths() *Paths {
	return &Paths{
		Config: filepath.Join(getEnvOrDefault("XDG_CONFIG_HOME", defaultConfigHome()), "agentcore"),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func defaultConfigHome() string {
	if runtime.GOOS == "windows" {
		return os.Getenv("APPDATA")
	}
	return filepath.Join(os.Getenv("HOME"), ".config")
}

// GlobalConfigPath is the user-wide hook configuration file.
func GlobalConfigPath() string {
	return filepath.Join(GetPaths().Config, "hooks.json")
}

// ProjectConfigPath is the project-local hook configuration file.
func ProjectConfigPath(directory string) string {
	return filepath.Join(directory, ".agentcore", "hooks.json")
}

// Load reads and merges the global then project-local hook configuration
// files; later entries for the same event are appended, not replaced.
func Load(directory string) (*Config, error) {
	merged := &Config{Hooks: make(map[EventName][]MatcherGroup)}

	for _, path := range []string{GlobalConfigPath(), ProjectConfigPath(directory)} {
		data, err := os.ReadFile(path)
		if err != nil {
			continue // missing file is not an error
		}
		cfg, err := ParseJSON(data)
		if err != nil {
			return nil, err
		}
		for evt, groups := range cfg.Hooks {
			merged.Hooks[evt] = append(merged.Hooks[evt], groups...)
		}
	}

	return merged, nil
}

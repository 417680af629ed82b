package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/charmbracelet/log"
)

// PathResolver locates corpus and config files for the fuzzyserve binary
type PathResolver struct {
	appName       string
	executableDir string
	homeDir       string
	configDir     string
}

// NewPathResolver creates a new path resolver that determines the executable location
func NewPathResolver(appName string) (*PathResolver, error) {
	execDir, err := GetExecutableDir()
	if err != nil {
		return nil, err
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Warnf("Could not determine home directory: %v", err)
		homeDir = os.TempDir()
	}

	pr := &PathResolver{
		appName:       appName,
		executableDir: execDir,
		homeDir:       homeDir,
		configDir:     ConfigDirCandidates(homeDir, appName)[0],
	}
	log.Debugf("PathResolver initialized: execDir=%s, configDir=%s", execDir, pr.configDir)
	return pr, nil
}

// ConfigDirCandidates lists the config directories for appName in order of
// preference: the platform location ($XDG_CONFIG_HOME or %APPDATA% when
// set), ~/.config and, as a macOS fallback, ~/Library/Application Support.
func ConfigDirCandidates(homeDir, appName string) []string {
	dotConfig := filepath.Join(homeDir, ".config", appName)
	var platform string
	switch runtime.GOOS {
	case "linux":
		if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
			platform = filepath.Join(configHome, appName)
		}
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			platform = filepath.Join(appData, appName)
		} else {
			platform = filepath.Join(homeDir, "AppData", "Roaming", appName)
		}
	}

	var dirs []string
	if platform != "" && platform != dotConfig {
		dirs = append(dirs, platform)
	}
	dirs = append(dirs, dotConfig)
	if runtime.GOOS == "darwin" {
		dirs = append(dirs, filepath.Join(homeDir, "Library", "Application Support", appName))
	}
	return dirs
}

// ConfigDir returns the platform config directory
func (pr *PathResolver) ConfigDir() string {
	return pr.configDir
}

// ExecutableDir returns the directory containing the executable
func (pr *PathResolver) ExecutableDir() string {
	return pr.executableDir
}

// CorpusCandidates lists the places a corpus path is looked up, in order:
// as given, relative to the working directory, relative to the executable,
// and inside the config and executable data directories.
func (pr *PathResolver) CorpusCandidates(path string) []string {
	if filepath.IsAbs(path) {
		return []string{path}
	}
	var candidates []string
	if cwd, err := os.Getwd(); err == nil {
		candidates = append(candidates, filepath.Join(cwd, path))
	}
	base := filepath.Base(path)
	return append(candidates,
		filepath.Join(pr.executableDir, path),
		filepath.Join(pr.configDir, "data", base),
		filepath.Join(pr.executableDir, "data", base),
	)
}

// FindCorpus resolves a corpus file path. It fails when no candidate is a regular file.
func (pr *PathResolver) FindCorpus(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("no corpus file given")
	}
	candidates := pr.CorpusCandidates(path)
	for _, c := range candidates {
		if FileExists(c) {
			log.Debugf("Found corpus file: %s", c)
			return c, nil
		}
		log.Debugf("Corpus candidate not found: %s", c)
	}
	return "", fmt.Errorf("corpus %s not found (tried %d locations): %w", path, len(candidates), os.ErrNotExist)
}

// RuntimeInfo returns debug information about the current runtime environment
func (pr *PathResolver) RuntimeInfo() map[string]string {
	cwd, _ := os.Getwd()
	return map[string]string{
		"executable_dir": pr.executableDir,
		"current_dir":    cwd,
		"home_dir":       pr.homeDir,
		"config_dir":     pr.configDir,
		"os":             runtime.GOOS,
		"arch":           runtime.GOARCH,
	}
}

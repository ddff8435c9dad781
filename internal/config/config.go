package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	jsonConfigName = ".codescan.json"
	yamlConfigName = ".codescan.yaml"
)

type ToolsConfig struct {
	Flake8 bool `json:"flake8" yaml:"flake8"`
	Bandit bool `json:"bandit" yaml:"bandit"`
}

type Config struct {
	ListenAddr    string      `json:"listenAddr" yaml:"listenAddr"`
	StorageDir    string      `json:"storageDir" yaml:"storageDir"`
	ToolTimeoutMs int         `json:"toolTimeoutMs" yaml:"toolTimeoutMs"`
	GitHubRef     string      `json:"githubRef" yaml:"githubRef"`
	Tools         ToolsConfig `json:"tools" yaml:"tools"`
}

func Default() Config {
	return Config{
		ListenAddr:    "localhost:8080",
		StorageDir:    "storage/scans",
		ToolTimeoutMs: 120_000,
		GitHubRef:     "main",
		Tools:         ToolsConfig{Flake8: true, Bandit: true},
	}
}

// Load searches upwards from startDir for .codescan.json or .codescan.yaml
// and overlays it on the defaults. Returns the path used, empty when no
// file was found.
func Load(startDir string) (Config, string, error) {
	cfg := Default()
	dir := startDir
	for {
		if p := filepath.Join(dir, jsonConfigName); exists(p) {
			b, err := os.ReadFile(p)
			if err != nil {
				return cfg, p, err
			}
			return cfg, p, json.Unmarshal(b, &cfg)
		}
		if p := filepath.Join(dir, yamlConfigName); exists(p) {
			b, err := os.ReadFile(p)
			if err != nil {
				return cfg, p, err
			}
			return cfg, p, yaml.Unmarshal(b, &cfg)
		}
		parent := filepath.Dir(dir)
		if parent == dir { // reached root
			break
		}
		dir = parent
	}
	return cfg, "", nil
}

func exists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}

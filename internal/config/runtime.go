package config

import (
	"os"
	"path/filepath"
)

const runtimePathEnv = "CHATLENS_RUNTIME_PATH"

// GetRuntimePath resolves the runtime directory before any config is
// parsed, so the .env inside it can be loaded first.
func GetRuntimePath() string {
	return resolveRuntimePath(os.Getenv(runtimePathEnv))
}

func resolveRuntimePath(path string) string {
	if path == "" {
		path = ".chatlens"
	}
	if !filepath.IsAbs(path) {
		home, _ := os.UserHomeDir()
		path = filepath.Join(home, path)
	}
	return path
}

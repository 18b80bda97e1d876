package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/stake-plus/veritas/src/data"
)

// LoadDotEnv reads KEY=VALUE pairs from the given files (default ".env")
// into the environment without overriding variables that are already set.
// Missing files are not an error.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}
	return nil
}

// GetSetting retrieves a setting with env fallback
func GetSetting(name, envKey, defaultValue string) string {
	val := ""
	if name != "" {
		val = data.GetSetting(name)
	}
	if val == "" && envKey != "" {
		val = os.Getenv(envKey)
	}
	if strings.TrimSpace(val) == "" {
		val = defaultValue
	}
	return strings.TrimSpace(val)
}

func getBoolSetting(name, envKey string, defaultValue bool) bool {
	raw := strings.ToLower(GetSetting(name, envKey, ""))
	switch raw {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return defaultValue
	}
}

func getIntSetting(name, envKey string, defaultValue int) int {
	if v, err := strconv.Atoi(GetSetting(name, envKey, "")); err == nil {
		return v
	}
	return defaultValue
}

func getFloatSetting(name, envKey string, defaultValue float64) float64 {
	if v, err := strconv.ParseFloat(GetSetting(name, envKey, ""), 64); err == nil {
		return v
	}
	return defaultValue
}

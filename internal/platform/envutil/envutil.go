package envutil

import (
	"os"
	"strconv"
	"strings"

	"github.com/yungbote/code-explainer-backend/internal/platform/logger"
)

// String returns the trimmed value of name, or def when unset or blank.
func String(name, def string, log *logger.Logger) string {
	v, ok := os.LookupEnv(name)
	v = strings.TrimSpace(v)
	if !ok || v == "" {
		if log != nil {
			log.Debug("Environment variable not found, using default", "env_var", name, "default", def)
		}
		return def
	}
	return v
}

func Int(name string, def int, log *logger.Logger) int {
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		if log != nil {
			log.Warn("Invalid integer environment variable, using default", "env_var", name, "value", v, "default", def)
		}
		return def
	}
	return i
}

func Bool(name string, def bool) bool {
	switch strings.TrimSpace(strings.ToLower(os.Getenv(name))) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return def
	}
}

// List splits a comma separated variable, dropping blanks.
func List(name string, def []string) []string {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return def
	}
	out := make([]string, 0, 4)
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}

func Float(name string, def float64) float64 {
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return f
}

package misc

import (
	"os"
	"strings"
)

// EnvPrefix namespaces every setting the exporter reads from the environment.
const EnvPrefix = "RTL_EXP_"

func Getenv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(EnvPrefix + key)); v != "" {
		return v
	}
	return def
}

// Lookup returns the trimmed value and whether it was set to something non-empty.
func Lookup(key string) (string, bool) {
	v := strings.TrimSpace(os.Getenv(EnvPrefix + key))
	return v, v != ""
}

func GetBool(key string, def bool) bool {
	v := strings.ToLower(Getenv(key, ""))
	if v == "" {
		return def
	}
	switch v {
	case "1", "true", "t", "yes", "y", "on":
		return true
	case "0", "false", "f", "no", "n", "off":
		return false
	default:
		return def
	}
}

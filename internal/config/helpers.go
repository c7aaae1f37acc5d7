package config

import (
	"strings"

	"github.com/vshulcz/rtl433-exporter/internal/misc"
)

// FromFlagOrEnv returns the flag value when set, otherwise the environment value, then def.
func FromFlagOrEnv(flagVal, envKey, def string) string {
	if v := strings.TrimSpace(flagVal); v != "" {
		return v
	}
	return misc.Getenv(envKey, def)
}

// FromFlagOrEnvBool lets a set flag win; otherwise the environment decides.
func FromFlagOrEnvBool(flagVal bool, envKey string, def bool) bool {
	if flagVal {
		return true
	}
	return misc.GetBool(envKey, def)
}

package config

import (
	"strconv"

	"github.com/felixgeelhaar/snapguard/internal/domain/snapshot"
)

// Environment variables that switch modes for a whole test run.
const (
	EnvRecord     = "SNAPGUARD_RECORD"
	EnvDebug      = "SNAPGUARD_DEBUG"
	EnvDelete     = "SNAPGUARD_DELETE"
	EnvSaveFailed = "SNAPGUARD_SAVE_FAILED"
)

// LookupFunc reads one environment variable, like os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// ModesFromEnv reads the mode switches. Unset or unparsable values are off.
func ModesFromEnv(lookup LookupFunc) snapshot.Modes {
	return snapshot.Modes{
		RecordNew:         envBool(lookup, EnvRecord),
		Debug:             envBool(lookup, EnvDebug),
		DeleteExisting:    envBool(lookup, EnvDelete),
		SaveFailedVariant: envBool(lookup, EnvSaveFailed),
	}
}

// ApplyEnv merges the environment mode switches into cfg.
func ApplyEnv(cfg *Config, lookup LookupFunc) *Config {
	cfg.Modes = cfg.Modes.Merge(ModesFromEnv(lookup))
	return cfg
}

func envBool(lookup LookupFunc, key string) bool {
	v, ok := lookup(key)
	if !ok {
		return false
	}
	b, err := strconv.ParseBool(v)
	return err == nil && b
}

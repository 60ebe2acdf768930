package command

import (
	"strings"

	"github.com/mmr-tortoise/dog/internal/config"
)

// EnvName returns the container variable a config key is exposed as:
// as-root becomes DOG_AS_ROOT.
func EnvName(key string) string {
	return "DOG_" + strings.ToUpper(strings.ReplaceAll(key, "-", "_"))
}

// ExposedEnv returns NAME=value for every key in exposed-dog-variables.
func ExposedEnv(cfg config.Config) ([]string, error) {
	if !cfg.Has(config.KeyExposedVariables) {
		return nil, nil
	}
	keys, err := cfg.List(config.KeyExposedVariables)
	if err != nil {
		return nil, err
	}
	env := make([]string, 0, len(keys))
	for _, key := range keys {
		value, err := cfg.Text(key)
		if err != nil {
			return nil, err
		}
		env = append(env, EnvName(key)+"="+value)
	}
	return env, nil
}

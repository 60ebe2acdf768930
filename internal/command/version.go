package command

import (
	"regexp"

	"github.com/mmr-tortoise/dog/internal/config"
)

// VersionQuery describes how to check the version of the tool a run
// depends on.
type VersionQuery struct {
	// Tool names the tool in messages.
	Tool string

	// MinimumKey is the config key holding the required version.
	MinimumKey string

	Invocation Invocation
}

// ToolVersion builds the version query for the tool cfg will run: the
// compose tool in compose mode, the container runtime otherwise.
func ToolVersion(cfg config.Config) (VersionQuery, error) {
	if IsCompose(cfg) {
		plugin, err := cfg.Flag(config.KeyUseComposePlugin)
		if err != nil {
			return VersionQuery{}, err
		}
		if plugin {
			return VersionQuery{
				Tool:       "docker compose",
				MinimumKey: config.KeyComposeMinimumVersion,
				Invocation: Invocation{Args: []string{docker, "compose", "--version"}},
			}, nil
		}
		return VersionQuery{
			Tool:       dockerCompose,
			MinimumKey: config.KeyComposeMinimumVersion,
			Invocation: Invocation{Args: []string{dockerCompose, "--version"}},
		}, nil
	}

	rt, err := Runtime(cfg)
	if err != nil {
		return VersionQuery{}, err
	}
	return VersionQuery{
		Tool:       rt,
		MinimumKey: config.KeyDockerMinimumVersion,
		Invocation: Invocation{Args: []string{rt, "--version"}},
	}, nil
}

var versionPattern = regexp.MustCompile(`version v?(\d+\.\d+\.\d+)`)

// ParseToolVersion extracts the major.minor.patch version from the output
// of a --version query.
func ParseToolVersion(output string) (string, bool) {
	m := versionPattern.FindStringSubmatch(output)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// VersionLess compares two versions as strings. Minimum versions in
// dog.config files are written with that comparison in mind, so "9.0.0"
// is greater than "20.10.0".
func VersionLess(version, minimum string) bool {
	return version < minimum
}

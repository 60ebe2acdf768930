package config

import (
	"strings"

	"github.com/mmr-tortoise/dog/internal/model"
)

// parseVolumesV1 reads "container[:ro]=host" entries. The old "$home"
// shorthand in a container path is rewritten to "${home}" so that the
// generic substitution pass handles it.
func parseVolumesV1(entries []Entry) Mapping {
	var volumes Mapping
	for _, e := range entries {
		container := e.Key
		lower := strings.ToLower(container)
		switch {
		case strings.HasPrefix(lower, "$home"):
			container = "${home}" + container[len("$home"):]
		case strings.HasPrefix(lower, "?$home"):
			container = "?${home}" + container[len("?$home"):]
		}
		volumes.Set(container, e.Value)
	}
	return volumes
}

// parseVolumesV2 reads "name=host:container[:ro]" entries into a mapping
// keyed by container path. A '?' at either end of name marks the volume
// as optional, which is carried as a '?' prefix on the container path.
func parseVolumesV2(entries []Entry) (Mapping, error) {
	var volumes Mapping
	for _, e := range entries {
		host, container, _ := strings.Cut(e.Value, ":")
		if container == "" {
			return Mapping{}, model.NewCLIErrorf(model.ExitConfigError,
				"%q found in volumes section has unknown format. Did you use dog.config v1 format in a v2 file?",
				e.Key+"="+e.Value)
		}
		if strings.HasPrefix(e.Key, "?") || strings.HasSuffix(e.Key, "?") {
			container = "?" + container
		}
		volumes.Set(container, host)
	}
	return volumes, nil
}

package docker

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/mmr-tortoise/dog/internal/model"
)

// ValidateComposeService checks that service is defined in the compose
// file at path, so that a typo in docker-compose-service is reported by
// dog instead of surfacing as a compose error after containers were
// created.
//
// Files with a top level "services" key declare their services there.
// Legacy (version 1) files without it declare services at the top level.
func ValidateComposeService(path, service string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.WrapCLIError(model.ExitToolError,
			fmt.Sprintf("failed to read compose file %s", path), err)
	}

	var doc map[string]yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return model.WrapCLIError(model.ExitToolError,
			fmt.Sprintf("failed to parse compose file %s", path), err)
	}

	services := doc
	if node, ok := doc["services"]; ok {
		services = nil
		if err := node.Decode(&services); err != nil {
			return model.WrapCLIError(model.ExitToolError,
				fmt.Sprintf("failed to parse services in compose file %s", path), err)
		}
	}

	if _, ok := services[service]; !ok {
		return model.NewCLIErrorf(model.ExitToolError,
			"service %q not found in compose file %s", service, path)
	}
	return nil
}

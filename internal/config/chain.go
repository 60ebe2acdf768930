package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/mmr-tortoise/dog/internal/model"
)

// FileLayer is one file of an include chain together with its fragment.
type FileLayer struct {
	Path   string
	Config Config
}

// ReadChain reads path and every file it pulls in through
// include-dog-config. The result is ordered outermost include first and
// path itself last, which is the order the layers are merged in. The
// include-dog-config key is removed from every fragment.
//
// An include is resolved relative to the directory of the including file.
// Including a file that is already part of the chain is an error.
func ReadChain(path string, lookup LookupEnv) ([]FileLayer, error) {
	var (
		layers     []FileLayer
		trail      []string
		seen       = make(map[string]bool)
		current    = path
		includedBy string
	)

	for {
		abs, err := filepath.Abs(current)
		if err != nil {
			return nil, model.WrapCLIError(model.ExitGeneralError,
				fmt.Sprintf("failed to resolve %s", current), err)
		}
		trail = append(trail, current)
		if seen[abs] {
			return nil, model.NewCLIErrorf(model.ExitConfigError,
				"include-dog-config cycle detected: %s", strings.Join(trail, " -> "))
		}
		seen[abs] = true

		cfg, err := ReadFile(current, lookup)
		if err != nil {
			if includedBy != "" && errors.Is(err, fs.ErrNotExist) {
				return nil, model.NewCLIErrorf(model.ExitConfigError,
					"Could not find %q used in %s of %s here: %s",
					filepath.Base(current), KeyIncludeConfig, includedBy, current)
			}
			return nil, err
		}

		include, hasInclude := cfg.Lookup(KeyIncludeConfig)
		layers = append([]FileLayer{{Path: current, Config: cfg.Without(KeyIncludeConfig)}}, layers...)
		if !hasInclude {
			return layers, nil
		}

		name, ok := include.AsString()
		if !ok || name == "" {
			return nil, model.NewCLIErrorf(model.ExitConfigError,
				"%s in %s must name a file", KeyIncludeConfig, current)
		}
		if !filepath.IsAbs(name) {
			name = filepath.Join(filepath.Dir(current), name)
		}
		includedBy = current
		current = name
	}
}

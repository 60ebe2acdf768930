package resolve

import (
	"regexp"
	"strings"

	"github.com/mmr-tortoise/dog/internal/config"
	"github.com/mmr-tortoise/dog/internal/model"
)

var tokenPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// Substitute replaces every ${name} with the text of key name.
//
// In version 2 files this applies to every string value, to top level key
// names, and to keys and values of volumes, volumes-from and usb-devices.
// Version 1 files only substitute inside volumes.
//
// A referenced value is itself resolved before it is inserted, so chains
// of references end up fully expanded no matter which key is visited
// first. Inserted text is never scanned again. Referencing an unknown
// key, a mapping, or a key that leads back to itself is an error.
func Substitute(cfg config.Config) (config.Config, error) {
	version, err := cfg.Int(config.KeyConfigFileVersion)
	if err != nil {
		return config.Config{}, err
	}

	s := &substituter{cfg: cfg, resolved: make(map[string]string), active: make(map[string]bool)}
	out := cfg
	mappings := []string{config.KeyVolumes}

	if version != 1 {
		for _, key := range cfg.Keys() {
			v, _ := cfg.Lookup(key)
			if text, ok := v.AsString(); !ok || !strings.Contains(text, "${") {
				continue
			}
			text, err := s.lookup(key)
			if err != nil {
				return config.Config{}, err
			}
			out = out.With(key, config.StringValue(text))
		}

		for _, key := range out.Keys() {
			if !strings.Contains(key, "${") {
				continue
			}
			renamed, err := s.expand(key)
			if err != nil {
				return config.Config{}, err
			}
			v, _ := out.Lookup(key)
			out = out.Without(key).With(renamed, v)
		}

		mappings = append(mappings, config.KeyVolumesFrom, config.KeyUSBDevices)
	}

	for _, key := range mappings {
		if !out.Has(key) {
			continue
		}
		m, err := out.Mapping(key)
		if err != nil {
			return config.Config{}, err
		}
		expanded, err := s.mapping(m)
		if err != nil {
			return config.Config{}, err
		}
		out = out.With(key, config.MappingValue(expanded))
	}
	return out, nil
}

// substituter resolves references against the configuration as it was
// before substitution started, memoizing every resolved key.
type substituter struct {
	cfg      config.Config
	resolved map[string]string
	active   map[string]bool
}

func (s *substituter) expand(text string) (string, error) {
	if !strings.Contains(text, "${") {
		return text, nil
	}
	var firstErr error
	out := tokenPattern.ReplaceAllStringFunc(text, func(token string) string {
		if firstErr != nil {
			return token
		}
		value, err := s.lookup(token[2 : len(token)-1])
		if err != nil {
			firstErr = err
			return token
		}
		return value
	})
	return out, firstErr
}

func (s *substituter) lookup(name string) (string, error) {
	if text, ok := s.resolved[name]; ok {
		return text, nil
	}
	v, ok := s.cfg.Lookup(name)
	if !ok {
		return "", model.NewCLIErrorf(model.ExitConfigError,
			`"%s" used in "${%s}" not found in config`, name, name)
	}

	if raw, ok := v.AsString(); ok {
		if s.active[name] {
			return "", model.NewCLIErrorf(model.ExitConfigError,
				`"%s" used in "${%s}" refers back to itself`, name, name)
		}
		s.active[name] = true
		text, err := s.expand(raw)
		delete(s.active, name)
		if err != nil {
			return "", err
		}
		s.resolved[name] = text
		return text, nil
	}

	text, ok := v.Text()
	if !ok {
		return "", model.NewCLIErrorf(model.ExitConfigError,
			`"%s" used in "${%s}" is a %s and cannot be substituted`, name, name, v.Kind())
	}
	s.resolved[name] = text
	return text, nil
}

func (s *substituter) mapping(m config.Mapping) (config.Mapping, error) {
	var out config.Mapping
	for _, e := range m.Entries() {
		key, err := s.expand(e.Key)
		if err != nil {
			return config.Mapping{}, err
		}
		value, err := s.expand(e.Value)
		if err != nil {
			return config.Mapping{}, err
		}
		out.Set(key, value)
	}
	return out, nil
}

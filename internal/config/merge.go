package config

// Merge applies overlay on top of base and returns the result. Neither
// input is modified. When both sides hold a Mapping under the same key the
// mappings are merged entry by entry with overlay winning; any other value
// in overlay replaces the base value outright, lists included.
func Merge(base, overlay Config) Config {
	merged := base.clone(base.Len() + overlay.Len())
	for key, ov := range overlay.values {
		if bv, ok := merged.values[key]; ok && bv.Kind() == KindMapping && ov.Kind() == KindMapping {
			merged.values[key] = MappingValue(bv.mapping.Update(ov.mapping))
			continue
		}
		merged.values[key] = ov
	}
	return merged
}

// MergeAll merges configs weakest first.
func MergeAll(configs ...Config) Config {
	var result Config
	for _, c := range configs {
		result = Merge(result, c)
	}
	return result
}

// Layers holds every source of one invocation's configuration, in
// precedence order from weakest to strongest.
type Layers struct {
	Defaults    Config
	Environment Config
	User        []FileLayer
	Project     []FileLayer
	CommandLine Config
}

// Merge folds all layers into the effective configuration.
func (l Layers) Merge() Config {
	configs := []Config{l.Defaults, l.Environment}
	for _, f := range l.User {
		configs = append(configs, f.Config)
	}
	for _, f := range l.Project {
		configs = append(configs, f.Config)
	}
	configs = append(configs, l.CommandLine)
	return MergeAll(configs...)
}

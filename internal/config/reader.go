package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/ini.v1"

	"github.com/mmr-tortoise/dog/internal/model"
)

// LookupEnv looks up a host environment variable. os.LookupEnv satisfies it.
type LookupEnv func(name string) (string, bool)

// loadOptions mirror the dialect dog.config files have always been written
// in: only "=" separates keys from values, a '#' or ';' after a value is
// part of the value, and a trailing backslash (as in C:\) is literal.
var loadOptions = ini.LoadOptions{
	KeyValueDelimiters:      "=",
	IgnoreInlineComment:     true,
	IgnoreContinuation:      true,
	PreserveSurroundedQuote: true,
}

// reservedSections are never folded into "<section>_<key>" keys.
var reservedSections = map[string]bool{
	ini.DefaultSection: true,
	SectionMain:        true,
	SectionVolumes:     true,
	SectionVolumesFrom: true,
	SectionPorts:       true,
	SectionUSBDevices:  true,
}

// ReadFile reads one config file into a fragment and records the file's
// directory as dog-config-path. A missing file yields a CLIError that
// wraps fs.ErrNotExist.
func ReadFile(path string, lookup LookupEnv) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Config{}, model.WrapCLIError(model.ExitConfigError,
				fmt.Sprintf("Could not find %s", path), err)
		}
		return Config{}, model.WrapCLIError(model.ExitGeneralError,
			fmt.Sprintf("failed to read %s", path), err)
	}

	cfg, err := Parse(data, path, lookup)
	if err != nil {
		return Config{}, err
	}

	resolve, err := cfg.Flag(KeyConfigPathResolveSymlink)
	if err != nil {
		return Config{}, err
	}
	dir := filepath.Dir(path)
	if resolve {
		target, err := filepath.EvalSymlinks(path)
		if err != nil {
			return Config{}, model.WrapCLIError(model.ExitGeneralError,
				fmt.Sprintf("failed to resolve symlink %s", path), err)
		}
		dir = filepath.Dir(target)
	}
	return cfg.With(KeyConfigPath, StringValue(dir)), nil
}

// Parse turns the text of a config file into a fragment. name is only
// used in error messages.
func Parse(data []byte, name string, lookup LookupEnv) (Config, error) {
	file, err := ini.LoadSources(loadOptions, data)
	if err != nil {
		return Config{}, model.WrapCLIError(model.ExitConfigError,
			fmt.Sprintf("failed to parse %s", name), err)
	}

	main, err := file.GetSection(SectionMain)
	if err != nil {
		return Config{}, model.NewCLIErrorf(model.ExitConfigError,
			"Could not find [%s] in %s", SectionMain, name)
	}

	raw := make(map[string]string)
	for _, key := range main.Keys() {
		raw[strings.ToLower(key.Name())] = key.Value()
	}

	fileVersion, err := checkVersions(raw)
	if err != nil {
		return Config{}, err
	}

	keys := make([]string, 0, len(raw))
	for key := range raw {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	values := make(map[string]Value, len(raw))
	for _, key := range keys {
		v, err := typedValue(key, raw[key], name, lookup)
		if err != nil {
			return Config{}, err
		}
		values[key] = v
	}
	values[KeyConfigFileVersion] = IntValue(fileVersion)

	for _, section := range []string{SectionPorts, SectionUSBDevices, SectionVolumesFrom} {
		if s, err := file.GetSection(section); err == nil {
			values[section] = MappingValue(sectionMapping(s))
		}
	}

	for _, s := range file.Sections() {
		if reservedSections[s.Name()] {
			continue
		}
		for _, key := range s.Keys() {
			values[s.Name()+"_"+strings.ToLower(key.Name())] = StringValue(key.Value())
		}
	}

	if s, err := file.GetSection(SectionVolumes); err == nil {
		entries := sectionMapping(s).Entries()
		var volumes Mapping
		if fileVersion == 1 {
			volumes = parseVolumesV1(entries)
		} else if volumes, err = parseVolumesV2(entries); err != nil {
			return Config{}, err
		}
		values[KeyVolumes] = MappingValue(volumes)
	}

	return FromMap(values), nil
}

// checkVersions enforces minimum-version and returns the declared
// dog-config-file-version.
func checkVersions(raw map[string]string) (int, error) {
	if text, ok := raw[KeyMinimumVersion]; ok {
		minimum, err := strconv.Atoi(strings.TrimSpace(text))
		if err != nil {
			return 0, model.NewCLIErrorf(model.ExitConfigError,
				"%s must be a number, found %q", KeyMinimumVersion, text)
		}
		if Version < minimum {
			return 0, model.NewCLIErrorf(model.ExitConfigError,
				"Minimum version required (%d) is greater than your dog version (%d) - please upgrade dog",
				minimum, Version)
		}
	}

	text, ok := raw[KeyConfigFileVersion]
	if !ok {
		return 0, model.NewCLIErrorf(model.ExitConfigError,
			"Do not know how to handle a dog.config file without %s specified", KeyConfigFileVersion)
	}
	version, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return 0, model.NewCLIErrorf(model.ExitConfigError,
			"%s must be a number, found %q", KeyConfigFileVersion, text)
	}
	if version < 1 || version > MaxFileVersion {
		return 0, model.NewCLIErrorf(model.ExitConfigError,
			"Do not know how to interpret a dog.config file with version %d (max file version supported: %d)",
			version, MaxFileVersion)
	}
	return version, nil
}

// typedValue converts one [dog] entry according to the schema. Only
// booleans, lists, the version gate and the captured environment
// variables get a type here; everything else stays a string.
func typedValue(key, text, name string, lookup LookupEnv) (Value, error) {
	switch key {
	case KeyMinimumVersion:
		n, _ := strconv.Atoi(strings.TrimSpace(text))
		return IntValue(n), nil
	case KeyArgs:
		return ListValue(strings.Fields(text)...), nil
	case KeyExposedVariables, KeyDevice:
		return ListValue(splitList(text)...), nil
	case KeyUserEnvVars:
		m, err := captureEnv(text, true, lookup)
		return MappingValue(m), err
	case KeyUserEnvVarsIfSet:
		m, err := captureEnv(text, false, lookup)
		return MappingValue(m), err
	}

	if KindOf(key) == KindBool {
		b, err := parseBool(text)
		if err != nil {
			return Value{}, model.NewCLIErrorf(model.ExitConfigError,
				"%s in %s must be a boolean, found %q", key, name, text)
		}
		return BoolValue(b), nil
	}
	return StringValue(text), nil
}

// parseBool accepts the literals 1/yes/true/on and 0/no/false/off in any case.
func parseBool(text string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "1", "yes", "true", "on":
		return true, nil
	case "0", "no", "false", "off":
		return false, nil
	}
	return false, fmt.Errorf("not a boolean: %q", text)
}

// splitList splits a comma separated entry, trimming blanks and dropping
// empty items.
func splitList(text string) []string {
	var items []string
	for _, item := range strings.Split(text, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

// captureEnv reads the named host environment variables. In strict mode
// an unset variable is fatal, otherwise it is skipped.
func captureEnv(names string, strict bool, lookup LookupEnv) (Mapping, error) {
	key := KeyUserEnvVarsIfSet
	if strict {
		key = KeyUserEnvVars
	}

	var captured Mapping
	for _, name := range splitList(names) {
		value, ok := lookup(name)
		if ok {
			captured.Set(name, value)
			continue
		}
		if strict {
			return Mapping{}, model.NewCLIErrorf(model.ExitEnvironmentError,
				"%s was specified in %s but was not set in the current shell environment", name, key)
		}
	}
	return captured, nil
}

// sectionMapping keeps keys as written: in these sections they are paths,
// container names or labels rather than config keys.
func sectionMapping(s *ini.Section) Mapping {
	var m Mapping
	for _, key := range s.Keys() {
		m.Set(key.Name(), key.Value())
	}
	return m
}

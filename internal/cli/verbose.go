package cli

import (
	"fmt"
	"io"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/mmr-tortoise/dog/internal/config"
	"github.com/mmr-tortoise/dog/internal/model"
)

type section struct {
	title string
	cfg   config.Config
}

// dumpLayers prints every configuration layer, weakest first, and the
// final result.
func dumpLayers(w io.Writer, layers config.Layers, final config.Config) error {
	sections := []section{
		{"Default Config:", layers.Defaults},
		{"Environment Config:", layers.Environment},
	}
	for _, f := range layers.User {
		sections = append(sections, section{fmt.Sprintf("User Config (%s):", f.Path), f.Config})
	}
	for _, f := range layers.Project {
		sections = append(sections, section{fmt.Sprintf("Dog Config (%s):", f.Path), f.Config})
	}
	sections = append(sections,
		section{"Cmdline Config:", layers.CommandLine},
		section{"Final Config:", final},
	)

	for _, s := range sections {
		fmt.Fprintln(w, s.title)
		if err := writeConfig(w, s.cfg); err != nil {
			return err
		}
	}
	return nil
}

// writeConfig writes cfg as a YAML mapping with sorted keys. Mapping values
// keep their own order.
func writeConfig(w io.Writer, cfg config.Config) error {
	doc := &yaml.Node{Kind: yaml.MappingNode}
	for _, key := range cfg.Keys() {
		v, _ := cfg.Lookup(key)
		doc.Content = append(doc.Content, scalar("!!str", key), valueNode(v))
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(4)
	if err := enc.Encode(doc); err != nil {
		return model.WrapCLIError(model.ExitGeneralError, "failed to print configuration", err)
	}
	return enc.Close()
}

func valueNode(v config.Value) *yaml.Node {
	switch v.Kind() {
	case config.KindInt:
		n, _ := v.AsInt()
		return scalar("!!int", strconv.Itoa(n))
	case config.KindBool:
		b, _ := v.AsBool()
		return scalar("!!bool", strconv.FormatBool(b))
	case config.KindList:
		items, _ := v.AsList()
		seq := &yaml.Node{Kind: yaml.SequenceNode, Style: yaml.FlowStyle}
		for _, item := range items {
			seq.Content = append(seq.Content, scalar("!!str", item))
		}
		return seq
	case config.KindMapping:
		m, _ := v.AsMapping()
		node := &yaml.Node{Kind: yaml.MappingNode}
		for _, e := range m.Entries() {
			node.Content = append(node.Content, scalar("!!str", e.Key), scalar("!!str", e.Value))
		}
		return node
	default:
		s, _ := v.AsString()
		return scalar("!!str", s)
	}
}

func scalar(tag, value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: value}
}

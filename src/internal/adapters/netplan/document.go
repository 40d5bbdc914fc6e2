package netplan

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// document mirrors the parts of a netplan file hostnet reads. Device maps are
// kept as nodes so that file order is preserved.
type document struct {
	Network struct {
		Version   int       `yaml:"version"`
		Renderer  string    `yaml:"renderer"`
		Ethernets yaml.Node `yaml:"ethernets"`
		Wifis     yaml.Node `yaml:"wifis"`
	} `yaml:"network"`
}

type device struct {
	DHCP4       flag           `yaml:"dhcp4"`
	Addresses   []addressEntry `yaml:"addresses"`
	Gateway4    string         `yaml:"gateway4"`
	Gateway6    string         `yaml:"gateway6"`
	Routes      []route        `yaml:"routes"`
	Nameservers struct {
		Addresses []string `yaml:"addresses"`
	} `yaml:"nameservers"`
	AccessPoints yaml.Node `yaml:"access-points"`
}

type route struct {
	To  string `yaml:"to"`
	Via string `yaml:"via"`
}

type accessPoint struct {
	Password string `yaml:"password"`
	Mode     string `yaml:"mode"`
}

// flag is a netplan boolean. Besides true/false, netplan accepts the YAML 1.1
// spellings yes/no/on/off, which yaml.v3 decodes as strings.
type flag bool

func (f *flag) UnmarshalYAML(value *yaml.Node) error {
	switch strings.ToLower(value.Value) {
	case "true", "yes", "on", "y":
		*f = true
	case "false", "no", "off", "n", "":
		*f = false
	default:
		return fmt.Errorf("line %d: invalid boolean %q", value.Line, value.Value)
	}
	return nil
}

// addressEntry is either a plain "addr/prefix" scalar or a single-key mapping
// carrying per-address options.
type addressEntry string

func (a *addressEntry) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		*a = addressEntry(value.Value)
	case yaml.MappingNode:
		if len(value.Content) < 2 {
			return fmt.Errorf("line %d: empty address entry", value.Line)
		}
		*a = addressEntry(value.Content[0].Value)
	default:
		return fmt.Errorf("line %d: unexpected address entry", value.Line)
	}
	return nil
}

// mappingPairs returns the key/value pairs of a mapping node in file order.
// Anything other than a mapping yields nothing.
func mappingPairs(node *yaml.Node) [][2]*yaml.Node {
	if node.Kind != yaml.MappingNode {
		return nil
	}
	pairs := make([][2]*yaml.Node, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		pairs = append(pairs, [2]*yaml.Node{node.Content[i], node.Content[i+1]})
	}
	return pairs
}

package params

import (
	"fmt"
	"io/ioutil"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	yaml "gopkg.in/yaml.v2"
)

// LoadFile reads a YAML document of flat key/value pairs into a bundle.
// Non-string scalars are kept in their textual form.
func LoadFile(path string) (Parameters, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return Parameters{}, errors.Wrapf(err, "failed to read parameters from %s", path)
	}
	p, err := Parse(data)
	if err != nil {
		return Parameters{}, errors.Wrapf(err, "failed to parse %s", path)
	}
	return p, nil
}

// Parse decodes a YAML document of flat key/value pairs.
func Parse(data []byte) (Parameters, error) {
	raw := make(map[string]interface{})
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return Parameters{}, err
	}

	m := make(map[string]string, len(raw))
	for k, v := range raw {
		switch v := v.(type) {
		case nil:
			m[k] = ""
		case string:
			m[k] = v
		case map[interface{}]interface{}, []interface{}:
			return Parameters{}, errors.Errorf("parameter %s must be a scalar", k)
		default:
			m[k] = fmt.Sprint(v)
		}
	}
	return Parameters{m: m}, nil
}

// FlagName returns the command line flag name for a parameter key.
func FlagName(key string) string {
	return strings.Replace(key, "_", "-", -1)
}

// AddFlags registers one string flag per known parameter key.
func AddFlags(flags *pflag.FlagSet) {
	flags.String(FlagName(ListenPortMode), "", "Port assignment mode: single, ephemeral or range (default \""+DefaultListenPortMode+"\")")
	flags.String(FlagName(ListenInterface), "", "Interface used to obtain ephemeral ports (default \""+DefaultListenInterface+"\")")
	flags.String(FlagName(ListenPort), "", fmt.Sprintf("Fixed port in single mode (default %d)", DefaultListenPort))
	flags.String(FlagName(ListenPortShared), "", "Let every task hold the fixed port at once in single mode")
	flags.String(FlagName(ListenPortRangeStart), "", fmt.Sprintf("First port of the range in range mode (default %d)", DefaultListenPortRangeStart))
	flags.String(FlagName(ListenPortRangeEnd), "", fmt.Sprintf("Last port of the range in range mode (default %d)", DefaultListenPortRangeEnd))
	flags.String(FlagName(ListenPortRange), "", "Port range in range mode, as lo-hi")
}

// FromFlags overlays the flags that were explicitly set onto base.
func FromFlags(flags *pflag.FlagSet, base Parameters) (Parameters, error) {
	p := New(base.m)
	for _, key := range Keys {
		name := FlagName(key)
		if !flags.Changed(name) {
			continue
		}
		v, err := flags.GetString(name)
		if err != nil {
			return Parameters{}, err
		}
		p.m[key] = v
	}
	return p, nil
}

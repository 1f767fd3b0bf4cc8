package director

import (
	"io"

	"gopkg.in/yaml.v3"
)

// EncodeScenario writes a scenario as YAML to w
func EncodeScenario(w io.Writer, scenario *Scenario) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(scenario); err != nil {
		return err
	}
	return enc.Close()
}

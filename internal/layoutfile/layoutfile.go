// Package layoutfile provides the persisted layout document and its file
// handling. A layout records, per component and recursively, the waypoint
// sequence of every wire sourced at one of the component's ports; applying
// it to a structurally identical tree reproduces the wire routing exactly.
package layoutfile

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/pkg/errors"

	"rtl-scope/pkg/grid"
)

// Extension is the default layout file extension.
const Extension = ".json"

// Component is the layout of one component: wire waypoints keyed by port,
// plus the layouts of its subcomponents. Input- and output-port keys are
// prefixed to keep the two namespaces apart.
type Component struct {
	Name     string                  `json:"name"`
	Wires    map[string][]grid.Point `json:"wires,omitempty"`
	Children []Component             `json:"children,omitempty"`
}

// PortKey builds the wire map key for a port name and direction prefix.
func PortKey(prefix, port string) string {
	return prefix + ":" + port
}

// Child returns the layout of the named subcomponent, or nil.
func (c *Component) Child(name string) *Component {
	for i := range c.Children {
		if c.Children[i].Name == name {
			return &c.Children[i]
		}
	}
	return nil
}

// Load reads a layout document from path.
func Load(path string) (*Component, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read layout")
	}

	var doc Component
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(err, "decode layout")
	}
	return &doc, nil
}

// Save writes a layout document to path, appending the default extension if
// the path has none.
func Save(path string, doc *Component) (string, error) {
	if !strings.HasSuffix(path, Extension) {
		path += Extension
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", errors.Wrap(err, "encode layout")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", errors.Wrap(err, "write layout")
	}
	return path, nil
}

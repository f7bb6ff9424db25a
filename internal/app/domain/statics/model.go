// Package statics holds the university organization tree models served by
// the static-info service.
package statics

// Organization node kinds carried in the wire `type` field.
const (
	TypeUnit  = "unit"
	TypeGroup = "group"
)

// Unit is a leaf organization with contact details.
type Unit struct {
	Type  string `json:"type"`
	Name  string `json:"name"`
	Phone string `json:"phone,omitempty"`
	URL   string `json:"url,omitempty"`
}

// Group is an organization that contains sub-organizations, keyed by name.
type Group struct {
	Type     string          `json:"type"`
	Name     string          `json:"name"`
	Subunits map[string]Node `json:"subunits,omitempty"`
}

// Members returns the sub-organizations as a slice. Map iteration order is
// not stable, so renderers sort by name before display.
func (g Group) Members() []Node {
	out := make([]Node, 0, len(g.Subunits))
	for _, node := range g.Subunits {
		out = append(out, node)
	}
	return out
}

// Node is either a Unit or a Group, discriminated by the `type` field.
type Node struct {
	Unit  *Unit
	Group *Group
}

// Name returns the organization name regardless of kind.
func (n Node) Name() string {
	if n.Unit != nil {
		return n.Unit.Name
	}
	if n.Group != nil {
		return n.Group.Name
	}
	return ""
}

// IsGroup reports whether the node has sub-organizations.
func (n Node) IsGroup() bool { return n.Group != nil }

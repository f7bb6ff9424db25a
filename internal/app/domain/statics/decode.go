package statics

import (
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"
)

// UnmarshalJSON decodes a node by its wire `type` discriminator. Nodes
// without a type are treated as units, matching what the static-info
// service emits for leaves embedded in button extras.
func (n *Node) UnmarshalJSON(data []byte) error {
	switch kind := gjson.GetBytes(data, "type").String(); kind {
	case TypeGroup:
		var g Group
		if err := json.Unmarshal(data, &g); err != nil {
			return err
		}
		n.Group = &g
		n.Unit = nil
	case TypeUnit, "":
		var u Unit
		if err := json.Unmarshal(data, &u); err != nil {
			return err
		}
		n.Unit = &u
		n.Group = nil
	default:
		return fmt.Errorf("unknown organization type %q", kind)
	}
	return nil
}

// MarshalJSON emits whichever side of the node is populated.
func (n Node) MarshalJSON() ([]byte, error) {
	if n.Group != nil {
		return json.Marshal(n.Group)
	}
	if n.Unit != nil {
		return json.Marshal(n.Unit)
	}
	return []byte("null"), nil
}

// ParseNode decodes an organization lookup response. The static-info
// service answers with either a single object or an array; the first
// element wins.
func ParseNode(data []byte) (Node, error) {
	parsed := gjson.ParseBytes(data)
	if parsed.IsArray() {
		elements := parsed.Array()
		if len(elements) == 0 {
			return Node{}, fmt.Errorf("empty organization response")
		}
		data = []byte(elements[0].Raw)
	}
	var node Node
	if err := json.Unmarshal(data, &node); err != nil {
		return Node{}, err
	}
	return node, nil
}

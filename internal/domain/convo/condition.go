package convo

import "strings"

// Condition is a structural predicate attached to a node. The runtime
// dialogue engine evaluates it; this layer only guarantees shape.
type Condition struct {
	Operator  string `json:"operator"`
	Attribute string `json:"attribute"`
	Value     string `json:"value"`
}

// Valid reports whether operator and both operands are present.
func (c Condition) Valid() bool {
	return strings.TrimSpace(c.Operator) != "" &&
		strings.TrimSpace(c.Attribute) != "" &&
		strings.TrimSpace(c.Value) != ""
}

func cloneConditions(cs []Condition) []Condition {
	if cs == nil {
		return nil
	}
	out := make([]Condition, len(cs))
	copy(out, cs)
	return out
}

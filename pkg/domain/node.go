package domain

import "strings"

// Group is the grammatical role of a concept, as reported by the extractor.
type Group string

// Group constants form a closed set; anything else is normalized to GroupObject.
const (
	GroupObject   Group = "Object"
	GroupAction   Group = "Action"
	GroupProperty Group = "Property"
	GroupLiving   Group = "Living"
)

// ParseGroup maps a raw extractor label onto the closed Group set (case-insensitive).
// The boolean reports whether the label was recognized.
func ParseGroup(s string) (Group, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "object":
		return GroupObject, true
	case "action":
		return GroupAction, true
	case "property":
		return GroupProperty, true
	case "living":
		return GroupLiving, true
	}
	return GroupObject, false
}

// Node represents a concept ("neuron") in the brain.
type Node struct {
	ID              string   `json:"id"`
	Label           string   `json:"label"`
	Group           Group    `json:"group"`
	Category        RegionID `json:"category"`
	Color           string   `json:"color"`
	Position        Vec3     `json:"position"`
	Strength        float64  `json:"strength"`
	ActivationLevel float64  `json:"activationLevel"`
}

// Link represents a directional, typed relation ("synapse") between two concept ids.
// Source and Target may reference nodes that do not exist (yet).
type Link struct {
	Source          string  `json:"source"`
	Target          string  `json:"target"`
	Type            string  `json:"type"`
	Strength        float64 `json:"strength"`
	ActivationLevel float64 `json:"activationLevel"`
}

// NodeInit is a candidate for insertion.
// Placement (Category, Color, Position) is only used when the node is new.
type NodeInit struct {
	ID       string
	Label    string
	Group    Group
	Category RegionID
	Color    string
	Position Vec3
}

// Validate reports a ValidationError when the candidate has no usable id.
func (n NodeInit) Validate() error {
	if strings.TrimSpace(n.ID) == "" {
		return &ValidationError{Kind: "node", Field: "id", Reason: "is required"}
	}
	return nil
}

// LinkInit is a candidate relation.
type LinkInit struct {
	Source string
	Target string
	Type   string
}

// Validate reports a ValidationError when an endpoint is missing.
func (l LinkInit) Validate() error {
	if strings.TrimSpace(l.Source) == "" {
		return &ValidationError{Kind: "link", Field: "source", Reason: "is required"}
	}
	if strings.TrimSpace(l.Target) == "" {
		return &ValidationError{Kind: "link", Field: "target", Reason: "is required"}
	}
	return nil
}

// NodeKey returns the case-insensitive identity of a concept id.
func NodeKey(id string) string {
	return strings.ToLower(strings.TrimSpace(id))
}

// LinkKey is the directional identity of a link.
type LinkKey struct {
	Source string
	Target string
	Type   string
}

// KeyOf returns the identity of a link candidate.
func (l LinkInit) KeyOf() LinkKey {
	return LinkKey{Source: NodeKey(l.Source), Target: NodeKey(l.Target), Type: strings.TrimSpace(l.Type)}
}

// KeyOf returns the identity of a stored link.
func (l Link) KeyOf() LinkKey {
	return LinkKey{Source: NodeKey(l.Source), Target: NodeKey(l.Target), Type: strings.TrimSpace(l.Type)}
}

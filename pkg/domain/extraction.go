package domain

// ExtractedNode is a concept reported by the extractor.
type ExtractedNode struct {
	ID       string `json:"id" mapstructure:"id"`
	Group    string `json:"group,omitempty" mapstructure:"group"`
	Category string `json:"category,omitempty" mapstructure:"category"`
}

// ExtractedLink is a relation reported by the extractor.
type ExtractedLink struct {
	Source string `json:"source" mapstructure:"source"`
	Target string `json:"target" mapstructure:"target"`
	Type   string `json:"type,omitempty" mapstructure:"type"`
}

// ExtractionResult is the structured output of the external extractor.
// An empty result is a normal, no-change ingest.
type ExtractionResult struct {
	Nodes []ExtractedNode `json:"nodes" mapstructure:"nodes"`
	Links []ExtractedLink `json:"links" mapstructure:"links"`
}

// ConceptIDs lists the ids of all extracted nodes, in order.
func (r ExtractionResult) ConceptIDs() []string {
	ids := make([]string, 0, len(r.Nodes))
	for _, n := range r.Nodes {
		ids = append(ids, n.ID)
	}
	return ids
}

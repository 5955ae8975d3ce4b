package domain

// Snapshot is an immutable copy of the brain handed to observers.
// Mutating a Snapshot never affects the live store.
type Snapshot struct {
	// Version increments on every published change.
	Version uint64   `json:"version"`
	Nodes   []Node   `json:"nodes"`
	Links   []Link   `json:"links"`
	Signals []Signal `json:"signals"`
}

// Clone returns a deep copy, so a consumer can hand the snapshot on safely.
func (s Snapshot) Clone() Snapshot {
	out := Snapshot{
		Version: s.Version,
		Nodes:   make([]Node, len(s.Nodes)),
		Links:   make([]Link, len(s.Links)),
		Signals: make([]Signal, len(s.Signals)),
	}
	copy(out.Nodes, s.Nodes)
	copy(out.Links, s.Links)
	copy(out.Signals, s.Signals)
	return out
}

// Node returns the node with the given case-insensitive id.
func (s Snapshot) Node(id string) (Node, bool) {
	key := NodeKey(id)
	for _, n := range s.Nodes {
		if NodeKey(n.ID) == key {
			return n, true
		}
	}
	return Node{}, false
}

// Renderable reports whether both endpoints of a link are known nodes.
// Dangling links are kept in the store but are not yet renderable.
func (s Snapshot) Renderable(l Link) bool {
	_, okS := s.Node(l.Source)
	_, okT := s.Node(l.Target)
	return okS && okT
}

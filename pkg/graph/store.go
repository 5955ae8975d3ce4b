package graph

import (
	"errors"
	"strings"

	"github.com/aretw0/cortex/pkg/domain"
)

// Change reports what a single AddNode/AddLink call did.
type Change int

const (
	Unchanged Change = iota
	Created
	Reinforced
)

// Store owns the canonical set of concept nodes and relation links.
// Nodes and links are never deleted. Not safe for concurrent use.
type Store struct {
	nodes     []*domain.Node
	nodeIndex map[string]int
	links     []*domain.Link
	linkIndex map[domain.LinkKey]int

	nodeIncrement float64
	linkIncrement float64
	onChange      ChangeFunc
}

// ChangeFunc is called after every created or reinforced record.
// Exactly one of n and l is non-nil. The pointers are only valid during the call.
type ChangeFunc func(c Change, n *domain.Node, l *domain.Link)

// StoreOption configures the Store.
type StoreOption func(*Store)

// WithReinforcement overrides the strength increments applied on repeated mentions.
// Negative increments are ignored.
func WithReinforcement(node, link float64) StoreOption {
	return func(s *Store) {
		if node >= 0 {
			s.nodeIncrement = node
		}
		if link >= 0 {
			s.linkIncrement = link
		}
	}
}

// WithChangeFunc registers a callback invoked on every created or reinforced record.
func WithChangeFunc(fn ChangeFunc) StoreOption {
	return func(s *Store) {
		s.onChange = fn
	}
}

// NewStore creates an empty store.
func NewStore(opts ...StoreOption) *Store {
	s := &Store{
		nodeIndex:     make(map[string]int),
		linkIndex:     make(map[domain.LinkKey]int),
		nodeIncrement: domain.NodeReinforcement,
		linkIncrement: domain.LinkReinforcement,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AddNode inserts a new concept or reinforces an existing one (case-insensitive id).
// Reinforcement bumps strength and fully reactivates the node; placement is kept.
func (s *Store) AddNode(n domain.NodeInit) (Change, error) {
	if err := n.Validate(); err != nil {
		return Unchanged, err
	}

	key := domain.NodeKey(n.ID)
	if i, ok := s.nodeIndex[key]; ok {
		existing := s.nodes[i]
		existing.Strength += s.nodeIncrement
		existing.ActivationLevel = domain.FullActivation
		s.changed(Reinforced, existing, nil)
		return Reinforced, nil
	}

	label := n.Label
	if label == "" {
		label = strings.TrimSpace(n.ID)
	}
	group := n.Group
	if group == "" {
		group = domain.GroupObject
	}

	node := &domain.Node{
		ID:              strings.TrimSpace(n.ID),
		Label:           label,
		Group:           group,
		Category:        n.Category,
		Color:           n.Color,
		Position:        n.Position,
		Strength:        domain.InitialStrength,
		ActivationLevel: domain.FullActivation,
	}
	s.nodeIndex[key] = len(s.nodes)
	s.nodes = append(s.nodes, node)
	s.changed(Created, node, nil)
	return Created, nil
}

// AddLink inserts a new relation or reinforces an identical (source, target, type) triple.
// Endpoints are not required to exist.
func (s *Store) AddLink(l domain.LinkInit) (Change, error) {
	if err := l.Validate(); err != nil {
		return Unchanged, err
	}

	key := l.KeyOf()
	if i, ok := s.linkIndex[key]; ok {
		existing := s.links[i]
		existing.Strength += s.linkIncrement
		existing.ActivationLevel = domain.FullActivation
		s.changed(Reinforced, nil, existing)
		return Reinforced, nil
	}

	link := &domain.Link{
		Source:          strings.TrimSpace(l.Source),
		Target:          strings.TrimSpace(l.Target),
		Type:            key.Type,
		Strength:        domain.InitialStrength,
		ActivationLevel: domain.FullActivation,
	}
	s.linkIndex[key] = len(s.links)
	s.links = append(s.links, link)
	s.changed(Created, nil, link)
	return Created, nil
}

// Integrate applies every node then every link candidate.
// Malformed candidates are skipped and reported together; they never abort the batch.
// Dedup within one call is the caller's responsibility.
func (s *Store) Integrate(nodes []domain.NodeInit, links []domain.LinkInit) (bool, error) {
	changed := false
	var errs []error

	for _, n := range nodes {
		c, err := s.AddNode(n)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		changed = changed || c != Unchanged
	}

	for _, l := range links {
		c, err := s.AddLink(l)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		changed = changed || c != Unchanged
	}

	return changed, errors.Join(errs...)
}

// ActivateConcepts fully activates the nodes in ids and the links whose both
// endpoints are in ids. Matching is case-insensitive.
func (s *Store) ActivateConcepts(ids []string) bool {
	if len(ids) == 0 {
		return false
	}

	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[domain.NodeKey(id)] = struct{}{}
	}

	changed := false
	for _, n := range s.nodes {
		if _, ok := set[domain.NodeKey(n.ID)]; ok {
			changed = changed || n.ActivationLevel != domain.FullActivation
			n.ActivationLevel = domain.FullActivation
		}
	}
	for _, l := range s.links {
		_, okS := set[domain.NodeKey(l.Source)]
		_, okT := set[domain.NodeKey(l.Target)]
		if okS && okT {
			changed = changed || l.ActivationLevel != domain.FullActivation
			l.ActivationLevel = domain.FullActivation
		}
	}
	return changed
}

// Snapshot returns a deep copy of all nodes and links.
// The copy stays valid while the store keeps mutating.
func (s *Store) Snapshot() domain.Snapshot {
	return domain.Snapshot{
		Nodes:   s.Nodes(),
		Links:   s.Links(),
		Signals: []domain.Signal{},
	}
}

// Node returns a copy of the node with the given case-insensitive id.
func (s *Store) Node(id string) (domain.Node, bool) {
	i, ok := s.nodeIndex[domain.NodeKey(id)]
	if !ok {
		return domain.Node{}, false
	}
	return *s.nodes[i], true
}

// Len returns the number of nodes and links.
func (s *Store) Len() (nodes, links int) {
	return len(s.nodes), len(s.links)
}

// Nodes returns copies of all nodes in insertion order.
func (s *Store) Nodes() []domain.Node {
	out := make([]domain.Node, len(s.nodes))
	for i, n := range s.nodes {
		out[i] = *n
	}
	return out
}

// Links returns copies of all links in insertion order.
func (s *Store) Links() []domain.Link {
	out := make([]domain.Link, len(s.links))
	for i, l := range s.links {
		out[i] = *l
	}
	return out
}

func (s *Store) changed(c Change, n *domain.Node, l *domain.Link) {
	if s.onChange != nil {
		s.onChange(c, n, l)
	}
}

// eachActivation visits every activation level, nodes first.
func (s *Store) eachActivation(fn func(level *float64)) {
	for _, n := range s.nodes {
		fn(&n.ActivationLevel)
	}
	for _, l := range s.links {
		fn(&l.ActivationLevel)
	}
}

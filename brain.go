package cortex

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/aretw0/cortex/internal/logging"
	"github.com/aretw0/cortex/pkg/classify"
	"github.com/aretw0/cortex/pkg/domain"
	"github.com/aretw0/cortex/pkg/graph"
	"github.com/aretw0/cortex/pkg/ports"
	"github.com/aretw0/cortex/pkg/recall"
	"github.com/aretw0/cortex/pkg/regions"
	"github.com/aretw0/cortex/pkg/signals"
)

// Brain is the composition point of the cortex core.
// It owns the store, the activation engine and the signal bus as one unit
// behind a single mutex, and publishes a snapshot to the hub after every change.
// Reads are served from the last published snapshot and never take the mutex.
type Brain struct {
	mu      sync.Mutex
	current atomic.Pointer[domain.Snapshot]

	catalog    *regions.Catalog
	classifier *classify.Classifier
	store      *graph.Store
	activation *graph.ActivationEngine
	bus        *signals.Bus
	hub        *graph.Hub

	rng         *rand.Rand
	jitter      float64
	linkSignals bool
	version     uint64
	pending     []change

	hooks  domain.LifecycleHooks
	logger *slog.Logger

	decayRate   float64
	signalSpeed float64
	nodeInc     float64
	linkInc     float64
}

// Ensure Brain implements the adapter port.
var _ ports.Brain = (*Brain)(nil)

// change records one store mutation until hooks can run with a context.
type change struct {
	kind graph.Change
	node *domain.Node
	link *domain.Link
}

// Option defines a functional option for configuring the Brain.
type Option func(*Brain)

// WithCatalog replaces the reference region catalog.
func WithCatalog(c *regions.Catalog) Option {
	return func(b *Brain) {
		b.catalog = c
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Brain) {
		b.logger = logger
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(b *Brain) {
		b.hooks = hooks
	}
}

// WithRand sets the random source used to scatter new concepts around their anchor.
func WithRand(r *rand.Rand) Option {
	return func(b *Brain) {
		b.rng = r
	}
}

// WithSeed makes placement reproducible.
func WithSeed(seed uint64) Option {
	return func(b *Brain) {
		b.rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	}
}

// WithJitter sets the spread of new concepts around their region anchor.
func WithJitter(jitter float64) Option {
	return func(b *Brain) {
		if jitter >= 0 {
			b.jitter = jitter
		}
	}
}

// WithDecayRate sets the activation lost per tick.
func WithDecayRate(rate float64) Option {
	return func(b *Brain) {
		b.decayRate = rate
	}
}

// WithSignalSpeed sets the default signal progress per tick.
func WithSignalSpeed(speed float64) Option {
	return func(b *Brain) {
		b.signalSpeed = speed
	}
}

// WithReinforcement overrides the strength increments for repeated nodes and links.
// Negative increments are ignored: strength never decreases.
func WithReinforcement(node, link float64) Option {
	return func(b *Brain) {
		if node >= 0 {
			b.nodeInc = node
		}
		if link >= 0 {
			b.linkInc = link
		}
	}
}

// WithLinkSignals fires a signal between the regions of two known concepts
// whenever a new link connects them across regions.
func WithLinkSignals(enabled bool) Option {
	return func(b *Brain) {
		b.linkSignals = enabled
	}
}

// New assembles a brain. Without options it uses the reference regions and constants.
func New(opts ...Option) *Brain {
	b := &Brain{
		jitter:      domain.PlacementJitter,
		decayRate:   domain.DecayRate,
		signalSpeed: domain.SignalSpeed,
		nodeInc:     domain.NodeReinforcement,
		linkInc:     domain.LinkReinforcement,
	}

	for _, opt := range opts {
		opt(b)
	}

	if b.catalog == nil {
		b.catalog = regions.Defaults()
	}
	if b.logger == nil {
		b.logger = logging.NewNop()
	}
	if b.rng == nil {
		b.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	b.classifier = classify.New(b.catalog)
	b.store = graph.NewStore(
		graph.WithReinforcement(b.nodeInc, b.linkInc),
		graph.WithChangeFunc(func(c graph.Change, n *domain.Node, l *domain.Link) {
			// Copy: a later candidate in the same batch may reinforce the same record.
			rec := change{kind: c}
			if n != nil {
				cp := *n
				rec.node = &cp
			}
			if l != nil {
				cp := *l
				rec.link = &cp
			}
			b.pending = append(b.pending, rec)
		}),
	)
	b.activation = graph.NewActivationEngine(b.decayRate)
	b.bus = signals.NewBus(b.catalog,
		signals.WithSpeed(b.signalSpeed),
		signals.WithLogger(b.logger),
	)
	b.hub = graph.NewHub()
	b.storeCurrent()

	return b
}

// Ingest classifies and places the extracted concepts, integrates them with
// their relations, and activates the ingested concepts.
// Malformed candidates are reported in err without aborting the batch.
func (b *Brain) Ingest(ctx context.Context, result domain.ExtractionResult) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	nodes := make([]domain.NodeInit, 0, len(result.Nodes))
	for _, n := range result.Nodes {
		nodes = append(nodes, b.prepare(n))
	}

	links := make([]domain.LinkInit, 0, len(result.Links))
	for _, l := range result.Links {
		links = append(links, domain.LinkInit{Source: l.Source, Target: l.Target, Type: l.Type})
	}

	changed, err := b.integrateLocked(ctx, nodes, links)
	if b.store.ActivateConcepts(result.ConceptIDs()) {
		changed = true
	}
	if changed {
		b.publishLocked()
	}

	b.logger.Info("knowledge ingested",
		"nodes", len(nodes),
		"links", len(links),
		"changed", changed,
		"rejected", rejected(err),
	)
	return changed, err
}

// Integrate applies already-placed candidates and notifies observers once if anything changed.
func (b *Brain) Integrate(ctx context.Context, nodes []domain.NodeInit, links []domain.LinkInit) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	changed, err := b.integrateLocked(ctx, nodes, links)
	if changed {
		b.publishLocked()
	}
	return changed, err
}

// ActivateConcepts fully activates the given concepts and the links between them.
func (b *Brain) ActivateConcepts(ctx context.Context, ids []string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	changed := b.store.ActivateConcepts(ids)
	if changed {
		b.publishLocked()
	}
	return changed
}

// TriggerSignal starts a signal between two regions.
// Unknown regions are silently ignored: it returns "" and false.
func (b *Brain) TriggerSignal(ctx context.Context, from, to domain.RegionID, opts ...signals.Option) (string, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	sig, ok := b.triggerLocked(ctx, from, to, opts...)
	if !ok {
		return "", false
	}
	b.publishLocked()
	return sig.ID, true
}

// DecayTick lowers every activation level by one step.
func (b *Brain) DecayTick(ctx context.Context) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	changed := b.activation.Decay(b.store)
	if changed {
		b.publishLocked()
	}
	return changed
}

// AdvanceTick moves every live signal forward and retires the ones that arrived.
func (b *Brain) AdvanceTick(ctx context.Context) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	changed := b.bus.Advance()
	if changed {
		b.publishLocked()
	}
	return changed
}

// Tick runs one decay step followed by one signal step.
func (b *Brain) Tick(ctx context.Context) {
	start := time.Now()
	b.DecayTick(ctx)
	b.AdvanceTick(ctx)
	if b.hooks.OnTick != nil {
		b.hooks.OnTick(ctx, time.Since(start))
	}
}

// Snapshot returns an immutable copy of the current brain.
// It is safe to call from an observer.
func (b *Brain) Snapshot() domain.Snapshot {
	return b.current.Load().Clone()
}

// Subscribe registers an observer. It immediately receives the current snapshot,
// then one snapshot per change, in subscription order.
// Observers may read the brain but must not mutate it or subscribe from OnSnapshot.
func (b *Brain) Subscribe(o graph.Observer) *graph.Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.hub.Subscribe(o, b.snapshotLocked())
}

// Describe renders the memory context handed to the language model.
func (b *Brain) Describe() string {
	return recall.Describe(*b.current.Load())
}

// Regions returns the catalog regions in declaration order.
func (b *Brain) Regions() []domain.Region {
	return b.catalog.All()
}

// Catalog returns the region catalog.
func (b *Brain) Catalog() *regions.Catalog {
	return b.catalog
}

// Classify exposes the classifier used by Ingest.
func (b *Brain) Classify(label, conceptID string) domain.RegionID {
	return b.classifier.Classify(label, conceptID)
}

// -- internals (callers hold b.mu) --

func (b *Brain) prepare(n domain.ExtractedNode) domain.NodeInit {
	id := strings.TrimSpace(n.ID)
	regionID := b.classifier.ClassifyNode(n)
	region, _ := b.catalog.Lookup(regionID)

	group, known := domain.ParseGroup(n.Group)
	if !known && n.Group != "" {
		b.logger.Debug("unknown group, using default", "node_id", id, "group", n.Group, "default", group)
	}

	return domain.NodeInit{
		ID:       id,
		Label:    id,
		Group:    group,
		Category: region.ID,
		Color:    region.Color,
		Position: b.place(region.Anchor),
	}
}

// place scatters a point uniformly in [-jitter/2, jitter/2] around the anchor on each axis.
func (b *Brain) place(anchor domain.Vec3) domain.Vec3 {
	j := b.jitter
	return anchor.Add(domain.Vec3{
		X: (b.rng.Float64() - 0.5) * j,
		Y: (b.rng.Float64() - 0.5) * j,
		Z: (b.rng.Float64() - 0.5) * j,
	})
}

func (b *Brain) integrateLocked(ctx context.Context, nodes []domain.NodeInit, links []domain.LinkInit) (bool, error) {
	b.pending = b.pending[:0]
	changed, err := b.store.Integrate(nodes, links)
	if err != nil {
		b.logger.Warn("rejected candidates", "error", err)
	}

	pending := b.pending
	b.pending = nil
	for _, c := range pending {
		b.emit(ctx, c)
	}
	return changed, err
}

func (b *Brain) emit(ctx context.Context, c change) {
	now := time.Now()

	switch {
	case c.node != nil:
		typ := domain.EventNodeCreated
		if c.kind == graph.Reinforced {
			typ = domain.EventNodeReinforced
		}
		b.logger.Debug(string(typ), "node_id", c.node.ID, "region", c.node.Category, "strength", c.node.Strength)
		if b.hooks.OnNode != nil {
			b.hooks.OnNode(ctx, &domain.NodeEvent{
				EventBase: domain.EventBase{Timestamp: now, Type: typ},
				NodeID:    c.node.ID,
				Region:    c.node.Category,
				Strength:  c.node.Strength,
			})
		}

	case c.link != nil:
		typ := domain.EventLinkCreated
		if c.kind == graph.Reinforced {
			typ = domain.EventLinkReinforced
		}
		b.logger.Debug(string(typ), "source", c.link.Source, "target", c.link.Target, "type", c.link.Type)
		if b.hooks.OnLink != nil {
			b.hooks.OnLink(ctx, &domain.LinkEvent{
				EventBase: domain.EventBase{Timestamp: now, Type: typ},
				Source:    c.link.Source,
				Target:    c.link.Target,
				LinkType:  c.link.Type,
				Strength:  c.link.Strength,
			})
		}
		if c.kind == graph.Created && b.linkSignals {
			b.signalAcross(ctx, *c.link)
		}
	}
}

// signalAcross fires a signal when a new link joins two known concepts in different regions.
func (b *Brain) signalAcross(ctx context.Context, l domain.Link) {
	src, okS := b.store.Node(l.Source)
	dst, okT := b.store.Node(l.Target)
	if !okS || !okT || src.Category == dst.Category {
		return
	}
	b.triggerLocked(ctx, src.Category, dst.Category)
}

func (b *Brain) triggerLocked(ctx context.Context, from, to domain.RegionID, opts ...signals.Option) (domain.Signal, bool) {
	sig, ok := b.bus.Trigger(from, to, opts...)
	if !ok {
		return sig, false
	}
	b.logger.Debug("signal fired", "signal_id", sig.ID, "from", sig.From, "to", sig.To)
	if b.hooks.OnSignal != nil {
		b.hooks.OnSignal(ctx, &domain.SignalEvent{
			EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventSignalFired},
			SignalID:  sig.ID,
			From:      sig.From,
			To:        sig.To,
		})
	}
	return sig, true
}

func (b *Brain) snapshotLocked() domain.Snapshot {
	snap := b.store.Snapshot()
	snap.Version = b.version
	snap.Signals = b.bus.Live()
	return snap
}

func (b *Brain) publishLocked() {
	b.version++
	b.hub.Publish(b.storeCurrent())
}

// storeCurrent records the snapshot served to readers and returns it.
func (b *Brain) storeCurrent() domain.Snapshot {
	snap := b.snapshotLocked()
	b.current.Store(&snap)
	return snap
}

func rejected(err error) int {
	if err == nil {
		return 0
	}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		return len(joined.Unwrap())
	}
	return 1
}

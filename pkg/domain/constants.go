package domain

// Tuning constants of the reference deployment.
const (
	// NodeReinforcement is added to a node's strength every time it is mentioned again.
	NodeReinforcement = 0.5
	// LinkReinforcement is added to a link's strength every time it is extracted again.
	LinkReinforcement = 0.2
	// InitialStrength is the strength of a freshly created node or link.
	InitialStrength = 1.0
	// FullActivation is the activation level set on creation, reinforcement and explicit activation.
	FullActivation = 1.0
	// DecayRate is subtracted from every activation level on each tick.
	DecayRate = 0.02
	// SignalSpeed is the default progress a signal makes per tick.
	SignalSpeed = 0.02
	// PlacementJitter is the spread of neurons around their region anchor.
	PlacementJitter = 4.0

	// Epsilon absorbs float drift so that repeated subtraction lands exactly on the bounds.
	Epsilon = 1e-9
)

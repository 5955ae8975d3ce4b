package regions

import "github.com/aretw0/cortex/pkg/domain"

// reference is the six-region layout of the reference deployment.
var reference = []domain.Region{
	{
		ID:       domain.RegionVisual,
		Label:    "Visual Cortex",
		Anchor:   domain.Vec3{X: -15, Y: -5, Z: -10}, // back-left
		Color:    "#ff6b9d",
		Keywords: []string{"color", "shape", "size", "appearance", "look", "see", "visual", "bright", "dark"},
	},
	{
		ID:       domain.RegionLanguage,
		Label:    "Language Center",
		Anchor:   domain.Vec3{X: -10, Y: 10, Z: 5}, // left-top
		Color:    "#4ecdc4",
		Keywords: []string{"word", "sentence", "grammar", "meaning", "say", "language", "speak", "talk", "name"},
	},
	{
		ID:       domain.RegionMotor,
		Label:    "Motor Cortex",
		Anchor:   domain.Vec3{X: 15, Y: -8, Z: 0}, // right-center
		Color:    "#ffe66d",
		Keywords: []string{"action", "movement", "do", "perform", "behavior", "run", "walk", "go", "eat"},
	},
	{
		ID:       domain.RegionMemory,
		Label:    "Hippocampus",
		Anchor:   domain.Vec3{X: 0, Y: 0, Z: -15}, // deep center
		Color:    "#a8e6cf",
		Keywords: []string{"fact", "remember", "recall", "memory", "store", "know", "history", "past"},
	},
	{
		ID:       domain.RegionLogic,
		Label:    "Prefrontal Cortex",
		Anchor:   domain.Vec3{X: 10, Y: 8, Z: 10}, // front-right-top
		Color:    "#ffd3b6",
		Keywords: []string{"logic", "reason", "think", "analyze", "because", "why", "how", "math", "number", "count"},
	},
	{
		ID:       domain.RegionEmotion,
		Label:    "Amygdala",
		Anchor:   domain.Vec3{X: 0, Y: -12, Z: 8}, // bottom-center
		Color:    "#ffaaa5",
		Keywords: []string{"feel", "emotion", "mood", "happy", "sad", "angry", "love", "hate", "like", "good", "bad"},
	},
}

// Defaults returns the reference catalog, with memory as the fallback region.
func Defaults() *Catalog {
	c, err := New(reference, domain.RegionMemory)
	if err != nil {
		panic("regions: reference catalog is invalid: " + err.Error())
	}
	return c
}

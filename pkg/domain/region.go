package domain

import "strings"

// RegionID identifies a semantic region of the brain.
// Values are always lowercase once they have passed through the catalog.
type RegionID string

// Reference region ids.
const (
	RegionVisual   RegionID = "visual"
	RegionLanguage RegionID = "language"
	RegionMotor    RegionID = "motor"
	RegionMemory   RegionID = "memory"
	RegionLogic    RegionID = "logic"
	RegionEmotion  RegionID = "emotion"
)

// NormalizeRegionID lowercases and trims a raw region label.
func NormalizeRegionID(s string) RegionID {
	return RegionID(strings.ToLower(strings.TrimSpace(s)))
}

// Vec3 is a point in the brain's 3D space.
type Vec3 struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
	Z float64 `json:"z" yaml:"z"`
}

// Add returns the component-wise sum of v and o.
func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{X: v.X + o.X, Y: v.Y + o.Y, Z: v.Z + o.Z}
}

// Lerp interpolates between v and o. t=0 yields v, t=1 yields o.
func (v Vec3) Lerp(o Vec3, t float64) Vec3 {
	return Vec3{
		X: v.X + (o.X-v.X)*t,
		Y: v.Y + (o.Y-v.Y)*t,
		Z: v.Z + (o.Z-v.Z)*t,
	}
}

// Region is a named semantic area with a spatial anchor and classification keywords.
// Regions are immutable for the lifetime of the process.
type Region struct {
	ID       RegionID `json:"id" yaml:"id"`
	Label    string   `json:"label" yaml:"label"`
	Anchor   Vec3     `json:"anchor" yaml:"anchor"`
	Color    string   `json:"color" yaml:"color"`
	Keywords []string `json:"keywords" yaml:"keywords"`
}

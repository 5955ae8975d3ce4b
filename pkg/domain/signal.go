package domain

// Signal is a transient travel animation between two region anchors.
// Progress lives in [0,1); the signal is retired once it reaches 1.
type Signal struct {
	ID       string   `json:"id"`
	From     RegionID `json:"from"`
	To       RegionID `json:"to"`
	Start    Vec3     `json:"startPosition"`
	End      Vec3     `json:"endPosition"`
	Progress float64  `json:"progress"`
	Speed    float64  `json:"speed"`
	Color    string   `json:"color"`
}

// Position returns the current location of the signal along its path.
func (s Signal) Position() Vec3 {
	return s.Start.Lerp(s.End, s.Progress)
}

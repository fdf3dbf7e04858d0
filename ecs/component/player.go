package component

// PlayerTag marks the entity bosses target.
type PlayerTag struct{}

var PlayerTagComponent = NewComponent[PlayerTag]()

type Health struct {
	Current int
	Max     int
	// Invulnerable counts down the frames of post-hit immunity.
	Invulnerable int
}

func (h *Health) Dead() bool {
	return h != nil && h.Current <= 0
}

var HealthComponent = NewComponent[Health]()

// TargetPath scripts a player that is not driven by input.
type TargetPath struct {
	Mode    string
	CenterX float64
	CenterY float64
	Radius  float64
	Speed   float64
	Phase   float64
}

var TargetPathComponent = NewComponent[TargetPath]()

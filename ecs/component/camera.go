package component

// Camera follows the player and carries the current shake offset.
type Camera struct {
	X, Y           float64
	ShakeFrames    int
	ShakeIntensity float64
	OffsetX        float64
	OffsetY        float64
}

var CameraComponent = NewComponent[Camera]()

package component

// CameraShakeRequest asks the camera system to shake. Intensity is in world
// units. The strongest pending request wins.
type CameraShakeRequest struct {
	Frames    int
	Intensity float64
}

var CameraShakeRequestComponent = NewComponent[CameraShakeRequest]()

package component

// WhiteFlash blinks an entity white while Frames remain, toggling every
// Interval frames.
type WhiteFlash struct {
	Frames   int
	Interval int
	Timer    int
	On       bool
}

var WhiteFlashComponent = NewComponent[WhiteFlash]()

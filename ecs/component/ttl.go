package component

// TTL destroys its entity after Frames ticks.
type TTL struct {
	Frames int
}

var TTLComponent = NewComponent[TTL]()

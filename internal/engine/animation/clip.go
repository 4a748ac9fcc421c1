package animation

// Clip is a named set of channels played together.
type Clip struct {
	Name     string
	Channels []*Channel
	duration float32
}

// NewClip builds a clip and caches its duration.
func NewClip(name string, channels []*Channel) *Clip {
	c := &Clip{Name: name, Channels: channels}
	for _, ch := range channels {
		if d := ch.Duration(); d > c.duration {
			c.duration = d
		}
	}
	return c
}

// Duration is the time of the latest keyframe across all channels.
func (c *Clip) Duration() float32 {
	return c.duration
}

// LoopMode controls what happens when an action reaches the clip end.
type LoopMode int

const (
	// LoopRepeat wraps back to the start. It is the default for new actions.
	LoopRepeat LoopMode = iota
	// LoopOnce stops at the end and releases the pose.
	LoopOnce
	// LoopPingPong alternates direction at each end.
	LoopPingPong
)

package model

import (
	"math"
)

// FrameCursor is the per-tick output of the playback state machine: the two
// frame indices to blend and the fractional weight between them.
type FrameCursor struct {
	// Current is the index of the frame being played.
	Current uint32

	// Next is the index of the frame to blend towards. Wraps to the clip's
	// first frame at the end of the range.
	Next uint32

	// Weight is the fractional interpolation weight in [0,1).
	Weight float32
}

// Playback tracks the animation playback state for a single model instance:
// the active clip, elapsed time, and current frame index. It has two states,
// idle (no active clip) and playing; idle is entered whenever an invalid clip
// index is set and makes Advance a no-op.
type Playback struct {
	clips  []Clip
	active int
	time   float32
	frame  uint32
}

// NewPlayback creates a playback state machine over a clip list, starting
// idle.
//
// Parameters:
//   - clips: the model's animation clips
//
// Returns:
//   - *Playback: the idle playback state
func NewPlayback(clips []Clip) *Playback {
	return &Playback{clips: clips, active: -1}
}

// SetAnimation activates a clip by index, resetting time to zero and the
// frame cursor to the clip's first frame. An out-of-range index is not an
// error: playback goes idle.
//
// Parameters:
//   - index: the clip index to activate
func (p *Playback) SetAnimation(index int) {
	if index < 0 || index >= len(p.clips) {
		p.active = -1
		p.time = 0
		p.frame = 0
		return
	}
	p.active = index
	p.time = 0
	p.frame = p.clips[index].First
}

// Idle reports whether no clip is active.
func (p *Playback) Idle() bool {
	return p.active < 0
}

// ActiveClip returns the active clip and true, or the zero clip and false
// when idle.
func (p *Playback) ActiveClip() (Clip, bool) {
	if p.active < 0 {
		return Clip{}, false
	}
	return p.clips[p.active], true
}

// Time returns the elapsed playback time in seconds.
func (p *Playback) Time() float32 {
	return p.time
}

// Frame returns the current frame index.
func (p *Playback) Frame() uint32 {
	return p.frame
}

// Advance steps playback by dt seconds and emits the frame cursor for the
// pose blender. The interpolation weight derives from the pre-advance frame
// position, so the weight stays continuous even on the tick where a looping
// clip wraps.
//
// A non-looping clip that has passed its last frame holds: the state stays
// untouched and Advance reports false so the caller keeps the last evaluated
// pose. A looping clip wraps its time back to zero and restarts at the first
// frame. Advancing while idle also reports false.
//
// Parameters:
//   - dt: elapsed seconds since the previous tick (>= 0)
//
// Returns:
//   - FrameCursor: the frame pair and blend weight for this tick
//   - bool: true if playback advanced, false if idle or holding
func (p *Playback) Advance(dt float32) (FrameCursor, bool) {
	if p.active < 0 {
		return FrameCursor{}, false
	}
	clip := p.clips[p.active]
	span := clip.Span()

	pos := p.time * clip.Rate
	if !clip.Loop && pos > span {
		return FrameCursor{}, false
	}

	weight := pos - float32(math.Floor(float64(pos)))
	p.time += dt

	current := clip.First + uint32(pos)
	if float32(uint32(pos)) >= span {
		if clip.Loop {
			// Wrap: restart the clip from its first frame.
			p.time = 0
			current = clip.First
		} else {
			current = clip.Last
		}
	}

	next := current + 1
	if next > clip.Last {
		next = clip.First
	}

	p.frame = current
	return FrameCursor{Current: current, Next: next, Weight: weight}, true
}

package model

import (
	"math"
	"testing"
)

func TestSetAnimationInvalidIndexGoesIdle(t *testing.T) {
	p := NewPlayback([]Clip{{Name: "walk", First: 0, Last: 10, Rate: 30, Loop: true}})

	p.SetAnimation(5)
	if !p.Idle() {
		t.Fatal("expected idle after out-of-range index")
	}
	if _, ok := p.Advance(0.1); ok {
		t.Error("expected Advance to be a no-op while idle")
	}

	p.SetAnimation(-1)
	if !p.Idle() {
		t.Error("expected idle after negative index")
	}
}

func TestSetAnimationResetsState(t *testing.T) {
	p := NewPlayback([]Clip{
		{Name: "walk", First: 0, Last: 10, Rate: 30, Loop: true},
		{Name: "run", First: 11, Last: 20, Rate: 30, Loop: true},
	})

	p.SetAnimation(0)
	for i := 0; i < 4; i++ {
		p.Advance(0.05)
	}
	if p.Time() == 0 {
		t.Fatal("expected time to advance")
	}

	p.SetAnimation(1)
	if p.Time() != 0 {
		t.Errorf("expected time reset on clip change, got %v", p.Time())
	}
	if p.Frame() != 11 {
		t.Errorf("expected frame reset to clip first frame 11, got %d", p.Frame())
	}
}

func TestAdvanceLoopingWraps(t *testing.T) {
	// Ten advances of 1/3s at 30fps cover ~10 frames per tick on an
	// 11-frame clip, so the cursor must wrap rather than grow unbounded.
	p := NewPlayback([]Clip{{Name: "walk", First: 0, Last: 10, Rate: 30, Loop: true}})
	p.SetAnimation(0)

	wrapped := false
	var prev uint32
	for i := 0; i < 10; i++ {
		cursor, ok := p.Advance(1.0 / 3)
		if !ok {
			t.Fatalf("advance %d: unexpected hold", i)
		}
		if cursor.Current > 10 {
			t.Fatalf("advance %d: frame %d outside [0, 10]", i, cursor.Current)
		}
		if cursor.Current < prev {
			wrapped = true
		}
		prev = cursor.Current
	}

	if !wrapped && p.Frame() != 0 {
		t.Error("expected at least one wrap back towards the first frame")
	}
	if p.Time() > 1.0/3+1e-6 {
		t.Errorf("expected time to reset near zero after wrapping, got %v", p.Time())
	}
}

func TestAdvanceNonLoopingHolds(t *testing.T) {
	p := NewPlayback([]Clip{{Name: "die", First: 0, Last: 5, Rate: 30, Loop: false}})
	p.SetAnimation(0)

	// Step well past the end of the clip, one frame per tick.
	for i := 0; i < 20; i++ {
		p.Advance(1.0 / 30)
	}
	if p.Frame() != 5 {
		t.Fatalf("expected clamp to last frame 5, got %d", p.Frame())
	}

	// Further advances hold without touching state.
	if _, ok := p.Advance(0.05); ok {
		t.Error("expected hold once the clip has passed its last frame")
	}
	if p.Frame() != 5 {
		t.Errorf("expected held frame 5, got %d", p.Frame())
	}
}

func TestAdvanceNextFrameWrapsToFirst(t *testing.T) {
	p := NewPlayback([]Clip{{Name: "turn", First: 2, Last: 4, Rate: 10, Loop: false}})
	p.SetAnimation(0)

	cursor, ok := p.Advance(0.1) // pos 0.0
	if !ok || cursor.Current != 2 || cursor.Next != 3 {
		t.Fatalf("expected cursor (2, 3), got (%d, %d) ok=%v", cursor.Current, cursor.Next, ok)
	}

	cursor, ok = p.Advance(0.1) // pos 1.0
	if !ok || cursor.Current != 3 || cursor.Next != 4 {
		t.Fatalf("expected cursor (3, 4), got (%d, %d) ok=%v", cursor.Current, cursor.Next, ok)
	}

	// Landing exactly on the final frame clamps current and wraps the next
	// frame back to the clip start.
	cursor, ok = p.Advance(0.1) // pos 2.0
	if !ok {
		t.Fatal("unexpected hold on the final frame")
	}
	if cursor.Current != 4 {
		t.Errorf("expected clamp to last frame 4, got %d", cursor.Current)
	}
	if cursor.Next != 2 {
		t.Errorf("expected next frame to wrap to 2, got %d", cursor.Next)
	}

	// Past the end the clip holds.
	if _, ok := p.Advance(0.1); ok {
		t.Error("expected hold past the final frame")
	}
}

func TestAdvanceWeightIsFractionalFramePosition(t *testing.T) {
	p := NewPlayback([]Clip{{Name: "walk", First: 0, Last: 10, Rate: 30, Loop: true}})
	p.SetAnimation(0)

	var elapsed float32
	for i := 0; i < 8; i++ {
		pos := elapsed * 30
		want := pos - float32(math.Floor(float64(pos)))

		cursor, ok := p.Advance(0.011)
		if !ok {
			t.Fatalf("advance %d: unexpected hold", i)
		}
		if diff := float64(cursor.Weight - want); math.Abs(diff) > 1e-5 {
			t.Errorf("advance %d: weight %v, want %v", i, cursor.Weight, want)
		}
		if cursor.Weight < 0 || cursor.Weight >= 1 {
			t.Errorf("advance %d: weight %v outside [0, 1)", i, cursor.Weight)
		}
		elapsed += 0.011
	}
}

func TestAdvanceSingleFrameClip(t *testing.T) {
	p := NewPlayback([]Clip{{Name: "pose", First: 3, Last: 3, Rate: 30, Loop: true}})
	p.SetAnimation(0)

	for i := 0; i < 5; i++ {
		cursor, ok := p.Advance(0.1)
		if !ok {
			t.Fatalf("advance %d: unexpected hold", i)
		}
		if cursor.Current != 3 || cursor.Next != 3 {
			t.Fatalf("advance %d: cursor (%d, %d), want (3, 3)", i, cursor.Current, cursor.Next)
		}
	}
}

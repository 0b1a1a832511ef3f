package replay

import (
	"math/rand"
	"testing"
)

func checkInvariants(t *testing.T, s *State) {
	t.Helper()
	if !s.Enabled() {
		return
	}
	if s.TrimStart < 0 || s.TrimStart >= s.TrimEnd || s.TrimEnd > s.Len()-1 {
		t.Fatalf("trim window out of bounds: %+v", s)
	}
	if s.Current < s.TrimStart || s.Current > s.TrimEnd {
		t.Fatalf("current index outside trim window: %+v", s)
	}
}

func TestStateInitial(t *testing.T) {
	s := NewState(10)
	if s.TrimStart != 0 || s.TrimEnd != 9 || s.Current != 0 {
		t.Fatalf("unexpected initial state: %+v", s)
	}
	checkInvariants(t, s)
}

func TestStateTransitions(t *testing.T) {
	s := NewState(10)

	s.SetTrimStart(3)
	if s.TrimStart != 3 || s.Current != 3 {
		t.Fatalf("trim start should snap current forward: %+v", s)
	}

	s.SetTrimEnd(6)
	if s.TrimEnd != 6 {
		t.Fatalf("unexpected trim end: %+v", s)
	}

	s.Seek(5)
	if s.Current != 5 {
		t.Fatalf("unexpected current: %+v", s)
	}

	// shrinking the window past current snaps current back
	s.SetTrimEnd(4)
	if s.TrimEnd != 4 || s.Current != 4 {
		t.Fatalf("trim end should snap current back: %+v", s)
	}

	// clamps
	s.SetTrimStart(-5)
	if s.TrimStart != 0 {
		t.Fatalf("expected clamp to 0: %+v", s)
	}
	s.SetTrimEnd(99)
	if s.TrimEnd != 9 {
		t.Fatalf("expected clamp to n-1: %+v", s)
	}
	s.Seek(-1)
	if s.Current != s.TrimStart {
		t.Fatalf("seek should clamp to window start: %+v", s)
	}
	s.Seek(99)
	if s.Current != s.TrimEnd {
		t.Fatalf("seek should clamp to window end: %+v", s)
	}

	// trim start can never cross trim end
	s.SetTrimEnd(5)
	s.SetTrimStart(9)
	if s.TrimStart != s.TrimEnd-1 {
		t.Fatalf("trim start crossed trim end: %+v", s)
	}
	checkInvariants(t, s)
}

func TestStateInvariantsUnderRandomTransitions(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for _, n := range []int{2, 3, 10, 57} {
		s := NewState(n)
		for i := 0; i < 2000; i++ {
			v := rng.Intn(3*n) - n
			switch rng.Intn(3) {
			case 0:
				s.SetTrimStart(v)
			case 1:
				s.SetTrimEnd(v)
			default:
				s.Seek(v)
			}
			checkInvariants(t, s)
		}
	}
}

func TestStateDegenerate(t *testing.T) {
	s := NewState(0)
	s.SetTrimStart(5)
	s.SetTrimEnd(5)
	s.Seek(5)
	if s.Current != 0 || s.TrimStart != 0 || s.TrimEnd != 0 {
		t.Fatalf("empty sequence state must stay zero: %+v", s)
	}
	if s.Enabled() {
		t.Fatalf("empty sequence should disable the control")
	}
	if _, visible := s.Highlight(); visible {
		t.Fatalf("no highlight on empty sequence")
	}

	s = NewState(1)
	s.SetTrimStart(1)
	s.SetTrimEnd(0)
	s.Seek(7)
	if s.Current != 0 || s.TrimStart != 0 || s.TrimEnd != 0 {
		t.Fatalf("single-row state must pin index 0: %+v", s)
	}
}

func TestHighlightRelativeToWindow(t *testing.T) {
	s := NewState(10)
	s.SetTrimStart(4)
	s.Seek(7)
	h, visible := s.Highlight()
	if !visible || h != 3 {
		t.Fatalf("expected highlight 3 within window, got %d visible=%v", h, visible)
	}
}

func TestWindow(t *testing.T) {
	rows := make([]Row, 10)
	for i := range rows {
		rows[i].ElapsedSec = i * 10
	}
	s := NewState(len(rows))
	s.SetTrimStart(2)
	s.SetTrimEnd(5)

	w := Window(rows, s)
	if len(w) != 4 || w[0].ElapsedSec != 20 || w[3].ElapsedSec != 50 {
		t.Fatalf("unexpected window: %+v", w)
	}

	if w := Window(nil, NewState(0)); w != nil {
		t.Fatalf("expected nil window for empty state")
	}
}

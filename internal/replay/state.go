package replay

// State is the scrub/trim state over a joined sequence of fixed length:
// a current index plus a trim window. All transitions clamp rather than
// reject, so the invariants
//
//	0 <= TrimStart < TrimEnd <= len-1
//	TrimStart <= Current <= TrimEnd
//
// hold after any call sequence. Sequences of length 0 or 1 have nothing
// to trim or seek; transitions on them are no-ops.
type State struct {
	Current   int `json:"current"`
	TrimStart int `json:"trim_start"`
	TrimEnd   int `json:"trim_end"`

	n int
}

func NewState(n int) *State {
	s := &State{n: n}
	if n > 0 {
		s.TrimEnd = n - 1
	}
	return s
}

// Len returns the length of the sequence the state ranges over.
func (s *State) Len() int { return s.n }

// Enabled reports whether there is anything to scrub at all.
func (s *State) Enabled() bool { return s.n > 1 }

func (s *State) SetTrimStart(v int) {
	if s.n <= 1 {
		return
	}
	s.TrimStart = clamp(v, 0, s.TrimEnd-1)
	if s.Current < s.TrimStart {
		s.Current = s.TrimStart
	}
}

func (s *State) SetTrimEnd(v int) {
	if s.n <= 1 {
		return
	}
	s.TrimEnd = clamp(v, s.TrimStart+1, s.n-1)
	if s.Current > s.TrimEnd {
		s.Current = s.TrimEnd
	}
}

func (s *State) Seek(v int) {
	if s.n == 0 {
		return
	}
	s.Current = clamp(v, s.TrimStart, s.TrimEnd)
}

// Highlight returns the current index relative to the trim window, and
// whether it falls inside the visible window.
func (s *State) Highlight() (int, bool) {
	if s.n == 0 {
		return 0, false
	}
	return s.Current - s.TrimStart, s.Current >= s.TrimStart && s.Current <= s.TrimEnd
}

// Window slices rows down to the visible trim window.
func Window(rows []Row, s *State) []Row {
	if s.n == 0 || len(rows) == 0 {
		return nil
	}
	end := s.TrimEnd
	if end >= len(rows) {
		end = len(rows) - 1
	}
	if s.TrimStart > end {
		return nil
	}
	return rows[s.TrimStart : end+1]
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

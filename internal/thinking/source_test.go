package thinking

// scriptedSource replays fixed values. When a script runs out, Float64
// returns 0.99 (never triggers a pause) and IntN returns 0.
type scriptedSource struct {
	floats []float64
	ints   []int
}

func (s *scriptedSource) Float64() float64 {
	if len(s.floats) == 0 {
		return 0.99
	}
	f := s.floats[0]
	s.floats = s.floats[1:]
	return f
}

func (s *scriptedSource) IntN(n int) int {
	if len(s.ints) == 0 {
		return 0
	}
	i := s.ints[0]
	s.ints = s.ints[1:]
	return i % n
}

// noPause never triggers the pause injector.
func noPause() *scriptedSource { return &scriptedSource{} }

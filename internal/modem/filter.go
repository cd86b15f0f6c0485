package modem

// FilterKind selects the first-order IIR low-pass used by the frequency
// discriminator, matching the two presets a real build would pick between at
// compile time.
type FilterKind int

const (
	// FilterButterworth approximates a 600 Hz Butterworth response:
	// y[n] = x[n] + x[n-1] + (y[n-1]>>1) + (y[n-1]>>3) + (y[n-1]>>5), i.e. y[n-1]*0.65625
	// (the shift-add stand-in for a 0.668 feedback coefficient).
	FilterButterworth FilterKind = iota
	// FilterChebyshev approximates a 600 Hz Chebyshev response:
	// y[n] = x[n] + x[n-1] + (y[n-1]>>1), i.e. y[n-1]*0.5.
	//
	// The design target was alpha ~= 0.438; the shift-only form implements
	// 0.5 instead. Whether that's an acknowledged approximation or a defect
	// can't be decided without hardware verification, so it is preserved
	// as-is rather than "fixed".
	FilterChebyshev
)

// Filter is a single-input, single-output first-order IIR stage: Step feeds
// one new sample in and returns the corresponding filtered output. A Filter
// owns its own x/y taps so the discriminator's hot path stays branch-free -
// there is no runtime switch on filter kind once one has been constructed.
type Filter interface {
	Step(x int32) int32
}

// newFilter constructs the concrete Filter for the given kind. Both
// implementations use only add/subtract/shift, per the no-multiply,
// no-floating-point constraint on the ADC ISR hot path.
func newFilter(kind FilterKind) Filter {
	switch kind {
	case FilterChebyshev:
		return &chebyshevFilter{}
	default:
		return &butterworthFilter{}
	}
}

type butterworthFilter struct {
	x [2]int32
	y [2]int32
}

func (f *butterworthFilter) Step(x int32) int32 {
	f.x[0], f.x[1] = f.x[1], x
	f.y[0] = f.y[1]
	f.y[1] = f.x[0] + f.x[1] + (f.y[0] >> 1) + (f.y[0] >> 3) + (f.y[0] >> 5)
	return f.y[1]
}

type chebyshevFilter struct {
	x [2]int32
	y [2]int32
}

func (f *chebyshevFilter) Step(x int32) int32 {
	f.x[0], f.x[1] = f.x[1], x
	f.y[0] = f.y[1]
	f.y[1] = f.x[0] + f.x[1] + (f.y[0] >> 1)
	return f.y[1]
}

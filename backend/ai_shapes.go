package main

// Shape is a recognized stone formation, ordered from most to least severe.
type Shape int

const (
	ShapeConnectSix Shape = iota
	ShapeLiveFive
	ShapeSleepingFive
	ShapeLiveFour
	ShapeSleepingFour
	ShapeLiveThree
	ShapeBlurredThree
	ShapeSleepingThree
	ShapeLiveTwo
	ShapeSleepingTwo
	ShapeNone
)

// winLength is the number of aligned stones that ends the game.
const winLength = 6

func (s Shape) String() string {
	switch s {
	case ShapeConnectSix:
		return "connect-six"
	case ShapeLiveFive:
		return "live-five"
	case ShapeSleepingFive:
		return "sleeping-five"
	case ShapeLiveFour:
		return "live-four"
	case ShapeSleepingFour:
		return "sleeping-four"
	case ShapeLiveThree:
		return "live-three"
	case ShapeBlurredThree:
		return "blurred-three"
	case ShapeSleepingThree:
		return "sleeping-three"
	case ShapeLiveTwo:
		return "live-two"
	case ShapeSleepingTwo:
		return "sleeping-two"
	default:
		return "none"
	}
}

func (s ShapeScores) Score(shape Shape) int {
	switch shape {
	case ShapeConnectSix:
		return s.ConnectSix
	case ShapeLiveFive:
		return s.LiveFive
	case ShapeSleepingFive:
		return s.SleepingFive
	case ShapeLiveFour:
		return s.LiveFour
	case ShapeSleepingFour:
		return s.SleepingFour
	case ShapeLiveThree:
		return s.LiveThree
	case ShapeBlurredThree:
		return s.BlurredThree
	case ShapeSleepingThree:
		return s.SleepingThree
	case ShapeLiveTwo:
		return s.LiveTwo
	case ShapeSleepingTwo:
		return s.SleepingTwo
	default:
		return 0
	}
}

// sideScan is what one direction of an axis looks like from the origin run:
// the first empty stretch, and when that stretch is a single cell, the own
// stones behind it and the empty stretch after those.
type sideScan struct {
	gap  int
	run2 int
	gap2 int
}

func (s sideScan) closed() bool {
	return s.gap == 0
}

// reach counts every cell the pattern could still grow into.
func reach(run int, a, b sideScan) int {
	return run + a.run2 + b.run2 + a.gap + a.gap2 + b.gap + b.gap2
}

// classifyShape is the two-level classifier used for candidate values. run is
// the origin run including the origin cell.
func classifyShape(run int, a, b sideScan) Shape {
	switch {
	case run >= winLength:
		return ShapeConnectSix
	case run == 5:
		if a.gap > 0 && b.gap > 0 {
			return ShapeLiveFive
		}
		if a.closed() != b.closed() {
			return ShapeSleepingFive
		}
	case run == 4:
		if a.gap > 1 && b.gap > 1 {
			return ShapeLiveFour
		}
		if (a.closed() && b.gap > 1) || (b.closed() && a.gap > 1) {
			return ShapeSleepingFour
		}
	case run == 3:
		if a.gap > 2 && b.gap > 2 {
			return ShapeLiveThree
		}
		if (a.closed() && b.gap > 3) || (b.closed() && a.gap > 3) {
			return ShapeSleepingThree
		}
	case run == 2:
		if a.gap > 3 && b.gap > 3 {
			return ShapeLiveTwo
		}
		if (a.closed() && b.gap > 3) || (b.closed() && a.gap > 3) {
			return ShapeSleepingTwo
		}
		if splitTwo(a, b) || splitTwo(b, a) {
			return ShapeBlurredThree
		}
	case run == 1:
		if splitSingle(a, b) || splitSingle(b, a) {
			return ShapeBlurredThree
		}
	}
	return ShapeNone
}

// splitTwo matches .XX.X.. read from the pair toward far.
func splitTwo(far, near sideScan) bool {
	return far.gap == 1 && far.run2 == 1 && far.gap2 == 2 && near.gap == 1
}

// splitSingle matches ..X.XX. around a lone stone.
func splitSingle(open, split sideScan) bool {
	return open.gap == 2 && split.gap == 1 && split.run2 == 2 && split.gap2 == 1
}

// classifyLineRun is the one-level classifier used by the static evaluator.
// It only sees the run and the open space on both ends, so every shape that
// is open on both sides collapses to the live shape of its length.
func classifyLineRun(run, spaceA, spaceB int) Shape {
	if run >= winLength {
		return ShapeConnectSix
	}
	if run < 2 || spaceA == 0 || spaceB == 0 {
		return ShapeNone
	}
	switch run {
	case 5:
		return ShapeLiveFive
	case 4:
		return ShapeLiveFour
	case 3:
		return ShapeLiveThree
	default:
		return ShapeLiveTwo
	}
}

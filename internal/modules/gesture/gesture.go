// Package gesture reads a coarse hand shape from the 21 MediaPipe hand
// landmarks the camera client sends.
package gesture

// Point is one landmark in normalized image coordinates; y grows downward.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

type Gesture string

const (
	Fist    Gesture = "Fist"
	One     Gesture = "One"
	Two     Gesture = "Two"
	Three   Gesture = "Three"
	Four    Gesture = "Four"
	Five    Gesture = "Five"
	Unknown Gesture = "Unknown"
)

// Landmarks is the count MediaPipe Hands reports per hand.
const Landmarks = 21

// confidence is fixed; the classifier has no probabilistic output.
const confidence = 0.8

var (
	tips = [5]int{4, 8, 12, 16, 20}
	pips = [5]int{3, 6, 10, 14, 18}

	byCount = [6]Gesture{Fist, One, Two, Three, Four, Five}
)

type Result struct {
	Gesture    Gesture `json:"gesture"`
	Extended   int     `json:"extendedFingers"`
	Confidence float64 `json:"confidence"`
}

// Count returns how many fingers have their tip above the middle joint.
// It returns -1 when the hand is incomplete.
func Count(hand []Point) int {
	if len(hand) < Landmarks {
		return -1
	}
	n := 0
	for i := range tips {
		if hand[tips[i]].Y < hand[pips[i]].Y {
			n++
		}
	}
	return n
}

func Classify(hand []Point) Result {
	n := Count(hand)
	if n < 0 {
		return Result{Gesture: Unknown, Extended: 0, Confidence: 0}
	}
	return Result{Gesture: byCount[n], Extended: n, Confidence: confidence}
}

// ClassifyAll handles frames with more than one hand.
func ClassifyAll(hands [][]Point) []Result {
	out := make([]Result, 0, len(hands))
	for _, h := range hands {
		out = append(out, Classify(h))
	}
	return out
}

package gesture

import "testing"

// hand builds a landmark set with the first n fingers extended.
func hand(n int) []Point {
	pts := make([]Point, Landmarks)
	for i := range pts {
		pts[i] = Point{X: 0.5, Y: 0.5}
	}
	for i := range tips {
		if i < n {
			pts[tips[i]].Y = 0.2
		} else {
			pts[tips[i]].Y = 0.8
		}
	}
	return pts
}

func TestClassify(t *testing.T) {
	cases := []struct {
		n    int
		want Gesture
	}{
		{0, Fist}, {1, One}, {2, Two}, {3, Three}, {4, Four}, {5, Five},
	}
	for _, tc := range cases {
		t.Run(string(tc.want), func(t *testing.T) {
			got := Classify(hand(tc.n))
			if got.Gesture != tc.want || got.Extended != tc.n {
				t.Fatalf("Classify(%d fingers)=%+v, want %s", tc.n, got, tc.want)
			}
		})
	}
}

func TestClassifyIncompleteHand(t *testing.T) {
	got := Classify(hand(5)[:20])
	if got.Gesture != Unknown || got.Confidence != 0 {
		t.Fatalf("Classify(20 landmarks)=%+v, want Unknown", got)
	}
}

func TestClassifyAll(t *testing.T) {
	got := ClassifyAll([][]Point{hand(2), nil})
	if len(got) != 2 || got[0].Gesture != Two || got[1].Gesture != Unknown {
		t.Fatalf("ClassifyAll=%+v", got)
	}
}

package main

import "testing"

func TestClassifyShape(t *testing.T) {
	open := func(gap int) sideScan { return sideScan{gap: gap} }
	cases := []struct {
		name string
		run  int
		a, b sideScan
		want Shape
	}{
		{"six", 6, open(0), open(0), ShapeConnectSix},
		{"seven", 7, open(3), open(0), ShapeConnectSix},
		{"live five", 5, open(1), open(1), ShapeLiveFive},
		{"sleeping five", 5, open(0), open(2), ShapeSleepingFive},
		{"dead five", 5, open(0), open(0), ShapeNone},
		{"live four", 4, open(2), open(2), ShapeLiveFour},
		{"sleeping four", 4, open(0), open(3), ShapeSleepingFour},
		{"cramped four", 4, open(1), open(1), ShapeNone},
		{"live three", 3, open(3), open(3), ShapeLiveThree},
		{"sleeping three", 3, open(4), open(0), ShapeSleepingThree},
		{"live two", 2, open(4), open(4), ShapeLiveTwo},
		{"sleeping two", 2, open(0), open(5), ShapeSleepingTwo},
		{"blurred pair", 2, sideScan{gap: 1, run2: 1, gap2: 2}, open(1), ShapeBlurredThree},
		{"blurred single", 1, open(2), sideScan{gap: 1, run2: 2, gap2: 1}, ShapeBlurredThree},
		{"single", 1, open(5), open(5), ShapeNone},
	}
	for _, tc := range cases {
		if got := classifyShape(tc.run, tc.a, tc.b); got != tc.want {
			t.Fatalf("%s: expected %s, got %s", tc.name, tc.want, got)
		}
	}
}

func TestClassifyLineRun(t *testing.T) {
	cases := []struct {
		run, spaceA, spaceB int
		want                Shape
	}{
		{6, 0, 0, ShapeConnectSix},
		{5, 1, 1, ShapeLiveFive},
		{4, 1, 3, ShapeLiveFour},
		{4, 0, 3, ShapeNone},
		{3, 2, 2, ShapeLiveThree},
		{2, 2, 2, ShapeLiveTwo},
		{1, 3, 3, ShapeNone},
	}
	for _, tc := range cases {
		if got := classifyLineRun(tc.run, tc.spaceA, tc.spaceB); got != tc.want {
			t.Fatalf("run=%d a=%d b=%d: expected %s, got %s", tc.run, tc.spaceA, tc.spaceB, tc.want, got)
		}
	}
}

func TestShapeScoresAreOrdered(t *testing.T) {
	scores := DefaultShapeScores()
	if scores.Score(ShapeNone) != 0 {
		t.Fatalf("expected none to score 0")
	}
	for s := ShapeConnectSix; s < ShapeSleepingThree; s++ {
		if scores.Score(s) < scores.Score(s+1) {
			t.Fatalf("expected %s to score at least %s", s, s+1)
		}
	}
	if scores.Score(ShapeConnectSix) != 500000 || scores.Score(ShapeBlurredThree) != 300 {
		t.Fatalf("unexpected default scores %+v", scores)
	}
}

package game

import "testing"

func TestSelectTargetPrefersApproachingToken(t *testing.T) {
	right := newPaddle(SideRight)
	tokens := []*Token{
		{ID: 1, Pos: NewVec2(500, 50), Vel: NewVec2(2, 0)},
		{ID: 2, Pos: NewVec2(750, 10), Vel: NewVec2(-2, 0)},
	}
	if got := SelectTarget(tokens, right); got != 50 {
		t.Errorf("target = %.0f, want 50 (approaching token)", got)
	}
}

func TestSelectTargetClosestApproaching(t *testing.T) {
	right := newPaddle(SideRight)
	tokens := []*Token{
		{ID: 1, Pos: NewVec2(300, 80), Vel: NewVec2(5, 0)},
		{ID: 2, Pos: NewVec2(650, 320), Vel: NewVec2(1, 0)},
	}
	if got := SelectTarget(tokens, right); got != 320 {
		t.Errorf("target = %.0f, want 320", got)
	}
}

func TestSelectTargetFallsBackToNearest(t *testing.T) {
	right := newPaddle(SideRight)
	tokens := []*Token{
		{ID: 1, Pos: NewVec2(300, 100), Vel: NewVec2(-1, 0)},
		{ID: 2, Pos: NewVec2(700, 400), Vel: NewVec2(-1, 0)},
	}
	if got := SelectTarget(tokens, right); got != 400 {
		t.Errorf("target = %.0f, want 400 (nearest)", got)
	}
}

func TestSelectTargetIgnoresTokenPastPaddle(t *testing.T) {
	right := newPaddle(SideRight)
	tokens := []*Token{
		{ID: 1, Pos: NewVec2(right.X+27, 400), Vel: NewVec2(3, 0)},
		{ID: 2, Pos: NewVec2(right.X-8, 100), Vel: NewVec2(-2, 0)},
	}
	if got := SelectTarget(tokens, right); got != 100 {
		t.Errorf("target = %.0f, want 100 (nearest, the passed token is not approaching)", got)
	}
}

func TestSelectTargetEmptyField(t *testing.T) {
	if got := SelectTarget(nil, newPaddle(SideRight)); got != FieldHeight/2 {
		t.Errorf("target = %.0f, want %.0f", got, float64(FieldHeight/2))
	}
}

func TestAIStopsOnTarget(t *testing.T) {
	w, _, _ := newTestWorld()
	w.AIEnabled = true
	addToken(w, 1, NewVec2(600, 252), NewVec2(1, 0), MarkX, false)

	w.Step(Frame)

	if w.Right.Y != 202 {
		t.Errorf("right.Y = %.2f, want 202 without overshoot", w.Right.Y)
	}
}

func TestAISpeedCappedAndClamped(t *testing.T) {
	w, _, _ := newTestWorld()
	w.AIEnabled = true
	addToken(w, 1, NewVec2(600, 450), NewVec2(1, 0), MarkX, false)

	w.Step(Frame)
	if w.Right.Y != 200+w.Right.Speed {
		t.Errorf("right.Y = %.2f after one step, want %.2f", w.Right.Y, 200+w.Right.Speed)
	}

	stepN(w, 40)
	if w.Right.Y != FieldHeight-w.Right.H {
		t.Errorf("right.Y = %.2f, want clamped at %.0f", w.Right.Y, FieldHeight-w.Right.H)
	}
}

func TestAIIgnoresHumanInputForRightPaddle(t *testing.T) {
	w, _, _ := newTestWorld()
	w.AIEnabled = true
	addToken(w, 1, NewVec2(600, 250), NewVec2(1, 0), MarkX, false)
	w.SetIntent(SideRight, -1)

	stepN(w, 10)

	if w.Right.Y != 200 {
		t.Errorf("right.Y = %.2f, want AI to hold 200", w.Right.Y)
	}
}

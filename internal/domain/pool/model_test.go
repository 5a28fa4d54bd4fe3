package pool

import "testing"

func TestRuleSet_Score_TierPrecedence(t *testing.T) {
	t.Parallel()

	rules := RuleSet{ExactPoints: 5, DiffPoints: 3, SignPoints: 1}

	tests := []struct {
		name                 string
		predHome, predAway   int
		actualHome, actualAway int
		want                 int
	}{
		{"exact score", 3, 2, 3, 2, 5},
		{"same margin beats same sign", 2, 1, 3, 2, 3},
		{"same sign only", 1, 0, 4, 1, 1},
		{"draw margin is exclusive with exact", 1, 1, 2, 2, 3},
		{"wrong outcome", 2, 0, 0, 1, 0},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := rules.Score(tc.predHome, tc.predAway, tc.actualHome, tc.actualAway)
			if got != tc.want {
				t.Fatalf("score %d-%d vs %d-%d: got=%d want=%d",
					tc.predHome, tc.predAway, tc.actualHome, tc.actualAway, got, tc.want)
			}
		})
	}
}

func TestRuleSet_Validate(t *testing.T) {
	t.Parallel()

	if err := (RuleSet{ExactPoints: 5, DiffPoints: 3, SignPoints: 1}).Validate(); err != nil {
		t.Fatalf("valid rule set rejected: %v", err)
	}
	if err := (RuleSet{ExactPoints: -1}).Validate(); err == nil {
		t.Fatalf("negative weight must be rejected")
	}
	if err := (RuleSet{Rounds: &RoundRange{Start: 10, End: 4}}).Validate(); err == nil {
		t.Fatalf("inverted round range must be rejected")
	}
	if err := (RuleSet{Rounds: &RoundRange{Start: 0, End: 4}}).Validate(); err == nil {
		t.Fatalf("zero round must be rejected")
	}
}

func TestRuleSet_InScope(t *testing.T) {
	t.Parallel()

	unfiltered := RuleSet{}
	if !unfiltered.InScope(38) {
		t.Fatalf("unfiltered pool must score every round")
	}

	filtered := RuleSet{Rounds: &RoundRange{Start: 5, End: 10}}
	if filtered.InScope(4) || filtered.InScope(11) {
		t.Fatalf("rounds outside the filter must be out of scope")
	}
	if !filtered.InScope(5) || !filtered.InScope(10) {
		t.Fatalf("filter bounds are inclusive")
	}
}

// Package scoring compares a predicted multi-agent plan to its reference
// plan. Robot selection is a binary gate; the action plan is scored along
// four sub-metrics combined into a weighted planning score; the task total
// blends the two. All functions are pure and safe to call from any number of
// goroutines.
package scoring

import (
	"strings"

	"github.com/viki-bench/planeval/internal/models"
)

// Sub-metric weights for the action planning score.
const (
	WeightStepMatch       = 0.4
	WeightPrefixMatch     = 0.3
	WeightActionTypeMatch = 0.2
	WeightLengthRatio     = 0.1
)

// Weight of each component in the task total.
const (
	WeightRobotSelection = 0.1
	WeightActionPlanning = 0.9
)

// PlanScores holds the four sub-metrics and their weighted combination, all
// in [0, 1].
type PlanScores struct {
	StepMatch       float64
	PrefixMatch     float64
	ActionTypeMatch float64
	LengthRatio     float64
	Overall         float64
}

// ScoreSelection returns 1.0 iff the predicted robot set exactly equals the
// reference set, otherwise 0.0. Selection is a correctness gate: an
// over-inclusive or incomplete team is a qualitatively different plan, so
// there is no partial credit.
func ScoreSelection(reference, predicted models.RobotSet) float64 {
	if reference.Equal(predicted) {
		return 1.0
	}
	return 0.0
}

// ScorePlan compares a predicted plan against a reference plan. The
// reference must be non-empty (the normalizer guarantees this); an empty
// prediction is valid input and scores zero on every sub-metric.
func ScorePlan(reference, predicted models.ActionPlan) PlanScores {
	lr := reference.Len()
	lp := predicted.Len()
	if lp == 0 {
		return PlanScores{}
	}

	m := min(lr, lp)

	stepHits := 0
	typeHits := 0
	prefixLen := 0
	prefixBroken := false
	for i := 0; i < m; i++ {
		ref := reference.Steps[i]
		pred := predicted.Steps[i]

		hit := stepEqual(ref, pred, false)
		if hit {
			stepHits++
		}
		if stepEqual(ref, pred, true) {
			typeHits++
		}
		if !prefixBroken && hit {
			prefixLen++
		} else {
			prefixBroken = true
		}
	}

	scores := PlanScores{
		StepMatch:       float64(stepHits) / float64(lr),
		PrefixMatch:     float64(prefixLen) / float64(lr),
		ActionTypeMatch: float64(typeHits) / float64(lr),
		LengthRatio:     float64(min(lr, lp)) / float64(max(lr, lp)),
	}
	scores.Overall = clamp01(WeightStepMatch*scores.StepMatch +
		WeightPrefixMatch*scores.PrefixMatch +
		WeightActionTypeMatch*scores.ActionTypeMatch +
		WeightLengthRatio*scores.LengthRatio)
	return scores
}

// ScoreTask produces the full ScoreRecord for one task. Deterministic and
// idempotent: the same TaskRecord always yields an identical record.
func ScoreTask(task models.TaskRecord) models.ScoreRecord {
	selection := ScoreSelection(task.ReferenceRobots, task.PredictedRobots)
	plan := ScorePlan(task.ReferencePlan, task.PredictedPlan)

	return models.ScoreRecord{
		TaskID:          task.TaskID,
		RobotSelection:  selection,
		StepMatch:       plan.StepMatch,
		PrefixMatch:     plan.PrefixMatch,
		ActionTypeMatch: plan.ActionTypeMatch,
		LengthRatio:     plan.LengthRatio,
		ActionPlanning:  plan.Overall,
		Total:           clamp01(WeightRobotSelection*selection + WeightActionPlanning*plan.Overall),
	}
}

// stepEqual compares two steps as unordered sets of (robot, action-type,
// target) triples, or (robot, action-type) pairs when typeOnly is set. The
// per-step robot mapping has no meaningful iteration order, so comparison
// never depends on it.
func stepEqual(ref, pred models.Step, typeOnly bool) bool {
	if len(ref.Actions) != len(pred.Actions) {
		return false
	}
	refKeys := make(map[string]int, len(ref.Actions))
	for robot, action := range ref.Actions {
		refKeys[actionKey(robot, action, typeOnly)]++
	}
	for robot, action := range pred.Actions {
		key := actionKey(robot, action, typeOnly)
		if refKeys[key] == 0 {
			return false
		}
		refKeys[key]--
	}
	return true
}

func actionKey(robot string, action models.Action, typeOnly bool) string {
	if typeOnly {
		return robot + "\x1f" + action.Type
	}
	return robot + "\x1f" + action.Type + "\x1f" + canonTarget(action.Target)
}

// canonTarget folds case and collapses whitespace runs, so "Dining Table"
// and "dining  table" compare equal while reports keep the original text.
func canonTarget(target string) string {
	return strings.Join(strings.Fields(strings.ToLower(target)), " ")
}

// clamp01 pins accumulated floating-point drift back into [0, 1]; a perfect
// plan must land on exactly 1.0 for the report's singleton bucket.
func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

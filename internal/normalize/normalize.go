// Package normalize canonicalizes raw plan records before scoring: robot
// identifiers and action types are lower-cased and trimmed, step indices are
// made contiguous, and structural violations are either surfaced (reference
// records) or repaired best-effort (predicted records, which come from an
// untrusted planner).
package normalize

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/viki-bench/planeval/internal/models"
)

// MalformedPlanError reports a plan that fails structural invariants: an
// empty robot set, an unparsable action entry, or broken step ordering.
type MalformedPlanError struct {
	TaskID string
	Reason string
}

func (e *MalformedPlanError) Error() string {
	if e.TaskID == "" {
		return fmt.Sprintf("malformed plan: %s", e.Reason)
	}
	return fmt.Sprintf("malformed plan for task %q: %s", e.TaskID, e.Reason)
}

// Task builds a TaskRecord from one evaluation-file entry. A malformed
// reference record returns a *MalformedPlanError and the task must be
// excluded from aggregation. A malformed (or absent) predicted record is
// degraded to its best-effort interpretable subset instead; scoring then
// proceeds and naturally produces a low score.
func Task(in models.TaskInput) (models.TaskRecord, error) {
	taskID := in.TaskID
	if taskID == "" {
		taskID = in.Reference.TaskID
	}

	refRobots, refPlan, err := Reference(taskID, in.Reference)
	if err != nil {
		return models.TaskRecord{}, err
	}

	var predRobots models.RobotSet
	var predPlan models.ActionPlan
	if in.Predicted != nil {
		predRobots, predPlan = Predicted(taskID, *in.Predicted)
	} else {
		predRobots = models.RobotSet{}
	}

	return models.TaskRecord{
		TaskID:          taskID,
		Instruction:     in.Instruction,
		ReferenceRobots: refRobots,
		ReferencePlan:   refPlan,
		PredictedRobots: predRobots,
		PredictedPlan:   predPlan,
	}, nil
}

// Reference normalizes a ground-truth record. Every structural violation is
// fatal here: ground truth is supposed to be well-formed, and silently
// repairing it would let a data error masquerade as a model failure.
func Reference(taskID string, rec models.PlanRecord) (models.RobotSet, models.ActionPlan, error) {
	robots := models.NewRobotSet(rec.RobotSelection)
	if len(robots) == 0 {
		return nil, models.ActionPlan{}, &MalformedPlanError{TaskID: taskID, Reason: "reference robot set is empty"}
	}
	if len(rec.ActionPlan) == 0 {
		return nil, models.ActionPlan{}, &MalformedPlanError{TaskID: taskID, Reason: "reference action plan is empty"}
	}

	steps := make([]models.Step, 0, len(rec.ActionPlan))
	prevIndex := 0
	for i, raw := range rec.ActionPlan {
		if raw.Step <= prevIndex {
			return nil, models.ActionPlan{}, &MalformedPlanError{
				TaskID: taskID,
				Reason: fmt.Sprintf("reference step indices not strictly increasing at position %d (step %d after %d)", i+1, raw.Step, prevIndex),
			}
		}
		prevIndex = raw.Step

		actions := make(map[string]models.Action, len(raw.Actions))
		for robot, entry := range raw.Actions {
			robotID := strings.ToLower(strings.TrimSpace(robot))
			if !robots.Contains(robotID) {
				warnOrphan(taskID, "reference", i+1, robotID)
				continue
			}
			action, ok := parseAction(entry)
			if !ok {
				return nil, models.ActionPlan{}, &MalformedPlanError{
					TaskID: taskID,
					Reason: fmt.Sprintf("reference step %d has unparsable action entry for robot %q", i+1, robotID),
				}
			}
			actions[robotID] = action
		}
		if len(actions) == 0 {
			// A gap in the reference plan is a data error, not something to
			// compact around.
			return nil, models.ActionPlan{}, &MalformedPlanError{
				TaskID: taskID,
				Reason: fmt.Sprintf("reference step %d is empty after orphan removal", i+1),
			}
		}
		steps = append(steps, models.Step{Index: len(steps) + 1, Actions: actions})
	}

	return robots, models.ActionPlan{Steps: steps}, nil
}

// Predicted normalizes a model-output record best-effort: orphaned robot
// entries and unparsable action entries are dropped with a warning, steps
// that end up empty are removed, and the surviving steps are re-indexed to a
// contiguous 1..N sequence in the order supplied.
func Predicted(taskID string, rec models.PlanRecord) (models.RobotSet, models.ActionPlan) {
	robots := models.NewRobotSet(rec.RobotSelection)

	steps := make([]models.Step, 0, len(rec.ActionPlan))
	for i, raw := range rec.ActionPlan {
		actions := make(map[string]models.Action, len(raw.Actions))
		for robot, entry := range raw.Actions {
			robotID := strings.ToLower(strings.TrimSpace(robot))
			if !robots.Contains(robotID) {
				warnOrphan(taskID, "predicted", i+1, robotID)
				continue
			}
			action, ok := parseAction(entry)
			if !ok {
				slog.Warn("dropping unparsable action entry",
					"task_id", taskID,
					"plan", "predicted",
					"step", i+1,
					"robot", robotID)
				continue
			}
			actions[robotID] = action
		}
		if len(actions) == 0 {
			continue
		}
		steps = append(steps, models.Step{Index: len(steps) + 1, Actions: actions})
	}

	return robots, models.ActionPlan{Steps: steps}
}

// parseAction interprets an [action_type, target] entry. A lone action type
// is accepted with an empty target; extra elements fold into the target,
// which some datasets use for comma-bearing object names.
func parseAction(entry []string) (models.Action, bool) {
	if len(entry) == 0 {
		return models.Action{}, false
	}
	actionType := strings.ToLower(strings.TrimSpace(entry[0]))
	if actionType == "" {
		return models.Action{}, false
	}
	target := strings.TrimSpace(strings.Join(entry[1:], ","))
	return models.Action{Type: actionType, Target: target}, true
}

func warnOrphan(taskID, plan string, step int, robotID string) {
	slog.Warn("dropping robot entry not in the plan's robot set",
		"task_id", taskID,
		"plan", plan,
		"step", step,
		"robot", robotID)
}

package models

import (
	"sort"
	"strings"
)

// RobotSet is the set of robot identifiers participating in a plan.
// Identifiers are stored lower-cased and trimmed; membership tests and
// equality are therefore case-insensitive by construction.
type RobotSet map[string]struct{}

// NewRobotSet builds a RobotSet from raw selection entries. Nil entries and
// entries that are empty after trimming are filtered out, matching the
// reference-record convention where unused robot slots are null.
func NewRobotSet(entries []*string) RobotSet {
	set := make(RobotSet, len(entries))
	for _, e := range entries {
		if e == nil {
			continue
		}
		id := strings.ToLower(strings.TrimSpace(*e))
		if id == "" {
			continue
		}
		set[id] = struct{}{}
	}
	return set
}

// Contains reports whether the given identifier is a member. The identifier
// is folded the same way the set members were.
func (s RobotSet) Contains(id string) bool {
	_, ok := s[strings.ToLower(strings.TrimSpace(id))]
	return ok
}

// Equal reports exact set equality: same members, no extras, no omissions.
func (s RobotSet) Equal(other RobotSet) bool {
	if len(s) != len(other) {
		return false
	}
	for id := range s {
		if _, ok := other[id]; !ok {
			return false
		}
	}
	return true
}

// Sorted returns the members in lexical order, for deterministic reporting.
func (s RobotSet) Sorted() []string {
	ids := make([]string, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Action is one assignment of an action type to a target. Type is stored
// lower-cased; Target keeps its original casing (trimmed) so reports show
// what the plan actually said, and comparisons fold case separately.
type Action struct {
	Type   string `json:"type"`
	Target string `json:"target"`
}

// Step is one time step of a plan: a 1-based index and the concurrent
// robot-to-action assignments for that step.
type Step struct {
	Index   int               `json:"step"`
	Actions map[string]Action `json:"actions"`
}

// ActionPlan is an ordered sequence of steps. Indices are contiguous 1..N
// after normalization.
type ActionPlan struct {
	Steps []Step `json:"steps"`
}

// Len returns the number of steps.
func (p ActionPlan) Len() int { return len(p.Steps) }

// TaskRecord pairs the ground-truth and predicted sides of one evaluation
// item. It is constructed once by the normalizer and read-only afterwards.
type TaskRecord struct {
	TaskID          string
	Instruction     string
	ReferenceRobots RobotSet
	ReferencePlan   ActionPlan
	PredictedRobots RobotSet
	PredictedPlan   ActionPlan
}

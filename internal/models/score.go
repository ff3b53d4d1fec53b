package models

// ScoreRecord is the immutable per-task scoring output. All fields are in
// [0, 1]; RobotSelection is binary.
type ScoreRecord struct {
	TaskID          string  `json:"task_id"`
	RobotSelection  float64 `json:"robot_selection_score"`
	StepMatch       float64 `json:"step_match"`
	PrefixMatch     float64 `json:"prefix_match"`
	ActionTypeMatch float64 `json:"action_type_match"`
	LengthRatio     float64 `json:"length_ratio"`
	ActionPlanning  float64 `json:"action_planning_score"`
	Total           float64 `json:"total_score"`
}

// DataError records a task that was excluded from aggregation because its
// reference record failed structural validation. Kept separate from scored
// tasks so a broken ground truth is never conflated with a bad prediction.
type DataError struct {
	TaskID string `json:"task_id"`
	Reason string `json:"reason"`
}

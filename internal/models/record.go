package models

// PlanRecord is the wire shape of one side of a task (ground truth or model
// output) as delivered by the data collaborator. Robot selection entries are
// nullable: ground-truth files pad unused robot slots with null.
type PlanRecord struct {
	TaskID         string    `json:"task_id,omitempty"`
	RobotSelection []*string `json:"robot_selection"`
	ActionPlan     []RawStep `json:"action_plan"`
}

// RawStep is one un-normalized plan step. Each actions entry maps a robot
// identifier to an [action_type, target] pair.
type RawStep struct {
	Step    int                 `json:"step"`
	Actions map[string][]string `json:"actions"`
}

// TaskInput is one entry of an evaluation file: the instruction plus the
// reference and predicted records for a single task.
type TaskInput struct {
	TaskID      string      `json:"task_id"`
	Instruction string      `json:"instruction,omitempty"`
	Reference   PlanRecord  `json:"reference"`
	Predicted   *PlanRecord `json:"predicted"`
}

package entity

// TaskEvaluation is a reviewer's verdict on a task output.
type TaskEvaluation struct {
	Quality     float64  `json:"quality"`
	Suggestions []string `json:"suggestions"`
	Feedback    string   `json:"feedback"`
}

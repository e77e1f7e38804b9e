package entity

import "time"

type MemoryItem struct {
	RunID     string
	TaskName  string
	Role      string
	Content   string
	Embedding []float32
	// Quality is the evaluator score in [0, 10]; zero when the output was not evaluated.
	Quality     float64
	Suggestions []string
	CreatedAt   time.Time
}

type MemoryMatch struct {
	Item  MemoryItem
	Score float64
}

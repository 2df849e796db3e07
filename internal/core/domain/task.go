package domain

import "time"

// Task is a work item shown on the MCI board.
type Task struct {
	ID          string     `json:"_id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Meta        string     `json:"meta,omitempty"`
	Status      string     `json:"status,omitempty"`
	Order       int        `json:"order"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
}

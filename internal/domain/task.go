package domain

import "time"

const (
	TaskStatusOpen       = "open"
	TaskStatusInProgress = "in_progress"
	TaskStatusDone       = "done"
)

type Task struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Status      string     `json:"status"` // "open", "in_progress", "done"
	CategoryID  string     `json:"category_id,omitempty"`
	AssigneeID  string     `json:"assignee_id,omitempty"`
	CreatedBy   string     `json:"created_by"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// ValidTaskStatus indica si el estado pertenece al dominio permitido.
func ValidTaskStatus(status string) bool {
	switch status {
	case TaskStatusOpen, TaskStatusInProgress, TaskStatusDone:
		return true
	}
	return false
}

package model

import "time"

type SubtaskStatus string

const (
	StatusBacklog    SubtaskStatus = "Backlog"
	StatusInProgress SubtaskStatus = "In Progress"
	StatusInReview   SubtaskStatus = "In Review"
	StatusDone       SubtaskStatus = "Done"
)

// KanbanColumns lists the subtask statuses in board order.
var KanbanColumns = []SubtaskStatus{StatusBacklog, StatusInProgress, StatusInReview, StatusDone}

func (s SubtaskStatus) Valid() bool {
	for _, col := range KanbanColumns {
		if s == col {
			return true
		}
	}
	return false
}

type Resource struct {
	Label string `bson:"label" json:"label"`
	URL   string `bson:"url" json:"url"`
}

type Subtask struct {
	ID     string        `bson:"id" json:"id"`
	Title  string        `bson:"title" json:"title"`
	Status SubtaskStatus `bson:"status" json:"status"`
}

// Goal embeds its resources and subtasks, so removing the goal document
// removes them with it.
type Goal struct {
	ID          string     `bson:"_id,omitempty" json:"id"`
	UserID      string     `bson:"user_id" json:"user_id"`
	Title       string     `bson:"title" json:"title"`
	Description string     `bson:"description,omitempty" json:"description,omitempty"`
	StartDate   time.Time  `bson:"start_date" json:"start_date"`
	DueDate     time.Time  `bson:"due_date" json:"due_date"`
	Category    string     `bson:"category,omitempty" json:"category,omitempty"`
	Resources   []Resource `bson:"resources" json:"resources"`
	Subtasks    []Subtask  `bson:"subtasks" json:"subtasks"`
	CreatedAt   time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `bson:"updated_at" json:"updated_at"`
}

func (g *Goal) FindSubtask(id string) *Subtask {
	for i := range g.Subtasks {
		if g.Subtasks[i].ID == id {
			return &g.Subtasks[i]
		}
	}
	return nil
}

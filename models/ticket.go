package models

import "time"

// TicketStatus is one of the three board columns.
type TicketStatus string

const (
	StatusTodo       TicketStatus = "todo"
	StatusInProgress TicketStatus = "in-progress"
	StatusDone       TicketStatus = "done"
)

// TicketStatuses lists the workflow columns in board order.
func TicketStatuses() []TicketStatus {
	return []TicketStatus{StatusTodo, StatusInProgress, StatusDone}
}

func ParseTicketStatus(s string) (TicketStatus, bool) {
	st := TicketStatus(s)
	switch st {
	case StatusTodo, StatusInProgress, StatusDone:
		return st, true
	}
	return "", false
}

func (s TicketStatus) Label() string {
	switch s {
	case StatusTodo:
		return "To-Do"
	case StatusInProgress:
		return "In Progress"
	case StatusDone:
		return "Done"
	}
	return string(s)
}

func (s TicketStatus) Color() string {
	switch s {
	case StatusTodo:
		return "hsl(185 100% 50%)"
	case StatusInProgress:
		return "hsl(35 90% 55%)"
	case StatusDone:
		return "hsl(145 70% 50%)"
	}
	return "hsl(0 0% 60%)"
}

// DefaultTags are the tag suggestions offered by the ticket editor.
var DefaultTags = []string{
	"integration",
	"feature",
	"partnership",
	"research",
	"marketing",
	"technical",
	"urgent",
	"low-effort",
}

// DueDateLayout is the calendar date format of Ticket.DueDate.
const DueDateLayout = "2006-01-02"

// Ticket is a tracked unit of work, optionally converted from an action.
// Timestamps are set by the ticket store, never by gorm.
type Ticket struct {
	ID             string       `json:"id" gorm:"primaryKey"`
	Title          string       `json:"title"`
	Description    string       `json:"description"`
	Scores         `gorm:"embedded"`
	ActionType     ActionType   `json:"actionType" gorm:"index"`
	Tags           []string     `json:"tags" gorm:"serializer:json"`
	DueDate        *string      `json:"dueDate"`
	Status         TicketStatus `json:"status" gorm:"index;not null"`
	CreatedAt      time.Time    `json:"createdAt" gorm:"autoCreateTime:false"`
	UpdatedAt      time.Time    `json:"updatedAt" gorm:"autoUpdateTime:false"`
	SourceActionID *string      `json:"sourceActionId,omitempty" gorm:"index"`
}

// TicketColumn is one column of the action board.
type TicketColumn struct {
	ID      TicketStatus `json:"id"`
	Title   string       `json:"title"`
	Tickets []Ticket     `json:"tickets"`
}

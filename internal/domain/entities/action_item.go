package entities

import (
	"time"

	"github.com/google/uuid"
)

// ActionItemPriority represents the urgency of an action item
type ActionItemPriority string

const (
	ActionItemPriorityHigh   ActionItemPriority = "high"
	ActionItemPriorityMedium ActionItemPriority = "medium"
	ActionItemPriorityLow    ActionItemPriority = "low"
)

var priorityRank = map[ActionItemPriority]int{
	ActionItemPriorityLow:    1,
	ActionItemPriorityMedium: 2,
	ActionItemPriorityHigh:   3,
}

// ValidPriority reports whether s is one of the three allowed priorities.
func ValidPriority(s string) bool {
	_, ok := priorityRank[ActionItemPriority(s)]
	return ok
}

// PriorityRank orders priorities low < medium < high. Unknown values rank 0.
func PriorityRank(s string) int {
	return priorityRank[ActionItemPriority(s)]
}

// ActionItem is a persisted action item extracted from a meeting.
// Rows are replaced wholesale whenever the meeting is re-summarized.
type ActionItem struct {
	ID        uuid.UUID          `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	MeetingID uuid.UUID          `json:"meeting_id" gorm:"type:uuid;not null;index"`
	Text      string             `json:"text" gorm:"type:text;not null"`
	Assignee  *string            `json:"assignee,omitempty" gorm:"type:varchar(255)"`
	DueDate   *time.Time         `json:"due_date,omitempty"`
	Priority  ActionItemPriority `json:"priority" gorm:"type:varchar(10);not null;default:'medium'"`
	CreatedAt time.Time          `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time          `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (ActionItem) TableName() string {
	return "action_items"
}

// NewActionItem creates a new action item
func NewActionItem(meetingID uuid.UUID, text string, priority ActionItemPriority) *ActionItem {
	return &ActionItem{
		ID:        uuid.New(),
		MeetingID: meetingID,
		Text:      text,
		Priority:  priority,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
}

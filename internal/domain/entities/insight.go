package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// InsightOutputSchema hints how a template's extracted content is shaped.
// The engine only guarantees the content is a JSON object; the schema is
// advisory for rendering clients.
type InsightOutputSchema string

const (
	InsightSchemaText  InsightOutputSchema = "text"
	InsightSchemaList  InsightOutputSchema = "list"
	InsightSchemaTable InsightOutputSchema = "table"
	InsightSchemaJSON  InsightOutputSchema = "json"
)

// ValidInsightSchema reports whether s is a known output schema.
func ValidInsightSchema(s string) bool {
	switch InsightOutputSchema(s) {
	case InsightSchemaText, InsightSchemaList, InsightSchemaTable, InsightSchemaJSON:
		return true
	}
	return false
}

// InsightTemplate is a named prompt configuration for extracting one
// specific structured fact set from a transcript. Built-in templates are
// seeded by migration; users may add their own.
type InsightTemplate struct {
	ID           string              `json:"id" gorm:"type:varchar(100);primary_key"`
	Name         string              `json:"name" gorm:"type:varchar(255);not null"`
	Description  string              `json:"description" gorm:"type:text"`
	PromptBody   string              `json:"prompt_body" gorm:"type:text;not null"`
	OutputSchema InsightOutputSchema `json:"output_schema" gorm:"type:varchar(20);not null;default:'json'"`
	BuiltIn      bool                `json:"built_in" gorm:"default:false"`
	CreatedAt    time.Time           `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt    time.Time           `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (InsightTemplate) TableName() string {
	return "insight_templates"
}

// InsightResult is one extraction produced by running a template against
// a meeting transcript. Content is opaque JSON shaped by the template.
type InsightResult struct {
	ID               uuid.UUID      `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	MeetingID        uuid.UUID      `json:"meeting_id" gorm:"type:uuid;not null;index"`
	TemplateID       string         `json:"template_id" gorm:"type:varchar(100);not null;index"`
	TemplateName     string         `json:"template_name" gorm:"type:varchar(255)"`
	Content          datatypes.JSON `json:"content" gorm:"type:jsonb;not null"`
	ModelUsed        string         `json:"model_used" gorm:"type:varchar(100)"`
	TokensUsed       int            `json:"tokens_used" gorm:"default:0"`
	ProcessingTimeMs int64          `json:"processing_time_ms" gorm:"default:0"`
	CreatedAt        time.Time      `json:"created_at" gorm:"autoCreateTime"`
}

// TableName specifies the table name for GORM
func (InsightResult) TableName() string {
	return "insight_results"
}

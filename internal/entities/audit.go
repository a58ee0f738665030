package entities

import "time"

// AuditAction names an inventory change recorded in the audit trail.
type AuditAction string

const (
	AuditActionBookCreated AuditAction = "book_created"
	AuditActionBookUpdated AuditAction = "book_updated"
	AuditActionBookDeleted AuditAction = "book_deleted"
	AuditActionCleanup     AuditAction = "audit_cleanup"
)

type AuditEvent struct {
	ID          uint        `gorm:"primaryKey" json:"id"`
	Action      AuditAction `gorm:"index;size:50" json:"action"`
	EntityType  string      `gorm:"size:50" json:"entity_type"`
	EntityID    *uint       `gorm:"index" json:"entity_id,omitempty"`
	ISBN        string      `gorm:"column:isbn;size:20" json:"isbn,omitempty"`
	Description string      `gorm:"size:500" json:"description"`
	// Metadata is a JSON snapshot of the book at the time of the event.
	Metadata    string      `gorm:"type:text" json:"metadata,omitempty"`
	CreatedAt   time.Time   `gorm:"index" json:"created_at"`
}

func (AuditEvent) TableName() string {
	return "audit_events"
}

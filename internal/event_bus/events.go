package event_bus

import (
	"time"

	"github.com/google/uuid"
)

const (
	CalendarEventSavedType   EventType = "calendar.event.saved"
	CalendarEventDeletedType EventType = "calendar.event.deleted"
	NotificationDueType      EventType = "notification.due"
)

type CalendarEventSaved struct {
	ID      uuid.UUID
	Title   string
	StartAt time.Time
	EndAt   time.Time
	// Created is false when an existing event was updated.
	Created bool
}

type CalendarEventDeleted struct {
	ID uuid.UUID
}

type NotificationDue struct {
	EventID      uuid.UUID
	OccurrenceID string
	Title        string
	// OccurrenceStart is the start of the occurrence the reminder belongs to.
	OccurrenceStart time.Time
	FireAt          time.Time
}

package activity

import (
	"strconv"
	"strings"
	"time"
)

// FormEventInput describes the common fields for form lifecycle events.
type FormEventInput struct {
	ActorID    string
	UserID     string
	TenantID   string
	SessionID  string
	Channel    string
	Recipients []string
	Metadata   map[string]any
	FieldName  string
	OldValue   any
	NewValue   any
	LotName    string
	LotIndex   int
	SourceLot  int
	TargetLot  int
	OccurredAt time.Time
}

// BuildFieldSetEvent constructs an activity event for a field write.
func BuildFieldSetEvent(input FormEventInput) Event {
	return buildFormEvent("form.field.set", "form.field", input)
}

// BuildLotAddedEvent constructs an activity event for lot creation.
func BuildLotAddedEvent(input FormEventInput) Event {
	return buildFormEvent("form.lot.added", "form.lot", input)
}

// BuildLotRemovedEvent constructs an activity event for lot removal.
func BuildLotRemovedEvent(input FormEventInput) Event {
	return buildFormEvent("form.lot.removed", "form.lot", input)
}

// BuildLotCopiedEvent constructs an activity event for a lot-to-lot copy.
func BuildLotCopiedEvent(input FormEventInput) Event {
	return buildFormEvent("form.lot.copied", "form.lot", input)
}

// BuildSessionResetEvent constructs an activity event for a session reset.
func BuildSessionResetEvent(input FormEventInput) Event {
	return buildFormEvent("form.session.reset", "form.session", input)
}

func buildFormEvent(verb, objectType string, input FormEventInput) Event {
	metadata := cloneMap(input.Metadata)
	if input.SessionID != "" {
		metadata = ensureMetadata(metadata)
		metadata["session_id"] = input.SessionID
	}
	if input.FieldName != "" {
		metadata = ensureMetadata(metadata)
		metadata["field"] = input.FieldName
	}
	if input.LotName != "" {
		metadata = ensureMetadata(metadata)
		metadata["lot_name"] = input.LotName
	}
	if objectType == "form.lot" {
		metadata = ensureMetadata(metadata)
		metadata["lot_index"] = input.LotIndex
	}
	if verb == "form.lot.copied" {
		metadata = ensureMetadata(metadata)
		metadata["source_lot"] = input.SourceLot
		metadata["target_lot"] = input.TargetLot
	}
	if input.OldValue != nil {
		metadata = ensureMetadata(metadata)
		metadata["old_value"] = input.OldValue
	}
	if input.NewValue != nil {
		metadata = ensureMetadata(metadata)
		metadata["new_value"] = input.NewValue
	}

	recipients := input.Recipients
	if len(recipients) > 0 {
		recipients = append([]string{}, input.Recipients...)
	}

	objectID := objectIDFor(objectType, input)

	return Event{
		Verb:       verb,
		ActorID:    strings.TrimSpace(input.ActorID),
		UserID:     strings.TrimSpace(input.UserID),
		TenantID:   strings.TrimSpace(input.TenantID),
		ObjectType: objectType,
		ObjectID:   objectID,
		Channel:    strings.TrimSpace(input.Channel),
		Recipients: recipients,
		Metadata:   metadata,
		OccurredAt: input.OccurredAt,
	}
}

// objectIDFor derives a stable object id from the most specific identifier
// the input carries.
func objectIDFor(objectType string, input FormEventInput) string {
	switch objectType {
	case "form.field":
		if input.FieldName != "" {
			return input.FieldName
		}
	case "form.lot":
		return strconv.Itoa(input.LotIndex)
	case "form.session":
		if id := strings.TrimSpace(input.SessionID); id != "" {
			return id
		}
	}
	if id := strings.TrimSpace(input.SessionID); id != "" {
		return id
	}
	return objectType
}

func ensureMetadata(meta map[string]any) map[string]any {
	if meta == nil {
		return map[string]any{}
	}
	return meta
}

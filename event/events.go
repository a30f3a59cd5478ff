package event

import (
	"construxflow/session"

	"github.com/fundwit/go-commons/types"
	"github.com/jinzhu/gorm"
)

func CreateEvent(sourceType string, sourceId types.ID, sourceDesc string, category EventCategory,
	updatedProperties UpdatedProperties, identity *session.Identity, timestamp types.Timestamp,
	db *gorm.DB) (*EventRecord, error) {

	record := EventRecord{
		Event: Event{
			SourceType: sourceType,
			SourceId:   sourceId,
			SourceDesc: sourceDesc,

			EventCategory:     category,
			UpdatedProperties: updatedProperties,

			CreatorId:   identity.ID,
			CreatorName: identity.Name,
		},
		Synced:    false,
		Timestamp: timestamp,
	}
	if err := EventPersistCreateFunc(&record, db); err != nil {
		return nil, err
	}
	return &record, nil
}

// StatusChanged builds the property list of a decision, plus the ledger counter when it moved
func StatusChanged(oldStatus, newStatus string, counter string, oldCount, newCount string) UpdatedProperties {
	props := UpdatedProperties{{PropertyName: "Status", OldValue: oldStatus, NewValue: newStatus}}
	if counter != "" {
		props = append(props, UpdatedProperty{PropertyName: counter, OldValue: oldCount, NewValue: newCount})
	}
	return props
}

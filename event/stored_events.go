package event

import (
	"github.com/fundwit/go-commons/types"
	"github.com/jinzhu/gorm"
)

var (
	EventPersistCreateFunc = eventPersistCreate
	QueryEventsFunc        = QueryEvents
)

func eventPersistCreate(record *EventRecord, db *gorm.DB) error {
	return db.Create(record).Error
}

// QueryEvents lists the audit trail of one source, oldest first
func QueryEvents(sourceType string, sourceId types.ID, db *gorm.DB) ([]EventRecord, error) {
	var records []EventRecord
	if err := db.Where("source_type = ? AND source_id = ?", sourceType, sourceId).
		Order("timestamp ASC").Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

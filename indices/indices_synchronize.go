package indices

import (
	"construxflow/authority"
	"construxflow/bizerror"
	"construxflow/client/es"
	"construxflow/domain/inventory"
	"construxflow/event"
	"construxflow/session"
	"context"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
)

var (
	MaterialIndexEventHandlerName = "materialIndexer"
	indexRobot                    = session.Identity{Name: "index-robot", Role: authority.RoleAdmin}

	lock    sync.Mutex
	running bool

	IndicesFullSyncFunc    = IndicesFullSync
	ScheduleNewSyncRunFunc = ScheduleNewSyncRun

	SyncBatchSize = 500
)

func robotSession() *session.Session {
	return &session.Session{Identity: indexRobot, Perms: authority.PermissionsOfRole(authority.RoleAdmin),
		Context: context.Background()}
}

// ScheduleNewSyncRun starts a full rebuild in background, false when one is already running
func ScheduleNewSyncRun(s *session.Session) (bool, error) {
	if !s.HasRole(authority.RoleAdmin) {
		return false, bizerror.ErrForbidden
	}

	lock.Lock()
	if running {
		lock.Unlock()
		return false, nil
	}
	running = true
	lock.Unlock()

	go func() {
		defer func() {
			lock.Lock()
			running = false
			lock.Unlock()
		}()
		if err := IndicesFullSyncFunc(); err != nil {
			logrus.Error("indices full sync: ", err)
		}
	}()
	return true, nil
}

// IndicesFullSync drops the material index and indexes every inventory item again
func IndicesFullSync() (err error) {
	defer func() {
		if ret := recover(); ret != nil {
			if e, ok := ret.(error); ok {
				err = e
			} else {
				err = fmt.Errorf("indices full sync: %v", ret)
			}
		}
	}()

	s := robotSession()
	if err := es.DropIndexFunc(MaterialIndexName, s); err != nil {
		return err
	}
	for page := 1; ; page++ {
		materials, err := inventory.LoadMaterialsFunc(page, SyncBatchSize, s.Context)
		if err != nil {
			return err
		}
		if len(materials) == 0 {
			logrus.Info("indices full sync: no more material to index")
			return nil
		}
		if err := IndexMaterials(materials, s); err != nil {
			logrus.Warnf("indices full sync: page %d: %v", page, err)
		}
	}
}

// IndexMaterialEventHandle keeps the document of an inventory item in step with its events
func IndexMaterialEventHandle(e *event.EventRecord) *event.EventHandleResult {
	if e.SourceType != event.SourceInventoryItem {
		return nil
	}
	s := robotSession()
	result := &event.EventHandleResult{HandlerIdentifier: MaterialIndexEventHandlerName}

	if e.EventCategory == event.EventCategoryDeleted {
		if err := es.DeleteDocumentByIdFunc(MaterialIndexName, e.SourceId, s); err != nil {
			result.Message = fmt.Sprintf("delete material document %d: %v", e.SourceId, err)
			return result
		}
		result.Success = true
		result.Message = fmt.Sprintf("material document %d deleted", e.SourceId)
		return result
	}

	m, err := inventory.DetailMaterialFunc(e.SourceId, s.Context)
	if err != nil {
		result.Message = fmt.Sprintf("detail material %d: %v", e.SourceId, err)
		return result
	}
	doc := NewMaterialDocument(m)
	if err := es.IndexFunc(MaterialIndexName, doc.ID, doc, s); err != nil {
		result.Message = fmt.Sprintf("index material %d: %v", e.SourceId, err)
		return result
	}
	result.Success = true
	result.Message = fmt.Sprintf("material document %d indexed", e.SourceId)
	return result
}

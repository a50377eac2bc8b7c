package iocache

import (
	"sync"

	"github.com/osshealth/metalens/internal/contract"
)

// StoreManager manages the document cache and snapshot store instances.
type StoreManager struct {
	sync.RWMutex // Protects the store pointers during initialization
	documents    contract.CacheStore
	snapshots    contract.SnapshotStore
}

var _ contract.CacheManager = &StoreManager{} // Compile-time check

// GetDocumentStore returns the document CacheStore.
func (mgr *StoreManager) GetDocumentStore() contract.CacheStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.documents
}

// GetSnapshotStore returns the SnapshotStore.
func (mgr *StoreManager) GetSnapshotStore() contract.SnapshotStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.snapshots
}

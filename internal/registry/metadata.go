package registry

import (
	"secure-print-release/internal/model"
	"sort"
	"sync"
	"time"
)

// Entry : metadata together with the job id it belongs to
type Entry struct {
	ID string
	model.Metadata
}

// MetadataStore : release-link state per job id, lives only as long as the process
type MetadataStore struct {
	mu      sync.RWMutex
	entries map[string]*model.Metadata
}

func NewMetadataStore() *MetadataStore {
	return &MetadataStore{entries: make(map[string]*model.Metadata)}
}

func (s *MetadataStore) Put(id string, metadata model.Metadata) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[id] = &metadata
}

// Get : returns a copy, callers mutate through Update
func (s *MetadataStore) Get(id string) (model.Metadata, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	metadata, ok := s.entries[id]
	if !ok {
		return model.Metadata{}, false
	}
	return *metadata, true
}

func (s *MetadataStore) Update(id string, apply func(metadata *model.Metadata)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	metadata, ok := s.entries[id]
	if !ok {
		return false
	}
	apply(metadata)
	return true
}

func (s *MetadataStore) Delete(id string) (model.Metadata, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	metadata, ok := s.entries[id]
	if !ok {
		return model.Metadata{}, false
	}
	delete(s.entries, id)
	return *metadata, true
}

// Expired : entries with now >= expiresAt, oldest deadline first
func (s *MetadataStore) Expired(now time.Time) []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	expired := make([]Entry, 0)
	for id, metadata := range s.entries {
		if !now.Before(metadata.ExpiresAt) {
			expired = append(expired, Entry{ID: id, Metadata: *metadata})
		}
	}

	sort.Slice(expired, func(i, j int) bool {
		return expired[i].ExpiresAt.Before(expired[j].ExpiresAt)
	})
	return expired
}

func (s *MetadataStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.entries)
}

package store

import "sync"

// MockUserStore is an in-memory UserStore for tests.
type MockUserStore struct {
	mu sync.Mutex

	Records   map[string]UserRecord
	SaveError error

	saved [][]UserRecord
}

// Load returns a copy of Records.
func (m *MockUserStore) Load() map[string]UserRecord {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make(map[string]UserRecord, len(m.Records))
	for k, v := range m.Records {
		out[k] = v
	}
	return out
}

// Save records the call, and replaces Records unless SaveError is set.
func (m *MockUserStore) Save(records []UserRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.saved = append(m.saved, append([]UserRecord(nil), records...))
	if m.SaveError != nil {
		return m.SaveError
	}
	m.Records = make(map[string]UserRecord, len(records))
	for _, r := range records {
		m.Records[r.Username] = r
	}
	return nil
}

// SaveCalls returns how many times Save was called.
func (m *MockUserStore) SaveCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.saved)
}

package progress

import "sync"

type levelKey struct {
	chapter string
	level   int
}

// MemoryBackend keeps progress for the life of the process.
type MemoryBackend struct {
	mu        sync.Mutex
	completed map[levelKey]bool
	highest   map[string]int
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{
		completed: make(map[levelKey]bool),
		highest:   make(map[string]int),
	}
}

func (m *MemoryBackend) Completed(chapterID string, levelIndex int) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.completed[levelKey{chapterID, levelIndex}], nil
}

func (m *MemoryBackend) SetCompleted(chapterID string, levelIndex int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.completed[levelKey{chapterID, levelIndex}] = true
	return nil
}

func (m *MemoryBackend) HighestUnlocked(chapterID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.highest[chapterID], nil
}

func (m *MemoryBackend) SetHighestUnlocked(chapterID string, index int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.highest[chapterID] = index
	return nil
}

func (m *MemoryBackend) DeleteChapter(chapterID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for k := range m.completed {
		if k.chapter == chapterID {
			delete(m.completed, k)
		}
	}
	delete(m.highest, chapterID)
	return nil
}

func (m *MemoryBackend) DeleteAll() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.completed = make(map[levelKey]bool)
	m.highest = make(map[string]int)
	return nil
}

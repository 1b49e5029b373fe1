package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Store определяет интерфейс для хранения сессий.
type Store interface {
	Get(userID int64) (State, bool)
	Set(userID int64, state State) error
	Delete(userID int64) error
}

// MemoryStore — in-memory реализация. Сессии живут до перезапуска.
type MemoryStore struct {
	data map[int64]State
	mu   sync.RWMutex
}

// NewMemoryStore создаёт новый MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[int64]State)}
}

func (m *MemoryStore) Get(userID int64) (State, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	state, ok := m.data[userID]
	return state, ok
}

func (m *MemoryStore) Set(userID int64, state State) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[userID] = state
	return nil
}

func (m *MemoryStore) Delete(userID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, userID)
	return nil
}

// JSONStore — реализация, сохраняющая сессии в JSON-файл, чтобы токены
// переживали перезапуск бота.
type JSONStore struct {
	filename string
	mu       sync.Mutex
}

// NewJSONStore создаёт новый JSONStore с указанным файлом.
func NewJSONStore(filename string) *JSONStore {
	_ = os.MkdirAll(filepath.Dir(filename), 0755)
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		initial := make(map[int64]State)
		data, _ := json.Marshal(initial)
		_ = os.WriteFile(filename, data, 0644)
	}
	return &JSONStore{filename: filename}
}

func (j *JSONStore) load() (map[int64]State, error) {
	data, err := os.ReadFile(j.filename)
	if err != nil {
		return nil, fmt.Errorf("не удалось прочитать файл %s: %w", j.filename, err)
	}
	if len(data) == 0 {
		return make(map[int64]State), nil
	}
	var m map[int64]State
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("не удалось разобрать JSON: %w", err)
	}
	return m, nil
}

func (j *JSONStore) save(m map[int64]State) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("не удалось сериализовать данные: %w", err)
	}
	if err := os.WriteFile(j.filename, data, 0644); err != nil {
		return fmt.Errorf("не удалось записать файл %s: %w", j.filename, err)
	}
	return nil
}

func (j *JSONStore) Get(userID int64) (State, bool) {
	j.mu.Lock()
	defer j.mu.Unlock()
	m, err := j.load()
	if err != nil {
		return State{}, false
	}
	state, ok := m[userID]
	return state, ok
}

func (j *JSONStore) Set(userID int64, state State) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	m, err := j.load()
	if err != nil {
		return err
	}
	m[userID] = state
	return j.save(m)
}

func (j *JSONStore) Delete(userID int64) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	m, err := j.load()
	if err != nil {
		return err
	}
	delete(m, userID)
	return j.save(m)
}

package mirror

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"
)

// State представляет контрольную точку зеркалирования.
// Позволяет возобновить прерванное копирование с последней
// успешно записанной страницы.
type State struct {
	Key         string    `json:"key"`          // "source->dest"
	Offset      int       `json:"offset"`       // Смещение следующей страницы источника
	RowsWritten int64     `json:"rows_written"` // Записано строк на момент точки
	UpdatedAt   time.Time `json:"updated_at"`
	LastError   string    `json:"last_error,omitempty"`
}

// StateManager хранит контрольные точки нескольких зеркалирований
// в одном JSON файле
type StateManager struct {
	mu        sync.RWMutex
	states    map[string]*State // key -> state
	stateFile string
	autoSave  bool
}

// NewStateManager создает менеджер контрольных точек.
// Существующий файл состояния загружается автоматически.
func NewStateManager(stateFile string, autoSave bool) (*StateManager, error) {
	sm := &StateManager{
		states:    make(map[string]*State),
		stateFile: stateFile,
		autoSave:  autoSave,
	}

	if _, err := os.Stat(stateFile); err == nil {
		if err := sm.Load(); err != nil {
			return nil, fmt.Errorf("failed to load state: %w", err)
		}
	}

	return sm, nil
}

// Get возвращает состояние для ключа (нулевое если точки еще нет)
func (sm *StateManager) Get(key string) *State {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	state, exists := sm.states[key]
	if !exists {
		return &State{Key: key}
	}

	// Копия чтобы избежать гонок
	stateCopy := *state
	return &stateCopy
}

// Update сохраняет контрольную точку
func (sm *StateManager) Update(key string, offset int, rowsWritten int64) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	sm.states[key] = &State{
		Key:         key,
		Offset:      offset,
		RowsWritten: rowsWritten,
		UpdatedAt:   time.Now(),
	}

	if sm.autoSave {
		return sm.saveUnsafe()
	}
	return nil
}

// UpdateError записывает ошибку в состояние
func (sm *StateManager) UpdateError(key string, err error) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	state, exists := sm.states[key]
	if !exists {
		state = &State{Key: key}
		sm.states[key] = state
	}

	state.UpdatedAt = time.Now()
	state.LastError = err.Error()

	if sm.autoSave {
		return sm.saveUnsafe()
	}
	return nil
}

// Reset удаляет контрольную точку (для полного повтора зеркалирования)
func (sm *StateManager) Reset(key string) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	delete(sm.states, key)

	if sm.autoSave {
		return sm.saveUnsafe()
	}
	return nil
}

// All возвращает копии всех состояний
func (sm *StateManager) All() map[string]*State {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	result := make(map[string]*State, len(sm.states))
	for k, v := range sm.states {
		stateCopy := *v
		result[k] = &stateCopy
	}
	return result
}

// Save сохраняет состояния в файл
func (sm *StateManager) Save() error {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return sm.saveUnsafe()
}

// saveUnsafe сохраняет без блокировки (lock уже взят)
func (sm *StateManager) saveUnsafe() error {
	data, err := json.MarshalIndent(sm.states, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}

	if err := os.WriteFile(sm.stateFile, data, 0644); err != nil {
		return fmt.Errorf("failed to write state file: %w", err)
	}

	return nil
}

// Load загружает состояния из файла
func (sm *StateManager) Load() error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	data, err := os.ReadFile(sm.stateFile)
	if err != nil {
		return fmt.Errorf("failed to read state file: %w", err)
	}

	states := make(map[string]*State)
	if err := json.Unmarshal(data, &states); err != nil {
		return fmt.Errorf("failed to unmarshal state: %w", err)
	}

	sm.states = states
	return nil
}

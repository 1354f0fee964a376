package mirror

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestStateManager_GetEmpty(t *testing.T) {
	stateFile := filepath.Join(t.TempDir(), "state.json")

	sm, err := NewStateManager(stateFile, false)
	if err != nil {
		t.Fatalf("Failed to create state manager: %v", err)
	}

	// Для незнакомого ключа возвращается нулевое состояние
	state := sm.Get("src->dst")
	if state.Key != "src->dst" {
		t.Errorf("Expected key 'src->dst', got %q", state.Key)
	}
	if state.Offset != 0 || state.RowsWritten != 0 {
		t.Errorf("Expected zero state, got offset=%d rows=%d", state.Offset, state.RowsWritten)
	}
}

func TestStateManager_UpdateAndGet(t *testing.T) {
	stateFile := filepath.Join(t.TempDir(), "state.json")

	sm, err := NewStateManager(stateFile, false)
	if err != nil {
		t.Fatalf("Failed to create state manager: %v", err)
	}

	if err := sm.Update("src->dst", 300, 295); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	state := sm.Get("src->dst")
	if state.Offset != 300 {
		t.Errorf("Expected offset 300, got %d", state.Offset)
	}
	if state.RowsWritten != 295 {
		t.Errorf("Expected 295 rows written, got %d", state.RowsWritten)
	}
	if state.UpdatedAt.IsZero() {
		t.Error("Expected non-zero UpdatedAt")
	}
}

func TestStateManager_GetReturnsCopy(t *testing.T) {
	stateFile := filepath.Join(t.TempDir(), "state.json")

	sm, _ := NewStateManager(stateFile, false)
	sm.Update("key", 100, 100)

	// Мутация копии не должна влиять на хранимое состояние
	state := sm.Get("key")
	state.Offset = 999

	if sm.Get("key").Offset != 100 {
		t.Error("Expected Get to return a copy, stored state was mutated")
	}
}

func TestStateManager_SaveAndLoad(t *testing.T) {
	stateFile := filepath.Join(t.TempDir(), "state.json")

	sm1, err := NewStateManager(stateFile, true)
	if err != nil {
		t.Fatalf("Failed to create state manager: %v", err)
	}

	// AutoSave: Update сразу пишет файл
	sm1.Update("a->b", 500, 498)
	sm1.Update("c->d", 100, 100)

	if _, err := os.Stat(stateFile); os.IsNotExist(err) {
		t.Fatal("Expected state file to exist after autosave update")
	}

	// Новый менеджер загружает существующий файл
	sm2, err := NewStateManager(stateFile, true)
	if err != nil {
		t.Fatalf("Failed to reopen state manager: %v", err)
	}

	state := sm2.Get("a->b")
	if state.Offset != 500 || state.RowsWritten != 498 {
		t.Errorf("Expected loaded state offset=500 rows=498, got offset=%d rows=%d", state.Offset, state.RowsWritten)
	}

	if len(sm2.All()) != 2 {
		t.Errorf("Expected 2 states after load, got %d", len(sm2.All()))
	}
}

func TestStateManager_UpdateError(t *testing.T) {
	stateFile := filepath.Join(t.TempDir(), "state.json")

	sm, _ := NewStateManager(stateFile, false)
	sm.Update("key", 200, 195)

	if err := sm.UpdateError("key", errors.New("deadlock detected")); err != nil {
		t.Fatalf("UpdateError failed: %v", err)
	}

	state := sm.Get("key")
	if state.LastError != "deadlock detected" {
		t.Errorf("Expected last error recorded, got %q", state.LastError)
	}

	// Offset не должен измениться
	if state.Offset != 200 {
		t.Errorf("Expected offset preserved, got %d", state.Offset)
	}
}

func TestStateManager_Reset(t *testing.T) {
	stateFile := filepath.Join(t.TempDir(), "state.json")

	sm, _ := NewStateManager(stateFile, false)
	sm.Update("key", 300, 300)

	if err := sm.Reset("key"); err != nil {
		t.Fatalf("Reset failed: %v", err)
	}

	state := sm.Get("key")
	if state.Offset != 0 || state.RowsWritten != 0 {
		t.Error("Expected zero state after reset")
	}
}

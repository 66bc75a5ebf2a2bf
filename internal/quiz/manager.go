package quiz

import (
	"sync"
)

// Manager хранит активные сессии тестов в памяти.
// На одного пользователя - не более одной сессии; сессии независимы
// и не переживают перезапуск сервера.
type Manager struct {
	mu       sync.RWMutex
	sessions map[uint]*Session
}

// NewManager создает новый менеджер сессий
func NewManager() *Manager {
	return &Manager{
		sessions: make(map[uint]*Session),
	}
}

// GetOrCreate возвращает сессию пользователя, создавая её при необходимости
func (m *Manager) GetOrCreate(userID uint) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s, ok := m.sessions[userID]; ok {
		return s
	}
	s := NewSession(userID)
	m.sessions[userID] = s
	return s
}

// Get возвращает сессию пользователя (nil, если её нет)
func (m *Manager) Get(userID uint) *Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sessions[userID]
}

// Replace заменяет сессию пользователя новой и возвращает её
func (m *Manager) Replace(userID uint) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := NewSession(userID)
	m.sessions[userID] = s
	return s
}

// Remove удаляет сессию пользователя
func (m *Manager) Remove(userID uint) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, userID)
}

// Count возвращает количество активных сессий
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"catalogue-service/internal/models"
	"catalogue-service/internal/redisclient"
)

type memoryStore struct {
	mu       sync.Mutex
	sessions map[string][]byte
	userInfo map[string][]byte
	locks    map[string]string

	userInfoErr error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		sessions: map[string][]byte{},
		userInfo: map[string][]byte{},
		locks:    map[string]string{},
	}
}

func (m *memoryStore) SaveSession(ctx context.Context, sessionID string, data []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[sessionID] = append([]byte(nil), data...)
	return nil
}

func (m *memoryStore) LoadSession(ctx context.Context, sessionID string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.sessions[sessionID]
	if !ok {
		return nil, redisclient.ErrNotFound
	}
	return data, nil
}

func (m *memoryStore) DeleteSession(ctx context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, sessionID)
	delete(m.userInfo, sessionID)
	return nil
}

func (m *memoryStore) SetUserInfo(ctx context.Context, sessionID string, data []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.userInfoErr != nil {
		return m.userInfoErr
	}
	m.userInfo[sessionID] = data
	return nil
}

func (m *memoryStore) AcquireLock(ctx context.Context, lockKey, token string, ttl time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, held := m.locks[lockKey]; held {
		return false, nil
	}
	m.locks[lockKey] = token
	return true, nil
}

func (m *memoryStore) ReleaseLock(ctx context.Context, lockKey, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.locks[lockKey] == token {
		delete(m.locks, lockKey)
	}
	return nil
}

type recordingPublisher struct {
	mu    sync.Mutex
	leads []*models.LeadRegisteredEvent
	err   error
}

var errBrokerDown = errors.New("broker down")

func (p *recordingPublisher) PublishLeadRegistered(ctx context.Context, event *models.LeadRegisteredEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.leads = append(p.leads, event)
	return nil
}

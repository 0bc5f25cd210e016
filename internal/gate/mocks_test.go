package gate

import (
	"context"
	"sync"
)

// MockMembershipChecker
type MockMembershipChecker struct {
	IsMemberFunc func(ctx context.Context, userID int64) (bool, error)

	mu    sync.Mutex
	Calls int
}

func (m *MockMembershipChecker) IsMember(ctx context.Context, userID int64) (bool, error) {
	m.mu.Lock()
	m.Calls++
	m.mu.Unlock()
	if m.IsMemberFunc != nil {
		return m.IsMemberFunc(ctx, userID)
	}
	return true, nil
}

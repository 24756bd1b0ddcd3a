package services

import (
	"hash/fnv"
	"sync"
)

// UserLocks serializes progress events per user. Two completion events for
// the same user never interleave; events for different users usually run in
// parallel. Striping bounds memory regardless of user count.
//
// One instance is shared by every service so that a session adaptation, a
// homework completion, and a diagnostic reset for the same user take the
// same lock.
type UserLocks struct {
	stripes []sync.Mutex
}

const lockStripes = 64

// NewUserLocks creates the shared lock set.
func NewUserLocks() *UserLocks {
	return &UserLocks{stripes: make([]sync.Mutex, lockStripes)}
}

// Lock acquires the stripe for the user and returns its unlock function.
func (l *UserLocks) Lock(userID string) func() {
	h := fnv.New32a()
	h.Write([]byte(userID))
	m := &l.stripes[h.Sum32()%uint32(len(l.stripes))]
	m.Lock()
	return m.Unlock
}

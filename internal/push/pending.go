package push

import "sync"

// maxPendingPerUser bounds the in-memory queue of notifications that
// could not be delivered out-of-band. Only the newest entry is ever
// replayed, so the bound is generous.
const maxPendingPerUser = 20

// PendingStore holds notifications that found no working push endpoint,
// until the recipient's next heartbeat drains them. Process-local and
// ephemeral on purpose: the durable message record is unaffected.
type PendingStore struct {
	mu     sync.Mutex
	byUser map[uint][]Notification
}

func NewPendingStore() *PendingStore {
	return &PendingStore{byUser: make(map[uint][]Notification)}
}

// Record appends an undeliverable notification for later drain.
func (p *PendingStore) Record(userID uint, n Notification) {
	p.mu.Lock()
	defer p.mu.Unlock()
	queue := append(p.byUser[userID], n)
	if len(queue) > maxPendingPerUser {
		queue = queue[len(queue)-maxPendingPerUser:]
	}
	p.byUser[userID] = queue
}

// DrainLatest returns the most recent pending notification and discards
// the rest of the queue.
func (p *PendingStore) DrainLatest(userID uint) (interface{}, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	queue := p.byUser[userID]
	if len(queue) == 0 {
		return nil, false
	}
	latest := queue[len(queue)-1]
	delete(p.byUser, userID)
	return latest, true
}

// PendingCount reports the queue depth for a recipient.
func (p *PendingStore) PendingCount(userID uint) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.byUser[userID])
}

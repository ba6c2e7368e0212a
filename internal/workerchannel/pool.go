package workerchannel

import (
	"sync"

	"github.com/kzero-xyz/kzero-service/internal/proofstore"
)

// Pool is the connected-worker set. It is single-writer from the
// accept/close handlers, guarded by a mutex for the scheduler's
// concurrent AcquireIdle reads.
type Pool struct {
	mu    sync.Mutex
	conns map[string]*Connection
	order []string
}

func NewPool() *Pool {
	return &Pool{conns: make(map[string]*Connection)}
}

func (p *Pool) register(c *Connection) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.conns[c.id] = c
	p.order = append(p.order, c.id)
}

func (p *Pool) unregister(id string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.conns, id)
	for i, v := range p.order {
		if v == id {
			p.order = append(p.order[:i], p.order[i+1:]...)
			break
		}
	}
}

// AcquireIdle implements proofstore.WorkerPool: first worker in
// connection order that is idle. A least-recently-used policy could
// substitute without changing correctness.
func (p *Pool) AcquireIdle() (proofstore.WorkerHandle, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, id := range p.order {
		c, ok := p.conns[id]
		if ok && c.IsIdle() {
			return c, true
		}
	}
	return nil, false
}

func (p *Pool) Size() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.conns)
}

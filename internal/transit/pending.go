package transit

import (
	"sync"

	"chesslog/internal/core"
)

// Pending is a move completion that may be settled later. It resolves
// exactly once.
type Pending struct {
	to   core.Square
	done chan Result
	once sync.Once

	mu       sync.Mutex
	result   Result
	resolved bool
}

func newPending(to core.Square) *Pending {
	return &Pending{to: to, done: make(chan Result, 1)}
}

// To is the destination square
func (p *Pending) To() core.Square {
	return p.to
}

// Done delivers the result once settled
func (p *Pending) Done() <-chan Result {
	return p.done
}

// Resolved returns the result without waiting. It keeps reporting the
// result after Done has been drained.
func (p *Pending) Resolved() (Result, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.result, p.resolved
}

func (p *Pending) resolve(r Result) {
	p.once.Do(func() {
		p.mu.Lock()
		p.result, p.resolved = r, true
		p.mu.Unlock()
		p.done <- r
	})
}

package preview

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"
)

// drainMsg tells the model to run queued scheduler callbacks.
type drainMsg struct{}

// queue hands scheduler callbacks to the bubbletea loop in posting order.
// Timers post from their own goroutines; handlers post from Update, where
// a blocking Send would deadlock, so the wake-up is sent asynchronously.
type queue struct {
	mu       sync.Mutex
	fns      []func()
	signaled bool
	send     func(tea.Msg)
}

func (q *queue) post(fn func()) {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.fns = append(q.fns, fn)
	if !q.signaled && q.send != nil {
		q.signaled = true
		go q.send(drainMsg{})
	}
}

// attach starts delivering to send, waking the loop for anything queued.
func (q *queue) attach(send func(tea.Msg)) {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.send = send
	if len(q.fns) > 0 && !q.signaled {
		q.signaled = true
		go send(drainMsg{})
	}
}

func (q *queue) drain() []func() {
	q.mu.Lock()
	defer q.mu.Unlock()

	fns := q.fns
	q.fns = nil
	q.signaled = false
	return fns
}

package querycache

import "sync"

type notification struct {
	fns  []func(Snapshot)
	snap Snapshot
}

// notifier delivers entry changes to listeners on a single goroutine, in the
// order the transitions happened. Listeners may call back into the cache.
type notifier struct {
	mu    sync.Mutex
	queue []notification
	wake  chan struct{}
	done  chan struct{}
	once  sync.Once
}

func newNotifier() *notifier {
	n := &notifier{
		wake: make(chan struct{}, 1),
		done: make(chan struct{}),
	}
	go n.run()
	return n
}

// push queues a delivery. Pushes after close are dropped.
func (n *notifier) push(fns []func(Snapshot), snap Snapshot) {
	select {
	case <-n.done:
		return
	default:
	}
	n.mu.Lock()
	n.queue = append(n.queue, notification{fns: fns, snap: snap})
	n.mu.Unlock()

	select {
	case n.wake <- struct{}{}:
	default:
	}
}

func (n *notifier) run() {
	for {
		select {
		case <-n.wake:
		case <-n.done:
			return
		}
		for {
			n.mu.Lock()
			q := n.queue
			n.queue = nil
			n.mu.Unlock()
			if len(q) == 0 {
				break
			}
			for _, item := range q {
				for _, fn := range item.fns {
					fn(item.snap)
				}
			}
		}
	}
}

func (n *notifier) close() {
	n.once.Do(func() {
		close(n.done)
		n.mu.Lock()
		n.queue = nil
		n.mu.Unlock()
	})
}

func (n *notifier) pending() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.queue)
}

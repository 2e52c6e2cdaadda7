package realtime

import "sync"

// Topic names for the change-event bus. Every successful write against a
// watched collection publishes on one of these; subscribers re-read the
// store and deliver a fresh snapshot, mirroring the document store's
// snapshot-then-increments listener contract.
const TopicPresence = "presence"

// TopicInvitations is the per-recipient pending-invitations topic.
func TopicInvitations(userID string) string {
	return "invitations:" + userID
}

// TopicSession is the per-session topic.
func TopicSession(sessionID string) string {
	return "session:" + sessionID
}

type subscriber struct {
	notify   chan struct{}
	stop     chan struct{}
	finished chan struct{}
}

// Hub is an in-process change-notification bus. Publish never blocks:
// notifications to a slow subscriber coalesce, which is safe because
// subscribers re-read the store on every notification.
type Hub struct {
	mu     sync.Mutex
	subs   map[string]map[int]*subscriber
	nextID int
}

func NewHub() *Hub {
	return &Hub{subs: make(map[string]map[int]*subscriber)}
}

// Publish signals every subscriber of the topic that matching documents
// may have changed.
func (h *Hub) Publish(topic string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, sub := range h.subs[topic] {
		select {
		case sub.notify <- struct{}{}:
		default: // already pending, coalesce
		}
	}
}

// Subscribe registers fn to run after each publish on the topic.
// Invocations for one subscriber are sequential and in publish order.
// The returned function unsubscribes; once it returns, fn will not be
// invoked again. It must not be called from inside fn.
func (h *Hub) Subscribe(topic string, fn func()) func() {
	sub := &subscriber{
		notify:   make(chan struct{}, 1),
		stop:     make(chan struct{}),
		finished: make(chan struct{}),
	}

	h.mu.Lock()
	if h.subs[topic] == nil {
		h.subs[topic] = make(map[int]*subscriber)
	}
	id := h.nextID
	h.nextID++
	h.subs[topic][id] = sub
	h.mu.Unlock()

	go func() {
		defer close(sub.finished)
		for {
			select {
			case <-sub.stop:
				return
			case <-sub.notify:
				select {
				case <-sub.stop:
					return
				default:
				}
				fn()
			}
		}
	}()

	return func() {
		h.mu.Lock()
		if subs, ok := h.subs[topic]; ok {
			delete(subs, id)
			if len(subs) == 0 {
				delete(h.subs, topic)
			}
		}
		h.mu.Unlock()
		close(sub.stop)
		<-sub.finished
	}
}

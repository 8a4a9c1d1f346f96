package events

import "sync"

// Op is the kind of change carried by an event.
type Op string

const (
	OpUpsert Op = "upsert"
	OpDelete Op = "delete"
)

// Collection names the record collection an event belongs to.
type Collection string

const (
	CollectionAppointments Collection = "appointments"
	CollectionTasks        Collection = "tasks"
	CollectionMetrics      Collection = "metrics"
	CollectionOverviews    Collection = "overviews"
)

// Event describes one persisted change. Only the natural key is mandatory;
// upserts also carry the full record so subscribers can reconcile without a
// read-back.
type Event struct {
	Collection Collection
	Op         Op
	UserID     string
	Key        string // slot key, day key or week id depending on collection
	Payload    interface{}
}

// Bus is a lightweight in-process pub-sub fan-out backed by buffered channels.
// Publish never blocks: a subscriber that cannot keep up loses events, which
// is acceptable because sessions reload their week on reconnect.
type Bus struct {
	mu     sync.Mutex
	buffer int
	subs   map[int]chan Event
	nextID int
}

// NewBus creates a bus whose subscriber channels hold up to buffer events.
func NewBus(buffer int) *Bus {
	return &Bus{buffer: buffer, subs: make(map[int]chan Event)}
}

// Publish delivers the event to every subscriber without blocking. Returns
// false if at least one subscriber's buffer was full and dropped it.
func (b *Bus) Publish(evt Event) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	all := true
	for _, ch := range b.subs {
		select {
		case ch <- evt:
		default:
			all = false
		}
	}
	return all
}

// Subscribe registers a new consumer and returns its channel together with a
// cancel function that closes it.
func (b *Bus) Subscribe() (<-chan Event, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := b.nextID
	b.nextID++
	ch := make(chan Event, b.buffer)
	b.subs[id] = ch
	cancel := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if c, ok := b.subs[id]; ok {
			delete(b.subs, id)
			close(c)
		}
	}
	return ch, cancel
}

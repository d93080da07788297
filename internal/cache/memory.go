package cache

import (
	"sync"
	"time"

	"github.com/a3tai/schedify/internal/schedule"
)

const defaultMemoryEntries = 128

// recent is a least recently used set of decoded schedules kept in front of
// badger so repeated lookups skip decompression
type recent struct {
	mutex    sync.Mutex
	capacity int
	ttl      time.Duration
	items    map[string]*recentNode
	head     *recentNode // most recently used
	tail     *recentNode // least recently used
	now      func() time.Time
}

type recentNode struct {
	key       string
	value     *schedule.ParsedSchedule
	expiresAt time.Time
	prev      *recentNode
	next      *recentNode
}

func newRecent(capacity int, ttl time.Duration) *recent {
	r := &recent{
		capacity: capacity,
		ttl:      ttl,
		items:    make(map[string]*recentNode),
		head:     &recentNode{},
		tail:     &recentNode{},
		now:      time.Now,
	}
	r.head.next = r.tail
	r.tail.prev = r.head
	return r
}

func (r *recent) get(key string) (*schedule.ParsedSchedule, bool) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	node, ok := r.items[key]
	if !ok {
		return nil, false
	}
	if !node.expiresAt.IsZero() && !r.now().Before(node.expiresAt) {
		r.unlink(node)
		delete(r.items, key)
		return nil, false
	}

	r.unlink(node)
	r.pushFront(node)
	return clone(node.value), true
}

func (r *recent) put(key string, value *schedule.ParsedSchedule) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	var expiresAt time.Time
	if r.ttl > 0 {
		expiresAt = r.now().Add(r.ttl)
	}

	if node, ok := r.items[key]; ok {
		node.value = clone(value)
		node.expiresAt = expiresAt
		r.unlink(node)
		r.pushFront(node)
		return
	}

	node := &recentNode{key: key, value: clone(value), expiresAt: expiresAt}
	r.pushFront(node)
	r.items[key] = node

	if len(r.items) > r.capacity {
		lru := r.tail.prev
		r.unlink(lru)
		delete(r.items, lru.key)
	}
}

func (r *recent) remove(key string) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if node, ok := r.items[key]; ok {
		r.unlink(node)
		delete(r.items, key)
	}
}

func (r *recent) len() int {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	return len(r.items)
}

func (r *recent) pushFront(node *recentNode) {
	node.prev = r.head
	node.next = r.head.next
	r.head.next.prev = node
	r.head.next = node
}

func (r *recent) unlink(node *recentNode) {
	node.prev.next = node.next
	node.next.prev = node.prev
}

// clone copies s so callers never share course slices with the cache
func clone(s *schedule.ParsedSchedule) *schedule.ParsedSchedule {
	out := &schedule.ParsedSchedule{Courses: make([]schedule.CourseEntry, len(s.Courses))}
	for i, c := range s.Courses {
		c.Schedules = append([]schedule.MeetingEntry{}, c.Schedules...)
		out.Courses[i] = c
	}
	return out
}

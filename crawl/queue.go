// Package crawl — BFS queue with deduplication.
package crawl

// Queue is a first-in first-out URL queue that admits each URL once.
// It is not safe for concurrent use.
type Queue struct {
	items []string
	seen  map[string]struct{}
	next  int
}

// NewQueue creates an empty Queue.
func NewQueue() *Queue {
	return &Queue{seen: make(map[string]struct{})}
}

// Add enqueues url unless it was added before. It reports whether url was new.
func (q *Queue) Add(url string) bool {
	if _, ok := q.seen[url]; ok {
		return false
	}
	q.seen[url] = struct{}{}
	q.items = append(q.items, url)
	return true
}

// HasNext reports whether there are unprocessed URLs.
func (q *Queue) HasNext() bool {
	return q.next < len(q.items)
}

// Next returns the next unprocessed URL and advances the cursor.
func (q *Queue) Next() string {
	url := q.items[q.next]
	q.next++
	return url
}

// Visited returns the number of distinct URLs added so far.
func (q *Queue) Visited() int {
	return len(q.seen)
}

// All returns every added URL in insertion order.
func (q *Queue) All() []string {
	return q.items
}

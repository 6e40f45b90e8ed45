package crawl

// Queue is a FIFO of URLs that ignores repeats.
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

// HasNext reports whether unprocessed URLs remain.
func (q *Queue) HasNext() bool {
	return q.next < len(q.items)
}

// Next returns the next unprocessed URL.
func (q *Queue) Next() string {
	url := q.items[q.next]
	q.next++
	return url
}

// Len is the number of distinct URLs added so far.
func (q *Queue) Len() int {
	return len(q.items)
}

// All returns every URL in the order it was added.
func (q *Queue) All() []string {
	return q.items
}

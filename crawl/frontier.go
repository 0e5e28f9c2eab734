package crawl

import "fmt"

// Order is the traversal policy of a Frontier.
type Order int

// Supported traversal orders.
const (
	// DepthFirst processes the first item of the most recent batch next,
	// which reproduces the pre-order of a recursive crawl.
	DepthFirst Order = iota
	// BreadthFirst processes items in the order they were pushed.
	BreadthFirst
)

// ParseOrder parses "dfs" or "bfs".
func ParseOrder(s string) (Order, error) {
	switch s {
	case "dfs", "":
		return DepthFirst, nil
	case "bfs":
		return BreadthFirst, nil
	}
	return 0, fmt.Errorf("unknown crawl order %q", s)
}

// String returns the flag form of the order.
func (o Order) String() string {
	if o == BreadthFirst {
		return "bfs"
	}
	return "dfs"
}

// Frontier is the explicit work list that replaces call-stack recursion.
// It does not deduplicate: callers consult their visited set when popping,
// so an item pushed twice is processed at its earliest position.
type Frontier[T any] struct {
	order Order
	items []T
}

// NewFrontier creates an empty frontier with the given order.
func NewFrontier[T any](order Order) *Frontier[T] {
	return &Frontier[T]{order: order}
}

// Push adds a batch of items discovered together, such as the links of one
// page. Within a batch, items are popped in the order given.
func (f *Frontier[T]) Push(batch ...T) {
	if f.order == BreadthFirst {
		f.items = append(f.items, batch...)
		return
	}
	for i := len(batch) - 1; i >= 0; i-- {
		f.items = append(f.items, batch[i])
	}
}

// Pop returns the next item.
// The bool result is false if the frontier is empty.
func (f *Frontier[T]) Pop() (T, bool) {
	var zero T
	if len(f.items) == 0 {
		return zero, false
	}

	var item T
	if f.order == BreadthFirst {
		item = f.items[0]
		f.items[0] = zero
		f.items = f.items[1:]
	} else {
		last := len(f.items) - 1
		item = f.items[last]
		f.items[last] = zero
		f.items = f.items[:last]
	}
	return item, true
}

// Len returns the number of queued items.
func (f *Frontier[T]) Len() int {
	return len(f.items)
}

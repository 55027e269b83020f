package rotation

import (
	"log/slog"
	"os"
	"sort"
	"sync"
	"time"

	"memekiosk/internal/logging"
)

// Queue manages fair cyclic traversal of a media collection. Items are keyed
// by path; traversal follows a rotating ring so every eligible item gets a
// turn before any repeats. Blocked items are pruned from the ring lazily at
// dequeue time but stay in the registry for reporting and export.
//
// Queue is safe for concurrent use: the scheduler tick loop and the control
// surface mutate it from separate goroutines.
type Queue struct {
	mu      sync.Mutex
	name    string
	logger  *slog.Logger
	items   map[string]*Item
	order   ring
	history []Item
	seed    map[string]Status
}

// New constructs a queue named for logging purposes. The seed map carries
// statuses persisted by an earlier run; it is consulted only for paths
// enqueued during the initial scan.
func New(name string, seed map[string]Status, logger *slog.Logger) *Queue {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Queue{
		name:   name,
		logger: logger.With(logging.String(logging.FieldQueue, name)),
		items:  make(map[string]*Item),
		seed:   seed,
	}
}

// Enqueue registers a path and inserts it at the show-soon end of the ring.
// Already-registered paths are left untouched. During the initial scan a
// persisted status is honored when present and the fallback is StatusNormal;
// paths discovered on later scans start as StatusNew.
func (q *Queue) Enqueue(path string, initialScan bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if _, ok := q.items[path]; ok {
		return
	}

	status := StatusNew
	if initialScan {
		status = StatusNormal
		if persisted, ok := q.seed[path]; ok {
			status = persisted
		}
	}

	q.items[path] = &Item{
		Path:   path,
		Title:  DeriveTitle(path),
		Status: status,
	}
	q.order.pushFront(path)
	q.logger.Debug("item registered",
		logging.String(logging.FieldPath, path),
		logging.String("status", string(status)),
	)
}

// Next rotates to the next eligible item. Blocked items encountered along
// the way are dropped from the ring (but kept in the registry); items whose
// backing file no longer exists are removed from the registry entirely. The
// returned snapshot has StatusNormal and is appended to history; the item
// re-enters the ring at the show-last end. The second return is false when
// the ring empties without an eligible item, which callers treat as a
// no-display turn.
func (q *Queue) Next() (Item, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for {
		path, ok := q.order.popFront()
		if !ok {
			return Item{}, false
		}
		item, ok := q.items[path]
		if !ok {
			continue
		}
		if item.Status.Bad() {
			q.logger.Debug("skipping blocked item",
				logging.String(logging.FieldPath, path),
				logging.String("status", string(item.Status)),
			)
			continue
		}
		if !fileExists(path) {
			delete(q.items, path)
			q.logger.Debug("dropping missing file", logging.String(logging.FieldPath, path))
			continue
		}

		wasNew := item.Status == StatusNew
		item.Status = StatusNormal

		snapshot := *item
		snapshot.WasNew = wasNew
		snapshot.ShownAt = time.Now().UTC()
		q.history = append(q.history, snapshot)
		q.order.pushBack(path)
		return snapshot, true
	}
}

// Block soft-blocks a registered path. Unregistered paths are ignored; the
// item disappears from rotation the next time traversal reaches it.
func (q *Queue) Block(path string) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	item, ok := q.items[path]
	if !ok {
		return false
	}
	item.Status = StatusPending
	q.logger.Info("item blocked", logging.String(logging.FieldPath, path))
	return true
}

// RecentHistory returns the last n displayed items, most recent last. Fewer
// than n are returned when history is shorter.
func (q *Queue) RecentHistory(n int) []Item {
	q.mu.Lock()
	defer q.mu.Unlock()

	if n <= 0 || len(q.history) == 0 {
		return nil
	}
	if n > len(q.history) {
		n = len(q.history)
	}
	out := make([]Item, n)
	copy(out, q.history[len(q.history)-n:])
	return out
}

// Items returns every registered item, blocked ones included, ordered by path.
func (q *Queue) Items() []Item {
	q.mu.Lock()
	defer q.mu.Unlock()

	out := make([]Item, 0, len(q.items))
	for _, item := range q.items {
		out = append(out, *item)
	}
	sortItems(out)
	return out
}

// Len reports the registry size.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Blocked reports how many registry items carry a bad status.
func (q *Queue) Blocked() int {
	q.mu.Lock()
	defer q.mu.Unlock()

	count := 0
	for _, item := range q.items {
		if item.Status.Bad() {
			count++
		}
	}
	return count
}

// Displayed reports how many items have been shown this run.
func (q *Queue) Displayed() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.history)
}

// Snapshot captures the full path-to-status mapping for persistence.
func (q *Queue) Snapshot() map[string]Status {
	q.mu.Lock()
	defer q.mu.Unlock()

	out := make(map[string]Status, len(q.items))
	for path, item := range q.items {
		out[path] = item.Status
	}
	return out
}

func sortItems(items []Item) {
	sort.Slice(items, func(i, j int) bool { return items[i].Path < items[j].Path })
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

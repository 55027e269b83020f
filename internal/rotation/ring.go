package rotation

// ring is a growable circular buffer of item paths. The front is the
// show-soon end: newly discovered paths are pushed there and the next
// candidate is popped from there, while a displayed path re-enters at the
// back so it waits behind every other queued path. All operations are O(1)
// amortized.
type ring struct {
	buf  []string
	head int
	size int
}

func (r *ring) len() int { return r.size }

func (r *ring) pushFront(path string) {
	r.ensureCapacity()
	r.head = r.wrap(r.head - 1)
	r.buf[r.head] = path
	r.size++
}

func (r *ring) pushBack(path string) {
	r.ensureCapacity()
	r.buf[r.wrap(r.head+r.size)] = path
	r.size++
}

func (r *ring) popFront() (string, bool) {
	if r.size == 0 {
		return "", false
	}
	path := r.buf[r.head]
	r.buf[r.head] = ""
	r.head = r.wrap(r.head + 1)
	r.size--
	return path, true
}

func (r *ring) wrap(index int) int {
	capacity := len(r.buf)
	if capacity == 0 {
		return 0
	}
	index %= capacity
	if index < 0 {
		index += capacity
	}
	return index
}

func (r *ring) ensureCapacity() {
	if r.size < len(r.buf) {
		return
	}
	capacity := len(r.buf) * 2
	if capacity == 0 {
		capacity = 8
	}
	grown := make([]string, capacity)
	for i := 0; i < r.size; i++ {
		grown[i] = r.buf[r.wrap(r.head+i)]
	}
	r.buf = grown
	r.head = 0
}

package cache

const nilHandle = -1

// A slot is an entry of the arena. Slots are linked from the most recently
// used (front) to the least recently used (back) block.
type slot struct {
	block    uint64
	lastUsed uint64
	prev     int
	next     int
}

// lruList keeps blocks in recency order. Slots are preallocated and addressed
// by integer handles; released slots go to a free list and are reused.
type lruList struct {
	slots []slot
	free  []int
	front int
	back  int
	count int
}

func newLRUList(capacity int) lruList {
	l := lruList{
		slots: make([]slot, capacity),
		free:  make([]int, 0, capacity),
		front: nilHandle,
		back:  nilHandle,
	}

	for i := capacity - 1; i >= 0; i-- {
		l.free = append(l.free, i)
	}

	return l
}

func (l *lruList) len() int {
	return l.count
}

// pushFront stores a block in a free slot and makes it the most recently
// used one.
func (l *lruList) pushFront(block, now uint64) int {
	if len(l.free) == 0 {
		panic("cache: no free slot")
	}

	handle := l.free[len(l.free)-1]
	l.free = l.free[:len(l.free)-1]

	l.slots[handle] = slot{
		block:    block,
		lastUsed: now,
		prev:     nilHandle,
		next:     nilHandle,
	}
	l.linkFront(handle)
	l.count++

	return handle
}

func (l *lruList) moveToFront(handle int, now uint64) {
	l.slots[handle].lastUsed = now

	if l.front == handle {
		return
	}

	l.unlink(handle)
	l.linkFront(handle)
}

// evictBack releases the least recently used slot and returns its block.
func (l *lruList) evictBack() uint64 {
	handle := l.back
	if handle == nilHandle {
		panic("cache: evicting from an empty cache")
	}

	block := l.slots[handle].block
	l.unlink(handle)
	l.free = append(l.free, handle)
	l.count--

	return block
}

func (l *lruList) linkFront(handle int) {
	s := &l.slots[handle]
	s.prev = nilHandle
	s.next = l.front

	if l.front != nilHandle {
		l.slots[l.front].prev = handle
	}

	l.front = handle

	if l.back == nilHandle {
		l.back = handle
	}
}

func (l *lruList) unlink(handle int) {
	s := &l.slots[handle]

	if s.prev != nilHandle {
		l.slots[s.prev].next = s.next
	} else {
		l.front = s.next
	}

	if s.next != nilHandle {
		l.slots[s.next].prev = s.prev
	} else {
		l.back = s.prev
	}

	s.prev = nilHandle
	s.next = nilHandle
}

// each visits the cached blocks from the most to the least recently used.
func (l *lruList) each(visit func(s slot)) {
	for h := l.front; h != nilHandle; h = l.slots[h].next {
		visit(l.slots[h])
	}
}

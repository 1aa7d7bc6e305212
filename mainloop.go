package canopy

import "sort"

// WatchCallback is driven by a MainLoop. Call runs when the watch is due
// and returns false to stop the watch. OnRemove runs exactly once when the
// watch goes away, whether it stopped itself or was removed.
type WatchCallback interface {
	Call(loop MainLoop, token int) bool
	OnRemove(loop MainLoop, token int)
}

// MainLoop is the timer service the scheduler is built on.
type MainLoop interface {
	// AddTimeoutWatch calls cb every interval milliseconds until it returns
	// false. It returns a positive token, or 0 on failure.
	AddTimeoutWatch(interval int, cb WatchCallback) int
	// RemoveWatch stops the watch. Unknown tokens are ignored.
	RemoveWatch(token int)
	// CurrentTime returns the loop's clock in milliseconds.
	CurrentTime() uint64
}

type manualWatch struct {
	token    int
	interval int
	due      uint64
	cb       WatchCallback
	removed  bool
}

// ManualLoop is a MainLoop whose clock only moves when told to. Hosts
// advance it once per frame; tests advance it explicitly.
type ManualLoop struct {
	now       uint64
	nextToken int
	watches   map[int]*manualWatch
	firing    bool
}

// NewManualLoop returns a loop whose clock starts at start milliseconds.
func NewManualLoop(start uint64) *ManualLoop {
	return &ManualLoop{now: start, watches: make(map[int]*manualWatch)}
}

// AddTimeoutWatch implements MainLoop.
func (l *ManualLoop) AddTimeoutWatch(interval int, cb WatchCallback) int {
	if cb == nil || interval < 0 {
		return 0
	}
	l.nextToken++
	w := &manualWatch{
		token:    l.nextToken,
		interval: interval,
		due:      l.now + uint64(interval),
		cb:       cb,
	}
	l.watches[w.token] = w
	return w.token
}

// RemoveWatch implements MainLoop.
func (l *ManualLoop) RemoveWatch(token int) {
	w, ok := l.watches[token]
	if !ok || w.removed {
		return
	}
	w.removed = true
	delete(l.watches, token)
	w.cb.OnRemove(l, token)
}

// CurrentTime implements MainLoop.
func (l *ManualLoop) CurrentTime() uint64 {
	return l.now
}

// WatchCount returns the number of live watches.
func (l *ManualLoop) WatchCount() int {
	return len(l.watches)
}

// Advance moves the clock forward by ms and fires what became due.
func (l *ManualLoop) Advance(ms uint64) {
	l.AdvanceTo(l.now + ms)
}

// AdvanceTo moves the clock to now, stepping through every intermediate due
// time so repeating watches fire once per period. Watches fire in due-time
// order, ties broken by token. A watch added while firing waits for its own
// due time; a watch removed while firing does not fire.
func (l *ManualLoop) AdvanceTo(now uint64) {
	if l.firing || now < l.now {
		return
	}
	l.firing = true
	defer func() { l.firing = false }()

	for {
		due := l.dueBefore(now)
		if len(due) == 0 {
			break
		}
		l.now = due[0].due
		for _, w := range due {
			if w.removed || w.due != l.now {
				continue
			}
			if w.cb.Call(l, w.token) {
				if !w.removed {
					w.due = l.now + uint64(max(w.interval, 1))
				}
				continue
			}
			l.RemoveWatch(w.token)
		}
	}
	l.now = now
}

// dueBefore returns the watches sharing the earliest due time that is not
// after now, ordered by token.
func (l *ManualLoop) dueBefore(now uint64) []*manualWatch {
	var out []*manualWatch
	earliest := now + 1
	for _, w := range l.watches {
		switch {
		case w.due < earliest:
			earliest = w.due
			out = append(out[:0], w)
		case w.due == earliest:
			out = append(out, w)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].token < out[j].token })
	return out
}

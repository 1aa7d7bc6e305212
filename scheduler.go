package canopy

import (
	"math"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

const (
	animationInterval       = 40 // ms between animation frames
	minTimeout              = 10 // ms
	minInterval             = 10 // ms
	minTimeBetweenTimerCall = 5  // ms
)

// timerWatch adapts a Handler to the main loop. Timeouts have duration 0,
// intervals -1, and animations the requested duration.
type timerWatch struct {
	s        *Surface
	fn       Handler
	start    int
	end      int
	duration int
	tween    *gween.Tween

	startTime    uint64
	lastFinished uint64
	lastFired    int
}

func (w *timerWatch) Call(loop MainLoop, token int) bool {
	if w.s.destroyed {
		return false
	}
	now := loop.CurrentTime()
	fire, keep := true, true
	value := w.end
	switch {
	case w.duration > 0:
		var elapsed float64
		if now > w.startTime {
			elapsed = float64(now - w.startTime)
		}
		progress := min(elapsed/float64(w.duration), 1)
		if progress < 1 {
			v, _ := w.tween.Set(float32(elapsed))
			value = int(math.Round(float64(v)))
		}
		keep = progress < 1
		fire = !keep || value != w.lastFired
	case w.duration == 0:
		keep = false
	}

	// Back-to-back calls are coalesced, but the final call always fires.
	if fire && (!keep || now-w.lastFinished > minTimeBetweenTimerCall) {
		ctx := &EventContext{Event: TimerEvent{Token: token, Value: value}}
		w.lastFired = value
		w.s.fireHandler(ctx, w.fn)
	}
	w.lastFinished = loop.CurrentTime()
	return keep
}

func (w *timerWatch) OnRemove(_ MainLoop, token int) {
	if w.s.timers != nil {
		delete(w.s.timers, token)
	}
}

func (s *Surface) addTimer(interval int, w *timerWatch) int {
	if s.loop == nil || s.destroyed {
		Logger().Debug("canopy: no main loop for timer")
		return 0
	}
	token := s.loop.AddTimeoutWatch(interval, w)
	if token > 0 {
		s.timers[token] = w
	} else {
		Logger().Debug("canopy: failed to add timer")
	}
	return token
}

// SetTimeout calls fn once after ms milliseconds, clamped to at least 10.
// It returns a positive token, or 0 if ms is negative or no timer could be
// created.
func (s *Surface) SetTimeout(fn Handler, ms int) int {
	if fn == nil || ms < 0 {
		Logger().Debug("canopy: invalid timeout", "ms", ms)
		return 0
	}
	return s.addTimer(max(ms, minTimeout), &timerWatch{s: s, fn: fn})
}

// SetInterval calls fn every ms milliseconds, clamped to at least 10, until
// the timer is removed.
func (s *Surface) SetInterval(fn Handler, ms int) int {
	if fn == nil || ms < 0 {
		Logger().Debug("canopy: invalid interval", "ms", ms)
		return 0
	}
	return s.addTimer(max(ms, minInterval), &timerWatch{s: s, fn: fn, duration: -1})
}

// BeginAnimation calls fn every 40ms with a value moving linearly from start
// to end over duration milliseconds. Calls are skipped when the rounded
// value has not changed since the last call; the final call always fires
// and carries end exactly.
func (s *Surface) BeginAnimation(fn Handler, start, end, duration int) int {
	return s.BeginEasedAnimation(fn, start, end, duration, ease.Linear)
}

// BeginEasedAnimation is BeginAnimation with a custom easing curve.
func (s *Surface) BeginEasedAnimation(fn Handler, start, end, duration int, easing ease.TweenFunc) int {
	if fn == nil || duration < 0 {
		Logger().Debug("canopy: invalid animation", "duration", duration)
		return 0
	}
	if easing == nil {
		easing = ease.Linear
	}
	w := &timerWatch{
		s:         s,
		fn:        fn,
		start:     start,
		end:       end,
		duration:  duration,
		lastFired: start,
	}
	if duration > 0 {
		w.tween = gween.New(float32(start), float32(end), float32(duration), easing)
	}
	if s.loop != nil {
		w.startTime = s.loop.CurrentTime()
	}
	return s.addTimer(animationInterval, w)
}

// RemoveTimer cancels a timer. Unknown and non-positive tokens are ignored.
func (s *Surface) RemoveTimer(token int) {
	if token > 0 && s.loop != nil {
		s.loop.RemoveWatch(token)
	}
}

// TimerCount returns the number of live timers.
func (s *Surface) TimerCount() int { return len(s.timers) }

// --- Node animations ---

// AnimateOpacity fades n to the given opacity over duration milliseconds.
// The animation stops early if n is destroyed.
func (n *Node) AnimateOpacity(to float64, duration int, easing ease.TweenFunc) int {
	const scale = 1000
	h := n.handle
	s := n.surface
	return s.BeginEasedAnimation(func(ctx *EventContext) {
		if t, ok := ctx.Event.(TimerEvent); ok {
			if node := s.Lookup(h); node != nil {
				node.SetOpacity(float64(t.Value) / scale)
			} else {
				s.RemoveTimer(t.Token)
			}
		}
	}, int(math.Round(n.opacity*scale)), int(math.Round(to*scale)), duration, easing)
}

// AnimatePosition moves n's pixel position to (x, y) over duration
// milliseconds. It returns the tokens of the x and y animations.
func (n *Node) AnimatePosition(x, y float64, duration int, easing ease.TweenFunc) (int, int) {
	h := n.handle
	s := n.surface
	axis := func(set func(*Node, float64)) Handler {
		return func(ctx *EventContext) {
			if t, ok := ctx.Event.(TimerEvent); ok {
				if node := s.Lookup(h); node != nil {
					set(node, float64(t.Value))
				} else {
					s.RemoveTimer(t.Token)
				}
			}
		}
	}
	tx := s.BeginEasedAnimation(axis((*Node).SetPixelX), int(math.Round(n.x)), int(math.Round(x)), duration, easing)
	ty := s.BeginEasedAnimation(axis((*Node).SetPixelY), int(math.Round(n.y)), int(math.Round(y)), duration, easing)
	return tx, ty
}

package notify

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// progressTick is the granularity of the countdown when progress is shown.
const progressTick = 50 * time.Millisecond

// PresenterOption configures a Presenter.
type PresenterOption func(*Presenter)

// WithDismissHook installs a callback invoked exactly once per dismissed
// notification, after it leaves the visible set.
func WithDismissHook(fn func(Notification)) PresenterOption {
	return func(p *Presenter) { p.onDismiss = fn }
}

// WithDisplayHook installs a callback invoked when a notification enters the
// visible set.
func WithDisplayHook(fn func(Notification)) PresenterOption {
	return func(p *Presenter) { p.onDisplay = fn }
}

// WithProgressHook installs a callback invoked on every countdown tick with
// the fraction of time remaining.
func WithProgressHook(fn func(id string, fraction float64)) PresenterOption {
	return func(p *Presenter) { p.onProgress = fn }
}

// Presenter consumes the scheduler's publish channel and owns the timed
// dismissal lifecycle of every visible notification. Each notification gets
// its own independent timer; N concurrent notifications never share one.
// Timers belong to the presenter, not the publish channel, so detaching other
// subscribers leaves them untouched.
type Presenter struct {
	logger     *zap.Logger
	onDisplay  func(Notification)
	onDismiss  func(Notification)
	onProgress func(id string, fraction float64)

	mu       sync.Mutex
	visible  map[string]Notification
	order    []string
	progress map[string]float64
	cancels  map[string]chan struct{} // per-notification cancellation token
	closed   bool

	dispose func()
	wg      sync.WaitGroup
}

// NewPresenter subscribes to the scheduler and starts handling lifecycles.
// Close must be called to detach and cancel outstanding timers.
func NewPresenter(s *Scheduler, logger *zap.Logger, opts ...PresenterOption) *Presenter {
	if logger == nil {
		logger = zap.NewNop()
	}
	p := &Presenter{
		logger:   logger,
		visible:  make(map[string]Notification),
		progress: make(map[string]float64),
		cancels:  make(map[string]chan struct{}),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.dispose = s.Subscribe(p.receive)
	return p
}

func (p *Presenter) receive(n Notification) {
	stop := make(chan struct{})

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.visible[n.ID] = n
	p.order = append(p.order, n.ID)
	p.progress[n.ID] = 1
	p.cancels[n.ID] = stop
	p.wg.Add(1)
	p.mu.Unlock()

	if p.onDisplay != nil {
		p.onDisplay(n)
	}

	go p.countdown(n, stop)
}

// countdown runs one notification's dismissal timer. Without progress a
// single timer fires at the full duration; with progress a recurring tick
// recomputes the remaining fraction until it reaches zero.
func (p *Presenter) countdown(n Notification, stop <-chan struct{}) {
	defer p.wg.Done()

	if !n.ShowProgress {
		t := time.NewTimer(n.Duration)
		defer t.Stop()
		select {
		case <-t.C:
			p.Dismiss(n.ID)
		case <-stop:
		}
		return
	}

	start := time.Now()
	tick := time.NewTicker(progressTick)
	defer tick.Stop()
	for {
		select {
		case <-tick.C:
			fraction := 1 - float64(time.Since(start))/float64(n.Duration)
			if fraction < 0 {
				fraction = 0
			}
			p.setProgress(n.ID, fraction)
			if fraction == 0 {
				p.Dismiss(n.ID)
				return
			}
		case <-stop:
			return
		}
	}
}

func (p *Presenter) setProgress(id string, fraction float64) {
	p.mu.Lock()
	prev, ok := p.progress[id]
	if !ok || fraction >= prev {
		// Dismissed meanwhile, or the clock stepped; fractions only decrease.
		p.mu.Unlock()
		return
	}
	p.progress[id] = fraction
	p.mu.Unlock()

	if p.onProgress != nil {
		p.onProgress(id, fraction)
	}
}

// Dismiss removes a notification from the visible set and cancels its timer.
// Dismissing an id that is not present is a no-op, which covers the race
// where a timer fires after a manual dismiss already happened.
func (p *Presenter) Dismiss(id string) {
	p.mu.Lock()
	n, ok := p.visible[id]
	if !ok {
		p.mu.Unlock()
		return
	}
	delete(p.visible, id)
	delete(p.progress, id)
	stop := p.cancels[id]
	delete(p.cancels, id)
	for i, v := range p.order {
		if v == id {
			p.order = append(p.order[:i], p.order[i+1:]...)
			break
		}
	}
	p.mu.Unlock()

	if stop != nil {
		close(stop)
	}
	if p.onDismiss != nil {
		p.onDismiss(n)
	}
}

// Visible returns the currently visible notifications in arrival order.
func (p *Presenter) Visible() []Notification {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]Notification, 0, len(p.order))
	for _, id := range p.order {
		out = append(out, p.visible[id])
	}
	return out
}

// Progress reports the remaining-time fraction for a visible notification.
func (p *Presenter) Progress(id string) (float64, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	f, ok := p.progress[id]
	return f, ok
}

// Close detaches from the publish channel and cancels every outstanding
// timer. No timer callback runs against the presenter after Close returns.
func (p *Presenter) Close() {
	p.dispose()

	p.mu.Lock()
	p.closed = true
	stops := make([]chan struct{}, 0, len(p.cancels))
	for id, stop := range p.cancels {
		stops = append(stops, stop)
		delete(p.cancels, id)
	}
	p.visible = make(map[string]Notification)
	p.progress = make(map[string]float64)
	p.order = nil
	p.mu.Unlock()

	for _, stop := range stops {
		close(stop)
	}
	p.wg.Wait()
}

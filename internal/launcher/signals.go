package launcher

import (
	"os"
	"os/signal"
	"sync"
	"syscall"
)

// ForwardedSignals are relayed from mpager to a spawned pager
var ForwardedSignals = []os.Signal{os.Interrupt, syscall.SIGTERM}

// SignalListener delivers termination signals received by mpager as messages.
// Listen starts delivery; Stop ends it and must be called once per Listen.
type SignalListener interface {
	Listen() <-chan os.Signal
	Stop()
}

// NotifyListener listens to real process signals via os/signal
type NotifyListener struct {
	signals []os.Signal
	mu      sync.Mutex
	ch      chan os.Signal
}

// NewNotifyListener creates a listener for sigs, or ForwardedSignals when none are given
func NewNotifyListener(sigs ...os.Signal) *NotifyListener {
	if len(sigs) == 0 {
		sigs = ForwardedSignals
	}
	return &NotifyListener{signals: sigs}
}

// Listen implements SignalListener
func (l *NotifyListener) Listen() <-chan os.Signal {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.ch = make(chan os.Signal, len(l.signals))
	signal.Notify(l.ch, l.signals...)
	return l.ch
}

// Stop implements SignalListener
func (l *NotifyListener) Stop() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.ch != nil {
		signal.Stop(l.ch)
		l.ch = nil
	}
}

// ChanListener delivers whatever is sent on C. Used to drive forwarding in tests.
type ChanListener struct {
	C chan os.Signal

	mu      sync.Mutex
	stopped int
}

// NewChanListener creates a ChanListener with a buffered channel
func NewChanListener() *ChanListener {
	return &ChanListener{C: make(chan os.Signal, 4)}
}

// Listen implements SignalListener
func (l *ChanListener) Listen() <-chan os.Signal {
	return l.C
}

// Stop implements SignalListener
func (l *ChanListener) Stop() {
	l.mu.Lock()
	l.stopped++
	l.mu.Unlock()
}

// Stopped reports how many times Stop was called
func (l *ChanListener) Stopped() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.stopped
}

// Package notify carries user-facing outcome messages (cart updated,
// login failed, ...) from the stores to whoever presents them.
package notify

import (
	"sync"

	"go.uber.org/zap"
)

type Variant string

const (
	VariantDefault     Variant = "default"
	VariantDestructive Variant = "destructive"
)

type Notice struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Variant     Variant `json:"variant"`
}

type Notifier interface {
	Notify(n Notice)
}

func Info(title, desc string) Notice {
	return Notice{Title: title, Description: desc, Variant: VariantDefault}
}

func Failure(title, desc string) Notice {
	return Notice{Title: title, Description: desc, Variant: VariantDestructive}
}

type LogNotifier struct {
	Log *zap.Logger
}

func (l LogNotifier) Notify(n Notice) {
	if l.Log == nil {
		return
	}
	l.Log.Info("notice",
		zap.String("title", n.Title),
		zap.String("description", n.Description),
		zap.String("variant", string(n.Variant)),
	)
}

// Recorder buffers notices until drained.
type Recorder struct {
	mu      sync.Mutex
	notices []Notice
}

func (r *Recorder) Notify(n Notice) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, n)
}

// Drain returns and forgets every buffered notice.
func (r *Recorder) Drain() []Notice {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := r.notices
	r.notices = nil
	if out == nil {
		out = []Notice{}
	}
	return out
}

type multi []Notifier

func Multi(ns ...Notifier) Notifier { return multi(ns) }

func (m multi) Notify(n Notice) {
	for _, x := range m {
		if x != nil {
			x.Notify(n)
		}
	}
}

type nop struct{}

func (nop) Notify(Notice) {}

func Nop() Notifier { return nop{} }

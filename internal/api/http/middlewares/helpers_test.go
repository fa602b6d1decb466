package middlewares

import (
	"context"
	"log/slog"
	"sync"
)

// eventLog реализует slog.Handler и пишет тексты записей в общий журнал событий теста.
type eventLog struct {
	mu     sync.Mutex
	events []string
	attrs  map[string][]slog.Attr
}

func newEventLog() *eventLog {
	return &eventLog{attrs: map[string][]slog.Attr{}}
}

func (l *eventLog) add(event string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, event)
}

func (l *eventLog) list() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.events...)
}

func (l *eventLog) attr(msg, key string) (slog.Value, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, a := range l.attrs[msg] {
		if a.Key == key {
			return a.Value, true
		}
	}
	return slog.Value{}, false
}

func (l *eventLog) Enabled(context.Context, slog.Level) bool { return true }

func (l *eventLog) Handle(_ context.Context, r slog.Record) error {
	l.add(r.Message)
	l.mu.Lock()
	defer l.mu.Unlock()
	var attrs []slog.Attr
	r.Attrs(func(a slog.Attr) bool {
		attrs = append(attrs, a)
		return true
	})
	l.attrs[r.Message] = attrs
	return nil
}

func (l *eventLog) WithAttrs([]slog.Attr) slog.Handler { return l }
func (l *eventLog) WithGroup(string) slog.Handler { return l }

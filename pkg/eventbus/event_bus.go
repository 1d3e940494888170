// Package eventbus dispatches in-process events to handlers chosen by their
// parameter types.
package eventbus

import (
	"context"
	"reflect"
	"sync"

	"github.com/sirupsen/logrus"
)

type EventBus interface {
	Publish(ctx context.Context, event any)
	Subscribe(handler any)
	SubscribersCount() int
}

var contextType = reflect.TypeOf((*context.Context)(nil)).Elem()

type publisherImpl struct {
	log         *logrus.Logger
	mu          sync.RWMutex
	subscribers []reflect.Value
}

func NewEventPublisher(log *logrus.Logger) EventBus {
	return &publisherImpl{log: log}
}

// MatchSignature reports whether handler is func(context.Context, E) and event
// is assignable to E.
func MatchSignature(handler any, event any) bool {
	t := reflect.TypeOf(handler)
	if t == nil || t.Kind() != reflect.Func || t.NumIn() != 2 {
		return false
	}
	if t.In(0) != contextType || event == nil {
		return false
	}
	return reflect.TypeOf(event).AssignableTo(t.In(1))
}

// Publish calls every matching handler synchronously. A panicking handler is
// logged and does not stop the others.
func (p *publisherImpl) Publish(ctx context.Context, event any) {
	p.mu.RLock()
	subscribers := append([]reflect.Value(nil), p.subscribers...)
	p.mu.RUnlock()

	in := []reflect.Value{reflect.ValueOf(ctx), reflect.ValueOf(event)}
	handled := false
	for _, handler := range subscribers {
		if !MatchSignature(handler.Interface(), event) {
			continue
		}
		func() {
			defer func() {
				if r := recover(); r != nil && p.log != nil {
					p.log.Errorf("eventbus: handler %s panicked on %T: %v", handler.Type(), event, r)
				}
			}()
			handler.Call(in)
			handled = true
		}()
	}

	if !handled && p.log != nil {
		p.log.Debugf("eventbus.Publish: no matching subscribers for %T", event)
	}
}

func (p *publisherImpl) Subscribe(handler any) {
	v := reflect.ValueOf(handler)
	if v.Kind() != reflect.Func {
		panic("handler must be a function")
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.subscribers = append(p.subscribers, v)
}

func (p *publisherImpl) SubscribersCount() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.subscribers)
}

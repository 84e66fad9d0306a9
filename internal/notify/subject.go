package notify

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// Observer reacciona a los eventos de un Subject. Las implementaciones deben
// ser comparables (receptores puntero) para detectar registros duplicados.
type Observer interface {
	Name() string
	Update(ctx context.Context, ev Event) error
}

// Critical lo implementan los observadores cuyo fallo hace fallar la operacion
// que emitio el evento. El resto es best-effort.
type Critical interface {
	DeliveryCritical() bool
}

func isCritical(o Observer) bool {
	c, ok := o.(Critical)
	return ok && c.DeliveryCritical()
}

// Failure registra un observador que fallo o entro en panic durante Notify.
type Failure struct {
	Observer string
	Critical bool
	Err      error
}

// Result es el resultado de una llamada a Notify.
type Result struct {
	Delivered int
	Failures  []Failure
}

func (r Result) OK() bool {
	return len(r.Failures) == 0
}

// CriticalErr une los errores de los observadores criticos, o devuelve nil.
func (r Result) CriticalErr() error {
	var errs []error
	for _, f := range r.Failures {
		if f.Critical {
			errs = append(errs, f.Err)
		}
	}
	return errors.Join(errs...)
}

// Subject mantiene una lista ordenada y sin duplicados de observadores.
type Subject struct {
	name      string
	logger    *zap.Logger
	mu        sync.RWMutex
	observers []Observer
}

func NewSubject(name string, logger *zap.Logger) *Subject {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Subject{name: name, logger: logger}
}

func (s *Subject) Name() string {
	return s.name
}

// Attach agrega o al final de la lista. Si ya estaba registrado no hace nada.
func (s *Subject) Attach(o Observer) {
	if o == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.observers {
		if existing == o {
			return
		}
	}
	s.observers = append(s.observers, o)
	s.logger.Info("observer attached", zap.String("subject", s.name), zap.String("observer", o.Name()))
}

// Detach quita o e informa si estaba registrado.
func (s *Subject) Detach(o Observer) bool {
	if o == nil {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, existing := range s.observers {
		if existing == o {
			s.observers = append(s.observers[:i:i], s.observers[i+1:]...)
			s.logger.Info("observer detached", zap.String("subject", s.name), zap.String("observer", o.Name()))
			return true
		}
	}
	s.logger.Warn("observer not found", zap.String("subject", s.name), zap.String("observer", o.Name()))
	return false
}

func (s *Subject) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.observers)
}

// Notify entrega ev a cada observador en orden de registro, en la goroutine
// del llamador. Un fallo se loguea y se anota en Result sin cortar la entrega.
func (s *Subject) Notify(ctx context.Context, ev Event) Result {
	s.mu.RLock()
	snapshot := make([]Observer, len(s.observers))
	copy(snapshot, s.observers)
	s.mu.RUnlock()

	s.logger.Debug("notifying observers",
		zap.String("subject", s.name),
		zap.String("event", string(ev.Kind)),
		zap.String("subject_id", ev.SubjectID),
		zap.Int("observers", len(snapshot)),
	)

	var res Result
	for _, o := range snapshot {
		if err := s.deliver(ctx, o, ev); err != nil {
			critical := isCritical(o)
			s.logger.Error("observer failed",
				zap.String("subject", s.name),
				zap.String("observer", o.Name()),
				zap.String("event", string(ev.Kind)),
				zap.Bool("critical", critical),
				zap.Error(err),
			)
			res.Failures = append(res.Failures, Failure{Observer: o.Name(), Critical: critical, Err: err})
			continue
		}
		res.Delivered++
	}
	return res
}

func (s *Subject) deliver(ctx context.Context, o Observer, ev Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("observer %s panicked: %v", o.Name(), r)
		}
	}()
	return o.Update(ctx, ev)
}

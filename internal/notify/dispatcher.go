package notify

import (
	"context"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"

	"doggy-rescue/internal/domain"
)

var emailsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{Name: "notify_emails_total", Help: "Emails dispatched by kind and result"},
	[]string{"kind", "result"},
)

func init() { prometheus.MustRegister(emailsTotal) }

type Options struct {
	AdminTo     []string
	BaseURL     string
	Timeout     time.Duration
	MaxInFlight int64
}

// Dispatcher runs each send in its own goroutine. At most MaxInFlight sends
// talk to the mail server at once; failures are logged and counted only.
type Dispatcher struct {
	sender Sender
	log    *zap.Logger
	opts   Options
	sem    *semaphore.Weighted
	wg     sync.WaitGroup
}

func NewDispatcher(sender Sender, l *zap.Logger, o Options) *Dispatcher {
	if o.Timeout <= 0 {
		o.Timeout = 15 * time.Second
	}
	if o.MaxInFlight <= 0 {
		o.MaxInFlight = 8
	}
	return &Dispatcher{sender: sender, log: l, opts: o, sem: semaphore.NewWeighted(o.MaxInFlight)}
}

func (d *Dispatcher) dispatch(kind string, m Message) {
	if len(m.To) == 0 {
		d.log.Debug("email skipped, no recipient", zap.String("kind", kind))
		return
	}
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), d.opts.Timeout)
		defer cancel()
		if err := d.sem.Acquire(ctx, 1); err != nil {
			emailsTotal.WithLabelValues(kind, "dropped").Inc()
			d.log.Warn("email dropped", zap.String("kind", kind), zap.Error(err))
			return
		}
		defer d.sem.Release(1)
		if err := d.sender.Send(ctx, m); err != nil {
			emailsTotal.WithLabelValues(kind, "failed").Inc()
			d.log.Error("email failed", zap.String("kind", kind), zap.Strings("to", m.To), zap.Error(err))
			return
		}
		emailsTotal.WithLabelValues(kind, "sent").Inc()
	}()
}

// Wait blocks until in-flight sends finish or ctx ends.
func (d *Dispatcher) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *Dispatcher) Welcome(u domain.User) {
	html, err := render(welcomeTmpl, map[string]any{"Name": u.FullName(), "BaseURL": d.opts.BaseURL})
	if err != nil {
		d.log.Error("render welcome email", zap.Error(err))
		return
	}
	d.dispatch("welcome", Message{To: []string{u.Email}, Subject: "Welcome to Doggy Rescue", HTML: html})
}

func (d *Dispatcher) AdoptionRequested(req domain.AdoptionRequest, u domain.User, dog domain.Dog) {
	html, err := render(requestedTmpl, map[string]any{
		"DogName":    dog.Name,
		"DogBreed":   dog.Breed,
		"Applicant":  u.FullName(),
		"Email":      u.Email,
		"AdopterAge": req.AdopterAge,
		"People":     req.NumberOfPeople,
		"HoursAway":  req.DailyHoursAway,
		"Key":        req.Key().String(),
		"BaseURL":    d.opts.BaseURL,
	})
	if err != nil {
		d.log.Error("render adoption email", zap.Error(err))
		return
	}
	d.dispatch("adoption_requested", Message{
		To:      d.opts.AdminTo,
		Subject: "New adoption request: " + dog.Name,
		HTML:    html,
	})
}

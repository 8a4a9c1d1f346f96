package services

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/planora/weekplanner/internal/events"
	"github.com/planora/weekplanner/internal/grid"
	"github.com/planora/weekplanner/internal/model"
)

// Reconciler keeps one session's in-memory grid in step with appointment
// changes made elsewhere. The grid is owned by the session goroutine, so
// Run must be the only writer while the reconciler is active. Stale events
// lose by last-write-wins inside ApplyRemote.
type Reconciler struct {
	grid   *grid.Store
	bus    *events.Bus
	userID string
	log    zerolog.Logger
}

func NewReconciler(g *grid.Store, bus *events.Bus, userID string, log zerolog.Logger) *Reconciler {
	return &Reconciler{grid: g, bus: bus, userID: userID, log: log}
}

// Run subscribes to the bus and applies appointment events for this user
// until the context is cancelled or the bus closes the subscription.
func (r *Reconciler) Run(ctx context.Context) {
	ch, cancel := r.bus.Subscribe()
	defer cancel()

	for {
		select {
		case <-ctx.Done():
			return
		case e, open := <-ch:
			if !open {
				return
			}
			r.apply(e)
		}
	}
}

func (r *Reconciler) apply(e events.Event) {
	if e.Collection != events.CollectionAppointments || e.UserID != r.userID {
		return
	}
	switch e.Op {
	case events.OpUpsert:
		b, ok := e.Payload.(*model.Appointment)
		if !ok {
			r.log.Warn().Str("key", e.Key).Msg("appointment event without block payload")
			return
		}
		r.grid.ApplyRemote(b)
	case events.OpDelete:
		r.grid.RemoveRemote(e.Key)
	}
}

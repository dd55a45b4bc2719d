// Package dispatch pushes normalized events into the sink and fans a few
// milestones out to the legacy destinations.
package dispatch

import (
	"context"

	"github.com/rs/zerolog/log"

	"example.com/travelanalytics/internal/domain"
	"example.com/travelanalytics/internal/legacy"
	"example.com/travelanalytics/internal/normalize"
	"example.com/travelanalytics/internal/sink"
)

type Dispatcher struct {
	sink   sink.Sink
	legacy legacy.Notifiers
}

func New(s sink.Sink, n legacy.Notifiers) *Dispatcher {
	return &Dispatcher{sink: s, legacy: n}
}

// Dispatch clears the ecommerce slot, pushes the event and notifies the
// legacy destinations. Failures are logged, never returned.
func (d *Dispatcher) Dispatch(ctx context.Context, ev normalize.Event, user domain.UserIdentity) {
	if err := d.sink.Push(ctx, sink.ClearMarker()); err != nil {
		log.Error().Err(err).Str("event", ev.Name).Msg("sink clear failed")
	}
	if err := d.sink.Push(ctx, record(ev, user)); err != nil {
		log.Error().Err(err).Str("event", ev.Name).Msg("sink push failed")
	} else {
		log.Debug().Str("event", ev.Name).Msg("event dispatched")
	}
	d.notifyLegacy(ctx, ev)
}

func record(ev normalize.Event, user domain.UserIdentity) sink.Record {
	r := sink.Record{}
	for k, v := range ev.Params {
		r[k] = v
	}
	r["event"] = ev.Name
	r["user_data"] = user
	if ev.Ecommerce != nil {
		r["ecommerce"] = ev.Ecommerce
	}
	return r
}

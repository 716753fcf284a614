// Package hub implements the master's relay hub. Worker processes connect
// over WebSocket; a relay frame from one worker is rebroadcast as an echo to
// every other worker, never back to the sender.
package hub

import (
	"context"

	"github.com/beaumontjonathan/words/internal/logging"
	"github.com/beaumontjonathan/words/internal/protocol"
)

type inbound struct {
	from *Worker
	env  protocol.Envelope
}

type Hub struct {
	logger logging.Logger

	register   chan *Worker
	unregister chan *Worker
	relay      chan inbound

	workers map[*Worker]struct{}
}

func NewHub(logger logging.Logger) *Hub {
	return &Hub{
		logger:     logger.With("module", "hub"),
		register:   make(chan *Worker),
		unregister: make(chan *Worker),
		relay:      make(chan inbound),
		workers:    make(map[*Worker]struct{}),
	}
}

// Run owns the worker set. All registration and broadcast goes through this
// loop, so no locking is needed anywhere else in the package.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case w := <-h.register:
			h.workers[w] = struct{}{}
			h.logger.Info(ctx, "Worker connected", "worker", w.id, "workers", len(h.workers))

		case w := <-h.unregister:
			if _, ok := h.workers[w]; ok {
				delete(h.workers, w)
				close(w.send)
				h.logger.Info(ctx, "Worker disconnected", "worker", w.id, "workers", len(h.workers))
			}

		case in := <-h.relay:
			h.handleRelay(ctx, in)

		case <-ctx.Done():
			for w := range h.workers {
				delete(h.workers, w)
				close(w.send)
			}
			return
		}
	}
}

func (h *Hub) handleRelay(ctx context.Context, in inbound) {
	var echoAction string
	switch in.env.Action {
	case protocol.ActionAddWordRelay:
		echoAction = protocol.ActionAddWordRelayEcho
	case protocol.ActionRemoveWordRelay:
		echoAction = protocol.ActionRemoveWordRelayEcho
	default:
		h.logger.Warn(ctx, "unknown action from worker", "worker", in.from.id, "action", in.env.Action)
		return
	}

	echo := protocol.Envelope{Action: echoAction, Data: in.env.Data}

	for w := range h.workers {
		if w == in.from {
			continue
		}
		select {
		case w.send <- echo:
		default:
			// The worker is not draining its queue. Cut it loose; it will
			// redial and re-register.
			delete(h.workers, w)
			close(w.send)
			h.logger.Warn(ctx, "Worker send queue full, dropping worker", "worker", w.id)
		}
	}
}

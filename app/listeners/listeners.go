// Package listeners wires domain events to their side effects: WebSocket
// broadcasts for the admin dashboard and queued follow-up jobs.
package listeners

import (
	"encoding/json"

	"github.com/keysncaps/keysncaps/app/jobs"
	"github.com/keysncaps/keysncaps/app/models"
	"github.com/keysncaps/keysncaps/app/services"
	"github.com/keysncaps/keysncaps/pkg/event"
	"github.com/keysncaps/keysncaps/pkg/logger"
	"github.com/keysncaps/keysncaps/pkg/queue"
	"github.com/keysncaps/keysncaps/pkg/ws"
)

// notification is the JSON frame pushed to connected WebSocket clients.
// Delivery is fire-and-forget.
type notification struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// Boot registers all event listeners. Call once at startup.
func Boot(hub *ws.Hub) {
	event.Listen(services.EventOrderCreated, func(payload interface{}) {
		order, ok := payload.(models.Order)
		if !ok {
			return
		}

		broadcast(hub, services.EventOrderCreated, order)

		if err := queue.Dispatch(&jobs.LowStockScan{TriggeredBy: order.ID.Hex()}); err != nil {
			logger.Error("listeners: low stock scan dispatch failed", "error", err)
		}
	})

	event.Listen(services.EventOrderStatusChanged, func(payload interface{}) {
		order, ok := payload.(models.Order)
		if !ok {
			return
		}
		broadcast(hub, services.EventOrderStatusChanged, order)
	})
}

func broadcast(hub *ws.Hub, name string, data interface{}) {
	frame, err := json.Marshal(notification{Event: name, Data: data})
	if err != nil {
		logger.Error("listeners: marshal notification", "event", name, "error", err)
		return
	}
	hub.Broadcast <- frame
}

package utils

import (
	"go.mongodb.org/mongo-driver/event"
)

// MongoPoolMonitor mirrors driver pool events into the mongo_pool_connections gauge.
func MongoPoolMonitor() *event.PoolMonitor {
	open := MongoConnections.WithLabelValues("open")
	checkedOut := MongoConnections.WithLabelValues("checked_out")

	return &event.PoolMonitor{
		Event: func(e *event.PoolEvent) {
			switch e.Type {
			case event.ConnectionCreated:
				open.Inc()
			case event.ConnectionClosed:
				open.Dec()
			case event.GetSucceeded:
				checkedOut.Inc()
			case event.ConnectionReturned:
				checkedOut.Dec()
			}
		},
	}
}

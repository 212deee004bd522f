package events

import (
	"encoding/json"
	"log"

	"memories/config"

	"github.com/nats-io/nats.go"
)

var conn *nats.Conn

// Init connects to NATS. Without a configured URL the service runs
// standalone: no events go out and the group projection stays as-is.
func Init() {
	if config.NATS_URL == "" {
		log.Print("NATS_URL not set, eventing disabled")
		return
	}
	var err error
	conn, err = nats.Connect(config.NATS_URL,
		nats.MaxReconnects(-1),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Printf("NATS reconnected to %s", nc.ConnectedUrl())
		}),
	)
	if err != nil {
		log.Fatalf("cannot connect to NATS at %s: %v", config.NATS_URL, err)
	}
	if err = subscribeGroupEvents(conn); err != nil {
		log.Fatalf("cannot subscribe to group events: %v", err)
	}
}

func Close() {
	if conn != nil {
		conn.Drain()
	}
}

// PublishPostCreated notifies downstream consumers (image analysis, search
// indexing) about a new post. Publishing is best effort; a post must not
// fail because the bus is down.
func PublishPostCreated(event PostCreatedEvent) {
	if conn == nil {
		return
	}
	buf, err := json.Marshal(event)
	if err != nil {
		log.Printf("cannot encode post created event: %v", err)
		return
	}
	if err = conn.Publish(SubjectPostCreated, buf); err != nil {
		log.Printf("cannot publish post created event: %v", err)
	}
}

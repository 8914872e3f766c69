package services

import (
	"encoding/json"
	"log"

	"storefront/pkg/rabbitmq"
)

// EventPublisher is the messaging surface the services need. It is
// satisfied by *rabbitmq.Client.
type EventPublisher interface {
	Publish(exchange, routingKey string, body []byte) error
}

// publishOrderEvent marshals and publishes an order lifecycle event.
// Publishing is best-effort: a broker failure is logged and never fails
// the request that triggered it.
func publishOrderEvent(mq EventPublisher, routingKey string, payload map[string]interface{}) {
	if mq == nil {
		return
	}
	body, err := json.Marshal(payload)
	if err != nil {
		log.Printf("Failed to marshal %s event: %v", routingKey, err)
		return
	}
	if err := mq.Publish(rabbitmq.OrderExchange, routingKey, body); err != nil {
		log.Printf("Warning: failed to publish %s event: %v", routingKey, err)
	}
}

package handlers

import (
	"context"
	"fmt"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/instamart/backend/internal/mykafka"
)

// publish sends a domain event keyed by event["userID"]. A nil producer means
// events are disabled; delivery failures are logged and never fail a request.
func publish(c echo.Context, p *mykafka.Producer, topic string, event map[string]any) {
	if p == nil {
		return
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := p.PublishEvent(ctx, topic, fmt.Sprint(event["userID"]), event); err != nil {
		c.Logger().Errorf("Kafka publish error: %v", err)
	}
}

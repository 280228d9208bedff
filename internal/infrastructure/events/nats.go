// Package events broadcasts task lifecycle events over NATS. Plain
// core-NATS publish: the channel carries best-effort notifications with no
// delivery guarantee, so there is no stream or consumer state to manage.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lumacrm/backend/internal/config"
	"github.com/lumacrm/backend/internal/domain"
	"github.com/lumacrm/backend/internal/infrastructure/logger"
	"github.com/nats-io/nats.go"
)

// SubjectTaskCreated is the wire subject for task.created events on the
// tasks channel.
var SubjectTaskCreated = fmt.Sprintf("%s.%s", domain.TaskChannel, domain.EventTaskCreated)

type Client struct {
	nc  *nats.Conn
	log *logger.Logger
}

func Connect(cfg config.NATSConfig, log *logger.Logger) (*Client, error) {
	nc, err := nats.Connect(cfg.URL,
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(10),
		nats.ReconnectWait(time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	log.Infow("nats_connected", "url", cfg.URL)
	return &Client{nc: nc, log: log}, nil
}

func (c *Client) PublishTaskCreated(ctx context.Context, event domain.TaskCreatedEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal task event: %w", err)
	}
	if err := c.nc.Publish(SubjectTaskCreated, data); err != nil {
		return fmt.Errorf("failed to publish task event: %w", err)
	}
	c.log.Infow("task_event_published", "subject", SubjectTaskCreated, "task_id", event.TaskID)
	return nil
}

// SubscribeTaskCreated delivers each raw event payload to handler until the
// returned subscription is unsubscribed.
func (c *Client) SubscribeTaskCreated(handler func(data []byte)) (*nats.Subscription, error) {
	return c.nc.Subscribe(SubjectTaskCreated, func(msg *nats.Msg) {
		handler(msg.Data)
	})
}

func (c *Client) Close() {
	if c.nc != nil {
		c.nc.Close()
	}
}

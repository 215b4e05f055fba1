// workers/nats_relay.go
package workers

import (
	"fmt"
	"log/slog"

	"github.com/nats-io/nats.go"
)

// LocalDeliverer receives messages relayed from other instances.
type LocalDeliverer interface {
	Deliver(msg []byte)
}

// NATSRelay shares live messages between server instances over one subject.
// The connection is opened with NoEcho so an instance never receives its own
// messages back.
type NATSRelay struct {
	conn    *nats.Conn
	sub     *nats.Subscription
	subject string
}

func StartNATSRelay(url, subject string, local LocalDeliverer) (*NATSRelay, error) {
	nc, err := nats.Connect(url,
		nats.Name("slam-scoring-system"),
		nats.NoEcho(),
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				slog.Warn("[NATS] disconnected", "error", err)
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			slog.Info("[NATS] reconnected", "url", c.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connect to NATS: %w", err)
	}

	sub, err := nc.Subscribe(subject, func(m *nats.Msg) {
		local.Deliver(m.Data)
	})
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("subscribe to %s: %w", subject, err)
	}

	slog.Info("[NATS] live relay started", "subject", subject)
	return &NATSRelay{conn: nc, sub: sub, subject: subject}, nil
}

// Relay publishes msg to the other instances.
func (r *NATSRelay) Relay(msg []byte) error {
	return r.conn.Publish(r.subject, msg)
}

func (r *NATSRelay) Close() {
	if err := r.sub.Unsubscribe(); err != nil {
		slog.Warn("[NATS] unsubscribe failed", "error", err)
	}
	if err := r.conn.Drain(); err != nil {
		r.conn.Close()
	}
}

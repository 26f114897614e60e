// Package publisher streams interpolated vehicle positions to NATS for
// downstream consumers (displays, archiving, external apps). The HTTP
// API does not depend on it; a dashboard can run without a broker.
package publisher

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/nats-io/nats.go"
)

// PublisherMetrics is the slice of the metrics collector the publisher
// reports into.
type PublisherMetrics interface {
	NATSPublishedInc()
	NATSPublishErrInc()
	NATSSetConnected(connected bool)
}

type NATSPublisher struct {
	nc      *nats.Conn
	logger  *slog.Logger
	metrics PublisherMetrics
}

func NewNATSPublisher(url string, logger *slog.Logger, m PublisherMetrics) (*NATSPublisher, error) {
	nc, err := nats.Connect(url,
		nats.Name("perimap"),
		nats.DisconnectHandler(func(_ *nats.Conn) {
			if m != nil {
				m.NATSSetConnected(false)
			}
			if logger != nil {
				logger.Warn("nats disconnected")
			}
		}),
		nats.ReconnectHandler(func(_ *nats.Conn) {
			if m != nil {
				m.NATSSetConnected(true)
			}
			if logger != nil {
				logger.Info("nats reconnected")
			}
		}),
		nats.ClosedHandler(func(_ *nats.Conn) {
			if m != nil {
				m.NATSSetConnected(false)
			}
			if logger != nil {
				logger.Info("nats connection closed")
			}
		}),
	)
	if err != nil {
		return nil, err
	}
	if m != nil {
		m.NATSSetConnected(true)
	}
	return &NATSPublisher{nc: nc, logger: logger, metrics: m}, nil
}

func (p *NATSPublisher) Close() {
	if p.nc != nil {
		p.nc.Drain() // nolint:errcheck
		p.nc.Close()
	}
}

// PositionMessage is the per-vehicle payload published each tick.
type PositionMessage struct {
	TripID      string  `json:"tripId"`
	RouteID     string  `json:"routeId"`
	RouteName   string  `json:"routeName"`
	Destination string  `json:"destination"`
	Lat         float64 `json:"lat"`
	Lon         float64 `json:"lon"`
	Progress    float64 `json:"progress"`
	Seconds     int     `json:"seconds"`
	Status      string  `json:"status"`
}

// PublishPosition publishes one vehicle position on
// positions.<route>.<trip>.
func (p *NATSPublisher) PublishPosition(msg PositionMessage) error {
	subject := fmt.Sprintf("positions.%s.%s", subjectToken(msg.RouteID), subjectToken(msg.TripID))
	b, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	err = p.nc.Publish(subject, b)
	if p.metrics != nil {
		if err != nil {
			p.metrics.NATSPublishErrInc()
		} else {
			p.metrics.NATSPublishedInc()
		}
	}
	return err
}

func subjectToken(s string) string {
	s = strings.TrimSpace(s)
	// NATS tokens cannot contain spaces, '>', '*', or '.'.
	repl := strings.NewReplacer(" ", "_", ".", "_", ">", "_", "*", "_", "/", "_", "\t", "_")
	s = repl.Replace(s)
	if s == "" {
		s = "_"
	}
	return s
}

package mqtt

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/eclipse/paho.golang/autopaho"
	"github.com/eclipse/paho.golang/paho"
	"github.com/lcalzada-xor/fleetdash/internal/core/domain"
	"github.com/lcalzada-xor/fleetdash/internal/core/ports"
	"github.com/lcalzada-xor/fleetdash/internal/telemetry"
)

const (
	defaultTopicRoot = "fleetdash"
	defaultKeepAlive = 30
	publishTimeout   = 5 * time.Second
	sampleBacklog    = 8
)

// Config configures the broker connection.
type Config struct {
	BrokerURL string
	ClientID  string
	TopicRoot string
	KeepAlive uint16
	QoS       byte
}

// Validate checks the broker URL and fills defaults.
func (c *Config) Validate() error {
	if c.BrokerURL == "" {
		return errors.New("broker url is required")
	}
	u, err := url.Parse(c.BrokerURL)
	if err != nil {
		return fmt.Errorf("invalid broker url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid broker url %q: scheme and host required", c.BrokerURL)
	}
	if c.ClientID == "" {
		c.ClientID = "fleetdash"
	}
	c.TopicRoot = strings.Trim(c.TopicRoot, "/")
	if c.TopicRoot == "" {
		c.TopicRoot = defaultTopicRoot
	}
	if c.KeepAlive == 0 {
		c.KeepAlive = defaultKeepAlive
	}
	if c.QoS > 2 {
		return fmt.Errorf("invalid qos %d", c.QoS)
	}
	return nil
}

// publishClient is the part of the connection manager the publisher uses.
type publishClient interface {
	Publish(ctx context.Context, topic string, payload []byte) error
}

type connectionClient struct {
	cm  *autopaho.ConnectionManager
	qos byte
}

func (c connectionClient) Publish(ctx context.Context, topic string, payload []byte) error {
	_, err := c.cm.Publish(ctx, &paho.Publish{
		Topic:   topic,
		QoS:     c.qos,
		Retain:  true,
		Payload: payload,
	})
	return err
}

// Publisher mirrors published snapshots to <root>/fleet and samples to
// <root>/timeseries.
type Publisher struct {
	cfg     Config
	source  ports.SnapshotSource
	client  publishClient
	cm      *autopaho.ConnectionManager
	samples chan domain.Sample

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	done    chan struct{}
}

// NewPublisher validates cfg. Nothing connects until Start.
func NewPublisher(cfg Config, source ports.SnapshotSource) (*Publisher, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid mqtt config: %w", err)
	}
	return &Publisher{
		cfg:     cfg,
		source:  source,
		samples: make(chan domain.Sample, sampleBacklog),
	}, nil
}

// FleetTopic is where snapshots are published.
func (p *Publisher) FleetTopic() string { return p.cfg.TopicRoot + "/fleet" }

// TimeseriesTopic is where samples are published.
func (p *Publisher) TimeseriesTopic() string { return p.cfg.TopicRoot + "/timeseries" }

// Start opens the broker connection in the background and begins publishing.
// The connection manager retries on its own; Start only fails on bad config.
func (p *Publisher) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.running {
		return nil
	}

	if p.client == nil {
		brokerURL, _ := url.Parse(p.cfg.BrokerURL) // Already validated
		cm, err := autopaho.NewConnection(ctx, autopaho.ClientConfig{
			ServerUrls:                    []*url.URL{brokerURL},
			KeepAlive:                     p.cfg.KeepAlive,
			CleanStartOnInitialConnection: true,
			ReconnectBackoff:              autopaho.NewConstantBackoff(3 * time.Second),
			ConnectTimeout:                10 * time.Second,
			OnConnectionUp: func(*autopaho.ConnectionManager, *paho.Connack) {
				slog.Info("MQTT connection established", "broker", p.cfg.BrokerURL)
			},
			OnConnectError: func(err error) {
				slog.Warn("MQTT connection failed, retrying", "error", err)
			},
			ClientConfig: paho.ClientConfig{
				ClientID: p.cfg.ClientID,
				OnClientError: func(err error) {
					slog.Error("MQTT client error", "error", err)
				},
			},
		})
		if err != nil {
			return fmt.Errorf("failed to start mqtt connection: %w", err)
		}
		p.cm = cm
		p.client = connectionClient{cm: cm, qos: p.cfg.QoS}
	}

	loopCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.done = make(chan struct{})
	p.running = true

	snapshots, unsubscribe := p.source.Subscribe(1)
	go p.loop(loopCtx, snapshots, unsubscribe, p.done)

	slog.Info("MQTT publisher started", "broker", p.cfg.BrokerURL, "topic_root", p.cfg.TopicRoot)
	return nil
}

// Stop ends the publish loop and disconnects. Safe to call more than once.
func (p *Publisher) Stop(ctx context.Context) {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return
	}
	p.running = false
	cancel, done, cm := p.cancel, p.done, p.cm
	p.mu.Unlock()

	cancel()
	<-done
	if cm != nil {
		if err := cm.Disconnect(ctx); err != nil {
			slog.Warn("MQTT disconnect failed", "error", err)
		}
	}
	slog.Info("MQTT publisher stopped")
}

// RecordSample queues a sample for publishing without blocking.
func (p *Publisher) RecordSample(_ context.Context, sample domain.Sample) {
	select {
	case p.samples <- sample:
	default:
		telemetry.SinkErrors.WithLabelValues("mqtt_queue_full").Inc()
	}
}

func (p *Publisher) loop(ctx context.Context, snapshots <-chan domain.Snapshot, unsubscribe func(), done chan struct{}) {
	defer close(done)
	defer unsubscribe()

	// Subscribers only see later publishes; retain the current fleet now.
	if snap := p.source.Snapshot(); snap.Version > 0 {
		p.publish(ctx, p.FleetTopic(), snap)
	}

	for {
		select {
		case <-ctx.Done():
			return
		case snap, ok := <-snapshots:
			if !ok {
				return
			}
			p.publish(ctx, p.FleetTopic(), snap)
		case smp := <-p.samples:
			p.publish(ctx, p.TimeseriesTopic(), smp)
		}
	}
}

func (p *Publisher) publish(ctx context.Context, topic string, v interface{}) {
	payload, err := json.Marshal(v)
	if err != nil {
		slog.Error("MQTT payload encoding failed", "topic", topic, "error", err)
		return
	}

	pubCtx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()
	if err := p.client.Publish(pubCtx, topic, payload); err != nil {
		telemetry.SinkErrors.WithLabelValues("mqtt").Inc()
		slog.Warn("MQTT publish failed", "topic", topic, "error", err)
	}
}

// Ensure interface compliance
var _ ports.SampleSink = (*Publisher)(nil)

package mqttsub

import (
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"go.uber.org/zap"
)

// Handler receives the raw payload of every message on the topic.
type Handler func(topic string, payload []byte)

// Subscriber keeps a subscription alive across broker reconnects.
type Subscriber struct {
	client mqtt.Client
	topic  string
	qos    byte
	log    *zap.Logger
}

// Options configures the broker connection.
type Options struct {
	Broker   string
	ClientID string
	Topic    string
	QoS      byte
}

// New builds a client that resubscribes with h on every (re)connect.
func New(opts Options, h Handler, log *zap.Logger) *Subscriber {
	s := &Subscriber{topic: opts.Topic, qos: opts.QoS, log: log}

	co := mqtt.NewClientOptions().
		AddBroker(opts.Broker).
		SetClientID(opts.ClientID).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5 * time.Second).
		SetCleanSession(true).
		SetOrderMatters(false)
	co.SetOnConnectHandler(func(c mqtt.Client) {
		token := c.Subscribe(s.topic, s.qos, func(_ mqtt.Client, m mqtt.Message) {
			h(m.Topic(), m.Payload())
		})
		token.Wait()
		if err := token.Error(); err != nil {
			s.log.Error("mqtt subscribe failed", zap.String("topic", s.topic), zap.Error(err))
			return
		}
		s.log.Info("mqtt subscribed", zap.String("topic", s.topic), zap.Uint8("qos", s.qos))
	})
	co.SetConnectionLostHandler(func(_ mqtt.Client, err error) {
		s.log.Warn("mqtt connection lost", zap.Error(err))
	})

	s.client = mqtt.NewClient(co)
	return s
}

// Connect starts the connection, waiting at most timeout for the first
// attempt.
func (s *Subscriber) Connect(timeout time.Duration) error {
	token := s.client.Connect()
	if !token.WaitTimeout(timeout) {
		return fmt.Errorf("mqtt connect: timed out after %s", timeout)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("mqtt connect: %w", err)
	}
	return nil
}

// Close unsubscribes and disconnects.
func (s *Subscriber) Close() {
	if s.client.IsConnected() {
		s.client.Unsubscribe(s.topic).WaitTimeout(time.Second)
	}
	s.client.Disconnect(250)
}

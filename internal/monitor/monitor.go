// Package monitor delivers informational events: channel changes and
// lifecycle milestones. Events go to the log and, when a broker is
// configured, to MQTT topics. Delivery is best-effort, nothing in the
// control loop depends on it.
package monitor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/copsvsninjas/eegsynth/internal/config"
	"github.com/copsvsninjas/eegsynth/internal/logger"
	"github.com/copsvsninjas/eegsynth/internal/patch"
)

// topicPrefix is the root of all published topics.
const topicPrefix = "outputartnet"

// Monitor структура монитора.
type Monitor struct {
	ctx    context.Context
	logger logger.Logger
	cfg    config.MQTTConf
	client mqtt.Client
}

// ChangeEvent is the payload published for one channel update.
type ChangeEvent struct {
	Channel int   `json:"channel"`
	Value   uint8 `json:"value"`
}

// NewMonitor конструктор.
func NewMonitor(log logger.Logger, cfg config.MQTTConf) *Monitor {
	return &Monitor{
		logger: log,
		cfg:    cfg,
	}
}

// Enabled reports whether an MQTT broker is configured.
func (m *Monitor) Enabled() bool {
	return m.cfg.Host != ""
}

// Start connects to the broker. A no-op when no broker is configured.
func (m *Monitor) Start(ctx context.Context) error {
	m.ctx = ctx
	if !m.Enabled() {
		return nil
	}

	if m.logger.GetLevel() == "debug" {
		mqtt.ERROR = log.New(os.Stdout, "[ERROR] ", 0)
		mqtt.CRITICAL = log.New(os.Stdout, "[CRIT] ", 0)
		mqtt.WARN = log.New(os.Stdout, "[WARN]  ", 0)
	}

	opts := mqtt.NewClientOptions().
		AddBroker(fmt.Sprintf("tcp://%s:%s", m.cfg.Host, m.cfg.Port)).
		SetUsername(m.cfg.User).
		SetPassword(m.cfg.Password).
		SetClientID(m.cfg.ClientID).
		SetOnConnectHandler(m.connectHandler).
		SetConnectionLostHandler(m.connectLostHandler).
		SetOrderMatters(false).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5 * time.Second).
		SetMaxReconnectInterval(5 * time.Second).
		SetKeepAlive(30 * time.Second)

	m.client = mqtt.NewClient(opts)

	token := m.client.Connect()
	select {
	case <-token.Done():
		if token.Error() != nil {
			return token.Error()
		}
	case <-ctx.Done():
		return errors.New("context canceled")
	}

	m.logger.With(logger.Fields{"module": "mqtt"}).Infof("Status: %v", m.client.IsConnected())
	return nil
}

// Stop disconnects from the broker.
func (m *Monitor) Stop() error {
	if m.client != nil && m.client.IsConnected() {
		m.client.Disconnect(500)
	}
	return nil
}

// ChannelChanged reports one channel update (zero-based index).
func (m *Monitor) ChannelChanged(channel int, value uint8) {
	m.logger.With(logger.Fields{"module": "monitor"}).Infof("DMX %s = %d", patch.ChannelKey(channel), value)
	if m.client == nil {
		return
	}

	msg, err := json.Marshal(ChangeEvent{Channel: channel, Value: value})
	if err != nil {
		m.logger.With(logger.Fields{"module": "mqtt"}).Errorf("failed to marshal event: %v", err)
		return
	}
	m.publish(fmt.Sprintf("%s/%s", topicPrefix, patch.ChannelKey(channel)), msg)
}

// Milestone reports a lifecycle event (startup, shutdown, universe size).
func (m *Monitor) Milestone(event string) {
	m.logger.With(logger.Fields{"module": "monitor"}).Info(event)
	if m.client == nil {
		return
	}
	m.publish(topicPrefix+"/status", []byte(event))
}

func (m *Monitor) publish(topic string, msg []byte) {
	token := m.client.Publish(topic, 0, false, msg)
	go func() {
		select {
		case <-m.ctx.Done():
			return
		case <-token.Done():
			if token.Error() != nil {
				m.logger.With(logger.Fields{"module": "mqtt"}).Errorf("error publish topic %s. %v\n", topic, token.Error())
			}
		}
	}()
}

func (m *Monitor) connectHandler(_ mqtt.Client) {
	m.logger.With(logger.Fields{"module": "mqtt"}).Info("client connected to server")
}

func (m *Monitor) connectLostHandler(_ mqtt.Client, err error) {
	m.logger.With(logger.Fields{"module": "mqtt"}).Errorf("server connect lost: %v\n", err)
}

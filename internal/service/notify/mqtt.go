package notify

import (
	"encoding/json"
	"fmt"
	"time"

	"dementiaui/internal/config"
	"dementiaui/internal/dto"
	"dementiaui/internal/logger"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

const publishTimeout = 5 * time.Second

// MQTTPublisher publishes terminal submission events to a broker topic.
type MQTTPublisher struct {
	client mqtt.Client
	topic  string
	logger *logger.Logger
}

// NewMQTTPublisher connects to cfg.MQTTBroker.
func NewMQTTPublisher(cfg *config.Config, logger *logger.Logger) (*MQTTPublisher, error) {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(cfg.MQTTBroker)
	opts.SetClientID(fmt.Sprintf("dementia-ui-%d", time.Now().Unix()))
	opts.SetAutoReconnect(true)
	opts.OnConnect = func(mqtt.Client) {
		logger.Info("Connected to MQTT broker %s", cfg.MQTTBroker)
	}
	opts.OnConnectionLost = func(_ mqtt.Client, err error) {
		logger.Warning("MQTT connection lost: %v", err)
	}

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("failed to connect to MQTT broker: %w", token.Error())
	}

	return newPublisher(client, cfg.MQTTTopic, logger), nil
}

func newPublisher(client mqtt.Client, topic string, logger *logger.Logger) *MQTTPublisher {
	return &MQTTPublisher{client: client, topic: topic, logger: logger}
}

// Publish sends lifecycle-ending events only; "submitted" is not forwarded.
// Delivery is confirmed in the background.
func (p *MQTTPublisher) Publish(event dto.SubmissionEvent) {
	if !event.Status.Terminal() {
		return
	}

	payload, err := json.Marshal(event)
	if err != nil {
		p.logger.Error("Error encoding MQTT event: %v", err)
		return
	}

	token := p.client.Publish(p.topic, 0, false, payload)
	go func() {
		if !token.WaitTimeout(publishTimeout) {
			p.logger.Warning("MQTT publish for %s timed out", event.ID)
			return
		}
		if err := token.Error(); err != nil {
			p.logger.Error("MQTT publish for %s failed: %v", event.ID, err)
		}
	}()
}

func (p *MQTTPublisher) Close() {
	p.client.Disconnect(250)
}

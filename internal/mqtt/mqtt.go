// Package mqtt fans executed playback actions out to an MQTT broker so venue
// dashboards can follow pauses and resumes as they happen.
package mqtt

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/prayertimes/internal/model"
	"github.com/Nixie-Tech-LLC/prayertimes/internal/scheduler"
)

const publishTimeout = 5 * time.Second

// MQTT connection handler
var connectHandler mqtt.OnConnectHandler = func(client mqtt.Client) {
	log.Info().Msg("connected to MQTT broker")
}

// MQTT connection lost handler
var connectLostHandler mqtt.ConnectionLostHandler = func(client mqtt.Client, err error) {
	log.Warn().Err(err).Msg("MQTT connection lost")
}

// Connect opens a client against brokerURL with automatic reconnects.
func Connect(brokerURL, clientID string) (mqtt.Client, error) {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(brokerURL)
	opts.SetClientID(clientID)
	opts.SetAutoReconnect(true)
	opts.SetConnectTimeout(10 * time.Second)
	opts.OnConnect = connectHandler
	opts.OnConnectionLost = connectLostHandler

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("failed to connect to MQTT broker: %w", token.Error())
	}

	log.Info().Str("broker", brokerURL).Msg("MQTT client initialized successfully")
	return client, nil
}

// ActionTopic is where records of one sound zone are published.
func ActionTopic(zoneID string) string {
	return fmt.Sprintf("prayertimes/zones/%s/actions", zoneID)
}

type publisher interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
}

// ActionFanout wraps an action log and publishes every appended record.
// Publish failures are logged and never fail the append.
type ActionFanout struct {
	next   scheduler.ActionLog
	client publisher
	qos    byte
}

var _ scheduler.ActionLog = (*ActionFanout)(nil)

func NewActionFanout(next scheduler.ActionLog, client mqtt.Client) *ActionFanout {
	return &ActionFanout{next: next, client: client, qos: 1}
}

func (f *ActionFanout) AppendAction(ctx context.Context, rec model.ActionRecord) error {
	err := f.next.AppendAction(ctx, rec)

	payload, merr := json.Marshal(rec)
	if merr != nil {
		log.Error().Err(merr).Msg("failed to encode action for MQTT")
		return err
	}
	topic := ActionTopic(rec.ZoneID)
	token := f.client.Publish(topic, f.qos, false, payload)
	if !token.WaitTimeout(publishTimeout) {
		log.Warn().Str("topic", topic).Msg("MQTT publish timed out")
	} else if token.Error() != nil {
		log.Error().Err(token.Error()).Str("topic", topic).Msg("failed to publish action to MQTT")
	}
	return err
}

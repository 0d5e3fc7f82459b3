package services

import (
	"crypto/tls"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"

	"condy-http-service/internal/infrastructure/config"
	Logger "condy-http-service/pkg/logger"
)

// Notification topics. Gatehouse devices subscribe to their condo topic,
// resident and driver apps to their own id topic.
const (
	TopicGatehouse = "condy/gatehouse/%d"
	TopicResident  = "condy/resident/%d"
	TopicDriver    = "condy/driver/%d"
)

// NotificationTarget identifies who a notification is addressed to.
type NotificationTarget struct {
	Role string // "condo", "resident", "driver"
	ID   uint
}

// NotificationMessage is the wire payload published to the app topics.
type NotificationMessage struct {
	MessageID string                 `json:"message_id"`
	Title     string                 `json:"title"`
	Body      string                 `json:"body"`
	Data      map[string]interface{} `json:"data,omitempty"`
	Timestamp int64                  `json:"timestamp"`
}

// InterfaceNotificationService defines the push dispatch contract. Notify is
// best-effort: a false return means the message was not delivered to the
// broker, and callers are expected to log and move on rather than fail the
// operation that triggered it.
type InterfaceNotificationService interface {
	Connect() error
	Disconnect()
	Connected() bool
	Notify(target NotificationTarget, title, body string, data map[string]interface{}) bool
}

// NotificationService dispatches push notifications over MQTT.
type NotificationService struct {
	Config         *config.Config
	Client         mqtt.Client
	IsConnected    bool
	connectedMutex sync.RWMutex
	publishMutex   sync.Mutex
}

// NewNotificationService creates a new MQTT notification service.
func NewNotificationService(cfg *config.Config) InterfaceNotificationService {
	return &NotificationService{
		Config: cfg,
	}
}

// Connect establishes the MQTT broker connection.
func (s *NotificationService) Connect() error {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(s.Config.MQTTBrokerURL)
	opts.SetClientID(s.Config.MQTTClientID + "_" + uuid.New().String()[:8])
	opts.SetUsername(s.Config.MQTTUsername)
	opts.SetPassword(s.Config.MQTTPassword)
	opts.SetAutoReconnect(true)
	opts.SetMaxReconnectInterval(30 * time.Second)
	opts.SetKeepAlive(60 * time.Second)

	if s.Config.MQTTSSLEnabled {
		opts.SetTLSConfig(&tls.Config{MinVersion: tls.VersionTLS12})
	}

	opts.SetOnConnectHandler(func(client mqtt.Client) {
		s.connectedMutex.Lock()
		s.IsConnected = true
		s.connectedMutex.Unlock()
		Logger.Info("MQTT connected to %s", s.Config.MQTTBrokerURL)
	})
	opts.SetConnectionLostHandler(func(client mqtt.Client, err error) {
		s.connectedMutex.Lock()
		s.IsConnected = false
		s.connectedMutex.Unlock()
		Logger.Warning("MQTT connection lost: %v", err)
	})

	s.Client = mqtt.NewClient(opts)
	token := s.Client.Connect()
	if !token.WaitTimeout(10 * time.Second) {
		return fmt.Errorf("timeout connecting to MQTT broker %s", s.Config.MQTTBrokerURL)
	}
	if token.Error() != nil {
		return fmt.Errorf("failed to connect to MQTT broker: %w", token.Error())
	}
	return nil
}

// Disconnect closes the broker connection.
func (s *NotificationService) Disconnect() {
	if s.Client != nil && s.Client.IsConnected() {
		s.Client.Disconnect(250)
	}
	s.connectedMutex.Lock()
	s.IsConnected = false
	s.connectedMutex.Unlock()
}

// Connected reports the current broker connection state.
func (s *NotificationService) Connected() bool {
	s.connectedMutex.RLock()
	defer s.connectedMutex.RUnlock()
	return s.IsConnected
}

// topicFor maps a target to its MQTT topic.
func topicFor(target NotificationTarget) (string, bool) {
	switch target.Role {
	case "condo":
		return fmt.Sprintf(TopicGatehouse, target.ID), true
	case "resident":
		return fmt.Sprintf(TopicResident, target.ID), true
	case "driver":
		return fmt.Sprintf(TopicDriver, target.ID), true
	}
	return "", false
}

// Notify publishes a notification to the target's topic. Returns false on
// any failure; it never panics or blocks beyond the publish timeout.
func (s *NotificationService) Notify(target NotificationTarget, title, body string, data map[string]interface{}) bool {
	topic, ok := topicFor(target)
	if !ok {
		Logger.Warning("notification dropped: unknown target role %q", target.Role)
		return false
	}

	if s.Client == nil || !s.Client.IsConnected() {
		Logger.Warning("notification dropped: MQTT client not connected (topic %s)", topic)
		return false
	}

	msg := NotificationMessage{
		MessageID: uuid.New().String(),
		Title:     title,
		Body:      body,
		Data:      data,
		Timestamp: time.Now().Unix(),
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		Logger.Error("failed to marshal notification: %v", err)
		return false
	}

	s.publishMutex.Lock()
	token := s.Client.Publish(topic, byte(s.Config.MQTTQoS), s.Config.MQTTRetained, payload)
	s.publishMutex.Unlock()

	if !token.WaitTimeout(5 * time.Second) {
		Logger.Warning("notification publish timed out (topic %s)", topic)
		return false
	}
	if token.Error() != nil {
		Logger.Warning("notification publish failed (topic %s): %v", topic, token.Error())
		return false
	}
	return true
}

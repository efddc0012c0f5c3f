package events

import (
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
)

// Publisher announces scan and launch events over MQTT so other gadgets
// on the network (dashboards, home automation) can react to tag swipes.
// Everything here is fire-and-forget: a broker outage never affects the
// scan loop.
type Publisher struct {
	client   paho.Client
	clientID string
	enabled  bool
}

// Config holds MQTT broker connection settings.
type Config struct {
	Host       string `yaml:"host"`
	Port       int    `yaml:"port"`
	CACert     string `yaml:"ca_cert"`
	ClientCert string `yaml:"client_cert"`
	ClientKey  string `yaml:"client_key"`
}

type scanEvent struct {
	UID  string `json:"uid"`
	Time string `json:"time"`
}

type launchEvent struct {
	UID   string `json:"uid"`
	AppID string `json:"appid"`
	Name  string `json:"name"`
	Time  string `json:"time"`
}

// New creates a Publisher. Returns a disabled no-op publisher if no host
// is configured.
func New(cfg Config, clientID string) (*Publisher, error) {
	p := &Publisher{clientID: clientID}

	if cfg.Host == "" {
		p.enabled = false
		return p, nil
	}

	p.enabled = true

	var broker string
	var tlsConfig *tls.Config

	hasTLS := cfg.CACert != "" || cfg.ClientCert != ""

	if hasTLS {
		if cfg.Port == 0 {
			cfg.Port = 8883
		}
		broker = fmt.Sprintf("ssl://%s:%d", cfg.Host, cfg.Port)

		var err error
		tlsConfig, err = buildTLSConfig(cfg)
		if err != nil {
			return nil, fmt.Errorf("build TLS config: %w", err)
		}
	} else {
		if cfg.Port == 0 {
			cfg.Port = 1883
		}
		broker = fmt.Sprintf("tcp://%s:%d", cfg.Host, cfg.Port)
	}

	opts := paho.NewClientOptions().
		AddBroker(broker).
		SetClientID(clientID).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetKeepAlive(60 * time.Second)

	if tlsConfig != nil {
		opts.SetTLSConfig(tlsConfig)
	}

	p.client = paho.NewClient(opts)

	paho.ERROR = log.New(os.Stdout, "[MQTT ERROR] ", 0)
	paho.CRITICAL = log.New(os.Stdout, "[MQTT CRIT] ", 0)

	return p, nil
}

func buildTLSConfig(cfg Config) (*tls.Config, error) {
	tlsConfig := &tls.Config{}

	if cfg.CACert != "" {
		caCert, err := os.ReadFile(cfg.CACert)
		if err != nil {
			return nil, fmt.Errorf("read CA cert: %w", err)
		}
		caPool := x509.NewCertPool()
		caPool.AppendCertsFromPEM(caCert)
		tlsConfig.RootCAs = caPool
	}

	if cfg.ClientCert != "" && cfg.ClientKey != "" {
		cert, err := tls.LoadX509KeyPair(cfg.ClientCert, cfg.ClientKey)
		if err != nil {
			return nil, fmt.Errorf("load client cert: %w", err)
		}
		tlsConfig.Certificates = []tls.Certificate{cert}
	}

	return tlsConfig, nil
}

// Connect connects to the broker. No-op if disabled.
func (p *Publisher) Connect() error {
	if !p.enabled {
		return nil
	}

	if token := p.client.Connect(); token.Wait() && token.Error() != nil {
		return fmt.Errorf("connect: %w", token.Error())
	}
	log.Println("MQTT connected")
	return nil
}

// Disconnect disconnects from the broker. No-op if disabled.
func (p *Publisher) Disconnect() {
	if !p.enabled || p.client == nil {
		return
	}
	p.client.Disconnect(250)
}

// IsEnabled returns whether event publishing is configured.
func (p *Publisher) IsEnabled() bool {
	return p.enabled
}

// PublishScan announces a raw tag contact.
func (p *Publisher) PublishScan(uid string) {
	p.publish("scan", scanEvent{UID: uid, Time: now()})
}

// PublishLaunch announces a matched tag and the title being launched.
func (p *Publisher) PublishLaunch(uid, appid, name string) {
	p.publish("launch", launchEvent{UID: uid, AppID: appid, Name: name, Time: now()})
}

// PublishUnknown announces a tag with no mapping.
func (p *Publisher) PublishUnknown(uid string) {
	p.publish("unknown", scanEvent{UID: uid, Time: now()})
}

func (p *Publisher) publish(event string, payload interface{}) {
	if !p.enabled {
		return
	}

	data, err := json.Marshal(payload)
	if err != nil {
		log.Printf("Encode %s event: %v", event, err)
		return
	}

	topic := fmt.Sprintf("steamnfc/status/%s/%s", p.clientID, event)
	p.client.Publish(topic, 0, false, data)
}

func now() string {
	return time.Now().Format(time.RFC3339)
}

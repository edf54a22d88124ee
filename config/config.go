package config

import (
	"errors"

	"github.com/cyverse-de/go-mod/cfg"
)

var ServiceName = "METERING"

// Specification defines the configuration settings for the metering service.
type Specification struct {
	DatabaseURI         string
	RunSchemaMigrations bool
	ReinitDB            bool
	ListenPort          int
	DefaultTimezone     string
	NatsCluster         string
	DotEnvPath          string
	ConfigPath          string
	EnvPrefix           string
	MaxReconnects       int
	ReconnectWait       int
	CACertPath          string
	TLSKeyPath          string
	TLSCertPath         string
	CredsPath           string
	BaseSubject         string
	BaseQueueName       string
}

// LoadConfig loads the configuration for the metering service.
func LoadConfig(envPrefix, configPath, dotEnvPath string) (*Specification, error) {
	k, err := cfg.Init(&cfg.Settings{
		EnvPrefix:   envPrefix,
		ConfigPath:  configPath,
		DotEnvPath:  dotEnvPath,
		StrictMerge: false,
		FileType:    cfg.YAML,
	})

	var s Specification

	s.DatabaseURI = k.String("database.uri")
	if s.DatabaseURI == "" {
		return nil, errors.New("database.uri or METERING_DATABASE_URI must be set")
	}

	s.RunSchemaMigrations = k.Bool("database.migrate")
	s.ReinitDB = k.Bool("reinit.db")

	s.ListenPort = k.Int("listen.port")
	if s.ListenPort == 0 {
		s.ListenPort = 9000
	}

	s.DefaultTimezone = k.String("timezone.default")
	if s.DefaultTimezone == "" {
		s.DefaultTimezone = "UTC"
	}

	s.NatsCluster = k.String("nats.cluster")
	if s.NatsCluster == "" {
		return nil, errors.New("nats.cluster must be set in the configuration file")
	}

	s.MaxReconnects = k.Int("nats.reconnects.max")
	s.ReconnectWait = k.Int("nats.reconnects.wait")
	s.CACertPath = k.String("nats.tls.cacert.path")
	s.TLSCertPath = k.String("nats.tls.cert.path")
	s.TLSKeyPath = k.String("nats.tls.key.path")
	s.CredsPath = k.String("nats.creds.path")

	s.BaseSubject = k.String("nats.subject.base")
	if s.BaseSubject == "" {
		s.BaseSubject = "metering.>"
	}

	s.BaseQueueName = k.String("nats.queue.base")
	if s.BaseQueueName == "" {
		s.BaseQueueName = "metering"
	}

	return &s, err
}

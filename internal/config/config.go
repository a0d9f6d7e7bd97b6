package config

import (
	"fmt"
	"time"

	"github.com/SANJIKS/sos-backend-sub001/pkg/mq"
	"github.com/SANJIKS/sos-backend-sub001/pkg/mysql"
	"github.com/SANJIKS/sos-backend-sub001/pkg/paygate"
	"github.com/spf13/viper"
)

type Config struct {
	API       API            `mapstructure:"api"`
	Database  mysql.Config   `mapstructure:"database"`
	RabbitMQ  mq.Config      `mapstructure:"rabbitmq"`
	PayGate   paygate.Config `mapstructure:"paygate"`
	Recurring Recurring      `mapstructure:"recurring"`
}

type API struct {
	Port string `mapstructure:"port"`
}

// Recurring drives the billing pipeline: how often the publisher scans for
// due subscriptions and how the charge consumer drains the queue.
type Recurring struct {
	Queue        string        `mapstructure:"queue"`
	ScanInterval time.Duration `mapstructure:"scan_interval"`
	BatchSize    int           `mapstructure:"batch_size"`
	Prefetch     int           `mapstructure:"prefetch"`
}

func Load() (cfg *Config, err error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yml")
	viper.AddConfigPath("./config")

	err = viper.ReadInConfig()
	if err != nil {
		return cfg, fmt.Errorf("failed to load config: %w", err)
	}

	err = viper.Unmarshal(&cfg)
	if err != nil {
		return nil, err
	}

	return cfg, nil
}

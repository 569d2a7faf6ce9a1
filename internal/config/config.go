package config

import (
	"fmt"
	"net"

	"github.com/BurntSushi/toml"
)

// Config holds all per-run settings of the module.
type Config struct {
	General GeneralConf       // General - loop and logging settings.
	ArtNet  ArtNetConf        `toml:"artnet"` // ArtNet - wire protocol settings.
	Redis   RedisConf         // Redis - value source connection.
	MQTT    MQTTConf          // MQTT - optional monitoring broker.
	Input   map[string]string // Input - channelNNN -> Redis key holding the control value.
	Scale   map[string]string // Scale - channelNNN -> numeric literal or Redis key.
	Offset  map[string]string // Offset - channelNNN -> numeric literal or Redis key.
}

// GeneralConf структура конфигурации.
type GeneralConf struct {
	DelayMS int    `toml:"delay-ms"` // DelayMS - pause between control cycles.
	Debug   string `toml:"debug"`    // Debug - log level.
}

// ArtNetConf структура конфигурации.
type ArtNetConf struct {
	Broadcast     string `toml:"broadcast"`      // Broadcast - broadcast destination address.
	Port          int    `toml:"port"`           // Port - Art-Net UDP port.
	Net           int    `toml:"net"`            // Net - universe address net field (0..127).
	SubNet        int    `toml:"subnet"`         // SubNet - universe address sub-net field (0..15).
	Universe      int    `toml:"universe"`       // Universe - universe number (0..15).
	MaintenanceMS int    `toml:"maintenance-ms"` // MaintenanceMS - resend interval when nothing changed.
	BlankRepeat   int    `toml:"blank-repeat"`   // BlankRepeat - blank frame sends on shutdown.
	BlankDelayMS  int    `toml:"blank-delay-ms"` // BlankDelayMS - pause between blank frame sends.
}

// RedisConf структура конфигурации.
type RedisConf struct {
	Host string `toml:"hostname"` // Host - Redis server address.
	Port string `toml:"port"`     // Port - Redis server port.
}

// MQTTConf структура конфигурации.
type MQTTConf struct {
	ClientID string `toml:"clientID"` // ClientID - client name.
	Host     string `toml:"server"`   // Host - MQTT server address. Empty disables the MQTT monitor.
	Port     string `toml:"port"`     // Port - MQTT server port.
	User     string `toml:"user"`     // User - MQTT login.
	Password string `toml:"password"` // Password - MQTT password.
}

// NewConfig конструктор.
func NewConfig(path string) (*Config, error) {
	// default values
	cfg := Config{
		General: GeneralConf{
			DelayMS: 50,
			Debug:   "info",
		},
		ArtNet: ArtNetConf{
			Port:          6454,
			MaintenanceMS: 500,
			BlankRepeat:   6,
			BlankDelayMS:  100,
		},
		Redis: RedisConf{
			Host: "localhost",
			Port: "6379",
		},
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return &cfg, err
	}
	if err := cfg.validate(); err != nil {
		return &cfg, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if net.ParseIP(c.ArtNet.Broadcast) == nil {
		return fmt.Errorf("artnet: invalid broadcast address %q", c.ArtNet.Broadcast)
	}
	if c.ArtNet.Port < 1 || c.ArtNet.Port > 65535 {
		return fmt.Errorf("artnet: invalid port %d", c.ArtNet.Port)
	}
	if c.ArtNet.Net < 0 || c.ArtNet.Net > 127 {
		return fmt.Errorf("artnet: net %d out of range 0..127", c.ArtNet.Net)
	}
	if c.ArtNet.SubNet < 0 || c.ArtNet.SubNet > 15 {
		return fmt.Errorf("artnet: subnet %d out of range 0..15", c.ArtNet.SubNet)
	}
	if c.ArtNet.Universe < 0 || c.ArtNet.Universe > 15 {
		return fmt.Errorf("artnet: universe %d out of range 0..15", c.ArtNet.Universe)
	}
	if c.General.DelayMS <= 0 {
		return fmt.Errorf("general: delay-ms must be positive, got %d", c.General.DelayMS)
	}
	if c.ArtNet.BlankRepeat < 1 {
		return fmt.Errorf("artnet: blank-repeat must be at least 1, got %d", c.ArtNet.BlankRepeat)
	}
	return nil
}

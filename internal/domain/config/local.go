package config

// LocalConfig represents the per-checkout spacegov settings kept in .spacegov/config.local.json
type LocalConfig struct {
	From    string `json:"from,omitempty"`
	Timeout string `json:"timeout,omitempty"`
}

// ConfigKey represents a configuration key
type ConfigKey string

const (
	ConfigKeyFrom    ConfigKey = "from"
	ConfigKeyTimeout ConfigKey = "timeout"
)

// DefaultLocalConfig returns the default local configuration
func DefaultLocalConfig() *LocalConfig {
	return &LocalConfig{}
}

// ValidConfigKeys returns all valid configuration keys
func ValidConfigKeys() []ConfigKey {
	return []ConfigKey{
		ConfigKeyFrom,
		ConfigKeyTimeout,
	}
}

// IsValidConfigKey checks if a key is valid
func IsValidConfigKey(key string) bool {
	for _, validKey := range ValidConfigKeys() {
		if string(validKey) == key || (key == "sender" && validKey == ConfigKeyFrom) {
			return true
		}
	}
	return false
}

// NormalizeConfigKey normalizes a config key (e.g., "sender" -> "from")
func NormalizeConfigKey(key string) ConfigKey {
	if key == "sender" {
		return ConfigKeyFrom
	}
	return ConfigKey(key)
}

// Get returns the value stored under key
func (c *LocalConfig) Get(key ConfigKey) string {
	switch key {
	case ConfigKeyFrom:
		return c.From
	case ConfigKeyTimeout:
		return c.Timeout
	}
	return ""
}

// Set stores value under key
func (c *LocalConfig) Set(key ConfigKey, value string) {
	switch key {
	case ConfigKeyFrom:
		c.From = value
	case ConfigKeyTimeout:
		c.Timeout = value
	}
}

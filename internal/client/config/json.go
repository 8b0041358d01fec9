package config

import (
	"encoding/json"
	"os"

	"github.com/babalolajnr/todo-api/internal/flagx"
)

type jsonConfig struct {
	ServerAddr *string `json:"server_addr"`
}

// parseJSON loads configuration values from the JSON file given via the
// -c/-config flags. Absent fields keep their current values.
func parseJSON(config *Config) {
	jsonConfigFile := flagx.ConfigFileFlag()
	if jsonConfigFile == "" {
		return
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	c := &jsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	if c.ServerAddr != nil {
		config.ServerAddr = *c.ServerAddr
	}
}

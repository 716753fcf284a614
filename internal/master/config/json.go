package config

import (
	"encoding/json"
	"os"

	"github.com/beaumontjonathan/words/internal/flagx"
)

// JsonConfig is the DTO used for reading JSON configuration files.
type JsonConfig struct {
	WorkerAddr string `json:"worker_addr"`
}

// parseJson loads configuration values from a JSON file into the provided
// Config instance. The file path is taken from the -c or -config flags; if
// neither is set, no JSON file is loaded.
func parseJson(config *Config) {

	// try flags
	jsonConfigFile := flagx.JsonConfigFlags()

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	err = json.Unmarshal(file, c)
	if err != nil {
		panic(err)
	}

	config.WorkerAddr = c.WorkerAddr
}

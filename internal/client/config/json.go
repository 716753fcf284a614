package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/beaumontjonathan/words/internal/flagx"
	"github.com/beaumontjonathan/words/internal/timex"
)

// JsonConfig is the DTO used for reading JSON configuration files. It uses
// timex.Duration for interval fields, which allows parsing both string
// values such as "5s" and integer nanoseconds.
type JsonConfig struct {
	ServerAddr      string         `json:"server_addr"`
	ResponseTimeout timex.Duration `json:"response_timeout"`
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

	config.ServerAddr = c.ServerAddr
	config.ResponseTimeout = time.Duration(c.ResponseTimeout.Duration)
}

package todoserv

import (
	"os"
	"strconv"

	"github.com/mongodb/grip"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

// DBSettings describes the connection to the document store.
type DBSettings struct {
	Url string `yaml:"url"`
	DB  string `yaml:"db"`
}

// Settings contains the complete configuration for the service. It is
// populated from a yaml file, with defaults applied for any field left
// unset and a small number of environment variable overrides applied
// last.
type Settings struct {
	Database DBSettings `yaml:"database"`
	Port     int        `yaml:"port"`
	LogLevel string     `yaml:"log_level"`
}

// DefaultSettings returns a Settings populated with the local
// development defaults.
func DefaultSettings() *Settings {
	return &Settings{
		Database: DBSettings{
			Url: DefaultDatabaseURL,
			DB:  DefaultDatabaseName,
		},
		Port:     DefaultPort,
		LogLevel: "info",
	}
}

// NewSettings reads a yaml configuration file from the given path. A
// missing path yields the defaults, so the service can run with no
// configuration file at all.
func NewSettings(filename string) (*Settings, error) {
	settings := DefaultSettings()

	if filename != "" {
		configData, err := os.ReadFile(filename)
		if err != nil {
			return nil, errors.Wrapf(err, "reading configuration file '%s'", filename)
		}

		if err := yaml.Unmarshal(configData, settings); err != nil {
			return nil, errors.Wrapf(err, "parsing configuration file '%s'", filename)
		}
	}

	settings.applyDefaults()
	settings.ApplyEnvironment()

	return settings, nil
}

func (s *Settings) applyDefaults() {
	if s.Database.Url == "" {
		s.Database.Url = DefaultDatabaseURL
	}
	if s.Database.DB == "" {
		s.Database.DB = DefaultDatabaseName
	}
	if s.Port == 0 {
		s.Port = DefaultPort
	}
	if s.LogLevel == "" {
		s.LogLevel = "info"
	}
}

// ApplyEnvironment overlays the supported environment variables on top
// of the current settings.
func (s *Settings) ApplyEnvironment() {
	if port := os.Getenv(PortEnvironmentVariable); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			s.Port = p
		} else {
			grip.Warningf("ignoring non-numeric %s value '%s'", PortEnvironmentVariable, port)
		}
	}

	if url := os.Getenv(MongoURLEnvironmentVariable); url != "" {
		s.Database.Url = url
	}
}

// Validate checks the settings for values the service cannot run with.
func (s *Settings) Validate() error {
	catcher := grip.NewBasicCatcher()

	catcher.NewWhen(s.Database.Url == "", "database url must be set")
	catcher.NewWhen(s.Database.DB == "", "database name must be set")
	catcher.ErrorfWhen(s.Port <= 0, "port must be a positive number, got %d", s.Port)

	return catcher.Resolve()
}

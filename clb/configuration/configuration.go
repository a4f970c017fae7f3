package configuration

import (
	"errors"
	"io"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

const (
	// EnvPrefix is the prefix for environment variables overriding the
	// configuration file, e.g. RAX_USERNAME and RAX_API_KEY.
	EnvPrefix = "RAX"

	// DefaultIdentityEndpoint is the public identity API used when the
	// configuration does not name one.
	DefaultIdentityEndpoint = "https://identity.api.rackspacecloud.com/v2.0/"
)

// ProviderConfig holds everything needed to construct an authenticated load
// balancer API client. It is passed explicitly into the client factory,
// never stored as process-wide state.
type ProviderConfig struct {
	Username         string `yaml:"username,omitempty" split_words:"true"`
	APIKey           string `yaml:"apiKey,omitempty" envconfig:"API_KEY"`
	Password         string `yaml:"password,omitempty" split_words:"true"`
	TokenID          string `yaml:"tokenID,omitempty" envconfig:"TOKEN_ID"`
	TenantID         string `yaml:"tenantID,omitempty" envconfig:"TENANT_ID"`
	IdentityEndpoint string `yaml:"identityEndpoint,omitempty" split_words:"true"`
	Region           string `yaml:"region,omitempty" split_words:"true"`

	// Endpoint overrides service catalog discovery of the load balancer
	// API. Mostly useful for testing against a local endpoint.
	Endpoint string `yaml:"endpoint,omitempty" split_words:"true"`
}

// NewProviderConfig reads the optional YAML configuration and merges
// environment variables on top. A nil reader skips the file entirely.
func NewProviderConfig(configReader io.Reader) (ProviderConfig, error) {
	var providerConfig ProviderConfig
	if configReader != nil {
		config, err := io.ReadAll(configReader)
		if err != nil {
			return ProviderConfig{}, err
		}
		err = yaml.Unmarshal(config, &providerConfig)
		if err != nil {
			return ProviderConfig{}, err
		}
	}

	err := envconfig.Process(EnvPrefix, &providerConfig)

	return providerConfig, err
}

// Validate checks that the configuration carries enough information to
// authenticate. Credential contents are validated by the identity API, not
// here.
func (c ProviderConfig) Validate() error {
	// a pre-issued token together with a fixed endpoint needs no further
	// credentials
	if c.TokenID != "" {
		return nil
	}

	if c.Username == "" {
		return errors.New("username is required")
	}

	if c.APIKey == "" && c.Password == "" {
		return errors.New("one of apiKey or password is required")
	}

	return nil
}

package configuration

import (
	"errors"
	"os"
	"strings"
	"testing"
)

// errReader implements io.Reader that always returns an error.
type errReader struct{}

func (errReader) Read(_ []byte) (int, error) {
	return 0, errors.New("read failed")
}

func clearEnv() {
	os.Unsetenv("RAX_USERNAME")
	os.Unsetenv("RAX_API_KEY")
	os.Unsetenv("RAX_PASSWORD")
	os.Unsetenv("RAX_TOKEN_ID")
	os.Unsetenv("RAX_TENANT_ID")
	os.Unsetenv("RAX_REGION")
	os.Unsetenv("RAX_IDENTITY_ENDPOINT")
	os.Unsetenv("RAX_ENDPOINT")
}

func TestNewProviderConfig_nil(t *testing.T) {
	clearEnv()

	cfg, err := NewProviderConfig(nil)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Username != "" {
		t.Errorf("expected empty username, got %q", cfg.Username)
	}
	// the identity endpoint default is applied by the client factory, not
	// here, so a later env or yaml value is never clobbered
	if cfg.IdentityEndpoint != "" {
		t.Errorf("expected empty identity endpoint, got %q", cfg.IdentityEndpoint)
	}
}

func TestNewProviderConfig_yamlIdentityEndpointSurvives(t *testing.T) {
	clearEnv()

	data := "identityEndpoint: https://custom.example.com/v2.0/\n"
	cfg, err := NewProviderConfig(strings.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.IdentityEndpoint != "https://custom.example.com/v2.0/" {
		t.Errorf("yaml identity endpoint overwritten: %q", cfg.IdentityEndpoint)
	}
}

func TestNewProviderConfig_yaml(t *testing.T) {
	clearEnv()

	data := "username: foo\napiKey: secret\nregion: ORD\n"
	cfg, err := NewProviderConfig(strings.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Username != "foo" {
		t.Errorf("username mismatch: %q", cfg.Username)
	}
	if cfg.APIKey != "secret" {
		t.Errorf("api key mismatch: %q", cfg.APIKey)
	}
	if cfg.Region != "ORD" {
		t.Errorf("region mismatch: %q", cfg.Region)
	}
}

func TestNewProviderConfig_env_overrides(t *testing.T) {
	clearEnv()
	os.Setenv("RAX_USERNAME", "bar")
	os.Setenv("RAX_REGION", "DFW")
	defer os.Unsetenv("RAX_USERNAME")
	defer os.Unsetenv("RAX_REGION")

	cfg, err := NewProviderConfig(strings.NewReader("username: foo\n"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Username != "bar" {
		t.Errorf("expected username from env, got %q", cfg.Username)
	}
	if cfg.Region != "DFW" {
		t.Errorf("expected region from env, got %q", cfg.Region)
	}
}

func TestNewProviderConfig_readError(t *testing.T) {
	_, err := NewProviderConfig(errReader{})
	if err == nil {
		t.Fatal("expected error when reader fails")
	}
}

func TestNewProviderConfig_yamlError(t *testing.T) {
	_, err := NewProviderConfig(strings.NewReader("not: valid: yaml: ["))
	if err == nil {
		t.Fatal("expected yaml unmarshal error")
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name    string
		config  ProviderConfig
		wantErr bool
	}{
		{"empty", ProviderConfig{}, true},
		{"username only", ProviderConfig{Username: "foo"}, true},
		{"username and api key", ProviderConfig{Username: "foo", APIKey: "secret"}, false},
		{"username and password", ProviderConfig{Username: "foo", Password: "secret"}, false},
		{"token only", ProviderConfig{TokenID: "tok"}, false},
		{"api key without username", ProviderConfig{APIKey: "secret"}, true},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			err := c.config.Validate()
			if c.wantErr && err == nil {
				t.Error("expected validation error")
			}
			if !c.wantErr && err != nil {
				t.Errorf("unexpected validation error: %v", err)
			}
		})
	}
}

package config

import "os"

// Config is the root configuration structure for the application.
type Config struct {
	LogLevel string         `yaml:"log_level" mapstructure:"log_level"`
	LogFile  string         `yaml:"log_file" mapstructure:"log_file"`
	Server   ServerConfig   `yaml:"server" mapstructure:"server"`
	Weaviate WeaviateConfig `yaml:"weaviate" mapstructure:"weaviate"`
	Schema   SchemaConfig   `yaml:"schema" mapstructure:"schema"`
	Origin   OriginConfig   `yaml:"origin" mapstructure:"origin"`
}

// ServerConfig holds MCP server configuration.
type ServerConfig struct {
	Name      string `yaml:"name" mapstructure:"name"`
	Transport string `yaml:"transport" mapstructure:"transport"` // "stdio" or "http"
	HTTPPort  int    `yaml:"http_port" mapstructure:"http_port"`
	HTTPBind  string `yaml:"http_bind" mapstructure:"http_bind"`
	BasePath  string `yaml:"base_path" mapstructure:"base_path"`
}

// WeaviateConfig holds connection settings for the Weaviate instance.
type WeaviateConfig struct {
	Host           string  `yaml:"host" mapstructure:"host"`
	Scheme         string  `yaml:"scheme" mapstructure:"scheme"`
	APIKey         *string `yaml:"api_key,omitempty" mapstructure:"api_key"`
	APIKeyEnv      string  `yaml:"api_key_env" mapstructure:"api_key_env"`
	RetryAttempts  int     `yaml:"retry_attempts" mapstructure:"retry_attempts"`
	RetryBackoffMs int     `yaml:"retry_backoff_ms" mapstructure:"retry_backoff_ms"`
	TimeoutSeconds int     `yaml:"timeout_seconds" mapstructure:"timeout_seconds"`
}

// ResolveAPIKey returns the API key from config or falls back to environment variable.
func (c *WeaviateConfig) ResolveAPIKey() string {
	if c.APIKey != nil && *c.APIKey != "" {
		return *c.APIKey
	}
	return os.Getenv(c.APIKeyEnv)
}

// SchemaConfig holds schema snapshot and collection resolver cache settings.
type SchemaConfig struct {
	CacheTTLSeconds    int `yaml:"cache_ttl_seconds" mapstructure:"cache_ttl_seconds"`
	ResolverTTLSeconds int `yaml:"resolver_ttl_seconds" mapstructure:"resolver_ttl_seconds"`
}

// OriginConfig names the classes and reference properties of the fixed
// two-hop origin traversal. The defaults match the workflow schema the
// explore-origin tool was built for.
type OriginConfig struct {
	Collection string `yaml:"collection" mapstructure:"collection"`
	NameField  string `yaml:"name_field" mapstructure:"name_field"`
	PrimaryRef string `yaml:"primary_ref" mapstructure:"primary_ref"`
	NestedRef  string `yaml:"nested_ref" mapstructure:"nested_ref"`
	DeepRef    string `yaml:"deep_ref" mapstructure:"deep_ref"`
}

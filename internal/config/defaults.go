package config

import "github.com/spf13/viper"

// Default configuration values.
const (
	DefaultLogLevel = "info"
	DefaultLogFile  = "~/.config/weaviate-atlas/atlas.log"

	// Server defaults.
	DefaultServerName      = "weaviate-atlas"
	DefaultServerTransport = "stdio"
	DefaultServerHTTPPort  = 7700
	DefaultServerHTTPBind  = "127.0.0.1"
	DefaultServerBasePath  = "/mcp"

	// Weaviate connection defaults.
	DefaultWeaviateHost           = "localhost:8080"
	DefaultWeaviateScheme         = "http"
	DefaultWeaviateAPIKeyEnv      = "ATLAS_WEAVIATE_API_KEY"
	DefaultWeaviateRetryAttempts  = 3
	DefaultWeaviateRetryBackoffMs = 100
	DefaultWeaviateTimeoutSeconds = 30

	// Schema cache defaults.
	DefaultSchemaCacheTTLSeconds   = 60
	DefaultResolverCacheTTLSeconds = 10

	// Origin traversal defaults.
	DefaultOriginCollection = "Etapa"
	DefaultOriginNameField  = "name"
	DefaultOriginPrimaryRef = "belongsToFluxo"
	DefaultOriginNestedRef  = "hasFicheiros"
	DefaultOriginDeepRef    = "hasEntidades"
)

// setDefaults registers all default configuration values with viper.
// Called during Init() before reading config files.
func setDefaults() {
	viper.SetDefault("log_level", DefaultLogLevel)
	viper.SetDefault("log_file", DefaultLogFile)

	// Server defaults
	viper.SetDefault("server.name", DefaultServerName)
	viper.SetDefault("server.transport", DefaultServerTransport)
	viper.SetDefault("server.http_port", DefaultServerHTTPPort)
	viper.SetDefault("server.http_bind", DefaultServerHTTPBind)
	viper.SetDefault("server.base_path", DefaultServerBasePath)

	// Weaviate defaults
	viper.SetDefault("weaviate.host", DefaultWeaviateHost)
	viper.SetDefault("weaviate.scheme", DefaultWeaviateScheme)
	viper.SetDefault("weaviate.api_key_env", DefaultWeaviateAPIKeyEnv)
	viper.SetDefault("weaviate.retry_attempts", DefaultWeaviateRetryAttempts)
	viper.SetDefault("weaviate.retry_backoff_ms", DefaultWeaviateRetryBackoffMs)
	viper.SetDefault("weaviate.timeout_seconds", DefaultWeaviateTimeoutSeconds)

	// Schema cache defaults
	viper.SetDefault("schema.cache_ttl_seconds", DefaultSchemaCacheTTLSeconds)
	viper.SetDefault("schema.resolver_ttl_seconds", DefaultResolverCacheTTLSeconds)

	// Origin traversal defaults
	viper.SetDefault("origin.collection", DefaultOriginCollection)
	viper.SetDefault("origin.name_field", DefaultOriginNameField)
	viper.SetDefault("origin.primary_ref", DefaultOriginPrimaryRef)
	viper.SetDefault("origin.nested_ref", DefaultOriginNestedRef)
	viper.SetDefault("origin.deep_ref", DefaultOriginDeepRef)
}

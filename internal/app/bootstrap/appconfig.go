// internal/app/bootstrap/appconfig.go
package bootstrap

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). They represent *app-level*
// configuration, not WAFFLE core configuration: ports, TLS, logging and
// the like live in WAFFLE's CoreConfig.
type AppConfig struct {
	// StorageBackend selects the persistence layer: "mongo" for
	// production, "memory" for local development without a database.
	StorageBackend string

	// MongoDB connection configuration (ignored on the memory backend)
	MongoURI         string
	MongoDatabase    string
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// Session management configuration
	SessionKey    string // Secret key for signing session cookies (must be strong in production)
	SessionName   string // Cookie name for sessions (default: seeyou-session)
	SessionDomain string // Cookie domain (blank means current host)

	// WSTokenKey signs websocket handshake tokens. Falls back to
	// SessionKey when blank.
	WSTokenKey string

	// Google OAuth configuration
	GoogleClientID     string
	GoogleClientSecret string

	// BaseURL is the public origin of the app, used for OAuth callbacks
	// and post-login redirects (e.g., "https://seeyou.example.com").
	BaseURL string
}

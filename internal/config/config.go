package config // package config loads application configuration from environment variables

import (
	"log"     // log is used to report configuration errors and halt execution
	"os"      // os provides access to environment variables
	"strconv" // strconv converts strings to other types
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  The admin credential is a single fixed identity:
// either a precomputed bcrypt digest (ADMIN_PASSWORD_HASH) or a plain
// password (ADMIN_PASSWORD) that main hashes once at startup.  The defaults
// reproduce the historical admin/ipassword pair so a bare dev environment
// works out of the box.
type Config struct {
	Env               string // application environment (e.g. "dev", "prod")
	Port              string // HTTP port to listen on
	DBUser            string // database username
	DBPass            string // database password (optional)
	DBHost            string // database host address
	DBPort            string // database port number
	DBName            string // database name
	AdminLogin        string // login name of the single admin identity
	AdminPassword     string // plain admin password, used only when no hash is set
	AdminPasswordHash string // bcrypt digest of the admin password (preferred)
	BcryptCost        int    // bcrypt cost used when hashing AdminPassword at startup
	EventsEnabled     bool   // publish slot lifecycle events to RabbitMQ
}

// Load reads configuration values from environment variables and returns a
// Config.  Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.
func Load() Config {
	return Config{
		Env:               getdefault("APP_ENV", "dev"),         // environment (dev/test/prod)
		Port:              must("APP_PORT"),                     // port to bind the HTTP server
		DBUser:            must("DB_USER"),                      // database user
		DBPass:            os.Getenv("DB_PASS"),                 // database password (empty allowed)
		DBHost:            must("DB_HOST"),                      // database host
		DBPort:            must("DB_PORT"),                      // database port
		DBName:            must("DB_NAME"),                      // database name
		AdminLogin:        getdefault("ADMIN_LOGIN", "admin"),   // admin login name
		AdminPassword:     getdefault("ADMIN_PASSWORD", "ipassword"),
		AdminPasswordHash: os.Getenv("ADMIN_PASSWORD_HASH"),     // bcrypt digest, optional
		BcryptCost:        intdefault("BCRYPT_COST", 10),        // bcrypt cost factor
		EventsEnabled:     getdefault("EVENTS_ENABLED", "true") == "true",
	}
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// getdefault returns the value of an environment variable or the provided
// default when it is unset or empty.
func getdefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// intdefault is like getdefault but converts the value to an integer,
// falling back to the default on parse failure.
func intdefault(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, v)
	}
	return n
}

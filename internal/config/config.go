package config // package config loads application configuration from environment variables

import (
	"log"     // log is used to report configuration errors and halt execution
	"os"      // os provides access to environment variables
	"strconv" // strconv converts strings to other types
)

// Config holds all runtime configuration values. Each field corresponds to
// an environment variable. The types reflect how the values are used in
// the application: strings for identifiers and secrets, ints for durations
// and costs.
type Config struct {
	Env            string // application environment (e.g. "dev", "prod")
	Port           string // HTTP port to listen on
	AppURL         string // public base URL, used for billing redirect targets
	DBUser         string // database username
	DBPass         string // database password (optional)
	DBHost         string // database host address
	DBPort         string // database port number
	DBName         string // database name
	JWTSecret      string // secret used to sign JWTs (dashboard and portal tokens)
	AccessTTLMin   int    // access token time-to-live in minutes
	RefreshTTLDays int    // refresh token time-to-live in days
	PortalTTLMin   int    // portal access token time-to-live in minutes
	BcryptCost     int    // bcrypt cost for user and portal passwords

	S3Endpoint   string // object storage endpoint (MinIO-compatible)
	S3PublicBase string // public base URL for stored objects
	S3Region     string // object storage region
	S3AccessKey  string // object storage access key
	S3SecretKey  string // object storage secret key

	StripeSecretKey string // Stripe API secret key
	StripeProPrice  string // Stripe price id for the pro subscription
}

// Load reads configuration values from environment variables and returns a
// Config. Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.
func Load() Config {
	return Config{
		Env:            must("APP_ENV"),
		Port:           must("APP_PORT"),
		AppURL:         must("APP_URL"),
		DBUser:         must("DB_USER"),
		DBPass:         os.Getenv("DB_PASS"), // empty allowed
		DBHost:         must("DB_HOST"),
		DBPort:         must("DB_PORT"),
		DBName:         must("DB_NAME"),
		JWTSecret:      must("JWT_SECRET"),
		AccessTTLMin:   mustInt("ACCESS_TOKEN_TTL_MIN"),
		RefreshTTLDays: mustInt("REFRESH_TOKEN_TTL_DAYS"),
		PortalTTLMin:   intOr("PORTAL_TOKEN_TTL_MIN", 60),
		BcryptCost:     mustInt("BCRYPT_COST"),

		S3Endpoint:   must("S3_ENDPOINT"),
		S3PublicBase: must("S3_PUBLIC_BASE"),
		S3Region:     must("S3_REGION"),
		S3AccessKey:  must("S3_ACCESS_KEY"),
		S3SecretKey:  must("S3_SECRET_KEY"),

		StripeSecretKey: must("STRIPE_SECRET_KEY"),
		StripeProPrice:  must("STRIPE_PRO_PRICE_ID"),
	}
}

// must retrieves the value of a required environment variable. If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// mustInt is like must() but converts the retrieved string into an integer.
func mustInt(key string) int {
	s := must(key)
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}

// intOr reads an optional integer variable, falling back to def when the
// variable is unset or malformed.
func intOr(key string, def int) int {
	s := os.Getenv(key)
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

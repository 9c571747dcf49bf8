package config // package config loads application configuration from environment variables

import (
    "log" // log is used to report configuration errors and halt execution
    "os"  // os provides access to environment variables
)

// Supported values of DB_DRIVER.
const (
    DriverMySQL  = "mysql"
    DriverSQLite = "sqlite3"
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  The MySQL connection fields are only required
// when DBDriver is "mysql"; SQLitePath is only read for "sqlite3".
type Config struct {
    Env               string // application environment (e.g. "dev", "prod")
    Port              string // HTTP port to listen on
    DBDriver          string // "mysql" or "sqlite3"
    DBUser            string // database username
    DBPass            string // database password (optional)
    DBHost            string // database host address
    DBPort            string // database port number
    DBName            string // database name
    SQLitePath        string // sqlite database file
    JWTSecret         string // secret used to sign JWTs
    AccessTTLMin      int    // access token time-to-live in minutes
    AdminUser         string // operator login name
    AdminPasswordHash string // bcrypt hash of the operator password
    BcryptCost        int    // bcrypt cost used by the hash-password command
    LogLevel          string // debug, info, warn or error
    RabbitURL         string // AMQP URL; empty disables event publishing
    NotificationLog   string // file the notification consumer appends to
}

// Load reads configuration values from environment variables and returns a
// Config.  Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.
func Load() Config {
    cfg := Config{
        Env:               must("APP_ENV"),
        Port:              envStr("APP_PORT", "8080"),
        DBDriver:          envStr("DB_DRIVER", DriverMySQL),
        SQLitePath:        envStr("SQLITE_PATH", "gigs.db"),
        JWTSecret:         must("JWT_SECRET"),
        AccessTTLMin:      envInt("ACCESS_TOKEN_TTL_MIN", 15),
        AdminUser:         envStr("ADMIN_USER", "operator"),
        AdminPasswordHash: must("ADMIN_PASSWORD_HASH"),
        BcryptCost:        LoadBcryptCost(),
        LogLevel:          envStr("LOG_LEVEL", "info"),
        RabbitURL:         os.Getenv("RABBITMQ_URL"),
        NotificationLog:   envStr("NOTIFICATION_LOG", "logs/notifications.log"),
    }
    switch cfg.DBDriver {
    case DriverMySQL:
        cfg.DBUser = must("DB_USER")
        cfg.DBPass = os.Getenv("DB_PASS") // empty allowed
        cfg.DBHost = must("DB_HOST")
        cfg.DBPort = must("DB_PORT")
        cfg.DBName = must("DB_NAME")
    case DriverSQLite:
    default:
        log.Fatalf("unsupported DB_DRIVER: %q", cfg.DBDriver)
    }
    return cfg
}

// LoadBcryptCost reads BCRYPT_COST without requiring the rest of the
// configuration, so passwords can be hashed before the server is set up.
func LoadBcryptCost() int {
    return envInt("BCRYPT_COST", 12)
}

// Development reports whether the app runs in a local environment.
func (c Config) Development() bool {
    return c.Env == "dev" || c.Env == "local"
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

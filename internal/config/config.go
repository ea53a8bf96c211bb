package config

import (
	"os"      // For environment variables
	"strconv" // For string to int conversion

	"github.com/joho/godotenv" // For loading .env files
)

// Config holds the application configuration
type Config struct {
	AppPort       string // Application port
	DBUser        string // Database user
	DBPassword    string // Database password
	DBHost        string // Database host
	DBPort        string // Database port
	DBName        string // Database name
	JWTSecret     string // JWT secret key
	RedisAddr     string // Redis server address
	RedisPass     string // Redis password
	RedisDB       int    // Redis database number
	SMTPHost      string // SMTP server host
	SMTPPort      int    // SMTP server port
	SMTPUser      string // SMTP username
	SMTPPassword  string // SMTP password
	MailFrom      string // Sender address for outgoing mail
	FlightsAPIKey string // API key for the flight search provider
	FlightsAPIURL string // Override for the flight search provider base URL
	IsProd        bool   // Is production environment
}

// HasDatabase reports whether enough database settings are present to connect.
// Without them the server runs in a degraded, non-persistent mode.
func (c *Config) HasDatabase() bool {
	return c.DBHost != "" && c.DBName != ""
}

// DSN builds the MySQL data source name from the database settings.
func (c *Config) DSN() string {
	return c.DBUser + ":" + c.DBPassword + "@tcp(" + c.DBHost + ":" + c.DBPort + ")/" + c.DBName + "?parseTime=true"
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	_ = godotenv.Load() // Load .env file if present
	redisDB, _ := strconv.Atoi(os.Getenv("REDIS_DB"))
	smtpPort, _ := strconv.Atoi(os.Getenv("SMTP_PORT"))
	return &Config{
		AppPort:       os.Getenv("APP_PORT"),          // Application port
		DBUser:        os.Getenv("DB_USER"),           // Database user
		DBPassword:    os.Getenv("DB_PASSWORD"),       // Database password
		DBHost:        os.Getenv("DB_HOST"),           // Database host
		DBPort:        os.Getenv("DB_PORT"),           // Database port
		DBName:        os.Getenv("DB_NAME"),           // Database name
		JWTSecret:     os.Getenv("JWT_SECRET"),        // JWT secret key
		RedisAddr:     os.Getenv("REDIS_ADDR"),        // Redis server address
		RedisPass:     os.Getenv("REDIS_PASS"),        // Redis password
		RedisDB:       redisDB,                        // Redis database number
		SMTPHost:      os.Getenv("SMTP_HOST"),         // SMTP server host
		SMTPPort:      smtpPort,                       // SMTP server port
		SMTPUser:      os.Getenv("SMTP_USER"),         // SMTP username
		SMTPPassword:  os.Getenv("SMTP_PASSWORD"),     // SMTP password
		MailFrom:      os.Getenv("MAIL_FROM"),         // Sender address
		FlightsAPIKey: os.Getenv("FLIGHTS_API_KEY"),   // Flight provider API key
		FlightsAPIURL: os.Getenv("FLIGHTS_API_URL"),   // Flight provider base URL override
		IsProd:        os.Getenv("IS_PROD") == "true", // Is production environment
	}
}

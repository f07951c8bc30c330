package config

import (
	"errors"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port      string
	ClientURL string
	JWTSecret string

	StripeSecretKey        string
	StripeWebhookSecret    string
	StripeCurrency         string
	StripeAllowedCountries []string
	StripeSuccessURL       string
	StripeCancelURL        string

	MongoURI    string
	MongoDBName string

	ScyllaHosts      []string
	ScyllaKeyspace   string
	ScyllaRole       string
	ScyllaPassword   string
	ScyllaSSLEnabled bool
	ScyllaCACertPath string

	RedisHost     string
	RedisPassword string

	RabbitURL string

	ElasticURL      string
	ElasticUser     string
	ElasticPassword string

	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioUseSSL    bool

	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	MailFrom     string
}

func Load() *Config {
	if err := godotenv.Load(".env"); err != nil {
		log.Println("⚠️  Aucun fichier .env trouvé, on continue avec les variables d'environnement du système")
	} else {
		log.Println("✅ Fichier .env chargé avec succès")
	}
	return FromEnv()
}

// FromEnv construit la configuration sans toucher au fichier .env.
func FromEnv() *Config {
	return &Config{
		Port:      getEnv("PORT", "8080"),
		ClientURL: getEnv("CLIENT_URL", "http://localhost:3000"),
		JWTSecret: os.Getenv("JWT_SECRET"),

		StripeSecretKey:        os.Getenv("STRIPE_SECRET_KEY"),
		StripeWebhookSecret:    os.Getenv("STRIPE_WEBHOOK_SECRET"),
		StripeCurrency:         strings.ToLower(getEnv("STRIPE_CURRENCY", "usd")),
		StripeAllowedCountries: splitList(getEnv("STRIPE_ALLOWED_COUNTRIES", "US,CA,GB,FR,DE,BE")),
		StripeSuccessURL:       os.Getenv("STRIPE_SUCCESS_URL"),
		StripeCancelURL:        os.Getenv("STRIPE_CANCEL_URL"),

		MongoURI:    getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDBName: getEnv("MONGO_DB_NAME", "storefront"),

		ScyllaHosts:      splitList(getEnv("SCYLLA_HOSTS", "127.0.0.1")),
		ScyllaKeyspace:   getEnv("SCYLLA_KS_PRODUCTS_KEYSPACE", "products"),
		ScyllaRole:       os.Getenv("SCYLLA_KS_PRODUCTS_ROLE"),
		ScyllaPassword:   os.Getenv("SCYLLA_KS_PRODUCTS_PASSWORD"),
		ScyllaSSLEnabled: getBool("SCYLLA_SSL_ENABLED"),
		ScyllaCACertPath: os.Getenv("SCYLLA_SSL_CA_PATH"),

		RedisHost:     getEnv("REDIS_HOST", "localhost:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),

		RabbitURL: os.Getenv("RABBIT_URL"),

		ElasticURL:      os.Getenv("ELASTIC_URL"),
		ElasticUser:     os.Getenv("ELASTIC_USER"),
		ElasticPassword: os.Getenv("ELASTIC_PASSWORD"),

		MinioEndpoint:  os.Getenv("MINIO_ENDPOINT"),
		MinioAccessKey: os.Getenv("MINIO_ACCESS_KEY"),
		MinioSecretKey: os.Getenv("MINIO_SECRET_KEY"),
		MinioBucket:    os.Getenv("MINIO_BUCKET"),
		MinioUseSSL:    getBool("MINIO_USE_SSL"),

		SMTPHost:     os.Getenv("SMTP_HOST"),
		SMTPPort:     getInt("SMTP_PORT", 587),
		SMTPUsername: os.Getenv("SMTP_USERNAME"),
		SMTPPassword: os.Getenv("SMTP_PASSWORD"),
		MailFrom:     getEnv("MAIL_FROM", "noreply@localhost"),
	}
}

// Validate refuse de démarrer sans les secrets de paiement et d'auth.
func (c *Config) Validate() error {
	var errs []error
	if c.StripeSecretKey == "" {
		errs = append(errs, errors.New("STRIPE_SECRET_KEY manquant"))
	}
	if c.StripeWebhookSecret == "" {
		errs = append(errs, errors.New("STRIPE_WEBHOOK_SECRET manquant"))
	}
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET manquant"))
	}
	return errors.Join(errs...)
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && strings.TrimSpace(value) != "" {
		return value
	}
	return fallback
}

func getBool(key string) bool {
	return strings.EqualFold(os.Getenv(key), "true")
}

func getInt(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

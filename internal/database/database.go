package database

import (
	"context"
	"fmt"
	"log"
	"time"

	"storefront_back_end/internal/config"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/gocql/gocql"
	"github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// --- Configuration ScyllaDB ---
type ScyllaKeyspaceConfig struct {
	Hosts       []string
	Keyspace    string
	Username    string
	Password    string
	SSLEnabled  bool
	CACertPath  string
	Timeout     time.Duration
	NumConns    int
	Consistency gocql.Consistency
}

// Connections regroupe les clients ouverts au démarrage.
// Elastic et Rabbit restent nil quand ils ne sont pas configurés.
type Connections struct {
	Mongo    *mongo.Client
	MongoDB  *mongo.Database
	Products *gocql.Session
	Redis    *redis.Client
	Elastic  *elasticsearch.Client
	Rabbit   *amqp091.Connection
}

// --- Initialisation ---
func Connect(ctx context.Context, cfg *config.Config) (*Connections, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	conns := &Connections{}

	// 1. MongoDB (commandes)
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, fmt.Errorf("connexion MongoDB: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("ping MongoDB: %w", err)
	}
	conns.Mongo = client
	conns.MongoDB = client.Database(cfg.MongoDBName)
	log.Println("✅ Connecté à MongoDB :", cfg.MongoDBName)

	// 2. ScyllaDB (catalogue)
	cluster, err := createScyllaCluster(productsKeyspace(cfg))
	if err != nil {
		conns.Close()
		return nil, err
	}
	session, err := cluster.CreateSession()
	if err != nil {
		conns.Close()
		return nil, fmt.Errorf("erreur création session pour %s: %w", cfg.ScyllaKeyspace, err)
	}
	conns.Products = session
	log.Printf("✅ Nouvelle session ScyllaDB pour keyspace '%s' (utilisateur: %s)", cfg.ScyllaKeyspace, cfg.ScyllaRole)

	// 3. Redis (panier, déduplication webhooks, rate limit)
	conns.Redis = redis.NewClient(&redis.Options{
		Addr:     cfg.RedisHost,
		Password: cfg.RedisPassword,
		DB:       0,
	})
	if err := conns.Redis.Ping(ctx).Err(); err != nil {
		conns.Close()
		return nil, fmt.Errorf("connexion Redis: %w", err)
	}
	log.Println("✅ Connecté à Redis")

	// 4. Elasticsearch (optionnel)
	if cfg.ElasticURL != "" {
		conns.Elastic = connectElastic(cfg)
	}

	// 5. RabbitMQ (optionnel)
	if cfg.RabbitURL != "" {
		conn, err := amqp091.Dial(cfg.RabbitURL)
		if err != nil {
			log.Println("⚠️ RabbitMQ indisponible, événements order_paid désactivés:", err)
		} else {
			conns.Rabbit = conn
			log.Println("🐰 Connecté à RabbitMQ")
		}
	}

	log.Println("✅ Toutes les bases de données sont connectées")
	return conns, nil
}

func productsKeyspace(cfg *config.Config) ScyllaKeyspaceConfig {
	return ScyllaKeyspaceConfig{
		Hosts:       cfg.ScyllaHosts,
		Keyspace:    cfg.ScyllaKeyspace,
		Username:    cfg.ScyllaRole,
		Password:    cfg.ScyllaPassword,
		SSLEnabled:  cfg.ScyllaSSLEnabled,
		CACertPath:  cfg.ScyllaCACertPath,
		Timeout:     5 * time.Second,
		NumConns:    20,
		Consistency: gocql.Quorum,
	}
}

// createScyllaCluster crée une configuration de cluster pour un keyspace.
// Les LWT (IF ...) passent en SERIAL, le reste en QUORUM.
func createScyllaCluster(config ScyllaKeyspaceConfig) (*gocql.ClusterConfig, error) {
	if len(config.Hosts) == 0 {
		return nil, fmt.Errorf("aucun hôte ScyllaDB configuré")
	}
	if config.Keyspace == "" {
		return nil, fmt.Errorf("keyspace produits non configuré")
	}

	cluster := gocql.NewCluster(config.Hosts...)
	cluster.Keyspace = config.Keyspace
	cluster.Consistency = config.Consistency
	cluster.SerialConsistency = gocql.Serial
	cluster.Timeout = config.Timeout
	cluster.NumConns = config.NumConns
	cluster.MaxWaitSchemaAgreement = 30 * time.Second
	cluster.ReconnectInterval = 1 * time.Second
	if config.Username != "" {
		cluster.Authenticator = gocql.PasswordAuthenticator{
			Username: config.Username,
			Password: config.Password,
		}
	}

	if config.SSLEnabled {
		cluster.SslOpts = &gocql.SslOptions{
			CaPath:                 config.CACertPath,
			EnableHostVerification: config.CACertPath != "",
		}
	}

	// Politique de sélection d'hôtes optimisée
	cluster.PoolConfig.HostSelectionPolicy = gocql.TokenAwareHostPolicy(gocql.RoundRobinHostPolicy())

	return cluster, nil
}

func connectElastic(cfg *config.Config) *elasticsearch.Client {
	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{cfg.ElasticURL},
		Username:  cfg.ElasticUser,
		Password:  cfg.ElasticPassword,
	})
	if err != nil {
		log.Println("⚠️ Erreur création client Elasticsearch:", err)
		return nil
	}

	res, err := client.Info()
	if err != nil {
		log.Println("⚠️ Erreur connexion Elasticsearch:", err)
		return nil
	}
	defer res.Body.Close()

	log.Println("✅ Connecté à Elasticsearch")
	return client
}

// Close ferme tout ce qui a été ouvert, dans l'ordre inverse.
func (c *Connections) Close() {
	if c.Rabbit != nil {
		_ = c.Rabbit.Close()
	}
	if c.Redis != nil {
		_ = c.Redis.Close()
	}
	if c.Products != nil {
		c.Products.Close()
		log.Println("🔌 Session ScyllaDB fermée")
	}
	if c.Mongo != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = c.Mongo.Disconnect(ctx)
	}
}

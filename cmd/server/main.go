package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"storefront_back_end/internal/checkout"
	"storefront_back_end/internal/config"
	"storefront_back_end/internal/database"
	"storefront_back_end/internal/handlers/payement"
	"storefront_back_end/internal/handlers/user"
	"storefront_back_end/internal/middleware"
	"storefront_back_end/internal/payment"
	"storefront_back_end/internal/rabbit"
	"storefront_back_end/internal/routes"
	"storefront_back_end/internal/services"
	"storefront_back_end/internal/store"
	"storefront_back_end/internal/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v83"
)

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("❌ Configuration invalide: %v", err)
	}

	stripe.Key = cfg.StripeSecretKey
	log.Println("✅ Stripe initialisé")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	conns, err := database.Connect(ctx, cfg)
	if err != nil {
		log.Fatalf("❌ Échec initialisation des bases: %v", err)
	}
	defer conns.Close()

	orders := store.NewMongoOrderStore(conns.MongoDB)
	if err := orders.EnsureIndexes(ctx); err != nil {
		log.Println("⚠️ Index commandes non créés:", err)
	}

	minioCfg := services.MinioConfig{
		Endpoint:  cfg.MinioEndpoint,
		AccessKey: cfg.MinioAccessKey,
		SecretKey: cfg.MinioSecretKey,
		Bucket:    cfg.MinioBucket,
		UseSSL:    cfg.MinioUseSSL,
	}
	images := services.NewImageSigner(services.ConnectMinio(minioCfg), minioCfg)

	gateway := payment.NewStripeGateway(payment.StripeConfig{
		Currency:         cfg.StripeCurrency,
		AllowedCountries: cfg.StripeAllowedCountries,
		WebhookSecret:    cfg.StripeWebhookSecret,
	}, images)

	svc := checkout.NewService(
		orders,
		store.NewScyllaProductStore(conns.Products),
		store.NewRedisCartStore(conns.Redis),
		gateway,
		checkout.URLConfig{
			ClientURL:  cfg.ClientURL,
			SuccessURL: cfg.StripeSuccessURL,
			CancelURL:  cfg.StripeCancelURL,
		},
		checkout.WithEventDeduper(store.NewRedisEventDeduper(conns.Redis)),
		checkout.WithPaidHooks(paidHooks(cfg, conns)...),
	)

	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{strings.TrimRight(cfg.ClientURL, "/")},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	routes.RegisterRoutes(r, routes.Deps{
		JWTSecret:   cfg.JWTSecret,
		Checkout:    payement.NewHandler(svc),
		Orders:      user.NewOrderHandler(orders),
		RateCounter: middleware.NewRedisCounter(conns.Redis),
	})

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		log.Println("🚀 Serveur lancé sur le port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ Serveur arrêté: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("🛑 Arrêt en cours...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Println("⚠️ Arrêt forcé:", err)
	}
}

// paidHooks assemble les effets secondaires optionnels d'une commande payée.
func paidHooks(cfg *config.Config, conns *database.Connections) []checkout.PaidHook {
	var hooks []checkout.PaidHook

	if conns.Rabbit != nil {
		ch, err := conns.Rabbit.Channel()
		if err != nil {
			log.Println("⚠️ Canal RabbitMQ indisponible:", err)
		} else if pub, err := rabbit.NewPublisher(ch); err != nil {
			log.Println("⚠️ Publisher order_paid désactivé:", err)
		} else {
			hooks = append(hooks, pub)
		}
	}

	if conns.Elastic != nil {
		hooks = append(hooks, services.NewSearchIndexer(conns.Elastic))
	}

	if cfg.SMTPHost != "" {
		hooks = append(hooks, utils.NewMailer(utils.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
			From:     cfg.MailFrom,
		}, cfg.ClientURL))
	} else {
		log.Println("ℹ️ SMTP non configuré, pas d'e-mail de confirmation")
	}

	return hooks
}

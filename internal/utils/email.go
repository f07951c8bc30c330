package utils

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"storefront_back_end/internal/models"

	"github.com/wneessen/go-mail"
)

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// Mailer envoie la confirmation de commande une fois le paiement validé.
type Mailer struct {
	cfg       SMTPConfig
	clientURL string
	send      func(ctx context.Context, msg *mail.Msg) error
}

func NewMailer(cfg SMTPConfig, clientURL string) *Mailer {
	if cfg.Port == 0 {
		cfg.Port = 587
	}
	m := &Mailer{cfg: cfg, clientURL: clientURL}
	m.send = m.dialAndSend
	return m
}

func (m *Mailer) dialAndSend(ctx context.Context, msg *mail.Msg) error {
	client, err := mail.NewClient(m.cfg.Host,
		mail.WithPort(m.cfg.Port),
		mail.WithSMTPAuth(mail.SMTPAuthLogin),
		mail.WithUsername(m.cfg.Username),
		mail.WithPassword(m.cfg.Password),
		mail.WithTLSPolicy(mail.TLSMandatory),
	)
	if err != nil {
		return err
	}
	return client.DialAndSendWithContext(ctx, msg)
}

// OrderPaid n'attend pas le serveur SMTP : l'envoi part en arrière-plan.
func (m *Mailer) OrderPaid(_ context.Context, order *models.Order) error {
	to := order.PaymentResult.EmailAddress
	if to == "" {
		return errors.New("aucune adresse e-mail sur la commande")
	}
	msg, err := m.confirmationMessage(order, to)
	if err != nil {
		return err
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		log.Println("📤 Envoi de l'e-mail à", to)
		if err := m.send(ctx, msg); err != nil {
			log.Printf("❌ Erreur envoi email (commande %s): %v", order.ID.Hex(), err)
			return
		}
		log.Printf("📧 Email de confirmation envoyé: %s (commande: %s)", to, order.ID.Hex())
	}()
	return nil
}

func (m *Mailer) confirmationMessage(order *models.Order, to string) (*mail.Msg, error) {
	html, qr, err := RenderOrderConfirmation(order, m.clientURL)
	if err != nil {
		return nil, err
	}

	msg := mail.NewMsg()
	if err := msg.From(m.cfg.From); err != nil {
		return nil, fmt.Errorf("expéditeur invalide: %w", err)
	}
	if err := msg.To(to); err != nil {
		return nil, fmt.Errorf("destinataire invalide: %w", err)
	}
	msg.Subject(fmt.Sprintf("✅ Commande confirmée - %s", order.ID.Hex()))
	msg.SetBodyString(mail.TypeTextHTML, html)
	msg.EmbedReader(qrContentID, bytes.NewReader(qr))
	return msg, nil
}

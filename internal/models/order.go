package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	PaymentMethodStripe = "Stripe"

	PaymentStatusPending   = "pending"
	PaymentStatusCompleted = "completed"

	OrderStatusProcessing = "processing"
)

type Order struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	User            *string            `bson:"user,omitempty" json:"user,omitempty"`
	OrderItems      []OrderItem        `bson:"orderItems" json:"orderItems"`
	ShippingAddress ShippingAddress    `bson:"shippingAddress" json:"shippingAddress"`
	PaymentMethod   string             `bson:"paymentMethod" json:"paymentMethod"`
	PaymentResult   PaymentResult      `bson:"paymentResult" json:"paymentResult"`
	ItemsPrice      float64            `bson:"itemsPrice" json:"itemsPrice"`
	TaxPrice        float64            `bson:"taxPrice" json:"taxPrice"`
	ShippingPrice   float64            `bson:"shippingPrice" json:"shippingPrice"`
	TotalPrice      float64            `bson:"totalPrice" json:"totalPrice"`
	IsPaid          bool               `bson:"isPaid" json:"isPaid"`
	PaidAt          *time.Time         `bson:"paidAt" json:"paidAt"`
	Status          string             `bson:"status,omitempty" json:"status,omitempty"`
	IsGuestOrder    bool               `bson:"isGuestOrder" json:"isGuestOrder"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// OrderItem garde deux choses séparées : la photo figée du produit au moment
// de l'achat (LineSnapshot) et la référence vivante utilisée pour le stock.
type OrderItem struct {
	LineSnapshot `bson:",inline"`
	Product      string `bson:"product" json:"product"`
	Quantity     int    `bson:"qty" json:"qty"`
}

type LineSnapshot struct {
	Name  string  `bson:"name" json:"name"`
	Price float64 `bson:"price" json:"price"`
	Image string  `bson:"image" json:"image"`
}

type ShippingAddress struct {
	FirstName  string `bson:"firstName" json:"firstName"`
	LastName   string `bson:"lastName" json:"lastName"`
	Address    string `bson:"address" json:"address"`
	City       string `bson:"city" json:"city"`
	PostalCode string `bson:"postalCode" json:"postalCode"`
	Country    string `bson:"country" json:"country"`
}

type PaymentResult struct {
	ID           string    `bson:"id" json:"id"`
	Status       string    `bson:"status" json:"status"`
	UpdateTime   time.Time `bson:"update_time" json:"update_time"`
	EmailAddress string    `bson:"email_address" json:"email_address"`
}

// UserID renvoie l'id du propriétaire, vide pour une commande invité.
func (o *Order) UserID() string {
	if o.User == nil {
		return ""
	}
	return *o.User
}

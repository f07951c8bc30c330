package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"storefront_back_end/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoOrderStore struct {
	col *mongo.Collection
}

func NewMongoOrderStore(db *mongo.Database) *MongoOrderStore {
	return &MongoOrderStore{col: db.Collection("orders")}
}

// EnsureIndexes crée les index utilisés par la réconciliation et "mes commandes".
func (m *MongoOrderStore) EnsureIndexes(ctx context.Context) error {
	_, err := m.col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "paymentResult.id", Value: 1}}},
		{Keys: bson.D{{Key: "user", Value: 1}, {Key: "createdAt", Value: -1}}},
	})
	return err
}

func (m *MongoOrderStore) Create(ctx context.Context, o *models.Order) error {
	now := time.Now().UTC()
	if o.ID.IsZero() {
		o.ID = primitive.NewObjectID()
	}
	o.CreatedAt = now
	o.UpdatedAt = now

	if _, err := m.col.InsertOne(ctx, o); err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

// FindByIDForUser ne renvoie la commande qu'à son propriétaire.
func (m *MongoOrderStore) FindByIDForUser(ctx context.Context, id, userID string) (*models.Order, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrOrderNotFound
	}
	return m.findOne(ctx, bson.M{"_id": oid, "user": userID})
}

func (m *MongoOrderStore) SetPaymentSession(ctx context.Context, id, sessionID string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrOrderNotFound
	}

	now := time.Now().UTC()
	res, err := m.col.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{
		"$set": bson.M{
			"paymentResult.id":          sessionID,
			"paymentResult.status":      models.PaymentStatusPending,
			"paymentResult.update_time": now,
			"updatedAt":                 now,
		},
	})
	if err != nil {
		return fmt.Errorf("set payment session: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrOrderNotFound
	}
	return nil
}

// MarkPaid bascule la commande de impayée à payée en une seule écriture
// conditionnelle sur isPaid=false. transitioned=false veut dire qu'un autre
// appelant (webhook, polling) a déjà payé la commande : elle est renvoyée telle quelle.
func (m *MongoOrderStore) MarkPaid(ctx context.Context, id, payerEmail string, at time.Time) (*models.Order, bool, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, false, ErrOrderNotFound
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var order models.Order
	err = m.col.FindOneAndUpdate(ctx, markPaidFilter(oid), markPaidUpdate(at, payerEmail), opts).Decode(&order)
	if err == nil {
		return &order, true, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, false, fmt.Errorf("mark order paid: %w", err)
	}

	existing, err := m.findOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return nil, false, err
	}
	return existing, false, nil
}

// markPaidFilter ne matche que les commandes encore impayées : c'est ce
// filtre qui garantit qu'une seule réconciliation gagne.
func markPaidFilter(oid primitive.ObjectID) bson.M {
	return bson.M{"_id": oid, "isPaid": bson.M{"$ne": true}}
}

func markPaidUpdate(at time.Time, payerEmail string) bson.M {
	at = at.UTC()
	set := bson.M{
		"isPaid":                    true,
		"paidAt":                    at,
		"status":                    models.OrderStatusProcessing,
		"paymentResult.status":      models.PaymentStatusCompleted,
		"paymentResult.update_time": at,
		"updatedAt":                 at,
	}
	if payerEmail != "" {
		set["paymentResult.email_address"] = payerEmail
	}
	return bson.M{"$set": set}
}

func (m *MongoOrderStore) findOne(ctx context.Context, filter bson.M) (*models.Order, error) {
	var order models.Order
	err := m.col.FindOne(ctx, filter).Decode(&order)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find order: %w", err)
	}
	return &order, nil
}

// ListByUser renvoie les commandes d'un utilisateur, les plus récentes d'abord.
func (m *MongoOrderStore) ListByUser(ctx context.Context, userID string) ([]models.Order, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}).SetLimit(100)
	cursor, err := m.col.Find(ctx, bson.M{"user": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("find orders: %w", err)
	}
	defer cursor.Close(ctx)

	orders := []models.Order{}
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, fmt.Errorf("decode orders: %w", err)
	}
	return orders, nil
}

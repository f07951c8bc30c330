package store

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"storefront_back_end/internal/models"

	"github.com/gocql/gocql"
)

const (
	selectProductQuery = `SELECT product_id, name, description, price, stock, purchase_count, image_urls, updated_at
		FROM products WHERE product_id = ?`
	selectCountersQuery = `SELECT stock, purchase_count FROM products WHERE product_id = ?`
	// LWT : stock et compteur d'achats bougent ensemble ou pas du tout.
	adjustSaleQuery = `UPDATE products SET stock = ?, purchase_count = ?, updated_at = ?
		WHERE product_id = ? IF stock = ? AND purchase_count = ?`
	insertMovementQuery = `INSERT INTO stock_movements (
			id, product_id, type, quantity, prev_stock, new_stock, reason, order_id, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	defaultCASRetries = 5
)

type ScyllaProductStore struct {
	session    *gocql.Session
	casRetries int
}

func NewScyllaProductStore(session *gocql.Session) *ScyllaProductStore {
	return &ScyllaProductStore{session: session, casRetries: defaultCASRetries}
}

func (s *ScyllaProductStore) FindByID(ctx context.Context, id string) (*models.Product, error) {
	productID, err := gocql.ParseUUID(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrProductNotFound, id)
	}

	var (
		p         models.Product
		purchases *int
		updatedAt *time.Time
	)
	err = s.session.Query(selectProductQuery, productID).WithContext(ctx).Scan(
		&p.ID, &p.Name, &p.Description, &p.Price, &p.Stock, &purchases, &p.ImageURLs, &updatedAt)
	if errors.Is(err, gocql.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrProductNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("select product %s: %w", id, err)
	}
	if purchases != nil {
		p.PurchaseCount = *purchases
	}
	if updatedAt != nil {
		p.UpdatedAt = *updatedAt
	}
	return &p, nil
}

// AdjustForSale retire qty du stock et l'ajoute à purchase_count, puis trace un
// mouvement "sale". Le stock peut devenir négatif : la vente est déjà payée.
func (s *ScyllaProductStore) AdjustForSale(ctx context.Context, orderID, productID string, qty int) error {
	pid, err := gocql.ParseUUID(productID)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrProductNotFound, productID)
	}

	read := func() (saleCounters, error) {
		var c saleCounters
		err := s.session.Query(selectCountersQuery, pid).WithContext(ctx).Scan(&c.stock, &c.purchases)
		if errors.Is(err, gocql.ErrNotFound) {
			return c, fmt.Errorf("%w: %s", ErrProductNotFound, productID)
		}
		if err != nil {
			return c, fmt.Errorf("read stock %s: %w", productID, err)
		}
		return c, nil
	}
	cas := func(prev saleCounters, newStock, newPurchases int) (bool, error) {
		// prev est relié tel quel : un NULL en base doit matcher un NULL dans le IF.
		applied, err := s.session.Query(adjustSaleQuery,
			newStock, newPurchases, time.Now().UTC(), pid, prev.stock, prev.purchases,
		).WithContext(ctx).MapScanCAS(map[string]interface{}{})
		if err != nil {
			return false, fmt.Errorf("update stock %s: %w", productID, err)
		}
		return applied, nil
	}

	prevStock, newStock, err := adjustWithRetry(productID, qty, s.casRetries, read, cas)
	if err != nil {
		return err
	}
	if newStock < 0 {
		log.Printf("⚠️ Stock négatif pour %s après la commande %s: %d", productID, orderID, newStock)
	}
	s.recordMovement(ctx, pid, orderID, qty, prevStock, newStock)
	log.Printf("📦 Stock %s: %d -> %d (commande %s)", productID, prevStock, newStock, orderID)
	return nil
}

// saleCounters garde les colonnes telles que lues : nil pour NULL.
type saleCounters struct {
	stock     *int
	purchases *int
}

func (c saleCounters) values() (stock, purchases int) {
	if c.stock != nil {
		stock = *c.stock
	}
	if c.purchases != nil {
		purchases = *c.purchases
	}
	return stock, purchases
}

// adjustWithRetry relit et retente le compare-and-set au plus retries fois.
func adjustWithRetry(
	productID string,
	qty, retries int,
	read func() (saleCounters, error),
	cas func(prev saleCounters, newStock, newPurchases int) (bool, error),
) (int, int, error) {
	for attempt := 0; attempt < retries; attempt++ {
		prev, err := read()
		if err != nil {
			return 0, 0, err
		}
		stock, purchases := prev.values()

		applied, err := cas(prev, stock-qty, purchases+qty)
		if err != nil {
			return 0, 0, err
		}
		if applied {
			return stock, stock - qty, nil
		}
		log.Printf("🔁 Stock %s modifié entre-temps, nouvel essai (%d/%d)", productID, attempt+1, retries)
	}
	return 0, 0, fmt.Errorf("%w: %s", ErrStockContention, productID)
}

func (s *ScyllaProductStore) recordMovement(ctx context.Context, pid gocql.UUID, orderID string, qty, prev, next int) {
	mv := models.StockMovement{
		ID:        gocql.TimeUUID(),
		ProductID: pid,
		Type:      models.StockMovementSale,
		Quantity:  qty,
		PrevStock: prev,
		NewStock:  next,
		Reason:    "order paid",
		OrderID:   orderID,
		CreatedAt: time.Now().UTC(),
	}
	err := s.session.Query(insertMovementQuery,
		mv.ID, mv.ProductID, mv.Type, mv.Quantity, mv.PrevStock, mv.NewStock, mv.Reason, mv.OrderID, mv.CreatedAt,
	).WithContext(ctx).Exec()
	if err != nil {
		log.Printf("⚠️ Erreur enregistrement mouvement stock: %v", err)
	}
}

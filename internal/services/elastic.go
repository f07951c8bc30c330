package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"storefront_back_end/internal/models"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
)

const ProductsIndex = "products"

//
// --- SYNCHRO POPULARITÉ DANS ELASTICSEARCH ---
//

// SearchIndexer reporte les ventes payées sur les documents du catalogue.
type SearchIndexer struct {
	client *elasticsearch.Client
	index  string
}

func NewSearchIndexer(client *elasticsearch.Client) *SearchIndexer {
	return &SearchIndexer{client: client, index: ProductsIndex}
}

// OrderPaid met à jour purchase_count et stock pour chaque ligne.
// Un document absent n'est pas une erreur : le produit n'est peut-être pas encore indexé.
func (s *SearchIndexer) OrderPaid(ctx context.Context, order *models.Order) error {
	if s.client == nil {
		log.Println("⚠️ Elastic non initialisé, synchro popularité ignorée")
		return nil
	}

	var errs []error
	for _, item := range order.OrderItems {
		body, err := saleUpdateBody(item.Quantity)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		req := esapi.UpdateRequest{
			Index:           s.index,
			DocumentID:      item.Product,
			Body:            bytes.NewReader(body),
			RetryOnConflict: esapi.IntPtr(3),
		}
		res, err := req.Do(ctx, s.client)
		if err != nil {
			log.Println("❌ Erreur envoi Elastic:", err)
			errs = append(errs, err)
			continue
		}
		res.Body.Close()

		switch {
		case res.StatusCode == 404:
			log.Printf("ℹ️ Produit %s absent de l'index %s", item.Product, s.index)
		case res.IsError():
			log.Printf("⚠️ Elastic a renvoyé une erreur pour %s: %s", item.Product, res.String())
			errs = append(errs, fmt.Errorf("elastic update %s: %s", item.Product, res.Status()))
		default:
			log.Printf("✅ Popularité mise à jour dans Elasticsearch: %s (+%d)", item.Product, item.Quantity)
		}
	}
	return errors.Join(errs...)
}

// saleUpdateBody produit un script painless qui tolère les champs manquants.
func saleUpdateBody(qty int) ([]byte, error) {
	return json.Marshal(map[string]interface{}{
		"script": map[string]interface{}{
			"lang": "painless",
			"source": "if (ctx._source.purchase_count == null) { ctx._source.purchase_count = 0 } " +
				"ctx._source.purchase_count += params.qty; " +
				"if (ctx._source.stock != null) { ctx._source.stock -= params.qty }",
			"params": map[string]interface{}{"qty": qty},
		},
	})
}

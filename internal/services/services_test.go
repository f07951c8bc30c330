package services

import (
	"context"
	"encoding/json"
	"testing"

	"storefront_back_end/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaleUpdateBody(t *testing.T) {
	raw, err := saleUpdateBody(3)
	require.NoError(t, err)

	var body struct {
		Script struct {
			Lang   string         `json:"lang"`
			Source string         `json:"source"`
			Params map[string]int `json:"params"`
		} `json:"script"`
	}
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.Equal(t, "painless", body.Script.Lang)
	assert.Equal(t, 3, body.Script.Params["qty"])
	assert.Contains(t, body.Script.Source, "purchase_count += params.qty")
	assert.Contains(t, body.Script.Source, "stock -= params.qty")
}

func TestSearchIndexer_NoClient(t *testing.T) {
	s := NewSearchIndexer(nil)
	err := s.OrderPaid(context.Background(), &models.Order{OrderItems: []models.OrderItem{{Product: "p", Quantity: 1}}})
	assert.NoError(t, err)
}

func TestImageSigner_ObjectKey(t *testing.T) {
	s := NewImageSigner(nil, MinioConfig{Endpoint: "minio.local:9000", Bucket: "shop-images"})

	tests := []struct {
		name  string
		image string
		key   string
		ok    bool
	}{
		{"url complète http", "http://minio.local:9000/shop-images/a/b.png", "a/b.png", true},
		{"url complète https", "https://minio.local:9000/shop-images/c.png", "c.png", true},
		{"chemin avec bucket", "shop-images/d.png", "d.png", true},
		{"clé nue", "/e.png", "e.png", true},
		{"cdn externe", "https://cdn.example.com/f.png", "", false},
		{"vide", "  ", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, ok := s.objectKey(tt.image)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.key, key)
		})
	}
}

func TestImageSigner_PublicURLWithoutClient(t *testing.T) {
	s := NewImageSigner(nil, MinioConfig{Endpoint: "minio.local:9000", Bucket: "shop-images"})

	u, err := s.PublicURL(context.Background(), "https://cdn.example.com/f.png")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/f.png", u)
}

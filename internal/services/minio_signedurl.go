package services

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
)

const DefaultSignedURLTTL = 24 * time.Hour

// ImageSigner rend les images du bucket lisibles par la page de paiement hébergée.
type ImageSigner struct {
	client   *minio.Client
	endpoint string
	bucket   string
	ttl      time.Duration
}

func NewImageSigner(client *minio.Client, cfg MinioConfig) *ImageSigner {
	return &ImageSigner{client: client, endpoint: cfg.Endpoint, bucket: cfg.Bucket, ttl: DefaultSignedURLTTL}
}

// PublicURL signe les objets du bucket ; les autres URL sont renvoyées telles quelles.
func (s *ImageSigner) PublicURL(ctx context.Context, image string) (string, error) {
	key, ok := s.objectKey(image)
	if !ok || s.client == nil {
		return image, nil
	}
	u, err := s.client.PresignedGetObject(ctx, s.bucket, key, s.ttl, make(url.Values))
	if err != nil {
		return "", err
	}
	return u.String(), nil
}

// objectKey nettoie l'URL complète pour ne garder que le chemin relatif au bucket.
func (s *ImageSigner) objectKey(image string) (string, bool) {
	image = strings.TrimSpace(image)
	if image == "" || s.bucket == "" {
		return "", false
	}
	for _, scheme := range []string{"http://", "https://"} {
		prefix := scheme + s.endpoint + "/" + s.bucket + "/"
		if s.endpoint != "" && strings.HasPrefix(image, prefix) {
			return strings.TrimPrefix(image, prefix), true
		}
	}
	if strings.Contains(image, "://") {
		return "", false
	}
	key := strings.TrimPrefix(strings.TrimPrefix(image, "/"), s.bucket+"/")
	return key, key != ""
}

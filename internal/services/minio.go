package services

import (
	"log"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// ConnectMinio renvoie nil quand MinIO n'est pas configuré.
func ConnectMinio(cfg MinioConfig) *minio.Client {
	if cfg.Endpoint == "" {
		log.Println("ℹ️ MinIO non configuré, images transmises telles quelles")
		return nil
	}
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		log.Println("⚠️ MinIO non configuré :", err)
		return nil
	}
	log.Println("✅ Connecté à MinIO :", cfg.Endpoint)
	return client
}

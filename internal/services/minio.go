package services

import (
	"context"
	"fmt"
	"log"
	"mime/multipart"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"

	"boutique_back_end/internal/config"
	"boutique_back_end/internal/database"
)

func bucket() string {
	return config.Getenv("MINIO_BUCKET", "boutique-uploads")
}

// UploadImage pousse une image produit dans MinIO et retourne le nom d'objet.
// Le nom est préfixé d'un UUID : deux uploads du même fichier ne se percutent pas.
func UploadImage(ctx context.Context, file *multipart.FileHeader) (string, error) {
	if database.MinIO == nil {
		return "", fmt.Errorf("MinIO non initialisé")
	}

	f, err := file.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()

	objectName := "products/" + uuid.NewString() + filepath.Ext(file.Filename)

	_, err = database.MinIO.PutObject(ctx, bucket(), objectName, f, file.Size,
		minio.PutObjectOptions{ContentType: file.Header.Get("Content-Type")})
	if err != nil {
		return "", err
	}

	log.Printf("🪣 Image envoyée dans MinIO : %s", objectName)
	return objectName, nil
}

// DeleteImage supprime un objet image ; l'échec est loggué, jamais bloquant
func DeleteImage(ctx context.Context, objectName string) {
	if database.MinIO == nil || objectName == "" {
		return
	}
	if err := database.MinIO.RemoveObject(ctx, bucket(), objectName, minio.RemoveObjectOptions{}); err != nil {
		log.Printf("⚠️ Suppression MinIO échouée pour %s : %v", objectName, err)
		return
	}
	log.Printf("🗑️ Image supprimée de MinIO : %s", objectName)
}

// ImageURL construit l'URL publique d'un objet image
func ImageURL(objectName string) string {
	if objectName == "" {
		return ""
	}
	scheme := "http"
	if os.Getenv("MINIO_USE_SSL") == "true" {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/%s/%s", scheme, os.Getenv("MINIO_ENDPOINT"), bucket(), objectName)
}

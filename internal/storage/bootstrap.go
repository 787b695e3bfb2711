package storage

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/iam"
	gcs "cloud.google.com/go/storage"
	"go.uber.org/zap"
)

const objectViewerRole iam.RoleName = "roles/storage.objectViewer"

// bucketCORS - браузеры клиентов читают картинки напрямую из бакета.
var bucketCORS = []gcs.CORS{{
	Origins:         []string{"*"},
	Methods:         []string{"GET", "HEAD", "OPTIONS"},
	ResponseHeaders: []string{"Content-Type"},
	MaxAge:          time.Hour,
}}

// ConfigureBucket включает uniform bucket-level access, выдает allUsers роль
// objectViewer и выставляет CORS. Повторный запуск не дублирует привязку.
func ConfigureBucket(ctx context.Context, client *gcs.Client, bucketName string, logger *zap.Logger) error {
	log := logger.Named("BucketBootstrap").With(zap.String("bucket", bucketName))
	bucket := client.Bucket(bucketName)

	_, err := bucket.Update(ctx, gcs.BucketAttrsToUpdate{
		UniformBucketLevelAccess: &gcs.UniformBucketLevelAccess{Enabled: true},
		PublicAccessPrevention:   gcs.PublicAccessPreventionInherited,
		CORS:                     bucketCORS,
	})
	if err != nil {
		return fmt.Errorf("update bucket attrs: %w", err)
	}
	log.Info("Bucket access and CORS configured")

	handle := bucket.IAM()
	policy, err := handle.Policy(ctx)
	if err != nil {
		return fmt.Errorf("get bucket IAM policy: %w", err)
	}
	if policy.HasRole(iam.AllUsers, objectViewerRole) {
		log.Debug("Public read binding already present")
		return nil
	}
	policy.Add(iam.AllUsers, objectViewerRole)
	if err := handle.SetPolicy(ctx, policy); err != nil {
		return fmt.Errorf("set bucket IAM policy: %w", err)
	}
	log.Info("Public read binding added", zap.String("role", string(objectViewerRole)))
	return nil
}

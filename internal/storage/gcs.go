package storage

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	gcs "cloud.google.com/go/storage"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

const publicBaseURL = "https://storage.googleapis.com"

// GCSStore реализует BlobStore поверх бакета Google Cloud Storage.
type GCSStore struct {
	bucket     *gcs.BucketHandle
	bucketName string
	publicACL  bool
	logger     *zap.Logger
}

var _ BlobStore = (*GCSStore)(nil)

// ClientOptions строит опции клиента из значения GOOGLE_APPLICATION_CREDENTIALS
// (inline JSON, путь к файлу или пусто для Application Default Credentials)
// и GCS_PROJECT_ID, который становится quota project запросов.
func ClientOptions(credentials, projectID string) []option.ClientOption {
	var opts []option.ClientOption
	credentials = strings.TrimSpace(credentials)
	switch {
	case credentials == "":
	case strings.HasPrefix(credentials, "{"):
		opts = append(opts, option.WithCredentialsJSON([]byte(credentials)))
	default:
		opts = append(opts, option.WithCredentialsFile(credentials))
	}
	if projectID = strings.TrimSpace(projectID); projectID != "" {
		opts = append(opts, option.WithQuotaProject(projectID))
	}
	return opts
}

// NewGCSStore создает хранилище над бакетом bucketName.
// publicACL включает predefined ACL publicRead для бакетов без uniform access.
func NewGCSStore(client *gcs.Client, bucketName string, publicACL bool, logger *zap.Logger) (*GCSStore, error) {
	if client == nil {
		return nil, errors.New("storage client is nil")
	}
	if bucketName == "" {
		return nil, errors.New("bucket name is empty")
	}
	return &GCSStore{
		bucket:     client.Bucket(bucketName),
		bucketName: bucketName,
		publicACL:  publicACL,
		logger:     logger.Named("GCSStore"),
	}, nil
}

// Exists проверяет наличие объекта через запрос его атрибутов.
func (s *GCSStore) Exists(ctx context.Context, path string) (bool, error) {
	_, err := s.bucket.Object(path).Attrs(ctx)
	if errors.Is(err, gcs.ErrObjectNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: attrs %s: %v", ErrBackend, path, err)
	}
	return true, nil
}

// Write загружает data одним запросом.
func (s *GCSStore) Write(ctx context.Context, path string, data []byte, contentType string) error {
	w := s.bucket.Object(path).NewWriter(ctx)
	w.ContentType = contentType
	// Объект целиком в памяти, одного чанка достаточно.
	w.ChunkSize = 0
	if s.publicACL {
		w.PredefinedACL = "publicRead"
	}

	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return fmt.Errorf("%w: write %s: %v", ErrBackend, path, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("%w: close %s: %v", ErrBackend, path, err)
	}
	s.logger.Debug("Object written", zap.String("path", path), zap.Int("size_bytes", len(data)))
	return nil
}

// PublicURL возвращает https://storage.googleapis.com/<bucket>/<path>.
func (s *GCSStore) PublicURL(path string) string {
	return PublicURL(s.bucketName, path)
}

// Ping запрашивает атрибуты бакета.
func (s *GCSStore) Ping(ctx context.Context) error {
	if _, err := s.bucket.Attrs(ctx); err != nil {
		return fmt.Errorf("%w: bucket %s: %v", ErrBackend, s.bucketName, err)
	}
	return nil
}

// PublicURL строит публичный URL объекта. Сегменты пути экранируются, слэши сохраняются.
func PublicURL(bucketName, path string) string {
	segments := strings.Split(path, "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	return publicBaseURL + "/" + bucketName + "/" + strings.Join(segments, "/")
}

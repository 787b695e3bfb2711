// Package imagecache - контентно-адресуемый кэш сгенерированных изображений поверх BlobStore.
package imagecache

import (
	"context"
	"errors"
	"fmt"
	"path"

	"go.uber.org/zap"

	"story-relay/internal/cachekey"
	"story-relay/internal/storage"
)

// ContentType всех объектов кэша.
const ContentType = "image/jpeg"

// ErrStoreFailed - изображение не удалось сохранить в хранилище.
var ErrStoreFailed = errors.New("image cache store failed")

// Cache - кэш "промпт -> публичный URL изображения".
// Единственный компонент, который пишет в блоб-хранилище.
type Cache struct {
	store   storage.BlobStore
	deriver *cachekey.Deriver
	folder  string
	memo    URLMemo
	logger  *zap.Logger
}

// Option настраивает Cache.
type Option func(*Cache)

// WithMemo добавляет быстрый слой запоминания URL перед хранилищем.
func WithMemo(memo URLMemo) Option {
	return func(c *Cache) { c.memo = memo }
}

// WithDeriver заменяет алгоритм вывода ключей (по умолчанию MD5).
func WithDeriver(d *cachekey.Deriver) Option {
	return func(c *Cache) { c.deriver = d }
}

// New создает кэш, кладущий объекты в folder.
func New(store storage.BlobStore, folder string, logger *zap.Logger, opts ...Option) *Cache {
	d, _ := cachekey.NewDeriver(cachekey.MD5)
	c := &Cache{
		store:   store,
		deriver: d,
		folder:  folder,
		memo:    noopMemo{},
		logger:  logger.Named("ImageCache"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ObjectPath возвращает путь объекта для prompt: <folder>/<key>.jpg.
func (c *Cache) ObjectPath(prompt string) string {
	return path.Join(c.folder, c.deriver.Derive(prompt).String()+".jpg")
}

// Lookup возвращает URL изображения для prompt, если оно уже есть в хранилище.
// Ошибки хранилища логируются и считаются промахом.
func (c *Cache) Lookup(ctx context.Context, prompt string) (string, bool) {
	key := c.deriver.Derive(prompt)
	log := c.logger.With(zap.String("cache_key", key.String()))

	if url, ok, err := c.memo.Get(ctx, key); err != nil {
		log.Warn("URL memo lookup failed, falling back to storage", zap.Error(err))
	} else if ok {
		cacheLookupsTotal.WithLabelValues(lookupHit).Inc()
		log.Debug("Image found in URL memo")
		return url, true
	}

	objectPath := c.ObjectPath(prompt)
	exists, err := c.store.Exists(ctx, objectPath)
	if err != nil {
		cacheLookupsTotal.WithLabelValues(lookupError).Inc()
		log.Error("Error checking image cache, treating as miss", zap.String("path", objectPath), zap.Error(err))
		return "", false
	}
	if !exists {
		cacheLookupsTotal.WithLabelValues(lookupMiss).Inc()
		log.Debug("Image not found in cache", zap.String("path", objectPath))
		return "", false
	}

	url := c.store.PublicURL(objectPath)
	cacheLookupsTotal.WithLabelValues(lookupHit).Inc()
	log.Info("Image found in storage", zap.String("url", url))
	c.remember(ctx, key, url)
	return url, true
}

// Store сохраняет data под ключом prompt и возвращает публичный URL.
// Повторный вызов перезаписывает тот же объект.
func (c *Cache) Store(ctx context.Context, prompt string, data []byte) (string, error) {
	key := c.deriver.Derive(prompt)
	objectPath := c.ObjectPath(prompt)
	log := c.logger.With(zap.String("cache_key", key.String()), zap.String("path", objectPath))

	if err := c.store.Write(ctx, objectPath, data, ContentType); err != nil {
		cacheStoresTotal.WithLabelValues("error").Inc()
		log.Error("Error saving image to cache", zap.Error(err))
		return "", fmt.Errorf("%w: %v", ErrStoreFailed, err)
	}

	url := c.store.PublicURL(objectPath)
	cacheStoresTotal.WithLabelValues("success").Inc()
	log.Info("Image saved to storage", zap.String("url", url), zap.Int("size_bytes", len(data)))
	c.remember(ctx, key, url)
	return url, nil
}

func (c *Cache) remember(ctx context.Context, key cachekey.Key, url string) {
	if err := c.memo.Set(ctx, key, url); err != nil {
		c.logger.Warn("Failed to remember image URL", zap.String("cache_key", key.String()), zap.Error(err))
	}
}

// Package storage - доступ к публичному блоб-хранилищу (Google Cloud Storage).
package storage

import (
	"context"
	"errors"
)

// ErrBackend - общая ошибка обращения к хранилищу.
var ErrBackend = errors.New("blob backend error")

// BlobStore - хранилище объектов, адресуемых путем.
// Все записанные объекты доступны на чтение анонимно по PublicURL.
type BlobStore interface {
	// Exists проверяет наличие объекта по пути.
	Exists(ctx context.Context, path string) (bool, error)
	// Write записывает (или перезаписывает) объект и делает его публично читаемым.
	Write(ctx context.Context, path string, data []byte, contentType string) error
	// PublicURL возвращает публичный URL объекта. Не обращается к сети.
	PublicURL(path string) string
	// Ping проверяет доступность хранилища.
	Ping(ctx context.Context) error
}

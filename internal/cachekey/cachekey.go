// Package cachekey выводит стабильные ключи кэша из текста промпта.
package cachekey

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"hash"

	"golang.org/x/crypto/blake2b"
)

// Key - hex-дайджест промпта, используется как имя объекта в бакете.
type Key string

func (k Key) String() string { return string(k) }

// Algorithm определяет хеш-функцию, из которой выводятся ключи.
type Algorithm string

const (
	// MD5 совместим с объектами, уже записанными в бакет.
	MD5 Algorithm = "md5"
	// BLAKE2b128 дает ключ той же длины (32 hex-символа).
	BLAKE2b128 Algorithm = "blake2b"
)

// Deriver превращает промпт в Key. Безопасен для конкурентного использования.
type Deriver struct {
	newHash func() hash.Hash
}

// NewDeriver создает Deriver для алгоритма algo.
func NewDeriver(algo Algorithm) (*Deriver, error) {
	switch algo {
	case MD5, "":
		return &Deriver{newHash: md5.New}, nil
	case BLAKE2b128:
		return &Deriver{newHash: func() hash.Hash {
			// Ошибка возможна только при неверном размере или длинном ключе.
			h, _ := blake2b.New(16, nil)
			return h
		}}, nil
	default:
		return nil, fmt.Errorf("unsupported cache key algorithm %q", algo)
	}
}

// Derive возвращает ключ для prompt. Пустая строка тоже дает валидный ключ.
func (d *Deriver) Derive(prompt string) Key {
	h := d.newHash()
	h.Write([]byte(prompt))
	return Key(hex.EncodeToString(h.Sum(nil)))
}

// Derive - MD5-ключ по умолчанию.
func Derive(prompt string) Key {
	sum := md5.Sum([]byte(prompt))
	return Key(hex.EncodeToString(sum[:]))
}

package service

import "errors"

var (
	// ErrInvalidInput - клиент прислал данные, которые нельзя отправлять модели.
	ErrInvalidInput = errors.New("invalid input data")
	// ErrStoryTimeout - генерация сегмента истории не уложилась в отведенное время.
	ErrStoryTimeout = errors.New("request timeout")
)

// Package models - JSON-контракты relay-сервиса.
package models

// ErrorResponse - стандартное тело ответа об ошибке.
type ErrorResponse struct {
	Error string `json:"error"`
}

// StoryEnvelope - тело ответа /generate-story-segment. Response == nil - модель ничего не вернула.
type StoryEnvelope struct {
	Response *StoryResponse `json:"response"`
}

// CharacterEnvelope - тело ответа эндпоинтов деталей персонажа.
type CharacterEnvelope struct {
	Response *CharacterProfile `json:"response"`
}

// StoryRequest - тело POST /generate-story-segment.
type StoryRequest struct {
	Prompt string `json:"prompt" binding:"required"`
}

// CharacterNameRequest - тело POST /generate-character-details-name.
type CharacterNameRequest struct {
	Name string `json:"name" binding:"required"`
}

// HealthResponse - тело ответа /health.
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp string            `json:"timestamp"`
	Services  map[string]string `json:"services,omitempty"`
	Error     string            `json:"error,omitempty"`
}

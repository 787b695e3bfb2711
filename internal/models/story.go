package models

// StoryChoice - вариант действия игрока.
type StoryChoice struct {
	Text         string `json:"text"`
	Impact       string `json:"impact"`
	TensionLevel int    `json:"tension_level"`
}

// StoryState - состояние повествования, которое модель возвращает на каждый сегмент.
// Значения не ограничиваются: пустые строки и отрицательное напряжение допустимы,
// проверяется только наличие полей (см. schemas).
type StoryState struct {
	Location            string   `json:"location"`
	NewLocation         bool     `json:"new_location"`
	LocationDescription string   `json:"location_description"`
	ActivePlotThreads   []string `json:"active_plot_threads"`
	UnresolvedElements  []string `json:"unresolved_elements"`
	StoryPhase          string   `json:"story_phase"`
	EmotionalTone       string   `json:"emotional_tone"`
	CurrentTension      int      `json:"current_tension"`
}

// StoryImage - изображение локации, прикрепляемое к ответу.
type StoryImage struct {
	URL         string `json:"url"`
	Description string `json:"description"`
}

// StoryResponse - сегмент истории в том виде, в каком он уходит клиенту.
type StoryResponse struct {
	Text           string        `json:"text"`
	Choices        []StoryChoice `json:"choices"`
	CurrentTension int           `json:"current_tension"`
	StoryState     StoryState    `json:"story_state"`
	// StoryImages заполняется relay-сервисом, модель его не формирует.
	StoryImages []StoryImage `json:"story_images"`
	StoryOver   bool         `json:"story_over"`
}

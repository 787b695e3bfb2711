package models

// CharacterProfile - сведения о реальном или известном персонаже.
// Age - указатель: отсутствующий возраст не должен превращаться в 0.
type CharacterProfile struct {
	Name        string   `json:"name" validate:"required"`
	Age         *int     `json:"age" validate:"required,gte=0"`
	Personality []string `json:"personality" validate:"required,dive,required"`
	Occupation  string   `json:"occupation" validate:"required"`
	Gender      string   `json:"gender" validate:"required"`
}

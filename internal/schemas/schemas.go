// Package schemas - контракты структурированной генерации: схема, которую получает
// модель, и проверка того, что она вернула.
package schemas

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"
	"google.golang.org/genai"

	"story-relay/internal/models"
)

// ErrMalformedOutput - ответ модели не соответствует контракту.
var ErrMalformedOutput = errors.New("model output does not match schema")

var validate = validator.New(validator.WithRequiredStructEnabled())

func str(desc string) *genai.Schema {
	return &genai.Schema{Type: genai.TypeString, Description: desc}
}

func integer(desc string) *genai.Schema {
	return &genai.Schema{Type: genai.TypeInteger, Description: desc}
}

func boolean(desc string) *genai.Schema {
	return &genai.Schema{Type: genai.TypeBoolean, Description: desc}
}

func stringList(desc, itemDesc string) *genai.Schema {
	return &genai.Schema{Type: genai.TypeArray, Description: desc, Items: str(itemDesc)}
}

// StoryStateSchema описывает models.StoryState.
func StoryStateSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"location":             str("current location"),
			"new_location":         boolean("true when the story moved to a new location in this segment"),
			"location_description": str("visual description of the current location"),
			"active_plot_threads":  stringList("active plot threads", "plot thread"),
			"unresolved_elements":  stringList("unresolved story elements", "unresolved element"),
			"story_phase":          str("current story phase"),
			"emotional_tone":       str("current emotional tone"),
			"current_tension":      integer("current tension level"),
		},
		Required: []string{
			"location", "new_location", "location_description", "active_plot_threads",
			"unresolved_elements", "story_phase", "emotional_tone", "current_tension",
		},
	}
}

// StoryResponseSchema описывает сегмент истории. story_images сюда не входит: его заполняет сервис.
func StoryResponseSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"text": str("story text"),
			"choices": {
				Type:        genai.TypeArray,
				Description: "available choices",
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"text":          str("choice text"),
						"impact":        str("choice impact"),
						"tension_level": integer("tension level"),
					},
					Required: []string{"text", "impact", "tension_level"},
				},
			},
			"current_tension": integer("current tension level"),
			"story_state":     StoryStateSchema(),
			"story_over":      boolean("indicates if story is over"),
		},
		Required: []string{"text", "choices", "current_tension", "story_state", "story_over"},
	}
}

// CharacterResponseSchema описывает models.CharacterProfile. Все поля обязательны.
func CharacterResponseSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"name":        str("name of character"),
			"age":         integer("integer age of character"),
			"personality": stringList("list of personality traits of character", "personality trait, format should be 1 word 1 emoji"),
			"occupation":  str("character's job"),
			"gender":      str("Male, Female, Non Binary"),
		},
		Required: []string{"name", "age", "personality", "occupation", "gender"},
	}
}

// DecodeStory разбирает и проверяет сегмент истории.
func DecodeStory(text string) (*models.StoryResponse, error) {
	var story models.StoryResponse
	if err := decode(text, StoryResponseSchema(), &story); err != nil {
		return nil, err
	}
	return &story, nil
}

// DecodeCharacter разбирает профиль персонажа. Литерал null (персонаж неизвестен) дает (nil, nil).
func DecodeCharacter(text string) (*models.CharacterProfile, error) {
	if isNull(text) {
		return nil, nil
	}
	var profile models.CharacterProfile
	if err := decode(text, CharacterResponseSchema(), &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

func isNull(text string) bool {
	return strings.TrimSpace(text) == "null"
}

func decode(text string, schema *genai.Schema, out any) error {
	raw := bytes.TrimSpace([]byte(stripCodeFence(text)))
	if len(raw) == 0 {
		return fmt.Errorf("%w: empty output", ErrMalformedOutput)
	}
	if err := checkRequired(raw, schema, ""); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedOutput, err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedOutput, err)
	}
	if err := validate.Struct(out); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedOutput, err)
	}
	return nil
}

// checkRequired проверяет, что все поля из schema.Required присутствуют и не равны null,
// рекурсивно для вложенных объектов и элементов массивов. Типы проверяет json.Unmarshal.
func checkRequired(raw json.RawMessage, schema *genai.Schema, path string) error {
	if schema == nil {
		return nil
	}
	switch schema.Type {
	case genai.TypeObject:
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(raw, &obj); err != nil {
			return fmt.Errorf("%s: %v", fieldPath(path, ""), err)
		}
		for _, name := range schema.Required {
			if value, ok := obj[name]; !ok || isNull(string(value)) {
				return fmt.Errorf("%s: required field is missing", fieldPath(path, name))
			}
		}
		for _, name := range slices.Sorted(maps.Keys(schema.Properties)) {
			value, ok := obj[name]
			if !ok || isNull(string(value)) {
				continue
			}
			if err := checkRequired(value, schema.Properties[name], fieldPath(path, name)); err != nil {
				return err
			}
		}
	case genai.TypeArray:
		var items []json.RawMessage
		if err := json.Unmarshal(raw, &items); err != nil {
			return fmt.Errorf("%s: %v", fieldPath(path, ""), err)
		}
		for i, item := range items {
			if err := checkRequired(item, schema.Items, fmt.Sprintf("%s[%d]", path, i)); err != nil {
				return err
			}
		}
	}
	return nil
}

func fieldPath(parent, name string) string {
	switch {
	case parent == "" && name == "":
		return "$"
	case parent == "":
		return name
	case name == "":
		return parent
	}
	return parent + "." + name
}

// stripCodeFence снимает ```json ... ```, если модель обернула ответ в markdown.
func stripCodeFence(text string) string {
	t := strings.TrimSpace(text)
	if !strings.HasPrefix(t, "```") {
		return t
	}
	t = strings.TrimPrefix(t, "```")
	if i := strings.IndexByte(t, '\n'); i >= 0 {
		t = t[i+1:]
	}
	return strings.TrimSuffix(strings.TrimSpace(t), "```")
}

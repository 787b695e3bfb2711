package service_test

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"story-relay/internal/ai"
	"story-relay/internal/mocks"
	"story-relay/internal/service"
)

const sherlockJSON = `{"name": "Sherlock Holmes", "age": 35, "personality": ["smart 🤓", "aloof 🧊"], "occupation": "Detective 🔍", "gender": "Male"}`

func pngBytes(t *testing.T) []byte {
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 4, 4))))
	return buf.Bytes()
}

func TestCharacterService_DetailsFromName(t *testing.T) {
	text := mocks.NewMockTextGenerator(t)
	svc := service.NewCharacterService(text, zap.NewNop())

	text.On("GenerateStructured", mock.Anything, mock.MatchedBy(func(req ai.TextRequest) bool {
		return len(req.Parts) == 2 &&
			strings.Contains(req.Parts[0].Text, "DO NOT HALLUCINATE") &&
			req.Parts[1].Text == "Character Name: Sherlock Holmes" &&
			req.Schema != nil
	})).Return(sherlockJSON, nil).Once()

	profile, err := svc.DetailsFromName(context.Background(), "Sherlock Holmes")
	require.NoError(t, err)
	require.NotNil(t, profile)
	assert.Equal(t, "Sherlock Holmes", profile.Name)
	require.NotNil(t, profile.Age)
	assert.Equal(t, 35, *profile.Age)
	assert.Equal(t, "Male", profile.Gender)
}

func TestCharacterService_UnknownCharacterIsNil(t *testing.T) {
	for name, output := range map[string]string{
		"null literal": "null",
		"empty":        "",
		"garbage":      "I don't know this person.",
		"incomplete":   `{"name": "Zorblax", "age": 3}`,
		"missing age":  `{"name": "Zorblax", "personality": ["odd 🤔"], "occupation": "Wizard 🧙", "gender": "Male"}`,
	} {
		t.Run(name, func(t *testing.T) {
			text := mocks.NewMockTextGenerator(t)
			svc := service.NewCharacterService(text, zap.NewNop())
			text.On("GenerateStructured", mock.Anything, mock.Anything).Return(output, nil).Once()

			profile, err := svc.DetailsFromName(context.Background(), "Zorblax the Unverifiable")
			assert.NoError(t, err)
			assert.Nil(t, profile)
		})
	}
}

func TestCharacterService_ModelErrorPropagates(t *testing.T) {
	text := mocks.NewMockTextGenerator(t)
	svc := service.NewCharacterService(text, zap.NewNop())
	text.On("GenerateStructured", mock.Anything, mock.Anything).Return("", ai.ErrGenerationFailed).Once()

	_, err := svc.DetailsFromName(context.Background(), "Sherlock Holmes")
	assert.ErrorIs(t, err, ai.ErrGenerationFailed)
}

func TestCharacterService_InvalidImageNeverReachesModel(t *testing.T) {
	text := mocks.NewMockTextGenerator(t)
	svc := service.NewCharacterService(text, zap.NewNop())

	profile, err := svc.DetailsFromImage(context.Background(), []byte("not an image at all"))
	assert.ErrorIs(t, err, service.ErrInvalidInput)
	assert.Nil(t, profile)

	_, err = svc.DetailsFromImage(context.Background(), nil)
	assert.ErrorIs(t, err, service.ErrInvalidInput)

	text.AssertNotCalled(t, "GenerateStructured", mock.Anything, mock.Anything)
}

func TestCharacterService_DetailsFromImageSendsInlineData(t *testing.T) {
	text := mocks.NewMockTextGenerator(t)
	svc := service.NewCharacterService(text, zap.NewNop())
	img := pngBytes(t)

	text.On("GenerateStructured", mock.Anything, mock.MatchedBy(func(req ai.TextRequest) bool {
		return len(req.Parts) == 2 &&
			strings.Contains(req.Parts[0].Text, "Analyze the following image") &&
			bytes.Equal(req.Parts[1].Data, img) &&
			req.Parts[1].MIMEType == "image/png"
	})).Return(sherlockJSON, nil).Once()

	profile, err := svc.DetailsFromImage(context.Background(), img)
	require.NoError(t, err)
	assert.Equal(t, "Sherlock Holmes", profile.Name)
}

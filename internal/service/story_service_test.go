package service_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"story-relay/internal/ai"
	"story-relay/internal/mocks"
	"story-relay/internal/service"
)

func storyJSON(newLocation bool, description string) string {
	return fmt.Sprintf(`{
		"text": "The ferry docks as the fog lifts.",
		"choices": [{"text": "Walk to the lighthouse", "impact": "reveals the keeper", "tension_level": 3}],
		"current_tension": 4,
		"story_state": {
			"location": "harbor",
			"new_location": %t,
			"location_description": %q,
			"active_plot_threads": ["missing keeper"],
			"unresolved_elements": [],
			"story_phase": "rising action",
			"emotional_tone": "uneasy",
			"current_tension": 4
		},
		"story_over": false
	}`, newLocation, description)
}

func storyRequest(prompt string) interface{} {
	return mock.MatchedBy(func(req ai.TextRequest) bool {
		return len(req.Parts) == 1 && req.Parts[0].Text == prompt && req.Schema != nil
	})
}

func TestStoryService_NoNewLocationHasNoImages(t *testing.T) {
	text := mocks.NewMockTextGenerator(t)
	cache := mocks.NewMockImageCache(t)
	gen := mocks.NewMockImageGenerator(t)
	svc := service.NewStoryService(text, service.NewImageResolver(cache, gen, "", zap.NewNop()), time.Minute, zap.NewNop())

	text.On("GenerateStructured", mock.Anything, storyRequest("continue")).Return(storyJSON(false, harbor), nil).Once()

	story, err := svc.GenerateSegment(context.Background(), "continue")
	require.NoError(t, err)
	require.NotNil(t, story)
	assert.NotNil(t, story.StoryImages)
	assert.Empty(t, story.StoryImages)
	cache.AssertNotCalled(t, "Lookup", mock.Anything, mock.Anything)
}

func TestStoryService_NewLocationWithEmptyCacheAttachesOneImage(t *testing.T) {
	text := mocks.NewMockTextGenerator(t)
	cache := mocks.NewMockImageCache(t)
	gen := mocks.NewMockImageGenerator(t)
	svc := service.NewStoryService(text, service.NewImageResolver(cache, gen, "", zap.NewNop()), time.Minute, zap.NewNop())

	text.On("GenerateStructured", mock.Anything, storyRequest("continue")).Return(storyJSON(true, harbor), nil).Once()
	cache.On("Lookup", mock.Anything, harbor).Return("", false).Once()
	gen.On("GenerateImage", mock.Anything, service.LocationImagePrompt(harbor), "3:4").Return(jpegBytes, nil).Once()
	cache.On("Store", mock.Anything, harbor, jpegBytes).Return(harborURL, nil).Once()

	story, err := svc.GenerateSegment(context.Background(), "continue")
	require.NoError(t, err)
	require.Len(t, story.StoryImages, 1)
	assert.Equal(t, harbor, story.StoryImages[0].Description)
	assert.NotEmpty(t, story.StoryImages[0].URL)
}

func TestStoryService_ImageFailureDoesNotFailSegment(t *testing.T) {
	text := mocks.NewMockTextGenerator(t)
	cache := mocks.NewMockImageCache(t)
	gen := mocks.NewMockImageGenerator(t)
	svc := service.NewStoryService(text, service.NewImageResolver(cache, gen, "", zap.NewNop()), time.Minute, zap.NewNop())

	text.On("GenerateStructured", mock.Anything, mock.Anything).Return(storyJSON(true, harbor), nil).Once()
	cache.On("Lookup", mock.Anything, harbor).Return("", false).Once()
	gen.On("GenerateImage", mock.Anything, mock.Anything, mock.Anything).Return(nil, errors.New("quota exceeded")).Once()

	story, err := svc.GenerateSegment(context.Background(), "continue")
	require.NoError(t, err)
	require.NotNil(t, story)
	assert.Empty(t, story.StoryImages)
}

func TestStoryService_NewLocationWithoutDescriptionKeepsSegment(t *testing.T) {
	for name, description := range map[string]string{"empty": "", "blank": "   "} {
		t.Run(name, func(t *testing.T) {
			text := mocks.NewMockTextGenerator(t)
			cache := mocks.NewMockImageCache(t)
			gen := mocks.NewMockImageGenerator(t)
			svc := service.NewStoryService(text, service.NewImageResolver(cache, gen, "", zap.NewNop()), time.Minute, zap.NewNop())

			text.On("GenerateStructured", mock.Anything, mock.Anything).Return(storyJSON(true, description), nil).Once()

			story, err := svc.GenerateSegment(context.Background(), "continue")
			require.NoError(t, err)
			require.NotNil(t, story)
			assert.True(t, story.StoryState.NewLocation)
			assert.NotNil(t, story.StoryImages)
			assert.Empty(t, story.StoryImages)
			cache.AssertNotCalled(t, "Lookup", mock.Anything, mock.Anything)
			gen.AssertNotCalled(t, "GenerateImage", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestStoryService_EmptyOrMalformedOutputIsNilResponse(t *testing.T) {
	for name, output := range map[string]string{
		"empty":     "",
		"malformed": "{not json",
		"missing fields": `{"text": "", "choices": [], "current_tension": 1, "story_state": {"location": "a"}, "story_over": false}`,
	} {
		t.Run(name, func(t *testing.T) {
			text := mocks.NewMockTextGenerator(t)
			images := mocks.NewMockImageCache(t)
			svc := service.NewStoryService(text, service.NewImageResolver(images, mocks.NewMockImageGenerator(t), "", zap.NewNop()), time.Minute, zap.NewNop())

			text.On("GenerateStructured", mock.Anything, mock.Anything).Return(output, nil).Once()

			story, err := svc.GenerateSegment(context.Background(), "continue")
			assert.NoError(t, err)
			assert.Nil(t, story)
		})
	}
}

func TestStoryService_ModelErrorPropagates(t *testing.T) {
	text := mocks.NewMockTextGenerator(t)
	svc := service.NewStoryService(text, nil, time.Minute, zap.NewNop())

	text.On("GenerateStructured", mock.Anything, mock.Anything).Return("", ai.ErrGenerationFailed).Once()

	story, err := svc.GenerateSegment(context.Background(), "continue")
	assert.ErrorIs(t, err, ai.ErrGenerationFailed)
	assert.Nil(t, story)
}

func TestStoryService_Timeout(t *testing.T) {
	text := mocks.NewMockTextGenerator(t)
	svc := service.NewStoryService(text, nil, 20*time.Millisecond, zap.NewNop())

	text.On("GenerateStructured", mock.Anything, mock.Anything).Return(
		func(ctx context.Context, _ ai.TextRequest) string {
			<-ctx.Done()
			return ""
		},
		func(ctx context.Context, _ ai.TextRequest) error {
			return ctx.Err()
		},
	).Once()

	story, err := svc.GenerateSegment(context.Background(), "continue")
	assert.ErrorIs(t, err, service.ErrStoryTimeout)
	assert.Nil(t, story)
}

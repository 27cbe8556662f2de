package mocks

import (
	"context"

	"story-time-client/internal/client"
	"story-time-client/internal/models"

	"github.com/stretchr/testify/mock"
)

// Mock StoryAPI
type StoryAPI struct {
	mock.Mock
}

func (m *StoryAPI) CreateStory(ctx context.Context, req models.CreateStoryRequest) client.Result[models.GenerateStoryResponse] {
	args := m.Called(ctx, req)
	return args.Get(0).(client.Result[models.GenerateStoryResponse])
}

func (m *StoryAPI) ListStories(ctx context.Context, params models.ListStoriesParams) client.Result[models.StoryListResponse] {
	args := m.Called(ctx, params)
	return args.Get(0).(client.Result[models.StoryListResponse])
}

func (m *StoryAPI) GetStory(ctx context.Context, id string) client.Result[models.Story] {
	args := m.Called(ctx, id)
	return args.Get(0).(client.Result[models.Story])
}

func (m *StoryAPI) UpdateStory(ctx context.Context, id string, req models.UpdateStoryRequest) client.Result[models.Story] {
	args := m.Called(ctx, id, req)
	return args.Get(0).(client.Result[models.Story])
}

func (m *StoryAPI) DeleteStory(ctx context.Context, id string) client.Result[struct{}] {
	args := m.Called(ctx, id)
	return args.Get(0).(client.Result[struct{}])
}

func (m *StoryAPI) RegenerateStory(ctx context.Context, id string, req models.RegenerateStoryRequest) client.Result[models.RegenerateResponse] {
	args := m.Called(ctx, id, req)
	return args.Get(0).(client.Result[models.RegenerateResponse])
}

func (m *StoryAPI) GenerateAudioPreview(ctx context.Context, id string, req models.GenerateAudioRequest) client.Result[models.AudioResponse] {
	args := m.Called(ctx, id, req)
	return args.Get(0).(client.Result[models.AudioResponse])
}

func (m *StoryAPI) GenerateFullAudio(ctx context.Context, id string, req models.GenerateAudioRequest) client.Result[models.AudioResponse] {
	args := m.Called(ctx, id, req)
	return args.Get(0).(client.Result[models.AudioResponse])
}

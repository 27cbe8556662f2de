package wizard_test

import (
	"context"
	"testing"

	"story-time-client/internal/client"
	"story-time-client/internal/client/mocks"
	"story-time-client/internal/models"
	"story-time-client/internal/wizard"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCanProceedStyleStep(t *testing.T) {
	testCases := []struct {
		name     string
		tone     string
		style    string
		expected bool
	}{
		{name: "Both empty", tone: "", style: "", expected: false},
		{name: "Tone only", tone: "magical", style: "", expected: false},
		{name: "Style only", tone: "", style: "fantasy", expected: false},
		{name: "Both set", tone: "magical", style: "fantasy", expected: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w := wizard.New(new(mocks.StoryAPI), nil)
			w.SetTone(tc.tone)
			w.SetStyle(tc.style)
			assert.Equal(t, tc.expected, w.CanProceed())
		})
	}
}

// TestCanProceedDetailsStep: граница длины промпта строгая - ровно 10 символов
// после trim недостаточно.
func TestCanProceedDetailsStep(t *testing.T) {
	testCases := []struct {
		name     string
		prompt   string
		expected bool
	}{
		{name: "Empty", prompt: "", expected: false},
		{name: "Exactly 10 characters", prompt: "1234567890", expected: false},
		{name: "11 characters", prompt: "12345678901", expected: true},
		{name: "Whitespace does not count", prompt: "  1234567890   ", expected: false},
		{name: "Real prompt", prompt: "a dragon who sneezes stars", expected: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w := newWizardOnDetailsStep(t)
			w.SetPrompt(tc.prompt)
			assert.Equal(t, tc.expected, w.CanProceed())
		})
	}
}

// newWizardOnDetailsStep проходит первый шаг валидной формой.
func newWizardOnDetailsStep(t *testing.T) *wizard.Wizard {
	t.Helper()
	w := wizard.New(new(mocks.StoryAPI), nil)
	w.SetTone("magical")
	w.SetStyle("fantasy")
	require.NoError(t, w.Next())
	require.Equal(t, wizard.StepDetails, w.Step())
	return w
}

func newWizardOnGenerateStep(t *testing.T, api client.StoryAPI) *wizard.Wizard {
	t.Helper()
	w := wizard.New(api, nil)
	w.SetTone("magical")
	w.SetStyle("fantasy")
	require.NoError(t, w.Next())
	w.SetPrompt("a dragon who sneezes stars")
	require.NoError(t, w.Next())
	require.Equal(t, wizard.StepGenerate, w.Step())
	return w
}

func TestNextGuardFailures(t *testing.T) {
	t.Run("Blocked on style step", func(t *testing.T) {
		w := wizard.New(new(mocks.StoryAPI), nil)
		assert.ErrorIs(t, w.Next(), models.ErrStepGuardFailed)
		assert.Equal(t, wizard.StepStyleSelect, w.Step())
	})

	t.Run("Blocked on details step", func(t *testing.T) {
		w := newWizardOnDetailsStep(t)
		w.SetPrompt("short")
		assert.ErrorIs(t, w.Next(), models.ErrStepGuardFailed)
		assert.Equal(t, wizard.StepDetails, w.Step())
	})

	t.Run("No step past generate", func(t *testing.T) {
		w := newWizardOnGenerateStep(t, new(mocks.StoryAPI))
		assert.ErrorIs(t, w.Next(), models.ErrStepGuardFailed)
	})
}

// TestBackPreservesForm: возврат назад не стирает введенные данные.
func TestBackPreservesForm(t *testing.T) {
	w := newWizardOnDetailsStep(t)
	w.SetPrompt("a dragon who sneezes stars")

	require.NoError(t, w.Back())
	assert.Equal(t, wizard.StepStyleSelect, w.Step())

	form := w.Form()
	assert.Equal(t, "magical", form.Tone)
	assert.Equal(t, "fantasy", form.Style)
	assert.Equal(t, "a dragon who sneezes stars", form.PromptInput)

	// Назад с первого шага - no-op
	require.NoError(t, w.Back())
	assert.Equal(t, wizard.StepStyleSelect, w.Step())
}

func TestGenerateSuccess(t *testing.T) {
	api := new(mocks.StoryAPI)
	api.On("CreateStory", mock.Anything, mock.MatchedBy(func(req models.CreateStoryRequest) bool {
		return req.Tone == "magical" && req.Style == "fantasy" && req.ChildName == "Mia"
	})).Return(client.OK(models.GenerateStoryResponse{
		ID:        "s1",
		Title:     "Mia and the Star Dragon",
		Content:   "Once upon a time...",
		Tone:      "magical",
		Style:     "fantasy",
		ChildName: "Mia",
		WordCount: 4,
	}))

	w := wizard.New(api, nil)
	w.SetTone("magical")
	w.SetStyle("fantasy")
	require.NoError(t, w.Next())
	w.SetPrompt("a dragon who sneezes stars")
	w.SetChildName("Mia")
	require.NoError(t, w.Next())

	story, err := w.Generate(context.Background())
	require.NoError(t, err)
	require.NotNil(t, story)

	// Эндпоинт создания не возвращает временные метки - их синтезирует клиент
	assert.Equal(t, "s1", story.ID)
	assert.Equal(t, models.StatusReady, story.Status)
	assert.False(t, story.CreatedAt.IsZero())
	assert.Equal(t, story.CreatedAt, story.UpdatedAt)

	completed, done := w.Completed()
	assert.True(t, done)
	assert.Equal(t, story, completed)
	assert.False(t, w.IsGenerating())
	api.AssertExpectations(t)
}

func TestGenerateFailure(t *testing.T) {
	api := new(mocks.StoryAPI)
	api.On("CreateStory", mock.Anything, mock.Anything).
		Return(client.Fail[models.GenerateStoryResponse]("Story creation failed"))

	w := newWizardOnGenerateStep(t, api)

	story, err := w.Generate(context.Background())
	assert.Nil(t, story)

	var genErr *wizard.GenerationError
	require.ErrorAs(t, err, &genErr)
	assert.Equal(t, "Story creation failed", genErr.Message)

	// Мастер остается на шаге 3, готовый к повторной попытке
	assert.Equal(t, wizard.StepGenerate, w.Step())
	assert.False(t, w.IsGenerating())
	_, done := w.Completed()
	assert.False(t, done)
}

func TestGenerateRequiresGenerateStep(t *testing.T) {
	w := newWizardOnDetailsStep(t)
	_, err := w.Generate(context.Background())
	assert.ErrorIs(t, err, models.ErrStepGuardFailed)
}

package workshop_test

import (
	"context"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"story-time-client/internal/client"
	"story-time-client/internal/client/mocks"
	"story-time-client/internal/models"
	"story-time-client/internal/workshop"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// Тестовый debounce: достаточно короткий для скорости, достаточно длинный,
// чтобы таймер не сработал между последовательными правками.
const testDebounce = 50 * time.Millisecond

func testStory() models.Story {
	return models.Story{
		ID:      "s1",
		Title:   "A Tale",
		Content: "original text",
		Tone:    "magical",
		Style:   "fantasy",
		Status:  models.StatusReady,
	}
}

func confirmAlways(ctx context.Context, c workshop.Confirmation) bool { return true }
func confirmNever(ctx context.Context, c workshop.Confirmation) bool  { return false }

func newTestSession(t *testing.T, api client.StoryAPI, confirm workshop.ConfirmFunc) *workshop.Session {
	t.Helper()
	s, err := workshop.NewSession(testStory(), api, confirm, testDebounce, nil)
	require.NoError(t, err)
	t.Cleanup(s.Close)
	return s
}

func savedResult(content string) client.Result[models.Story] {
	story := testStory()
	story.Content = content
	story.WordCount = models.CountWords(content)
	return client.OK(story)
}

// TestAutoSaveDebounceCoalescing: серия правок внутри окна дает ровно ОДНО
// сохранение - с финальным текстом.
func TestAutoSaveDebounceCoalescing(t *testing.T) {
	api := new(mocks.StoryAPI)
	api.On("UpdateStory", mock.Anything, "s1", models.UpdateStoryRequest{
		Content: models.StringPtr("version three"),
	}).Return(savedResult("version three")).Once()

	s := newTestSession(t, api, confirmAlways)

	saves := make(chan models.Story, 4)
	s.OnSave = func(st models.Story) { saves <- st }

	s.SetContent("version one")
	time.Sleep(testDebounce / 4)
	s.SetContent("version two")
	time.Sleep(testDebounce / 4)
	s.SetContent("version three")

	select {
	case saved := <-saves:
		assert.Equal(t, "version three", saved.Content)
	case <-time.After(time.Second):
		t.Fatal("auto-save did not fire")
	}

	// Даем время лишним сохранениям, если бы они были
	time.Sleep(3 * testDebounce)
	api.AssertNumberOfCalls(t, "UpdateStory", 1)
	assert.False(t, s.Dirty())
}

// TestAutoSaveInFlightCoalescing: правка во время полета сохранения ставит
// ровно один досейв с АКТУАЛЬНЫМ буфером.
func TestAutoSaveInFlightCoalescing(t *testing.T) {
	api := new(mocks.StoryAPI)

	firstStarted := make(chan struct{})
	var released atomic.Bool

	// Первое сохранение висит, пока тест не внесет правку
	api.On("UpdateStory", mock.Anything, "s1", models.UpdateStoryRequest{
		Content: models.StringPtr("first"),
	}).Run(func(args mock.Arguments) {
		close(firstStarted)
		for !released.Load() {
			time.Sleep(time.Millisecond)
		}
	}).Return(savedResult("first")).Once()

	api.On("UpdateStory", mock.Anything, "s1", models.UpdateStoryRequest{
		Content: models.StringPtr("third"),
	}).Return(savedResult("third")).Once()

	s := newTestSession(t, api, confirmAlways)
	saves := make(chan models.Story, 4)
	s.OnSave = func(st models.Story) { saves <- st }

	s.SetContent("first")

	select {
	case <-firstStarted:
	case <-time.After(time.Second):
		t.Fatal("first save did not start")
	}

	// Две правки во время полета: досейв должен уйти один и с последней
	s.SetContent("second")
	time.Sleep(2 * testDebounce)
	s.SetContent("third")
	time.Sleep(2 * testDebounce)
	released.Store(true)

	for i := 0; i < 2; i++ {
		select {
		case <-saves:
		case <-time.After(time.Second):
			t.Fatalf("expected 2 saves, got %d", i)
		}
	}

	time.Sleep(3 * testDebounce)
	api.AssertExpectations(t)
	api.AssertNumberOfCalls(t, "UpdateStory", 2)
	assert.Equal(t, "third", s.Buffer())
	assert.False(t, s.Dirty())
}

// TestAutoSaveSkipsBlankAndUnchanged: пустой или неизмененный буфер не
// отправляется на сервер.
func TestAutoSaveSkipsBlankAndUnchanged(t *testing.T) {
	api := new(mocks.StoryAPI)
	s := newTestSession(t, api, confirmAlways)

	s.SetContent("   \n\t ")
	time.Sleep(3 * testDebounce)

	s.SetContent("original text") // совпадает с lastSaved
	time.Sleep(3 * testDebounce)

	api.AssertNotCalled(t, "UpdateStory", mock.Anything, mock.Anything, mock.Anything)
}

// TestAutoSaveSilentDegrade: ошибка сохранения не трогает буфер и оставляет
// сессию "грязной" - UI может показать индикатор, пользователь не блокируется.
func TestAutoSaveSilentDegrade(t *testing.T) {
	api := new(mocks.StoryAPI)
	api.On("UpdateStory", mock.Anything, "s1", mock.Anything).
		Return(client.Fail[models.Story]("Story update failed"))

	s := newTestSession(t, api, confirmAlways)
	s.SetContent("new text")
	time.Sleep(3 * testDebounce)

	assert.Equal(t, "new text", s.Buffer())
	assert.True(t, s.Dirty())
	// Состояние истории не подменено неудачным ответом
	assert.Equal(t, "original text", s.Story().Content)
}

func TestRevert(t *testing.T) {
	t.Run("Confirmed revert restores last saved", func(t *testing.T) {
		api := new(mocks.StoryAPI)
		s := newTestSession(t, api, confirmAlways)

		s.SetContent("unsaved edit")
		require.True(t, s.Dirty())

		assert.True(t, s.Revert(context.Background()))
		assert.Equal(t, "original text", s.Buffer())
		assert.False(t, s.Dirty())

		// Отложенное сохранение отменено вместе с правкой
		time.Sleep(3 * testDebounce)
		api.AssertNotCalled(t, "UpdateStory", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Declined revert keeps buffer", func(t *testing.T) {
		s := newTestSession(t, new(mocks.StoryAPI), confirmNever)
		s.SetContent("unsaved edit")

		assert.False(t, s.Revert(context.Background()))
		assert.Equal(t, "unsaved edit", s.Buffer())
	})
}

// TestRevertTargetsLastSuccessfulSave: откат идет к последней УСПЕШНО
// сохраненной версии, а не к исходной серверной.
func TestRevertTargetsLastSuccessfulSave(t *testing.T) {
	api := new(mocks.StoryAPI)
	api.On("UpdateStory", mock.Anything, "s1", mock.Anything).
		Return(savedResult("saved edit")).Once()

	s := newTestSession(t, api, confirmAlways)
	saves := make(chan models.Story, 1)
	s.OnSave = func(st models.Story) { saves <- st }

	s.SetContent("saved edit")
	select {
	case <-saves:
	case <-time.After(time.Second):
		t.Fatal("auto-save did not fire")
	}

	s.SetContent("newer unsaved edit")
	require.True(t, s.Revert(context.Background()))
	assert.Equal(t, "saved edit", s.Buffer())
}

func TestRegenerateAndApplyVariant(t *testing.T) {
	api := new(mocks.StoryAPI)
	api.On("RegenerateStory", mock.Anything, "s1", models.RegenerateStoryRequest{
		RegenerateOption: models.RegenerateFunny,
	}).Return(client.OK(models.RegenerateResponse{
		GenerationID: "g1",
		Variant:      "a funnier take",
	})).Once()
	api.On("UpdateStory", mock.Anything, "s1", models.UpdateStoryRequest{
		Content: models.StringPtr("a funnier take"),
	}).Return(savedResult("a funnier take")).Once()

	s := newTestSession(t, api, confirmAlways)
	saves := make(chan models.Story, 1)
	s.OnSave = func(st models.Story) { saves <- st }

	variant, err := s.Regenerate(context.Background(), models.RegenerateFunny)
	require.NoError(t, err)
	assert.Equal(t, "a funnier take", variant)

	selected, ok := s.SelectedVariant()
	require.True(t, ok)
	assert.Equal(t, "a funnier take", selected)
	assert.Equal(t, []string{"a funnier take"}, s.Variants())

	// Применение варианта: буфер подменен, слот очищен, сработает автосейв
	require.NoError(t, s.ApplyVariant())
	assert.Equal(t, "a funnier take", s.Buffer())
	_, ok = s.SelectedVariant()
	assert.False(t, ok)

	select {
	case <-saves:
	case <-time.After(time.Second):
		t.Fatal("auto-save after ApplyVariant did not fire")
	}
	api.AssertExpectations(t)
}

func TestApplyVariantWithoutSelection(t *testing.T) {
	s := newTestSession(t, new(mocks.StoryAPI), confirmAlways)
	assert.ErrorIs(t, s.ApplyVariant(), models.ErrNoVariantSelected)
}

func TestDiscardVariantKeepsBuffer(t *testing.T) {
	api := new(mocks.StoryAPI)
	api.On("RegenerateStory", mock.Anything, "s1", mock.Anything).
		Return(client.OK(models.RegenerateResponse{Variant: "candidate"}))

	s := newTestSession(t, api, confirmAlways)
	_, err := s.Regenerate(context.Background(), models.RegenerateShorter)
	require.NoError(t, err)

	s.DiscardVariant()
	_, ok := s.SelectedVariant()
	assert.False(t, ok)
	assert.Equal(t, "original text", s.Buffer())
}

// TestRegenerateSingleFlight: пока запрос в полете, второй вызов отклоняется.
func TestRegenerateSingleFlight(t *testing.T) {
	api := new(mocks.StoryAPI)

	started := make(chan struct{})
	var released atomic.Bool
	api.On("RegenerateStory", mock.Anything, "s1", mock.Anything).
		Run(func(args mock.Arguments) {
			close(started)
			for !released.Load() {
				time.Sleep(time.Millisecond)
			}
		}).
		Return(client.OK(models.RegenerateResponse{Variant: "v"})).Once()

	s := newTestSession(t, api, confirmAlways)

	done := make(chan error, 1)
	go func() {
		_, err := s.Regenerate(context.Background(), models.RegenerateBedtime)
		done <- err
	}()

	<-started
	_, err := s.Regenerate(context.Background(), models.RegenerateFunny)
	assert.ErrorIs(t, err, models.ErrRegenerationInProgress)

	released.Store(true)
	require.NoError(t, <-done)
	api.AssertNumberOfCalls(t, "RegenerateStory", 1)
}

func TestRegenerateFailureSetsNoVariant(t *testing.T) {
	api := new(mocks.StoryAPI)
	api.On("RegenerateStory", mock.Anything, "s1", mock.Anything).
		Return(client.Fail[models.RegenerateResponse]("Story regeneration failed"))

	s := newTestSession(t, api, confirmAlways)
	_, err := s.Regenerate(context.Background(), models.RegenerateGentle)
	require.Error(t, err)

	_, ok := s.SelectedVariant()
	assert.False(t, ok)
	assert.Empty(t, s.Variants())

	// Single-flight снят: следующая попытка не блокируется
	regenerating, _ := s.IsRegenerating()
	assert.False(t, regenerating)
}

func TestRegenerateUnknownOption(t *testing.T) {
	s := newTestSession(t, new(mocks.StoryAPI), confirmAlways)
	_, err := s.Regenerate(context.Background(), models.RegenerateOption("spooky"))
	assert.ErrorIs(t, err, models.ErrInvalidInput)
}

func TestGenerateAudioPreview(t *testing.T) {
	api := new(mocks.StoryAPI)
	api.On("GenerateAudioPreview", mock.Anything, "s1", mock.Anything).
		Return(client.OK(models.AudioResponse{AudioURL: "https://cdn/preview.mp3", Duration: 30}))

	s := newTestSession(t, api, confirmAlways)
	url, err := s.GenerateAudioPreview(context.Background(), models.GenerateAudioRequest{})
	require.NoError(t, err)
	assert.Equal(t, "https://cdn/preview.mp3", url)
	assert.Equal(t, "https://cdn/preview.mp3", s.Story().AudioPreviewURL)
}

func TestPurchaseFullAudio(t *testing.T) {
	t.Run("Declined purchase never reaches network", func(t *testing.T) {
		api := new(mocks.StoryAPI)
		s := newTestSession(t, api, confirmNever)

		_, err := s.PurchaseFullAudio(context.Background(), models.GenerateAudioRequest{})
		assert.ErrorIs(t, err, models.ErrPurchaseDeclined)
		api.AssertNotCalled(t, "GenerateFullAudio", mock.Anything, mock.Anything, mock.Anything)
		assert.Equal(t, models.StatusReady, s.Story().Status)
	})

	t.Run("Confirmation shows price before network call", func(t *testing.T) {
		api := new(mocks.StoryAPI)
		api.On("GenerateFullAudio", mock.Anything, "s1", mock.Anything).
			Return(client.OK(models.AudioResponse{AudioURL: "https://cdn/full.mp3", Cost: 2.99}))

		var shown workshop.Confirmation
		confirm := func(ctx context.Context, c workshop.Confirmation) bool {
			// К моменту подтверждения сетевой вызов еще не сделан
			api.AssertNotCalled(t, "GenerateFullAudio", mock.Anything, mock.Anything, mock.Anything)
			shown = c
			return true
		}

		s, err := workshop.NewSession(testStory(), api, confirm, testDebounce, nil)
		require.NoError(t, err)
		defer s.Close()

		resp, err := s.PurchaseFullAudio(context.Background(), models.GenerateAudioRequest{})
		require.NoError(t, err)
		assert.Equal(t, 2.99, resp.Cost)

		assert.Equal(t, "Generate Full Audio", shown.Title)
		assert.True(t, strings.Contains(shown.Message, "$2.99"))
		assert.True(t, strings.Contains(shown.Message, "download rights"))

		story := s.Story()
		assert.Equal(t, models.StatusAudioReady, story.Status)
		assert.Equal(t, "https://cdn/full.mp3", story.AudioFullURL)
	})

	t.Run("Failure leaves status untouched", func(t *testing.T) {
		api := new(mocks.StoryAPI)
		api.On("GenerateFullAudio", mock.Anything, "s1", mock.Anything).
			Return(client.Fail[models.AudioResponse]("Full audio generation failed"))

		s := newTestSession(t, api, confirmAlways)
		_, err := s.PurchaseFullAudio(context.Background(), models.GenerateAudioRequest{})
		require.Error(t, err)

		story := s.Story()
		assert.Equal(t, models.StatusReady, story.Status)
		assert.Empty(t, story.AudioFullURL)
	})
}

// TestCloseIgnoresLateSaveResult: результат сохранения, пришедший после
// закрытия сессии, не трогает состояние.
func TestCloseIgnoresLateSaveResult(t *testing.T) {
	api := new(mocks.StoryAPI)

	started := make(chan struct{})
	var released atomic.Bool
	api.On("UpdateStory", mock.Anything, "s1", mock.Anything).
		Run(func(args mock.Arguments) {
			close(started)
			for !released.Load() {
				time.Sleep(time.Millisecond)
			}
		}).
		Return(savedResult("late edit")).Once()

	s := newTestSession(t, api, confirmAlways)

	var callbacks atomic.Int32
	s.OnSave = func(models.Story) { callbacks.Add(1) }

	s.SetContent("late edit")
	<-started
	s.Close()
	released.Store(true)

	time.Sleep(3 * testDebounce)
	assert.Equal(t, int32(0), callbacks.Load())
	// lastSaved не обновлен закрытой сессией
	assert.True(t, s.Dirty())
}

func TestFlush(t *testing.T) {
	api := new(mocks.StoryAPI)
	api.On("UpdateStory", mock.Anything, "s1", models.UpdateStoryRequest{
		Content: models.StringPtr("edited"),
	}).Return(savedResult("edited")).Once()

	s := newTestSession(t, api, confirmAlways)
	s.SetContent("edited")

	// Flush не ждет debounce-окна
	require.NoError(t, s.Flush(context.Background()))
	assert.False(t, s.Dirty())
	assert.Equal(t, "edited", s.Story().Content)

	// Повторный Flush без правок - no-op
	require.NoError(t, s.Flush(context.Background()))
	api.AssertNumberOfCalls(t, "UpdateStory", 1)
}

package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"story-time-client/internal/client"
	"story-time-client/internal/config"
	"story-time-client/internal/logger"
	"story-time-client/internal/models"
	"story-time-client/internal/progress"
	"story-time-client/internal/wizard"
	"story-time-client/internal/workshop"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()

	cmd := flag.String("cmd", "list", "Command: create|list|get|update|delete|regenerate|audio-preview|audio-full")
	id := flag.String("id", "", "Story ID (for get/update/delete/regenerate/audio-*)")
	tone := flag.String("tone", "", "Story tone (create): bedtime|adventurous|funny|magical|heartwarming")
	style := flag.String("style", "", "Story style (create): fairy-tale|sci-fi|mystery|slice-of-life|fantasy")
	prompt := flag.String("prompt", "", "Story prompt (create), longer than 10 characters")
	childName := flag.String("child", "", "Child name (create, optional)")
	title := flag.String("title", "", "New title (update)")
	content := flag.String("content", "", "New content (update)")
	option := flag.String("option", "", "Regenerate option: shorter|bedtime|adventurous|funny|gentle")
	page := flag.Int("page", 0, "Page number (list)")
	limit := flag.Int("limit", 0, "Page size (list)")
	status := flag.String("status", "", "Status filter (list)")
	yes := flag.Bool("yes", false, "Skip interactive confirmations (dangerous for paid operations)")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Ошибка конфигурации:", err)
		os.Exit(1)
	}

	zapLogger, err := logger.New(logger.Config{Level: cfg.LogLevel})
	if err != nil {
		fmt.Fprintln(os.Stderr, "Ошибка инициализации логгера:", err)
		os.Exit(1)
	}
	defer zapLogger.Sync()

	auth, err := client.NewBearerAuthenticator(&client.StaticTokenSource{AccessToken: cfg.AccessToken}, cfg.RequestTimeout, zapLogger)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Ошибка аутентификатора:", err)
		os.Exit(1)
	}

	api, err := client.New(cfg.StoriesBaseURL(), auth, zapLogger)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Ошибка создания клиента:", err)
		os.Exit(1)
	}

	ctx := context.Background()

	var runErr error
	switch *cmd {
	case "create":
		runErr = runCreate(ctx, api, zapLogger, *tone, *style, *prompt, *childName)
	case "list":
		runErr = runList(ctx, api, *page, *limit, *status)
	case "get":
		runErr = printResult(api.GetStory(ctx, *id))
	case "update":
		runErr = runUpdate(ctx, api, *id, *title, *content)
	case "delete":
		runErr = runDelete(ctx, api, *id, *yes)
	case "regenerate":
		runErr = printResult(api.RegenerateStory(ctx, *id, models.RegenerateStoryRequest{
			RegenerateOption: models.RegenerateOption(*option),
		}))
	case "audio-preview":
		runErr = printResult(api.GenerateAudioPreview(ctx, *id, models.GenerateAudioRequest{}))
	case "audio-full":
		runErr = runFullAudio(ctx, api, cfg, zapLogger, *id, *yes)
	default:
		runErr = fmt.Errorf("unknown command %q", *cmd)
	}

	if runErr != nil {
		fmt.Fprintln(os.Stderr, "Error:", runErr)
		os.Exit(1)
	}
}

// runCreate прогоняет мастер создания: гарды шагов, затем генерация с
// симуляцией прогресса в stderr.
func runCreate(ctx context.Context, api client.StoryAPI, log *zap.Logger, tone, style, prompt, childName string) error {
	w := wizard.New(api, log)
	w.SetTone(tone)
	w.SetStyle(style)
	w.SetPrompt(prompt)
	w.SetChildName(childName)

	if err := w.Next(); err != nil {
		return fmt.Errorf("step 1 incomplete: --tone and --style are required")
	}
	if err := w.Next(); err != nil {
		return fmt.Errorf("step 2 incomplete: --prompt must be longer than 10 characters")
	}

	sim := progress.New()
	sim.Start()
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				fmt.Fprintf(os.Stderr, "\r%-28s %3.0f%%", sim.StepCaption(), sim.Progress())
			}
		}
	}()

	story, err := w.Generate(ctx)
	close(done)
	if err != nil {
		sim.Stop()
		fmt.Fprintln(os.Stderr)
		return err
	}
	sim.Complete()
	fmt.Fprintf(os.Stderr, "\r%-28s %3.0f%%\n", "Done", sim.Progress())

	return printJSON(story)
}

func runList(ctx context.Context, api client.StoryAPI, page, limit int, status string) error {
	return printResult(api.ListStories(ctx, models.ListStoriesParams{
		Page:   page,
		Limit:  limit,
		Status: models.StoryStatus(status),
	}))
}

func runUpdate(ctx context.Context, api client.StoryAPI, id, title, content string) error {
	req := models.UpdateStoryRequest{}
	if title != "" {
		req.Title = models.StringPtr(title)
	}
	if content != "" {
		req.Content = models.StringPtr(content)
	}
	return printResult(api.UpdateStory(ctx, id, req))
}

func runDelete(ctx context.Context, api client.StoryAPI, id string, yes bool) error {
	if !yes && !askConfirmation(fmt.Sprintf("Delete story %s? This cannot be undone.", id)) {
		return fmt.Errorf("cancelled")
	}
	res := api.DeleteStory(ctx, id)
	if !res.Success() {
		return fmt.Errorf("%s", res.Err())
	}
	fmt.Println("Deleted.")
	return nil
}

// runFullAudio ведет платный флоу через сессию мастерской: подтверждение
// строго до сетевого вызова.
func runFullAudio(ctx context.Context, api client.StoryAPI, cfg *config.Config, log *zap.Logger, id string, yes bool) error {
	res := api.GetStory(ctx, id)
	story, ok := res.Data()
	if !ok {
		return fmt.Errorf("%s", res.Err())
	}

	confirm := func(ctx context.Context, c workshop.Confirmation) bool {
		if yes {
			return true
		}
		fmt.Println(c.Title)
		fmt.Println(c.Message)
		return askConfirmation("Confirm & Pay?")
	}

	session, err := workshop.NewSession(story, api, confirm, cfg.AutoSaveDebounce, log)
	if err != nil {
		return err
	}
	defer session.Close()

	audio, err := session.PurchaseFullAudio(ctx, models.GenerateAudioRequest{})
	if err != nil {
		return err
	}
	return printJSON(audio)
}

// askConfirmation спрашивает y/N в терминале.
func askConfirmation(question string) bool {
	fmt.Printf("%s [y/N]: ", question)
	reader := bufio.NewReader(os.Stdin)
	answer, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}

// printResult печатает данные конверта или возвращает его ошибку.
func printResult[T any](res client.Result[T]) error {
	data, ok := res.Data()
	if !ok {
		return fmt.Errorf("%s", res.Err())
	}
	return printJSON(data)
}

func printJSON(v interface{}) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

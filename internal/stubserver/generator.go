package stubserver

import (
	"fmt"
	"strings"

	"story-time-client/internal/models"
)

// Детские заготовки текста по тонам. Стаб не ходит в LLM - он склеивает
// правдоподобную историю из шаблонов, чтобы клиент было с чем разрабатывать.
var toneOpenings = map[string]string{
	"bedtime":      "The stars were settling into their places in the quiet evening sky.",
	"adventurous":  "The morning horn sounded, and a great adventure was about to begin!",
	"funny":        "It all started when a very serious duck forgot how to quack.",
	"magical":      "A shimmer of silver dust drifted down from the old willow tree.",
	"heartwarming": "In a little house at the end of Maple Lane lived the kindest of friends.",
}

var styleSettings = map[string]string{
	"fairy-tale":    "Once upon a time, in a kingdom far beyond the hills,",
	"sci-fi":        "Aboard the starship Dandelion, somewhere past the third moon,",
	"mystery":       "Something curious had happened in the sleepy town of Pebblewick, and",
	"slice-of-life": "On an ordinary Tuesday that did not feel ordinary at all,",
	"fantasy":       "In the land where dragons napped on warm clouds,",
}

// synthesizeStory собирает текст истории из тона, жанра и промпта.
func synthesizeStory(req models.CreateStoryRequest) (title, content string) {
	hero := req.ChildName
	if hero == "" {
		hero = "a brave little explorer"
	}

	setting, ok := styleSettings[req.Style]
	if !ok {
		setting = "Somewhere wonderful,"
	}
	opening, ok := toneOpenings[req.Tone]
	if !ok {
		opening = "The day began like a page waiting to be written."
	}

	paragraphs := []string{
		fmt.Sprintf("%s %s set off on a journey. %s", setting, hero, opening),
		fmt.Sprintf("The story asked for was this: %s. And so it happened, step by gentle step, with more wonder at every turn.", strings.TrimSpace(req.Prompt)),
		fmt.Sprintf("By the end, %s knew that even the smallest heart can hold the biggest courage. And that was only the beginning.", hero),
	}

	title = fmt.Sprintf("The %s %s Story", titleCase(req.Tone), titleCase(strings.ReplaceAll(req.Style, "-", " ")))
	return title, strings.Join(paragraphs, "\n\n")
}

// titleCase поднимает первую букву каждого слова (ASCII достаточно).
func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// synthesizeVariant строит вариант-кандидат из текущего текста по опции.
func synthesizeVariant(content string, option models.RegenerateOption) string {
	switch option {
	case models.RegenerateShorter:
		// Оставляем только ключевые моменты - первую половину абзацев
		parts := strings.Split(content, "\n\n")
		keep := (len(parts) + 1) / 2
		return strings.Join(parts[:keep], "\n\n")
	case models.RegenerateBedtime:
		return content + "\n\nThe moon smiled softly, eyelids grew heavy, and the whole world whispered: goodnight."
	case models.RegenerateAdventurous:
		return "With a thunder of drums and a race against the wind, the tale grew bolder!\n\n" + content
	case models.RegenerateFunny:
		return content + "\n\nAnd would you believe it - the duck finally quacked, but it sounded exactly like a trombone."
	case models.RegenerateGentle:
		return strings.ReplaceAll(content, "!", ".") + "\n\nEverything ended softly, like a feather landing on a pillow."
	default:
		return content
	}
}

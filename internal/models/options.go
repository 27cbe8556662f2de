package models

// ToneOption описывает тон повествования для экрана выбора стиля.
type ToneOption struct {
	ID          string `json:"id"`
	Label       string `json:"label"`
	Description string `json:"description"`
}

// StyleOption описывает жанр истории.
type StyleOption struct {
	ID          string `json:"id"`
	Label       string `json:"label"`
	Description string `json:"description"`
}

// RegenerateOptionInfo описывает опцию регенерации для UI-слоя.
type RegenerateOptionInfo struct {
	Option      RegenerateOption `json:"option"`
	Label       string           `json:"label"`
	Description string           `json:"description"`
}

// Канонические словари тонов и жанров. Сервер авторитетен в валидации,
// но клиентские формы строятся из этих списков.
var (
	Tones = []ToneOption{
		{ID: "bedtime", Label: "Bedtime", Description: "Calm and soothing for sleepy time"},
		{ID: "adventurous", Label: "Adventurous", Description: "Exciting quests and journeys"},
		{ID: "funny", Label: "Funny", Description: "Silly and humorous tales"},
		{ID: "magical", Label: "Magical", Description: "Enchanted worlds and spells"},
		{ID: "heartwarming", Label: "Heartwarming", Description: "Feel-good stories about friendship"},
	}

	Styles = []StyleOption{
		{ID: "fairy-tale", Label: "Fairy Tale", Description: "Classic once upon a time stories"},
		{ID: "sci-fi", Label: "Sci-Fi", Description: "Space adventures and future worlds"},
		{ID: "mystery", Label: "Mystery", Description: "Puzzles and gentle detective stories"},
		{ID: "slice-of-life", Label: "Everyday Life", Description: "Relatable daily adventures"},
		{ID: "fantasy", Label: "Fantasy", Description: "Dragons, wizards, and magic"},
	}

	RegenerateOptions = []RegenerateOptionInfo{
		{Option: RegenerateShorter, Label: "Make Shorter", Description: "Reduce to key moments"},
		{Option: RegenerateBedtime, Label: "More Bedtime", Description: "Calmer and sleepier"},
		{Option: RegenerateAdventurous, Label: "More Adventurous", Description: "Add excitement and action"},
		{Option: RegenerateFunny, Label: "Funnier", Description: "Add humor and giggles"},
		{Option: RegenerateGentle, Label: "Gentler Tone", Description: "Softer and more peaceful"},
	}
)

// KnownTone проверяет наличие тона в словаре.
func KnownTone(id string) bool {
	for _, t := range Tones {
		if t.ID == id {
			return true
		}
	}
	return false
}

// KnownStyle проверяет наличие жанра в словаре.
func KnownStyle(id string) bool {
	for _, s := range Styles {
		if s.ID == id {
			return true
		}
	}
	return false
}

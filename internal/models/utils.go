package models

import "strings"

// StringPtr returns a pointer to the given string.
// Useful for optional fields in UpdateStoryRequest.
func StringPtr(s string) *string {
	return &s
}

// StatusPtr returns a pointer to the given story status.
func StatusPtr(s StoryStatus) *StoryStatus {
	return &s
}

// CountWords считает слова в тексте истории.
// Бэкенд авторитетен в wordCount; эта функция нужна стабу и индикаторам UI.
func CountWords(text string) int {
	return len(strings.Fields(text))
}

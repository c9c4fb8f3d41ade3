package catalog

import (
	"strings"

	"dazhangman/internal/models"
)

var articles = map[string]bool{"der": true, "die": true, "das": true}

// SplitArticle separates a leading German article from a noun:
// "die Familie" gives ("Familie", "die").
func SplitArticle(s string) (word, article string) {
	fields := strings.Fields(s)
	if len(fields) >= 2 {
		first := strings.ToLower(fields[0])
		if articles[first] {
			return strings.Join(fields[1:], " "), first
		}
	}
	return strings.Join(fields, " "), ""
}

// annotateCategory appends the article as "(die)" to the category
func annotateCategory(category, article string) string {
	category = strings.TrimSpace(category)
	if article == "" {
		return category
	}
	if category == "" {
		return "(" + article + ")"
	}
	return category + " (" + article + ")"
}

// Row is an unprocessed catalog line as written in a word list file
type Row struct {
	Word     string
	Type     string
	Category string
}

// Normalize turns raw rows into playable entries for one level. Articles are
// moved into the category, blank words are dropped and duplicate words
// (ignoring case) keep their first occurrence.
func Normalize(rows []Row, level models.Level) []models.WordEntry {
	entries := make([]models.WordEntry, 0, len(rows))
	seen := map[string]bool{}
	for _, row := range rows {
		word, article := SplitArticle(row.Word)
		if word == "" {
			continue
		}
		key := strings.ToLower(word)
		if seen[key] {
			continue
		}
		seen[key] = true

		wordType := models.ParseWordType(row.Type)
		if wordType == "" {
			wordType = models.WordTypeOther
			if article != "" {
				wordType = models.WordTypeNoun
			}
		}

		entries = append(entries, models.WordEntry{
			Word:     word,
			Type:     wordType,
			Category: annotateCategory(row.Category, article),
			Level:    level,
		})
	}
	return entries
}

package service

import (
	"fmt"
	"strings"

	"github.com/pageza/alchemorsel-genai/backend/internal/types"
)

const notSpecified = "Not specified"

// ParseRecipe turns a model reply into a recipe. Replies that are not a
// JSON object, fenced or bare, yield the fallback recipe for
// originalIngredients with the parse error as Cause.
func ParseRecipe(raw, originalIngredients string) Outcome {
	recipe, err := types.DecodeRecipe([]byte(extractJSON(raw)))
	if err != nil {
		return Outcome{
			Source: SourceFallback,
			Recipe: FallbackRecipe(originalIngredients),
			Cause:  fmt.Errorf("parse model reply: %w", err),
		}
	}

	// A key present with null counts as present.
	for _, field := range types.RequiredFields {
		if _, ok := recipe[field]; ok {
			continue
		}
		switch field {
		case "ingredients", "instructions":
			recipe[field] = []any{}
		default:
			recipe[field] = notSpecified
		}
	}

	return Outcome{Source: SourceModel, Recipe: recipe}
}

// extractJSON strips a markdown fence. A ```json fence wins over a bare one;
// only the first fenced block is used.
func extractJSON(raw string) string {
	text := strings.TrimSpace(raw)
	if _, after, ok := strings.Cut(text, "```json"); ok {
		body, _, _ := strings.Cut(after, "```")
		return strings.TrimSpace(body)
	}
	if _, after, ok := strings.Cut(text, "```"); ok {
		body, _, _ := strings.Cut(after, "```")
		return strings.TrimSpace(body)
	}
	return text
}

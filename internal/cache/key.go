// Package cache stores generated recipes for a fixed time-to-live, keyed by
// a fingerprint of the request.
package cache

import (
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/blake2b"

	"github.com/pageza/alchemorsel-genai/backend/internal/types"
)

// Key fingerprints the five request fields joined with "_".
func Key(req types.RecipeRequest) string {
	content := fmt.Sprintf("%s_%s_%s_%s_%d", req.Ingredients, req.Cuisine, req.Dietary, req.MealType, req.Servings)
	sum := blake2b.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}

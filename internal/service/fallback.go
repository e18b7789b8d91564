package service

import (
	"strings"

	"github.com/pageza/alchemorsel-genai/backend/internal/types"
)

// FallbackRecipe builds a generic recipe from a comma-separated ingredient
// list. Empty tokens are kept, so "" yields one unnamed ingredient.
func FallbackRecipe(ingredients string) types.Recipe {
	parts := strings.Split(ingredients, ",")
	list := make([]types.Ingredient, len(parts))
	for i, p := range parts {
		list[i] = types.Ingredient{Name: strings.TrimSpace(p), Quantity: "to taste"}
	}

	return types.Recipe{
		"name":        "Simple Home-Style Recipe",
		"description": "A delicious and easy-to-make dish using your ingredients",
		"prep_time":   "15 minutes",
		"cook_time":   "25 minutes",
		"total_time":  "40 minutes",
		"difficulty":  "Medium",
		"servings":    4,
		"ingredients": list,
		"instructions": []string{
			"Step 1: Prepare all ingredients by washing and chopping as needed",
			"Step 2: Heat oil in a pan and add aromatics (onion, garlic if available)",
			"Step 3: Add main ingredients and cook until done",
			"Step 4: Season with salt and pepper to taste",
			"Step 5: Serve hot and enjoy!",
		},
		"tips": []string{
			"Feel free to adjust seasoning according to your taste",
			"Fresh herbs can elevate the flavor significantly",
		},
		"nutrition": types.Nutrition{
			Calories: "~350 kcal",
			Carbs:    "~30g",
			Fat:      "~15g",
			Protein:  "~20g",
		},
	}
}

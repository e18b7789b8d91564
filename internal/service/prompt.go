package service

import "fmt"

const recipePromptTemplate = `You are an expert professional chef. Create a delicious recipe using these ingredients: %[1]s

RECIPE REQUIREMENTS:
- Cuisine: %[2]s
- Dietary: %[3]s
- Meal Type: %[4]s
- Servings: %[5]d people

GUIDELINES:
1. Use the provided ingredients as main components
2. Only add essential pantry items (oil, salt, pepper, water) if needed
3. Make instructions clear and easy to follow
4. Include professional chef tips
5. Provide nutritional estimates

Return the recipe in this EXACT JSON format:
{
    "name": "Creative recipe name",
    "description": "Brief appetizing description",
    "prep_time": "X minutes",
    "cook_time": "Y minutes",
    "total_time": "X+Y minutes",
    "difficulty": "Easy/Medium/Hard",
    "servings": %[5]d,
    "ingredients": [
        {"name": "ingredient 1", "quantity": "amount", "unit": "unit"},
        {"name": "ingredient 2", "quantity": "amount", "unit": "unit"}
    ],
    "instructions": [
        "Step 1: ...",
        "Step 2: ..."
    ],
    "tips": ["Tip 1", "Tip 2"],
    "nutrition": {
        "calories": "approx per serving",
        "protein": "approx grams",
        "carbs": "approx grams",
        "fat": "approx grams"
    }
}

Return ONLY the JSON, no other text.`

// BuildPrompt renders the recipe instruction for the model. Ingredients are
// inserted verbatim.
func BuildPrompt(ingredients, cuisine, dietary, mealType string, servings int) string {
	if cuisine == "any" {
		cuisine = "Any cuisine"
	}
	if dietary == "" {
		dietary = "None"
	}
	if mealType == "" {
		mealType = "Any"
	}
	return fmt.Sprintf(recipePromptTemplate, ingredients, cuisine, dietary, mealType, servings)
}

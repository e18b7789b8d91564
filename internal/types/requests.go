package types

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Cuisine values offered by the form. Other strings are passed through.
const (
	CuisineAny           = "any"
	CuisineItalian       = "italian"
	CuisineAsian         = "asian"
	CuisineMexican       = "mexican"
	CuisineIndian        = "indian"
	CuisineMediterranean = "mediterranean"
	CuisineAmerican      = "american"
)

// Dietary values offered by the form. The empty string means no restriction.
const (
	DietaryNone       = "none"
	DietaryVegetarian = "vegetarian"
	DietaryVegan      = "vegan"
	DietaryGlutenFree = "gluten_free"
	DietaryDairyFree  = "dairy_free"
)

// Meal types offered by the form. The empty string means any meal.
const (
	MealAny       = "any"
	MealBreakfast = "breakfast"
	MealLunch     = "lunch"
	MealDinner    = "dinner"
	MealSnack     = "snack"
)

// DefaultServings is used when a request omits servings.
const DefaultServings = 4

var (
	knownCuisines = []string{CuisineAny, CuisineItalian, CuisineAsian, CuisineMexican, CuisineIndian, CuisineMediterranean, CuisineAmerican}
	knownDietary  = []string{DietaryNone, DietaryVegetarian, DietaryVegan, DietaryGlutenFree, DietaryDairyFree}
	knownMeals    = []string{MealAny, MealBreakfast, MealLunch, MealDinner, MealSnack}
)

// RecipeRequest is the input of one generation.
type RecipeRequest struct {
	Ingredients string `json:"ingredients"`
	Cuisine     string `json:"cuisine"`
	Dietary     string `json:"dietary"`
	MealType    string `json:"meal_type"`
	Servings    int    `json:"servings"`
}

// KnownCuisine reports whether c is one of the form's cuisine values.
func KnownCuisine(c string) bool { return contains(knownCuisines, c) }

// KnownDietary reports whether d is empty or one of the form's dietary values.
func KnownDietary(d string) bool { return d == "" || contains(knownDietary, d) }

// KnownMealType reports whether m is empty or one of the form's meal values.
func KnownMealType(m string) bool { return m == "" || contains(knownMeals, m) }

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

// GenerateRecipeRequest is the JSON body of POST /generate.
type GenerateRecipeRequest struct {
	Ingredients string   `json:"ingredients"`
	Cuisine     *string  `json:"cuisine"`
	Dietary     *string  `json:"dietary"`
	MealType    *string  `json:"meal_type"`
	Servings    Servings `json:"servings"`
}

// Normalize applies defaults and trims ingredients.
func (r GenerateRecipeRequest) Normalize() RecipeRequest {
	req := RecipeRequest{
		Ingredients: strings.TrimSpace(r.Ingredients),
		Cuisine:     CuisineAny,
		Servings:    DefaultServings,
	}
	if r.Cuisine != nil {
		req.Cuisine = *r.Cuisine
	}
	if r.Dietary != nil {
		req.Dietary = *r.Dietary
	}
	if r.MealType != nil {
		req.MealType = *r.MealType
	}
	if r.Servings.Set {
		req.Servings = r.Servings.Value
	}
	return req
}

// Servings accepts a JSON number or a numeric string. Fractions are
// truncated toward zero. null leaves it unset.
type Servings struct {
	Value int
	Set   bool
}

func (s *Servings) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}

	var num float64
	if err := json.Unmarshal(data, &num); err == nil {
		if math.IsInf(num, 0) || math.Abs(num) > math.MaxInt32 {
			return fmt.Errorf("servings out of range")
		}
		s.Value, s.Set = int(num), true
		return nil
	}

	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		n, err := strconv.Atoi(strings.TrimSpace(str))
		if err != nil {
			return fmt.Errorf("invalid servings %q", str)
		}
		s.Value, s.Set = n, true
		return nil
	}

	return fmt.Errorf("invalid servings format")
}

package types

import (
	"encoding/json"
	"fmt"
)

// Recipe is a generated recipe as a JSON object. It stays a map so keys the
// model adds beyond the usual schema reach the client untouched; numbers
// decoded from model output are json.Number and keep their original text.
type Recipe map[string]any

// Ingredient is one entry of a recipe's ingredient list.
type Ingredient struct {
	Name     string `json:"name"`
	Quantity string `json:"quantity"`
	Unit     string `json:"unit"`
}

// Nutrition is the per-serving estimate. Fields are in key order so a
// Recipe marshals identically before and after a JSON round trip.
type Nutrition struct {
	Calories string `json:"calories"`
	Carbs    string `json:"carbs"`
	Fat      string `json:"fat"`
	Protein  string `json:"protein"`
}

// Required recipe keys, in the order they are checked.
var RequiredFields = []string{"name", "description", "prep_time", "cook_time", "ingredients", "instructions"}

// DecodeRecipe decodes a JSON object, keeping numbers as json.Number.
func DecodeRecipe(data []byte) (Recipe, error) {
	var r Recipe
	if err := unmarshalUseNumber(data, &r); err != nil {
		return nil, err
	}
	return r, nil
}

// Text returns the value under key rendered as text; absent or null is "".
func (r Recipe) Text(key string) string {
	return text(r[key])
}

// Name is the recipe's display name.
func (r Recipe) Name() string {
	return r.Text("name")
}

// Ingredients returns the ingredient list whatever shape it was stored in:
// typed entries, decoded objects or bare strings.
func (r Recipe) Ingredients() []Ingredient {
	switch v := r["ingredients"].(type) {
	case []Ingredient:
		return v
	case []any:
		out := make([]Ingredient, 0, len(v))
		for _, item := range v {
			switch it := item.(type) {
			case map[string]any:
				out = append(out, Ingredient{
					Name:     text(it["name"]),
					Quantity: text(it["quantity"]),
					Unit:     text(it["unit"]),
				})
			default:
				out = append(out, Ingredient{Name: text(it)})
			}
		}
		return out
	default:
		return nil
	}
}

// List returns a list-of-text value such as instructions or tips.
func (r Recipe) List(key string) []string {
	switch v := r[key].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			out = append(out, text(item))
		}
		return out
	case nil:
		return nil
	default:
		return []string{text(v)}
	}
}

// Nutrition returns the nutrition block, or false if there is none.
func (r Recipe) Nutrition() (Nutrition, bool) {
	switch v := r["nutrition"].(type) {
	case Nutrition:
		return v, true
	case map[string]any:
		return Nutrition{
			Calories: text(v["calories"]),
			Carbs:    text(v["carbs"]),
			Fat:      text(v["fat"]),
			Protein:  text(v["protein"]),
		}, true
	default:
		return Nutrition{}, false
	}
}

func text(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case json.Number:
		return t.String()
	case fmt.Stringer:
		return t.String()
	default:
		return fmt.Sprint(t)
	}
}

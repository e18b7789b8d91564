// Package render turns a recipe into a printable card.
package render

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/pageza/alchemorsel-genai/backend/internal/types"
)

var md = goldmark.New(goldmark.WithExtensions(extension.Table))

var page = template.Must(template.New("card").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: Georgia, serif; max-width: 42rem; margin: 2rem auto; color: #222; }
h1 { border-bottom: 2px solid #e67e22; padding-bottom: .3rem; }
table { border-collapse: collapse; }
th, td { border: 1px solid #ccc; padding: .3rem .8rem; }
@media print { body { margin: 0; } }
</style>
</head>
<body>
{{.Body}}
</body>
</html>
`))

// Markdown renders the recipe. Missing sections are left out.
func Markdown(r types.Recipe) string {
	var b strings.Builder

	name := r.Name()
	if name == "" {
		name = "Untitled recipe"
	}
	fmt.Fprintf(&b, "# %s\n\n", name)

	if d := r.Text("description"); d != "" {
		fmt.Fprintf(&b, "_%s_\n\n", d)
	}

	var facts []string
	for _, f := range []struct{ label, key string }{
		{"Prep", "prep_time"},
		{"Cook", "cook_time"},
		{"Total", "total_time"},
		{"Difficulty", "difficulty"},
		{"Serves", "servings"},
	} {
		if v := r.Text(f.key); v != "" {
			facts = append(facts, fmt.Sprintf("**%s:** %s", f.label, v))
		}
	}
	if len(facts) > 0 {
		b.WriteString(strings.Join(facts, " · "))
		b.WriteString("\n\n")
	}

	if ings := r.Ingredients(); len(ings) > 0 {
		b.WriteString("## Ingredients\n\n")
		for _, ing := range ings {
			fmt.Fprintf(&b, "- %s\n", ingredientLine(ing))
		}
		b.WriteString("\n")
	}

	if steps := r.List("instructions"); len(steps) > 0 {
		b.WriteString("## Instructions\n\n")
		for i, step := range steps {
			fmt.Fprintf(&b, "%d. %s\n", i+1, step)
		}
		b.WriteString("\n")
	}

	if tips := r.List("tips"); len(tips) > 0 {
		b.WriteString("## Chef's tips\n\n")
		for _, tip := range tips {
			fmt.Fprintf(&b, "- %s\n", tip)
		}
		b.WriteString("\n")
	}

	if n, ok := r.Nutrition(); ok {
		b.WriteString("## Nutrition (per serving)\n\n")
		b.WriteString("| Calories | Protein | Carbs | Fat |\n")
		b.WriteString("| --- | --- | --- | --- |\n")
		fmt.Fprintf(&b, "| %s | %s | %s | %s |\n\n", cell(n.Calories), cell(n.Protein), cell(n.Carbs), cell(n.Fat))
	}

	if model := r.Text("model_used"); model != "" {
		fmt.Fprintf(&b, "---\n\nGenerated by %s", model)
		if at := r.Text("generated_at"); at != "" {
			fmt.Fprintf(&b, " at %s", at)
		}
		b.WriteString("\n")
	}

	return b.String()
}

func ingredientLine(ing types.Ingredient) string {
	var parts []string
	for _, p := range []string{ing.Quantity, ing.Unit, ing.Name} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " ")
}

func cell(s string) string {
	if s == "" {
		return "-"
	}
	return strings.ReplaceAll(s, "|", `\|`)
}

// HTML renders the recipe card as a standalone page. Raw HTML coming from
// the model is dropped by the Markdown renderer.
func HTML(r types.Recipe) (string, error) {
	var body bytes.Buffer
	if err := md.Convert([]byte(Markdown(r)), &body); err != nil {
		return "", fmt.Errorf("failed to render recipe: %w", err)
	}

	var out bytes.Buffer
	err := page.Execute(&out, struct {
		Title string
		Body  template.HTML
	}{
		Title: r.Name(),
		Body:  template.HTML(body.String()),
	})
	if err != nil {
		return "", fmt.Errorf("failed to render page: %w", err)
	}
	return out.String(), nil
}

// Command listmodels prints the Gemini models visible to the configured key.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/pageza/alchemorsel-genai/backend/config"
	"github.com/pageza/alchemorsel-genai/backend/internal/llm"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	client, err := llm.NewGeminiClient(ctx, cfg.GenAIAPIKey, llm.SettingsFromConfig(cfg))
	if err != nil {
		log.Fatalf("Failed to create Gemini client: %v", err)
	}

	models, err := client.ListModels(ctx)
	if err != nil {
		log.Fatalf("Failed to list models: %v", err)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tDISPLAY NAME\tACTIONS")
	for _, m := range models {
		fmt.Fprintf(w, "%s\t%s\t%s\n", m.Name, m.DisplayName, strings.Join(m.Actions, ","))
	}
	if err := w.Flush(); err != nil {
		log.Fatalf("Failed to write output: %v", err)
	}
}

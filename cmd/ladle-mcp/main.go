package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// importRequest mirrors the Ladle API request model.
type importRequest struct {
	URL    string `json:"url"`
	MaxAge int    `json:"max_age,omitempty"`
}

// importResponse mirrors the Ladle API response model.
type importResponse struct {
	Success bool `json:"success"`
	Recipe  *struct {
		Title        string   `json:"title"`
		Description  string   `json:"description"`
		Images       []string `json:"images"`
		Ingredients  []struct {
			Amount     *string `json:"amount"`
			Unit       *string `json:"unit"`
			Name       string  `json:"name"`
			GroupLabel *string `json:"group_label"`
		} `json:"ingredients"`
		Instructions    []string `json:"instructions"`
		PrepTimeMinutes *int     `json:"prep_time_minutes"`
		RestTimeMinutes *int     `json:"rest_time_minutes"`
		CookTimeMinutes *int     `json:"cook_time_minutes"`
		Calories        *int     `json:"calories"`
		Servings        *int     `json:"servings"`
		SourceURL       string   `json:"source_url"`
	} `json:"recipe"`
	Extractor string `json:"extractor"`
	Error     *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func main() {
	apiURL := os.Getenv("LADLE_API_URL")
	if apiURL == "" {
		apiURL = "http://127.0.0.1:8080"
	}
	apiKey := os.Getenv("LADLE_API_KEY")
	if apiKey == "" {
		fmt.Fprintln(os.Stderr, "LADLE_API_KEY is required")
		os.Exit(1)
	}

	s := server.NewMCPServer(
		"ladle",
		"1.0.0",
		server.WithToolCapabilities(false),
	)

	importTool := mcp.NewTool("import_recipe",
		mcp.WithDescription("Import a recipe from an external URL. Fetches the page, detects schema.org recipe data (JSON-LD, microdata) or falls back to per-site scraping rules, and returns the recipe as structured text."),
		mcp.WithString("url",
			mcp.Required(),
			mcp.Description("The URL of the recipe page to import"),
		),
	)

	s.AddTool(importTool, handleImportRecipe(apiURL, apiKey))

	if err := server.ServeStdio(s); err != nil {
		fmt.Fprintf(os.Stderr, "server error: %v\n", err)
		os.Exit(1)
	}
}

func handleImportRecipe(apiURL, apiKey string) server.ToolHandlerFunc {
	client := &http.Client{Timeout: 60 * time.Second}

	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		url, err := request.RequireString("url")
		if err != nil {
			return mcp.NewToolResultError("url is required"), nil
		}

		body, err := json.Marshal(importRequest{URL: url})
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to marshal request: %v", err)), nil
		}

		httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL+"/api/v1/import", bytes.NewReader(body))
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to create request: %v", err)), nil
		}
		httpReq.Header.Set("Content-Type", "application/json")
		httpReq.Header.Set("X-API-Key", apiKey)

		resp, err := client.Do(httpReq)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("API request failed: %v", err)), nil
		}
		defer resp.Body.Close()

		respBody, err := io.ReadAll(resp.Body)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to read response: %v", err)), nil
		}

		var importResp importResponse
		if err := json.Unmarshal(respBody, &importResp); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to parse response: %v", err)), nil
		}

		if !importResp.Success || importResp.Recipe == nil {
			errMsg := "import failed"
			if importResp.Error != nil {
				errMsg = fmt.Sprintf("[%s] %s", importResp.Error.Code, importResp.Error.Message)
			}
			return mcp.NewToolResultError(errMsg), nil
		}

		return mcp.NewToolResultText(formatRecipe(&importResp)), nil
	}
}

// formatRecipe renders the imported recipe as readable text for the
// tool-calling client.
func formatRecipe(resp *importResponse) string {
	r := resp.Recipe
	var b strings.Builder

	fmt.Fprintf(&b, "Title: %s\nSource: %s\nExtractor: %s\n", r.Title, r.SourceURL, resp.Extractor)
	if r.Description != "" {
		fmt.Fprintf(&b, "Description: %s\n", r.Description)
	}
	if r.Servings != nil {
		fmt.Fprintf(&b, "Servings: %d\n", *r.Servings)
	}
	for _, t := range []struct {
		label   string
		minutes *int
	}{
		{"Prep time", r.PrepTimeMinutes},
		{"Cooking time", r.CookTimeMinutes},
		{"Resting time", r.RestTimeMinutes},
	} {
		if t.minutes != nil {
			fmt.Fprintf(&b, "%s: %d min\n", t.label, *t.minutes)
		}
	}
	if r.Calories != nil {
		fmt.Fprintf(&b, "Calories: %d kcal\n", *r.Calories)
	}

	if len(r.Ingredients) > 0 {
		b.WriteString("\nIngredients:\n")
		lastGroup := ""
		for _, ing := range r.Ingredients {
			if ing.GroupLabel != nil && *ing.GroupLabel != lastGroup {
				lastGroup = *ing.GroupLabel
				fmt.Fprintf(&b, "  [%s]\n", lastGroup)
			}
			line := "  -"
			if ing.Amount != nil {
				line += " " + *ing.Amount
			}
			if ing.Unit != nil {
				line += " " + *ing.Unit
			}
			fmt.Fprintf(&b, "%s %s\n", line, ing.Name)
		}
	}

	if len(r.Instructions) > 0 {
		b.WriteString("\nInstructions:\n")
		for i, step := range r.Instructions {
			fmt.Fprintf(&b, "  %d. %s\n", i+1, step)
		}
	}

	if len(r.Images) > 0 {
		fmt.Fprintf(&b, "\nImage: %s\n", r.Images[0])
	}

	return b.String()
}

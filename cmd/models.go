package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/classmate-cli/internal/ai"
	"github.com/KaramelBytes/classmate-cli/internal/utils"
)

var (
	modelsJSON    bool
	catalogFile   string
	catalogURL    string
	catalogSaveTo string
)

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "Inspect or extend the model catalog used for cost estimates",
	Example: `  classmate models show
  classmate models sync --file ./models.json
  classmate models fetch --url https://example.com/models.json --output models.json`,
}

var modelsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "List known models with context window and pricing",
	RunE: func(cmd *cobra.Command, args []string) error {
		cat := ai.Catalog()
		out := cmd.OutOrStdout()
		if modelsJSON {
			b, err := utils.PrettyJSON(cat)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, string(b))
			return nil
		}
		names := make([]string, 0, len(cat))
		for name := range cat {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			mi := cat[name]
			fmt.Fprintf(out, "- %s  context=%d  in=$%.5f/1K  out=$%.5f/1K\n", name, mi.ContextTokens, mi.InputPerK, mi.OutputPerK)
		}
		return nil
	},
}

var modelsSyncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Merge model entries from a JSON file",
	RunE: func(cmd *cobra.Command, args []string) error {
		if catalogFile == "" {
			return fmt.Errorf("--file is required")
		}
		m, err := ai.LoadCatalogFromJSON(catalogFile)
		if err != nil {
			return fmt.Errorf("load catalog: %w", err)
		}
		return applyCatalog(cmd, m, catalogFile)
	},
}

var modelsFetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Download model entries from a URL and merge them",
	RunE: func(cmd *cobra.Command, args []string) error {
		url := catalogURL
		if url == "" {
			url = os.Getenv("CLASSMATE_CATALOG_URL")
		}
		if url == "" {
			return fmt.Errorf("--url is required (or set CLASSMATE_CATALOG_URL)")
		}
		ctx, cancel := context.WithTimeout(cmd.Context(), 20*time.Second)
		defer cancel()
		m, err := fetchCatalog(ctx, url)
		if err != nil {
			return err
		}
		if catalogSaveTo != "" {
			data, err := utils.PrettyJSON(m)
			if err != nil {
				return err
			}
			if err := utils.SafeWriteFile(catalogSaveTo, data); err != nil {
				return fmt.Errorf("write catalog: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved catalog to %s\n", catalogSaveTo)
		}
		return applyCatalog(cmd, m, url)
	},
}

func fetchCatalog(ctx context.Context, url string) (map[string]ai.ModelInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch catalog: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return nil, fmt.Errorf("fetch catalog: %s: %s", resp.Status, body)
	}
	var m map[string]ai.ModelInfo
	if err := json.NewDecoder(resp.Body).Decode(&m); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	return m, nil
}

func applyCatalog(cmd *cobra.Command, m map[string]ai.ModelInfo, source string) error {
	if len(m) == 0 {
		return fmt.Errorf("no models in %s", source)
	}
	ai.MergeCatalog(m)
	logger.Debugw("catalog merged", "source", source, "models", len(m))
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Merged %d models from %s\n", len(m), source)
	return nil
}

func init() {
	rootCmd.AddCommand(modelsCmd)
	modelsCmd.AddCommand(modelsShowCmd)
	modelsCmd.AddCommand(modelsSyncCmd)
	modelsCmd.AddCommand(modelsFetchCmd)

	modelsShowCmd.Flags().BoolVar(&modelsJSON, "json", false, "print the catalog as JSON")
	modelsSyncCmd.Flags().StringVar(&catalogFile, "file", "", "path to JSON catalog file")
	modelsFetchCmd.Flags().StringVar(&catalogURL, "url", "", "URL of a JSON catalog")
	modelsFetchCmd.Flags().StringVar(&catalogSaveTo, "output", "", "also save the fetched JSON to this path")
}

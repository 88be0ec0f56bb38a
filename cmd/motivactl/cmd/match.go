package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/motiva/internal/ftm/algorithm"
	"github.com/Aman-CERP/motiva/internal/ftm/dispatch"
	"github.com/Aman-CERP/motiva/internal/ftm/model"
)

func newMatchCmd() *cobra.Command {
	var (
		scope     string
		schema    string
		props     []string
		limit     int
		threshold float64
		cutoff    float64
		algoName  string
	)

	cmd := &cobra.Command{
		Use:   "match",
		Short: "Score a single query entity against a scope",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			provider, closeProvider, err := openProvider(cfg.Index)
			if err != nil {
				return err
			}
			defer closeProvider()

			store, err := openCatalogStore(cmd.Context(), cfg.Catalog, provider)
			if err != nil {
				return err
			}
			defer store.Close()

			algo, ok := algorithm.ByName(algoName)
			if !ok {
				return fmt.Errorf("unknown algorithm %q", algoName)
			}

			query := &model.SearchEntity{Schema: schema, Properties: parseProps(props)}
			query.Precompute()

			params := model.MatchParams{
				Scope:     scope,
				Limit:     limit,
				Threshold: threshold,
				Cutoff:    cutoff,
				Algorithm: algoName,
			}
			datasets := store.Get().Children(scope)

			results := dispatch.Dispatch(cmd.Context(), map[string]*model.SearchEntity{"query": query}, params, algo, datasets, provider)

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(results["query"])
		},
	}

	cmd.Flags().StringVar(&scope, "scope", "default", "Dataset scope to match against")
	cmd.Flags().StringVar(&schema, "schema", "Person", "FTM schema of the query entity")
	cmd.Flags().StringArrayVar(&props, "prop", nil, `Property in "name=value" form, repeatable`)
	cmd.Flags().IntVar(&limit, "limit", 5, "Maximum number of results")
	cmd.Flags().Float64Var(&threshold, "threshold", 0.7, "Score above which a result counts as a match")
	cmd.Flags().Float64Var(&cutoff, "cutoff", 0.5, "Score at or below which a result is dropped")
	cmd.Flags().StringVar(&algoName, "algorithm", "logic-v1", "Scoring algorithm: name-based, name-qualified, logic-v1")

	return cmd
}

// parseProps turns repeated "name=value" flags into a property map,
// grouping repeats of the same name into one slice.
func parseProps(props []string) map[string][]string {
	out := make(map[string][]string)
	for _, p := range props {
		name, value, ok := strings.Cut(p, "=")
		if !ok {
			continue
		}
		out[name] = append(out[name], value)
	}
	return out
}

package cmd

import (
	"encoding/json"

	"github.com/spf13/cobra"
)

func newCatalogCmd() *cobra.Command {
	var refresh bool

	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Print the merged dataset catalog",
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

			if refresh {
				if err := store.Refresh(cmd.Context()); err != nil {
					return err
				}
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(store.Get())
		},
	}

	cmd.Flags().BoolVar(&refresh, "force-refresh", false, "Force a synchronous refresh before printing")
	return cmd
}

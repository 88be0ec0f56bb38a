package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/motiva/internal/ftm/nested"
)

func newEntityCmd() *cobra.Command {
	var nestedExpand bool

	cmd := &cobra.Command{
		Use:   "entity <id>",
		Short: "Fetch one entity by id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			provider, closeProvider, err := openProvider(cfg.Index)
			if err != nil {
				return err
			}
			defer closeProvider()

			e, err := provider.GetEntity(cmd.Context(), id)
			if err != nil {
				return err
			}
			if e == nil {
				return fmt.Errorf("entity %q not found", id)
			}
			if e.ID != id {
				fmt.Fprintf(cmd.ErrOrStderr(), "%s is a referent of %s\n", id, e.ID)
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")

			if !nestedExpand {
				return enc.Encode(e)
			}

			graph, err := nested.Expand(cmd.Context(), e, provider)
			if err != nil {
				return err
			}
			return enc.Encode(graph)
		},
	}

	cmd.Flags().BoolVar(&nestedExpand, "nested", false, "Expand the related-entity graph")
	return cmd
}

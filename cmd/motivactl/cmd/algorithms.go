package cmd

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/motiva/internal/ftm/model"
)

type algorithmsOutput struct {
	Algorithms []string `json:"algorithms"`
	Best       string   `json:"best"`
	Default    string   `json:"default"`
}

func newAlgorithmsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "algorithms",
		Short: "List the available scoring algorithms",
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := algorithmsOutput{
				Algorithms: []string{model.AlgorithmNameBased, model.AlgorithmNameQualified, model.AlgorithmLogicV1},
				Best:       model.AlgorithmBest,
				Default:    model.AlgorithmLogicV1,
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		},
	}
}

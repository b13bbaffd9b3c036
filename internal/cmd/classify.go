package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Ramsey-B/fennel/config"
	"github.com/Ramsey-B/fennel/pkg/normalizers"
)

type classification struct {
	Code     string `json:"code"`
	Category string `json:"category"`
}

func newClassifyCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "classify <code...>",
		Short: "Print the imaging category of procedure codes",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			taxonomy, err := cfg.Taxonomy()
			if err != nil {
				return err
			}

			out := make([]classification, 0, len(args))
			for _, arg := range args {
				code := normalizers.Alphanumeric(arg)
				out = append(out, classification{Code: code, Category: taxonomy.Classify(code)})
			}

			if asJSON {
				return json.NewEncoder(cmd.OutOrStdout()).Encode(out)
			}
			for _, c := range out {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", c.Code, c.Category)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "output as JSON")

	return cmd
}

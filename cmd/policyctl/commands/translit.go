package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"policy-service/internal/normalize"
	"policy-service/internal/service"
)

func translitCmd() *cobra.Command {
	var asPlate bool

	cmd := &cobra.Command{
		Use:   "translit [text...]",
		Short: "Transliterate Cyrillic text the way it is printed on the policy",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, arg := range args {
				if asPlate {
					fmt.Fprintln(cmd.OutOrStdout(), service.NormalizePlate(arg))
					continue
				}
				fmt.Fprintln(cmd.OutOrStdout(), normalize.ToUpper(normalize.Transliterate(arg)))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asPlate, "plate", false, "treat arguments as registration numbers")
	return cmd
}

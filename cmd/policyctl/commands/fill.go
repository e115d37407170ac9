package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"policy-service/internal/logger"
	"policy-service/internal/render"
	"policy-service/internal/service"
)

func fillCmd() *cobra.Command {
	var (
		templatePath    string
		annotationsPath string
		out             string
		input           service.GenerateInput
	)

	cmd := &cobra.Command{
		Use:   "fill",
		Short: "Fill the policy template and write the PDF",
		RunE: func(cmd *cobra.Command, args []string) error {
			env := "production"
			if verbose {
				env = "development"
			}
			log := logger.NewWithWriter(env, cmd.ErrOrStderr())

			layout := render.DefaultLayout()
			if annotationsPath != "" {
				annotated, found, err := render.AnnotatedLayout(annotationsPath)
				if err != nil {
					return err
				}
				if found {
					layout = annotated
					log.Debug().Float64("x", layout.Holder.X).Float64("y", layout.Holder.Y).Msg("holder position from annotations")
				} else {
					log.Warn().Msg("name/address region not found, using default layout")
				}
			}

			policyService := service.NewPolicyService(render.NewRenderer(templatePath, layout), nil, render.DefaultFontSize, log)
			policy, err := policyService.Generate(cmd.Context(), input)
			if err != nil {
				return err
			}

			target := out
			if target == "" {
				target = policy.Filename
			}
			if err := os.WriteFile(target, policy.Content, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", target, err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), target)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&templatePath, "template", "./data/Shablon.pdf", "PDF template")
	flags.StringVar(&annotationsPath, "annotations", "", "annotation JSON used to place the holder name and address")
	flags.StringVarP(&out, "out", "o", "", "output file (default policy_<timestamp>.pdf)")
	flags.StringVar(&input.FIO, "fio", "", "policy holder full name (Cyrillic)")
	flags.StringVar(&input.Address, "address", "", "policy holder address (Cyrillic)")
	flags.StringVar(&input.DateStart, "start", "", "start date DD.MM.YYYY")
	flags.StringVar(&input.DateEnd, "end", "", "end date DD.MM.YYYY")
	flags.StringVar(&input.RegNumber, "plate", "", "registration number")
	flags.StringVar(&input.VehicleType, "type", "B", "vehicle type: A B C D E F1 F2 G")
	flags.StringVar(&input.BrandModel, "brand-model", "", "vehicle brand and model")
	flags.Float64Var(&input.FontSize, "font-size", render.DefaultFontSize, "font size in points")

	for _, name := range []string{"fio", "address", "start", "end", "plate", "brand-model"} {
		_ = cmd.MarkFlagRequired(name)
	}

	return cmd
}

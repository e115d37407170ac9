package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"policy-service/internal/annotation"
	"policy-service/internal/render"
)

func annotationsCmd() *cobra.Command {
	var (
		file string
		page int
	)

	cmd := &cobra.Command{
		Use:   "annotations",
		Short: "Print annotation regions of a page",
		RunE: func(cmd *cobra.Command, args []string) error {
			anns, err := annotation.LoadFile(file)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			for i, a := range anns {
				region, ok := a.RegionOn(page)
				if !ok {
					continue
				}
				rect := region.Scale(render.DefaultPageWidth, render.DefaultPageHeight)
				fmt.Fprintf(w, "%d\t%s\tx=%.3f-%.3f y=%.3f-%.3f\tpt=%.1f,%.1f %.1fx%.1f\n",
					i, a.Label, region.MinX, region.MaxX, region.MinY, region.MaxY,
					rect.X, rect.Y, rect.Width, rect.Height)
			}

			if page == 1 {
				if a, region, ok := annotation.FindNameAddress(anns); ok {
					fmt.Fprintf(w, "name/address: %s area=%.3f\n", a.Label, region.Area())
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "./data/annotations.json", "annotation JSON")
	cmd.Flags().IntVar(&page, "page", 1, "page number")
	return cmd
}

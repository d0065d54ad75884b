package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/set-night/skyvqa/internal/overlay"
)

var (
	renderImage string
	renderBoxes string
	renderOut   string
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Draw detection boxes from a YAML or JSON file onto an image",
	Long: `Reads a list of {label, box} entries (or a backend response with a
grounding list) and writes the annotated image as PNG. With no boxes the
input image is written unchanged.

  skyvqa render --image port.jpg --boxes boxes.yaml --out port-grounded.png`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(renderImage)
		if err != nil {
			return fmt.Errorf("read image: %w", err)
		}

		f, err := os.Open(renderBoxes)
		if err != nil {
			return fmt.Errorf("open box file: %w", err)
		}
		defer f.Close()

		boxes, err := overlay.LoadBoxes(f)
		if err != nil {
			return err
		}

		src := overlay.EncodeDataURL(http.DetectContentType(data), data)
		rendered, err := overlay.NewRenderer().Render(cmd.Context(), src, boxes)
		if err != nil {
			return fmt.Errorf("render: %w", err)
		}

		_, out, err := overlay.DecodeDataURL(rendered)
		if err != nil {
			return err
		}
		if err := os.WriteFile(renderOut, out, 0o644); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d boxes drawn, wrote %s\n", len(boxes), renderOut)
		return nil
	},
}

func init() {
	renderCmd.Flags().StringVarP(&renderImage, "image", "i", "", "input image")
	renderCmd.Flags().StringVarP(&renderBoxes, "boxes", "b", "", "YAML or JSON box file")
	renderCmd.Flags().StringVarP(&renderOut, "out", "o", "grounded.png", "output PNG path")
	_ = renderCmd.MarkFlagRequired("image")
	_ = renderCmd.MarkFlagRequired("boxes")
}

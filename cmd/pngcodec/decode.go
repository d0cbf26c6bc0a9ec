package main

import (
	"context"
	"fmt"

	"github.com/jdeng/gopng/internal/logging"
	"github.com/jdeng/gopng/pkg/png"
	"github.com/spf13/cobra"
)

func (a *app) decodeCommand() *cobra.Command {
	var outDir string
	cmd := &cobra.Command{
		Use:   "decode FILE...",
		Short: "Decode PNG files to raw 8-bit RGBA dumps",
		Long: "Decode PNG files to raw 8-bit RGBA dumps (.rgba), four bytes per pixel,\n" +
			"row-major, non-premultiplied. The dimensions are printed for each file.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.forEach(cmd, args, func(ctx context.Context, input string) error {
				return a.decode(input, outDir)
			})
		},
	}
	cmd.Flags().StringVar(&outDir, "out", "", "output directory (default: next to each input)")
	return cmd
}

func (a *app) decode(input, outDir string) error {
	data, err := readInput(input)
	if err != nil {
		return err
	}
	d, err := png.New(png.Options{SrcData: data, Logger: logging.GlobalLogger()})
	if err != nil {
		return err
	}
	g, err := d.Decode()
	if err != nil {
		return err
	}
	pix, err := png.ToRGBA(g)
	if err != nil {
		return err
	}

	out, err := outputPath(input, outDir, ".rgba")
	if err != nil {
		return err
	}
	if err := writeOutput(out, pix); err != nil {
		return err
	}
	a.println(fmt.Sprintf("%s: %dx%d -> %s (%d bytes)", input, g.Width(), g.Height(), out, len(pix)))
	return nil
}

package main

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"

	"github.com/jdeng/gopng/internal/config"
	"github.com/jdeng/gopng/internal/logging"
	"github.com/jdeng/gopng/internal/oops"
	"github.com/jdeng/gopng/pkg/png"
	"github.com/spf13/cobra"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// encodeFlags override the encode profile of the config file.
type encodeFlags struct {
	color     string
	depth     uint8
	interlace bool
	level     int
	filter    string
}

func (f *encodeFlags) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVar(&f.color, "color", "auto", "output color type: auto, gray, rgb, indexed, gray-alpha or rgba")
	flags.Uint8Var(&f.depth, "depth", 0, "output bit depth (0 keeps the source depth)")
	flags.BoolVar(&f.interlace, "interlace", false, "write Adam7 interlaced output")
	flags.IntVar(&f.level, "level", 0, "zlib level: 0 default, -1 store, 1..9")
	flags.StringVar(&f.filter, "filter", "adaptive", "scanline filter: adaptive, none, sub, up, average or paeth")
}

// apply returns the profile with every explicitly set flag applied.
func (f *encodeFlags) apply(cmd *cobra.Command, e config.EncodeConfig) (png.EncodeOptions, error) {
	flags := cmd.Flags()
	if flags.Changed("color") {
		e.ColorType = f.color
	}
	if flags.Changed("depth") {
		e.BitDepth = f.depth
	}
	if flags.Changed("interlace") {
		e.Interlace = f.interlace
	}
	if flags.Changed("level") {
		e.CompressionLevel = f.level
	}
	if flags.Changed("filter") {
		e.Filter = f.filter
	}
	return e.Options()
}

func (a *app) encodeCommand() *cobra.Command {
	var (
		outDir string
		ef     encodeFlags
	)
	cmd := &cobra.Command{
		Use:   "encode FILE...",
		Short: "Encode images as PNG",
		Long: "Encode PNG, BMP, TIFF, WebP, GIF or JPEG images as PNG files.\n" +
			"The output layout comes from --color and --depth, or from the source when unset.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := ef.apply(cmd, a.cfg.Encode)
			if err != nil {
				return err
			}
			opts.Logger = logging.GlobalLogger()
			return a.forEach(cmd, args, func(ctx context.Context, input string) error {
				return a.encode(input, outDir, opts)
			})
		},
	}
	cmd.Flags().StringVar(&outDir, "out", "", "output directory (default: next to each input)")
	ef.register(cmd)
	return cmd
}

func (a *app) encode(input, outDir string, opts png.EncodeOptions) error {
	data, err := readInput(input)
	if err != nil {
		return err
	}
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return oops.New(err, "failed to decode %s", input)
	}
	g, err := png.FromImage(img, opts.ColorType, opts.BitDepth)
	if err != nil {
		return err
	}
	// The grid now carries the requested layout.
	opts.ColorType, opts.BitDepth = 0, 0
	encoded, err := png.Encode(g, opts)
	if err != nil {
		return err
	}

	out, err := outputPath(input, outDir, ".png")
	if err != nil {
		return err
	}
	if err := writeOutput(out, encoded); err != nil {
		return err
	}
	a.println(fmt.Sprintf("%s (%s): %dx%d %s %d-bit -> %s (%d bytes)",
		input, format, g.Width(), g.Height(), g.ColorType(), g.BitDepth(), out, len(encoded)))
	return nil
}

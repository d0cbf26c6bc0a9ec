package main

import (
	"context"
	"fmt"

	"github.com/jdeng/gopng/internal/logging"
	"github.com/jdeng/gopng/internal/oops"
	"github.com/jdeng/gopng/pkg/png"
	"github.com/spf13/cobra"
)

func (a *app) roundtripCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "roundtrip FILE...",
		Short: "Decode, re-encode and decode again, checking the pixels survive",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := a.cfg.Encode.Options()
			if err != nil {
				return err
			}
			// Layout conversions are not lossless; keep the source layout.
			opts.ColorType, opts.BitDepth = 0, 0
			opts.Logger = logging.GlobalLogger()
			return a.forEach(cmd, args, func(ctx context.Context, input string) error {
				return a.roundtrip(input, opts)
			})
		},
	}
}

func (a *app) roundtrip(input string, opts png.EncodeOptions) error {
	data, err := readInput(input)
	if err != nil {
		return err
	}
	g, err := png.Decode(data)
	if err != nil {
		return err
	}
	encoded, err := png.Encode(g, opts)
	if err != nil {
		return err
	}
	again, err := png.Decode(encoded)
	if err != nil {
		return oops.New(err, "re-encoded %s does not decode", input)
	}
	if !g.Equal(again) {
		return oops.New(nil, "re-encoded %s decodes to different pixels", input)
	}
	a.println(fmt.Sprintf("%s: ok, %d bytes -> %d bytes", input, len(data), len(encoded)))
	return nil
}

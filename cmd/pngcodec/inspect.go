package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/jdeng/gopng/pkg/png"
	"github.com/spf13/cobra"
)

func (a *app) inspectCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect FILE...",
		Short: "Print the header and chunk list of PNG files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.forEach(cmd, args, a.inspect)
		},
	}
}

func (a *app) inspect(ctx context.Context, input string) error {
	data, err := readInput(input)
	if err != nil {
		return err
	}
	info, err := png.Inspect(data)
	if err != nil {
		return err
	}
	a.println(formatInfo(input, info))
	return nil
}

func formatInfo(name string, info *png.Info) string {
	h := info.Header
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %dx%d %s %d-bit, interlace %s, %d bytes filtered\n",
		name, h.Width, h.Height, h.ColorType, h.BitDepth, h.Interlace, info.FilteredSize)
	for _, c := range info.Chunks {
		fmt.Fprintf(&b, "  %s offset=%d length=%d crc=0x%08x", c.Type, c.Offset, c.Length, c.CRC)
		if !c.Critical {
			fmt.Fprintf(&b, " ancillary %s", c.Placement)
		}
		b.WriteByte('\n')
	}
	return b.String()
}

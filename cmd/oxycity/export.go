package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/Carmen-Shannon/oxy-city/engine/export"
	"github.com/klauspost/compress/zstd"
	"github.com/spf13/cobra"
)

func exportCmd(opts *rootOptions) *cobra.Command {
	var (
		out    string
		at     time.Duration
		packed bool
		indent bool
		level  int
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Dump the generated scene, lights and camera as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w, err := opts.world()
			if err != nil {
				return err
			}
			w.advance(at)
			doc := export.NewDocument(w.scene, w.camera)
			encOpts := export.Options{Zstd: packed, Indent: indent}
			if level > 0 {
				encOpts.Level = zstd.EncoderLevelFromZstd(level)
			}

			if out == "" || out == "-" {
				return export.Encode(cmd.OutOrStdout(), doc, encOpts)
			}
			n, err := writeDocument(out, doc, encOpts)
			if err != nil {
				return err
			}
			newPrinter(cmd.ErrOrStderr()).ok("%s: %d objects, %d lights, %d bytes", out, len(doc.Objects), len(doc.Lights), n)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "-", "file to write, - for stdout")
	cmd.Flags().DurationVar(&at, "at", 0, "scene time to capture")
	cmd.Flags().BoolVarP(&packed, "zstd", "z", false, "compress with zstd")
	cmd.Flags().BoolVar(&indent, "indent", false, "pretty-print the JSON")
	cmd.Flags().IntVar(&level, "level", 0, "zstd level (1-22), 0 for the library default")
	return cmd
}

func writeDocument(path string, doc export.Document, opts export.Options) (int64, error) {
	f, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("creating %s: %w", path, err)
	}
	cw := &countingWriter{w: f}
	if err := export.Encode(cw, doc, opts); err != nil {
		f.Close()
		return 0, err
	}
	if err := f.Close(); err != nil {
		return 0, fmt.Errorf("closing %s: %w", path, err)
	}
	return cw.n, nil
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}

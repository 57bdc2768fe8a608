package main

import (
	"errors"
	"os"

	"github.com/Carmen-Shannon/oxy-city/engine/export"
	"github.com/Carmen-Shannon/oxy-city/engine/layout"
	"github.com/spf13/cobra"
)

var errInvalid = errors.New("validation failed")

func validateCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate [dump...]",
		Short: "Check the layout tables and, optionally, exported scene dumps",
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := opts.world()
			if err != nil {
				return err
			}
			p := newPrinter(cmd.OutOrStdout())

			failed := !reportLayout(p, layout.Validate(w.generator.Tables()))
			for _, path := range args {
				if !reportDump(p, path) {
					failed = true
				}
			}
			if failed {
				return errInvalid
			}
			return nil
		},
	}
}

func reportLayout(p *printer, r *layout.Report) bool {
	for _, issue := range r.Warnings {
		p.warn("layout %s", issue)
	}
	for _, issue := range r.Errors {
		p.fail("layout %s", issue)
	}
	if r.Valid() {
		p.ok("layout: %d warnings", len(r.Warnings))
	}
	return r.Valid()
}

func reportDump(p *printer, path string) bool {
	data, err := os.ReadFile(path)
	if err == nil {
		err = export.Validate(data)
	}
	if err != nil {
		p.fail("%s: %v", path, err)
		return false
	}
	p.ok("%s", path)
	return true
}

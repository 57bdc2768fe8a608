package main

import (
	"encoding/json"

	"github.com/spf13/cobra"
)

func statsCmd(opts *rootOptions) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Summarise the generated scene for the selected theme",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w, err := opts.world()
			if err != nil {
				return err
			}
			w.advance(0)
			st := w.scene.Stats()

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(st)
			}

			p := newPrinter(cmd.OutOrStdout())
			p.heading("%s city", st.Theme)
			p.row("objects", st.Objects)
			p.row("transparent", st.Transparent)
			p.row("emissive", st.Emissive)
			p.row("point lights", st.PointLights)
			p.heading("groups")
			for _, kind := range st.GroupKinds() {
				p.row(kind, st.Groups[kind])
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the statistics as JSON")
	return cmd
}

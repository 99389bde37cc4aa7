package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/labreports/internal/catalog"
)

func newCatalogCmd(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Inspect the substance catalog",
	}

	check := &cobra.Command{
		Use:   "check",
		Short: "Load and validate a catalog, listing ambiguous aliases",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, _, cat, err := root.load(cmd)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "reference: %s\n", cat.Reference)
			for _, s := range cat.Substances {
				names := make([]string, len(s.Aliases))
				for i, a := range s.Aliases {
					names[i] = a.Text
				}
				fmt.Fprintf(w, "%-5s %s\n", s.Key, strings.Join(names, " | "))
			}
			if len(cat.Ambiguities) == 0 {
				fmt.Fprintln(w, "no ambiguous aliases")
				return nil
			}
			for _, a := range cat.Ambiguities {
				fmt.Fprintf(w, "ambiguous: %s\n", a)
			}
			return nil
		},
	}

	show := &cobra.Command{
		Use:   "default",
		Short: "Print the embedded default catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := cmd.OutOrStdout().Write(catalog.DefaultSource())
			return err
		},
	}

	cmd.AddCommand(check, show)
	return cmd
}

package main

import (
	"fmt"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/pccclearclinic/form-filling-template/pkg/engine"
	"github.com/pccclearclinic/form-filling-template/pkg/registry"
)

func newFieldsCmd(root *rootFlags) *cobra.Command {
	var catalogue bool
	cmd := &cobra.Command{
		Use:   "fields <document>",
		Short: "List the intake fields, or template fields with --catalogue, for a document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := registry.ParseDocumentID(args[0])
			if err != nil {
				return err
			}
			a, err := buildApp(cmd, root)
			if err != nil {
				return err
			}
			defer closeApp(a)

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			if catalogue {
				fields, err := engine.Catalogue(a.Registry, doc)
				if err != nil {
					return err
				}
				names := make([]string, 0, len(fields))
				for name := range fields {
					names = append(names, name)
				}
				sort.Strings(names)
				for _, name := range names {
					fmt.Fprintf(w, "%s\t%s\n", name, fields[name])
				}
				return w.Flush()
			}

			for _, field := range a.Registry.FieldsFor(doc) {
				required := ""
				if field.Required {
					required = "required"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", field.ID, field.Kind, required, strings.Join(engine.ResolveTargets(field, doc), ", "))
			}
			return w.Flush()
		},
	}
	cmd.Flags().BoolVar(&catalogue, "catalogue", false, "List template field names and types instead of intake fields")
	return cmd
}

package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pccclearclinic/form-filling-template/internal/prompt"
	"github.com/pccclearclinic/form-filling-template/pkg/delivery"
	"github.com/pccclearclinic/form-filling-template/pkg/registry"
)

// newPromptCmd asks the intake questions interactively. driver is swapped in
// tests.
func newPromptCmd(root *rootFlags) *cobra.Command {
	var document string
	cmd := &cobra.Command{
		Use:   "prompt",
		Short: "Answer the intake questions in the terminal and fill documents",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := buildApp(cmd, root)
			if err != nil {
				return err
			}
			defer closeApp(a)

			docs := registry.Documents()
			if document != allDocuments {
				doc, err := registry.ParseDocumentID(document)
				if err != nil {
					return err
				}
				docs = []registry.DocumentID{doc}
			}

			rec, err := prompt.Collect(cmd.Context(), promptDriver(), a.Registry, docs, prompt.Options{
				StrictNumbers: a.Config.StrictNumbers,
			})
			if err != nil {
				return err
			}

			results, err := generate(cmd, a, document, rec)
			if err != nil {
				return err
			}
			dispatcher := a.Dispatcher(delivery.DirSink{Dir: a.Config.OutputDir})
			for _, result := range results {
				if err := a.Assembler.Deliver(cmd.Context(), dispatcher, result); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), filepath.Join(a.Config.OutputDir, result.Filename))
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&document, "document", "d", allDocuments, "Document to fill: feeWaiver, statewidePacket or all")
	return cmd
}

var promptDriver = prompt.NewSurveyDriver

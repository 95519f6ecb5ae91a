package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pccclearclinic/form-filling-template/internal/app"
	"github.com/pccclearclinic/form-filling-template/pkg/delivery"
	"github.com/pccclearclinic/form-filling-template/pkg/engine"
	"github.com/pccclearclinic/form-filling-template/pkg/intake"
	"github.com/pccclearclinic/form-filling-template/pkg/registry"
)

const allDocuments = "all"

func newFillCmd(root *rootFlags) *cobra.Command {
	var (
		document   string
		intakePath string
		toStdout   bool
	)
	cmd := &cobra.Command{
		Use:   "fill",
		Short: "Fill documents from a JSON intake file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if toStdout && document == allDocuments {
				return errors.New("--stdout needs a single --document")
			}
			data, err := readIntake(cmd, intakePath)
			if err != nil {
				return err
			}
			rec, err := intake.Decode(data)
			if err != nil {
				return err
			}

			a, err := buildApp(cmd, root)
			if err != nil {
				return err
			}
			defer closeApp(a)

			results, err := generate(cmd, a, document, rec)
			if err != nil {
				return err
			}

			var sink delivery.Sink = delivery.DirSink{Dir: a.Config.OutputDir}
			if toStdout {
				sink = delivery.WriterSink{W: cmd.OutOrStdout()}
			}
			dispatcher := a.Dispatcher(sink)
			for _, result := range results {
				if err := a.Assembler.Deliver(cmd.Context(), dispatcher, result); err != nil {
					return err
				}
				if !toStdout {
					fmt.Fprintln(cmd.OutOrStdout(), filepath.Join(a.Config.OutputDir, result.Filename))
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&document, "document", "d", allDocuments, "Document to fill: feeWaiver, statewidePacket or all")
	cmd.Flags().StringVarP(&intakePath, "intake", "i", "-", "Intake JSON file, or - for stdin")
	cmd.Flags().BoolVar(&toStdout, "stdout", false, "Write the document to stdout instead of the output directory")
	return cmd
}

func readIntake(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "" || path == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read intake: %w", err)
	}
	return data, nil
}

func generate(cmd *cobra.Command, a *app.App, document string, rec intake.Record) ([]engine.Result, error) {
	if document == allDocuments {
		return a.Assembler.GenerateAll(cmd.Context(), rec)
	}
	doc, err := registry.ParseDocumentID(document)
	if err != nil {
		return nil, err
	}
	result, err := a.Assembler.Generate(cmd.Context(), engine.Request{Document: doc, Record: rec})
	if err != nil {
		return nil, err
	}
	return []engine.Result{result}, nil
}

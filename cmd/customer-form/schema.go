package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-customerform/internal/customer"
	"github.com/goliatone/go-customerform/pkg/openapi"
)

func newSchemaCmd() *cobra.Command {
	var (
		document bool
		docOpts  openapi.DocumentOptions
	)

	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON schema of the saved payload",
		RunE: func(cmd *cobra.Command, _ []string) error {
			controls, err := customer.NewControls()
			if err != nil {
				return err
			}

			var value any = openapi.SchemaFor(controls)
			if document {
				doc, err := openapi.NewDocument(cmd.Context(), controls,
					openapi.WithTitle(docOpts.Title),
					openapi.WithVersion(docOpts.Version),
					openapi.WithOperation(docOpts.Path, docOpts.OperationID),
					openapi.WithSchemaName(docOpts.SchemaName),
				)
				if err != nil {
					return err
				}
				value = doc
			}

			raw, err := json.MarshalIndent(value, "", "  ")
			if err != nil {
				return fmt.Errorf("encode schema: %w", err)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(raw))
			return err
		},
	}
	cmd.Flags().BoolVar(&document, "document", false, "wrap the schema in an OpenAPI document")
	cmd.Flags().StringVar(&docOpts.Title, "title", "", "document title (defaults to the form label)")
	cmd.Flags().StringVar(&docOpts.Version, "version", "", "document version (defaults to 1.0.0)")
	cmd.Flags().StringVar(&docOpts.Path, "path", "", "path of the submit operation (defaults to /customers)")
	cmd.Flags().StringVar(&docOpts.OperationID, "operation-id", "", "operationId of the submit operation (defaults to saveCustomer)")
	cmd.Flags().StringVar(&docOpts.SchemaName, "schema-name", "", "components.schemas key (defaults to Customer)")
	return cmd
}

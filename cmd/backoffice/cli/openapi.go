package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mkrentals/backoffice/internal/openapi"
)

func newOpenAPICmd() *cobra.Command {
	var outputFile string

	cmd := &cobra.Command{
		Use:   "openapi",
		Short: "Print the OpenAPI document for the auth API",
		Example: `  backoffice openapi              # print to stdout
  backoffice openapi -o spec.json # write to file`,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := settingsFrom(viper.GetViper())
			if err != nil {
				return err
			}
			if outputFile == "" {
				return runOpenAPI(settings.Auth.CookieName, settings.App.BaseURL, os.Stdout)
			}

			f, err := os.Create(outputFile)
			if err != nil {
				return fmt.Errorf("create %s: %w", outputFile, err)
			}
			defer f.Close()
			if err := runOpenAPI(settings.Auth.CookieName, settings.App.BaseURL, f); err != nil {
				return err
			}
			fmt.Printf("Wrote %s\n", outputFile)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Write the document to a file instead of stdout")

	return cmd
}

func runOpenAPI(cookieName, baseURL string, out io.Writer) error {
	doc := openapi.Generate(cookieName, baseURL)
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

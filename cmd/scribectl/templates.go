package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/af-corp/scribe/internal/template"
	"github.com/af-corp/scribe/internal/types"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newTemplatesCmd(client func() *apiClient) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "templates",
		Short: "Inspect and register content templates",
	}
	cmd.AddCommand(
		newTemplatesListCmd(client),
		newTemplatesShowCmd(client),
		newTemplatesRegisterCmd(client),
	)
	return cmd
}

func newTemplatesListCmd(client func() *apiClient) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List available templates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var resp struct {
				Templates []types.TemplateInfo `json:"templates"`
				Count     int                  `json:"count"`
			}
			if err := client().do("GET", "/v1/templates", nil, &resp); err != nil {
				return err
			}
			if len(resp.Templates) == 0 {
				fmt.Println("No templates registered.")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tCATEGORY\tREQUIRED\tDESCRIPTION")
			for _, t := range resp.Templates {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
					t.Name, t.Category, strings.Join(t.RequiredVariables, ","), t.Description)
			}
			return w.Flush()
		},
	}
}

func newTemplatesShowCmd(client func() *apiClient) *cobra.Command {
	return &cobra.Command{
		Use:   "show <name>",
		Short: "Show one template in detail",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var info types.TemplateInfo
			if err := client().do("GET", "/v1/templates/"+args[0], nil, &info); err != nil {
				return err
			}

			fmt.Printf("Name:        %s\n", info.Name)
			fmt.Printf("Category:    %s\n", info.Category)
			fmt.Printf("Description: %s\n", info.Description)
			fmt.Printf("Required:    %s\n", strings.Join(info.RequiredVariables, ", "))
			if len(info.OptionalVariables) > 0 {
				fmt.Printf("Optional:    %s\n", strings.Join(info.OptionalVariables, ", "))
			}
			return nil
		},
	}
}

func newTemplatesRegisterCmd(client func() *apiClient) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Register a template from a YAML file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(file)
			if err != nil {
				return err
			}

			var tmpl template.Template
			if err := yaml.Unmarshal(data, &tmpl); err != nil {
				return fmt.Errorf("parse %s: %w", file, err)
			}

			var info types.TemplateInfo
			if err := client().do("POST", "/v1/templates", tmpl, &info); err != nil {
				return err
			}

			fmt.Printf("Registered template %q.\n", info.Name)
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "path to the template YAML file")
	cmd.MarkFlagRequired("file")
	return cmd
}

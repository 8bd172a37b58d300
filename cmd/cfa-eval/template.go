package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Jonp4208/cfa-eval-app-sub002/internal/db"
	"github.com/Jonp4208/cfa-eval-app-sub002/internal/template"
)

var templateCmd = &cobra.Command{
	Use:   "template",
	Short: "Manage evaluation templates",
}

var templateLoadCmd = &cobra.Command{
	Use:   "load <file.json>",
	Short: "Validate a template document and store it",
	Long: `Validate a JSON evaluation-template document against the embedded
schema and store it. Prints the new template's ID on success.`,
	Args: cobra.ExactArgs(1),
	RunE: runTemplateLoad,
}

var templateCheckCmd = &cobra.Command{
	Use:   "check <file.json>",
	Short: "Validate a template document without storing it",
	Args:  cobra.ExactArgs(1),
	RunE:  runTemplateCheck,
}

func init() {
	templateCmd.AddCommand(templateLoadCmd)
	templateCmd.AddCommand(templateCheckCmd)
	rootCmd.AddCommand(templateCmd)
}

func runTemplateCheck(cmd *cobra.Command, args []string) error {
	doc, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read template file: %w", err)
	}

	tmpl, err := template.ValidateDocument(doc)
	if err != nil {
		return err
	}
	cmd.Printf("Template %q is valid: %d sections\n", tmpl.Name, len(tmpl.Sections))
	return nil
}

func runTemplateLoad(cmd *cobra.Command, args []string) error {
	doc, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read template file: %w", err)
	}

	tmpl, err := template.ValidateDocument(doc)
	if err != nil {
		return err
	}

	cfg, err := loadServeConfig()
	if err != nil {
		return err
	}

	ctx := context.Background()
	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close()

	if err := database.EnsureSchema(ctx); err != nil {
		return err
	}

	id, err := database.CreateTemplate(ctx, tmpl.Name, tmpl.Sections)
	if err != nil {
		return err
	}
	cmd.Printf("Stored template %q as %s\n", tmpl.Name, id)
	return nil
}

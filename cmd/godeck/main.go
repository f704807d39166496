package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	godeck "github.com/VantageDataChat/GoDeck"
)

var (
	requestPath  string
	templatePath string
	outputDir    string
	verbose      bool
)

func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func loadRequest() (*godeck.PresentationRequest, error) {
	req, err := godeck.LoadPresentationRequest(requestPath)
	if err != nil {
		return nil, err
	}
	if templatePath != "" {
		tpl, err := godeck.LoadTemplateConfig(templatePath)
		if err != nil {
			return nil, err
		}
		req.Template = tpl
	}
	return req, nil
}

func newGenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Render a presentation request into a document",
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := loadRequest()
			if err != nil {
				return err
			}
			gen := godeck.NewGenerator(godeck.Options{
				Logger:    newLogger(),
				OutputDir: outputDir,
			})
			res := gen.Generate(req)
			if !res.Success {
				return fmt.Errorf("generation failed: %s", res.Message)
			}
			fmt.Fprintln(cmd.OutOrStdout(), res.FilePath)
			return nil
		},
	}
	cmd.Flags().StringVarP(&requestPath, "request", "r", "", "path to the request JSON file")
	cmd.Flags().StringVarP(&templatePath, "template", "t", "", "path to a template YAML file (overrides the request's inline template)")
	cmd.Flags().StringVarP(&outputDir, "out", "o", "", "directory the document is written into")
	_ = cmd.MarkFlagRequired("request")
	return cmd
}

func newValidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check a request and template without rendering",
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := loadRequest()
			if err != nil {
				return err
			}
			if err := godeck.ValidateTemplate(req.Template, req.Slides); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "ok: %d slides\n", len(req.Slides))
			return nil
		},
	}
	cmd.Flags().StringVarP(&requestPath, "request", "r", "", "path to the request JSON file")
	cmd.Flags().StringVarP(&templatePath, "template", "t", "", "path to a template YAML file")
	_ = cmd.MarkFlagRequired("request")
	return cmd
}

func main() {
	root := &cobra.Command{
		Use:           "godeck",
		Short:         "Template-driven slide deck generator",
		Version:       godeck.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	root.AddCommand(newGenerateCmd(), newValidateCmd())
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

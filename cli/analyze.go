package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"repo_analyzer/analyzer"
	"repo_analyzer/exporter"
)

func analyzeCmd(root *rootOptions) *cobra.Command {
	var out string
	var pdfPath string

	c := &cobra.Command{
		Use:   "analyze <github-url | owner/repo>",
		Short: "Analyze a repository and write the HTML report (and optionally a PDF)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := root.load()
			if err != nil {
				return err
			}
			coord, err := buildCoordinator(cfg, root.verbose, logger)
			if err != nil {
				return err
			}
			exp, err := buildExporter(cfg, root.verbose, logger)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), time.Duration(cfg.TimeoutSeconds)*time.Second)
			defer cancel()
			bundle, err := coord.Run(ctx, args[0], func(s analyzer.Step) {
				fmt.Fprintf(root.stderr, "[step %d/%d] %s\n", s.Index, s.Total, s.Message)
			})
			if err != nil {
				return err
			}

			if err := writeHTML(exp, bundle, out, root.stdout); err != nil {
				return err
			}
			if pdfPath != "" {
				if err := writePDF(exp, bundle, pdfPath); err != nil {
					return err
				}
				fmt.Fprintf(root.stderr, "[pdf] wrote %s\n", pdfPath)
			}
			return nil
		},
	}

	c.Flags().StringVarP(&out, "out", "o", "", "write the HTML report to this file (default stdout)")
	c.Flags().StringVar(&pdfPath, "pdf", "", "also export the PDF report to this file")
	return c
}

func writeHTML(exp *exporter.Exporter, b *exporter.Bundle, path string, stdout io.Writer) error {
	if path == "" {
		return exp.RenderHTML(b, stdout)
	}
	return writeFile(path, func(w io.Writer) error { return exp.RenderHTML(b, w) })
}

func writePDF(exp *exporter.Exporter, b *exporter.Bundle, path string) error {
	return writeFile(path, func(w io.Writer) error { return exp.Export(b, w) })
}

func writeFile(path string, render func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := render(f); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	return f.Close()
}

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/MrJamesThe3rd/cabinetdoc/internal/export"
	"github.com/MrJamesThe3rd/cabinetdoc/internal/render"
)

func (c *cli) exportCmd() *cobra.Command {
	var (
		outDir, formatName, typ, status string
		workbook                        bool
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Render documents into a directory with a summary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := render.ParseFormat(formatName)
			if err != nil {
				return err
			}

			filter, err := listFilter(typ, status)
			if err != nil {
				return err
			}

			items, err := c.app.Exporter.Export(cmd.Context(), filter, f, outDir)
			if err != nil {
				return err
			}

			summary := export.Summary(items)
			if err := os.WriteFile(filepath.Join(outDir, export.SummaryFile), []byte(summary), 0o644); err != nil {
				return fmt.Errorf("writing summary: %w", err)
			}

			if workbook {
				if err := writeWorkbook(filepath.Join(outDir, "documents.xlsx"), items); err != nil {
					return err
				}
			}

			fmt.Fprint(cmd.OutOrStdout(), summary)

			return nil
		},
	}

	cmd.Flags().StringVarP(&outDir, "out", "o", "export", "output directory")
	cmd.Flags().StringVarP(&formatName, "format", "f", "pdf", "output format (pdf, word)")
	cmd.Flags().StringVar(&typ, "type", "", "only this document type")
	cmd.Flags().StringVar(&status, "status", "", "only this status")
	cmd.Flags().BoolVar(&workbook, "xlsx", false, "also write documents.xlsx")

	return cmd
}

func writeWorkbook(path string, items []export.Item) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating workbook: %w", err)
	}

	if err := export.WriteWorkbook(f, items); err != nil {
		_ = f.Close()
		return err
	}

	return f.Close()
}

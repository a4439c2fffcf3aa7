package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/MrJamesThe3rd/cabinetdoc/internal/client"
	"github.com/MrJamesThe3rd/cabinetdoc/internal/document"
	"github.com/MrJamesThe3rd/cabinetdoc/internal/format"
	"github.com/MrJamesThe3rd/cabinetdoc/internal/importer"
	"github.com/MrJamesThe3rd/cabinetdoc/internal/library"
)

var errInvalidDocument = errors.New("document invalide")

func (c *cli) validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <draft.json|draft.yaml>",
		Short: "Validate a draft without saving it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			params, err := readDraft(args[0])
			if err != nil {
				return err
			}

			params.Form.Recalculate()

			report := c.app.Documents.Validate(cmd.Context(), params.Type, params.ClientID, params.Form)

			out := cmd.OutOrStdout()
			for _, msg := range report.Messages() {
				fmt.Fprintln(out, msg)
			}

			if report.Blocking() {
				return errInvalidDocument
			}

			fmt.Fprintln(out, "OK")

			return nil
		},
	}
}

func readDraft(path string) (library.CreateParams, error) {
	src, err := importer.SourceFromFilename(path)
	if err != nil {
		return library.CreateParams{}, err
	}

	f, err := os.Open(path)
	if err != nil {
		return library.CreateParams{}, fmt.Errorf("opening draft: %w", err)
	}
	defer f.Close()

	d, err := importer.ParseDraft(f, src)
	if err != nil {
		return library.CreateParams{}, err
	}

	return d.Params()
}

func (c *cli) importCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Import a draft document (.json, .yaml) or a client list (.csv, .xlsx)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := importer.SourceFromFilename(args[0])
			if err != nil {
				return err
			}

			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("opening %s: %w", args[0], err)
			}
			defer f.Close()

			out := cmd.OutOrStdout()

			switch src {
			case importer.SourceCSV, importer.SourceXLSX:
				res, err := c.app.Importer.ImportClients(cmd.Context(), src, f)
				if err != nil {
					return err
				}

				fmt.Fprintf(out, "%d client(s) importé(s), %d doublon(s), %d invalide(s)\n",
					len(res.Imported), len(res.Duplicates), len(res.Invalid))

				for _, row := range res.Invalid {
					fmt.Fprintf(out, "  %s: %v\n", row.Params.Nom, row.Err)
				}
			default:
				doc, err := c.app.Importer.ImportDraft(cmd.Context(), src, f)
				if err != nil {
					var verr *library.ValidationError
					if errors.As(err, &verr) {
						for _, msg := range verr.Report.Messages() {
							fmt.Fprintln(out, msg)
						}
					}

					return err
				}

				fmt.Fprintf(out, "%s N° %s enregistré (%s)\n", doc.Type.Label(), doc.Number, doc.ID)
			}

			return nil
		},
	}
}

func (c *cli) listCmd() *cobra.Command {
	var typ, status, query string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored documents, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			filter, err := listFilter(typ, status)
			if err != nil {
				return err
			}

			filter.Query = query

			docs, err := c.app.Documents.List(cmd.Context(), filter)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, d := range docs {
				fmt.Fprintf(out, "%-12s %-18s %-9s %-30s %s\n",
					d.EffectiveNumber(),
					d.Type.Label(),
					d.Status,
					c.app.Clients.Lookup(cmd.Context(), d.ClientID).Name(),
					format.FormatCurrency(d.Amount(), true),
				)
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&typ, "type", "", "document type (FEE_NOTE, CAPITAL_REPORT)")
	cmd.Flags().StringVar(&status, "status", "", "status (draft, completed, archived)")
	cmd.Flags().StringVarP(&query, "query", "q", "", "search client name or number")

	return cmd
}

func listFilter(typ, status string) (library.ListFilter, error) {
	var filter library.ListFilter

	if typ != "" {
		t, err := document.ParseType(typ)
		if err != nil {
			return filter, err
		}

		filter.Type = &t
	}

	if status != "" {
		st := document.Status(status)
		if !st.Valid() {
			return filter, fmt.Errorf("%w: %q", library.ErrInvalidStatus, status)
		}

		filter.Status = &st
	}

	return filter, nil
}

func (c *cli) nextNumberCmd() *cobra.Command {
	var (
		typ  string
		year int
	)

	cmd := &cobra.Command{
		Use:   "next-number",
		Short: "Print the number the next document of a type will get",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			t, err := document.ParseType(typ)
			if err != nil {
				return err
			}

			n, err := c.app.Documents.NextNumber(cmd.Context(), t, year)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), n)

			return nil
		},
	}

	cmd.Flags().StringVar(&typ, "type", string(document.TypeFeeNote), "document type (FEE_NOTE, CAPITAL_REPORT)")
	cmd.Flags().IntVar(&year, "year", time.Now().Year(), "numbering year")

	return cmd
}

func (c *cli) renumberCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "renumber",
		Short: "Make every (type, year) sequence contiguous again",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			n, err := c.app.Documents.Renumber(cmd.Context())
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%d document(s) renuméroté(s)\n", n)

			return nil
		},
	}
}

func (c *cli) checkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Report numbering gaps and malformed numbers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			gaps, malformed, err := c.app.Documents.Check(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()

			for _, g := range gaps {
				fmt.Fprintf(out, "trou %d/%s: %v\n", g.Year, g.Code, g.Positions)
			}

			for _, n := range malformed {
				fmt.Fprintf(out, "numéro invalide: %s\n", n)
			}

			if len(gaps) == 0 && len(malformed) == 0 {
				fmt.Fprintln(out, "OK")
			}

			return nil
		},
	}
}

func (c *cli) clientsCmd() *cobra.Command {
	var query string

	cmd := &cobra.Command{
		Use:   "clients",
		Short: "List clients with their ids",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			list, err := c.app.Clients.List(cmd.Context(), client.ListFilter{Query: query})
			if err != nil {
				return err
			}

			for _, cl := range list {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", cl.ID, cl.Nom, cl.Adresse)
			}

			return nil
		},
	}

	cmd.Flags().StringVarP(&query, "query", "q", "", "search nom, adresse, rc, nif, nis")

	return cmd
}

package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/rshade/pokedeck/internal/catalog"
	"github.com/rshade/pokedeck/internal/gallery"
	"github.com/rshade/pokedeck/internal/tui"
)

// Output formats accepted by --output.
const (
	OutputTable  = "table"
	OutputJSON   = "json"
	OutputNDJSON = "ndjson"
	OutputCards  = "cards"
)

// ErrUnknownOutput is returned for an unsupported --output value.
var ErrUnknownOutput = errors.New("output must be one of table, json, ndjson, cards")

// tabPadding is the minimum column padding for tabwriter output.
const tabPadding = 2

// NewListCmd creates the list command, which pages through the whole catalog and prints it.
func NewListCmd() *cobra.Command {
	var (
		client clientFlags
		output string
		limit  int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print catalog records without the interactive gallery",
		Long: `Fetches pages from the catalog server until it reports the end of data
(or --limit records have been collected) and prints them.

A connection failure stops the listing with an error; any records gathered
before the failure are still printed.`,
		Example: `  # Table of every record
  pokedeck list

  # First 50 records as JSON
  pokedeck list --limit 50 --output json

  # One JSON object per line, for piping into jq
  pokedeck list --output ndjson | jq .name

  # Coloured cards, as browse prints them on terminals it cannot take over
  pokedeck list --output cards`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runList(cmd, &client, output, limit)
		},
	}

	client.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", OutputTable, "output format: table, json, ndjson, cards")
	cmd.Flags().IntVar(&limit, "limit", 0, "stop after this many records (0 = all)")

	return cmd
}

func runList(cmd *cobra.Command, client *clientFlags, output string, limit int) error {
	if err := checkOutputFormat(output); err != nil {
		return err
	}

	backend, err := client.resolve(cmd)
	if err != nil {
		return err
	}
	ctrl, err := newController(cmd, backend)
	if err != nil {
		return err
	}

	records, fetchErr := collectRecords(cmd.Context(), ctrl, limit)
	if err = renderRecords(cmd.OutOrStdout(), output, records); err != nil {
		return err
	}
	return fetchErr
}

func checkOutputFormat(output string) error {
	switch output {
	case OutputTable, OutputJSON, OutputNDJSON, OutputCards:
		return nil
	default:
		return fmt.Errorf("%w: got %q", ErrUnknownOutput, output)
	}
}

// collectRecords drives ctrl until it is exhausted or limit records are held.
// A failed page ends collection with an error; records merged so far are returned.
func collectRecords(ctx context.Context, ctrl *gallery.Controller, limit int) ([]catalog.Record, error) {
	var fetchErr error

	for !ctrl.Exhausted() {
		if limit > 0 && ctrl.Len() >= limit {
			break
		}
		report := ctrl.FetchNextPage(ctx)
		if report.Notice != nil {
			fetchErr = noticeError(report.Notice)
			break
		}
		if report.Outcome == gallery.OutcomeSkipped {
			break
		}
	}

	records := ctrl.State().Records
	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}
	return records, fetchErr
}

func noticeError(n *gallery.Notice) error {
	if n.Kind == gallery.NoticeConnectionFailed {
		return fmt.Errorf("%s: %w", n.Message, n.Err)
	}
	return fmt.Errorf("fetching catalog: %w", n.Err)
}

// renderRecords writes records in the requested format.
func renderRecords(w io.Writer, output string, records []catalog.Record) error {
	switch output {
	case OutputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if records == nil {
			records = []catalog.Record{}
		}
		return enc.Encode(records)
	case OutputNDJSON:
		enc := json.NewEncoder(w)
		for _, rec := range records {
			if err := enc.Encode(rec); err != nil {
				return err
			}
		}
		return nil
	case OutputTable:
		return renderTable(w, records)
	case OutputCards:
		return tui.PrintCards(w, records, tui.TerminalWidth())
	default:
		return fmt.Errorf("%w: got %q", ErrUnknownOutput, output)
	}
}

func renderTable(w io.Writer, records []catalog.Record) error {
	tw := tabwriter.NewWriter(w, 0, 0, tabPadding, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tTYPES\tREGION\tIMAGE")
	for _, rec := range records {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			rec.ID,
			orDash(rec.Name),
			orDash(strings.Join(rec.TypeNames(), ",")),
			orDash(rec.Region),
			orDash(rec.FrontImageURL()),
		)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	p := message.NewPrinter(language.English)
	_, err := p.Fprintf(w, "\n%d records\n", len(records))
	return err
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

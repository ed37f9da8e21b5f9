package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"
	_ "modernc.org/sqlite"

	"github.com/certsend/certsend/internal/audit"
	"github.com/certsend/certsend/internal/batch"
	"github.com/certsend/certsend/internal/certs"
	"github.com/certsend/certsend/internal/config"
	"github.com/certsend/certsend/internal/roster"
	"github.com/certsend/certsend/pkg/match"
)

var matchCmd = &cobra.Command{
	Use:   "match <roster.csv>",
	Short: "Match a recipient roster against the certificate directory",
	Long: `Match a recipient roster against the certificate directory.

Examples:
  certsend match roster.csv
  certsend match roster.csv --certs ./2024-certificates
  certsend match roster.csv --json`,
	Args: cobra.ExactArgs(1),
	RunE: runMatchCmd,
}

func init() {
	rootCmd.AddCommand(matchCmd)
	matchCmd.Flags().String("certs", "", "Certificate directory (overrides config)")
	matchCmd.Flags().Bool("no-audit", false, "Skip writing decisions to the audit store")
}

// matchRow is the JSON-friendly representation of one roster row outcome.
type matchRow struct {
	Recipient   string `json:"recipient"`
	Email       string `json:"email,omitempty"`
	File        string `json:"file,omitempty"`
	Path        string `json:"path,omitempty"`
	Tier        string `json:"tier"`
	Score       int    `json:"score,omitempty"`
	Similarity  int    `json:"similarity,omitempty"`
	Confidence  int    `json:"confidence"`
	NeedsReview bool   `json:"needs_review"`
}

func runMatchCmd(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	certsDir, _ := cmd.Flags().GetString("certs")
	if certsDir == "" {
		certsDir = cfg.Certificates.Dir
	}
	noAudit, _ := cmd.Flags().GetBool("no-audit")

	results, err := runBatch(cmd, cfg, args[0], certsDir, !noAudit)
	if err != nil {
		return err
	}

	rows := toRows(results)
	if jsonOutput {
		return json.NewEncoder(os.Stdout).Encode(rows)
	}
	printMatchTable(rows)
	return nil
}

// runBatch loads the roster and pool and runs the parallel matcher,
// optionally recording decisions.
func runBatch(cmd *cobra.Command, cfg *config.Config, rosterPath, certsDir string, record bool) ([]batch.RowResult, error) {
	recipients, skipped, err := roster.Load(rosterPath)
	if err != nil {
		return nil, err
	}
	if skipped > 0 {
		slog.Warn("roster rows without a name skipped", "count", skipped)
	}

	pool, err := certs.Scan(certsDir)
	if err != nil {
		return nil, err
	}
	slog.Info("matching", "recipients", len(recipients), "certificates", len(pool))

	var recorder batch.Recorder
	if record {
		store, closeDB, err := openAuditStore(cfg.Audit.Path)
		if err != nil {
			return nil, err
		}
		defer closeDB()
		recorder = store
	}

	matcher := match.New(match.Config{
		FuzzyThreshold: cfg.Matcher.FuzzyThreshold,
		NoiseWords:     cfg.Matcher.NoiseWords,
	})
	runner := batch.NewRunner(matcher, recorder, slog.Default(), cfg.Matcher.Workers)
	return runner.Run(cmd.Context(), recipients, pool)
}

func openAuditStore(path string) (*audit.Store, func(), error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("creating audit dir: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, nil, fmt.Errorf("opening audit db: %w", err)
	}
	store := audit.NewStore(db)
	if err := store.Init(); err != nil {
		db.Close()
		return nil, nil, err
	}
	return store, func() { db.Close() }, nil
}

func toRows(results []batch.RowResult) []matchRow {
	rows := make([]matchRow, 0, len(results))
	for _, res := range results {
		row := matchRow{
			Recipient: res.Recipient.Name,
			Email:     res.Recipient.Email,
			Tier:      audit.TierNone,
		}
		if r := res.Result; r != nil {
			row.File = r.Candidate.Filename
			if p, ok := r.Candidate.Ref.(string); ok {
				row.Path = p
			}
			row.Tier = r.Tier.String()
			row.Score = r.Score
			row.Similarity = r.Similarity
			row.Confidence = r.Confidence
			row.NeedsReview = r.NeedsReview
		} else {
			row.NeedsReview = true
		}
		rows = append(rows, row)
	}
	return rows
}

func printMatchTable(rows []matchRow) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "RECIPIENT\tFILE\tTIER\tCONFIDENCE\tREVIEW")
	for _, row := range rows {
		review := ""
		if row.NeedsReview {
			review = "yes"
		}
		file := row.File
		if file == "" {
			file = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n", row.Recipient, file, row.Tier, row.Confidence, review)
	}
	w.Flush()
}

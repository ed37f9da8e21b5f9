package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/certsend/certsend/internal/audit"
)

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Inspect recorded match decisions",
}

var auditReviewCmd = &cobra.Command{
	Use:   "review",
	Short: "List match decisions flagged for human review",
	Args:  cobra.NoArgs,
	RunE:  runAuditReviewCmd,
}

var auditListSince time.Duration

var auditListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded match decisions",
	Args:  cobra.NoArgs,
	RunE:  runAuditListCmd,
}

func init() {
	rootCmd.AddCommand(auditCmd)
	auditCmd.AddCommand(auditReviewCmd)
	auditCmd.AddCommand(auditListCmd)
	auditListCmd.Flags().DurationVar(&auditListSince, "since", 0, "only decisions made within this window (e.g. 24h); 0 lists all")
}

func runAuditReviewCmd(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	store, closeDB, err := openAuditStore(cfg.Audit.Path)
	if err != nil {
		return err
	}
	defer closeDB()

	decisions, err := store.NeedingReview()
	if err != nil {
		return err
	}

	if jsonOutput {
		return json.NewEncoder(os.Stdout).Encode(decisions)
	}

	if len(decisions) == 0 {
		fmt.Println("No decisions need review")
		return nil
	}
	return printDecisionTable(os.Stdout, decisions)
}

func runAuditListCmd(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	store, closeDB, err := openAuditStore(cfg.Audit.Path)
	if err != nil {
		return err
	}
	defer closeDB()

	decisions, err := store.Decisions(listCutoff(time.Now(), auditListSince))
	if err != nil {
		return err
	}

	if jsonOutput {
		return json.NewEncoder(os.Stdout).Encode(decisions)
	}

	if len(decisions) == 0 {
		fmt.Println("No decisions recorded")
		return nil
	}
	return printDecisionTable(os.Stdout, decisions)
}

// listCutoff converts the --since window into an absolute cutoff time.
// A zero window selects everything.
func listCutoff(now time.Time, since time.Duration) time.Time {
	if since <= 0 {
		return time.Time{}
	}
	return now.Add(-since)
}

func printDecisionTable(out io.Writer, decisions []audit.Decision) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "WHEN\tRECIPIENT\tFILE\tTIER\tCONFIDENCE\tREVIEW")
	for _, d := range decisions {
		file := d.Filename
		if file == "" {
			file = "-"
		}
		review := "no"
		if d.NeedsReview {
			review = "yes"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%s\n",
			d.DecidedAt.Format("2006-01-02 15:04"), d.Recipient, file, d.Tier, d.Confidence, review)
	}
	return w.Flush()
}

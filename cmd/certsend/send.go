package main

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/certsend/certsend/internal/audit"
	"github.com/certsend/certsend/internal/batch"
	"github.com/certsend/certsend/internal/mailer"
)

var sendCmd = &cobra.Command{
	Use:   "send <roster.csv>",
	Short: "Match the roster and email each recipient their certificate",
	Long: `Match the roster and email each recipient their certificate.

Matches needing human review are skipped unless --force is given;
recipients without a match or without an email address are always
skipped and reported.

Examples:
  certsend send roster.csv --dry-run
  certsend send roster.csv
  certsend send roster.csv --force`,
	Args: cobra.ExactArgs(1),
	RunE: runSendCmd,
}

func init() {
	rootCmd.AddCommand(sendCmd)
	sendCmd.Flags().Bool("dry-run", false, "Print what would be sent without sending")
	sendCmd.Flags().Bool("force", false, "Also send matches flagged for review")
	sendCmd.Flags().String("certs", "", "Certificate directory (overrides config)")
}

func runSendCmd(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	dryRun, _ := cmd.Flags().GetBool("dry-run")
	force, _ := cmd.Flags().GetBool("force")
	certsDir, _ := cmd.Flags().GetString("certs")
	if certsDir == "" {
		certsDir = cfg.Certificates.Dir
	}

	if !dryRun {
		if errs := cfg.ValidateSMTP(); len(errs) > 0 {
			for _, e := range errs {
				slog.Error("invalid config", "error", e)
			}
			return errInvalidConfig
		}
	}

	results, err := runBatch(cmd, cfg, args[0], certsDir, !dryRun)
	if err != nil {
		return err
	}

	var store *audit.Store
	if !dryRun {
		s, closeDB, err := openAuditStore(cfg.Audit.Path)
		if err != nil {
			return err
		}
		defer closeDB()
		store = s
	}

	transport := mailer.NewSMTPTransport(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.Username, cfg.SMTP.Password)
	m := mailer.New(transport, mailer.Config{
		From:    cfg.SMTP.From,
		Retries: cfg.SMTP.Retries,
	}, slog.Default())

	var sent, skipped, failed int
	for _, res := range results {
		reason := skipReason(res, force)
		if reason != "" {
			skipped++
			slog.Warn("skipping recipient", "recipient", res.Recipient.Name, "reason", reason)
			recordSend(store, res, audit.StatusSkipped, reason)
			continue
		}

		path, _ := res.Result.Candidate.Ref.(string)
		if dryRun {
			fmt.Printf("would send %s to %s <%s>\n",
				res.Result.Candidate.Filename, res.Recipient.Name, res.Recipient.Email)
			sent++
			continue
		}

		err := m.Send(cmd.Context(), mailer.Message{
			To:             res.Recipient.Email,
			Subject:        cfg.SMTP.Subject,
			Body:           renderBody(cfg.SMTP.Body, res.Recipient.Name),
			AttachmentPath: path,
			AttachmentName: res.Result.Candidate.Filename,
		})
		if err != nil {
			failed++
			slog.Error("send failed", "recipient", res.Recipient.Name, "error", err)
			recordSend(store, res, audit.StatusFailed, err.Error())
			continue
		}
		sent++
		recordSend(store, res, audit.StatusSent, "")
	}

	if dryRun {
		fmt.Printf("\ndry run: %d to send, %d skipped\n", sent, skipped)
		return nil
	}
	fmt.Printf("\nsent %d, skipped %d, failed %d\n", sent, skipped, failed)
	if failed > 0 {
		return fmt.Errorf("%d deliveries failed", failed)
	}
	return nil
}

// skipReason returns why a row cannot be sent, or "" when it can.
func skipReason(res batch.RowResult, force bool) string {
	switch {
	case res.Result == nil:
		return "no match"
	case res.Recipient.Email == "":
		return "no email address"
	case res.Result.NeedsReview && !force:
		return "needs review"
	}
	return ""
}

// renderBody substitutes the recipient name into the configured body
// template. A plain string replace keeps templates writable by
// non-programmers.
func renderBody(body, name string) string {
	if body == "" {
		body = "Hello {name},\n\nPlease find your certificate attached.\n"
	}
	return strings.ReplaceAll(body, "{name}", name)
}

func recordSend(store *audit.Store, res batch.RowResult, status, errMsg string) {
	if store == nil {
		return
	}
	filename := ""
	if res.Result != nil {
		filename = res.Result.Candidate.Filename
	}
	if _, err := store.RecordSend(audit.SendAttempt{
		Recipient: res.Recipient.Name,
		Email:     res.Recipient.Email,
		Filename:  filename,
		Status:    status,
		Error:     errMsg,
	}); err != nil {
		slog.Error("recording send attempt", "error", err)
	}
}

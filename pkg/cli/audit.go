package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"slices"
	"text/tabwriter"
	"time"

	"github.com/example/brewbuddy/pkg/config"
	"github.com/example/brewbuddy/pkg/models"
	"github.com/example/brewbuddy/pkg/pricing"
	"github.com/example/brewbuddy/pkg/repository"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"
)

var errNoAuditStore = errors.New("neither mongodb nor mysql is enabled in the config")

// auditTrail and orderArchive are the read sides of the order sinks.
type auditTrail interface {
	GetAuditLogs(ctx context.Context, entityID string, limit int64) ([]*repository.AuditLog, error)
}

type orderArchive interface {
	Get(ctx context.Context, orderID string) (*models.OrderRecord, error)
}

func newAuditCommand(root *rootOptions) *cobra.Command {
	var limit int64

	cmd := &cobra.Command{
		Use:   "audit ORDER_ID",
		Short: "Show the archived record and audit trail of an order",
		Long: `Read an order back from the stores the server writes placed orders to:
the MySQL archive and the MongoDB audit log. Only the stores enabled in the
config are queried.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			cfg, err := config.Load(root.configPath)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 15*time.Second)
			defer cancel()

			var trail auditTrail
			var archive orderArchive

			if cfg.MongoDB.Enabled {
				repo, err := repository.NewMongoRepository(&cfg.MongoDB)
				if err != nil {
					return err
				}
				defer func() { err = multierr.Append(err, repo.Close(context.Background())) }()
				trail = repo
			}
			if cfg.MySQL.Enabled {
				repo, err := repository.NewOrderArchive(&cfg.MySQL)
				if err != nil {
					return err
				}
				defer func() { err = multierr.Append(err, repo.Close()) }()
				archive = repo
			}

			return runAudit(ctx, cmd.OutOrStdout(), args[0], trail, archive, limit)
		},
	}
	cmd.Flags().Int64Var(&limit, "limit", 20, "maximum number of audit entries")
	return cmd
}

func runAudit(ctx context.Context, w io.Writer, orderID string, trail auditTrail, archive orderArchive, limit int64) error {
	if trail == nil && archive == nil {
		return errNoAuditStore
	}

	if archive != nil {
		record, err := archive.Get(ctx, orderID)
		if err != nil {
			return err
		}
		if err := writeRecord(w, record); err != nil {
			return err
		}
	}

	if trail != nil {
		logs, err := trail.GetAuditLogs(ctx, orderID, limit)
		if err != nil {
			return fmt.Errorf("failed to read audit log: %w", err)
		}
		if err := writeAuditLogs(w, logs); err != nil {
			return err
		}
	}
	return nil
}

func writeRecord(w io.Writer, record *models.OrderRecord) error {
	var items []models.OrderRecordItem
	if err := json.Unmarshal([]byte(record.Items), &items); err != nil {
		return fmt.Errorf("failed to read archived items: %w", err)
	}

	fmt.Fprintf(w, "Order %s (%s, %s)\n", record.ID, record.OrderType, record.Status)
	fmt.Fprintf(w, "Customer: %s %s\n", record.CustomerName, record.CustomerPhone)
	fmt.Fprintf(w, "Placed:   %s\n", record.CreatedAt.Format(time.DateTime))

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "QTY\tPRODUCT\tSIZE\tPRICE")
	for _, item := range items {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", item.Quantity, item.ProductName, item.Size, pricing.Format(item.Price))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(w, "Subtotal: %s\nTotal:    %s\n\n", pricing.Format(record.Subtotal), pricing.Format(record.TotalAmount))
	return nil
}

// writeAuditLogs prints entries oldest first.
func writeAuditLogs(w io.Writer, logs []*repository.AuditLog) error {
	logs = slices.Clone(logs)
	slices.Reverse(logs)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "TIME\tACTION\tSESSION\tDETAILS")
	for _, entry := range logs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
			entry.CreatedAt.Format(time.DateTime), entry.Action, entry.SessionID, auditDetails(entry))
	}
	return tw.Flush()
}

func auditDetails(entry *repository.AuditLog) string {
	switch entry.Action {
	case repository.AuditActionStatus:
		return fmt.Sprintf("%v -> %v", entry.Data["from"], entry.Data["to"])
	case repository.AuditActionCheckout:
		return fmt.Sprintf("%v items, total $%v", entry.Data["item_count"], entry.Data["total_amount"])
	default:
		return ""
	}
}

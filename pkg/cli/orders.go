package cli

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/example/brewbuddy/pkg/config"
	"github.com/example/brewbuddy/pkg/discovery"
	storefront "github.com/example/brewbuddy/pkg/grpc"
	"github.com/example/brewbuddy/pkg/orders"
	"github.com/example/brewbuddy/pkg/pricing"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newOrdersCommand(root *rootOptions) *cobra.Command {
	var addr, sessionID, export string

	cmd := &cobra.Command{
		Use:   "orders",
		Short: "List a session's orders from a running server",
		Long: `List the order history of a session over gRPC. The server address is
looked up in etcd when endpoints are configured, otherwise --addr is used.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(root.configPath)
			if err != nil {
				return err
			}
			logger := zap.NewNop()

			ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
			defer cancel()

			target := addr
			if target == "" {
				target = resolveServer(ctx, cfg, logger)
			}

			client, err := storefront.NewClient(target, logger)
			if err != nil {
				return err
			}
			defer client.Close()

			resp, err := client.ListOrders(ctx, sessionID)
			if err != nil {
				return fmt.Errorf("failed to list orders: %w", err)
			}

			if export != "" {
				return writeExport(export, resp)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tDATE\tSTATUS\tTYPE\tITEMS\tTOTAL")
			for _, o := range resp.Orders {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%s\n",
					o.ID, o.OrderDate.Format(time.DateTime), o.Status, o.OrderType, o.ItemCount(), pricing.Format(o.TotalAmount))
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "storefront gRPC address (host:port)")
	cmd.Flags().StringVar(&sessionID, "session", "", "session id, defaults to the default session")
	cmd.Flags().StringVar(&export, "export", "", "write the orders to this .xlsx file instead of printing")
	return cmd
}

func resolveServer(ctx context.Context, cfg *config.Config, logger *zap.Logger) string {
	fallback := cfg.Server.Addr()
	if cfg.Server.Host == "0.0.0.0" {
		fallback = fmt.Sprintf("localhost:%d", cfg.Server.Port)
	}
	if len(cfg.Etcd.Endpoints) == 0 {
		return fallback
	}

	sd, err := discovery.NewServiceDiscovery(&cfg.Etcd, logger)
	if err != nil {
		return fallback
	}
	defer sd.Close()
	return storefront.Resolve(ctx, sd, cfg.Server.Name, fallback, logger)
}

func writeExport(path string, resp *storefront.ListOrdersResponse) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}
	if err := orders.ExportXLSX(f, resp.Orders); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

package cli

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
)

type depositMethodView struct {
	Kind   string `json:"kind"`
	Detail string `json:"detail,omitempty"`
}

type depositView struct {
	ID              string            `json:"id"`
	Title           string            `json:"title"`
	Amount          int64             `json:"amount"`
	DepositDate     time.Time         `json:"depositDate"`
	Method          depositMethodView `json:"method"`
	Purpose         string            `json:"purpose"`
	Description     string            `json:"description,omitempty"`
	DepositedBy     string            `json:"depositedBy"`
	Status          string            `json:"status"`
	RejectionReason string            `json:"rejectionReason,omitempty"`
	ReceiptFiles    []string          `json:"receiptFiles"`
	SubmittedAt     time.Time         `json:"submittedAt"`
}

// formatAmount renders an amount in cents as dollars.
func formatAmount(cents int64) string {
	return fmt.Sprintf("%d.%02d", cents/100, cents%100)
}

func newDepositsCmd(client *Client) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deposits",
		Short: "Manage fund deposits",
	}

	cmd.AddCommand(newDepositsSubmitCmd(client))
	cmd.AddCommand(newDepositsListCmd(client))
	cmd.AddCommand(newDepositsGetCmd(client))
	cmd.AddCommand(newDepositsVerifyCmd(client))
	cmd.AddCommand(newDepositsRejectCmd(client))
	cmd.AddCommand(newDepositsDeleteCmd(client))
	cmd.AddCommand(newDepositsReceiptURLCmd(client))

	return cmd
}

func newDepositsSubmitCmd(client *Client) *cobra.Command {
	var (
		title        string
		amount       int64
		date         string
		methodKind   string
		methodDetail string
		purpose      string
		description  string
		receipts     []string
	)

	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Submit a deposit for review",
		RunE: func(cmd *cobra.Command, _ []string) error {
			depositDate := time.Now().UTC()
			if date != "" {
				d, err := time.Parse("2006-01-02", date)
				if err != nil {
					return fmt.Errorf("invalid --date %q: use YYYY-MM-DD", date)
				}
				depositDate = d
			}

			body := map[string]any{
				"title":       title,
				"amount":      amount,
				"depositDate": depositDate,
				"method": depositMethodView{
					Kind:   methodKind,
					Detail: methodDetail,
				},
				"purpose":      purpose,
				"description":  description,
				"receiptFiles": receipts,
			}

			var d depositView
			if err := client.DoJSON(http.MethodPost, "/deposits", nil, body, &d); err != nil {
				return err
			}
			if getOutputFormat(cmd) == "json" {
				return printJSON(os.Stdout, d)
			}
			fmt.Printf("Deposit %s submitted (%s)\n", d.ID, d.Status)
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Deposit title (required)")
	cmd.Flags().Int64Var(&amount, "amount", 0, "Amount in cents (required)")
	cmd.Flags().StringVar(&date, "date", "", "Deposit date YYYY-MM-DD (default today)")
	cmd.Flags().StringVar(&methodKind, "method", "cash", "Method (cash, check, bank_transfer, other)")
	cmd.Flags().StringVar(&methodDetail, "method-detail", "", "Free-form detail, required for method=other")
	cmd.Flags().StringVar(&purpose, "purpose", "", "Purpose (required)")
	cmd.Flags().StringVar(&description, "description", "", "Longer description")
	cmd.Flags().StringSliceVar(&receipts, "receipt", nil, "Receipt file reference (repeatable)")
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("amount")
	_ = cmd.MarkFlagRequired("purpose")

	return cmd
}

func newDepositsListCmd(client *Client) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List deposits (own deposits; administrators see all)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var deposits []depositView
			if err := client.DoJSON(http.MethodGet, "/deposits", nil, nil, &deposits); err != nil {
				return err
			}
			if getOutputFormat(cmd) == "json" {
				return printJSON(os.Stdout, deposits)
			}
			rows := make([][]string, 0, len(deposits))
			for _, d := range deposits {
				rows = append(rows, []string{
					d.ID, d.Title, formatAmount(d.Amount), d.Status,
					d.SubmittedAt.Format(time.RFC3339),
				})
			}
			return printTable(os.Stdout,
				[]string{"ID", "TITLE", "AMOUNT", "STATUS", "SUBMITTED"}, rows)
		},
	}
}

func newDepositsGetCmd(client *Client) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one deposit with its audit log",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// Always JSON: the embedded audit log does not fit a table row.
			var d map[string]any
			if err := client.DoJSON(http.MethodGet, "/deposits/"+args[0], nil, nil, &d); err != nil {
				return err
			}
			return printJSON(os.Stdout, d)
		},
	}
}

func newDepositsVerifyCmd(client *Client) *cobra.Command {
	return &cobra.Command{
		Use:   "verify <id>",
		Short: "Verify a pending deposit (administrators only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var d depositView
			if err := client.DoJSON(http.MethodPost, "/deposits/"+args[0]+"/verify", nil, nil, &d); err != nil {
				return err
			}
			if getOutputFormat(cmd) == "json" {
				return printJSON(os.Stdout, d)
			}
			fmt.Printf("Deposit %s verified\n", d.ID)
			return nil
		},
	}
}

func newDepositsRejectCmd(client *Client) *cobra.Command {
	var reason string

	cmd := &cobra.Command{
		Use:   "reject <id>",
		Short: "Reject a pending deposit (administrators only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var d depositView
			body := map[string]string{"reason": reason}
			if err := client.DoJSON(http.MethodPost, "/deposits/"+args[0]+"/reject", nil, body, &d); err != nil {
				return err
			}
			if getOutputFormat(cmd) == "json" {
				return printJSON(os.Stdout, d)
			}
			fmt.Printf("Deposit %s rejected\n", d.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&reason, "reason", "", "Rejection reason (required)")
	_ = cmd.MarkFlagRequired("reason")

	return cmd
}

func newDepositsDeleteCmd(client *Client) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a deposit",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.DoJSON(http.MethodDelete, "/deposits/"+args[0], nil, nil, nil); err != nil {
				return err
			}
			if getOutputFormat(cmd) == "json" {
				return printJSON(os.Stdout, map[string]string{"status": "deleted", "id": args[0]})
			}
			fmt.Printf("Deposit %s deleted\n", args[0])
			return nil
		},
	}
}

func newDepositsReceiptURLCmd(client *Client) *cobra.Command {
	return &cobra.Command{
		Use:   "receipt-url <id> <file-ref>",
		Short: "Get a time-limited download URL for a receipt file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var out struct {
				URL string `json:"url"`
			}
			path := "/deposits/" + args[0] + "/receipts/" + args[1]
			if err := client.DoJSON(http.MethodGet, path, nil, nil, &out); err != nil {
				return err
			}
			if getOutputFormat(cmd) == "json" {
				return printJSON(os.Stdout, out)
			}
			fmt.Println(out.URL)
			return nil
		},
	}
}

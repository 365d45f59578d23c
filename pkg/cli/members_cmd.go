package cli

import (
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"
)

type memberView struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	Role           string    `json:"role"`
	Position       *string   `json:"position,omitempty"`
	Status         string    `json:"status"`
	Points         int       `json:"points"`
	Major          *string   `json:"major,omitempty"`
	GraduationYear *int      `json:"graduationYear,omitempty"`
	LastUpdated    time.Time `json:"lastUpdated"`
	LastUpdatedBy  string    `json:"lastUpdatedBy"`
}

func newMembersCmd(client *Client) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "members",
		Short: "Manage organization members",
	}

	cmd.AddCommand(newMembersListCmd(client))
	cmd.AddCommand(newMembersGetCmd(client))
	cmd.AddCommand(newMembersUpdateCmd(client))
	cmd.AddCommand(newMembersDeleteCmd(client))

	return cmd
}

func newMembersListCmd(client *Client) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all members (management access required)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var members []memberView
			if err := client.DoJSON(http.MethodGet, "/members", nil, nil, &members); err != nil {
				return err
			}
			if getOutputFormat(cmd) == "json" {
				return printJSON(os.Stdout, members)
			}
			rows := make([][]string, 0, len(members))
			for _, m := range members {
				rows = append(rows, []string{
					m.ID, m.Name, m.Role, m.Status, strconv.Itoa(m.Points),
				})
			}
			return printTable(os.Stdout, []string{"ID", "NAME", "ROLE", "STATUS", "POINTS"}, rows)
		},
	}
}

func newMembersGetCmd(client *Client) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one member",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var m memberView
			if err := client.DoJSON(http.MethodGet, "/members/"+args[0], nil, nil, &m); err != nil {
				return err
			}
			if getOutputFormat(cmd) == "json" {
				return printJSON(os.Stdout, m)
			}
			return printTable(os.Stdout,
				[]string{"ID", "NAME", "EMAIL", "ROLE", "STATUS", "POINTS"},
				[][]string{{m.ID, m.Name, m.Email, m.Role, m.Status, strconv.Itoa(m.Points)}})
		},
	}
}

func newMembersUpdateCmd(client *Client) *cobra.Command {
	var (
		name     string
		email    string
		role     string
		position string
		status   string
		points   int
	)

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a member record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			patch := map[string]any{}
			if cmd.Flags().Changed("name") {
				patch["name"] = name
			}
			if cmd.Flags().Changed("email") {
				patch["email"] = email
			}
			if cmd.Flags().Changed("role") {
				patch["role"] = role
			}
			if cmd.Flags().Changed("position") {
				patch["position"] = position
			}
			if cmd.Flags().Changed("status") {
				patch["status"] = status
			}
			if cmd.Flags().Changed("points") {
				patch["points"] = points
			}
			if len(patch) == 0 {
				return fmt.Errorf("nothing to update: pass at least one field flag")
			}

			var m memberView
			if err := client.DoJSON(http.MethodPatch, "/members/"+args[0], nil, patch, &m); err != nil {
				return err
			}
			if getOutputFormat(cmd) == "json" {
				return printJSON(os.Stdout, m)
			}
			fmt.Printf("Member %s updated\n", m.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Display name")
	cmd.Flags().StringVar(&email, "email", "", "Email address")
	cmd.Flags().StringVar(&role, "role", "", "Member role")
	cmd.Flags().StringVar(&position, "position", "", "Position title")
	cmd.Flags().StringVar(&status, "status", "", "Member status (active, inactive, suspended)")
	cmd.Flags().IntVar(&points, "points", 0, "Point total (administrators only)")

	return cmd
}

func newMembersDeleteCmd(client *Client) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a member record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.DoJSON(http.MethodDelete, "/members/"+args[0], nil, nil, nil); err != nil {
				return err
			}
			if getOutputFormat(cmd) == "json" {
				return printJSON(os.Stdout, map[string]string{"status": "deleted", "id": args[0]})
			}
			fmt.Printf("Member %s deleted\n", args[0])
			return nil
		},
	}
}

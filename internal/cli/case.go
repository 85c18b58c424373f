package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/xbeat/certicredia-sub000/pkg/client"
)

func newCaseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "case",
		Short: "Manage accreditation cases",
	}

	cmd.AddCommand(newCaseCreateCmd())
	cmd.AddCommand(newCaseGetCmd())
	cmd.AddCommand(newCaseTransitionCmd())
	cmd.AddCommand(newCaseListCmd())
	cmd.AddCommand(newCaseAssignCmd())
	cmd.AddCommand(newCaseAcceptCmd())

	return cmd
}

func newCaseCreateCmd() *cobra.Command {
	var template string

	cmd := &cobra.Command{
		Use:   "create <org-id>",
		Short: "Open a new accreditation case in draft",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			orgID, err := parseOrgArg(args[0])
			if err != nil {
				return err
			}

			c, err := apiClient.Cases().Create(context.Background(), &client.CreateCaseRequest{
				OrganizationID: orgID,
				TemplateID:     template,
			})
			if err != nil {
				return err
			}
			return renderCase(c)
		},
	}

	cmd.Flags().StringVarP(&template, "template", "t", "cpf-standard", "certification template ID")
	return cmd
}

func newCaseGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <case-id>",
		Short: "Show an accreditation case",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := apiClient.Cases().Get(context.Background(), args[0])
			if err != nil {
				return err
			}
			return renderCase(c)
		},
	}
}

func newCaseTransitionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "transition <case-id> <status>",
		Short: "Move a case to a new lifecycle status",
		Long: `Move a case to a new lifecycle status.

Statuses: draft, in_progress, submitted, under_review,
modification_requested, approved, rejected, expired.
Disallowed transitions are rejected without changing the case.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := apiClient.Cases().Transition(context.Background(), args[0], args[1])
			if err != nil {
				return err
			}

			if getOutputFormat() != "table" {
				return printOutput(result)
			}
			fmt.Printf("Case %s: %s -> %s\n", args[0], result.OldStatus, result.NewStatus)
			return nil
		},
	}
}

func newCaseListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list <org-id>",
		Short: "List the cases of an organization",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			orgID, err := parseOrgArg(args[0])
			if err != nil {
				return err
			}

			cases, err := apiClient.Cases().ListByOrganization(context.Background(), orgID)
			if err != nil {
				return err
			}

			if getOutputFormat() != "table" {
				return printOutput(cases)
			}

			table := NewTable("ID", "TEMPLATE", "STATUS", "SPECIALIST", "EXPIRES")
			for _, c := range cases {
				specialist := "-"
				if c.AssignedSpecialistID != nil {
					specialist = strconv.FormatInt(*c.AssignedSpecialistID, 10)
				}
				expires := "-"
				if c.ExpiresAt != nil {
					expires = c.ExpiresAt.Format("2006-01-02")
				}
				table.AddRow(truncate(c.ID, 16), c.TemplateID, formatCaseStatus(c.Status), specialist, expires)
			}
			table.Render()
			return nil
		},
	}
}

func newCaseAssignCmd() *cobra.Command {
	var orgID int64

	cmd := &cobra.Command{
		Use:   "assign <case-id>",
		Short: "Issue a one-time specialist assignment token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := apiClient.Cases().IssueAssignment(context.Background(), args[0], orgID)
			if err != nil {
				return err
			}

			if getOutputFormat() != "table" {
				return printOutput(token)
			}
			fmt.Printf("Assignment token: %s\n", token.Token)
			fmt.Printf("Expires:          %s\n", token.ExpiresAt.Format("2006-01-02 15:04:05 MST"))
			fmt.Println("The token is shown once. Share it with the specialist directly.")
			return nil
		},
	}

	cmd.Flags().Int64Var(&orgID, "org", 0, "restrict the token to this organization")
	return cmd
}

func newCaseAcceptCmd() *cobra.Command {
	var specialistID int64

	cmd := &cobra.Command{
		Use:   "accept <token>",
		Short: "Redeem an assignment token as a specialist",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := apiClient.Cases().AcceptAssignment(context.Background(), &client.AcceptAssignmentRequest{
				Token:        args[0],
				SpecialistID: specialistID,
			})
			if err != nil {
				return err
			}

			if getOutputFormat() != "table" {
				return printOutput(a)
			}
			fmt.Printf("Assignment %s accepted: specialist %d now holds case %s\n",
				truncate(a.ID, 16), specialistID, a.CaseID)
			return nil
		},
	}

	cmd.Flags().Int64Var(&specialistID, "specialist", 0, "specialist ID accepting the assignment (required)")
	_ = cmd.MarkFlagRequired("specialist")
	return cmd
}

func renderCase(c *client.Case) error {
	if getOutputFormat() != "table" {
		return printOutput(c)
	}

	fmt.Printf("Case %s\n", c.ID)
	fmt.Printf("  Organization: %d\n", c.OrganizationID)
	fmt.Printf("  Template:     %s\n", c.TemplateID)
	fmt.Printf("  Status:       %s\n", formatCaseStatus(c.Status))
	if c.AssignedSpecialistID != nil {
		fmt.Printf("  Specialist:   %d\n", *c.AssignedSpecialistID)
	}
	if c.SubmittedAt != nil {
		fmt.Printf("  Submitted:    %s\n", c.SubmittedAt.Format("2006-01-02 15:04"))
	}
	if c.ReviewedAt != nil {
		fmt.Printf("  Reviewed:     %s\n", c.ReviewedAt.Format("2006-01-02 15:04"))
	}
	if c.ApprovedAt != nil {
		fmt.Printf("  Approved:     %s\n", c.ApprovedAt.Format("2006-01-02 15:04"))
	}
	if c.ExpiresAt != nil {
		fmt.Printf("  Expires:      %s\n", c.ExpiresAt.Format("2006-01-02"))
	}
	return nil
}

package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/xbeat/certicredia-sub000/pkg/client"
)

func newProfileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Manage compliance profiles",
	}

	cmd.AddCommand(newProfileCreateCmd())
	cmd.AddCommand(newProfileGetCmd())
	cmd.AddCommand(newProfileUpdateCmd())
	cmd.AddCommand(newProfileDeleteCmd())
	cmd.AddCommand(newProfileRestoreCmd())
	cmd.AddCommand(newProfilePurgeCmd())
	cmd.AddCommand(newProfileListCmd())
	cmd.AddCommand(newProfileTrashCmd())
	cmd.AddCommand(newProfileStatsCmd())

	return cmd
}

// loadProfileRequest reads an indicator evaluation document from a JSON file.
// The expected shape matches the API:
//
//	{"indicators": {"1.1": {"raw_score": 0.2}, "2.4": {"value": 3}}}
func loadProfileRequest(path string) (*client.ProfileRequest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var req client.ProfileRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if len(req.Indicators) == 0 {
		return nil, fmt.Errorf("%s contains no indicator evaluations", path)
	}
	return &req, nil
}

func parseOrgArg(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid organization ID %q", arg)
	}
	return id, nil
}

func newProfileCreateCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "create <org-id>",
		Short: "Create the compliance profile for an organization",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			orgID, err := parseOrgArg(args[0])
			if err != nil {
				return err
			}
			req, err := loadProfileRequest(file)
			if err != nil {
				return err
			}

			profile, err := apiClient.Profiles().Create(context.Background(), orgID, req)
			if err != nil {
				return err
			}
			return renderProfile(profile)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "JSON file with indicator evaluations (required)")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func newProfileGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <org-id>",
		Short: "Show the active profile of an organization",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			orgID, err := parseOrgArg(args[0])
			if err != nil {
				return err
			}
			profile, err := apiClient.Profiles().Get(context.Background(), orgID)
			if err != nil {
				return err
			}
			return renderProfile(profile)
		},
	}
}

func newProfileUpdateCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "update <org-id>",
		Short: "Replace the indicator set and rescore the profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			orgID, err := parseOrgArg(args[0])
			if err != nil {
				return err
			}
			req, err := loadProfileRequest(file)
			if err != nil {
				return err
			}

			profile, err := apiClient.Profiles().Update(context.Background(), orgID, req)
			if err != nil {
				return err
			}
			return renderProfile(profile)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "JSON file with indicator evaluations (required)")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func newProfileDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <org-id>",
		Short: "Move the active profile to the trash",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			orgID, err := parseOrgArg(args[0])
			if err != nil {
				return err
			}
			if err := apiClient.Profiles().Delete(context.Background(), orgID); err != nil {
				return err
			}
			fmt.Printf("Profile for organization %d moved to trash\n", orgID)
			return nil
		},
	}
}

func newProfileRestoreCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "restore <org-id>",
		Short: "Restore a trashed profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			orgID, err := parseOrgArg(args[0])
			if err != nil {
				return err
			}
			profile, err := apiClient.Profiles().Restore(context.Background(), orgID)
			if err != nil {
				return err
			}
			return renderProfile(profile)
		},
	}
}

func newProfilePurgeCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "purge <org-id>",
		Short: "Permanently remove a trashed profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			orgID, err := parseOrgArg(args[0])
			if err != nil {
				return err
			}
			if !yes {
				return fmt.Errorf("purge is irreversible, re-run with --yes to confirm")
			}
			if err := apiClient.Profiles().Purge(context.Background(), orgID); err != nil {
				return err
			}
			fmt.Printf("Profile for organization %d permanently removed\n", orgID)
			return nil
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "confirm permanent removal")
	return cmd
}

func newProfileListCmd() *cobra.Command {
	var limit, offset int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List active profiles across organizations",
		RunE: func(cmd *cobra.Command, args []string) error {
			profiles, err := apiClient.Profiles().List(context.Background(), limit, offset)
			if err != nil {
				return err
			}
			return renderProfileList(profiles)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "maximum profiles to return")
	cmd.Flags().IntVar(&offset, "offset", 0, "number of profiles to skip")
	return cmd
}

func newProfileTrashCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "trash",
		Short: "List trashed profiles",
		RunE: func(cmd *cobra.Command, args []string) error {
			profiles, err := apiClient.Profiles().ListTrashed(context.Background())
			if err != nil {
				return err
			}
			return renderProfileList(profiles)
		},
	}
}

func newProfileStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show cross-organization profile statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			stats, err := apiClient.Profiles().Statistics(context.Background())
			if err != nil {
				return err
			}

			if getOutputFormat() != "table" {
				return printOutput(stats)
			}

			table := NewTable("METRIC", "VALUE")
			table.AddRow("Active profiles", strconv.Itoa(stats.TotalActive))
			table.AddRow("Trashed profiles", strconv.Itoa(stats.TotalDeleted))
			table.AddRow("All profiles", strconv.Itoa(stats.TotalAll))
			table.AddRow("Avg completion", fmt.Sprintf("%.1f%%", stats.AvgCompletion))
			table.AddRow("Recent updates", strconv.Itoa(stats.RecentUpdates))
			table.Render()
			return nil
		},
	}
}

func renderProfile(p *client.Profile) error {
	if getOutputFormat() != "table" {
		return printOutput(p)
	}

	fmt.Printf("Profile #%d (organization %d)\n", p.ID, p.OrganizationID)
	if p.Aggregate != nil {
		mm := p.Aggregate.MaturityModel
		fmt.Printf("  CPF score:       %d\n", mm.CPFScore)
		fmt.Printf("  Maturity:        %s (level %d)\n", mm.LevelName, mm.MaturityLevel)
		fmt.Printf("  Completion:      %.1f%% (%d indicators)\n",
			p.Aggregate.Completion.Percentage, p.Aggregate.Completion.AssessedIndicators)
		fmt.Printf("  Overall risk:    %.4f\n", p.Aggregate.OverallRisk)
		fmt.Printf("  Convergence:     %.1f\n", mm.ConvergenceIndex)
		fmt.Printf("  Domains:         %d green / %d yellow / %d red\n",
			mm.GreenDomainsCount, mm.YellowDomainsCount, mm.RedDomainsCount)
		fmt.Printf("  Sector avg:      %.1f (gap %.1f, percentile %d)\n",
			mm.SectorBenchmark.SectorAverage, mm.SectorBenchmark.Gap, mm.SectorBenchmark.Percentile)

		table := NewTable("CATEGORY", "RISK", "STATUS", "ASSESSED")
		keys := make([]string, 0, len(p.Aggregate.ByCategory))
		for k := range p.Aggregate.ByCategory {
			keys = append(keys, k)
		}
		sort.Slice(keys, func(i, j int) bool {
			a, _ := strconv.Atoi(keys[i])
			b, _ := strconv.Atoi(keys[j])
			return a < b
		})
		for _, k := range keys {
			cat := p.Aggregate.ByCategory[k]
			table.AddRow(
				k,
				fmt.Sprintf("%.4f", cat.Risk),
				formatRiskColor(riskColor(cat.Risk, cat.Assessed)),
				fmt.Sprintf("%d/%d", cat.Assessed, cat.Total),
			)
		}
		table.Render()
	}
	return nil
}

// riskColor mirrors the server-side domain banding for display.
func riskColor(risk float64, assessed int) string {
	switch {
	case assessed == 0:
		return "unassessed"
	case risk < 0.3:
		return "green"
	case risk < 0.7:
		return "yellow"
	default:
		return "red"
	}
}

func renderProfileList(profiles []client.Profile) error {
	if getOutputFormat() != "table" {
		return printOutput(profiles)
	}

	table := NewTable("ID", "ORG", "CPF", "MATURITY", "COMPLETION", "UPDATED")
	for _, p := range profiles {
		cpf, maturity, completion := "-", "-", "-"
		if p.Aggregate != nil {
			cpf = strconv.Itoa(p.Aggregate.MaturityModel.CPFScore)
			maturity = p.Aggregate.MaturityModel.LevelName
			completion = fmt.Sprintf("%.0f%%", p.Aggregate.Completion.Percentage)
		}
		table.AddRow(
			strconv.FormatInt(p.ID, 10),
			strconv.FormatInt(p.OrganizationID, 10),
			cpf,
			maturity,
			completion,
			p.UpdatedAt.Format("2006-01-02 15:04"),
		)
	}
	table.Render()
	return nil
}

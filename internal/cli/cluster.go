package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/rustprint/pkg/errors"
	"github.com/matzehuels/rustprint/pkg/pipeline"
	"github.com/matzehuels/rustprint/pkg/versions"
)

// clusterCommand creates the cluster command, which groups stored reports by
// the rustc build that produced them.
func (c *CLI) clusterCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "cluster <toolchain-hash>",
		Short: "List stored reports built by the same rustc commit",
		Long: `Cluster lists every report in the report store whose toolchain hash matches.
Binaries built by the same compiler commit often share an origin.

Reports are added with "rustprint analyze --store".`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := pipeline.ValidateFormat(format); err != nil {
				return err
			}
			hash := args[0]
			if err := errors.ValidateToolchainHash(hash); err != nil {
				return err
			}

			st, err := c.requireStore(cmd.Context())
			if err != nil {
				return err
			}
			defer st.Close()

			reports, err := st.ByToolchain(cmd.Context(), hash)
			if err != nil {
				return err
			}

			if format == pipeline.FormatJSON {
				return writeJSON(cmd.OutOrStdout(), reports)
			}

			cfg, _ := c.config()
			label := hash[:12]
			if v, ok := versions.LoadOrWarn(cfg.VersionsFile, c.Logger).Lookup(hash); ok {
				label = v + " " + StyleDim.Render(label)
			}
			if len(reports) == 0 {
				printInfo("No stored reports for rustc %s", label)
				return nil
			}
			printSuccess("%d report(s) built by rustc %s", len(reports), label)
			fmt.Fprintln(cmd.OutOrStdout(), renderClusterTable(reports))
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", pipeline.FormatSummary, "output format: json, summary")
	return cmd
}

func renderClusterTable(reports []*pipeline.Report) string {
	rows := make([][]string, len(reports))
	for i, r := range reports {
		rows[i] = []string{
			r.Name,
			r.SHA256[:12],
			fmt.Sprint(len(r.Packages)),
			fmt.Sprint(len(r.UserSourcePaths)),
			r.AnalyzedAt.Local().Format("2006-01-02 15:04"),
		}
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Name", "SHA-256", "Crates", "User paths", "Analyzed").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if col == 1 || col == 4 {
				return lipgloss.NewStyle().Foreground(colorDim)
			}
			return lipgloss.NewStyle().Foreground(colorWhite)
		}).
		Render()
}

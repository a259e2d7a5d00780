package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"gocompare/adapters/export"
	"gocompare/adapters/tabular"
	"gocompare/app"
	"gocompare/domain/dataset"
	"gocompare/internal/testkit"

	"github.com/spf13/cobra"
)

func newAnalyzeCmd() *cobra.Command {
	var seed int64
	var rows int
	var quantitative []string
	var group string
	var threshold int
	var csvOut string
	var xlsxOut string

	cmd := &cobra.Command{
		Use:   "analyze [file.csv|file.xlsx]",
		Short: "Compare groups and print the three-line table",
		Long: `Run the normality checks and the group comparison on a CSV or Excel file.
Without a file the seeded demo dataset is analysed.

Example: gocompare-cli analyze trial.csv --quantitative Age,Weight --group Gender --out result.csv`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var ds *dataset.Dataset
			if len(args) == 1 {
				var err error
				ds, err = tabular.NewDataReader(args[0]).ReadData()
				if err != nil {
					return err
				}
			} else {
				ds = testkit.GenerateDemoDataset(seed, rows)
			}

			svc := app.NewAnalysisService(threshold)
			result, err := svc.Run(cmd.Context(), ds, app.Selection{Quantitative: quantitative, Group: group})
			if result.Preparation != nil {
				printNormality(cmd.OutOrStdout(), result.Preparation)
			}
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "\nGrouped by %s (analysis %s)\n\n", result.Group, result.ID)
			if err := printTable(cmd.OutOrStdout(), result); err != nil {
				return err
			}

			if csvOut != "" {
				if err := writeFile(csvOut, func(w io.Writer) error { return export.WriteCSV(w, result.Table) }); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "\nWrote %s\n", csvOut)
			}
			if xlsxOut != "" {
				if err := writeFile(xlsxOut, func(w io.Writer) error { return export.WriteXLSX(w, result.Table) }); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", xlsxOut)
			}
			return nil
		},
	}

	cmd.Flags().Int64Var(&seed, "seed", 42, "Random seed for the demo dataset")
	cmd.Flags().IntVar(&rows, "rows", 100, "Rows in the demo dataset")
	cmd.Flags().StringSliceVarP(&quantitative, "quantitative", "q", nil, "Quantitative columns (comma-separated or repeated)")
	cmd.Flags().StringVarP(&group, "group", "g", "", "Grouping column (default: first categorical column with two or more values)")
	cmd.Flags().IntVar(&threshold, "normality-threshold", 5000, "Sample size from which Kolmogorov-Smirnov replaces Shapiro-Wilk")
	cmd.Flags().StringVar(&csvOut, "out", "", "Write the table as CSV to this path")
	cmd.Flags().StringVar(&xlsxOut, "xlsx", "", "Write the table as XLSX to this path")

	return cmd
}

func printNormality(w io.Writer, prep *app.Preparation) {
	for _, n := range prep.Normality {
		fmt.Fprintf(w, "%s: %s test, statistic = %.4f, p-vaule = %.4f\n", n.Column, n.Method, n.Statistic, n.PValue)
	}
}

func printTable(w io.Writer, result *app.AnalysisResult) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(result.Table.Header(), "\t"))
	for _, rec := range result.Table.Records() {
		fmt.Fprintln(tw, strings.Join(rec, "\t"))
	}
	return tw.Flush()
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return f.Close()
}

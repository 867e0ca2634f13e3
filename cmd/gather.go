package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/valugen/comps-cli/internal/export"
	"github.com/valugen/comps-cli/internal/gather"
	"github.com/valugen/comps-cli/internal/model"
)

var (
	gatherInput  string
	gatherOutput string
	gatherXLSX   string
)

var gatherCmd = &cobra.Command{
	Use:          "gather",
	Short:        "Run one comparable sales aggregation",
	Long:         "Reads a subject property document, queries every data source, and writes the merged, filtered, ranked comparables. The output document is always well-formed JSON, error or not.",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := readInput(gatherInput)
		if err != nil {
			return writeFailure(eris.Wrap(err, "read input"))
		}

		subject, err := model.ParseSubject(data)
		if err != nil {
			// Invalid input: error-shaped output, non-zero exit, no source touched.
			return writeFailure(err)
		}

		g, err := buildGatherer(cfg)
		if err != nil {
			return writeFailure(err)
		}

		result := runGuarded(cmd, g, subject)
		if err := writeResult(gatherOutput, result); err != nil {
			return err
		}

		if gatherXLSX != "" && !result.Error {
			if err := export.WriteWorkbook(gatherXLSX, subject, result); err != nil {
				return err
			}
			zap.L().Info("workbook written", zap.String("path", gatherXLSX))
		}

		if result.Error {
			return eris.New("aggregation failed")
		}
		return nil
	},
}

// runGuarded runs the pipeline and converts any panic into the error-shaped
// output document so callers always get parseable JSON.
func runGuarded(cmd *cobra.Command, g *gather.Gatherer, subject model.SubjectProperty) (result *model.GatherResult) {
	defer func() {
		if r := recover(); r != nil {
			zap.L().Error("aggregation panicked", zap.Any("panic", r))
			result = model.ErrorResult(fmt.Sprintf("Error: critical failure during gathering: %v", r))
		}
	}()
	return g.Run(cmd.Context(), subject)
}

func readInput(path string) ([]byte, error) {
	if path == "" || path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}

func writeResult(path string, result *model.GatherResult) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return eris.Wrap(err, "encode result")
	}
	data = append(data, '\n')

	if path == "" || path == "-" {
		_, err = os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return eris.Wrapf(err, "write result to %s", path)
	}
	return nil
}

// writeFailure emits the error-shaped document and returns an error so the
// process exits non-zero.
func writeFailure(cause error) error {
	msg := eris.ToString(cause, false)
	result := model.ErrorResult("Error: " + msg)
	if err := writeResult(gatherOutput, result); err != nil {
		return err
	}
	return cause
}

func init() {
	gatherCmd.Flags().StringVarP(&gatherInput, "input", "i", "-", "subject property JSON file (- for stdin)")
	gatherCmd.Flags().StringVarP(&gatherOutput, "output", "o", "-", "result JSON file (- for stdout)")
	gatherCmd.Flags().StringVar(&gatherXLSX, "xlsx", "", "also write the comps as an XLSX workbook")
	rootCmd.AddCommand(gatherCmd)
}

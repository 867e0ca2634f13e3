package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/valugen/comps-cli/internal/geodb"
)

var (
	parcelDB      string
	parcelAddress string
	parcelCity    string
	parcelState   string
	parcelZip     string
)

var parcelCmd = &cobra.Command{
	Use:          "parcel",
	Short:        "Look up a parcel in a local tax-parcel extract",
	Long:         "Matches a site address against a local parcel-database extract and prints the parcel's flattened attributes. Lookup failures are reported inside the result document, never as a crash.",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		dbPath := parcelDB
		if dbPath == "" {
			dbPath = cfg.GeoDB.Path
		}
		if dbPath == "" {
			return eris.New("no parcel database path: set --db or geodb.path in config")
		}

		result := geodb.Lookup(dbPath, parcelAddress, parcelCity, parcelState, parcelZip)

		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return eris.Wrap(err, "encode lookup result")
		}
		data = append(data, '\n')
		_, err = os.Stdout.Write(data)
		return err
	},
}

func init() {
	parcelCmd.Flags().StringVar(&parcelDB, "db", "", "parcel extract directory (default from config)")
	parcelCmd.Flags().StringVar(&parcelAddress, "address", "", "site address to match")
	parcelCmd.Flags().StringVar(&parcelCity, "city", "", "municipality")
	parcelCmd.Flags().StringVar(&parcelState, "state", "MA", "state")
	parcelCmd.Flags().StringVar(&parcelZip, "zip", "", "ZIP code")
	_ = parcelCmd.MarkFlagRequired("address")
	_ = parcelCmd.MarkFlagRequired("city")
	rootCmd.AddCommand(parcelCmd)
}

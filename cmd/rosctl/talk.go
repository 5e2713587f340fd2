package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/pior/routeros"
	"github.com/pior/routeros/internal/httpapi"
	"github.com/spf13/cobra"
)

var talkCmd = &cobra.Command{
	Use:   "talk <command> [=key=value ...]",
	Short: "Run one command and print the reply as JSON",
	Example: `  rosctl talk /system/resource/print --records
  rosctl talk /ip/address/add =address=10.0.0.1/24 =interface=ether2`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		records, _ := cmd.Flags().GetBool("records")
		shape := routeros.ShapeWords
		if records {
			shape = routeros.ShapeRecords
		}
		return run(cmd, args, shape)
	},
}

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "List hotspot users",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return run(cmd, httpapi.HotspotUsersCommand, routeros.ShapeRecords)
	},
}

func init() {
	talkCmd.Flags().Bool("records", false, "convert !re rows to records")
}

func run(cmd *cobra.Command, words []string, shape routeros.Shape) error {
	config, err := sessionConfig()
	if err != nil {
		return err
	}

	session := routeros.NewSession(config)
	defer session.Close()

	result := session.Execute(cmd.Context(), words, shape)

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		return err
	}

	if !result.Success {
		return fmt.Errorf("%s", result.Error.Message)
	}
	return nil
}

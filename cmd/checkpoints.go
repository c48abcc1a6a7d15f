package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/Orca-bit/argmin/pkg/checkpoint"
)

var (
	checkpointsDataDir string
	cleanOlderThan     time.Duration
)

var checkpointsCmd = &cobra.Command{
	Use:   "checkpoints",
	Short: "Manage stored run checkpoints",
}

var checkpointsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored run checkpoints",
	RunE: func(cmd *cobra.Command, args []string) error {
		infos, err := checkpoint.List(checkpointsDataDir)
		if err != nil {
			return err
		}
		if len(infos) == 0 {
			fmt.Println("No checkpoints found.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "RUN ID\tITER\tBEST COST\tSAVED")
		for _, info := range infos {
			fmt.Fprintf(w, "%s\t%d\t%g\t%s\n",
				info.RunID, info.Iter, info.BestCost, info.Timestamp.Format(time.RFC3339))
		}
		return w.Flush()
	},
}

var checkpointsDeleteCmd = &cobra.Command{
	Use:   "delete <run-id>",
	Short: "Delete a run's checkpoint",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := checkpoint.Delete(checkpointsDataDir, args[0]); err != nil {
			return err
		}
		fmt.Printf("Deleted checkpoint %s\n", args[0])
		return nil
	},
}

var checkpointsCleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Delete checkpoints older than a cutoff",
	RunE: func(cmd *cobra.Command, args []string) error {
		infos, err := checkpoint.List(checkpointsDataDir)
		if err != nil {
			return err
		}
		cutoff := time.Now().Add(-cleanOlderThan)
		deleted := 0
		for _, info := range infos {
			if info.Timestamp.After(cutoff) {
				continue
			}
			if err := checkpoint.Delete(checkpointsDataDir, info.RunID); err != nil {
				return err
			}
			deleted++
		}
		fmt.Printf("Deleted %d checkpoint(s)\n", deleted)
		return nil
	},
}

func init() {
	checkpointsCmd.PersistentFlags().StringVar(&checkpointsDataDir, "data-dir", "./data", "Directory holding checkpoints")
	checkpointsCleanCmd.Flags().DurationVar(&cleanOlderThan, "older-than", 7*24*time.Hour, "Delete checkpoints saved before now minus this duration")

	checkpointsCmd.AddCommand(checkpointsListCmd)
	checkpointsCmd.AddCommand(checkpointsDeleteCmd)
	checkpointsCmd.AddCommand(checkpointsCleanCmd)
	rootCmd.AddCommand(checkpointsCmd)
}

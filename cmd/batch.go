package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/jgwest/htmldiff-cli/batch"
	"github.com/jgwest/htmldiff-cli/confluence"
	"github.com/jgwest/htmldiff-cli/model"
	"github.com/jgwest/htmldiff-cli/util"
)

var (
	batchUser    string
	batchStrict  bool
	batchDebug   bool
	batchDryRun  bool
	batchTimeout int
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch (batch file)",
	Short: "Render and publish HTML comparisons for every row of a batch file.",
	Long: `Render and publish HTML comparisons for every row of a batch file.

Each row of the batch file names two source files with their content store
fetch identifiers, an output path, and a publish identifier:

    sourceA,fetchIdA,sourceB,fetchIdB,output,publishId

Sources missing locally are fetched from the content store; rendered
comparisons are published back to it. A failing row is reported and the
batch continues with the next row.`,
	Run: func(cmd *cobra.Command, args []string) {

		batchFilePath := args[0]

		config := loadToolConfig()

		username := batchUser
		if username == "" && config.Confluence != nil {
			username = config.Confluence.Username
		}

		timeoutSeconds := config.TimeoutSeconds
		if batchTimeout > 0 {
			timeoutSeconds = batchTimeout
		}

		rc := model.RunContext{
			Renderer: resolveRenderer(config, ""),
			Timeout:  time.Duration(timeoutSeconds) * time.Second,
			Debug:    batchDebug,
		}

		if !batchDryRun {
			if config.Confluence == nil || config.Confluence.BaseURL == "" {
				reportCLIErrorAndExit(fmt.Errorf("no content store configured: set confluence.baseURL in the config file"))
				return
			}

			rc.Store = confluence.NewClient(config.Confluence.BaseURL, batchDebug)
		}

		orchestrator := batch.NewOrchestrator(rc, util.TerminalPrompt{}, username)
		orchestrator.Substitutions = config.Substitutions
		orchestrator.DryRun = batchDryRun

		result, err := orchestrator.RunBatch(context.Background(), batchFilePath)
		if err != nil {
			reportCLIErrorAndExit(err)
			return
		}

		// Row failures only change the exit status in strict mode;
		// otherwise they are visible in the logs alone.
		if batchStrict && result.FailedRows > 0 {
			os.Exit(1)
			return
		}

	},
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().StringVarP(&batchUser, "user", "u", "", "content store username (defaults to confluence.username from the config file)")
	batchCmd.Flags().BoolVar(&batchStrict, "strict", false, "exit non-zero if any row fails")
	batchCmd.Flags().BoolVar(&batchDebug, "debug", false, "log content store requests")
	batchCmd.Flags().BoolVar(&batchDryRun, "dry-run", false, "parse and validate rows without fetching, rendering or publishing")
	batchCmd.Flags().IntVar(&batchTimeout, "timeout", 0, "per-call timeout in seconds for store and renderer calls (0 = no timeout)")

	batchCmd.Args = func(cmd *cobra.Command, args []string) error {

		if len(args) != 1 {
			return fmt.Errorf("one argument required: (batch file)")
		}

		return nil
	}
}

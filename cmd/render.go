package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jgwest/htmldiff-cli/model"
	"github.com/jgwest/htmldiff-cli/render"
	"github.com/jgwest/htmldiff-cli/util"
)

var (
	renderColorScheme string
	renderForce       bool
)

// renderCmd represents the render command
var renderCmd = &cobra.Command{
	Use:   "render (file A) (file B) (output path)",
	Short: "Render an HTML comparison of two text files.",
	Long: `Render an HTML comparison of two text files. The output path is given
a '.html' extension if it has neither '.html' nor '.htm'. If the two files
are identical, the output states that no differences were found.`,
	Run: func(cmd *cobra.Command, args []string) {

		fileA := args[0]
		fileB := args[1]
		outputPath := render.NormalizeOutputPath(args[2])

		for _, inputPath := range []string{fileA, fileB} {
			if !util.PathExists(inputPath) {
				reportCLIErrorAndExit(fmt.Errorf("could not locate input file '%s'", inputPath))
				return
			}
		}

		if util.PathExists(outputPath) && !renderForce {

			confirmed, err := util.TerminalPrompt{}.Confirm(fmt.Sprintf("'%s' already exists, overwrite?", outputPath))
			if err != nil {
				reportCLIErrorAndExit(err)
				return
			}

			if !confirmed {
				fmt.Println("Not overwriting", outputPath)
				return
			}
		}

		renderer := resolveRenderer(loadToolConfig(), renderColorScheme)

		if err := renderer.Render(context.Background(), fileA, fileB, outputPath); err != nil {
			reportCLIErrorAndExit(err)
			return
		}

	},
}

func init() {
	rootCmd.AddCommand(renderCmd)

	renderCmd.Flags().StringVar(&renderColorScheme, "color-scheme", "", "color scheme for the rendered comparison (desert, light)")
	renderCmd.Flags().BoolVarP(&renderForce, "force", "f", false, "overwrite an existing output file without asking")

	renderCmd.Args = func(cmd *cobra.Command, args []string) error {

		if len(args) != 3 {
			return fmt.Errorf("three arguments required: (file A) (file B) (output path)")
		}

		return nil
	}
}

// resolveRenderer picks the external renderer when one is configured,
// otherwise the built-in one.
func resolveRenderer(config model.ConfigFile, colorScheme string) model.DiffRenderer {

	if config.Renderer != nil && len(config.Renderer.Command) > 0 {
		return render.External{Command: config.Renderer.Command}
	}

	if colorScheme == "" && config.Renderer != nil {
		colorScheme = config.Renderer.ColorScheme
	}

	return render.HTML{ColorScheme: colorScheme}
}

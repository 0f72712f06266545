package render

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// External is a DiffRenderer that delegates to a user-configured
// diff-to-HTML command. The placeholders {a}, {b} and {out} in the command
// arguments are replaced with the input and output paths; if no placeholder
// is present, the three paths are appended in that order.
type External struct {
	Command []string
}

func (e External) Render(ctx context.Context, fileA string, fileB string, outputPath string) error {

	if len(e.Command) == 0 {
		return fmt.Errorf("no external renderer command configured")
	}

	outputPath = NormalizeOutputPath(outputPath)

	args := make([]string, 0, len(e.Command)+3)
	substituted := false

	for _, arg := range e.Command {

		replaced := strings.NewReplacer("{a}", fileA, "{b}", fileB, "{out}", outputPath).Replace(arg)
		if replaced != arg {
			substituted = true
		}

		args = append(args, replaced)
	}

	if !substituted {
		args = append(args, fileA, fileB, outputPath)
	}

	htmlLog.Debug().Strs("argv", args).Msg("invoking external renderer")

	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("external renderer failed: %w", err)
	}

	return nil
}

package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/topoviz/pkg/errors"
	"github.com/matzehuels/topoviz/pkg/source"
)

// seedCommand creates the seed command, which copies a topology into the
// MongoDB collections read by mongodb:// sources.
func (c *CLI) seedCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "seed <mongodb-uri> [source]",
		Short: "Copy a topology into MongoDB",
		Long: `Seed loads a topology and replaces the node and connection collections
of the given MongoDB database with its records. The source defaults to
"sample". Collection names come from the [source] config section.`,
		Example: `  topoviz seed mongodb://localhost:27017/topoviz
  topoviz seed mongodb://localhost:27017/lab office.yaml`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runSeed(cmd, args[0], sourceArg(args[1:]))
		},
	}
}

func (c *CLI) runSeed(cmd *cobra.Command, uri, location string) error {
	if !isMongoURI(uri) {
		return errors.New(errors.ErrCodeInvalidInput, "seed target %q is not a mongodb:// URI", uri)
	}
	ctx := cmd.Context()

	src, ch, err := c.openSource(ctx, location, true)
	if err != nil {
		return err
	}
	defer ch.Close()

	spinner := newSpinnerWithContext(ctx, "Loading "+location+"...")
	spinner.Start()
	t, err := src.Load(ctx)
	if err != nil {
		spinner.StopWithError(describe(err))
		return err
	}

	dst := source.NewMongo(uri, c.sourceOptions(nil))
	spinner.SetMessage("Writing to " + dst.String() + "...")
	if err := dst.Insert(ctx, t); err != nil {
		spinner.StopWithError(describe(err))
		return err
	}
	spinner.StopWithSuccess("Seeded " + StyleHighlight.Render(dst.String()))
	printDetail("Collections: %s (%d), %s (%d)", dst.Nodes, t.NodeCount(), dst.Edges, t.EdgeCount())
	return nil
}

func isMongoURI(uri string) bool {
	lower := strings.ToLower(uri)
	return strings.HasPrefix(lower, "mongodb://") || strings.HasPrefix(lower, "mongodb+srv://")
}

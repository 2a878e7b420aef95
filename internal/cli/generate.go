package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/probelab/scenic/internal/random"
	"github.com/probelab/scenic/internal/scenario"
)

// GenerateOptions holds flags for the generate command.
type GenerateOptions struct {
	*RootOptions
	Count  int
	Seed   int64
	Name   string
	Status int
}

// NewGenerateCommand creates the generate command.
func NewGenerateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &GenerateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "generate <input-template>",
		Short: "Generate scenarios from an input template",
		Long: `Generate a scenario document by filling an input template with random
data. The template is a YAML map; string values of the form
"$random.<kind>" are replaced per scenario. Supported kinds: string,
int, email, phone, uuid, past_date, future_date.

The generated document is printed as YAML, ready for 'scenic load'.

Example:
  scenic generate --count 10 --seed 42 order-template.yaml > orders.yaml`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(opts, args[0], cmd)
		},
	}

	cmd.Flags().IntVar(&opts.Count, "count", 5, "number of scenarios to generate")
	cmd.Flags().Int64Var(&opts.Seed, "seed", 0, "random seed (0 means time-based)")
	cmd.Flags().StringVar(&opts.Name, "name", "generated", "name of the generated document")
	cmd.Flags().IntVar(&opts.Status, "status", 200, "expected status for generated scenarios")

	return cmd
}

func runGenerate(opts *GenerateOptions, path string, cmd *cobra.Command) error {
	if opts.Count < 1 {
		return NewExitError(ExitCommandError, "count must be at least 1")
	}
	if opts.Status < 100 || opts.Status > 599 {
		return NewExitError(ExitCommandError, "status must be a valid HTTP status code")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read template", err)
	}
	var template map[string]any
	if err := yaml.Unmarshal(data, &template); err != nil {
		return WrapExitError(ExitCommandError, "failed to decode template", err)
	}
	if len(template) == 0 {
		return NewExitError(ExitCommandError, "template is empty")
	}

	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	gen := random.New(seed)

	doc := scenario.Document{Name: opts.Name}
	for i := 0; i < opts.Count; i++ {
		doc.Scenarios = append(doc.Scenarios, scenario.Scenario{
			Description:    fmt.Sprintf("%s case %d", opts.Name, i+1),
			Input:          gen.Fill(template),
			ExpectedStatus: opts.Status,
		})
	}

	out, err := yaml.Marshal(&doc)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to encode document", err)
	}
	fmt.Fprint(cmd.OutOrStdout(), string(out))
	return nil
}

package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/edgard/aurelia/internal/composer"
)

type composeOptions struct {
	profile composer.Profile
	seed    uint64
	tables  string
	json    bool
}

func newComposeCmd() *cobra.Command {
	var opts composeOptions
	var timeOfDay string

	cmd := &cobra.Command{
		Use:   "compose",
		Short: "Preview the prompts built for a profile without calling Gemini",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts.profile.TimeOfDay = composer.TimeOfDay(timeOfDay)
			return runCompose(cmd, opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.profile.Role, "role", "", "role of the person, e.g. nurse")
	f.StringVar(&opts.profile.Feeling, "feeling", "", "how the person feels")
	f.StringVar(&opts.profile.Challenge, "challenge", "", "what the person is facing")
	f.StringVar(&opts.profile.Religion, "religion", "", "religion key, e.g. catholic")
	f.StringVar(&opts.profile.Language, "language", "en-US", "prayer language")
	f.StringVar(&timeOfDay, "time-of-day", "", "morning, afternoon, evening or night (default from clock)")
	f.Uint64Var(&opts.seed, "seed", 0, "seed for greeting and ending selection (0 = random)")
	f.StringVar(&opts.tables, "tables", "", "directory holding data/emotions.toml and data/religions.toml")
	f.BoolVar(&opts.json, "json", false, "print the composition as JSON")
	return cmd
}

func runCompose(cmd *cobra.Command, opts composeOptions) error {
	var copts []composer.Option
	if opts.seed != 0 {
		copts = append(copts, composer.WithSource(composer.NewSeededSource(opts.seed)))
	}
	if opts.tables != "" {
		tables, err := composer.Load(os.DirFS(opts.tables))
		if err != nil {
			return fmt.Errorf("failed to load tables from %s: %w", opts.tables, err)
		}
		copts = append(copts, composer.WithTables(tables))
	}

	c := composer.New(copts...).Compose(opts.profile)
	out := cmd.OutOrStdout()

	if opts.json {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(c)
	}

	fmt.Fprintf(out, "Category:   %s (%s, %s, %s)\n", c.Context.Category, c.Context.Config.Intensity, c.Context.Config.Length, c.Context.Config.Tone)
	fmt.Fprintf(out, "Religion:   %s\n", c.Religion)
	fmt.Fprintf(out, "Time:       %s\n", c.Profile.TimeOfDay)
	fmt.Fprintf(out, "Greeting:   %s\n", c.Greeting)
	fmt.Fprintf(out, "Ending:     %s\n", c.Ending)
	fmt.Fprintf(out, "\n--- system ---\n%s\n", c.Prompt.System)
	fmt.Fprintf(out, "\n--- user ---\n%s\n", c.Prompt.User)
	return nil
}

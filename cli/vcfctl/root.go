package main

import (
	"fmt"
	"io"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	benchcmd "vcfkit/cli/vcfctl/internal/commands/benchcmd"
	composecmd "vcfkit/cli/vcfctl/internal/commands/composecmd"
	fetchcmd "vcfkit/cli/vcfctl/internal/commands/fetchcmd"
	preflightcmd "vcfkit/cli/vcfctl/internal/commands/preflight"
	setupcmd "vcfkit/cli/vcfctl/internal/commands/setupcmd"
	"vcfkit/cli/vcfctl/internal/compose"
	"vcfkit/cli/vcfctl/internal/config"
	"vcfkit/cli/vcfctl/internal/steps"
)

type rootFlags struct {
	configPath string
	workdir    string
	logLevel   string
	dryRun     bool
	strict     bool
	verbose    bool
}

// newRootCmd builds the command tree. Running it without a subcommand performs setup.
func newRootCmd(out, errw io.Writer) *cobra.Command {
	var f rootFlags
	sc := &steps.Context{}

	root := &cobra.Command{
		Use:   "vcfctl",
		Short: "Prepare the VCF variant database stack",
		Long: "Download the VCF data file into ./data if it is absent, start the\n" +
			"database services with docker compose in the background, and report completion.",
		Args: cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "help" || cmd.Name() == "completion" {
				return nil
			}
			return prepare(cmd, f, sc, out, errw)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return setupcmd.Run(sc)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(out)
	root.SetErr(errw)
	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return usageError{err}
	})

	pf := root.PersistentFlags()
	pf.StringVar(&f.configPath, "config", "", "Config file (default ./vcfkit.yaml or $VCFKIT_CONFIG)")
	pf.StringVar(&f.workdir, "workdir", "", "Stack directory holding the compose file and ./data (default $VCFKIT_ROOT or cwd)")
	pf.StringVar(&f.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	pf.BoolVar(&f.dryRun, "dry-run", false, "Print commands instead of running them")
	pf.BoolVar(&f.strict, "strict", false, "Fail on download or compose errors instead of continuing")
	pf.BoolVarP(&f.verbose, "verbose", "v", false, "Verbose output")

	root.AddCommand(setupcmd.NewCommand(sc))
	root.AddCommand(fetchcmd.NewCommand(sc))
	root.AddCommand(composecmd.Commands(sc)...)
	root.AddCommand(preflightcmd.NewCommand(sc))
	root.AddCommand(benchcmd.NewCommand(sc))

	root.Args = usageArgs(root.Args)
	for _, c := range root.Commands() {
		c.Args = usageArgs(c.Args)
	}
	return root
}

// usageArgs reports positional argument errors as usage errors.
func usageArgs(check cobra.PositionalArgs) cobra.PositionalArgs {
	if check == nil {
		return nil
	}
	return func(cmd *cobra.Command, args []string) error {
		if err := check(cmd, args); err != nil {
			return usageError{err}
		}
		return nil
	}
}

func prepare(cmd *cobra.Command, f rootFlags, sc *steps.Context, out, errw io.Writer) error {
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	log.SetOutput(errw)

	root, err := compose.DetectRoot(f.workdir)
	if err != nil {
		return err
	}
	path := strings.TrimSpace(f.configPath)
	if path == "" {
		path = config.Path(root)
	}
	cfg, used, err := config.LoadFile(path)
	if err != nil {
		return err
	}
	if strings.TrimSpace(f.configPath) != "" && used == "" {
		return usageError{fmt.Errorf("config file %s does not exist", path)}
	}

	level := cfg.LogLevel
	if f.logLevel != "" {
		level = f.logLevel
	}
	if f.verbose {
		level = "debug"
	}
	if lvl, err := log.ParseLevel(level); err == nil {
		log.SetLevel(lvl)
	} else {
		log.SetLevel(log.InfoLevel)
		log.Warnf("invalid log level %s, defaulting to info", level)
	}

	if err := cfg.Validate(); err != nil {
		return err
	}
	log.WithFields(log.Fields{"root": root, "config": used}).Debug("configuration loaded")

	*sc = steps.Context{
		Ctx:        cmd.Context(),
		Root:       root,
		Config:     cfg,
		ConfigPath: used,
		DryRun:     f.dryRun,
		Strict:     f.strict,
		Out:        out,
		Err:        errw,
	}
	return nil
}

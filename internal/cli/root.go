package cli

import (
	"context"

	"github.com/arthur-debert/packorder/internal/version"
	"github.com/arthur-debert/packorder/pkg/config"
	"github.com/arthur-debert/packorder/pkg/display"
	"github.com/arthur-debert/packorder/pkg/filesystem"
	"github.com/arthur-debert/packorder/pkg/logging"
	"github.com/arthur-debert/packorder/pkg/manager"
	"github.com/arthur-debert/packorder/pkg/paths"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// globals holds the persistent flag values shared by every command
type globals struct {
	verbosity  int
	dryRun     bool
	configPath string
	output     string
}

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	g := &globals{}

	rootCmd := &cobra.Command{
		Use:     "packorder",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Version: version.Version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupLogger(g.verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
	}

	rootCmd.PersistentFlags().CountVarP(&g.verbosity, "verbose", "v", MsgFlagVerbose)
	rootCmd.PersistentFlags().BoolVar(&g.dryRun, "dry-run", false, MsgFlagDryRun)
	rootCmd.PersistentFlags().StringVar(&g.configPath, "config", "", MsgFlagConfig)
	rootCmd.PersistentFlags().StringVarP(&g.output, "output", "o", "auto", MsgFlagOutput)

	rootCmd.AddGroup(&cobra.Group{ID: "core", Title: "COMMANDS:"})
	rootCmd.AddGroup(&cobra.Group{ID: "misc", Title: "MISC:"})

	rootCmd.AddCommand(newListCmd(g))
	rootCmd.AddCommand(newEnableCmd(g))
	rootCmd.AddCommand(newDisableCmd(g))
	rootCmd.AddCommand(newUpCmd(g))
	rootCmd.AddCommand(newDownCmd(g))
	rootCmd.AddCommand(newDeleteCmd(g))
	rootCmd.AddCommand(newImportCmd(g))
	rootCmd.AddCommand(newSaveCmd(g))
	rootCmd.AddCommand(newWatchCmd(g))
	rootCmd.AddCommand(newConfigCmd(g))
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newCompletionCmd())

	return rootCmd
}

// session is what a command needs to work on the pack list
type session struct {
	cfg      *config.Config
	manager  *manager.Manager
	renderer *display.Renderer
}

// open loads configuration, resolves paths and loads the pack list
func (g *globals) open(ctx context.Context, cmd *cobra.Command) (*session, error) {
	renderer, err := g.renderer(cmd)
	if err != nil {
		return nil, err
	}

	cfg, err := config.LoadConfiguration(g.configPath)
	if err != nil {
		return nil, err
	}
	p, err := paths.New(cfg)
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("game", p.GameDir()).
		Str("packs", p.PacksDir()).
		Str("options", p.OptionsFile()).
		Msg("Resolved game paths")

	m := manager.New(filesystem.NewOS(), p, cfg)
	if err := m.Load(ctx); err != nil {
		return nil, err
	}
	return &session{cfg: cfg, manager: m, renderer: renderer}, nil
}

func (g *globals) renderer(cmd *cobra.Command) (*display.Renderer, error) {
	format, err := display.ParseFormat(g.output)
	if err != nil {
		return nil, err
	}
	return display.NewRenderer(cmd.OutOrStdout(), format)
}

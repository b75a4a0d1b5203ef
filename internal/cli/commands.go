package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/arthur-debert/packorder/internal/version"
	"github.com/arthur-debert/packorder/pkg/config"
	"github.com/arthur-debert/packorder/pkg/display"
	"github.com/arthur-debert/packorder/pkg/errors"
	"github.com/arthur-debert/packorder/pkg/manager"
	toml "github.com/pelletier/go-toml/v2"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func newListCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   MsgListShort,
		GroupID: "core",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := g.open(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			m := s.manager
			return s.renderer.RenderList(display.NewListView(m.Enabled(), m.Disabled(), m.Problems()))
		},
	}
}

// newListEditCmd builds a command that applies op to each named pack in
// turn and then saves the order
func newListEditCmd(g *globals, use, short, done string, op func(m *manager.Manager, id string) error) *cobra.Command {
	return &cobra.Command{
		Use:     use + " <pack>...",
		Short:   short,
		GroupID: "core",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := g.open(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			for _, id := range args {
				if err := op(s.manager, id); err != nil {
					return err
				}
				if err := s.renderer.RenderMessage(fmt.Sprintf(done, id)); err != nil {
					return err
				}
			}
			return g.save(s)
		},
	}
}

func newEnableCmd(g *globals) *cobra.Command {
	return newListEditCmd(g, "enable", MsgEnableShort, MsgEnabled, (*manager.Manager).Enable)
}

func newDisableCmd(g *globals) *cobra.Command {
	return newListEditCmd(g, "disable", MsgDisableShort, MsgDisabled, (*manager.Manager).Disable)
}

func newUpCmd(g *globals) *cobra.Command {
	return newListEditCmd(g, "up", MsgUpShort, MsgMovedUp, (*manager.Manager).MoveUp)
}

func newDownCmd(g *globals) *cobra.Command {
	return newListEditCmd(g, "down", MsgDownShort, MsgMovedDown, (*manager.Manager).MoveDown)
}

func newDeleteCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <pack>...",
		Aliases: []string{"rm"},
		Short:   MsgDeleteShort,
		GroupID: "core",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := g.open(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			for _, id := range args {
				if g.dryRun {
					p, ok := s.manager.Get(id)
					if !ok {
						return errors.Newf(errors.ErrNotFound, "pack %q not found", id).WithDetail("id", id)
					}
					if err := s.renderer.RenderMessage(fmt.Sprintf(MsgWouldDelete, p.Path)); err != nil {
						return err
					}
					continue
				}
				if err := <-s.manager.DeleteAsync(cmd.Context(), id); err != nil {
					return err
				}
				if err := s.renderer.RenderMessage(fmt.Sprintf(MsgDeleted, id)); err != nil {
					return err
				}
			}
			return g.save(s)
		},
	}
}

func newImportCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:     "import <path>...",
		Short:   MsgImportShort,
		GroupID: "core",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := g.open(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			// Invalid candidates are reported and skipped, the rest still go in
			var first error
			failed := 0
			for _, src := range args {
				p, err := s.manager.Import(cmd.Context(), src, manager.ImportOptions{DryRun: g.dryRun})
				if err != nil {
					log.Warn().Err(err).Str("path", src).Msg("Skipping pack")
					if first == nil {
						first = err
					}
					failed++
					if err := s.renderer.RenderError(err); err != nil {
						return err
					}
					continue
				}
				msg := fmt.Sprintf(MsgImported, p.ID)
				if g.dryRun {
					msg = fmt.Sprintf(MsgWouldImport, src, p.ID)
				}
				if err := s.renderer.RenderMessage(msg); err != nil {
					return err
				}
			}
			if g.dryRun {
				if err := s.renderer.RenderMessage(MsgDryRunNotice); err != nil {
					return err
				}
			}
			if first != nil {
				return errors.Wrapf(first, errors.GetErrorCode(first), MsgImportFailed, failed, len(args))
			}
			return nil
		},
	}
}

func newSaveCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:     "save",
		Short:   MsgSaveShort,
		GroupID: "core",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := g.open(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			return g.save(s)
		},
	}
}

// save persists the order unless this is a dry run
func (g *globals) save(s *session) error {
	if g.dryRun {
		return s.renderer.RenderMessage(MsgDryRunNotice)
	}
	if err := s.manager.Save(); err != nil {
		return err
	}
	return s.renderer.RenderMessage(fmt.Sprintf(MsgSaved, len(s.manager.Enabled()), s.manager.Paths().OptionsFile()))
}

func newWatchCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:     "watch",
		Short:   MsgWatchShort,
		GroupID: "core",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			s, err := g.open(ctx, cmd)
			if err != nil {
				return err
			}
			m := s.manager
			if err := s.renderer.RenderMessage(fmt.Sprintf(MsgWatching, m.Paths().PacksDir())); err != nil {
				return err
			}

			return m.Watch(ctx, func(err error) {
				msg := fmt.Sprintf(MsgRescanned, len(m.Enabled()), len(m.Disabled()))
				if err != nil {
					msg = fmt.Sprintf(MsgRescanFailed, err)
				}
				if rerr := s.renderer.RenderMessage(msg); rerr != nil {
					log.Warn().Err(rerr).Msg("Failed to report rescan")
				}
			})
		},
	}
}

func newConfigCmd(g *globals) *cobra.Command {
	var showPath bool

	cmd := &cobra.Command{
		Use:     "config",
		Short:   MsgConfigShort,
		GroupID: "misc",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if showPath {
				path := g.configPath
				if path == "" {
					path = config.UserConfigPath()
				}
				_, err := fmt.Fprintln(cmd.OutOrStdout(), path)
				return err
			}

			// Validate before printing so a broken file is reported, not echoed
			if _, err := config.LoadConfiguration(g.configPath); err != nil {
				return err
			}
			raw, err := config.RawConfiguration(g.configPath)
			if err != nil {
				return err
			}
			out, err := toml.Marshal(raw)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
	cmd.Flags().BoolVar(&showPath, "path", false, MsgFlagConfigPath)
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "version",
		Short:   MsgVersionShort,
		GroupID: "misc",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, MsgVersionLine, version.Version)
			_, _ = fmt.Fprintf(out, MsgCommitLine, version.Commit)
			_, _ = fmt.Fprintf(out, MsgBuiltLine, version.Date)
		},
	}
}

func newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: MsgCompletionShort,
		Long: `To load completions:

Bash:
  $ source <(packorder completion bash)

Zsh:
  $ packorder completion zsh > "${fpath[1]}/_packorder"

Fish:
  $ packorder completion fish | source

PowerShell:
  PS> packorder completion powershell | Out-String | Invoke-Expression
`,
		GroupID:               "misc",
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(out)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			default:
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
		},
	}
}

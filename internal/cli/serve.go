package cli

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/timzifer/ebos/config"
	"github.com/timzifer/ebos/processor"
)

func newServeCmd(opts *globalOptions) *cobra.Command {
	var listen string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the configurator and layout preview over HTTP",
		Long: `Start the preview server. With a site file that sets hot_reload, edits to
the file replace the session without a restart; SIGHUP forces a reload.`,
		Args:    cobra.NoArgs,
		GroupID: "design",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			var reload processor.ReloadFunc
			procOpts := []processor.Option{processor.WithServer(listen)}
			if opts.configPath != "" {
				procOpts = append(procOpts, processor.WithConfigPath(opts.configPath, func(fn processor.ReloadFunc) { reload = fn }))
			} else {
				procOpts = append(procOpts, processor.WithConfig(config.Default()))
			}
			proc, err := processor.New(ctx, procOpts...)
			if err != nil {
				return err
			}
			defer proc.Close()

			if reload != nil {
				hup := make(chan os.Signal, 1)
				signal.Notify(hup, syscall.SIGHUP)
				defer signal.Stop(hup)
				go func() {
					for {
						select {
						case <-ctx.Done():
							return
						case <-hup:
							if err := reload(ctx); err != nil {
								log.Error().Err(err).Msg("reload failed")
							}
						}
					}
				}()
			}

			if err := proc.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&listen, "listen", "l", "", "Listen address; defaults to server.listen of the site file")
	return cmd
}

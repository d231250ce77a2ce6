package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"syscall"

	"github.com/oklog/run"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/llehouerou/mediascrobbler/internal/config"
	"github.com/llehouerou/mediascrobbler/internal/errmsg"
	"github.com/llehouerou/mediascrobbler/internal/lastfm"
	"github.com/llehouerou/mediascrobbler/internal/logging"
	"github.com/llehouerou/mediascrobbler/internal/notify"
	"github.com/llehouerou/mediascrobbler/internal/nowplaying"
	"github.com/llehouerou/mediascrobbler/internal/playback"
	"github.com/llehouerou/mediascrobbler/internal/process"
	"github.com/llehouerou/mediascrobbler/internal/scrobble"
	"github.com/llehouerou/mediascrobbler/internal/session"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

const longHelp = `Scrobble what a desktop media app plays to Last.fm.

The watched app is found by its process name and by a marker contained in
the owner id of its media session. On Linux the owner id is the MPRIS bus
name without the org.mpris.MediaPlayer2. prefix. The defaults target
AppleMusic.exe, so set the target for your player, for example in
~/.config/mediascrobbler/config.toml:

  [target]
  process_name = "spotify"
  app_marker = "spotify"

Credentials are read from auth.json (api_key, api_secret, username,
password_hash, optional session_key). Use "mediascrobbler hash-password"
to compute password_hash.`

type flags struct {
	configPath      string
	credentialsPath string
	verbose         bool
}

func newRootCmd() *cobra.Command {
	var f flags

	root := &cobra.Command{
		Use:           "mediascrobbler",
		Short:         "Scrobble what a desktop media app plays to Last.fm",
		Long:          longHelp,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runScrobbler(cmd.Context(), f)
		},
	}
	root.Flags().StringVar(&f.configPath, "config", "", "config file read after the default locations")
	root.Flags().StringVar(&f.credentialsPath, "credentials", "", "credentials JSON file (overrides the config)")
	root.Flags().BoolVarP(&f.verbose, "verbose", "v", false, "log at debug level")

	root.AddCommand(newHashPasswordCmd())
	return root
}

func newHashPasswordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-password",
		Short: "Print the password_hash value for a password read from stdin",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sc := bufio.NewScanner(cmd.InOrStdin())
			if !sc.Scan() {
				if err := sc.Err(); err != nil {
					return fmt.Errorf("read password: %w", err)
				}
				return errors.New("read password: no input")
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), lastfm.PasswordHash(sc.Text()))
			return err
		},
	}
}

func fail(op errmsg.Op, err error) error {
	return errors.New(errmsg.Format(op, err))
}

// loadCredentials reads the credentials file; the --credentials flag wins
// over the config value.
func loadCredentials(cfg *config.Config, f flags) (*config.Credentials, error) {
	path := cfg.Credentials
	if f.credentialsPath != "" {
		path = f.credentialsPath
	}
	creds, err := config.LoadCredentials(path)
	if err != nil {
		return nil, errors.New(errmsg.FormatWith(errmsg.OpCredentialsLoad, path, err))
	}
	return creds, nil
}

func runScrobbler(ctx context.Context, f flags) error {
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return fail(errmsg.OpConfigLoad, err)
	}
	level := cfg.Log.Level
	if f.verbose {
		level = zerolog.LevelDebugValue
	}
	log, err := logging.New(level, os.Stderr)
	if err != nil {
		return fail(errmsg.OpInitialize, err)
	}

	// Platform first: there is nothing to scrobble without a session provider.
	manager, err := session.NewManager()
	if err != nil {
		return fail(errmsg.OpSessionQuery, err)
	}

	creds, err := loadCredentials(cfg, f)
	if err != nil {
		return err
	}

	client := lastfm.New(creds.APIKey, creds.APISecret, lastfm.Options{
		RequestTimeout:    cfg.Lastfm.RequestTimeout,
		RequestsPerSecond: cfg.Lastfm.RequestsPerSecond,
	})
	if err := client.Authenticate(ctx, creds.Username, creds.PasswordHash, creds.SessionKey); err != nil {
		return fail(errmsg.OpLastfmAuth, err)
	}
	log.Info().Str("user", client.Username()).Msg("authenticated with Last.fm")

	var remote scrobble.Remote = client
	if cfg.Notify.Enabled {
		remote = notify.NewAnnouncer(client, notify.New(), log)
	}

	probe := session.NewProbe(manager, log)
	notifier := nowplaying.New(
		probe,
		playback.NewDetector(manager, cfg.Target.AppMarker, cfg.Intervals.SampleWindow, log),
		client,
		cfg.Intervals.NowPlaying,
		log,
	)
	scheduler := scrobble.NewScheduler(
		process.NewChecker(process.SystemLister{}, cfg.Target.ProcessName, log),
		probe,
		playback.NewDetector(manager, cfg.Target.AppMarker, cfg.Intervals.SampleWindow, log),
		remote,
		scrobble.Options{
			IdlePoll:        cfg.Intervals.IdlePoll,
			Tick:            cfg.Intervals.Tick,
			DefaultDuration: cfg.Scrobble.DefaultDuration,
			MinDuration:     cfg.Scrobble.MinDuration,
		},
		log,
	)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var g run.Group
	g.Add(func() error {
		log.Info().
			Str("process", cfg.Target.ProcessName).
			Str("marker", cfg.Target.AppMarker).
			Msg("starting scrobble scheduler")
		return scheduler.Run(ctx)
	}, func(error) { cancel() })
	g.Add(func() error {
		log.Info().Dur("interval", cfg.Intervals.NowPlaying).Msg("starting now playing notifier")
		return notifier.Run(ctx)
	}, func(error) { cancel() })
	g.Add(run.SignalHandler(ctx, os.Interrupt, syscall.SIGTERM))

	err = g.Run()
	var sig run.SignalError
	switch {
	case errors.As(err, &sig):
		log.Info().Stringer("signal", sig.Signal).Msg("shutting down")
		return nil
	case errors.Is(err, context.Canceled):
		return nil
	default:
		return err
	}
}

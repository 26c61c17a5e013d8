package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"syscall"
	"time"

	"github.com/lmittmann/tint"
	"github.com/oklog/run"
	"github.com/urfave/cli/v2"

	"github.com/binarymatt/streamtail"
)

const separator = "========================================="

type clientFactory func(context.Context, *streamtail.Settings) (streamtail.KinesisAPI, error)

func newKinesisClient(ctx context.Context, s *streamtail.Settings) (streamtail.KinesisAPI, error) {
	client, err := streamtail.NewKinesisClient(ctx, s)
	if err != nil {
		return nil, err
	}
	return client, nil
}

type viewer struct {
	stdout    io.Writer
	stderr    io.Writer
	environ   map[string]string
	newClient clientFactory
}

// newApp wires the command line; environ nil means the process environment.
func newApp(stdout, stderr io.Writer, environ map[string]string, newClient clientFactory) *cli.App {
	v := &viewer{
		stdout:    stdout,
		stderr:    stderr,
		environ:   environ,
		newClient: newClient,
	}
	return &cli.App{
		Name:      "streamtail",
		Usage:     "print records as they are appended to the first shard of a kinesis stream",
		Version:   version,
		Writer:    stdout,
		ErrWriter: stderr,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "quiet",
				Aliases: []string{"q"},
				Usage:   "print record payloads only",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Value: "info",
				Usage: "stderr log level: debug, info, warn or error",
			},
		},
		Action: v.run,
	}
}

func (v *viewer) run(cCtx *cli.Context) error {
	quiet := cCtx.Bool("quiet")
	logger, err := v.logger(cCtx.String("log-level"), quiet)
	if err != nil {
		return err
	}
	if !quiet {
		v.banner()
	}

	settings, err := streamtail.LoadSettings(v.environ)
	var missing *streamtail.MissingSettingsError
	if errors.As(err, &missing) {
		for _, key := range missing.Keys {
			fmt.Fprintf(v.stdout, "%s is not set\n", key)
		}
		return nil
	}
	if err != nil {
		return err
	}
	if !quiet {
		for _, f := range settings.Fields() {
			fmt.Fprintf(v.stdout, "%s: %s\n", f.Name, f.Value)
		}
		fmt.Fprintln(v.stdout, separator)
	}

	client, err := v.newClient(cCtx.Context, settings)
	if err != nil {
		return err
	}
	cfg := streamtail.NewConfig(
		streamtail.WithStreamName(settings.StreamName),
		streamtail.WithKinesisClient(client),
		streamtail.WithLogger(logger),
		streamtail.WithRecordHandler(streamtail.PrintRecords(v.stdout)),
	)
	if err := cfg.Validate(); err != nil {
		return err
	}
	tailer := streamtail.New(cfg)

	ctx, cancel := context.WithCancel(cCtx.Context)
	defer cancel()
	var g run.Group
	g.Add(func() error {
		return v.tail(ctx, tailer, settings.StreamName, quiet)
	}, func(error) {
		cancel()
	})
	g.Add(run.SignalHandler(ctx, os.Interrupt, syscall.SIGTERM))

	err = g.Run()
	var sigErr run.SignalError
	if errors.As(err, &sigErr) {
		logger.Info("stopping", "signal", sigErr.Signal.String())
		return nil
	}
	return err
}

func (v *viewer) tail(ctx context.Context, tailer *streamtail.Tailer, stream string, quiet bool) error {
	shard, err := tailer.SelectShard(ctx)
	if errors.Is(err, streamtail.ErrNoShards) {
		fmt.Fprintf(v.stdout, "No shards found for stream %s\n", stream)
		return nil
	}
	if err != nil {
		return err
	}
	if !quiet {
		fmt.Fprintf(v.stdout, "Shard ID: %s\n", *shard.ShardId)
	}

	iterator, err := tailer.InitialIterator(ctx, *shard.ShardId)
	if err != nil {
		return err
	}
	if !quiet {
		fmt.Fprintln(v.stdout, separator)
	}

	err = tailer.Poll(ctx, iterator)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func (v *viewer) banner() {
	// clear the terminal and move the cursor to the top left
	fmt.Fprint(v.stdout, "\x1b[2J\x1b[1;1H")
	fmt.Fprintf(v.stdout, "AWS Kinesis Event Viewer v%s\n", version)
	fmt.Fprintln(v.stdout, separator)
}

func (v *viewer) logger(levelName string, quiet bool) (*slog.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(levelName)); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", levelName, err)
	}
	if quiet && level < slog.LevelError {
		level = slog.LevelError
	}
	return slog.New(tint.NewHandler(v.stderr, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
	})), nil
}

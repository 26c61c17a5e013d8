package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/kinesis/types"

	"github.com/binarymatt/streamtail"
)

func handler(ctx context.Context, record types.Record) error {
	streamtail.LoggerFromContext(ctx).Info("received record", "partition_key", aws.ToString(record.PartitionKey), "data", streamtail.RenderPayload(record.Data))
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	settings, err := streamtail.LoadSettings(nil)
	if err != nil {
		panic(err)
	}
	client, err := streamtail.NewKinesisClient(ctx, settings)
	if err != nil {
		panic(err)
	}
	cfg := streamtail.NewConfig(
		streamtail.WithStreamName(settings.StreamName),
		streamtail.WithKinesisClient(client),
		streamtail.WithRecordHandler(handler),
	)
	// Run blocks until ctx is cancelled or a call fails.
	if err := streamtail.New(cfg).Run(ctx); err != nil && ctx.Err() == nil {
		slog.Error("tail stopped", "error", err)
		os.Exit(1)
	}
}

package streamtail

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/kinesis"
	"github.com/coder/quartz"
	"github.com/oklog/ulid/v2"
)

// PollInterval is the pause between two GetRecords calls.
const PollInterval = 1 * time.Second

// Tailer follows a single shard of a stream from its tip.
type Tailer struct {
	config *Config
	logger *slog.Logger
	clock  quartz.Clock
}

func New(config *Config) *Tailer {
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	clock := config.Clock
	if clock == nil {
		clock = quartz.NewReal()
	}
	return &Tailer{
		config: config,
		logger: logger.With("stream", config.StreamName, "session", ulid.Make().String()),
		clock:  clock,
	}
}

// Run selects the first shard, opens a LATEST iterator on it and polls
// until ctx is done or a call fails.
func (t *Tailer) Run(ctx context.Context) error {
	if err := t.config.Validate(); err != nil {
		return err
	}
	shard, err := t.SelectShard(ctx)
	if err != nil {
		return err
	}
	iterator, err := t.InitialIterator(ctx, *shard.ShardId)
	if err != nil {
		return err
	}
	return t.Poll(ctx, iterator)
}

// Poll exchanges iterator for a batch of records and the next iterator,
// hands each record to the record handler, then waits PollInterval and
// repeats with the new iterator. It only returns on error.
func (t *Tailer) Poll(ctx context.Context, iterator string) error {
	kc := t.config.KinesisClient
	handlerCtx := LoggerWithContext(ctx, t.logger)
	t.logger.Info("starting poll loop")
	for {
		out, err := kc.GetRecords(ctx, &kinesis.GetRecordsInput{
			ShardIterator: aws.String(iterator),
		})
		if err != nil {
			t.logger.Error("error fetching records", "error", err)
			return fmt.Errorf("get records: %w", err)
		}
		t.logger.Debug("records fetched", "count", len(out.Records), "millis_behind_latest", aws.ToInt64(out.MillisBehindLatest))
		for _, record := range out.Records {
			if err := t.config.RecordHandler(handlerCtx, record); err != nil {
				t.logger.Error("error handling record", "error", err, "sequence", aws.ToString(record.SequenceNumber))
				return err
			}
		}
		if aws.ToString(out.NextShardIterator) == "" {
			t.logger.Error("get records returned no next iterator")
			return ErrMissingIterator
		}
		iterator = *out.NextShardIterator

		if err := t.pause(ctx); err != nil {
			return err
		}
	}
}

func (t *Tailer) pause(ctx context.Context) error {
	timer := t.clock.NewTimer(PollInterval, "tail", "pause")
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

package streamtail

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/kinesis"
	"github.com/aws/aws-sdk-go-v2/service/kinesis/types"
)

var (
	ErrNoShards          = errors.New("stream has no shards")
	ErrProtocolViolation = errors.New("kinesis response is missing a required field")
	ErrMissingIterator   = fmt.Errorf("missing shard iterator: %w", ErrProtocolViolation)
)

// SelectShard describes the stream once and returns the first shard listed.
func (t *Tailer) SelectShard(ctx context.Context) (types.Shard, error) {
	t.logger.Info("describing stream")
	out, err := t.config.KinesisClient.DescribeStream(ctx, &kinesis.DescribeStreamInput{
		StreamName: aws.String(t.config.StreamName),
	})
	if err != nil {
		t.logger.Error("error describing stream", "error", err)
		return types.Shard{}, fmt.Errorf("describe stream %s: %w", t.config.StreamName, err)
	}
	if out.StreamDescription == nil {
		return types.Shard{}, fmt.Errorf("stream description: %w", ErrProtocolViolation)
	}
	shards := out.StreamDescription.Shards
	if len(shards) == 0 {
		return types.Shard{}, fmt.Errorf("%s: %w", t.config.StreamName, ErrNoShards)
	}
	shard := shards[0]
	if aws.ToString(shard.ShardId) == "" {
		return types.Shard{}, fmt.Errorf("shard id: %w", ErrProtocolViolation)
	}
	t.logger.Info("selected shard", "shard_id", *shard.ShardId, "shard_count", len(shards))
	return shard, nil
}

// InitialIterator requests a LATEST iterator, so only records appended
// after this call are returned.
func (t *Tailer) InitialIterator(ctx context.Context, shardID string) (string, error) {
	input := &kinesis.GetShardIteratorInput{
		StreamName:        aws.String(t.config.StreamName),
		ShardId:           aws.String(shardID),
		ShardIteratorType: types.ShardIteratorTypeLatest,
	}
	t.logger.Debug("shard iterator input", "shard_id", shardID, "type", input.ShardIteratorType)
	out, err := t.config.KinesisClient.GetShardIterator(ctx, input)
	if err != nil {
		t.logger.Error("error getting shard iterator", "error", err)
		return "", fmt.Errorf("get shard iterator: %w", err)
	}
	if aws.ToString(out.ShardIterator) == "" {
		return "", ErrMissingIterator
	}
	return *out.ShardIterator, nil
}

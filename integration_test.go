package streamtail

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/kinesis"
	"github.com/aws/aws-sdk-go-v2/service/kinesis/types"
	"github.com/lmittmann/tint"
	"github.com/stretchr/testify/suite"
)

const (
	integrationStream   = "streamtail-test-stream"
	integrationEndpoint = "http://localhost:4566"
)

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

type IntegrationTestSuite struct {
	suite.Suite
	kc  *kinesis.Client
	ctx context.Context
}

func TestIntegrationTests(t *testing.T) {
	runIntegration := os.Getenv("STREAMTAIL_INTEGRATION_TESTS")
	if runIntegration == "" {
		t.Skip("skipping integration tests, STREAMTAIL_INTEGRATION_TESTS is not set")
	}
	suite.Run(t, new(IntegrationTestSuite))
}

func (i *IntegrationTestSuite) SetupSuite() {
	logger := slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:     slog.LevelInfo,
		AddSource: true,
	}))
	slog.SetDefault(logger)
	i.ctx = context.Background()

	client, err := NewKinesisClient(i.ctx, &Settings{
		AccessKeyID:      "AKID",
		SecretAccessKey:  "SECRET_KEY",
		Region:           "us-east-1",
		StreamName:       integrationStream,
		EndpointOverride: integrationEndpoint,
	})
	i.Require().NoError(err)
	i.kc = client
	i.createStream()
}

func (i *IntegrationTestSuite) TearDownSuite() {
	_, err := i.kc.DeleteStream(i.ctx, &kinesis.DeleteStreamInput{
		StreamName:              aws.String(integrationStream),
		EnforceConsumerDeletion: aws.Bool(true),
	})
	i.Require().NoError(err)
}

func (i *IntegrationTestSuite) createStream() {
	_, err := i.kc.CreateStream(i.ctx, &kinesis.CreateStreamInput{
		StreamName: aws.String(integrationStream),
		ShardCount: aws.Int32(1),
	})
	i.Require().NoError(err)
	waiter := kinesis.NewStreamExistsWaiter(i.kc)
	err = waiter.Wait(i.ctx, &kinesis.DescribeStreamInput{StreamName: aws.String(integrationStream)}, 30*time.Second)
	i.Require().NoError(err)
}

func (i *IntegrationTestSuite) putRecord(data string) {
	_, err := i.kc.PutRecord(i.ctx, &kinesis.PutRecordInput{
		StreamName:   aws.String(integrationStream),
		PartitionKey: aws.String("key"),
		Data:         []byte(data),
	})
	i.Require().NoError(err)
}

func (i *IntegrationTestSuite) TestTail_SkipsBacklog() {
	i.putRecord("backlog")

	tailer := New(NewConfig(
		WithStreamName(integrationStream),
		WithKinesisClient(i.kc),
	))
	shard, err := tailer.SelectShard(i.ctx)
	i.Require().NoError(err)
	i.Require().Equal("shardId-000000000000", aws.ToString(shard.ShardId))

	iterator, err := tailer.InitialIterator(i.ctx, *shard.ShardId)
	i.Require().NoError(err)

	out, err := i.kc.GetRecords(i.ctx, &kinesis.GetRecordsInput{ShardIterator: aws.String(iterator)})
	i.Require().NoError(err)
	i.Require().Empty(out.Records)
}

func (i *IntegrationTestSuite) TestTail_PrintsNewRecords() {
	var out syncBuffer
	ctx, cancel := context.WithTimeout(i.ctx, 20*time.Second)
	defer cancel()

	var handled sync.WaitGroup
	handled.Add(3)
	printer := PrintRecords(&out)
	tailer := New(NewConfig(
		WithStreamName(integrationStream),
		WithKinesisClient(i.kc),
		WithRecordHandler(func(ctx context.Context, r types.Record) error {
			defer handled.Done()
			return printer(ctx, r)
		}),
	))
	shard, err := tailer.SelectShard(ctx)
	i.Require().NoError(err)
	iterator, err := tailer.InitialIterator(ctx, *shard.ShardId)
	i.Require().NoError(err)

	errCh := make(chan error, 1)
	go func() {
		errCh <- tailer.Poll(ctx, iterator)
	}()
	for j := range 3 {
		i.putRecord(fmt.Sprintf("record%d", j))
	}
	done := make(chan struct{})
	go func() {
		handled.Wait()
		close(done)
	}()
	select {
	case <-done:
	case err := <-errCh:
		i.Require().FailNow("poll stopped early", "error: %v", err)
	}
	cancel()

	i.Require().ErrorIs(<-errCh, context.Canceled)
	i.Require().Equal([]string{"record0", "record1", "record2"}, strings.Fields(out.String()))
}

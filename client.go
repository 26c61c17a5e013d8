package streamtail

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/kinesis"
)

type KinesisAPI interface {
	DescribeStream(ctx context.Context, params *kinesis.DescribeStreamInput, optFns ...func(*kinesis.Options)) (*kinesis.DescribeStreamOutput, error)
	GetShardIterator(ctx context.Context, params *kinesis.GetShardIteratorInput, optFns ...func(*kinesis.Options)) (*kinesis.GetShardIteratorOutput, error)
	GetRecords(ctx context.Context, params *kinesis.GetRecordsInput, optFns ...func(*kinesis.Options)) (*kinesis.GetRecordsOutput, error)
}

var _ KinesisAPI = (*kinesis.Client)(nil)

// NewKinesisClient builds a kinesis client from resolved settings.
func NewKinesisClient(ctx context.Context, s *Settings) (*kinesis.Client, error) {
	awsCfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(s.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(s.AccessKeyID, s.SecretAccessKey, s.SessionToken)),
	)
	if err != nil {
		return nil, fmt.Errorf("loading aws config: %w", err)
	}
	return kinesis.NewFromConfig(awsCfg, withEndpointOverride(s)), nil
}

func withEndpointOverride(s *Settings) func(*kinesis.Options) {
	return func(o *kinesis.Options) {
		if s.EndpointOverride != "" {
			o.BaseEndpoint = aws.String(s.EndpointOverride)
		}
	}
}

// Package braket submits assembled pulse programs to AWS Braket as analog
// Hamiltonian simulation quantum tasks and retrieves their shot results.
package braket

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/braket"
	"github.com/aws/aws-sdk-go-v2/service/braket/types"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/atomlab/pulsebridge/internal/modules/decode"
	"github.com/atomlab/pulsebridge/internal/modules/program"
)

// Config holds Braket client configuration.
type Config struct {
	Region      string
	DeviceARN   string
	Bucket      string // S3 bucket receiving task results
	Prefix      string // Key prefix within the bucket
	PollSeconds int
	Log         zerolog.Logger
}

// Client submits programs to a Braket AHS device and downloads results.
type Client struct {
	braket     *braket.Client
	downloader *manager.Downloader
	deviceARN  string
	bucket     string
	prefix     string
	poll       time.Duration
	log        zerolog.Logger
}

// New creates a Braket client using the default AWS credential chain.
func New(ctx context.Context, cfg Config) (*Client, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	poll := time.Duration(cfg.PollSeconds) * time.Second
	if poll <= 0 {
		poll = 5 * time.Second
	}

	return &Client{
		braket:     braket.NewFromConfig(awsCfg),
		downloader: manager.NewDownloader(s3.NewFromConfig(awsCfg)),
		deviceARN:  cfg.DeviceARN,
		bucket:     cfg.Bucket,
		prefix:     cfg.Prefix,
		poll:       poll,
		log:        cfg.Log.With().Str("client", "braket").Logger(),
	}, nil
}

// Submit creates a quantum task for the program and returns its ARN.
// The client token makes retried submissions idempotent on the service side.
func (c *Client) Submit(ctx context.Context, prog program.Program, shots int) (string, error) {
	action, err := program.EncodeIR(prog)
	if err != nil {
		return "", fmt.Errorf("failed to encode program action: %w", err)
	}

	out, err := c.braket.CreateQuantumTask(ctx, &braket.CreateQuantumTaskInput{
		Action:            aws.String(string(action)),
		ClientToken:       aws.String(uuid.New().String()),
		DeviceArn:         aws.String(c.deviceARN),
		OutputS3Bucket:    aws.String(c.bucket),
		OutputS3KeyPrefix: aws.String(c.prefix),
		Shots:             aws.Int64(int64(shots)),
	})
	if err != nil {
		return "", fmt.Errorf("failed to create quantum task: %w", err)
	}

	arn := aws.ToString(out.QuantumTaskArn)
	c.log.Info().
		Str("task_arn", arn).
		Str("device_arn", c.deviceARN).
		Int("shots", shots).
		Msg("Quantum task created")

	return arn, nil
}

// Await polls the quantum task until it reaches a terminal state and, on
// completion, downloads and parses its shot results.
func (c *Client) Await(ctx context.Context, arn string) ([]decode.Shot, error) {
	ticker := time.NewTicker(c.poll)
	defer ticker.Stop()

	for {
		out, err := c.braket.GetQuantumTask(ctx, &braket.GetQuantumTaskInput{
			QuantumTaskArn: aws.String(arn),
		})
		if err != nil {
			return nil, fmt.Errorf("failed to get quantum task %s: %w", arn, err)
		}

		switch out.Status {
		case types.QuantumTaskStatusCompleted:
			return c.downloadResults(ctx, aws.ToString(out.OutputS3Bucket), aws.ToString(out.OutputS3Directory))
		case types.QuantumTaskStatusFailed:
			return nil, fmt.Errorf("quantum task %s failed: %s", arn, aws.ToString(out.FailureReason))
		case types.QuantumTaskStatusCancelled:
			return nil, fmt.Errorf("quantum task %s was cancelled", arn)
		}

		c.log.Debug().Str("task_arn", arn).Str("status", string(out.Status)).Msg("Quantum task pending")

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}

// Run submits the program and blocks until results are available.
func (c *Client) Run(ctx context.Context, prog program.Program, shots int) ([]decode.Shot, error) {
	arn, err := c.Submit(ctx, prog, shots)
	if err != nil {
		return nil, err
	}
	return c.Await(ctx, arn)
}

// downloadResults fetches results.json from the task's output location.
func (c *Client) downloadResults(ctx context.Context, bucket, dir string) ([]decode.Shot, error) {
	key := dir + "/results.json"
	buf := manager.NewWriteAtBuffer(nil)

	_, err := c.downloader.Download(ctx, buf, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to download s3://%s/%s: %w", bucket, key, err)
	}

	shots, err := ParseResults(buf.Bytes())
	if err != nil {
		return nil, err
	}

	c.log.Info().Int("shots", len(shots)).Str("key", key).Msg("Downloaded task results")
	return shots, nil
}

package aggregator

import (
	"bytes"
	"fmt"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
)

// S3SinkOptions configures an optional mirror of saved results to S3.
type S3SinkOptions struct {
	Region                       string
	AccessKeyID, AccessKeySecret string
	Bucket, Prefix               string
}

// S3Sink mirrors saved ProcessingResult JSON to an S3 bucket. It is an
// optional collaborator of ResultAggregator - a nil *S3Sink disables
// mirroring entirely.
type S3Sink struct {
	bucket string
	prefix string
	client *s3.S3
}

// NewS3Sink builds an S3Sink from static credentials.
func NewS3Sink(opts S3SinkOptions) (*S3Sink, error) {
	config := aws.NewConfig().
		WithRegion(opts.Region).
		WithCredentials(credentials.NewStaticCredentials(opts.AccessKeyID, opts.AccessKeySecret, ""))
	sess, err := session.NewSession(config)
	if err != nil {
		return nil, fmt.Errorf("error creating AWS session: %w", err)
	}
	return &S3Sink{
		bucket: opts.Bucket,
		prefix: opts.Prefix,
		client: s3.New(sess),
	}, nil
}

func (s *S3Sink) key(taskID string) string {
	if s.prefix == "" {
		return taskID + ".json"
	}
	return s.prefix + "/" + taskID + ".json"
}

// Put uploads raw (the same bytes written to the local result file) under
// the task's key.
func (s *S3Sink) Put(taskID string, raw []byte) error {
	key := s.key(taskID)
	_, err := s.client.PutObject(&s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(raw),
	})
	return err
}

// Get retrieves a previously mirrored result's raw bytes.
func (s *S3Sink) Get(taskID string) ([]byte, error) {
	out, err := s.client.GetObject(&s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(taskID)),
	})
	if err != nil {
		return nil, err
	}
	defer out.Body.Close()
	buf := new(bytes.Buffer)
	if _, err := buf.ReadFrom(out.Body); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

var _ Storage = (*S3Storage)(nil)

// S3Storage persists objects in an S3 bucket. The bucket keyspace is flat;
// a path's segments are joined with "/" into the object key, and Make is a
// logical no-op because keys imply no real hierarchy. Each PutObject is a
// single atomic replacement, which satisfies the no-partial-read contract
// without extra work.
type S3Storage struct {
	ctx    context.Context
	client *s3.Client
	bucket string

	appendKey   string
	appendLines []string
	appendOpen  bool
}

// NewS3Storage creates an S3Storage for the named bucket.
func NewS3Storage(ctx context.Context, awsCfg aws.Config, bucket string) *S3Storage {
	return &S3Storage{
		ctx:    ctx,
		client: s3.NewFromConfig(awsCfg),
		bucket: bucket,
	}
}

func (s *S3Storage) pathify(path []string) string {
	return strings.Join(path, "/")
}

// Exists checks literal key presence, not prefix presence: a "directory"
// marker never exists in a bucket.
func (s *S3Storage) Exists(path []string) bool {
	_, err := s.client.HeadObject(s.ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.pathify(path)),
	})
	return err == nil
}

func (s *S3Storage) Make(path []string, existOK bool) error {
	return nil
}

func (s *S3Storage) WriteJSON(path []string, content any) error {
	text, err := encode(content)
	if err != nil {
		return err
	}
	return s.put(path, text)
}

func (s *S3Storage) ReadJSON(path []string) ([]json.RawMessage, error) {
	data, err := s.get(path)
	if err != nil {
		return nil, err
	}
	return decodeDocument(data)
}

func (s *S3Storage) WriteText(path []string, content string) error {
	return s.put(path, content)
}

func (s *S3Storage) put(path []string, content string) error {
	_, err := s.client.PutObject(s.ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.pathify(path)),
		Body:   strings.NewReader(content),
	})
	if err != nil {
		return fmt.Errorf("failed to put s3://%s/%s: %w", s.bucket, s.pathify(path), err)
	}
	return nil
}

func (s *S3Storage) get(path []string) ([]byte, error) {
	key := s.pathify(path)
	out, err := s.client.GetObject(s.ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var noSuchKey *types.NoSuchKey
		if errors.As(err, &noSuchKey) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
		}
		return nil, fmt.Errorf("failed to get s3://%s/%s: %w", s.bucket, key, err)
	}
	defer out.Body.Close()
	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read s3://%s/%s: %w", s.bucket, key, err)
	}
	return data, nil
}

// OpenAppend loads the existing object, if any, so the session can rewrite
// it wholesale on close. S3 has no append primitive; the session buffers
// lines in memory and CloseAppend performs one PutObject.
func (s *S3Storage) OpenAppend(path []string) error {
	if s.appendOpen {
		return ErrSessionOpen
	}
	key := s.pathify(path)
	data, err := s.get(path)
	switch {
	case errors.Is(err, ErrNotFound):
		s.appendLines = nil
	case err != nil:
		return err
	default:
		s.appendLines = strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	}
	s.appendKey = key
	s.appendOpen = true
	return nil
}

func (s *S3Storage) AppendLine(content any) error {
	if !s.appendOpen {
		return fmt.Errorf("storage: no append session open")
	}
	line, err := encodeLine(content)
	if err != nil {
		return err
	}
	s.appendLines = append(s.appendLines, strings.TrimSuffix(line, "\n"))
	return nil
}

func (s *S3Storage) CloseAppend() error {
	if !s.appendOpen {
		return nil
	}
	body := strings.Join(s.appendLines, "\n") + "\n"
	_, err := s.client.PutObject(s.ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.appendKey),
		Body:   strings.NewReader(body),
	})
	s.appendKey = ""
	s.appendLines = nil
	s.appendOpen = false
	if err != nil {
		return fmt.Errorf("failed to close append session: %w", err)
	}
	return nil
}

func (s *S3Storage) List(pattern []string) ([][]string, error) {
	var matches [][]string
	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(s.ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list s3://%s: %w", s.bucket, err)
		}
		for _, obj := range page.Contents {
			segments := strings.Split(aws.ToString(obj.Key), "/")
			if matchPattern(pattern, segments) {
				matches = append(matches, segments)
			}
		}
	}
	sortPaths(matches)
	return matches, nil
}

func (s *S3Storage) RemoveTree(path []string) error {
	prefix := s.pathify(path) + "/"
	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(prefix),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(s.ctx)
		if err != nil {
			return fmt.Errorf("failed to list s3://%s/%s: %w", s.bucket, prefix, err)
		}
		for _, obj := range page.Contents {
			_, err := s.client.DeleteObject(s.ctx, &s3.DeleteObjectInput{
				Bucket: aws.String(s.bucket),
				Key:    obj.Key,
			})
			if err != nil {
				return fmt.Errorf("failed to delete s3://%s/%s: %w", s.bucket, aws.ToString(obj.Key), err)
			}
		}
	}
	return nil
}

// Package storage provides durable, path-addressed persistence with two
// interchangeable backends: a local directory tree and an S3 bucket.
//
// Paths are ordered segment slices, never "/"-delimited strings, so key
// escaping is a non-issue. The package assumes a single writer process per
// store root; concurrent writers are a documented non-goal.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
)

var (
	// ErrNotFound reports a missing object. Callers commonly recover by
	// treating the collection as empty.
	ErrNotFound = errors.New("storage: object not found")

	// ErrMalformedData reports persisted content that is not valid JSON of
	// an expected shape. This is never silently recovered.
	ErrMalformedData = errors.New("storage: malformed data")

	// ErrAlreadyExists reports a Make on an existing path without existOK.
	ErrAlreadyExists = errors.New("storage: path already exists")

	// ErrSessionOpen reports an OpenAppend while a session is active.
	ErrSessionOpen = errors.New("storage: append session already open")

	// ErrUnsupportedType reports a value that cannot be persisted.
	ErrUnsupportedType = errors.New("storage: unsupported content type")
)

// Storage is the persistence capability set shared by both backends.
//
// WriteJSON fully overwrites the target; consumers only ever observe the
// complete prior or complete new content. Exactly one append session may be
// open at a time per instance.
type Storage interface {
	Exists(path []string) bool
	Make(path []string, existOK bool) error
	WriteJSON(path []string, content any) error
	ReadJSON(path []string) ([]json.RawMessage, error)
	WriteText(path []string, content string) error
	OpenAppend(path []string) error
	AppendLine(content any) error
	CloseAppend() error
	List(pattern []string) ([][]string, error)
	RemoveTree(path []string) error
}

// Environment selects the deployment flavor of storage and notification.
type Environment string

const (
	EnvLocal Environment = "local"
	EnvAWS   Environment = "aws"
)

// DetectEnvironment decides the deployment environment once at startup.
// Running inside Lambda, or an explicit DOCKETWATCH_ENV=aws, selects the
// AWS backends; anything else is local.
func DetectEnvironment() Environment {
	if os.Getenv("DOCKETWATCH_ENV") == string(EnvAWS) {
		return EnvAWS
	}
	if os.Getenv("AWS_LAMBDA_FUNCTION_NAME") != "" {
		return EnvAWS
	}
	return EnvLocal
}

// New returns the concrete Storage for the environment. For EnvLocal the
// base is a directory that must already exist; for EnvAWS it is the bucket
// name, with credentials from the SDK's default chain.
func New(ctx context.Context, env Environment, base string) (Storage, error) {
	switch env {
	case EnvAWS:
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
		}
		return NewS3Storage(ctx, awsCfg, base), nil
	case EnvLocal:
		return NewLocalStorage(base)
	default:
		return nil, fmt.Errorf("unknown storage environment %q", env)
	}
}

// encode serializes content into JSON text. Strings pass through
// unchanged on the assumption they are already serialized; everything else
// goes through encoding/json. Unserializable values (channels, functions)
// are a caller programming error.
func encode(content any) (string, error) {
	switch v := content.(type) {
	case string:
		return v, nil
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return "", fmt.Errorf("%w: %T: %v", ErrUnsupportedType, content, err)
		}
		return string(data), nil
	}
}

// encodeLine serializes a value to a single newline-terminated NLJSON
// record. Embedded newlines in pre-serialized text are squashed so one
// record always occupies one line.
func encodeLine(content any) (string, error) {
	text, err := encode(content)
	if err != nil {
		return "", err
	}
	text = strings.ReplaceAll(text, "\n", "")
	return text + "\n", nil
}

// decodeDocument splits raw JSON into a sequence of records: an object
// becomes a single-element sequence, an array yields each element, and any
// other shape is malformed.
func decodeDocument(data []byte) ([]json.RawMessage, error) {
	trimmed := strings.TrimSpace(string(data))
	switch {
	case strings.HasPrefix(trimmed, "{"):
		var single json.RawMessage
		if err := json.Unmarshal(data, &single); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedData, err)
		}
		return []json.RawMessage{single}, nil
	case strings.HasPrefix(trimmed, "["):
		var many []json.RawMessage
		if err := json.Unmarshal(data, &many); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedData, err)
		}
		return many, nil
	default:
		return nil, fmt.Errorf("%w: expected JSON object or array", ErrMalformedData)
	}
}

// matchPattern reports whether a stored path matches a pattern of the same
// length, where a "*" segment matches any single segment.
func matchPattern(pattern, path []string) bool {
	if len(pattern) != len(path) {
		return false
	}
	for n, seg := range pattern {
		if seg != "*" && seg != path[n] {
			return false
		}
	}
	return true
}

// sortPaths orders segment paths lexically by their joined form so List
// output is deterministic across backends.
func sortPaths(paths [][]string) {
	sort.Slice(paths, func(a, b int) bool {
		return strings.Join(paths[a], "/") < strings.Join(paths[b], "/")
	})
}

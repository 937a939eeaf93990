// Package notify delivers digests of newly matched items. A Notifier
// accumulates items over its lifetime and finalizes exactly once on Close,
// but only if at least one item was accumulated: an empty session has no
// side effects at all.
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"

	"github.com/docketwatch/docketwatch/app/model"
	"github.com/docketwatch/docketwatch/app/storage"
)

// Notifier is the notification capability consumed by the filter engine.
// Close must run on every exit path, including early error returns.
type Notifier interface {
	Notify(detail model.ItemDetail)
	Close() error
}

// SMTPConfig carries credentials for a plain SMTP relay.
type SMTPConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	From     string `yaml:"from"`
	Password string `yaml:"password"`
	To       string `yaml:"to"`
}

// SESConfig names a verified SES sender and its recipient.
type SESConfig struct {
	From string `yaml:"from"`
	To   string `yaml:"to"`
}

// SNSConfig names the topic notifications are published to.
type SNSConfig struct {
	TopicARN string `yaml:"topic_arn"`
}

// Config is the notifier section of the settings file.
type Config struct {
	SMTP SMTPConfig `yaml:"smtp"`
	SES  SESConfig  `yaml:"ses"`
	SNS  SNSConfig  `yaml:"sns"`
}

// New selects the notifier variant for the deployment environment: a
// stored digest locally, SES email on AWS.
func New(ctx context.Context, env storage.Environment, st storage.Storage, cfg Config) (Notifier, error) {
	switch env {
	case storage.EnvAWS:
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
		}
		return NewSESNote(ctx, awsCfg, cfg.SES), nil
	case storage.EnvLocal:
		return NewLogNote(st), nil
	default:
		return nil, fmt.Errorf("unknown notifier environment %q", env)
	}
}

// core implements the accumulate-then-finalize lifecycle shared by every
// variant. Variants supply only the delivery step.
type core struct {
	messages []model.ItemDetail
}

func (c *core) Notify(detail model.ItemDetail) {
	c.messages = append(c.messages, detail)
}

// finalize runs the delivery step once iff anything was accumulated.
func (c *core) finalize(deliver func(subject string, items []model.ItemDetail) error) error {
	if len(c.messages) == 0 {
		slog.Info("Nothing new to notify")
		return nil
	}
	now := time.Now()
	subject := fmt.Sprintf("docketwatch notification %s", now.Format("Mon Jan _2 15:04:05 2006"))
	slog.Info("Sending notification", "items", len(c.messages))
	return deliver(subject, c.messages)
}

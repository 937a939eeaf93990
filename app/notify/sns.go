package notify

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"

	"github.com/docketwatch/docketwatch/app/model"
)

var _ Notifier = (*SNSNote)(nil)

// SNSNote publishes the digest to an SNS topic, typically one with an
// email subscription.
type SNSNote struct {
	core
	ctx    context.Context
	client *sns.Client
	cfg    SNSConfig
}

func NewSNSNote(ctx context.Context, awsCfg aws.Config, cfg SNSConfig) *SNSNote {
	return &SNSNote{
		ctx:    ctx,
		client: sns.NewFromConfig(awsCfg),
		cfg:    cfg,
	}
}

func (n *SNSNote) Close() error {
	return n.finalize(func(subject string, items []model.ItemDetail) error {
		text, err := renderTextDigest(subject, items)
		if err != nil {
			return err
		}
		_, err = n.client.Publish(n.ctx, &sns.PublishInput{
			TopicArn: aws.String(n.cfg.TopicARN),
			Subject:  aws.String(subject),
			Message:  aws.String(text),
		})
		if err != nil {
			return fmt.Errorf("failed to publish to %s: %w", n.cfg.TopicARN, err)
		}
		return nil
	})
}

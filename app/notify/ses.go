package notify

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"github.com/docketwatch/docketwatch/app/model"
)

var _ Notifier = (*SESNote)(nil)

// SESNote sends the digest by email through SES. The sending address must
// be a verified SES identity.
type SESNote struct {
	core
	ctx    context.Context
	client *sesv2.Client
	cfg    SESConfig
}

func NewSESNote(ctx context.Context, awsCfg aws.Config, cfg SESConfig) *SESNote {
	return &SESNote{
		ctx:    ctx,
		client: sesv2.NewFromConfig(awsCfg),
		cfg:    cfg,
	}
}

func (n *SESNote) Close() error {
	return n.finalize(func(subject string, items []model.ItemDetail) error {
		text, err := renderTextDigest(subject, items)
		if err != nil {
			return err
		}
		html, err := renderHTMLDigest(subject, items)
		if err != nil {
			return err
		}

		_, err = n.client.SendEmail(n.ctx, &sesv2.SendEmailInput{
			FromEmailAddress: aws.String(n.cfg.From),
			Destination: &types.Destination{
				ToAddresses: []string{n.cfg.To},
			},
			Content: &types.EmailContent{
				Simple: &types.Message{
					Subject: &types.Content{Data: aws.String(subject)},
					Body: &types.Body{
						Text: &types.Content{Data: aws.String(text)},
						Html: &types.Content{Data: aws.String(html)},
					},
				},
			},
		})
		if err != nil {
			return fmt.Errorf("failed to send SES email: %w", err)
		}
		return nil
	})
}

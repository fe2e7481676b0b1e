package certificates

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sns/types"
)

const EventCertificateIssued = "certificate.issued"

type Notifier interface {
	Publish(ctx context.Context, event IssuedEvent) error
}

// SNSAPI is the subset of *sns.Client used by the notifier.
type SNSAPI interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

type snsNotifier struct {
	api      SNSAPI
	topicARN string
}

// NewNotifier publishes to topicARN. An empty topic disables notifications.
func NewNotifier(api SNSAPI, topicARN string) Notifier {
	if api == nil || topicARN == "" {
		return noopNotifier{}
	}
	return &snsNotifier{api: api, topicARN: topicARN}
}

func (n *snsNotifier) Publish(ctx context.Context, event IssuedEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}
	_, err = n.api.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(n.topicARN),
		Message:  aws.String(string(payload)),
		MessageAttributes: map[string]types.MessageAttributeValue{
			"type": {
				DataType:    aws.String("String"),
				StringValue: aws.String(event.Type),
			},
		},
	})
	if err != nil {
		return fmt.Errorf("publish %s: %w", event.Type, err)
	}
	return nil
}

type noopNotifier struct{}

func (noopNotifier) Publish(context.Context, IssuedEvent) error { return nil }

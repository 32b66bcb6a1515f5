package sns

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/guild-verify-api/internal/config"
)

// EventPublisher fans out verification-completed events to downstream
// consumers. Publishing is best-effort; callers log failures and move on.
type EventPublisher interface {
	PublishVerified(ctx context.Context, tenantID, userID string) error
}

type publisher struct {
	client   *sns.Client
	topicARN string
}

func NewPublisher(cfg *config.Config) (EventPublisher, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(cfg.AWSRegion),
	)
	if err != nil {
		return nil, err
	}
	return &publisher{client: sns.NewFromConfig(awsCfg), topicARN: cfg.SNSEventTopicARN}, nil
}

func (p *publisher) PublishVerified(ctx context.Context, tenantID, userID string) error {
	payload, err := json.Marshal(map[string]string{
		"event":     "verification.completed",
		"tenant_id": tenantID,
		"user_id":   userID,
	})
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	_, err = p.client.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(p.topicARN),
		Message:  aws.String(string(payload)),
	})
	return err
}

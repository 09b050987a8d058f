package bootstrap

import (
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"

	appconfig "github.com/wolfman30/ward-portal/internal/config"
	"github.com/wolfman30/ward-portal/internal/events"
	"github.com/wolfman30/ward-portal/pkg/logging"
)

// BuildEventPublisher sends booking events to SQS when a queue is configured
// and drops them otherwise.
func BuildEventPublisher(cfg *appconfig.Config, awsCfg *aws.Config, logger *logging.Logger) events.Publisher {
	if logger == nil {
		logger = logging.Default()
	}
	queueURL := strings.TrimSpace(cfg.BookingEventsQueueURL)
	if queueURL == "" || awsCfg == nil {
		logger.Info("booking events queue not configured; events are dropped")
		return events.NopPublisher{}
	}
	logger.Info("publishing booking events", "queue", queueURL)
	return events.NewSQSPublisher(sqs.NewFromConfig(*awsCfg), queueURL, logger)
}

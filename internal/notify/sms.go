package notify

import (
	"context"

	"github.com/RaikyD/laundry-intake-service/internal/logger"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

type Message struct {
	To   string
	From string
	Body string
}

// Sender is the outbound text messaging channel.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

type TwilioSender struct {
	client *twilio.RestClient
}

func NewTwilioSender(accountSID, authToken string) *TwilioSender {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})
	return &TwilioSender{client: client}
}

func (s *TwilioSender) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	params := &twilioApi.CreateMessageParams{}
	params.SetTo(msg.To)
	params.SetFrom(msg.From)
	params.SetBody(msg.Body)

	resp, err := s.client.Api.CreateMessage(params)
	if err != nil {
		return err
	}
	if resp.Sid != nil {
		logger.Info("sms queued", "to", msg.To, "sid", *resp.Sid)
	}
	return nil
}

// LogSender writes messages to the log instead of sending them. Used when no
// messaging credentials are configured.
type LogSender struct{}

func (LogSender) Send(ctx context.Context, msg Message) error {
	logger.Info("sms (log only)", "to", msg.To, "from", msg.From, "body", msg.Body)
	return nil
}

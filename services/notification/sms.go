package notification

import (
	"context"
	"errors"
	"fmt"

	"telecare/config"
	"telecare/utils"

	"github.com/twilio/twilio-go"
	twclient "github.com/twilio/twilio-go/client"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"
	"go.uber.org/zap"
)

// SMSSender delivers a text message to an E.164 phone number.
type SMSSender interface {
	Send(ctx context.Context, to, body string) error
}

// NewSMSSender picks the sender configured by SMS_PROVIDER.
func NewSMSSender(cfg config.Config) SMSSender {
	if cfg.SMSProvider == "twilio" {
		return NewTwilioSender(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioPhoneNumber)
	}
	return LogSender{}
}

// LogSender writes messages to the log instead of sending them.
type LogSender struct{}

func (LogSender) Send(_ context.Context, to, body string) error {
	utils.GetLogger().Info("SMS (log sender)", zap.String("to", to), zap.String("body", body))
	return nil
}

// MessageCreator is the part of the Twilio REST API used to send SMS.
type MessageCreator interface {
	CreateMessage(params *openapi.CreateMessageParams) (*openapi.ApiV2010Message, error)
}

// TwilioSender sends messages through the Twilio Messages resource.
type TwilioSender struct {
	From     string
	Messages MessageCreator
}

func NewTwilioSender(accountSID, authToken, from string) *TwilioSender {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})
	return &TwilioSender{From: from, Messages: client.Api}
}

func (s *TwilioSender) Send(ctx context.Context, to, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	params := &openapi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(s.From)
	params.SetBody(body)

	resp, err := s.Messages.CreateMessage(params)
	if err != nil {
		var apiErr *twclient.TwilioRestError
		if errors.As(err, &apiErr) {
			return fmt.Errorf("twilio rejected message (%d): %s", apiErr.Code, apiErr.Message)
		}
		return fmt.Errorf("twilio request failed: %w", err)
	}
	if resp != nil && resp.Sid != nil {
		utils.GetLogger().Debug("SMS queued", zap.String("sid", *resp.Sid))
	}
	return nil
}

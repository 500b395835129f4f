// Package notify delivers workflow outcomes to the operator's messaging
// channels. Delivery is best-effort: a failed send is logged by the caller,
// never escalated into another notification.
package notify

import (
	"context"
	"errors"
	"fmt"

	"lottobot/pkg/utils"
)

// Messages shown to the operator. Kept in Korean, matching the service's
// own locale.
const (
	botIdentity = "로또 자동 구매 봇 알림"
	topUpText   = "예치금이 부족합니다! 충전을 해주세요!"
	topUpButton = "충전하러 가기"
)

// Notifier is the outcome-reporting surface the workflow depends on.
type Notifier interface {
	// SendText posts a plain message prefixed with the bot header.
	SendText(ctx context.Context, message string) error
	// SendTopUpPrompt posts the insufficient-balance message with a button
	// linking to the funding page.
	SendTopUpPrompt(ctx context.Context) error
}

// header prefixes a message with the bot identity and a Seoul-localized
// timestamp.
func header(message string) string {
	return fmt.Sprintf("> %s *%s* \n%s", utils.NowSeoul(), botIdentity, message)
}

// MultiNotifier fans a notification out to every configured sink.
type MultiNotifier []Notifier

func (m MultiNotifier) SendText(ctx context.Context, message string) error {
	var errs []error
	for _, n := range m {
		if err := n.SendText(ctx, message); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m MultiNotifier) SendTopUpPrompt(ctx context.Context) error {
	var errs []error
	for _, n := range m {
		if err := n.SendTopUpPrompt(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

package workflow

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lottobot/pkg/lottery"
)

// fakeSession scripts the browser session for one run and records which
// steps were reached.
type fakeSession struct {
	balance int
	name    string

	loginErr    error
	purchaseErr error
	detailErr   error

	purchasedCount int
	closeCalls     int
}

func (f *fakeSession) Login(userID, password string) error { return f.loginErr }

func (f *fakeSession) AccountSnapshot() (*lottery.AccountSnapshot, error) {
	return &lottery.AccountSnapshot{Name: f.name, Balance: f.balance}, nil
}

func (f *fakeSession) Purchase(count int) error {
	if f.purchaseErr != nil {
		return f.purchaseErr
	}
	f.purchasedCount = count
	return nil
}

func (f *fakeSession) ExportCookies() (lottery.SessionCookies, error) {
	return lottery.SessionCookies{{Name: "JSESSIONID", Value: "sess"}}, nil
}

func (f *fakeSession) RenderDetail(ref lottery.ReceiptReference) ([]string, error) {
	if f.detailErr != nil {
		return nil, f.detailErr
	}
	return []string{"1, 2, 3, 4, 5, 6", "7, 8, 9, 10, 11, 12"}, nil
}

func (f *fakeSession) Close() error {
	f.closeCalls++
	return nil
}

type fakeReceipts struct {
	href string
	err  error
}

func (f *fakeReceipts) FetchTodaysLink(ctx context.Context, cookies lottery.SessionCookies, date string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.href, nil
}

type fakeNotifier struct {
	texts   []string
	prompts int
}

func (f *fakeNotifier) SendText(_ context.Context, message string) error {
	f.texts = append(f.texts, message)
	return nil
}

func (f *fakeNotifier) SendTopUpPrompt(_ context.Context) error {
	f.prompts++
	return nil
}

func newController(session *fakeSession, receipts *fakeReceipts, notifier *fakeNotifier, count int) *Controller {
	c := New("hong", "pw", count, session, receipts, notifier, nil)
	c.today = func() string { return "20260831" }
	return c
}

func TestRunSuccess(t *testing.T) {
	session := &fakeSession{name: "홍길동", balance: 50000}
	receipts := &fakeReceipts{href: "javascript:goLotteryDetail('111', '222', '333');"}
	notifier := &fakeNotifier{}

	err := newController(session, receipts, notifier, 3).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, session.purchasedCount)
	assert.Equal(t, 1, session.closeCalls, "session must be closed exactly once")
	assert.Zero(t, notifier.prompts)

	require.Len(t, notifier.texts, 3)
	assert.Contains(t, notifier.texts[0], "로그인 사용자: 홍길동, 예치금: 50000")
	assert.Contains(t, notifier.texts[1], "3개 복권 구매 성공!")
	assert.Contains(t, notifier.texts[1], lottery.MyPageURL)
	assert.Contains(t, notifier.texts[2], "이번주 나의 행운의 번호는?!")
	assert.Contains(t, notifier.texts[2], "1, 2, 3, 4, 5, 6")
	assert.Contains(t, notifier.texts[2], "7, 8, 9, 10, 11, 12")
}

func TestRunInsufficientBalance(t *testing.T) {
	session := &fakeSession{name: "홍길동", balance: 2000}
	notifier := &fakeNotifier{}

	err := newController(session, &fakeReceipts{}, notifier, 5).Run(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, lottery.ErrInsufficientBalance)

	assert.Zero(t, session.purchasedCount, "purchase must not run on short balance")
	assert.Equal(t, 1, session.closeCalls)
	assert.Equal(t, 1, notifier.prompts, "top-up prompt must be sent")

	// The balance notification still went out before the guard stopped the run,
	// and no success text followed.
	require.Len(t, notifier.texts, 1)
	assert.Contains(t, notifier.texts[0], "예치금: 2000")
}

func TestRunLoginFailure(t *testing.T) {
	session := &fakeSession{
		loginErr: fmt.Errorf("%w: still on login page after submit", lottery.ErrAuthentication),
	}
	notifier := &fakeNotifier{}

	err := newController(session, &fakeReceipts{}, notifier, 1).Run(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, lottery.ErrAuthentication)

	assert.Zero(t, session.purchasedCount)
	assert.Equal(t, 1, session.closeCalls)
	assert.Zero(t, notifier.prompts)

	// Failure is reported as text, never as the top-up prompt.
	require.Len(t, notifier.texts, 1)
	assert.Contains(t, notifier.texts[0], "login")
}

func TestRunReceiptLookupFailure(t *testing.T) {
	session := &fakeSession{name: "홍길동", balance: 50000}
	receipts := &fakeReceipts{err: fmt.Errorf("%w: date 20260831", lottery.ErrReceiptNotFound)}
	notifier := &fakeNotifier{}

	err := newController(session, receipts, notifier, 2).Run(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, lottery.ErrReceiptNotFound)

	// The purchase itself committed before the lookup failed.
	assert.Equal(t, 2, session.purchasedCount)
	assert.Equal(t, 1, session.closeCalls)

	require.Len(t, notifier.texts, 3)
	assert.Contains(t, notifier.texts[1], "2개 복권 구매 성공!")
	assert.Contains(t, notifier.texts[2], "receipt lookup")
}

func TestRunMalformedReceiptLink(t *testing.T) {
	session := &fakeSession{name: "홍길동", balance: 50000}
	receipts := &fakeReceipts{href: "javascript:void(0)"}
	notifier := &fakeNotifier{}

	err := newController(session, receipts, notifier, 1).Run(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, lottery.ErrParse)
	assert.Equal(t, 1, session.closeCalls)
}

func TestRunDetailFailure(t *testing.T) {
	session := &fakeSession{
		name:      "홍길동",
		balance:   50000,
		detailErr: errors.New("receipt detail page timed out"),
	}
	receipts := &fakeReceipts{href: "javascript:goLotteryDetail('111', '222', '333');"}
	notifier := &fakeNotifier{}

	err := newController(session, receipts, notifier, 1).Run(context.Background())
	require.Error(t, err)

	assert.Equal(t, 1, session.purchasedCount)
	assert.Equal(t, 1, session.closeCalls)
	assert.Contains(t, notifier.texts[len(notifier.texts)-1], "receipt detail")
}

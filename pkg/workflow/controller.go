// Package workflow sequences one purchase run: login, balance guard,
// purchase, receipt confirmation, notification. All failures are classified
// at this single boundary, and the browser session is released exactly once
// on every exit path.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"lottobot/pkg/logger"
	"lottobot/pkg/lottery"
	"lottobot/pkg/notify"
	"lottobot/pkg/utils"
)

// Session is the authenticated browser session the controller drives.
// Implemented by browser.Session; doubled in tests.
type Session interface {
	Login(userID, password string) error
	AccountSnapshot() (*lottery.AccountSnapshot, error)
	Purchase(count int) error
	ExportCookies() (lottery.SessionCookies, error)
	RenderDetail(ref lottery.ReceiptReference) ([]string, error)
	Close() error
}

// ReceiptSource confirms a committed purchase out-of-band.
// Implemented by lottery.Retriever.
type ReceiptSource interface {
	FetchTodaysLink(ctx context.Context, cookies lottery.SessionCookies, date string) (string, error)
}

// Controller owns one run of the purchase workflow.
type Controller struct {
	userID   string
	password string
	count    int

	session  Session
	receipts ReceiptSource
	notifier notify.Notifier
	log      *logger.Logger

	today func() string // injectable for tests
}

// New wires a controller for one run.
func New(userID, password string, count int, session Session, receipts ReceiptSource, notifier notify.Notifier, log *logger.Logger) *Controller {
	return &Controller{
		userID:   userID,
		password: password,
		count:    count,
		session:  session,
		receipts: receipts,
		notifier: notifier,
		log:      log,
		today:    utils.TodaySeoul,
	}
}

// Run executes the workflow once. The returned error is nil only when the
// run reached the final notification; whatever happens, the outcome has
// already been reported and the browser session released.
func (c *Controller) Run(ctx context.Context) error {
	defer func() {
		if err := c.session.Close(); err != nil {
			c.log.Warn("browser close: %v", err)
		}
	}()

	err := c.run(ctx)
	if err != nil {
		c.log.Error("run failed: %v", err)
		c.report(ctx, err)
	}
	return err
}

func (c *Controller) run(ctx context.Context) error {
	if err := c.session.Login(c.userID, c.password); err != nil {
		return fmt.Errorf("login: %w", err)
	}

	snapshot, err := c.session.AccountSnapshot()
	if err != nil {
		return fmt.Errorf("account snapshot: %w", err)
	}

	// The login/balance notification goes out before the guard runs, so the
	// operator sees the balance even when the run stops here.
	c.send(ctx, fmt.Sprintf("로그인 사용자: %s, 예치금: %d", snapshot.Name, snapshot.Balance))

	if err := lottery.CheckBalance(lottery.Cost(c.count), snapshot.Balance); err != nil {
		return err
	}

	if err := c.session.Purchase(c.count); err != nil {
		return fmt.Errorf("purchase: %w", err)
	}

	c.send(ctx, fmt.Sprintf("%d개 복권 구매 성공! \n자세하게 확인하기: %s", c.count, lottery.MyPageURL))

	// Purchase has committed; from here on a failure is a reporting gap,
	// not a transaction to roll back.
	cookies, err := c.session.ExportCookies()
	if err != nil {
		return fmt.Errorf("cookie export: %w", err)
	}

	href, err := c.receipts.FetchTodaysLink(ctx, cookies, c.today())
	if err != nil {
		return fmt.Errorf("receipt lookup: %w", err)
	}

	ref, err := lottery.ParseReceiptReference(href)
	if err != nil {
		return fmt.Errorf("receipt link: %w", err)
	}

	sets, err := c.session.RenderDetail(ref)
	if err != nil {
		return fmt.Errorf("receipt detail: %w", err)
	}

	c.send(ctx, "이번주 나의 행운의 번호는?!\n"+strings.Join(sets, "\n"))
	return nil
}

// report dispatches the failure notification: the dedicated funding prompt
// for an insufficient balance, a plain description for everything else. The
// operator never sees a raw error object, only this text.
func (c *Controller) report(ctx context.Context, err error) {
	if errors.Is(err, lottery.ErrInsufficientBalance) {
		if nerr := c.notifier.SendTopUpPrompt(ctx); nerr != nil {
			c.log.Warn("top-up prompt delivery failed: %v", nerr)
		}
		return
	}
	c.send(ctx, err.Error())
}

// send delivers a plain notification best-effort. A delivery failure is
// logged, never escalated into another notification.
func (c *Controller) send(ctx context.Context, message string) {
	if err := c.notifier.SendText(ctx, message); err != nil {
		c.log.Warn("notification delivery failed: %v", err)
	}
}

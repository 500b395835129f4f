// Package browser drives the lottery site's web UI using chromedp (Chrome
// DevTools Protocol). It connects to the system Chrome/Chromium directly —
// no Node.js, no external binaries needed.
package browser

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"

	"lottobot/pkg/logger"
	"lottobot/pkg/lottery"
)

// Selectors for the pages the workflow touches. The site identifies most
// interactive elements by id; the login form only by placeholder text.
const (
	selUserField     = `input[placeholder="아이디"]`
	selPassField     = `input[placeholder="비밀번호"]`
	selLoginSubmit   = `form[name="jform"] a.btn_common`
	selInfoBlock     = `ul.information`
	selEntryAlert    = `#popupLayerAlert button[name="확인"]`
	selAutoMode      = `#num2`
	selCountSelect   = `#amoundApply`
	selApplyConfirm  = `#btnSelectNum`
	selBuy           = `#btnBuy`
	selBuyConfirm    = `#popupLayerConfirm input[value="확인"]`
	selCloseOverlay  = `input[name="closeLayer"]`
	selSelectedItems = `div.selected li`
)

// Options configures the browser session.
type Options struct {
	Headless       bool
	StepTimeout    time.Duration // per browser operation
	UserAgent      string
	ViewportWidth  int
	ViewportHeight int
	Stealth        bool
}

// DefaultOptions returns sensible defaults.
func DefaultOptions() *Options {
	return &Options{
		Headless:       true,
		StepTimeout:    20 * time.Second,
		UserAgent:      "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
		ViewportWidth:  1920,
		ViewportHeight: 1080,
		Stealth:        true,
	}
}

// stealthScript removes common automation fingerprints.
const stealthScript = `(function(){
	Object.defineProperty(navigator,'webdriver',{get:()=>undefined});
	window.chrome={runtime:{}};
	Object.defineProperty(navigator,'plugins',{get:()=>[1,2,3]});
	Object.defineProperty(navigator,'languages',{get:()=>['ko-KR','ko','en-US']});
})();`

// Session is the authenticated browser session: one Chrome process, one
// browser context, owned by a single workflow run.
type Session struct {
	opts      *Options
	log       *logger.Logger
	allocCnl  context.CancelFunc
	ctx       context.Context
	cancel    context.CancelFunc
	closeOnce sync.Once
}

// NewSession launches Chrome and returns a ready session.
func NewSession(opts *Options, log *logger.Logger) (*Session, error) {
	if opts == nil {
		opts = DefaultOptions()
	}

	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", opts.Headless),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.Flag("disable-infobars", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-setuid-sandbox", true),
		chromedp.Flag("window-size", fmt.Sprintf("%d,%d", opts.ViewportWidth, opts.ViewportHeight)),
		chromedp.UserAgent(opts.UserAgent),
	)

	allocCtx, allocCnl := chromedp.NewExecAllocator(context.Background(), allocOpts...)
	ctx, cancel := chromedp.NewContext(allocCtx)

	s := &Session{
		opts:     opts,
		log:      log,
		allocCnl: allocCnl,
		ctx:      ctx,
		cancel:   cancel,
	}

	if err := s.withTimeout(func(ctx context.Context) error {
		return chromedp.Run(ctx,
			emulation.SetDeviceMetricsOverride(
				int64(opts.ViewportWidth), int64(opts.ViewportHeight), 1.0, false,
			),
		)
	}); err != nil {
		s.Close()
		return nil, fmt.Errorf("Chrome failed to start: %w", err)
	}

	return s, nil
}

// withTimeout runs fn with a per-operation timeout derived from the session
// context.
func (s *Session) withTimeout(fn func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(s.ctx, s.opts.StepTimeout)
	defer cancel()
	return fn(ctx)
}

// Login authenticates against the site's login form and waits for the
// post-login redirect to land.
func (s *Session) Login(userID, password string) error {
	s.log.Info("logging in as %s", userID)

	var location string
	err := s.withTimeout(func(ctx context.Context) error {
		return chromedp.Run(ctx,
			chromedp.Navigate(lottery.LoginURL),
			chromedp.ActionFunc(func(ctx context.Context) error {
				if s.opts.Stealth {
					return chromedp.Evaluate(stealthScript, nil).Do(ctx)
				}
				return nil
			}),
			chromedp.WaitVisible(selUserField, chromedp.ByQuery),
			chromedp.SendKeys(selUserField, userID, chromedp.ByQuery),
			chromedp.SendKeys(selPassField, password, chromedp.ByQuery),
			chromedp.Click(selLoginSubmit, chromedp.ByQuery),
			chromedp.Sleep(4*time.Second),
			chromedp.Location(&location),
		)
	})
	if err != nil {
		return fmt.Errorf("%w: %v", lottery.ErrAuthentication, err)
	}
	if strings.Contains(location, "method=login") {
		return fmt.Errorf("%w: still on login page after submit", lottery.ErrAuthentication)
	}

	s.log.Debug("login landed on %s", location)
	return nil
}

// AccountSnapshot reads the display name and deposit balance from the
// landing page's information block.
func (s *Session) AccountSnapshot() (*lottery.AccountSnapshot, error) {
	var text string
	err := s.withTimeout(func(ctx context.Context) error {
		return chromedp.Run(ctx,
			chromedp.Navigate(lottery.MainURL),
			chromedp.WaitVisible(selInfoBlock, chromedp.ByQuery),
			chromedp.Text(selInfoBlock, &text, chromedp.ByQuery),
		)
	})
	if err != nil {
		return nil, fmt.Errorf("%w: information block unreadable: %v", lottery.ErrParse, err)
	}

	name, balanceText, err := splitInformation(text)
	if err != nil {
		return nil, err
	}
	balance, err := lottery.ParseWonAmount(balanceText)
	if err != nil {
		return nil, err
	}

	s.log.Info("account %s has balance %d", name, balance)
	return &lottery.AccountSnapshot{Name: name, Balance: balance}, nil
}

// splitInformation picks the display name (line 1) and the balance text
// (line 3) out of the information block's rendered text.
func splitInformation(text string) (name, balance string, err error) {
	lines := strings.Split(text, "\n")
	if len(lines) < 3 {
		return "", "", fmt.Errorf("%w: information block has %d lines, want 3", lottery.ErrParse, len(lines))
	}
	return strings.TrimSpace(lines[0]), strings.TrimSpace(lines[2]), nil
}

// Purchase buys count auto-generated ticket sets. This commits real funds:
// the step is never retried, and any failure after the buy click is
// surfaced to the caller unclassified.
func (s *Session) Purchase(count int) error {
	s.log.Info("purchasing %d ticket set(s)", count)

	return s.withTimeout(func(ctx context.Context) error {
		return chromedp.Run(ctx,
			chromedp.Navigate(lottery.GameURL),
			chromedp.Sleep(1*time.Second),
			dismiss(selEntryAlert),
			chromedp.WaitVisible(selAutoMode, chromedp.ByQuery),
			chromedp.Click(selAutoMode, chromedp.ByQuery),
			chromedp.SetValue(selCountSelect, strconv.Itoa(count), chromedp.ByQuery),
			chromedp.Click(selApplyConfirm, chromedp.ByQuery),
			chromedp.Click(selBuy, chromedp.ByQuery),
			chromedp.Sleep(2*time.Second),
			chromedp.Click(selBuyConfirm, chromedp.ByQuery),
			dismiss(selCloseOverlay),
		)
	})
}

// dismiss clicks an element if it is present, ignoring absence. Used for
// modal prompts the site shows only sometimes.
func dismiss(selector string) chromedp.Action {
	script := fmt.Sprintf(`(function(){
		var el = document.querySelector(%q);
		if (el) { el.click(); return true; }
		return false;
	})()`, selector)
	return chromedp.ActionFunc(func(ctx context.Context) error {
		var clicked bool
		return chromedp.Evaluate(script, &clicked).Do(ctx)
	})
}

// ExportCookies snapshots the session's cookies for reuse by a plain HTTP
// client. Called only after the purchase step has committed.
func (s *Session) ExportCookies() (lottery.SessionCookies, error) {
	var cookies lottery.SessionCookies
	err := s.withTimeout(func(ctx context.Context) error {
		return chromedp.Run(ctx, chromedp.ActionFunc(func(ctx context.Context) error {
			cs, err := network.GetCookies().Do(ctx)
			if err != nil {
				return err
			}
			for _, c := range cs {
				cookies = append(cookies, lottery.Cookie{Name: c.Name, Value: c.Value})
			}
			return nil
		}))
	})
	if err != nil {
		return nil, fmt.Errorf("export cookies: %w", err)
	}

	s.log.Debug("exported %d session cookies", len(cookies))
	return cookies, nil
}

// RenderDetail navigates to the receipt detail page and extracts one string
// per drawn number set.
func (s *Session) RenderDetail(ref lottery.ReceiptReference) ([]string, error) {
	var sets []string
	err := s.withTimeout(func(ctx context.Context) error {
		return chromedp.Run(ctx,
			chromedp.Navigate(ref.DetailURL()),
			chromedp.WaitReady("body", chromedp.ByQuery),
			chromedp.Evaluate(fmt.Sprintf(`Array.from(document.querySelectorAll(%q))
				.map(function(el){ return el.innerText.split("\n").join(", "); })`, selSelectedItems), &sets),
		)
	})
	if err != nil {
		return nil, fmt.Errorf("%w: receipt detail unreadable: %v", lottery.ErrParse, err)
	}
	if len(sets) == 0 {
		return nil, fmt.Errorf("%w: no number sets on receipt detail page", lottery.ErrParse)
	}

	s.log.Info("receipt lists %d number set(s)", len(sets))
	return sets, nil
}

// Close releases the browser context and the Chrome process. Idempotent and
// safe to call after a failed step.
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		if s.cancel != nil {
			s.cancel()
		}
		if s.allocCnl != nil {
			s.allocCnl()
		}
		s.log.Debug("browser session closed")
	})
	return nil
}

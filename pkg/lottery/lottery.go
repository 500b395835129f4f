// Package lottery holds the dhlottery.co.kr domain model: site endpoints,
// ticket pricing, the pre-purchase balance guard, and receipt parsing.
package lottery

import (
	"fmt"
	"strconv"
	"strings"
)

// UnitPrice is the fixed price of one Lotto 6/45 ticket set in KRW.
const UnitPrice = 1000

// Site endpoints. The purchase form lives on a separate online-sales host.
const (
	LoginURL   = "https://dhlottery.co.kr/user.do?method=login"
	MainURL    = "https://dhlottery.co.kr/common.do?method=main"
	GameURL    = "https://ol.dhlottery.co.kr/olotto/game/game645.do"
	BuyListURL = "https://dhlottery.co.kr/myPage.do?method=lottoBuyList"
	MyPageURL  = "https://dhlottery.co.kr/myPage.do?method=notScratchListView"
	PaymentURL = "https://dhlottery.co.kr/payment.do?method=payment"
)

// AccountSnapshot is the logged-in user's name and deposit balance as read
// from the landing page. Taken once per run, before any purchase action.
type AccountSnapshot struct {
	Name    string
	Balance int // KRW
}

// Cost returns the total purchase cost for count ticket sets.
func Cost(count int) int {
	return UnitPrice * count
}

// CheckBalance is the single gate preventing an underfunded purchase attempt.
// It must run before the purchase step.
func CheckBalance(cost, balance int) error {
	if cost > balance {
		return fmt.Errorf("%w: need %d, have %d", ErrInsufficientBalance, cost, balance)
	}
	return nil
}

// ParseWonAmount converts a displayed KRW amount such as "1,234,500원"
// to its integer value.
func ParseWonAmount(text string) (int, error) {
	s := strings.TrimSpace(text)
	s = strings.TrimSuffix(s, "원")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(s)
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: balance text %q", ErrParse, text)
	}
	return n, nil
}

package lottery

import "errors"

// Sentinel errors for the run's failure taxonomy. Wrapped with context via
// fmt.Errorf("%w", ...) at the point of failure and matched with errors.Is
// once, at the workflow boundary. Anything not matching one of these is
// treated as unclassified and reported verbatim.
var (
	// ErrInsufficientBalance means the purchase cost exceeds the deposit.
	ErrInsufficientBalance = errors.New("예치금 부족: deposit balance is below the purchase cost")

	// ErrAuthentication means the login flow did not complete.
	ErrAuthentication = errors.New("login did not complete")

	// ErrParse means an expected page structure or text was absent.
	ErrParse = errors.New("unexpected page structure")

	// ErrReceiptNotFound means the purchase-history page has no row for
	// today's purchase yet.
	ErrReceiptNotFound = errors.New("no purchase receipt found for today")
)

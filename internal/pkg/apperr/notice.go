package apperr

import "time"

// Notice is the user-facing rendering of an error.
type Notice struct {
	Title    string
	Message  string
	Duration time.Duration
}

var titles = map[Kind]string{
	KindWalletNotConnected:     "Wallet Not Connected",
	KindWalletConnectionFailed: "Connection Failed",
	KindNetwork:                "Network Error",
	KindTransactionFailed:      "Transaction Failed",
	KindUserRejected:           "Transaction Rejected",
	KindInsufficientBalance:    "Insufficient Balance",
	KindInsufficientAllowance:  "Insufficient Allowance",
	KindContractRevert:         "Contract Error",
	KindInvalidInput:           "Validation Error",
	KindUnknown:                "Error",
}

// Duration returns how long a notification of the given kind stays visible.
func Duration(kind Kind) time.Duration {
	switch kind {
	case KindUserRejected:
		return 3 * time.Second
	case KindInvalidInput:
		return 6 * time.Second
	}
	return 5 * time.Second
}

// NoticeFor classifies err and renders it for display.
func NoticeFor(err error) Notice {
	e := Classify(err)
	title, ok := titles[e.Kind]
	if !ok {
		title = "Error"
	}
	return Notice{Title: title, Message: e.Message, Duration: Duration(e.Kind)}
}

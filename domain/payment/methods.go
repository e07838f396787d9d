package payment

import (
	"regexp"
	"strings"

	"fieldflow/bizerror"
)

// payment methods the capture form may carry; details are validated and
// then discarded, never persisted or sent to a payment rail
const (
	MethodUPI        = "upi"
	MethodCard       = "card"
	MethodNetBanking = "netbanking"
	MethodWallet     = "wallet"
	MethodRTGS       = "rtgs"
	MethodIMPS       = "imps"
)

type MethodDetail struct {
	UpiID string `json:"upiId,omitempty"`

	CardNumber string `json:"cardNumber,omitempty"`
	CardHolder string `json:"cardHolder,omitempty"`
	CardExpiry string `json:"cardExpiry,omitempty"`
	CardCvv    string `json:"cardCvv,omitempty"`

	BankName      string `json:"bankName,omitempty"`
	AccountNumber string `json:"accountNumber,omitempty"`
	IfscCode      string `json:"ifscCode,omitempty"`

	WalletProvider string `json:"walletProvider,omitempty"`
	WalletMobile   string `json:"walletMobile,omitempty"`
}

var (
	cardNumberPattern = regexp.MustCompile(`^[0-9]{12,19}$`)
	cardExpiryPattern = regexp.MustCompile(`^(0[1-9]|1[0-2])/[0-9]{2}$`)
	cardCvvPattern    = regexp.MustCompile(`^[0-9]{3,4}$`)
	ifscPattern       = regexp.MustCompile(`^[A-Za-z0-9]{11}$`)
	mobilePattern     = regexp.MustCompile(`^[0-9]{10}$`)
)

// ValidateMethodDetail is the single per-method validation, replacing the
// checks once duplicated across every payment capture screen.
func ValidateMethodDetail(method string, d MethodDetail) error {
	switch method {
	case MethodUPI:
		if d.UpiID == "" || !strings.Contains(d.UpiID, "@") {
			return &bizerror.ErrInvalidPaymentDetail{Method: method, Field: "upiId", Reason: "must contain '@'"}
		}
	case MethodCard:
		if !cardNumberPattern.MatchString(d.CardNumber) {
			return &bizerror.ErrInvalidPaymentDetail{Method: method, Field: "cardNumber", Reason: "must be 12 to 19 digits"}
		}
		if d.CardHolder == "" {
			return &bizerror.ErrInvalidPaymentDetail{Method: method, Field: "cardHolder", Reason: "must not be empty"}
		}
		if !cardExpiryPattern.MatchString(d.CardExpiry) {
			return &bizerror.ErrInvalidPaymentDetail{Method: method, Field: "cardExpiry", Reason: "must be MM/YY"}
		}
		if !cardCvvPattern.MatchString(d.CardCvv) {
			return &bizerror.ErrInvalidPaymentDetail{Method: method, Field: "cardCvv", Reason: "must be 3 or 4 digits"}
		}
	case MethodNetBanking:
		if d.BankName == "" {
			return &bizerror.ErrInvalidPaymentDetail{Method: method, Field: "bankName", Reason: "must not be empty"}
		}
		if err := validateAccount(method, d); err != nil {
			return err
		}
	case MethodRTGS, MethodIMPS:
		if err := validateAccount(method, d); err != nil {
			return err
		}
	case MethodWallet:
		if d.WalletProvider == "" {
			return &bizerror.ErrInvalidPaymentDetail{Method: method, Field: "walletProvider", Reason: "must not be empty"}
		}
		if !mobilePattern.MatchString(d.WalletMobile) {
			return &bizerror.ErrInvalidPaymentDetail{Method: method, Field: "walletMobile", Reason: "must be 10 digits"}
		}
	default:
		return bizerror.ErrUnknownPaymentMethod
	}
	return nil
}

func validateAccount(method string, d MethodDetail) error {
	if d.AccountNumber == "" {
		return &bizerror.ErrInvalidPaymentDetail{Method: method, Field: "accountNumber", Reason: "must not be empty"}
	}
	if !ifscPattern.MatchString(d.IfscCode) {
		return &bizerror.ErrInvalidPaymentDetail{Method: method, Field: "ifscCode", Reason: "must be 11 characters"}
	}
	return nil
}

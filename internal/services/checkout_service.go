package services

import (
	"strconv"
	"strings"
	"studymate/internal/models"
	"studymate/internal/providers"

	"github.com/google/uuid"
	"github.com/gookit/validate"
)

const (
	PaymentCard = "card"
	PaymentUPI  = "upi"
)

// PaymentForm is the simulated checkout form. Nothing is ever charged.
type PaymentForm struct {
	Method     string `json:"method"`
	CardNumber string `json:"cardNumber"`
	CardName   string `json:"cardName"`
	Expiry     string `json:"expiry"`
	CVV        string `json:"cvv"`
	UPIID      string `json:"upiId"`
}

type cardPayment struct {
	Number string `json:"number" validate:"required|regex:^[0-9]{16}$"`
	Name   string `json:"name" validate:"required"`
	Expiry string `json:"expiry" validate:"required|regex:^[01][0-9]/[0-9]{2}$"`
	CVV    string `json:"cvv" validate:"required|regex:^[0-9]{3}$"`
}

type upiPayment struct {
	UPI string `json:"upi" validate:"required|contains:@"`
}

var paymentMessages = map[string]string{
	"number": "Invalid card number",
	"name":   "Name required",
	"expiry": "Invalid date",
	"cvv":    "Invalid CVV",
	"upi":    "Invalid UPI ID",
	"method": "Unknown payment method",
}

type Receipt struct {
	TransactionID string `json:"transactionId"`
	Method        string `json:"method"`
}

type CheckoutServiceInterface interface {
	Charge(form PaymentForm) (Receipt, error)
	UnlockPremium(form PaymentForm) (Receipt, error)
}

type CheckoutService struct {
	stats    StatsServiceInterface
	activity ActivityServiceInterface
	logger   providers.Logger
}

func NewCheckoutService(stats StatsServiceInterface, activity ActivityServiceInterface, logger providers.Logger) CheckoutServiceInterface {
	return &CheckoutService{stats: stats, activity: activity, logger: logger}
}

// Charge validates the form and issues a receipt for a one-off paid action.
func (cs *CheckoutService) Charge(form PaymentForm) (Receipt, error) {
	if err := validatePayment(form); err != nil {
		return Receipt{}, err
	}
	receipt := Receipt{
		TransactionID: "TXN_" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8]),
		Method:        form.Method,
	}
	cs.logger.Infof(providers.TypeApp, "Simulated payment %s via %s", receipt.TransactionID, receipt.Method)
	return receipt, nil
}

func (cs *CheckoutService) UnlockPremium(form PaymentForm) (Receipt, error) {
	receipt, err := cs.Charge(form)
	if err != nil {
		return receipt, err
	}
	cs.stats.UnlockPremium()
	_, _ = cs.activity.Log(models.ActivityPremium, "Unlocked Premium Board Prep", "Transaction: #"+receipt.TransactionID)
	return receipt, nil
}

func validatePayment(form PaymentForm) error {
	var v *validate.Validation
	switch form.Method {
	case PaymentCard:
		v = validate.Struct(&cardPayment{
			Number: strings.ReplaceAll(form.CardNumber, " ", ""),
			Name:   strings.TrimSpace(form.CardName),
			Expiry: form.Expiry,
			CVV:    form.CVV,
		})
	case PaymentUPI:
		v = validate.Struct(&upiPayment{UPI: strings.TrimSpace(form.UPIID)})
	default:
		return &PaymentError{Fields: map[string]string{"method": paymentMessages["method"]}}
	}

	v.StopOnError = false
	fields := make(map[string]string)
	if !v.Validate() {
		for field := range v.Errors {
			name := strings.ToLower(field)
			fields[name] = paymentMessages[name]
		}
	}
	if form.Method == PaymentCard && fields["expiry"] == "" && !validMonth(form.Expiry) {
		fields["expiry"] = paymentMessages["expiry"]
	}
	if len(fields) > 0 {
		return &PaymentError{Fields: fields}
	}
	return nil
}

func validMonth(expiry string) bool {
	if len(expiry) < 2 {
		return false
	}
	month, err := strconv.Atoi(expiry[:2])
	return err == nil && month >= 1 && month <= 12
}

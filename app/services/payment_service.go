package services

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"time"

	"github.com/shashiranjanraj/dukaan/config"
	httpclient "github.com/shashiranjanraj/dukaan/pkg/http"
)

// PaymentOrder is the provider-side order a client uses to open the
// checkout widget. Amount is in the currency's smallest unit.
type PaymentOrder struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	KeyID    string `json:"key_id"`
}

// PaymentService wraps the payment gateway. With PAYMENT_BASE_URL set
// it registers orders against the real gateway API; without it orders
// get a locally generated id, which keeps development and tests
// offline. Webhooks are verified against the shared HMAC secret either
// way.
type PaymentService struct {
	baseURL       string
	keyID         string
	webhookSecret string
}

func NewPaymentService() *PaymentService {
	return &PaymentService{
		baseURL:       config.PaymentBaseURL(),
		keyID:         config.PaymentKeyID(),
		webhookSecret: config.PaymentWebhookSecret(),
	}
}

// CreateOrder registers a payment intent for the given amount in rupees
// and returns the provider order the client needs.
func (s *PaymentService) CreateOrder(amount float64) (PaymentOrder, error) {
	paise := int64(amount * 100)

	if s.baseURL != "" {
		return s.createRemote(paise)
	}

	buf := make([]byte, 12)
	if _, err := rand.Read(buf); err != nil {
		return PaymentOrder{}, err
	}
	return PaymentOrder{
		ID:       "order_" + hex.EncodeToString(buf),
		Amount:   paise,
		Currency: "INR",
		KeyID:    s.keyID,
	}, nil
}

func (s *PaymentService) createRemote(paise int64) (PaymentOrder, error) {
	resp, err := httpclient.Post(s.baseURL+"/orders").
		Bearer(s.keyID).
		Body(map[string]interface{}{"amount": paise, "currency": "INR"}).
		Timeout(10 * time.Second).
		Retry(3, time.Second).
		Send()
	if err != nil {
		return PaymentOrder{}, err
	}
	if err := resp.Throw(); err != nil {
		return PaymentOrder{}, err
	}

	var order PaymentOrder
	if err := resp.JSON(&order); err != nil {
		return PaymentOrder{}, err
	}
	order.KeyID = s.keyID
	return order, nil
}

// VerifyWebhook checks the provider's signature header against the raw
// request body. The signature is hex-encoded HMAC-SHA256 over the body
// keyed with the webhook secret.
func (s *PaymentService) VerifyWebhook(body []byte, signature string) bool {
	mac := hmac.New(sha256.New, []byte(s.webhookSecret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return subtle.ConstantTimeCompare([]byte(expected), []byte(signature)) == 1
}

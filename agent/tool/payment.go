package tool

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/cloudwego/eino/schema"
	"github.com/google/uuid"
)

var errPaymentsUnavailable = errors.New("payments are not configured")

// PaymentConfig holds PayRetailers sandbox or production credentials.
type PaymentConfig struct {
	BaseURL         string `split_words:"true" default:"https://api-sandbox.payretailers.com"`
	ShopID          string `split_words:"true"`
	SecretKey       string `split_words:"true"`
	PaymentMethodID string `split_words:"true"`
	Country         string `split_words:"true" default:"BR"`
	Language        string `split_words:"true" default:"ES"`
	NotificationURL string `envconfig:"NOTIFICATION_URL"`
	ReturnURL       string `envconfig:"RETURN_URL"`
	CancelURL       string `envconfig:"CANCEL_URL"`
}

func (c PaymentConfig) enabled() bool {
	return strings.TrimSpace(c.ShopID) != "" && strings.TrimSpace(c.SecretKey) != ""
}

func (c PaymentConfig) authHeader() http.Header {
	token := base64.StdEncoding.EncodeToString([]byte(strings.TrimSpace(c.ShopID) + ":" + strings.TrimSpace(c.SecretKey)))
	h := http.Header{}
	h.Set("Authorization", "Basic "+token)
	return h
}

type payRetailersTransaction struct {
	TransactionID string `json:"transactionId"`
	Status        string `json:"status"`
	PaymentURL    string `json:"paymentUrl,omitempty"`
	Message       string `json:"message,omitempty"`
}

func paymentTools(client *http.Client, cfg PaymentConfig) []Tool {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")

	initiate := newTool(PaymentInitiate,
		"Inicia un pago con PayRetailers.",
		map[string]*schema.ParameterInfo{
			"amount":    numberParam("Importe del pago"),
			"currency":  stringParam("Código de moneda ISO 4217, por ejemplo USD o EUR"),
			"recipient": stringParam("Correo electrónico del pagador"),
		},
		func(ctx context.Context, args Args) (Result, error) {
			amount, err := args.Float("amount")
			if err != nil {
				return nil, err
			}
			if amount <= 0 {
				return nil, fmt.Errorf("%w: amount must be positive", ErrInvalidArgs)
			}
			currency, err := args.String("currency")
			if err != nil {
				return nil, err
			}
			recipient, err := args.String("recipient")
			if err != nil {
				return nil, err
			}
			if !cfg.enabled() {
				return nil, errPaymentsUnavailable
			}

			body := map[string]any{
				"paymentMethodId": cfg.PaymentMethodID,
				"amount":          strconv.FormatFloat(amount, 'f', 2, 64),
				"currency":        strings.ToUpper(currency),
				"description":     "Pago iniciado desde el asistente",
				"trackingId":      uuid.NewString(),
				"notificationUrl": cfg.NotificationURL,
				"returnUrl":       cfg.ReturnURL,
				"cancelUrl":       cfg.CancelURL,
				"language":        cfg.Language,
				"customer": map[string]any{
					"email":   recipient,
					"country": cfg.Country,
				},
			}

			var tx payRetailersTransaction
			if err := doJSON(ctx, client, http.MethodPost, base+"/payments/v2/transactions", cfg.authHeader(), body, &tx); err != nil {
				return nil, fmt.Errorf("error iniciando el pago: %w", err)
			}
			return Result{
				"transaction_id": tx.TransactionID,
				"payment_status": tx.Status,
				"payment_url":    tx.PaymentURL,
				"message":        "Pago iniciado correctamente",
			}, nil
		},
	)

	status := newTool(PaymentStatus,
		"Consulta el estado de un pago de PayRetailers.",
		map[string]*schema.ParameterInfo{
			"transaction_id": stringParam("Identificador de la transacción"),
		},
		func(ctx context.Context, args Args) (Result, error) {
			id, err := args.String("transaction_id")
			if err != nil {
				return nil, err
			}
			if !cfg.enabled() {
				return nil, errPaymentsUnavailable
			}

			var tx payRetailersTransaction
			endpoint := base + "/payments/v2/transactions/" + url.PathEscape(id)
			if err := getJSON(ctx, client, endpoint, cfg.authHeader(), &tx); err != nil {
				return nil, fmt.Errorf("error consultando el pago: %w", err)
			}
			return Result{
				"transaction_id": id,
				"payment_status": tx.Status,
				"message":        tx.Message,
			}, nil
		},
	)

	return []Tool{initiate, status}
}

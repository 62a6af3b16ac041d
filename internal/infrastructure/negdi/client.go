package negdi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/negdipay/negdi-payment-service/internal/domain"
	"github.com/sony/gobreaker"
)

var referencePattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// IsValidReference reports whether the merchant reference satisfies NEGDi's
// character-set requirement (alphanumerics plus '-' and '_').
func IsValidReference(reference string) bool {
	return referencePattern.MatchString(reference)
}

// Client talks to the NEGDi JSON API. One outbound POST per call, bounded by
// the configured timeout; retries are the caller's policy. A circuit breaker
// sits around the transport so a dead gateway fails fast instead of holding
// checkout requests for the full timeout.
type Client struct {
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
}

func NewClient(timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:    "negdi-gateway",
			Timeout: 30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 5
			},
		}),
	}
}

type createOrderRequest struct {
	TerminalID  string `json:"terminalid"`
	Username    string `json:"username"`
	Password    string `json:"password"`
	OrderType   string `json:"ordertype"`
	Amount      string `json:"amount"`
	Currency    string `json:"currency"`
	MerchantRef string `json:"merchantref"`
	ReturnURL   string `json:"returnurl"`
	Description string `json:"description,omitempty"`
	Email       string `json:"email,omitempty"`
	Signature   string `json:"signature,omitempty"`
}

type inquiryRequest struct {
	TerminalID string `json:"terminalid"`
	Username   string `json:"username"`
	Password   string `json:"password"`
	TranID     string `json:"tranid"`
	CheckID    string `json:"checkid"`
	Signature  string `json:"signature,omitempty"`
}

type orderPayload struct {
	URL           string `json:"url"`
	TranID        string `json:"tranid"`
	CheckID       string `json:"checkid"`
	Status        string `json:"status"`
	ApprovalCode  string `json:"approvalcode"`
	PaymentMethod string `json:"paymentmethod"`
	MerchantRef   string `json:"merchantref"`
	Amount        string `json:"amount"`
	Currency      string `json:"currency"`
	Signature     string `json:"signature"`
}

type gatewayResponse struct {
	Order *orderPayload `json:"order"`
}

func (c *Client) CreateOrder(ctx context.Context, creds domain.GatewayCredentials, details domain.OrderDetails) (*domain.CreateOrderResult, error) {
	if err := creds.Validate(); err != nil {
		return nil, err
	}
	if details.Amount <= 0 {
		return nil, domain.ErrInvalidAmount
	}
	if !referencePattern.MatchString(details.Reference) {
		return nil, domain.ErrInvalidReference
	}
	if details.ReturnURL == "" {
		return nil, fmt.Errorf("%w: return url is required", domain.ErrConfiguration)
	}

	reqBody := createOrderRequest{
		TerminalID:  creds.TerminalID,
		Username:    creds.Username,
		Password:    creds.Password,
		OrderType:   DefaultOrderType,
		Amount:      strconv.FormatInt(ToMinorUnits(details.Amount, details.Currency), 10),
		Currency:    details.Currency,
		MerchantRef: details.Reference,
		ReturnURL:   details.ReturnURL,
		Description: details.Description,
		Email:       details.CustomerEmail,
	}
	if creds.SHARequestPhrase != "" {
		reqBody.Signature = Sign(map[string]string{
			"terminalid":  reqBody.TerminalID,
			"username":    reqBody.Username,
			"password":    reqBody.Password,
			"ordertype":   reqBody.OrderType,
			"amount":      reqBody.Amount,
			"currency":    reqBody.Currency,
			"merchantref": reqBody.MerchantRef,
			"returnurl":   reqBody.ReturnURL,
		}, creds.SHARequestPhrase)
	}

	order, err := c.postOrder(ctx, endpointURL(creds.BaseURL, CreateOrderEndpoint), reqBody)
	if err != nil {
		return nil, err
	}
	if order.URL == "" {
		return nil, &domain.GatewayProtocolError{Reason: "create-order response missing redirect url"}
	}
	if order.TranID == "" {
		return nil, &domain.GatewayProtocolError{Reason: "create-order response missing tranid"}
	}

	return &domain.CreateOrderResult{
		RedirectURL: order.URL,
		ExternalID:  order.TranID,
		CheckToken:  order.CheckID,
		Status:      order.Status,
	}, nil
}

func (c *Client) InquireStatus(ctx context.Context, creds domain.GatewayCredentials, externalID, checkToken string) (*domain.StatusResponse, error) {
	if err := creds.Validate(); err != nil {
		return nil, err
	}
	if externalID == "" || checkToken == "" {
		return nil, fmt.Errorf("%w: inquiry requires tranid and checkid", domain.ErrCorrelationNotFound)
	}

	reqBody := inquiryRequest{
		TerminalID: creds.TerminalID,
		Username:   creds.Username,
		Password:   creds.Password,
		TranID:     externalID,
		CheckID:    checkToken,
	}
	if creds.SHARequestPhrase != "" {
		reqBody.Signature = Sign(map[string]string{
			"terminalid": reqBody.TerminalID,
			"username":   reqBody.Username,
			"password":   reqBody.Password,
			"tranid":     reqBody.TranID,
			"checkid":    reqBody.CheckID,
		}, creds.SHARequestPhrase)
	}

	order, err := c.postOrder(ctx, endpointURL(creds.BaseURL, InquiryEndpoint), reqBody)
	if err != nil {
		return nil, err
	}

	return statusResponseFromOrder(order), nil
}

// postOrder performs the POST, classifies transport and protocol failures and
// unwraps the mandatory "order" object.
func (c *Client) postOrder(ctx context.Context, url string, body any) (*orderPayload, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal gateway request: %w", err)
	}

	type httpResult struct {
		statusCode int
		body       []byte
	}

	res, err := c.breaker.Execute(func() (interface{}, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		respBody, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, err
		}
		return httpResult{statusCode: resp.StatusCode, body: respBody}, nil
	})
	if err != nil {
		// Timeouts, refused connections and an open breaker all mean the
		// gateway was never (usefully) reached.
		return nil, &domain.GatewayUnavailableError{Err: err}
	}

	result := res.(httpResult)
	if result.statusCode < 200 || result.statusCode >= 300 {
		return nil, &domain.GatewayRejectedError{StatusCode: result.statusCode, Body: string(result.body)}
	}

	var decoded gatewayResponse
	if err := json.Unmarshal(result.body, &decoded); err != nil {
		return nil, &domain.GatewayProtocolError{Reason: "undecodable response body"}
	}
	if decoded.Order == nil {
		return nil, &domain.GatewayProtocolError{Reason: "response missing order object"}
	}

	return decoded.Order, nil
}

func statusResponseFromOrder(order *orderPayload) *domain.StatusResponse {
	resp := &domain.StatusResponse{
		ExternalID:    order.TranID,
		Reference:     order.MerchantRef,
		Status:        order.Status,
		ApprovalCode:  order.ApprovalCode,
		PaymentMethod: order.PaymentMethod,
		Currency:      order.Currency,
		Signature:     order.Signature,
		Fields:        orderFields(order),
	}
	if order.Amount != "" {
		if minor, err := strconv.ParseInt(order.Amount, 10, 64); err == nil {
			amount := FromMinorUnits(minor, order.Currency)
			resp.Amount = &amount
		}
	}
	return resp
}

func orderFields(order *orderPayload) map[string]string {
	fields := map[string]string{}
	put := func(k, v string) {
		if v != "" {
			fields[k] = v
		}
	}
	put("url", order.URL)
	put("tranid", order.TranID)
	put("checkid", order.CheckID)
	put("status", order.Status)
	put("approvalcode", order.ApprovalCode)
	put("paymentmethod", order.PaymentMethod)
	put("merchantref", order.MerchantRef)
	put("amount", order.Amount)
	put("currency", order.Currency)
	put("signature", order.Signature)
	return fields
}

func endpointURL(baseURL, endpoint string) string {
	return strings.TrimRight(baseURL, "/") + "/" + endpoint
}

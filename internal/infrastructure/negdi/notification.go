package negdi

import (
	"encoding/json"
	"strconv"

	"github.com/negdipay/negdi-payment-service/internal/domain"
)

// ParseNotification decodes a webhook body into the normalized notification
// form. NEGDi posts the same shape it answers API calls with: the fields under
// an "order" object. A flat body is accepted too - some gateway environments
// omit the wrapper.
func ParseNotification(raw []byte) (domain.GatewayNotification, error) {
	var wrapped gatewayResponse
	if err := json.Unmarshal(raw, &wrapped); err != nil {
		return domain.GatewayNotification{}, &domain.GatewayProtocolError{Reason: "undecodable webhook body"}
	}

	order := wrapped.Order
	if order == nil {
		var flat orderPayload
		if err := json.Unmarshal(raw, &flat); err != nil {
			return domain.GatewayNotification{}, &domain.GatewayProtocolError{Reason: "undecodable webhook body"}
		}
		order = &flat
	}

	n := domain.GatewayNotification{
		ExternalID:    order.TranID,
		Reference:     order.MerchantRef,
		CheckToken:    order.CheckID,
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
			n.Amount = &amount
		}
	}
	return n, nil
}

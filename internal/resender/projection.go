package resender

import (
	"fmt"

	"ordersweep/internal/types"
)

// buildForwardPayload extracts the fixed projection of a full Magento order
// detail that the email-sending webhook expects. Nested structures are
// forwarded verbatim.
//
// The shipping fields come from the first shipping assignment: the business
// only ever has one shipping assignment per order. commentField is the
// deployment-specific key holding the customer's order comment.
//
// A missing key is a malformed-order error: the detail endpoint returned
// something this store's orders should always carry.
func buildForwardPayload(detail map[string]any, commentField string) (*types.OrderForwardPayload, error) {
	customerName, err := lookup(detail, "customer_name")
	if err != nil {
		return nil, err
	}
	incrementID, err := lookup(detail, "increment_id")
	if err != nil {
		return nil, err
	}
	billingAddress, err := lookup(detail, "billing_address")
	if err != nil {
		return nil, err
	}
	items, err := lookup(detail, "items")
	if err != nil {
		return nil, err
	}
	subtotal, err := lookup(detail, "subtotal")
	if err != nil {
		return nil, err
	}
	grandTotal, err := lookup(detail, "grand_total")
	if err != nil {
		return nil, err
	}
	orderComment, err := lookup(detail, commentField)
	if err != nil {
		return nil, err
	}

	payment, err := lookupMap(detail, "payment")
	if err != nil {
		return nil, err
	}
	paymentMethod, err := lookup(payment, "method")
	if err != nil {
		return nil, err
	}

	shipping, err := firstShippingAssignment(detail)
	if err != nil {
		return nil, err
	}
	shippingAddress, err := lookup(shipping, "address")
	if err != nil {
		return nil, err
	}
	shippingMethod, err := lookup(shipping, "method")
	if err != nil {
		return nil, err
	}
	shippingCost, err := lookup(shipping, "total")
	if err != nil {
		return nil, err
	}

	return &types.OrderForwardPayload{
		CustomerName:    customerName,
		IncrementID:     incrementID,
		BillingAddress:  billingAddress,
		ShippingAddress: shippingAddress,
		PaymentMethod:   paymentMethod,
		ShippingMethod:  shippingMethod,
		Items:           items,
		ShippingCost:    shippingCost,
		Subtotal:        subtotal,
		GrandTotal:      grandTotal,
		OrderComment:    orderComment,
	}, nil
}

// firstShippingAssignment digs out
// extension_attributes.shipping_assignments[0].shipping from an order detail.
func firstShippingAssignment(detail map[string]any) (map[string]any, error) {
	ext, err := lookupMap(detail, "extension_attributes")
	if err != nil {
		return nil, err
	}

	rawAssignments, err := lookup(ext, "shipping_assignments")
	if err != nil {
		return nil, err
	}

	assignments, ok := rawAssignments.([]any)
	if !ok || len(assignments) == 0 {
		return nil, malformedDetail("shipping_assignments is empty or not a list")
	}

	assignment, ok := assignments[0].(map[string]any)
	if !ok {
		return nil, malformedDetail("shipping_assignments[0] is not an object")
	}

	return lookupMap(assignment, "shipping")
}

// lookup returns the value at key or a malformed-order error when absent.
func lookup(m map[string]any, key string) (any, error) {
	v, ok := m[key]
	if !ok {
		return nil, malformedDetail(fmt.Sprintf("missing field %q", key))
	}
	return v, nil
}

// lookupMap returns the object at key or a malformed-order error when the
// key is absent or not an object.
func lookupMap(m map[string]any, key string) (map[string]any, error) {
	v, err := lookup(m, key)
	if err != nil {
		return nil, err
	}

	obj, ok := v.(map[string]any)
	if !ok {
		return nil, malformedDetail(fmt.Sprintf("field %q is not an object", key))
	}
	return obj, nil
}

func malformedDetail(msg string) *types.AppError {
	return types.NewAppError(
		types.ErrCodeMalformedOrder,
		"order detail projection failed: "+msg,
		nil,
	)
}

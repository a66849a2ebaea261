package storekit

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrPurchaseCancelled is returned by a Purchaser when the user backed out of
// the payment sheet. Cancellation is not a failure; the facade swallows it.
var ErrPurchaseCancelled = errors.New("purchase cancelled")

// PlatformErrorCode classifies platform purchase failures.
type PlatformErrorCode int

const (
	PlatformErrorUnknown PlatformErrorCode = iota
	PlatformErrorClientInvalid
	PlatformErrorPaymentInvalid
	PlatformErrorPaymentNotAllowed
	PlatformErrorProductNotAvailable
	PlatformErrorCloudPermissionDenied
	PlatformErrorCloudNetworkFailed
	PlatformErrorCloudServiceRevoked
	PlatformErrorWaitingForApproval
)

// PlatformError is a platform purchase failure carrying its code. Purchaser
// implementations return these so that the facade can map them to user-facing
// messages.
type PlatformError struct {
	Code PlatformErrorCode
}

func (e *PlatformError) Error() string {
	return fmt.Sprintf("platform purchase error (code %d)", e.Code)
}

// User-facing messages for platform failure codes. Codes without an entry
// fall back to the unknown-error message.
var purchaseErrorMessages = map[PlatformErrorCode]string{
	PlatformErrorUnknown:               "Unknown error. Please contact support",
	PlatformErrorClientInvalid:         "Not allowed to make the payment",
	PlatformErrorPaymentInvalid:        "The purchase identifier was invalid",
	PlatformErrorPaymentNotAllowed:     "The device is not allowed to make the payment",
	PlatformErrorProductNotAvailable:   "The product is not available in the current storefront",
	PlatformErrorCloudPermissionDenied: "Access to cloud service information is not allowed",
	PlatformErrorCloudNetworkFailed:    "Could not connect to the network",
	PlatformErrorCloudServiceRevoked:   "User has revoked permission to use this cloud service",
	PlatformErrorWaitingForApproval:    "Waiting For Approval",
}

// PurchaseError is a failed purchase surfaced to the application, carrying
// the mapped user-facing message.
type PurchaseError struct {
	Code    PlatformErrorCode
	Message string
}

func (e *PurchaseError) Error() string {
	return e.Message
}

func newPurchaseError(err error) *PurchaseError {
	var platformErr *PlatformError
	if !errors.As(err, &platformErr) {
		return &PurchaseError{
			Code:    PlatformErrorUnknown,
			Message: purchaseErrorMessages[PlatformErrorUnknown],
		}
	}

	message, ok := purchaseErrorMessages[platformErr.Code]
	if !ok {
		message = purchaseErrorMessages[PlatformErrorUnknown]
	}

	return &PurchaseError{
		Code:    platformErr.Code,
		Message: message,
	}
}

// PurchaseDetails describes a completed platform transaction.
type PurchaseDetails struct {
	ProductID     string
	TransactionID string
	PurchasedAt   time.Time
}

// Purchaser initiates a platform purchase. Implementations return
// ErrPurchaseCancelled when the user cancels and *PlatformError for platform
// failures.
type Purchaser interface {
	Purchase(ctx context.Context, productID string) (*PurchaseDetails, error)
}

// PurchaseResult is the outcome of a purchase attempt. Cancelled results
// carry no details and no error.
type PurchaseResult struct {
	Details   *PurchaseDetails
	Cancelled bool
}

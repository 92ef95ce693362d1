package auth

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// Kind is the normalized classification of an authentication failure.
// It is what the notification surface shows to the user; raw provider errors
// never leak past the service layer.
type Kind string

const (
	KindInvalidCredentials Kind = "invalid_credentials"
	KindEmailTaken         Kind = "email_already_registered"
	KindWeakCredential     Kind = "weak_credential"
	KindNetworkFailure     Kind = "network_failure"
	KindPermissionDenied   Kind = "permission_denied"
	KindCancelled          Kind = "cancelled_by_user"
	KindFlowInterrupted    Kind = "flow_interrupted"
	KindUploadFailed       Kind = "best_effort_upload_failure"
	KindUnknown            Kind = "unknown"
)

// FlowError attaches a Kind to an underlying cause. The Kind drives the
// user-visible notification; the cause is for logs only.
type FlowError struct {
	Kind Kind
	Err  error
}

func (e *FlowError) Error() string {
	if e.Err == nil {
		return string(e.Kind)
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *FlowError) Unwrap() error { return e.Err }

// NewFlowError wraps err with the given classification.
func NewFlowError(kind Kind, err error) *FlowError {
	return &FlowError{Kind: kind, Err: err}
}

// KindOf extracts the classification from err. Unclassified network-level
// failures map to KindNetworkFailure; everything else is KindUnknown.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}

	var fe *FlowError
	if errors.As(err, &fe) {
		return fe.Kind
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return KindNetworkFailure
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return KindNetworkFailure
	}

	return KindUnknown
}

package provisioning

import (
	"errors"
	"fmt"
)

// Kind classifies a provisioning failure by the collaborator that caused it.
type Kind string

const (
	KindBroker         Kind = "BrokerError"
	KindKeyFormat      Kind = "KeyFormatError"
	KindCrypto         Kind = "CryptoError"
	KindStore          Kind = "StoreError"
	KindBuild          Kind = "BuildError"
	KindStorage        Kind = "StorageError"
	KindInvalidRequest Kind = "InvalidRequest"
)

// Messages returned to callers. They are intentionally terse; details go to
// Error.Detail and the log.
const (
	MsgAddDevice      = "Failed to add device"
	MsgCertKeyMissing = "Cert or key missing in response"
	MsgNoGroupKey     = "No group_key found for user"
	MsgGroupKeyFormat = "group_key format invalid"
	MsgSeal           = "Failed to encrypt group key with device cert"
	MsgInsertDevice   = "Failed to insert device into database"
	MsgSettings       = "Failed to set up device settings"
	MsgBuild          = "Failed to build device binary"
	MsgInsertKey      = "Could not insert encryption_key into database"
	MsgActivate       = "Failed to activate device"
	MsgEmptyUserID    = "uid is required"
	MsgBadPlatform    = "platform must be one of windows, macos, linux"
)

// Error is the single error type returned by Service.Provision.
type Error struct {
	Kind    Kind
	Message string
	// Detail is optional diagnostic context safe to show to the caller.
	Detail string
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

func newError(kind Kind, msg, detail string, err error) *Error {
	return &Error{Kind: kind, Message: msg, Detail: detail, Err: err}
}

// KindOf returns the Kind of the first *Error in err's chain, or "" if there
// is none.
func KindOf(err error) Kind {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return ""
}

package flow

import "errors"

var (
	// ErrUnsupportedPaymentMethod is returned when no checkout modal handles a method.
	ErrUnsupportedPaymentMethod = errors.New("flow: unsupported payment method")
	// ErrStaleGeneration is returned when an async result arrives after its flow was superseded.
	ErrStaleGeneration = errors.New("flow: result belongs to a superseded flow")
	// ErrCheckoutCommitting is returned by transitions attempted while a confirmed
	// payment is being written.
	ErrCheckoutCommitting = errors.New("flow: checkout is being finalized")
	// ErrViewNotAllowed is returned when the session may not see the requested view.
	ErrViewNotAllowed = errors.New("flow: view not allowed for session")
	// ErrUnknownModal is returned for modal kinds outside the declared set.
	ErrUnknownModal = errors.New("flow: unknown modal kind")
	// ErrUnknownView is returned for unknown view names.
	ErrUnknownView = errors.New("flow: unknown view")
	// ErrPayloadMismatch is returned when a payload is opened with a modal of another kind.
	ErrPayloadMismatch = errors.New("flow: payload does not match modal kind")
	// ErrUnknownArtifact is returned for artifact kinds outside the declared set.
	ErrUnknownArtifact = errors.New("flow: unknown artifact kind")
)

// ErrNoSession is returned by operations that need a signed-in visitor.
var ErrNoSession = errors.New("flow: no session")

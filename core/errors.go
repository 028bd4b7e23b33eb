package core

import (
	"github.com/cockroachdb/errors"
)

// Bring-up failure kinds. Every error returned by a pipeline stage is
// marked with exactly one of these, so callers can classify with
// errors.Is while the message itself names the capability or handle
// that failed to materialise.
var (
	ErrUnsupportedExtension         = errors.New("unsupported instance extension")
	ErrUnsupportedLayer             = errors.New("unsupported instance layer")
	ErrInstanceCreationFailed       = errors.New("instance creation failed")
	ErrDebugMessengerCreationFailed = errors.New("debug messenger creation failed")
	ErrSurfaceCreationFailed        = errors.New("surface creation failed")
	ErrNoVulkanCapableDevice        = errors.New("no vulkan capable device")
	ErrNoSuitableDevice             = errors.New("no suitable device")
	ErrNoSuitableQueueFamily        = errors.New("no suitable queue family")
	ErrLogicalDeviceCreationFailed  = errors.New("logical device creation failed")
	ErrSwapChainCreationFailed      = errors.New("swapchain creation failed")
	ErrImageViewCreationFailed      = errors.New("image view creation failed")
)

// markf builds a stage error carrying the given kind
func markf(kind error, format string, args ...interface{}) error {
	return errors.Mark(errors.Newf(format, args...), kind)
}

// wrapf attaches stage context to an underlying driver error
// and marks it with the given kind
func wrapf(kind error, err error, format string, args ...interface{}) error {
	return errors.Mark(errors.Wrapf(err, format, args...), kind)
}

package core

import (
	vk "github.com/vulkan-go/vulkan"
)

// Window describes the windowing system collaborator. The bring-up
// pipeline makes no assumptions about the windowing protocol beyond
// these three queries.
type Window interface {
	// InstanceExtensions returns the platform-mandatory instance
	// extensions that presentation to this window requires
	InstanceExtensions() []string

	// CreateSurface creates a native drawable surface bound
	// to the given instance
	CreateSurface(instance vk.Instance) (vk.Surface, error)

	// FramebufferSize returns the current framebuffer size in pixels
	FramebufferSize() (width, height uint32)
}

// Logger is a leveled diagnostics sink. Implementations are
// best-effort and must never influence control flow.
type Logger interface {
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warningf(format string, args ...interface{})
	Errorf(format string, args ...interface{})

	// Metricf reports a measurement, such as a stage duration
	Metricf(format string, args ...interface{})
}

// NopLogger discards everything written to it
type NopLogger struct{}

// Debugf implements Logger
func (NopLogger) Debugf(string, ...interface{}) {}

// Infof implements Logger
func (NopLogger) Infof(string, ...interface{}) {}

// Warningf implements Logger
func (NopLogger) Warningf(string, ...interface{}) {}

// Errorf implements Logger
func (NopLogger) Errorf(string, ...interface{}) {}

// Metricf implements Logger
func (NopLogger) Metricf(string, ...interface{}) {}

// Destroyable is any context that owns native handles
// and must release them exactly once
type Destroyable interface {
	Destroy()
}

// QueueFamily pairs a queue family index with the queue handle
// fetched from the logical device at slot 0
type QueueFamily struct {
	Index uint32
	Queue vk.Queue
}

package core

import (
	"unsafe"

	vk "github.com/vulkan-go/vulkan"
)

// DebugContext registers a callback sink for the driver's internal
// validation messages. Only constructed when diagnostics are enabled.
type DebugContext struct {
	api API
	log Logger

	instance vk.Instance
	callback vk.DebugReportCallback
}

// NewDebugContext attaches a message sink to the instance covering
// debug, information, warning, performance and error reports
func NewDebugContext(api API, log Logger, instance *InstanceContext) (*DebugContext, error) {
	c := &DebugContext{
		api:      api,
		log:      log,
		instance: instance.Handle(),
	}

	flags := vk.DebugReportFlags(vk.DebugReportDebugBit |
		vk.DebugReportInformationBit |
		vk.DebugReportWarningBit |
		vk.DebugReportPerformanceWarningBit |
		vk.DebugReportErrorBit)

	callback, err := api.CreateDebugCallback(c.instance, flags, c.report)
	if err != nil {
		return nil, wrapf(ErrDebugMessengerCreationFailed, err, "debug: registering message sink")
	}
	c.callback = callback

	log.Debugf("debug: message sink registered")
	return c, nil
}

// report forwards one driver diagnostic to the logger. It always
// returns vk.False so the triggering call is not aborted.
func (c *DebugContext) report(flags vk.DebugReportFlags, objectType vk.DebugReportObjectType,
	object uint64, location uint, messageCode int32,
	layerPrefix string, message string, userData unsafe.Pointer) vk.Bool32 {

	switch {
	case flags&vk.DebugReportFlags(vk.DebugReportErrorBit) != 0:
		c.log.Errorf("driver [%s] %s", layerPrefix, message)
	case flags&vk.DebugReportFlags(vk.DebugReportWarningBit) != 0,
		flags&vk.DebugReportFlags(vk.DebugReportPerformanceWarningBit) != 0:
		c.log.Warningf("driver [%s] %s", layerPrefix, message)
	case flags&vk.DebugReportFlags(vk.DebugReportInformationBit) != 0:
		c.log.Infof("driver [%s] %s", layerPrefix, message)
	default:
		c.log.Debugf("driver [%s] %s", layerPrefix, message)
	}
	return vk.False
}

// Destroy implements Destroyable. Must run before the instance
// is destroyed.
func (c *DebugContext) Destroy() {
	c.api.DestroyDebugCallback(c.instance, c.callback)
	c.callback = vk.NullDebugReportCallback
}

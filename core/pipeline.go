package core

import (
	"unsafe"

	"github.com/google/uuid"
	"github.com/loov/hrtime"
	vk "github.com/vulkan-go/vulkan"
)

// Pipeline performs the one-shot bring-up of the presentation
// environment: Instance, optional Debug, Surface, Device, SwapChain,
// in that order. Construction aborts on the first failing stage, and
// everything created up to that point is released before the error
// surfaces. The whole pipeline runs on the calling thread; nothing
// here is safe for concurrent use.
type Pipeline struct {
	api API
	log Logger
	win Window
	cfg Configuration

	session string
	release []Destroyable

	instance  *InstanceContext
	debug     *DebugContext
	surface   *SurfaceContext
	device    *DeviceContext
	swapchain *SwapChainContext
}

// NewPipeline creates an unbootstrapped pipeline. A nil log selects
// the no-op logger.
func NewPipeline(api API, log Logger, win Window, cfg Configuration) *Pipeline {
	if log == nil {
		log = NopLogger{}
	}
	return &Pipeline{
		api:     api,
		log:     log,
		win:     win,
		cfg:     cfg,
		session: uuid.NewString(),
	}
}

// Bootstrap runs every stage in dependency order. procAddr is the
// loader entry point from the windowing system; nil selects the
// default loader. On failure the already-created stages are unwound
// in reverse order before the error is returned.
func (p *Pipeline) Bootstrap(procAddr unsafe.Pointer) (err error) {
	defer func() {
		if err != nil {
			p.unwind()
		}
	}()

	cfg := p.cfg
	cfg.Instance.Extensions = append(cfg.Instance.Extensions, p.win.InstanceExtensions()...)

	stage := p.stageTimer("instance")
	p.instance, err = NewInstanceContext(p.api, p.log, cfg.App, procAddr, cfg.Instance)
	if err != nil {
		return err
	}
	p.release = append(p.release, p.instance)
	stage()

	if cfg.Instance.Diagnostics {
		stage = p.stageTimer("debug")
		p.debug, err = NewDebugContext(p.api, p.log, p.instance)
		if err != nil {
			return err
		}
		p.release = append(p.release, p.debug)
		stage()
	}

	stage = p.stageTimer("surface")
	p.surface, err = NewSurfaceContext(p.api, p.log, p.instance, p.win)
	if err != nil {
		return err
	}
	p.release = append(p.release, p.surface)
	stage()

	stage = p.stageTimer("device")
	p.device, err = NewDeviceContext(p.api, p.log, p.instance, p.surface, cfg.Device)
	if err != nil {
		return err
	}
	p.release = append(p.release, p.device)
	stage()

	stage = p.stageTimer("swapchain")
	p.swapchain, err = NewSwapChainContext(p.api, p.log, p.device, p.surface, p.win)
	if err != nil {
		return err
	}
	p.release = append(p.release, p.swapchain)
	stage()

	p.log.Infof("bring-up complete session=%s", p.session)
	return nil
}

// stageTimer reports the stage wall-time through the metric level
// when the returned func runs
func (p *Pipeline) stageTimer(name string) func() {
	start := hrtime.Now()
	return func() {
		p.log.Metricf("stage=%s session=%s duration=%s", name, p.session, hrtime.Since(start))
	}
}

// unwind releases everything acquired so far, newest first
func (p *Pipeline) unwind() {
	for i := len(p.release) - 1; i >= 0; i-- {
		p.release[i].Destroy()
	}
	p.release = nil
	p.instance, p.debug, p.surface, p.device, p.swapchain = nil, nil, nil, nil, nil
}

// Session returns the id carried by this bring-up's log lines
func (p *Pipeline) Session() string {
	return p.session
}

// Device returns the logical device handle
func (p *Pipeline) Device() vk.Device {
	return p.device.Handle()
}

// GraphicsQueue returns the resolved graphics queue family pair
func (p *Pipeline) GraphicsQueue() QueueFamily {
	return p.device.GraphicsQueue()
}

// PresentQueue returns the resolved present queue family pair
func (p *Pipeline) PresentQueue() QueueFamily {
	return p.device.PresentQueue()
}

// ImageViews returns the swapchain image views
func (p *Pipeline) ImageViews() []vk.ImageView {
	return p.swapchain.ImageViews()
}

// ImageFormat returns the negotiated swapchain image format
func (p *Pipeline) ImageFormat() vk.Format {
	return p.swapchain.ImageFormat()
}

// Extent returns the negotiated swapchain extent
func (p *Pipeline) Extent() vk.Extent2D {
	return p.swapchain.Extent()
}

// Destroy implements Destroyable. Teardown runs in exact reverse
// construction order.
func (p *Pipeline) Destroy() {
	p.unwind()
}

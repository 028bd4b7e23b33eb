package core

import (
	vk "github.com/vulkan-go/vulkan"
)

// SurfaceContext wraps the windowing system's native drawable as a
// presentation target. The handle is treated as static for the
// process lifetime; resize awareness is not part of this core.
type SurfaceContext struct {
	api API
	log Logger

	instance vk.Instance
	surface  vk.Surface
}

// NewSurfaceContext delegates native surface creation to the window
// collaborator and wraps the result
func NewSurfaceContext(api API, log Logger, instance *InstanceContext, win Window) (*SurfaceContext, error) {
	surface, err := win.CreateSurface(instance.Handle())
	if err != nil {
		return nil, wrapf(ErrSurfaceCreationFailed, err, "surface: window collaborator")
	}

	log.Debugf("surface: presentation target created")

	return &SurfaceContext{
		api:      api,
		log:      log,
		instance: instance.Handle(),
		surface:  surface,
	}, nil
}

// Handle returns the surface handle
func (c *SurfaceContext) Handle() vk.Surface {
	return c.surface
}

// Destroy implements Destroyable. Must run after every consumer of
// the surface is gone and before the instance is destroyed.
func (c *SurfaceContext) Destroy() {
	c.api.DestroySurface(c.instance, c.surface)
	c.surface = vk.NullSurface
}

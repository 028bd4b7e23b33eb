// Package window implements the windowing system collaborator on SDL2.
package window

import (
	"unsafe"

	"github.com/cockroachdb/errors"
	"github.com/veandco/go-sdl2/sdl"
	vk "github.com/vulkan-go/vulkan"

	"github.com/norvik3d/norvik/core"
)

// Setup initialises SDL's video subsystem and the Vulkan loader.
// Call once per process, before any window is created.
func Setup() error {
	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
		return errors.Wrap(err, "sdl.Init()")
	}
	if err := sdl.VulkanLoadLibrary(""); err != nil {
		return errors.Wrap(err, "sdl.VulkanLoadLibrary()")
	}
	return nil
}

// Teardown unloads the Vulkan loader and shuts SDL down
func Teardown() {
	sdl.VulkanUnloadLibrary()
	sdl.Quit()
}

// ProcAddr returns the loader entry point the instance stage needs
func ProcAddr() unsafe.Pointer {
	return sdl.VulkanGetVkGetInstanceProcAddr()
}

// Window is an SDL window capable of Vulkan presentation
type Window struct {
	win *sdl.Window
}

// New creates a visible Vulkan-capable window of the given size
func New(title string, cfg core.ScreenConfiguration) (*Window, error) {
	win, err := sdl.CreateWindow(title,
		sdl.WINDOWPOS_UNDEFINED,
		sdl.WINDOWPOS_UNDEFINED,
		int32(cfg.Width),
		int32(cfg.Height),
		sdl.WINDOW_SHOWN|sdl.WINDOW_VULKAN)
	if err != nil {
		return nil, errors.Wrap(err, "sdl.CreateWindow()")
	}
	return &Window{win: win}, nil
}

// InstanceExtensions implements core.Window
func (w *Window) InstanceExtensions() []string {
	return w.win.VulkanGetInstanceExtensions()
}

// CreateSurface implements core.Window
func (w *Window) CreateSurface(instance vk.Instance) (vk.Surface, error) {
	surface, err := w.win.VulkanCreateSurface(instance)
	if err != nil {
		return vk.NullSurface, errors.Wrap(err, "sdl window.VulkanCreateSurface()")
	}
	return vk.SurfaceFromPointer(uintptr(surface)), nil
}

// FramebufferSize implements core.Window
func (w *Window) FramebufferSize() (uint32, uint32) {
	width, height := w.win.VulkanGetDrawableSize()
	return uint32(width), uint32(height)
}

// Destroy closes the window
func (w *Window) Destroy() {
	w.win.Destroy()
}

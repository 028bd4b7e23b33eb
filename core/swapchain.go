package core

import (
	"math"

	vk "github.com/vulkan-go/vulkan"
)

// The driver reports this width when the surface leaves the extent
// up to the application
const unboundExtent = math.MaxUint32

// ChooseSurfaceFormat prefers 8-bit BGRA in the standard nonlinear
// color space. When the surface does not offer it, the first entry
// the driver returned is used; that order is driver-defined, so the
// fallback is deliberate rather than a guess.
func ChooseSurfaceFormat(available []vk.SurfaceFormat) vk.SurfaceFormat {
	for _, format := range available {
		if format.Format == vk.FormatB8g8r8a8Srgb && format.ColorSpace == vk.ColorSpaceSrgbNonlinear {
			return format
		}
	}
	return available[0]
}

// ChoosePresentMode prefers mailbox, the triple-buffered low-latency
// mode. FIFO is the fallback; the API guarantees it is always
// available, so the input list is not consulted for it.
func ChoosePresentMode(available []vk.PresentMode) vk.PresentMode {
	for _, mode := range available {
		if mode == vk.PresentModeMailbox {
			return mode
		}
	}
	return vk.PresentModeFifo
}

// ChooseExtent resolves the swap extent. A surface that reports a
// bound current extent wins verbatim; otherwise the window
// framebuffer size is clamped per-axis into the surface bounds.
func ChooseExtent(capabilities vk.SurfaceCapabilities, framebufferWidth, framebufferHeight uint32) vk.Extent2D {
	if capabilities.CurrentExtent.Width != unboundExtent {
		return capabilities.CurrentExtent
	}
	return vk.Extent2D{
		Width:  clampUint32(framebufferWidth, capabilities.MinImageExtent.Width, capabilities.MaxImageExtent.Width),
		Height: clampUint32(framebufferHeight, capabilities.MinImageExtent.Height, capabilities.MaxImageExtent.Height),
	}
}

// ChooseImageCount requests one image more than the surface minimum
// to avoid stalling on the display, clamped to the surface maximum
// when one is advertised (zero means unbounded).
func ChooseImageCount(capabilities vk.SurfaceCapabilities) uint32 {
	count := capabilities.MinImageCount + 1
	if capabilities.MaxImageCount > 0 && count > capabilities.MaxImageCount {
		count = capabilities.MaxImageCount
	}
	return count
}

// ChooseSharingMode returns exclusive single-family ownership when
// graphics and present resolve to the same family, and concurrent
// sharing naming both indices when they differ. Concurrent trades
// some throughput for not having to issue ownership transfers.
func ChooseSharingMode(graphics, present QueueFamily) (vk.SharingMode, []uint32) {
	if graphics.Index == present.Index {
		return vk.SharingModeExclusive, nil
	}
	return vk.SharingModeConcurrent, []uint32{graphics.Index, present.Index}
}

// SwapChainContext owns the presentable image chain and one 2D color
// view per image. It becomes stale if the surface is resized; chain
// recreation is out of scope for this core.
type SwapChainContext struct {
	api API
	log Logger

	device    vk.Device
	swapchain vk.Swapchain
	images    []vk.Image
	views     []vk.ImageView

	format vk.SurfaceFormat
	extent vk.Extent2D
	mode   vk.PresentMode
}

// NewSwapChainContext negotiates format, present mode, extent and
// image count against the selected device and surface, creates the
// chain and wraps every image in a view
func NewSwapChainContext(api API, log Logger, device *DeviceContext, surface *SurfaceContext, win Window) (*SwapChainContext, error) {
	capabilities, err := api.SurfaceCapabilities(device.PhysicalDevice(), surface.Handle())
	if err != nil {
		return nil, wrapf(ErrSwapChainCreationFailed, err, "swapchain: reading surface capabilities")
	}
	formats, err := api.SurfaceFormats(device.PhysicalDevice(), surface.Handle())
	if err != nil {
		return nil, wrapf(ErrSwapChainCreationFailed, err, "swapchain: reading surface formats")
	}
	if len(formats) == 0 {
		return nil, markf(ErrSwapChainCreationFailed, "swapchain: surface reports no formats")
	}
	modes, err := api.SurfacePresentModes(device.PhysicalDevice(), surface.Handle())
	if err != nil {
		return nil, wrapf(ErrSwapChainCreationFailed, err, "swapchain: reading present modes")
	}

	format := ChooseSurfaceFormat(formats)
	mode := ChoosePresentMode(modes)
	fbWidth, fbHeight := win.FramebufferSize()
	extent := ChooseExtent(capabilities, fbWidth, fbHeight)
	count := ChooseImageCount(capabilities)
	sharing, familyIndices := ChooseSharingMode(device.GraphicsQueue(), device.PresentQueue())

	log.Infof("swapchain: %dx%d format=%d colorspace=%d mode=%d images>=%d sharing=%d",
		extent.Width, extent.Height, format.Format, format.ColorSpace, mode, count, sharing)

	info := vk.SwapchainCreateInfo{
		SType:                 vk.StructureTypeSwapchainCreateInfo,
		Surface:               surface.Handle(),
		MinImageCount:         count,
		ImageFormat:           format.Format,
		ImageColorSpace:       format.ColorSpace,
		ImageExtent:           extent,
		ImageArrayLayers:      1,
		ImageUsage:            vk.ImageUsageFlags(vk.ImageUsageColorAttachmentBit),
		ImageSharingMode:      sharing,
		QueueFamilyIndexCount: uint32(len(familyIndices)),
		PQueueFamilyIndices:   familyIndices,
		PreTransform:          capabilities.CurrentTransform,
		CompositeAlpha:        vk.CompositeAlphaOpaqueBit,
		PresentMode:           mode,
		Clipped:               vk.True,
		OldSwapchain:          vk.NullSwapchain,
	}

	swapchain, err := api.CreateSwapchain(device.Handle(), &info)
	if err != nil {
		return nil, wrapf(ErrSwapChainCreationFailed, err, "swapchain: creating chain")
	}

	images, err := api.SwapchainImages(device.Handle(), swapchain)
	if err != nil {
		api.DestroySwapchain(device.Handle(), swapchain)
		return nil, wrapf(ErrSwapChainCreationFailed, err, "swapchain: retrieving images")
	}

	views, err := createImageViews(api, device.Handle(), images, format.Format)
	if err != nil {
		api.DestroySwapchain(device.Handle(), swapchain)
		return nil, err
	}

	log.Debugf("swapchain: %d image view(s) ready", len(views))

	return &SwapChainContext{
		api:       api,
		log:       log,
		device:    device.Handle(),
		swapchain: swapchain,
		images:    images,
		views:     views,
		format:    format,
		extent:    extent,
		mode:      mode,
	}, nil
}

// createImageViews wraps each chain image in a 2D color view covering
// mip level 0 and array layer 0. On a partial failure every view
// created so far is destroyed before the error propagates.
func createImageViews(api API, device vk.Device, images []vk.Image, format vk.Format) ([]vk.ImageView, error) {
	views := make([]vk.ImageView, 0, len(images))
	for i, image := range images {
		info := vk.ImageViewCreateInfo{
			SType:    vk.StructureTypeImageViewCreateInfo,
			Image:    image,
			ViewType: vk.ImageViewType2d,
			Format:   format,
			Components: vk.ComponentMapping{
				R: vk.ComponentSwizzleIdentity,
				G: vk.ComponentSwizzleIdentity,
				B: vk.ComponentSwizzleIdentity,
				A: vk.ComponentSwizzleIdentity,
			},
			SubresourceRange: vk.ImageSubresourceRange{
				AspectMask:     vk.ImageAspectFlags(vk.ImageAspectColorBit),
				BaseMipLevel:   0,
				LevelCount:     1,
				BaseArrayLayer: 0,
				LayerCount:     1,
			},
		}

		view, err := api.CreateImageView(device, &info)
		if err != nil {
			for _, created := range views {
				api.DestroyImageView(device, created)
			}
			return nil, wrapf(ErrImageViewCreationFailed, err, "swapchain: creating view for image %d", i)
		}
		views = append(views, view)
	}
	return views, nil
}

// ImageViews returns one view per swapchain image
func (c *SwapChainContext) ImageViews() []vk.ImageView {
	return c.views
}

// ImageFormat returns the negotiated image format
func (c *SwapChainContext) ImageFormat() vk.Format {
	return c.format.Format
}

// Extent returns the negotiated extent in pixels
func (c *SwapChainContext) Extent() vk.Extent2D {
	return c.extent
}

// PresentMode returns the negotiated present mode
func (c *SwapChainContext) PresentMode() vk.PresentMode {
	return c.mode
}

// Destroy implements Destroyable. Views go first, then the chain;
// both before the logical device.
func (c *SwapChainContext) Destroy() {
	for _, view := range c.views {
		c.api.DestroyImageView(c.device, view)
	}
	c.views = nil
	c.images = nil
	c.api.DestroySwapchain(c.device, c.swapchain)
	c.swapchain = vk.NullSwapchain
}

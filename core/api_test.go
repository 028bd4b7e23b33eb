package core_test

import (
	"fmt"
	"unsafe"

	vk "github.com/vulkan-go/vulkan"

	"github.com/norvik3d/norvik/core"
)

// Handle fabrication for the fake driver. The reinterpret trick is
// the same one vk.SurfaceFromPointer uses, so it holds for both
// pointer-backed and 64-bit handle representations.

func instanceHandle(v uintptr) vk.Instance {
	return *(*vk.Instance)(unsafe.Pointer(&v))
}

func physicalDeviceHandle(v uintptr) vk.PhysicalDevice {
	return *(*vk.PhysicalDevice)(unsafe.Pointer(&v))
}

func deviceHandle(v uintptr) vk.Device {
	return *(*vk.Device)(unsafe.Pointer(&v))
}

func queueHandle(v uintptr) vk.Queue {
	return *(*vk.Queue)(unsafe.Pointer(&v))
}

func swapchainHandle(v uintptr) vk.Swapchain {
	return *(*vk.Swapchain)(unsafe.Pointer(&v))
}

func imageHandle(v uintptr) vk.Image {
	return *(*vk.Image)(unsafe.Pointer(&v))
}

func imageViewHandle(v uintptr) vk.ImageView {
	return *(*vk.ImageView)(unsafe.Pointer(&v))
}

func debugCallbackHandle(v uintptr) vk.DebugReportCallback {
	return *(*vk.DebugReportCallback)(unsafe.Pointer(&v))
}

// fakeAdapter describes one synthetic physical device
type fakeAdapter struct {
	apiVersion uint32
	families   []vk.QueueFamilyProperties
	// present[i] reports whether family i can present to any surface
	present    []bool
	extensions []string
	layers     []string
	heaps      []vk.MemoryHeap
}

// fakeAPI is a recording implementation of core.API. Every create
// and destroy lands in calls; capability queries are counted
// per adapter.
type fakeAPI struct {
	calls      []string
	queryCount map[string]int

	instanceExtensions []string
	instanceLayers     []string
	adapters           []fakeAdapter

	capabilities vk.SurfaceCapabilities
	formats      []vk.SurfaceFormat
	presentModes []vk.PresentMode
	imageCount   int

	createInstanceErr  error
	createDebugErr     error
	createDeviceErr    error
	createSwapchainErr error
	// index of the image view creation that fails, -1 for none
	imageViewFailAt int

	liveViews int
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		queryCount:         map[string]int{},
		instanceExtensions: []string{"VK_KHR_surface", "VK_EXT_debug_report"},
		instanceLayers:     []string{"VK_LAYER_KHRONOS_validation"},
		adapters: []fakeAdapter{{
			apiVersion: vk.MakeVersion(1, 0, 0),
			families: []vk.QueueFamilyProperties{
				{QueueFlags: vk.QueueFlags(vk.QueueGraphicsBit)},
			},
			present:    []bool{true},
			extensions: []string{"VK_KHR_swapchain"},
		}},
		capabilities: vk.SurfaceCapabilities{
			MinImageCount:  2,
			MaxImageCount:  0,
			CurrentExtent:  vk.Extent2D{Width: 800, Height: 600},
			MinImageExtent: vk.Extent2D{Width: 1, Height: 1},
			MaxImageExtent: vk.Extent2D{Width: 4096, Height: 4096},
		},
		formats: []vk.SurfaceFormat{
			{Format: vk.FormatB8g8r8a8Srgb, ColorSpace: vk.ColorSpaceSrgbNonlinear},
		},
		presentModes:    []vk.PresentMode{vk.PresentModeFifo},
		imageCount:      3,
		imageViewFailAt: -1,
	}
}

func (f *fakeAPI) record(call string) {
	f.calls = append(f.calls, call)
}

func (f *fakeAPI) count(query string, device vk.PhysicalDevice) {
	f.queryCount[fmt.Sprintf("%s/%d", query, f.adapterIndex(device))]++
}

func (f *fakeAPI) adapterIndex(device vk.PhysicalDevice) int {
	for i := range f.adapters {
		if physicalDeviceHandle(uintptr(i+1)) == device {
			return i
		}
	}
	return -1
}

func (f *fakeAPI) adapter(device vk.PhysicalDevice) *fakeAdapter {
	return &f.adapters[f.adapterIndex(device)]
}

func (f *fakeAPI) Init(procAddr unsafe.Pointer) error {
	f.record("init")
	return nil
}

func (f *fakeAPI) InstanceExtensions() ([]string, error) {
	return f.instanceExtensions, nil
}

func (f *fakeAPI) InstanceLayers() ([]string, error) {
	return f.instanceLayers, nil
}

func (f *fakeAPI) CreateInstance(info *vk.InstanceCreateInfo) (vk.Instance, error) {
	if f.createInstanceErr != nil {
		return nil, f.createInstanceErr
	}
	f.record("createInstance")
	return instanceHandle(1), nil
}

func (f *fakeAPI) DestroyInstance(instance vk.Instance) {
	f.record("destroyInstance")
}

func (f *fakeAPI) CreateDebugCallback(instance vk.Instance, flags vk.DebugReportFlags, fn core.DebugCallbackFunc) (vk.DebugReportCallback, error) {
	if f.createDebugErr != nil {
		return debugCallbackHandle(0), f.createDebugErr
	}
	f.record("createDebug")
	return debugCallbackHandle(1), nil
}

func (f *fakeAPI) DestroyDebugCallback(instance vk.Instance, callback vk.DebugReportCallback) {
	f.record("destroyDebug")
}

func (f *fakeAPI) DestroySurface(instance vk.Instance, surface vk.Surface) {
	f.record("destroySurface")
}

func (f *fakeAPI) PhysicalDevices(instance vk.Instance) ([]vk.PhysicalDevice, error) {
	devices := make([]vk.PhysicalDevice, len(f.adapters))
	for i := range f.adapters {
		devices[i] = physicalDeviceHandle(uintptr(i + 1))
	}
	return devices, nil
}

func (f *fakeAPI) Properties(device vk.PhysicalDevice) vk.PhysicalDeviceProperties {
	f.count("properties", device)
	return vk.PhysicalDeviceProperties{ApiVersion: f.adapter(device).apiVersion}
}

func (f *fakeAPI) MemoryHeaps(device vk.PhysicalDevice) []vk.MemoryHeap {
	f.count("memoryHeaps", device)
	return f.adapter(device).heaps
}

func (f *fakeAPI) QueueFamilies(device vk.PhysicalDevice) []vk.QueueFamilyProperties {
	f.count("queueFamilies", device)
	return f.adapter(device).families
}

func (f *fakeAPI) DeviceExtensions(device vk.PhysicalDevice) ([]string, error) {
	f.count("deviceExtensions", device)
	return f.adapter(device).extensions, nil
}

func (f *fakeAPI) DeviceLayers(device vk.PhysicalDevice) ([]string, error) {
	f.count("deviceLayers", device)
	return f.adapter(device).layers, nil
}

func (f *fakeAPI) SurfaceSupport(device vk.PhysicalDevice, family uint32, surface vk.Surface) (bool, error) {
	f.count("surfaceSupport", device)
	return f.adapter(device).present[family], nil
}

func (f *fakeAPI) CreateDevice(device vk.PhysicalDevice, info *vk.DeviceCreateInfo) (vk.Device, error) {
	if f.createDeviceErr != nil {
		return nil, f.createDeviceErr
	}
	f.record("createDevice")
	return deviceHandle(1), nil
}

func (f *fakeAPI) DestroyDevice(device vk.Device) {
	f.record("destroyDevice")
}

func (f *fakeAPI) DeviceQueue(device vk.Device, family, index uint32) vk.Queue {
	return queueHandle(uintptr(family + 1))
}

func (f *fakeAPI) SurfaceCapabilities(device vk.PhysicalDevice, surface vk.Surface) (vk.SurfaceCapabilities, error) {
	return f.capabilities, nil
}

func (f *fakeAPI) SurfaceFormats(device vk.PhysicalDevice, surface vk.Surface) ([]vk.SurfaceFormat, error) {
	return f.formats, nil
}

func (f *fakeAPI) SurfacePresentModes(device vk.PhysicalDevice, surface vk.Surface) ([]vk.PresentMode, error) {
	return f.presentModes, nil
}

func (f *fakeAPI) CreateSwapchain(device vk.Device, info *vk.SwapchainCreateInfo) (vk.Swapchain, error) {
	if f.createSwapchainErr != nil {
		return swapchainHandle(0), f.createSwapchainErr
	}
	f.record("createSwapchain")
	return swapchainHandle(1), nil
}

func (f *fakeAPI) DestroySwapchain(device vk.Device, swapchain vk.Swapchain) {
	f.record("destroySwapchain")
}

func (f *fakeAPI) SwapchainImages(device vk.Device, swapchain vk.Swapchain) ([]vk.Image, error) {
	images := make([]vk.Image, f.imageCount)
	for i := range images {
		images[i] = imageHandle(uintptr(i + 1))
	}
	return images, nil
}

func (f *fakeAPI) CreateImageView(device vk.Device, info *vk.ImageViewCreateInfo) (vk.ImageView, error) {
	if f.imageViewFailAt >= 0 && f.liveViews == f.imageViewFailAt {
		return imageViewHandle(0), fmt.Errorf("fake image view failure")
	}
	f.record("createImageView")
	f.liveViews++
	return imageViewHandle(uintptr(f.liveViews)), nil
}

func (f *fakeAPI) DestroyImageView(device vk.Device, view vk.ImageView) {
	f.record("destroyImageView")
	f.liveViews--
}

// fakeWindow implements core.Window and records surface creation in
// the same call log as the fake driver
type fakeWindow struct {
	api        *fakeAPI
	extensions []string
	width      uint32
	height     uint32
	surfaceErr error
}

func newFakeWindow(api *fakeAPI) *fakeWindow {
	return &fakeWindow{
		api:        api,
		extensions: []string{"VK_KHR_surface"},
		width:      800,
		height:     600,
	}
}

func (w *fakeWindow) InstanceExtensions() []string {
	return w.extensions
}

func (w *fakeWindow) CreateSurface(instance vk.Instance) (vk.Surface, error) {
	if w.surfaceErr != nil {
		return vk.NullSurface, w.surfaceErr
	}
	w.api.record("createSurface")
	handle := uint64(1)
	return vk.SurfaceFromPointer(uintptr(unsafe.Pointer(&handle))), nil
}

func (w *fakeWindow) FramebufferSize() (uint32, uint32) {
	return w.width, w.height
}

package core

import (
	"unsafe"

	"github.com/cockroachdb/errors"
	vk "github.com/vulkan-go/vulkan"
)

// DebugCallbackFunc is invoked synchronously by the driver whenever a
// diagnostic fires. Implementations must not panic and must return
// vk.False so the triggering call is never aborted.
type DebugCallbackFunc func(flags vk.DebugReportFlags, objectType vk.DebugReportObjectType,
	object uint64, location uint, messageCode int32,
	layerPrefix string, message string, userData unsafe.Pointer) vk.Bool32

// API is the narrow boundary to the native graphics driver. Every
// round-trip the bring-up pipeline performs goes through it, which
// keeps the negotiation logic itself free of cgo and lets tests
// substitute a recording implementation.
//
// All structs returned by queries are fully dereferenced; callers
// never touch driver-owned memory.
type API interface {
	// Init loads the API entry points. A nil procAddr selects the
	// default loader lookup.
	Init(procAddr unsafe.Pointer) error

	InstanceExtensions() ([]string, error)
	InstanceLayers() ([]string, error)
	CreateInstance(info *vk.InstanceCreateInfo) (vk.Instance, error)
	DestroyInstance(instance vk.Instance)

	CreateDebugCallback(instance vk.Instance, flags vk.DebugReportFlags, fn DebugCallbackFunc) (vk.DebugReportCallback, error)
	DestroyDebugCallback(instance vk.Instance, callback vk.DebugReportCallback)

	DestroySurface(instance vk.Instance, surface vk.Surface)

	PhysicalDevices(instance vk.Instance) ([]vk.PhysicalDevice, error)
	Properties(device vk.PhysicalDevice) vk.PhysicalDeviceProperties
	MemoryHeaps(device vk.PhysicalDevice) []vk.MemoryHeap
	QueueFamilies(device vk.PhysicalDevice) []vk.QueueFamilyProperties
	DeviceExtensions(device vk.PhysicalDevice) ([]string, error)
	DeviceLayers(device vk.PhysicalDevice) ([]string, error)
	SurfaceSupport(device vk.PhysicalDevice, family uint32, surface vk.Surface) (bool, error)

	CreateDevice(device vk.PhysicalDevice, info *vk.DeviceCreateInfo) (vk.Device, error)
	DestroyDevice(device vk.Device)
	DeviceQueue(device vk.Device, family, index uint32) vk.Queue

	SurfaceCapabilities(device vk.PhysicalDevice, surface vk.Surface) (vk.SurfaceCapabilities, error)
	SurfaceFormats(device vk.PhysicalDevice, surface vk.Surface) ([]vk.SurfaceFormat, error)
	SurfacePresentModes(device vk.PhysicalDevice, surface vk.Surface) ([]vk.PresentMode, error)

	CreateSwapchain(device vk.Device, info *vk.SwapchainCreateInfo) (vk.Swapchain, error)
	DestroySwapchain(device vk.Device, swapchain vk.Swapchain)
	SwapchainImages(device vk.Device, swapchain vk.Swapchain) ([]vk.Image, error)
	CreateImageView(device vk.Device, info *vk.ImageViewCreateInfo) (vk.ImageView, error)
	DestroyImageView(device vk.Device, view vk.ImageView)
}

// NewVulkanAPI returns the API implementation backed by the loaded
// Vulkan driver
func NewVulkanAPI() API {
	return vulkanAPI{}
}

type vulkanAPI struct{}

func (vulkanAPI) Init(procAddr unsafe.Pointer) error {
	if procAddr == nil {
		if err := vk.SetDefaultGetInstanceProcAddr(); err != nil {
			return errors.Wrap(err, "vk.SetDefaultGetInstanceProcAddr()")
		}
	} else {
		vk.SetGetInstanceProcAddr(procAddr)
	}
	if err := vk.Init(); err != nil {
		return errors.Wrap(err, "vk.Init()")
	}
	return nil
}

func (vulkanAPI) InstanceExtensions() ([]string, error) {
	var count uint32
	if err := vk.Error(vk.EnumerateInstanceExtensionProperties("", &count, nil)); err != nil {
		return nil, errors.Wrap(err, "vk.EnumerateInstanceExtensionProperties()")
	}
	properties := make([]vk.ExtensionProperties, count)
	if err := vk.Error(vk.EnumerateInstanceExtensionProperties("", &count, properties)); err != nil {
		return nil, errors.Wrap(err, "vk.EnumerateInstanceExtensionProperties()")
	}
	names := make([]string, count)
	for i := range properties {
		properties[i].Deref()
		names[i] = vk.ToString(properties[i].ExtensionName[:])
	}
	return names, nil
}

func (vulkanAPI) InstanceLayers() ([]string, error) {
	var count uint32
	if err := vk.Error(vk.EnumerateInstanceLayerProperties(&count, nil)); err != nil {
		return nil, errors.Wrap(err, "vk.EnumerateInstanceLayerProperties()")
	}
	properties := make([]vk.LayerProperties, count)
	if err := vk.Error(vk.EnumerateInstanceLayerProperties(&count, properties)); err != nil {
		return nil, errors.Wrap(err, "vk.EnumerateInstanceLayerProperties()")
	}
	names := make([]string, count)
	for i := range properties {
		properties[i].Deref()
		names[i] = vk.ToString(properties[i].LayerName[:])
	}
	return names, nil
}

func (vulkanAPI) CreateInstance(info *vk.InstanceCreateInfo) (vk.Instance, error) {
	var instance vk.Instance
	if err := vk.Error(vk.CreateInstance(info, nil, &instance)); err != nil {
		return nil, errors.Wrap(err, "vk.CreateInstance()")
	}
	if err := vk.InitInstance(instance); err != nil {
		vk.DestroyInstance(instance, nil)
		return nil, errors.Wrap(err, "vk.InitInstance()")
	}
	return instance, nil
}

func (vulkanAPI) DestroyInstance(instance vk.Instance) {
	vk.DestroyInstance(instance, nil)
}

func (vulkanAPI) CreateDebugCallback(instance vk.Instance, flags vk.DebugReportFlags, fn DebugCallbackFunc) (vk.DebugReportCallback, error) {
	info := vk.DebugReportCallbackCreateInfo{
		SType:       vk.StructureTypeDebugReportCallbackCreateInfo,
		Flags:       flags,
		PfnCallback: vk.DebugReportCallbackFunc(fn),
	}
	var callback vk.DebugReportCallback
	if err := vk.Error(vk.CreateDebugReportCallback(instance, &info, nil, &callback)); err != nil {
		return vk.NullDebugReportCallback, errors.Wrap(err, "vk.CreateDebugReportCallback()")
	}
	return callback, nil
}

func (vulkanAPI) DestroyDebugCallback(instance vk.Instance, callback vk.DebugReportCallback) {
	vk.DestroyDebugReportCallback(instance, callback, nil)
}

func (vulkanAPI) DestroySurface(instance vk.Instance, surface vk.Surface) {
	vk.DestroySurface(instance, surface, nil)
}

func (vulkanAPI) PhysicalDevices(instance vk.Instance) ([]vk.PhysicalDevice, error) {
	var count uint32
	if err := vk.Error(vk.EnumeratePhysicalDevices(instance, &count, nil)); err != nil {
		return nil, errors.Wrap(err, "vk.EnumeratePhysicalDevices()")
	}
	devices := make([]vk.PhysicalDevice, count)
	if err := vk.Error(vk.EnumeratePhysicalDevices(instance, &count, devices)); err != nil {
		return nil, errors.Wrap(err, "vk.EnumeratePhysicalDevices()")
	}
	return devices, nil
}

func (vulkanAPI) Properties(device vk.PhysicalDevice) vk.PhysicalDeviceProperties {
	var properties vk.PhysicalDeviceProperties
	vk.GetPhysicalDeviceProperties(device, &properties)
	properties.Deref()
	return properties
}

func (vulkanAPI) MemoryHeaps(device vk.PhysicalDevice) []vk.MemoryHeap {
	var properties vk.PhysicalDeviceMemoryProperties
	vk.GetPhysicalDeviceMemoryProperties(device, &properties)
	properties.Deref()
	heaps := make([]vk.MemoryHeap, properties.MemoryHeapCount)
	for i := uint32(0); i < properties.MemoryHeapCount; i++ {
		properties.MemoryHeaps[i].Deref()
		heaps[i] = properties.MemoryHeaps[i]
	}
	return heaps
}

func (vulkanAPI) QueueFamilies(device vk.PhysicalDevice) []vk.QueueFamilyProperties {
	var count uint32
	vk.GetPhysicalDeviceQueueFamilyProperties(device, &count, nil)
	families := make([]vk.QueueFamilyProperties, count)
	vk.GetPhysicalDeviceQueueFamilyProperties(device, &count, families)
	for i := range families {
		families[i].Deref()
	}
	return families
}

func (vulkanAPI) DeviceExtensions(device vk.PhysicalDevice) ([]string, error) {
	var count uint32
	if err := vk.Error(vk.EnumerateDeviceExtensionProperties(device, "", &count, nil)); err != nil {
		return nil, errors.Wrap(err, "vk.EnumerateDeviceExtensionProperties()")
	}
	properties := make([]vk.ExtensionProperties, count)
	if err := vk.Error(vk.EnumerateDeviceExtensionProperties(device, "", &count, properties)); err != nil {
		return nil, errors.Wrap(err, "vk.EnumerateDeviceExtensionProperties()")
	}
	names := make([]string, count)
	for i := range properties {
		properties[i].Deref()
		names[i] = vk.ToString(properties[i].ExtensionName[:])
	}
	return names, nil
}

func (vulkanAPI) DeviceLayers(device vk.PhysicalDevice) ([]string, error) {
	var count uint32
	if err := vk.Error(vk.EnumerateDeviceLayerProperties(device, &count, nil)); err != nil {
		return nil, errors.Wrap(err, "vk.EnumerateDeviceLayerProperties()")
	}
	properties := make([]vk.LayerProperties, count)
	if err := vk.Error(vk.EnumerateDeviceLayerProperties(device, &count, properties)); err != nil {
		return nil, errors.Wrap(err, "vk.EnumerateDeviceLayerProperties()")
	}
	names := make([]string, count)
	for i := range properties {
		properties[i].Deref()
		names[i] = vk.ToString(properties[i].LayerName[:])
	}
	return names, nil
}

func (vulkanAPI) SurfaceSupport(device vk.PhysicalDevice, family uint32, surface vk.Surface) (bool, error) {
	var supported vk.Bool32
	if err := vk.Error(vk.GetPhysicalDeviceSurfaceSupport(device, family, surface, &supported)); err != nil {
		return false, errors.Wrap(err, "vk.GetPhysicalDeviceSurfaceSupport()")
	}
	return supported.B(), nil
}

func (vulkanAPI) CreateDevice(device vk.PhysicalDevice, info *vk.DeviceCreateInfo) (vk.Device, error) {
	var logical vk.Device
	if err := vk.Error(vk.CreateDevice(device, info, nil, &logical)); err != nil {
		return nil, errors.Wrap(err, "vk.CreateDevice()")
	}
	return logical, nil
}

func (vulkanAPI) DestroyDevice(device vk.Device) {
	vk.DestroyDevice(device, nil)
}

func (vulkanAPI) DeviceQueue(device vk.Device, family, index uint32) vk.Queue {
	var queue vk.Queue
	vk.GetDeviceQueue(device, family, index, &queue)
	return queue
}

func (vulkanAPI) SurfaceCapabilities(device vk.PhysicalDevice, surface vk.Surface) (vk.SurfaceCapabilities, error) {
	var capabilities vk.SurfaceCapabilities
	if err := vk.Error(vk.GetPhysicalDeviceSurfaceCapabilities(device, surface, &capabilities)); err != nil {
		return capabilities, errors.Wrap(err, "vk.GetPhysicalDeviceSurfaceCapabilities()")
	}
	capabilities.Deref()
	capabilities.CurrentExtent.Deref()
	capabilities.MinImageExtent.Deref()
	capabilities.MaxImageExtent.Deref()
	return capabilities, nil
}

func (vulkanAPI) SurfaceFormats(device vk.PhysicalDevice, surface vk.Surface) ([]vk.SurfaceFormat, error) {
	var count uint32
	if err := vk.Error(vk.GetPhysicalDeviceSurfaceFormats(device, surface, &count, nil)); err != nil {
		return nil, errors.Wrap(err, "vk.GetPhysicalDeviceSurfaceFormats()")
	}
	formats := make([]vk.SurfaceFormat, count)
	if err := vk.Error(vk.GetPhysicalDeviceSurfaceFormats(device, surface, &count, formats)); err != nil {
		return nil, errors.Wrap(err, "vk.GetPhysicalDeviceSurfaceFormats()")
	}
	for i := range formats {
		formats[i].Deref()
	}
	return formats, nil
}

func (vulkanAPI) SurfacePresentModes(device vk.PhysicalDevice, surface vk.Surface) ([]vk.PresentMode, error) {
	var count uint32
	if err := vk.Error(vk.GetPhysicalDeviceSurfacePresentModes(device, surface, &count, nil)); err != nil {
		return nil, errors.Wrap(err, "vk.GetPhysicalDeviceSurfacePresentModes()")
	}
	modes := make([]vk.PresentMode, count)
	if err := vk.Error(vk.GetPhysicalDeviceSurfacePresentModes(device, surface, &count, modes)); err != nil {
		return nil, errors.Wrap(err, "vk.GetPhysicalDeviceSurfacePresentModes()")
	}
	return modes, nil
}

func (vulkanAPI) CreateSwapchain(device vk.Device, info *vk.SwapchainCreateInfo) (vk.Swapchain, error) {
	var swapchain vk.Swapchain
	if err := vk.Error(vk.CreateSwapchain(device, info, nil, &swapchain)); err != nil {
		return vk.NullSwapchain, errors.Wrap(err, "vk.CreateSwapchain()")
	}
	return swapchain, nil
}

func (vulkanAPI) DestroySwapchain(device vk.Device, swapchain vk.Swapchain) {
	vk.DestroySwapchain(device, swapchain, nil)
}

func (vulkanAPI) SwapchainImages(device vk.Device, swapchain vk.Swapchain) ([]vk.Image, error) {
	var count uint32
	if err := vk.Error(vk.GetSwapchainImages(device, swapchain, &count, nil)); err != nil {
		return nil, errors.Wrap(err, "vk.GetSwapchainImages()")
	}
	images := make([]vk.Image, count)
	if err := vk.Error(vk.GetSwapchainImages(device, swapchain, &count, images)); err != nil {
		return nil, errors.Wrap(err, "vk.GetSwapchainImages()")
	}
	return images, nil
}

func (vulkanAPI) CreateImageView(device vk.Device, info *vk.ImageViewCreateInfo) (vk.ImageView, error) {
	var view vk.ImageView
	if err := vk.Error(vk.CreateImageView(device, info, nil, &view)); err != nil {
		return vk.NullImageView, errors.Wrap(err, "vk.CreateImageView()")
	}
	return view, nil
}

func (vulkanAPI) DestroyImageView(device vk.Device, view vk.ImageView) {
	vk.DestroyImageView(device, view, nil)
}

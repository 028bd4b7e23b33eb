package core

import (
	vk "github.com/vulkan-go/vulkan"
)

// Queues are requested with a fixed mid-range priority; nothing in
// the bring-up path benefits from priority tuning.
const queuePriority = 0.5

// PhysicalDeviceInfo describes available properties of one adapter
type PhysicalDeviceInfo struct {
	ID            int      `json:"id"`
	VendorID      int      `json:"vendorId"`
	DriverVersion int      `json:"driverVersion"`
	APIVersion    uint32   `json:"apiVersion"`
	Name          string   `json:"name"`
	Invalid       bool     `json:"invalid"`
	Extensions    []string `json:"extensions"`
	Layers        []string `json:"layers"`
	Memory        uint     `json:"memory"`
}

// ProbePhysicalDevices reads the capability surface of every adapter
// the instance can see. Adapters that fail a registry query are
// reported with Invalid set rather than dropped.
func ProbePhysicalDevices(api API, instance *InstanceContext) ([]PhysicalDeviceInfo, error) {
	devices, err := api.PhysicalDevices(instance.Handle())
	if err != nil {
		return nil, wrapf(ErrNoVulkanCapableDevice, err, "device: enumerating adapters")
	}

	infos := make([]PhysicalDeviceInfo, len(devices))
	for i, device := range devices {
		properties := api.Properties(device)
		infos[i].ID = int(properties.DeviceID)
		infos[i].VendorID = int(properties.VendorID)
		infos[i].DriverVersion = int(properties.DriverVersion)
		infos[i].APIVersion = properties.ApiVersion
		infos[i].Name = vk.ToString(properties.DeviceName[:])

		if extensions, err := api.DeviceExtensions(device); err != nil {
			infos[i].Invalid = true
		} else {
			infos[i].Extensions = extensions
		}

		if layers, err := api.DeviceLayers(device); err != nil {
			infos[i].Invalid = true
		} else {
			infos[i].Layers = layers
		}

		for _, heap := range api.MemoryHeaps(device) {
			infos[i].Memory += uint(heap.Size)
		}
	}
	return infos, nil
}

// DeviceContext selects one physical device and owns the logical
// device created from it, along with the graphics and present
// queue handles.
type DeviceContext struct {
	api API
	log Logger

	physicalDevice vk.PhysicalDevice
	device         vk.Device

	graphics QueueFamily
	present  QueueFamily
}

// NewDeviceContext picks the first suitable physical device in
// enumeration order, resolves its graphics and present queue
// families against the surface and creates the logical device.
//
// Suitability is the conjunction of: device API version at or above
// the configured minimum, at least one graphics-capable queue family,
// and every configured device extension present in the device's
// registry. Checks run lazily, so an early miss skips the remaining
// queries. There is deliberately no ranking between suitable devices.
func NewDeviceContext(api API, log Logger, instance *InstanceContext, surface *SurfaceContext, cfg DeviceConfiguration) (*DeviceContext, error) {
	devices, err := api.PhysicalDevices(instance.Handle())
	if err != nil {
		return nil, wrapf(ErrNoVulkanCapableDevice, err, "device: enumerating adapters")
	}
	if len(devices) == 0 {
		return nil, markf(ErrNoVulkanCapableDevice, "device: no adapters exposed by the driver")
	}

	var chosen vk.PhysicalDevice
	for i, device := range devices {
		ok, reason := suitable(api, device, cfg)
		if ok {
			properties := api.Properties(device)
			log.Infof("device: selected adapter %d (%s)", i, vk.ToString(properties.DeviceName[:]))
			chosen = device
			break
		}
		log.Debugf("device: adapter %d rejected: %s", i, reason)
	}
	if chosen == nil {
		return nil, markf(ErrNoSuitableDevice, "device: %d adapter(s) present, none suitable", len(devices))
	}

	graphicsIndex, presentIndex, err := resolveQueueFamilies(api, chosen, surface.Handle())
	if err != nil {
		return nil, err
	}
	log.Debugf("device: queue families graphics=%d present=%d", graphicsIndex, presentIndex)

	unique := []uint32{graphicsIndex}
	if presentIndex != graphicsIndex {
		unique = append(unique, presentIndex)
	}

	queueInfos := make([]vk.DeviceQueueCreateInfo, len(unique))
	for i, family := range unique {
		queueInfos[i] = vk.DeviceQueueCreateInfo{
			SType:            vk.StructureTypeDeviceQueueCreateInfo,
			QueueFamilyIndex: family,
			QueueCount:       1,
			PQueuePriorities: []float32{queuePriority},
		}
	}

	info := vk.DeviceCreateInfo{
		SType:                   vk.StructureTypeDeviceCreateInfo,
		QueueCreateInfoCount:    uint32(len(queueInfos)),
		PQueueCreateInfos:       queueInfos,
		EnabledExtensionCount:   uint32(len(cfg.Extensions)),
		PpEnabledExtensionNames: safeStrings(cfg.Extensions),
		PEnabledFeatures:        []vk.PhysicalDeviceFeatures{{}},
	}

	device, err := api.CreateDevice(chosen, &info)
	if err != nil {
		return nil, wrapf(ErrLogicalDeviceCreationFailed, err, "device: creating logical device")
	}

	return &DeviceContext{
		api:            api,
		log:            log,
		physicalDevice: chosen,
		device:         device,
		graphics:       QueueFamily{Index: graphicsIndex, Queue: api.DeviceQueue(device, graphicsIndex, 0)},
		present:        QueueFamily{Index: presentIndex, Queue: api.DeviceQueue(device, presentIndex, 0)},
	}, nil
}

func suitable(api API, device vk.PhysicalDevice, cfg DeviceConfiguration) (bool, string) {
	properties := api.Properties(device)
	if properties.ApiVersion < cfg.MinAPIVersion {
		return false, "api version below minimum"
	}

	hasGraphics := false
	for _, family := range api.QueueFamilies(device) {
		if family.QueueFlags&vk.QueueFlags(vk.QueueGraphicsBit) != 0 {
			hasGraphics = true
			break
		}
	}
	if !hasGraphics {
		return false, "no graphics-capable queue family"
	}

	available, err := api.DeviceExtensions(device)
	if err != nil {
		return false, "extension registry unreadable"
	}
	if missing := missingStrings(cfg.Extensions, available); len(missing) > 0 {
		return false, "missing device extension(s)"
	}
	return true, ""
}

// resolveQueueFamilies scans families in index order, recording the
// first graphics-capable index and, independently, the first index
// with present support against the surface. The scan stops as soon
// as both roles are filled.
func resolveQueueFamilies(api API, device vk.PhysicalDevice, surface vk.Surface) (graphics, present uint32, err error) {
	var graphicsFound, presentFound bool

	for i, family := range api.QueueFamilies(device) {
		index := uint32(i)

		if !graphicsFound && family.QueueFlags&vk.QueueFlags(vk.QueueGraphicsBit) != 0 {
			graphics = index
			graphicsFound = true
		}

		if !presentFound {
			supported, err := api.SurfaceSupport(device, index, surface)
			if err != nil {
				return 0, 0, wrapf(ErrNoSuitableQueueFamily, err, "device: present support query for family %d", index)
			}
			if supported {
				present = index
				presentFound = true
			}
		}

		if graphicsFound && presentFound {
			break
		}
	}

	if !graphicsFound {
		return 0, 0, markf(ErrNoSuitableQueueFamily, "device: no graphics-capable queue family")
	}
	if !presentFound {
		return 0, 0, markf(ErrNoSuitableQueueFamily, "device: no present-capable queue family for surface")
	}
	return graphics, present, nil
}

// Handle returns the logical device handle
func (c *DeviceContext) Handle() vk.Device {
	return c.device
}

// PhysicalDevice returns the selected adapter handle. The adapter is
// driver-owned; callers only query it.
func (c *DeviceContext) PhysicalDevice() vk.PhysicalDevice {
	return c.physicalDevice
}

// GraphicsQueue returns the graphics queue family pair
func (c *DeviceContext) GraphicsQueue() QueueFamily {
	return c.graphics
}

// PresentQueue returns the present queue family pair
func (c *DeviceContext) PresentQueue() QueueFamily {
	return c.present
}

// Destroy implements Destroyable. Everything created from the logical
// device must already be gone.
func (c *DeviceContext) Destroy() {
	c.api.DestroyDevice(c.device)
	c.device = nil
}

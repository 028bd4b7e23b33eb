package core

import (
	"unsafe"

	vk "github.com/vulkan-go/vulkan"
)

// Instance extension enabled alongside the window extensions
// when diagnostics are on
const debugReportExtensionName = "VK_EXT_debug_report"

// InstanceContext owns the API entry point and the instance handle.
// It is the root ownership anchor: everything else created by the
// pipeline must be destroyed before it.
type InstanceContext struct {
	api API
	log Logger

	instance   vk.Instance
	extensions []string
	layers     []string
}

// NewInstanceContext loads the API entry points through procAddr (nil
// selects the default loader), validates the requested extensions and
// layers against the global registries and creates the instance. No
// GPU selection happens here.
func NewInstanceContext(api API, log Logger, app AppConfiguration, procAddr unsafe.Pointer, cfg InstanceConfiguration) (*InstanceContext, error) {
	if err := api.Init(procAddr); err != nil {
		return nil, wrapf(ErrInstanceCreationFailed, err, "instance: loading entry points")
	}

	extensions := append([]string{}, cfg.Extensions...)
	layers := []string{}
	if cfg.Diagnostics {
		extensions = append(extensions, debugReportExtensionName)
		layers = append(layers, cfg.Layers...)
	}

	available, err := api.InstanceExtensions()
	if err != nil {
		return nil, wrapf(ErrInstanceCreationFailed, err, "instance: reading extension registry")
	}
	if missing := missingStrings(extensions, available); len(missing) > 0 {
		return nil, markf(ErrUnsupportedExtension, "instance: missing required extension(s) %v", missing)
	}

	if cfg.Diagnostics {
		availableLayers, err := api.InstanceLayers()
		if err != nil {
			return nil, wrapf(ErrInstanceCreationFailed, err, "instance: reading layer registry")
		}
		if missing := missingStrings(layers, availableLayers); len(missing) > 0 {
			return nil, markf(ErrUnsupportedLayer, "instance: missing validation layer(s) %v", missing)
		}
	}

	log.Debugf("instance: enabling extensions %v layers %v", extensions, layers)

	info := vk.InstanceCreateInfo{
		SType: vk.StructureTypeInstanceCreateInfo,
		PApplicationInfo: &vk.ApplicationInfo{
			SType:              vk.StructureTypeApplicationInfo,
			ApiVersion:         app.Version,
			ApplicationVersion: app.Version,
			PApplicationName:   safeString(app.Name),
			PEngineName:        safeString(app.Engine),
		},
		EnabledExtensionCount:   uint32(len(extensions)),
		PpEnabledExtensionNames: safeStrings(extensions),
		EnabledLayerCount:       uint32(len(layers)),
		PpEnabledLayerNames:     safeStrings(layers),
	}

	instance, err := api.CreateInstance(&info)
	if err != nil {
		return nil, wrapf(ErrInstanceCreationFailed, err, "instance: creating handle")
	}

	log.Infof("instance: created with %d extension(s), %d layer(s)", len(extensions), len(layers))

	return &InstanceContext{
		api:        api,
		log:        log,
		instance:   instance,
		extensions: extensions,
		layers:     layers,
	}, nil
}

// Handle returns the instance handle
func (c *InstanceContext) Handle() vk.Instance {
	return c.instance
}

// Extensions returns the extensions the instance was created with
func (c *InstanceContext) Extensions() []string {
	return c.extensions
}

// Destroy implements Destroyable
func (c *InstanceContext) Destroy() {
	c.api.DestroyInstance(c.instance)
	c.instance = nil
}

package core

import (
	vk "github.com/vulkan-go/vulkan"
)

// Configuration defines a global engine configuration setting
type Configuration struct {
	App      AppConfiguration
	Instance InstanceConfiguration
	Device   DeviceConfiguration
	Screen   ScreenConfiguration
	Time     TimeConfiguration
}

// AppConfiguration names the application towards the driver
type AppConfiguration struct {
	Name    string
	Engine  string
	Version uint32
}

// InstanceConfiguration is used to configure instance creation.
// Extensions is normally filled in from the window collaborator;
// Layers only matters when Diagnostics is set.
type InstanceConfiguration struct {
	Diagnostics bool
	Extensions  []string
	Layers      []string
}

// DeviceConfiguration is used to configure physical device selection
// and logical device creation
type DeviceConfiguration struct {
	// MinAPIVersion is the lowest acceptable device API version
	MinAPIVersion uint32

	// Extensions that a device must carry to be selected
	Extensions []string
}

// ScreenConfiguration is used to configure the window
type ScreenConfiguration struct {
	Width  uint32
	Height uint32
}

// TimeConfiguration is used to configure time services
type TimeConfiguration struct {
	// FramesPerSecond caps frames per second that is put out
	// To unlimit, set to 0
	FramesPerSecond int

	// EventPollDelay is the event loop polling interval in milliseconds
	EventPollDelay int
}

// DefaultConfiguration returns the configuration the commands start
// from before the environment is consulted
func DefaultConfiguration() Configuration {
	return Configuration{
		App: AppConfiguration{
			Name:    "Norvik3D",
			Engine:  "Norvik3D",
			Version: vk.MakeVersion(1, 0, 0),
		},
		Instance: InstanceConfiguration{
			Layers: []string{"VK_LAYER_KHRONOS_validation"},
		},
		Device: DeviceConfiguration{
			MinAPIVersion: vk.MakeVersion(1, 0, 0),
			Extensions:    []string{"VK_KHR_swapchain"},
		},
		Screen: ScreenConfiguration{
			Width:  800,
			Height: 600,
		},
		Time: TimeConfiguration{
			FramesPerSecond: 60,
			EventPollDelay:  10,
		},
	}
}

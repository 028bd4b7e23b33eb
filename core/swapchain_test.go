package core_test

import (
	"math"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	vk "github.com/vulkan-go/vulkan"

	"github.com/norvik3d/norvik/core"
)

func TestChooseSurfaceFormatPrefersBGRASrgb(t *testing.T) {
	preferred := vk.SurfaceFormat{Format: vk.FormatB8g8r8a8Srgb, ColorSpace: vk.ColorSpaceSrgbNonlinear}

	tests := []struct {
		name      string
		available []vk.SurfaceFormat
		want      vk.SurfaceFormat
	}{
		{
			name:      "preferred first",
			available: []vk.SurfaceFormat{preferred, {Format: vk.FormatR8g8b8a8Unorm}},
			want:      preferred,
		},
		{
			name: "preferred last",
			available: []vk.SurfaceFormat{
				{Format: vk.FormatR8g8b8a8Unorm},
				{Format: vk.FormatB8g8r8a8Unorm, ColorSpace: vk.ColorSpaceSrgbNonlinear},
				preferred,
			},
			want: preferred,
		},
		{
			name:      "wrong color space does not count",
			available: []vk.SurfaceFormat{{Format: vk.FormatB8g8r8a8Srgb, ColorSpace: vk.ColorSpaceAdobergbLinear}},
			want:      vk.SurfaceFormat{Format: vk.FormatB8g8r8a8Srgb, ColorSpace: vk.ColorSpaceAdobergbLinear},
		},
		{
			name: "fallback is the driver's first entry",
			available: []vk.SurfaceFormat{
				{Format: vk.FormatR5g6b5UnormPack16},
				{Format: vk.FormatR8g8b8a8Unorm},
			},
			want: vk.SurfaceFormat{Format: vk.FormatR5g6b5UnormPack16},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, core.ChooseSurfaceFormat(tt.available))
		})
	}
}

func TestChoosePresentModePrefersMailbox(t *testing.T) {
	got := core.ChoosePresentMode([]vk.PresentMode{
		vk.PresentModeImmediate,
		vk.PresentModeMailbox,
		vk.PresentModeFifo,
	})
	assert.Equal(t, vk.PresentModeMailbox, got)
}

func TestChoosePresentModeFallsBackToFifo(t *testing.T) {
	// FIFO wins even when the driver does not list it; the API
	// guarantees its availability
	got := core.ChoosePresentMode([]vk.PresentMode{
		vk.PresentModeImmediate,
		vk.PresentModeFifoRelaxed,
	})
	assert.Equal(t, vk.PresentModeFifo, got)

	assert.Equal(t, vk.PresentModeFifo, core.ChoosePresentMode(nil))
}

func TestChooseExtentBoundCurrentExtentWins(t *testing.T) {
	capabilities := vk.SurfaceCapabilities{
		CurrentExtent:  vk.Extent2D{Width: 1024, Height: 768},
		MinImageExtent: vk.Extent2D{Width: 1, Height: 1},
		MaxImageExtent: vk.Extent2D{Width: 640, Height: 480},
	}

	// framebuffer size and even the min/max bounds are ignored
	got := core.ChooseExtent(capabilities, 320, 200)
	assert.Equal(t, vk.Extent2D{Width: 1024, Height: 768}, got)
}

func TestChooseExtentClampsFramebufferSize(t *testing.T) {
	capabilities := vk.SurfaceCapabilities{
		CurrentExtent:  vk.Extent2D{Width: math.MaxUint32, Height: math.MaxUint32},
		MinImageExtent: vk.Extent2D{Width: 200, Height: 100},
		MaxImageExtent: vk.Extent2D{Width: 2000, Height: 1000},
	}

	tests := []struct {
		name          string
		width, height uint32
		want          vk.Extent2D
	}{
		{"inside bounds", 800, 600, vk.Extent2D{Width: 800, Height: 600}},
		{"below minimum", 10, 10, vk.Extent2D{Width: 200, Height: 100}},
		{"above maximum", 4000, 4000, vk.Extent2D{Width: 2000, Height: 1000}},
		{"mixed per axis", 10, 4000, vk.Extent2D{Width: 200, Height: 1000}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := core.ChooseExtent(capabilities, tt.width, tt.height)
			assert.Equal(t, tt.want, got)
			assert.GreaterOrEqual(t, got.Width, capabilities.MinImageExtent.Width)
			assert.LessOrEqual(t, got.Width, capabilities.MaxImageExtent.Width)
			assert.GreaterOrEqual(t, got.Height, capabilities.MinImageExtent.Height)
			assert.LessOrEqual(t, got.Height, capabilities.MaxImageExtent.Height)
		})
	}
}

func TestChooseImageCount(t *testing.T) {
	tests := []struct {
		name     string
		min, max uint32
		want     uint32
	}{
		{"min plus one", 2, 0, 3},
		{"unbounded maximum", 4, 0, 5},
		{"clamped to maximum", 2, 2, 2},
		{"maximum leaves room", 2, 5, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			capabilities := vk.SurfaceCapabilities{MinImageCount: tt.min, MaxImageCount: tt.max}
			assert.Equal(t, tt.want, core.ChooseImageCount(capabilities))
		})
	}
}

func TestChooseSharingMode(t *testing.T) {
	mode, indices := core.ChooseSharingMode(core.QueueFamily{Index: 1}, core.QueueFamily{Index: 0})
	assert.Equal(t, vk.SharingModeConcurrent, mode)
	assert.Equal(t, []uint32{1, 0}, indices)

	mode, indices = core.ChooseSharingMode(core.QueueFamily{Index: 2}, core.QueueFamily{Index: 2})
	assert.Equal(t, vk.SharingModeExclusive, mode)
	assert.Nil(t, indices)
}

// bootstrapped runs a full fake bring-up and returns the live pipeline
func bootstrapped(t *testing.T, api *fakeAPI, diagnostics bool) *core.Pipeline {
	t.Helper()
	cfg := core.DefaultConfiguration()
	cfg.Instance.Diagnostics = diagnostics
	pipeline := core.NewPipeline(api, core.NopLogger{}, newFakeWindow(api), cfg)
	require.NoError(t, pipeline.Bootstrap(nil))
	return pipeline
}

func TestSwapChainNegotiatedConfiguration(t *testing.T) {
	api := newFakeAPI()
	api.capabilities.MinImageCount = 2
	api.capabilities.MaxImageCount = 2
	api.formats = []vk.SurfaceFormat{
		{Format: vk.FormatR8g8b8a8Unorm, ColorSpace: vk.ColorSpaceSrgbNonlinear},
		{Format: vk.FormatB8g8r8a8Srgb, ColorSpace: vk.ColorSpaceSrgbNonlinear},
	}
	api.presentModes = []vk.PresentMode{vk.PresentModeImmediate, vk.PresentModeMailbox}
	api.imageCount = 2

	pipeline := bootstrapped(t, api, false)
	defer pipeline.Destroy()

	assert.Equal(t, vk.FormatB8g8r8a8Srgb, pipeline.ImageFormat())
	assert.Equal(t, vk.Extent2D{Width: 800, Height: 600}, pipeline.Extent())
	assert.Len(t, pipeline.ImageViews(), 2)
}

func TestSwapChainImageViewRollbackOnPartialFailure(t *testing.T) {
	api := newFakeAPI()
	api.imageCount = 3
	api.imageViewFailAt = 2

	cfg := core.DefaultConfiguration()
	pipeline := core.NewPipeline(api, core.NopLogger{}, newFakeWindow(api), cfg)
	err := pipeline.Bootstrap(nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrImageViewCreationFailed))
	assert.Contains(t, err.Error(), "image 2")

	// the two views created before the failure must not leak
	assert.Equal(t, 0, api.liveViews)
	// the chain itself is rolled back too
	assert.Contains(t, api.calls, "destroySwapchain")
}

package main

import (
	"runtime"
	"strconv"

	"github.com/gobuffalo/envy"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/veandco/go-sdl2/sdl"

	"github.com/norvik3d/norvik/core"
	"github.com/norvik3d/norvik/diag"
	"github.com/norvik3d/norvik/window"
)

func init() {
	runtime.LockOSThread()
}

// loadConfiguration resolves the configuration from the environment,
// with an optional env file overlay
func loadConfiguration() core.Configuration {
	if path := envy.Get("NORVIK_ENV_FILE", ""); path != "" {
		if err := godotenv.Overload(path); err != nil {
			log.WithError(err).Warningf("could not load env file %s", path)
		}
	}

	cfg := core.DefaultConfiguration()
	cfg.App.Name = envy.Get("NORVIK_APP_NAME", cfg.App.Name)
	cfg.Instance.Diagnostics = envy.Get("NORVIK_DIAGNOSTICS", "") == "1"
	if width, err := strconv.Atoi(envy.Get("NORVIK_WIDTH", "")); err == nil && width > 0 {
		cfg.Screen.Width = uint32(width)
	}
	if height, err := strconv.Atoi(envy.Get("NORVIK_HEIGHT", "")); err == nil && height > 0 {
		cfg.Screen.Height = uint32(height)
	}
	if fps, err := strconv.Atoi(envy.Get("NORVIK_FPS", "")); err == nil && fps >= 0 {
		cfg.Time.FramesPerSecond = fps
	}
	return cfg
}

func main() {
	cfg := loadConfiguration()
	if cfg.Instance.Diagnostics {
		log.SetLevel(log.DebugLevel)
	}

	if err := window.Setup(); err != nil {
		log.Fatal(err)
	}
	defer window.Teardown()

	win, err := window.New(cfg.App.Name, cfg.Screen)
	if err != nil {
		log.Fatal(err)
	}
	defer win.Destroy()

	pipeline := core.NewPipeline(core.NewVulkanAPI(), diag.New(nil), win, cfg)
	if err := pipeline.Bootstrap(window.ProcAddr()); err != nil {
		log.Fatal(err)
	}
	defer pipeline.Destroy()

	log.Infof("presentation environment ready: %d image(s), format %d, %dx%d",
		len(pipeline.ImageViews()), pipeline.ImageFormat(),
		pipeline.Extent().Width, pipeline.Extent().Height)

	time := core.NewTime(cfg.Time)
	exitC := make(chan struct{}, 2)

EventLoop:
	for {
		select {
		case <-exitC:
			log.Info("event loop exited")
			break EventLoop
		case <-time.FpsTicker().C:
			for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
				switch et := event.(type) {
				case *sdl.KeyboardEvent:
					if et.Keysym.Sym == sdl.K_ESCAPE {
						exitC <- struct{}{}
						continue EventLoop
					}
				case *sdl.QuitEvent:
					exitC <- struct{}{}
					continue EventLoop
				}
			}
		}
	}
}

package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spynter/hub360/api"
	"github.com/spynter/hub360/config"
	"github.com/spynter/hub360/engine/loader"
	"github.com/spynter/hub360/engine/window"
	"github.com/spynter/hub360/logging"
	"github.com/spynter/hub360/tour"
	"github.com/spynter/hub360/viewer"
)

// loadConfig builds the configuration from the --config flag or the default
// search paths and initializes logging from it.
func loadConfig() (*config.Config, error) {
	var cfg *config.Config
	var err error
	if configPath != "" {
		cfg, err = config.LoadFile(configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})
	return cfg, nil
}

// keyToggleEdit is the GLFW key code for E.
const keyToggleEdit uint32 = 69

// buildViewer assembles the windowed viewer stack from the configuration.
// When edit is true the E key toggles hotspot placement mode.
func buildViewer(cfg *config.Config, tourID string, callbacks viewer.Callbacks, edit bool) (viewer.Viewer, error) {
	win := window.NewWindow(
		window.WithTitle(cfg.Window.Title),
		window.WithSize(cfg.Window.Width, cfg.Window.Height),
	)

	client := api.NewHTTPClient(cfg.API.BaseURL)
	sess := api.NewSession(client, tourID)

	loaderOpts := []loader.LoaderBuilderOption{
		loader.WithFetchTimeout(cfg.API.Timeout),
	}
	if cfg.Viewer.PrefetchWorkers > 0 {
		loaderOpts = append(loaderOpts, loader.WithPrefetchWorkers(cfg.Viewer.PrefetchWorkers))
	}

	v, err := viewer.NewViewer(sess,
		viewer.WithWindow(win),
		viewer.WithLoader(loader.NewLoader(loaderOpts...)),
		viewer.WithBaseURL(cfg.API.BaseURL),
		viewer.WithCallbacks(callbacks),
		viewer.WithTickRate(cfg.Viewer.TickRate),
		viewer.WithRenderFrameLimit(cfg.Viewer.FrameLimit),
		viewer.WithSensorSmoothing(cfg.Viewer.SensorSmoothing),
		viewer.WithProfiling(cfg.Viewer.Profiling),
	)
	if err != nil {
		return nil, err
	}

	if edit {
		win.SetKeyDownCallback(func(keyCode uint32) {
			if keyCode != keyToggleEdit {
				return
			}
			if v.PlacementActive() {
				v.CancelPlacement()
			} else {
				v.EnterPlacement()
			}
		})
	}

	return v, nil
}

// runViewer loads the tour and blocks in the engine loop until the window
// closes.
func runViewer(v viewer.Viewer, cfg *config.Config, load func(ctx context.Context) error) error {
	defer v.Close()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.API.Timeout)
	err := load(ctx)
	cancel()
	if err != nil {
		return err
	}

	v.Run()
	return nil
}

// infoCallbacks logs hotspot details; a host application would open a panel
// instead.
func infoCallbacks() viewer.Callbacks {
	return viewer.Callbacks{
		OnHotspotInfo: func(h tour.Hotspot) {
			logging.Info().
				Str("type", string(h.Type)).
				Str("title", h.Title).
				Msg("hotspot details")
			if h.Title != "" {
				fmt.Println(h.Title)
			}
			if h.Description != "" {
				fmt.Println(h.Description)
			}
		},
		OnSceneChanged: func(sceneIndex int) {
			logging.Info().Int("scene", sceneIndex).Msg("scene changed")
		},
	}
}

// editCallbacks extends the info callbacks with a minimal terminal-driven
// placement flow: a placement click prints the picked position and stores a
// location hotspot there.
func editCallbacks(getViewer func() viewer.Viewer) viewer.Callbacks {
	callbacks := infoCallbacks()
	callbacks.OnPlacementPicked = func(pitch, yaw float64) {
		v := getViewer()
		if v == nil {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		stored, err := v.CommitHotspot(ctx, tour.Hotspot{
			Type:  tour.HotspotLocation,
			Title: fmt.Sprintf("Marker at %.1f / %.1f", pitch, yaw),
			Pitch: pitch,
			Yaw:   yaw,
		})
		if err != nil {
			logging.Error().Err(err).Msg("could not save hotspot")
			return
		}
		logging.Info().
			Str("hotspot", stored.ID).
			Float64("pitch", pitch).
			Float64("yaw", yaw).
			Msg("hotspot placed")
	}
	return callbacks
}

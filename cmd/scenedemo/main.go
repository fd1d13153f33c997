// Command scenedemo renders a scene described in a TOML file with the
// retained renderer and writes the frames as PNG images.
package main

import (
	"context"
	"flag"
	"fmt"
	"image/color"
	"image/png"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"

	"github.com/gogpu/retained"
	"github.com/gogpu/retained/surface"
)

func main() {
	var (
		scenePath = flag.String("scene", "scene.toml", "scene description file")
		frames    = flag.Int("frames", 1, "number of frames to render")
		output    = flag.String("out", "frame.png", "output file; a %d verb numbers every frame")
		overlay   = flag.Bool("overlay", false, "outline the redrawn rectangle of the previous frame")
		watch     = flag.Bool("watch", false, "re-render whenever the scene file changes")
		verbose   = flag.Bool("v", false, "log frame statistics")
	)
	flag.Parse()

	if *verbose {
		retained.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	d, err := newDemo(*scenePath, *overlay)
	if err != nil {
		log.Fatalf("Failed to load scene: %v", err)
	}
	if err := d.render(*frames, *output); err != nil {
		log.Fatalf("Failed to render: %v", err)
	}
	log.Printf("Rendered %d frame(s) of %s to %s\n", *frames, *scenePath, *output)

	if !*watch {
		return
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := d.watch(ctx, *output); err != nil {
		log.Fatalf("Watch failed: %v", err)
	}
}

// demo holds a scene built from a scene file.
type demo struct {
	path  string
	scene *retained.Scene
	img   *surface.ImageSurface
	spin  []spinner
	frame int
}

func newDemo(path string, overlay bool) (*demo, error) {
	sf, err := loadSceneFile(path)
	if err != nil {
		return nil, err
	}
	d := &demo{path: path, img: surface.NewImageSurface(sf.Width, sf.Height)}
	opts := []retained.SceneOption{retained.WithSurface(d.img)}
	if sf.Background != "" {
		bg, err := parseHex(sf.Background)
		if err != nil {
			return nil, err
		}
		opts = append(opts, retained.WithBackground(bg))
	}
	if overlay {
		opts = append(opts, retained.WithDebugOverlay(color.NRGBA{R: 0xff, A: 0xff}))
	}
	d.scene, err = retained.NewScene(sf.Width, sf.Height, opts...)
	if err != nil {
		return nil, err
	}
	if d.spin, err = sf.apply(d.scene.Root()); err != nil {
		return nil, err
	}
	return d, nil
}

// render runs n frames, advancing the animation between them.
func (d *demo) render(n int, output string) error {
	for i := 0; i < n; i++ {
		if i > 0 {
			step(d.spin)
		}
		if err := d.scene.RequestFrame(); err != nil {
			return err
		}
		st := d.scene.LastFrame()
		retained.Logger().Debug("demo frame", "n", d.frame, "redrawn", st.Redrawn, "reallocations", st.Reallocations)
		if strings.Contains(output, "%") || i == n-1 {
			if err := d.save(output); err != nil {
				return err
			}
		}
		d.frame++
	}
	return nil
}

// reload re-applies the scene file to the existing scene.
func (d *demo) reload() error {
	sf, err := loadSceneFile(d.path)
	if err != nil {
		return err
	}
	if sf.Width != d.img.Width() || sf.Height != d.img.Height() {
		if err := d.scene.Resize(sf.Width, sf.Height); err != nil {
			return err
		}
	}
	d.spin, err = sf.apply(d.scene.Root())
	return err
}

// watch re-renders one frame each time the scene file is written.
func (d *demo) watch(ctx context.Context, output string) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()
	// Editors replace files on save, so watch the directory.
	if err := w.Add(filepath.Dir(d.path)); err != nil {
		return err
	}
	name := filepath.Clean(d.path)
	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-w.Errors:
			return err
		case ev := <-w.Events:
			if filepath.Clean(ev.Name) != name || ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if err := d.reload(); err != nil {
				log.Printf("Reload failed: %v", err)
				continue
			}
			if err := d.render(1, output); err != nil {
				log.Printf("Render failed: %v", err)
				continue
			}
			log.Printf("Reloaded %s\n", d.path)
		}
	}
}

func (d *demo) save(output string) error {
	path := output
	if strings.Contains(output, "%") {
		path = fmt.Sprintf(output, d.frame)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, d.img.Snapshot()); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

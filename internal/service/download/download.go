package download

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/cavaliergopher/grab/v3"
	"github.com/inhies/go-bytesize"
	"github.com/pterm/pterm"

	"github.com/oshokin/fivem-installer/internal/logger"
	"github.com/oshokin/fivem-installer/internal/version"
)

// progressInterval is how often the progress bar is refreshed.
const progressInterval = 200 * time.Millisecond

// Downloader fetches URLs into files.
type Downloader struct {
	client   *grab.Client
	out      io.Writer
	progress bool
}

// Option configures a Downloader.
type Option func(*Downloader)

// WithProgress toggles the terminal progress bar.
func WithProgress(enabled bool) Option {
	return func(d *Downloader) {
		d.progress = enabled
	}
}

// WithOutput redirects the progress display.
func WithOutput(w io.Writer) Option {
	return func(d *Downloader) {
		if w != nil {
			d.out = w
		}
	}
}

// WithClient replaces the grab client, e.g. to inject a custom HTTP transport.
func WithClient(c *grab.Client) Option {
	return func(d *Downloader) {
		if c != nil {
			d.client = c
		}
	}
}

// New creates a Downloader with a progress bar enabled.
func New(opts ...Option) *Downloader {
	client := grab.NewClient()
	client.UserAgent = version.UserAgent()

	d := &Downloader{
		client:   client,
		out:      os.Stdout,
		progress: true,
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

// Fetch downloads rawURL into dst and returns the number of bytes written.
func (d *Downloader) Fetch(ctx context.Context, rawURL, dst string) (int64, error) {
	logger.InfoKV(ctx, "Downloading", "file", filepath.Base(dst), "url", rawURL)

	req, err := grab.NewRequest(dst, rawURL)
	if err != nil {
		return 0, fmt.Errorf("build download request: %w", err)
	}

	req = req.WithContext(ctx)
	req.NoResume = true

	resp := d.client.Do(req)

	if d.progress {
		d.track(resp)
	} else {
		<-resp.Done
	}

	if err = resp.Err(); err != nil {
		return 0, fmt.Errorf("download %s: %w", rawURL, err)
	}

	written := resp.BytesComplete()
	logger.InfoKV(ctx, "Download complete",
		"file", resp.Filename,
		"size", bytesize.New(float64(written)).String(),
		"duration", resp.Duration().Round(time.Millisecond).String())

	return written, nil
}

// track renders progress until the transfer finishes.
func (d *Downloader) track(resp *grab.Response) {
	display, err := startProgress(d.out, filepath.Base(resp.Filename), resp.Size())
	if err != nil {
		<-resp.Done
		return
	}

	ticker := time.NewTicker(progressInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			display.update(resp.BytesComplete())
		case <-resp.Done:
			display.update(resp.BytesComplete())
			display.stop()

			return
		}
	}
}

type progress interface {
	update(done int64)
	stop()
}

// startProgress shows a bar sized to the transfer when size is known.
// Otherwise the title reports the running byte count.
// Elapsed time stays off so the bar is only redrawn from this goroutine.
func startProgress(w io.Writer, title string, size int64) (progress, error) {
	bar := pterm.DefaultProgressbar.
		WithWriter(w).
		WithTitle(title).
		WithShowElapsedTime(false).
		WithRemoveWhenDone(true)

	if size <= 0 {
		printer, err := bar.
			WithShowCount(false).
			WithShowPercentage(false).
			Start()
		if err != nil {
			return nil, err
		}

		return &counterProgress{printer: printer, title: title}, nil
	}

	printer, err := bar.WithTotal(int(size)).Start()
	if err != nil {
		return nil, err
	}

	return &barProgress{printer: printer}, nil
}

type barProgress struct {
	printer  *pterm.ProgressbarPrinter
	reported int64
}

func (b *barProgress) update(done int64) {
	if delta := done - b.reported; delta > 0 {
		b.printer.Add(int(delta))
		b.reported = done
	}
}

func (b *barProgress) stop() {
	_, _ = b.printer.Stop()
}

type counterProgress struct {
	printer *pterm.ProgressbarPrinter
	title   string
}

func (c *counterProgress) update(done int64) {
	c.printer.UpdateTitle(c.title + " " + bytesize.New(float64(done)).String())
}

func (c *counterProgress) stop() {
	_, _ = c.printer.Stop()
}

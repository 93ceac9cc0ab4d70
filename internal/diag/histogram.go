// Package diag holds host-side diagnostics that observe the core
// without participating in emulation: a per-frame T-cycle recorder and
// a frame-timing histogram renderer, replumbed from the teacher's
// Fyne performance view into a static PNG writer.
package diag

import (
	"fmt"
	"image"
	"image/png"
	"io"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

// FrameTimingRecorder collects the per-frame T-cycle totals reported by
// gameboy.WithFrameObserver. It is not safe for concurrent use.
type FrameTimingRecorder struct {
	samples []int
}

// NewFrameTimingRecorder returns an empty recorder.
func NewFrameTimingRecorder() *FrameTimingRecorder {
	return &FrameTimingRecorder{}
}

// Observe is the callback shape gameboy.WithFrameObserver expects.
func (r *FrameTimingRecorder) Observe(cycles int) {
	r.samples = append(r.samples, cycles)
}

// Samples returns the recorded per-frame cycle counts, oldest first.
func (r *FrameTimingRecorder) Samples() []int {
	return r.samples
}

// FrameTimingHistogram renders a histogram of the recorded per-frame
// T-cycle counts to w as a PNG, width x height pixels. It returns an
// error if fewer than one sample has been recorded, since gonum/plot
// cannot bin an empty series.
func FrameTimingHistogram(samples []int, width, height int, w io.Writer) error {
	if len(samples) == 0 {
		return fmt.Errorf("diag: no frame-timing samples to plot")
	}

	values := make(plotter.Values, len(samples))
	for i, s := range samples {
		values[i] = float64(s)
	}

	p := plot.New()
	p.Title.Text = "Frame Timing (T-cycles per frame)"
	p.X.Label.Text = "T-cycles"
	p.Y.Label.Text = "frames"

	hist, err := plotter.NewHist(values, 32)
	if err != nil {
		return fmt.Errorf("diag: building histogram: %w", err)
	}
	hist.Normalize(1)
	p.Add(hist)

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	c := vgimg.NewWith(vgimg.UseImage(img))
	p.Draw(draw.New(c))

	if err := png.Encode(w, c.Image()); err != nil {
		return fmt.Errorf("diag: encoding histogram PNG: %w", err)
	}
	return nil
}

// FrameTimingLinePlot renders the recorded per-frame T-cycle counts as
// a line plot (frame index on X, cycle count on Y) to w as a PNG — the
// direct descendant of the teacher's live frame-time line widget, for
// callers who want the time series rather than its distribution.
func FrameTimingLinePlot(samples []int, width, height int, w io.Writer) error {
	if len(samples) == 0 {
		return fmt.Errorf("diag: no frame-timing samples to plot")
	}

	pts := make(plotter.XYs, len(samples))
	for i, s := range samples {
		pts[i].X = float64(i)
		pts[i].Y = float64(s)
	}

	p := plot.New()
	p.Title.Text = "Frame Time"
	p.X.Label.Text = "frame"
	p.Y.Label.Text = "T-cycles"

	line, err := plotter.NewLine(pts)
	if err != nil {
		return fmt.Errorf("diag: building line plot: %w", err)
	}
	p.Add(line)

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	c := vgimg.NewWith(vgimg.UseImage(img))
	p.Draw(draw.New(c))

	if err := png.Encode(w, c.Image()); err != nil {
		return fmt.Errorf("diag: encoding line-plot PNG: %w", err)
	}
	return nil
}

package stats

import (
	"fmt"
	"io"
	"time"
)

// Run holds timing and metadata for a single blur invocation
type Run struct {
	InputPath  string
	OutputPath string
	Sigma      float32
	Width      int
	Height     int
	ColorMode  string
	Timestamp  time.Time

	LoadTime time.Duration
	BlurTime time.Duration
	SaveTime time.Duration
}

// TotalTime is the sum of the load, blur and save stages.
func (r Run) TotalTime() time.Duration {
	return r.LoadTime + r.BlurTime + r.SaveTime
}

// Stage runs fn and returns how long it took along with its error.
func Stage(fn func() error) (time.Duration, error) {
	start := time.Now()
	err := fn()
	return time.Since(start), err
}

// Write renders the run as a plain-text summary block
func (r Run) Write(w io.Writer) error {
	ew := &errWriter{w: w}

	ew.printf("=== Gaussian Blur Results ===\n")
	ew.printf("Timestamp: %s\n", r.Timestamp.Format("2006-01-02 15:04:05"))
	ew.printf("Input: %s\n", r.InputPath)
	ew.printf("Output: %s\n", r.OutputPath)
	ew.printf("Sigma: %g\n", r.Sigma)
	ew.printf("Size: %dx%d (%s)\n", r.Width, r.Height, r.ColorMode)
	ew.printf("Load time: %.3fs\n", r.LoadTime.Seconds())
	ew.printf("Blur time: %.3fs\n", r.BlurTime.Seconds())
	ew.printf("Save time: %.3fs\n", r.SaveTime.Seconds())
	ew.printf("Total time: %.3fs\n", r.TotalTime().Seconds())

	return ew.err
}

// errWriter keeps the first write error so Write can report it once.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) printf(format string, a ...any) {
	if e.err != nil {
		return
	}
	_, e.err = fmt.Fprintf(e.w, format, a...)
}

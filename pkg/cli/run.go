package cli

import (
	"context"
	"fmt"
	"image"
	"io"
	"log/slog"
	"time"

	"go-blur/pkg/blur"
	"go-blur/pkg/imageio"
	"go-blur/pkg/stats"
)

// Run loads the input image, blurs it and saves the result. Progress lines
// go to out; the success line is only printed once the output file has been
// written and closed. Failures are returned as *ExitError.
func Run(ctx context.Context, inv *Invocation, out io.Writer, logger *slog.Logger) error {
	run := stats.Run{
		InputPath:  inv.InputPath,
		OutputPath: inv.OutputPath,
		Sigma:      inv.Sigma,
		Timestamp:  time.Now(),
	}

	logger.Debug("Invocation parsed.", "input", inv.InputPath, "output", inv.OutputPath, "sigma", inv.Sigma)
	fmt.Fprintf(out, "Reading image %q\n", inv.InputPath)

	var img image.Image
	elapsed, err := stats.Stage(func() (err error) {
		img, err = imageio.Open(inv.InputPath)
		return err
	})
	if err != nil {
		logger.Debug("Decode failed.", "input", inv.InputPath, "error", err)
		return &ExitError{
			Code:    ExitFailure,
			Message: fmt.Sprintf("something went wrong reading the file: %v", err),
			Err:     err,
		}
	}
	run.LoadTime = elapsed
	run.Width, run.Height = img.Bounds().Dx(), img.Bounds().Dy()
	run.ColorMode = blur.ColorMode(img)
	logger.Info("Image decoded.", "input", inv.InputPath, "width", run.Width, "height", run.Height, "mode", run.ColorMode)

	if err := interrupted(ctx); err != nil {
		return err
	}

	start := time.Now()
	blurred := blur.Gaussian(img, inv.Sigma)
	run.BlurTime = time.Since(start)
	logger.Info("Blur applied.", "sigma", inv.Sigma, "effective_sigma", blur.EffectiveSigma(inv.Sigma, img.Bounds()),
		"mode", blur.ColorMode(blurred), "duration", run.BlurTime)

	if err := interrupted(ctx); err != nil {
		return err
	}

	elapsed, err = stats.Stage(func() error {
		return imageio.Save(inv.OutputPath, blurred, imageio.SaveOptions{JPEGQuality: inv.JPEGQuality})
	})
	if err != nil {
		logger.Debug("Write failed.", "output", inv.OutputPath, "error", err)
		return &ExitError{
			Code:    ExitFailure,
			Message: fmt.Sprintf("Error: %v", err),
			Err:     err,
		}
	}
	run.SaveTime = elapsed
	logger.Info("Image written.", "output", inv.OutputPath, "duration", run.SaveTime)

	fmt.Fprintf(out, "Saved blurred (%g) image to %q\n", inv.Sigma, inv.OutputPath)

	if inv.Stats {
		if err := run.Write(out); err != nil {
			logger.Warn("Failed to print timing summary.", "error", err)
		}
	}
	return nil
}

func interrupted(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return &ExitError{
			Code:    ExitInterrupted,
			Message: "interrupted",
			Err:     err,
		}
	}
	return nil
}

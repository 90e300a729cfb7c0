package engine

import (
	"context"
	"time"

	"github.com/lrstanley/go-ytdlp"

	"github.com/vidgrab/vidgrab/internal/model"
	"github.com/vidgrab/vidgrab/internal/progress"
)

// progressInterval throttles engine progress callbacks so consumers are not
// flooded during fast transfers.
const progressInterval = 500 * time.Millisecond

// DownloadToFile drives a full download-and-mux run writing to disk. The
// output template uses the engine's substitution syntax; hook receives
// throttled byte-progress updates while bytes are being retrieved. Returns
// the final path of the written file.
func (e *Engine) DownloadToFile(ctx context.Context, url, selector, outputTemplate string, hook func(progress.Update)) (string, error) {
	dl := ytdlp.New().
		Format(selector).
		NoPlaylist().
		Output(outputTemplate)

	if hook != nil {
		dl.ProgressFunc(progressInterval, func(up ytdlp.ProgressUpdate) {
			hook(convertUpdate(up))
		})
	}

	result, err := dl.Run(ctx, url)
	if err != nil {
		return "", &model.EngineError{Message: err.Error()}
	}

	return extractFinalPath(result)
}

// convertUpdate maps the library's progress snapshot onto the translator's
// update shape. The library reports no speed field; it is derived from the
// elapsed transfer time instead.
func convertUpdate(up ytdlp.ProgressUpdate) progress.Update {
	u := progress.Update{DownloadedBytes: int64(up.DownloadedBytes)}

	if up.TotalBytes > 0 {
		total := int64(up.TotalBytes)
		u.TotalBytes = &total
	}

	if !up.Started.IsZero() {
		if elapsed := time.Since(up.Started).Seconds(); elapsed > 0 {
			speed := float64(up.DownloadedBytes) / elapsed
			u.SpeedBytesPerSec = &speed
		}
	}

	if eta := up.ETA(); eta > 0 {
		secs := int64(eta.Seconds())
		u.ETASeconds = &secs
	}

	return u
}

// extractFinalPath pulls the written file's path out of the run result.
func extractFinalPath(result *ytdlp.Result) (string, error) {
	if result != nil {
		info, err := result.GetExtractedInfo()
		if err == nil && len(info) > 0 && info[0].Filename != nil && *info[0].Filename != "" {
			return *info[0].Filename, nil
		}
	}
	return "", &model.EngineError{Message: "engine reported no output file"}
}

package video

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// Metadata describes the decodable properties of a media file.
type Metadata struct {
	FPS         float64
	TotalFrames int
	DurationMS  int64
	Width       int
	Height      int
}

// Probe extracts stream metadata via ffprobe.
func Probe(ctx context.Context, path string) (Metadata, error) {
	cmd := exec.CommandContext(ctx, "ffprobe", "-v", "quiet", "-print_format", "json",
		"-show_format", "-show_streams", path)
	output, err := cmd.Output()
	if err != nil {
		return Metadata{}, fmt.Errorf("ffprobe %s: %w", path, err)
	}
	return parseProbeOutput(output)
}

func parseProbeOutput(output []byte) (Metadata, error) {
	var probe struct {
		Format struct {
			Duration string `json:"duration"`
		} `json:"format"`
		Streams []struct {
			CodecType  string `json:"codec_type"`
			Width      int    `json:"width"`
			Height     int    `json:"height"`
			RFrameRate string `json:"r_frame_rate"`
			NbFrames   string `json:"nb_frames"`
		} `json:"streams"`
	}
	if err := json.Unmarshal(output, &probe); err != nil {
		return Metadata{}, fmt.Errorf("parse ffprobe output: %w", err)
	}

	var meta Metadata
	if probe.Format.Duration != "" {
		if d, err := strconv.ParseFloat(probe.Format.Duration, 64); err == nil {
			meta.DurationMS = int64(d * 1000)
		}
	}

	for _, stream := range probe.Streams {
		if stream.CodecType != "video" {
			continue
		}
		meta.Width = stream.Width
		meta.Height = stream.Height
		if stream.RFrameRate != "" {
			parts := strings.Split(stream.RFrameRate, "/")
			if len(parts) == 2 {
				num, err1 := strconv.ParseFloat(parts[0], 64)
				den, err2 := strconv.ParseFloat(parts[1], 64)
				if err1 == nil && err2 == nil && den > 0 {
					meta.FPS = num / den
				}
			}
		}
		if stream.NbFrames != "" {
			if n, err := strconv.Atoi(stream.NbFrames); err == nil {
				meta.TotalFrames = n
			}
		}
		break
	}

	if meta.FPS <= 0 {
		return Metadata{}, fmt.Errorf("no video stream frame rate found")
	}
	// Some containers omit nb_frames; derive it from duration.
	if meta.TotalFrames == 0 && meta.DurationMS > 0 {
		meta.TotalFrames = int(float64(meta.DurationMS) / 1000 * meta.FPS)
	}
	return meta, nil
}

package video

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// Frame is one sampled still with its source frame index and time offset.
type Frame struct {
	Index       int
	TimestampMS int64
	Path        string
}

// SampleSet holds the sampled frames for one run. Frames live in a scratch
// directory owned by the set; callers must invoke Cleanup when done.
type SampleSet struct {
	Meta   Metadata
	Frames []Frame
	dir    string
}

// Cleanup removes the scratch directory and any frames still in it.
func (s *SampleSet) Cleanup() {
	if s != nil && s.dir != "" {
		os.RemoveAll(s.dir)
	}
}

// Sampler decodes a video and extracts every Nth frame as a JPEG.
type Sampler struct {
	FFmpegPath string
}

// NewSampler constructs a Sampler using ffmpeg from PATH.
func NewSampler() *Sampler {
	return &Sampler{FFmpegPath: "ffmpeg"}
}

// Sample probes the video and extracts every frame whose index is a multiple
// of interval into a scratch directory. The sampled index set is exactly
// {0, N, 2N, ...} within the frame count, in ascending order.
func (s *Sampler) Sample(ctx context.Context, videoPath string, interval int) (*SampleSet, error) {
	if interval < 1 {
		interval = 1
	}
	if _, err := os.Stat(videoPath); err != nil {
		return nil, fmt.Errorf("video file not found: %s", videoPath)
	}

	meta, err := Probe(ctx, videoPath)
	if err != nil {
		return nil, err
	}

	dir, err := os.MkdirTemp("", "shelfframes-")
	if err != nil {
		return nil, fmt.Errorf("create scratch dir: %w", err)
	}

	pattern := filepath.Join(dir, "frame_%05d.jpg")
	cmd := exec.CommandContext(ctx, s.ffmpeg(),
		"-y", "-i", videoPath,
		"-vf", fmt.Sprintf("select=not(mod(n\\,%d))", interval),
		"-vsync", "vfr",
		"-q:v", "2",
		pattern,
	)
	if out, err := cmd.CombinedOutput(); err != nil {
		os.RemoveAll(dir)
		return nil, fmt.Errorf("ffmpeg frame extraction: %w: %s", err, tail(string(out)))
	}

	frames, err := enumerateFrames(dir, interval, meta.FPS)
	if err != nil {
		os.RemoveAll(dir)
		return nil, err
	}

	return &SampleSet{Meta: meta, Frames: frames, dir: dir}, nil
}

func (s *Sampler) ffmpeg() string {
	if s.FFmpegPath != "" {
		return s.FFmpegPath
	}
	return "ffmpeg"
}

// SampleIndices returns the frame indices sampled for a video of totalFrames
// at the given interval: {0, N, 2N, ...} ∩ [0, totalFrames).
func SampleIndices(totalFrames, interval int) []int {
	if totalFrames <= 0 {
		return nil
	}
	if interval < 1 {
		interval = 1
	}
	indices := make([]int, 0, totalFrames/interval+1)
	for i := 0; i < totalFrames; i += interval {
		indices = append(indices, i)
	}
	return indices
}

// TimestampMS converts a frame index to its millisecond offset.
func TimestampMS(frameIndex int, fps float64) int64 {
	if fps <= 0 {
		return 0
	}
	return int64(float64(frameIndex) / fps * 1000)
}

// enumerateFrames maps ffmpeg's sequentially numbered output files back to
// source frame indices. The k-th extracted file (1-based) is frame (k-1)*N.
func enumerateFrames(dir string, interval int, fps float64) ([]Frame, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read scratch dir: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(strings.ToLower(e.Name()), ".jpg") {
			continue
		}
		names = append(names, e.Name())
	}
	// ffmpeg widens the %05d counter past 99999, so lexicographic order would
	// put frame_100000 before frame_99999. Sort by the embedded number.
	sort.Slice(names, func(i, j int) bool {
		return fileNumber(names[i]) < fileNumber(names[j])
	})

	frames := make([]Frame, 0, len(names))
	for k, name := range names {
		index := k * interval
		frames = append(frames, Frame{
			Index:       index,
			TimestampMS: TimestampMS(index, fps),
			Path:        filepath.Join(dir, name),
		})
	}
	return frames, nil
}

// fileNumber extracts the sequence number from a frame_%05d.jpg name.
func fileNumber(name string) int {
	name = strings.TrimSuffix(strings.ToLower(name), ".jpg")
	if i := strings.LastIndexByte(name, '_'); i >= 0 {
		name = name[i+1:]
	}
	n, err := strconv.Atoi(name)
	if err != nil {
		return -1
	}
	return n
}

func tail(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > 400 {
		return s[len(s)-400:]
	}
	return s
}

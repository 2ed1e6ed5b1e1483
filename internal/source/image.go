package source

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ImageSource reads frames from PNG/JPEG files. Files are ordered by name
// and frame i is taken at i/fps seconds.
type ImageSource struct {
	paths []string
	fps   float64
}

func NewImageSource(path string, fps float64) (*ImageSource, error) {
	if fps <= 0 {
		return nil, fmt.Errorf("invalid frame rate %v", fps)
	}

	fi, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	var paths []string
	if fi.IsDir() {
		entries, err := os.ReadDir(path)
		if err != nil {
			return nil, err
		}
		for _, entry := range entries {
			if !entry.IsDir() && isImage(entry.Name()) {
				paths = append(paths, filepath.Join(path, entry.Name()))
			}
		}
		sort.Strings(paths)
	} else if isImage(path) {
		paths = []string{path}
	}

	if len(paths) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoFrames, path)
	}

	return &ImageSource{paths: paths, fps: fps}, nil
}

func isImage(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".jpg", ".jpeg", ".png":
		return true
	}
	return false
}

func (s *ImageSource) FrameCount() int {
	return len(s.paths)
}

func (s *ImageSource) FrameTime(index int) float64 {
	return float64(index) / s.fps
}

func (s *ImageSource) Frame(index int) (image.Image, error) {
	f, err := os.Open(s.paths[index])
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", s.paths[index], err)
	}
	return img, nil
}

func (s *ImageSource) Close() error {
	return nil
}

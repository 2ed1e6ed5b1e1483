package analyzer

import (
	"image"
	"math"

	"github.com/ivlev/autocam/internal/system"
)

const on = 255

// sobelEdges marks pixels whose Sobel gradient magnitude exceeds threshold.
// The result comes from the shared pool.
func sobelEdges(gray *image.Gray, threshold float64) *image.Gray {
	bounds := gray.Bounds()
	edges := system.GetGray(bounds)
	clear(edges.Pix)

	gx := [3][3]int{
		{-1, 0, 1},
		{-2, 0, 2},
		{-1, 0, 1},
	}
	gy := [3][3]int{
		{-1, -2, -1},
		{0, 0, 0},
		{1, 2, 1},
	}

	for y := bounds.Min.Y + 1; y < bounds.Max.Y-1; y++ {
		for x := bounds.Min.X + 1; x < bounds.Max.X-1; x++ {
			var sumX, sumY float64
			for ky := -1; ky <= 1; ky++ {
				for kx := -1; kx <= 1; kx++ {
					pixel := float64(gray.Pix[gray.PixOffset(x+kx, y+ky)])
					sumX += pixel * float64(gx[ky+1][kx+1])
					sumY += pixel * float64(gy[ky+1][kx+1])
				}
			}
			if math.Sqrt(sumX*sumX+sumY*sumY) > threshold {
				edges.Pix[edges.PixOffset(x, y)] = on
			}
		}
	}

	return edges
}

// diffMask marks pixels whose luminance differs by more than threshold and
// returns the changed fraction and the mean absolute difference in [0, 1]
func diffMask(a, b *image.Gray, threshold uint8) (mask *image.Gray, changed, meanDiff float64) {
	bounds := a.Bounds()
	mask = system.GetGray(bounds)
	clear(mask.Pix)

	var n, hits int
	var sum float64
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			va := int(a.Pix[a.PixOffset(x, y)])
			vb := int(b.Pix[b.PixOffset(x, y)])
			d := va - vb
			if d < 0 {
				d = -d
			}
			sum += float64(d)
			n++
			if d > int(threshold) {
				mask.Pix[mask.PixOffset(x, y)] = on
				hits++
			}
		}
	}
	if n == 0 {
		return mask, 0, 0
	}
	return mask, float64(hits) / float64(n), sum / float64(n) / 255
}

// dilate grows marked pixels by a square kernel so nearby changes merge.
// The input buffer is returned to the pool.
func dilate(img *image.Gray, kernelSize, iterations int) *image.Gray {
	bounds := img.Bounds()
	half := kernelSize / 2
	result := img

	for iter := 0; iter < iterations; iter++ {
		temp := system.GetGray(bounds)
		clear(temp.Pix)

		for y := bounds.Min.Y + half; y < bounds.Max.Y-half; y++ {
			for x := bounds.Min.X + half; x < bounds.Max.X-half; x++ {
				var maxVal uint8
				for ky := -half; ky <= half && maxVal < on; ky++ {
					for kx := -half; kx <= half; kx++ {
						if v := result.Pix[result.PixOffset(x+kx, y+ky)]; v > maxVal {
							maxVal = v
						}
					}
				}
				temp.Pix[temp.PixOffset(x, y)] = maxVal
			}
		}

		system.PutGray(result)
		result = temp
	}

	return result
}

// region is one connected group of marked pixels
type region struct {
	Bounds     image.Rectangle
	Area       int
	SumX, SumY float64
}

// Centroid returns the mean pixel center of the region
func (r region) Centroid() (float64, float64) {
	return r.SumX/float64(r.Area) + 0.5, r.SumY/float64(r.Area) + 0.5
}

// findRegions returns the 4-connected regions of marked pixels
func findRegions(img *image.Gray) []region {
	bounds := img.Bounds()
	visited := make([]bool, bounds.Dx()*bounds.Dy())

	var regions []region
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			idx := (y-bounds.Min.Y)*bounds.Dx() + (x - bounds.Min.X)
			if img.Pix[img.PixOffset(x, y)] > 128 && !visited[idx] {
				regions = append(regions, floodFill(img, visited, x, y))
			}
		}
	}

	return regions
}

// floodFill collects the region containing (startX, startY)
func floodFill(img *image.Gray, visited []bool, startX, startY int) region {
	bounds := img.Bounds()
	minX, minY := startX, startY
	maxX, maxY := startX, startY
	var r region

	stack := []image.Point{{X: startX, Y: startY}}

	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		x, y := p.X, p.Y
		if x < bounds.Min.X || x >= bounds.Max.X || y < bounds.Min.Y || y >= bounds.Max.Y {
			continue
		}

		idx := (y-bounds.Min.Y)*bounds.Dx() + (x - bounds.Min.X)
		if visited[idx] || img.Pix[img.PixOffset(x, y)] <= 128 {
			continue
		}
		visited[idx] = true

		r.Area++
		r.SumX += float64(x - bounds.Min.X)
		r.SumY += float64(y - bounds.Min.Y)
		minX, maxX = min(minX, x), max(maxX, x)
		minY, maxY = min(minY, y), max(maxY, y)

		stack = append(stack,
			image.Point{X: x + 1, Y: y},
			image.Point{X: x - 1, Y: y},
			image.Point{X: x, Y: y + 1},
			image.Point{X: x, Y: y - 1},
		)
	}

	r.Bounds = image.Rect(minX, minY, maxX+1, maxY+1)
	return r
}

// edgeCentroid returns the mean position of marked pixels relative to the
// image origin. ok is false when nothing is marked.
func edgeCentroid(img *image.Gray) (cx, cy float64, ok bool) {
	bounds := img.Bounds()
	var n int
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			if img.Pix[img.PixOffset(x, y)] > 128 {
				cx += float64(x - bounds.Min.X)
				cy += float64(y - bounds.Min.Y)
				n++
			}
		}
	}
	if n == 0 {
		return 0, 0, false
	}
	return cx / float64(n), cy / float64(n), true
}

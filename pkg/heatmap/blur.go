package heatmap

// blurReach is the dilation radius around each splat center that marks a
// pixel as eligible for blurring.
const blurReach = 3

// coverageMask marks the ±blurReach neighborhood around every splatted
// pixel. Only covered pixels are blurred; empty ocean and raster corners
// that never saw a splat pass through bit-identical.
func coverageMask(width, height int, centers [][2]int) []bool {
	mask := make([]bool, width*height)
	for _, c := range centers {
		for dy := -blurReach; dy <= blurReach; dy++ {
			y := c[1] + dy
			if y < 0 || y >= height {
				continue
			}
			for dx := -blurReach; dx <= blurReach; dx++ {
				x := c[0] + dx
				if x < 0 || x >= width {
					continue
				}
				mask[y*width+x] = true
			}
		}
	}
	return mask
}

// blurSplatRegions applies a 3×3 box blur to pixels covered by the splat
// mask, reading from a snapshot of the raster so the pass is order
// independent. The kernel clamps at raster edges, averaging however many of
// the 9 neighbors exist.
func blurSplatRegions(r *Raster, centers [][2]int) {
	if len(centers) == 0 {
		return
	}
	mask := coverageMask(r.Width, r.Height, centers)
	src := make([]byte, len(r.Pix))
	copy(src, r.Pix)

	for y := 0; y < r.Height; y++ {
		for x := 0; x < r.Width; x++ {
			if !mask[y*r.Width+x] {
				continue
			}
			var sum [4]int
			count := 0
			for dy := -1; dy <= 1; dy++ {
				ny := y + dy
				if ny < 0 || ny >= r.Height {
					continue
				}
				for dx := -1; dx <= 1; dx++ {
					nx := x + dx
					if nx < 0 || nx >= r.Width {
						continue
					}
					off := (ny*r.Width + nx) * 4
					sum[0] += int(src[off])
					sum[1] += int(src[off+1])
					sum[2] += int(src[off+2])
					sum[3] += int(src[off+3])
					count++
				}
			}
			off := r.offset(x, y)
			r.Pix[off] = byte(sum[0] / count)
			r.Pix[off+1] = byte(sum[1] / count)
			r.Pix[off+2] = byte(sum[2] / count)
			r.Pix[off+3] = byte(sum[3] / count)
		}
	}
}

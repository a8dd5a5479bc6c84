package extract

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path"
	"path/filepath"
	"sort"

	"github.com/ledongthuc/pdf"
	"golang.org/x/image/draw"

	"github.com/tsawler/pdf2md/model"
)

// extractPageImages walks the page's XObject resources, decodes the image
// streams it can, and persists them as PNG files. It returns one image
// fragment per persisted file. When wantRaster is set, the largest decoded
// image of the page is also returned as PNG bytes for OCR, downscaled to
// the configured maximum width.
//
// Only Flate-compressed rasters are decodable; images behind DCT, JPX or
// CCITT filters are skipped with a warning. Decode failures never fail the
// page
func (e *Extractor) extractPageImages(page pdf.Page, pageIndex int, wantRaster bool) (fragments []model.Fragment, raster []byte, warnings []model.Warning) {
	defer func() {
		if r := recover(); r != nil {
			warnings = append(warnings, model.Warning{
				Page:    pageIndex + 1,
				Message: fmt.Sprintf("image resources unreadable: %v", r),
			})
		}
	}()

	xobjects := page.Resources().Key("XObject")
	if xobjects.Kind() != pdf.Dict {
		return nil, nil, nil
	}

	keys := xobjects.Keys()
	sort.Strings(keys)

	var largest image.Image
	var largestArea int
	pageSeq := 0

	for _, key := range keys {
		obj := xobjects.Key(key)
		if obj.Kind() != pdf.Stream || obj.Key("Subtype").Name() != "Image" {
			continue
		}

		width := int(obj.Key("Width").Int64())
		height := int(obj.Key("Height").Int64())
		if width < e.config.MinImageDim || height < e.config.MinImageDim {
			// Icons, bullets and other decoration
			continue
		}

		img, err := decodeImageStream(obj, width, height)
		if err != nil {
			warnings = append(warnings, model.Warning{
				Page:    pageIndex + 1,
				Message: fmt.Sprintf("image %s skipped: %v", key, err),
			})
			continue
		}

		if area := width * height; area > largestArea {
			largest, largestArea = img, area
		}

		if !e.config.ExtractImages {
			continue
		}

		pageSeq++
		name := fmt.Sprintf("%s_p%d_img%d.png", e.baseName, pageIndex+1, pageSeq)
		if err := e.writePNG(img, name); err != nil {
			pageSeq--
			warnings = append(warnings, model.Warning{
				Page:    pageIndex + 1,
				Message: fmt.Sprintf("image %s not persisted: %v", key, err),
			})
			continue
		}

		e.imageCount++
		fragments = append(fragments, model.Fragment{
			Kind:       model.FragmentImage,
			PageIndex:  pageIndex,
			ImageRef:   path.Join(e.config.ImagesSubdir, name),
			ImageIndex: e.imageCount,
		})
	}

	if wantRaster && largest != nil {
		var buf bytes.Buffer
		if err := png.Encode(&buf, scaleForOCR(largest, e.config.MaxOCRWidth)); err == nil {
			raster = buf.Bytes()
		}
	}

	return fragments, raster, warnings
}

// writePNG persists a decoded image under the configured images directory
func (e *Extractor) writePNG(img image.Image, name string) error {
	if err := os.MkdirAll(e.config.ImagesDir, 0755); err != nil {
		return err
	}

	f, err := os.Create(filepath.Join(e.config.ImagesDir, name))
	if err != nil {
		return err
	}

	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// decodeImageStream decodes a raster image XObject into an image.Image
func decodeImageStream(obj pdf.Value, width, height int) (img image.Image, err error) {
	defer func() {
		if r := recover(); r != nil {
			img = nil
			err = fmt.Errorf("%w: %v", ErrImageExtract, r)
		}
	}()

	for _, filter := range filterNames(obj.Key("Filter")) {
		switch filter {
		case "FlateDecode", "":
			// Supported by the stream reader
		default:
			return nil, fmt.Errorf("%w: unsupported filter %s", ErrImageExtract, filter)
		}
	}

	data, err := io.ReadAll(obj.Reader())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImageExtract, err)
	}

	bpc := int(obj.Key("BitsPerComponent").Int64())
	components := colorComponents(obj.Key("ColorSpace"))

	return rasterFromSamples(data, width, height, bpc, components)
}

// filterNames collects the stream's filter names, which may be a single
// name or an array of names
func filterNames(v pdf.Value) []string {
	switch v.Kind() {
	case pdf.Name:
		return []string{v.Name()}
	case pdf.Array:
		names := make([]string, 0, v.Len())
		for i := 0; i < v.Len(); i++ {
			names = append(names, v.Index(i).Name())
		}
		return names
	}
	return nil
}

// colorComponents resolves the number of color components of an image
// color space. Returns 0 for color spaces that cannot be decoded here
func colorComponents(cs pdf.Value) int {
	switch cs.Kind() {
	case pdf.Name:
		switch cs.Name() {
		case "DeviceRGB":
			return 3
		case "DeviceGray":
			return 1
		case "DeviceCMYK":
			return 4
		}
	case pdf.Array:
		if cs.Len() >= 2 && cs.Index(0).Name() == "ICCBased" {
			return int(cs.Index(1).Key("N").Int64())
		}
	}
	return 0
}

// rasterFromSamples builds an image from raw decoded samples
func rasterFromSamples(data []byte, width, height, bpc, components int) (image.Image, error) {
	switch {
	case components == 3 && bpc == 8:
		if len(data) < width*height*3 {
			return nil, fmt.Errorf("%w: truncated RGB samples", ErrImageExtract)
		}
		img := image.NewNRGBA(image.Rect(0, 0, width, height))
		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				src := (y*width + x) * 3
				dst := img.PixOffset(x, y)
				img.Pix[dst+0] = data[src+0]
				img.Pix[dst+1] = data[src+1]
				img.Pix[dst+2] = data[src+2]
				img.Pix[dst+3] = 0xff
			}
		}
		return img, nil

	case components == 4 && bpc == 8:
		if len(data) < width*height*4 {
			return nil, fmt.Errorf("%w: truncated CMYK samples", ErrImageExtract)
		}
		img := image.NewCMYK(image.Rect(0, 0, width, height))
		copy(img.Pix, data[:width*height*4])
		return img, nil

	case components == 1 && bpc == 8:
		if len(data) < width*height {
			return nil, fmt.Errorf("%w: truncated gray samples", ErrImageExtract)
		}
		img := image.NewGray(image.Rect(0, 0, width, height))
		copy(img.Pix, data[:width*height])
		return img, nil

	case components == 1 && bpc == 1:
		rowBytes := (width + 7) / 8
		if len(data) < rowBytes*height {
			return nil, fmt.Errorf("%w: truncated bilevel samples", ErrImageExtract)
		}
		img := image.NewGray(image.Rect(0, 0, width, height))
		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				bit := data[y*rowBytes+x/8] >> (7 - uint(x%8)) & 1
				if bit == 1 {
					img.SetGray(x, y, color.Gray{Y: 0xff})
				}
			}
		}
		return img, nil
	}

	return nil, fmt.Errorf("%w: unsupported color space (%d components, %d bits)", ErrImageExtract, components, bpc)
}

// scaleForOCR downscales wide rasters before handing them to OCR; text
// recognition gains nothing above the maximum width and large pages slow
// it down considerably
func scaleForOCR(img image.Image, maxWidth int) image.Image {
	bounds := img.Bounds()
	if maxWidth <= 0 || bounds.Dx() <= maxWidth {
		return img
	}

	scale := float64(maxWidth) / float64(bounds.Dx())
	dst := image.NewRGBA(image.Rect(0, 0, maxWidth, int(float64(bounds.Dy())*scale)))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, bounds, draw.Src, nil)
	return dst
}

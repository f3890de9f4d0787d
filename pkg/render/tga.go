package render

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
)

// ErrBadTGA is returned for truncated or unsupported TGA data.
var ErrBadTGA = errors.New("render: invalid tga")

const (
	tgaTrueColor    = 2
	tgaGrayscale    = 3
	tgaRLETrueColor = 10
	tgaRLEGrayscale = 11

	tgaTopOrigin   = 0x20
	tgaRightOrigin = 0x10
)

type tgaHeader struct {
	IDLength        uint8
	ColorMapType    uint8
	ImageType       uint8
	ColorMapOrigin  uint16
	ColorMapLength  uint16
	ColorMapDepth   uint8
	XOrigin         uint16
	YOrigin         uint16
	Width           uint16
	Height          uint16
	BitsPerPixel    uint8
	ImageDescriptor uint8
}

// DecodeTGA reads an uncompressed or RLE TGA image in grayscale, 24-bit or
// 32-bit color. The result is always top-down.
func DecodeTGA(r io.Reader) (image.Image, error) {
	br := bufio.NewReader(r)

	var h tgaHeader
	if err := binary.Read(br, binary.LittleEndian, &h); err != nil {
		return nil, fmt.Errorf("%w: header: %w", ErrBadTGA, err)
	}
	if h.ColorMapType != 0 {
		return nil, fmt.Errorf("%w: color-mapped images are not supported", ErrBadTGA)
	}
	if _, err := br.Discard(int(h.IDLength)); err != nil {
		return nil, fmt.Errorf("%w: id: %w", ErrBadTGA, err)
	}

	bpp := int(h.BitsPerPixel) / 8
	switch {
	case (h.ImageType == tgaGrayscale || h.ImageType == tgaRLEGrayscale) && bpp == 1:
	case (h.ImageType == tgaTrueColor || h.ImageType == tgaRLETrueColor) && (bpp == 3 || bpp == 4):
	default:
		return nil, fmt.Errorf("%w: type %d with %d bits per pixel", ErrBadTGA, h.ImageType, h.BitsPerPixel)
	}

	w, hgt := int(h.Width), int(h.Height)
	if w == 0 || hgt == 0 {
		return nil, fmt.Errorf("%w: empty image %dx%d", ErrBadTGA, w, hgt)
	}
	// Memory grows with the rows actually present; the image is allocated
	// only once every row has been read.
	var src io.Reader = br
	rle := &rleReader{br: br, pixel: make([]byte, bpp)}
	if h.ImageType == tgaRLETrueColor || h.ImageType == tgaRLEGrayscale {
		src = rle
	}
	stride := w * bpp
	var data []byte
	for sy := range hgt {
		data = append(data, make([]byte, stride)...)
		if _, err := io.ReadFull(src, data[sy*stride:]); err != nil {
			return nil, fmt.Errorf("%w: pixel data row %d: %w", ErrBadTGA, sy, err)
		}
	}
	if n := rle.pending(); n > 0 {
		return nil, fmt.Errorf("%w: packet overruns image by %d pixels", ErrBadTGA, n)
	}

	img := image.NewRGBA(image.Rect(0, 0, w, hgt))
	for sy := range hgt {
		dy := sy
		if h.ImageDescriptor&tgaTopOrigin == 0 {
			dy = hgt - 1 - sy
		}
		for sx := range w {
			dx := sx
			if h.ImageDescriptor&tgaRightOrigin != 0 {
				dx = w - 1 - sx
			}
			px := data[sy*stride+sx*bpp:]
			var c color.RGBA
			switch bpp {
			case 1:
				c = color.RGBA{px[0], px[0], px[0], 255}
			case 3:
				c = color.RGBA{px[2], px[1], px[0], 255}
			default:
				c = color.RGBA{px[2], px[1], px[0], px[3]}
			}
			img.SetRGBA(dx, dy, c)
		}
	}
	return img, nil
}

// rleReader expands run-length packets into a byte stream. Packets may
// cross row boundaries.
type rleReader struct {
	br     *bufio.Reader
	pixel  []byte
	raw    int // literal bytes left in the current packet
	repeat int // repeated pixels left in the current packet
	pos    int
}

func (r *rleReader) Read(p []byte) (int, error) {
	n := 0
	for n < len(p) {
		switch {
		case r.raw > 0:
			k, err := r.br.Read(p[n:min(len(p), n+r.raw)])
			n += k
			r.raw -= k
			if err != nil {
				return n, err
			}
		case r.repeat > 0:
			p[n] = r.pixel[r.pos]
			n++
			r.pos++
			if r.pos == len(r.pixel) {
				r.pos = 0
				r.repeat--
			}
		default:
			hdr, err := r.br.ReadByte()
			if err != nil {
				return n, err
			}
			count := int(hdr&0x7f) + 1
			if hdr&0x80 == 0 {
				r.raw = count * len(r.pixel)
				continue
			}
			if _, err := io.ReadFull(r.br, r.pixel); err != nil {
				return n, err
			}
			r.repeat = count
		}
	}
	return n, nil
}

// pending returns the pixels of the current packet not yet consumed.
func (r *rleReader) pending() int {
	return r.repeat + r.raw/len(r.pixel)
}

// EncodeTGA writes img as an uncompressed 32-bit TGA with a top-left origin.
func EncodeTGA(w io.Writer, img image.Image) error {
	b := img.Bounds()
	if b.Dx() > 0xffff || b.Dy() > 0xffff {
		return fmt.Errorf("%w: %dx%d exceeds 65535", ErrBadTGA, b.Dx(), b.Dy())
	}

	bw := bufio.NewWriter(w)
	h := tgaHeader{
		ImageType:       tgaTrueColor,
		Width:           uint16(b.Dx()),
		Height:          uint16(b.Dy()),
		BitsPerPixel:    32,
		ImageDescriptor: tgaTopOrigin | 8, // 8 alpha bits
	}
	if err := binary.Write(bw, binary.LittleEndian, h); err != nil {
		return err
	}

	row := make([]byte, b.Dx()*4)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.RGBAModel.Convert(img.At(x, y)).(color.RGBA)
			i := (x - b.Min.X) * 4
			row[i], row[i+1], row[i+2], row[i+3] = c.B, c.G, c.R, c.A
		}
		if _, err := bw.Write(row); err != nil {
			return err
		}
	}
	return bw.Flush()
}

package out

import (
	"image"
	"image/png"
	"io"

	renderout "ereader/internal/modules/render/port/out"
)

type PNGEncoder struct{}

func NewPNGEncoder() renderout.Encoder[*image.RGBA] {
	return PNGEncoder{}
}

func (PNGEncoder) Encode(w io.Writer, img *image.RGBA) error {
	return png.Encode(w, img)
}

type TextEncoder struct{}

func NewTextEncoder() renderout.Encoder[string] {
	return TextEncoder{}
}

func (TextEncoder) Encode(w io.Writer, text string) error {
	if _, err := io.WriteString(w, text); err != nil {
		return err
	}
	if text != "" && text[len(text)-1] != '\n' {
		_, err := io.WriteString(w, "\n")
		return err
	}
	return nil
}

// Package program reads and writes program images.
//
// An image is a sequence of 16-bit little-endian words with no header. It
// becomes the initial memory of the machine, word for word.
package program

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/sarchlab/synvm/core"
)

// DefaultImage is the file loaded when no image is named.
const DefaultImage = "challenge.bin"

// ErrOddLength is returned for images with a trailing unpaired byte.
var ErrOddLength = errors.New("program image has odd length")

// Load decodes an image from r.
func Load(r io.Reader) ([]core.Word, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading program image: %w", err)
	}

	return Decode(data)
}

// LoadFile decodes the image stored at path.
func LoadFile(path string) ([]core.Word, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	words, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return words, nil
}

// Decode converts raw image bytes into words.
func Decode(data []byte) ([]core.Word, error) {
	if len(data)%2 != 0 {
		return nil, fmt.Errorf("%w: %d bytes", ErrOddLength, len(data))
	}

	words := make([]core.Word, len(data)/2)
	for i := range words {
		words[i] = core.Word(binary.LittleEndian.Uint16(data[2*i:]))
	}

	return words, nil
}

// Encode converts words into image bytes.
func Encode(words []core.Word) []byte {
	data := make([]byte, 2*len(words))
	for i, w := range words {
		binary.LittleEndian.PutUint16(data[2*i:], uint16(w))
	}

	return data
}

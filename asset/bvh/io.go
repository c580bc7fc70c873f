package bvh

import (
	"archive/zip"
	"bufio"
	"bytes"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/achilleasa/bvh4/asset"
	"github.com/achilleasa/bvh4/log"
)

const (
	// Name of the word buffer entry inside zip containers.
	zipEntry = "bvh.bin"
)

var ioLogger = log.New("bvh io")

// Load a word buffer from a local path or http(s) URL. The container format
// is selected by extension: .json (array of words), .zip (archive holding
// bvh.bin) or raw little-endian words for anything else.
func Load(pathToBuffer string) ([]uint32, error) {
	res, err := asset.NewResource(pathToBuffer, nil)
	if err != nil {
		return nil, err
	}
	defer res.Close()

	start := time.Now()
	var words []uint32
	switch res.Ext() {
	case ".json":
		words, err = readJSON(res)
	case ".zip":
		words, err = readZip(res)
	default:
		words, err = ReadWords(res)
	}
	if err != nil {
		return nil, fmt.Errorf("bvh: could not load %q: %w", res.Path(), err)
	}

	ioLogger.Infof(`loaded %d words from "%s" in %d ms`, len(words), res.Path(), time.Since(start).Nanoseconds()/1e6)
	return words, nil
}

// Save a word buffer to a local path. The container format is selected by
// extension the same way as in Load.
func Save(pathToBuffer string, words []uint32) error {
	f, err := os.Create(pathToBuffer)
	if err != nil {
		return err
	}
	defer f.Close()

	bw := bufio.NewWriter(f)
	switch strings.ToLower(filepath.Ext(pathToBuffer)) {
	case ".json":
		err = json.NewEncoder(bw).Encode(words)
	case ".zip":
		err = writeZip(bw, words)
	default:
		err = WriteWords(bw, words)
	}
	if err != nil {
		return fmt.Errorf("bvh: could not save %q: %w", pathToBuffer, err)
	}

	if err = bw.Flush(); err != nil {
		return err
	}

	ioLogger.Infof(`wrote %d words to "%s"`, len(words), pathToBuffer)
	return f.Close()
}

// Read a stream of little-endian 32-bit words. An empty stream yields an
// empty buffer; CheckSize reports it.
func ReadWords(r io.Reader) ([]uint32, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if len(data)%4 != 0 {
		return nil, ErrSizeNotMultipleOf4
	}

	words := make([]uint32, len(data)/4)
	for i := range words {
		words[i] = binary.LittleEndian.Uint32(data[i*4:])
	}
	return words, nil
}

// Write words as a little-endian stream.
func WriteWords(w io.Writer, words []uint32) error {
	return binary.Write(w, binary.LittleEndian, words)
}

func readJSON(r io.Reader) ([]uint32, error) {
	var words []uint32
	if err := json.NewDecoder(r).Decode(&words); err != nil {
		return nil, err
	}
	if words == nil {
		words = []uint32{}
	}
	return words, nil
}

func readZip(r io.Reader) ([]uint32, error) {
	// zip needs an io.ReaderAt; buffer the whole archive.
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, err
	}

	for _, f := range zr.File {
		if f.Name != zipEntry {
			ioLogger.Warningf("unknown file %s in zip archive; skipping", f.Name)
			continue
		}

		rc, err := f.Open()
		if err != nil {
			return nil, err
		}
		words, err := ReadWords(rc)
		rc.Close()
		return words, err
	}

	return nil, ErrMissingZipEntry
}

func writeZip(w io.Writer, words []uint32) error {
	zw := zip.NewWriter(w)
	cw, err := zw.Create(zipEntry)
	if err != nil {
		return err
	}
	if err = WriteWords(cw, words); err != nil {
		return err
	}
	return zw.Close()
}

// Check that the buffer holds all node records declared by its header.
func (b Bvh2) CheckSize() error {
	return checkSize(b, Node2Stride)
}

// Check that the buffer holds all node records declared by its header.
func (b Bvh4) CheckSize() error {
	return checkSize(b, Node4Stride)
}

func checkSize(words []uint32, stride int) error {
	if len(words) == 0 {
		return ErrEmptyBuffer
	}

	expWords := headerWords + int(words[0])*stride
	if len(words) < expWords {
		return fmt.Errorf("%w: %d nodes need %d words; got %d", ErrTruncated, words[0], expWords, len(words))
	}
	return nil
}

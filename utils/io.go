package utils

import (
	"bufio"
	"io"
	"os"
	"path/filepath"

	"github.com/cheggaaa/pb/v3"
	"github.com/klauspost/pgzip"
)

var gzipMagic = []byte{0x1f, 0x8b}

type inputFile struct {
	io.Reader
	closers []func() error
}

func (in *inputFile) Close() error {
	var first error
	for i := len(in.closers) - 1; i >= 0; i-- {
		if err := in.closers[i](); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// OpenInput opens a plain or (b)gzipped text file. Compression is
// detected from the content rather than the extension. With progress
// enabled a byte progress bar over the raw file is drawn on stderr.
func OpenInput(path string, progress bool) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	in := &inputFile{closers: []func() error{f.Close}}

	var raw io.Reader = f
	if progress {
		fi, err := f.Stat()
		if err != nil {
			f.Close()
			return nil, err
		}
		bar := pb.Full.Start64(fi.Size())
		bar.Set(pb.Bytes, true)
		raw = bar.NewProxyReader(f)
		in.closers = append(in.closers, func() error {
			bar.Finish()
			return nil
		})
	}

	buffered := bufio.NewReader(raw)
	magic, _ := buffered.Peek(len(gzipMagic))
	if len(magic) == len(gzipMagic) && magic[0] == gzipMagic[0] && magic[1] == gzipMagic[1] {
		gr, err := pgzip.NewReader(buffered)
		if err != nil {
			in.Close()
			return nil, err
		}
		in.closers = append(in.closers, gr.Close)
		in.Reader = gr
	} else {
		in.Reader = buffered
	}

	return in, nil
}

// CreateOutput creates (or truncates) a file, creating its parent
// directories when missing.
func CreateOutput(path string) (*os.File, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, err
		}
	}
	return os.Create(path)
}

//go:build !unix

package mmap

func osMapFile(_ Descriptor, _ int64, _ int) ([]byte, func([]byte) error, error) {
	return nil, nil, ErrUnsupported
}

func osMapAnon(size int) ([]byte, func([]byte) error, error) {
	return make([]byte, size), nil, nil
}

func osSync(_ []byte) error { return nil }

func osAdvise(_ []byte, _ AccessPattern) error { return nil }

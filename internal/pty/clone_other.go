//go:build !unix

package pty

import (
	"errors"
	"os"
)

func cloneFile(f *os.File, role string) (*os.File, error) {
	return nil, errors.ErrUnsupported
}

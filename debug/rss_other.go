//go:build !windows

package debug

import (
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// processRSS reads the resident set size from /proc/self/statm.
func processRSS() (uint64, error) {
	data, err := os.ReadFile("/proc/self/statm")
	if err != nil {
		return 0, errors.Wrap(err, "read statm")
	}
	f := strings.Fields(string(data))
	if len(f) < 2 {
		return 0, errors.New("statm: unexpected format")
	}
	pages, err := strconv.ParseUint(f[1], 10, 64)
	if err != nil {
		return 0, errors.Wrap(err, "statm: resident")
	}
	return pages * uint64(os.Getpagesize()), nil
}

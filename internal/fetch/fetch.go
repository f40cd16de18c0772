// Package fetch retrieves a trace file over HTTP(S), for "apitrace dump
// --url" against a trace published by another machine.
package fetch

import (
	"io"
	"os"

	"github.com/levigross/grequests"
	"github.com/pkg/errors"
)

const userAgent = "apitrace-fetch"

// ToTemp downloads url and writes it to a new temp file, returning its
// path. The caller is responsible for removing it.
func ToTemp(url string) (path string, err error) {
	resp, err := grequests.Get(url, &grequests.RequestOptions{UserAgent: userAgent})
	if err != nil {
		return "", errors.Wrapf(err, "fetch %q", url)
	}
	defer resp.Close() // nolint: errcheck

	if !resp.Ok {
		return "", errors.Errorf("fetch %q: unexpected status %d", url, resp.StatusCode)
	}

	f, err := os.CreateTemp("", "apitrace-fetch-*.trace.gz")
	if err != nil {
		return "", errors.Wrap(err, "create temp file")
	}
	defer f.Close() // nolint: errcheck

	if _, err := io.Copy(f, resp); err != nil {
		os.Remove(f.Name()) // nolint: errcheck
		return "", errors.Wrapf(err, "write fetched trace to %q", f.Name())
	}
	return f.Name(), nil
}

package main

import (
	"os"

	"github.com/pkg/errors"

	"github.com/mysticbob/apitrace/internal/callfilter"
	"github.com/mysticbob/apitrace/internal/fetch"
	"github.com/mysticbob/apitrace/trace"
)

// resolvePath returns a local trace file path for either a local file
// argument or a --url flag, fetching the latter to a temp file.
func resolvePath(pathArg, url string) (path string, cleanup func(), err error) {
	if url != "" {
		p, err := fetch.ToTemp(url)
		if err != nil {
			return "", nil, err
		}
		return p, func() { os.Remove(p) }, nil // nolint: errcheck
	}
	if pathArg == "" {
		return "", nil, errors.New("either a trace file argument or --url is required")
	}
	return pathArg, func() {}, nil
}

// decodeAll reads every call from path, applying an optional --only
// filter. Fatal decode errors abort the whole read.
func decodeAll(path string, only []string) ([]*trace.Call, error) {
	p, err := trace.Open(path)
	if err != nil {
		return nil, err
	}
	defer p.Close() // nolint: errcheck

	filter := callfilter.New(only)

	var calls []*trace.Call
	for {
		call, err := p.NextCall()
		if err != nil {
			return calls, err
		}
		if call == nil {
			return calls, nil
		}
		if filter.Allow(call) {
			calls = append(calls, call)
		}
	}
}

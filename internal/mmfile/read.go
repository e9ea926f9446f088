package mmfile

import "bytes"

// ReadFile returns an owned copy of the file at path, reading it through a
// short-lived mapping.
func ReadFile(path string) ([]byte, error) {
	data, cleanup, err := Map(path)
	if err != nil {
		return nil, err
	}
	out := bytes.Clone(data)
	if out == nil {
		out = []byte{}
	}
	if err := cleanup(); err != nil {
		return nil, err
	}
	return out, nil
}

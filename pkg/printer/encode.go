package printer

import (
	"encoding/json"
	"fmt"

	"github.com/fxamacker/cbor/v2"
	"gopkg.in/yaml.v3"
)

// cborMode encodes with Core Deterministic Encoding so identical trees
// produce identical manifests.
var cborMode cbor.EncMode

func init() {
	opts := cbor.CoreDetEncOptions()
	opts.TextMarshaler = cbor.TextMarshalerTextString
	var err error
	cborMode, err = opts.EncMode()
	if err != nil {
		panic("printer: CBOR encoder initialization failed: " + err.Error())
	}
}

func (p *Printer) printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(p.writer, "%s\n", data)
	return err
}

func (p *Printer) printYAML(v any) error {
	enc := yaml.NewEncoder(p.writer)
	enc.SetIndent(p.opts.IndentSize)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

func (p *Printer) printCBOR(v any) error {
	data, err := cborMode.Marshal(v)
	if err != nil {
		return err
	}
	_, err = p.writer.Write(data)
	return err
}

// Command docodec inspects and converts document files. With only an input
// path it prints the document as indented JSON; with --out it re-encodes the
// document into the format the output extension names.
package main

import (
	"bytes"
	"fmt"
	"os"

	json "github.com/goccy/go-json"
	"github.com/spf13/pflag"

	"github.com/docodec/docodec/docio"
	"github.com/docodec/docodec/node"
)

func main() {
	out := pflag.StringP("out", "o", "", "write the document to this path instead of printing it")
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: docodec [--out FILE] INPUT\n\n")
		pflag.PrintDefaults()
	}
	pflag.Parse()

	if pflag.NArg() != 1 {
		pflag.Usage()
		os.Exit(2)
	}
	if err := run(pflag.Arg(0), *out); err != nil {
		fmt.Fprintln(os.Stderr, "docodec:", err)
		os.Exit(1)
	}
}

func run(in, out string) error {
	n, err := docio.Load(in)
	if err != nil {
		return err
	}
	if out != "" {
		return docio.Save(out, n)
	}
	data, err := node.EncodeJSON(n)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, data, "", "  "); err != nil {
		return err
	}
	buf.WriteByte('\n')
	_, err = os.Stdout.Write(buf.Bytes())
	return err
}

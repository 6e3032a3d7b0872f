package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/wippyai/metaobject/metatable"
)

var headerFields = [metatable.HeaderSize]string{
	"revision", "class name", "class info count", "class info index",
	"method count", "method index", "property count", "property index",
	"enum count", "enum index", "constructor count", "constructor index",
	"flags", "signal count",
}

// dump writes an annotated listing of a compiled class.
func dump(w io.Writer, md *metatable.Metadata) error {
	d, err := metatable.DecodeMetadata(md)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "class %s: %d words, %d pool bytes\n", d.Name, len(md.Table), len(md.Strings))
	fmt.Fprintf(w, "\n  header\n")
	for i, field := range headerFields {
		fmt.Fprintf(w, "  %4d  %-8d %s\n", i, md.Table[i], field)
	}

	if len(d.Methods) > 0 {
		fmt.Fprintf(w, "\n  methods\n")
		for _, m := range d.Methods {
			t := md.Table[m.Index : m.Index+metatable.MethodRecordSize]
			fmt.Fprintf(w, "  %4d  %-8d %-8d %-8d 0x%02x  %s %s [%q]\n",
				m.Index, t[0], t[1], t[2], t[3], m.Result, m.Signature, m.Parameters)
		}
	}

	if len(d.Properties) > 0 {
		fmt.Fprintf(w, "\n  properties\n")
		for _, p := range d.Properties {
			t := md.Table[p.Index : p.Index+metatable.PropertyRecordSize]
			fmt.Fprintf(w, "  %4d  %-8d %-8d 0x%04x  %s %s %s\n",
				p.Index, t[0], t[1], t[2], p.Type, p.Name, access(p))
		}
	}

	fmt.Fprintf(w, "\n  %4d  0        end\n", len(md.Table)-1)

	fmt.Fprintf(w, "\n  strings\n")
	off := 0
	for _, s := range strings.SplitAfter(string(md.Strings), "\x00") {
		if s == "" {
			continue
		}
		fmt.Fprintf(w, "  %4d  %q\n", off, strings.TrimSuffix(s, "\x00"))
		off += len(s)
	}
	return nil
}

func access(p metatable.DecodedProperty) string {
	if p.Writable() {
		return "read-write"
	}
	return "read-only"
}

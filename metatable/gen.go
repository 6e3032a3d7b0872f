package metatable

import (
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/dave/jennifer/jen"

	"github.com/wippyai/metaobject/errors"
)

const metatablePath = "github.com/wippyai/metaobject/metatable"

// GenerateGo writes a Go source file declaring each compiled class as a
// <Class>MetaData table, a <Class>StringData pool and a <Class>Metadata
// constructor, so a binding can embed precompiled tables.
func GenerateGo(w io.Writer, pkg string, classes ...*Metadata) error {
	if pkg == "" {
		return errors.InvalidInput(errors.PhaseConfig, "package name cannot be empty")
	}

	f := jen.NewFile(pkg)
	f.HeaderComment("Code generated by metac. DO NOT EDIT.")

	seen := make(map[string]bool, len(classes))
	for _, md := range classes {
		decoded, err := DecodeMetadata(md)
		if err != nil {
			return err
		}
		ident := goIdent(decoded.Name)
		if seen[ident] {
			return errors.Duplicate(errors.PhaseConfig, nil, "class", decoded.Name)
		}
		seen[ident] = true

		genClass(f, ident, decoded, md)
	}

	return f.Render(w)
}

func genClass(f *jen.File, ident string, decoded *Decoded, md *Metadata) {
	tableName := ident + "MetaData"
	poolName := ident + "StringData"

	words := make([]jen.Code, len(md.Table))
	for i, v := range md.Table {
		words[i] = jen.Lit(int(v))
	}

	f.Commentf("%s is the revision %d table of class %s (%d methods, %d properties).",
		tableName, Revision, decoded.Name, len(decoded.Methods), len(decoded.Properties))
	f.Var().Id(tableName).Op("=").Index().Uint32().Custom(jen.Options{
		Open:      "{",
		Close:     "}",
		Separator: ",",
		Multi:     true,
	}, words...)
	f.Line()

	f.Commentf("%s is the string pool referenced by %s.", poolName, tableName)
	f.Const().Id(poolName).Op("=").Lit(string(md.Strings))
	f.Line()

	f.Commentf("%sMetadata returns a fresh copy of the compiled class.", ident)
	f.Func().Id(ident+"Metadata").Params().Op("*").Qual(metatablePath, "Metadata").Block(
		jen.Return(jen.Op("&").Qual(metatablePath, "Metadata").Values(jen.Dict{
			jen.Id("Table"):   jen.Append(jen.Index().Uint32().Parens(jen.Nil()), jen.Id(tableName).Op("...")),
			jen.Id("Strings"): jen.Index().Byte().Parens(jen.Id(poolName)),
		})),
	)
}

// goIdent turns a class name into an exported Go identifier.
func goIdent(name string) string {
	var b strings.Builder
	for i, r := range name {
		switch {
		case unicode.IsLetter(r) || r == '_':
			if i == 0 {
				r = unicode.ToUpper(r)
			}
			b.WriteRune(r)
		case unicode.IsDigit(r):
			if i == 0 {
				b.WriteString("X")
			}
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	if b.Len() == 0 {
		return fmt.Sprintf("Class%d", len(name))
	}
	return b.String()
}

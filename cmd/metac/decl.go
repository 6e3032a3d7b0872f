package main

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/wippyai/metaobject/errors"
	"github.com/wippyai/metaobject/metatable"
)

// declFile is a classes.toml declaration file:
//
//	[[class]]
//	name = "Counter"
//
//	[[class.method]]
//	name = "add"
//	result = "int"
//	params = ["int"]
//
//	[[class.property]]
//	name = "value"
//	type = "int"
//	writable = true
type declFile struct {
	Class []classDecl `toml:"class"`
}

type classDecl struct {
	Name     string         `toml:"name"`
	Method   []methodDecl   `toml:"method"`
	Property []propertyDecl `toml:"property"`
}

type methodDecl struct {
	Name   string   `toml:"name"`
	Result string   `toml:"result"`
	Params []string `toml:"params"`
}

type propertyDecl struct {
	Name     string `toml:"name"`
	Type     string `toml:"type"`
	Writable bool   `toml:"writable"`
}

// loadDecls reads a declaration file.
func loadDecls(path string) ([]metatable.Class, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.ParseFailed(path, err)
	}
	return parseDecls(path, data)
}

func parseDecls(path string, data []byte) ([]metatable.Class, error) {
	var f declFile
	meta, err := toml.Decode(string(data), &f)
	if err != nil {
		return nil, errors.ParseFailed(path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, errors.ParseFailed(path, fmt.Errorf("unknown key %q", undecoded[0].String()))
	}
	if len(f.Class) == 0 {
		return nil, errors.InvalidInput(errors.PhaseConfig, path+" declares no classes")
	}

	classes := make([]metatable.Class, len(f.Class))
	for i, cd := range f.Class {
		c := metatable.Class{Name: cd.Name}
		for _, md := range cd.Method {
			// Defaults
			result := md.Result
			if result == "" {
				result = "void"
			}
			c.Methods = append(c.Methods, metatable.Method{
				Name:  md.Name,
				Types: append([]string{result}, md.Params...),
			})
		}
		for _, pd := range cd.Property {
			c.Properties = append(c.Properties, metatable.Property{
				Name:     pd.Name,
				Type:     pd.Type,
				Writable: pd.Writable,
			})
		}
		classes[i] = c
	}
	return classes, nil
}

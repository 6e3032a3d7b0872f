// Command metac compiles TOML class declarations into revision 5 metadata
// tables.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/wippyai/metaobject/errors"
	"github.com/wippyai/metaobject/metatable"
)

func main() {
	var (
		declFile    = flag.String("decl", "", "Path to class declaration TOML file")
		emit        = flag.String("emit", "dump", "Output format: dump, go or cbor")
		pkg         = flag.String("pkg", "metadata", "Package name for -emit go")
		output      = flag.String("o", "", "Output file (default stdout)")
		interactive = flag.Bool("i", false, "Interactive mode with TUI")
		verbose     = flag.Bool("v", false, "Verbose logging")
	)
	flag.Parse()

	if *declFile == "" {
		fmt.Fprintln(os.Stderr, "Usage: metac -decl <classes.toml> [-emit dump|go|cbor] [-pkg name] [-o file]")
		fmt.Fprintln(os.Stderr, "       metac -decl <classes.toml> -i  (interactive mode)")
		os.Exit(1)
	}

	log := zap.NewNop()
	if *verbose {
		l, err := zap.NewDevelopment()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		log = l
	}
	defer func() { _ = log.Sync() }()

	if *interactive {
		if err := runInteractive(*declFile, log); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := run(*declFile, *emit, *pkg, *output, log); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(declFile, emit, pkg, output string, log *zap.Logger) (err error) {
	if err := checkEmit(emit); err != nil {
		return err
	}
	compiled, err := compileFile(declFile, log)
	if err != nil {
		return err
	}

	var w io.Writer = os.Stdout
	if output != "" {
		f, ferr := os.Create(output)
		if ferr != nil {
			return fmt.Errorf("create output: %w", ferr)
		}
		defer func() {
			if cerr := f.Close(); cerr != nil && err == nil {
				err = fmt.Errorf("close output: %w", cerr)
			}
		}()
		w = f
	}

	if err := write(w, emit, pkg, compiled); err != nil {
		return err
	}
	log.Info("done", zap.String("emit", emit), zap.Int("classes", len(compiled)))
	return nil
}

func checkEmit(emit string) error {
	switch emit {
	case "dump", "go", "cbor":
		return nil
	default:
		return errors.InvalidInput(errors.PhaseConfig, fmt.Sprintf("unknown -emit format %q", emit))
	}
}

// compileFile loads a declaration file and compiles every class in it.
func compileFile(declFile string, log *zap.Logger) ([]*metatable.Metadata, error) {
	classes, err := loadDecls(declFile)
	if err != nil {
		return nil, err
	}

	compiled := make([]*metatable.Metadata, 0, len(classes))
	for _, c := range classes {
		md, err := metatable.Compile(c)
		if err != nil {
			return nil, err
		}
		log.Debug("compiled class",
			zap.String("class", c.Name),
			zap.Int("methods", len(c.Methods)),
			zap.Int("properties", len(c.Properties)),
			zap.Int("bytes", md.Size()))
		compiled = append(compiled, md)
	}
	return compiled, nil
}

func write(w io.Writer, emit, pkg string, compiled []*metatable.Metadata) error {
	switch emit {
	case "dump":
		for i, md := range compiled {
			if i > 0 {
				fmt.Fprintln(w)
			}
			if err := dump(w, md); err != nil {
				return err
			}
		}
		return nil
	case "go":
		return metatable.GenerateGo(w, pkg, compiled...)
	case "cbor":
		for _, md := range compiled {
			data, err := metatable.MarshalSnapshot(md)
			if err != nil {
				return err
			}
			if _, err := w.Write(data); err != nil {
				return err
			}
		}
		return nil
	default:
		return checkEmit(emit)
	}
}

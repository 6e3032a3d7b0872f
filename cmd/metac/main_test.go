package main

import (
	"bytes"
	stderrors "errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/wippyai/metaobject/errors"
	"github.com/wippyai/metaobject/metatable"
)

const counterDecl = `
[[class]]
name = "Counter"

[[class.method]]
name = "increment"
result = "Int"

[[class.method]]
name = "reset"

[[class.property]]
name = "value"
type = "Int"
writable = true

[[class]]
name = "Label"

[[class.method]]
name = "setText"
params = ["QString", "bool"]
`

func writeDecl(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "classes.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadDecls(t *testing.T) {
	classes, err := loadDecls(writeDecl(t, counterDecl))
	if err != nil {
		t.Fatalf("loadDecls failed: %v", err)
	}

	want := []metatable.Class{
		{
			Name: "Counter",
			Methods: []metatable.Method{
				{Name: "increment", Types: []string{"Int"}},
				{Name: "reset", Types: []string{"void"}},
			},
			Properties: []metatable.Property{{Name: "value", Type: "Int", Writable: true}},
		},
		{
			Name:    "Label",
			Methods: []metatable.Method{{Name: "setText", Types: []string{"void", "QString", "bool"}}},
		},
	}
	if !reflect.DeepEqual(classes, want) {
		t.Errorf("classes =\n%+v\nwant\n%+v", classes, want)
	}
}

func TestLoadDeclsErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		kind    errors.Kind
	}{
		{"syntax", "[[class]\nname = 1", errors.KindInvalidData},
		{"unknown key", "[[class]]\nname = \"A\"\ncolour = \"red\"\n", errors.KindInvalidData},
		{"no classes", "# nothing\n", errors.KindInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := loadDecls(writeDecl(t, tt.content))
			if !stderrors.Is(err, &errors.Error{Phase: errors.PhaseConfig, Kind: tt.kind}) {
				t.Errorf("err = %v, want config/%s", err, tt.kind)
			}
		})
	}

	if _, err := loadDecls(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Error("missing file accepted")
	}
}

func TestWriteFormats(t *testing.T) {
	compiled, err := compileFile(writeDecl(t, counterDecl), zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}

	t.Run("dump", func(t *testing.T) {
		var buf bytes.Buffer
		if err := write(&buf, "dump", "", compiled); err != nil {
			t.Fatal(err)
		}
		out := buf.String()
		for _, want := range []string{
			"class Counter: 26 words",
			"method count",
			"Int increment() [\"\"]",
			"void reset()",
			"Int value read-write",
			"class Label",
			"void setText(QString,bool) [\",\"]",
		} {
			if !strings.Contains(out, want) {
				t.Errorf("dump missing %q:\n%s", want, out)
			}
		}
	})

	t.Run("go", func(t *testing.T) {
		var buf bytes.Buffer
		if err := write(&buf, "go", "widgets", compiled); err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(buf.String(), "package widgets") || !strings.Contains(buf.String(), "LabelMetaData") {
			t.Errorf("unexpected Go output:\n%s", buf.String())
		}
	})

	t.Run("cbor", func(t *testing.T) {
		var buf bytes.Buffer
		if err := write(&buf, "cbor", "", compiled[:1]); err != nil {
			t.Fatal(err)
		}
		md, err := metatable.UnmarshalSnapshot(buf.Bytes())
		if err != nil {
			t.Fatal(err)
		}
		if !reflect.DeepEqual(md, compiled[0]) {
			t.Error("cbor output does not round trip")
		}
	})

	t.Run("unknown", func(t *testing.T) {
		if err := write(&bytes.Buffer{}, "yaml", "", compiled); err == nil {
			t.Error("unknown format accepted")
		}
	})
}

func TestRunOutputFile(t *testing.T) {
	decl := writeDecl(t, counterDecl)
	dir := t.TempDir()

	t.Run("unknown format leaves no file", func(t *testing.T) {
		out := filepath.Join(dir, "table.yaml")
		err := run(decl, "yaml", "", out, zap.NewNop())
		if !stderrors.Is(err, &errors.Error{Phase: errors.PhaseConfig, Kind: errors.KindInvalidInput}) {
			t.Errorf("err = %v, want config/invalid_input", err)
		}
		if _, statErr := os.Stat(out); !os.IsNotExist(statErr) {
			t.Errorf("output file exists after rejected format: %v", statErr)
		}
	})

	t.Run("cbor written", func(t *testing.T) {
		out := filepath.Join(dir, "table.cbor")
		if err := run(decl, "cbor", "", out, zap.NewNop()); err != nil {
			t.Fatal(err)
		}
		data, err := os.ReadFile(out)
		if err != nil {
			t.Fatal(err)
		}
		if len(data) == 0 {
			t.Error("output file is empty")
		}
	})
}

func TestCompileFileRejectsBadClass(t *testing.T) {
	path := writeDecl(t, "[[class]]\nname = \"A\"\n[[class.method]]\nname = \"m\"\n[[class.method]]\nname = \"m\"\n")
	_, err := compileFile(path, zap.NewNop())
	if !stderrors.Is(err, &errors.Error{Phase: errors.PhaseCompile, Kind: errors.KindDuplicate}) {
		t.Errorf("err = %v, want duplicate", err)
	}
}

func TestBrowserModel(t *testing.T) {
	m := newBrowserModel(writeDecl(t, counterDecl), zap.NewNop())

	msg := m.loadClasses()
	model, _ := m.Update(msg)
	m = model.(*browserModel)
	if len(m.visible) != 2 {
		t.Fatalf("visible = %v, want both classes", m.visible)
	}
	if !strings.Contains(m.View(), "Counter") {
		t.Error("class list does not show Counter")
	}

	m.Update(tea.KeyMsg{Type: tea.KeyDown})
	if m.selected != 1 {
		t.Errorf("selected = %d after down", m.selected)
	}

	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if m.state != stateShowClass {
		t.Fatal("enter did not open the class")
	}
	if view := m.View(); !strings.Contains(view, "setText(QString,bool)") {
		t.Errorf("detail view missing method:\n%s", view)
	}

	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if m.state != stateSelectClass {
		t.Error("esc did not return to the list")
	}

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("lab")})
	if len(m.visible) != 1 || m.classes[m.visible[0]].decoded.Name != "Label" {
		t.Errorf("filter left %v", m.visible)
	}
	if m.selected != 0 {
		t.Errorf("selected = %d after filtering", m.selected)
	}
}

func TestBrowserModelLoadError(t *testing.T) {
	m := newBrowserModel(filepath.Join(t.TempDir(), "missing.toml"), zap.NewNop())
	m.Update(m.loadClasses())
	if !strings.Contains(m.View(), "Error:") {
		t.Error("load error not shown")
	}
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Error("q did not quit after an error")
	}
}

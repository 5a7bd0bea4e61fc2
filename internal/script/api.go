package script

import (
	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/vix/internal/engine/buffer"
)

// documentModule implements the doc table.
type documentModule struct {
	buf *buffer.Buffer
}

func registerDocument(L *lua.LState, buf *buffer.Buffer) {
	m := &documentModule{buf: buf}
	mod := L.NewTable()

	L.SetField(mod, "insert", L.NewFunction(m.insert))
	L.SetField(mod, "delete", L.NewFunction(m.delete))
	L.SetField(mod, "replace", L.NewFunction(m.replace))
	L.SetField(mod, "text", L.NewFunction(m.text))
	L.SetField(mod, "line", L.NewFunction(m.line))
	L.SetField(mod, "line_count", L.NewFunction(m.lineCount))
	L.SetField(mod, "len", L.NewFunction(m.docLen))
	L.SetField(mod, "width", L.NewFunction(m.width))
	L.SetField(mod, "position", L.NewFunction(m.position))
	L.SetField(mod, "offset", L.NewFunction(m.offset))

	L.SetGlobal("doc", mod)
}

// insert(offset, text) -> end offset
func (m *documentModule) insert(L *lua.LState) int {
	offset := L.CheckInt(1)
	text := L.CheckString(2)
	if offset < 0 {
		L.ArgError(1, "offset must be non-negative")
		return 0
	}

	end, err := m.buf.Insert(offset, text)
	if err != nil {
		L.RaiseError("insert: %v", err)
		return 0
	}
	L.Push(lua.LNumber(end))
	return 1
}

// delete(offset, count)
func (m *documentModule) delete(L *lua.LState) int {
	offset := L.CheckInt(1)
	count := L.CheckInt(2)
	if offset < 0 {
		L.ArgError(1, "offset must be non-negative")
		return 0
	}
	if count < 0 {
		L.ArgError(2, "count must be non-negative")
		return 0
	}

	if err := m.buf.Delete(offset, count); err != nil {
		L.RaiseError("delete: %v", err)
	}
	return 0
}

// replace(offset, count, text) -> end offset
func (m *documentModule) replace(L *lua.LState) int {
	offset := L.CheckInt(1)
	count := L.CheckInt(2)
	text := L.CheckString(3)
	if offset < 0 {
		L.ArgError(1, "offset must be non-negative")
		return 0
	}
	if count < 0 {
		L.ArgError(2, "count must be non-negative")
		return 0
	}

	end, err := m.buf.Replace(offset, count, text)
	if err != nil {
		L.RaiseError("replace: %v", err)
		return 0
	}
	L.Push(lua.LNumber(end))
	return 1
}

// text([start, end]) -> string
func (m *documentModule) text(L *lua.LState) int {
	if L.GetTop() == 0 {
		L.Push(lua.LString(m.buf.Text()))
		return 1
	}

	start := L.CheckInt(1)
	end := L.OptInt(2, m.buf.Len())
	text, err := m.buf.TextRange(start, end)
	if err != nil {
		L.RaiseError("text: %v", err)
		return 0
	}
	L.Push(lua.LString(text))
	return 1
}

// line(index) -> string
func (m *documentModule) line(L *lua.LState) int {
	text, err := m.buf.LineText(L.CheckInt(1))
	if err != nil {
		L.RaiseError("line: %v", err)
		return 0
	}
	L.Push(lua.LString(text))
	return 1
}

// line_count() -> number
func (m *documentModule) lineCount(L *lua.LState) int {
	L.Push(lua.LNumber(m.buf.LineCount()))
	return 1
}

// len() -> number
func (m *documentModule) docLen(L *lua.LState) int {
	L.Push(lua.LNumber(m.buf.Len()))
	return 1
}

// width(index) -> number
func (m *documentModule) width(L *lua.LState) int {
	w, err := m.buf.LineWidth(L.CheckInt(1))
	if err != nil {
		L.RaiseError("width: %v", err)
		return 0
	}
	L.Push(lua.LNumber(w))
	return 1
}

// position(offset) -> line, column
func (m *documentModule) position(L *lua.LState) int {
	p, err := m.buf.OffsetToPoint(L.CheckInt(1))
	if err != nil {
		L.RaiseError("position: %v", err)
		return 0
	}
	L.Push(lua.LNumber(p.Line))
	L.Push(lua.LNumber(p.Column))
	return 2
}

// offset(line, column) -> offset
func (m *documentModule) offset(L *lua.LState) int {
	off, err := m.buf.PointToOffset(buffer.Point{Line: L.CheckInt(1), Column: L.CheckInt(2)})
	if err != nil {
		L.RaiseError("offset: %v", err)
		return 0
	}
	L.Push(lua.LNumber(off))
	return 1
}

package patch

import (
	"bytes"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/xtding233/jetsoftime/internal/bossdata"
)

var ErrNoFunction = errors.New("script function not found")

// FuncRef names one function of one script object.
type FuncRef struct {
	Object   int
	Function int
}

// Span is a half-open byte range [Start, End) within a script.
type Span struct {
	Start int
	End   int
}

// Script is a decoded event script. Functions maps each object function to
// the bytes it occupies in Data. Commands, when known, lists the offset of
// every command in ascending order.
type Script struct {
	Data      []byte
	Functions map[FuncRef]Span
	Commands  []int
}

// Clone returns a copy that shares nothing with s.
func (s *Script) Clone() *Script {
	out := &Script{
		Data:     append([]byte(nil), s.Data...),
		Commands: append([]int(nil), s.Commands...),
	}
	if s.Functions != nil {
		out.Functions = make(map[FuncRef]Span, len(s.Functions))
		for k, v := range s.Functions {
			out.Functions[k] = v
		}
	}
	return out
}

// FunctionSpan returns where function fn of object obj lives.
func (s *Script) FunctionSpan(obj, fn int) (Span, error) {
	sp, ok := s.Functions[FuncRef{Object: obj, Function: fn}]
	if !ok {
		return Span{}, fmt.Errorf("%w: object 0x%02X function %d", ErrNoFunction, obj, fn)
	}
	if sp.Start < 0 || sp.End > len(s.Data) || sp.Start > sp.End {
		return Span{}, fmt.Errorf("%w: object 0x%02X function %d span [%d,%d) outside %d byte script",
			ErrOutOfRange, obj, fn, sp.Start, sp.End, len(s.Data))
	}
	return sp, nil
}

func (s *Script) clamp(start, end int) (int, int) {
	if start < 0 {
		start = 0
	}
	if end > len(s.Data) {
		end = len(s.Data)
	}
	return start, end
}

// FindCommand returns the position of the first command in [start, end)
// whose opcode is one of opcodes. With Commands recorded only command starts
// are checked. Without them every byte is a candidate, so an operand equal to
// an opcode also matches.
func (s *Script) FindCommand(opcodes []byte, start, end int) (int, bool) {
	start, end = s.clamp(start, end)
	if len(s.Commands) > 0 {
		i := sort.SearchInts(s.Commands, start)
		for ; i < len(s.Commands) && s.Commands[i] < end; i++ {
			if pos := s.Commands[i]; bytes.IndexByte(opcodes, s.Data[pos]) >= 0 {
				return pos, true
			}
		}
		return 0, false
	}
	for pos := start; pos < end; pos++ {
		if bytes.IndexByte(opcodes, s.Data[pos]) >= 0 {
			return pos, true
		}
	}
	return 0, false
}

// FindExact returns the position of the first complete copy of cmd that lies
// inside [start, end). With Commands recorded the copy must begin at a
// command start.
func (s *Script) FindExact(cmd []byte, start, end int) (int, bool) {
	start, end = s.clamp(start, end)
	if len(cmd) == 0 || start >= end {
		return 0, false
	}
	if len(s.Commands) > 0 {
		i := sort.SearchInts(s.Commands, start)
		for ; i < len(s.Commands) && s.Commands[i]+len(cmd) <= end; i++ {
			if pos := s.Commands[i]; bytes.Equal(s.Data[pos:pos+len(cmd)], cmd) {
				return pos, true
			}
		}
		return 0, false
	}
	i := bytes.Index(s.Data[start:end], cmd)
	if i < 0 {
		return 0, false
	}
	return start + i, true
}

// ScriptSource hands out decoded event scripts by location. Returned scripts
// are live: edits are kept by the source. Wrap a shared source in
// ScriptCopies before patching.
type ScriptSource interface {
	Script(loc bossdata.LocID) (*Script, error)
}

// ScriptTable is an in-memory ScriptSource.
type ScriptTable struct {
	mu      sync.Mutex
	scripts map[bossdata.LocID]*Script
}

func NewScriptTable() *ScriptTable {
	return &ScriptTable{scripts: make(map[bossdata.LocID]*Script)}
}

// Put registers the script of loc, replacing any previous one.
func (t *ScriptTable) Put(loc bossdata.LocID, s *Script) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.scripts[loc] = s
}

func (t *ScriptTable) Script(loc bossdata.LocID) (*Script, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	s, ok := t.scripts[loc]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoScripts, loc)
	}
	return s, nil
}

// ScriptCopies gives one patch run private copies of the scripts of a shared
// source. A script is copied the first time it is asked for.
type ScriptCopies struct {
	src    ScriptSource
	mu     sync.Mutex
	copies map[bossdata.LocID]*Script
	orig   map[bossdata.LocID][]byte
}

func NewScriptCopies(src ScriptSource) *ScriptCopies {
	return &ScriptCopies{
		src:    src,
		copies: make(map[bossdata.LocID]*Script),
		orig:   make(map[bossdata.LocID][]byte),
	}
}

func (c *ScriptCopies) Script(loc bossdata.LocID) (*Script, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if s, ok := c.copies[loc]; ok {
		return s, nil
	}
	shared, err := c.src.Script(loc)
	if err != nil {
		return nil, err
	}
	s := shared.Clone()
	c.copies[loc] = s
	c.orig[loc] = append([]byte(nil), shared.Data...)
	return s, nil
}

// Changed returns the copies whose bytes differ from the source.
func (c *ScriptCopies) Changed() map[bossdata.LocID]*Script {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[bossdata.LocID]*Script)
	for loc, s := range c.copies {
		if !bytes.Equal(s.Data, c.orig[loc]) {
			out[loc] = s
		}
	}
	return out
}

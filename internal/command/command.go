// Package command defines the tagged-variant message envelope that carries
// instructions from the musical-event detector into the lighting compositor,
// and diagnostic/output frames back out.
package command

import (
	"fmt"

	"github.com/rotisserie/eris"
)

// Kind identifies which field of a Payload is populated.
type Kind int

const (
	KindDouble Kind = iota
	KindBool
	KindString
	KindInt
	KindVecInt
	KindVecDouble
	KindBytes
)

func (k Kind) String() string {
	switch k {
	case KindDouble:
		return "double"
	case KindBool:
		return "bool"
	case KindString:
		return "string"
	case KindInt:
		return "int"
	case KindVecInt:
		return "[]int"
	case KindVecDouble:
		return "[]float64"
	case KindBytes:
		return "bytes"
	default:
		return "unknown"
	}
}

// Payload is a closed tagged union over the value shapes a Command can carry.
// Exactly one of the typed fields is meaningful, selected by Kind.
type Payload struct {
	kind      Kind
	double    float64
	boolean   bool
	str       string
	integer   int
	vecInt    []int
	vecDouble []float64
	bytes     []byte
}

func Double(v float64) Payload     { return Payload{kind: KindDouble, double: v} }
func Bool(v bool) Payload          { return Payload{kind: KindBool, boolean: v} }
func String(v string) Payload      { return Payload{kind: KindString, str: v} }
func Int(v int) Payload            { return Payload{kind: KindInt, integer: v} }
func VecInt(v []int) Payload       { return Payload{kind: KindVecInt, vecInt: v} }
func VecDouble(v []float64) Payload { return Payload{kind: KindVecDouble, vecDouble: v} }
func Bytes(v []byte) Payload       { return Payload{kind: KindBytes, bytes: v} }

// Kind reports which accessor is valid for this payload.
func (p Payload) Kind() Kind { return p.kind }

func (p Payload) mismatch(want Kind) error {
	return eris.Errorf("command: payload is %s, want %s", p.kind, want)
}

func (p Payload) AsDouble() (float64, error) {
	if p.kind != KindDouble {
		return 0, p.mismatch(KindDouble)
	}
	return p.double, nil
}

func (p Payload) AsBool() (bool, error) {
	if p.kind != KindBool {
		return false, p.mismatch(KindBool)
	}
	return p.boolean, nil
}

func (p Payload) AsString() (string, error) {
	if p.kind != KindString {
		return "", p.mismatch(KindString)
	}
	return p.str, nil
}

func (p Payload) AsInt() (int, error) {
	if p.kind != KindInt {
		return 0, p.mismatch(KindInt)
	}
	return p.integer, nil
}

func (p Payload) AsVecInt() ([]int, error) {
	if p.kind != KindVecInt {
		return nil, p.mismatch(KindVecInt)
	}
	return p.vecInt, nil
}

func (p Payload) AsVecDouble() ([]float64, error) {
	if p.kind != KindVecDouble {
		return nil, p.mismatch(KindVecDouble)
	}
	return p.vecDouble, nil
}

func (p Payload) AsBytes() ([]byte, error) {
	if p.kind != KindBytes {
		return nil, p.mismatch(KindBytes)
	}
	return p.bytes, nil
}

// Command is an address-tagged instruction or output frame passed between
// Block B and Block C.
type Command struct {
	Address string
	Payload Payload
}

func New(address string, payload Payload) Command {
	return Command{Address: address, Payload: payload}
}

func (c Command) String() string {
	return fmt.Sprintf("%s<%s>", c.Address, c.Payload.Kind())
}

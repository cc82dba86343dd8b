package node

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"

	json "github.com/goccy/go-json"
)

// EncodeJSON renders the tree as compact JSON. Object keys keep their
// insertion order, which makes the output canonical for a given tree and
// usable as a content fingerprint input. Non-finite numbers and Unset nodes
// are rejected since JSON cannot represent them.
func EncodeJSON(n *Node) ([]byte, error) {
	var b bytes.Buffer
	if err := encodeJSON(&b, n); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}

func encodeJSON(b *bytes.Buffer, n *Node) error {
	if n == nil {
		return errors.New("node: cannot encode nil node")
	}
	switch n.kind {
	case Unset:
		return errors.New("node: cannot encode unset node")
	case Null:
		b.WriteString("null")
	case Bool:
		if n.boolv {
			b.WriteString("true")
		} else {
			b.WriteString("false")
		}
	case Number:
		if math.IsNaN(n.numv) || math.IsInf(n.numv, 0) {
			return fmt.Errorf("node: cannot encode non-finite number %g", n.numv)
		}
		b.Write(strconv.AppendFloat(nil, n.numv, 'g', -1, 64))
	case String:
		esc, err := json.Marshal(n.strv)
		if err != nil {
			return err
		}
		b.Write(esc)
	case Array:
		b.WriteByte('[')
		for i, e := range n.elems {
			if i > 0 {
				b.WriteByte(',')
			}
			if err := encodeJSON(b, e); err != nil {
				return err
			}
		}
		b.WriteByte(']')
	case Object:
		b.WriteByte('{')
		for i, k := range n.keys {
			if i > 0 {
				b.WriteByte(',')
			}
			esc, err := json.Marshal(k)
			if err != nil {
				return err
			}
			b.Write(esc)
			b.WriteByte(':')
			if err := encodeJSON(b, n.byKey[k]); err != nil {
				return err
			}
		}
		b.WriteByte('}')
	}
	return nil
}

// DecodeJSON parses one JSON value into a tree, preserving object key order.
// Trailing non-whitespace input is an error.
func DecodeJSON(data []byte) (*Node, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	n, err := decodeJSONValue(dec)
	if err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.New("node: trailing data after JSON value")
	}
	return n, nil
}

func decodeJSONValue(dec *json.Decoder) (*Node, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	return decodeJSONToken(dec, tok)
}

func decodeJSONToken(dec *json.Decoder, tok json.Token) (*Node, error) {
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			out := NewObject()
			for dec.More() {
				kt, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key, ok := kt.(string)
				if !ok {
					return nil, fmt.Errorf("node: object key is %T, not string", kt)
				}
				val, err := decodeJSONValue(dec)
				if err != nil {
					return nil, err
				}
				if _, dup := out.byKey[key]; dup {
					return nil, fmt.Errorf("node: duplicate object key %q", key)
				}
				out.keys = append(out.keys, key)
				out.byKey[key] = val
			}
			if _, err := dec.Token(); err != nil { // closing '}'
				return nil, err
			}
			return out, nil
		case '[':
			out := NewArray()
			for dec.More() {
				val, err := decodeJSONValue(dec)
				if err != nil {
					return nil, err
				}
				out.elems = append(out.elems, val)
			}
			if _, err := dec.Token(); err != nil { // closing ']'
				return nil, err
			}
			return out, nil
		}
		return nil, fmt.Errorf("node: unexpected delimiter %v", t)
	case bool:
		return NewBool(t), nil
	case string:
		return NewString(t), nil
	case json.Number:
		f, err := strconv.ParseFloat(t.String(), 64)
		if err != nil {
			return nil, fmt.Errorf("node: bad number %q: %w", t.String(), err)
		}
		return NewNumber(f), nil
	case nil:
		return NewNull(), nil
	}
	return nil, fmt.Errorf("node: unexpected token %T", tok)
}

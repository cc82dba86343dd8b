package node

import (
	"reflect"

	"github.com/fxamacker/cbor/v2"
)

// cborEnc uses Core Deterministic Encoding (RFC 8949 §4.2): sorted map keys,
// smallest integer encoding, no indefinite-length items. The same tree always
// produces identical bytes.
var cborEnc cbor.EncMode

// cborDec accepts standard CBOR and decodes any-typed maps as map[string]any
// so the result feeds straight into FromAny.
var cborDec cbor.DecMode

func init() {
	var err error
	cborEnc, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("node: CBOR encoder initialization failed: " + err.Error())
	}
	cborDec, err = cbor.DecOptions{
		DefaultMapType: reflect.TypeOf(map[string]any(nil)),
	}.DecMode()
	if err != nil {
		panic("node: CBOR decoder initialization failed: " + err.Error())
	}
}

// EncodeCBOR renders the tree as deterministically encoded CBOR. Object key
// insertion order is not preserved; CBOR output orders keys canonically.
func EncodeCBOR(n *Node) ([]byte, error) {
	return cborEnc.Marshal(n.Interface())
}

// DecodeCBOR parses CBOR bytes into a tree. Integers become numbers; object
// keys come back sorted.
func DecodeCBOR(data []byte) (*Node, error) {
	var v any
	if err := cborDec.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	return FromAny(v)
}

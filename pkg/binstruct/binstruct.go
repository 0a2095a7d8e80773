// Package binstruct decodes the packed, little-endian, byte-exact
// structures that make up the on-disk btrfs format. Struct fields are
// annotated with `bin:"off=...,siz=..."` tags; the offsets and sizes
// are cross-checked against each other at first use, so a typo in a
// struct definition fails loudly instead of silently misreading bytes.
//
// Types that need framing binstruct can't express declaratively
// (variable-length trailers, tagged unions) implement Unmarshaler by
// hand; binstruct defers to it before falling back to its own
// reflection-driven decoding.
package binstruct

import (
	"encoding/binary"
	"fmt"
	"reflect"
)

// Unmarshaler is implemented by types that need custom framing logic
// beyond what a `bin:"off=...,siz=..."`-tagged struct can express. It
// returns the number of bytes of dat it consumed.
type Unmarshaler interface {
	UnmarshalBinary(dat []byte) (int, error)
}

// StaticSizer is implemented by types whose on-the-wire size can't be
// derived from their reflected Go representation (e.g. NodeFlags,
// which is a uint64 truncated to 7 bytes on disk).
type StaticSizer interface {
	BinaryStaticSize() int
}

var staticSizerType = reflect.TypeOf((*StaticSizer)(nil)).Elem()

// Unmarshal decodes dat into dstPtr (which must be a non-nil pointer)
// and returns the number of bytes of dat that were consumed.
func Unmarshal(dat []byte, dstPtr interface{}) (int, error) {
	if u, ok := dstPtr.(Unmarshaler); ok {
		return u.UnmarshalBinary(dat)
	}

	ptrVal := reflect.ValueOf(dstPtr)
	if ptrVal.Kind() != reflect.Ptr || ptrVal.IsNil() {
		return 0, fmt.Errorf("binstruct.Unmarshal: dst must be a non-nil pointer, got %T", dstPtr)
	}
	return unmarshalValue(dat, ptrVal.Elem())
}

// UnmarshalWithoutInterface decodes dat into dstPtr using only the
// struct-tag-driven reflection path, even if dstPtr's type implements
// Unmarshaler. This is for an Unmarshaler implementation that wants to
// decode its own fixed-size prefix before hand-rolling the rest.
func UnmarshalWithoutInterface(dat []byte, dstPtr interface{}) (int, error) {
	ptrVal := reflect.ValueOf(dstPtr)
	if ptrVal.Kind() != reflect.Ptr || ptrVal.IsNil() {
		return 0, fmt.Errorf("binstruct.UnmarshalWithoutInterface: dst must be a non-nil pointer, got %T", dstPtr)
	}
	return unmarshalValue(dat, ptrVal.Elem())
}

func unmarshalValue(dat []byte, dst reflect.Value) (int, error) {
	typ := dst.Type()

	if typ == endType {
		return 0, nil
	}

	switch typ.Kind() {
	case reflect.Struct:
		return getStructHandler(typ).Unmarshal(dat, dst)
	case reflect.Array:
		elemSize, err := staticSize(typ.Elem())
		if err != nil {
			return 0, err
		}
		n := 0
		for i := 0; i < typ.Len(); i++ {
			_n, err := unmarshalValue(dat[n:], dst.Index(i))
			n += _n
			if err != nil {
				return n, err
			}
			if _n != elemSize {
				return n, fmt.Errorf("binstruct: array element %d: consumed %d bytes, expected %d", i, _n, elemSize)
			}
		}
		return n, nil
	case reflect.Uint8:
		if err := needBytes(dat, 1); err != nil {
			return 0, err
		}
		dst.SetUint(uint64(dat[0]))
		return 1, nil
	case reflect.Uint16:
		if err := needBytes(dat, 2); err != nil {
			return 0, err
		}
		dst.SetUint(uint64(binary.LittleEndian.Uint16(dat)))
		return 2, nil
	case reflect.Uint32:
		if err := needBytes(dat, 4); err != nil {
			return 0, err
		}
		dst.SetUint(uint64(binary.LittleEndian.Uint32(dat)))
		return 4, nil
	case reflect.Uint64, reflect.Uint:
		if err := needBytes(dat, 8); err != nil {
			return 0, err
		}
		dst.SetUint(binary.LittleEndian.Uint64(dat))
		return 8, nil
	case reflect.Int8:
		if err := needBytes(dat, 1); err != nil {
			return 0, err
		}
		dst.SetInt(int64(int8(dat[0])))
		return 1, nil
	case reflect.Int16:
		if err := needBytes(dat, 2); err != nil {
			return 0, err
		}
		dst.SetInt(int64(int16(binary.LittleEndian.Uint16(dat))))
		return 2, nil
	case reflect.Int32:
		if err := needBytes(dat, 4); err != nil {
			return 0, err
		}
		dst.SetInt(int64(int32(binary.LittleEndian.Uint32(dat))))
		return 4, nil
	case reflect.Int64, reflect.Int:
		if err := needBytes(dat, 8); err != nil {
			return 0, err
		}
		dst.SetInt(int64(binary.LittleEndian.Uint64(dat)))
		return 8, nil
	default:
		return 0, fmt.Errorf("binstruct: don't know how to unmarshal %v", typ)
	}
}

func needBytes(dat []byte, n int) error {
	if len(dat) < n {
		return fmt.Errorf("binstruct: need %d bytes, only have %d", n, len(dat))
	}
	return nil
}

// StaticSize returns the on-disk size, in bytes, of a value's type.
// It panics if the type's size can't be determined statically (e.g. it
// contains a slice with no custom Unmarshaler).
func StaticSize(v interface{}) int {
	n, err := staticSize(reflect.TypeOf(v))
	if err != nil {
		panic(err)
	}
	return n
}

func staticSize(typ reflect.Type) (int, error) {
	if reflect.PointerTo(typ).Implements(staticSizerType) {
		return reflect.New(typ).Interface().(StaticSizer).BinaryStaticSize(), nil
	}
	if typ.Implements(staticSizerType) {
		return reflect.Zero(typ).Interface().(StaticSizer).BinaryStaticSize(), nil
	}

	if typ == endType {
		return 0, nil
	}

	switch typ.Kind() {
	case reflect.Struct:
		return getStructHandler(typ).Size, nil
	case reflect.Array:
		elemSize, err := staticSize(typ.Elem())
		if err != nil {
			return 0, err
		}
		return elemSize * typ.Len(), nil
	case reflect.Uint8, reflect.Int8:
		return 1, nil
	case reflect.Uint16, reflect.Int16:
		return 2, nil
	case reflect.Uint32, reflect.Int32:
		return 4, nil
	case reflect.Uint64, reflect.Int64, reflect.Uint, reflect.Int:
		return 8, nil
	default:
		return 0, fmt.Errorf("binstruct: %v has no static size", typ)
	}
}

package decode

import (
	"encoding"
	"reflect"
	"strings"
	"sync"
)

var (
	unmarshalerType     = reflect.TypeFor[Unmarshaler]()
	textUnmarshalerType = reflect.TypeFor[encoding.TextUnmarshaler]()
	strictType          = reflect.TypeFor[Strict]()
)

// fieldOpts are per-field options parsed from the `oconfig` tag.
type fieldOpts struct {
	char bool
}

type fieldInfo struct {
	key      string
	index    int
	required bool
	opts     fieldOpts
}

type structInfo struct {
	fields []fieldInfo
	byKey  map[string]int
	strict bool
}

func (si *structInfo) keys() []string {
	keys := make([]string, len(si.fields))
	for i, f := range si.fields {
		keys[i] = f.key
	}
	return keys
}

var structCache sync.Map // map[reflect.Type]*structInfo

func structInfoFor(t reflect.Type) *structInfo {
	if cached, ok := structCache.Load(t); ok {
		return cached.(*structInfo)
	}

	si := &structInfo{
		byKey:  make(map[string]int),
		strict: reflect.PointerTo(t).Implements(strictType),
	}
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}
		tag := sf.Tag.Get("oconfig")
		if tag == "-" {
			continue
		}
		parts := strings.Split(tag, ",")
		fi := fieldInfo{key: parts[0], index: i}
		if fi.key == "" {
			fi.key = sf.Name
		}
		for _, opt := range parts[1:] {
			switch opt {
			case "required":
				fi.required = true
			case "char":
				fi.opts.char = true
			}
		}
		if _, dup := si.byKey[fi.key]; dup {
			continue
		}
		si.byKey[fi.key] = len(si.fields)
		si.fields = append(si.fields, fi)
	}

	actual, _ := structCache.LoadOrStore(t, si)
	return actual.(*structInfo)
}

// decodeValue is the reflection fallback used for types that do not decode
// themselves. rv must be settable.
func (d *Decoder) decodeValue(rv reflect.Value, fo fieldOpts) error {
	if rv.CanAddr() {
		pv := rv.Addr()
		if pv.Type().Implements(unmarshalerType) {
			return wrapCustom(pv.Interface().(Unmarshaler).UnmarshalConfig(d))
		}
		if pv.Type().Implements(textUnmarshalerType) {
			s, err := d.ReadString()
			if err != nil {
				return err
			}
			return wrapCustom(pv.Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(s)))
		}
	}

	switch rv.Kind() {
	case reflect.Bool:
		b, err := d.ReadBool()
		if err != nil {
			return err
		}
		rv.SetBool(b)

	case reflect.Int32:
		if fo.char {
			r, err := d.ReadChar()
			if err != nil {
				return err
			}
			rv.SetInt(int64(r))
			return nil
		}
		fallthrough
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int64:
		n, err := d.ReadInt(rv.Type().Bits())
		if err != nil {
			return err
		}
		rv.SetInt(n)

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		n, err := d.ReadUint(rv.Type().Bits())
		if err != nil {
			return err
		}
		rv.SetUint(n)

	case reflect.Float32, reflect.Float64:
		f, err := d.ReadFloat(rv.Type().Bits())
		if err != nil {
			return err
		}
		rv.SetFloat(f)

	case reflect.String:
		s, err := d.ReadString()
		if err != nil {
			return err
		}
		rv.SetString(s)

	case reflect.Pointer:
		return d.ReadOption(func(d *Decoder) error {
			if rv.IsNil() {
				rv.Set(reflect.New(rv.Type().Elem()))
			}
			return d.decodeValue(rv.Elem(), fo)
		})

	case reflect.Slice:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return d.ReadAny()
		}
		return d.decodeSlice(rv, fo)

	case reflect.Struct:
		return d.decodeStruct(rv)

	default:
		return d.ReadAny()
	}
	return nil
}

func (d *Decoder) decodeSlice(rv reflect.Value, fo fieldOpts) error {
	elemType := rv.Type().Elem()
	return d.ReadSeq(func(it *SeqIter) error {
		out := reflect.MakeSlice(rv.Type(), 0, it.Len())
		for {
			ok, err := it.Next()
			if err != nil {
				return err
			}
			if !ok {
				break
			}
			elem := reflect.New(elemType).Elem()
			if err := d.decodeValue(elem, fo); err != nil {
				return err
			}
			out = reflect.Append(out, elem)
		}
		rv.Set(out)
		return nil
	})
}

func (d *Decoder) decodeStruct(rv reflect.Value) error {
	si := structInfoFor(rv.Type())
	strict := si.strict || d.opts.disallowUnknown
	seen := make([]bool, len(si.fields))

	err := d.ReadStruct(func(it *FieldIter) error {
		for {
			key, ok, err := it.Next()
			if err != nil {
				return err
			}
			if !ok {
				return nil
			}
			i, found := si.byKey[key]
			if !found {
				if strict {
					return Errorf("unknown field `%s`, expected one of %s", key, quoteList(si.keys()))
				}
				d.trace("Ignoring unknown field.", "key", key, "type", rv.Type().String())
				if err := it.Skip(); err != nil {
					return err
				}
				continue
			}
			fi := si.fields[i]
			if err := d.decodeValue(rv.Field(fi.index), fi.opts); err != nil {
				return err
			}
			seen[i] = true
		}
	})
	if err != nil {
		return err
	}

	for i, fi := range si.fields {
		if fi.required && !seen[i] {
			return Errorf("missing field `%s`", fi.key)
		}
	}
	return nil
}

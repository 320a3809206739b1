// Package decode turns a raw oconfig tree into typed Go records.
//
// Decoding happens in two phases. Group first folds sibling items that share
// a key into one Entry, so that
//
//	Key "a" "b"
//	Key "c"
//
// becomes a single Entry "Key" holding three strings, and every child block
// becomes an Object node under its parent's key. The Decoder then walks the
// grouped tree with an explicit stack of frames while the target type pulls
// values out of it through the Unmarshaler protocol: ReadStruct for records,
// ReadSeq for lists, ReadEnum for unit enumerations and the scalar Read*
// methods for leaves.
//
// Types that do not implement Unmarshaler are decoded by reflection. Struct
// fields are matched by their `oconfig` tag, or by their Go name when the tag
// is absent:
//
//	type GraphiteNode struct {
//		Name    string  `oconfig:"Name,required"`
//		Address string  `oconfig:"Address,required"`
//		Prefix  *string `oconfig:"Prefix"`
//	}
//
// Repeated keys decode into slices, child blocks into nested structs, and
// pointers mark optional fields. A field whose key never appears keeps
// whatever value the caller put there before decoding, which is how defaults
// are expressed.
package decode

package resp

// Kind identifies a frame variant by its leading wire byte.
type Kind byte

// Frame sigils.
const (
	KindSimpleString Kind = '+'
	KindSimpleError  Kind = '-'
	KindInteger      Kind = ':'
	KindBulkString   Kind = '$'
	KindArray        Kind = '*'
	KindNull         Kind = '_'
	KindBoolean      Kind = '#'
	KindDouble       Kind = ','
	KindMap          Kind = '%'
	KindSet          Kind = '~'
)

// String returns the variant name for k.
func (k Kind) String() string {
	switch k {
	case KindSimpleString:
		return "simple-string"
	case KindSimpleError:
		return "simple-error"
	case KindInteger:
		return "integer"
	case KindBulkString:
		return "bulk-string"
	case KindArray:
		return "array"
	case KindNull:
		return "null"
	case KindBoolean:
		return "boolean"
	case KindDouble:
		return "double"
	case KindMap:
		return "map"
	case KindSet:
		return "set"
	default:
		return "unknown(" + string(rune(k)) + ")"
	}
}

// Frame is one self-delimiting RESP value.
//
// The set of implementations is closed: only the types declared in this
// file satisfy it.
type Frame interface {
	Kind() Kind
	frame()
}

// SimpleString is a line of text without CR or LF.
type SimpleString string

// SimpleError is an error line sent to the peer.
type SimpleError string

// Integer is a signed 64-bit integer.
type Integer int64

// BulkString is a binary-safe, length-prefixed byte string.
type BulkString []byte

// NullBulkString is the "$-1" marker.
type NullBulkString struct{}

// Array is an ordered sequence of frames.
type Array []Frame

// NullArray is the "*-1" marker.
type NullArray struct{}

// Null is the RESP3 null value.
type Null struct{}

// Boolean is a RESP3 boolean.
type Boolean bool

// Double is a RESP3 64-bit float.
type Double float64

// Map is a RESP3 map keyed by string. Entries are encoded in ascending key order.
type Map map[string]Frame

// Set is a RESP3 set. The codec keeps element order and does not deduplicate.
type Set []Frame

func (SimpleString) Kind() Kind   { return KindSimpleString }
func (SimpleError) Kind() Kind    { return KindSimpleError }
func (Integer) Kind() Kind        { return KindInteger }
func (BulkString) Kind() Kind     { return KindBulkString }
func (NullBulkString) Kind() Kind { return KindBulkString }
func (Array) Kind() Kind          { return KindArray }
func (NullArray) Kind() Kind      { return KindArray }
func (Null) Kind() Kind           { return KindNull }
func (Boolean) Kind() Kind        { return KindBoolean }
func (Double) Kind() Kind         { return KindDouble }
func (Map) Kind() Kind            { return KindMap }
func (Set) Kind() Kind            { return KindSet }

func (SimpleString) frame()   {}
func (SimpleError) frame()    {}
func (Integer) frame()        {}
func (BulkString) frame()     {}
func (NullBulkString) frame() {}
func (Array) frame()          {}
func (NullArray) frame()      {}
func (Null) frame()           {}
func (Boolean) frame()        {}
func (Double) frame()         {}
func (Map) frame()            {}
func (Set) frame()            {}

// OK is the standard success reply.
var OK Frame = SimpleString("OK")

// BulkStrings builds the Array of BulkStrings a client sends as a command.
func BulkStrings(args ...string) Array {
	arr := make(Array, len(args))
	for i, a := range args {
		arr[i] = BulkString(a)
	}
	return arr
}

// KindOf returns the sigil f is encoded with. A nil Frame is Null.
func KindOf(f Frame) Kind {
	if f == nil {
		return KindNull
	}
	return f.Kind()
}
